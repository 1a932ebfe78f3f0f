// Package lexer turns Forthic source into located tokens. The lexer is
// streaming: input arrives through Append, and when the text ends inside a
// string or comment NextToken returns ErrMoreInput and re-reads the construct
// once more text shows up. Token offsets are absolute across the whole
// stream and never reset.
package lexer

import (
	"strings"

	"forthic/internal/errors"
	"forthic/internal/token"
)

// ErrMoreInput reports that the input ends inside a construct that appended
// text could complete. The pending text stays buffered; the next call after
// an Append resumes from the start of the construct.
var ErrMoreInput error = moreInputError{}

type moreInputError struct{}

func (moreInputError) Error() string { return "more input required" }

// invalidChar has no meaning anywhere in the language and always fails the
// lexer.
const invalidChar = '`'

type Lexer struct {
	cur *Cursor
}

func New() *Lexer {
	return &Lexer{cur: NewCursor()}
}

func (l *Lexer) Append(text string) {
	l.cur.Append(text)
}

// Pos returns the absolute offset of the next unread rune.
func (l *Lexer) Pos() int {
	return l.cur.Pos()
}

// Slice returns the source text between two absolute offsets.
func (l *Lexer) Slice(start, end int) string {
	return l.cur.Slice(start, end)
}

func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()
	start := l.cur.Pos()

	if l.cur.AtEnd() {
		return l.makeToken(token.EOS, "", start), nil
	}

	ch := l.cur.Peek()
	switch {
	case ch == '#':
		return l.lexComment(start)
	case ch == ':':
		l.cur.Advance()
		return l.lexDefinitionName(start, token.START_DEF)
	case ch == '@' && l.cur.PeekAt(1) == ':':
		l.cur.Advance()
		l.cur.Advance()
		return l.lexDefinitionName(start, token.START_MEMO)
	case ch == ';':
		l.cur.Advance()
		return l.makeToken(token.END_DEF, ";", start), nil
	case ch == '[':
		l.cur.Advance()
		return l.makeToken(token.START_ARRAY, "[", start), nil
	case ch == ']':
		l.cur.Advance()
		return l.makeToken(token.END_ARRAY, "]", start), nil
	case ch == '{':
		l.cur.Advance()
		return l.makeToken(token.START_MODULE, "{", start), nil
	case ch == '}':
		l.cur.Advance()
		return l.makeToken(token.END_MODULE, "}", start), nil
	case isQuote(ch):
		if l.cur.PeekAt(1) == ch && l.cur.PeekAt(2) == ch {
			return l.lexTripleQuoteString(start, ch)
		}
		return l.lexString(start, ch)
	case ch == '.':
		return l.lexDotSymbol(start)
	case ch == invalidChar:
		return l.lexFail(start)
	default:
		return l.lexWord(start)
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.cur.AtEnd() && isWhitespace(l.cur.Peek()) {
		l.cur.Advance()
	}
}

// lexComment consumes "# ..." through the end of line. A comment that the
// input ends in the middle of is held back until more text arrives.
func (l *Lexer) lexComment(start int) (token.Token, error) {
	l.cur.Advance() // '#'
	var text strings.Builder
	for {
		if l.cur.AtEnd() {
			l.cur.SetPos(start)
			return token.Token{}, ErrMoreInput
		}
		ch := l.cur.Advance()
		if ch == '\n' {
			break
		}
		text.WriteRune(ch)
	}
	return l.makeToken(token.COMMENT, text.String(), start), nil
}

// lexDefinitionName gathers the name after ':' or '@:'. Quote characters and
// structural characters are not valid in definition names.
func (l *Lexer) lexDefinitionName(start int, tokenType token.TokenType) (token.Token, error) {
	for !l.cur.AtEnd() && isWhitespace(l.cur.Peek()) {
		l.cur.Advance()
	}

	var name strings.Builder
	for !l.cur.AtEnd() {
		ch := l.cur.Peek()
		if isWhitespace(ch) {
			break
		}
		if isQuote(ch) || isStructural(ch) {
			loc := l.location(start, l.cur.Pos()+1)
			return token.Token{}, &errors.ParseError{
				Note: "invalid character in definition name",
				Text: name.String() + string(ch),
				Loc:  &loc,
			}
		}
		if ch == invalidChar {
			return l.lexFail(l.cur.Pos())
		}
		name.WriteRune(l.cur.Advance())
	}

	if name.Len() == 0 {
		loc := l.location(start, l.cur.Pos())
		return token.Token{}, &errors.ParseError{Note: "missing definition name", Loc: &loc}
	}
	return l.makeToken(tokenType, name.String(), start), nil
}

// lexString consumes a single-quote-delimited string. The token text excludes
// the delimiters; the location covers them.
func (l *Lexer) lexString(start int, quote rune) (token.Token, error) {
	l.cur.Advance() // opening quote
	var text strings.Builder
	for {
		if l.cur.AtEnd() {
			l.cur.SetPos(start)
			return token.Token{}, ErrMoreInput
		}
		ch := l.cur.Advance()
		if ch == quote {
			break
		}
		text.WriteRune(ch)
	}
	return l.makeToken(token.STRING, text.String(), start), nil
}

// lexTripleQuoteString consumes a triple-quoted string. The closing triple
// only counts when it is not followed by yet another quote character, so
// content may end with quotes.
func (l *Lexer) lexTripleQuoteString(start int, quote rune) (token.Token, error) {
	l.cur.Advance()
	l.cur.Advance()
	l.cur.Advance()
	var text strings.Builder
	for {
		if l.cur.AtEnd() {
			l.cur.SetPos(start)
			return token.Token{}, ErrMoreInput
		}
		if l.cur.Peek() == quote && l.cur.PeekAt(1) == quote && l.cur.PeekAt(2) == quote &&
			l.cur.PeekAt(3) != quote {
			l.cur.Advance()
			l.cur.Advance()
			l.cur.Advance()
			break
		}
		text.WriteRune(l.cur.Advance())
	}
	return l.makeToken(token.STRING, text.String(), start), nil
}

// lexDotSymbol consumes ".name". The leading dot is kept in the token text.
// A lone '.' is an ordinary word.
func (l *Lexer) lexDotSymbol(start int) (token.Token, error) {
	l.cur.Advance() // '.'
	var name strings.Builder
	name.WriteRune('.')
	for !l.cur.AtEnd() {
		ch := l.cur.Peek()
		if isWhitespace(ch) || isStructural(ch) || isQuote(ch) || ch == '#' {
			break
		}
		if ch == invalidChar {
			return l.lexFail(l.cur.Pos())
		}
		name.WriteRune(l.cur.Advance())
	}
	if name.Len() == 1 {
		return l.makeToken(token.WORD, ".", start), nil
	}
	return l.makeToken(token.DOT_SYMBOL, name.String(), start), nil
}

// lexWord gathers a word token. A word containing 'T' that runs into '[' is
// a zoned datetime literal, so the bracketed zone is swallowed into the word
// ("2024-01-02T03:04:05[America/New_York]").
func (l *Lexer) lexWord(start int) (token.Token, error) {
	var text strings.Builder
	for !l.cur.AtEnd() {
		ch := l.cur.Peek()
		if ch == invalidChar {
			return l.lexFail(l.cur.Pos())
		}
		if ch == '[' && strings.ContainsRune(text.String(), 'T') {
			text.WriteRune(l.cur.Advance())
			for !l.cur.AtEnd() {
				zch := l.cur.Advance()
				text.WriteRune(zch)
				if zch == ']' {
					break
				}
			}
			continue
		}
		if isWhitespace(ch) || isStructural(ch) || ch == '#' {
			break
		}
		text.WriteRune(l.cur.Advance())
	}
	return l.makeToken(token.WORD, text.String(), start), nil
}

func (l *Lexer) lexFail(at int) (token.Token, error) {
	loc := l.location(at, at+1)
	return token.Token{}, &errors.LexError{Char: invalidChar, Loc: &loc}
}

func (l *Lexer) makeToken(tokenType token.TokenType, text string, start int) token.Token {
	return token.New(tokenType, text, l.location(start, l.cur.Pos()))
}

func (l *Lexer) location(start, end int) token.CodeLocation {
	excerpt, excerptStart := l.cur.Line(start)
	return token.CodeLocation{
		Start:        start,
		End:          end,
		Excerpt:      excerpt,
		ExcerptStart: excerptStart,
	}
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', ',':
		return true
	}
	return false
}

func isStructural(ch rune) bool {
	switch ch {
	case ';', '[', ']', '{', '}':
		return true
	}
	return false
}

func isQuote(ch rune) bool {
	return ch == '"' || ch == '\'' || ch == '^'
}
