package token

type TokenType string

const (
	WORD       = "WORD"
	STRING     = "STRING"
	COMMENT    = "COMMENT"
	DOT_SYMBOL = "DOT_SYMBOL"

	START_ARRAY  = "START_ARRAY"
	END_ARRAY    = "END_ARRAY"
	START_MODULE = "START_MODULE"
	END_MODULE   = "END_MODULE"
	START_DEF    = "START_DEF"
	END_DEF      = "END_DEF"
	START_MEMO   = "START_MEMO"

	EOS = "EOS"
)

// CodeLocation identifies a span of source text. Offsets are absolute rune
// offsets from the start of the stream and survive appended input.
type CodeLocation struct {
	Start        int    // offset of the first rune of the span
	End          int    // offset one past the last rune of the span
	Excerpt      string // the source line containing the span
	ExcerptStart int    // offset of the first rune of Excerpt
}

// Column returns the zero-based column of the span within Excerpt.
func (l *CodeLocation) Column() int {
	col := l.Start - l.ExcerptStart
	if col < 0 {
		return 0
	}
	return col
}

// Width returns the span width in runes, at least 1.
func (l *CodeLocation) Width() int {
	w := l.End - l.Start
	if w < 1 {
		return 1
	}
	return w
}

type Token struct {
	Type TokenType
	Text string
	Loc  CodeLocation
}

func New(tokenType TokenType, text string, loc CodeLocation) Token {
	return Token{Type: tokenType, Text: text, Loc: loc}
}
