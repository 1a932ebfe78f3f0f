package lexer

import (
	"testing"

	"forthic/internal/errors"
	"forthic/internal/token"
)

func nextOrFail(t *testing.T, l *Lexer) token.Token {
	t.Helper()
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("NextToken failed: %v", err)
	}
	return tok
}

func TestNextToken(t *testing.T) {
	input := `: DOUBLE   2 * ;
@: CACHED   1 ;
[ 1 2.5 "hello" ] { } .key # trailing comment
`

	tests := []struct {
		expectedType token.TokenType
		expectedText string
	}{
		{token.START_DEF, "DOUBLE"},
		{token.WORD, "2"},
		{token.WORD, "*"},
		{token.END_DEF, ";"},
		{token.START_MEMO, "CACHED"},
		{token.WORD, "1"},
		{token.END_DEF, ";"},
		{token.START_ARRAY, "["},
		{token.WORD, "1"},
		{token.WORD, "2.5"},
		{token.STRING, "hello"},
		{token.END_ARRAY, "]"},
		{token.START_MODULE, "{"},
		{token.END_MODULE, "}"},
		{token.DOT_SYMBOL, ".key"},
		{token.COMMENT, " trailing comment"},
		{token.EOS, ""},
	}

	l := New()
	l.Append(input)

	for i, tt := range tests {
		tok := nextOrFail(t, l)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong type. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Text)
		}
		if tok.Text != tt.expectedText {
			t.Fatalf("tests[%d] - wrong text. expected=%q, got=%q", i, tt.expectedText, tok.Text)
		}
	}
}

func TestTokenLocations(t *testing.T) {
	l := New()
	l.Append("DUP SWAP")

	dup := nextOrFail(t, l)
	swap := nextOrFail(t, l)

	if dup.Loc.Start != 0 || dup.Loc.End != 3 {
		t.Errorf("DUP location wrong: %d..%d", dup.Loc.Start, dup.Loc.End)
	}
	if swap.Loc.Start != 4 || swap.Loc.End != 8 {
		t.Errorf("SWAP location wrong: %d..%d", swap.Loc.Start, swap.Loc.End)
	}
	if swap.Loc.Start <= dup.Loc.Start {
		t.Errorf("locations not increasing")
	}
	if dup.Loc.Excerpt != "DUP SWAP" {
		t.Errorf("wrong excerpt: %q", dup.Loc.Excerpt)
	}
}

func TestOffsetsSurviveAppend(t *testing.T) {
	l := New()
	l.Append("AAA")
	first := nextOrFail(t, l)
	if first.Loc.Start != 0 {
		t.Fatalf("first token start = %d", first.Loc.Start)
	}

	l.Append(" BBB")
	second := nextOrFail(t, l)
	if second.Loc.Start != 4 || second.Loc.End != 7 {
		t.Errorf("appended token location wrong: %d..%d", second.Loc.Start, second.Loc.End)
	}
}

func TestStreamingMidString(t *testing.T) {
	l := New()
	l.Append(`"abc`)

	if _, err := l.NextToken(); err != ErrMoreInput {
		t.Fatalf("expected ErrMoreInput, got %v", err)
	}

	l.Append(`def"`)
	tok := nextOrFail(t, l)
	if tok.Type != token.STRING || tok.Text != "abcdef" {
		t.Errorf("wrong resumed string: %q (%q)", tok.Text, tok.Type)
	}
}

func TestStreamingMidComment(t *testing.T) {
	l := New()
	l.Append("# partial")

	if _, err := l.NextToken(); err != ErrMoreInput {
		t.Fatalf("expected ErrMoreInput, got %v", err)
	}

	l.Append(" comment\nNEXT")
	tok := nextOrFail(t, l)
	if tok.Type != token.COMMENT || tok.Text != " partial comment" {
		t.Errorf("wrong resumed comment: %q", tok.Text)
	}
	tok = nextOrFail(t, l)
	if tok.Type != token.WORD || tok.Text != "NEXT" {
		t.Errorf("wrong token after comment: %q", tok.Text)
	}
}

func TestTripleQuoteString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"""plain"""`, "plain"},
		{`"""has "quotes" inside"""`, `has "quotes" inside`},
		{`"""ends with quote""""`, `ends with quote"`},
		{"\"\"\"multi\nline\"\"\"", "multi\nline"},
	}

	for _, tt := range tests {
		l := New()
		l.Append(tt.input)
		tok := nextOrFail(t, l)
		if tok.Type != token.STRING || tok.Text != tt.expected {
			t.Errorf("input %q: got %q (%q)", tt.input, tok.Text, tok.Type)
		}
	}
}

func TestDatetimeBracketCapture(t *testing.T) {
	l := New()
	l.Append("2024-01-02T03:04:05[America/New_York] NEXT")

	tok := nextOrFail(t, l)
	if tok.Type != token.WORD || tok.Text != "2024-01-02T03:04:05[America/New_York]" {
		t.Fatalf("zone bracket not captured: %q", tok.Text)
	}
	tok = nextOrFail(t, l)
	if tok.Text != "NEXT" {
		t.Errorf("wrong follow-on token: %q", tok.Text)
	}
}

func TestBracketWithoutTStartsArray(t *testing.T) {
	l := New()
	l.Append("WORD[ 1 ]")

	tok := nextOrFail(t, l)
	if tok.Type != token.WORD || tok.Text != "WORD" {
		t.Fatalf("expected WORD, got %q (%q)", tok.Text, tok.Type)
	}
	tok = nextOrFail(t, l)
	if tok.Type != token.START_ARRAY {
		t.Errorf("expected START_ARRAY, got %q", tok.Type)
	}
}

func TestInvalidCharacter(t *testing.T) {
	l := New()
	l.Append("DUP ` SWAP")

	nextOrFail(t, l)
	_, err := l.NextToken()
	lexErr, ok := err.(*errors.LexError)
	if !ok {
		t.Fatalf("expected LexError, got %v", err)
	}
	if lexErr.Char != '`' {
		t.Errorf("wrong char: %q", lexErr.Char)
	}
	if lexErr.Loc == nil || lexErr.Loc.Start != 4 {
		t.Errorf("wrong location: %+v", lexErr.Loc)
	}
}

func TestInvalidDefinitionName(t *testing.T) {
	for _, input := range []string{`: BAD"NAME 1 ;`, ": BAD[ 1 ;", ": BAD}X 1 ;"} {
		l := New()
		l.Append(input)
		_, err := l.NextToken()
		if _, ok := err.(*errors.ParseError); !ok {
			t.Errorf("input %q: expected ParseError, got %v", input, err)
		}
	}
}

func TestLoneDotIsWord(t *testing.T) {
	l := New()
	l.Append(". .key")

	tok := nextOrFail(t, l)
	if tok.Type != token.WORD || tok.Text != "." {
		t.Fatalf("lone dot: got %q (%q)", tok.Text, tok.Type)
	}
	tok = nextOrFail(t, l)
	if tok.Type != token.DOT_SYMBOL || tok.Text != ".key" {
		t.Errorf("dot symbol: got %q (%q)", tok.Text, tok.Type)
	}
}

func TestParensAndCommasAreWhitespace(t *testing.T) {
	l := New()
	l.Append("( a b -- c ) 1,2")

	wantTexts := []string{"a", "b", "--", "c", "1", "2"}
	for _, want := range wantTexts {
		tok := nextOrFail(t, l)
		if tok.Text != want {
			t.Fatalf("expected %q, got %q", want, tok.Text)
		}
	}
}
