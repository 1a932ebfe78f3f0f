// Package errors defines the closed set of failures the interpreter can
// produce. Every error that can point at source text carries a CodeLocation
// and can be rendered with FormatWithContext.
package errors

import (
	"fmt"
	"strings"

	"forthic/internal/token"
)

// Located is implemented by errors that can point at source text. Location
// may return nil when the failure happened outside a token dispatch.
type Located interface {
	error
	Location() *token.CodeLocation
	SetLocation(loc *token.CodeLocation)
}

type UnknownWord struct {
	Word string
	Loc  *token.CodeLocation
}

func (e *UnknownWord) Error() string {
	return fmt.Sprintf("Unknown word: %s", e.Word)
}

func (e *UnknownWord) Location() *token.CodeLocation { return e.Loc }

func (e *UnknownWord) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type UnknownVariable struct {
	Name string
	Loc  *token.CodeLocation
}

func (e *UnknownVariable) Error() string {
	return fmt.Sprintf("Unknown variable: %s", e.Name)
}

func (e *UnknownVariable) Location() *token.CodeLocation { return e.Loc }

func (e *UnknownVariable) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type UnknownModule struct {
	Name string
	Loc  *token.CodeLocation
}

func (e *UnknownModule) Error() string {
	return fmt.Sprintf("Unknown module: %s", e.Name)
}

func (e *UnknownModule) Location() *token.CodeLocation { return e.Loc }

func (e *UnknownModule) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type StackUnderflow struct {
	Loc *token.CodeLocation
}

func (e *StackUnderflow) Error() string {
	return "Stack underflow"
}

func (e *StackUnderflow) Location() *token.CodeLocation { return e.Loc }

func (e *StackUnderflow) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type InvalidType struct {
	Expected string
	Actual   string
	Loc      *token.CodeLocation
}

func (e *InvalidType) Error() string {
	return fmt.Sprintf("Invalid type: expected %s, got %s", e.Expected, e.Actual)
}

func (e *InvalidType) Location() *token.CodeLocation { return e.Loc }

func (e *InvalidType) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type InvalidOptions struct {
	Reason string
	Loc    *token.CodeLocation
}

func (e *InvalidOptions) Error() string {
	return fmt.Sprintf("Invalid options: %s", e.Reason)
}

func (e *InvalidOptions) Location() *token.CodeLocation { return e.Loc }

func (e *InvalidOptions) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type LexError struct {
	Char rune
	Loc  *token.CodeLocation
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Invalid character: %q", e.Char)
}

func (e *LexError) Location() *token.CodeLocation { return e.Loc }

func (e *LexError) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

type ParseError struct {
	Text string // the offending source text, if any
	Note string
	Loc  *token.CodeLocation
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("Parse error: %s", e.Note)
	}
	return fmt.Sprintf("Parse error: %s: %s", e.Note, e.Text)
}

func (e *ParseError) Location() *token.CodeLocation { return e.Loc }

func (e *ParseError) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

// WordError wraps a failure that happened while executing a named word.
type WordError struct {
	Word string
	Loc  *token.CodeLocation
	Err  error
}

func (e *WordError) Error() string {
	return fmt.Sprintf("Error in word %s: %v", e.Word, e.Err)
}

func (e *WordError) Unwrap() error { return e.Err }

func (e *WordError) Location() *token.CodeLocation {
	if e.Loc != nil {
		return e.Loc
	}
	if inner, ok := e.Err.(Located); ok {
		return inner.Location()
	}
	return nil
}

func (e *WordError) SetLocation(loc *token.CodeLocation) {
	if e.Loc == nil {
		e.Loc = loc
	}
}

// WithLocation attaches loc to err if err is Located and does not already
// carry a location. Errors without location support pass through unchanged.
func WithLocation(err error, loc *token.CodeLocation) error {
	if err == nil {
		return nil
	}
	if le, ok := err.(Located); ok {
		le.SetLocation(loc)
	}
	return err
}

// FormatWithContext renders err with the source line and a caret run under
// the offending span:
//
//	Unknown word: GARBAGE (offset 4)
//	DUP GARBAGE SWAP
//	    ^^^^^^^
//
// Errors without a usable location render as err.Error().
func FormatWithContext(err error) string {
	if err == nil {
		return ""
	}

	le, ok := err.(Located)
	if !ok {
		return err.Error()
	}
	loc := le.Location()
	if loc == nil || loc.Excerpt == "" {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (offset %d)\n", err.Error(), loc.Start)
	b.WriteString(loc.Excerpt)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", loc.Column()))

	width := loc.Width()
	if max := len([]rune(loc.Excerpt)) - loc.Column(); width > max && max > 0 {
		width = max
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}
