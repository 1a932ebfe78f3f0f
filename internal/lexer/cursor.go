package lexer

// Cursor holds the entire source text fed to the lexer so far. Positions are
// rune offsets from the start of the stream; appending more text never moves
// or renumbers anything already read.
type Cursor struct {
	input []rune
	pos   int
}

func NewCursor() *Cursor {
	return &Cursor{}
}

func (c *Cursor) Append(text string) {
	c.input = append(c.input, []rune(text)...)
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) SetPos(p int) {
	c.pos = p
}

func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.input)
}

// Peek returns the rune at the cursor, or 0 at end of input.
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt returns the rune n positions ahead of the cursor, or 0 past the end.
func (c *Cursor) PeekAt(n int) rune {
	if c.pos+n >= len(c.input) {
		return 0
	}
	return c.input[c.pos+n]
}

// Advance consumes and returns the rune at the cursor.
func (c *Cursor) Advance() rune {
	ch := c.input[c.pos]
	c.pos++
	return ch
}

func (c *Cursor) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.input) {
		end = len(c.input)
	}
	if start >= end {
		return ""
	}
	return string(c.input[start:end])
}

// Line returns the source line containing offset and the offset of its first
// rune.
func (c *Cursor) Line(offset int) (string, int) {
	if offset > len(c.input) {
		offset = len(c.input)
	}
	start := offset
	for start > 0 && c.input[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(c.input) && c.input[end] != '\n' {
		end++
	}
	return string(c.input[start:end]), start
}
