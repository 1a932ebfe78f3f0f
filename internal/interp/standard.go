package interp

import (
	"forthic/internal/stdlib"
)

// NewStandard creates an interpreter with the standard word modules imported
// unprefixed, so scripts can use DUP, MAP, REC and friends directly. The
// modules are also registered by name for prefixed re-import.
func NewStandard(timezone string) (*Interpreter, error) {
	i, err := New(timezone)
	if err != nil {
		return nil, err
	}
	for _, m := range stdlib.All() {
		i.ImportModule(m, "")
	}
	return i, nil
}
