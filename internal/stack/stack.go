// Package stack implements the interpreter's value stack.
package stack

import (
	"forthic/internal/errors"
	"forthic/internal/value"
)

type Stack struct {
	items []value.Value
}

func New() *Stack {
	return &Stack{}
}

func (s *Stack) Push(v value.Value) {
	s.items = append(s.items, v)
}

func (s *Stack) Pop() (value.Value, error) {
	if len(s.items) == 0 {
		return nil, &errors.StackUnderflow{}
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

// Peek returns the top value without removing it, or nil when empty.
func (s *Stack) Peek() value.Value {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *Stack) Len() int {
	return len(s.items)
}

func (s *Stack) Clear() {
	s.items = s.items[:0]
}

// At returns the value at depth i, where 0 is the top of the stack.
func (s *Stack) At(i int) (value.Value, error) {
	if i < 0 || i >= len(s.items) {
		return nil, &errors.StackUnderflow{}
	}
	return s.items[len(s.items)-1-i], nil
}

// Items returns the stack contents bottom first.
func (s *Stack) Items() []value.Value {
	out := make([]value.Value, len(s.items))
	copy(out, s.items)
	return out
}
