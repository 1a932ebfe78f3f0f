// Package options implements word options: ".key value" pairs collected
// from a trailing array so words can take named arguments.
package options

import (
	"strings"

	"forthic/internal/errors"
	"forthic/internal/stack"
	"forthic/internal/value"
)

type WordOptions struct {
	opts map[string]value.Value
}

func New() *WordOptions {
	return &WordOptions{opts: map[string]value.Value{}}
}

// FromArray builds options from a flat array. Items are scanned left to
// right: a string starting with '.' is an option marker and pairs with the
// following item; anything else is skipped. A marker with nothing after it
// is InvalidOptions.
func FromArray(items []value.Value) (*WordOptions, error) {
	opts := New()
	for i := 0; i < len(items); i++ {
		key, ok := markerKey(items[i])
		if !ok {
			continue
		}
		if i+1 >= len(items) {
			return nil, &errors.InvalidOptions{Reason: "option marker ." + key + " has no value"}
		}
		opts.opts[key] = items[i+1].Clone()
		i++
	}
	return opts, nil
}

// HasMarkers reports whether any item in the array is an option marker.
func HasMarkers(items []value.Value) bool {
	for _, item := range items {
		if _, ok := markerKey(item); ok {
			return true
		}
	}
	return false
}

// PopOptionsIfPresent pops and converts the top of the stack when it is an
// array containing option markers. Any other top value, including an
// ordinary array, is left in place and nil options are returned.
func PopOptionsIfPresent(st *stack.Stack) (*WordOptions, error) {
	top := st.Peek()
	arr, ok := top.(*value.Array)
	if !ok || !HasMarkers(arr.Items) {
		return nil, nil
	}
	if _, err := st.Pop(); err != nil {
		return nil, err
	}
	return FromArray(arr.Items)
}

func markerKey(v value.Value) (string, bool) {
	s, ok := v.(*value.Str)
	if !ok {
		return "", false
	}
	rest, found := strings.CutPrefix(s.Value, ".")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

func (o *WordOptions) Len() int {
	return len(o.opts)
}

func (o *WordOptions) Has(key string) bool {
	_, ok := o.opts[key]
	return ok
}

// Get returns the value for key, or NULL when absent.
func (o *WordOptions) Get(key string) value.Value {
	if v, ok := o.opts[key]; ok {
		return v
	}
	return value.NULL
}

// GetOr returns the value for key, or fallback when absent.
func (o *WordOptions) GetOr(key string, fallback value.Value) value.Value {
	if v, ok := o.opts[key]; ok {
		return v
	}
	return fallback
}

func (o *WordOptions) GetInt(key string, fallback int64) int64 {
	if v, ok := o.opts[key]; ok {
		if i, ok := value.AsInt(v); ok {
			return i
		}
	}
	return fallback
}

func (o *WordOptions) GetBool(key string, fallback bool) bool {
	if v, ok := o.opts[key]; ok {
		if b, ok := v.(*value.Bool); ok {
			return b.Value
		}
	}
	return fallback
}

func (o *WordOptions) GetString(key string, fallback string) string {
	if v, ok := o.opts[key]; ok {
		if s, ok := value.AsString(v); ok {
			return s
		}
	}
	return fallback
}

func (o *WordOptions) Keys() []string {
	keys := make([]string, 0, len(o.opts))
	for k := range o.opts {
		keys = append(keys, k)
	}
	return keys
}

// ToRecord returns the options as a Record value.
func (o *WordOptions) ToRecord() *value.Record {
	rec := value.NewRecord()
	for k, v := range o.opts {
		rec.Fields[k] = v.Clone()
	}
	return rec
}
