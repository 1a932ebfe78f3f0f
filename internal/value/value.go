// Package value defines the runtime values the interpreter moves between the
// stack, variables and word definitions.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	NULL_KIND         = "NULL"
	BOOL_KIND         = "BOOL"
	INT_KIND          = "INT"
	FLOAT_KIND        = "FLOAT"
	STRING_KIND       = "STRING"
	ARRAY_KIND        = "ARRAY"
	RECORD_KIND       = "RECORD"
	DATE_KIND         = "DATE"
	TIME_KIND         = "TIME"
	DATETIME_KIND     = "DATETIME"
	ARRAY_MARKER_KIND = "ARRAY_MARKER"
)

type Value interface {
	Kind() Kind
	Inspect() string
	Clone() Value
}

var (
	NULL   = &Null{}
	TRUE   = &Bool{Value: true}
	FALSE  = &Bool{Value: false}
	MARKER = &ArrayMarker{}
)

type Null struct{}

func (n *Null) Kind() Kind      { return NULL_KIND }
func (n *Null) Inspect() string { return "NULL" }
func (n *Null) Clone() Value    { return NULL }

type Bool struct {
	Value bool
}

func (b *Bool) Kind() Kind      { return BOOL_KIND }
func (b *Bool) Inspect() string { return strconv.FormatBool(b.Value) }
func (b *Bool) Clone() Value    { return FromBool(b.Value) }

type Int struct {
	Value int64
}

func (i *Int) Kind() Kind      { return INT_KIND }
func (i *Int) Inspect() string { return strconv.FormatInt(i.Value, 10) }
func (i *Int) Clone() Value    { return &Int{Value: i.Value} }

type Float struct {
	Value float64
}

func (f *Float) Kind() Kind      { return FLOAT_KIND }
func (f *Float) Inspect() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (f *Float) Clone() Value    { return &Float{Value: f.Value} }

type Str struct {
	Value string
}

func (s *Str) Kind() Kind      { return STRING_KIND }
func (s *Str) Inspect() string { return s.Value }
func (s *Str) Clone() Value    { return &Str{Value: s.Value} }

type Array struct {
	Items []Value
}

func (a *Array) Kind() Kind { return ARRAY_KIND }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Items))
	for i, item := range a.Items {
		parts[i] = item.Inspect()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (a *Array) Clone() Value {
	items := make([]Value, len(a.Items))
	for i, item := range a.Items {
		items[i] = item.Clone()
	}
	return &Array{Items: items}
}

type Record struct {
	Fields map[string]Value
}

func NewRecord() *Record {
	return &Record{Fields: map[string]Value{}}
}

func (r *Record) Kind() Kind { return RECORD_KIND }

func (r *Record) Inspect() string {
	keys := r.SortedKeys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, r.Fields[k].Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) Clone() Value {
	fields := make(map[string]Value, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v.Clone()
	}
	return &Record{Fields: fields}
}

func (r *Record) SortedKeys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Date is a calendar date with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d *Date) Kind() Kind      { return DATE_KIND }
func (d *Date) Inspect() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }
func (d *Date) Clone() Value    { return &Date{Year: d.Year, Month: d.Month, Day: d.Day} }

// Time is a wall-clock time with no date component.
type Time struct {
	Hour   int
	Minute int
	Second int
}

func (t *Time) Kind() Kind      { return TIME_KIND }
func (t *Time) Inspect() string { return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second) }
func (t *Time) Clone() Value    { return &Time{Hour: t.Hour, Minute: t.Minute, Second: t.Second} }

// DateTime is a zoned instant.
type DateTime struct {
	Value time.Time
}

func (d *DateTime) Kind() Kind      { return DATETIME_KIND }
func (d *DateTime) Inspect() string { return d.Value.Format(time.RFC3339) }
func (d *DateTime) Clone() Value    { return &DateTime{Value: d.Value} }

// ArrayMarker is the sentinel pushed by a start-array token. It never appears
// in a finished array and is not representable in source.
type ArrayMarker struct{}

func (m *ArrayMarker) Kind() Kind      { return ARRAY_MARKER_KIND }
func (m *ArrayMarker) Inspect() string { return "<array>" }
func (m *ArrayMarker) Clone() Value    { return MARKER }

func FromBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}

func IsNull(v Value) bool {
	_, ok := v.(*Null)
	return v == nil || ok
}

// IsTruthy follows the conversion the boolean words use: NULL and false are
// falsy, zero numbers and empty strings/arrays are falsy, everything else is
// truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, *Null:
		return false
	case *Bool:
		return val.Value
	case *Int:
		return val.Value != 0
	case *Float:
		return val.Value != 0
	case *Str:
		return val.Value != ""
	case *Array:
		return len(val.Items) > 0
	default:
		return true
	}
}

// AsFloat widens Int and Float to float64.
func AsFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case *Int:
		return float64(val.Value), true
	case *Float:
		return val.Value, true
	default:
		return 0, false
	}
}

func AsInt(v Value) (int64, bool) {
	if i, ok := v.(*Int); ok {
		return i.Value, true
	}
	return 0, false
}

func AsString(v Value) (string, bool) {
	if s, ok := v.(*Str); ok {
		return s.Value, true
	}
	return "", false
}

func AsArray(v Value) (*Array, bool) {
	a, ok := v.(*Array)
	return a, ok
}

func AsRecord(v Value) (*Record, bool) {
	r, ok := v.(*Record)
	return r, ok
}

// Equal reports deep equality. Int and Float compare numerically across
// kinds; all other kinds must match exactly.
func Equal(a, b Value) bool {
	if fa, ok := AsFloat(a); ok {
		if fb, ok := AsFloat(b); ok {
			return fa == fb
		}
		return false
	}

	switch av := a.(type) {
	case nil, *Null:
		return IsNull(b)
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Str:
		bv, ok := b.(*Str)
		return ok && av.Value == bv.Value
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			other, found := bv.Fields[k]
			if !found || !Equal(v, other) {
				return false
			}
		}
		return true
	case *Date:
		bv, ok := b.(*Date)
		return ok && av.Year == bv.Year && av.Month == bv.Month && av.Day == bv.Day
	case *Time:
		bv, ok := b.(*Time)
		return ok && av.Hour == bv.Hour && av.Minute == bv.Minute && av.Second == bv.Second
	case *DateTime:
		bv, ok := b.(*DateTime)
		return ok && av.Value.Equal(bv.Value)
	case *ArrayMarker:
		_, ok := b.(*ArrayMarker)
		return ok
	default:
		return false
	}
}
