package value

import (
	"testing"
	"time"
)

func TestCloneIsDeep(t *testing.T) {
	inner := &Array{Items: []Value{&Int{Value: 1}}}
	rec := NewRecord()
	rec.Fields["items"] = inner

	clone := rec.Clone().(*Record)
	clonedInner := clone.Fields["items"].(*Array)
	clonedInner.Items[0] = &Int{Value: 99}

	if inner.Items[0].(*Int).Value != 1 {
		t.Errorf("clone shares backing storage with the original")
	}
}

func TestEqualNumeric(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{&Int{Value: 1}, &Float{Value: 1.0}, true},
		{&Int{Value: 1}, &Int{Value: 2}, false},
		{&Float{Value: 2.5}, &Float{Value: 2.5}, true},
		{&Int{Value: 1}, &Str{Value: "1"}, false},
	}
	for i, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("tests[%d]: Equal(%s, %s) = %v", i, tt.a.Inspect(), tt.b.Inspect(), got)
		}
	}
}

func TestEqualContainers(t *testing.T) {
	a := &Array{Items: []Value{&Int{Value: 1}, &Str{Value: "x"}}}
	b := &Array{Items: []Value{&Float{Value: 1}, &Str{Value: "x"}}}
	if !Equal(a, b) {
		t.Errorf("arrays with numerically equal items should be equal")
	}

	r1 := NewRecord()
	r1.Fields["k"] = TRUE
	r2 := NewRecord()
	r2.Fields["k"] = FALSE
	if Equal(r1, r2) {
		t.Errorf("records with different fields should not be equal")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NULL, "NULL"},
		{TRUE, "true"},
		{&Int{Value: 42}, "42"},
		{&Float{Value: 2.5}, "2.5"},
		{&Array{Items: []Value{&Int{Value: 1}, &Int{Value: 2}}}, "[1 2]"},
		{&Date{Year: 2023, Month: time.December, Day: 25}, "2023-12-25"},
		{&Time{Hour: 14, Minute: 30}, "14:30:00"},
	}
	for i, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("tests[%d]: Inspect() = %q, want %q", i, got, tt.want)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	truthy := []Value{TRUE, &Int{Value: 1}, &Str{Value: "x"}, &Array{Items: []Value{NULL}}}
	falsy := []Value{NULL, FALSE, &Int{Value: 0}, &Str{Value: ""}, &Array{}}
	for _, v := range truthy {
		if !IsTruthy(v) {
			t.Errorf("%s should be truthy", v.Inspect())
		}
	}
	for _, v := range falsy {
		if IsTruthy(v) {
			t.Errorf("%s should be falsy", v.Inspect())
		}
	}
}
