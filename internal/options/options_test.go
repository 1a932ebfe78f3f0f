package options

import (
	"testing"

	"forthic/internal/errors"
	"forthic/internal/stack"
	"forthic/internal/value"
)

func TestFromArray(t *testing.T) {
	items := []value.Value{
		&value.Str{Value: ".key1"},
		&value.Int{Value: 42},
		&value.Str{Value: ".key2"},
		&value.Str{Value: "value"},
	}

	opts, err := FromArray(items)
	if err != nil {
		t.Fatalf("FromArray failed: %v", err)
	}
	if opts.Len() != 2 {
		t.Fatalf("Len = %d", opts.Len())
	}
	if got := opts.GetInt("key1", 0); got != 42 {
		t.Errorf("key1 = %d", got)
	}
	if got := opts.GetString("key2", ""); got != "value" {
		t.Errorf("key2 = %q", got)
	}
}

func TestFromArraySkipsNonMarkers(t *testing.T) {
	items := []value.Value{
		&value.Int{Value: 7},
		&value.Str{Value: "plain"},
		&value.Str{Value: ".depth"},
		&value.Int{Value: 2},
	}
	opts, err := FromArray(items)
	if err != nil {
		t.Fatalf("FromArray failed: %v", err)
	}
	if opts.Len() != 1 || opts.GetInt("depth", 0) != 2 {
		t.Errorf("wrong options: %v", opts.Keys())
	}
}

func TestFromArrayTrailingMarker(t *testing.T) {
	items := []value.Value{
		&value.Str{Value: ".a"},
		&value.Int{Value: 1},
		&value.Str{Value: ".b"},
	}
	_, err := FromArray(items)
	if _, ok := err.(*errors.InvalidOptions); !ok {
		t.Errorf("expected InvalidOptions, got %v", err)
	}
}

func TestPopOptionsIfPresent(t *testing.T) {
	st := stack.New()
	st.Push(&value.Array{Items: []value.Value{
		&value.Str{Value: ".limit"},
		&value.Int{Value: 10},
	}})

	opts, err := PopOptionsIfPresent(st)
	if err != nil {
		t.Fatalf("failed: %v", err)
	}
	if opts == nil || opts.GetInt("limit", 0) != 10 {
		t.Errorf("options not popped")
	}
	if st.Len() != 0 {
		t.Errorf("array left on stack")
	}
}

func TestPopOptionsLeavesPlainArray(t *testing.T) {
	st := stack.New()
	st.Push(&value.Array{Items: []value.Value{
		&value.Int{Value: 1},
		&value.Int{Value: 2},
	}})

	opts, err := PopOptionsIfPresent(st)
	if err != nil {
		t.Fatalf("failed: %v", err)
	}
	if opts != nil {
		t.Errorf("plain array mistaken for options")
	}
	if st.Len() != 1 {
		t.Errorf("plain array was popped")
	}
}

func TestPopOptionsLeavesNonArray(t *testing.T) {
	st := stack.New()
	st.Push(&value.Str{Value: ".not-an-array"})

	opts, _ := PopOptionsIfPresent(st)
	if opts != nil || st.Len() != 1 {
		t.Errorf("non-array top should be untouched")
	}
}
