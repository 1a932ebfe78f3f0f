package interp_test

import (
	"testing"

	"forthic/internal/errors"
	"forthic/internal/interp"
	"forthic/internal/value"
	"forthic/internal/words"
)

func standard(t *testing.T) *interp.Interpreter {
	t.Helper()
	i, err := interp.NewStandard("")
	if err != nil {
		t.Fatalf("NewStandard failed: %v", err)
	}
	return i
}

func run(t *testing.T, i *interp.Interpreter, code string) {
	t.Helper()
	if err := i.Run(code); err != nil {
		t.Fatalf("Run(%q) failed: %v", code, err)
	}
}

func popInt(t *testing.T, i *interp.Interpreter) int64 {
	t.Helper()
	v, err := i.StackPop()
	if err != nil {
		t.Fatalf("stack empty: %v", err)
	}
	n, ok := value.AsInt(v)
	if !ok {
		t.Fatalf("top of stack is %s, not an int", v.Inspect())
	}
	return n
}

func popArray(t *testing.T, i *interp.Interpreter) *value.Array {
	t.Helper()
	v, err := i.StackPop()
	if err != nil {
		t.Fatalf("stack empty: %v", err)
	}
	arr, ok := value.AsArray(v)
	if !ok {
		t.Fatalf("top of stack is %s, not an array", v.Inspect())
	}
	return arr
}

func TestLiteralsAndArithmetic(t *testing.T) {
	i := standard(t)
	run(t, i, "1 2 +")
	if got := popInt(t, i); got != 3 {
		t.Errorf("1 2 + = %d", got)
	}
}

func TestArrayBuilding(t *testing.T) {
	i := standard(t)
	run(t, i, `[ 1 "two" [ 3 ] ]`)
	arr := popArray(t, i)
	if len(arr.Items) != 3 {
		t.Fatalf("wrong length: %s", arr.Inspect())
	}
	if arr.Items[0].(*value.Int).Value != 1 {
		t.Errorf("first item wrong: %s", arr.Inspect())
	}
	inner, ok := value.AsArray(arr.Items[2])
	if !ok || len(inner.Items) != 1 {
		t.Errorf("nested array wrong: %s", arr.Inspect())
	}
}

func TestStreamingEquivalence(t *testing.T) {
	split := standard(t)
	run(t, split, "[ 1 2")
	run(t, split, " 3 ]")

	whole := standard(t)
	run(t, whole, "[ 1 2 3 ]")

	a := popArray(t, split)
	b := popArray(t, whole)
	if !value.Equal(a, b) {
		t.Errorf("split run %s != whole run %s", a.Inspect(), b.Inspect())
	}
}

func TestStreamingMidString(t *testing.T) {
	i := standard(t)
	run(t, i, `"abc`)
	if i.Stack().Len() != 0 {
		t.Fatalf("partial string should push nothing")
	}
	run(t, i, `def"`)
	v, _ := i.StackPop()
	if s, _ := value.AsString(v); s != "abcdef" {
		t.Errorf("resumed string = %q", s)
	}
}

func TestDefinition(t *testing.T) {
	i := standard(t)
	run(t, i, ": DOUBLE   2 * ;  5 DOUBLE")
	if got := popInt(t, i); got != 10 {
		t.Errorf("5 DOUBLE = %d", got)
	}
}

func TestDefinitionLateBinding(t *testing.T) {
	// Bodies are captured as text and re-run on call, so a definition may
	// reference words that only exist later.
	i := standard(t)
	run(t, i, ": F   G ;  : G   7 ;  F")
	if got := popInt(t, i); got != 7 {
		t.Errorf("F = %d", got)
	}
}

func TestDoubleReverse(t *testing.T) {
	i := standard(t)
	run(t, i, "[ 1 2 3 ] REVERSE REVERSE")
	arr := popArray(t, i)
	want := []int64{1, 2, 3}
	for idx, w := range want {
		if arr.Items[idx].(*value.Int).Value != w {
			t.Fatalf("REVERSE REVERSE not an identity: %s", arr.Inspect())
		}
	}
}

func TestMemoDefinition(t *testing.T) {
	i := standard(t)
	run(t, i, `[ "count" ] VARIABLES  0 "count" !`)
	run(t, i, `@: NEXT-ID   "count" @ 1 + "count" !@ ;`)

	run(t, i, "NEXT-ID NEXT-ID NEXT-ID")
	for n := 0; n < 3; n++ {
		if got := popInt(t, i); got != 1 {
			t.Fatalf("memo recomputed: got %d", got)
		}
	}

	// NAME! clears without executing.
	run(t, i, "NEXT-ID!")
	if i.Stack().Len() != 0 {
		t.Fatalf("NEXT-ID! should leave the stack alone")
	}
	run(t, i, "NEXT-ID")
	if got := popInt(t, i); got != 2 {
		t.Errorf("after clear, got %d", got)
	}

	// NAME!@ clears, recomputes and leaves the fresh value.
	run(t, i, "NEXT-ID!@")
	if got := popInt(t, i); got != 3 {
		t.Errorf("NEXT-ID!@ left %d", got)
	}
}

func TestModuleBlockAndUseModule(t *testing.T) {
	i := standard(t)
	run(t, i, `{ : TRIPLE   3 * ;  [ "TRIPLE" ] EXPORT } "m" USE-MODULE`)
	run(t, i, "2 m.TRIPLE")
	if got := popInt(t, i); got != 6 {
		t.Errorf("2 m.TRIPLE = %d", got)
	}
}

func TestUnexportedWordStaysHidden(t *testing.T) {
	i := standard(t)
	run(t, i, `{ : SECRET   1 ; } "m" USE-MODULE`)
	err := i.Run("m.SECRET")
	if _, ok := err.(*errors.UnknownWord); !ok {
		t.Errorf("expected UnknownWord, got %v", err)
	}
}

func TestModuleBlockDefinitionsAreScoped(t *testing.T) {
	i := standard(t)
	run(t, i, "{ : W   1 ;  W }")
	if got := popInt(t, i); got != 1 {
		t.Fatalf("W inside block = %d", got)
	}
	err := i.Run("W")
	if _, ok := err.(*errors.UnknownWord); !ok {
		t.Errorf("block-local word leaked: %v", err)
	}
}

func TestUnknownWordLocation(t *testing.T) {
	i := standard(t)
	err := i.Run("1 GARBAGE")
	uw, ok := err.(*errors.UnknownWord)
	if !ok {
		t.Fatalf("expected UnknownWord, got %v", err)
	}
	if uw.Loc == nil || uw.Loc.Start != 2 || uw.Loc.End != 9 {
		t.Errorf("wrong location: %+v", uw.Loc)
	}
	if uw.Loc.Excerpt != "1 GARBAGE" {
		t.Errorf("wrong excerpt: %q", uw.Loc.Excerpt)
	}
}

func TestEndArrayUnderflow(t *testing.T) {
	i := standard(t)
	err := i.Run("]")
	su, ok := err.(*errors.StackUnderflow)
	if !ok {
		t.Fatalf("expected StackUnderflow, got %v", err)
	}
	if su.Loc == nil || su.Loc.Start != 0 {
		t.Errorf("underflow location missing: %+v", su.Loc)
	}
}

func TestDefinitionMissingSemicolon(t *testing.T) {
	i := standard(t)
	err := i.Run(": F   1")
	if _, ok := err.(*errors.ParseError); !ok {
		t.Fatalf("expected ParseError, got %v", err)
	}
	// The failed definition must not leave compile state behind.
	run(t, i, "42")
	if got := popInt(t, i); got != 42 {
		t.Errorf("interpreter stuck in compile state")
	}
}

func TestDotSymbolOptions(t *testing.T) {
	i := standard(t)
	run(t, i, "[ .key1 42 ] ~>")
	v, _ := i.StackPop()
	rec, ok := value.AsRecord(v)
	if !ok {
		t.Fatalf("~> did not build a record: %s", v.Inspect())
	}
	if n, _ := value.AsInt(rec.Fields["key1"]); n != 42 {
		t.Errorf("wrong option value: %s", rec.Inspect())
	}
}

func TestInterpretWord(t *testing.T) {
	i := standard(t)
	run(t, i, `"1 2 +" INTERPRET`)
	if got := popInt(t, i); got != 3 {
		t.Errorf("INTERPRET = %d", got)
	}
}

func TestProfiling(t *testing.T) {
	i := standard(t)
	run(t, i, "PROFILE-START 1 2 + PROFILE-END PROFILE-REPORT")
	report := popArray(t, i)

	var plus *value.Record
	for _, item := range report.Items {
		rec := item.(*value.Record)
		if name, _ := value.AsString(rec.Fields["word"]); name == "+" {
			plus = rec
		}
	}
	if plus == nil {
		t.Fatalf("'+' missing from profile: %s", report.Inspect())
	}
	if count, _ := value.AsInt(plus.Fields["count"]); count != 1 {
		t.Errorf("'+' count = %d", count)
	}
}

func TestReset(t *testing.T) {
	i := standard(t)
	run(t, i, ": KEEP   9 ;  1 2 3")
	i.Reset()
	if i.Stack().Len() != 0 {
		t.Errorf("Reset did not clear the stack")
	}
	run(t, i, "KEEP")
	if got := popInt(t, i); got != 9 {
		t.Errorf("Reset dropped definitions")
	}
}

func TestRunInModule(t *testing.T) {
	i := standard(t)
	lib := words.NewModule("lib")
	i.RegisterModule(lib)

	if err := i.RunInModule("lib", ": X   5 ; X"); err != nil {
		t.Fatalf("RunInModule failed: %v", err)
	}
	if got := popInt(t, i); got != 5 {
		t.Errorf("X = %d", got)
	}
	if _, err := lib.FindWord("X"); err != nil {
		t.Errorf("definition did not land in the module: %v", err)
	}

	err := i.RunInModule("missing", "1")
	if _, ok := err.(*errors.UnknownModule); !ok {
		t.Errorf("expected UnknownModule, got %v", err)
	}
}

func TestLexErrorPropagates(t *testing.T) {
	i := standard(t)
	err := i.Run("1 ` 2")
	if _, ok := err.(*errors.LexError); !ok {
		t.Errorf("expected LexError, got %v", err)
	}
}

func TestCommentsAreIgnored(t *testing.T) {
	i := standard(t)
	run(t, i, "1 # this is ignored\n2 +")
	if got := popInt(t, i); got != 3 {
		t.Errorf("comment broke evaluation: %d", got)
	}
}

func TestTimezoneSwitch(t *testing.T) {
	i := standard(t)
	if err := i.SetTimezone("America/New_York"); err != nil {
		t.Fatalf("SetTimezone failed: %v", err)
	}
	run(t, i, "2024-06-01T12:00")
	v, _ := i.StackPop()
	dt, ok := v.(*value.DateTime)
	if !ok {
		t.Fatalf("datetime literal did not parse: %s", v.Inspect())
	}
	if dt.Value.Location().String() != "America/New_York" {
		t.Errorf("naive literal not in interpreter zone: %v", dt.Value.Location())
	}
}
