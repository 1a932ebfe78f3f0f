package stdlib_test

import (
	"testing"

	"forthic/internal/interp"
	"forthic/internal/value"
)

func mustInterp(t *testing.T) *interp.Interpreter {
	t.Helper()
	i, err := interp.NewStandard("")
	if err != nil {
		t.Fatalf("NewStandard failed: %v", err)
	}
	return i
}

// evalTop runs code on a fresh standard interpreter and returns the top of
// stack.
func evalTop(t *testing.T, code string) value.Value {
	t.Helper()
	i := mustInterp(t)
	if err := i.Run(code); err != nil {
		t.Fatalf("Run(%q) failed: %v", code, err)
	}
	v, err := i.StackPop()
	if err != nil {
		t.Fatalf("Run(%q) left an empty stack", code)
	}
	return v
}

func wantInt(t *testing.T, code string, want int64) {
	t.Helper()
	v := evalTop(t, code)
	got, ok := value.AsInt(v)
	if !ok || got != want {
		t.Errorf("%q = %s, want %d", code, v.Inspect(), want)
	}
}

func wantFloat(t *testing.T, code string, want float64) {
	t.Helper()
	v := evalTop(t, code)
	f, ok := v.(*value.Float)
	if !ok || f.Value != want {
		t.Errorf("%q = %s, want %g", code, v.Inspect(), want)
	}
}

func wantBool(t *testing.T, code string, want bool) {
	t.Helper()
	v := evalTop(t, code)
	b, ok := v.(*value.Bool)
	if !ok || b.Value != want {
		t.Errorf("%q = %s, want %v", code, v.Inspect(), want)
	}
}

func wantStr(t *testing.T, code string, want string) {
	t.Helper()
	v := evalTop(t, code)
	s, ok := value.AsString(v)
	if !ok || s != want {
		t.Errorf("%q = %s, want %q", code, v.Inspect(), want)
	}
}

func wantInspect(t *testing.T, code string, want string) {
	t.Helper()
	if got := evalTop(t, code).Inspect(); got != want {
		t.Errorf("%q = %s, want %s", code, got, want)
	}
}

func wantNull(t *testing.T, code string) {
	t.Helper()
	if v := evalTop(t, code); !value.IsNull(v) {
		t.Errorf("%q = %s, want NULL", code, v.Inspect())
	}
}
