package stdlib_test

import (
	"strings"
	"testing"

	"forthic/internal/value"
)

func TestToJSON(t *testing.T) {
	wantStr(t, `[ 1 2 3 ] >JSON`, "[1,2,3]")
	wantStr(t, `NULL >JSON`, "null")
	wantStr(t, `"hi" >JSON`, `"hi"`)
}

func TestFromJSON(t *testing.T) {
	wantInt(t, `'{"a": 42}' JSON> "a" REC@`, 42)
	wantInspect(t, `"[1, 2.5, null]" JSON>`, "[1 2.5 NULL]")
	wantBool(t, `"true" JSON>`, true)
}

func TestJSONRoundTrip(t *testing.T) {
	v := evalTop(t, `[ [ "name" "x" ] [ "vals" [ 1 2 ] ] ] REC >JSON JSON>`)
	rec, ok := value.AsRecord(v)
	if !ok {
		t.Fatalf("round trip lost the record: %s", v.Inspect())
	}
	if name, _ := value.AsString(rec.Fields["name"]); name != "x" {
		t.Errorf("name field lost: %s", rec.Inspect())
	}
	vals, ok := value.AsArray(rec.Fields["vals"])
	if !ok || len(vals.Items) != 2 {
		t.Errorf("vals field lost: %s", rec.Inspect())
	}
	if n, _ := value.AsInt(vals.Items[0]); n != 1 {
		t.Errorf("ints should survive the round trip: %s", rec.Inspect())
	}
}

func TestJSONPrettify(t *testing.T) {
	v := evalTop(t, `'{"a":1}' JSON-PRETTIFY`)
	s, _ := value.AsString(v)
	if !strings.Contains(s, "\n") || !strings.Contains(s, `"a": 1`) {
		t.Errorf("not prettified: %q", s)
	}
}

func TestInvalidJSON(t *testing.T) {
	i := mustInterp(t)
	if err := i.Run(`"{broken" JSON>`); err == nil {
		t.Errorf("invalid JSON should fail")
	}
}
