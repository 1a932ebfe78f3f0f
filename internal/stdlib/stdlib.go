// Package stdlib provides the standard word modules: core, array, record,
// strings, math, boolean, json, datetime and sql. Each module conforms to
// the words.Module contract and exports every word it defines.
package stdlib

import (
	"forthic/internal/errors"
	"forthic/internal/value"
	"forthic/internal/words"
)

// All returns the standard modules in the order a standard interpreter
// imports them.
func All() []*words.Module {
	return []*words.Module{
		NewCoreModule(),
		NewArrayModule(),
		NewRecordModule(),
		NewStringsModule(),
		NewMathModule(),
		NewBooleanModule(),
		NewJSONModule(),
		NewDateTimeModule(),
		NewSQLModule(),
	}
}

func addWord(m *words.Module, name string, fn words.NativeFunc) {
	m.AddExportableWord(words.NewNativeWord(name, fn))
}

func popString(ctx words.Interp) (string, error) {
	v, err := ctx.StackPop()
	if err != nil {
		return "", err
	}
	s, ok := value.AsString(v)
	if !ok {
		return "", &errors.InvalidType{Expected: "STRING", Actual: string(v.Kind())}
	}
	return s, nil
}

func popArray(ctx words.Interp) (*value.Array, error) {
	v, err := ctx.StackPop()
	if err != nil {
		return nil, err
	}
	a, ok := value.AsArray(v)
	if !ok {
		return nil, &errors.InvalidType{Expected: "ARRAY", Actual: string(v.Kind())}
	}
	return a, nil
}

func popRecord(ctx words.Interp) (*value.Record, error) {
	v, err := ctx.StackPop()
	if err != nil {
		return nil, err
	}
	r, ok := value.AsRecord(v)
	if !ok {
		return nil, &errors.InvalidType{Expected: "RECORD", Actual: string(v.Kind())}
	}
	return r, nil
}

func popFloat(ctx words.Interp) (float64, error) {
	v, err := ctx.StackPop()
	if err != nil {
		return 0, err
	}
	f, ok := value.AsFloat(v)
	if !ok {
		return 0, &errors.InvalidType{Expected: "INT or FLOAT", Actual: string(v.Kind())}
	}
	return f, nil
}

func popInt(ctx words.Interp) (int64, error) {
	v, err := ctx.StackPop()
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case *value.Int:
		return val.Value, nil
	case *value.Float:
		return int64(val.Value), nil
	}
	return 0, &errors.InvalidType{Expected: "INT", Actual: string(v.Kind())}
}
