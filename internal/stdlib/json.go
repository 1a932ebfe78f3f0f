package stdlib

import (
	"encoding/json"
	"strings"

	"forthic/internal/errors"
	"forthic/internal/value"
	"forthic/internal/words"
)

// NewJSONModule builds the json module.
func NewJSONModule() *words.Module {
	m := words.NewModule("json")

	addWord(m, ">JSON", wordToJSON)
	addWord(m, "JSON>", wordFromJSON)
	addWord(m, "JSON-PRETTIFY", wordJSONPrettify)

	return m
}

func wordToJSON(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	data, err := json.Marshal(valueToAny(v))
	if err != nil {
		return &errors.InvalidType{Expected: "JSON-serializable value", Actual: string(v.Kind())}
	}
	ctx.StackPush(&value.Str{Value: string(data)})
	return nil
}

func wordFromJSON(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return &errors.ParseError{Note: "invalid JSON", Text: s}
	}
	ctx.StackPush(anyToValue(raw))
	return nil
}

func wordJSONPrettify(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return &errors.ParseError{Note: "invalid JSON", Text: s}
	}
	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return &errors.ParseError{Note: "invalid JSON", Text: s}
	}
	ctx.StackPush(&value.Str{Value: string(pretty)})
	return nil
}

func valueToAny(v value.Value) any {
	switch val := v.(type) {
	case nil, *value.Null:
		return nil
	case *value.Bool:
		return val.Value
	case *value.Int:
		return val.Value
	case *value.Float:
		return val.Value
	case *value.Str:
		return val.Value
	case *value.Array:
		out := make([]any, len(val.Items))
		for i, item := range val.Items {
			out[i] = valueToAny(item)
		}
		return out
	case *value.Record:
		out := make(map[string]any, len(val.Fields))
		for k, item := range val.Fields {
			out[k] = valueToAny(item)
		}
		return out
	default:
		// Dates and times serialize in their display form.
		return v.Inspect()
	}
}

func anyToValue(raw any) value.Value {
	switch val := raw.(type) {
	case nil:
		return value.NULL
	case bool:
		return value.FromBool(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return &value.Int{Value: i}
		}
		f, _ := val.Float64()
		return &value.Float{Value: f}
	case float64:
		return &value.Float{Value: val}
	case string:
		return &value.Str{Value: val}
	case []any:
		items := make([]value.Value, len(val))
		for i, item := range val {
			items[i] = anyToValue(item)
		}
		return &value.Array{Items: items}
	case map[string]any:
		rec := value.NewRecord()
		for k, item := range val {
			rec.Fields[k] = anyToValue(item)
		}
		return rec
	default:
		return value.NULL
	}
}
