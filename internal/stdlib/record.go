package stdlib

import (
	"forthic/internal/value"
	"forthic/internal/words"
)

// NewRecordModule builds the record module.
func NewRecordModule() *words.Module {
	m := words.NewModule("record")

	addWord(m, "REC", wordRec)
	addWord(m, "REC@", wordRecAt)
	addWord(m, "<REC!", wordSetRec)
	addWord(m, "<DEL", wordDel)
	addWord(m, "KEYS", wordKeys)
	addWord(m, "VALUES", wordValues)
	addWord(m, "RELABEL", wordRelabel)
	addWord(m, "INVERT-KEYS", wordInvertKeys)
	addWord(m, "REC-DEFAULTS", wordRecDefaults)

	return m
}

// wordRec builds a record from an array of [key value] pairs. NULL builds an
// empty record.
func wordRec(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	rec := value.NewRecord()
	if pairs, ok := value.AsArray(v); ok {
		for _, pair := range pairs.Items {
			kv, ok := value.AsArray(pair)
			if !ok || len(kv.Items) < 2 {
				continue
			}
			if key, ok := value.AsString(kv.Items[0]); ok {
				rec.Fields[key] = kv.Items[1]
			}
		}
	}
	ctx.StackPush(rec)
	return nil
}

// wordRecAt is ( record field -- value ). The field may be a single key or
// an array of keys drilling into nested records; missing keys yield NULL.
func wordRecAt(ctx words.Interp) error {
	field, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	rec, ok := value.AsRecord(v)
	if !ok {
		ctx.StackPush(value.NULL)
		return nil
	}

	switch f := field.(type) {
	case *value.Str:
		ctx.StackPush(recGet(rec, f.Value))
	case *value.Array:
		ctx.StackPush(drill(rec, f.Items))
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

// wordSetRec is ( record value field -- record ). An array field drills and
// creates intermediate records as needed.
func wordSetRec(ctx words.Interp) error {
	field, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	target, err := ctx.StackPop()
	if err != nil {
		return err
	}

	var rec *value.Record
	switch t := target.(type) {
	case *value.Record:
		rec = t.Clone().(*value.Record)
	case *value.Null:
		rec = value.NewRecord()
	default:
		ctx.StackPush(target)
		return nil
	}

	switch f := field.(type) {
	case *value.Str:
		rec.Fields[f.Value] = v
	case *value.Array:
		cur := rec
		for i, keyVal := range f.Items {
			key, ok := value.AsString(keyVal)
			if !ok {
				break
			}
			if i == len(f.Items)-1 {
				cur.Fields[key] = v
				break
			}
			next, ok := value.AsRecord(cur.Fields[key])
			if !ok {
				next = value.NewRecord()
				cur.Fields[key] = next
			}
			cur = next
		}
	}
	ctx.StackPush(rec)
	return nil
}

// wordDel removes a key from a record or an index from an array:
// ( container key -- container ).
func wordDel(ctx words.Interp) error {
	key, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch container := v.(type) {
	case *value.Record:
		out := container.Clone().(*value.Record)
		if k, ok := value.AsString(key); ok {
			delete(out.Fields, k)
		}
		ctx.StackPush(out)
	case *value.Array:
		if idx, ok := value.AsInt(key); ok && idx >= 0 && idx < int64(len(container.Items)) {
			items := append([]value.Value{}, container.Items[:idx]...)
			items = append(items, container.Items[idx+1:]...)
			ctx.StackPush(&value.Array{Items: items})
		} else {
			ctx.StackPush(v)
		}
	default:
		ctx.StackPush(v)
	}
	return nil
}

func wordKeys(ctx words.Interp) error {
	rec, err := popRecord(ctx)
	if err != nil {
		return err
	}
	keys := rec.SortedKeys()
	items := make([]value.Value, len(keys))
	for i, k := range keys {
		items[i] = &value.Str{Value: k}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

func wordValues(ctx words.Interp) error {
	rec, err := popRecord(ctx)
	if err != nil {
		return err
	}
	keys := rec.SortedKeys()
	items := make([]value.Value, len(keys))
	for i, k := range keys {
		items[i] = rec.Fields[k]
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordRelabel is ( record old-keys new-keys -- record ): the result keeps
// only the listed keys, renamed positionally. Mismatched key arrays leave
// the record unchanged.
func wordRelabel(ctx words.Interp) error {
	newKeysVal, err := ctx.StackPop()
	if err != nil {
		return err
	}
	oldKeysVal, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}

	oldKeys, okOld := value.AsArray(oldKeysVal)
	newKeys, okNew := value.AsArray(newKeysVal)
	rec, okRec := value.AsRecord(v)
	if !okOld || !okNew || !okRec || len(oldKeys.Items) != len(newKeys.Items) {
		ctx.StackPush(v)
		return nil
	}

	out := value.NewRecord()
	for i := range oldKeys.Items {
		oldKey, ok1 := value.AsString(oldKeys.Items[i])
		newKey, ok2 := value.AsString(newKeys.Items[i])
		if !ok1 || !ok2 {
			continue
		}
		if val, found := rec.Fields[oldKey]; found {
			out.Fields[newKey] = val
		}
	}
	ctx.StackPush(out)
	return nil
}

// wordInvertKeys flips a record of records inside out: the inner keys become
// the outer keys.
func wordInvertKeys(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	rec, ok := value.AsRecord(v)
	if !ok {
		ctx.StackPush(v)
		return nil
	}
	out := value.NewRecord()
	for firstKey, subVal := range rec.Fields {
		sub, ok := value.AsRecord(subVal)
		if !ok {
			continue
		}
		for secondKey, val := range sub.Fields {
			inner, ok := value.AsRecord(out.Fields[secondKey])
			if !ok {
				inner = value.NewRecord()
				out.Fields[secondKey] = inner
			}
			inner.Fields[firstKey] = val
		}
	}
	ctx.StackPush(out)
	return nil
}

// wordRecDefaults fills missing, NULL or empty-string fields from an array
// of [key value] pairs: ( record defaults -- record ).
func wordRecDefaults(ctx words.Interp) error {
	defaults, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	rec, ok := value.AsRecord(v)
	if !ok {
		ctx.StackPush(v)
		return nil
	}
	out := rec.Clone().(*value.Record)

	if pairs, ok := value.AsArray(defaults); ok {
		for _, pair := range pairs.Items {
			kv, ok := value.AsArray(pair)
			if !ok || len(kv.Items) < 2 {
				continue
			}
			key, ok := value.AsString(kv.Items[0])
			if !ok {
				continue
			}
			cur, present := out.Fields[key]
			if !present || value.IsNull(cur) {
				out.Fields[key] = kv.Items[1]
				continue
			}
			if s, isStr := value.AsString(cur); isStr && s == "" {
				out.Fields[key] = kv.Items[1]
			}
		}
	}
	ctx.StackPush(out)
	return nil
}

func recGet(rec *value.Record, key string) value.Value {
	if v, ok := rec.Fields[key]; ok {
		return v
	}
	return value.NULL
}

func drill(rec *value.Record, keys []value.Value) value.Value {
	var cur value.Value = rec
	for _, keyVal := range keys {
		key, ok := value.AsString(keyVal)
		if !ok {
			return value.NULL
		}
		r, ok := value.AsRecord(cur)
		if !ok {
			return value.NULL
		}
		cur = recGet(r, key)
	}
	return cur
}
