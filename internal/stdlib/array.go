package stdlib

import (
	"forthic/internal/value"
	"forthic/internal/words"
)

// NewArrayModule builds the array module.
func NewArrayModule() *words.Module {
	m := words.NewModule("array")

	addWord(m, "APPEND", wordAppend)
	addWord(m, "REVERSE", wordReverse)
	addWord(m, "LENGTH", wordLength)
	addWord(m, "NTH", wordNth)
	addWord(m, "LAST", wordLast)
	addWord(m, "TAKE", wordTake)
	addWord(m, "DROP", wordDropN)
	addWord(m, "SLICE", wordSlice)
	addWord(m, "FLATTEN", wordFlatten)
	addWord(m, "UNIQUE", wordUnique)
	addWord(m, "RANGE", wordRange)
	addWord(m, "ZIP", wordZip)
	addWord(m, "UNPACK", wordUnpack)
	addWord(m, "UNION", wordUnion)
	addWord(m, "INTERSECTION", wordIntersection)
	addWord(m, "DIFFERENCE", wordDifference)
	addWord(m, "MAP", wordMap)

	return m
}

func wordAppend(ctx words.Interp) error {
	item, err := ctx.StackPop()
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch container := v.(type) {
	case *value.Array:
		ctx.StackPush(&value.Array{Items: append(append([]value.Value{}, container.Items...), item)})
	case *value.Null:
		ctx.StackPush(&value.Array{Items: []value.Value{item}})
	default:
		ctx.StackPush(v)
	}
	return nil
}

func wordReverse(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch container := v.(type) {
	case *value.Array:
		items := make([]value.Value, len(container.Items))
		for i, item := range container.Items {
			items[len(items)-1-i] = item
		}
		ctx.StackPush(&value.Array{Items: items})
	case *value.Str:
		runes := []rune(container.Value)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		ctx.StackPush(&value.Str{Value: string(runes)})
	default:
		ctx.StackPush(v)
	}
	return nil
}

func wordLength(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch container := v.(type) {
	case *value.Array:
		ctx.StackPush(&value.Int{Value: int64(len(container.Items))})
	case *value.Str:
		ctx.StackPush(&value.Int{Value: int64(len([]rune(container.Value)))})
	case *value.Record:
		ctx.StackPush(&value.Int{Value: int64(len(container.Fields))})
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

// wordNth is ( array n -- item ); out of range yields NULL.
func wordNth(ctx words.Interp) error {
	n, err := popInt(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok || n < 0 || n >= int64(len(arr.Items)) {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(arr.Items[n])
	return nil
}

func wordLast(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok || len(arr.Items) == 0 {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(arr.Items[len(arr.Items)-1])
	return nil
}

func wordTake(ctx words.Interp) error {
	n, err := popInt(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(emptyOrSelf(v))
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > int64(len(arr.Items)) {
		n = int64(len(arr.Items))
	}
	ctx.StackPush(&value.Array{Items: append([]value.Value{}, arr.Items[:n]...)})
	return nil
}

func wordDropN(ctx words.Interp) error {
	n, err := popInt(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(emptyOrSelf(v))
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > int64(len(arr.Items)) {
		n = int64(len(arr.Items))
	}
	ctx.StackPush(&value.Array{Items: append([]value.Value{}, arr.Items[n:]...)})
	return nil
}

// wordSlice is ( array start end -- slice ). Indices are inclusive, negative
// counts from the end, and a start greater than end walks backwards.
// Positions outside the array come back as NULL.
func wordSlice(ctx words.Interp) error {
	end, err := popInt(ctx)
	if err != nil {
		return err
	}
	start, err := popInt(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(emptyOrSelf(v))
		return nil
	}

	length := int64(len(arr.Items))
	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	if start < 0 || start >= length {
		ctx.StackPush(&value.Array{})
		return nil
	}

	step := int64(1)
	if start > end {
		step = -1
	}
	var items []value.Value
	for i := start; ; i += step {
		if i < 0 || i >= length {
			items = append(items, value.NULL)
		} else {
			items = append(items, arr.Items[i])
		}
		if i == end {
			break
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordFlatten splices nested arrays up one level.
func wordFlatten(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(v)
		return nil
	}
	var items []value.Value
	for _, item := range arr.Items {
		if inner, ok := value.AsArray(item); ok {
			items = append(items, inner.Items...)
		} else {
			items = append(items, item)
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

func wordUnique(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(v)
		return nil
	}
	var items []value.Value
	for _, item := range arr.Items {
		if !containsValue(items, item) {
			items = append(items, item)
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordRange is ( start end -- array ), inclusive on both ends; a start
// greater than end counts down.
func wordRange(ctx words.Interp) error {
	end, err := popInt(ctx)
	if err != nil {
		return err
	}
	start, err := popInt(ctx)
	if err != nil {
		return err
	}
	var items []value.Value
	if start <= end {
		for i := start; i <= end; i++ {
			items = append(items, &value.Int{Value: i})
		}
	} else {
		for i := start; i >= end; i-- {
			items = append(items, &value.Int{Value: i})
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

func wordZip(ctx words.Interp) error {
	right, err := popArray(ctx)
	if err != nil {
		return err
	}
	left, err := popArray(ctx)
	if err != nil {
		return err
	}
	n := len(left.Items)
	if len(right.Items) < n {
		n = len(right.Items)
	}
	items := make([]value.Value, n)
	for i := 0; i < n; i++ {
		items[i] = &value.Array{Items: []value.Value{left.Items[i], right.Items[i]}}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordUnpack pushes each array item onto the stack in order.
func wordUnpack(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(v)
	if !ok {
		ctx.StackPush(v)
		return nil
	}
	for _, item := range arr.Items {
		ctx.StackPush(item)
	}
	return nil
}

func wordUnion(ctx words.Interp) error {
	right, err := popArray(ctx)
	if err != nil {
		return err
	}
	left, err := popArray(ctx)
	if err != nil {
		return err
	}
	items := append([]value.Value{}, left.Items...)
	for _, item := range right.Items {
		if !containsValue(items, item) {
			items = append(items, item)
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

func wordIntersection(ctx words.Interp) error {
	right, err := popArray(ctx)
	if err != nil {
		return err
	}
	left, err := popArray(ctx)
	if err != nil {
		return err
	}
	var items []value.Value
	for _, item := range left.Items {
		if containsValue(right.Items, item) && !containsValue(items, item) {
			items = append(items, item)
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

func wordDifference(ctx words.Interp) error {
	right, err := popArray(ctx)
	if err != nil {
		return err
	}
	left, err := popArray(ctx)
	if err != nil {
		return err
	}
	var items []value.Value
	for _, item := range left.Items {
		if !containsValue(right.Items, item) {
			items = append(items, item)
		}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordMap runs a Forthic string over each item: ( array forthic -- array ).
func wordMap(ctx words.Interp) error {
	source, err := popString(ctx)
	if err != nil {
		return err
	}
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	items := make([]value.Value, len(arr.Items))
	for i, item := range arr.Items {
		ctx.StackPush(item)
		if err := ctx.Run(source); err != nil {
			return err
		}
		result, err := ctx.StackPop()
		if err != nil {
			return err
		}
		items[i] = result
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

func containsValue(items []value.Value, v value.Value) bool {
	for _, item := range items {
		if value.Equal(item, v) {
			return true
		}
	}
	return false
}

// emptyOrSelf mirrors how the container words treat NULL: it becomes an
// empty array, while non-containers pass through unchanged.
func emptyOrSelf(v value.Value) value.Value {
	if value.IsNull(v) {
		return &value.Array{}
	}
	return v
}
