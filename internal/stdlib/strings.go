package stdlib

import (
	"net/url"
	"strings"

	"forthic/internal/value"
	"forthic/internal/words"
)

// NewStringsModule builds the strings module.
func NewStringsModule() *words.Module {
	m := words.NewModule("strings")

	addWord(m, "CONCAT", wordConcat)
	addWord(m, "SPLIT", wordSplit)
	addWord(m, "JOIN", wordJoin)
	addWord(m, "UPPERCASE", wordUppercase)
	addWord(m, "LOWERCASE", wordLowercase)
	addWord(m, "STRIP", wordStrip)
	addWord(m, "REPLACE", wordReplace)
	addWord(m, "URL-ENCODE", wordURLEncode)
	addWord(m, "URL-DECODE", wordURLDecode)
	addWord(m, "ASCII", wordASCII)
	addWord(m, ">STR", wordToStr)

	return m
}

// wordConcat joins two strings or two arrays: ( a b -- ab ).
func wordConcat(ctx words.Interp) error {
	right, err := ctx.StackPop()
	if err != nil {
		return err
	}
	left, err := ctx.StackPop()
	if err != nil {
		return err
	}

	if ls, ok := value.AsString(left); ok {
		rs, _ := value.AsString(right)
		ctx.StackPush(&value.Str{Value: ls + rs})
		return nil
	}
	if la, ok := value.AsArray(left); ok {
		items := append([]value.Value{}, la.Items...)
		if ra, ok := value.AsArray(right); ok {
			items = append(items, ra.Items...)
		}
		ctx.StackPush(&value.Array{Items: items})
		return nil
	}
	ctx.StackPush(left)
	return nil
}

// wordSplit is ( string separator -- array ).
func wordSplit(ctx words.Interp) error {
	sep, err := popString(ctx)
	if err != nil {
		return err
	}
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	parts := strings.Split(s, sep)
	items := make([]value.Value, len(parts))
	for i, part := range parts {
		items[i] = &value.Str{Value: part}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordJoin is ( array separator -- string ). Non-string items join by their
// display form.
func wordJoin(ctx words.Interp) error {
	sep, err := popString(ctx)
	if err != nil {
		return err
	}
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	parts := make([]string, len(arr.Items))
	for i, item := range arr.Items {
		parts[i] = item.Inspect()
	}
	ctx.StackPush(&value.Str{Value: strings.Join(parts, sep)})
	return nil
}

func wordUppercase(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Str{Value: strings.ToUpper(s)})
	return nil
}

func wordLowercase(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Str{Value: strings.ToLower(s)})
	return nil
}

func wordStrip(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Str{Value: strings.TrimSpace(s)})
	return nil
}

// wordReplace is ( string old new -- string ).
func wordReplace(ctx words.Interp) error {
	newS, err := popString(ctx)
	if err != nil {
		return err
	}
	oldS, err := popString(ctx)
	if err != nil {
		return err
	}
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Str{Value: strings.ReplaceAll(s, oldS, newS)})
	return nil
}

func wordURLEncode(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Str{Value: url.QueryEscape(s)})
	return nil
}

func wordURLDecode(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		ctx.StackPush(&value.Str{Value: s})
		return nil
	}
	ctx.StackPush(&value.Str{Value: decoded})
	return nil
}

// wordASCII drops every non-ASCII rune from a string.
func wordASCII(ctx words.Interp) error {
	s, err := popString(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	ctx.StackPush(&value.Str{Value: b.String()})
	return nil
}

// wordToStr renders any value in its display form.
func wordToStr(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Str{Value: v.Inspect()})
	return nil
}
