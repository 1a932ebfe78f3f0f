package stdlib

import (
	"forthic/internal/value"
	"forthic/internal/words"
)

// NewBooleanModule builds the boolean module.
func NewBooleanModule() *words.Module {
	m := words.NewModule("boolean")

	addWord(m, "==", wordEquals)
	addWord(m, "!=", wordNotEquals)
	addWord(m, "<", wordLessThan)
	addWord(m, "<=", wordLessThanOrEqual)
	addWord(m, ">", wordGreaterThan)
	addWord(m, ">=", wordGreaterThanOrEqual)
	addWord(m, "AND", wordAnd)
	addWord(m, "OR", wordOr)
	addWord(m, "NOT", wordNot)
	addWord(m, "NAND", wordNand)
	addWord(m, "XOR", wordXor)
	addWord(m, "IN", wordIn)
	addWord(m, "ANY", wordAny)
	addWord(m, "ALL", wordAll)
	addWord(m, ">BOOL", wordToBool)

	return m
}

func wordEquals(ctx words.Interp) error {
	b, err := ctx.StackPop()
	if err != nil {
		return err
	}
	a, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(value.Equal(a, b)))
	return nil
}

func wordNotEquals(ctx words.Interp) error {
	b, err := ctx.StackPop()
	if err != nil {
		return err
	}
	a, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(!value.Equal(a, b)))
	return nil
}

// compareNumbers pops two values and compares them numerically; strings
// compare lexically. Incomparable pairs yield false.
func compareNumbers(ctx words.Interp, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) error {
	bv, err := ctx.StackPop()
	if err != nil {
		return err
	}
	av, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if af, ok := value.AsFloat(av); ok {
		if bf, ok := value.AsFloat(bv); ok {
			ctx.StackPush(value.FromBool(numCmp(af, bf)))
			return nil
		}
	}
	if as, ok := value.AsString(av); ok {
		if bs, ok := value.AsString(bv); ok {
			ctx.StackPush(value.FromBool(strCmp(as, bs)))
			return nil
		}
	}
	ctx.StackPush(value.FALSE)
	return nil
}

func wordLessThan(ctx words.Interp) error {
	return compareNumbers(ctx,
		func(a, b float64) bool { return a < b },
		func(a, b string) bool { return a < b })
}

func wordLessThanOrEqual(ctx words.Interp) error {
	return compareNumbers(ctx,
		func(a, b float64) bool { return a <= b },
		func(a, b string) bool { return a <= b })
}

func wordGreaterThan(ctx words.Interp) error {
	return compareNumbers(ctx,
		func(a, b float64) bool { return a > b },
		func(a, b string) bool { return a > b })
}

func wordGreaterThanOrEqual(ctx words.Interp) error {
	return compareNumbers(ctx,
		func(a, b float64) bool { return a >= b },
		func(a, b string) bool { return a >= b })
}

// binaryBool pops two values; an array on top folds instead, so
// "[ TRUE FALSE ] AND" works like ALL over the array.
func binaryBool(ctx words.Interp, op func(a, b bool) bool, fold func(items []value.Value) bool) error {
	top, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if arr, ok := value.AsArray(top); ok {
		ctx.StackPush(value.FromBool(fold(arr.Items)))
		return nil
	}
	other, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(op(value.IsTruthy(other), value.IsTruthy(top))))
	return nil
}

func wordAnd(ctx words.Interp) error {
	return binaryBool(ctx,
		func(a, b bool) bool { return a && b },
		allTruthy)
}

func wordOr(ctx words.Interp) error {
	return binaryBool(ctx,
		func(a, b bool) bool { return a || b },
		anyTruthy)
}

func wordNot(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(!value.IsTruthy(v)))
	return nil
}

func wordNand(ctx words.Interp) error {
	return binaryBool(ctx,
		func(a, b bool) bool { return !(a && b) },
		func(items []value.Value) bool { return !allTruthy(items) })
}

func wordXor(ctx words.Interp) error {
	b, err := ctx.StackPop()
	if err != nil {
		return err
	}
	a, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(value.IsTruthy(a) != value.IsTruthy(b)))
	return nil
}

// wordIn is ( item array -- bool ).
func wordIn(ctx words.Interp) error {
	container, err := ctx.StackPop()
	if err != nil {
		return err
	}
	item, err := ctx.StackPop()
	if err != nil {
		return err
	}
	arr, ok := value.AsArray(container)
	if !ok {
		ctx.StackPush(value.FALSE)
		return nil
	}
	ctx.StackPush(value.FromBool(containsValue(arr.Items, item)))
	return nil
}

func wordAny(ctx words.Interp) error {
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(anyTruthy(arr.Items)))
	return nil
}

func wordAll(ctx words.Interp) error {
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(allTruthy(arr.Items)))
	return nil
}

func wordToBool(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	ctx.StackPush(value.FromBool(value.IsTruthy(v)))
	return nil
}

func anyTruthy(items []value.Value) bool {
	for _, item := range items {
		if value.IsTruthy(item) {
			return true
		}
	}
	return false
}

func allTruthy(items []value.Value) bool {
	for _, item := range items {
		if !value.IsTruthy(item) {
			return false
		}
	}
	return true
}
