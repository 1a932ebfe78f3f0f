package stdlib

import (
	"math"
	"strconv"

	"forthic/internal/value"
	"forthic/internal/words"
)

// NewMathModule builds the math module.
func NewMathModule() *words.Module {
	m := words.NewModule("math")

	addWord(m, "+", wordPlus)
	addWord(m, "-", wordMinus)
	addWord(m, "*", wordTimes)
	addWord(m, "/", wordDivide)
	addWord(m, "MOD", wordMod)
	addWord(m, "ROUND", wordRound)
	addWord(m, "FLOOR", wordFloor)
	addWord(m, "CEIL", wordCeil)
	addWord(m, "ABS", wordAbs)
	addWord(m, "MAX", wordMax)
	addWord(m, "MIN", wordMin)
	addWord(m, "SUM", wordSum)
	addWord(m, "MEAN", wordMean)
	addWord(m, ">INT", wordToInt)
	addWord(m, ">FLOAT", wordToFloat)

	return m
}

// binaryNumeric pops two numbers and combines them, staying in ints when
// both operands are ints.
func binaryNumeric(ctx words.Interp, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) error {
	b, err := ctx.StackPop()
	if err != nil {
		return err
	}
	a, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if ai, ok := value.AsInt(a); ok {
		if bi, ok := value.AsInt(b); ok {
			ctx.StackPush(&value.Int{Value: intOp(ai, bi)})
			return nil
		}
	}
	af, okA := value.AsFloat(a)
	bf, okB := value.AsFloat(b)
	if !okA || !okB {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(&value.Float{Value: floatOp(af, bf)})
	return nil
}

func wordPlus(ctx words.Interp) error {
	return binaryNumeric(ctx,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

func wordMinus(ctx words.Interp) error {
	return binaryNumeric(ctx,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func wordTimes(ctx words.Interp) error {
	return binaryNumeric(ctx,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

// wordDivide always divides in floats; division by zero yields NULL.
func wordDivide(ctx words.Interp) error {
	b, err := popFloat(ctx)
	if err != nil {
		return err
	}
	a, err := popFloat(ctx)
	if err != nil {
		return err
	}
	if b == 0 {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(&value.Float{Value: a / b})
	return nil
}

func wordMod(ctx words.Interp) error {
	b, err := popInt(ctx)
	if err != nil {
		return err
	}
	a, err := popInt(ctx)
	if err != nil {
		return err
	}
	if b == 0 {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(&value.Int{Value: a % b})
	return nil
}

// unaryFloat applies op to a float; ints pass through unchanged since the
// rounding words are identities on them.
func unaryFloat(ctx words.Interp, op func(f float64) value.Value) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if i, ok := value.AsInt(v); ok {
		ctx.StackPush(&value.Int{Value: i})
		return nil
	}
	f, ok := value.AsFloat(v)
	if !ok {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(op(f))
	return nil
}

func wordRound(ctx words.Interp) error {
	return unaryFloat(ctx, func(f float64) value.Value {
		return &value.Int{Value: int64(math.Round(f))}
	})
}

func wordFloor(ctx words.Interp) error {
	return unaryFloat(ctx, func(f float64) value.Value {
		return &value.Int{Value: int64(math.Floor(f))}
	})
}

func wordCeil(ctx words.Interp) error {
	return unaryFloat(ctx, func(f float64) value.Value {
		return &value.Int{Value: int64(math.Ceil(f))}
	})
}

func wordAbs(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch n := v.(type) {
	case *value.Int:
		if n.Value < 0 {
			ctx.StackPush(&value.Int{Value: -n.Value})
		} else {
			ctx.StackPush(n)
		}
	case *value.Float:
		ctx.StackPush(&value.Float{Value: math.Abs(n.Value)})
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordMax(ctx words.Interp) error {
	return foldNumbers(ctx, func(nums []float64) value.Value {
		best := nums[0]
		for _, n := range nums[1:] {
			if n > best {
				best = n
			}
		}
		return numberValue(best)
	})
}

func wordMin(ctx words.Interp) error {
	return foldNumbers(ctx, func(nums []float64) value.Value {
		best := nums[0]
		for _, n := range nums[1:] {
			if n < best {
				best = n
			}
		}
		return numberValue(best)
	})
}

func wordSum(ctx words.Interp) error {
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	allInts := true
	var sumI int64
	var sumF float64
	for _, item := range arr.Items {
		if i, ok := value.AsInt(item); ok {
			sumI += i
			sumF += float64(i)
			continue
		}
		if f, ok := value.AsFloat(item); ok {
			allInts = false
			sumF += f
		}
	}
	if allInts {
		ctx.StackPush(&value.Int{Value: sumI})
	} else {
		ctx.StackPush(&value.Float{Value: sumF})
	}
	return nil
}

func wordMean(ctx words.Interp) error {
	return foldNumbers(ctx, func(nums []float64) value.Value {
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return &value.Float{Value: sum / float64(len(nums))}
	})
}

// foldNumbers pops an array, extracts its numbers and applies fold; arrays
// with no numbers yield NULL.
func foldNumbers(ctx words.Interp, fold func(nums []float64) value.Value) error {
	arr, err := popArray(ctx)
	if err != nil {
		return err
	}
	var nums []float64
	for _, item := range arr.Items {
		if f, ok := value.AsFloat(item); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		ctx.StackPush(value.NULL)
		return nil
	}
	ctx.StackPush(fold(nums))
	return nil
}

func numberValue(f float64) value.Value {
	if f == math.Trunc(f) {
		return &value.Int{Value: int64(f)}
	}
	return &value.Float{Value: f}
}

// wordToInt converts numbers and numeric strings to an int; everything else
// becomes NULL.
func wordToInt(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch n := v.(type) {
	case *value.Int:
		ctx.StackPush(n)
	case *value.Float:
		ctx.StackPush(&value.Int{Value: int64(n.Value)})
	case *value.Bool:
		if n.Value {
			ctx.StackPush(&value.Int{Value: 1})
		} else {
			ctx.StackPush(&value.Int{Value: 0})
		}
	case *value.Str:
		if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			ctx.StackPush(&value.Int{Value: i})
		} else if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			ctx.StackPush(&value.Int{Value: int64(f)})
		} else {
			ctx.StackPush(value.NULL)
		}
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordToFloat(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch n := v.(type) {
	case *value.Int:
		ctx.StackPush(&value.Float{Value: float64(n.Value)})
	case *value.Float:
		ctx.StackPush(n)
	case *value.Str:
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			ctx.StackPush(&value.Float{Value: f})
		} else {
			ctx.StackPush(value.NULL)
		}
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}
