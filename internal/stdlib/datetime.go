package stdlib

import (
	"fmt"
	"time"

	"forthic/internal/errors"
	"forthic/internal/literals"
	"forthic/internal/value"
	"forthic/internal/words"
)

// NewDateTimeModule builds the datetime module. Words that need a zone use
// the interpreter's timezone.
func NewDateTimeModule() *words.Module {
	m := words.NewModule("datetime")

	addWord(m, "NOW", wordNow)
	addWord(m, "TODAY", wordToday)
	addWord(m, "AM", wordAM)
	addWord(m, "PM", wordPM)
	addWord(m, ">DATE", wordToDate)
	addWord(m, ">TIME", wordToTime)
	addWord(m, ">DATETIME", wordToDateTime)
	addWord(m, ">TIMESTAMP", wordToTimestamp)
	addWord(m, "TIMESTAMP>DATETIME", wordTimestampToDateTime)
	addWord(m, "DATE>STR", wordDateToStr)
	addWord(m, "TIME>STR", wordTimeToStr)
	addWord(m, "DATE>INT", wordDateToInt)
	addWord(m, "ADD-DAYS", wordAddDays)
	addWord(m, "SUBTRACT-DATES", wordSubtractDates)

	return m
}

func wordNow(ctx words.Interp) error {
	now := time.Now().In(ctx.Timezone())
	ctx.StackPush(&value.Time{Hour: now.Hour(), Minute: now.Minute(), Second: now.Second()})
	return nil
}

func wordToday(ctx words.Interp) error {
	now := time.Now().In(ctx.Timezone())
	ctx.StackPush(&value.Date{Year: now.Year(), Month: now.Month(), Day: now.Day()})
	return nil
}

// wordAM forces a time into the morning: ( time -- time ).
func wordAM(ctx words.Interp) error {
	t, err := popTime(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Time{Hour: t.Hour % 12, Minute: t.Minute, Second: t.Second})
	return nil
}

// wordPM forces a time into the afternoon: ( time -- time ).
func wordPM(ctx words.Interp) error {
	t, err := popTime(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.Time{Hour: t.Hour%12 + 12, Minute: t.Minute, Second: t.Second})
	return nil
}

func popTime(ctx words.Interp) (*value.Time, error) {
	v, err := ctx.StackPop()
	if err != nil {
		return nil, err
	}
	t, ok := v.(*value.Time)
	if !ok {
		return nil, &errors.InvalidType{Expected: "TIME", Actual: string(v.Kind())}
	}
	return t, nil
}

func wordToDate(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case *value.Date:
		ctx.StackPush(val)
	case *value.DateTime:
		t := val.Value.In(ctx.Timezone())
		ctx.StackPush(&value.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()})
	case *value.Str:
		if d := literals.ToDate(val.Value); d != nil {
			ctx.StackPush(d)
		} else {
			ctx.StackPush(value.NULL)
		}
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordToTime(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case *value.Time:
		ctx.StackPush(val)
	case *value.DateTime:
		t := val.Value.In(ctx.Timezone())
		ctx.StackPush(&value.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()})
	case *value.Str:
		if t := literals.ToTime(val.Value); t != nil {
			ctx.StackPush(t)
		} else {
			ctx.StackPush(value.NULL)
		}
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordToDateTime(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	tz := ctx.Timezone()
	switch val := v.(type) {
	case *value.DateTime:
		ctx.StackPush(val)
	case *value.Date:
		ctx.StackPush(&value.DateTime{Value: time.Date(val.Year, val.Month, val.Day, 0, 0, 0, 0, tz)})
	case *value.Str:
		if dt := literals.ToDateTime(tz)(val.Value); dt != nil {
			ctx.StackPush(dt)
		} else {
			ctx.StackPush(value.NULL)
		}
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordToTimestamp(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case *value.DateTime:
		ctx.StackPush(&value.Int{Value: val.Value.Unix()})
	case *value.Date:
		midnight := time.Date(val.Year, val.Month, val.Day, 0, 0, 0, 0, ctx.Timezone())
		ctx.StackPush(&value.Int{Value: midnight.Unix()})
	default:
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordTimestampToDateTime(ctx words.Interp) error {
	ts, err := popInt(ctx)
	if err != nil {
		return err
	}
	ctx.StackPush(&value.DateTime{Value: time.Unix(ts, 0).In(ctx.Timezone())})
	return nil
}

func wordDateToStr(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if d, ok := v.(*value.Date); ok {
		ctx.StackPush(&value.Str{Value: d.Inspect()})
	} else {
		ctx.StackPush(value.NULL)
	}
	return nil
}

func wordTimeToStr(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if t, ok := v.(*value.Time); ok {
		ctx.StackPush(&value.Str{Value: fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)})
	} else {
		ctx.StackPush(value.NULL)
	}
	return nil
}

// wordDateToInt renders a date as YYYYMMDD.
func wordDateToInt(ctx words.Interp) error {
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	if d, ok := v.(*value.Date); ok {
		ctx.StackPush(&value.Int{Value: int64(d.Year)*10000 + int64(d.Month)*100 + int64(d.Day)})
	} else {
		ctx.StackPush(value.NULL)
	}
	return nil
}

// wordAddDays is ( date n -- date ).
func wordAddDays(ctx words.Interp) error {
	n, err := popInt(ctx)
	if err != nil {
		return err
	}
	v, err := ctx.StackPop()
	if err != nil {
		return err
	}
	d, ok := v.(*value.Date)
	if !ok {
		ctx.StackPush(value.NULL)
		return nil
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(n))
	ctx.StackPush(&value.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()})
	return nil
}

// wordSubtractDates is ( a b -- days ), the number of days from b to a.
func wordSubtractDates(ctx words.Interp) error {
	bv, err := ctx.StackPop()
	if err != nil {
		return err
	}
	av, err := ctx.StackPop()
	if err != nil {
		return err
	}
	a, okA := av.(*value.Date)
	b, okB := bv.(*value.Date)
	if !okA || !okB {
		ctx.StackPush(value.NULL)
		return nil
	}
	at := time.Date(a.Year, a.Month, a.Day, 0, 0, 0, 0, time.UTC)
	bt := time.Date(b.Year, b.Month, b.Day, 0, 0, 0, 0, time.UTC)
	ctx.StackPush(&value.Int{Value: int64(at.Sub(bt).Hours() / 24)})
	return nil
}
