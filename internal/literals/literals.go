// Package literals converts word text into values. Handlers are tried in a
// fixed order before word resolution: bool, int, float, date, time, zoned
// datetime. A handler returns nil when the text is not its literal form.
package literals

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"forthic/internal/value"
)

type Handler func(text string) value.Value

// Default returns the handler chain in dispatch order.
func Default(tz *time.Location) []Handler {
	return []Handler{
		ToBool,
		ToInt,
		ToFloat,
		ToDate,
		ToTime,
		ToDateTime(tz),
	}
}

var (
	dateRe     = regexp.MustCompile(`^(\d{4}|YYYY)-(\d{2}|MM)-(\d{2}|DD)$`)
	timeRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*(AM|PM))?$`)
	datetimeRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?` +
		`(Z|[+-]\d{2}:\d{2})?(?:\[([A-Za-z_/+-]+)\])?$`)
)

func ToBool(text string) value.Value {
	switch text {
	case "TRUE":
		return value.TRUE
	case "FALSE":
		return value.FALSE
	}
	return nil
}

// ToInt accepts canonical base-10 integers. Text that parses but does not
// round-trip (leading zeros, a plus sign) is not an int literal.
func ToInt(text string) value.Value {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != text {
		return nil
	}
	return &value.Int{Value: n}
}

func ToFloat(text string) value.Value {
	if !strings.Contains(text, ".") {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &value.Float{Value: f}
}

// ToDate accepts YYYY-MM-DD. Wildcard components ("YYYY", "MM", "DD") take
// today's value for that component.
func ToDate(text string) value.Value {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	now := time.Now()
	year, month, day := now.Year(), int(now.Month()), now.Day()
	if m[1] != "YYYY" {
		year, _ = strconv.Atoi(m[1])
	}
	if m[2] != "MM" {
		month, _ = strconv.Atoi(m[2])
	}
	if m[3] != "DD" {
		day, _ = strconv.Atoi(m[3])
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	return &value.Date{Year: year, Month: time.Month(month), Day: day}
}

// ToTime accepts HH:MM with an optional AM/PM suffix ("9:00", "11:30 PM").
func ToTime(text string) value.Value {
	m := timeRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return nil
	}
	switch m[3] {
	case "AM":
		if hour < 1 || hour > 12 {
			return nil
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return nil
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return nil
		}
	}
	return &value.Time{Hour: hour, Minute: minute}
}

// ToDateTime accepts ISO datetimes: naive ("2024-01-02T03:04"), with an
// offset or Z, or with a bracketed IANA zone swallowed by the lexer
// ("2024-01-02T03:04:05[America/New_York]"). Naive datetimes use tz.
func ToDateTime(tz *time.Location) Handler {
	return func(text string) value.Value {
		m := datetimeRe.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		second := 0
		if m[6] != "" {
			second, _ = strconv.Atoi(m[6])
		}
		if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
			return nil
		}

		loc := tz
		switch {
		case m[8] != "":
			zone, err := time.LoadLocation(m[8])
			if err != nil {
				return nil
			}
			loc = zone
		case m[7] == "Z":
			loc = time.UTC
		case m[7] != "":
			sign := 1
			if m[7][0] == '-' {
				sign = -1
			}
			offHour, _ := strconv.Atoi(m[7][1:3])
			offMin, _ := strconv.Atoi(m[7][4:6])
			loc = time.FixedZone(m[7], sign*(offHour*3600+offMin*60))
		}
		t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
		return &value.DateTime{Value: t}
	}
}
