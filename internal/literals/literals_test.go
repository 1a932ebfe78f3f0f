package literals

import (
	"testing"
	"time"

	"forthic/internal/value"
)

func TestToBool(t *testing.T) {
	if ToBool("TRUE") != value.TRUE || ToBool("FALSE") != value.FALSE {
		t.Errorf("TRUE/FALSE not recognized")
	}
	if ToBool("true") != nil || ToBool("T") != nil {
		t.Errorf("lowercase or abbreviated forms should not match")
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		text string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"-7", -7, true},
		{"0", 0, true},
		{"042", 0, false},
		{"+1", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		v := ToInt(tt.text)
		if tt.ok {
			if v == nil || v.(*value.Int).Value != tt.want {
				t.Errorf("%q: got %v, want %d", tt.text, v, tt.want)
			}
		} else if v != nil {
			t.Errorf("%q should not be an int literal", tt.text)
		}
	}
}

func TestToFloat(t *testing.T) {
	v := ToFloat("2.5")
	if v == nil || v.(*value.Float).Value != 2.5 {
		t.Errorf("2.5 not parsed: %v", v)
	}
	if ToFloat("25") != nil {
		t.Errorf("no decimal point should mean no float literal")
	}
}

func TestToDate(t *testing.T) {
	v := ToDate("2023-12-25")
	d, ok := v.(*value.Date)
	if !ok || d.Year != 2023 || d.Month != time.December || d.Day != 25 {
		t.Fatalf("wrong date: %v", v)
	}
	if ToDate("2023-13-01") != nil {
		t.Errorf("month 13 should not parse")
	}
	if ToDate("12-25") != nil {
		t.Errorf("partial date should not parse")
	}
}

func TestToDateWildcards(t *testing.T) {
	now := time.Now()
	v := ToDate("YYYY-01-15")
	d, ok := v.(*value.Date)
	if !ok || d.Year != now.Year() || d.Month != time.January || d.Day != 15 {
		t.Errorf("wildcard year: %v", v)
	}
}

func TestToTime(t *testing.T) {
	tests := []struct {
		text         string
		hour, minute int
	}{
		{"9:00", 9, 0},
		{"14:30", 14, 30},
		{"11:30PM", 23, 30},
		{"12:15AM", 0, 15},
		{"12:15PM", 12, 15},
	}
	for _, tt := range tests {
		v := ToTime(tt.text)
		clock, ok := v.(*value.Time)
		if !ok || clock.Hour != tt.hour || clock.Minute != tt.minute {
			t.Errorf("%q: got %v, want %02d:%02d", tt.text, v, tt.hour, tt.minute)
		}
	}
	if ToTime("25:00") != nil {
		t.Errorf("hour 25 should not parse")
	}
}

func TestToDateTime(t *testing.T) {
	handler := ToDateTime(time.UTC)

	v := handler("2024-01-02T03:04:05")
	dt, ok := v.(*value.DateTime)
	if !ok {
		t.Fatalf("naive datetime not parsed: %v", v)
	}
	if dt.Value.Hour() != 3 || dt.Value.Location() != time.UTC {
		t.Errorf("wrong naive datetime: %v", dt.Value)
	}

	v = handler("2024-01-02T03:04:05Z")
	if v == nil {
		t.Fatalf("Z suffix not parsed")
	}

	v = handler("2024-01-02T03:04:05[America/New_York]")
	dt, ok = v.(*value.DateTime)
	if !ok {
		t.Fatalf("bracketed zone not parsed")
	}
	if dt.Value.Location().String() != "America/New_York" {
		t.Errorf("wrong zone: %v", dt.Value.Location())
	}
}

func TestHandlerOrder(t *testing.T) {
	handlers := Default(time.UTC)

	// "2023-12-25" must hit the date handler, not fall through to datetime.
	var matched value.Value
	for _, h := range handlers {
		if v := h("2023-12-25"); v != nil {
			matched = v
			break
		}
	}
	if _, ok := matched.(*value.Date); !ok {
		t.Errorf("date literal resolved to %T", matched)
	}

	for _, h := range handlers {
		if v := h("NOT-A-LITERAL"); v != nil {
			t.Errorf("junk text matched a literal handler: %v", v)
		}
	}
}
