package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"valid date", "2024-03-15", NewDate(2024, 3, 15), false},
		{"leap day", "2024-02-29", NewDate(2024, 2, 29), false},
		{"invalid leap day", "2023-02-29", Date{}, true},
		{"wrong layout", "15/03/2024", Date{}, true},
		{"empty", "", Date{}, true},
		{"garbage", "not-a-date", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2024, 3, 15)
	b := NewDate(2024, 3, 16)

	if !a.Before(b) {
		t.Error("expected a.Before(b)")
	}
	if !b.After(a) {
		t.Error("expected b.After(a)")
	}
	if !a.Equal(NewDate(2024, 3, 15)) {
		t.Error("expected equal dates to compare equal")
	}
	if a.Equal(b) {
		t.Error("different days compared equal")
	}
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		name string
		d    Date
		n    int
		want Date
	}{
		{"within month", NewDate(2024, 3, 15), 3, NewDate(2024, 3, 18)},
		{"month rollover", NewDate(2024, 3, 31), 1, NewDate(2024, 4, 1)},
		{"year rollover", NewDate(2023, 12, 31), 1, NewDate(2024, 1, 1)},
		{"leap february", NewDate(2024, 2, 28), 1, NewDate(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.AddDays(tt.n); !got.Equal(tt.want) {
				t.Errorf("AddDays(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	a := NewDate(2024, 1, 1)
	b := NewDate(2024, 1, 15)

	if got := b.DaysSince(a); got != 14 {
		t.Errorf("DaysSince = %d, want 14", got)
	}
	if got := a.DaysSince(b); got != -14 {
		t.Errorf("reverse DaysSince = %d, want -14", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 1, 31},
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
		{2000, 2, 29},
		{1900, 2, 28},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 3, 5)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-03-05"` {
		t.Errorf("marshal = %s, want %q", data, `"2024-03-05"`)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDateUnmarshalRejectsNonString(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`20240305`), &d); err == nil {
		t.Error("expected error for numeric date")
	}
	if err := json.Unmarshal([]byte(`"2024-13-01"`), &d); err == nil {
		t.Error("expected error for month 13")
	}
}
