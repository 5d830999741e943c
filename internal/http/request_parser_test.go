package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"nassets/internal/core"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{"valid", "year=2024&month=3", 2024, 3, false},
		{"missing year", "month=3", 0, 0, true},
		{"missing month", "year=2024", 0, 0, true},
		{"missing both", "", 0, 0, true},
		{"month zero", "year=2024&month=0", 0, 0, true},
		{"month thirteen", "year=2024&month=13", 0, 0, true},
		{"negative year", "year=-5&month=3", 0, 0, true},
		{"non-numeric", "year=abc&month=3", 0, 0, true},
		{"whitespace trimmed", "year=+2024+&month=+3+", 2024, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/calendar?"+tt.query, nil)
			year, month, err := parseYearMonth(r)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidWindow) {
					t.Fatalf("error = %v, want ErrInvalidWindow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/incomes/x", nil)
		r.SetPathValue("id", tt.raw)
		got, err := parseID(r)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/incomes", strings.NewReader("{not json"))
	var v map[string]any
	if err := decodeJSON(r, &v); err == nil {
		t.Error("expected error for malformed body")
	}
}
