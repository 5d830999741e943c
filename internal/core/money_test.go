package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"whole number", "1500", "1500", false},
		{"two decimals", "12.34", "12.34", false},
		{"rounds half up", "12.345", "12.35", false},
		{"rounds down", "12.344", "12.34", false},
		{"zero rejected", "0", "", true},
		{"negative rejected", "-5.00", "", true},
		{"rounds to zero rejected", "0.004", "", true},
		{"not a number", "abc", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAmount(t *testing.T) {
	got, err := NormalizeAmount(decimal.RequireFromString("99.999"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "100" {
		t.Errorf("NormalizeAmount = %s, want 100", got)
	}

	if _, err := NormalizeAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero error = %v, want ErrInvalidAmount", err)
	}
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	data, err := json.Marshal(decimal.RequireFromString("12.34"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "12.34" {
		t.Errorf("marshal = %s, want unquoted 12.34", data)
	}
}
