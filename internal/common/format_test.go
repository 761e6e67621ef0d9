package common

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"117853", "$117,853.00"},
		{"1234567.891", "$1,234,567.89"},
		{"999.999", "$1,000.00"},
		{"-42.5", "-$42.50"},
	}
	for _, tt := range tests {
		if got := FormatUSD(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatUSD(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(decimal.NewFromInt(2)); got != "+2.00%" {
		t.Errorf("Expected +2.00%%, got %s", got)
	}
	if got := FormatPercent(decimal.RequireFromString("-0.5")); got != "-0.50%" {
		t.Errorf("Expected -0.50%%, got %s", got)
	}
}
