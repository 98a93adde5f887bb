package domain_test

import (
	"testing"

	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

func TestParseMonto(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain integer", "150000", "150000"},
		{"plain decimal", "1234.5", "1234.5"},
		{"rounds to cents", "10.0051", "10.01"},
		{"display form", "$150.000,00", "150000"},
		{"display form no symbol", "1.234,56", "1234.56"},
		{"surrounding space", "  85000 ", "85000"},
		{"empty", "", "0"},
		{"non numeric", "abc", "0"},
		{"negative", "-12", "0"},
		{"grouping without comma", "1.234.567", "1234567"},
		{"thousands only", "1.500", "1500"},
		{"three decimals not grouped", "0.500", "0.5"},
		{"trailing garbage", "12abc", "12"},
		{"trailing dot", "12.", "12"},
		{"leading dot", ".5", "0.5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ParseMonto(tc.raw)
			want := decimal.RequireFromString(tc.want)
			if !got.Equal(want) {
				t.Errorf("ParseMonto(%q) = %s; want %s", tc.raw, got, want)
			}
		})
	}
}

func TestFormatMonto(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"5", "5,00"},
		{"999.9", "999,90"},
		{"1000", "1.000,00"},
		{"235000", "235.000,00"},
		{"1234567.891", "1.234.567,89"},
		{"-1500", "-1.500,00"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := domain.FormatMonto(decimal.RequireFromString(tc.in))
			if got != tc.want {
				t.Errorf("FormatMonto(%s) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMontoRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "0.01", "12.3", "95000", "150000.75", "1000000", "123456789.99"} {
		d := domain.ParseMonto(in)
		back := domain.ParseMonto("$" + domain.FormatMonto(d))
		if !back.Equal(d) {
			t.Errorf("round trip %s: got %s", in, back)
		}
	}
}
