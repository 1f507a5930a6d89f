package ingest

import "testing"

func TestParseValueRobust(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		defCurrency  string
		wantValue    float64
		wantCurrency string
	}{
		{"kenyan shillings", "KES 2,500,000", "USD", 2500000, "KES"},
		{"ksh prefix", "Ksh 12,000,000", "USD", 12000000, "KES"},
		{"dollar symbol", "up to $280,000.50", "KES", 280000.50, "USD"},
		{"euro dot grouping", "2.500.000 EUR", "USD", 2500000, "EUR"},
		{"pounds", "GBP 75,000", "USD", 75000, "GBP"},
		{"takes largest number", "Lot 1: 40,000 and Lot 2: 150,000 USD", "USD", 150000, "USD"},
		{"no number", "value to be confirmed", "KES", 0, "KES"},
		{"empty default", "no amount here", "", 0, "USD"},
		{"per annum noise", "KES 6,200,000 per annum", "USD", 6200000, "KES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, currency := parseValueRobust(tt.text, tt.defCurrency)
			if value != tt.wantValue {
				t.Errorf("value = %v, want %v", value, tt.wantValue)
			}
			if currency != tt.wantCurrency {
				t.Errorf("currency = %q, want %q", currency, tt.wantCurrency)
			}
		})
	}
}

func TestSplitAndCleanList(t *testing.T) {
	block := "- Registered firm\n• Tax compliance\n2) Audited accounts\nregistered FIRM"
	got := splitAndCleanList(block)
	want := []string{"Registered firm", "Tax compliance", "Audited accounts"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStripLeadingNumbering(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1. First item", "First item"},
		{"12) Twelfth", "Twelfth"},
		{"3 - Dashed", "Dashed"},
		{"No numbering", "No numbering"},
		{"2026 budget line", "budget line"},
	}
	for _, tt := range tests {
		if got := stripLeadingNumbering(tt.in); got != tt.want {
			t.Errorf("stripLeadingNumbering(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
