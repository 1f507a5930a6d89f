package match

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		currency string
		want     string
	}{
		{"absent value", 0, "USD", "Not specified"},
		{"negative treated as absent", -10, "USD", "Not specified"},
		{"usd grouping no cents", 1500, "USD", "$1,500"},
		{"millions", 2500000, "KES", "KSh 2,500,000"},
		{"euro", 75000, "EUR", "€75,000"},
		{"unknown code falls back to code prefix", 1000, "XOF", "XOF 1,000"},
		{"missing currency defaults", 1500, "", "$1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value, tt.currency); got != tt.want {
				t.Fatalf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.currency, got, tt.want)
			}
		})
	}
}

func TestCategorizeByTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Development of County Revenue System", "ICT & Software"},
		{"Consultancy for Irrigation Feasibility Study", "Consulting"},
		{"Renovation of Administrative Block", "Construction"},
		{"Supply of Laboratory Equipment", "Supplies"},
		{"Training of Community Health Workers", "Training"},
		{"Annual Financial Audit", "General"},
		// Titles hitting several buckets resolve to the earliest entry.
		{"Construction of Software House", "ICT & Software"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := CategorizeByTitle(tt.title); got != tt.want {
				t.Fatalf("CategorizeByTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
