package ingest

import (
	"math"
	"strings"
	"testing"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"12000", 12000},
		{"12,000", 12000},
		{"1,234 views", 1234},
		{"  42  ", 42},
		{"3.75", 3.75},
		{"-0.5", -0.5},
		{"-.5", -0.5},
		{".5", 0.5},
		{"12.", 12},
		{"$1,234.56", 1234.56},
		{"1.2.3", 1.2},
		{"12-3", 12},
		{"+7", 7},
		{"n/a", 0},
		{"views", 0},
		{"-", 0},
		{".", 0},
		{"--5", 0},
		{"", 0},
		{"1e5", 15},
		{strings.Repeat("9", 400), 0},
	}

	for _, tt := range tests {
		name := tt.input
		if len(name) > 20 {
			name = name[:20] + "..."
		}
		t.Run(name, func(t *testing.T) {
			got := ToNumber(tt.input)
			if got != tt.want {
				t.Errorf("ToNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("ToNumber(%q) returned non-finite %v", tt.input, got)
			}
		})
	}
}
