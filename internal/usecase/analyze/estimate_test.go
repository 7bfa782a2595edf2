package analyze

import (
	"testing"
	"time"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name           string
		optionCount    int
		hasConstraints bool
		want           time.Duration
	}{
		{"two options", 2, false, 31 * time.Second},
		{"two options with constraints", 2, true, 41 * time.Second},
		{"five options", 5, false, 55 * time.Second},
		{"capped at two minutes", 20, true, 120 * time.Second},
		{"zero options", 0, false, 15 * time.Second},
		{"negative count treated as zero", -3, false, 15 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.optionCount, tt.hasConstraints)
			if got != tt.want {
				t.Errorf("Estimate(%d, %v) = %v, want %v", tt.optionCount, tt.hasConstraints, got, tt.want)
			}
		})
	}
}
