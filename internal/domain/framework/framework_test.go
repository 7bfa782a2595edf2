package framework

import (
	"strings"
	"testing"
)

func mustDimension(t *testing.T, name string, weight int) Dimension {
	t.Helper()
	d, err := NewDimension(name, weight, "desc", "rubric", "relevance")
	if err != nil {
		t.Fatalf("NewDimension(%q): %v", name, err)
	}
	return d
}

func dims(t *testing.T, n int) []Dimension {
	t.Helper()
	out := make([]Dimension, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mustDimension(t, "dim-"+strings.Repeat("i", i+1), 5))
	}
	return out
}

func TestNewDimension_ClampsWeight(t *testing.T) {
	low := mustDimension(t, "low", -3)
	if low.Weight() != MinWeight {
		t.Errorf("weight = %d, want %d", low.Weight(), MinWeight)
	}
	high := mustDimension(t, "high", 42)
	if high.Weight() != MaxWeight {
		t.Errorf("weight = %d, want %d", high.Weight(), MaxWeight)
	}
}

func TestNewDimension_RequiresName(t *testing.T) {
	if _, err := NewDimension("", 5, "", "", ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestNew_SizeBounds(t *testing.T) {
	if _, err := New(dims(t, 3), "r", "hash", SourceTemplate); err == nil {
		t.Error("expected error for 3 dimensions")
	}
	if _, err := New(dims(t, 7), "r", "hash", SourceOracle); err == nil {
		t.Error("expected error for 7 dimensions")
	}
	for _, n := range []int{4, 5, 6} {
		if _, err := New(dims(t, n), "r", "hash", SourceOracle); err != nil {
			t.Errorf("unexpected error for %d dimensions: %v", n, err)
		}
	}
}

func TestFramework_Accessors(t *testing.T) {
	f, err := New(dims(t, 4), "weighs effort against longevity", "abc123", SourceTemplate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ContextHash() != "abc123" {
		t.Errorf("context hash = %q", f.ContextHash())
	}
	if f.Source() != SourceTemplate {
		t.Errorf("source = %q", f.Source())
	}
	if f.TotalWeight() != 20 {
		t.Errorf("total weight = %d, want 20", f.TotalWeight())
	}
	if _, ok := f.Dimension("dim-i"); !ok {
		t.Error("expected dimension lookup to succeed")
	}
	if _, ok := f.Dimension("missing"); ok {
		t.Error("expected dimension lookup to fail")
	}
}
