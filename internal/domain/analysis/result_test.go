package analysis

import "testing"

func TestDepthIsValid(t *testing.T) {
	for _, d := range []Depth{DepthQuick, DepthStandard, DepthDeep} {
		if !d.IsValid() {
			t.Errorf("expected %q to be valid", d)
		}
	}
	if Depth("exhaustive").IsValid() {
		t.Error("expected unknown depth to be invalid")
	}
}

func TestComplexityIsValid(t *testing.T) {
	for _, c := range []Complexity{ComplexitySimple, ComplexityModerate, ComplexityComplex} {
		if !c.IsValid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Complexity("byzantine").IsValid() {
		t.Error("expected unknown complexity to be invalid")
	}
}

func TestCompletedPhase(t *testing.T) {
	r := Result{Meta: Meta{Phases: []Phase{PhaseFingerprinting, PhaseQuickScan}}}
	if !r.CompletedPhase(PhaseQuickScan) {
		t.Error("expected quick_scan to be completed")
	}
	if r.CompletedPhase(PhaseDeepAnalysis) {
		t.Error("expected deep_analysis to be absent")
	}
}
