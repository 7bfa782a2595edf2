package scale

import "testing"

func TestIsValid(t *testing.T) {
	for _, s := range []Scale{Small, Medium, Large, Enterprise} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Scale("planetary").IsValid() {
		t.Error("expected unknown scale to be invalid")
	}
	if Scale("").IsValid() {
		t.Error("expected empty scale to be invalid")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(""); got != Medium {
		t.Errorf("expected empty scale to normalize to medium, got %q", got)
	}
	if got := Normalize("huge"); got != Medium {
		t.Errorf("expected unknown scale to normalize to medium, got %q", got)
	}
	if got := Normalize(Enterprise); got != Enterprise {
		t.Errorf("expected valid scale to pass through, got %q", got)
	}
}

func TestAdjacent(t *testing.T) {
	tests := []struct {
		a, b Scale
		want bool
	}{
		{Small, Medium, true},
		{Medium, Small, true},
		{Medium, Large, true},
		{Large, Enterprise, true},
		{Small, Large, false},
		{Small, Enterprise, false},
		{Medium, Medium, false},
		{Small, "galactic", false},
	}
	for _, tc := range tests {
		if got := tc.a.Adjacent(tc.b); got != tc.want {
			t.Errorf("Adjacent(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
