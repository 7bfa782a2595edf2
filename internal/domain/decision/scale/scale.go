package scale

// Scale is the project scale of a decision.
type Scale string

// Project scale constants, ordered smallest to largest.
const (
	Small      Scale = "small"
	Medium     Scale = "medium"
	Large      Scale = "large"
	Enterprise Scale = "enterprise"
)

// Default is the scale assumed when the context does not state one.
const Default = Medium

// ordering positions each scale on the small→enterprise axis.
var ordering = map[Scale]int{
	Small:      0,
	Medium:     1,
	Large:      2,
	Enterprise: 3,
}

// IsValid checks if the scale is one of the supported values.
func (s Scale) IsValid() bool {
	_, ok := ordering[s]
	return ok
}

// Normalize maps unknown or empty values to the default scale.
func Normalize(s Scale) Scale {
	if !s.IsValid() {
		return Default
	}
	return s
}

// Adjacent reports whether two scales sit next to each other in the ordering.
// A scale is not adjacent to itself.
func (s Scale) Adjacent(other Scale) bool {
	a, aok := ordering[s]
	b, bok := ordering[other]
	if !aok || !bok {
		return false
	}
	diff := a - b
	return diff == 1 || diff == -1
}
