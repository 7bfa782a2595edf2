package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/domain"
)

// ExtractObject returns the first balanced JSON object embedded in free text.
// Oracle replies routinely wrap the payload in prose or markdown fences, so
// the scan starts at the first '{' and tracks brace depth, ignoring braces
// inside JSON strings. An unclosed or invalid object is a malformed reply.
func ExtractObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformedReply)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				span := []byte(text[start : i+1])
				if !json.Valid(span) {
					return nil, fmt.Errorf("%w: extracted span is not valid JSON", domain.ErrMalformedReply)
				}
				return span, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unbalanced JSON object", domain.ErrMalformedReply)
}
