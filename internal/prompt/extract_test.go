package prompt

import (
	"errors"
	"testing"

	"github.com/arbiterhq/arbiter/internal/domain"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"leading prose", `Here is my answer: {"a":1} hope it helps`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested objects", `{"a":{"b":{"c":3}},"d":4}`, `{"a":{"b":{"c":3}},"d":4}`},
		{"brace inside string", `{"note":"use {braces} carefully","n":1}`, `{"note":"use {braces} carefully","n":1}`},
		{"escaped quote in string", `{"note":"a \"quoted\" {value}","n":2}`, `{"note":"a \"quoted\" {value}","n":2}`},
		{"trailing junk after object", `{"a":1}}}`, `{"a":1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractObject(tc.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("ExtractObject = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestExtractObject_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no object", "the answer is forty two"},
		{"empty", ""},
		{"unbalanced", `{"a": {"b": 1}`},
		{"not json inside braces", `{not actually json}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractObject(tc.text)
			if !errors.Is(err, domain.ErrMalformedReply) {
				t.Errorf("expected ErrMalformedReply, got %v", err)
			}
		})
	}
}
