package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "a3f1c2d4-5e6f-4a7b-8c9d-0e1f2a3b4c5d"

func TestNew_ProducesValidTokens(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok := New()
		require.True(t, IsValid(tok), "generated token %q must be valid", tok)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %q", tok)
		seen[tok] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical", sample, true},
		{"empty", "", false},
		{"uppercase rejected", "A3F1C2D4-5E6F-4A7B-8C9D-0E1F2A3B4C5D", false},
		{"wrong version nibble", "a3f1c2d4-5e6f-1a7b-8c9d-0e1f2a3b4c5d", false},
		{"wrong variant nibble", "a3f1c2d4-5e6f-4a7b-1c9d-0e1f2a3b4c5d", false},
		{"surrounding whitespace", " " + sample + " ", false},
		{"embedded in url", "https://tix.example/t/" + sample, false},
		{"missing group", "a3f1c2d4-5e6f-4a7b-8c9d", false},
		{"non-hex", "z3f1c2d4-5e6f-4a7b-8c9d-0e1f2a3b4c5d", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.input))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare token", sample, sample, true},
		{"uppercase input", "A3F1C2D4-5E6F-4A7B-8C9D-0E1F2A3B4C5D", sample, true},
		{"stray whitespace", "  " + sample + "\n", sample, true},
		{"inside url", "https://tix.example/t/" + sample + "?src=qr", sample, true},
		{"percent encoded", "a3f1c2d4%2D5e6f-4a7b-8c9d-0e1f2a3b4c5d", sample, true},
		{"zero width chars", "a3f1c2d4-\u200b5e6f-4a7b-8c9d-0e1f\u200d2a3b4c5d", sample, true},
		{"bom prefix", "\ufeff" + sample, sample, true},
		{"en dash", "a3f1c2d4–5e6f-4a7b-8c9d-0e1f2a3b4c5d", sample, true},
		{"minus sign", "a3f1c2d4−5e6f-4a7b-8c9d-0e1f2a3b4c5d", sample, true},
		{"fullwidth digits", "ａ３f1c2d4-5e6f-4a7b-8c9d-0e1f2a3b4c5d", sample, true},
		{"no token", "hello world", "", false},
		{"empty", "", "", false},
		{"wrong version", "a3f1c2d4-5e6f-1a7b-8c9d-0e1f2a3b4c5d", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	inputs := []string{
		sample,
		"https://tix.example/t/" + sample,
		"\u200b" + sample + "\u200b",
	}
	for _, in := range inputs {
		first, ok := Extract(in)
		require.True(t, ok)
		second, ok := Extract(first)
		require.True(t, ok)
		assert.Equal(t, first, second)
	}
}
