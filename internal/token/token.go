// Package token implements the canonical ticket-token format: a lowercase
// random (version 4) UUID. It also recovers tokens from noisy scanner and
// copy-paste input.
package token

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches the canonical shape: 8-4-4-4-12 hex with the version
// nibble fixed to 4 and the variant nibble in [89ab].
var tokenPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}`)

var strictPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// New returns a fresh token.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether s is exactly a canonical token. Used to reject
// malformed input before a store round-trip; Postgres would otherwise raise
// a uuid cast error on lookup.
func IsValid(s string) bool {
	if !strictPattern.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Extract scrubs raw input and returns the first canonical token found.
// The second return is false when the input contains no token; callers must
// treat that as "not a ticket", not as an error. Extract is idempotent:
// applying it to its own output returns the same token.
func Extract(raw string) (string, bool) {
	s := raw
	if decoded, err := url.QueryUnescape(s); err == nil {
		s = decoded
	}
	s = norm.NFKC.String(s)
	s = stripInvisible(s)
	s = foldDashes(s)
	s = strings.ToLower(s)
	tok := tokenPattern.FindString(s)
	if tok == "" {
		return "", false
	}
	return tok, true
}

// stripInvisible removes zero-width and directional characters that scanners
// and rich-text editors smuggle into pasted tokens: soft hyphen, zero-width
// space/joiner/non-joiner, word joiner, BOM, and the bidi control range.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u00ad', '\u200b', '\u200c', '\u200d', '\u200e', '\u200f',
			'\u2060', '\ufeff',
			'\u202a', '\u202b', '\u202c', '\u202d', '\u202e':
			return -1
		}
		return r
	}, s)
}

// foldDashes maps unicode dash look-alikes to the ASCII hyphen.
func foldDashes(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '‐', '‑', '‒', '–', '—', '―', '−':
			return '-'
		}
		return r
	}, s)
}
