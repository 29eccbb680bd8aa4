package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"eventticketing/internal/domain"
)

// TypeResolverConfig tunes free-text ticket-type matching. Zero values fall
// back to the defaults below, which target Icelandic campaign spreadsheets.
type TypeResolverConfig struct {
	// Synonyms maps loose phrasings to canonical type names. Keys and values
	// are normalized before use.
	Synonyms map[string]string
	// Keyword sets for the categorical rules, matched as whole words.
	FoodWords  []string
	DanceWords []string
	// OnlyWords are "just/only" qualifiers that turn a dance keyword into a
	// dance-only match.
	OnlyWords []string
	// Explicit canonical names for the categorical targets. When empty they
	// are detected from the type table: the combined type is the one whose
	// name contains both a food and a dance keyword, the dance-only type the
	// one with a dance keyword but no food keyword.
	CombinedTypeName  string
	DanceOnlyTypeName string
}

func defaultResolverConfig() TypeResolverConfig {
	return TypeResolverConfig{
		FoodWords:  []string{"matur", "mat", "food", "dinner"},
		DanceWords: []string{"ball", "dansleikur", "dance"},
		OnlyWords:  []string{"bara", "adeins", "just", "only"},
	}
}

// TypeResolver maps free-text type descriptions from spreadsheets, in
// multiple spellings and diacritics, to ticket-type IDs.
type TypeResolver struct {
	byName     map[string]string // normalized type name -> id
	synonyms   map[string]string // normalized phrase -> normalized type name
	food       map[string]struct{}
	dance      map[string]struct{}
	only       map[string]struct{}
	combinedID string
	danceID    string
}

// NewTypeResolver builds a resolver over the given type table.
func NewTypeResolver(types []*domain.TicketType, cfg TypeResolverConfig) *TypeResolver {
	def := defaultResolverConfig()
	if len(cfg.FoodWords) == 0 {
		cfg.FoodWords = def.FoodWords
	}
	if len(cfg.DanceWords) == 0 {
		cfg.DanceWords = def.DanceWords
	}
	if len(cfg.OnlyWords) == 0 {
		cfg.OnlyWords = def.OnlyWords
	}

	r := &TypeResolver{
		byName:   make(map[string]string, len(types)),
		synonyms: make(map[string]string, len(cfg.Synonyms)),
		food:     wordSet(cfg.FoodWords),
		dance:    wordSet(cfg.DanceWords),
		only:     wordSet(cfg.OnlyWords),
	}
	for _, t := range types {
		r.byName[NormalizeTypeText(t.Name)] = t.ID
	}
	for phrase, name := range cfg.Synonyms {
		r.synonyms[NormalizeTypeText(phrase)] = NormalizeTypeText(name)
	}

	if cfg.CombinedTypeName != "" {
		r.combinedID = r.byName[NormalizeTypeText(cfg.CombinedTypeName)]
	}
	if cfg.DanceOnlyTypeName != "" {
		r.danceID = r.byName[NormalizeTypeText(cfg.DanceOnlyTypeName)]
	}
	for _, t := range types {
		words := fields(NormalizeTypeText(t.Name))
		hasFood := containsAny(words, r.food)
		hasDance := containsAny(words, r.dance)
		if r.combinedID == "" && hasFood && hasDance {
			r.combinedID = t.ID
		}
		if r.danceID == "" && hasDance && !hasFood {
			r.danceID = t.ID
		}
	}
	return r
}

// Resolve returns the ticket-type ID for the raw description. The second
// return is false when nothing matches; the caller decides whether that is a
// fatal row or a skip. Precedence: exact name, synonym table, then keyword
// rules. A text with both a food and a dance keyword is always the combined
// type, so "matur og ball" never falls into the dance-only bucket even
// though it contains the dance keyword.
func (r *TypeResolver) Resolve(raw string) (string, bool) {
	key := NormalizeTypeText(raw)
	if key == "" {
		return "", false
	}
	if id, ok := r.byName[key]; ok {
		return id, true
	}
	if name, ok := r.synonyms[key]; ok {
		if id, ok := r.byName[name]; ok {
			return id, true
		}
	}

	words := fields(key)
	hasFood := containsAny(words, r.food)
	hasDance := containsAny(words, r.dance)
	switch {
	case hasFood && hasDance:
		if r.combinedID != "" {
			return r.combinedID, true
		}
	case hasDance:
		// Dance-only needs the bare keyword or an explicit only-qualifier;
		// any other extra words make the row ambiguous, and ambiguous rows
		// resolve to nothing rather than a guessed default.
		if len(words) == 1 || containsAny(words, r.only) {
			if r.danceID != "" {
				return r.danceID, true
			}
		}
	}
	return "", false
}

// NormalizeTypeText produces the comparison key: trimmed, lowercased,
// diacritics stripped, Icelandic letters substituted, whitespace collapsed.
func NormalizeTypeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'ð':
			b.WriteString("d")
		case 'þ':
			b.WriteString("th")
		case 'æ':
			b.WriteString("ae")
		case 'ø':
			b.WriteString("o")
		case 'ß':
			b.WriteString("ss")
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[NormalizeTypeText(w)] = struct{}{}
	}
	return set
}

func fields(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsAny(words []string, set map[string]struct{}) bool {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
