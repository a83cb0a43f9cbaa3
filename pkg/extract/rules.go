package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/flowwed/emily/pkg/memory"
)

// knownCountries is the closed set of country names the deterministic
// extractor recognizes when a message consists of nothing else.
var knownCountries = map[string]struct{}{
	"italy":     {},
	"france":    {},
	"spain":     {},
	"germany":   {},
	"portugal":  {},
	"greece":    {},
	"usa":       {},
	"canada":    {},
	"uk":        {},
	"england":   {},
	"australia": {},
}

// modeKeywords mark a turn as wedding planning rather than open chat.
var modeKeywords = []string{"wedding", "marriage", "ceremony", "venue", "guests", "date", "country"}

var namePattern = regexp.MustCompile(`my name is ([a-z]+)`)

// Rules is the deterministic extractor. It is pure: same text in, same
// update out, no side effects.
type Rules struct{}

// NewRules creates the deterministic rules extractor.
func NewRules() *Rules { return &Rules{} }

// Extract implements Extractor. It inspects only the user text.
func (r *Rules) Extract(_ context.Context, ex Exchange) (memory.Document, error) {
	var upd memory.Document

	lower := strings.ToLower(strings.TrimSpace(ex.UserText))

	if m := namePattern.FindStringSubmatch(lower); m != nil {
		upd.Profile.Name = capitalize(m[1])
	}

	if _, ok := knownCountries[lower]; ok {
		upd.Wedding.Country = capitalize(lower)
	}

	upd.Mode = DetectMode(ex.UserText)

	return upd, nil
}

// DetectMode classifies a user turn as wedding planning or open chat.
func DetectMode(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range modeKeywords {
		if strings.Contains(lower, kw) {
			return memory.ModeWedding
		}
	}
	return memory.ModeChat
}

// IsKnownCountry reports whether name (any case) is in the recognized set.
func IsKnownCountry(name string) bool {
	_, ok := knownCountries[strings.ToLower(name)]
	return ok
}

// capitalize upper-cases the first letter and leaves the rest unchanged.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Compile-time check that Rules implements Extractor.
var _ Extractor = (*Rules)(nil)
