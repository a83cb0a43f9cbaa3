// Package memory defines the durable memory document for a user, the merge
// rules that fold freshly extracted facts into it, and the Store interface
// its persistence drivers implement.
//
// The document is a fixed, typed schema rather than an open-ended map so
// merge and extraction are checked at compile time; unknown keys in LLM
// output are dropped by typed JSON decoding. A field's zero value means
// "unknown"; merging never replaces a known value with an unknown one.
package memory

import (
	"encoding/json"
	"slices"
)

// Conversation modes stored in Document.Mode.
const (
	ModeWedding = "wedding"
	ModeChat    = "chat"
)

// Document is the durable structured record for one token.
type Document struct {
	Profile Profile `json:"profile"`
	Wedding Wedding `json:"wedding"`

	// Mode is the detected conversation mode for the latest turn.
	Mode string `json:"mode,omitempty"`
}

// Profile holds user attributes.
type Profile struct {
	Name string `json:"name,omitempty"`
}

// Wedding holds event attributes.
type Wedding struct {
	Country        string   `json:"country,omitempty"`
	City           string   `json:"city,omitempty"`
	Date           string   `json:"date,omitempty"`
	Style          string   `json:"style,omitempty"`
	GuestCount     int      `json:"guest_count,omitempty"`
	BudgetRange    string   `json:"budget_range,omitempty"`
	VenueShortlist []string `json:"venue_shortlist,omitempty"`
}

// IsZero reports whether no profile attribute is known.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// IsZero reports whether no wedding attribute is known.
func (w Wedding) IsZero() bool {
	return w.Country == "" && w.City == "" && w.Date == "" && w.Style == "" &&
		w.GuestCount == 0 && w.BudgetRange == "" && len(w.VenueShortlist) == 0
}

// HasAny reports whether the document carries any known profile or wedding
// fact. Mode alone does not count; it is bookkeeping, not a fact.
func (d Document) HasAny() bool {
	return !d.Profile.IsZero() || !d.Wedding.IsZero()
}

// Equal reports whether two documents carry the same facts.
func (d Document) Equal(other Document) bool {
	return d.Profile == other.Profile &&
		d.Mode == other.Mode &&
		weddingEqual(d.Wedding, other.Wedding)
}

func weddingEqual(a, b Wedding) bool {
	return a.Country == b.Country && a.City == b.City && a.Date == b.Date &&
		a.Style == b.Style && a.GuestCount == b.GuestCount &&
		a.BudgetRange == b.BudgetRange &&
		slices.Equal(a.VenueShortlist, b.VenueShortlist)
}

// Snapshot serializes the document for inclusion in a session preamble.
func (d Document) Snapshot() string {
	b, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Merge folds update into base and returns the result. A field in update
// wins only when it is non-empty (non-zero); fields left at their zero
// value never erase known facts. Merge is idempotent and monotonic:
// re-applying the same update changes nothing, and a known fact can only
// be replaced by another known fact.
func Merge(base, update Document) Document {
	out := base

	if update.Profile.Name != "" {
		out.Profile.Name = update.Profile.Name
	}

	if update.Wedding.Country != "" {
		out.Wedding.Country = update.Wedding.Country
	}
	if update.Wedding.City != "" {
		out.Wedding.City = update.Wedding.City
	}
	if update.Wedding.Date != "" {
		out.Wedding.Date = update.Wedding.Date
	}
	if update.Wedding.Style != "" {
		out.Wedding.Style = update.Wedding.Style
	}
	if update.Wedding.GuestCount > 0 {
		out.Wedding.GuestCount = update.Wedding.GuestCount
	}
	if update.Wedding.BudgetRange != "" {
		out.Wedding.BudgetRange = update.Wedding.BudgetRange
	}
	if len(update.Wedding.VenueShortlist) > 0 {
		out.Wedding.VenueShortlist = slices.Clone(update.Wedding.VenueShortlist)
	}

	if update.Mode != "" {
		out.Mode = update.Mode
	}

	return out
}
