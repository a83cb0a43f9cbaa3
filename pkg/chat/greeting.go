package chat

import (
	"fmt"

	"github.com/flowwed/emily/pkg/extract"
	"github.com/flowwed/emily/pkg/memory"
)

// FirstGreeting is shown to users we know nothing about.
const FirstGreeting = "Hi — I’m Emily.\n" +
	"I’m here to help you plan your wedding.\n" +
	"And if you’d like, I can also walk you through how everything works inside FloWWed Studio.\n" +
	"We can start whenever you’re ready."

// Greeting picks the opening line for an empty user turn: the first-time
// greeting when no facts are known, otherwise a returning greeting
// personalized with the user's name and, when known, their wedding country.
func Greeting(doc memory.Document) string {
	if !doc.HasAny() {
		return FirstGreeting
	}
	return returningGreeting(doc)
}

func returningGreeting(doc memory.Document) string {
	greeting := "Hi"
	if doc.Profile.Name != "" {
		greeting += " " + doc.Profile.Name
	}
	greeting += " — good to see you again. We can continue planning your wedding"

	// A stored country outside the recognized set is stale noise; skip it.
	if c := doc.Wedding.Country; c != "" && extract.IsKnownCountry(c) {
		greeting += " in " + c
	}

	return greeting + " whenever you’re ready."
}

// countryRecall answers the deterministic "remember the country" shortcut
// from memory, without a completion round-trip.
func countryRecall(doc memory.Document) string {
	if c := doc.Wedding.Country; c != "" {
		return fmt.Sprintf("Yes — you mentioned %s.", c)
	}
	return "I don’t have a country noted yet. When you decide, I’ll keep it on file."
}
