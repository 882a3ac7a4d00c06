package relevance

import (
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
)

// Anchor is what candidates are scored against: title tokens plus the set of
// attendee addresses.
type Anchor struct {
	Tokens    []string
	tokens    map[string]struct{}
	attendees map[string]struct{}
}

// AnchorFromEvent builds an anchor from a meeting's title and attendees.
func AnchorFromEvent(e domain.ContextEvent) Anchor {
	a := AnchorFromText(e.Title)
	for _, att := range e.Attendees {
		if addr := ExtractAddress(att.Email); addr != "" {
			a.attendees[addr] = struct{}{}
		}
	}
	return a
}

// AnchorFromText builds an anchor with no attendees.
func AnchorFromText(text string) Anchor {
	tokens := Tokenize(text)
	a := Anchor{
		Tokens:    tokens,
		tokens:    make(map[string]struct{}, len(tokens)),
		attendees: map[string]struct{}{},
	}
	for _, t := range tokens {
		a.tokens[t] = struct{}{}
	}
	return a
}

// MatchesAny reports whether any candidate token is an anchor token.
func (a Anchor) MatchesAny(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := a.tokens[t]; ok {
			return true
		}
	}
	return false
}

// HasAttendee reports whether addr (already extracted) is a meeting attendee.
func (a Anchor) HasAttendee(addr string) bool {
	if addr == "" {
		return false
	}
	_, ok := a.attendees[strings.ToLower(addr)]
	return ok
}
