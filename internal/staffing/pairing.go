package staffing

import (
	"regexp"
	"strings"
)

// Event names embed a six-digit campaign token followed by a role tag, e.g.
// "606001-DEMO-Autumn" pairs with "606001-AUDIT-Autumn".
var pairKeyPattern = regexp.MustCompile(`(?i)^(\d{6})-(DEMO|AUDIT)\b`)

// ExtractPairKey pulls the campaign token out of an event name. The boolean
// is false when the name does not carry a recognizable token.
func ExtractPairKey(name string) (string, bool) {
	m := pairKeyPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// pairTag returns the role tag embedded in the event name, upper-cased.
func pairTag(name string) string {
	m := pairKeyPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[2])
}

// FindPair locates the counterpart event sharing the same campaign token and
// carrying the complementary role tag. Returns false when the event has no
// token or no counterpart exists in the candidate set.
func FindPair(event Event, candidates []Event) (Event, bool) {
	key, ok := ExtractPairKey(event.Name)
	if !ok {
		return Event{}, false
	}

	want := complementTag(pairTag(event.Name))
	if want == "" {
		return Event{}, false
	}

	for _, c := range candidates {
		if c.Ref == event.Ref {
			continue
		}
		candidateKey, ok := ExtractPairKey(c.Name)
		if !ok || candidateKey != key {
			continue
		}
		if pairTag(c.Name) == want {
			return c, true
		}
	}
	return Event{}, false
}

func complementTag(tag string) string {
	switch tag {
	case "DEMO":
		return "AUDIT"
	case "AUDIT":
		return "DEMO"
	default:
		return ""
	}
}
