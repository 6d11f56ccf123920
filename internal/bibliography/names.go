// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"strings"
	"unicode"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// ParseNames splits a BibTeX name list ("Hegel, G. W. F. and Hume, David")
// into people. Separators inside braces are ignored, so corporate names
// like "{Smith and Sons}" stay whole.
func ParseNames(list string) []types.Person {
	var people []types.Person
	for _, raw := range splitTopLevel(list) {
		if p, ok := parsePerson(raw); ok {
			people = append(people, p)
		}
	}
	return people
}

// splitTopLevel splits on the word "and" outside of braces.
func splitTopLevel(list string) []string {
	words := topLevelFields(list)
	var (
		parts   []string
		current []string
	)
	for _, w := range words {
		if strings.EqualFold(w, "and") {
			parts = append(parts, strings.Join(current, " "))
			current = nil
			continue
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, " "))
	}
	return parts
}

// topLevelFields splits s on whitespace that is not inside braces.
func topLevelFields(s string) []string {
	var (
		fields []string
		b      strings.Builder
		depth  int
	)
	flush := func() {
		if b.Len() > 0 {
			fields = append(fields, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '{':
			depth++
			b.WriteRune(r)
		case r == '}':
			if depth > 0 {
				depth--
			}
			b.WriteRune(r)
		case unicode.IsSpace(r) && depth == 0:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return fields
}

// parsePerson handles the two common BibTeX forms: "Family, Given" and
// "Given von Family". A comma form with three parts ("Family, Jr, Given")
// keeps the suffix on the family name.
func parsePerson(raw string) (types.Person, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Person{}, false
	}

	if parts := splitTopLevelCommas(raw); len(parts) > 1 {
		family := cleanValue(parts[0])
		given := cleanValue(parts[len(parts)-1])
		if len(parts) == 3 {
			family += ", " + cleanValue(parts[1])
		}
		return types.Person{Given: given, Family: family}, family != ""
	}

	words := topLevelFields(raw)
	if len(words) == 1 {
		return types.Person{Family: cleanValue(words[0])}, true
	}

	// The family name starts at the first lowercase particle ("van", "de")
	// after the first word, or at the last word.
	split := len(words) - 1
	for i := 1; i < len(words)-1; i++ {
		if isParticle(words[i]) {
			split = i
			break
		}
	}
	return types.Person{
		Given:  cleanValue(strings.Join(words[:split], " ")),
		Family: cleanValue(strings.Join(words[split:], " ")),
	}, true
}

func splitTopLevelCommas(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func isParticle(word string) bool {
	if strings.HasPrefix(word, "{") {
		return false
	}
	for _, r := range word {
		return unicode.IsLower(r)
	}
	return false
}
