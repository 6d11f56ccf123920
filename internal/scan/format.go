// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"strconv"
	"strings"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// Source returns the canonical source text of one citation, lead-in
// included: "see Hegel 2010, 61" or "@hegel1991logic, 61".
func Source(c types.RawCitation) string {
	var b strings.Builder
	if c.LeadIn != "" {
		b.WriteString(c.LeadIn)
		b.WriteByte(' ')
	}
	switch c.Kind {
	case types.KindKeyRef:
		b.WriteByte('@')
		b.WriteString(c.Key)
	default:
		b.WriteString(strings.Join(c.Surnames, " and "))
		if c.EtAl {
			b.WriteString(" et al.")
		}
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(c.Year))
	}
	if c.Locator != "" {
		b.WriteString(", ")
		b.WriteString(c.Locator)
	}
	return b.String()
}

// Format returns the canonical parenthetical for a group of citations.
func Format(group []types.RawCitation) string {
	parts := make([]string, len(group))
	for i, c := range group {
		parts[i] = Source(c)
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

// Groups splits a scan result into parentheticals, keeping order.
func Groups(citations []types.RawCitation) [][]types.RawCitation {
	var groups [][]types.RawCitation
	for i, c := range citations {
		if i > 0 && c.Group == citations[i-1].Group {
			groups[len(groups)-1] = append(groups[len(groups)-1], c)
			continue
		}
		groups = append(groups, []types.RawCitation{c})
	}
	return groups
}

// HasKeyRef reports whether any citation in the group is written with a key.
func HasKeyRef(group []types.RawCitation) bool {
	for _, c := range group {
		if c.Kind == types.KindKeyRef {
			return true
		}
	}
	return false
}
