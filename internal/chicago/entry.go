// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chicago

import (
	"strings"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// Entry renders the bibliography line of key.
//
// Book:    Family, Given. Year. _Title_. Edited by E. Translated by T. Address: Publisher. https://doi.org/DOI.
// Article: Family, Given. "Title". _Journal_ Vol, no. N (Year): Pages. Translated by T. https://doi.org/DOI.
func (s *Style) Entry(key string) string {
	e, ok := s.idx.LookupByKey(key)
	if !ok {
		return ""
	}
	var parts []string
	add := func(text string) {
		if text != "" {
			parts = append(parts, period(text))
		}
	}

	add(creators(e))
	switch e.Type {
	case types.EntryArticle:
		add(formatTitle(types.EntryArticle, e.Title))
		add(journal(e, s.Year(key)))
		add(contributors("Translated", e.Translators))
	default:
		add(s.Year(key))
		add(formatTitle(types.EntryBook, e.Title))
		if len(e.Authors) > 0 {
			add(contributors("Edited", e.Editors))
		}
		add(contributors("Translated", e.Translators))
		add(publication(e.Field("address"), e.Field("publisher")))
	}
	add(link(e))
	return strings.Join(parts, " ")
}

// creators lists authors with only the first name inverted. Entries with
// editors but no authors are listed under the editors.
func creators(e types.BibEntry) string {
	people := e.Creators()
	var names string
	switch len(people) {
	case 0:
		return ""
	case 1:
		names = people[0].Inverted()
	case 2:
		names = people[0].Inverted() + " and " + people[1].String()
	default:
		names = people[0].Inverted() + " et al."
	}
	if len(e.Authors) == 0 {
		if len(people) == 1 {
			names += ", ed"
		} else {
			names += ", eds"
		}
	}
	return names
}

// contributors renders a phrase such as "Translated by A, B, and C".
func contributors(role string, people []types.Person) string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.String()
	}
	var list string
	switch len(names) {
	case 0:
		return ""
	case 1:
		list = names[0]
	case 2:
		list = names[0] + " and " + names[1]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
	return role + " by " + list
}

// journal renders "_Journal_ Vol, no. N (Year): Pages".
func journal(e types.BibEntry, year string) string {
	var b strings.Builder
	if j := e.Field("journal"); j != "" {
		b.WriteString(formatTitle(types.EntryBook, j))
	}
	if v := e.Field("volume"); v != "" {
		b.WriteString(" " + v)
	}
	if n := e.Field("number"); n != "" {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(" no. " + n)
	}
	b.WriteString(" (" + year + ")")
	if p := e.Field("pages"); p != "" {
		b.WriteString(": " + p)
	}
	return strings.TrimSpace(b.String())
}

// publication renders "Address: Publisher".
func publication(address, publisher string) string {
	switch {
	case address != "" && publisher != "":
		return address + ": " + publisher
	case publisher != "":
		return publisher
	default:
		return address
	}
}

// link returns the DOI as a URL, or the url field.
func link(e types.BibEntry) string {
	if doi := e.Field("doi"); doi != "" {
		if strings.HasPrefix(doi, "http://") || strings.HasPrefix(doi, "https://") {
			return doi
		}
		return "https://doi.org/" + doi
	}
	return e.Field("url")
}

// period ends text with a full stop unless it already ends in terminal
// punctuation, looking through closing emphasis and quotes.
func period(text string) string {
	t := strings.TrimRight(text, `_*"”’`)
	if t == "" {
		return text
	}
	switch t[len(t)-1] {
	case '.', '?', '!':
		return text
	}
	return text + "."
}
