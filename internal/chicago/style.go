// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chicago renders citations and bibliography entries in Chicago
// author-date style.
//
// A Style is built once per bibliography. It decides up front how the
// members of every ambiguous author-year group are told apart, so that two
// different entries never render to the same in-text citation.
package chicago

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/mdxcite/internal/bibliography"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// NoDate stands in for the year of undated entries.
const NoDate = "n.d."

// leadingArticles are skipped when taking a title fragment.
var leadingArticles = map[string]bool{"a": true, "an": true, "the": true}

// Style renders entries of one bibliography.
type Style struct {
	idx    *bibliography.Index
	policy types.Disambiguator

	// letters maps keys to their year letter ("a", "b", ...).
	letters map[string]string

	// fragments maps keys to their formatted title fragment.
	fragments map[string]string
}

// New builds a Style for idx. An empty policy means DisambiguateTitle.
func New(idx *bibliography.Index, policy types.Disambiguator) *Style {
	if policy == "" {
		policy = types.DisambiguateTitle
	}
	s := &Style{
		idx:       idx,
		policy:    policy,
		letters:   make(map[string]string),
		fragments: make(map[string]string),
	}
	for _, g := range idx.AmbiguousGroups() {
		s.disambiguate(g)
	}
	return s
}

// Policy returns the disambiguation policy in effect.
func (s *Style) Policy() types.Disambiguator { return s.policy }

func (s *Style) disambiguate(g bibliography.AmbiguityGroup) {
	members := make([]types.BibEntry, 0, len(g))
	for _, k := range g {
		e, _ := s.idx.LookupByKey(k)
		members = append(members, e)
	}

	fold := cases.Fold()
	sort.SliceStable(members, func(i, j int) bool {
		ti, tj := fold.String(members[i].Title), fold.String(members[j].Title)
		if ti != tj {
			return ti < tj
		}
		return members[i].Key < members[j].Key
	})

	if s.policy == types.DisambiguateLetter {
		for i, e := range members {
			s.letters[e.Key] = letter(i)
		}
		return
	}

	words := make([][]string, len(members))
	for i, e := range members {
		words[i] = titleWords(e.Title)
	}
	for i, e := range members {
		frag, ok := uniqueFragment(i, words)
		if !ok {
			// Identical titles: fall back to letters for this member.
			s.letters[e.Key] = letter(i)
			continue
		}
		s.fragments[e.Key] = formatTitle(e.Type, frag)
	}
}

// letter returns "a" for 0, "b" for 1, ... and "aa" after "z".
func letter(i int) string {
	var b []byte
	for {
		b = append([]byte{byte('a' + i%26)}, b...)
		i = i/26 - 1
		if i < 0 {
			return string(b)
		}
	}
}

// titleWords splits a title into words, dropping a leading article when
// other words follow.
func titleWords(title string) []string {
	words := strings.Fields(title)
	if len(words) > 1 && leadingArticles[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return words
}

// uniqueFragment returns the shortest leading run of words[i] that no other
// member of the group shares.
func uniqueFragment(i int, words [][]string) (string, bool) {
	fold := cases.Fold()
	prefix := func(ws []string, n int) string {
		if n > len(ws) {
			n = len(ws)
		}
		return fold.String(strings.Join(ws[:n], " "))
	}
	for n := 1; n <= len(words[i]); n++ {
		mine := prefix(words[i], n)
		unique := true
		for j := range words {
			if j != i && prefix(words[j], n) == mine {
				unique = false
				break
			}
		}
		if unique {
			return strings.TrimRight(strings.Join(words[i][:n], " "), ",:;."), true
		}
	}
	return "", false
}

// formatTitle italicizes book titles and quotes article titles.
func formatTitle(t types.EntryType, title string) string {
	if t == types.EntryArticle {
		return `"` + title + `"`
	}
	return "_" + title + "_"
}

// Year returns the year label of key: the year, a lettered year such as
// "1991a" when letters tell the entry apart, or NoDate.
func (s *Style) Year(key string) string {
	e, ok := s.idx.LookupByKey(key)
	if !ok || e.Year == 0 {
		return NoDate
	}
	return strconv.Itoa(e.Year) + s.letters[key]
}

// Names renders creator surnames for in-text use: "A", "A and B",
// "A, B, and C", or "A et al." for four or more.
func Names(people []types.Person) string {
	surnames := make([]string, len(people))
	for i, p := range people {
		surnames[i] = p.Family
	}
	switch len(surnames) {
	case 0:
		return ""
	case 1:
		return surnames[0]
	case 2:
		return surnames[0] + " and " + surnames[1]
	case 3:
		return surnames[0] + ", " + surnames[1] + ", and " + surnames[2]
	default:
		return surnames[0] + " et al."
	}
}

// InText renders the citation of key with an optional locator, without
// parentheses: "Hegel 2010, 61" or "Hegel 1991, _Science_, 61".
func (s *Style) InText(key, locator string) string {
	e, _ := s.idx.LookupByKey(key)

	var b strings.Builder
	if names := Names(e.Creators()); names != "" {
		b.WriteString(names)
		b.WriteByte(' ')
	}
	b.WriteString(s.Year(key))
	if frag := s.fragments[key]; frag != "" {
		b.WriteString(", ")
		b.WriteString(frag)
	}
	if locator != "" {
		b.WriteString(", ")
		b.WriteString(locator)
	}
	return b.String()
}
