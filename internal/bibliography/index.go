// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// ErrDuplicateKey is returned by Build when two entries share a key.
var ErrDuplicateKey = errors.New("duplicate bibliography key")

// DuplicateKeyError names the offending key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicateKey, e.Key)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// AmbiguityGroup lists the keys of entries sharing a primary surname and
// year, in bibliography order.
type AmbiguityGroup []string

// Ambiguous reports whether the group has more than one member.
func (g AmbiguityGroup) Ambiguous() bool { return len(g) > 1 }

type authorYear struct {
	surname string
	year    int
}

// Index is the immutable lookup structure built once per run. It is safe for
// concurrent use because nothing mutates it after Build returns.
type Index struct {
	entries      []types.BibEntry
	byKey        map[string]int
	byAuthorYear map[authorYear]AmbiguityGroup
}

// Build indexes entries by key and by (surname, year). Entries without a
// year are reachable by key only.
func Build(entries []types.BibEntry) (*Index, error) {
	idx := &Index{
		entries:      make([]types.BibEntry, len(entries)),
		byKey:        make(map[string]int, len(entries)),
		byAuthorYear: make(map[authorYear]AmbiguityGroup),
	}
	copy(idx.entries, entries)

	for i, e := range idx.entries {
		if _, exists := idx.byKey[e.Key]; exists {
			return nil, &DuplicateKeyError{Key: e.Key}
		}
		idx.byKey[e.Key] = i

		surname := e.PrimarySurname()
		if e.Year == 0 || surname == "" {
			continue
		}
		ay := authorYear{surname: FoldSurname(surname), year: e.Year}
		idx.byAuthorYear[ay] = append(idx.byAuthorYear[ay], e.Key)
	}
	return idx, nil
}

// FoldSurname normalizes a surname for grouping: NFC composition followed by
// Unicode case folding, so "Hegel", "HEGEL" and decomposed accents compare
// equal.
func FoldSurname(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Len returns the number of entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Entries returns a copy of the entries in bibliography order.
func (idx *Index) Entries() []types.BibEntry {
	out := make([]types.BibEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Keys returns every key in bibliography order.
func (idx *Index) Keys() []string {
	keys := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		keys[i] = e.Key
	}
	return keys
}

// LookupByKey returns the entry with the given key.
func (idx *Index) LookupByKey(key string) (types.BibEntry, bool) {
	i, ok := idx.byKey[key]
	if !ok {
		return types.BibEntry{}, false
	}
	return idx.entries[i], true
}

// LookupByAuthorYear returns the group for (surname, year), which may be
// empty, a singleton, or ambiguous. The returned slice is a copy.
func (idx *Index) LookupByAuthorYear(surname string, year int) AmbiguityGroup {
	g := idx.byAuthorYear[authorYear{surname: FoldSurname(surname), year: year}]
	if len(g) == 0 {
		return nil
	}
	out := make(AmbiguityGroup, len(g))
	copy(out, g)
	return out
}

// GroupOf returns the ambiguity group the keyed entry belongs to. Entries
// without a year form a group of their own.
func (idx *Index) GroupOf(key string) AmbiguityGroup {
	e, ok := idx.LookupByKey(key)
	if !ok {
		return nil
	}
	if e.Year == 0 || e.PrimarySurname() == "" {
		return AmbiguityGroup{key}
	}
	return idx.LookupByAuthorYear(e.PrimarySurname(), e.Year)
}

// AmbiguousGroups returns every group with two or more members, ordered by
// the position of their first member.
func (idx *Index) AmbiguousGroups() []AmbiguityGroup {
	var groups []AmbiguityGroup
	for _, g := range idx.byAuthorYear {
		if g.Ambiguous() {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return idx.byKey[groups[i][0]] < idx.byKey[groups[j][0]]
	})
	return groups
}

// SortKeys returns the distinct known keys ordered for a bibliography:
// primary surname, then year, then title, then key. Unknown keys are
// dropped.
func (idx *Index) SortKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		if _, ok := idx.byKey[k]; !ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	fold := cases.Fold()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := idx.entries[idx.byKey[out[i]]], idx.entries[idx.byKey[out[j]]]
		if sa, sb := fold.String(a.PrimarySurname()), fold.String(b.PrimarySurname()); sa != sb {
			return sa < sb
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if ta, tb := fold.String(a.Title), fold.String(b.Title); ta != tb {
			return ta < tb
		}
		return a.Key < b.Key
	})
	return out
}
