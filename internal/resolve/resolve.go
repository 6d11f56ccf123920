// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve binds scanned citations to bibliography entries.
package resolve

import (
	"github.com/pdiddy/mdxcite/internal/bibliography"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// Resolve binds c to exactly one entry of idx. Author-year citations resolve
// only when their (surname, year) group has a single member; an ambiguous
// group always fails with an *AmbiguousCitationError listing its members.
// Key citations resolve whenever the key exists.
func Resolve(c types.RawCitation, idx *bibliography.Index) (types.ResolvedCitation, error) {
	switch c.Kind {
	case types.KindKeyRef:
		if _, ok := idx.LookupByKey(c.Key); !ok {
			return types.ResolvedCitation{}, &UnknownKeyError{Key: c.Key}
		}
		method := types.MethodByKey
		if idx.GroupOf(c.Key).Ambiguous() {
			method = types.MethodDisambiguated
		}
		return types.ResolvedCitation{Citation: c, Key: c.Key, Method: method}, nil

	default:
		group := idx.LookupByAuthorYear(c.Surname(), c.Year)
		switch len(group) {
		case 0:
			return types.ResolvedCitation{}, &UnknownEntryError{Surname: c.Surname(), Year: c.Year}
		case 1:
			return types.ResolvedCitation{Citation: c, Key: group[0], Method: types.MethodDirect}, nil
		default:
			return types.ResolvedCitation{}, &AmbiguousCitationError{
				Surname:    c.Surname(),
				Year:       c.Year,
				Candidates: []string(group),
			}
		}
	}
}

// All resolves every citation independently and returns the successes and
// failures. Failures carry the index of the citation they belong to.
func All(citations []types.RawCitation, idx *bibliography.Index) ([]types.ResolvedCitation, []Failure) {
	var (
		resolved []types.ResolvedCitation
		failures []Failure
	)
	for i, c := range citations {
		r, err := Resolve(c, idx)
		if err != nil {
			failures = append(failures, Failure{Index: i, Citation: c, Err: err})
			continue
		}
		resolved = append(resolved, r)
	}
	return resolved, failures
}

// Failure is one citation that did not resolve.
type Failure struct {
	Index    int
	Citation types.RawCitation
	Err      error
}
