// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrUnknownKey        = errors.New("unknown citation key")
	ErrUnknownEntry      = errors.New("no bibliography entry")
	ErrAmbiguousCitation = errors.New("ambiguous citation")
)

// UnknownKeyError reports a key citation whose key is not in the bibliography.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%v: @%s", ErrUnknownKey, e.Key)
}

func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// UnknownEntryError reports an author-year citation with no matching entry.
type UnknownEntryError struct {
	Surname string
	Year    int
}

func (e *UnknownEntryError) Error() string {
	return fmt.Sprintf("%v for %s %d", ErrUnknownEntry, e.Surname, e.Year)
}

func (e *UnknownEntryError) Unwrap() error { return ErrUnknownEntry }

// AmbiguousCitationError reports an author-year citation that matches
// several entries. Candidates are in bibliography order.
type AmbiguousCitationError struct {
	Surname    string
	Year       int
	Candidates []string
}

func (e *AmbiguousCitationError) Error() string {
	return fmt.Sprintf("%v: %s %d matches %s", ErrAmbiguousCitation,
		e.Surname, e.Year, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousCitationError) Unwrap() error { return ErrAmbiguousCitation }

// Suggestion tells the author how to rewrite the citation with a key.
func (e *AmbiguousCitationError) Suggestion() string {
	forms := make([]string, len(e.Candidates))
	for i, k := range e.Candidates {
		forms[i] = "(@" + k + ")"
	}
	return fmt.Sprintf("use one of %s instead of (%s %d)",
		strings.Join(forms, ", "), e.Surname, e.Year)
}
