// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// EntryType identifies the kind of bibliography record. Only books and
// articles are supported.
type EntryType string

const (
	EntryBook    EntryType = "book"
	EntryArticle EntryType = "article"
)

// Person is a name parsed from a BibTeX name list.
type Person struct {
	// Given holds the given name(s), e.g. "Georg Wilhelm Friedrich".
	Given string `json:"given,omitempty" yaml:"given,omitempty"`

	// Family is the surname including any particle, e.g. "Hegel".
	Family string `json:"family" yaml:"family"`
}

// String returns the name in reading order: "Given Family".
func (p Person) String() string {
	if p.Given == "" {
		return p.Family
	}
	return p.Given + " " + p.Family
}

// Inverted returns the name in bibliography order: "Family, Given".
func (p Person) Inverted() string {
	if p.Given == "" {
		return p.Family
	}
	return p.Family + ", " + p.Given
}

// BibEntry is one bibliography record decoded from the .bib file.
type BibEntry struct {
	// Key is the citation key, unique across the bibliography.
	Key string `json:"key" yaml:"key"`

	// Type is book or article.
	Type EntryType `json:"type" yaml:"type"`

	// Authors lists the authors in source order.
	Authors []Person `json:"authors" yaml:"authors"`

	// Editors lists the editors, if any.
	Editors []Person `json:"editors,omitempty" yaml:"editors,omitempty"`

	// Translators lists the translators, if any.
	Translators []Person `json:"translators,omitempty" yaml:"translators,omitempty"`

	// Year is the publication year. Zero means the year is unknown and the
	// entry can only be cited by key.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Title is the work's title with TeX markup removed.
	Title string `json:"title" yaml:"title"`

	// Fields holds the remaining type-specific fields (publisher, address,
	// journal, volume, number, pages, doi), keyed by lowercase field name.
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field returns the named type-specific field, or "" when absent.
func (e BibEntry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// PrimarySurname returns the first author's family name. Entries without
// authors fall back to the first editor, as Chicago does for edited volumes.
func (e BibEntry) PrimarySurname() string {
	if len(e.Authors) > 0 {
		return e.Authors[0].Family
	}
	if len(e.Editors) > 0 {
		return e.Editors[0].Family
	}
	return ""
}

// Creators returns the authors, or the editors when there are no authors.
func (e BibEntry) Creators() []Person {
	if len(e.Authors) > 0 {
		return e.Authors
	}
	return e.Editors
}
