// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationKind distinguishes author-year citations from explicit key references.
type CitationKind string

const (
	// KindAuthorYear is a citation written as (Surname Year[, locator]).
	KindAuthorYear CitationKind = "author-year"

	// KindKeyRef is a citation written as (@key[, locator]).
	KindKeyRef CitationKind = "key"
)

// Span is a half-open byte range [Start, End) into a document's text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// RawCitation is one citation found by the scanner. Values are created per
// scan and never mutated.
type RawCitation struct {
	// Kind is author-year or key.
	Kind CitationKind `json:"kind" yaml:"kind"`

	// Span covers this citation's own text inside the parenthetical.
	Span Span `json:"span" yaml:"span"`

	// Group covers the whole parenthetical, including the parentheses. For
	// citations found inside a rendered region it covers the whole region.
	Group Span `json:"group" yaml:"group"`

	// Text is the citation text as written, without the lead-in.
	Text string `json:"text" yaml:"text"`

	// LeadIn is a narrative prefix such as "see" or "cf.", or "".
	LeadIn string `json:"lead_in,omitempty" yaml:"lead_in,omitempty"`

	// Surnames lists the cited authors' surnames (author-year only).
	Surnames []string `json:"surnames,omitempty" yaml:"surnames,omitempty"`

	// EtAl is set when the author list ended in "et al.".
	EtAl bool `json:"et_al,omitempty" yaml:"et_al,omitempty"`

	// Year is the cited year (author-year only).
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Key is the explicit citation key (key only).
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Locator is the page or section reference, or "".
	Locator string `json:"locator,omitempty" yaml:"locator,omitempty"`

	// Multi is set when the citation shares its parenthetical with others.
	Multi bool `json:"multi,omitempty" yaml:"multi,omitempty"`

	// Rendered is set when the citation was recovered from a region the
	// rewriter produced on an earlier run.
	Rendered bool `json:"rendered,omitempty" yaml:"rendered,omitempty"`
}

// Surname returns the first surname, which is the one used for matching.
func (c RawCitation) Surname() string {
	if len(c.Surnames) == 0 {
		return ""
	}
	return c.Surnames[0]
}

// ResolutionMethod records how a citation was bound to its entry.
type ResolutionMethod string

const (
	// MethodDirect: an author-year citation whose group has one member.
	MethodDirect ResolutionMethod = "direct"

	// MethodByKey: a key citation to an entry with no ambiguity.
	MethodByKey ResolutionMethod = "by-key"

	// MethodDisambiguated: a key citation to a member of an ambiguous group.
	MethodDisambiguated ResolutionMethod = "disambiguated"
)

// ResolvedCitation pairs a RawCitation with exactly one bibliography key.
type ResolvedCitation struct {
	Citation RawCitation      `json:"citation" yaml:"citation"`
	Key      string           `json:"key" yaml:"key"`
	Method   ResolutionMethod `json:"method" yaml:"method"`
}
