// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Names is a front-matter field that may be written either as a single
// string or as a list of strings.
type Names []string

// UnmarshalYAML accepts a scalar or a sequence. The function-style signature
// is understood by both yaml.v2 and yaml.v3 decoders.
func (n *Names) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		single = strings.TrimSpace(single)
		if single == "" {
			*n = nil
		} else {
			*n = Names{single}
		}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	out := make(Names, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*n = out
	return nil
}

// String joins the names with ", ".
func (n Names) String() string {
	return strings.Join(n, ", ")
}

// FrontMatter holds the YAML block at the top of an MDX document.
type FrontMatter struct {
	// Title is the page title.
	Title string `json:"title" yaml:"title"`

	// IndexTitle is the label used in the generated index. Documents without
	// it are left out of the index.
	IndexTitle string `json:"indexTitle" yaml:"indexTitle"`

	// Description is a short summary of the document.
	Description string `json:"description" yaml:"description"`

	// IsArticle marks documents subject to citation checks. Documents that
	// set it to false are skipped; a missing value counts as true.
	IsArticle *bool `json:"isArticle,omitempty" yaml:"isArticle"`

	// Authors, Editors and Contributors are printed after the bibliography.
	Authors      Names `json:"authors,omitempty" yaml:"authors"`
	Editors      Names `json:"editors,omitempty" yaml:"editors"`
	Contributors Names `json:"contributors,omitempty" yaml:"contributors"`
}

// Article reports whether the document takes part in verification.
func (m FrontMatter) Article() bool {
	return m.IsArticle == nil || *m.IsArticle
}

// DocumentContext is the per-file state carried from verification to
// rewriting. It is never shared between documents.
type DocumentContext struct {
	// Path is the file the document was read from.
	Path string

	// Content is the full file text after normalization.
	Content string

	// Body is the span of Content between the front matter and any
	// previously generated trailing block.
	Body Span

	// Meta is the decoded front matter.
	Meta FrontMatter

	// HasFootnotes is set when the body contains a footnote reference.
	HasFootnotes bool

	// Citations lists every scanned citation in text order.
	Citations []RawCitation

	// Resolved parallels Citations once verification succeeds.
	Resolved []ResolvedCitation

	// CitedKeys lists the distinct cited keys in bibliography order
	// (primary surname, year, title).
	CitedKeys []string
}

// BodyText returns the document body.
func (d *DocumentContext) BodyText() string {
	return d.Content[d.Body.Start:d.Body.End]
}
