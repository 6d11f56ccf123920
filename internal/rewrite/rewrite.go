// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite turns verified documents into their processed form: key
// citations rendered in Chicago style, followed by a generated block with
// the notes heading, the bibliography and the contributor lines.
//
// The generated block starts at document.GeneratedMarker and runs to the end
// of the file. It is discarded and rebuilt on every run, so processing an
// already processed document yields the same bytes.
package rewrite

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/mdxcite/internal/chicago"
	"github.com/pdiddy/mdxcite/internal/document"
	"github.com/pdiddy/mdxcite/internal/scan"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// Render returns the processed text of doc. It does not touch the file.
// doc must come from a successful verification: every citation resolved
// and Resolved parallel to Citations.
func Render(doc *types.DocumentContext, style *chicago.Style) string {
	body := renderCitations(doc, style)

	generated := Notes(doc) + Bibliography(doc.CitedKeys, style) + Contributors(doc.Meta)
	if generated == "" {
		if doc.Body.End == len(doc.Content) {
			return body
		}
		return strings.TrimRight(body, " \t\r\n") + "\n"
	}
	return strings.TrimRight(body, " \t\r\n") + "\n\n" + document.GeneratedMarker + "\n" + generated
}

// renderCitations returns the text up to the generated block with every
// group holding a key citation replaced by a rendered region.
func renderCitations(doc *types.DocumentContext, style *chicago.Style) string {
	keys := make(map[types.Span]string, len(doc.Resolved))
	for _, r := range doc.Resolved {
		keys[r.Citation.Span] = r.Key
	}

	text := doc.Content[:doc.Body.End]
	var b strings.Builder
	last := 0
	for _, group := range scan.Groups(doc.Citations) {
		g := group[0].Group
		if !group[0].Rendered && !scan.HasKeyRef(group) {
			continue
		}
		if g.Start < last || g.End > len(text) {
			continue
		}
		b.WriteString(text[last:g.Start])
		b.WriteString(Region(group, keys, style))
		last = g.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Region renders a citation group as a region that keeps the canonical
// source in an MDX comment ahead of the visible Chicago text:
//
//	{/*cite:(@hegel1991logic, 61)*/}(Hegel 1991, _Science_, 61){/*/cite*/}
func Region(group []types.RawCitation, keys map[types.Span]string, style *chicago.Style) string {
	parts := make([]string, len(group))
	for i, c := range group {
		text := style.InText(keys[c.Span], c.Locator)
		if c.LeadIn != "" {
			text = c.LeadIn + " " + text
		}
		parts[i] = text
	}
	return scan.RenderedOpen + scan.Format(group) + "*/}" +
		"(" + strings.Join(parts, "; ") + ")" + scan.RenderedClose
}

// Notes returns the notes heading when the document has footnotes.
func Notes(doc *types.DocumentContext) string {
	if !doc.HasFootnotes {
		return ""
	}
	return "\n## Notes\n"
}

// Bibliography returns the bibliography block for keys, which must already
// be in bibliography order. It is empty when keys is.
func Bibliography(keys []string, style *chicago.Style) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n## Bibliography\n\n<div className=\"text-sm\">\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s\n", style.Entry(k))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// Contributors returns the authors, editors and contributors lines. Empty
// fields are left out.
func Contributors(meta types.FrontMatter) string {
	var b strings.Builder
	for _, f := range []struct {
		label string
		names types.Names
	}{
		{"Authors", meta.Authors},
		{"Editors", meta.Editors},
		{"Contributors", meta.Contributors},
	} {
		if len(f.names) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n**%s**  \n%s\n", f.label, f.names)
	}
	return b.String()
}

// Summary counts what Process did.
type Summary struct {
	Processed      int
	Unchanged      int
	Skipped        int
	Failed         int
	Bibliographies int
	Contributors   int
	NotesHeadings  int
}

// Total returns the number of documents handled.
func (s Summary) Total() int {
	return s.Processed + s.Unchanged + s.Skipped + s.Failed
}

// Process renders every document and writes back the ones whose text
// changed. Write failures are reported and do not stop the run.
func Process(docs []*types.DocumentContext, style *chicago.Style, w io.Writer) (Summary, error) {
	var (
		sum  Summary
		errs []error
	)
	for _, doc := range docs {
		if !doc.Meta.Article() {
			sum.Skipped++
			fmt.Fprintf(w, "skipped %s (not an article)\n", doc.Path)
			continue
		}

		out := Render(doc, style)
		if len(doc.CitedKeys) > 0 {
			sum.Bibliographies++
		}
		if Contributors(doc.Meta) != "" {
			sum.Contributors++
		}
		if doc.HasFootnotes {
			sum.NotesHeadings++
		}

		if out == doc.Content {
			sum.Unchanged++
			fmt.Fprintf(w, "unchanged %s\n", doc.Path)
			continue
		}
		if err := document.WriteFile(doc.Path, []byte(out)); err != nil {
			sum.Failed++
			errs = append(errs, fmt.Errorf("writing %s: %w", doc.Path, err))
			fmt.Fprintf(w, "failed  %s: %v\n", doc.Path, err)
			continue
		}
		sum.Processed++
		fmt.Fprintf(w, "processed %s\n", doc.Path)
	}
	fmt.Fprintf(w, "\nprocessed: %d, unchanged: %d, skipped: %d, failed: %d (total: %d); %d bibliographies, %d contributor blocks, %d notes headings\n",
		sum.Processed, sum.Unchanged, sum.Skipped, sum.Failed, sum.Total(),
		sum.Bibliographies, sum.Contributors, sum.NotesHeadings)
	return sum, errors.Join(errs...)
}
