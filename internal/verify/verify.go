// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks every citation of a document against the
// bibliography and normalizes how the citations are written.
package verify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/mdxcite/internal/bibliography"
	"github.com/pdiddy/mdxcite/internal/document"
	"github.com/pdiddy/mdxcite/internal/resolve"
	"github.com/pdiddy/mdxcite/internal/scan"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// footnoteRe matches a footnote reference such as [^1] or [^note].
var footnoteRe = regexp.MustCompile(`\[\^[^\]\s]+\]`)

// Document verifies one document. It reports every failure rather than
// stopping at the first. On success the returned context holds the
// normalized content, its citations and their resolutions.
//
// Documents whose front matter sets isArticle to false are returned with
// their metadata only.
func Document(path, content string, idx *bibliography.Index) (*types.DocumentContext, []*Error) {
	src, err := document.Parse(content)
	if err != nil {
		return nil, []*Error{{Path: path, Err: err}}
	}
	if !src.Meta.Article() {
		return &types.DocumentContext{Path: path, Content: content, Body: src.Body, Meta: src.Meta}, nil
	}

	var errs []*Error
	if off, ok := checkBalance(src.BodyText()); !ok {
		errs = append(errs, &Error{
			Path: path,
			Line: lineAt(content, src.Body.Start+off),
			Err:  ErrUnbalancedParentheses,
		})
	}

	citations := scanBody(src)
	_, failures := resolve.All(citations, idx)
	for _, f := range failures {
		errs = append(errs, &Error{
			Path:     path,
			Line:     lineAt(content, f.Citation.Group.Start),
			Citation: content[f.Citation.Group.Start:f.Citation.Group.End],
			Err:      f.Err,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	normalized := Normalize(content, citations)
	if normalized != content {
		if src, err = document.Parse(normalized); err != nil {
			return nil, []*Error{{Path: path, Err: err}}
		}
		citations = scanBody(src)
	}

	resolved, failures := resolve.All(citations, idx)
	if len(failures) > 0 {
		// Normalization never changes what a citation resolves to.
		return nil, []*Error{{Path: path, Err: fmt.Errorf("normalized text no longer resolves: %w", failures[0].Err)}}
	}

	keys := make([]string, len(resolved))
	for i, r := range resolved {
		keys[i] = r.Key
	}
	return &types.DocumentContext{
		Path:         path,
		Content:      normalized,
		Body:         src.Body,
		Meta:         src.Meta,
		HasFootnotes: footnoteRe.MatchString(src.BodyText()),
		Citations:    citations,
		Resolved:     resolved,
		CitedKeys:    idx.SortKeys(keys),
	}, nil
}

// scanBody scans the body of src and returns citations positioned in the
// full content.
func scanBody(src *document.Source) []types.RawCitation {
	citations := scan.Scan(src.BodyText())
	for i := range citations {
		shift(&citations[i].Span, src.Body.Start)
		shift(&citations[i].Group, src.Body.Start)
	}
	return citations
}

func shift(s *types.Span, by int) {
	s.Start += by
	s.End += by
}

// Normalize rewrites every plain citation group of content in canonical
// form: single spaces, no emphasis markers, ", " before locators and "; "
// between citations. Rendered regions are left alone. Citation spans must
// refer to content. Normalize is idempotent.
func Normalize(content string, citations []types.RawCitation) string {
	var b strings.Builder
	last := 0
	for _, group := range scan.Groups(citations) {
		g := group[0].Group
		if group[0].Rendered || g.Start < last {
			continue
		}
		b.WriteString(content[last:g.Start])
		b.WriteString(scan.Format(group))
		last = g.End
	}
	b.WriteString(content[last:])
	return b.String()
}

// checkBalance reports whether parentheses outside code balance. When they
// do not it returns the offset of the first offending parenthesis.
func checkBalance(text string) (int, bool) {
	code := scan.CodeSpans(text)
	var open []int
	for i := 0; i < len(text); i++ {
		for len(code) > 0 && code[0].End <= i {
			code = code[1:]
		}
		if len(code) > 0 && i >= code[0].Start {
			i = code[0].End - 1
			continue
		}
		switch text[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return i, false
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return open[0], false
	}
	return 0, true
}

// lineAt returns the 1-based line of offset in text.
func lineAt(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}

// Result is the outcome of verifying one file.
type Result struct {
	Path string

	// Context is set when the file verified.
	Context *types.DocumentContext

	// Errors lists every failure in the file.
	Errors []*Error

	// Skipped is set for documents that are not articles.
	Skipped bool

	// Normalized is set when the file was rewritten in canonical form.
	Normalized bool
}

// File reads and verifies the document at path. When verification changes
// the text, the file is replaced atomically.
func File(path string, idx *bibliography.Index) Result {
	res := Result{Path: path}

	src, err := document.Read(path)
	if err != nil {
		res.Errors = []*Error{{Path: path, Err: err}}
		return res
	}
	content := src.Content

	doc, errs := Document(path, content, idx)
	if len(errs) > 0 {
		res.Errors = errs
		return res
	}
	res.Context = doc
	if !doc.Meta.Article() {
		res.Skipped = true
		return res
	}

	if doc.Content != content {
		if err := document.WriteFile(path, []byte(doc.Content)); err != nil {
			res.Errors = []*Error{{Path: path, Err: err}}
			res.Context = nil
			return res
		}
		res.Normalized = true
	}
	return res
}
