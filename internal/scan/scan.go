// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan finds Chicago author-date citations in MDX text.
//
// Scanning is a pure function of the input. A parenthetical is reported
// only when every part of it parses as a citation, so prose in parentheses
// is never mistaken for one; malformed citations are simply not reported.
package scan

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// Accepted year range. Four-digit page numbers outside it are not years.
const (
	MinYear = 1000
	MaxYear = 2099
)

// Delimiters of a region written by the rewriter. The opening comment
// carries the canonical source of the citation group so the region can be
// scanned again on later runs.
const (
	RenderedOpen  = "{/*cite:"
	RenderedClose = "{/*/cite*/}"
)

const (
	namePattern  = `\p{Lu}[\p{L}\p{M}'’\-]*`
	namesPattern = namePattern + `(?:\s+` + namePattern + `)*`
	keyPattern   = `[A-Za-z0-9](?:[A-Za-z0-9_:.\-]*[A-Za-z0-9])?`
)

var (
	// parenRe matches a single-line parenthetical without nesting.
	parenRe = regexp.MustCompile(`\(([^()\n]*)\)`)

	// renderedRe matches a rendered region and captures its source group.
	renderedRe = regexp.MustCompile(regexp.QuoteMeta(RenderedOpen) +
		`(\([^()\n]*\))\*/\}[^\n]*?` + regexp.QuoteMeta(RenderedClose))

	// fenceRe matches fenced code blocks, which are never scanned.
	fenceRe = regexp.MustCompile("(?ms)^[ \t]*\x60\x60\x60.*?^[ \t]*\x60\x60\x60[^\n]*$")

	// inlineCodeRe matches inline code spans.
	inlineCodeRe = regexp.MustCompile("\x60[^\x60\n]+\x60")

	// leadInRe matches narrative lead-ins such as "see" or "cf.".
	leadInRe = regexp.MustCompile(`^(?i)(see\s+also|see|cf\.|compare|e\.g\.,?)\s+`)

	keyRe = regexp.MustCompile(`^[*_]*@(` + keyPattern + `)[*_]*(?:\s*,\s*(\S.*?))?\s*$`)

	authorYearRe = regexp.MustCompile(`^[*_]*(` + namesPattern + `)[*_]*` +
		`(?:\s+(?:and|&)\s+[*_]*(` + namesPattern + `)[*_]*)?` +
		`(\s+et\s+al\.)?[*_]*\s+(\d{4})[*_]*` +
		`(?:\s*,\s*(\S.*?))?\s*$`)
)

// Scan returns every citation in text, ordered by position. Citations from
// one parenthetical share a Group span and keep their left-to-right order.
func Scan(text string) []types.RawCitation {
	var out []types.RawCitation
	masked := CodeSpans(text)

	for _, m := range renderedRe.FindAllStringSubmatchIndex(text, -1) {
		region := types.Span{Start: m[0], End: m[1]}
		if overlaps(masked, region) {
			continue
		}
		masked = append(masked, region)
		inner := types.Span{Start: m[2] + 1, End: m[3] - 1}
		if parts, ok := parseGroup(text, inner, region, true); ok {
			out = append(out, parts...)
		}
	}

	for _, m := range parenRe.FindAllStringSubmatchIndex(text, -1) {
		group := types.Span{Start: m[0], End: m[1]}
		if overlaps(masked, group) {
			continue
		}
		inner := types.Span{Start: m[2], End: m[3]}
		if parts, ok := parseGroup(text, inner, group, false); ok {
			out = append(out, parts...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

// CodeSpans returns the fenced code blocks and inline code spans of text.
// Nothing inside them is treated as a citation.
func CodeSpans(text string) []types.Span {
	var spans []types.Span
	for _, m := range fenceRe.FindAllStringIndex(text, -1) {
		spans = append(spans, types.Span{Start: m[0], End: m[1]})
	}
	for _, m := range inlineCodeRe.FindAllStringIndex(text, -1) {
		s := types.Span{Start: m[0], End: m[1]}
		if !overlaps(spans, s) {
			spans = append(spans, s)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func overlaps(spans []types.Span, s types.Span) bool {
	for _, m := range spans {
		if s.Start < m.End && m.Start < s.End {
			return true
		}
	}
	return false
}

// parseGroup splits a parenthetical on semicolons and parses every part.
// It fails if any part fails.
func parseGroup(text string, inner, group types.Span, rendered bool) ([]types.RawCitation, bool) {
	content := text[inner.Start:inner.End]
	var parts []types.RawCitation

	start := 0
	for start <= len(content) {
		end := strings.IndexByte(content[start:], ';')
		if end < 0 {
			end = len(content)
		} else {
			end += start
		}

		a, b := trimSpan(content, start, end)
		if a == b {
			return nil, false
		}

		var leadIn string
		if m := leadInRe.FindStringSubmatchIndex(content[a:b]); m != nil {
			leadIn = strings.Join(strings.Fields(content[a+m[2]:a+m[3]]), " ")
			a += m[1]
		}

		c, ok := parsePart(content[a:b])
		if !ok {
			return nil, false
		}
		c.LeadIn = leadIn
		c.Span = types.Span{Start: inner.Start + a, End: inner.Start + b}
		c.Group = group
		c.Rendered = rendered
		parts = append(parts, c)

		start = end + 1
	}

	if len(parts) > 1 {
		for i := range parts {
			parts[i].Multi = true
		}
	}
	return parts, len(parts) > 0
}

func trimSpan(s string, a, b int) (int, int) {
	for a < b && isSpace(s[a]) {
		a++
	}
	for b > a && isSpace(s[b-1]) {
		b--
	}
	return a, b
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// parsePart parses one citation without its lead-in.
func parsePart(part string) (types.RawCitation, bool) {
	if m := keyRe.FindStringSubmatch(part); m != nil {
		return types.RawCitation{
			Kind:    types.KindKeyRef,
			Text:    part,
			Key:     m[1],
			Locator: collapse(m[2]),
		}, true
	}

	m := authorYearRe.FindStringSubmatch(part)
	if m == nil {
		return types.RawCitation{}, false
	}
	year, err := strconv.Atoi(m[4])
	if err != nil || year < MinYear || year > MaxYear {
		return types.RawCitation{}, false
	}

	surnames := []string{collapse(m[1])}
	if m[2] != "" {
		surnames = append(surnames, collapse(m[2]))
	}
	return types.RawCitation{
		Kind:     types.KindAuthorYear,
		Text:     part,
		Surnames: surnames,
		EtAl:     m[3] != "",
		Year:     year,
		Locator:  collapse(m[5]),
	}, true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
