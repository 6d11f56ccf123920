// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds the alphabetical index of documents from their
// indexTitle front matter.
package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/pdiddy/mdxcite/internal/document"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// ErrMissingTarget is returned by Write when no output path is given.
var ErrMissingTarget = errors.New("index target not set")

// Entry is one indexed document.
type Entry struct {
	Title string
	Path  string
}

// Entries collects the documents that carry an index title. The index
// document itself, when among docs, is left out.
func Entries(docs []*types.DocumentContext, target string) []Entry {
	var out []Entry
	for _, d := range docs {
		title := strings.TrimSpace(d.Meta.IndexTitle)
		if title == "" {
			continue
		}
		if target != "" && filepath.Clean(d.Path) == filepath.Clean(target) {
			continue
		}
		out = append(out, Entry{Title: title, Path: d.Path})
	}
	return out
}

// Build renders the index: one "## X" heading per initial letter in order,
// each followed by links to its documents sorted by title without regard
// to case.
func Build(entries []Entry, rewrite *types.LinkRewrite) string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	fold := cases.Fold()
	folded := make(map[string]string, len(sorted))
	for _, e := range sorted {
		folded[e.Title] = fold.String(e.Title)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := folded[sorted[i].Title], folded[sorted[j].Title]
		if a != b {
			return a < b
		}
		return sorted[i].Path < sorted[j].Path
	})

	var (
		b       strings.Builder
		current rune = -1
	)
	for _, e := range sorted {
		first, _ := utf8.DecodeRuneInString(e.Title)
		if initial := unicode.ToUpper(first); initial != current {
			current = initial
			fmt.Fprintf(&b, "\n## %c\n", initial)
		}
		fmt.Fprintf(&b, "\n[%s](%s)\n", e.Title, Link(e.Path, rewrite))
	}
	return b.String()
}

// Link turns a document path into a link target: forward slashes, no .mdx
// extension, and the first occurrence of rewrite.From replaced by
// rewrite.To.
func Link(path string, rewrite *types.LinkRewrite) string {
	link := strings.TrimSuffix(filepath.ToSlash(path), document.Extension)
	if rewrite != nil && rewrite.From != "" {
		link = strings.Replace(link, rewrite.From, rewrite.To, 1)
	}
	return link
}

// Write renders the index into target. Hand-written content above the
// generated marker is kept; everything below it is replaced. The file is
// left alone when the index did not change.
func Write(target string, entries []Entry, rewrite *types.LinkRewrite) error {
	if target == "" {
		return ErrMissingTarget
	}

	var existing string
	data, err := os.ReadFile(target)
	switch {
	case err == nil:
		existing = string(data)
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading index: %w", err)
	}

	head := existing
	if i := document.MarkerOffset(existing); i >= 0 {
		head = existing[:i]
	}
	head = strings.TrimRight(head, " \t\r\n")

	out := document.GeneratedMarker + "\n" + Build(entries, rewrite)
	if head != "" {
		out = head + "\n\n" + out
	}
	if out == existing {
		return nil
	}
	if err := document.WriteFile(target, []byte(out)); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

// ParseRewrite parses a rewrite rule written as "old=new". The replacement
// may be empty; the prefix may not.
func ParseRewrite(s string) (*types.LinkRewrite, error) {
	from, to, ok := strings.Cut(s, "=")
	if !ok || from == "" {
		return nil, fmt.Errorf("invalid link rewrite %q: want old=new", s)
	}
	return &types.LinkRewrite{From: from, To: to}, nil
}
