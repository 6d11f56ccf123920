// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography decodes BibTeX files into typed entries and builds the
// read-only index that citations are resolved against.
package bibliography

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// supportedTypes maps BibTeX entry types to the types we can format.
var supportedTypes = map[string]types.EntryType{
	"book":    types.EntryBook,
	"article": types.EntryArticle,
}

// nameFields are decoded into Person lists instead of Fields.
var nameFields = map[string]bool{
	"author":     true,
	"editor":     true,
	"translator": true,
}

// yearRe matches the first four-digit run of a year or date field, so
// "1991", "1991-05-02" and "1991/1992" all yield 1991.
var yearRe = regexp.MustCompile(`\d{4}`)

// Load reads and decodes the BibTeX file at path. Unsupported entry types
// are skipped with a warning written to w.
func Load(path string, w io.Writer) ([]types.BibEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibliography: %w", err)
	}
	defer f.Close()

	entries, err := Decode(f, w)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Decode parses BibTeX from r. Entries come back in file order.
func Decode(r io.Reader, w io.Writer) ([]types.BibEntry, error) {
	bib, err := bibtex.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing bibliography: %w", err)
	}

	entries := make([]types.BibEntry, 0, len(bib.Entries))
	for _, raw := range bib.Entries {
		entryType, ok := supportedTypes[strings.ToLower(raw.Type)]
		if !ok {
			fmt.Fprintf(w, "skipped %s: unsupported entry type %q\n", raw.CiteName, raw.Type)
			continue
		}
		entries = append(entries, convertEntry(raw, entryType))
	}
	return entries, nil
}

func convertEntry(raw *bibtex.BibEntry, entryType types.EntryType) types.BibEntry {
	fields := make(map[string]string, len(raw.Fields))
	for name, value := range raw.Fields {
		if value == nil {
			continue
		}
		fields[strings.ToLower(name)] = value.String()
	}

	entry := types.BibEntry{
		Key:         strings.TrimSpace(raw.CiteName),
		Type:        entryType,
		Authors:     ParseNames(fields["author"]),
		Editors:     ParseNames(fields["editor"]),
		Translators: ParseNames(fields["translator"]),
		Year:        parseYear(fields["year"], fields["date"]),
		Title:       cleanValue(fields["title"]),
		Fields:      make(map[string]string),
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if nameFields[name] || name == "title" || name == "year" {
			continue
		}
		value := cleanValue(fields[name])
		if name == "pages" {
			value = strings.ReplaceAll(value, "--", "–")
		}
		if name == "location" {
			name = "address"
			if _, ok := fields["address"]; ok {
				continue
			}
		}
		if value != "" {
			entry.Fields[name] = value
		}
	}
	return entry
}

// parseYear returns the year from the year field, falling back to the
// biblatex date field. It returns 0 when neither holds a year.
func parseYear(candidates ...string) int {
	for _, c := range candidates {
		m := yearRe.FindString(c)
		if m == "" {
			continue
		}
		if y, err := strconv.Atoi(m); err == nil {
			return y
		}
	}
	return 0
}

// texReplacer undoes the escapes BibTeX authors use for literal characters.
var texReplacer = strings.NewReplacer(
	`\&`, "&",
	`\%`, "%",
	`\$`, "$",
	`\#`, "#",
	`\_`, "_",
	"---", "—",
	"{", "",
	"}", "",
	"~", " ",
)

// cleanValue strips TeX grouping and escapes and collapses whitespace.
func cleanValue(s string) string {
	return strings.Join(strings.Fields(texReplacer.Replace(s)), " ")
}
