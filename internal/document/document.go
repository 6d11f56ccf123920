// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document reads MDX sources: front matter, the body span, and the
// trailing block a previous run generated. It also finds documents on disk
// and writes them back atomically.
package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// yamlFormat restricts front matter to a leading "---" block.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// GeneratedMarker opens the trailing block written by the rewriter. Everything
// from the marker line to the end of the file is regenerated on every run.
const GeneratedMarker = "{/* mdxcite:generated */}"

// Source is a document as read from disk, before any citation work.
type Source struct {
	// Path is the file the source was read from.
	Path string

	// Content is the full file text.
	Content string

	// Meta is the decoded front matter.
	Meta types.FrontMatter

	// Body spans the text between the front matter and the generated marker.
	Body types.Span
}

// BodyText returns the document body.
func (s *Source) BodyText() string {
	return s.Content[s.Body.Start:s.Body.End]
}

// Head returns everything before the generated block with trailing blank
// lines removed.
func (s *Source) Head() string {
	return strings.TrimRight(s.Content[:s.Body.End], " \t\r\n")
}

// Read loads and parses the document at path.
func Read(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	src.Path = path
	return src, nil
}

// Parse decodes the front matter of content and locates its body. Content
// without front matter has an empty Meta and a body starting at zero.
func Parse(content string) (*Source, error) {
	src := &Source{Content: content}

	if hasFrontMatter(content) {
		rest, err := frontmatter.Parse(strings.NewReader(content), &src.Meta, yamlFormat)
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		if strings.HasSuffix(content, string(rest)) {
			src.Body.Start = len(content) - len(rest)
		}
	}

	src.Body.End = len(content)
	if i := MarkerOffset(content[src.Body.Start:]); i >= 0 {
		src.Body.End = src.Body.Start + i
	}
	return src, nil
}

func hasFrontMatter(content string) bool {
	for _, line := range strings.SplitAfter(content, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t == "---"
		}
	}
	return false
}

// MarkerOffset returns the offset of the line holding GeneratedMarker, or -1.
func MarkerOffset(text string) int {
	from := 0
	for {
		i := strings.Index(text[from:], GeneratedMarker)
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || text[i-1] == '\n' {
			return i
		}
		from = i + len(GeneratedMarker)
	}
}
