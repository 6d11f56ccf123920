// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mdxcite/internal/bibliography"
	"github.com/pdiddy/mdxcite/internal/chicago"
	"github.com/pdiddy/mdxcite/internal/verify"
	"github.com/pdiddy/mdxcite/pkg/types"
)

var hegel = types.Person{Given: "G. W. F.", Family: "Hegel"}

func testIndex(t *testing.T) *bibliography.Index {
	t.Helper()
	idx, err := bibliography.Build([]types.BibEntry{
		{Key: "hegel2010logic", Type: types.EntryBook, Authors: []types.Person{hegel}, Year: 2010, Title: "The Science of Logic"},
		{Key: "hegel1991logic", Type: types.EntryBook, Authors: []types.Person{hegel}, Year: 1991, Title: "Science of Logic"},
		{Key: "hegel1991encyclopaedialogic", Type: types.EntryBook, Authors: []types.Person{hegel}, Year: 1991, Title: "The Encyclopaedia Logic"},
		{Key: "kant1998critique", Type: types.EntryBook, Authors: []types.Person{{Given: "Immanuel", Family: "Kant"}}, Year: 1998, Title: "Critique of Pure Reason"},
	})
	require.NoError(t, err)
	return idx
}

// verified runs verification on content and fails the test on any error.
func verified(t *testing.T, idx *bibliography.Index, path, content string) *types.DocumentContext {
	t.Helper()
	doc, errs := verify.Document(path, content, idx)
	require.Empty(t, errs)
	return doc
}

const source = `---
title: Being
authors: Ada Lovelace
---

Being (Hegel 2010, 61) and logic (see @hegel1991logic, 12).[^1]

[^1]: A note.
`

const processed = `---
title: Being
authors: Ada Lovelace
---

Being (Hegel 2010, 61) and logic {/*cite:(see @hegel1991logic, 12)*/}(see Hegel 1991, _Science_, 12){/*/cite*/}.[^1]

[^1]: A note.

{/* mdxcite:generated */}

## Notes

## Bibliography

<div className="text-sm">
- Hegel, G. W. F. 1991. _Science of Logic_.
- Hegel, G. W. F. 2010. _The Science of Logic_.
</div>

**Authors**  
Ada Lovelace
`

func TestRender(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, types.DisambiguateTitle)
	got := Render(verified(t, idx, "being.mdx", source), style)
	assert.Equal(t, processed, got)
}

func TestRenderIsByteIdenticalOnProcessedInput(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, types.DisambiguateTitle)

	doc := verified(t, idx, "being.mdx", processed)
	assert.Equal(t, processed, doc.Content, "verification must not alter processed output")
	assert.Equal(t, processed, Render(doc, style))
}

func TestRenderWithoutFootnotesHasNoNotes(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, "")
	got := Render(verified(t, idx, "d.mdx", "Text (Kant 1998).\n"), style)
	assert.NotContains(t, got, "## Notes")
	assert.Equal(t, "Text (Kant 1998).\n\n{/* mdxcite:generated */}\n\n## Bibliography\n\n<div className=\"text-sm\">\n- Kant, Immanuel. 1998. _Critique of Pure Reason_.\n</div>\n", got)
}

func TestRenderNothingToGenerate(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, "")

	plain := "---\ntitle: Plain\n---\nNo citations here.\n\n\n"
	assert.Equal(t, plain, Render(verified(t, idx, "d.mdx", plain), style))

	stale := "---\ntitle: Plain\n---\nNo citations here.\n\n{/* mdxcite:generated */}\n\n## Bibliography\n- old\n"
	assert.Equal(t, "---\ntitle: Plain\n---\nNo citations here.\n", Render(verified(t, idx, "d.mdx", stale), style))
}

func TestRenderReplacesStaleBlock(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, "")
	content := "Text (Kant 1998).\n\n{/* mdxcite:generated */}\n\n## Bibliography\n\n- Stale entry.\n"
	got := Render(verified(t, idx, "d.mdx", content), style)
	assert.NotContains(t, got, "Stale entry")
	assert.Contains(t, got, "- Kant, Immanuel. 1998. _Critique of Pure Reason_.\n")
}

func TestRenderMultiGroupWithKey(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, types.DisambiguateTitle)
	got := Render(verified(t, idx, "d.mdx", "A (cf. Kant 1998, 5; @hegel1991encyclopaedialogic).\n"), style)
	assert.Contains(t, got, "A {/*cite:(cf. Kant 1998, 5; @hegel1991encyclopaedialogic)*/}(cf. Kant 1998, 5; Hegel 1991, _Encyclopaedia_){/*/cite*/}.\n")
}

func TestRenderUnambiguousKeyMatchesAuthorYear(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, "")
	got := Render(verified(t, idx, "d.mdx", "(@hegel2010logic, 61)\n"), style)
	assert.Contains(t, got, "}(Hegel 2010, 61){/*/cite*/}")
}

func TestRenderLetterPolicy(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, types.DisambiguateLetter)
	got := Render(verified(t, idx, "d.mdx", "(@hegel1991logic, 12) and (@hegel1991encyclopaedialogic)\n"), style)
	assert.Contains(t, got, "(Hegel 1991a, 12){/*/cite*/}")
	assert.Contains(t, got, "(Hegel 1991b){/*/cite*/}")
	assert.Contains(t, got, "- Hegel, G. W. F. 1991a. _Science of Logic_.\n- Hegel, G. W. F. 1991b. _The Encyclopaedia Logic_.\n")
}

func TestContributors(t *testing.T) {
	tests := []struct {
		name string
		meta types.FrontMatter
		want string
	}{
		{"none", types.FrontMatter{}, ""},
		{"authors only", types.FrontMatter{Authors: types.Names{"Ada"}}, "\n**Authors**  \nAda\n"},
		{
			"all",
			types.FrontMatter{Authors: types.Names{"Ada", "Bob"}, Editors: types.Names{"Cy"}, Contributors: types.Names{"Di"}},
			"\n**Authors**  \nAda, Bob\n\n**Editors**  \nCy\n\n**Contributors**  \nDi\n",
		},
		{"editors only", types.FrontMatter{Editors: types.Names{"Cy"}}, "\n**Editors**  \nCy\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contributors(tt.meta))
		})
	}
}

func TestProcess(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, types.DisambiguateTitle)
	dir := t.TempDir()

	article := filepath.Join(dir, "being.mdx")
	require.NoError(t, os.WriteFile(article, []byte(source), 0o644))
	notArticle := filepath.Join(dir, "index.mdx")
	require.NoError(t, os.WriteFile(notArticle, []byte("---\nisArticle: false\n---\nx\n"), 0o644))

	docs := []*types.DocumentContext{
		verified(t, idx, article, source),
		verified(t, idx, notArticle, "---\nisArticle: false\n---\nx\n"),
	}

	var buf bytes.Buffer
	sum, err := Process(docs, style, &buf)
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1, Skipped: 1, Bibliographies: 1, Contributors: 1, NotesHeadings: 1}, sum)
	assert.Contains(t, buf.String(), "processed "+article)
	assert.Contains(t, buf.String(), "skipped "+notArticle)

	data, err := os.ReadFile(article)
	require.NoError(t, err)
	assert.Equal(t, processed, string(data))

	// A second run over the processed file changes nothing.
	buf.Reset()
	sum, err = Process([]*types.DocumentContext{verified(t, idx, article, string(data))}, style, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Unchanged)
	assert.Equal(t, 0, sum.Processed)
	assert.Contains(t, buf.String(), "unchanged "+article)
}

func TestProcessWriteFailure(t *testing.T) {
	idx := testIndex(t)
	style := chicago.New(idx, "")
	missing := filepath.Join(t.TempDir(), "gone", "d.mdx")
	doc := verified(t, idx, missing, "(Kant 1998)\n")

	var buf bytes.Buffer
	sum, err := Process([]*types.DocumentContext{doc}, style, &buf)
	assert.Error(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, buf.String(), "failed  "+missing)
}
