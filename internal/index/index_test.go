// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mdxcite/pkg/types"
)

func doc(path, indexTitle string) *types.DocumentContext {
	return &types.DocumentContext{Path: path, Meta: types.FrontMatter{IndexTitle: indexTitle}}
}

func TestEntries(t *testing.T) {
	docs := []*types.DocumentContext{
		doc("docs/being.mdx", "Being (Hegel)"),
		doc("docs/untitled.mdx", ""),
		doc("docs/blank.mdx", "   "),
		doc("docs/index.mdx", "Index"),
	}
	got := Entries(docs, "docs/index.mdx")
	assert.Equal(t, []Entry{{Title: "Being (Hegel)", Path: "docs/being.mdx"}}, got)
}

func TestBuildBuckets(t *testing.T) {
	entries := []Entry{
		{Title: "Introduction to Science of Logic (Hegel)", Path: "docs/intro.mdx"},
		{Title: "Being (Hegel)", Path: "docs/being.mdx"},
	}
	want := "\n## B\n\n[Being (Hegel)](docs/being)\n\n## I\n\n[Introduction to Science of Logic (Hegel)](docs/intro)\n"
	assert.Equal(t, want, Build(entries, nil))
}

func TestBuildCaseInsensitive(t *testing.T) {
	entries := []Entry{
		{Title: "beta", Path: "b.mdx"},
		{Title: "Alpha", Path: "a.mdx"},
		{Title: "apple", Path: "p.mdx"},
		{Title: "Éclair", Path: "e.mdx"},
	}
	want := "\n## A\n\n[Alpha](a)\n\n[apple](p)\n\n## B\n\n[beta](b)\n\n## É\n\n[Éclair](e)\n"
	assert.Equal(t, want, Build(entries, nil))
}

func TestBuildEmpty(t *testing.T) {
	assert.Equal(t, "", Build(nil, nil))
}

func TestLink(t *testing.T) {
	rw := &types.LinkRewrite{From: "docs", To: "/philosophy"}
	tests := []struct {
		path    string
		rewrite *types.LinkRewrite
		want    string
	}{
		{"docs/being.mdx", nil, "docs/being"},
		{"docs/being.mdx", rw, "/philosophy/being"},
		{"docs/docs/being.mdx", rw, "/philosophy/docs/being"},
		{"other/being.mdx", rw, "other/being"},
		{"docs/notes.mdx.mdx", nil, "docs/notes.mdx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Link(tt.path, tt.rewrite), tt.path)
	}
}

func TestParseRewrite(t *testing.T) {
	tests := []struct {
		in      string
		want    *types.LinkRewrite
		wantErr bool
	}{
		{in: "docs=/philosophy", want: &types.LinkRewrite{From: "docs", To: "/philosophy"}},
		{in: "content/=", want: &types.LinkRewrite{From: "content/", To: ""}},
		{in: "a=b=c", want: &types.LinkRewrite{From: "a", To: "b=c"}},
		{in: "docs", wantErr: true},
		{in: "=x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRewrite(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteMissingTarget(t *testing.T) {
	err := Write("", nil, nil)
	assert.True(t, errors.Is(err, ErrMissingTarget))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "index.mdx")
	entries := []Entry{{Title: "Being (Hegel)", Path: "docs/being.mdx"}}

	require.NoError(t, Write(target, entries, nil))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{/* mdxcite:generated */}\n\n## B\n\n[Being (Hegel)](docs/being)\n", string(data))
}

func TestWriteKeepsHandWrittenHeadAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "index.mdx")
	head := "---\ntitle: Index\nisArticle: false\n---\n\n# Index\n"
	require.NoError(t, os.WriteFile(target, []byte(head+"\n{/* mdxcite:generated */}\n\n## Z\n\n[Old](old)\n"), 0o644))

	entries := []Entry{{Title: "Being (Hegel)", Path: "docs/being.mdx"}}
	rw := &types.LinkRewrite{From: "docs", To: "/philosophy"}
	require.NoError(t, Write(target, entries, rw))

	first, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, head+"\n{/* mdxcite:generated */}\n\n## B\n\n[Being (Hegel)](/philosophy/being)\n", string(first))

	require.NoError(t, Write(target, entries, rw))
	second, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
