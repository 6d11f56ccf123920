// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mdxcite/pkg/types"
)

const testBib = `@book{hegel2010logic,
  author = {Hegel, Georg Wilhelm Friedrich},
  title = {The Science of Logic},
  translator = {di Giovanni, George},
  year = {2010},
  address = {Cambridge},
  publisher = {Cambridge University Press}
}

@article{houlgate2006opening,
  author = {Stephen Houlgate and Brady Bowman},
  title = {The Opening of {Hegel's} Logic},
  journal = {The Owl of Minerva},
  volume = {37},
  number = {2},
  pages = {1--20},
  date = {2006-03}
}

@misc{website,
  title = {Not supported}
}
`

func TestDecode(t *testing.T) {
	var warnings bytes.Buffer
	entries, err := Decode(strings.NewReader(testBib), &warnings)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Contains(t, warnings.String(), "skipped website")

	book := entries[0]
	assert.Equal(t, "hegel2010logic", book.Key)
	assert.Equal(t, types.EntryBook, book.Type)
	assert.Equal(t, []types.Person{{Given: "Georg Wilhelm Friedrich", Family: "Hegel"}}, book.Authors)
	assert.Equal(t, []types.Person{{Given: "George", Family: "di Giovanni"}}, book.Translators)
	assert.Equal(t, 2010, book.Year)
	assert.Equal(t, "The Science of Logic", book.Title)
	assert.Equal(t, "Cambridge University Press", book.Field("publisher"))
	assert.Equal(t, "Cambridge", book.Field("address"))

	article := entries[1]
	assert.Equal(t, types.EntryArticle, article.Type)
	assert.Equal(t, 2006, article.Year, "year falls back to the date field")
	assert.Equal(t, "The Opening of Hegel's Logic", article.Title)
	assert.Equal(t, "1–20", article.Field("pages"))
	require.Len(t, article.Authors, 2)
	assert.Equal(t, "Houlgate", article.Authors[0].Family)
	assert.Equal(t, "Bowman", article.Authors[1].Family)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bib"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(testBib), 0o644))

	entries, err := Load(path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParseNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []types.Person
	}{
		{
			name: "inverted",
			in:   "Hegel, G. W. F.",
			want: []types.Person{{Given: "G. W. F.", Family: "Hegel"}},
		},
		{
			name: "reading order with particle",
			in:   "Ludwig van Beethoven",
			want: []types.Person{{Given: "Ludwig", Family: "van Beethoven"}},
		},
		{
			name: "two authors",
			in:   "Marx, Karl and Friedrich Engels",
			want: []types.Person{
				{Given: "Karl", Family: "Marx"},
				{Given: "Friedrich", Family: "Engels"},
			},
		},
		{
			name: "braced corporate name",
			in:   "{Smith and Sons}",
			want: []types.Person{{Family: "Smith and Sons"}},
		},
		{
			name: "single name",
			in:   "Plato",
			want: []types.Person{{Family: "Plato"}},
		},
		{
			name: "jr suffix",
			in:   "King, Jr, Martin Luther",
			want: []types.Person{{Given: "Martin Luther", Family: "King, Jr"}},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNames(tt.in))
		})
	}
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 1991, parseYear("1991"))
	assert.Equal(t, 1991, parseYear("", "1991/1992"))
	assert.Equal(t, 2006, parseYear("", "2006-03-01"))
	assert.Equal(t, 0, parseYear("n.d.", ""))
}

func hegelEntries() []types.BibEntry {
	hegel := []types.Person{{Given: "G. W. F.", Family: "Hegel"}}
	return []types.BibEntry{
		{Key: "hegel2010logic", Type: types.EntryBook, Authors: hegel, Year: 2010, Title: "The Science of Logic"},
		{Key: "hegel1991logic", Type: types.EntryBook, Authors: hegel, Year: 1991, Title: "Science of Logic"},
		{Key: "hegel1991encyclopaedialogic", Type: types.EntryBook, Authors: hegel, Year: 1991, Title: "The Encyclopaedia Logic"},
		{Key: "kant1998critique", Type: types.EntryBook, Authors: []types.Person{{Given: "Immanuel", Family: "Kant"}}, Year: 1998, Title: "Critique of Pure Reason"},
		{Key: "anon", Type: types.EntryBook, Authors: []types.Person{{Family: "Anonymous"}}, Title: "Undated"},
	}
}

func TestBuild(t *testing.T) {
	idx, err := Build(hegelEntries())
	require.NoError(t, err)
	assert.Equal(t, 5, idx.Len())

	t.Run("lookup by key", func(t *testing.T) {
		e, ok := idx.LookupByKey("kant1998critique")
		require.True(t, ok)
		assert.Equal(t, "Critique of Pure Reason", e.Title)

		_, ok = idx.LookupByKey("nope")
		assert.False(t, ok)
	})

	t.Run("every dated entry is in its own author-year group", func(t *testing.T) {
		for _, e := range idx.Entries() {
			if e.Year == 0 {
				continue
			}
			assert.Contains(t, idx.LookupByAuthorYear(e.PrimarySurname(), e.Year), e.Key)
		}
	})

	t.Run("case-insensitive surname", func(t *testing.T) {
		assert.Equal(t, AmbiguityGroup{"hegel2010logic"}, idx.LookupByAuthorYear("HEGEL", 2010))
	})

	t.Run("ambiguous group keeps bibliography order", func(t *testing.T) {
		g := idx.LookupByAuthorYear("Hegel", 1991)
		assert.True(t, g.Ambiguous())
		assert.Equal(t, AmbiguityGroup{"hegel1991logic", "hegel1991encyclopaedialogic"}, g)
		assert.Equal(t, g, idx.GroupOf("hegel1991encyclopaedialogic"))
		assert.Equal(t, []AmbiguityGroup{g}, idx.AmbiguousGroups())
	})

	t.Run("undated entry only by key", func(t *testing.T) {
		assert.Empty(t, idx.LookupByAuthorYear("Anonymous", 0))
		assert.Equal(t, AmbiguityGroup{"anon"}, idx.GroupOf("anon"))
	})

	t.Run("unknown group", func(t *testing.T) {
		assert.Empty(t, idx.LookupByAuthorYear("Spinoza", 1677))
		assert.Nil(t, idx.GroupOf("missing"))
	})
}

func TestBuildDuplicateKey(t *testing.T) {
	entries := hegelEntries()
	entries = append(entries, entries[0])

	_, err := Build(entries)
	require.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "hegel2010logic", dup.Key)
}

func TestFoldSurnameComposesAccents(t *testing.T) {
	decomposed := "Z\u030Ciz\u030Cek"
	composed := "\u017Di\u017Eek"
	assert.Equal(t, FoldSurname(composed), FoldSurname(decomposed))
	assert.Equal(t, FoldSurname("\u017EI\u017Eek"), FoldSurname(composed))
}

func TestSortKeys(t *testing.T) {
	idx, err := Build(hegelEntries())
	require.NoError(t, err)

	got := idx.SortKeys([]string{"kant1998critique", "hegel2010logic", "hegel1991logic", "missing", "hegel1991encyclopaedialogic", "hegel2010logic"})
	assert.Equal(t, []string{
		"hegel1991logic",              // Science of Logic
		"hegel1991encyclopaedialogic", // The Encyclopaedia Logic
		"hegel2010logic",
		"kant1998critique",
	}, got)
}
