// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Disambiguator selects how key citations to members of an ambiguous
// author-year group are told apart in rendered text.
type Disambiguator string

const (
	// DisambiguateTitle appends the shortest unique leading fragment of the
	// title: (Hegel 1991, _Science_, 61).
	DisambiguateTitle Disambiguator = "title"

	// DisambiguateLetter appends a letter to the year, assigned by title
	// order within the group: (Hegel 1991a, 61).
	DisambiguateLetter Disambiguator = "letter"
)

// Valid reports whether d names a known policy.
func (d Disambiguator) Valid() bool {
	return d == DisambiguateTitle || d == DisambiguateLetter
}

// LinkRewrite replaces the first occurrence of From with To in index links.
type LinkRewrite struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// SourceConfig locates the bibliography and the documents.
type SourceConfig struct {
	// BibFile is the path to the .bib bibliography.
	BibFile string `json:"bib" yaml:"bib"`

	// Target is a directory searched recursively for .mdx files, or a
	// single .mdx file.
	Target string `json:"target" yaml:"target"`

	// Ignore lists path fragments; any document whose path contains one is
	// skipped.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// VerifyConfig holds settings for the verify stage.
type VerifyConfig struct {
	SourceConfig `yaml:",inline"`

	// Workers bounds the number of documents verified at once (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// LedgerDir holds the citation ledger database. Empty disables it.
	LedgerDir string `json:"ledger_dir,omitempty" yaml:"ledger_dir,omitempty"`
}

// ProcessConfig holds settings for the process stage.
type ProcessConfig struct {
	VerifyConfig `yaml:",inline"`

	// Disambiguator selects the suffix policy (default title).
	Disambiguator Disambiguator `json:"disambiguator" yaml:"disambiguator"`

	// IndexFile is where the cross-document index is written. Empty skips
	// index generation.
	IndexFile string `json:"index_file,omitempty" yaml:"index_file,omitempty"`

	// IndexLinkRewrite optionally rewrites link prefixes in the index.
	IndexLinkRewrite *LinkRewrite `json:"index_link_rewrite,omitempty" yaml:"index_link_rewrite,omitempty"`
}
