// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/mdxcite/internal/bibliography"
	"github.com/pdiddy/mdxcite/internal/chicago"
	"github.com/pdiddy/mdxcite/internal/document"
	"github.com/pdiddy/mdxcite/internal/index"
	"github.com/pdiddy/mdxcite/internal/ledger"
	"github.com/pdiddy/mdxcite/internal/rewrite"
	"github.com/pdiddy/mdxcite/internal/verify"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// --- configuration ---

func sourceConfig() types.SourceConfig {
	return types.SourceConfig{
		BibFile: viper.GetString("bib"),
		Target:  viper.GetString("target"),
		Ignore:  viper.GetStringSlice("ignore"),
	}
}

func verifyConfig() types.VerifyConfig {
	return types.VerifyConfig{
		SourceConfig: sourceConfig(),
		Workers:      viper.GetInt("workers"),
		LedgerDir:    viper.GetString("ledger_dir"),
	}
}

func processConfig() (types.ProcessConfig, error) {
	cfg := types.ProcessConfig{
		VerifyConfig:  verifyConfig(),
		Disambiguator: types.Disambiguator(viper.GetString("disambiguator")),
		IndexFile:     viper.GetString("index_file"),
	}
	if cfg.Disambiguator == "" {
		cfg.Disambiguator = types.DisambiguateTitle
	}
	if !cfg.Disambiguator.Valid() {
		return cfg, fmt.Errorf("unknown disambiguator %q: use title or letter", cfg.Disambiguator)
	}
	if rw := viper.GetString("index_link_rewrite"); rw != "" {
		if cfg.IndexFile == "" {
			return cfg, fmt.Errorf("--index-link-rewrite requires --index-file")
		}
		parsed, err := index.ParseRewrite(rw)
		if err != nil {
			return cfg, err
		}
		cfg.IndexLinkRewrite = parsed
	}
	return cfg, nil
}

func validateSource(cfg types.SourceConfig) error {
	if cfg.BibFile == "" {
		return fmt.Errorf("bibliography required: set --bib or bib in the config file")
	}
	if !strings.EqualFold(filepath.Ext(cfg.BibFile), ".bib") {
		return fmt.Errorf("bibliography %s must have a .bib extension", cfg.BibFile)
	}
	if cfg.Target == "" {
		return fmt.Errorf("target required: set --target or target in the config file")
	}
	return nil
}

// --- pipeline ---

// loadIndex decodes the bibliography and indexes it. Skipped entries are
// reported on w.
func loadIndex(path string, w io.Writer) (*bibliography.Index, error) {
	entries, err := bibliography.Load(path, w)
	if err != nil {
		return nil, err
	}
	idx, err := bibliography.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	return idx, nil
}

// verifyAll verifies every document of the target. It fails if any document
// fails; on success the ledger, when enabled, is refreshed.
func verifyAll(ctx context.Context, cfg types.VerifyConfig, out, errOut io.Writer) (*verify.BatchResult, *bibliography.Index, error) {
	if err := validateSource(cfg.SourceConfig); err != nil {
		return nil, nil, err
	}
	idx, err := loadIndex(cfg.BibFile, errOut)
	if err != nil {
		return nil, nil, err
	}
	paths, err := document.Discover(cfg.Target, cfg.Ignore)
	if err != nil {
		return nil, nil, err
	}

	res, err := verify.Batch(ctx, paths, idx, verify.Options{Workers: cfg.Workers}, out)
	if err != nil {
		return nil, nil, err
	}
	if res.HasFailures() {
		return res, idx, fmt.Errorf("%d document(s) failed verification", res.Failed)
	}

	if cfg.LedgerDir != "" {
		if err := recordLedger(ctx, cfg.LedgerDir, res.Contexts, out); err != nil {
			fmt.Fprintf(errOut, "warning: ledger update failed: %v\n", err)
		}
	}
	return res, idx, nil
}

func recordLedger(ctx context.Context, dir string, docs []*types.DocumentContext, w io.Writer) error {
	store, err := ledger.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Record(ctx, docs, w)
	return err
}

// processAll verifies every document and, only if all of them verified,
// rewrites them and writes the index.
func processAll(ctx context.Context, cfg types.ProcessConfig, out, errOut io.Writer) error {
	res, idx, err := verifyAll(ctx, cfg.VerifyConfig, out, errOut)
	if err != nil {
		return err
	}

	style := chicago.New(idx, cfg.Disambiguator)
	if _, err := rewrite.Process(res.Contexts, style, out); err != nil {
		return err
	}

	if cfg.IndexFile != "" {
		entries := index.Entries(res.Contexts, cfg.IndexFile)
		if err := index.Write(cfg.IndexFile, entries, cfg.IndexLinkRewrite); err != nil {
			return err
		}
		fmt.Fprintf(out, "index written to %s (%d entries)\n", cfg.IndexFile, len(entries))
	}
	return nil
}
