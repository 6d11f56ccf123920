// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mdxcite CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the mdxcite CLI.
var rootCmd = &cobra.Command{
	Use:   "mdxcite",
	Short: "Verify and format Chicago author-date citations in MDX documents",
	Long: `mdxcite checks every citation in a set of MDX documents against a BibTeX
bibliography and, once every document verifies, rewrites the documents with
rendered key citations, a bibliography, contributor lines and a notes heading.

verify only checks (and normalizes how citations are written); process also
rewrites the documents and can generate an alphabetical index. The ledger
commands query which documents cite which entries.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./mdxcite.yaml or ~/.config/mdxcite/mdxcite.yaml)")
	pf.String("bib", "", "path to the BibTeX bibliography")
	pf.String("target", "", "directory searched for .mdx files, or a single .mdx file")
	pf.StringSlice("ignore", nil, "comma-separated path fragments to skip")
	pf.Int("workers", 4, "documents verified concurrently")
	pf.String("ledger-dir", ".mdxcite", "citation ledger directory (empty disables the ledger)")

	for key, flag := range map[string]string{
		"bib":        "bib",
		"target":     "target",
		"ignore":     "ignore",
		"workers":    "workers",
		"ledger_dir": "ledger-dir",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mdxcite")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mdxcite"))
		}
	}

	viper.SetEnvPrefix("MDXCITE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
