// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mdxcite/internal/ledger"
)

// --- cites subcommand ---

var citesCmd = &cobra.Command{
	Use:   "cites <key>",
	Short: "List the documents citing a bibliography entry",
	Long: `Cites reads the citation ledger written by the last successful verify or
process run and lists every document that cites the given key, with the
locators used.`,
	Args: cobra.ExactArgs(1),
	RunE: runCites,
}

func runCites(cmd *cobra.Command, args []string) error {
	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	citing, err := store.CitedBy(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(citing)
	}

	if len(citing) == 0 {
		fmt.Printf("No documents cite %s.\n", args[0])
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-40s  %-5s  %s\n", "Document", "Count", "Locators")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, c := range citing {
		fmt.Fprintf(os.Stdout, "%-40s  %-5d  %s\n", c.Path, c.Count, strings.Join(c.Locators, "; "))
	}
	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(citing))
	return nil
}

// --- unused subcommand ---

var unusedCmd = &cobra.Command{
	Use:   "unused",
	Short: "List bibliography entries no document cites",
	Long: `Unused compares the bibliography against the citation ledger and prints
the keys of entries that no recorded document cites, in bibliography order.`,
	RunE: runUnused,
}

func runUnused(cmd *cobra.Command, args []string) error {
	bib := viper.GetString("bib")
	if bib == "" {
		return fmt.Errorf("bibliography required: set --bib or bib in the config file")
	}
	idx, err := loadIndex(bib, os.Stderr)
	if err != nil {
		return err
	}

	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	unused, err := store.Unused(context.Background(), idx.Keys())
	if err != nil {
		return err
	}
	for _, k := range unused {
		fmt.Println(k)
	}
	fmt.Fprintf(os.Stderr, "\n%d of %d entries unused\n", len(unused), idx.Len())
	return nil
}

// --- export subcommand ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the citation ledger to YAML or JSON",
	Long: `Export writes every cited key with the documents citing it to
ledger.yaml or ledger.json in the ledger directory.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background())
	case "json":
		path, err = store.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func openLedger() (*ledger.Store, error) {
	dir := viper.GetString("ledger_dir")
	if dir == "" {
		return nil, fmt.Errorf("ledger disabled: set --ledger-dir or ledger_dir in the config file")
	}
	return ledger.Open(dir)
}

func init() {
	citesCmd.Flags().Bool("json", false, "output results as JSON")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(citesCmd)
	rootCmd.AddCommand(unusedCmd)
	rootCmd.AddCommand(exportCmd)
}
