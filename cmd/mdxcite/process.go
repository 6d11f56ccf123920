// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Verify, then render citations and regenerate bibliographies",
	Long: `Process runs verify and, only if every document verified, rewrites each
document: key citations are rendered in Chicago style and the trailing block
(notes heading, bibliography, authors, editors and contributors) is
regenerated. Running process again on its own output changes nothing.

With --index-file an alphabetical index of the documents' indexTitle values
is written as well; --index-link-rewrite old=new rewrites the first
occurrence of old in each link.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := processConfig()
		if err != nil {
			return err
		}
		return processAll(context.Background(), cfg, os.Stdout, os.Stderr)
	},
}

func init() {
	processCmd.Flags().String("disambiguator", "title", "how same-author same-year entries are told apart: title or letter")
	processCmd.Flags().String("index-file", "", "write the document index to this file")
	processCmd.Flags().String("index-link-rewrite", "", "rewrite index links, as old=new")

	for key, flag := range map[string]string{
		"disambiguator":      "disambiguator",
		"index_file":         "index-file",
		"index_link_rewrite": "index-link-rewrite",
	} {
		if err := viper.BindPFlag(key, processCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(processCmd)
}
