// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every citation against the bibliography",
	Long: `Verify scans every .mdx document under the target for Chicago author-date
citations and resolves each against the bibliography. Every failure in every
document is reported: unknown entries, unknown keys, ambiguous author-year
citations (with the keys to use instead) and unbalanced parentheses.

Documents that verify are rewritten only to normalize how citations are
written. The command exits non-zero if any document failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, err := verifyAll(context.Background(), verifyConfig(), os.Stdout, os.Stderr)
		return err
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
