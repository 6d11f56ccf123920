// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/mdxcite/internal/bibliography"
	"github.com/pdiddy/mdxcite/internal/resolve"
	"github.com/pdiddy/mdxcite/pkg/types"
)

// DefaultWorkers bounds how many documents are verified at once.
const DefaultWorkers = 4

// Options configures Batch.
type Options struct {
	// Workers is the number of documents verified concurrently. Values
	// below one mean DefaultWorkers.
	Workers int
}

// BatchResult holds the outcome of a batch verification run. Slices follow
// the order of the input paths.
type BatchResult struct {
	Results []Result

	// Contexts lists the verified articles, ready for rewriting.
	Contexts []*types.DocumentContext

	// Failures lists every failure of every document.
	Failures []*Error

	Verified   int
	Skipped    int
	Normalized int
	Failed     int
}

// Total returns the number of documents examined.
func (r *BatchResult) Total() int {
	return r.Verified + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed verification.
func (r *BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Batch verifies every path with bounded concurrency. Each file is handled
// by File, so verified files may be normalized in place. Per-file status is
// printed to w in input order once all files are done. The returned error is
// non-nil only when ctx is cancelled.
func Batch(ctx context.Context, paths []string, idx *bibliography.Index, opts Options, w io.Writer) (*BatchResult, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = File(p, idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verifying documents: %w", err)
	}

	out := &BatchResult{Results: results}
	for _, r := range results {
		switch {
		case len(r.Errors) > 0:
			out.Failed++
			out.Failures = append(out.Failures, r.Errors...)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "failed  %v\n", e)
				var amb *resolve.AmbiguousCitationError
				if errors.As(e, &amb) {
					fmt.Fprintf(w, "        %s\n", amb.Suggestion())
				}
			}
		case r.Skipped:
			out.Skipped++
			fmt.Fprintf(w, "skipped %s (not an article)\n", r.Path)
		default:
			out.Verified++
			out.Contexts = append(out.Contexts, r.Context)
			if r.Normalized {
				out.Normalized++
				fmt.Fprintf(w, "normalized %s\n", r.Path)
			}
		}
	}
	fmt.Fprintf(w, "\nverified: %d, normalized: %d, skipped: %d, failed: %d (total: %d)\n",
		out.Verified, out.Normalized, out.Skipped, out.Failed, out.Total())
	return out, nil
}
