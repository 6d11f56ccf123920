// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of the documents mdxcite handles.
const Extension = ".mdx"

// ErrNoDocuments is returned by Discover when the target holds no documents.
var ErrNoDocuments = errors.New("no MDX documents found")

// Discover returns the documents under target in lexical order. A target
// naming a single .mdx file yields just that file. Paths containing any of
// the ignore strings are left out.
func Discover(target string, ignore []string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}

	var paths []string
	if !info.IsDir() {
		if filepath.Ext(target) != Extension {
			return nil, fmt.Errorf("target %s is not a directory or %s file", target, Extension)
		}
		paths = []string{target}
	} else {
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != Extension {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", target, err)
		}
	}

	var kept []string
	for _, p := range paths {
		if !ignored(p, ignore) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, target)
	}
	sort.Strings(kept)
	return kept, nil
}

func ignored(path string, ignore []string) bool {
	slashed := filepath.ToSlash(path)
	for _, s := range ignore {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(slashed, filepath.ToSlash(s)) {
			return true
		}
	}
	return false
}
