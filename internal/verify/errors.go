// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalancedParentheses is reported when a document body opens more
// parentheses than it closes, or the reverse.
var ErrUnbalancedParentheses = errors.New("unbalanced parentheses")

// Error is one verification failure. It wraps the underlying cause, which
// is a resolve error, ErrUnbalancedParentheses, or an I/O error.
type Error struct {
	// Path is the document the failure belongs to.
	Path string

	// Line is the 1-based line of the failure, or 0.
	Line int

	// Citation is the offending parenthetical as written, or "".
	Citation string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Citation != "" {
		fmt.Fprintf(&b, ": %s", e.Citation)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
