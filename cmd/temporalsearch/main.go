// Package main is the entry point for the temporalsearch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

func main() {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(exitCodeFor(err))
}

// exitCodeFor maps an xerrors kind code to the CLI's documented exit
// status: 0 success, 2 parse error, 3 validation error, 4 execution
// error, 5 I/O error.
func exitCodeFor(err error) int {
	switch xerrors.CodeOf(err) {
	case xerrors.CodeParse:
		return 2
	case xerrors.CodeValidation:
		return 3
	case xerrors.CodeReadError, xerrors.CodeResource:
		return 5
	case xerrors.CodeInternal, xerrors.CodeCancelled, xerrors.CodeJoin:
		return 4
	default:
		return 1
	}
}
