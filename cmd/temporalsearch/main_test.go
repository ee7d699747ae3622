package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"query", "repl", "describe"} {
		if !names[want] {
			t.Errorf("expected root command to have a %q subcommand", want)
		}
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(buf.String(), "temporalsearch") {
		t.Errorf("expected help output to mention temporalsearch, got %q", buf.String())
	}
}

func TestQueryCmdRequiresExactlyOneArg(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"query"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when query is run without a query text argument")
	}
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{xerrors.Parse(1, 1, "query", "bad token"), 2},
		{xerrors.Validation("missing FROM"), 3},
		{xerrors.ReadError("condition", "term:ai", errors.New("corrupt value")), 5},
		{xerrors.ResourceError("index.get", errors.New("handle closed")), 5},
		{xerrors.Internal("exec", "broken invariant"), 4},
		{xerrors.Cancelled("exec"), 4},
		{xerrors.Join("bad join column"), 4},
	}
	for _, c := range cases {
		if got := exitCodeFor(c.err); got != c.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
