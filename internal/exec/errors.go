package exec

import "github.com/Fredrikaaa/temporalsearch/internal/xerrors"

func cancelled() error { return xerrors.Cancelled("exec") }

func internalErr(stage, reason string) error { return xerrors.Internal(stage, reason) }

func readErr(kind, key string, cause error) error {
	return xerrors.ReadError(kind, key, cause)
}

func codeOf(err error) string { return xerrors.CodeOf(err) }
