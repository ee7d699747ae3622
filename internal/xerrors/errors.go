// Package xerrors defines the error kinds on top of github.com/samber/oops,
// using a stable oops.Code() plus contextual With(...) fields over a
// wrapped cause. Every constructor here stamps enough context (condition
// kind, key, docId) for the top-level runner to report a useful error
// without retrying locally.
package xerrors

import (
	"github.com/samber/oops"
)

// Kind codes, used both as the oops.Code() and to drive the CLI's exit
// code mapping.
const (
	CodeParse      = "PARSE_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeReadError  = "READ_ERROR"
	CodeResource   = "RESOURCE_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
	CodeCancelled  = "CANCELLED"
	CodeJoin       = "JOIN_ERROR"
)

// Parse builds a ParseError carrying the line/column and failed grammar
// rule.
func Parse(line, col int, rule, reason string) error {
	return oops.Code(CodeParse).
		With("line", line).
		With("col", col).
		With("rule", rule).
		Errorf("parse error at %d:%d in %s: %s", line, col, rule, reason)
}

// Validation builds a ValidationError for a failed semantic check.
func Validation(reason string, fields ...any) error {
	b := oops.Code(CodeValidation)
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			b = b.With(key, fields[i+1])
		}
	}
	return b.Errorf("%s", reason)
}

// ReadError wraps a corrupted index value.
func ReadError(conditionKind, key string, cause error) error {
	return oops.Code(CodeReadError).
		In("index").
		With("condition", conditionKind).
		With("key", key).
		Wrap(cause)
}

// ResourceError reports an operation against a closed index handle.
func ResourceError(op string, cause error) error {
	b := oops.Code(CodeResource).In("index").With("operation", op)
	if cause != nil {
		return b.Wrap(cause)
	}
	return b.Errorf("index handle is closed")
}

// Internal reports a broken invariant discovered during execution.
func Internal(stage, reason string) error {
	return oops.Code(CodeInternal).In(stage).Errorf("%s", reason)
}

// Cancelled reports a query cancelled mid-execution.
func Cancelled(stage string) error {
	return oops.Code(CodeCancelled).In(stage).Errorf("query cancelled")
}

// Join reports a join-configuration failure.
func Join(reason string, fields ...any) error {
	b := oops.Code(CodeJoin)
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			b = b.With(key, fields[i+1])
		}
	}
	return b.Errorf("%s", reason)
}

// CodeOf extracts the stable error code from an error built by this
// package, or "" if err was not produced here.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if oe, ok := oops.AsOops(err); ok {
		return oe.Code()
	}
	return ""
}
