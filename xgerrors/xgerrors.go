// Package xgerrors defines the error types produced by the grammar,
// automaton, and lookahead passes, following the wrapping-struct pattern
// used throughout the teacher project's internal/tqerrors package: a small
// unexported struct implementing error, with Unwrap support and constructor
// functions (New, Wrap) that take the error kind, instead of exported struct
// literals.
package xgerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a compile-time error, letting callers branch on category
// (semantic vs. resource vs. I/O) the way spec.md §7 separates them without
// needing to inspect message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindSemantic
	KindConflict
	KindResource
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindSemantic:
		return "semantic"
	case KindConflict:
		return "conflict"
	case KindResource:
		return "resource"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Sentinel errors, matched with errors.Is by callers that need to branch on
// a specific condition (e.g. the CLI reporting an empty grammar with exit
// code -1 per spec.md §6.2, without printing a stack of wrapped context).
var (
	ErrGrammarEmpty = errors.New("grammar has no user productions")
	ErrNotSLR1      = errors.New("grammar is not SLR(1)")
	ErrNotLALR1     = errors.New("grammar is not LALR(1)")
)

// compileError is the concrete error type for every pass in this module. It
// is never exported directly; callers get one back as a plain error and
// match on the sentinel they care about via errors.Is/errors.As.
type compileError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *compileError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *compileError) Unwrap() error { return e.cause }

// New returns a new error of the given kind with a formatted message.
func New(kind Kind, format string, a ...interface{}) error {
	return &compileError{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, a ...interface{}) error {
	return &compileError{kind: kind, msg: fmt.Sprintf(format, a...), cause: cause}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// compileError; returns KindUnknown otherwise.
func KindOf(err error) Kind {
	var ce *compileError
	if errors.As(err, &ce) {
		return ce.kind
	}
	return KindUnknown
}
