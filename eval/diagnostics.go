package eval

import (
	"fmt"

	"github.com/cygnusbill/spelunkpath/token"
)

// WarnKind discriminates the shapes of non-fatal diagnostic the
// evaluator can raise. The set is closed: only BadRegex exists
// today, but the type is kept open-ended-by-enum rather
// than a single bool so a future warning kind doesn't need a new
// return type threaded through every caller.
type WarnKind int

const (
	// WarnBadRegex is raised when an @matches pattern fails to compile.
	// The offending predicate contributes an empty result; nothing else
	// about the query is affected.
	WarnBadRegex WarnKind = iota
)

// EvalWarning is a non-fatal diagnostic accumulated during evaluation.
// Unlike EvalError it is never returned as a Go error; callers that
// want warnings pass Options.CollectWarnings and read the returned
// slice.
type EvalWarning struct {
	Kind   WarnKind
	Reason string
	Span   token.Span
	Step   int
}

func (w EvalWarning) String() string {
	return fmt.Sprintf("eval warning: %s (step %d, at %s)", w.Reason, w.Step, w.Span.String())
}

// ErrKind discriminates EvalError's two cases.
type ErrKind int

const (
	// ErrCancelled means the caller's context was cancelled mid-evaluation.
	ErrCancelled ErrKind = iota
	// ErrHostFailure means the SyntaxHost itself could not service a call.
	ErrHostFailure
)

// EvalError reports a fatal evaluation failure. Reason is
// human-readable; Step is the index of the path.Steps entry being
// processed when the failure occurred (0 for a cancellation observed
// before the first step), or -1 when the failure is not tied to any
// step (EvaluateMany's hosts/starts length mismatch).
type EvalError struct {
	Kind   ErrKind
	Reason string
	Step   int
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error: %s (step %d)", e.Reason, e.Step)
}
