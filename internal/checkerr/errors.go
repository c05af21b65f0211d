// Package checkerr defines the single enumerated error kind shared by
// internal/scope, internal/kind, and internal/unify. It sits
// below all three (importing only fmt.Stringer from the standard library)
// so none of them need to import one another just to construct an error.
package checkerr

import "fmt"

// Kind enumerates the checker-level error kinds. The bytecode layer
// (InvalidOp/UnexpectedEnd/Overflow) is a separate, lower layer and lives in
// internal/typecode's own Error type instead of here.
type Kind string

const (
	Redeclaration     Kind = "redeclaration"
	NotFound          Kind = "not_found"
	KindMismatch      Kind = "kind_mismatch"
	ArityMismatch     Kind = "arity_mismatch"
	UnifyFail         Kind = "unify_fail"
	UnresolvedHole    Kind = "unresolved_hole"
	OverlappingImpl   Kind = "overlapping_impl"
	InvariantViolated Kind = "invariant_violated"
)

// Error carries enough context (name, arity, canonical codes) to make the
// user-visible message informative without any source-location tracking.
type Error struct {
	Kind     Kind
	Message  string
	Name     string
	Expected fmt.Stringer
	Actual   fmt.Stringer
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Name != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Name)
	}
	if e.Expected != nil && e.Actual != nil {
		msg = fmt.Sprintf("%s\n  expected: %s\n  actual:   %s", msg, e.Expected, e.Actual)
	}
	return msg
}

// New builds a bare Error of the given kind with a formatted message; see
// the NewXxx helpers below for the common cases, plus this general
// constructor for the rest.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewRedeclaration reports a name already defined in a scope's namespace.
func NewRedeclaration(name string) *Error {
	return &Error{Kind: Redeclaration, Message: "name already defined in this scope", Name: name}
}

// NewNotFound reports an unresolved name.
func NewNotFound(name string) *Error {
	return &Error{Kind: NotFound, Message: "unbound name", Name: name}
}

// NewKindMismatch reports a kind disagreement in a type application.
func NewKindMismatch(expected, actual fmt.Stringer) *Error {
	return &Error{Kind: KindMismatch, Message: "kind mismatch in application", Expected: expected, Actual: actual}
}

// NewArityMismatch reports a type application or function arity mismatch.
func NewArityMismatch(name string, expected, actual int) *Error {
	return &Error{Kind: ArityMismatch, Message: fmt.Sprintf("expected %d, got %d", expected, actual), Name: name}
}

// NewUnifyFail reports two types that cannot be unified.
func NewUnifyFail(reason string, lhs, rhs fmt.Stringer) *Error {
	return &Error{Kind: UnifyFail, Message: reason, Expected: lhs, Actual: rhs}
}

// NewUnresolvedHole reports a hole that participated in bottom-bottom
// unification: two unassigned holes being unified against each other.
func NewUnresolvedHole() *Error {
	return &Error{Kind: UnresolvedHole, Message: "cannot unify two unassigned holes"}
}

// NewOverlappingImpl reports two impls colliding on the same (trait, type).
func NewOverlappingImpl(traitName string) *Error {
	return &Error{Kind: OverlappingImpl, Message: "impl already defined for this type", Name: traitName}
}

// NewInvariantViolated reports an internal assertion failure. Callers
// should treat this as fatal, not recoverable.
func NewInvariantViolated(format string, args ...interface{}) *Error {
	return &Error{Kind: InvariantViolated, Message: fmt.Sprintf(format, args...)}
}
