package ast

// ScopeParams returns the parameters a scope-introducing node pre-populates
// into the Context created for it, or nil if node does not introduce a
// parameter scope at all. Context.Enter uses this to decide both whether a
// new scope increments depth -- a non-root context's depth equals its
// parent's depth plus one when it introduces type parameters, otherwise it
// equals its parent's depth -- and which entities to auto-define there.
func ScopeParams(node Node) []*Param {
	switch n := node.(type) {
	case *Forall:
		return n.Params
	case *Alias:
		return n.Params
	case *Data:
		return n.Params
	case *Trait:
		return n.AllParams()
	default:
		return nil
	}
}

// IsQuantifier reports whether node is a depth-increasing scope root, i.e.
// ScopeParams(node) would be non-empty, so a Trait/Data/Alias declared with
// zero params reads as "not a quantifier" rather than a quantifier over
// nothing.
func IsQuantifier(node Node) bool {
	return len(ScopeParams(node)) > 0
}
