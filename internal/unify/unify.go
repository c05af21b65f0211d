package unify

import (
	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/checkerr"
	"github.com/natebuckareff/typeck/internal/kind"
	"github.com/natebuckareff/typeck/internal/scope"
	"github.com/natebuckareff/typeck/internal/typecode"
)

// Unifier runs the unification algorithm relative to a fixed Context (the
// scope every Ref occurring in either side was resolved in) and a trait
// coherence index for discharging constrained parameters.
type Unifier struct {
	ctx   *scope.Context
	impls *ImplIndex
}

// New creates a Unifier. impls may be nil if no constrained parameters will
// ever need discharging (tests exercising pure structural unification).
func New(ctx *scope.Context, impls *ImplIndex) *Unifier {
	return &Unifier{ctx: ctx, impls: impls}
}

// Unify attempts to make lhs and rhs the same type, recording any Hole
// assignments and parameter captures this requires into state. It tries, in
// order: the rule 1 bound-parameter path, fast-path canonical equality, hole
// resolution, quantifier instantiation, then one case per structural shape,
// with function parameters compared contravariantly via state.swap().
func (u *Unifier) Unify(lhs, rhs ast.Type, state *State) error {
	lhs, rhs = u.deref(lhs, state), u.deref(rhs, state)

	// Rule 1 takes priority over everything below it, including the
	// canonical-equality fast path: two occurrences of unrelated bound
	// parameters can normalize to the same code (both are just "Var 0"
	// relative to their own quantifier), which would otherwise skip
	// recording the capture a caller may need to inspect afterward.
	if p, ok := genericBoundParam(lhs, state); ok {
		return u.unifyBoundParam(p, rhs, state)
	}
	if p, ok := genericBoundParam(rhs, state); ok {
		return u.unifyBoundParam(p, lhs, state)
	}

	if u.canonicallyEqual(lhs, rhs) {
		return nil
	}

	if lh, ok := lhs.(*ast.Hole); ok {
		return u.unifyHole(lh, rhs, state, false)
	}
	if rh, ok := rhs.(*ast.Hole); ok {
		return u.unifyHole(rh, lhs, state, true)
	}

	if lf, ok := lhs.(*ast.Forall); ok {
		instantiated, err := u.instantiate(lf, state)
		if err != nil {
			return err
		}
		return u.Unify(instantiated, rhs, state)
	}
	if rf, ok := rhs.(*ast.Forall); ok {
		instantiated, err := u.instantiate(rf, state)
		if err != nil {
			return err
		}
		return u.Unify(lhs, instantiated, state)
	}

	switch l := lhs.(type) {
	case *ast.Ref:
		r, ok := rhs.(*ast.Ref)
		if !ok {
			return u.mismatch(lhs, rhs)
		}
		return u.unifyRef(l, r, state)
	case *ast.Apply:
		r, ok := rhs.(*ast.Apply)
		if !ok {
			return u.mismatch(lhs, rhs)
		}
		return u.unifyApply(l, r, state)
	case *ast.Tuple:
		r, ok := rhs.(*ast.Tuple)
		if !ok {
			return u.mismatch(lhs, rhs)
		}
		return u.unifyTuple(l, r, state)
	case *ast.Fun:
		r, ok := rhs.(*ast.Fun)
		if !ok {
			return u.mismatch(lhs, rhs)
		}
		return u.unifyFun(l, r, state)
	default:
		return u.mismatch(lhs, rhs)
	}
}

// deref resolves n through both Hole assignment and instantiation-frame
// substitution, so every other case can assume it's looking at the actual
// shape in play rather than a stand-in for it.
func (u *Unifier) deref(t ast.Type, state *State) ast.Type {
	for {
		switch n := t.(type) {
		case *ast.Hole:
			if assigned, ok := state.Lookup(n); ok {
				t = assigned
				continue
			}
			return n
		case *ast.Ref:
			if p, ok := n.Resolved.(*ast.Param); ok {
				if fresh, ok := state.resolveParam(p); ok {
					t = fresh
					continue
				}
			}
			return n
		case *ast.Partial:
			t = n.Inner
			continue
		default:
			return n
		}
	}
}

func (u *Unifier) canonicallyEqual(lhs, rhs ast.Type) bool {
	lc, err := u.ctx.Normalize(lhs)
	if err != nil {
		return false
	}
	rc, err := u.ctx.Normalize(rhs)
	if err != nil {
		return false
	}
	return lc == rc
}

func (u *Unifier) mismatch(lhs, rhs ast.Type) error {
	return checkerr.NewUnifyFail("structural mismatch", lhs, rhs)
}

// genericBoundParam reports whether t is a Ref naming a parameter currently
// bound by an ordinary (non-existential) Forall this unification has
// already unwrapped -- the case rule 1 governs. A Ref resolved to a
// top-level entity, or to an existential's skolem Param, does not qualify:
// deref already substitutes the latter with its fixed stand-in before this
// is ever consulted.
func genericBoundParam(t ast.Type, state *State) (*ast.Param, bool) {
	ref, ok := t.(*ast.Ref)
	if !ok {
		return nil, false
	}
	p, ok := ref.Resolved.(*ast.Param)
	if !ok || !state.boundByGenericFrame(p) {
		return nil, false
	}
	return p, true
}

// unifyBoundParam implements rule 1: instantiating bound parameter p
// against other unifies other with every instance already captured for p,
// discharges p's constraints against it if it's concrete enough, and
// records it as a new capture. This is the per-slot capture-list mechanism
// that replaces eagerly substituting p with a fresh Hole: two parameters
// from different quantifiers only ever get identified with each other
// through captures, never by both resolving to the same Hole up front.
func (u *Unifier) unifyBoundParam(p *ast.Param, other ast.Type, state *State) error {
	for _, prior := range state.Captures(p) {
		if err := u.Unify(other, prior, state); err != nil {
			return err
		}
	}
	if err := u.discharge(p, other, state); err != nil {
		return err
	}
	state.capture(p, other)
	return nil
}

// unifyHole implements hole resolution: two unassigned holes fail to unify
// (bottom cannot stand for bottom) unless they are the very same AST node,
// in which case there is nothing to do. otherIsLHS records which side
// "other" came from; the function does not read it.
func (u *Unifier) unifyHole(h *ast.Hole, other ast.Type, state *State, otherIsLHS bool) error {
	if oh, ok := other.(*ast.Hole); ok {
		if oh == h {
			return nil
		}
		return checkerr.NewUnresolvedHole()
	}
	if occursIn(h, other, state) {
		return checkerr.New(checkerr.InvariantViolated, "occurs check failed: hole occurs in its own assignment")
	}
	state.Assign(h, other)
	return nil
}

// occursIn reports whether h appears (after dereferencing already-assigned
// holes) anywhere inside t, guarding against building an infinite type.
func occursIn(h *ast.Hole, t ast.Type, state *State) bool {
	switch n := t.(type) {
	case *ast.Hole:
		if n == h {
			return true
		}
		if assigned, ok := state.Lookup(n); ok {
			return occursIn(h, assigned, state)
		}
		return false
	case *ast.Apply:
		if occursIn(h, n.Head, state) {
			return true
		}
		for _, a := range n.Args {
			if occursIn(h, a, state) {
				return true
			}
		}
		return false
	case *ast.Tuple:
		for _, e := range n.Elements {
			if occursIn(h, e, state) {
				return true
			}
		}
		return false
	case *ast.Fun:
		for _, p := range n.Params {
			if occursIn(h, p, state) {
				return true
			}
		}
		return occursIn(h, n.Return, state)
	case *ast.Forall:
		return occursIn(h, n.Body, state)
	case *ast.Partial:
		return occursIn(h, n.Inner, state)
	default:
		return false
	}
}

// unifyRef handles two occurrences that both resolved to a named entity
// (Data/Alias/Trait) or a bound Param: equal when they resolved to the same
// entity. Arity is not compared here -- if they name the same entity their
// arities are equal by construction.
func (u *Unifier) unifyRef(l, r *ast.Ref, state *State) error {
	if l.Resolved != nil && r.Resolved != nil && l.Resolved.ID() == r.Resolved.ID() {
		return nil
	}
	return u.mismatch(l, r)
}

// unifyApply unifies two applications covariantly, argument by argument,
// after confirming the head resolves to the same constructor and the arity
// matches -- and discharges any trait constraint the corresponding
// parameter carries once an argument is pinned down.
func (u *Unifier) unifyApply(l, r *ast.Apply, state *State) error {
	if err := u.Unify(l.Head, r.Head, state); err != nil {
		return err
	}
	if len(l.Args) != len(r.Args) {
		return checkerr.NewArityMismatch("type application", len(l.Args), len(r.Args))
	}
	params := headParams(l.Head)
	for i := range l.Args {
		argKindL, okL := kind.Of(l.Args[i], kind.NewEnv())
		argKindR, okR := kind.Of(r.Args[i], kind.NewEnv())
		if okL && okR && !argKindL.Equals(argKindR) {
			return checkerr.NewKindMismatch(argKindL, argKindR)
		}
		if err := u.Unify(l.Args[i], r.Args[i], state); err != nil {
			return err
		}
		if params != nil && i < len(params) {
			if err := u.discharge(params[i], l.Args[i], state); err != nil {
				return err
			}
		}
	}
	return nil
}

// headParams returns the declared parameter list of an Apply's head, when
// it resolves to a Data/Alias whose Params carry constraints worth
// discharging. Returns nil when the head isn't a Ref to such an entity
// (e.g. it's itself a partially-applied Apply).
func headParams(head ast.Type) []*ast.Param {
	ref, ok := head.(*ast.Ref)
	if !ok {
		return nil
	}
	switch e := ref.Resolved.(type) {
	case *ast.Data:
		return e.Params
	case *ast.Alias:
		return e.Params
	default:
		return nil
	}
}

// discharge looks up an impl satisfying each of param's constraints against
// arg, once arg is concrete enough for a canonical code to be taken. Each
// constraint is keyed by the canonical code of its full trait application
// (Trait<Args...>), not the bare Trait id, so "T: Convert<U>" and
// "T: Convert<Bool>" look up distinct impl slots even though they share a
// Trait.
func (u *Unifier) discharge(param *ast.Param, arg ast.Type, state *State) error {
	if u.impls == nil || len(param.Constraints) == 0 {
		return nil
	}
	argCode, err := u.ctx.Normalize(u.deref(arg, state))
	if err != nil {
		return nil // not concrete yet; nothing to discharge until it is
	}
	for _, c := range param.Constraints {
		traitCode, err := typecode.ConstraintCode(c, u.ctx)
		if err != nil {
			return err
		}
		if _, ok := u.impls.Lookup(traitCode, argCode); !ok {
			return checkerr.NewUnifyFail("constraint not discharged", arg, arg)
		}
	}
	return nil
}

func (u *Unifier) unifyTuple(l, r *ast.Tuple, state *State) error {
	if len(l.Elements) != len(r.Elements) {
		return checkerr.NewArityMismatch("tuple", len(l.Elements), len(r.Elements))
	}
	for i := range l.Elements {
		if err := u.Unify(l.Elements[i], r.Elements[i], state); err != nil {
			return err
		}
	}
	return nil
}

// unifyFun unifies two function types: parameters contravariantly (state
// swapped while descending into them), return type covariantly.
func (u *Unifier) unifyFun(l, r *ast.Fun, state *State) error {
	if len(l.Params) != len(r.Params) {
		return checkerr.NewArityMismatch("function", len(l.Params), len(r.Params))
	}
	swapped := state.swap()
	for i := range l.Params {
		// Contravariance: the callee's parameter must accept everything the
		// caller's parameter accepts, so the roles of lhs/rhs invert here
		// rather than at the top of Unify -- swapping the operands directly
		// is simpler than threading swapped.swapped through every case.
		if err := u.Unify(r.Params[i], l.Params[i], swapped); err != nil {
			return err
		}
	}
	return u.Unify(l.Return, r.Return, state)
}
