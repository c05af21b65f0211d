// Package unify implements the checker core's unification algorithm:
// structural unification over canonical TypeCodes, bound-parameter
// instantiation, hole assignment, and the trait-impl coherence index. The
// substitution this checker threads through recursive Unify calls is
// hole-keyed rather than name-keyed, since it has no free type variables
// outside of Holes -- bound Params are resolved structurally via De Bruijn
// indices, never substituted by name.
package unify

import "github.com/natebuckareff/typeck/internal/ast"

// State carries everything one call to Unify threads through: the current
// hole assignment, the stack of bound-parameter instantiations pushed by
// each Forall unwrapped so far, and the contravariance flag swapped every
// time unification descends into a function parameter position.
//
// A single State is reused across an entire top-level unification (it is
// not reset between recursive calls), threading through every recursive
// Unify call rather than starting fresh each time.
type State struct {
	holes map[*ast.Hole]ast.Type

	// instances captures, for each enclosing Forall unwrapped by
	// instantiate, the bound parameters it introduced, one frame per Forall,
	// outermost first. An existential frame also carries the fixed skolem
	// stand-in assigned to each of its params; a generic (ordinary) frame
	// carries none of its own -- its params are resolved through captures
	// instead.
	instances []frame

	// swapped tracks whether lhs/rhs have been exchanged an odd number of
	// times since the top-level Unify call, which is what makes
	// contravariant positions (function parameters) compare in the
	// opposite direction from everywhere else.
	swapped bool

	// existentials memoizes the skolem frame minted the first time a given
	// existential Forall (one whose body isn't a Fun) is instantiated, so
	// encountering the exact same Forall AST node again within the same
	// unification call reuses the same opaque placeholders instead of
	// minting fresh, non-equal ones. This is what makes "the same
	// existential compared against itself" succeed while two distinct
	// existentials still don't unify.
	existentials map[*ast.Forall]frame

	// captures implements rule 1's per-slot capture lists: every type a
	// generic (non-existential) bound parameter has been unified against so
	// far during this unification, in the order encountered. Such a
	// parameter never gets a single fixed value the way a Hole would --
	// each new occurrence is unified against every prior capture before
	// being appended, which is what lets two differently-shaped but
	// equivalent quantified signatures (e.g. ∀T.∀U.(T,U)->U vs
	// ∀X.(X,X)->X) unify without prematurely collapsing T and U into the
	// same variable.
	captures map[*ast.Param][]ast.Type
}

type frame struct {
	params      []*ast.Param
	existential bool
	values      []ast.Type // meaningful only when existential
}

// NewState creates an empty unification state.
func NewState() *State {
	return &State{
		holes:        make(map[*ast.Hole]ast.Type),
		existentials: make(map[*ast.Forall]frame),
		captures:     make(map[*ast.Param][]ast.Type),
	}
}

// Lookup returns what h is currently assigned to, if anything.
func (s *State) Lookup(h *ast.Hole) (ast.Type, bool) {
	t, ok := s.holes[h]
	return t, ok
}

// Assign records that h now stands for t. Callers are expected to have
// already run an occurs check (see occursIn in unify.go).
func (s *State) Assign(h *ast.Hole, t ast.Type) {
	s.holes[h] = t
}

// swap returns a copy of s with the contravariance flag flipped; used
// exactly once per descent into a function parameter position, and
// implicitly undone by returning back up the call stack (state is a value
// receiver's worth of bookkeeping layered on top of the shared hole map, so
// flipping it never disturbs the caller's own view of swapped).
func (s *State) swap() *State {
	return &State{holes: s.holes, instances: s.instances, swapped: !s.swapped, existentials: s.existentials, captures: s.captures}
}

// pushFrame records a fresh instantiation frame, returning a State with it
// visible; used while unifying under a Forall's body so its bound params
// resolve against this frame instead of dangling free.
func (s *State) pushFrame(f frame) *State {
	next := make([]frame, len(s.instances)+1)
	copy(next, s.instances)
	next[len(s.instances)] = f
	return &State{holes: s.holes, instances: next, swapped: s.swapped, existentials: s.existentials, captures: s.captures}
}

// existentialFrame returns the skolem frame previously minted for f, if
// instantiate has already unwrapped this exact existential Forall once
// within this unification.
func (s *State) existentialFrame(f *ast.Forall) (frame, bool) {
	if s.existentials == nil {
		return frame{}, false
	}
	fr, ok := s.existentials[f]
	return fr, ok
}

// cacheExistentialFrame records the skolem frame minted for f so a later
// instantiate of the same node reuses it.
func (s *State) cacheExistentialFrame(f *ast.Forall, fr frame) {
	if s.existentials == nil {
		s.existentials = make(map[*ast.Forall]frame)
	}
	s.existentials[f] = fr
}

// resolveParam returns the fixed skolem stand-in instantiate() assigned to
// p, for an existential (opaque) parameter only. An ordinary generic
// parameter has no single fixed value even while a Forall binding it is
// unwrapped -- it's resolved through the capture-list rule in Unify instead
// -- so this returns false for it.
func (s *State) resolveParam(p *ast.Param) (ast.Type, bool) {
	for i := len(s.instances) - 1; i >= 0; i-- {
		f := s.instances[i]
		if !f.existential {
			continue
		}
		for j, fp := range f.params {
			if fp == p {
				return f.values[j], true
			}
		}
	}
	return nil, false
}

// boundByGenericFrame reports whether p is currently bound by an ordinary
// (non-existential) Forall this unification has already unwrapped -- the
// case rule 1 governs.
func (s *State) boundByGenericFrame(p *ast.Param) bool {
	for i := len(s.instances) - 1; i >= 0; i-- {
		f := s.instances[i]
		if f.existential {
			continue
		}
		for _, fp := range f.params {
			if fp == p {
				return true
			}
		}
	}
	return false
}

// capture records that t was unified against p's slot, implementing rule
// 1's per-parameter capture list.
func (s *State) capture(p *ast.Param, t ast.Type) {
	if s.captures == nil {
		s.captures = make(map[*ast.Param][]ast.Type)
	}
	s.captures[p] = append(s.captures[p], t)
}

// Captures returns every type so far unified against the bound parameter p
// via rule 1, in the order captured. Exported so a caller that unified two
// quantified signatures can inspect what got pinned down on each side --
// e.g. to confirm that two parameters from different quantifiers ended up
// capturing the same instance.
func (s *State) Captures(p *ast.Param) []ast.Type {
	return s.captures[p]
}

// Snapshot captures enough of s to undo every Assign made since, for
// speculative unification attempts (e.g. trying each overlapping impl
// candidate before committing to one).
type Snapshot struct {
	holes map[*ast.Hole]ast.Type
}

// Snapshot returns a point-in-time copy of s's hole assignments.
func (s *State) Snapshot() Snapshot {
	cp := make(map[*ast.Hole]ast.Type, len(s.holes))
	for k, v := range s.holes {
		cp[k] = v
	}
	return Snapshot{holes: cp}
}

// Restore rolls s's hole assignments back to snap, discarding anything
// assigned since it was taken.
func (s *State) Restore(snap Snapshot) {
	s.holes = snap.holes
}
