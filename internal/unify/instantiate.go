package unify

import "github.com/natebuckareff/typeck/internal/ast"

// instantiate unwraps one layer of Forall, pushing a fresh instantiation
// frame onto state and returning the (still-quantified-inside, now
// De-Bruijn-resolvable) Body. Two shapes are handled differently:
//
//   - A Forall wrapping a Fun is an ordinary generic function type: its
//     parameters are unification variables, captured rather than assigned --
//     each occurrence of a bound parameter is unified against every
//     instance already captured for it (rule 1's per-slot capture lists,
//     see State.captures) and then appended, rather than every parameter
//     eagerly collapsing to a single fresh Hole. This is what lets two
//     quantified signatures with a different-shaped but equivalent
//     parameter list (e.g. ∀T.∀U.(T,U)->U vs ∀X.(X,X)->X) unify without one
//     side's holes meeting the other's before either has a recorded
//     instance to compare against.
//   - A Forall wrapping anything else is an existential package: its
//     parameters name a type the caller doesn't get to choose, so each gets
//     an opaque placeholder that can only ever unify with itself (two
//     unassigned holes never unify, but the same existential compared
//     against itself must). Each placeholder resolves to a freshly minted
//     Param distinct from the quantifier's own -- never the original Param
//     -- so deref doesn't loop trying to re-instantiate it as a bound
//     occurrence. Instantiating the identical Forall AST node a second time
//     within the same unification reuses the first placeholder (state's
//     existentials cache) instead of minting a new, non-equal one, which is
//     what makes the same existential compared against itself succeed.
func (u *Unifier) instantiate(f *ast.Forall, state *State) (ast.Type, error) {
	if _, isFunBody := f.Body.(*ast.Fun); isFunBody {
		*state = *state.pushFrame(frame{params: f.Params})
		return f.Body, nil
	}

	if fr, ok := state.existentialFrame(f); ok {
		*state = *state.pushFrame(fr)
		return f.Body, nil
	}

	repo := u.ctx.Repository()
	values := make([]ast.Type, len(f.Params))
	for i, p := range f.Params {
		skolemParam := ast.NewParam(repo, p.Name, nil, nil)
		skolem := ast.NewRef(repo, p.Name)
		skolem.Resolved = skolemParam
		values[i] = skolem
	}
	fr := frame{params: f.Params, existential: true, values: values}
	state.cacheExistentialFrame(f, fr)
	*state = *state.pushFrame(fr)
	return f.Body, nil
}
