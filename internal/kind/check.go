package kind

import (
	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/checkerr"
)

// Env is the parameter environment kind(ast, params) is computed relative
// to. Because this AST resolves a Var occurrence directly to the *ast.Param
// it names (rather than a raw De Bruijn integer), the "params" environment
// collapses to two small overrides:
//
//   - Holes:    what a Hole currently resolves to, if anything.
//   - Override: the kind a specific Param should be treated as having for
//     the duration of one Of call, in place of its own declared kind.
//
// internal/unify builds a fresh, empty Env for each kind comparison and
// sets neither map, so there a Hole's kind is undefined and every Param has
// its declared kind.
type Env struct {
	Holes    map[*ast.Hole]ast.Type
	Override map[*ast.Param]Kind
}

// NewEnv builds an empty environment.
func NewEnv() *Env {
	return &Env{Holes: make(map[*ast.Hole]ast.Type), Override: make(map[*ast.Param]Kind)}
}

// ParamKind returns the kind a bare Param entity is declared (or defaulted)
// to have: its DeclaredKind if it names an HKT parameter, else Star --
// constraints only ever attach to concrete, kind-* parameters.
func ParamKind(p *ast.Param) Kind {
	if p.DeclaredKind != nil {
		return p.DeclaredKind
	}
	return Concrete
}

// EntityKind returns the curried kind-arrow of a top-level entity's
// parameter list, ending in Star -- "Ref id: look up the datatype/alias;
// its kind is the curried kind-arrow of its parameter list ending in *.
// With 0 params, kind is *."
func EntityKind(e ast.Entity) Kind {
	var params []*ast.Param
	switch d := e.(type) {
	case *ast.Data:
		params = d.Params
	case *ast.Alias:
		params = d.Params
	case *ast.Trait:
		params = d.AllParams()
	case *ast.Param:
		return ParamKind(d)
	default:
		return Concrete
	}
	args := make([]Kind, len(params))
	for i, p := range params {
		args[i] = ParamKind(p)
	}
	return Curry(args, Concrete)
}

// Of computes the kind of a type expression under env. The second return
// value is false when the kind is undefined: an unfilled Hole, a Ref with
// no Resolved entity, an ill-kinded Apply, or an unrecognized node.
func Of(t ast.Type, env *Env) (Kind, bool) {
	switch n := t.(type) {
	case *ast.Forall, *ast.Fun, *ast.Tuple:
		return Concrete, true

	case *ast.Partial:
		return Of(n.Inner, env)

	case *ast.Hole:
		if filled, ok := env.Holes[n]; ok {
			return Of(filled, env)
		}
		return nil, false

	case *ast.Ref:
		return refKind(n, env)

	case *ast.Apply:
		return applyKind(n, env)

	case *ast.Param:
		if k, ok := env.Override[n]; ok {
			return k, true
		}
		return ParamKind(n), true

	default:
		return nil, false
	}
}

func refKind(n *ast.Ref, env *Env) (Kind, bool) {
	switch target := n.Resolved.(type) {
	case *ast.Param:
		if k, ok := env.Override[target]; ok {
			return k, true
		}
		return ParamKind(target), true
	case ast.Entity:
		return EntityKind(target), true
	default:
		return nil, false
	}
}

func applyKind(n *ast.Apply, env *Env) (Kind, bool) {
	headKind, ok := Of(n.Head, env)
	if !ok {
		return nil, false
	}
	for _, arg := range n.Args {
		arrow, ok := headKind.(Arrow)
		if !ok {
			return nil, false
		}
		argKind, ok := Of(arg, env)
		if !ok {
			return nil, false
		}
		// Compare the parameter kind (arrow.From) against the ARGUMENT's
		// kind, never against itself.
		if !arrow.From.Equals(argKind) {
			return nil, false
		}
		headKind = arrow.To
	}
	return headKind, true
}

// Check validates that t is well-kinded: every Apply satisfies the arrow
// law, every Ref has been resolved (a Ref whose Resolved is still unset is
// reported as checkerr.NotFound), and kind mismatches surface as
// checkerr.KindMismatch. A position whose kind is undefined because it
// contains an unfilled Hole is not itself an error -- Check only rejects
// positions that are filled in (or hole-free) and still don't satisfy the
// arrow law.
func Check(t ast.Type, env *Env) error {
	switch n := t.(type) {
	case *ast.Forall:
		return Check(n.Body, env)
	case *ast.Partial:
		return Check(n.Inner, env)
	case *ast.Fun:
		for _, p := range n.Params {
			if err := Check(p, env); err != nil {
				return err
			}
		}
		return Check(n.Return, env)
	case *ast.Tuple:
		for _, e := range n.Elements {
			if err := Check(e, env); err != nil {
				return err
			}
		}
		return nil
	case *ast.Ref:
		if n.Resolved == nil {
			return checkerr.NewNotFound(n.Name)
		}
		return nil
	case *ast.Apply:
		return checkApply(n, env)
	case *ast.Hole:
		return nil
	default:
		return nil
	}
}

func checkApply(n *ast.Apply, env *Env) error {
	if err := Check(n.Head, env); err != nil {
		return err
	}
	headKind, ok := Of(n.Head, env)
	if !ok {
		return checkerr.NewInvariantViolated("application head has no kind")
	}
	for _, arg := range n.Args {
		if err := Check(arg, env); err != nil {
			return err
		}
		arrow, ok := headKind.(Arrow)
		if !ok {
			return checkerr.New(checkerr.KindMismatch, "applying a concrete type %s", headKind)
		}
		argKind, ok := Of(arg, env)
		if !ok {
			// Argument kind undefined (unfilled hole): nothing to check yet.
			headKind = arrow.To
			continue
		}
		if !arrow.From.Equals(argKind) {
			return checkerr.NewKindMismatch(arrow.From, argKind)
		}
		headKind = arrow.To
	}
	return nil
}
