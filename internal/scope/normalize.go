package scope

import (
	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/checkerr"
	"github.com/natebuckareff/typeck/internal/kind"
	"github.com/natebuckareff/typeck/internal/typecode"
)

// Normalize compiles t to its canonical TypeCode relative to c, memoizing
// the result per (Context, node) -- two alpha-equivalent occurrences of the
// same AST node normalize identically every time without recompiling, which
// is what makes repeated unify/overlap checks against a trait-impl index
// cheap.
func (c *Context) Normalize(t ast.Type) (typecode.Code, error) {
	if code, ok := c.normCache[t]; ok {
		return code, nil
	}
	instrs, err := typecode.Compile(t, c)
	if err != nil {
		return "", err
	}
	code, err := typecode.Encode(instrs)
	if err != nil {
		return "", err
	}
	c.normCache[t] = code
	return code, nil
}

// Check validates t against c: every Ref resolves (ResolveRef populates
// ast.Ref.Resolved and fails closed on an unbound name), and the resulting
// shape is well-kinded (internal/kind.Check). Call this once per
// declaration body before relying on Normalize's cached codes, the same way
// a real checker resolves names before it trusts structural equality.
func (c *Context) Check(t ast.Type) error {
	if err := c.resolveRefs(t); err != nil {
		return err
	}
	return kind.Check(t, c.kindEnv())
}

// kindEnv builds the kind.Env a Check call needs: holes aren't tracked here
// (Context has no notion of a live unification in progress -- that's
// internal/unify's job), so Check only validates the hole-free skeleton of
// a declaration's own signature.
func (c *Context) kindEnv() *kind.Env {
	return kind.NewEnv()
}

// resolveRefs walks t, resolving every Ref it contains via ResolveRef so
// later Normalize/kind.Check calls can trust Ref.Resolved is populated. It
// also descends into nested Forall/Apply/Tuple/Fun/Partial structure,
// entering a fresh child Context for each Forall so its Params shadow
// correctly.
func (c *Context) resolveRefs(t ast.Type) error {
	switch n := t.(type) {
	case *ast.Ref:
		_, err := c.ResolveRef(n)
		return err
	case *ast.Forall:
		child := c.Enter(n)
		for _, p := range n.Params {
			if err := child.checkParam(p); err != nil {
				return err
			}
		}
		return child.resolveRefs(n.Body)
	case *ast.Apply:
		if err := c.resolveRefs(n.Head); err != nil {
			return err
		}
		for _, arg := range n.Args {
			if err := c.resolveRefs(arg); err != nil {
				return err
			}
		}
		return nil
	case *ast.Tuple:
		for _, e := range n.Elements {
			if err := c.resolveRefs(e); err != nil {
				return err
			}
		}
		return nil
	case *ast.Fun:
		for _, p := range n.Params {
			if err := c.resolveRefs(p); err != nil {
				return err
			}
		}
		return c.resolveRefs(n.Return)
	case *ast.Partial:
		return c.resolveRefs(n.Inner)
	case *ast.Hole:
		return nil
	default:
		return checkerr.New(checkerr.InvariantViolated, "resolveRefs: unhandled type node %T", t)
	}
}

// checkParam resolves the Refs inside one parameter's constraints, in the
// Context that already has the parameter itself (and its siblings) bound.
func (c *Context) checkParam(p *ast.Param) error {
	for _, constraint := range p.Constraints {
		if _, err := c.ResolveID(constraint.Trait); err != nil {
			return err
		}
		for _, arg := range constraint.Args {
			if err := c.resolveRefs(arg); err != nil {
				return err
			}
		}
	}
	return nil
}
