package scope

import (
	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/checkerr"
)

// Declare registers a top-level entity in c (the program's root Context, in
// practice) and checks whatever body it carries: an Alias's Body, a Data's
// constructor fields, a Trait's method signatures under its own Forall of
// AllParams(). Constructors and Methods are defined into the value
// namespace as a side effect, matching how the surface language lets a
// constructor and its datatype share a scope without colliding (different
// namespaces).
func (c *Context) Declare(e ast.Entity) error {
	if err := c.Define(e.EntityName(), e, e.Namespace()); err != nil {
		return err
	}
	switch n := e.(type) {
	case *ast.Alias:
		child := c.Enter(n)
		for _, p := range n.Params {
			if err := child.checkParam(p); err != nil {
				return err
			}
		}
		return child.resolveRefs(n.Body)
	case *ast.Data:
		child := c.Enter(n)
		for _, p := range n.Params {
			if err := child.checkParam(p); err != nil {
				return err
			}
		}
		for _, ctor := range n.Constructors {
			if err := child.Define(ctor.Name, ctor, ast.ValueNS); err != nil {
				return err
			}
			for _, field := range ctor.Fields {
				if err := child.resolveRefs(field); err != nil {
					return err
				}
			}
		}
		return nil
	case *ast.Trait:
		child := c.Enter(n)
		for _, p := range n.AllParams() {
			if err := child.checkParam(p); err != nil {
				return err
			}
		}
		for _, super := range n.Supers {
			if _, err := child.ResolveID(super); err != nil {
				return err
			}
		}
		for _, m := range n.Methods {
			if err := child.Define(m.Name, m, ast.ValueNS); err != nil {
				return err
			}
			if err := child.resolveRefs(m.Signature); err != nil {
				return err
			}
		}
		return nil
	case *ast.Param:
		// A bare top-level Param (unusual, but not forbidden) has nothing
		// further to check.
		return nil
	default:
		return checkerr.New(checkerr.InvariantViolated, "Declare: unhandled entity %T", e)
	}
}
