// Package scope implements the lexical scope tree a program's declarations
// are checked and normalized against: nested Contexts with their own
// value/type namespaces, De Bruijn depth bookkeeping for bound type
// parameters, and the normalization cache that backs canonical-equality
// comparisons. Name resolution walks a parent chain the way a nested
// environment usually does, generalized from a single flat namespace to
// paired value/type namespaces plus bound-parameter resolution.
package scope

import (
	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/checkerr"
	"github.com/natebuckareff/typeck/internal/typecode"
)

// Context is one node of the scope tree. The root Context (depth 0, no
// bound params) holds every top-level declaration; each quantifier node
// (Forall, Data, Alias, Trait) gets its own child Context via Enter, one
// De Bruijn frame per node that actually binds parameters.
type Context struct {
	repo   *ast.Repository
	parent *Context
	owner  ast.Node // the node this Context was entered for; nil for the root
	depth  int

	params     []*ast.Param
	paramIndex map[*ast.Param]int

	byID        map[ast.NodeID]ast.Entity
	byValueName map[string]ast.Entity
	byTypeName  map[string]ast.Entity

	children  map[ast.Node]*Context
	normCache map[ast.Node]typecode.Code
}

// NewRoot creates the top-level Context every program's declarations are
// defined in.
func NewRoot(repo *ast.Repository) *Context {
	return newContext(repo, nil, nil)
}

func newContext(repo *ast.Repository, parent *Context, owner ast.Node) *Context {
	c := &Context{
		repo:        repo,
		parent:      parent,
		owner:       owner,
		byID:        make(map[ast.NodeID]ast.Entity),
		byValueName: make(map[string]ast.Entity),
		byTypeName:  make(map[string]ast.Entity),
		children:    make(map[ast.Node]*Context),
		normCache:   make(map[ast.Node]typecode.Code),
	}
	if owner != nil {
		c.params = ast.ScopeParams(owner)
		c.paramIndex = make(map[*ast.Param]int, len(c.params))
		for i, p := range c.params {
			c.paramIndex[p] = i
			c.byID[p.ID()] = p
			c.byTypeName[p.Name] = p
		}
	}
	if parent != nil && len(c.params) > 0 {
		c.depth = parent.depth + 1
	} else if parent != nil {
		c.depth = parent.depth
	}
	return c
}

// Enter returns the child Context scoped to node, creating and memoizing it
// on first visit. node need not bind any parameters (ast.ScopeParams
// returns nil for anything that isn't a Forall/Alias/Data/Trait); such a
// Context still gives node's own declarations (e.g. a Data's constructors)
// a place to live without advancing the De Bruijn depth.
func (c *Context) Enter(node ast.Node) *Context {
	if child, ok := c.children[node]; ok {
		return child
	}
	child := newContext(c.repo, c, node)
	c.children[node] = child
	return child
}

// Repository returns the ast.Repository this Context's whole tree was built
// from, so callers (internal/unify's instantiate, in particular) can mint
// fresh nodes -- the skolem Params and Refs of an existential
// instantiation -- with ids from the same allocator as everything else.
func (c *Context) Repository() *ast.Repository { return c.repo }

// Depth returns this Context's De Bruijn frame depth: the number of
// enclosing quantifier frames that bind at least one parameter, including
// this one if it does.
func (c *Context) Depth() int { return c.depth }

// Define registers entity under name in ns, failing if that namespace
// already has a binding in THIS scope (shadowing an outer scope's binding
// is fine; redeclaring within the same one is not).
func (c *Context) Define(name string, entity ast.Entity, ns ast.Namespace) error {
	table := c.table(ns)
	if _, exists := table[name]; exists {
		return checkerr.NewRedeclaration(name)
	}
	table[name] = entity
	c.byID[entity.ID()] = entity
	return nil
}

func (c *Context) table(ns ast.Namespace) map[string]ast.Entity {
	if ns == ast.ValueNS {
		return c.byValueName
	}
	return c.byTypeName
}

// ResolveValueName looks up name in the value namespace, walking outward
// through enclosing scopes.
func (c *Context) ResolveValueName(name string) (ast.Entity, error) {
	return c.resolveName(name, ast.ValueNS)
}

// ResolveTypeName looks up name in the type namespace, walking outward
// through enclosing scopes.
func (c *Context) ResolveTypeName(name string) (ast.Entity, error) {
	return c.resolveName(name, ast.TypeNS)
}

func (c *Context) resolveName(name string, ns ast.Namespace) (ast.Entity, error) {
	for cur := c; cur != nil; cur = cur.parent {
		if e, ok := cur.table(ns)[name]; ok {
			return e, nil
		}
	}
	return nil, checkerr.NewNotFound(name)
}

// ResolveID looks up an entity by the id it was allocated with, walking
// outward through enclosing scopes.
func (c *Context) ResolveID(id ast.NodeID) (ast.Entity, error) {
	for cur := c; cur != nil; cur = cur.parent {
		if e, ok := cur.byID[id]; ok {
			return e, nil
		}
	}
	return nil, checkerr.New(checkerr.NotFound, "no entity with id %d in scope", id)
}

// resolveParam finds the Param named name among the bound-parameter frames
// enclosing c (not c's own plain declarations), returning the Param, the
// flat De Bruijn index described on ResolveVar, and whether it was found.
func (c *Context) resolveParam(name string) (*ast.Param, int, bool) {
	index := 0
	for cur := c; cur != nil; cur = cur.parent {
		if pos, ok := paramPosByName(cur, name); ok {
			// Innermost binder in a shared frame gets the smaller delta:
			// the last-declared param in cur.params is index 0 within the
			// frame, counting outward from there.
			return cur.params[pos], index + (len(cur.params) - 1 - pos), true
		}
		index += len(cur.params)
	}
	return nil, 0, false
}

func paramPosByName(c *Context, name string) (int, bool) {
	for i, p := range c.params {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}

// ResolveVar returns the flat De Bruijn index of param as seen from c,
// counting outward from the innermost enclosing frame: the last parameter
// declared in a quantifier block is index 0 within that block, and indices
// continue counting through enclosing blocks from there: params bound in
// the same block share a frame, and the innermost binder has the smaller
// delta.
func (c *Context) ResolveVar(param *ast.Param) (int, bool) {
	index := 0
	for cur := c; cur != nil; cur = cur.parent {
		if pos, ok := cur.paramIndex[param]; ok {
			return index + (len(cur.params) - 1 - pos), true
		}
		index += len(cur.params)
	}
	return 0, false
}

// ResolveRef implements typecode.Resolver: a Ref either names a bound
// parameter (compiles to Var) or a top-level Alias/Data/Trait (compiles to
// Ref). Resolved is set on ref as a side effect, since this lookup is the
// single source of truth for what a name means.
func (c *Context) ResolveRef(ref *ast.Ref) (typecode.RefResolution, error) {
	if p, idx, ok := c.resolveParam(ref.Name); ok {
		ref.Resolved = p
		if idx > typecode.MaxOperand {
			return typecode.RefResolution{}, checkerr.New(checkerr.InvariantViolated, "De Bruijn index %d overflows operand width", idx)
		}
		return typecode.RefResolution{IsVar: true, Value: uint16(idx)}, nil
	}
	entity, err := c.ResolveTypeName(ref.Name)
	if err != nil {
		return typecode.RefResolution{}, err
	}
	ref.Resolved = entity
	id := uint32(entity.ID())
	if id > typecode.MaxOperand {
		return typecode.RefResolution{}, checkerr.New(checkerr.InvariantViolated, "entity id %d overflows operand width", id)
	}
	return typecode.RefResolution{IsVar: false, Value: uint16(id)}, nil
}

// TupleConstructorID implements typecode.TupleResolver by delegating to the
// shared Repository every Context in the tree was built from, so every
// Context sees the same synthetic tuple constructor for a given arity.
func (c *Context) TupleConstructorID(arity int) (uint16, error) {
	ctor := c.repo.TupleConstructor(arity)
	id := uint32(ctor.ID())
	if id > typecode.MaxOperand {
		return 0, checkerr.New(checkerr.InvariantViolated, "tuple constructor id %d overflows operand width", id)
	}
	return uint16(id), nil
}
