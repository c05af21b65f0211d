// Package ast defines the type-relevant slice of the surface AST that the
// checker core consumes: entities (Alias, Data, Trait, Param), the
// occurrence/structure nodes that build up type expressions (Hole, Partial,
// Forall, Ref, Apply, Tuple, Fun), and the Repository that allocates their
// ids. Construction of this AST (lexing, parsing, surface desugaring) is an
// external concern; this package only shapes what the checker needs.
package ast

import (
	"fmt"

	"github.com/natebuckareff/typeck/internal/kind"
)

// Namespace distinguishes the value and type identifier spaces a Context
// keeps separate: a value and a type are allowed to share a name in the same
// scope, but two values (or two types) are not.
type Namespace int

const (
	ValueNS Namespace = iota
	TypeNS
)

func (n Namespace) String() string {
	if n == ValueNS {
		return "value"
	}
	return "type"
}

// Node is any element of the AST. Every node carries the id it was
// allocated with and a pointer to its enclosing node, so a Context can be
// reconstructed by walking upward from any node.
type Node interface {
	ID() NodeID
	Parent() Node
}

// mutableParent is implemented by every concrete node so constructors can
// wire up Parent() without exposing mutation outside this package.
type mutableParent interface {
	setParent(Node)
}

type base struct {
	id     NodeID
	parent Node
}

func (b *base) ID() NodeID       { return b.id }
func (b *base) Parent() Node     { return b.parent }
func (b *base) setParent(p Node) { b.parent = p }

// attach sets child's parent to owner, for every child that isn't nil.
// Centralizes the bookkeeping every constructor below needs.
func attach(owner Node, children ...mutableParent) {
	for _, c := range children {
		if c != nil {
			c.setParent(owner)
		}
	}
}

// Type is any node that denotes a type expression: Forall, Ref, Apply,
// Tuple, Fun, Hole, and Partial all satisfy it.
type Type interface {
	Node
	typeNode()
	String() string
}

// Entity is anything definable in a Context: Alias, Data, Trait, Param,
// Constructor, and Method.
type Entity interface {
	Node
	EntityName() string
	Namespace() Namespace
}

// ConstraintRef is one "T: Trait<Args...>" constraint attached to a Param.
type ConstraintRef struct {
	Trait NodeID // the constraining Trait's id
	Args  []Type // arguments to the trait beyond the constrained param itself
}

// Param is a type parameter: introduced by a Forall, or by a Data/Alias/
// Trait's own parameter list. At most one of DeclaredKind or Constraints may
// be non-empty/non-nil: an HKT parameter declares a kind and carries no
// constraints (constraints only apply to concrete, kind-* parameters).
type Param struct {
	base
	Name         string
	DeclaredKind kind.Kind
	Constraints  []ConstraintRef
}

func NewParam(repo *Repository, name string, declaredKind kind.Kind, constraints []ConstraintRef) *Param {
	return &Param{base: base{id: repo.Next()}, Name: name, DeclaredKind: declaredKind, Constraints: constraints}
}

func (p *Param) EntityName() string   { return p.Name }
func (p *Param) Namespace() Namespace { return TypeNS }
func (p *Param) typeNode()            {}
func (p *Param) String() string       { return p.Name }

// Hole is an unknown type to be filled by unification. LocalIndex is a
// display-only numbering assigned within its enclosing Partial (see
// NewPartial); it has no bearing on canonical identity, which is always the
// node's globally unique id (base.id).
type Hole struct {
	base
	LocalIndex int
}

func NewHole(repo *Repository) *Hole {
	return &Hole{base: base{id: repo.Next()}}
}

func (h *Hole) typeNode()      {}
func (h *Hole) String() string { return fmt.Sprintf("?h%d", h.LocalIndex) }

// Partial introduces one or more Holes around an inner type.
type Partial struct {
	base
	Holes []*Hole
	Inner Type
}

func NewPartial(repo *Repository, holes []*Hole, inner Type) *Partial {
	p := &Partial{base: base{id: repo.Next()}, Inner: inner}
	for i, h := range holes {
		h.LocalIndex = i
	}
	p.Holes = holes
	cs := make([]mutableParent, 0, len(holes)+1)
	for _, h := range holes {
		cs = append(cs, h)
	}
	cs = append(cs, asMutable(inner))
	attach(p, cs...)
	return p
}

func (p *Partial) typeNode() {}
func (p *Partial) String() string {
	return fmt.Sprintf("partial(%s)", p.Inner.String())
}

// Forall quantifies Params over Body.
type Forall struct {
	base
	Params []*Param
	Body   Type
}

func NewForall(repo *Repository, params []*Param, body Type) *Forall {
	f := &Forall{base: base{id: repo.Next()}, Params: params, Body: body}
	cs := make([]mutableParent, 0, len(params)+1)
	for _, p := range params {
		cs = append(cs, p)
	}
	cs = append(cs, asMutable(body))
	attach(f, cs...)
	return f
}

func (f *Forall) typeNode() {}
func (f *Forall) String() string {
	names := ""
	for i, p := range f.Params {
		if i > 0 {
			names += " "
		}
		names += p.Name
	}
	return fmt.Sprintf("(forall (%s) %s)", names, f.Body.String())
}

// Ref is an occurrence of a name in a type expression: either a bound type
// parameter (Var at the TypeCode layer) or a top-level Alias/Data/Trait
// (Ref at the TypeCode layer). Name resolution (Context.ResolveRef) fills
// Resolved once the occurrence has been looked up; compiling to TypeCode
// requires it.
type Ref struct {
	base
	Name     string
	Resolved Entity // set by Context.ResolveRef / Context.Check
}

func NewRef(repo *Repository, name string) *Ref {
	return &Ref{base: base{id: repo.Next()}, Name: name}
}

func (r *Ref) typeNode()      {}
func (r *Ref) String() string { return r.Name }

// Apply is head applied to one or more Args (single-argument application
// repeated per the curried encoding law; see internal/typecode).
type Apply struct {
	base
	Head Type
	Args []Type
}

func NewApply(repo *Repository, head Type, args []Type) *Apply {
	a := &Apply{base: base{id: repo.Next()}, Head: head, Args: args}
	cs := make([]mutableParent, 0, len(args)+1)
	cs = append(cs, asMutable(head))
	for _, arg := range args {
		cs = append(cs, asMutable(arg))
	}
	attach(a, cs...)
	return a
}

func (a *Apply) typeNode() {}
func (a *Apply) String() string {
	s := a.Head.String()
	for _, arg := range a.Args {
		s += " " + arg.String()
	}
	return "(" + s + ")"
}

// Tuple is a fixed-arity product type. It is not part of the shipped
// TypeCode alphabet and compiles to Apply(Ref(tupleCtor(len(Elements))), Elements...).
type Tuple struct {
	base
	Elements []Type
}

func NewTuple(repo *Repository, elements []Type) *Tuple {
	t := &Tuple{base: base{id: repo.Next()}, Elements: elements}
	cs := make([]mutableParent, 0, len(elements))
	for _, e := range elements {
		cs = append(cs, asMutable(e))
	}
	attach(t, cs...)
	return t
}

func (t *Tuple) typeNode() {}
func (t *Tuple) String() string {
	s := "("
	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

// Fun is a curried function arrow. TParams records the function's own
// generic parameters and parents them to the Fun; the unifier and the
// TypeCode compiler do not read TParams.
type Fun struct {
	base
	TParams []*Param
	Params  []Type
	Return  Type
}

func NewFun(repo *Repository, tparams []*Param, params []Type, ret Type) *Fun {
	f := &Fun{base: base{id: repo.Next()}, TParams: tparams, Params: params, Return: ret}
	cs := make([]mutableParent, 0, len(tparams)+len(params)+1)
	for _, p := range tparams {
		cs = append(cs, p)
	}
	for _, p := range params {
		cs = append(cs, asMutable(p))
	}
	cs = append(cs, asMutable(ret))
	attach(f, cs...)
	return f
}

func (f *Fun) typeNode() {}
func (f *Fun) String() string {
	s := "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + f.Return.String()
}

// asMutable narrows a Type to mutableParent; every concrete Type in this
// package implements it, so this never fails in practice. Kept as a small
// helper instead of a type assertion scattered at every call site.
func asMutable(t Type) mutableParent {
	if t == nil {
		return nil
	}
	mp, ok := t.(mutableParent)
	if !ok {
		panic(fmt.Sprintf("ast: %T does not implement mutableParent", t))
	}
	return mp
}
