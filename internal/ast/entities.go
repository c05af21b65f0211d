package ast

import "strings"

// Alias is a type synonym: "alias Name(Params...) = Body".
type Alias struct {
	base
	Name   string
	Params []*Param
	Body   Type
}

func NewAlias(repo *Repository, name string, params []*Param, body Type) *Alias {
	a := &Alias{base: base{id: repo.Next()}, Name: name, Params: params, Body: body}
	cs := make([]mutableParent, 0, len(params)+1)
	for _, p := range params {
		cs = append(cs, p)
	}
	cs = append(cs, asMutable(body))
	attach(a, cs...)
	return a
}

func (a *Alias) EntityName() string   { return a.Name }
func (a *Alias) Namespace() Namespace { return TypeNS }
func (a *Alias) String() string       { return "alias " + a.Name }

// Constructor is one data constructor of a Data declaration.
type Constructor struct {
	base
	Name   string
	Fields []Type
}

func NewConstructor(repo *Repository, name string, fields []Type) *Constructor {
	c := &Constructor{base: base{id: repo.Next()}, Name: name, Fields: fields}
	cs := make([]mutableParent, 0, len(fields))
	for _, f := range fields {
		cs = append(cs, asMutable(f))
	}
	attach(c, cs...)
	return c
}

func (c *Constructor) EntityName() string   { return c.Name }
func (c *Constructor) Namespace() Namespace { return ValueNS }
func (c *Constructor) String() string       { return c.Name }

// Data is an algebraic datatype declaration: "data Name(Params...) = C1 | C2 | ...".
type Data struct {
	base
	Name         string
	Params       []*Param
	Constructors []*Constructor
}

func NewData(repo *Repository, name string, params []*Param, ctors []*Constructor) *Data {
	d := &Data{base: base{id: repo.Next()}, Name: name, Params: params, Constructors: ctors}
	cs := make([]mutableParent, 0, len(params)+len(ctors))
	for _, p := range params {
		cs = append(cs, p)
	}
	for _, c := range ctors {
		cs = append(cs, c)
	}
	attach(d, cs...)
	return d
}

func (d *Data) EntityName() string   { return d.Name }
func (d *Data) Namespace() Namespace { return TypeNS }
func (d *Data) String() string       { return "data " + d.Name }

// Method is one method signature declared by a Trait.
type Method struct {
	base
	Name      string
	Signature Type
}

func NewMethod(repo *Repository, name string, signature Type) *Method {
	m := &Method{base: base{id: repo.Next()}, Name: name, Signature: signature}
	attach(m, asMutable(signature))
	return m
}

func (m *Method) EntityName() string   { return m.Name }
func (m *Method) Namespace() Namespace { return ValueNS }
func (m *Method) String() string       { return m.Name }

// Trait is a trait/typeclass declaration: "trait Name(Params...): Supers { Methods }".
// AssocParams are associated type parameters (parameters the trait's
// methods may quantify over beyond the constrained Param itself, e.g. the
// "U" in "trait Convert<U>").
type Trait struct {
	base
	Name        string
	Supers      []NodeID
	Params      []*Param
	AssocParams []*Param
	Methods     []*Method
}

func NewTrait(repo *Repository, name string, supers []NodeID, params, assocParams []*Param, methods []*Method) *Trait {
	t := &Trait{base: base{id: repo.Next()}, Name: name, Supers: supers, Params: params, AssocParams: assocParams, Methods: methods}
	cs := make([]mutableParent, 0, len(params)+len(assocParams)+len(methods))
	for _, p := range params {
		cs = append(cs, p)
	}
	for _, p := range assocParams {
		cs = append(cs, p)
	}
	for _, m := range methods {
		cs = append(cs, m)
	}
	attach(t, cs...)
	return t
}

func (t *Trait) EntityName() string   { return t.Name }
func (t *Trait) Namespace() Namespace { return TypeNS }
func (t *Trait) String() string       { return "trait " + t.Name }

// AllParams concatenates a Trait's constrained params and its associated
// params, the order the Forall wrapping a method body quantifies over them.
func (t *Trait) AllParams() []*Param {
	out := make([]*Param, 0, len(t.Params)+len(t.AssocParams))
	out = append(out, t.Params...)
	out = append(out, t.AssocParams...)
	return out
}

// MethodNames returns the trait's method names, for diagnostics.
func (t *Trait) MethodNames() string {
	names := make([]string, len(t.Methods))
	for i, m := range t.Methods {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
