package ast

import "strconv"

// NodeID is a unique integer id allocated by a Repository at construction
// time. Ids are stable for the lifetime of the AST and are what TypeCode's
// Ref/Var/Hole operands encode.
type NodeID uint32

// Repository owns the monotonically increasing id counter shared by every
// node in a single AST. Allocation is not reentrant: callers building an
// AST from a single goroutine (the parser, or a test) are expected to call
// Next in program order.
type Repository struct {
	next NodeID

	// tupleCtors memoizes the synthetic tuple-constructor entity allocated
	// per arity (see Open Question #1: tuples canonicalize as Apply over a
	// synthetic Ref keyed by arity). Allocated lazily so a program that
	// never uses, say, 5-tuples never pays for that id.
	tupleCtors map[int]*Data
}

// NewRepository creates an empty id allocator.
func NewRepository() *Repository {
	return &Repository{tupleCtors: make(map[int]*Data)}
}

// Next allocates and returns a fresh, never-before-issued id.
func (r *Repository) Next() NodeID {
	r.next++
	return r.next
}

// TupleConstructor returns the synthetic zero-parameter-name Data entity
// standing in for "the tuple type constructor of this arity", allocating it
// on first use. Every tuple of the same arity shares the same constructor
// id, which is what makes their canonical codes byte-identical.
func (r *Repository) TupleConstructor(arity int) *Data {
	if d, ok := r.tupleCtors[arity]; ok {
		return d
	}
	d := &Data{base: base{id: r.Next()}, Name: syntheticTupleName(arity)}
	r.tupleCtors[arity] = d
	return d
}

func syntheticTupleName(arity int) string {
	if arity == 0 {
		return "#Unit"
	}
	return "#Tuple" + strconv.Itoa(arity)
}
