package typecode

import (
	"sort"

	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/kind"
)

// Resolver answers the one question Compile cannot answer from the AST
// alone: what does this Ref occurrence refer to? A scope.Context is the
// canonical Resolver — it knows the De Bruijn depth of the scope the Ref
// occurs in and the depth of the scope that defines it.
type Resolver interface {
	ResolveRef(ref *ast.Ref) (RefResolution, error)
}

// RefResolution is what ResolveRef hands back: either "this names a bound
// parameter, use De Bruijn index Value" or "this names a top-level entity,
// use entity id Value".
type RefResolution struct {
	IsVar bool
	Value uint16
}

// Compile emits the canonical instruction sequence for t, the core
// operation internal/scope.Context.Normalize drives per AST node.
func Compile(t ast.Type, r Resolver) ([]Instr, error) {
	switch n := t.(type) {
	case *ast.Forall:
		return compileForall(n, r)
	case *ast.Ref:
		return compileRef(n, r)
	case *ast.Apply:
		return compileApply(n, r)
	case *ast.Tuple:
		return compileTuple(n, r)
	case *ast.Fun:
		return compileFun(n, r)
	case *ast.Hole:
		// A Hole's canonical operand is its globally unique node id, not
		// LocalIndex: LocalIndex is only unique within one enclosing Partial,
		// so two unrelated holes minted outside a Partial (the common case --
		// every Hole a fresh unification variable creates) would otherwise
		// both encode as Hole(0) and compare canonically equal.
		id := uint32(n.ID())
		if id > MaxOperand {
			return nil, &Error{Kind: ErrOverflow, Message: "hole id exceeds 16 bits"}
		}
		return []Instr{Hole(uint16(id))}, nil
	case *ast.Partial:
		// Partial is a pure scope marker for hole numbering; it is not part
		// of the shipped instruction alphabet, so it compiles transparently
		// to its inner type.
		return Compile(n.Inner, r)
	default:
		return nil, &Error{Kind: ErrInvalidOp, Message: "cannot compile unknown type node"}
	}
}

func compileRef(n *ast.Ref, r Resolver) ([]Instr, error) {
	res, err := r.ResolveRef(n)
	if err != nil {
		return nil, err
	}
	if res.IsVar {
		return []Instr{Var(res.Value)}, nil
	}
	return []Instr{Ref(res.Value)}, nil
}

func compileApply(n *ast.Apply, r Resolver) ([]Instr, error) {
	out := make([]Instr, 0, len(n.Args)+2)
	for range n.Args {
		out = append(out, Simple(OpApply))
	}
	head, err := Compile(n.Head, r)
	if err != nil {
		return nil, err
	}
	out = append(out, head...)
	for _, arg := range n.Args {
		argInstrs, err := Compile(arg, r)
		if err != nil {
			return nil, err
		}
		out = append(out, argInstrs...)
	}
	return out, nil
}

func compileFun(n *ast.Fun, r Resolver) ([]Instr, error) {
	out := make([]Instr, 0, len(n.Params)+2)
	for i := 1; i < len(n.Params)+1; i++ {
		out = append(out, Simple(OpFun))
	}
	for _, p := range n.Params {
		instrs, err := Compile(p, r)
		if err != nil {
			return nil, err
		}
		out = append(out, instrs...)
	}
	retInstrs, err := Compile(n.Return, r)
	if err != nil {
		return nil, err
	}
	return append(out, retInstrs...), nil
}

// compileTuple realizes Open Question #1: tuples are not part of the
// shipped alphabet, so they canonicalize as Apply over a synthetic
// arity-keyed tuple constructor. The constructor id comes from the same
// Repository that allocated every other entity id in this AST, so it is
// stable for the lifetime of the program.
func compileTuple(n *ast.Tuple, r Resolver) ([]Instr, error) {
	tr, ok := r.(TupleResolver)
	if !ok {
		return nil, &Error{Kind: ErrInvalidOp, Message: "resolver cannot provide a tuple constructor id"}
	}
	ctorID, err := tr.TupleConstructorID(len(n.Elements))
	if err != nil {
		return nil, err
	}
	out := make([]Instr, 0, len(n.Elements)+2)
	for range n.Elements {
		out = append(out, Simple(OpApply))
	}
	out = append(out, Ref(ctorID))
	for _, e := range n.Elements {
		instrs, err := Compile(e, r)
		if err != nil {
			return nil, err
		}
		out = append(out, instrs...)
	}
	return out, nil
}

// TupleResolver is implemented by Resolvers that can hand back the
// synthetic tuple-constructor entity id for a given arity (scope.Context
// delegates this to its Repository).
type TupleResolver interface {
	TupleConstructorID(arity int) (uint16, error)
}

// compileForall emits "Forall <count> <param-descriptor>*count <body>".
// Parameters bound in the same quantifier block share a De Bruijn frame, so
// a single Forall instruction carries every Param in n.Params rather than
// nesting one Forall per parameter: the count word lets the decoder know
// how many descriptors to expect without seeing the original AST.
func compileForall(n *ast.Forall, r Resolver) ([]Instr, error) {
	out := []Instr{Simple(OpForall), paramCountInstr(len(n.Params))}
	for _, p := range n.Params {
		instrs, err := compileParamDescriptor(p, r)
		if err != nil {
			return nil, err
		}
		out = append(out, instrs...)
	}
	bodyInstrs, err := Compile(n.Body, r)
	if err != nil {
		return nil, err
	}
	return append(out, bodyInstrs...), nil
}

func paramCountInstr(n int) Instr {
	return Instr{Op: Op(n), HasOperand: false}
}

// compileParamDescriptor emits one "<param?>" entry: nothing but a tag for
// an unconstrained concrete parameter, a kind expression for an HKT
// parameter, or a sorted run of Impl constraints for a constrained
// parameter, with constraints sorted in ascending byte-string order so that
// two orderings of the same constraint set produce identical codes.
func compileParamDescriptor(p *ast.Param, r Resolver) ([]Instr, error) {
	switch {
	case p.DeclaredKind != nil:
		kindInstrs, err := compileKind(p.DeclaredKind)
		if err != nil {
			return nil, err
		}
		return append([]Instr{paramTagInstr(ParamHkt)}, kindInstrs...), nil
	case len(p.Constraints) > 0:
		blocks := make([]Code, len(p.Constraints))
		blockInstrs := make([][]Instr, len(p.Constraints))
		for i, c := range p.Constraints {
			instrs, err := compileConstraint(c, r)
			if err != nil {
				return nil, err
			}
			full := append([]Instr{Simple(OpImpl)}, instrs...)
			code, err := Encode(full)
			if err != nil {
				return nil, err
			}
			blocks[i] = code
			blockInstrs[i] = full
		}
		order := make([]int, len(blocks))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return blocks[order[a]] < blocks[order[b]] })
		out := []Instr{paramTagInstr(ParamConstrained), {Op: Op(len(p.Constraints))}}
		for _, idx := range order {
			out = append(out, blockInstrs[idx]...)
		}
		return out, nil
	default:
		return []Instr{paramTagInstr(ParamNone)}, nil
	}
}

// paramTagInstr packs a ParamTag into the word immediately following a
// Forall's per-parameter slot; it never collides with the instruction
// opcodes above because ParamTag values are only interpreted in that one
// fixed decoder position.
func paramTagInstr(t ParamTag) Instr { return Instr{Op: Op(t)} }

func compileKind(k kind.Kind) ([]Instr, error) {
	switch kk := k.(type) {
	case kind.Star:
		return []Instr{Simple(OpConcrete)}, nil
	case kind.Arrow:
		from, err := compileKind(kk.From)
		if err != nil {
			return nil, err
		}
		to, err := compileKind(kk.To)
		if err != nil {
			return nil, err
		}
		out := []Instr{Simple(OpHkt)}
		out = append(out, from...)
		out = append(out, to...)
		return out, nil
	default:
		return nil, &Error{Kind: ErrInvalidOp, Message: "unknown kind"}
	}
}

// ConstraintCode returns the canonical code of one constraint's full trait
// application (Trait<Args...>) -- the key a trait-impl index looks
// candidate impls up by, so "Convert<U>" and "Convert<Bool>" land in
// distinct slots even though they share a Trait id.
func ConstraintCode(c ast.ConstraintRef, r Resolver) (Code, error) {
	instrs, err := compileConstraint(c, r)
	if err != nil {
		return "", err
	}
	return Encode(instrs)
}

func compileConstraint(c ast.ConstraintRef, r Resolver) ([]Instr, error) {
	head := []Instr{Ref(uint16(c.Trait))}
	if len(c.Args) == 0 {
		return head, nil
	}
	out := make([]Instr, 0, len(c.Args)+1)
	for range c.Args {
		out = append(out, Simple(OpApply))
	}
	out = append(out, head...)
	for _, arg := range c.Args {
		instrs, err := Compile(arg, r)
		if err != nil {
			return nil, err
		}
		out = append(out, instrs...)
	}
	return out, nil
}
