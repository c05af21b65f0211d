// Package typecode implements the canonical byte-string encoding of type
// expressions: an instruction set, an encoder that packs instruction words
// into an opaque string, a decoder that mirrors the grammar back out, and a
// disassembler used by tests and diagnostics. Two AST types that are
// structurally alpha-equivalent under the same scope tree must encode to
// byte-identical Codes; that byte equality is the system's structural
// equality test for normalized types.
package typecode

import "encoding/binary"

// Code is a canonical type encoding: an opaque byte string over a 16-bit
// alphabet, two bytes (big-endian) per instruction word. It is a nominal
// alias, not meant to be treated as human-readable text.
type Code string

// Instr is one instruction word (plus, for operand-carrying ops, the word
// that follows it). It is the unit internal/scope and internal/unify trade
// in before everything collapses to an opaque Code via Encode.
type Instr struct {
	Op         Op
	Operand    uint16
	HasOperand bool
}

// Hole builds a Hole instruction for local hole id (unique only within its
// enclosing Partial).
func Hole(localID uint16) Instr { return Instr{Op: OpHole, Operand: localID, HasOperand: true} }

// Ref builds a Ref instruction for a top-level entity id.
func Ref(id uint16) Instr { return Instr{Op: OpRef, Operand: id, HasOperand: true} }

// Var builds a Var instruction for a De Bruijn index.
func Var(index uint16) Instr { return Instr{Op: OpVar, Operand: index, HasOperand: true} }

// Simple builds a bare, operand-less instruction (Forall, Concrete, Hkt,
// Impl, Fun, Apply).
func Simple(op Op) Instr { return Instr{Op: op} }

func (i Instr) words() []uint16 {
	if i.HasOperand {
		return []uint16{uint16(i.Op), i.Operand}
	}
	return []uint16{uint16(i.Op)}
}

// Encode folds a finite sequence of instruction words into an opaque Code.
// Any instruction whose operand does not fit in 16 bits is a fatal encoder
// error (ErrOverflow) — callers are expected to check ids against MaxOperand
// before constructing the Instr, but Encode re-checks defensively since it
// is the single choke point every compiled type passes through.
func Encode(seq []Instr) (Code, error) {
	units := make([]uint16, 0, len(seq)*2)
	for _, instr := range seq {
		if instr.HasOperand && uint32(instr.Operand) > MaxOperand {
			return "", &Error{Kind: ErrOverflow, Message: "operand exceeds 16 bits"}
		}
		units = append(units, instr.words()...)
	}
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.BigEndian.PutUint16(buf[i*2:], u)
	}
	return Code(buf), nil
}

// MaxOperand is the largest id/index/count an operand-carrying instruction
// can hold: encoding a bigger id raises Overflow.
const MaxOperand = 1<<16 - 1

// units decodes a Code back into its raw 16-bit words, failing with
// UnexpectedEnd on a stream with a dangling half-word.
func units(c Code) ([]uint16, error) {
	b := []byte(c)
	if len(b)%2 != 0 {
		return nil, &Error{Kind: ErrUnexpectedEnd, Message: "code has a trailing half-word"}
	}
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return out, nil
}
