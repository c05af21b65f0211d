package typecode

import (
	"fmt"
	"strings"
)

// Disassemble renders code as a human-readable instruction listing, one
// mnemonic per line, used by tests and by cmd/typeck's disasm subcommand.
// It does not require a successful full Decode: it walks the same grammar
// and, on a malformed stream, stops at the first bad word and returns the
// listing produced up to that point together with the error, instead of
// discarding it the way a decoder would.
func Disassemble(code Code) (string, error) {
	ws, err := units(code)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	d := &disassembler{words: ws, out: &b}
	if err := d.expr(0); err != nil {
		return b.String(), err
	}
	return b.String(), nil
}

type disassembler struct {
	words  []uint16
	offset int
	out    *strings.Builder
}

func (d *disassembler) line(indent int, format string, args ...interface{}) {
	fmt.Fprintf(d.out, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

func (d *disassembler) next() (uint16, error) {
	if d.offset >= len(d.words) {
		return 0, &Error{Kind: ErrUnexpectedEnd, Message: "ran out of instruction words", Offset: d.offset}
	}
	w := d.words[d.offset]
	d.offset++
	return w, nil
}

func (d *disassembler) peek() (uint16, bool) {
	if d.offset >= len(d.words) {
		return 0, false
	}
	return d.words[d.offset], true
}

func (d *disassembler) expr(indent int) error {
	opWord, err := d.next()
	if err != nil {
		return err
	}
	op := Op(opWord)
	switch op {
	case OpForall:
		return d.forall(indent)
	case OpHole, OpRef, OpVar:
		operand, err := d.next()
		if err != nil {
			return err
		}
		d.line(indent, "%s %d", op, operand)
		return nil
	case OpApply, OpFun:
		n := 1
		for {
			w, ok := d.peek()
			if !ok || Op(w) != op {
				break
			}
			d.offset++
			n++
		}
		d.line(indent, "%s x%d", op, n)
		for i := 0; i < n+1; i++ {
			if err := d.expr(indent + 1); err != nil {
				return err
			}
		}
		return nil
	default:
		return &Error{Kind: ErrInvalidOp, Message: "unexpected opcode in expression position", Offset: d.offset - 1}
	}
}

func (d *disassembler) forall(indent int) error {
	countWord, err := d.next()
	if err != nil {
		return err
	}
	n := int(countWord)
	d.line(indent, "forall params=%d", n)
	for i := 0; i < n; i++ {
		if err := d.paramDescriptor(indent + 1); err != nil {
			return err
		}
	}
	return d.expr(indent + 1)
}

func (d *disassembler) paramDescriptor(indent int) error {
	tagWord, err := d.next()
	if err != nil {
		return err
	}
	switch ParamTag(tagWord) {
	case ParamNone:
		d.line(indent, "param concrete")
		return nil
	case ParamHkt:
		d.line(indent, "param hkt")
		return d.kind(indent + 1)
	case ParamConstrained:
		countWord, err := d.next()
		if err != nil {
			return err
		}
		count := int(countWord)
		d.line(indent, "param constrained x%d", count)
		for i := 0; i < count; i++ {
			implOp, err := d.next()
			if err != nil {
				return err
			}
			if Op(implOp) != OpImpl {
				return &Error{Kind: ErrInvalidOp, Message: "expected impl constraint", Offset: d.offset - 1}
			}
			d.line(indent+1, "impl")
			if err := d.expr(indent + 2); err != nil {
				return err
			}
		}
		return nil
	default:
		return &Error{Kind: ErrInvalidOp, Message: "unknown param tag", Offset: d.offset - 1}
	}
}

func (d *disassembler) kind(indent int) error {
	opWord, err := d.next()
	if err != nil {
		return err
	}
	switch Op(opWord) {
	case OpConcrete:
		d.line(indent, "concrete")
		return nil
	case OpHkt:
		d.line(indent, "hkt")
		if err := d.kind(indent + 1); err != nil {
			return err
		}
		return d.kind(indent + 1)
	default:
		return &Error{Kind: ErrInvalidOp, Message: "expected a kind expression", Offset: d.offset - 1}
	}
}

// String implementations make Decoded values directly comparable with
// go-cmp and printable in test failure output without a separate formatter.

func (d DForall) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(forall (%s) %s)", strings.Join(parts, " "), d.Body.String())
}

func (p DParam) String() string {
	switch p.Tag {
	case ParamHkt:
		return fmt.Sprintf("hkt:%s", p.Kind)
	case ParamConstrained:
		parts := make([]string, len(p.Constraints))
		for i, c := range p.Constraints {
			parts[i] = c.Expr.String()
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, "+"))
	default:
		return "*"
	}
}

func (DConcreteKind) String() string { return "*" }
func (k DHktKind) String() string {
	from, to := "?", "?"
	if s, ok := k.From.(fmt.Stringer); ok {
		from = s.String()
	}
	if s, ok := k.To.(fmt.Stringer); ok {
		to = s.String()
	}
	return fmt.Sprintf("(%s -> %s)", from, to)
}

func (h DHole) String() string { return fmt.Sprintf("?h%d", h.ID) }
func (r DRef) String() string  { return fmt.Sprintf("#%d", r.ID) }
func (v DVar) String() string  { return fmt.Sprintf("$%d", v.Index) }

func (a DApply) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("(%s %s)", a.Head.String(), strings.Join(parts, " "))
}

func (f DFun) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Return.String())
}
