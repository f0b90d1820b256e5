package il

import (
	"strings"

	"github.com/wippyai/ilkit/errors"
)

// MethodBody is the editable body of a method: an ordered instruction
// sequence, local slots and exception regions.
type MethodBody struct {
	Method     *MethodRef
	Instrs     []*Instruction
	Locals     []*Local
	Regions    []*ExceptionRegion
	MaxStack   int
	InitLocals bool
}

// NewBody creates an empty body for method and attaches it.
func NewBody(method *MethodRef) *MethodBody {
	b := &MethodBody{Method: method, MaxStack: 8, InitLocals: true}
	if method != nil {
		method.Body = b
	}
	return b
}

// Append adds an instruction at the end of the body and returns it.
func (b *MethodBody) Append(op OpCode, operand Operand) *Instruction {
	in := NewInstruction(op, operand)
	b.Instrs = append(b.Instrs, in)
	return in
}

// AddLocal declares a local of type t.
func (b *MethodBody) AddLocal(t Type) *Local {
	l := &Local{Index: len(b.Locals), Type: t}
	b.Locals = append(b.Locals, l)
	return l
}

// IndexOf returns the position of in, or -1 when in is not a member. A nil
// instruction denotes the end of the body.
func (b *MethodBody) IndexOf(in *Instruction) int {
	if in == nil {
		return len(b.Instrs)
	}
	for i, x := range b.Instrs {
		if x == in {
			return i
		}
	}
	return -1
}

// Insert places instrs at index.
func (b *MethodBody) Insert(index int, instrs ...*Instruction) {
	b.Instrs = append(b.Instrs[:index], append(append([]*Instruction(nil), instrs...), b.Instrs[index:]...)...)
}

// RemoveRange removes n instructions starting at index.
func (b *MethodBody) RemoveRange(index, n int) {
	b.Instrs = append(b.Instrs[:index], b.Instrs[index+n:]...)
}

// Index maps every member instruction to its position.
func (b *MethodBody) Index() map[*Instruction]int {
	m := make(map[*Instruction]int, len(b.Instrs))
	for i, in := range b.Instrs {
		m[in] = i
	}
	return m
}

// Validate checks the body invariants: branch operands point at member
// instructions and every region is well ordered.
func (b *MethodBody) Validate() error {
	index := b.Index()
	for _, in := range b.Instrs {
		switch v := in.Operand.(type) {
		case *Instruction:
			if _, ok := index[v]; !ok {
				return errors.UnresolvedLabel(errors.PhaseEdit, in.Name(), "branch target is not a member of the body")
			}
		case Targets:
			for _, t := range v {
				if _, ok := index[t]; !ok {
					return errors.UnresolvedLabel(errors.PhaseEdit, in.Name(), "switch target is not a member of the body")
				}
			}
		case *Label, Labels:
			return errors.UnresolvedLabel(errors.PhaseEdit, in.Name(), "label operand outside an edit session")
		}
		if !in.OpCode.Accepts(in.Operand) {
			return errors.New(errors.PhaseEdit, errors.KindInvalidData).
				Path(in.Name()).
				Value(in.Operand).
				Detail("%s does not accept operand %T", in.OpCode, in.Operand).
				Build()
		}
	}
	for _, r := range b.Regions {
		if err := r.Check(b, index); err != nil {
			return err
		}
	}
	return nil
}

// String returns a listing of the body with current offsets.
func (b *MethodBody) String() string {
	ComputeOffsets(b)
	var sb strings.Builder
	if b.Method != nil {
		sb.WriteString(".method ")
		sb.WriteString(b.Method.FullName())
		sb.WriteByte('\n')
	}
	for _, l := range b.Locals {
		sb.WriteString(".local ")
		sb.WriteString(l.String())
		sb.WriteByte(' ')
		sb.WriteString(typeName(l.Type))
		sb.WriteByte('\n')
	}
	for _, in := range b.Instrs {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	for _, r := range b.Regions {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
