package il

import (
	"fmt"
	"math"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il/internal/binary"
)

// Encode assembles b into an Image using the current opcode widths. Run
// FixShortLongOps first when branch widths may be stale.
func Encode(b *MethodBody) (*Image, error) {
	size := ComputeOffsets(b)
	index := b.Index()
	offset := func(in *Instruction) (int, error) {
		if in == nil {
			return size, nil
		}
		if _, ok := index[in]; !ok {
			return 0, errors.UnresolvedLabel(errors.PhaseEncode, in.Name(), "target is not a member of the body")
		}
		return in.Offset, nil
	}

	a := NewAssembler()
	for _, l := range b.Locals {
		a.AddLocal(l.Type)
	}

	for _, in := range b.Instrs {
		switch in.OpCode.OperandType() {
		case ShortInlineBrTarget, InlineBrTarget:
			dest, ok := in.Operand.(*Instruction)
			if !ok || dest == nil {
				return nil, errors.UnresolvedLabel(errors.PhaseEncode, in.Name(),
					fmt.Sprintf("branch operand %T is not an instruction", in.Operand))
			}
			off, err := offset(dest)
			if err != nil {
				return nil, err
			}
			if err := a.Resolve(a.EmitBranch(in.OpCode), off); err != nil {
				return nil, err
			}
		case InlineSwitch:
			targets, ok := in.Operand.(Targets)
			if !ok {
				return nil, errors.UnresolvedLabel(errors.PhaseEncode, in.Name(),
					fmt.Sprintf("switch operand %T is not a target table", in.Operand))
			}
			fs := a.EmitSwitch(len(targets))
			for i, t := range targets {
				if t == nil {
					return nil, errors.UnresolvedLabel(errors.PhaseEncode, in.Name(), "nil switch target")
				}
				off, err := offset(t)
				if err != nil {
					return nil, err
				}
				if err := a.Resolve(fs[i], off); err != nil {
					return nil, err
				}
			}
		default:
			if err := a.Emit(in.OpCode, in.Operand); err != nil {
				return nil, err
			}
		}
	}

	for _, r := range b.Regions {
		c := Clause{Kind: r.Kind, CatchType: r.CatchType}
		var err error
		var tryEnd, handlerEnd int
		if c.TryOffset, err = offset(r.TryStart); err != nil {
			return nil, err
		}
		if tryEnd, err = offset(r.TryEnd); err != nil {
			return nil, err
		}
		if c.HandlerOffset, err = offset(r.HandlerStart); err != nil {
			return nil, err
		}
		if handlerEnd, err = offset(r.HandlerEnd); err != nil {
			return nil, err
		}
		if r.Kind == HandlerFilter {
			if c.FilterOffset, err = offset(r.FilterStart); err != nil {
				return nil, err
			}
		}
		c.TryLength = tryEnd - c.TryOffset
		c.HandlerLength = handlerEnd - c.HandlerOffset
		a.AddClause(c)
	}

	img := a.Image()
	img.MaxStack = b.MaxStack
	img.InitLocals = b.InitLocals
	return img, nil
}

// Decode rebuilds a body for method from img. Argument operands map onto
// method's parameters by slot; slots the method does not declare (such as
// an implicit this) get a synthesized parameter.
func Decode(img *Image, method *MethodRef) (*MethodBody, error) {
	b := &MethodBody{Method: method, MaxStack: img.MaxStack, InitLocals: img.InitLocals}
	for _, t := range img.Locals {
		b.AddLocal(t)
	}

	params := map[int]*Param{}
	if method != nil {
		for _, p := range method.Params {
			params[p.Index] = p
		}
	}
	param := func(index int) *Param {
		p, ok := params[index]
		if !ok {
			p = &Param{Index: index}
			if index == 0 && method != nil && method.HasThis && !method.ExplicitThis {
				p.Name = "this"
				p.Type = method.DeclaringType
			}
			params[index] = p
		}
		return p
	}

	type pending struct {
		in      *Instruction
		targets []int
	}
	var branches []pending
	byOffset := map[int]*Instruction{}
	r := binary.NewReader(img.Code)

	for r.Remaining() > 0 {
		start := r.Position()
		op, err := readOpCode(r)
		if err != nil {
			return nil, err
		}
		in := &Instruction{OpCode: op, Offset: start}
		byOffset[start] = in
		b.Instrs = append(b.Instrs, in)

		switch op.OperandType() {
		case InlineNone:
		case ShortInlineBrTarget:
			v, err := r.ReadByte()
			if err != nil {
				return nil, r.WrapError("branch", err)
			}
			branches = append(branches, pending{in, []int{r.Position() + int(int8(v))}})
		case InlineBrTarget:
			v, err := r.ReadU32()
			if err != nil {
				return nil, r.WrapError("branch", err)
			}
			branches = append(branches, pending{in, []int{r.Position() + int(int32(v))}})
		case InlineSwitch:
			n, err := r.ReadU32()
			if err != nil {
				return nil, r.WrapError("switch", err)
			}
			if int(n) > r.Remaining()/4 {
				return nil, errors.OutOfBounds(errors.PhaseDecode, []string{in.Name()}, int(n), r.Remaining()/4)
			}
			deltas := make([]int32, n)
			for i := range deltas {
				v, err := r.ReadU32()
				if err != nil {
					return nil, r.WrapError("switch", err)
				}
				deltas[i] = int32(v)
			}
			end := r.Position()
			targets := make([]int, n)
			for i, d := range deltas {
				targets[i] = end + int(d)
			}
			branches = append(branches, pending{in, targets})
		case ShortInlineI:
			v, err := r.ReadByte()
			if err != nil {
				return nil, r.WrapError("operand", err)
			}
			if op == LdcI4S {
				in.Operand = Int32(int8(v))
			} else {
				in.Operand = Int32(v)
			}
		case InlineI:
			v, err := r.ReadU32()
			if err != nil {
				return nil, r.WrapError("operand", err)
			}
			in.Operand = Int32(int32(v))
		case InlineI8:
			v, err := r.ReadU64()
			if err != nil {
				return nil, r.WrapError("operand", err)
			}
			in.Operand = Int64(int64(v))
		case ShortInlineR:
			v, err := r.ReadU32()
			if err != nil {
				return nil, r.WrapError("operand", err)
			}
			in.Operand = Float32(math.Float32frombits(v))
		case InlineR:
			v, err := r.ReadU64()
			if err != nil {
				return nil, r.WrapError("operand", err)
			}
			in.Operand = Float64(math.Float64frombits(v))
		case ShortInlineVar, InlineVar, ShortInlineArg, InlineArg:
			idx, err := readSlot(r, op)
			if err != nil {
				return nil, err
			}
			switch op.OperandType() {
			case ShortInlineArg, InlineArg:
				in.Operand = param(idx)
			default:
				if idx >= len(b.Locals) {
					return nil, errors.OutOfBounds(errors.PhaseDecode, []string{in.Name(), "local"}, idx, len(b.Locals))
				}
				in.Operand = b.Locals[idx]
			}
		default:
			tok, err := r.ReadU32()
			if err != nil {
				return nil, r.WrapError("token", err)
			}
			v, err := img.Token(tok)
			if err != nil {
				return nil, err
			}
			if !op.Accepts(v) {
				return nil, errors.InvalidData(errors.PhaseDecode, []string{in.Name()},
					fmt.Sprintf("token %#08x (%T) does not fit %s", tok, v, op))
			}
			in.Operand = v
		}
	}

	end := r.Position()
	at := func(off int, site string) (*Instruction, error) {
		if off == end {
			return nil, nil
		}
		in, ok := byOffset[off]
		if !ok {
			return nil, errors.InvalidData(errors.PhaseDecode, []string{site},
				fmt.Sprintf("offset %#x is not an instruction boundary", off))
		}
		return in, nil
	}

	for _, p := range branches {
		ts := make(Targets, len(p.targets))
		for i, off := range p.targets {
			t, err := at(off, p.in.Name())
			if err != nil {
				return nil, err
			}
			if t == nil {
				return nil, errors.InvalidData(errors.PhaseDecode, []string{p.in.Name()}, "branch past end of code")
			}
			ts[i] = t
		}
		if p.in.OpCode == Switch {
			p.in.Operand = ts
		} else {
			p.in.Operand = ts[0]
		}
	}

	for i, c := range img.Clauses {
		site := fmt.Sprintf("clause[%d]", i)
		reg := &ExceptionRegion{Kind: c.Kind, CatchType: c.CatchType}
		var err error
		if reg.TryStart, err = at(c.TryOffset, site); err != nil {
			return nil, err
		}
		if reg.TryEnd, err = at(c.TryOffset+c.TryLength, site); err != nil {
			return nil, err
		}
		if reg.HandlerStart, err = at(c.HandlerOffset, site); err != nil {
			return nil, err
		}
		if reg.HandlerEnd, err = at(c.HandlerOffset+c.HandlerLength, site); err != nil {
			return nil, err
		}
		if c.Kind == HandlerFilter {
			if reg.FilterStart, err = at(c.FilterOffset, site); err != nil {
				return nil, err
			}
		}
		b.Regions = append(b.Regions, reg)
	}
	return b, nil
}

func readOpCode(r *binary.Reader) (OpCode, error) {
	start := r.Position()
	first, err := r.ReadByte()
	if err != nil {
		return 0, r.WrapError("opcode", err)
	}
	op := OpCode(first)
	if first == OpCodePrefix {
		second, err := r.ReadByte()
		if err != nil {
			return 0, r.WrapError("opcode", err)
		}
		op = OpCode(OpCodePrefix)<<8 | OpCode(second)
	}
	if !op.Valid() {
		return 0, errors.InvalidData(errors.PhaseDecode, []string{fmt.Sprintf("IL_%04x", start)},
			fmt.Sprintf("unknown opcode %#x", uint16(op)))
	}
	return op, nil
}

func readSlot(r *binary.Reader, op OpCode) (int, error) {
	switch op.OperandType() {
	case ShortInlineVar, ShortInlineArg:
		v, err := r.ReadByte()
		if err != nil {
			return 0, r.WrapError("slot", err)
		}
		return int(v), nil
	default:
		v, err := r.ReadU16()
		if err != nil {
			return 0, r.WrapError("slot", err)
		}
		return int(v), nil
	}
}
