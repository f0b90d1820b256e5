package emit

import (
	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// Target is the surface a RegionBuilder drives: plain emission, labels and
// a sink for finished regions.
type Target interface {
	Emit(op il.OpCode, operand il.Operand) error
	DefineLabel() *il.Label
	MarkLabel(l *il.Label) error
	AddRegion(r *il.LabeledRegion) error
}

// Generator is the emission contract shared by every backend. Branch
// operands are labels: *il.Label for single targets, il.Labels for switch.
// Labels come from DefineLabel and must be marked exactly once.
type Generator interface {
	Target

	// DeclareLocal adds a local slot. A pinned local gets an
	// *il.PinnedType wrapping t.
	DeclareLocal(t il.Type, pinned bool) *il.Local

	BeginExceptionBlock() (*il.Label, error)
	BeginCatchBlock(t il.Type) error
	BeginExceptFilterBlock() error
	BeginFaultBlock() error
	BeginFinallyBlock() error
	EndExceptionBlock() error
	Depth() int

	// Offset returns the byte offset the next instruction will occupy.
	Offset() int
}

var (
	_ Generator = (*BodyGenerator)(nil)
	_ Generator = (*BinaryGenerator)(nil)
	_ Generator = (*TextGenerator)(nil)
)

// checkOperand admits the operand kinds a generator can emit and verifies
// that operand fits op. Raw instruction targets are rejected: generators
// branch through labels only.
func checkOperand(backend string, op il.OpCode, operand il.Operand) error {
	if !op.Valid() {
		return errors.InvalidInput(errors.PhaseEmit, "invalid opcode %#x", uint16(op))
	}
	switch v := operand.(type) {
	case nil:
	case *il.Label:
		if v == nil {
			return errors.UnemittableOperand(backend, op.Name(), operand)
		}
	case il.Labels:
		for _, l := range v {
			if l == nil {
				return errors.UnemittableOperand(backend, op.Name(), operand)
			}
		}
	case il.Int32, il.Int64, il.Float32, il.Float64, il.String:
	case *il.Local, *il.Param:
	case *il.MethodRef, *il.GenericInstanceMethod, *il.FieldRef, *il.CallSite:
	case il.Type:
	default:
		return errors.UnemittableOperand(backend, op.Name(), operand)
	}
	if !op.Accepts(operand) {
		return errors.UnemittableOperand(backend, op.Name(), operand)
	}
	return nil
}

func pinnedType(t il.Type, pinned bool) il.Type {
	if pinned {
		return &il.PinnedType{Elem: t}
	}
	return t
}

// Replay emits a finished body through g. Branch targets and region
// boundaries become labels, locals are redeclared and operands referring
// to them are remapped.
func Replay(g Generator, b *il.MethodBody) error {
	locals := make(map[*il.Local]*il.Local, len(b.Locals))
	for _, l := range b.Locals {
		if pt, ok := l.Type.(*il.PinnedType); ok {
			locals[l] = g.DeclareLocal(pt.Elem, true)
		} else {
			locals[l] = g.DeclareLocal(l.Type, false)
		}
	}

	labels := make(map[*il.Instruction]*il.Label)
	label := func(in *il.Instruction) *il.Label {
		l, ok := labels[in]
		if !ok {
			l = g.DefineLabel()
			labels[in] = l
		}
		return l
	}
	for _, in := range b.Instrs {
		switch v := in.Operand.(type) {
		case *il.Instruction:
			label(v)
		case il.Targets:
			for _, t := range v {
				label(t)
			}
		}
	}
	regions := make([]*il.LabeledRegion, len(b.Regions))
	for i, r := range b.Regions {
		lr := &il.LabeledRegion{
			Kind:         r.Kind,
			CatchType:    r.CatchType,
			TryStart:     label(r.TryStart),
			TryEnd:       label(r.TryEnd),
			HandlerStart: label(r.HandlerStart),
			HandlerEnd:   label(r.HandlerEnd),
		}
		if r.Kind == il.HandlerFilter {
			lr.FilterStart = label(r.FilterStart)
		}
		regions[i] = lr
	}

	for _, in := range b.Instrs {
		if l, ok := labels[in]; ok {
			if err := g.MarkLabel(l); err != nil {
				return err
			}
		}
		operand := in.Operand
		switch v := in.Operand.(type) {
		case *il.Instruction:
			operand = labels[v]
		case il.Targets:
			ls := make(il.Labels, len(v))
			for i, t := range v {
				ls[i] = labels[t]
			}
			operand = ls
		case *il.Local:
			if l, ok := locals[v]; ok {
				operand = l
			}
		}
		if err := g.Emit(in.OpCode, operand); err != nil {
			return err
		}
	}
	if l, ok := labels[nil]; ok {
		if err := g.MarkLabel(l); err != nil {
			return err
		}
	}

	for _, r := range regions {
		if err := g.AddRegion(r); err != nil {
			return err
		}
	}
	return nil
}
