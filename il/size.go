package il

import "math"

// ComputeOffsets assigns byte offsets to every instruction and returns the
// total code size.
func ComputeOffsets(b *MethodBody) int {
	off := 0
	for _, in := range b.Instrs {
		in.Offset = off
		off += in.Size()
	}
	return off
}

// FixShortLongOps picks the branch encoding width from final offsets. Every
// branch with a short form is first widened, then narrowed wherever the
// displacement fits in a signed byte. Narrowing only shrinks the code, so
// the pass repeats until no branch changes.
func FixShortLongOps(b *MethodBody) {
	for _, in := range b.Instrs {
		if in.OpCode.IsShortBranch() {
			in.OpCode = in.OpCode.ToLong()
		}
	}

	for {
		ComputeOffsets(b)
		changed := false
		for _, in := range b.Instrs {
			short := in.OpCode.ToShort()
			if short == in.OpCode {
				continue
			}
			dest := branchTarget(in.Operand)
			if dest == nil {
				continue
			}
			// A forward target moves with the narrowed branch, so its
			// displacement from the branch end is unchanged.
			delta := dest.Offset - (in.Offset + in.Size())
			if dest.Offset <= in.Offset {
				delta = dest.Offset - (in.Offset + short.Size() + 1)
			}
			if delta >= math.MinInt8 && delta <= math.MaxInt8 {
				in.OpCode = short
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func branchTarget(operand Operand) *Instruction {
	switch v := operand.(type) {
	case *Instruction:
		return v
	case *Label:
		return v.Target
	}
	return nil
}
