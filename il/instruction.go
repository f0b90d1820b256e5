package il

import "fmt"

// Instruction is one element of a method body. Instructions are identified
// by pointer; Offset is only meaningful after ComputeOffsets.
type Instruction struct {
	Operand Operand
	Offset  int
	OpCode  OpCode
}

func (*Instruction) operand() {}

// NewInstruction creates a detached instruction.
func NewInstruction(op OpCode, operand Operand) *Instruction {
	return &Instruction{OpCode: op, Operand: operand}
}

// Name returns the offset label of the instruction, e.g. IL_001a.
func (i *Instruction) Name() string {
	if i == nil {
		return "<end>"
	}
	return fmt.Sprintf("IL_%04x", i.Offset)
}

// Size returns the encoded size of the instruction in bytes.
func (i *Instruction) Size() int {
	n := i.OpCode.Size()
	switch i.OpCode.OperandType() {
	case InlineSwitch:
		switch v := i.Operand.(type) {
		case Targets:
			n += 4 + 4*len(v)
		case Labels:
			n += 4 + 4*len(v)
		default:
			n += 4
		}
	default:
		n += i.OpCode.OperandType().Size()
	}
	return n
}

func (i *Instruction) String() string {
	if i.Operand == nil {
		return i.Name() + ": " + i.OpCode.Name()
	}
	return i.Name() + ": " + i.OpCode.Name() + " " + FormatOperand(i.Operand)
}
