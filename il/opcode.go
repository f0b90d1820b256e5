package il

import "fmt"

// OpCode is an instruction opcode carrying its encoded value. One-byte
// opcodes occupy 0x00-0xFF; two-byte opcodes are 0xFE00 | second byte.
type OpCode uint16

// OperandType describes the inline operand an opcode takes.
type OperandType byte

const (
	InlineNone OperandType = iota
	ShortInlineBrTarget
	InlineBrTarget
	InlineSwitch
	ShortInlineI
	InlineI
	InlineI8
	ShortInlineR
	InlineR
	InlineString
	ShortInlineVar
	InlineVar
	ShortInlineArg
	InlineArg
	InlineType
	InlineMethod
	InlineField
	InlineSig
	InlineTok
)

var operandTypeNames = [...]string{
	InlineNone:          "none",
	ShortInlineBrTarget: "short-br-target",
	InlineBrTarget:      "br-target",
	InlineSwitch:        "switch",
	ShortInlineI:        "short-i",
	InlineI:             "i",
	InlineI8:            "i8",
	ShortInlineR:        "short-r",
	InlineR:             "r",
	InlineString:        "string",
	ShortInlineVar:      "short-var",
	InlineVar:           "var",
	ShortInlineArg:      "short-arg",
	InlineArg:           "arg",
	InlineType:          "type",
	InlineMethod:        "method",
	InlineField:         "field",
	InlineSig:           "sig",
	InlineTok:           "tok",
}

func (t OperandType) String() string {
	if int(t) < len(operandTypeNames) {
		return operandTypeNames[t]
	}
	return fmt.Sprintf("operand-type(%d)", byte(t))
}

// Size returns the encoded operand size in bytes. Switch operands are
// variable-length; Size returns the length of the count prefix only.
func (t OperandType) Size() int {
	switch t {
	case InlineNone:
		return 0
	case ShortInlineBrTarget, ShortInlineI, ShortInlineVar, ShortInlineArg:
		return 1
	case InlineVar, InlineArg:
		return 2
	case InlineI8, InlineR:
		return 8
	default:
		return 4
	}
}

// FlowControl describes how an opcode affects control flow.
type FlowControl byte

const (
	FlowNext FlowControl = iota
	FlowBranch
	FlowCondBranch
	FlowCall
	FlowReturn
	FlowThrow
	FlowBreak
	FlowMeta
)

type opInfo struct {
	name    string
	operand OperandType
	flow    FlowControl
	valid   bool
}

// opcodes indexed by the low byte; [0] one-byte, [1] 0xFE-prefixed.
var opInfos [2][256]opInfo

func define(op OpCode, name string, operand OperandType, flow FlowControl) {
	opInfos[op.table()][byte(op)] = opInfo{name: name, operand: operand, flow: flow, valid: true}
}

func (op OpCode) table() int {
	if op>>8 == 0xFE {
		return 1
	}
	return 0
}

func (op OpCode) info() *opInfo {
	if op>>8 != 0 && op>>8 != 0xFE {
		return &opInfo{}
	}
	return &opInfos[op.table()][byte(op)]
}

// Valid reports whether op is a known opcode.
func (op OpCode) Valid() bool { return op.info().valid }

// Name returns the mnemonic of op.
func (op OpCode) Name() string {
	if i := op.info(); i.valid {
		return i.name
	}
	return fmt.Sprintf("op(%#x)", uint16(op))
}

func (op OpCode) String() string { return op.Name() }

// OperandType returns the inline operand type of op.
func (op OpCode) OperandType() OperandType { return op.info().operand }

// FlowControl returns the control flow class of op.
func (op OpCode) FlowControl() FlowControl { return op.info().flow }

// Size returns the encoded size of the opcode itself (1 or 2 bytes).
func (op OpCode) Size() int {
	if op.table() == 1 {
		return 2
	}
	return 1
}

// IsBranch reports whether op takes a single branch target.
func (op OpCode) IsBranch() bool {
	t := op.OperandType()
	return t == ShortInlineBrTarget || t == InlineBrTarget
}

// IsShortBranch reports whether op is the one-byte-displacement form.
func (op OpCode) IsShortBranch() bool { return op.OperandType() == ShortInlineBrTarget }

// ToLong returns the long-displacement form of a short branch, or op.
func (op OpCode) ToLong() OpCode {
	if l, ok := shortToLong[op]; ok {
		return l
	}
	return op
}

// ToShort returns the short-displacement form of a long branch, or op.
func (op OpCode) ToShort() OpCode {
	if s, ok := longToShort[op]; ok {
		return s
	}
	return op
}

// LookupOpCode returns the opcode with the given mnemonic.
func LookupOpCode(name string) (OpCode, bool) {
	op, ok := opByName[name]
	return op, ok
}

var (
	shortToLong = map[OpCode]OpCode{}
	longToShort = map[OpCode]OpCode{}
	opByName    = map[string]OpCode{}
)

func pair(short, long OpCode) {
	shortToLong[short] = long
	longToShort[long] = short
}

func init() {
	defineOpCodes()

	for t := range opInfos {
		for b, info := range opInfos[t] {
			if !info.valid {
				continue
			}
			op := OpCode(b)
			if t == 1 {
				op |= 0xFE00
			}
			opByName[info.name] = op
		}
	}

	pair(BrS, Br)
	pair(BrfalseS, Brfalse)
	pair(BrtrueS, Brtrue)
	pair(BeqS, Beq)
	pair(BgeS, Bge)
	pair(BgtS, Bgt)
	pair(BleS, Ble)
	pair(BltS, Blt)
	pair(BneUnS, BneUn)
	pair(BgeUnS, BgeUn)
	pair(BgtUnS, BgtUn)
	pair(BleUnS, BleUn)
	pair(BltUnS, BltUn)
	pair(LeaveS, Leave)
}
