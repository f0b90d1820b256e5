package il

import (
	"fmt"
	"math"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il/internal/binary"
)

// Token table tags, stored in the high byte of a token.
const (
	TokenType   = 0x01
	TokenField  = 0x04
	TokenMethod = 0x0A
	TokenSig    = 0x11
	TokenString = 0x70
)

// Image is the offset-based form of a method body: encoded code bytes, a
// token table for metadata and string operands, local types and exception
// clauses.
type Image struct {
	Code       []byte
	Tokens     []Operand
	Locals     []Type
	Clauses    []Clause
	MaxStack   int
	InitLocals bool
}

// Clause is an exception clause with byte offsets.
type Clause struct {
	CatchType     Type
	TryOffset     int
	TryLength     int
	HandlerOffset int
	HandlerLength int
	FilterOffset  int
	Kind          HandlerKind
}

// Token returns the table entry for tok.
func (img *Image) Token(tok uint32) (Operand, error) {
	idx := int(tok&0x00FFFFFF) - 1
	if idx < 0 || idx >= len(img.Tokens) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"token"}, idx, len(img.Tokens))
	}
	v := img.Tokens[idx]
	if tokenTag(v) != byte(tok>>24) {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"token"},
			fmt.Sprintf("token %#08x tag does not match %T", tok, v))
	}
	return v, nil
}

func tokenTag(v Operand) byte {
	switch v.(type) {
	case String:
		return TokenString
	case Method:
		return TokenMethod
	case *FieldRef:
		return TokenField
	case *CallSite:
		return TokenSig
	case Type:
		return TokenType
	}
	return 0
}

// Fixup is a pending branch displacement in an Assembler's output.
type Fixup struct {
	Pos   int
	End   int
	Short bool
}

// Assembler writes instructions straight into an Image. Branch
// displacements are written as placeholders and resolved once the target
// offset is known.
type Assembler struct {
	w      *binary.Writer
	tokens map[Operand]uint32
	img    Image
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{w: binary.NewWriter(), tokens: make(map[Operand]uint32)}
}

// Offset returns the offset of the next instruction.
func (a *Assembler) Offset() int { return a.w.Len() }

// AddLocal records a local type and returns its slot.
func (a *Assembler) AddLocal(t Type) int {
	a.img.Locals = append(a.img.Locals, t)
	return len(a.img.Locals) - 1
}

// AddClause records an exception clause.
func (a *Assembler) AddClause(c Clause) {
	a.img.Clauses = append(a.img.Clauses, c)
}

// Emit writes op and its non-branch operand.
func (a *Assembler) Emit(op OpCode, operand Operand) error {
	if !op.Valid() {
		return errors.InvalidInput(errors.PhaseEncode, "invalid opcode %#x", uint16(op))
	}
	switch op.OperandType() {
	case ShortInlineBrTarget, InlineBrTarget, InlineSwitch:
		return errors.InvalidInput(errors.PhaseEncode, "%s needs a fixup", op)
	}
	if !op.Accepts(operand) {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(op.Name()).
			Value(operand).
			Detail("operand %T does not fit %s", operand, op.OperandType()).
			Build()
	}
	a.op(op)

	switch v := operand.(type) {
	case nil:
	case Int32:
		if op.OperandType() == ShortInlineI {
			a.w.Byte(byte(v))
		} else {
			a.w.WriteU32(uint32(v))
		}
	case Int64:
		a.w.WriteU64(uint64(v))
	case Float32:
		a.w.WriteU32(math.Float32bits(float32(v)))
	case Float64:
		a.w.WriteU64(math.Float64bits(float64(v)))
	case *Local:
		a.slot(op, v.Index)
	case *Param:
		a.slot(op, v.Index)
	default:
		a.w.WriteU32(a.token(v))
	}
	return nil
}

// EmitBranch writes a branch opcode with a placeholder displacement.
func (a *Assembler) EmitBranch(op OpCode) Fixup {
	a.op(op)
	f := Fixup{Pos: a.w.Len(), Short: op.IsShortBranch()}
	if f.Short {
		a.w.Byte(0)
	} else {
		a.w.WriteU32(0)
	}
	f.End = a.w.Len()
	return f
}

// EmitSwitch writes a switch with n placeholder displacements.
func (a *Assembler) EmitSwitch(n int) []Fixup {
	a.op(Switch)
	a.w.WriteU32(uint32(n))
	end := a.w.Len() + 4*n
	fs := make([]Fixup, n)
	for i := range fs {
		fs[i] = Fixup{Pos: a.w.Len(), End: end}
		a.w.WriteU32(0)
	}
	return fs
}

// Resolve patches f to jump to target.
func (a *Assembler) Resolve(f Fixup, target int) error {
	delta := target - f.End
	if f.Short {
		if delta < math.MinInt8 || delta > math.MaxInt8 {
			return errors.Overflow(errors.PhaseEncode, []string{fmt.Sprintf("IL_%04x", f.Pos)}, delta, "int8")
		}
		a.w.PatchU8(f.Pos, byte(int8(delta)))
		return nil
	}
	a.w.PatchU32(f.Pos, uint32(int32(delta)))
	return nil
}

// Image returns the assembled image. The assembler must not be used
// afterwards.
func (a *Assembler) Image() *Image {
	img := a.img
	img.Code = a.w.Bytes()
	return &img
}

func (a *Assembler) op(op OpCode) {
	if op.Size() == 2 {
		a.w.Byte(OpCodePrefix)
	}
	a.w.Byte(byte(op))
}

func (a *Assembler) slot(op OpCode, index int) {
	switch op.OperandType() {
	case ShortInlineVar, ShortInlineArg:
		a.w.Byte(byte(index))
	default:
		a.w.WriteU16(uint16(index))
	}
}

func (a *Assembler) token(v Operand) uint32 {
	if tok, ok := a.tokens[v]; ok {
		return tok
	}
	a.img.Tokens = append(a.img.Tokens, v)
	tok := uint32(tokenTag(v))<<24 | uint32(len(a.img.Tokens))
	a.tokens[v] = tok
	return tok
}
