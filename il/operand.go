package il

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operand is the inline operand of an instruction. The set of
// implementations is closed: see the types declaring an operand method in
// this package. A nil Operand means the instruction takes none.
type Operand interface {
	operand()
}

// Literal operands.
type (
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	String  string
)

// Targets is the operand of a multi-way branch.
type Targets []*Instruction

// Labels is the label form of Targets, used inside an edit session.
type Labels []*Label

func (Int32) operand()   {}
func (Int64) operand()   {}
func (Float32) operand() {}
func (Float64) operand() {}
func (String) operand()  {}
func (Targets) operand() {}
func (Labels) operand()  {}

var (
	_ Operand = (*Instruction)(nil)
	_ Operand = (*Label)(nil)
	_ Operand = Targets(nil)
	_ Operand = Labels(nil)
)

// Method is a method reference operand: *MethodRef or *GenericInstanceMethod.
type Method interface {
	Operand
	GenericProvider
	FullName() string
	Definition() *MethodRef
}

// Accepts reports whether operand has the shape op's OperandType requires.
func (op OpCode) Accepts(operand Operand) bool {
	switch op.OperandType() {
	case InlineNone:
		return operand == nil
	case ShortInlineBrTarget, InlineBrTarget:
		switch operand.(type) {
		case *Instruction, *Label:
			return true
		}
	case InlineSwitch:
		switch operand.(type) {
		case Targets, Labels:
			return true
		}
	case ShortInlineI:
		v, ok := operand.(Int32)
		if !ok {
			return false
		}
		if op == LdcI4S {
			return v >= math.MinInt8 && v <= math.MaxInt8
		}
		return v >= 0 && v <= math.MaxUint8
	case InlineI:
		_, ok := operand.(Int32)
		return ok
	case InlineI8:
		_, ok := operand.(Int64)
		return ok
	case ShortInlineR:
		_, ok := operand.(Float32)
		return ok
	case InlineR:
		_, ok := operand.(Float64)
		return ok
	case InlineString:
		_, ok := operand.(String)
		return ok
	case ShortInlineVar:
		l, ok := operand.(*Local)
		return ok && l.Index <= math.MaxUint8
	case InlineVar:
		_, ok := operand.(*Local)
		return ok
	case ShortInlineArg:
		p, ok := operand.(*Param)
		return ok && p.Index <= math.MaxUint8
	case InlineArg:
		_, ok := operand.(*Param)
		return ok
	case InlineType:
		_, ok := operand.(Type)
		return ok
	case InlineMethod:
		_, ok := operand.(Method)
		return ok
	case InlineField:
		_, ok := operand.(*FieldRef)
		return ok
	case InlineSig:
		_, ok := operand.(*CallSite)
		return ok
	case InlineTok:
		switch operand.(type) {
		case Type, Method, *FieldRef:
			return true
		}
	}
	return false
}

// FormatOperand renders operand the way listings print it.
func FormatOperand(operand Operand) string {
	switch v := operand.(type) {
	case nil:
		return ""
	case *Instruction:
		return v.Name()
	case Targets:
		names := make([]string, len(v))
		for i, t := range v {
			names[i] = t.Name()
		}
		return "(" + strings.Join(names, ", ") + ")"
	case *Label:
		return v.String()
	case Labels:
		names := make([]string, len(v))
		for i, l := range v {
			names[i] = l.String()
		}
		return "(" + strings.Join(names, ", ") + ")"
	case Int32:
		return strconv.FormatInt(int64(v), 10)
	case Int64:
		return strconv.FormatInt(int64(v), 10)
	case Float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case String:
		return strconv.Quote(string(v))
	case *Local:
		return v.String()
	case *Param:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
