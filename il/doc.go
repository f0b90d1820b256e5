// Package il models editable method bodies of a stack-machine bytecode.
//
// A MethodBody owns an ordered slice of *Instruction, its Local slots and
// its ExceptionRegion table. Instructions are identified by pointer; their
// position is derived by scanning the slice and their byte Offset is only
// meaningful after ComputeOffsets.
//
// Operands form a closed set: the Operand interface has an unexported
// method, and every implementation lives in this package. Branch targets
// are *Instruction (or Targets for switch) outside an edit session and
// *Label (or Labels) inside one.
//
// Metadata references form a graph rooted at a Module:
//
//	corlib := il.NewModule("corlib")
//	list := corlib.DefineType("System.Collections.Generic", "List`1")
//	t := list.AddGenericParam("T")
//	inst := &il.GenericInstanceType{Elem: list, Args: []il.Type{t}}
//
// Generic parameters are identified by owner kind and position; names are
// only used for display.
//
// Encode and Decode convert between a body and its offset-based Image.
// FixShortLongOps chooses branch widths from final offsets.
package il
