package il

// Predicate tests a single instruction. Cursor searches take a sequence of
// predicates.
type Predicate func(*Instruction) bool

// OpIs matches any of ops.
func OpIs(ops ...OpCode) Predicate {
	return func(in *Instruction) bool {
		for _, op := range ops {
			if in.OpCode == op {
				return true
			}
		}
		return false
	}
}

// IsLdcI4 matches a push of the 32-bit constant v in any encoding.
func IsLdcI4(v int32) Predicate {
	return func(in *Instruction) bool {
		got, ok := in.MatchLdcI4()
		return ok && got == v
	}
}

// IsLdarg matches a load of argument slot index.
func IsLdarg(index int) Predicate {
	return func(in *Instruction) bool {
		got, ok := in.MatchLdarg()
		return ok && got == index
	}
}

// IsLdloc matches a load of local slot index.
func IsLdloc(index int) Predicate {
	return func(in *Instruction) bool {
		got, ok := in.MatchLdloc()
		return ok && got == index
	}
}

// IsStloc matches a store to local slot index.
func IsStloc(index int) Predicate {
	return func(in *Instruction) bool {
		got, ok := in.MatchStloc()
		return ok && got == index
	}
}

// IsCallTo matches call or callvirt of a method whose definition is named
// name and, when declType is not empty, declared on declType.
func IsCallTo(declType, name string) Predicate {
	return func(in *Instruction) bool {
		m, ok := in.MatchCall()
		if !ok {
			return false
		}
		def := m.Definition()
		if def.Name != name {
			return false
		}
		return declType == "" || (def.DeclaringType != nil && def.DeclaringType.FullName() == declType)
	}
}

// IsLdstr matches a load of the string literal s.
func IsLdstr(s string) Predicate {
	return func(in *Instruction) bool {
		v, ok := in.Operand.(String)
		return ok && in.OpCode == Ldstr && string(v) == s
	}
}

// IsBranch matches any single-target branch.
func IsBranch() Predicate {
	return func(in *Instruction) bool {
		_, ok := in.MatchBranch()
		return ok
	}
}

// MatchLdcI4 reports the constant pushed by any ldc.i4 form.
func (i *Instruction) MatchLdcI4() (int32, bool) {
	switch i.OpCode {
	case LdcI4M1:
		return -1, true
	case LdcI40, LdcI41, LdcI42, LdcI43, LdcI44, LdcI45, LdcI46, LdcI47, LdcI48:
		return int32(i.OpCode - LdcI40), true
	case LdcI4S, LdcI4:
		v, ok := i.Operand.(Int32)
		return int32(v), ok
	}
	return 0, false
}

// MatchLdarg reports the argument slot loaded by any ldarg form.
func (i *Instruction) MatchLdarg() (int, bool) {
	switch i.OpCode {
	case Ldarg0, Ldarg1, Ldarg2, Ldarg3:
		return int(i.OpCode - Ldarg0), true
	case LdargS, Ldarg:
		p, ok := i.Operand.(*Param)
		if !ok {
			return 0, false
		}
		return p.Index, true
	}
	return 0, false
}

// MatchLdloc reports the local slot loaded by any ldloc form.
func (i *Instruction) MatchLdloc() (int, bool) {
	switch i.OpCode {
	case Ldloc0, Ldloc1, Ldloc2, Ldloc3:
		return int(i.OpCode - Ldloc0), true
	case LdlocS, Ldloc:
		return localIndex(i.Operand)
	}
	return 0, false
}

// MatchStloc reports the local slot stored by any stloc form.
func (i *Instruction) MatchStloc() (int, bool) {
	switch i.OpCode {
	case Stloc0, Stloc1, Stloc2, Stloc3:
		return int(i.OpCode - Stloc0), true
	case StlocS, Stloc:
		return localIndex(i.Operand)
	}
	return 0, false
}

// MatchCall reports the method called by call or callvirt.
func (i *Instruction) MatchCall() (Method, bool) {
	if i.OpCode != Call && i.OpCode != Callvirt {
		return nil, false
	}
	m, ok := i.Operand.(Method)
	return m, ok
}

// MatchBranch reports the target of a single-target branch. Inside an edit
// session the target is read through the label.
func (i *Instruction) MatchBranch() (*Instruction, bool) {
	if !i.OpCode.IsBranch() {
		return nil, false
	}
	switch v := i.Operand.(type) {
	case *Instruction:
		return v, true
	case *Label:
		return v.Target, true
	}
	return nil, false
}

func localIndex(operand Operand) (int, bool) {
	l, ok := operand.(*Local)
	if !ok {
		return 0, false
	}
	return l.Index, true
}
