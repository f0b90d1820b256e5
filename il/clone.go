package il

// CloneBody deep-copies src into a new body attached to method. Branch
// targets, switch tables, locals and region boundaries are remapped to the
// copies. Parameter operands are remapped by index onto method's
// parameters when method declares one at that index. Metadata references
// are shared; relink them separately when method lives in another module.
func CloneBody(src *MethodBody, method *MethodRef) *MethodBody {
	dst := &MethodBody{
		Method:     method,
		MaxStack:   src.MaxStack,
		InitLocals: src.InitLocals,
	}
	if method != nil {
		method.Body = dst
	}

	instrs := make(map[*Instruction]*Instruction, len(src.Instrs))
	for _, in := range src.Instrs {
		c := &Instruction{OpCode: in.OpCode, Operand: in.Operand, Offset: in.Offset}
		instrs[in] = c
		dst.Instrs = append(dst.Instrs, c)
	}

	locals := make(map[*Local]*Local, len(src.Locals))
	for _, l := range src.Locals {
		c := &Local{Index: l.Index, Type: l.Type, Name: l.Name}
		locals[l] = c
		dst.Locals = append(dst.Locals, c)
	}

	params := map[int]*Param{}
	if method != nil {
		for _, p := range method.Params {
			params[p.Index] = p
		}
	}

	for _, c := range dst.Instrs {
		switch v := c.Operand.(type) {
		case *Instruction:
			c.Operand = instrs[v]
		case Targets:
			ts := make(Targets, len(v))
			for i, t := range v {
				ts[i] = instrs[t]
			}
			c.Operand = ts
		case *Local:
			if l, ok := locals[v]; ok {
				c.Operand = l
			}
		case *Param:
			if p, ok := params[v.Index]; ok {
				c.Operand = p
			}
		}
	}

	for _, r := range src.Regions {
		c := *r
		c.Boundaries(func(field **Instruction) {
			if *field != nil {
				*field = instrs[*field]
			}
		})
		dst.Regions = append(dst.Regions, &c)
	}
	return dst
}
