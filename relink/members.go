package relink

import (
	"github.com/wippyai/ilkit/il"
)

// method relinks m, memoized by the source reference and ctx.
func (w *walk) method(m il.Method, ctx il.GenericProvider) (il.Method, error) {
	if m == nil {
		return nil, nil
	}
	if v, ok := w.cached(m, ctx); ok {
		if rm, ok := v.(il.Method); ok {
			return rm, nil
		}
	}
	rm, err := w.rebuildMethod(m, ctx)
	if err != nil {
		return nil, err
	}
	return w.store(m, ctx, rm).(il.Method), nil
}

func (w *walk) rebuildMethod(m il.Method, ctx il.GenericProvider) (il.Method, error) {
	switch v := m.(type) {
	case *il.GenericInstanceMethod:
		elem, err := w.methodDef(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		args, err := w.types(v.Args, ctx)
		if err != nil {
			return nil, err
		}
		return w.resolveMethod(&il.GenericInstanceMethod{Elem: elem.Definition(), Args: args}, ctx)
	case *il.MethodRef:
		return w.methodDef(v, ctx)
	default:
		return w.resolveMethod(m, ctx)
	}
}

// methodDef rebuilds a method signature against its relinked declaring
// type. The signature's own generic parameters are cloned onto the new
// method first so that parameter and return types resolve against it.
func (w *walk) methodDef(m *il.MethodRef, ctx il.GenericProvider) (il.Method, error) {
	decl, err := w.typ(m.DeclaringType, ctx)
	if err != nil {
		return nil, err
	}

	nm := &il.MethodRef{
		DeclaringType: decl,
		Name:          m.Name,
		CallConv:      m.CallConv,
		HasThis:       m.HasThis,
		ExplicitThis:  m.ExplicitThis,
	}
	for _, gp := range m.GenericParams {
		nm.GenericParams = append(nm.GenericParams, w.cloneParam(gp, nm))
	}
	for i, gp := range m.GenericParams {
		if err := w.paramDetails(nm.GenericParams[i], gp, nm); err != nil {
			return nil, err
		}
	}

	if nm.ReturnType, err = w.typ(m.ReturnType, nm); err != nil {
		return nil, err
	}
	if nm.Params, err = w.params(m.Params, nm); err != nil {
		return nil, err
	}
	return w.resolveMethod(nm, ctx)
}

func (w *walk) resolveMethod(m il.Method, ctx il.GenericProvider) (il.Method, error) {
	v, err := w.call(m, ctx)
	if err != nil {
		return nil, err
	}
	rm, ok := v.(il.Method)
	if !ok {
		return nil, mismatch(m, ctx, v, "a method")
	}
	return rm, nil
}

func (w *walk) field(f *il.FieldRef, ctx il.GenericProvider) (*il.FieldRef, error) {
	if f == nil {
		return nil, nil
	}
	if v, ok := w.cached(f, ctx); ok {
		if rf, ok := v.(*il.FieldRef); ok {
			return rf, nil
		}
	}
	decl, err := w.typ(f.DeclaringType, ctx)
	if err != nil {
		return nil, err
	}
	// The field type is written in terms of the declaring type's
	// parameters, so !0 inside it binds through the new declaring type.
	var fctx il.GenericProvider = ctx
	if decl != nil {
		fctx = decl
	}
	ft, err := w.typ(f.FieldType, fctx)
	if err != nil {
		return nil, err
	}

	nf := &il.FieldRef{DeclaringType: decl, FieldType: ft, Name: f.Name}
	v, err := w.call(nf, ctx)
	if err != nil {
		return nil, err
	}
	rf, ok := v.(*il.FieldRef)
	if !ok {
		return nil, mismatch(nf, ctx, v, "a field")
	}
	return w.store(f, ctx, rf).(*il.FieldRef), nil
}

func (w *walk) callSite(c *il.CallSite, ctx il.GenericProvider) (*il.CallSite, error) {
	if c == nil {
		return nil, nil
	}
	if v, ok := w.cached(c, ctx); ok {
		if rc, ok := v.(*il.CallSite); ok {
			return rc, nil
		}
	}
	ret, err := w.typ(c.ReturnType, ctx)
	if err != nil {
		return nil, err
	}
	params, err := w.params(c.Params, ctx)
	if err != nil {
		return nil, err
	}

	nc := &il.CallSite{
		ReturnType:   ret,
		Params:       params,
		CallConv:     c.CallConv,
		HasThis:      c.HasThis,
		ExplicitThis: c.ExplicitThis,
	}
	v, err := w.call(nc, ctx)
	if err != nil {
		return nil, err
	}
	rc, ok := v.(*il.CallSite)
	if !ok {
		return nil, mismatch(nc, ctx, v, "a call site")
	}
	return w.store(c, ctx, rc).(*il.CallSite), nil
}

func (w *walk) param(p *il.Param, ctx il.GenericProvider) (*il.Param, error) {
	if p == nil {
		return nil, nil
	}
	t, err := w.typ(p.Type, ctx)
	if err != nil {
		return nil, err
	}
	np := &il.Param{
		Type:     t,
		Constant: p.Constant,
		Name:     p.Name,
		Index:    p.Index,
		Attrs:    p.Attrs,
	}
	for _, a := range p.Attributes {
		ra, err := w.attribute(a, ctx)
		if err != nil {
			return nil, err
		}
		np.Attributes = append(np.Attributes, ra)
	}
	return np, nil
}

func (w *walk) params(ps []*il.Param, ctx il.GenericProvider) ([]*il.Param, error) {
	if ps == nil {
		return nil, nil
	}
	out := make([]*il.Param, len(ps))
	for i, p := range ps {
		np, err := w.param(p, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = np
	}
	return out, nil
}

func (w *walk) attribute(a *il.CustomAttribute, ctx il.GenericProvider) (*il.CustomAttribute, error) {
	if a == nil {
		return nil, nil
	}
	ctor, err := w.method(a.Ctor, ctx)
	if err != nil {
		return nil, err
	}
	na := &il.CustomAttribute{Ctor: ctor}
	if na.Args, err = w.attrArgs(a.Args, ctx); err != nil {
		return nil, err
	}
	if na.Fields, err = w.namedArgs(a.Fields, ctx); err != nil {
		return nil, err
	}
	if na.Properties, err = w.namedArgs(a.Properties, ctx); err != nil {
		return nil, err
	}
	return na, nil
}

func (w *walk) attrArgs(args []il.AttrArg, ctx il.GenericProvider) ([]il.AttrArg, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]il.AttrArg, len(args))
	for i, arg := range args {
		t, err := w.typ(arg.Type, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = il.AttrArg{Type: t, Value: arg.Value}
	}
	return out, nil
}

func (w *walk) namedArgs(args []il.NamedArg, ctx il.GenericProvider) ([]il.NamedArg, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]il.NamedArg, len(args))
	for i, arg := range args {
		t, err := w.typ(arg.Arg.Type, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = il.NamedArg{Name: arg.Name, Arg: il.AttrArg{Type: t, Value: arg.Arg.Value}}
	}
	return out, nil
}
