package relink

import (
	"go.uber.org/zap"

	"github.com/wippyai/ilkit/il"
)

func (w *walk) typ(t il.Type, ctx il.GenericProvider) (il.Type, error) {
	switch v := t.(type) {
	case nil:
		return nil, nil
	case *il.ByRefType:
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		return &il.ByRefType{Elem: elem}, nil
	case *il.PointerType:
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		return &il.PointerType{Elem: elem}, nil
	case *il.PinnedType:
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		return &il.PinnedType{Elem: elem}, nil
	case *il.SentinelType:
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		return &il.SentinelType{Elem: elem}, nil
	case *il.ArrayType:
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		return &il.ArrayType{Elem: elem, Rank: v.Rank, Dims: append([]il.ArrayDim(nil), v.Dims...)}, nil
	case *il.ModifierType:
		mod, err := w.typ(v.Modifier, ctx)
		if err != nil {
			return nil, err
		}
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		return &il.ModifierType{Elem: elem, Modifier: mod, Required: v.Required}, nil
	case *il.GenericInstanceType:
		elem, err := w.typ(v.Elem, ctx)
		if err != nil {
			return nil, err
		}
		// Arguments may come from an enclosing provider rather than the
		// element's own declaration, so they resolve through ctx.
		args, err := w.types(v.Args, ctx)
		if err != nil {
			return nil, err
		}
		return &il.GenericInstanceType{Elem: elem, Args: args}, nil
	case *il.FunctionPointerType:
		ret, err := w.typ(v.ReturnType, ctx)
		if err != nil {
			return nil, err
		}
		params, err := w.params(v.Params, ctx)
		if err != nil {
			return nil, err
		}
		return &il.FunctionPointerType{
			ReturnType:   ret,
			Params:       params,
			CallConv:     v.CallConv,
			HasThis:      v.HasThis,
			ExplicitThis: v.ExplicitThis,
		}, nil
	case *il.GenericParam:
		if ctx == nil {
			return w.leafType(v, ctx)
		}
		return w.genericParam(v, ctx)
	default:
		return w.leafType(t, ctx)
	}
}

func (w *walk) types(ts []il.Type, ctx il.GenericProvider) ([]il.Type, error) {
	if ts == nil {
		return nil, nil
	}
	out := make([]il.Type, len(ts))
	for i, t := range ts {
		rt, err := w.typ(t, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = rt
	}
	return out, nil
}

func (w *walk) leafType(t il.Type, ctx il.GenericProvider) (il.Type, error) {
	v, err := w.resolve(t, ctx)
	if err != nil {
		return nil, err
	}
	rt, ok := v.(il.Type)
	if !ok {
		return nil, mismatch(t, ctx, v, "a type")
	}
	return rt, nil
}

// genericParam binds p to the parameter at the same position of the
// nearest provider of its kind in ctx, then relinks p's constraints. A
// parameter reached again through one of its own constraints (T :
// IComparable<T>) is bound without walking its constraints a second time.
//
// Only a synthesized result takes the relinked constraints. A parameter
// owned by a destination provider keeps its own.
func (w *walk) genericParam(p *il.GenericParam, ctx il.GenericProvider) (il.Type, error) {
	np, synthesized, err := resolveGenericParam(ctx, p)
	if err != nil {
		w.log.Debug("generic parameter owner not found",
			zap.Stringer("param", stringer{p}),
			zap.Stringer("context", stringer{ctx}))
		return nil, err
	}
	if w.inflight[p] || len(p.Constraints) == 0 {
		return np, nil
	}
	w.inflight[p] = true
	defer delete(w.inflight, p)

	constraints, err := w.types(p.Constraints, ctx)
	if err != nil {
		return nil, err
	}
	if synthesized {
		np.Constraints = constraints
	}
	return np, nil
}

func (w *walk) cloneParam(p *il.GenericParam, owner il.GenericProvider) *il.GenericParam {
	return &il.GenericParam{
		Name:     p.Name,
		Position: p.Position,
		Kind:     p.Kind,
		Owner:    owner,
	}
}

// paramDetails fills the attributes and constraints of np from src. A
// constraint naming the parameter itself (T : IComparable<T>) binds to np
// through ctx, so ctx must already list np.
func (w *walk) paramDetails(np, src *il.GenericParam, ctx il.GenericProvider) error {
	w.inflight[src] = true
	defer delete(w.inflight, src)

	for _, a := range src.Attributes {
		ra, err := w.attribute(a, ctx)
		if err != nil {
			return err
		}
		np.Attributes = append(np.Attributes, ra)
	}
	for _, c := range src.Constraints {
		rc, err := w.typ(c, ctx)
		if err != nil {
			return err
		}
		np.Constraints = append(np.Constraints, rc)
	}
	return nil
}
