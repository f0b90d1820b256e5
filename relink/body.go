package relink

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// Body relinks b in place: every metadata operand, every local type and
// every catch type. Parameter operands are rebound to the parameters of
// the method ctx names, matched by argument slot. Branch operands, locals
// and literals keep their identity.
//
// A failure leaves the instructions before the failing one relinked.
func (r *Relinker) Body(b *il.MethodBody, ctx il.GenericProvider) error {
	w := r.walk()
	params := slotParams(ctx)

	for i, l := range b.Locals {
		t, err := w.typ(l.Type, ctx)
		if err != nil {
			return at(err, fmt.Sprintf("local[%d]", i))
		}
		l.Type = t
	}

	for _, in := range b.Instrs {
		switch v := in.Operand.(type) {
		case nil:
		case *il.Param:
			if np, ok := params[v.Index]; ok {
				in.Operand = np
			}
		default:
			nv, err := w.ref(v, ctx)
			if err != nil {
				return at(err, in.Name())
			}
			in.Operand = nv
		}
	}

	for i, reg := range b.Regions {
		if reg.CatchType == nil {
			continue
		}
		t, err := w.typ(reg.CatchType, ctx)
		if err != nil {
			return at(err, fmt.Sprintf("region[%d]", i))
		}
		reg.CatchType = t
	}

	r.log.Debug("relinked body",
		zap.Int("instructions", len(b.Instrs)),
		zap.Int("locals", len(b.Locals)),
		zap.Int("regions", len(b.Regions)))
	return nil
}

func slotParams(ctx il.GenericProvider) map[int]*il.Param {
	m, ok := ctx.(il.Method)
	if !ok {
		return nil
	}
	def := m.Definition()
	if def == nil {
		return nil
	}
	params := make(map[int]*il.Param, len(def.Params))
	for _, p := range def.Params {
		params[p.Index] = p
	}
	return params
}

// at prefixes the error path with the site that failed.
func at(err error, site string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append([]string{site}, e.Path...)
	}
	return err
}
