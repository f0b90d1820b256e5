package relink

import (
	"fmt"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// ResolveGenericParam binds p to the generic parameter of ctx with the same
// owner kind and position. The owner chain of ctx is walked outward and the
// first provider of p's kind that declares parameters decides the result.
//
// A provider that declares fewer parameters than p.Position, or a chain
// whose providers of that kind declare none, yields a synthesized parameter
// owned by that provider. Open signatures such as !!0 on a method reference
// without its definition rely on this. A chain with no provider of p's kind
// at all is an error.
func ResolveGenericParam(ctx il.GenericProvider, p *il.GenericParam) (*il.GenericParam, error) {
	np, _, err := resolveGenericParam(ctx, p)
	return np, err
}

func resolveGenericParam(ctx il.GenericProvider, p *il.GenericParam) (*il.GenericParam, bool, error) {
	var first il.GenericProvider
	for prov := ctx; prov != nil; prov = prov.Outer() {
		if _, ok := prov.(*il.GenericParam); ok {
			continue
		}
		if prov.ProviderKind() != p.Kind {
			continue
		}
		if first == nil {
			first = prov
		}
		params := prov.GenericParameters()
		if len(params) == 0 {
			continue
		}
		if p.Position < len(params) {
			return params[p.Position], false, nil
		}
		return synthesize(p, prov), true, nil
	}
	if first != nil {
		return synthesize(p, first), true, nil
	}
	return nil, false, errors.RelinkTargetNotFound(p, ctx,
		fmt.Errorf("no %s owner for %s in context", p.Kind, p.Positional()))
}

func synthesize(p *il.GenericParam, owner il.GenericProvider) *il.GenericParam {
	return &il.GenericParam{Name: p.Name, Position: p.Position, Kind: p.Kind, Owner: owner}
}
