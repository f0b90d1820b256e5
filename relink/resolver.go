package relink

import (
	"fmt"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// Resolver maps a leaf reference into the destination graph. Composite
// types have already been decomposed when Resolve is called; methods,
// fields and call sites arrive rebuilt against relinked components.
// Returning an error (or a nil operand) aborts the relink with
// ErrRelinkTargetNotFound.
type Resolver interface {
	Resolve(ref il.Operand, ctx il.GenericProvider) (il.Operand, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ref il.Operand, ctx il.GenericProvider) (il.Operand, error)

func (f ResolverFunc) Resolve(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
	return f(ref, ctx)
}

// Identity returns every reference unchanged.
var Identity Resolver = ResolverFunc(func(ref il.Operand, _ il.GenericProvider) (il.Operand, error) {
	return ref, nil
})

// ImportResolver resolves type references by importing them into dest.
// Methods, fields and call sites are accepted as rebuilt. A generic
// parameter reaching the resolver had no context to bind against and is
// rejected.
func ImportResolver(dest *il.Module) Resolver {
	return ResolverFunc(func(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
		switch v := ref.(type) {
		case *il.TypeRef:
			return dest.Import(v), nil
		case il.Method, *il.FieldRef, *il.CallSite:
			return ref, nil
		case *il.GenericParam:
			return nil, errors.RelinkTargetNotFound(v, ctx, fmt.Errorf("unbound generic parameter %s", v.Positional()))
		default:
			return nil, errors.RelinkTargetNotFound(ref, ctx, fmt.Errorf("cannot import %T", ref))
		}
	})
}

// Chain tries each resolver in turn and returns the first success. The
// last error is returned when all fail.
func Chain(rs ...Resolver) Resolver {
	return ResolverFunc(func(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
		var last error
		for _, r := range rs {
			v, err := r.Resolve(ref, ctx)
			if err == nil && v != nil {
				return v, nil
			}
			last = err
		}
		if last == nil {
			last = fmt.Errorf("no resolver accepted %T", ref)
		}
		return nil, last
	})
}
