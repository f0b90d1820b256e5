package relink

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// Config configures a Relinker. The zero value relinks composite
// references and leaves leaves unchanged.
type Config struct {
	// Resolver maps leaf references into the destination graph.
	Resolver Resolver
	// Cache, when set, memoizes results by source reference and context:
	// leaf types, methods, fields and call sites. It may be shared by
	// relinkers running on different goroutines.
	Cache *Cache
	// Logger overrides the package logger.
	Logger *zap.Logger
}

// Relinker rewrites references so they are valid in a destination graph.
// Composite shapes are rebuilt structurally; leaves are handed to the
// configured Resolver. A Relinker holds no mutable state of its own.
type Relinker struct {
	resolver Resolver
	cache    *Cache
	log      *zap.Logger
}

// New creates a Relinker.
func New(cfg Config) *Relinker {
	r := &Relinker{resolver: cfg.Resolver, cache: cfg.Cache, log: cfg.Logger}
	if r.resolver == nil {
		r.resolver = Identity
	}
	if r.log == nil {
		r.log = Logger()
	}
	return r
}

// Ref relinks any relinkable operand. Literals, locals, labels and branch
// targets are returned unchanged.
func (r *Relinker) Ref(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
	return r.walk().ref(ref, ctx)
}

// Type relinks a type reference.
func (r *Relinker) Type(t il.Type, ctx il.GenericProvider) (il.Type, error) {
	return r.walk().typ(t, ctx)
}

// Method relinks a method reference.
func (r *Relinker) Method(m il.Method, ctx il.GenericProvider) (il.Method, error) {
	return r.walk().method(m, ctx)
}

// Field relinks a field reference.
func (r *Relinker) Field(f *il.FieldRef, ctx il.GenericProvider) (*il.FieldRef, error) {
	return r.walk().field(f, ctx)
}

// CallSite relinks a standalone signature.
func (r *Relinker) CallSite(c *il.CallSite, ctx il.GenericProvider) (*il.CallSite, error) {
	return r.walk().callSite(c, ctx)
}

// Param returns a copy of p with its type and attributes relinked.
func (r *Relinker) Param(p *il.Param, ctx il.GenericProvider) (*il.Param, error) {
	return r.walk().param(p, ctx)
}

// Attribute relinks a custom attribute. Argument values and their order
// are preserved.
func (r *Relinker) Attribute(a *il.CustomAttribute, ctx il.GenericProvider) (*il.CustomAttribute, error) {
	return r.walk().attribute(a, ctx)
}

// GenericParam returns a copy of p owned by owner, with attributes and
// constraints relinked through ctx.
func (r *Relinker) GenericParam(p *il.GenericParam, owner, ctx il.GenericProvider) (*il.GenericParam, error) {
	w := r.walk()
	np := w.cloneParam(p, owner)
	if err := w.paramDetails(np, p, ctx); err != nil {
		return nil, err
	}
	return np, nil
}

// walk holds the state of one top-level relink call: the source generic
// parameters whose constraints are being relinked.
type walk struct {
	*Relinker
	inflight map[*il.GenericParam]bool
}

func (r *Relinker) walk() *walk {
	return &walk{Relinker: r, inflight: make(map[*il.GenericParam]bool)}
}

func (w *walk) ref(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
	switch v := ref.(type) {
	case il.Type:
		return w.typ(v, ctx)
	case il.Method:
		return w.method(v, ctx)
	case *il.FieldRef:
		return w.field(v, ctx)
	case *il.CallSite:
		return w.callSite(v, ctx)
	case *il.Param:
		return w.param(v, ctx)
	default:
		return ref, nil
	}
}

// resolve hands a leaf to the resolver, consulting the cache first.
func (w *walk) resolve(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
	if v, ok := w.cached(ref, ctx); ok {
		return v, nil
	}
	v, err := w.call(ref, ctx)
	if err != nil {
		return nil, err
	}
	return w.store(ref, ctx, v), nil
}

// call invokes the resolver without touching the cache. Rebuilt members
// go through here; they are cached under their source reference instead.
func (w *walk) call(ref il.Operand, ctx il.GenericProvider) (il.Operand, error) {
	v, err := w.resolver.Resolve(ref, ctx)
	if err != nil {
		w.log.Debug("relink failed",
			zap.Stringer("ref", stringer{ref}),
			zap.Stringer("context", stringer{ctx}),
			zap.Error(err))
		return nil, notFound(ref, ctx, err)
	}
	if v == nil {
		return nil, notFound(ref, ctx, nil)
	}
	return v, nil
}

func (w *walk) cached(ref il.Operand, ctx il.GenericProvider) (il.Operand, bool) {
	if w.cache == nil {
		return nil, false
	}
	v, ok := w.cache.Lookup(ref, ctx)
	if ok {
		w.log.Debug("relink cache hit", zap.Stringer("ref", stringer{ref}))
	}
	return v, ok
}

// store records v for ref and returns the result every caller shares.
func (w *walk) store(ref il.Operand, ctx il.GenericProvider, v il.Operand) il.Operand {
	if w.cache == nil {
		return v
	}
	v, _ = w.cache.LoadOrStore(ref, ctx, v)
	return v
}

func notFound(ref, ctx any, cause error) error {
	if e, ok := cause.(*errors.Error); ok && e.Kind == errors.KindRelinkTargetNotFound {
		return cause
	}
	return errors.RelinkTargetNotFound(ref, ctx, cause)
}

func mismatch(ref il.Operand, ctx il.GenericProvider, got il.Operand, want string) error {
	return errors.New(errors.PhaseRelink, errors.KindRelinkTargetNotFound).
		Ref(stringer{ref}).
		Context(stringer{ctx}).
		Value(got).
		Detail("resolver returned %T, want %s", got, want).
		Build()
}

// stringer renders references and contexts for logs and errors.
type stringer struct{ v any }

func (s stringer) String() string {
	switch v := s.v.(type) {
	case nil:
		return "<nil>"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
