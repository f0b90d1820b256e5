package emit_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ilkit/edit"
	"github.com/wippyai/ilkit/emit"
	ilerrors "github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

type step func(g emit.Generator) error

func run(g emit.Generator, steps ...step) error {
	for _, s := range steps {
		if err := s(g); err != nil {
			return err
		}
	}
	return nil
}

func try(g emit.Generator) error {
	_, err := g.BeginExceptionBlock()
	return err
}

func catch(t il.Type) step {
	return func(g emit.Generator) error { return g.BeginCatchBlock(t) }
}

func finally(g emit.Generator) error { return g.BeginFinallyBlock() }
func fault(g emit.Generator) error   { return g.BeginFaultBlock() }
func filter(g emit.Generator) error  { return g.BeginExceptFilterBlock() }
func end(g emit.Generator) error     { return g.EndExceptionBlock() }

func op(o il.OpCode, operand il.Operand) step {
	return func(g emit.Generator) error { return g.Emit(o, operand) }
}

func mark(l *il.Label) step {
	return func(g emit.Generator) error { return g.MarkLabel(l) }
}

type corlib struct {
	exception, argument, int32 *il.TypeRef
}

func newCorlib() corlib {
	m := il.NewModule("corlib")
	return corlib{
		exception: m.DefineType("System", "Exception"),
		argument:  m.DefineType("System", "ArgumentException"),
		int32:     m.DefineType("System", "Int32"),
	}
}

// build runs fn with a generator appending to a fresh body.
func build(t *testing.T, cfg edit.Config, fn func(g emit.Generator) error) (*il.MethodBody, error) {
	t.Helper()
	b := il.NewBody(nil)
	err := edit.Apply(b, cfg, func(ctx *edit.Context) error {
		return fn(emit.NewBodyGenerator(edit.NewCursor(ctx)))
	})
	return b, err
}

func opcodes(b *il.MethodBody) []il.OpCode {
	ops := make([]il.OpCode, len(b.Instrs))
	for i, in := range b.Instrs {
		ops[i] = in.OpCode
	}
	return ops
}

func TestCatchBlock(t *testing.T) {
	lib := newCorlib()
	b, err := build(t, edit.Config{}, func(g emit.Generator) error {
		return run(g,
			try,
			op(il.LdcI41, nil), op(il.Pop, nil),
			catch(lib.exception),
			op(il.Pop, nil),
			end,
			op(il.Ret, nil))
	})
	require.NoError(t, err)

	assert.Equal(t, []il.OpCode{il.LdcI41, il.Pop, il.LeaveS, il.Pop, il.LeaveS, il.Ret}, opcodes(b))
	assert.Same(t, b.Instrs[5], b.Instrs[2].Operand, "try body leaves past the handler")
	assert.Same(t, b.Instrs[5], b.Instrs[4].Operand)

	require.Len(t, b.Regions, 1)
	r := b.Regions[0]
	assert.Equal(t, il.HandlerCatch, r.Kind)
	assert.Same(t, lib.exception, r.CatchType)
	assert.Same(t, b.Instrs[0], r.TryStart)
	assert.Same(t, b.Instrs[3], r.TryEnd)
	assert.Same(t, b.Instrs[3], r.HandlerStart)
	assert.Same(t, b.Instrs[5], r.HandlerEnd)
}

func TestRegionNesting(t *testing.T) {
	lib := newCorlib()
	tests := []struct {
		name  string
		steps []step
		kinds []il.HandlerKind
	}{
		{
			name:  "finally",
			steps: []step{try, op(il.Nop, nil), finally, op(il.Nop, nil), end},
			kinds: []il.HandlerKind{il.HandlerFinally},
		},
		{
			name:  "fault",
			steps: []step{try, op(il.Nop, nil), fault, op(il.Nop, nil), end},
			kinds: []il.HandlerKind{il.HandlerFault},
		},
		{
			name: "sibling catches",
			steps: []step{try, op(il.Nop, nil),
				catch(lib.argument), op(il.Pop, nil),
				catch(lib.exception), op(il.Pop, nil),
				end},
			kinds: []il.HandlerKind{il.HandlerCatch, il.HandlerCatch},
		},
		{
			name: "filter",
			steps: []step{try, op(il.Nop, nil),
				filter, op(il.Pop, nil), op(il.LdcI41, nil),
				catch(nil), op(il.Pop, nil),
				end},
			kinds: []il.HandlerKind{il.HandlerFilter},
		},
		{
			name: "catch then finally",
			steps: []step{try, op(il.Nop, nil),
				catch(lib.exception), op(il.Pop, nil),
				finally, op(il.Nop, nil),
				end},
			kinds: []il.HandlerKind{il.HandlerCatch, il.HandlerFinally},
		},
		{
			name: "nested",
			steps: []step{try,
				try, op(il.Nop, nil), catch(lib.exception), op(il.Pop, nil), end,
				finally, op(il.Nop, nil),
				end},
			kinds: []il.HandlerKind{il.HandlerCatch, il.HandlerFinally},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := build(t, edit.Config{}, func(g emit.Generator) error {
				if err := run(g, tt.steps...); err != nil {
					return err
				}
				assert.Equal(t, 0, g.Depth())
				return g.Emit(il.Ret, nil)
			})
			require.NoError(t, err)
			require.Len(t, b.Regions, len(tt.kinds))

			index := b.Index()
			pos := func(in *il.Instruction) int {
				if in == nil {
					return len(b.Instrs)
				}
				i, ok := index[in]
				require.True(t, ok, "boundary outside the body")
				return i
			}
			for i, r := range b.Regions {
				assert.Equal(t, tt.kinds[i], r.Kind)
				assert.LessOrEqual(t, pos(r.TryStart), pos(r.TryEnd))
				assert.LessOrEqual(t, pos(r.TryEnd), pos(r.HandlerStart))
				assert.LessOrEqual(t, pos(r.HandlerStart), pos(r.HandlerEnd))
				if r.Kind == il.HandlerFilter {
					assert.Less(t, pos(r.FilterStart), pos(r.HandlerStart))
				}
			}
		})
	}
}

func TestSiblingHandlersShareTry(t *testing.T) {
	lib := newCorlib()
	b, err := build(t, edit.Config{}, func(g emit.Generator) error {
		return run(g, try, op(il.Nop, nil),
			catch(lib.argument), op(il.Pop, nil),
			catch(lib.exception), op(il.Pop, nil),
			end, op(il.Ret, nil))
	})
	require.NoError(t, err)
	require.Len(t, b.Regions, 2)
	first, second := b.Regions[0], b.Regions[1]
	assert.Same(t, first.TryStart, second.TryStart)
	assert.Same(t, first.TryEnd, second.TryEnd)
	assert.Same(t, first.HandlerEnd, second.HandlerStart)
	assert.Same(t, lib.argument, first.CatchType)
	assert.Same(t, lib.exception, second.CatchType)
}

func TestFilterTerminators(t *testing.T) {
	b, err := build(t, edit.Config{}, func(g emit.Generator) error {
		return run(g, try, op(il.Nop, nil),
			filter, op(il.Pop, nil), op(il.LdcI41, nil),
			catch(nil), op(il.Pop, nil),
			end, op(il.Ret, nil))
	})
	require.NoError(t, err)
	assert.Equal(t, []il.OpCode{
		il.Nop, il.LeaveS,
		il.Pop, il.LdcI41, il.Endfilter,
		il.Pop, il.LeaveS,
		il.Ret,
	}, opcodes(b))

	r := b.Regions[0]
	assert.Same(t, b.Instrs[2], r.FilterStart)
	assert.Same(t, b.Instrs[2], r.TryEnd)
	assert.Same(t, b.Instrs[5], r.HandlerStart)
	assert.Same(t, b.Instrs[7], r.HandlerEnd)
}

func TestNestedRegionsOrder(t *testing.T) {
	lib := newCorlib()
	b, err := build(t, edit.Config{}, func(g emit.Generator) error {
		return run(g, try,
			try, op(il.Nop, nil), catch(lib.exception), op(il.Pop, nil), end,
			finally, op(il.Nop, nil), end,
			op(il.Ret, nil))
	})
	require.NoError(t, err)
	require.Len(t, b.Regions, 2)

	inner, outer := b.Regions[0], b.Regions[1]
	index := b.Index()
	assert.Equal(t, index[outer.TryStart], index[inner.TryStart])
	assert.LessOrEqual(t, index[inner.HandlerEnd], index[outer.TryEnd], "inner construct sits inside the outer try")
	assert.Equal(t, il.Endfinally, b.Instrs[index[outer.HandlerEnd]-1].OpCode)
}

func TestRegionMisuse(t *testing.T) {
	lib := newCorlib()
	tests := []struct {
		name  string
		steps []step
	}{
		{"catch outside block", []step{catch(lib.exception)}},
		{"finally outside block", []step{finally}},
		{"end outside block", []step{end}},
		{"end without handler", []step{try, op(il.Nop, nil), end}},
		{"filter without handler", []step{try, op(il.Nop, nil), filter, op(il.LdcI41, nil), end}},
		{"finally after filter expression", []step{try, op(il.Nop, nil), filter, op(il.LdcI41, nil), finally}},
		{"untyped catch", []step{try, op(il.Nop, nil), catch(nil)}},
		{"typed filter handler", []step{try, op(il.Nop, nil), filter, op(il.LdcI41, nil), catch(lib.exception)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := emit.NewTextGenerator(&bytes.Buffer{}, emit.TextConfig{Color: emit.ColorNever})
			err := run(g, tt.steps...)
			require.Error(t, err)

			var e *ilerrors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, ilerrors.KindInvalidInput, e.Kind)
			assert.Equal(t, ilerrors.PhaseEmit, e.Phase)
		})
	}
}

func TestRegionsInsertedMidBody(t *testing.T) {
	lib := newCorlib()
	b := il.NewBody(nil)
	b.Append(il.LdcI41, nil)
	ret := b.Append(il.Ret, nil)
	entry := il.NewLabel(nil)

	err := edit.Apply(b, edit.Config{}, func(ctx *edit.Context) error {
		c := edit.NewCursor(ctx).Goto(ret, edit.Before)
		g := emit.NewBodyGenerator(c)
		return run(g, try, mark(entry), op(il.Pop, nil), op(il.LdcI42, nil),
			catch(lib.exception), op(il.Pop, nil), op(il.LdcI43, nil), end)
	})
	require.NoError(t, err)

	assert.Same(t, ret, b.Instrs[len(b.Instrs)-1])
	require.Len(t, b.Regions, 1)
	r := b.Regions[0]
	assert.Same(t, b.Instrs[1], r.TryStart)
	assert.Same(t, b.Instrs[1], entry.Target)
	assert.Same(t, ret, r.HandlerEnd, "skip label lands on the instruction after the construct")
}
