package emit_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ilkit/edit"
	"github.com/wippyai/ilkit/emit"
	ilerrors "github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// counter emits a loop summing into a local inside try/catch/finally.
func counter(g emit.Generator, lib corlib) error {
	v := g.DeclareLocal(lib.int32, false)
	loop := g.DefineLabel()
	return run(g,
		op(il.LdcI40, nil), op(il.StlocS, v),
		try,
		mark(loop),
		op(il.LdlocS, v), op(il.LdcI41, nil), op(il.Add, nil), op(il.StlocS, v),
		op(il.LdlocS, v), op(il.LdcI4S, il.Int32(10)), op(il.Blt, loop),
		catch(lib.exception), op(il.Pop, nil),
		finally, op(il.Nop, nil),
		end,
		op(il.LdlocS, v), op(il.Ret, nil))
}

func TestBinaryMatchesEncodedBody(t *testing.T) {
	lib := newCorlib()
	b, err := build(t, edit.Config{SkipFixups: true}, func(g emit.Generator) error {
		return counter(g, lib)
	})
	require.NoError(t, err)
	want, err := il.Encode(b)
	require.NoError(t, err)

	g := emit.NewBinaryGenerator(nil)
	require.NoError(t, counter(g, lib))
	got, err := g.Image()
	require.NoError(t, err)

	assert.Equal(t, want.Code, got.Code)
	assert.Equal(t, want.Clauses, got.Clauses)
	assert.Equal(t, want.Locals, got.Locals)
	assert.Equal(t, want.MaxStack, got.MaxStack)
	assert.Equal(t, want.InitLocals, got.InitLocals)
	assert.Equal(t, g.Offset(), len(got.Code))

	again, err := g.Image()
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestBinaryBody(t *testing.T) {
	lib := newCorlib()
	method := &il.MethodRef{Name: "Count", ReturnType: lib.int32}
	g := emit.NewBinaryGenerator(method)
	require.NoError(t, counter(g, lib))
	body, err := g.Body()
	require.NoError(t, err)

	edited, err := build(t, edit.Config{SkipFixups: true}, func(g emit.Generator) error {
		return counter(g, lib)
	})
	require.NoError(t, err)

	assert.Same(t, method, body.Method)
	assert.Equal(t, opcodes(edited), opcodes(body))
	require.Len(t, body.Regions, 2)
	assert.Equal(t, il.HandlerCatch, body.Regions[0].Kind)
	assert.Equal(t, il.HandlerFinally, body.Regions[1].Kind)
	assert.NoError(t, body.Validate())
}

func TestBinaryLabels(t *testing.T) {
	t.Run("unmarked branch", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		require.NoError(t, g.Emit(il.Br, g.DefineLabel()))
		_, err := g.Image()
		assert.True(t, errors.Is(err, ilerrors.ErrUnresolvedLabel))
	})

	t.Run("unused label", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		g.DefineLabel()
		require.NoError(t, g.Emit(il.Ret, nil))
		_, err := g.Image()
		assert.NoError(t, err)
	})

	t.Run("marked twice", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		l := g.DefineLabel()
		require.NoError(t, g.MarkLabel(l))
		err := g.MarkLabel(l)
		var e *ilerrors.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, ilerrors.KindInvalidInput, e.Kind)
	})

	t.Run("open block", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		_, err := g.BeginExceptionBlock()
		require.NoError(t, err)
		_, err = g.Image()
		var e *ilerrors.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, ilerrors.KindInvalidInput, e.Kind)
	})

	t.Run("short branch out of range", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		l := g.DefineLabel()
		require.NoError(t, g.Emit(il.BrS, l))
		for range 200 {
			require.NoError(t, g.Emit(il.Nop, nil))
		}
		err := g.MarkLabel(l)
		var e *ilerrors.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, ilerrors.KindOverflow, e.Kind)
	})

	t.Run("switch", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		a, b := g.DefineLabel(), g.DefineLabel()
		require.NoError(t, run(g,
			op(il.LdcI40, nil),
			op(il.Switch, il.Labels{a, b}),
			mark(a), op(il.Nop, nil),
			mark(b), op(il.Ret, nil)))
		body, err := g.Body()
		require.NoError(t, err)
		targets, ok := body.Instrs[1].Operand.(il.Targets)
		require.True(t, ok)
		assert.Same(t, body.Instrs[2], targets[0])
		assert.Same(t, body.Instrs[3], targets[1])
	})
}

// generators returns one generator per backend, each appending to an empty
// output.
func generators(t *testing.T) map[string]emit.Generator {
	t.Helper()
	ctx, err := edit.New(il.NewBody(nil), edit.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	return map[string]emit.Generator{
		"body":   emit.NewBodyGenerator(edit.NewCursor(ctx)),
		"binary": emit.NewBinaryGenerator(nil),
		"text":   emit.NewTextGenerator(io.Discard, emit.TextConfig{Color: emit.ColorNever}),
	}
}

func TestUnemittableOperand(t *testing.T) {
	raw := il.NewInstruction(il.Nop, nil)
	tests := []struct {
		name    string
		op      il.OpCode
		operand il.Operand
	}{
		{"raw branch target", il.Br, raw},
		{"raw switch targets", il.Switch, il.Targets{raw}},
		{"nil label", il.Br, (*il.Label)(nil)},
		{"wrong literal", il.Ldstr, il.Int32(1)},
		{"operand on bare opcode", il.Nop, il.String("x")},
		{"short slot out of range", il.LdlocS, &il.Local{Index: 300}},
		{"missing operand", il.Call, nil},
	}
	for name, g := range generators(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				err := g.Emit(tt.op, tt.operand)
				assert.True(t, errors.Is(err, ilerrors.ErrUnemittableOperand), "got %v", err)

				var e *ilerrors.Error
				require.True(t, errors.As(err, &e))
				assert.Equal(t, []string{name}, e.Path)
			})
		}
		assert.Equal(t, 0, g.Offset(), "%s: rejected operands emit nothing", name)
	}
}

func TestMarkNilLabel(t *testing.T) {
	for name, g := range generators(t) {
		t.Run(name, func(t *testing.T) {
			err := g.MarkLabel(nil)
			assert.True(t, errors.Is(err, ilerrors.ErrInvalidInput), "got %v", err)

			var e *ilerrors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, ilerrors.PhaseEmit, e.Phase)
		})
	}
	gens := generators(t)
	body := gens["body"].(*emit.BodyGenerator)
	require.Error(t, body.MarkLabel(nil))
	assert.Empty(t, body.Cursor().Context().Labels(), "no label is defined for a rejected mark")
}

func TestGeneratorOffsets(t *testing.T) {
	for name, g := range generators(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.Emit(il.LdcI4S, il.Int32(5)))
			assert.Equal(t, 2, g.Offset())
			require.NoError(t, g.Emit(il.Ldstr, il.String("hi")))
			assert.Equal(t, 7, g.Offset())
		})
	}
}

func TestDeclareLocal(t *testing.T) {
	lib := newCorlib()
	for name, g := range generators(t) {
		t.Run(name, func(t *testing.T) {
			plain := g.DeclareLocal(lib.int32, false)
			pinned := g.DeclareLocal(lib.int32, true)
			assert.Equal(t, 0, plain.Index)
			assert.Equal(t, 1, pinned.Index)
			assert.False(t, plain.Pinned())
			assert.True(t, pinned.Pinned())
			assert.Same(t, lib.int32, pinned.Type.(*il.PinnedType).Elem)
		})
	}
}

func TestTextListing(t *testing.T) {
	lib := newCorlib()
	var buf bytes.Buffer
	g := emit.NewTextGenerator(&buf, emit.TextConfig{Color: emit.ColorNever, Offsets: true})
	v := g.DeclareLocal(lib.int32, false)
	require.NoError(t, run(g,
		try,
		op(il.LdcI41, nil), op(il.StlocS, v),
		catch(lib.exception), op(il.Pop, nil),
		end,
		op(il.Ret, nil)))
	require.NoError(t, g.Err())

	want := strings.Join([]string{
		".local V_0 System.Int32",
		"L0:",
		"  IL_0000: ldc.i4.1",
		"  IL_0001: stloc.s V_0",
		"  IL_0003: leave L1",
		"  L2:",
		"  IL_0008: pop",
		"  IL_0009: leave L1",
		"  L3:",
		"  L1:",
		".try L0 to L2 catch System.Exception handler L2 to L3",
		"IL_000e: ret",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 15, g.Offset())
}

func TestTextColor(t *testing.T) {
	emitSome := func(cfg emit.TextConfig) string {
		var buf bytes.Buffer
		g := emit.NewTextGenerator(&buf, cfg)
		require.NoError(t, g.Emit(il.Ldstr, il.String("hi")))
		return buf.String()
	}

	assert.Equal(t, "ldstr \"hi\"\n", emitSome(emit.TextConfig{Color: emit.ColorNever}))
	assert.Equal(t, "ldstr \"hi\"\n", emitSome(emit.TextConfig{}), "a buffer is not a terminal")
	colored := emitSome(emit.TextConfig{Color: emit.ColorAlways})
	assert.Contains(t, colored, "\x1b[")
	assert.Contains(t, colored, "ldstr")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestTextWriteError(t *testing.T) {
	g := emit.NewTextGenerator(failingWriter{}, emit.TextConfig{Color: emit.ColorNever})
	assert.ErrorIs(t, g.Emit(il.Nop, nil), io.ErrClosedPipe)
	assert.ErrorIs(t, g.Emit(il.Ret, nil), io.ErrClosedPipe)
	assert.ErrorIs(t, g.Err(), io.ErrClosedPipe)
}

// protectedBody builds a finished body with a local, a branch and a
// finally region.
func protectedBody(lib corlib) *il.MethodBody {
	b := il.NewBody(nil)
	v := b.AddLocal(lib.int32)
	b.Append(il.LdcI40, nil)
	b.Append(il.StlocS, v)
	start := b.Append(il.Nop, nil)
	leave := b.Append(il.LeaveS, nil)
	fin := b.Append(il.Nop, nil)
	b.Append(il.Endfinally, nil)
	after := b.Append(il.LdlocS, v)
	b.Append(il.Ret, nil)
	leave.Operand = after
	b.Regions = []*il.ExceptionRegion{{
		Kind:         il.HandlerFinally,
		TryStart:     start,
		TryEnd:       fin,
		HandlerStart: fin,
		HandlerEnd:   after,
	}}
	return b
}

func TestReplay(t *testing.T) {
	lib := newCorlib()
	src := protectedBody(lib)
	require.NoError(t, src.Validate())
	want, err := il.Encode(src)
	require.NoError(t, err)

	t.Run("binary", func(t *testing.T) {
		g := emit.NewBinaryGenerator(nil)
		require.NoError(t, emit.Replay(g, src))
		got, err := g.Image()
		require.NoError(t, err)
		assert.Equal(t, want.Code, got.Code)
		assert.Equal(t, want.Clauses, got.Clauses)
		assert.Equal(t, want.Locals, got.Locals)
	})

	t.Run("body", func(t *testing.T) {
		dst, err := build(t, edit.Config{SkipFixups: true}, func(g emit.Generator) error {
			return emit.Replay(g, src)
		})
		require.NoError(t, err)
		assert.Equal(t, opcodes(src), opcodes(dst))
		require.Len(t, dst.Locals, 1)
		assert.Same(t, dst.Locals[0], dst.Instrs[1].Operand, "local operands are remapped")
		assert.Same(t, dst.Instrs[6], dst.Instrs[3].Operand)
		require.Len(t, dst.Regions, 1)
		assert.Same(t, dst.Instrs[2], dst.Regions[0].TryStart)
		assert.Same(t, dst.Instrs[6], dst.Regions[0].HandlerEnd)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		g := emit.NewTextGenerator(&buf, emit.TextConfig{Color: emit.ColorNever})
		require.NoError(t, emit.Replay(g, src))
		out := buf.String()
		assert.Contains(t, out, "leave.s L0")
		assert.Contains(t, out, ".try L1 to L2 finally handler L2 to L0")
	})
}
