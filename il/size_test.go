package il_test

import (
	"testing"

	"github.com/wippyai/ilkit/il"
)

func nops(b *il.MethodBody, n int) {
	for i := 0; i < n; i++ {
		b.Append(il.Nop, nil)
	}
}

func TestFixShortLongOps(t *testing.T) {
	tests := []struct {
		name    string
		initial il.OpCode
		gap     int
		want    il.OpCode
		retAt   int
	}{
		{"near long becomes short", il.Br, 2, il.BrS, 4},
		{"far stays long", il.Br, 200, il.Br, 205},
		{"far short is widened", il.BrS, 200, il.Br, 205},
		{"boundary fits short", il.Brtrue, 127, il.BrtrueS, 129},
		{"one past boundary", il.Brtrue, 128, il.Brtrue, 133},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := il.NewBody(nil)
			ret := il.NewInstruction(il.Ret, nil)
			br := b.Append(tt.initial, ret)
			nops(b, tt.gap)
			b.Instrs = append(b.Instrs, ret)

			il.FixShortLongOps(b)

			if br.OpCode != tt.want {
				t.Errorf("opcode = %s, want %s", br.OpCode, tt.want)
			}
			if ret.Offset != tt.retAt {
				t.Errorf("ret offset = %d, want %d", ret.Offset, tt.retAt)
			}
		})
	}
}

func TestFixShortLongOpsBackward(t *testing.T) {
	b := il.NewBody(nil)
	head := b.Append(il.Nop, nil)
	nops(b, 100)
	back := b.Append(il.Br, head)
	b.Append(il.Ret, nil)

	il.FixShortLongOps(b)

	if back.OpCode != il.BrS {
		t.Errorf("backward branch = %s, want br.s", back.OpCode)
	}
	if back.Offset != 101 {
		t.Errorf("branch offset = %d, want 101", back.Offset)
	}
}

func TestFixShortLongOpsCascade(t *testing.T) {
	// The outer branch only fits once the inner one has been narrowed.
	b := il.NewBody(nil)
	ret := il.NewInstruction(il.Ret, nil)
	mid := il.NewInstruction(il.Nop, nil)
	outer := b.Append(il.Br, ret)
	inner := b.Append(il.Br, mid)
	b.Instrs = append(b.Instrs, mid)
	nops(b, 124)
	b.Instrs = append(b.Instrs, ret)

	il.FixShortLongOps(b)

	if inner.OpCode != il.BrS {
		t.Errorf("inner = %s, want br.s", inner.OpCode)
	}
	if outer.OpCode != il.BrS {
		t.Errorf("outer = %s, want br.s", outer.OpCode)
	}
	if got := il.ComputeOffsets(b); got != 2+2+1+124+1 {
		t.Errorf("code size = %d", got)
	}
}

func TestComputeOffsets(t *testing.T) {
	b := il.NewBody(nil)
	a := b.Append(il.LdcI4, il.Int32(5))
	c := b.Append(il.Ceq, nil)
	d := b.Append(il.Ret, nil)

	if size := il.ComputeOffsets(b); size != 8 {
		t.Errorf("size = %d, want 8", size)
	}
	if a.Offset != 0 || c.Offset != 5 || d.Offset != 7 {
		t.Errorf("offsets = %d,%d,%d", a.Offset, c.Offset, d.Offset)
	}
	if d.Name() != "IL_0007" {
		t.Errorf("Name = %q", d.Name())
	}
}
