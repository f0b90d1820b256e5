package edit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ilkit/edit"
	ilerrors "github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// session opens a context over b and closes it when the test ends.
func session(t *testing.T, b *il.MethodBody) *edit.Context {
	t.Helper()
	ctx, err := edit.New(b, edit.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func alternating() *il.MethodBody {
	b := il.NewBody(nil)
	b.Append(il.LdcI41, nil)
	b.Append(il.LdcI42, nil)
	b.Append(il.LdcI41, nil)
	b.Append(il.LdcI42, nil)
	return b
}

func TestSearchDoesNotRepeat(t *testing.T) {
	c := edit.NewCursor(session(t, alternating()))
	isA := il.IsLdcI4(1)

	require.True(t, c.TryGotoNext(edit.Before, isA))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, edit.SearchNext, c.SearchTarget())

	require.True(t, c.TryGotoNext(edit.Before, isA))
	assert.Equal(t, 2, c.Index())

	assert.False(t, c.TryGotoNext(edit.Before, isA))
	assert.Equal(t, 2, c.Index(), "failed search leaves the cursor in place")
	assert.Equal(t, edit.SearchNext, c.SearchTarget())
}

func TestGotoNextNotFound(t *testing.T) {
	c := edit.NewCursor(session(t, alternating()))
	err := c.GotoNext(edit.Before, il.OpIs(il.Ret))
	assert.True(t, errors.Is(err, ilerrors.ErrSearchNotFound))
	assert.Equal(t, 0, c.Index())

	err = c.GotoPrev(edit.Before, il.OpIs(il.LdcI41))
	assert.True(t, errors.Is(err, ilerrors.ErrSearchNotFound))
}

func TestGotoNextWindow(t *testing.T) {
	tests := []struct {
		name   string
		mode   edit.MoveType
		preds  []il.Predicate
		index  int
		target edit.SearchTarget
	}{
		{"before", edit.Before, []il.Predicate{il.IsLdcI4(2), il.IsLdcI4(1)}, 1, edit.SearchNext},
		{"after", edit.After, []il.Predicate{il.IsLdcI4(1), il.IsLdcI4(2)}, 2, edit.SearchPrev},
		{"wildcard", edit.Before, []il.Predicate{nil, nil, il.IsLdcI4(2)}, 1, edit.SearchNext},
		{"after at end", edit.After, []il.Predicate{il.IsLdcI4(2), nil, il.IsLdcI4(2)}, 4, edit.SearchPrev},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := edit.NewCursor(session(t, alternating()))
			require.NoError(t, c.GotoNext(tt.mode, tt.preds...))
			assert.Equal(t, tt.index, c.Index())
			if tt.index < 4 {
				assert.Equal(t, tt.target, c.SearchTarget())
			}
		})
	}
}

func TestGotoPrev(t *testing.T) {
	c := edit.NewCursor(session(t, alternating())).GotoIndex(4, edit.Before)
	isA := il.IsLdcI4(1)

	require.True(t, c.TryGotoPrev(edit.Before, isA))
	assert.Equal(t, 2, c.Index())
	require.True(t, c.TryGotoPrev(edit.Before, isA))
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.TryGotoPrev(edit.Before, isA))

	c.GotoIndex(-1, edit.Before)
	require.True(t, c.TryGotoPrev(edit.After, isA))
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, edit.SearchPrev, c.SearchTarget())
	require.True(t, c.TryGotoPrev(edit.After, isA))
	assert.Equal(t, 1, c.Index(), "the match behind the cursor is skipped")
}

func TestFindNextGapped(t *testing.T) {
	preds := []il.Predicate{isPush, isPush, il.OpIs(il.Add)}

	b, _ := arith()
	cursors, err := edit.NewCursor(session(t, b)).FindNext(preds...)
	require.NoError(t, err)
	require.Len(t, cursors, 3)
	assert.Equal(t, 0, cursors[0].Index())
	assert.Equal(t, 1, cursors[1].Index())
	assert.Equal(t, 2, cursors[2].Index())

	short := il.NewBody(nil)
	short.Append(il.LdcI41, nil)
	short.Append(il.Add, nil)
	short.Append(il.Ret, nil)
	origin := edit.NewCursor(session(t, short))
	_, ok := origin.TryFindNext(preds...)
	assert.False(t, ok)
	_, err = origin.FindNext(preds...)
	assert.True(t, errors.Is(err, ilerrors.ErrSearchNotFound))
	assert.Equal(t, 0, origin.Index())
}

func TestFindNextAllowsGaps(t *testing.T) {
	b := il.NewBody(nil)
	b.Append(il.LdcI41, nil)
	b.Append(il.Nop, nil)
	b.Append(il.Dup, nil)
	b.Append(il.Nop, nil)
	b.Append(il.Ret, nil)

	cursors, ok := edit.NewCursor(session(t, b)).TryFindNext(il.OpIs(il.LdcI41), il.OpIs(il.Dup), il.OpIs(il.Ret))
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 4}, []int{cursors[0].Index(), cursors[1].Index(), cursors[2].Index()})
}

func TestFindPrev(t *testing.T) {
	b, _ := arith()
	c := edit.NewCursor(session(t, b)).GotoIndex(-1, edit.Before)
	cursors, err := c.FindPrev(isPush, il.OpIs(il.Add))
	require.NoError(t, err)
	assert.Equal(t, 1, cursors[0].Index())
	assert.Equal(t, 2, cursors[1].Index())
	assert.Equal(t, 3, c.Index())

	_, ok := c.TryFindPrev(il.OpIs(il.Add), isPush)
	assert.False(t, ok)
}

func TestCursorNavigation(t *testing.T) {
	b, ins := arith()
	ctx := session(t, b)
	c := edit.NewCursor(ctx)

	assert.Nil(t, c.Prev())
	assert.Same(t, ins[0], c.Next())

	c.Goto(ins[1], edit.After)
	assert.Equal(t, 2, c.Index())
	assert.Same(t, ins[1], c.Prev())
	assert.True(t, c.IsAfter(ins[1]))
	assert.True(t, c.IsBefore(ins[2]))
	assert.False(t, c.IsBefore(ins[1]))

	c.Goto(ins[3], edit.After)
	assert.Nil(t, c.Next())
	assert.Equal(t, 4, c.Index())
	c.Goto(nil, edit.After)
	assert.Equal(t, 4, c.Index(), "moving after the end stays at the end")

	c.GotoIndex(-2, edit.Before)
	assert.Same(t, ins[2], c.Next())

	clone := c.Clone()
	c.GotoIndex(0, edit.Before)
	assert.Equal(t, 2, clone.Index())

	l := ctx.DefineLabelAt(ins[3])
	c.GotoLabel(l, edit.Before)
	assert.Same(t, ins[3], c.Next())

	assert.Panics(t, func() { c.GotoIndex(5, edit.Before) })
	assert.Panics(t, func() { c.GotoIndex(-5, edit.Before) })
}

func TestSetSearchTargetClearsMissingNeighbor(t *testing.T) {
	b, _ := arith()
	c := edit.NewCursor(session(t, b))
	c.SetSearchTarget(edit.SearchPrev)
	assert.Equal(t, edit.SearchNone, c.SearchTarget())
	c.SetSearchTarget(edit.SearchNext)
	assert.Equal(t, edit.SearchNext, c.SearchTarget())

	c.GotoIndex(4, edit.Before)
	c.SetSearchTarget(edit.SearchNext)
	assert.Equal(t, edit.SearchNone, c.SearchTarget())
}

func TestMarkLabel(t *testing.T) {
	b, ins := arith()
	ctx := session(t, b)
	c := edit.NewCursor(ctx).GotoIndex(2, edit.Before)

	l := c.MarkNewLabel()
	assert.Same(t, ins[2], l.Target)
	other := c.MarkLabelAt(ins[0])
	assert.Same(t, ins[0], other.Target)
	here := c.MarkLabelAt(ins[2])

	// Marked labels move with the next insertion.
	c.Emit(il.Nop, nil)
	inserted := c.Prev()
	assert.Same(t, inserted, l.Target)
	assert.Same(t, inserted, here.Target)
	assert.Same(t, ins[0], other.Target)

	unmarked := ctx.DefineLabel()
	assert.Same(t, unmarked, c.MarkLabel(unmarked))
	assert.Same(t, ins[2], unmarked.Target)
	assert.Contains(t, ctx.Labels(), unmarked)
}

// protected builds nop; [try: nop] [finally: nop endfinally] ret with the
// cursor targets returned by name.
func protected() (*il.MethodBody, map[string]*il.Instruction) {
	b := il.NewBody(nil)
	ins := map[string]*il.Instruction{
		"pre":  b.Append(il.Nop, nil),
		"try":  b.Append(il.Nop, nil),
		"fin":  b.Append(il.Nop, nil),
		"endf": b.Append(il.Endfinally, nil),
		"ret":  b.Append(il.Ret, nil),
	}
	b.Regions = []*il.ExceptionRegion{{
		Kind:         il.HandlerFinally,
		TryStart:     ins["try"],
		TryEnd:       ins["fin"],
		HandlerStart: ins["fin"],
		HandlerEnd:   ins["ret"],
	}}
	return b, ins
}

func TestInsertionRetargetsRegions(t *testing.T) {
	tests := []struct {
		name string
		at   string
		move func(c *edit.Cursor)
		// check receives the region and the first inserted instruction.
		check func(t *testing.T, r *il.ExceptionRegion, ins map[string]*il.Instruction, first *il.Instruction)
	}{
		{"before try start stays outside", "try", func(c *edit.Cursor) { c.MoveBeforeLabels() },
			func(t *testing.T, r *il.ExceptionRegion, ins map[string]*il.Instruction, first *il.Instruction) {
				assert.Same(t, ins["try"], r.TryStart)
			}},
		{"after label joins try", "try", func(c *edit.Cursor) { c.MoveAfterLabels() },
			func(t *testing.T, r *il.ExceptionRegion, ins map[string]*il.Instruction, first *il.Instruction) {
				assert.Same(t, first, r.TryStart)
			}},
		{"handler boundary after labels", "fin", func(c *edit.Cursor) { c.MoveAfterLabels() },
			func(t *testing.T, r *il.ExceptionRegion, ins map[string]*il.Instruction, first *il.Instruction) {
				assert.Same(t, first, r.TryEnd)
				assert.Same(t, first, r.HandlerStart)
			}},
		{"handler boundary outside regions", "fin", func(c *edit.Cursor) { c.MoveAfterLabelsOutsideRegions() },
			func(t *testing.T, r *il.ExceptionRegion, ins map[string]*il.Instruction, first *il.Instruction) {
				assert.Same(t, first, r.TryEnd)
				assert.Same(t, ins["fin"], r.HandlerStart)
			}},
		{"epilogue joins handler", "ret", func(c *edit.Cursor) { c.MoveAfterLabels() },
			func(t *testing.T, r *il.ExceptionRegion, ins map[string]*il.Instruction, first *il.Instruction) {
				assert.Same(t, first, r.HandlerEnd)
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ins := protected()
			ctx := session(t, b)
			c := edit.NewCursor(ctx).Goto(ins[tt.at], edit.Before)
			tt.move(c)
			c.Emit(il.Nop, nil)
			first := c.Prev()
			c.Emit(il.Nop, nil)
			tt.check(t, b.Regions[0], ins, first)
			assert.NoError(t, b.Validate())
		})
	}
}

func TestCursorString(t *testing.T) {
	b, _ := arith()
	c := edit.NewCursor(session(t, b)).GotoIndex(1, edit.Before)
	s := c.String()
	assert.Contains(t, s, "// cursor:")
	assert.Contains(t, s, "ldc.i4.1")
	assert.Contains(t, s, "ldc.i4.2")
}
