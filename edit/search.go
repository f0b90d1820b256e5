package edit

import (
	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// GotoNext moves the cursor to the next window of consecutive
// instructions matched by preds. A nil predicate matches anything. With
// After the cursor lands behind the window, otherwise in front of it.
func (c *Cursor) GotoNext(mode MoveType, preds ...il.Predicate) error {
	if !c.TryGotoNext(mode, preds...) {
		return errors.SearchNotFound("next", len(preds))
	}
	return nil
}

// TryGotoNext is GotoNext reporting failure as false. The cursor is left
// unchanged when nothing matches.
func (c *Cursor) TryGotoNext(mode MoveType, preds ...il.Predicate) bool {
	instrs := c.ctx.Instrs()
	i := c.Index()
	if c.searchTarget == SearchNext {
		i++
	}
	for ; i+len(preds) <= len(instrs); i++ {
		if window(instrs[i:], preds) {
			c.gotoIndex(landing(i, mode, preds), mode, true)
			return true
		}
	}
	return false
}

// GotoPrev moves the cursor to the closest preceding window matched by
// preds.
func (c *Cursor) GotoPrev(mode MoveType, preds ...il.Predicate) error {
	if !c.TryGotoPrev(mode, preds...) {
		return errors.SearchNotFound("previous", len(preds))
	}
	return nil
}

// TryGotoPrev is GotoPrev reporting failure as false.
func (c *Cursor) TryGotoPrev(mode MoveType, preds ...il.Predicate) bool {
	instrs := c.ctx.Instrs()
	i := c.Index() - 1
	if c.searchTarget == SearchPrev {
		i--
	}
	i = min(i, len(instrs)-len(preds))
	for ; i >= 0; i-- {
		if window(instrs[i:], preds) {
			c.gotoIndex(landing(i, mode, preds), mode, true)
			return true
		}
	}
	return false
}

func window(instrs []*il.Instruction, preds []il.Predicate) bool {
	for j, p := range preds {
		if p != nil && !p(instrs[j]) {
			return false
		}
	}
	return true
}

func landing(i int, mode MoveType, preds []il.Predicate) int {
	if mode == After && len(preds) > 0 {
		return i + len(preds) - 1
	}
	return i
}

// FindNext matches each predicate in turn, each search starting from the
// previous match, so the matches need not be adjacent. It returns one
// cursor per predicate, positioned before its match; c does not move.
func (c *Cursor) FindNext(preds ...il.Predicate) ([]*Cursor, error) {
	cursors, ok := c.TryFindNext(preds...)
	if !ok {
		return nil, errors.SearchNotFound("next", len(preds))
	}
	return cursors, nil
}

// TryFindNext is FindNext reporting failure as false.
func (c *Cursor) TryFindNext(preds ...il.Predicate) ([]*Cursor, bool) {
	cursors := make([]*Cursor, len(preds))
	cur := c
	for i, p := range preds {
		cur = cur.Clone()
		if !cur.TryGotoNext(Before, p) {
			return nil, false
		}
		cursors[i] = cur
	}
	return cursors, true
}

// FindPrev is FindNext searching backwards: the last predicate is matched
// first, closest to the cursor.
func (c *Cursor) FindPrev(preds ...il.Predicate) ([]*Cursor, error) {
	cursors, ok := c.TryFindPrev(preds...)
	if !ok {
		return nil, errors.SearchNotFound("previous", len(preds))
	}
	return cursors, nil
}

// TryFindPrev is FindPrev reporting failure as false.
func (c *Cursor) TryFindPrev(preds ...il.Predicate) ([]*Cursor, bool) {
	cursors := make([]*Cursor, len(preds))
	cur := c
	for i := len(preds) - 1; i >= 0; i-- {
		cur = cur.Clone()
		if !cur.TryGotoPrev(Before, preds[i]) {
			return nil, false
		}
		cursors[i] = cur
	}
	return cursors, true
}
