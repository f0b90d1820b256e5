package edit

import (
	"fmt"
	"strings"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// MoveType places a cursor relative to an instruction.
type MoveType int

const (
	// Before positions the cursor in front of the instruction. Labels on
	// the instruction keep pointing at it when code is inserted.
	Before MoveType = iota
	// AfterLabel positions the cursor in front of the instruction and
	// moves its incoming labels onto the first inserted instruction.
	AfterLabel
	// After positions the cursor behind the instruction.
	After
)

func (m MoveType) String() string {
	switch m {
	case Before:
		return "before"
	case AfterLabel:
		return "after-label"
	case After:
		return "after"
	default:
		return fmt.Sprintf("move(%d)", int(m))
	}
}

// SearchTarget records which neighbor of the cursor the last search
// matched, so the next search in that direction skips it.
type SearchTarget int

const (
	SearchNone SearchTarget = iota
	SearchNext
	SearchPrev
)

func (s SearchTarget) String() string {
	switch s {
	case SearchNext:
		return "next"
	case SearchPrev:
		return "prev"
	default:
		return "none"
	}
}

// Cursor is a position between two instructions of a session's body,
// held as the instruction that follows it (nil at the end). All
// insertions and removals go through a cursor.
//
// Cursor methods panic with a read-only *errors.Error once the session is
// closed.
type Cursor struct {
	ctx          *Context
	next         *il.Instruction
	afterLabels  []*il.Label
	intoRegions  bool
	afterEnds    bool
	searchTarget SearchTarget
}

// NewCursor returns a cursor at the start of the body.
func NewCursor(ctx *Context) *Cursor {
	c := &Cursor{ctx: ctx}
	return c.GotoIndex(0, Before)
}

// Clone returns an independent copy of c.
func (c *Cursor) Clone() *Cursor {
	c.ctx.mustOpen()
	cp := *c
	cp.afterLabels = append([]*il.Label(nil), c.afterLabels...)
	return &cp
}

// Context returns the session the cursor belongs to.
func (c *Cursor) Context() *Context { return c.ctx }

// Next returns the instruction after the cursor, nil at the end.
func (c *Cursor) Next() *il.Instruction {
	c.ctx.mustOpen()
	return c.next
}

// Prev returns the instruction before the cursor, nil at the start.
func (c *Cursor) Prev() *il.Instruction {
	i := c.Index()
	if i == 0 {
		return nil
	}
	return c.ctx.body.Instrs[i-1]
}

// Index returns the position of the cursor.
func (c *Cursor) Index() int {
	return c.ctx.IndexOf(c.next)
}

// IncomingLabels returns the labels pointing at Next.
func (c *Cursor) IncomingLabels() []*il.Label {
	return c.ctx.IncomingLabels(c.next)
}

// SearchTarget returns the search anti-repeat marker.
func (c *Cursor) SearchTarget() SearchTarget {
	c.ctx.mustOpen()
	return c.searchTarget
}

// SetSearchTarget sets the anti-repeat marker. A marker naming a missing
// neighbor is cleared.
func (c *Cursor) SetSearchTarget(t SearchTarget) {
	if t == SearchNext && c.Next() == nil || t == SearchPrev && c.Prev() == nil {
		t = SearchNone
	}
	c.searchTarget = t
}

// IsBefore reports whether the cursor is at or before in.
func (c *Cursor) IsBefore(in *il.Instruction) bool {
	return c.Index() <= c.ctx.IndexOf(in)
}

// IsAfter reports whether the cursor is past in.
func (c *Cursor) IsAfter(in *il.Instruction) bool {
	return c.Index() > c.ctx.IndexOf(in)
}

// Goto moves the cursor relative to in. A nil in is the end of the body.
func (c *Cursor) Goto(in *il.Instruction, mode MoveType) *Cursor {
	return c.gotoInstr(in, mode, false)
}

func (c *Cursor) gotoInstr(in *il.Instruction, mode MoveType, setTarget bool) *Cursor {
	c.ctx.mustOpen()
	if mode == After {
		c.next = c.following(in)
	} else {
		c.next = in
	}

	c.searchTarget = SearchNone
	if setTarget {
		c.searchTarget = SearchNext
		if mode == After {
			c.searchTarget = SearchPrev
		}
	}

	if mode == AfterLabel {
		return c.MoveAfterLabels()
	}
	return c.MoveBeforeLabels()
}

// following returns the instruction after in. The end stays the end.
func (c *Cursor) following(in *il.Instruction) *il.Instruction {
	if in == nil {
		return nil
	}
	instrs := c.ctx.body.Instrs
	i := c.ctx.IndexOf(in)
	if i+1 >= len(instrs) {
		return nil
	}
	return instrs[i+1]
}

// GotoIndex moves the cursor relative to the instruction at index.
// Negative indices count from the end; len(Instrs) is the end itself.
func (c *Cursor) GotoIndex(index int, mode MoveType) *Cursor {
	return c.gotoIndex(index, mode, false)
}

func (c *Cursor) gotoIndex(index int, mode MoveType, setTarget bool) *Cursor {
	c.ctx.mustOpen()
	n := len(c.ctx.body.Instrs)
	if index < 0 {
		index += n
	}
	if index < 0 || index > n {
		panic(errors.OutOfBounds(errors.PhaseEdit, []string{"cursor"}, index, n))
	}
	var in *il.Instruction
	if index < n {
		in = c.ctx.body.Instrs[index]
	}
	return c.gotoInstr(in, mode, setTarget)
}

// GotoLabel moves the cursor to the target of l.
func (c *Cursor) GotoLabel(l *il.Label, mode MoveType) *Cursor {
	return c.Goto(l.Target, mode)
}

// MoveAfterLabels makes the next insertion take over the labels pointing
// at Next and every region boundary starting or ending there.
func (c *Cursor) MoveAfterLabels() *Cursor {
	return c.moveAfterLabels(true)
}

// MoveAfterLabelsOutsideRegions is MoveAfterLabels, except that region
// starts stay on Next, so inserted code lands outside try blocks and
// handlers that begin there.
func (c *Cursor) MoveAfterLabelsOutsideRegions() *Cursor {
	return c.moveAfterLabels(false)
}

func (c *Cursor) moveAfterLabels(intoRegions bool) *Cursor {
	c.afterLabels = c.IncomingLabels()
	c.intoRegions = intoRegions
	c.afterEnds = true
	return c
}

// MoveBeforeLabels leaves labels and region boundaries on Next when code
// is inserted.
func (c *Cursor) MoveBeforeLabels() *Cursor {
	c.ctx.mustOpen()
	c.afterLabels = nil
	c.intoRegions = false
	c.afterEnds = false
	return c
}

// Emit inserts an instruction at the cursor and moves past it.
func (c *Cursor) Emit(op il.OpCode, operand il.Operand) *Cursor {
	return c.EmitInstr(il.NewInstruction(op, operand))
}

// EmitInstr inserts in at the cursor and moves past it.
func (c *Cursor) EmitInstr(in *il.Instruction) *Cursor {
	c.ctx.mustOpen()
	for _, l := range c.afterLabels {
		l.Target = in
	}
	if c.intoRegions || c.afterEnds {
		for _, r := range c.ctx.body.Regions {
			if c.intoRegions {
				retarget(&r.TryStart, c.next, in)
				retarget(&r.HandlerStart, c.next, in)
				if r.Kind == il.HandlerFilter {
					retarget(&r.FilterStart, c.next, in)
				}
			}
			if c.afterEnds {
				retarget(&r.TryEnd, c.next, in)
				retarget(&r.HandlerEnd, c.next, in)
			}
		}
	}

	c.ctx.body.Insert(c.Index(), in)
	c.searchTarget = SearchNone
	return c.MoveBeforeLabels()
}

func retarget(field **il.Instruction, from, to *il.Instruction) {
	if *field == from {
		*field = to
	}
}

// MarkLabel points l at Next, creating l when nil, and returns it. The
// label joins the set moved by a following AfterLabel insertion.
func (c *Cursor) MarkLabel(l *il.Label) *il.Label {
	if l == nil {
		l = c.ctx.DefineLabel()
	}
	c.ctx.mustOpen()
	l.Target = c.next
	c.afterLabels = append(c.afterLabels, l)
	return l
}

// MarkNewLabel defines a label and marks it at the cursor.
func (c *Cursor) MarkNewLabel() *il.Label {
	return c.MarkLabel(nil)
}

// MarkLabelAt returns a new label pointing at in.
func (c *Cursor) MarkLabelAt(in *il.Instruction) *il.Label {
	if in == c.Next() {
		return c.MarkNewLabel()
	}
	return c.ctx.DefineLabelAt(in)
}

// DefineLabel defines an unmarked label in the cursor's session.
func (c *Cursor) DefineLabel() *il.Label {
	return c.ctx.DefineLabel()
}

// Remove removes Next.
func (c *Cursor) Remove() *Cursor {
	return c.RemoveRange(1)
}

// RemoveRange removes n instructions starting at Next. Labels and region
// boundaries pointing into the removed range move to the instruction
// after it, or to the end of the body.
func (c *Cursor) RemoveRange(n int) *Cursor {
	c.ctx.mustOpen()
	body := c.ctx.body
	index := c.Index()
	if n < 0 || index+n > len(body.Instrs) {
		panic(errors.OutOfBounds(errors.PhaseEdit, []string{"cursor", "remove"}, index+n, len(body.Instrs)))
	}

	var target *il.Instruction
	if index+n < len(body.Instrs) {
		target = body.Instrs[index+n]
	}
	removed := make(map[*il.Instruction]bool, n)
	for _, in := range body.Instrs[index : index+n] {
		removed[in] = true
	}

	for _, l := range c.ctx.labels {
		if l.Target != nil && removed[l.Target] {
			l.Target = target
		}
	}
	for _, r := range body.Regions {
		r.Boundaries(func(field **il.Instruction) {
			if *field != nil && removed[*field] {
				*field = target
			}
		})
	}

	body.RemoveRange(index, n)
	c.searchTarget = SearchNone
	c.next = target
	return c
}

// String describes the cursor and its neighbors.
func (c *Cursor) String() string {
	c.ctx.mustOpen()
	var b strings.Builder
	name := "<anonymous>"
	if m := c.ctx.body.Method; m != nil {
		name = m.FullName()
	}
	fmt.Fprintf(&b, "// cursor: %s, %d, %s\n", name, c.Index(), c.searchTarget)
	if p := c.Prev(); p != nil {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	if c.next != nil {
		b.WriteString(c.next.String())
		b.WriteByte('\n')
	}
	return b.String()
}
