package emit

import (
	"go.uber.org/zap"

	"github.com/wippyai/ilkit/edit"
	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// BodyGenerator emits into a method body through an edit cursor. Labels and
// regions belong to the cursor's session and resolve when its manipulator
// returns, so a BodyGenerator is only useful inside Context.Invoke.
type BodyGenerator struct {
	*RegionBuilder
	c   *edit.Cursor
	log *zap.Logger
}

// NewBodyGenerator creates a generator inserting at c.
func NewBodyGenerator(c *edit.Cursor) *BodyGenerator {
	g := &BodyGenerator{c: c, log: Logger()}
	g.RegionBuilder = NewRegionBuilder(g)
	return g
}

// Cursor returns the insertion cursor.
func (g *BodyGenerator) Cursor() *edit.Cursor { return g.c }

// Emit inserts an instruction at the cursor.
func (g *BodyGenerator) Emit(op il.OpCode, operand il.Operand) error {
	if err := checkOperand("body", op, operand); err != nil {
		g.log.Debug("operand rejected", zap.Stringer("op", op), zap.Error(err))
		return err
	}
	g.c.Emit(op, operand)
	return nil
}

// DefineLabel defines a label in the cursor's session.
func (g *BodyGenerator) DefineLabel() *il.Label {
	return g.c.DefineLabel()
}

// MarkLabel points l at the next instruction emitted.
func (g *BodyGenerator) MarkLabel(l *il.Label) error {
	if l == nil {
		return errors.InvalidInput(errors.PhaseEmit, "nil label")
	}
	g.c.MarkLabel(l)
	return nil
}

// DeclareLocal adds a local to the body.
func (g *BodyGenerator) DeclareLocal(t il.Type, pinned bool) *il.Local {
	return g.c.Context().Body().AddLocal(pinnedType(t, pinned))
}

// AddRegion queues r with the session.
func (g *BodyGenerator) AddRegion(r *il.LabeledRegion) error {
	g.c.Context().AddRegion(r)
	g.log.Debug("region queued", zap.Stringer("region", r))
	return nil
}

// Offset returns the byte offset of the cursor.
func (g *BodyGenerator) Offset() int {
	size := il.ComputeOffsets(g.c.Context().Body())
	if next := g.c.Next(); next != nil {
		return next.Offset
	}
	return size
}
