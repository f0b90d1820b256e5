package emit

import (
	"go.uber.org/zap"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

const defaultMaxStack = 8

// link tracks a label's address and the displacements waiting for it.
type link struct {
	sites   []il.Fixup
	address int
	marked  bool
}

// BinaryGenerator assembles straight into an *il.Image. Branch widths are
// written as emitted; a short branch whose target ends up out of range
// fails when the label is marked.
type BinaryGenerator struct {
	*RegionBuilder
	method  *il.MethodRef
	asm     *il.Assembler
	links   map[*il.Label]*link
	order   []*il.Label
	regions []*il.LabeledRegion
	img     *il.Image
	log     *zap.Logger
}

// NewBinaryGenerator creates a generator for method's code.
func NewBinaryGenerator(method *il.MethodRef) *BinaryGenerator {
	g := &BinaryGenerator{
		method: method,
		asm:    il.NewAssembler(),
		links:  make(map[*il.Label]*link),
		log:    Logger(),
	}
	g.RegionBuilder = NewRegionBuilder(g)
	return g
}

// Emit assembles one instruction.
func (g *BinaryGenerator) Emit(op il.OpCode, operand il.Operand) error {
	if err := checkOperand("binary", op, operand); err != nil {
		return err
	}
	switch v := operand.(type) {
	case *il.Label:
		return g.branch(g.asm.EmitBranch(op), v)
	case il.Labels:
		for i, f := range g.asm.EmitSwitch(len(v)) {
			if err := g.branch(f, v[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return g.asm.Emit(op, operand)
	}
}

func (g *BinaryGenerator) branch(f il.Fixup, l *il.Label) error {
	k := g.link(l)
	if k.marked {
		return g.asm.Resolve(f, k.address)
	}
	k.sites = append(k.sites, f)
	return nil
}

func (g *BinaryGenerator) link(l *il.Label) *link {
	k, ok := g.links[l]
	if !ok {
		k = &link{}
		g.links[l] = k
		g.order = append(g.order, l)
	}
	return k
}

// DefineLabel creates an unmarked label.
func (g *BinaryGenerator) DefineLabel() *il.Label {
	l := il.NewLabel(nil)
	g.link(l)
	return l
}

// MarkLabel binds l to the current offset and patches every branch
// already emitted to it.
func (g *BinaryGenerator) MarkLabel(l *il.Label) error {
	if l == nil {
		return errors.InvalidInput(errors.PhaseEmit, "nil label")
	}
	k := g.link(l)
	if k.marked {
		return errors.InvalidInput(errors.PhaseEmit, "label marked twice")
	}
	k.marked = true
	k.address = g.asm.Offset()
	for _, f := range k.sites {
		if err := g.asm.Resolve(f, k.address); err != nil {
			return err
		}
	}
	k.sites = nil
	return nil
}

// DeclareLocal adds a local slot to the image.
func (g *BinaryGenerator) DeclareLocal(t il.Type, pinned bool) *il.Local {
	t = pinnedType(t, pinned)
	return &il.Local{Index: g.asm.AddLocal(t), Type: t}
}

// AddRegion records r; it becomes a clause when the image is built.
func (g *BinaryGenerator) AddRegion(r *il.LabeledRegion) error {
	g.regions = append(g.regions, r)
	return nil
}

// Offset returns the current code size.
func (g *BinaryGenerator) Offset() int { return g.asm.Offset() }

// Image finishes the code and returns it. Every branched-to label must be
// marked and every exception block ended. Later calls return the same
// image; the generator must not emit afterwards.
func (g *BinaryGenerator) Image() (*il.Image, error) {
	if g.img != nil {
		return g.img, nil
	}
	if n := g.Depth(); n > 0 {
		return nil, errors.InvalidInput(errors.PhaseEmit, "%d exception block(s) still open", n)
	}
	for _, l := range g.order {
		if k := g.links[l]; !k.marked && len(k.sites) > 0 {
			return nil, errors.UnresolvedLabel(errors.PhaseEmit, "binary", "branch label was never marked")
		}
	}

	end := g.asm.Offset()
	addr := func(l *il.Label) (int, error) {
		if l == nil {
			return end, nil
		}
		k, ok := g.links[l]
		if !ok || !k.marked {
			return 0, errors.UnresolvedLabel(errors.PhaseEmit, "binary", "region label was never marked")
		}
		return k.address, nil
	}
	for _, r := range g.regions {
		var c il.Clause
		bounds := []*il.Label{r.TryStart, r.TryEnd, r.HandlerStart, r.HandlerEnd}
		offs := make([]int, len(bounds))
		for i, l := range bounds {
			off, err := addr(l)
			if err != nil {
				return nil, err
			}
			offs[i] = off
		}
		if r.Kind == il.HandlerFilter {
			off, err := addr(r.FilterStart)
			if err != nil {
				return nil, err
			}
			c.FilterOffset = off
		}
		c.Kind = r.Kind
		c.CatchType = r.CatchType
		c.TryOffset, c.TryLength = offs[0], offs[1]-offs[0]
		c.HandlerOffset, c.HandlerLength = offs[2], offs[3]-offs[2]
		g.asm.AddClause(c)
	}

	img := g.asm.Image()
	img.MaxStack = defaultMaxStack
	img.InitLocals = true
	g.img = img
	g.log.Debug("image assembled",
		zap.Int("code", len(img.Code)),
		zap.Int("tokens", len(img.Tokens)),
		zap.Int("clauses", len(img.Clauses)))
	return img, nil
}

// Body decodes the finished image into a body for the generator's method.
func (g *BinaryGenerator) Body() (*il.MethodBody, error) {
	img, err := g.Image()
	if err != nil {
		return nil, err
	}
	return il.Decode(img, g.method)
}
