package emit

import (
	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// segment is one handler of a chain. A filter segment starts in its
// filter expression and moves to its handler on BeginCatchBlock(nil).
type segment struct {
	region   *il.LabeledRegion
	inFilter bool
}

// chain is one try block and the handlers sharing its protected range.
type chain struct {
	tryStart *il.Label
	tryEnd   *il.Label
	skipAll  *il.Label
	open     *segment
	done     []*il.LabeledRegion
}

// RegionBuilder turns sequential begin/end calls into exception regions.
// Each BeginExceptionBlock pushes a chain, so blocks nest by stack depth.
// Every handler of a chain shares the chain's try range and leaves to the
// chain's skip-all label, which is marked after the last handler.
//
// Finished regions are handed to the target's AddRegion when their block
// ends, inner blocks before outer ones.
type RegionBuilder struct {
	t      Target
	chains []*chain
}

// NewRegionBuilder creates a builder emitting through t.
func NewRegionBuilder(t Target) *RegionBuilder {
	return &RegionBuilder{t: t}
}

// Depth returns the number of open exception blocks.
func (b *RegionBuilder) Depth() int { return len(b.chains) }

// BeginExceptionBlock opens a try block at the current position and
// returns the label marked after the whole construct.
func (b *RegionBuilder) BeginExceptionBlock() (*il.Label, error) {
	ch := &chain{tryStart: b.t.DefineLabel(), skipAll: b.t.DefineLabel()}
	if err := b.t.MarkLabel(ch.tryStart); err != nil {
		return nil, err
	}
	b.chains = append(b.chains, ch)
	return ch.skipAll, nil
}

// BeginCatchBlock opens a catch handler for exceptions of type t. Directly
// after a filter expression, t must be nil: the call ends the expression
// with endfilter and opens the filter's handler.
func (b *RegionBuilder) BeginCatchBlock(t il.Type) error {
	ch, err := b.top("catch block")
	if err != nil {
		return err
	}
	if seg := ch.open; seg != nil && seg.inFilter {
		if t != nil {
			return errors.InvalidInput(errors.PhaseEmit, "filter handler takes no exception type, got %s", t.FullName())
		}
		if err := b.t.Emit(il.Endfilter, nil); err != nil {
			return err
		}
		start := b.t.DefineLabel()
		if err := b.t.MarkLabel(start); err != nil {
			return err
		}
		seg.region.HandlerStart = start
		seg.inFilter = false
		return nil
	}
	if t == nil {
		return errors.InvalidInput(errors.PhaseEmit, "catch block needs an exception type")
	}
	return b.begin(ch, il.HandlerCatch, t)
}

// BeginExceptFilterBlock opens a filter expression.
func (b *RegionBuilder) BeginExceptFilterBlock() error {
	ch, err := b.top("filter block")
	if err != nil {
		return err
	}
	return b.begin(ch, il.HandlerFilter, nil)
}

// BeginFaultBlock opens a fault handler.
func (b *RegionBuilder) BeginFaultBlock() error {
	ch, err := b.top("fault block")
	if err != nil {
		return err
	}
	return b.begin(ch, il.HandlerFault, nil)
}

// BeginFinallyBlock opens a finally handler.
func (b *RegionBuilder) BeginFinallyBlock() error {
	ch, err := b.top("finally block")
	if err != nil {
		return err
	}
	return b.begin(ch, il.HandlerFinally, nil)
}

// EndExceptionBlock closes the open handler, marks the skip-all label and
// hands the block's regions to the target.
func (b *RegionBuilder) EndExceptionBlock() error {
	ch, err := b.top("end of exception block")
	if err != nil {
		return err
	}
	if ch.open == nil {
		return errors.InvalidInput(errors.PhaseEmit, "exception block ended without a handler")
	}
	if err := b.close(ch); err != nil {
		return err
	}
	if err := b.t.MarkLabel(ch.skipAll); err != nil {
		return err
	}
	b.chains = b.chains[:len(b.chains)-1]

	for _, r := range ch.done {
		if err := b.t.AddRegion(r); err != nil {
			return err
		}
	}
	return nil
}

func (b *RegionBuilder) top(what string) (*chain, error) {
	if len(b.chains) == 0 {
		return nil, errors.InvalidInput(errors.PhaseEmit, "%s outside an exception block", what)
	}
	return b.chains[len(b.chains)-1], nil
}

// begin opens a handler segment. The first handler of a chain ends the try
// body with a leave and marks the try end; later ones close their
// predecessor first.
func (b *RegionBuilder) begin(ch *chain, kind il.HandlerKind, catchType il.Type) error {
	var start *il.Label
	if ch.open != nil {
		if err := b.close(ch); err != nil {
			return err
		}
		start = b.t.DefineLabel()
	} else {
		if err := b.t.Emit(il.Leave, ch.skipAll); err != nil {
			return err
		}
		ch.tryEnd = b.t.DefineLabel()
		start = ch.tryEnd
	}
	if err := b.t.MarkLabel(start); err != nil {
		return err
	}

	r := &il.LabeledRegion{
		Kind:      kind,
		TryStart:  ch.tryStart,
		TryEnd:    ch.tryEnd,
		CatchType: catchType,
	}
	seg := &segment{region: r}
	if kind == il.HandlerFilter {
		r.FilterStart = start
		seg.inFilter = true
	} else {
		r.HandlerStart = start
	}
	ch.open = seg
	return nil
}

// close terminates the open segment and marks its handler end.
func (b *RegionBuilder) close(ch *chain) error {
	seg := ch.open
	if seg.inFilter {
		return errors.InvalidInput(errors.PhaseEmit, "filter expression has no handler")
	}
	var err error
	if seg.region.Kind == il.HandlerFinally {
		err = b.t.Emit(il.Endfinally, nil)
	} else {
		err = b.t.Emit(il.Leave, ch.skipAll)
	}
	if err != nil {
		return err
	}
	end := b.t.DefineLabel()
	if err := b.t.MarkLabel(end); err != nil {
		return err
	}
	seg.region.HandlerEnd = end
	ch.done = append(ch.done, seg.region)
	ch.open = nil
	return nil
}
