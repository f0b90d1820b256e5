package il

import "fmt"

// Label is an indirection handle for a branch target. A nil Target is only
// legal while the label is unresolved.
type Label struct {
	Target *Instruction
}

func (*Label) operand() {}

// NewLabel creates a label pointing at target.
func NewLabel(target *Instruction) *Label {
	return &Label{Target: target}
}

func (l *Label) String() string {
	if l == nil {
		return "<end>"
	}
	if l.Target == nil {
		return "<unmarked>"
	}
	return l.Target.Name()
}

// LabeledRegion is an exception region whose boundaries are labels. It is
// resolved to an ExceptionRegion once every label is marked.
type LabeledRegion struct {
	TryStart     *Label
	TryEnd       *Label
	HandlerStart *Label
	HandlerEnd   *Label
	FilterStart  *Label
	CatchType    Type
	Kind         HandlerKind
}

// Resolve converts the label boundaries to instruction boundaries. A label
// with a nil target denotes the end of the body.
func (r *LabeledRegion) Resolve() *ExceptionRegion {
	return &ExceptionRegion{
		Kind:         r.Kind,
		TryStart:     target(r.TryStart),
		TryEnd:       target(r.TryEnd),
		HandlerStart: target(r.HandlerStart),
		HandlerEnd:   target(r.HandlerEnd),
		FilterStart:  target(r.FilterStart),
		CatchType:    r.CatchType,
	}
}

func (r *LabeledRegion) String() string {
	return fmt.Sprintf("%s try %s-%s handler %s-%s", r.Kind, r.TryStart, r.TryEnd, r.HandlerStart, r.HandlerEnd)
}

func target(l *Label) *Instruction {
	if l == nil {
		return nil
	}
	return l.Target
}
