package il

import (
	"fmt"

	"github.com/wippyai/ilkit/errors"
)

// HandlerKind is the kind of an exception handler.
type HandlerKind byte

const (
	HandlerCatch HandlerKind = iota
	HandlerFinally
	HandlerFault
	HandlerFilter
)

func (k HandlerKind) String() string {
	switch k {
	case HandlerCatch:
		return "catch"
	case HandlerFinally:
		return "finally"
	case HandlerFault:
		return "fault"
	case HandlerFilter:
		return "filter"
	default:
		return fmt.Sprintf("handler(%d)", byte(k))
	}
}

// ExceptionRegion is a protected range paired with one handler. Ends are
// exclusive; a nil boundary denotes the end of the body.
type ExceptionRegion struct {
	TryStart     *Instruction
	TryEnd       *Instruction
	HandlerStart *Instruction
	HandlerEnd   *Instruction
	FilterStart  *Instruction
	CatchType    Type
	Kind         HandlerKind
}

// Boundaries calls fn with a pointer to every boundary field, so callers
// can retarget them in place.
func (r *ExceptionRegion) Boundaries(fn func(field **Instruction)) {
	fn(&r.TryStart)
	fn(&r.TryEnd)
	fn(&r.HandlerStart)
	fn(&r.HandlerEnd)
	if r.Kind == HandlerFilter {
		fn(&r.FilterStart)
	}
}

// Check verifies that the boundaries belong to body and are ordered
// TryStart <= TryEnd <= HandlerStart <= HandlerEnd, with
// FilterStart <= HandlerStart for filters.
func (r *ExceptionRegion) Check(body *MethodBody, index map[*Instruction]int) error {
	pos := func(name string, in *Instruction) (int, error) {
		if in == nil {
			return len(body.Instrs), nil
		}
		i, ok := index[in]
		if !ok {
			return 0, errors.New(errors.PhaseEdit, errors.KindInvalidData).
				Path("region", name).
				Ref(in).
				Detail("boundary is not a member of the body").
				Build()
		}
		return i, nil
	}

	names := [...]string{"try_start", "try_end", "handler_start", "handler_end"}
	bounds := [...]*Instruction{r.TryStart, r.TryEnd, r.HandlerStart, r.HandlerEnd}
	prev := 0
	for k, b := range bounds {
		p, err := pos(names[k], b)
		if err != nil {
			return err
		}
		if p < prev {
			return errors.InvalidData(errors.PhaseEdit, []string{"region", names[k]},
				fmt.Sprintf("%s boundary at %d precedes %d", r.Kind, p, prev))
		}
		prev = p
	}

	if r.Kind == HandlerFilter {
		f, err := pos("filter_start", r.FilterStart)
		if err != nil {
			return err
		}
		h, _ := pos("handler_start", r.HandlerStart)
		if f > h {
			return errors.InvalidData(errors.PhaseEdit, []string{"region", "filter_start"},
				fmt.Sprintf("filter start at %d follows handler start at %d", f, h))
		}
	}
	return nil
}

func (r *ExceptionRegion) String() string {
	s := fmt.Sprintf(".try %s to %s %s", r.TryStart.Name(), r.TryEnd.Name(), r.Kind)
	switch {
	case r.Kind == HandlerCatch && r.CatchType != nil:
		s += " " + r.CatchType.FullName()
	case r.Kind == HandlerFilter:
		s += " " + r.FilterStart.Name()
	}
	return s + fmt.Sprintf(" handler %s to %s", r.HandlerStart.Name(), r.HandlerEnd.Name())
}
