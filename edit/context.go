package edit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// Manipulator edits a body through its session.
type Manipulator func(c *Context) error

// Config configures an edit session.
type Config struct {
	// Logger overrides the package logger.
	Logger *zap.Logger
	// SkipFixups leaves branch widths as emitted instead of recomputing
	// short and long forms when a manipulation finishes.
	SkipFixups bool
}

// Context is an edit session over one method body. While a Manipulator
// runs, branch operands are labels, so instructions can be inserted and
// removed without patching branches. A Context is not safe for concurrent
// use; distinct bodies may be edited by distinct contexts in parallel.
type Context struct {
	body      *il.MethodBody
	log       *zap.Logger
	labels    []*il.Label
	regions   []*il.LabeledRegion
	refs      []any
	onDispose []func()
	skipFix   bool
	closed    bool
}

// New opens an edit session over body.
func New(body *il.MethodBody, cfg Config) (*Context, error) {
	if body == nil {
		return nil, errors.InvalidInput(errors.PhaseEdit, "nil method body")
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	return &Context{body: body, log: log, skipFix: cfg.SkipFixups}, nil
}

// Apply opens a session over body, runs m and closes the session.
func Apply(body *il.MethodBody, cfg Config, m Manipulator) error {
	c, err := New(body, cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Invoke(m)
}

// Invoke runs m with branch operands wrapped in labels. Afterwards the
// labels are unwrapped, regions added through AddRegion are materialized,
// the body is validated and branch widths are fixed up.
//
// An error from m is returned after unwrapping; the body keeps whatever
// edits m made. Closing the context from inside m abandons the session:
// the body is left with label operands and a read-only error is returned
// unless m failed first.
func (c *Context) Invoke(m Manipulator) error {
	if c.closed {
		return errors.ReadOnly("edit context")
	}
	c.wrap()
	c.log.Debug("edit session started",
		zap.Int("instructions", len(c.body.Instrs)),
		zap.Int("labels", len(c.labels)))

	merr := m(c)
	if c.closed {
		c.log.Debug("edit session abandoned")
		if merr != nil {
			return merr
		}
		return errors.ReadOnly("edit context")
	}

	uerr := c.unwrap()
	if merr != nil {
		return merr
	}
	if uerr != nil {
		return uerr
	}
	if err := c.materialize(); err != nil {
		return err
	}
	if err := c.body.Validate(); err != nil {
		return err
	}
	if !c.skipFix {
		il.FixShortLongOps(c.body)
	}

	c.log.Debug("edit session finished",
		zap.Int("instructions", len(c.body.Instrs)),
		zap.Int("labels", len(c.labels)),
		zap.Int("regions", len(c.body.Regions)))
	return nil
}

// wrap replaces branch targets with labels, one label per distinct target.
func (c *Context) wrap() {
	byTarget := make(map[*il.Instruction]*il.Label)
	for _, l := range c.labels {
		if l.Target != nil {
			if _, ok := byTarget[l.Target]; !ok {
				byTarget[l.Target] = l
			}
		}
	}
	label := func(target *il.Instruction) *il.Label {
		if l, ok := byTarget[target]; ok {
			return l
		}
		l := il.NewLabel(target)
		byTarget[target] = l
		c.labels = append(c.labels, l)
		return l
	}

	for _, in := range c.body.Instrs {
		switch v := in.Operand.(type) {
		case *il.Instruction:
			in.Operand = label(v)
		case il.Targets:
			ls := make(il.Labels, len(v))
			for i, t := range v {
				ls[i] = label(t)
			}
			in.Operand = ls
		}
	}
}

// unwrap turns label operands back into instructions. Every instruction is
// unwrapped even when some label is unresolved; the first problem is
// reported.
func (c *Context) unwrap() error {
	index := c.body.Index()
	var first error
	check := func(in *il.Instruction, l *il.Label) *il.Instruction {
		if first == nil {
			switch _, ok := index[l.Target]; {
			case l.Target == nil:
				first = errors.UnresolvedLabel(errors.PhaseEdit, in.Name(), "branch label was never marked")
			case !ok:
				first = errors.UnresolvedLabel(errors.PhaseEdit, in.Name(), "branch label targets a removed instruction")
			}
			if first != nil {
				c.log.Debug("unresolved label", zap.Error(first))
			}
		}
		return l.Target
	}

	for _, in := range c.body.Instrs {
		switch v := in.Operand.(type) {
		case *il.Label:
			in.Operand = check(in, v)
		case il.Labels:
			ts := make(il.Targets, len(v))
			for i, l := range v {
				ts[i] = check(in, l)
			}
			in.Operand = ts
		}
	}
	return first
}

func (c *Context) materialize() error {
	index := c.body.Index()
	for _, r := range c.regions {
		for _, l := range []*il.Label{r.TryStart, r.TryEnd, r.HandlerStart, r.HandlerEnd, r.FilterStart} {
			if l == nil || l.Target == nil {
				continue
			}
			if _, ok := index[l.Target]; !ok {
				return errors.UnresolvedLabel(errors.PhaseEdit, r.String(), "region label targets a removed instruction")
			}
		}
		c.body.Regions = append(c.body.Regions, r.Resolve())
	}
	c.regions = nil
	return nil
}

// Body returns the edited body.
func (c *Context) Body() *il.MethodBody {
	c.mustOpen()
	return c.body
}

// Instrs returns the live instruction slice. It is invalidated by any
// insertion or removal.
func (c *Context) Instrs() []*il.Instruction {
	c.mustOpen()
	return c.body.Instrs
}

// IndexOf returns the position of in. A nil or absent instruction maps to
// the end of the body.
func (c *Context) IndexOf(in *il.Instruction) int {
	c.mustOpen()
	i := c.body.IndexOf(in)
	if i < 0 {
		return len(c.body.Instrs)
	}
	return i
}

// DefineLabel creates an unmarked label owned by the session.
func (c *Context) DefineLabel() *il.Label {
	return c.DefineLabelAt(nil)
}

// DefineLabelAt creates a label pointing at target.
func (c *Context) DefineLabelAt(target *il.Instruction) *il.Label {
	c.mustOpen()
	l := il.NewLabel(target)
	c.labels = append(c.labels, l)
	return l
}

// Labels returns every label of the session.
func (c *Context) Labels() []*il.Label {
	c.mustOpen()
	return append([]*il.Label(nil), c.labels...)
}

// IncomingLabels returns the labels pointing at in. A nil instruction
// selects labels that point at the end of the body or are unmarked.
func (c *Context) IncomingLabels(in *il.Instruction) []*il.Label {
	c.mustOpen()
	var out []*il.Label
	for _, l := range c.labels {
		if l.Target == in {
			out = append(out, l)
		}
	}
	return out
}

// Branches returns the instructions whose operand refers to l.
func (c *Context) Branches(l *il.Label) []*il.Instruction {
	c.mustOpen()
	var out []*il.Instruction
	for _, in := range c.body.Instrs {
		switch v := in.Operand.(type) {
		case *il.Label:
			if v == l {
				out = append(out, in)
			}
		case il.Labels:
			for _, x := range v {
				if x == l {
					out = append(out, in)
					break
				}
			}
		}
	}
	return out
}

// AddRegion queues a label-bounded exception region. It is added to the
// body when the manipulation finishes, after its labels resolve.
func (c *Context) AddRegion(r *il.LabeledRegion) {
	c.mustOpen()
	c.regions = append(c.regions, r)
}

// PendingRegions returns the regions queued by AddRegion.
func (c *Context) PendingRegions() []*il.LabeledRegion {
	c.mustOpen()
	return append([]*il.LabeledRegion(nil), c.regions...)
}

// AddReference stores v and returns its handle.
func (c *Context) AddReference(v any) int {
	c.mustOpen()
	c.refs = append(c.refs, v)
	return len(c.refs) - 1
}

// GetReference returns the value stored under id.
func (c *Context) GetReference(id int) (any, error) {
	if c.closed {
		return nil, errors.ReadOnly("edit context")
	}
	if id < 0 || id >= len(c.refs) {
		return nil, errors.InvalidReferenceHandle(id, len(c.refs))
	}
	return c.refs[id], nil
}

// SetReference replaces the value stored under id.
func (c *Context) SetReference(id int, v any) error {
	if c.closed {
		return errors.ReadOnly("edit context")
	}
	if id < 0 || id >= len(c.refs) {
		return errors.InvalidReferenceHandle(id, len(c.refs))
	}
	c.refs[id] = v
	return nil
}

// OnDispose registers fn to run when the context is closed.
func (c *Context) OnDispose(fn func()) {
	c.mustOpen()
	c.onDispose = append(c.onDispose, fn)
}

// Closed reports whether the context has been closed.
func (c *Context) Closed() bool { return c.closed }

// Close makes the context read-only, releases its labels and references
// and runs the OnDispose callbacks. Later calls do nothing.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	fns := c.onDispose
	c.onDispose = nil
	for _, fn := range fns {
		fn()
	}
	c.body = nil
	c.labels = nil
	c.regions = nil
	c.refs = nil
	return nil
}

func (c *Context) mustOpen() {
	if c.closed {
		panic(errors.ReadOnly("edit context"))
	}
}

// String lists the body with label operands shown as their targets.
func (c *Context) String() string {
	if c.closed {
		return "// edit context: read-only"
	}
	var b strings.Builder
	name := "<anonymous>"
	if c.body.Method != nil {
		name = c.body.Method.FullName()
	}
	fmt.Fprintf(&b, "// edit context: %s\n", name)
	for _, in := range c.body.Instrs {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
