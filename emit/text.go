package emit

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/ilkit/errors"
	"github.com/wippyai/ilkit/il"
)

// ColorMode selects whether a listing is styled.
type ColorMode int

const (
	// ColorAuto styles output written to a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// TextConfig configures a TextGenerator.
type TextConfig struct {
	Color ColorMode
	// Offsets prefixes every instruction with its IL_xxxx offset.
	Offsets bool
}

type palette struct {
	op, operand, label, directive lipgloss.Style
}

// TextGenerator writes a human-readable listing. Labels are named L0, L1
// and so on in definition order; blocks are indented by nesting depth.
type TextGenerator struct {
	*RegionBuilder
	w      io.Writer
	cfg    TextConfig
	colors *palette
	names  map[*il.Label]string
	locals int
	offset int
	err    error
}

// NewTextGenerator creates a generator listing to w.
func NewTextGenerator(w io.Writer, cfg TextConfig) *TextGenerator {
	g := &TextGenerator{w: w, cfg: cfg, names: make(map[*il.Label]string)}
	if colorEnabled(w, cfg.Color) {
		r := lipgloss.NewRenderer(w)
		if cfg.Color == ColorAlways {
			r.SetColorProfile(termenv.ANSI256)
		}
		g.colors = &palette{
			op:        r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
			operand:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
			label:     r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
			directive: r.NewStyle().Foreground(lipgloss.Color("#666666")),
		}
	}
	g.RegionBuilder = NewRegionBuilder(g)
	return g
}

func colorEnabled(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (g *TextGenerator) style(pick func(*palette) lipgloss.Style, s string) string {
	if g.colors == nil || s == "" {
		return s
	}
	return pick(g.colors).Render(s)
}

func (g *TextGenerator) line(s string) error {
	if g.err != nil {
		return g.err
	}
	_, g.err = fmt.Fprintln(g.w, strings.Repeat("  ", g.Depth())+s)
	return g.err
}

func (g *TextGenerator) name(l *il.Label) string {
	if l == nil {
		return "<end>"
	}
	n, ok := g.names[l]
	if !ok {
		n = fmt.Sprintf("L%d", len(g.names))
		g.names[l] = n
	}
	return n
}

// Emit lists one instruction.
func (g *TextGenerator) Emit(op il.OpCode, operand il.Operand) error {
	if err := checkOperand("text", op, operand); err != nil {
		return err
	}
	var text string
	switch v := operand.(type) {
	case nil:
	case *il.Label:
		text = g.name(v)
	case il.Labels:
		names := make([]string, len(v))
		for i, l := range v {
			names[i] = g.name(l)
		}
		text = "(" + strings.Join(names, ", ") + ")"
	case il.Int32, il.Int64, il.Float32, il.Float64, il.String:
		text = il.FormatOperand(v)
	case *il.Local, *il.Param:
		text = il.FormatOperand(v)
	case il.Method:
		text = v.FullName()
	case *il.FieldRef, *il.CallSite:
		text = il.FormatOperand(v)
	case il.Type:
		text = v.FullName()
	default:
		return errors.UnemittableOperand("text", op.Name(), operand)
	}

	var b strings.Builder
	if g.cfg.Offsets {
		fmt.Fprintf(&b, "IL_%04x: ", g.offset)
	}
	b.WriteString(g.style(func(p *palette) lipgloss.Style { return p.op }, op.Name()))
	if text != "" {
		b.WriteByte(' ')
		b.WriteString(g.style(func(p *palette) lipgloss.Style { return p.operand }, text))
	}
	g.offset += il.NewInstruction(op, operand).Size()
	return g.line(b.String())
}

// DefineLabel creates a label and assigns it the next name.
func (g *TextGenerator) DefineLabel() *il.Label {
	l := il.NewLabel(nil)
	g.name(l)
	return l
}

// MarkLabel lists l at the current position.
func (g *TextGenerator) MarkLabel(l *il.Label) error {
	if l == nil {
		return errors.InvalidInput(errors.PhaseEmit, "nil label")
	}
	return g.line(g.style(func(p *palette) lipgloss.Style { return p.label }, g.name(l)+":"))
}

// DeclareLocal lists a local declaration.
func (g *TextGenerator) DeclareLocal(t il.Type, pinned bool) *il.Local {
	t = pinnedType(t, pinned)
	l := &il.Local{Index: g.locals, Type: t}
	g.locals++
	_ = g.directive(".local %s %s", l, t.FullName())
	return l
}

// AddRegion lists a finished region.
func (g *TextGenerator) AddRegion(r *il.LabeledRegion) error {
	s := fmt.Sprintf(".try %s to %s %s", g.name(r.TryStart), g.name(r.TryEnd), r.Kind)
	switch {
	case r.Kind == il.HandlerCatch && r.CatchType != nil:
		s += " " + r.CatchType.FullName()
	case r.Kind == il.HandlerFilter:
		s += " " + g.name(r.FilterStart)
	}
	return g.directive("%s handler %s to %s", s, g.name(r.HandlerStart), g.name(r.HandlerEnd))
}

func (g *TextGenerator) directive(format string, args ...any) error {
	return g.line(g.style(func(p *palette) lipgloss.Style { return p.directive }, fmt.Sprintf(format, args...)))
}

// Offset returns the byte offset of the next instruction.
func (g *TextGenerator) Offset() int { return g.offset }

// Err returns the first write error.
func (g *TextGenerator) Err() error { return g.err }
