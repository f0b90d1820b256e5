package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRelink Phase = "relink" // cross-graph reference rewriting
	PhaseEdit   Phase = "edit"   // session and cursor mutation
	PhaseSearch Phase = "search" // cursor pattern search
	PhaseEmit   Phase = "emit"   // backend emission
	PhaseEncode Phase = "encode" // body to image
	PhaseDecode Phase = "decode" // image to body
)

// Kind categorizes the error
type Kind string

const (
	KindRelinkTargetNotFound   Kind = "relink_target_not_found"
	KindSearchNotFound         Kind = "search_not_found"
	KindUnemittableOperand     Kind = "unemittable_operand"
	KindInvalidReferenceHandle Kind = "invalid_reference_handle"
	KindUnresolvedLabel        Kind = "unresolved_label"
	KindReadOnly               Kind = "read_only"
	KindInvalidInput           Kind = "invalid_input"
	KindInvalidData            Kind = "invalid_data"
	KindOutOfBounds            Kind = "out_of_bounds"
	KindOverflow               Kind = "overflow"
	KindUnsupported            Kind = "unsupported"
)

// Sentinels for errors.Is. They carry no phase, so they match any error of
// the same kind.
var (
	ErrRelinkTargetNotFound   = &Error{Kind: KindRelinkTargetNotFound}
	ErrSearchNotFound         = &Error{Kind: KindSearchNotFound}
	ErrUnemittableOperand     = &Error{Kind: KindUnemittableOperand}
	ErrInvalidReferenceHandle = &Error{Kind: KindInvalidReferenceHandle}
	ErrUnresolvedLabel        = &Error{Kind: KindUnresolvedLabel}
	ErrReadOnly               = &Error{Kind: KindReadOnly}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout ilkit
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Ref     string
	Context string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Ref != "" {
		b.WriteString(": ")
		b.WriteString(e.Ref)
		if e.Context != "" {
			b.WriteString(" (context: ")
			b.WriteString(e.Context)
			b.WriteByte(')')
		}
	}

	if e.Detail != "" {
		if e.Ref != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Ref sets the printable form of the offending reference
func (b *Builder) Ref(ref any) *Builder {
	b.err.Ref = describe(ref)
	return b
}

// Context sets the printable form of the resolution context
func (b *Builder) Context(ctx any) *Builder {
	b.err.Context = describe(ctx)
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Convenience constructors for the error taxonomy

// RelinkTargetNotFound reports a generic parameter owner or leaf reference
// that could not be resolved against the destination graph.
func RelinkTargetNotFound(ref, ctx any, cause error) *Error {
	return &Error{
		Phase:   PhaseRelink,
		Kind:    KindRelinkTargetNotFound,
		Ref:     describe(ref),
		Context: describe(ctx),
		Value:   ref,
		Cause:   cause,
	}
}

// SearchNotFound reports a forced cursor search without a match
func SearchNotFound(direction string, predicates int) *Error {
	return &Error{
		Phase:  PhaseSearch,
		Kind:   KindSearchNotFound,
		Detail: fmt.Sprintf("no %s match for %d predicate(s)", direction, predicates),
	}
}

// UnemittableOperand reports an operand with no backend emission primitive
func UnemittableOperand(backend, opcode string, operand any) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindUnemittableOperand,
		Path:   []string{backend},
		Detail: fmt.Sprintf("%s cannot take operand of type %T", opcode, operand),
		Value:  operand,
	}
}

// InvalidReferenceHandle reports an out-of-range reference store id
func InvalidReferenceHandle(id, length int) *Error {
	return &Error{
		Phase:  PhaseEdit,
		Kind:   KindInvalidReferenceHandle,
		Detail: fmt.Sprintf("reference id %d out of range (length %d)", id, length),
		Value:  id,
	}
}

// UnresolvedLabel reports a label without a live target at finalization
func UnresolvedLabel(phase Phase, site string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnresolvedLabel,
		Path:   []string{site},
		Detail: detail,
	}
}

// ReadOnly reports access to a disposed session
func ReadOnly(what string) *Error {
	return &Error{
		Phase:  PhaseEdit,
		Kind:   KindReadOnly,
		Detail: fmt.Sprintf("%s is read-only", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
