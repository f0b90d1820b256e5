package il

import (
	"strconv"
	"strings"
)

// CallingConvention is the calling convention of a method signature.
type CallingConvention byte

const (
	CallDefault CallingConvention = iota
	CallC
	CallStdCall
	CallThisCall
	CallFastCall
	CallVarArg
	CallGeneric
)

// MethodRef is a method reference or definition. Body is set for methods
// whose body is available for editing.
type MethodRef struct {
	DeclaringType Type
	ReturnType    Type
	Body          *MethodBody
	Name          string
	Params        []*Param
	GenericParams []*GenericParam
	Attributes    []*CustomAttribute
	CallConv      CallingConvention
	HasThis       bool
	ExplicitThis  bool
}

func (*MethodRef) operand() {}

func (m *MethodRef) Definition() *MethodRef             { return m }
func (m *MethodRef) GenericParameters() []*GenericParam { return m.GenericParams }
func (m *MethodRef) ProviderKind() OwnerKind            { return OwnerMethod }

func (m *MethodRef) Outer() GenericProvider {
	if m.DeclaringType == nil {
		return nil
	}
	return m.DeclaringType
}

func (m *MethodRef) Module() *Module {
	if m.DeclaringType == nil {
		return nil
	}
	return m.DeclaringType.Module()
}

// AddGenericParam appends a method-owned generic parameter.
func (m *MethodRef) AddGenericParam(name string) *GenericParam {
	p := &GenericParam{Name: name, Position: len(m.GenericParams), Kind: OwnerMethod, Owner: m}
	m.GenericParams = append(m.GenericParams, p)
	return p
}

// AddParam appends a parameter of type t.
func (m *MethodRef) AddParam(name string, t Type) *Param {
	p := &Param{Name: name, Index: len(m.Params), Type: t}
	if m.HasThis && !m.ExplicitThis {
		p.Index++
	}
	m.Params = append(m.Params, p)
	return p
}

// FullName returns the signature as "ret Decl::Name<T>(args)".
func (m *MethodRef) FullName() string {
	var b strings.Builder
	b.WriteString(typeName(m.ReturnType))
	b.WriteByte(' ')
	if m.DeclaringType != nil {
		b.WriteString(m.DeclaringType.FullName())
		b.WriteString("::")
	}
	b.WriteString(m.Name)
	if len(m.GenericParams) > 0 {
		names := make([]string, len(m.GenericParams))
		for i, p := range m.GenericParams {
			names[i] = p.FullName()
		}
		b.WriteString("<" + strings.Join(names, ",") + ">")
	}
	b.WriteString("(" + joinParams(m.Params) + ")")
	return b.String()
}

func (m *MethodRef) String() string { return m.FullName() }

// GenericInstanceMethod is Elem instantiated with Args.
type GenericInstanceMethod struct {
	Elem *MethodRef
	Args []Type
}

func (*GenericInstanceMethod) operand() {}

func (m *GenericInstanceMethod) Definition() *MethodRef { return m.Elem }

func (m *GenericInstanceMethod) GenericParameters() []*GenericParam {
	return m.Elem.GenericParams
}

func (m *GenericInstanceMethod) ProviderKind() OwnerKind { return OwnerMethod }
func (m *GenericInstanceMethod) Outer() GenericProvider  { return m.Elem.Outer() }
func (m *GenericInstanceMethod) Module() *Module         { return m.Elem.Module() }

func (m *GenericInstanceMethod) FullName() string {
	var b strings.Builder
	b.WriteString(typeName(m.Elem.ReturnType))
	b.WriteByte(' ')
	if m.Elem.DeclaringType != nil {
		b.WriteString(m.Elem.DeclaringType.FullName())
		b.WriteString("::")
	}
	b.WriteString(m.Elem.Name)
	b.WriteString("<" + joinTypes(m.Args) + ">")
	b.WriteString("(" + joinParams(m.Elem.Params) + ")")
	return b.String()
}

func (m *GenericInstanceMethod) String() string { return m.FullName() }

// FieldRef is a field reference.
type FieldRef struct {
	DeclaringType Type
	FieldType     Type
	Name          string
}

func (*FieldRef) operand() {}

func (f *FieldRef) Module() *Module {
	if f.DeclaringType == nil {
		return nil
	}
	return f.DeclaringType.Module()
}

func (f *FieldRef) FullName() string {
	decl := ""
	if f.DeclaringType != nil {
		decl = f.DeclaringType.FullName() + "::"
	}
	return typeName(f.FieldType) + " " + decl + f.Name
}

func (f *FieldRef) String() string { return f.FullName() }

// CallSite is a standalone signature used by calli.
type CallSite struct {
	ReturnType   Type
	Params       []*Param
	CallConv     CallingConvention
	HasThis      bool
	ExplicitThis bool
}

func (*CallSite) operand() {}

func (c *CallSite) FullName() string {
	return typeName(c.ReturnType) + " *(" + joinParams(c.Params) + ")"
}

func (c *CallSite) String() string { return c.FullName() }

// ParamAttributes are parameter flags.
type ParamAttributes uint16

const (
	ParamIn       ParamAttributes = 0x0001
	ParamOut      ParamAttributes = 0x0002
	ParamOptional ParamAttributes = 0x0010
	ParamDefault  ParamAttributes = 0x1000
)

// Param is a method parameter. Index is the argument slot, which includes
// the implicit this argument for instance methods.
type Param struct {
	Type       Type
	Constant   any
	Name       string
	Attributes []*CustomAttribute
	Index      int
	Attrs      ParamAttributes
}

func (*Param) operand() {}

func (p *Param) String() string {
	if p.Name != "" {
		return p.Name
	}
	return "A_" + strconv.Itoa(p.Index)
}

// Local is a local variable slot. Pinned locals have a *PinnedType.
type Local struct {
	Type  Type
	Name  string
	Index int
}

func (*Local) operand() {}

// Pinned reports whether the local is pinned.
func (l *Local) Pinned() bool {
	_, ok := l.Type.(*PinnedType)
	return ok
}

func (l *Local) String() string {
	if l.Name != "" {
		return l.Name
	}
	return "V_" + strconv.Itoa(l.Index)
}

// AttrArg is a custom attribute argument: a declared type and a value.
type AttrArg struct {
	Type  Type
	Value any
}

// NamedArg is a field or property argument of a custom attribute.
type NamedArg struct {
	Name string
	Arg  AttrArg
}

// CustomAttribute is a custom attribute application.
type CustomAttribute struct {
	Ctor       Method
	Args       []AttrArg
	Fields     []NamedArg
	Properties []NamedArg
}

func (a *CustomAttribute) String() string {
	if a.Ctor == nil {
		return "[?]"
	}
	return "[" + a.Ctor.FullName() + "]"
}
