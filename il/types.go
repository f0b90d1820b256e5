package il

import (
	"strconv"
	"strings"
)

// OwnerKind identifies whether a generic parameter belongs to a type or a method.
type OwnerKind byte

const (
	OwnerType OwnerKind = iota
	OwnerMethod
)

func (k OwnerKind) String() string {
	if k == OwnerMethod {
		return "method"
	}
	return "type"
}

// GenericProvider is a reference that can own generic parameters. Outer
// returns the next provider in the owner chain (method -> declaring type ->
// enclosing type), or nil at the end of the chain.
type GenericProvider interface {
	GenericParameters() []*GenericParam
	ProviderKind() OwnerKind
	Outer() GenericProvider
	Module() *Module
	String() string
}

// Type is a type reference. Composite types (byref, arrays, generic
// instances, ...) wrap an element type; leaf types are *TypeRef and
// *GenericParam.
type Type interface {
	Operand
	GenericProvider
	FullName() string
	Element() Type
}

// TypeRef is a named, non-composite type reference. A TypeRef belongs to
// the Module it was created in; Scope names the unit that defines it.
type TypeRef struct {
	mod           *Module
	DeclaringType *TypeRef
	Namespace     string
	Name          string
	Scope         string
	GenericParams []*GenericParam
	ValueType     bool
}

func (*TypeRef) operand() {}

func (t *TypeRef) Module() *Module                    { return t.mod }
func (t *TypeRef) Element() Type                      { return nil }
func (t *TypeRef) GenericParameters() []*GenericParam { return t.GenericParams }
func (t *TypeRef) ProviderKind() OwnerKind            { return OwnerType }

func (t *TypeRef) Outer() GenericProvider {
	if t.DeclaringType == nil {
		return nil
	}
	return t.DeclaringType
}

// FullName returns the namespace-qualified name. Nested types use '/'.
func (t *TypeRef) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func (t *TypeRef) String() string { return t.FullName() }

// AddGenericParam appends a type-owned generic parameter.
func (t *TypeRef) AddGenericParam(name string) *GenericParam {
	p := &GenericParam{Name: name, Position: len(t.GenericParams), Kind: OwnerType, Owner: t}
	t.GenericParams = append(t.GenericParams, p)
	return p
}

// ByRefType is a managed reference to Elem.
type ByRefType struct{ Elem Type }

// PointerType is an unmanaged pointer to Elem.
type PointerType struct{ Elem Type }

// PinnedType marks a pinned local of type Elem.
type PinnedType struct{ Elem Type }

// SentinelType marks the start of vararg parameters.
type SentinelType struct{ Elem Type }

// ArrayDim is one array dimension. Zero values mean unspecified.
type ArrayDim struct {
	Lower int
	Upper int
	Sized bool
}

// ArrayType is an array of Elem. Rank 1 with no dims is a vector.
type ArrayType struct {
	Elem Type
	Dims []ArrayDim
	Rank int
}

// ModifierType is a custom modifier (modreq or modopt) applied to Elem.
type ModifierType struct {
	Elem     Type
	Modifier Type
	Required bool
}

// GenericInstanceType is Elem instantiated with Args.
type GenericInstanceType struct {
	Elem Type
	Args []Type
}

// FunctionPointerType is a pointer to a function with the given signature.
type FunctionPointerType struct {
	ReturnType   Type
	Params       []*Param
	CallConv     CallingConvention
	HasThis      bool
	ExplicitThis bool
}

func (*ByRefType) operand()           {}
func (*PointerType) operand()         {}
func (*PinnedType) operand()          {}
func (*SentinelType) operand()        {}
func (*ArrayType) operand()           {}
func (*ModifierType) operand()        {}
func (*GenericInstanceType) operand() {}
func (*FunctionPointerType) operand() {}

func (t *ByRefType) Element() Type           { return t.Elem }
func (t *PointerType) Element() Type         { return t.Elem }
func (t *PinnedType) Element() Type          { return t.Elem }
func (t *SentinelType) Element() Type        { return t.Elem }
func (t *ArrayType) Element() Type           { return t.Elem }
func (t *ModifierType) Element() Type        { return t.Elem }
func (t *GenericInstanceType) Element() Type { return t.Elem }
func (t *FunctionPointerType) Element() Type { return nil }

// Composite types delegate provider behavior to their element.

func (t *ByRefType) Module() *Module           { return t.Elem.Module() }
func (t *PointerType) Module() *Module         { return t.Elem.Module() }
func (t *PinnedType) Module() *Module          { return t.Elem.Module() }
func (t *SentinelType) Module() *Module        { return t.Elem.Module() }
func (t *ArrayType) Module() *Module           { return t.Elem.Module() }
func (t *ModifierType) Module() *Module        { return t.Elem.Module() }
func (t *GenericInstanceType) Module() *Module { return t.Elem.Module() }

func (t *FunctionPointerType) Module() *Module {
	if t.ReturnType == nil {
		return nil
	}
	return t.ReturnType.Module()
}

func (t *ByRefType) GenericParameters() []*GenericParam    { return t.Elem.GenericParameters() }
func (t *PointerType) GenericParameters() []*GenericParam  { return t.Elem.GenericParameters() }
func (t *PinnedType) GenericParameters() []*GenericParam   { return t.Elem.GenericParameters() }
func (t *SentinelType) GenericParameters() []*GenericParam { return t.Elem.GenericParameters() }
func (t *ArrayType) GenericParameters() []*GenericParam    { return t.Elem.GenericParameters() }
func (t *ModifierType) GenericParameters() []*GenericParam { return t.Elem.GenericParameters() }
func (t *GenericInstanceType) GenericParameters() []*GenericParam {
	return t.Elem.GenericParameters()
}
func (t *FunctionPointerType) GenericParameters() []*GenericParam { return nil }

func (*ByRefType) ProviderKind() OwnerKind           { return OwnerType }
func (*PointerType) ProviderKind() OwnerKind         { return OwnerType }
func (*PinnedType) ProviderKind() OwnerKind          { return OwnerType }
func (*SentinelType) ProviderKind() OwnerKind        { return OwnerType }
func (*ArrayType) ProviderKind() OwnerKind           { return OwnerType }
func (*ModifierType) ProviderKind() OwnerKind        { return OwnerType }
func (*GenericInstanceType) ProviderKind() OwnerKind { return OwnerType }
func (*FunctionPointerType) ProviderKind() OwnerKind { return OwnerType }

func (t *ByRefType) Outer() GenericProvider           { return t.Elem }
func (t *PointerType) Outer() GenericProvider         { return t.Elem }
func (t *PinnedType) Outer() GenericProvider          { return t.Elem }
func (t *SentinelType) Outer() GenericProvider        { return t.Elem }
func (t *ArrayType) Outer() GenericProvider           { return t.Elem }
func (t *ModifierType) Outer() GenericProvider        { return t.Elem }
func (t *GenericInstanceType) Outer() GenericProvider { return t.Elem }
func (t *FunctionPointerType) Outer() GenericProvider { return nil }

func (t *ByRefType) FullName() string    { return t.Elem.FullName() + "&" }
func (t *PointerType) FullName() string  { return t.Elem.FullName() + "*" }
func (t *PinnedType) FullName() string   { return t.Elem.FullName() + " pinned" }
func (t *SentinelType) FullName() string { return t.Elem.FullName() + " ..." }

func (t *ArrayType) FullName() string {
	rank := t.Rank
	if rank <= 1 && len(t.Dims) == 0 {
		return t.Elem.FullName() + "[]"
	}
	if rank < 1 {
		rank = 1
	}
	dims := make([]string, rank)
	for i := range dims {
		if i < len(t.Dims) && t.Dims[i].Sized {
			dims[i] = strconv.Itoa(t.Dims[i].Lower) + "..." + strconv.Itoa(t.Dims[i].Upper)
		}
	}
	if rank == 1 {
		dims[0] += "*"
	}
	return t.Elem.FullName() + "[" + strings.Join(dims, ",") + "]"
}

func (t *ModifierType) FullName() string {
	kw := " modopt("
	if t.Required {
		kw = " modreq("
	}
	return t.Elem.FullName() + kw + t.Modifier.FullName() + ")"
}

func (t *GenericInstanceType) FullName() string {
	return t.Elem.FullName() + "<" + joinTypes(t.Args) + ">"
}

func (t *FunctionPointerType) FullName() string {
	return "method " + typeName(t.ReturnType) + " *(" + joinParams(t.Params) + ")"
}

func (t *ByRefType) String() string           { return t.FullName() }
func (t *PointerType) String() string         { return t.FullName() }
func (t *PinnedType) String() string          { return t.FullName() }
func (t *SentinelType) String() string        { return t.FullName() }
func (t *ArrayType) String() string           { return t.FullName() }
func (t *ModifierType) String() string        { return t.FullName() }
func (t *GenericInstanceType) String() string { return t.FullName() }
func (t *FunctionPointerType) String() string { return t.FullName() }

// GenericParam is a generic parameter identified by (Kind, Position).
// Name is for display only and is not used for resolution.
type GenericParam struct {
	Owner       GenericProvider
	Name        string
	Constraints []Type
	Attributes  []*CustomAttribute
	Position    int
	Kind        OwnerKind
}

func (*GenericParam) operand() {}

func (p *GenericParam) Element() Type                      { return nil }
func (p *GenericParam) GenericParameters() []*GenericParam { return nil }
func (p *GenericParam) ProviderKind() OwnerKind            { return p.Kind }
func (p *GenericParam) Outer() GenericProvider             { return p.Owner }

func (p *GenericParam) Module() *Module {
	if p.Owner == nil {
		return nil
	}
	return p.Owner.Module()
}

// FullName returns the parameter name, or its positional form (!0, !!0)
// when unnamed.
func (p *GenericParam) FullName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Positional()
}

// Positional returns the position-based spelling: !N for type parameters,
// !!N for method parameters.
func (p *GenericParam) Positional() string {
	if p.Kind == OwnerMethod {
		return "!!" + strconv.Itoa(p.Position)
	}
	return "!" + strconv.Itoa(p.Position)
}

func (p *GenericParam) String() string { return p.FullName() }

func typeName(t Type) string {
	if t == nil {
		return "?"
	}
	return t.FullName()
}

func joinTypes(ts []Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = typeName(t)
	}
	return strings.Join(names, ",")
}

func joinParams(ps []*Param) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = typeName(p.Type)
	}
	return strings.Join(names, ",")
}
