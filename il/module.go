package il

import "sync"

// Module is a named reference graph. Type references created through a
// module belong to it; importing a reference from another module yields
// an equivalent reference owned by this one. A Module is safe for
// concurrent use.
type Module struct {
	types map[typeKey]*TypeRef
	Name  string
	order []*TypeRef
	mu    sync.Mutex
}

type typeKey struct {
	scope    string
	fullName string
}

// NewModule creates an empty module named name.
func NewModule(name string) *Module {
	return &Module{Name: name, types: make(map[typeKey]*TypeRef)}
}

func (m *Module) String() string { return m.Name }

// DefineType returns the type ns.name defined in this module, creating it
// if needed.
func (m *Module) DefineType(ns, name string) *TypeRef {
	return m.Reference(m.Name, ns, name)
}

// Reference returns the reference to ns.name defined in scope, creating it
// if needed.
func (m *Module) Reference(scope, ns, name string) *TypeRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &TypeRef{mod: m, Scope: scope, Namespace: ns, Name: name}
	return m.intern(t)
}

// Nested returns the reference to the type name nested in decl, creating
// it if needed. decl must belong to m.
func (m *Module) Nested(decl *TypeRef, name string) *TypeRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &TypeRef{mod: m, Scope: decl.Scope, DeclaringType: decl, Name: name}
	return m.intern(t)
}

// Import returns the reference in m equivalent to t, matched by scope and
// full name. Declaring types are imported first. Generic parameters are
// copied positionally when the reference is new.
func (m *Module) Import(t *TypeRef) *TypeRef {
	if t.mod == m {
		return t
	}
	var decl *TypeRef
	if t.DeclaringType != nil {
		decl = m.Import(t.DeclaringType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := typeKey{scope: t.Scope, fullName: t.FullName()}
	if existing, ok := m.types[key]; ok {
		return existing
	}
	imported := &TypeRef{
		mod:           m,
		DeclaringType: decl,
		Namespace:     t.Namespace,
		Name:          t.Name,
		Scope:         t.Scope,
		ValueType:     t.ValueType,
	}
	for _, p := range t.GenericParams {
		imported.GenericParams = append(imported.GenericParams, &GenericParam{
			Name:     p.Name,
			Position: p.Position,
			Kind:     OwnerType,
			Owner:    imported,
		})
	}
	m.types[key] = imported
	m.order = append(m.order, imported)
	return imported
}

// Lookup returns the reference to fullName defined in scope.
func (m *Module) Lookup(scope, fullName string) (*TypeRef, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.types[typeKey{scope: scope, fullName: fullName}]
	return t, ok
}

// Types returns every type reference owned by m in creation order.
func (m *Module) Types() []*TypeRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*TypeRef(nil), m.order...)
}

// Owns reports whether r belongs to m.
func (m *Module) Owns(r GenericProvider) bool {
	return r != nil && r.Module() == m
}

func (m *Module) intern(t *TypeRef) *TypeRef {
	key := typeKey{scope: t.Scope, fullName: t.FullName()}
	if existing, ok := m.types[key]; ok {
		return existing
	}
	m.types[key] = t
	m.order = append(m.order, t)
	return t
}
