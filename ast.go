package hidl

// AST is the parsed representation of a single .hal file (spec
// section 4.5): its own fully-qualified package name, the set of
// files it imports, and a root Scope holding every type and constant
// declared directly in the file. An interface's body scope is owned by
// its InterfaceType (Body) and chained to the enclosing Scope via
// Scope.Parent; struct and union bodies have no scope of their own.
type AST struct {
	FQN         FQName
	Imports     []FQName
	Root        *Scope
	Annotations map[string]string

	// PendingRefs collects every RefType parseTypeRef couldn't resolve
	// against this file's own scope at parse time — a forward
	// reference within the file, or a name declared in the package's
	// implicitly-imported types.hal, or in another file entirely. A
	// post-parse pass (Coordinator.resolvePendingRefs) walks these
	// once every import this file declares has itself been parsed.
	PendingRefs []*RefType

	scopeStack []*Scope
}

// NewAST creates an AST rooted at pkg with an empty root scope, ready
// for the parser to populate via EnterScope/AddScopedType.
func NewAST(pkg FQName) *AST {
	root := NewScope(nil)
	return &AST{
		FQN:         pkg,
		Root:        root,
		Annotations: map[string]string{},
		scopeStack:  []*Scope{root},
	}
}

func (a *AST) SetPackage(fqn FQName) { a.FQN = fqn }

// AddImport records a dependency on another FQName, skipping one this
// file already imports; transitive duplicates are removed later by
// Coordinator.SortedDeps (spec section 4.6/C6's sortedDeps).
func (a *AST) AddImport(fqn FQName) {
	for _, existing := range a.Imports {
		if existing.Equal(fqn) {
			return
		}
	}
	a.Imports = append(a.Imports, fqn)
}

// CurrentScope returns the innermost scope the parser is currently
// populating.
func (a *AST) CurrentScope() *Scope {
	return a.scopeStack[len(a.scopeStack)-1]
}

// EnterScope pushes a new child of the current scope (the parser
// enters one for an interface body, which it attaches to the
// InterfaceType, and one for an enum body, which it does not attach)
// and returns it.
func (a *AST) EnterScope() *Scope {
	child := NewScope(a.CurrentScope())
	a.scopeStack = append(a.scopeStack, child)
	return child
}

// LeaveScope pops back to the enclosing scope. Calling it with only
// the root scope on the stack is a parser bug and panics rather than
// silently doing nothing.
func (a *AST) LeaveScope() {
	if len(a.scopeStack) == 1 {
		panic("hidl: LeaveScope called at root scope")
	}
	a.scopeStack = a.scopeStack[:len(a.scopeStack)-1]
}

// AddScopedType registers t in the current scope.
func (a *AST) AddScopedType(t Type) error {
	return a.CurrentScope().AddType(t)
}

// LookupType resolves name from the current scope outward. It does
// not consult imported files; cross-file resolution is the
// Coordinator's job (C6).
func (a *AST) LookupType(name string) (Type, bool) {
	return a.CurrentScope().Lookup(name)
}

// Interfaces returns every InterfaceType declared at the root scope,
// in declaration order.
func (a *AST) Interfaces() []*InterfaceType {
	var out []*InterfaceType
	for _, t := range a.Root.Types() {
		if ifc, ok := t.(*InterfaceType); ok {
			out = append(out, ifc)
		}
	}
	return out
}

// ContainsSingleInterface reports whether the file declares exactly
// one root-scope type and it is an interface. No driver and not the
// Coordinator call it; validateFileTail in coordinator.go makes its
// own one-interface-per-file check.
func (a *AST) ContainsSingleInterface() bool {
	types := a.Root.Types()
	if len(types) != 1 {
		return false
	}
	_, ok := types[0].(*InterfaceType)
	return ok
}

// IsTypesFile reports whether this AST is the package's special
// "types.hal" file — the one with no interface, only shared
// struct/union/enum/typedef declarations (spec section 3's notion of
// a types-only package member).
func (a *AST) IsTypesFile() bool {
	return a.FQN.Tail == "types" && len(a.Interfaces()) == 0
}
