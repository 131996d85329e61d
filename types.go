package hidl

import (
	"fmt"
	"strings"
)

// StorageMode selects how a Type is rendered at a particular use
// site: on the stack, as a borrowed function argument, or as an
// indirect function result (spec section 4.4's storage-mode).
type StorageMode int

const (
	StorageStack StorageMode = iota
	StorageArgument
	StorageResult
)

// TypeKind discriminates the tagged Type variants, used by the
// serialization synthesizer (C7) and the target drivers (C8) to
// switch on a Type the way the teacher's code generators switch on
// AstNode (grammar_ast.go's node hierarchy, generalized here to a
// capability-table pattern per spec section 9's design notes rather
// than a class hierarchy).
type TypeKind int

const (
	KindScalar TypeKind = iota
	KindString
	KindHandle
	KindEnum
	KindStruct
	KindUnion
	KindVector
	KindArray
	KindTypeDef
	KindInterface
	KindReference
)

// ScalarKind enumerates the primitive scalar kinds spec section 3
// lists.
type ScalarKind int

const (
	ScalarI8 ScalarKind = iota
	ScalarU8
	ScalarI16
	ScalarU16
	ScalarI32
	ScalarU32
	ScalarI64
	ScalarU64
	ScalarF32
	ScalarF64
	ScalarBool
	ScalarChar
	ScalarOpaquePtr
)

var scalarNames = map[ScalarKind]string{
	ScalarI8: "i8", ScalarU8: "u8", ScalarI16: "i16", ScalarU16: "u16",
	ScalarI32: "i32", ScalarU32: "u32", ScalarI64: "i64", ScalarU64: "u64",
	ScalarF32: "f32", ScalarF64: "f64", ScalarBool: "bool", ScalarChar: "char",
	ScalarOpaquePtr: "opaque-ptr",
}

func (k ScalarKind) String() string { return scalarNames[k] }

// Type is the capability interface every variant in the type graph
// implements (spec section 4.4). It deliberately stays a flat,
// non-hierarchical set of methods — a "small trait-like interface at
// the variant boundary", per spec section 9's design notes — rather
// than subtype polymorphism across a deep class tree.
type Type interface {
	Kind() TypeKind

	// TypeName is the type's own declared local name, or "" for
	// anonymous/structural types (scalars, vectors, arrays).
	TypeName() string

	// NativeType renders the type's C-family spelling for the given
	// storage mode.
	NativeType(mode StorageMode) string

	// ManagedType renders the type's JVM-style managed spelling.
	// Called only after IsJavaCompatible has been checked by the
	// managed driver.
	ManagedType() string

	// DescriptorType renders the type's verification-descriptor
	// spelling.
	DescriptorType() string

	// NeedsEmbeddedReadWrite is true iff a value of this type
	// contains at least one pointer-bearing field (strings, vectors,
	// handles, references, or transitively such).
	NeedsEmbeddedReadWrite() bool

	// NeedsResolveReferences is true iff this type's serialized image
	// contains references that must be patched up after the
	// containing buffer is written.
	NeedsResolveReferences() bool

	// AlignmentAndSize returns (align, size) with size already
	// including trailing padding to alignment.
	AlignmentAndSize() (align, size int)

	IsBinder() bool
	IsInterface() bool
	IsScope() bool
	IsEnum() bool
	IsTypeDef() bool

	// IsJavaCompatible is false iff the type contains a union or a
	// handle transitively, or (for interfaces) its inheritance chain
	// is not Java-compatible.
	IsJavaCompatible() bool

	// ResolveToScalar transitively unwraps TypeDef/Enum to reach a
	// Scalar, or returns nil.
	ResolveToScalar() *ScalarType
}

// ---- Scalar ----

type ScalarType struct{ K ScalarKind }

func NewScalarType(k ScalarKind) *ScalarType { return &ScalarType{K: k} }

func (t *ScalarType) Kind() TypeKind  { return KindScalar }
func (t *ScalarType) TypeName() string { return "" }

func (t *ScalarType) NativeType(StorageMode) string {
	switch t.K {
	case ScalarI8:
		return "int8_t"
	case ScalarU8:
		return "uint8_t"
	case ScalarI16:
		return "int16_t"
	case ScalarU16:
		return "uint16_t"
	case ScalarI32:
		return "int32_t"
	case ScalarU32:
		return "uint32_t"
	case ScalarI64:
		return "int64_t"
	case ScalarU64:
		return "uint64_t"
	case ScalarF32:
		return "float"
	case ScalarF64:
		return "double"
	case ScalarBool:
		return "bool"
	case ScalarChar:
		return "char"
	case ScalarOpaquePtr:
		return "void*"
	}
	return "?"
}

func (t *ScalarType) ManagedType() string {
	switch t.K {
	case ScalarI8:
		return "byte"
	case ScalarU8:
		return "short" // widened: Java has no unsigned byte
	case ScalarI16, ScalarU16:
		return "short"
	case ScalarI32, ScalarU32:
		return "int"
	case ScalarI64, ScalarU64:
		return "long"
	case ScalarF32:
		return "float"
	case ScalarF64:
		return "double"
	case ScalarBool:
		return "boolean"
	case ScalarChar:
		return "char"
	case ScalarOpaquePtr:
		return "long"
	}
	return "?"
}

func (t *ScalarType) DescriptorType() string { return t.K.String() }

func (t *ScalarType) NeedsEmbeddedReadWrite() bool  { return false }
func (t *ScalarType) NeedsResolveReferences() bool  { return false }

func (t *ScalarType) AlignmentAndSize() (int, int) {
	switch t.K {
	case ScalarI8, ScalarU8, ScalarBool, ScalarChar:
		return 1, 1
	case ScalarI16, ScalarU16:
		return 2, 2
	case ScalarI32, ScalarU32, ScalarF32:
		return 4, 4
	default:
		return 8, 8
	}
}

func (t *ScalarType) IsBinder() bool         { return false }
func (t *ScalarType) IsInterface() bool      { return false }
func (t *ScalarType) IsScope() bool          { return false }
func (t *ScalarType) IsEnum() bool           { return false }
func (t *ScalarType) IsTypeDef() bool        { return false }
func (t *ScalarType) IsJavaCompatible() bool { return t.K != ScalarOpaquePtr }
func (t *ScalarType) ResolveToScalar() *ScalarType { return t }

// ---- String ----

type StringType struct{}

func NewStringType() *StringType { return &StringType{} }

func (t *StringType) Kind() TypeKind  { return KindString }
func (t *StringType) TypeName() string { return "" }

func (t *StringType) NativeType(mode StorageMode) string {
	if mode == StorageArgument {
		return "const hidl_string&"
	}
	return "hidl_string"
}
func (t *StringType) ManagedType() string     { return "String" }
func (t *StringType) DescriptorType() string  { return "string" }

func (t *StringType) NeedsEmbeddedReadWrite() bool { return true }
func (t *StringType) NeedsResolveReferences() bool { return false }
func (t *StringType) AlignmentAndSize() (int, int) { return 8, 16 }
func (t *StringType) IsBinder() bool               { return false }
func (t *StringType) IsInterface() bool            { return false }
func (t *StringType) IsScope() bool                { return false }
func (t *StringType) IsEnum() bool                 { return false }
func (t *StringType) IsTypeDef() bool              { return false }
func (t *StringType) IsJavaCompatible() bool       { return true }
func (t *StringType) ResolveToScalar() *ScalarType { return nil }

// ---- Handle ----

type HandleType struct{}

func NewHandleType() *HandleType { return &HandleType{} }

func (t *HandleType) Kind() TypeKind  { return KindHandle }
func (t *HandleType) TypeName() string { return "" }

func (t *HandleType) NativeType(mode StorageMode) string {
	if mode == StorageArgument {
		return "const hidl_handle&"
	}
	return "hidl_handle"
}
func (t *HandleType) ManagedType() string    { return "NativeHandle" }
func (t *HandleType) DescriptorType() string { return "handle" }

func (t *HandleType) NeedsEmbeddedReadWrite() bool { return true }
func (t *HandleType) NeedsResolveReferences() bool { return false }
func (t *HandleType) AlignmentAndSize() (int, int) { return 8, 8 }
func (t *HandleType) IsBinder() bool               { return false }
func (t *HandleType) IsInterface() bool            { return false }
func (t *HandleType) IsScope() bool                { return false }
func (t *HandleType) IsEnum() bool                 { return false }
func (t *HandleType) IsTypeDef() bool              { return false }
func (t *HandleType) IsJavaCompatible() bool       { return false }
func (t *HandleType) ResolveToScalar() *ScalarType { return nil }

// ---- Enum ----

// EnumValue is one named member of an enum, with its resolved
// constant expression (auto-filled from the previous member plus one
// when the source omits an initializer).
type EnumValue struct {
	Name string
	Expr ConstExpr
}

type EnumType struct {
	LocalName string
	Storage   Type // transitively resolves to a Scalar
	Values    []EnumValue
	Super     *EnumType // non-nil if this enum extends another
}

func NewEnumType(name string, storage Type) *EnumType {
	if storage == nil {
		storage = NewScalarType(ScalarI32)
	}
	return &EnumType{LocalName: name, Storage: storage}
}

// AddValue appends a member. If expr is nil, the value is the
// previous member's value plus one (0 for the first member), the
// auto-increment fill spec section 3 describes.
func (e *EnumType) AddValue(name string, expr ConstExpr) EnumValue {
	if expr == nil {
		prev := ConstValue{}
		if len(e.Values) > 0 {
			prev = e.Values[len(e.Values)-1].Expr.Value()
		} else if e.Super != nil && len(e.Super.Values) > 0 {
			prev = e.Super.Values[len(e.Super.Values)-1].Expr.Value()
		}
		next := prev.AddOne()
		if len(e.Values) == 0 && e.Super == nil {
			next = ConstValue{Width: widthOf(e.resolveScalarKind())}
		}
		expr = NewLiteralExpr(fmt.Sprintf("%d", next.Signed), next)
	}
	v := EnumValue{Name: name, Expr: expr}
	e.Values = append(e.Values, v)
	return v
}

func (e *EnumType) resolveScalarKind() ScalarKind {
	if s := e.ResolveToScalar(); s != nil {
		return s.K
	}
	return ScalarI32
}

func (e *EnumType) Kind() TypeKind   { return KindEnum }
func (e *EnumType) TypeName() string { return e.LocalName }

func (e *EnumType) NativeType(StorageMode) string { return e.LocalName }
func (e *EnumType) ManagedType() string           { return e.LocalName }
func (e *EnumType) DescriptorType() string         { return e.LocalName }

func (e *EnumType) NeedsEmbeddedReadWrite() bool { return false }
func (e *EnumType) NeedsResolveReferences() bool { return false }
func (e *EnumType) AlignmentAndSize() (int, int) { return e.Storage.AlignmentAndSize() }
func (e *EnumType) IsBinder() bool               { return false }
func (e *EnumType) IsInterface() bool            { return false }
func (e *EnumType) IsScope() bool                { return true }
func (e *EnumType) IsEnum() bool                 { return true }
func (e *EnumType) IsTypeDef() bool              { return false }
func (e *EnumType) IsJavaCompatible() bool       { return true }

func (e *EnumType) ResolveToScalar() *ScalarType {
	seen := map[*EnumType]bool{}
	cur := e
	for {
		if seen[cur] {
			return nil
		}
		seen[cur] = true
		if s, ok := cur.Storage.(*ScalarType); ok {
			return s
		}
		if td, ok := cur.Storage.(*TypeDefType); ok {
			return td.ResolveToScalar()
		}
		if next, ok := cur.Storage.(*EnumType); ok {
			cur = next
			continue
		}
		return nil
	}
}

// ---- Compound (struct / union) ----

type CompoundField struct {
	Name string
	Type Type
}

type CompoundType struct {
	LocalName string
	Fields    []CompoundField
	IsUnion   bool
}

func NewCompoundType(name string, isUnion bool) *CompoundType {
	return &CompoundType{LocalName: name, IsUnion: isUnion}
}

func (c *CompoundType) AddField(name string, t Type) {
	c.Fields = append(c.Fields, CompoundField{Name: name, Type: t})
}

func (c *CompoundType) Kind() TypeKind {
	if c.IsUnion {
		return KindUnion
	}
	return KindStruct
}

func (c *CompoundType) TypeName() string { return c.LocalName }

func (c *CompoundType) NativeType(mode StorageMode) string {
	if mode == StorageArgument {
		return fmt.Sprintf("const %s&", c.LocalName)
	}
	if mode == StorageResult {
		return fmt.Sprintf("const %s*", c.LocalName)
	}
	return c.LocalName
}
func (c *CompoundType) ManagedType() string    { return c.LocalName }
func (c *CompoundType) DescriptorType() string { return c.LocalName }

func (c *CompoundType) NeedsEmbeddedReadWrite() bool {
	for _, f := range c.Fields {
		if f.Type.NeedsEmbeddedReadWrite() {
			return true
		}
	}
	return false
}

func (c *CompoundType) NeedsResolveReferences() bool {
	for _, f := range c.Fields {
		if f.Type.Kind() == KindReference || f.Type.NeedsResolveReferences() {
			return true
		}
	}
	return false
}

// FieldLayout is one field's position within its owning compound,
// computed by AlignmentAndSize's layout pass and reused by the
// serialization synthesizer to locate each field's embedded offset
// (spec section 4.7's struct emission).
type FieldLayout struct {
	Field  CompoundField
	Offset int
}

// Layout computes every field's offset in declaration order using
// C-style alignment (spec section 8, scenario S4): the running offset
// is rounded up to each field's own alignment before the field is
// placed, and the final size is padded up to the compound's overall
// alignment (the max of its fields').
func (c *CompoundType) Layout() (align, size int, fields []FieldLayout) {
	offset := 0
	align = 1
	for _, f := range c.Fields {
		fa, fs := f.Type.AlignmentAndSize()
		align = maxOf(align, fa)
		offset = alignUp(offset, fa)
		fields = append(fields, FieldLayout{Field: f, Offset: offset})
		offset += fs
	}
	size = alignUp(offset, align)
	if len(c.Fields) == 0 {
		align, size = 1, 0
	}
	return align, size, fields
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

func (c *CompoundType) AlignmentAndSize() (int, int) {
	align, size, _ := c.Layout()
	return align, size
}

func (c *CompoundType) IsBinder() bool    { return false }
func (c *CompoundType) IsInterface() bool { return false }
func (c *CompoundType) IsScope() bool     { return true }
func (c *CompoundType) IsEnum() bool      { return false }
func (c *CompoundType) IsTypeDef() bool   { return false }

func (c *CompoundType) IsJavaCompatible() bool {
	if c.IsUnion {
		return false
	}
	for _, f := range c.Fields {
		if !f.Type.IsJavaCompatible() {
			return false
		}
	}
	return true
}

func (c *CompoundType) ResolveToScalar() *ScalarType { return nil }

// ---- Vector ----

type VectorType struct{ Element Type }

func NewVectorType(elem Type) *VectorType { return &VectorType{Element: elem} }

func (t *VectorType) Kind() TypeKind  { return KindVector }
func (t *VectorType) TypeName() string { return "" }

func (t *VectorType) NativeType(mode StorageMode) string {
	inner := fmt.Sprintf("hidl_vec<%s>", t.Element.NativeType(StorageStack))
	if mode == StorageArgument {
		return "const " + inner + "&"
	}
	return inner
}
func (t *VectorType) ManagedType() string {
	return fmt.Sprintf("ArrayList<%s>", boxManagedType(t.Element.ManagedType()))
}
func (t *VectorType) DescriptorType() string {
	return fmt.Sprintf("vec<%s>", t.Element.DescriptorType())
}

func (t *VectorType) NeedsEmbeddedReadWrite() bool { return true }
func (t *VectorType) NeedsResolveReferences() bool { return t.Element.NeedsResolveReferences() }
func (t *VectorType) AlignmentAndSize() (int, int) { return 8, 16 }
func (t *VectorType) IsBinder() bool               { return false }
func (t *VectorType) IsInterface() bool            { return false }
func (t *VectorType) IsScope() bool                { return false }
func (t *VectorType) IsEnum() bool                 { return false }
func (t *VectorType) IsTypeDef() bool              { return false }
func (t *VectorType) IsJavaCompatible() bool       { return t.Element.IsJavaCompatible() }
func (t *VectorType) ResolveToScalar() *ScalarType { return nil }

func boxManagedType(prim string) string {
	box := map[string]string{
		"byte": "Byte", "short": "Short", "int": "Integer", "long": "Long",
		"float": "Float", "double": "Double", "boolean": "Boolean", "char": "Character",
	}
	if b, ok := box[prim]; ok {
		return b
	}
	return prim
}

// ---- Array ----

type ArrayType struct {
	Element Type
	Dim     ConstExpr
}

func NewArrayType(elem Type, dim ConstExpr) *ArrayType { return &ArrayType{Element: elem, Dim: dim} }

// DimValue returns the array's compile-time dimension as an int.
func (t *ArrayType) DimValue() int64 {
	v := t.Dim.Value()
	if v.Unsign {
		return int64(v.Unsigned)
	}
	return v.Signed
}

func (t *ArrayType) Kind() TypeKind  { return KindArray }
func (t *ArrayType) TypeName() string { return "" }

func (t *ArrayType) NativeType(mode StorageMode) string {
	inner := fmt.Sprintf("%s[%d]", t.Element.NativeType(StorageStack), t.DimValue())
	if mode == StorageArgument {
		return fmt.Sprintf("const %s", inner)
	}
	return inner
}
func (t *ArrayType) ManagedType() string    { return t.Element.ManagedType() + "[]" }
func (t *ArrayType) DescriptorType() string { return fmt.Sprintf("%s[%d]", t.Element.DescriptorType(), t.DimValue()) }

func (t *ArrayType) NeedsEmbeddedReadWrite() bool { return t.Element.NeedsEmbeddedReadWrite() }
func (t *ArrayType) NeedsResolveReferences() bool { return t.Element.NeedsResolveReferences() }

func (t *ArrayType) AlignmentAndSize() (int, int) {
	ea, es := t.Element.AlignmentAndSize()
	return ea, es * int(t.DimValue())
}

func (t *ArrayType) IsBinder() bool               { return false }
func (t *ArrayType) IsInterface() bool            { return false }
func (t *ArrayType) IsScope() bool                { return false }
func (t *ArrayType) IsEnum() bool                 { return false }
func (t *ArrayType) IsTypeDef() bool              { return false }
func (t *ArrayType) IsJavaCompatible() bool       { return t.Element.IsJavaCompatible() }
func (t *ArrayType) ResolveToScalar() *ScalarType { return nil }

// ---- TypeDef ----

type TypeDefType struct {
	LocalName string
	Aliased   Type
}

func NewTypeDefType(name string, aliased Type) *TypeDefType {
	return &TypeDefType{LocalName: name, Aliased: aliased}
}

func (t *TypeDefType) Kind() TypeKind  { return KindTypeDef }
func (t *TypeDefType) TypeName() string { return t.LocalName }

func (t *TypeDefType) NativeType(mode StorageMode) string { return t.LocalName }
func (t *TypeDefType) ManagedType() string                { return t.Aliased.ManagedType() }
func (t *TypeDefType) DescriptorType() string              { return t.LocalName }

func (t *TypeDefType) NeedsEmbeddedReadWrite() bool { return t.Aliased.NeedsEmbeddedReadWrite() }
func (t *TypeDefType) NeedsResolveReferences() bool { return t.Aliased.NeedsResolveReferences() }
func (t *TypeDefType) AlignmentAndSize() (int, int) { return t.Aliased.AlignmentAndSize() }
func (t *TypeDefType) IsBinder() bool               { return t.Aliased.IsBinder() }
func (t *TypeDefType) IsInterface() bool            { return t.Aliased.IsInterface() }
func (t *TypeDefType) IsScope() bool                { return false }
func (t *TypeDefType) IsEnum() bool                 { return false }
func (t *TypeDefType) IsTypeDef() bool              { return true }
func (t *TypeDefType) IsJavaCompatible() bool       { return t.Aliased.IsJavaCompatible() }
func (t *TypeDefType) ResolveToScalar() *ScalarType { return t.Aliased.ResolveToScalar() }

// ---- Interface ----

// Param is one method input or output.
type Param struct {
	Name string
	Type Type
}

// Method is one interface member (spec section 3). SerialID is
// assigned by InterfaceType.AddMethod when the method is appended
// (spec section 6: contiguous starting after the super-interface's
// last ID).
type Method struct {
	Name        string
	Inputs      []Param
	Outputs     []Param
	OneWay      bool
	Annotations map[string]string
	SerialID    int
}

// ElidableCallback is true iff the method has exactly one output
// whose type has no embedded pointers and is not a native handle,
// permitting the proxy to return it directly rather than through a
// continuation callback (spec section 3).
func (m *Method) ElidableCallback() bool {
	if len(m.Outputs) != 1 {
		return false
	}
	t := m.Outputs[0].Type
	return !t.NeedsEmbeddedReadWrite() && t.Kind() != KindHandle
}

type InterfaceType struct {
	LocalName string
	Super     *InterfaceType
	Methods   []*Method
	Annotations map[string]string
	IsRoot    bool
	Body      *Scope
}

func NewInterfaceType(name string, super *InterfaceType) *InterfaceType {
	return &InterfaceType{LocalName: name, Super: super, Annotations: map[string]string{}}
}

// AddMethod appends a method and assigns it the next serial ID in the
// chain: the super-interface's last ID plus one, then incrementing
// within this interface, per spec section 6.
func (i *InterfaceType) AddMethod(m *Method) {
	m.SerialID = i.nextSerialID()
	i.Methods = append(i.Methods, m)
}

func (i *InterfaceType) nextSerialID() int {
	if len(i.Methods) > 0 {
		return i.Methods[len(i.Methods)-1].SerialID + 1
	}
	if i.Super != nil {
		return i.Super.lastSerialID() + 1
	}
	return 1
}

func (i *InterfaceType) lastSerialID() int {
	if len(i.Methods) > 0 {
		return i.Methods[len(i.Methods)-1].SerialID
	}
	if i.Super != nil {
		return i.Super.lastSerialID()
	}
	return 0
}

// AllMethods returns the methods inherited from the chain followed by
// this interface's own, in the stable wire-code order.
func (i *InterfaceType) AllMethods() []*Method {
	var chain []*InterfaceType
	for cur := i; cur != nil; cur = cur.Super {
		chain = append([]*InterfaceType{cur}, chain...)
	}
	var out []*Method
	for _, ifc := range chain {
		out = append(out, ifc.Methods...)
	}
	return out
}

func (i *InterfaceType) Kind() TypeKind  { return KindInterface }
func (i *InterfaceType) TypeName() string { return i.LocalName }

func (i *InterfaceType) NativeType(mode StorageMode) string {
	if mode == StorageArgument {
		return fmt.Sprintf("const sp<%s>&", i.LocalName)
	}
	return fmt.Sprintf("sp<%s>", i.LocalName)
}
func (i *InterfaceType) ManagedType() string    { return i.LocalName }
func (i *InterfaceType) DescriptorType() string { return i.LocalName }

func (i *InterfaceType) NeedsEmbeddedReadWrite() bool { return true }
func (i *InterfaceType) NeedsResolveReferences() bool { return false }
func (i *InterfaceType) AlignmentAndSize() (int, int) { return 8, 8 }
func (i *InterfaceType) IsBinder() bool               { return true }
func (i *InterfaceType) IsInterface() bool            { return true }
func (i *InterfaceType) IsScope() bool                { return true }
func (i *InterfaceType) IsEnum() bool                 { return false }
func (i *InterfaceType) IsTypeDef() bool              { return false }

func (i *InterfaceType) IsJavaCompatible() bool {
	for cur := i; cur != nil; cur = cur.Super {
		for _, m := range cur.Methods {
			for _, p := range m.Inputs {
				if !p.Type.IsJavaCompatible() {
					return false
				}
			}
			for _, p := range m.Outputs {
				if !p.Type.IsJavaCompatible() {
					return false
				}
			}
		}
	}
	return true
}

func (i *InterfaceType) ResolveToScalar() *ScalarType { return nil }

// ---- Reference ----

// RefType is the only non-owning edge in the type graph: a use-site
// binding that parseTypeRef creates for a name it cannot resolve yet,
// carrying the FQN the use-site spelled plus (once resolved) the Type
// it points to. Coordinator.LookupType does not wrap its result in a
// RefType; it returns the defining Type itself.
type RefType struct {
	FQN    string
	Target Type
}

func NewRefType(fqn string, target Type) *RefType { return &RefType{FQN: fqn, Target: target} }

// Resolve binds an initially-unresolved reference (constructed from a
// name only, ahead of a forward-declared type) to its Type.
func (r *RefType) Resolve(t Type) { r.Target = t }

func (r *RefType) Kind() TypeKind { return KindReference }
func (r *RefType) TypeName() string {
	if r.Target != nil {
		return r.Target.TypeName()
	}
	return r.FQN
}

func (r *RefType) NativeType(mode StorageMode) string {
	if r.Target == nil {
		return r.FQN
	}
	return r.Target.NativeType(mode)
}
func (r *RefType) ManagedType() string {
	if r.Target == nil {
		return r.FQN
	}
	return r.Target.ManagedType()
}
func (r *RefType) DescriptorType() string {
	if r.Target == nil {
		return r.FQN
	}
	return r.Target.DescriptorType()
}

func (r *RefType) NeedsEmbeddedReadWrite() bool {
	return r.Target != nil && r.Target.NeedsEmbeddedReadWrite()
}
func (r *RefType) NeedsResolveReferences() bool { return true }
func (r *RefType) AlignmentAndSize() (int, int) {
	if r.Target == nil {
		return 8, 8
	}
	return r.Target.AlignmentAndSize()
}
func (r *RefType) IsBinder() bool    { return r.Target != nil && r.Target.IsBinder() }
func (r *RefType) IsInterface() bool { return r.Target != nil && r.Target.IsInterface() }
func (r *RefType) IsScope() bool     { return r.Target != nil && r.Target.IsScope() }
func (r *RefType) IsEnum() bool      { return r.Target != nil && r.Target.IsEnum() }
func (r *RefType) IsTypeDef() bool   { return r.Target != nil && r.Target.IsTypeDef() }
func (r *RefType) IsJavaCompatible() bool {
	return r.Target != nil && r.Target.IsJavaCompatible()
}
func (r *RefType) ResolveToScalar() *ScalarType {
	if r.Target == nil {
		return nil
	}
	return r.Target.ResolveToScalar()
}

// validateTypeConstraints checks the invariants spec section 3 lists
// that aren't simply structural (enum storage integrality, union
// embedded-pointer freedom, struct/union interface freedom, array
// dimension positivity). Called by the Coordinator once a type is
// fully parsed.
func validateTypeConstraints(t Type) error {
	switch v := t.(type) {
	case *EnumType:
		if v.ResolveToScalar() == nil {
			return TypeConstraintError{TypeName: v.LocalName, Reason: "enum storage type must resolve to an integer scalar"}
		}
	case *CompoundType:
		for _, f := range v.Fields {
			if err := validateTypeConstraints(f.Type); err != nil {
				return err
			}
			if v.IsUnion && f.Type.NeedsEmbeddedReadWrite() {
				return TypeConstraintError{TypeName: v.LocalName, Reason: fmt.Sprintf("union member %q contains a pointer-bearing type", f.Name)}
			}
			if f.Type.IsInterface() {
				kind := "struct"
				if v.IsUnion {
					kind = "union"
				}
				return TypeConstraintError{TypeName: v.LocalName, Reason: fmt.Sprintf("%s member %q may not reference an interface", kind, f.Name)}
			}
		}
	case *ArrayType:
		if v.DimValue() <= 0 {
			return TypeConstraintError{TypeName: typeDisplayName(v), Reason: "array dimension must be a positive integer constant"}
		}
	}
	return nil
}

func typeDisplayName(t Type) string {
	if n := t.TypeName(); n != "" {
		return n
	}
	return strings.ToLower(fmt.Sprintf("%T", t))
}
