package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenDescriptor_EnumListsStorageAndValues(t *testing.T) {
	pkg, ok := ParseFQName("android.hardware.foo@1.0")
	require.True(t, ok)

	e := NewEnumType("Color", NewScalarType(ScalarU8))
	e.AddValue("RED", nil)
	e.AddValue("GREEN", nil)

	out := GenDescriptor(pkg, []Type{e})
	assert.Contains(t, out, `package: "android.hardware.foo@1.0"`)
	assert.Contains(t, out, `- enum "Color":`)
	assert.Contains(t, out, `storage: "u8"`)
	assert.Contains(t, out, `- "RED" = 0`)
	assert.Contains(t, out, `- "GREEN" = 1`)
}

func TestGenDescriptor_StructListsFieldOffsets(t *testing.T) {
	pkg, ok := ParseFQName("android.hardware.foo@1.0")
	require.True(t, ok)

	ct := NewCompoundType("Point", false)
	ct.AddField("x", NewScalarType(ScalarI32))
	ct.AddField("y", NewScalarType(ScalarI32))

	out := GenDescriptor(pkg, []Type{ct})
	assert.Contains(t, out, `- struct "Point":`)
	assert.Contains(t, out, `"x": "i32" (offset: 0)`)
	assert.Contains(t, out, `"y": "i32" (offset: 4)`)
}

func TestGenDescriptor_UnionUsesUnionKeyword(t *testing.T) {
	pkg, ok := ParseFQName("android.hardware.foo@1.0")
	require.True(t, ok)

	ut := NewCompoundType("Either", true)
	ut.AddField("n", NewScalarType(ScalarI32))

	out := GenDescriptor(pkg, []Type{ut})
	assert.Contains(t, out, `- union "Either":`)
}

func TestGenDescriptor_InterfaceListsInheritedMethodsWithChainedSerials(t *testing.T) {
	pkg, ok := ParseFQName("android.hardware.foo@1.0")
	require.True(t, ok)

	base := NewInterfaceType("IBase", nil)
	base.AddMethod(&Method{Name: "ping"})
	derived := NewInterfaceType("IFoo", base)
	derived.AddMethod(&Method{Name: "pong", OneWay: true})

	out := GenDescriptor(pkg, []Type{derived})
	assert.Contains(t, out, `- interface "IFoo":`)
	assert.Contains(t, out, `extends: "IBase"`)
	assert.Contains(t, out, `- "ping":`)
	assert.Contains(t, out, `- "pong":`)
	assert.Contains(t, out, "serial: 1")
	assert.Contains(t, out, "serial: 2")
	assert.Contains(t, out, "oneway: true")
}

func TestGenDescriptor_TypedefRendersAliasedDescriptorType(t *testing.T) {
	pkg, ok := ParseFQName("android.hardware.foo@1.0")
	require.True(t, ok)

	td := NewTypeDefType("Handle32", NewScalarType(ScalarU32))

	out := GenDescriptor(pkg, []Type{td})
	assert.Contains(t, out, `- typedef "Handle32": "u32"`)
}
