package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFQN(t *testing.T) FQName {
	fq, ok := ParseFQName("android.hardware.foo@1.0::IFoo")
	require.True(t, ok)
	return fq
}

func TestGenNativeHeader_GuardAndNamespace(t *testing.T) {
	fqn := testFQN(t)
	ct := NewCompoundType("Point", false)
	ct.AddField("x", NewScalarType(ScalarI32))
	ct.AddField("y", NewScalarType(ScalarI32))

	out := GenNativeHeader(fqn, "types", []Type{ct}, NativeFull)
	assert.Contains(t, out, "#ifndef HIDL_GENERATED_ANDROID_HARDWARE_FOO_V1_0_TYPES_H_")
	assert.Contains(t, out, "namespace android {")
	assert.Contains(t, out, "namespace V1_0 {")
	assert.Contains(t, out, "struct Point {")
}

func TestGenNativeHeader_HeaderOnlyOmitsProxyDecl(t *testing.T) {
	fqn := testFQN(t)
	ifc := NewInterfaceType("IFoo", nil)
	ifc.AddMethod(&Method{Name: "ping"})

	full := GenNativeHeader(fqn, "IFoo", []Type{ifc}, NativeFull)
	headerOnly := GenNativeHeader(fqn, "IFoo", []Type{ifc}, NativeHeaderOnly)

	assert.Contains(t, full, "BpIFoo")
	assert.NotContains(t, headerOnly, "BpIFoo")
}

func TestGenNativeSource_ElidableCallbackReturnsValueDirectly(t *testing.T) {
	fqn := testFQN(t)
	ifc := NewInterfaceType("IFoo", nil)
	ifc.AddMethod(&Method{Name: "getX", Outputs: []Param{{Name: "x", Type: NewScalarType(ScalarI32)}}})

	out := GenNativeSource(fqn, "IFoo", ifc, ErrorModeGotoLabel)
	assert.Contains(t, out, "Return<int32_t> BpIFoo::getX")
	assert.Contains(t, out, "return ::android::hardware::Return<int32_t>(_hidl_out_x);")
}

func TestGenNativeSource_SerialIDsAppearInTransact(t *testing.T) {
	fqn := testFQN(t)
	base := NewInterfaceType("IBase", nil)
	base.AddMethod(&Method{Name: "ping"})
	derived := NewInterfaceType("IFoo", base)
	derived.AddMethod(&Method{Name: "pong"})

	out := GenNativeSource(fqn, "IFoo", derived, ErrorModeGotoLabel)
	assert.Contains(t, out, "remote()->transact(1 /* ping */")
	assert.Contains(t, out, "remote()->transact(2 /* pong */")
}
