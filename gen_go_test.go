package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenManagedSource_RejectsUnion(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	u := NewCompoundType("U", true)
	u.AddField("n", NewScalarType(ScalarI32))

	_, err := GenManagedSource(pkg, u)
	require.Error(t, err)
	var tce TargetCompatibilityError
	require.ErrorAs(t, err, &tce)
	assert.Equal(t, "U", tce.TypeName)
}

func TestGenManagedSource_RejectsHandle(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	st := NewCompoundType("S", false)
	st.AddField("h", NewHandleType())

	_, err := GenManagedSource(pkg, st)
	require.Error(t, err)
}

func TestGenManagedSource_Enum(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	e := NewEnumType("Color", NewScalarType(ScalarI32))
	e.AddValue("RED", nil)
	e.AddValue("GREEN", nil)

	out, err := GenManagedSource(pkg, e)
	require.NoError(t, err)
	assert.Contains(t, out, "package android.hardware.foo.V1_0;")
	assert.Contains(t, out, "public static final Color RED = 0;")
	assert.Contains(t, out, "public static final Color GREEN = 1;")
}

func TestGenManagedSource_InterfaceSkipsIncompatibleMethodDeclButStillErrors(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	ifc := NewInterfaceType("IFoo", nil)
	ifc.AddMethod(&Method{Name: "ok", Outputs: []Param{{Name: "x", Type: NewScalarType(ScalarI32)}}})
	ifc.AddMethod(&Method{Name: "bad", Inputs: []Param{{Name: "h", Type: NewHandleType()}}})

	_, err := GenManagedSource(pkg, ifc)
	require.Error(t, err)
	var tce TargetCompatibilityError
	require.ErrorAs(t, err, &tce)
	assert.Contains(t, tce.Reason, "bad")
}
