package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundType_Layout_Padding(t *testing.T) {
	// struct { uint8_t a; uint32_t b; uint8_t c; } -> align 4, size 12
	// (a at 0, pad to 4 for b at 4, b at 4..8, c at 8, pad to 12).
	st := NewCompoundType("S", false)
	st.AddField("a", NewScalarType(ScalarU8))
	st.AddField("b", NewScalarType(ScalarU32))
	st.AddField("c", NewScalarType(ScalarU8))

	align, size, layout := st.Layout()
	assert.Equal(t, 4, align)
	assert.Equal(t, 12, size)

	require.Len(t, layout, 3)
	assert.Equal(t, 0, layout[0].Offset)
	assert.Equal(t, 4, layout[1].Offset)
	assert.Equal(t, 8, layout[2].Offset)
}

func TestCompoundType_Layout_Empty(t *testing.T) {
	st := NewCompoundType("Empty", false)
	align, size, _ := st.Layout()
	assert.Equal(t, 1, align)
	assert.Equal(t, 0, size)
}

func TestEnumType_AutoFill(t *testing.T) {
	e := NewEnumType("Color", NewScalarType(ScalarI32))
	e.AddValue("RED", nil)
	e.AddValue("GREEN", nil)
	e.AddValue("BLUE", NewLiteralExpr("10", newSigned(10, Width32)))
	e.AddValue("YELLOW", nil)

	require.Len(t, e.Values, 4)
	assert.Equal(t, int64(0), e.Values[0].Expr.Value().Signed)
	assert.Equal(t, int64(1), e.Values[1].Expr.Value().Signed)
	assert.Equal(t, int64(10), e.Values[2].Expr.Value().Signed)
	assert.Equal(t, int64(11), e.Values[3].Expr.Value().Signed)
}

func TestEnumType_ResolveToScalar(t *testing.T) {
	base := NewEnumType("Base", NewScalarType(ScalarU8))
	derived := NewEnumType("Derived", base)
	assert.Same(t, base.Storage.(*ScalarType), derived.ResolveToScalar())
}

func TestInterfaceType_SerialIDChaining(t *testing.T) {
	base := NewInterfaceType("IBase", nil)
	base.AddMethod(&Method{Name: "ping"})
	base.AddMethod(&Method{Name: "pong"})

	derived := NewInterfaceType("IDerived", base)
	derived.AddMethod(&Method{Name: "extra"})

	all := derived.AllMethods()
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].SerialID)
	assert.Equal(t, 2, all[1].SerialID)
	assert.Equal(t, 3, all[2].SerialID)
}

func TestMethod_ElidableCallback(t *testing.T) {
	scalarOut := &Method{Outputs: []Param{{Name: "x", Type: NewScalarType(ScalarI32)}}}
	assert.True(t, scalarOut.ElidableCallback())

	handleOut := &Method{Outputs: []Param{{Name: "h", Type: NewHandleType()}}}
	assert.False(t, handleOut.ElidableCallback())

	multiOut := &Method{Outputs: []Param{
		{Name: "x", Type: NewScalarType(ScalarI32)},
		{Name: "y", Type: NewScalarType(ScalarI32)},
	}}
	assert.False(t, multiOut.ElidableCallback())
}

func TestUnionRejectsEmbeddedPointerMembers(t *testing.T) {
	u := NewCompoundType("U", true)
	u.AddField("s", NewStringType())
	err := validateTypeConstraints(u)
	require.Error(t, err)
	var tce TypeConstraintError
	require.ErrorAs(t, err, &tce)
}

func TestStructMayNotReferenceInterface(t *testing.T) {
	ifc := NewInterfaceType("IFoo", nil)
	st := NewCompoundType("S", false)
	st.AddField("callback", ifc)
	err := validateTypeConstraints(st)
	require.Error(t, err)
}

func TestArrayType_RejectsNonPositiveDimension(t *testing.T) {
	zero := NewLiteralExpr("0", newSigned(0, Width32))
	arr := NewArrayType(NewScalarType(ScalarI32), zero)
	err := validateTypeConstraints(arr)
	require.Error(t, err)
}

func TestCompoundType_IsJavaCompatible(t *testing.T) {
	st := NewCompoundType("S", false)
	st.AddField("n", NewScalarType(ScalarI32))
	assert.True(t, st.IsJavaCompatible())

	st.AddField("h", NewHandleType())
	assert.False(t, st.IsJavaCompatible())

	union := NewCompoundType("U", true)
	assert.False(t, union.IsJavaCompatible())
}

func TestVectorAndArrayType_AlignmentAndSize(t *testing.T) {
	vec := NewVectorType(NewScalarType(ScalarI32))
	align, size := vec.AlignmentAndSize()
	assert.Equal(t, 8, align)
	assert.Equal(t, 16, size)

	dim := NewLiteralExpr("4", newSigned(4, Width32))
	arr := NewArrayType(NewScalarType(ScalarI32), dim)
	align, size = arr.AlignmentAndSize()
	assert.Equal(t, 4, align)
	assert.Equal(t, 16, size)
}
