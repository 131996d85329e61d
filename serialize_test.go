package hidl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitWrite_CompoundSplitsFlatAndEmbedded(t *testing.T) {
	ct := NewCompoundType("S", false)
	ct.AddField("n", NewScalarType(ScalarI32))
	ct.AddField("s", NewStringType())

	s := NewSink()
	EmitWrite(s, nativeWireOps, ct, "obj", "_hidl_data", true, ErrorModeGotoLabel)
	out := s.String()

	nIdx := strings.Index(out, "obj.n")
	sIdx := strings.Index(out, "obj.s")
	require.GreaterOrEqual(t, nIdx, 0)
	require.GreaterOrEqual(t, sIdx, 0)
	assert.Less(t, nIdx, sIdx, "flat scalar field must be written before the embedded string field")
}

func TestEmitWrite_CompoundSkipsEmbeddedPassWhenNotTopLevel(t *testing.T) {
	ct := NewCompoundType("S", false)
	ct.AddField("s", NewStringType())

	s := NewSink()
	EmitWrite(s, nativeWireOps, ct, "obj", "_hidl_data", false, ErrorModeGotoLabel)
	assert.Empty(t, s.String(), "a nested (non-top-level) compound must not emit its embedded pass directly")
}

func TestEmitRead_EnumReadsThroughStorage(t *testing.T) {
	e := NewEnumType("Color", NewScalarType(ScalarU8))
	s := NewSink()
	EmitRead(s, nativeWireOps, e, "out", "_hidl_reply", false, ErrorModeGotoLabel)
	out := s.String()
	assert.Contains(t, out, "readUint8")
	assert.Contains(t, out, "static_cast<Color>")
}

func TestPassthroughQueueCapacity_Default(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 3000, PassthroughQueueCapacity(cfg))
}

func TestEmitMethodSignature_ElidesCallbackParam(t *testing.T) {
	m := &Method{Name: "getPoint", Outputs: []Param{{Name: "x", Type: NewScalarType(ScalarI32)}}}
	s := NewSink()
	EmitMethodSignature(s, m, "void")
	assert.NotContains(t, s.String(), "_hidl_cb")
}

func TestEmitMethodSignature_MultiOutputUsesCallback(t *testing.T) {
	m := &Method{Name: "getPoint", Outputs: []Param{
		{Name: "x", Type: NewScalarType(ScalarI32)},
		{Name: "y", Type: NewScalarType(ScalarI32)},
	}}
	s := NewSink()
	EmitMethodSignature(s, m, "void")
	assert.Contains(t, s.String(), "getPoint_cb _hidl_cb")
}
