package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_AddType_DuplicateRejected(t *testing.T) {
	s := NewScope(nil)
	require.NoError(t, s.AddType(NewCompoundType("S", false)))
	err := s.AddType(NewCompoundType("S", false))
	require.Error(t, err)
	var dup DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "S", dup.Name)
}

func TestScope_Lookup_WalksParent(t *testing.T) {
	root := NewScope(nil)
	require.NoError(t, root.AddType(NewCompoundType("Outer", false)))

	child := NewScope(root)
	require.NoError(t, child.AddType(NewCompoundType("Inner", false)))

	_, ok := child.Lookup("Outer")
	assert.True(t, ok, "child scope should see its parent's types")

	_, ok = root.Lookup("Inner")
	assert.False(t, ok, "parent scope must not see its child's types")
}

func TestScope_LookupLocal_DoesNotWalk(t *testing.T) {
	root := NewScope(nil)
	require.NoError(t, root.AddType(NewCompoundType("Outer", false)))
	child := NewScope(root)

	_, ok := child.LookupLocal("Outer")
	assert.False(t, ok)
}

func TestScope_Constants(t *testing.T) {
	s := NewScope(nil)
	lit, _ := ParseLiteral("16")
	require.NoError(t, s.AddConstant(ScopedConstant{Name: "SIZE", Type: NewScalarType(ScalarU32), Expr: lit}))

	c, ok := s.LookupConstant("SIZE")
	require.True(t, ok)
	assert.Equal(t, int64(16), c.Expr.Value().Signed)

	err := s.AddConstant(ScopedConstant{Name: "SIZE", Type: NewScalarType(ScalarU32), Expr: lit})
	require.Error(t, err)
}

func TestAST_ContainsSingleInterface(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	ast := NewAST(pkg)
	require.NoError(t, ast.AddScopedType(NewInterfaceType("IFoo", nil)))
	assert.True(t, ast.ContainsSingleInterface())

	require.NoError(t, ast.AddScopedType(NewCompoundType("Extra", false)))
	assert.False(t, ast.ContainsSingleInterface())
}

func TestAST_EnterLeaveScope(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	ast := NewAST(pkg)
	root := ast.CurrentScope()

	nested := ast.EnterScope()
	assert.Same(t, root, nested.Parent)
	assert.Same(t, nested, ast.CurrentScope())

	ast.LeaveScope()
	assert.Same(t, root, ast.CurrentScope())
}

func TestAST_LeaveScope_PanicsAtRoot(t *testing.T) {
	pkg, _ := ParseFQName("android.hardware.foo@1.0")
	ast := NewAST(pkg)
	assert.Panics(t, func() { ast.LeaveScope() })
}
