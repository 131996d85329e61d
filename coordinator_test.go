package hidl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS builds a FileReader over an in-memory path->content map, so
// Coordinator tests never touch the real filesystem.
func memFS(files map[string]string) FileReader {
	return func(path string) ([]byte, error) {
		if content, ok := files[path]; ok {
			return []byte(content), nil
		}
		return nil, fmt.Errorf("no such file: %s", path)
	}
}

func TestCoordinator_Parse_ResolvesTypesAndInterfaceFiles(t *testing.T) {
	files := map[string]string{
		"/root/android/hardware/foo/V1_0/types.hal": `
			package android.hardware.foo@1.0;

			struct Point {
				int32_t x;
				int32_t y;
			};
		`,
		"/root/android/hardware/foo/V1_0/IFoo.hal": `
			package android.hardware.foo@1.0;

			import android.hardware.foo@1.0::types;

			interface IFoo {
				getPoint() generates (int32_t x);
			};
		`,
	}
	coord := NewCoordinator(
		[]RootMapping{{Prefix: "android.hardware.foo", Path: "/root/android/hardware/foo"}},
		memFS(files),
		ParseFile,
	)

	ifaceFQN, ok := ParseFQName("android.hardware.foo@1.0::IFoo")
	require.True(t, ok)

	ast, err := coord.Parse(ifaceFQN)
	require.NoError(t, err)
	require.Len(t, ast.Interfaces(), 1)
	assert.Equal(t, "IFoo", ast.Interfaces()[0].LocalName)

	pointFQN, ok := ParseFQName("android.hardware.foo@1.0::Point")
	require.True(t, ok)
	typ, err := coord.LookupType(pointFQN)
	require.NoError(t, err)
	ct, ok := typ.(*CompoundType)
	require.True(t, ok)
	assert.Len(t, ct.Fields, 2)
}

func TestCoordinator_Parse_CachesSecondLookup(t *testing.T) {
	reads := 0
	files := map[string]string{
		"/root/a/b/V1_0/types.hal": `package a.b@1.0; struct S { int32_t x; };`,
	}
	reader := func(path string) ([]byte, error) {
		reads++
		return memFS(files)(path)
	}
	coord := NewCoordinator([]RootMapping{{Prefix: "a.b", Path: "/root/a/b"}}, reader, ParseFile)

	fq, _ := ParseFQName("a.b@1.0::types")
	_, err := coord.Parse(fq)
	require.NoError(t, err)
	_, err = coord.Parse(fq)
	require.NoError(t, err)
	assert.Equal(t, 1, reads, "second Parse of the same FQName must hit the cache")
}

// TestCoordinator_Parse_BreaksImportCycle locks in the S2 fixture from
// spec section 8: A.hal imports B, B.hal imports A. parse(A) must
// complete without infinite recursion, both ASTs end up in the cache,
// and the re-entrant import of A from inside B's parse observes the
// in-progress sentinel and succeeds without re-entry or an error.
func TestCoordinator_Parse_BreaksImportCycle(t *testing.T) {
	files := map[string]string{
		"/root/a/V1_0/types.hal": `
			package a@1.0;
			import b@1.0::types;
			struct S { int32_t x; };
		`,
		"/root/b/V1_0/types.hal": `
			package b@1.0;
			import a@1.0::types;
			struct T { int32_t y; };
		`,
	}
	coord := NewCoordinator([]RootMapping{
		{Prefix: "a", Path: "/root/a"},
		{Prefix: "b", Path: "/root/b"},
	}, memFS(files), ParseFile)

	fq, _ := ParseFQName("a@1.0::types")
	ast, err := coord.Parse(fq)
	require.NoError(t, err)
	require.NotNil(t, ast)
	assert.Len(t, ast.Root.Types(), 1)

	bFQ, _ := ParseFQName("b@1.0::types")
	bAst, err := coord.Parse(bFQ)
	require.NoError(t, err)
	require.NotNil(t, bAst)
	assert.Len(t, bAst.Root.Types(), 1)
}

func TestCoordinator_LookupType_Unresolved(t *testing.T) {
	coord := NewCoordinator(nil, memFS(nil), ParseFile)
	fq, _ := ParseFQName("a.b@1.0::Missing")
	_, err := coord.LookupType(fq)
	require.Error(t, err)
}

func TestCoordinator_GetPackagePath_LongestPrefixWins(t *testing.T) {
	coord := NewCoordinator([]RootMapping{
		{Prefix: "android.hardware", Path: "/generic"},
		{Prefix: "android.hardware.foo", Path: "/specific"},
	}, memFS(nil), ParseFile)

	fq, _ := ParseFQName("android.hardware.foo@1.0::IFoo")
	path, err := coord.getPackagePath(fq)
	require.NoError(t, err)
	assert.Contains(t, path, "/specific/")
}
