package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFQName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantPkg string
		wantVer bool
		wantTl  string
	}{
		{name: "full", input: "android.hardware.foo@1.0::IFoo", wantOK: true, wantPkg: "android.hardware.foo", wantVer: true, wantTl: "IFoo"},
		{name: "package and version only", input: "android.hardware.foo@1.0", wantOK: true, wantPkg: "android.hardware.foo", wantVer: true},
		{name: "version and tail only", input: "@1.0::IFoo", wantOK: true, wantVer: true, wantTl: "IFoo"},
		{name: "bare tail", input: "IFoo", wantOK: true, wantTl: "IFoo"},
		{name: "dotted tail", input: "android.hardware.foo@1.0::Outer.Inner", wantOK: true, wantPkg: "android.hardware.foo", wantVer: true, wantTl: "Outer.Inner"},
		{name: "invalid", input: "###", wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fq, ok := ParseFQName(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				return
			}
			assert.Equal(t, tc.wantPkg, fq.Package)
			assert.Equal(t, tc.wantVer, fq.HasVersion())
			assert.Equal(t, tc.wantTl, fq.Tail)
		})
	}
}

func TestFQName_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"android.hardware.foo@1.0::IFoo",
		"android.hardware.foo@2.1::IBar",
		"x.y.z@1.0::Outer.Inner",
	} {
		fq, ok := ParseFQName(s)
		require.True(t, ok, s)
		require.True(t, fq.IsFullyQualified(), s)
		assert.Equal(t, s, fq.String())

		again, ok := ParseFQName(fq.String())
		require.True(t, ok)
		assert.True(t, fq.Equal(again))
	}
}

func TestFQName_DefaultApply_Idempotent(t *testing.T) {
	fq, ok := ParseFQName("IFoo")
	require.True(t, ok)

	applied := fq.DefaultApply("android.hardware.foo", 1, 0)
	assert.Equal(t, "android.hardware.foo", applied.Package)
	assert.True(t, applied.HasVersion())
	assert.Equal(t, 1, applied.Major)
	assert.Equal(t, 0, applied.Minor)

	appliedTwice := applied.DefaultApply("android.hardware.bar", 9, 9)
	assert.True(t, applied.Equal(appliedTwice), "DefaultApply must be a no-op once every component is present")
}

func TestFQName_VersionComponent(t *testing.T) {
	fq, ok := ParseFQName("android.hardware.foo@1.2::IFoo")
	require.True(t, ok)
	assert.Equal(t, "V1_2", fq.VersionComponent(true))
	assert.Equal(t, "1.2", fq.VersionComponent(false))
}

func TestFQName_PackageAndVersionComponents(t *testing.T) {
	fq, ok := ParseFQName("android.hardware.foo@1.0::IFoo")
	require.True(t, ok)
	assert.Equal(t, []string{"android", "hardware", "foo", "V1_0"}, fq.PackageAndVersionComponents())
}

func TestFQName_WithTail(t *testing.T) {
	fq, ok := ParseFQName("android.hardware.foo@1.0::IFoo")
	require.True(t, ok)
	types := fq.WithTail("types")
	assert.Equal(t, "android.hardware.foo@1.0::types", types.String())
}

func TestFQName_Less(t *testing.T) {
	a, _ := ParseFQName("android.hardware.a@1.0::IA")
	b, _ := ParseFQName("android.hardware.b@1.0::IB")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}
