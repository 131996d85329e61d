package hidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text       string
		wantSigned int64
		wantUnsign bool
	}{
		{"5", 5, false},
		{"5u", 5, true},
		{"5U", 5, true},
		{"0x10", 16, false},
		{"010", 8, false},
		{"0b101", 5, false},
		{"5ul", 5, true},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			lit, err := ParseLiteral(tc.text)
			require.NoError(t, err)
			v := lit.Value()
			assert.Equal(t, tc.wantUnsign, v.Unsign)
			if tc.wantUnsign {
				assert.Equal(t, uint64(tc.wantSigned), v.Unsigned)
			} else {
				assert.Equal(t, tc.wantSigned, v.Signed)
			}
		})
	}
}

func TestBinaryExpr_Arithmetic(t *testing.T) {
	five, _ := ParseLiteral("5")
	three, _ := ParseLiteral("3")

	add := NewBinaryExpr("+", five, three)
	assert.Equal(t, int64(8), add.Value().Signed)

	sub := NewBinaryExpr("-", five, three)
	assert.Equal(t, int64(2), sub.Value().Signed)

	mul := NewBinaryExpr("*", five, three)
	assert.Equal(t, int64(15), mul.Value().Signed)
}

func TestBinaryExpr_ShiftAdoptsLeftOperandKind(t *testing.T) {
	left := NewLiteralExpr("1", newSigned(1, Width8))
	right := NewLiteralExpr("4", newUnsigned(4, Width64))

	shifted := NewBinaryExpr("<<", left, right)
	v := shifted.Value()

	assert.Equal(t, Width8, v.Width, "shift result width follows the left operand, not the promoted width")
	assert.False(t, v.Unsign, "shift result signedness follows the left operand")
	assert.Equal(t, int64(16), v.Signed)
}

func TestBinaryExpr_UnsignedWinsPromotion(t *testing.T) {
	signed := NewLiteralExpr("5", newSigned(5, Width32))
	unsigned := NewLiteralExpr("3", newUnsigned(3, Width32))

	sum := NewBinaryExpr("+", signed, unsigned)
	assert.True(t, sum.Value().Unsign)
}

func TestUnaryExpr(t *testing.T) {
	five, _ := ParseLiteral("5")
	neg := NewUnaryExpr("-", five)
	assert.Equal(t, int64(-5), neg.Value().Signed)

	not := NewUnaryExpr("!", NewLiteralExpr("0", newSigned(0, Width32)))
	assert.Equal(t, int64(1), not.Value().Signed)
}

func TestTernaryExpr(t *testing.T) {
	truthy := NewLiteralExpr("1", newSigned(1, Width32))
	falsy := NewLiteralExpr("0", newSigned(0, Width32))
	a, _ := ParseLiteral("10")
	b, _ := ParseLiteral("20")

	assert.Equal(t, int64(10), NewTernaryExpr(truthy, a, b).Value().Signed)
	assert.Equal(t, int64(20), NewTernaryExpr(falsy, a, b).Value().Signed)
}

func TestConstValue_AddOne(t *testing.T) {
	v := newUnsigned(254, Width8)
	next := v.AddOne()
	assert.Equal(t, uint64(255), next.Unsigned)
}

func TestConstValue_InRange(t *testing.T) {
	v := newUnsigned(255, Width8)
	assert.True(t, v.InRange(ScalarU8))
	assert.False(t, v.InRange(ScalarI8))

	over := newUnsigned(256, Width16)
	assert.False(t, over.InRange(ScalarU8))
}

func TestRenderNative(t *testing.T) {
	v := newUnsigned(5, Width8)
	assert.Equal(t, "5u8", RenderNative(v, ScalarU8))

	signed := newSigned(-5, Width32)
	assert.Equal(t, "-5", RenderNative(signed, ScalarI32))
}

func TestRenderManaged_SignExtendsHighBit(t *testing.T) {
	v := newUnsigned(0xFF, Width8)
	assert.Equal(t, "-1", RenderManaged(v, ScalarU8))
}
