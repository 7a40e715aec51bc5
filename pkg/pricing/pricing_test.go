package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse(" 25,000 ")
	require.NoError(t, err)
	assert.Equal(t, "25000", d.String())

	for _, bad := range []string{"", "abc", "0", "-5", "12.5.1", "12.9999", "0.5", "1999.9996"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("1,250,000")
	require.NoError(t, err)
	assert.Equal(t, "1250000", got)

	got, err = Normalize("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Normalize("12500.00")
	require.NoError(t, err)
	assert.Equal(t, "12500", got)

	_, err = Normalize("free")
	assert.Error(t, err)
	_, err = Normalize("12.9999")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatRoundsToWholeAmounts(t *testing.T) {
	assert.Equal(t, "13", Format(decimal.RequireFromString("12.9999")))
	assert.Equal(t, "2,000", Format(decimal.RequireFromString("1999.9996")))
	assert.Equal(t, "1,250,000", Format(decimal.NewFromInt(1250000)))
}

func TestLegacyAmount(t *testing.T) {
	assert.Equal(t, "25000", LegacyAmount("From KES 25,000"))
	assert.Equal(t, "1200", LegacyAmount("KES 1200 only"))
	assert.Equal(t, "", LegacyAmount("Call for price"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "From KES 20,000", Display("25000", "20000"))
	assert.Equal(t, "From KES 25,000", Display("25000", ""))
	assert.Equal(t, "From KES 1,250,000", Display("1250000", "junk"))
	assert.Equal(t, "From KES 25,000", Display("25000", "12.9999"), "fractional discount falls back to original")
	assert.Equal(t, "", Display("12.9999", ""))
	assert.Equal(t, "", Display("", ""))
}

func TestDiscountPercentage(t *testing.T) {
	assert.Equal(t, 20, DiscountPercentage("25000", "20000"))
	assert.Equal(t, 33, DiscountPercentage("30000", "20000"))
	assert.Equal(t, 67, DiscountPercentage("30000", "10000"))
	assert.Equal(t, 0, DiscountPercentage("20000", "25000"))
	assert.Equal(t, 0, DiscountPercentage("", "100"))
}

func TestIsDiscount(t *testing.T) {
	assert.True(t, IsDiscount("100", "99"))
	assert.False(t, IsDiscount("100", "100"))
	assert.False(t, IsDiscount("100", ""))
}
