//go:build unit

package pricing_test

import (
	"testing"

	"pinecove/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() pricing.Rates {
	return pricing.Rates{
		TaxPercent:        8.0,
		ChannelFeePercent: 3.0,
		CleaningFeeCents:  12500,
		PetFeeCents:       7500,
		Currency:          "USD",
	}
}

func TestCompute(t *testing.T) {
	t.Run("base case without discount or pets", func(t *testing.T) {
		b, err := pricing.Compute(10000, 3, nil, false, testRates())
		require.NoError(t, err)

		assert.Equal(t, int64(30000), b.SubtotalCents)
		assert.Equal(t, int64(30000), b.DiscountedSubtotalCents)
		assert.Equal(t, int64(2400), b.TaxCents)
		assert.Equal(t, int64(900), b.ChannelFeeCents)
		assert.Equal(t, int64(12500), b.CleaningFeeCents)
		assert.Equal(t, int64(0), b.PetFeeCents)
		assert.Equal(t, int64(45800), b.TotalCents)
		assert.Equal(t, "USD", b.Currency)
		assert.False(t, b.Estimated)
	})

	t.Run("pet fee is a flat add-on outside the tax base", func(t *testing.T) {
		withPets, err := pricing.Compute(10000, 3, nil, true, testRates())
		require.NoError(t, err)
		without, err := pricing.Compute(10000, 3, nil, false, testRates())
		require.NoError(t, err)

		assert.Equal(t, without.TaxCents, withPets.TaxCents)
		assert.Equal(t, without.TotalCents+7500, withPets.TotalCents)
	})

	t.Run("percent discount shrinks the tax and fee base", func(t *testing.T) {
		d := &pricing.Discount{Type: pricing.DiscountPercent, Value: 10, Code: "FRIEND10"}
		b, err := pricing.Compute(10000, 3, d, false, testRates())
		require.NoError(t, err)

		require.NotNil(t, b.Discount)
		assert.Equal(t, int64(3000), b.Discount.AmountCents)
		assert.Equal(t, int64(27000), b.DiscountedSubtotalCents)
		assert.Equal(t, int64(2160), b.TaxCents)
		assert.Equal(t, int64(810), b.ChannelFeeCents)
		assert.Equal(t, int64(42470), b.TotalCents)
	})

	t.Run("fixed discount larger than subtotal is clamped", func(t *testing.T) {
		d := &pricing.Discount{Type: pricing.DiscountFixed, Value: 99999999}
		b, err := pricing.Compute(10000, 2, d, false, testRates())
		require.NoError(t, err)

		assert.Equal(t, int64(20000), b.Discount.AmountCents)
		assert.Equal(t, int64(0), b.DiscountedSubtotalCents)
		assert.Equal(t, int64(0), b.TaxCents)
		assert.Equal(t, int64(12500), b.TotalCents)
	})

	t.Run("negative discount value never increases the price", func(t *testing.T) {
		d := &pricing.Discount{Type: pricing.DiscountFixed, Value: -500}
		b, err := pricing.Compute(10000, 2, d, false, testRates())
		require.NoError(t, err)
		assert.Equal(t, int64(0), b.Discount.AmountCents)
		assert.Equal(t, b.SubtotalCents, b.DiscountedSubtotalCents)
	})

	t.Run("percentages round per step", func(t *testing.T) {
		// 3333 * 3 = 9999; 8% = 799.92 -> 800, 3% = 299.97 -> 300.
		b, err := pricing.Compute(3333, 3, nil, false, testRates())
		require.NoError(t, err)
		assert.Equal(t, int64(800), b.TaxCents)
		assert.Equal(t, int64(300), b.ChannelFeeCents)
	})

	t.Run("identical inputs produce identical breakdowns", func(t *testing.T) {
		d := &pricing.Discount{Type: pricing.DiscountPercent, Value: 15, Code: "LOYAL15"}
		first, err := pricing.Compute(17750, 5, d, true, testRates())
		require.NoError(t, err)
		second, err := pricing.Compute(17750, 5, d, true, testRates())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("input validation", func(t *testing.T) {
		_, err := pricing.Compute(10000, 0, nil, false, testRates())
		assert.ErrorIs(t, err, pricing.ErrInvalidNights)

		_, err = pricing.Compute(10000, -2, nil, false, testRates())
		assert.ErrorIs(t, err, pricing.ErrInvalidNights)

		_, err = pricing.Compute(-1, 2, nil, false, testRates())
		assert.ErrorIs(t, err, pricing.ErrNegativeRate)
	})
}
