//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"pinecove/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timep(t time.Time) *time.Time { return &t }

func TestIncentiveActiveAt(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		incentive pricing.Incentive
		want      bool
	}{
		{"no window is always active", pricing.Incentive{Code: "EVERGREEN"}, true},
		{"inside window", pricing.Incentive{
			ValidFrom: timep(now.Add(-time.Hour)),
			ValidTo:   timep(now.Add(time.Hour)),
		}, true},
		{"before window opens", pricing.Incentive{ValidFrom: timep(now.Add(time.Hour))}, false},
		{"after window closes", pricing.Incentive{ValidTo: timep(now.Add(-time.Hour))}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.incentive.ActiveAt(now))
		})
	}
}

func TestIncentiveToDiscount(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("active incentive converts", func(t *testing.T) {
		i := pricing.Incentive{Code: "FRIEND10", Type: pricing.DiscountPercent, Value: 10}
		d, err := i.ToDiscount(now)
		require.NoError(t, err)
		assert.Equal(t, pricing.DiscountPercent, d.Type)
		assert.Equal(t, 10.0, d.Value)
		assert.Equal(t, "FRIEND10", d.Code)
		assert.Zero(t, d.AmountCents)
	})

	t.Run("expired incentive is rejected", func(t *testing.T) {
		i := pricing.Incentive{Code: "GONE", ValidTo: timep(now.Add(-time.Minute))}
		_, err := i.ToDiscount(now)
		assert.ErrorIs(t, err, pricing.ErrInactiveIncentive)
	})
}
