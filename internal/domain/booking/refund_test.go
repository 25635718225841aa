//go:build unit

package booking_test

import (
	"testing"
	"time"

	"pinecove/internal/domain/booking"
	"pinecove/internal/domain/calendar"

	"github.com/stretchr/testify/assert"
)

func TestRefundCents(t *testing.T) {
	arrival := calendar.NewDate(2026, time.June, 1)
	arrivalMidnight := arrival.Time()
	const total = int64(100000)

	t.Run("grace period refunds in full even close to arrival", func(t *testing.T) {
		bookedAt := arrivalMidnight.Add(-72 * time.Hour)
		cancelAt := bookedAt.Add(24 * time.Hour) // 2 days before arrival

		assert.Equal(t, total, booking.RefundCents(total, bookedAt, arrival, cancelAt))
	})

	t.Run("grace period boundary is inclusive", func(t *testing.T) {
		bookedAt := arrivalMidnight.Add(-60 * 24 * time.Hour)
		assert.Equal(t, total, booking.RefundCents(total, bookedAt, arrival, bookedAt.Add(48*time.Hour)))
		assert.NotEqual(t, total, booking.RefundCents(total, bookedAt, arrival, bookedAt.Add(48*time.Hour+time.Second)))
	})

	t.Run("tiers by days until arrival", func(t *testing.T) {
		bookedAt := arrivalMidnight.Add(-90 * 24 * time.Hour)

		cases := []struct {
			name    string
			daysOut int
			want    int64
		}{
			{"far out refunds half", 30, 50000},
			{"exactly fourteen days refunds half", 14, 50000},
			{"thirteen days refunds a quarter", 13, 25000},
			{"exactly seven days refunds a quarter", 7, 25000},
			{"six days refunds nothing", 6, 0},
			{"day of arrival refunds nothing", 0, 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				cancelAt := arrivalMidnight.Add(-time.Duration(tc.daysOut) * 24 * time.Hour)
				assert.Equal(t, tc.want, booking.RefundCents(total, bookedAt, arrival, cancelAt))
			})
		}
	})

	t.Run("partial day counts as the lower tier", func(t *testing.T) {
		bookedAt := arrivalMidnight.Add(-90 * 24 * time.Hour)
		// 13 days and 20 hours out floors to 13 days.
		cancelAt := arrivalMidnight.Add(-13*24*time.Hour - 20*time.Hour)
		assert.Equal(t, int64(25000), booking.RefundCents(total, bookedAt, arrival, cancelAt))
	})

	t.Run("odd amounts round to the nearest cent", func(t *testing.T) {
		bookedAt := arrivalMidnight.Add(-90 * 24 * time.Hour)
		cancelAt := arrivalMidnight.Add(-20 * 24 * time.Hour)
		assert.Equal(t, int64(5001), booking.RefundCents(10001, bookedAt, arrival, cancelAt))
	})
}
