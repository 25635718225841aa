package booking

import (
	"math"
	"time"

	"pinecove/internal/domain/calendar"
)

// gracePeriod is the window after booking creation during which cancellation
// always refunds in full, regardless of how close the arrival is.
const gracePeriod = 48 * time.Hour

// RefundCents computes the guest refund for a cancellation at cancelAt.
//
// The 48-hour grace rule is evaluated first and overrides the arrival tiers:
// full refund within 48h of booking creation. Otherwise, tiered by days until
// arrival: >=14 days out refunds 50%, 7-13 days refunds 25%, under 7 days
// refunds nothing.
func RefundCents(totalCents int64, bookedAt time.Time, arrival calendar.Date, cancelAt time.Time) int64 {
	if cancelAt.Sub(bookedAt) <= gracePeriod {
		return totalCents
	}

	daysOut := daysUntilArrival(arrival, cancelAt)
	switch {
	case daysOut >= 14:
		return percentOf(totalCents, 50)
	case daysOut >= 7:
		return percentOf(totalCents, 25)
	default:
		return 0
	}
}

func daysUntilArrival(arrival calendar.Date, at time.Time) int {
	return int(math.Floor(arrival.Time().Sub(at.UTC()).Hours() / 24))
}

func percentOf(cents int64, pct float64) int64 {
	return int64(math.Round(float64(cents) * pct / 100.0))
}
