//go:build unit

package calendar_test

import (
	"testing"

	"pinecove/internal/domain/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func intp(v int) *int { return &v }

// occupiedWindow builds a calendar with one reservation from arrival to
// departure: occupied nights are flagged unavailable, the departure day stays
// available for the next guest.
func occupiedWindow(t *testing.T, arrival, departure string, extra ...calendar.Entry) *calendar.Window {
	t.Helper()
	a, d := date(t, arrival), date(t, departure)
	span := calendar.Span{Arrival: a, Departure: d, Guests: 2, Ref: "r1"}

	entries := make([]calendar.Entry, 0, a.DaysUntil(d)+1+len(extra))
	for _, day := range calendar.DatesBetween(a, d) {
		entries = append(entries, calendar.Entry{Date: day, Available: false, Spans: []calendar.Span{span}})
	}
	entries = append(entries, calendar.Entry{Date: d, Available: true, Spans: []calendar.Span{span}})
	entries = append(entries, extra...)
	return calendar.NewWindow(entries)
}

func TestStatusOf(t *testing.T) {
	w := occupiedWindow(t, "2026-03-10", "2026-03-14")

	t.Run("arrival flagged unavailable is checkout only", func(t *testing.T) {
		assert.Equal(t, calendar.StatusCheckoutOnly, w.StatusOf(date(t, "2026-03-10"), nil))
	})

	t.Run("dates inside a span are solid", func(t *testing.T) {
		for _, s := range []string{"2026-03-11", "2026-03-12", "2026-03-13"} {
			assert.Equal(t, calendar.StatusSolidBlock, w.StatusOf(date(t, s), nil), s)
		}
	})

	t.Run("departure day is open for the next guest", func(t *testing.T) {
		assert.Equal(t, calendar.StatusOpen, w.StatusOf(date(t, "2026-03-14"), nil))
	})

	t.Run("unknown dates are optimistically open", func(t *testing.T) {
		assert.Equal(t, calendar.StatusOpen, w.StatusOf(date(t, "2026-07-01"), nil))
	})

	t.Run("flagged unavailable without any span is solid", func(t *testing.T) {
		blocked := occupiedWindow(t, "2026-03-10", "2026-03-14",
			calendar.Entry{Date: date(t, "2026-03-20"), Available: false})
		assert.Equal(t, calendar.StatusSolidBlock, blocked.StatusOf(date(t, "2026-03-20"), nil))
	})
}

func TestStatusOfBackToBackTurnover(t *testing.T) {
	// One stay departs 03-14, the next arrives the same day.
	a1, d1 := date(t, "2026-03-10"), date(t, "2026-03-14")
	a2, d2 := date(t, "2026-03-14"), date(t, "2026-03-17")
	s1 := calendar.Span{Arrival: a1, Departure: d1, Guests: 2, Ref: "r1"}
	s2 := calendar.Span{Arrival: a2, Departure: d2, Guests: 2, Ref: "r2"}

	w := calendar.NewWindow([]calendar.Entry{
		{Date: d1, Available: false, Spans: []calendar.Span{s1, s2}},
	})

	assert.Equal(t, calendar.StatusSolidBlock, w.StatusOf(d1, nil))
}

func TestStatusOfMinStayLookahead(t *testing.T) {
	// Next arrival is 2026-03-07. A min-stay-3 check-in too close to it cannot
	// start a valid stay, so the date degrades to checkout-only.
	span := calendar.Span{Arrival: date(t, "2026-03-07"), Departure: date(t, "2026-03-10"), Ref: "r1"}

	w := calendar.NewWindow([]calendar.Entry{
		{Date: date(t, "2026-03-04"), Available: true, MinStay: intp(3)},
		{Date: date(t, "2026-03-05"), Available: true, MinStay: intp(3)},
		{Date: date(t, "2026-03-07"), Available: false, MinStay: intp(3), Spans: []calendar.Span{span}},
	})

	t.Run("enough room before next arrival", func(t *testing.T) {
		assert.Equal(t, calendar.StatusOpen, w.StatusOf(date(t, "2026-03-04"), nil))
	})

	t.Run("too close to next arrival", func(t *testing.T) {
		assert.Equal(t, calendar.StatusCheckoutOnly, w.StatusOf(date(t, "2026-03-05"), nil))
	})
}

func TestStatusOfWithSelectedCheckIn(t *testing.T) {
	// Guest has picked 2026-03-05 as check-in; next arrival is 2026-03-10.
	span := calendar.Span{Arrival: date(t, "2026-03-10"), Departure: date(t, "2026-03-14"), Ref: "r1"}
	checkIn := date(t, "2026-03-05")

	w := calendar.NewWindow([]calendar.Entry{
		{Date: checkIn, Available: true, MinStay: intp(3)},
		{Date: date(t, "2026-03-10"), Available: false, Spans: []calendar.Span{span}},
	})

	cases := []struct {
		name string
		d    string
		want calendar.Status
	}{
		{"under the check-in minimum stay", "2026-03-07", calendar.StatusSolidBlock},
		{"satisfies minimum stay, before next arrival", "2026-03-08", calendar.StatusOpen},
		{"exactly the next arrival is turnover checkout", "2026-03-10", calendar.StatusCheckoutOnly},
		{"past the next arrival", "2026-03-11", calendar.StatusSolidBlock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.StatusOf(date(t, tc.d), &checkIn))
		})
	}
}

func TestNextArrivalAfter(t *testing.T) {
	s1 := calendar.Span{Arrival: date(t, "2026-03-10"), Departure: date(t, "2026-03-12"), Ref: "r1"}
	s2 := calendar.Span{Arrival: date(t, "2026-03-20"), Departure: date(t, "2026-03-22"), Ref: "r2"}
	w := calendar.NewWindow([]calendar.Entry{
		{Date: date(t, "2026-03-10"), Available: false, Spans: []calendar.Span{s1}},
		{Date: date(t, "2026-03-20"), Available: false, Spans: []calendar.Span{s2}},
	})

	next := w.NextArrivalAfter(date(t, "2026-03-01"))
	require.NotNil(t, next)
	assert.Equal(t, "2026-03-10", next.String())

	// Strictly after: the arrival date itself does not count.
	next = w.NextArrivalAfter(date(t, "2026-03-10"))
	require.NotNil(t, next)
	assert.Equal(t, "2026-03-20", next.String())

	assert.Nil(t, w.NextArrivalAfter(date(t, "2026-03-20")))
}

func TestWindowDeduplicatesSpans(t *testing.T) {
	// The same reservation reported on every one of its dates counts once.
	span := calendar.Span{Arrival: date(t, "2026-03-10"), Departure: date(t, "2026-03-13"), Ref: "r1"}
	w := calendar.NewWindow([]calendar.Entry{
		{Date: date(t, "2026-03-10"), Available: false, Spans: []calendar.Span{span}},
		{Date: date(t, "2026-03-11"), Available: false, Spans: []calendar.Span{span}},
		{Date: date(t, "2026-03-12"), Available: false, Spans: []calendar.Span{span}},
	})

	next := w.NextArrivalAfter(date(t, "2026-03-01"))
	require.NotNil(t, next)
	assert.Equal(t, "2026-03-10", next.String())
	assert.Nil(t, w.NextArrivalAfter(date(t, "2026-03-10")))
}
