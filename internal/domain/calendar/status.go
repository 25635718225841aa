package calendar

import "sort"

type Status string

const (
	// StatusOpen: selectable as a new check-in or as a checkout day.
	StatusOpen Status = "open"
	// StatusCheckoutOnly: usable only to end a stay that began earlier, never to
	// begin one.
	StatusCheckoutOnly Status = "checkout-only"
	// StatusSolidBlock: unusable for any stay boundary.
	StatusSolidBlock Status = "solid-block"
)

// Window is an immutable view over one resource's calendar entries with the
// arrival lookahead precomputed, so per-date status stays linear in the number
// of dates instead of quadratic over date pairs.
type Window struct {
	entries        map[Date]Entry
	arrivals       map[Date]bool
	departures     map[Date]bool
	sortedArrivals []Date
	spans          []Span
}

func NewWindow(entries []Entry) *Window {
	w := &Window{
		entries:    make(map[Date]Entry, len(entries)),
		arrivals:   make(map[Date]bool),
		departures: make(map[Date]bool),
	}

	seen := make(map[Span]bool)
	for _, e := range entries {
		w.entries[e.Date] = e
		for _, s := range e.Spans {
			if s.Validate() != nil || seen[s] {
				continue
			}
			seen[s] = true
			w.spans = append(w.spans, s)
			w.arrivals[s.Arrival] = true
			w.departures[s.Departure] = true
		}
	}

	w.sortedArrivals = make([]Date, 0, len(w.arrivals))
	for d := range w.arrivals {
		w.sortedArrivals = append(w.sortedArrivals, d)
	}
	sort.Slice(w.sortedArrivals, func(i, j int) bool {
		return w.sortedArrivals[i].Before(w.sortedArrivals[j])
	})

	return w
}

// NextArrivalAfter returns the nearest arrival date strictly after d, or nil.
func (w *Window) NextArrivalAfter(d Date) *Date {
	i := sort.Search(len(w.sortedArrivals), func(i int) bool {
		return w.sortedArrivals[i].After(d)
	})
	if i == len(w.sortedArrivals) {
		return nil
	}
	next := w.sortedArrivals[i]
	return &next
}

func (w *Window) Entry(d Date) (Entry, bool) {
	e, ok := w.entries[d]
	return e, ok
}

// MinStay returns the minimum-stay requirement recorded for d, 0 when none.
func (w *Window) MinStay(d Date) int {
	if e, ok := w.entries[d]; ok && e.MinStay != nil {
		return *e.MinStay
	}
	return 0
}

// NightlyRate returns the upstream-quoted rate for d in cents, 0 when unknown.
func (w *Window) NightlyRate(d Date) int64 {
	if e, ok := w.entries[d]; ok && e.NightlyRate != nil {
		return *e.NightlyRate
	}
	return 0
}

func (w *Window) insideAnySpan(d Date) bool {
	for _, s := range w.spans {
		if s.Contains(d) {
			return true
		}
	}
	return false
}

// StatusOf computes the status of one date, optionally relative to an
// in-progress check-in selection. The rules are mutually exclusive and
// evaluated in order; a later rule applies only when no earlier one matched.
//
//  1. Back-to-back turnover (arrival and departure on the same day), or a date
//     strictly inside any span: solid-block.
//  2. Flagged unavailable and not an arrival: solid-block.
//  3. Flagged unavailable but an arrival: checkout-only (a stay that began
//     before it may still end here).
//  4. Selecting the date as check-in would violate its minimum stay before the
//     next known arrival: checkout-only.
//  5. Otherwise open. A date with no entry at all is optimistically open.
func (w *Window) StatusOf(d Date, selectedCheckIn *Date) Status {
	isArrival := w.arrivals[d]
	isDeparture := w.departures[d]

	if isArrival && isDeparture {
		return StatusSolidBlock
	}
	if w.insideAnySpan(d) {
		return StatusSolidBlock
	}

	entry, known := w.entries[d]
	if known && !entry.Available {
		if isArrival {
			return StatusCheckoutOnly
		}
		return StatusSolidBlock
	}

	if selectedCheckIn != nil && d.After(*selectedCheckIn) {
		return w.checkoutStatus(d, *selectedCheckIn)
	}

	if known && entry.MinStay != nil {
		if next := w.NextArrivalAfter(d); next != nil && d.DaysUntil(*next) < *entry.MinStay {
			return StatusCheckoutOnly
		}
	}

	return StatusOpen
}

// checkoutStatus evaluates d as a candidate checkout day for a stay starting
// at checkIn: the stay may run up to (and including, as turnover) the next
// arrival, and must satisfy the check-in date's minimum stay.
func (w *Window) checkoutStatus(d, checkIn Date) Status {
	if next := w.NextArrivalAfter(checkIn); next != nil {
		switch {
		case d.After(*next):
			return StatusSolidBlock
		case d.Equal(*next):
			return StatusCheckoutOnly
		}
	}
	if min := w.MinStay(checkIn); min > 0 && checkIn.DaysUntil(d) < min {
		return StatusSolidBlock
	}
	return StatusOpen
}
