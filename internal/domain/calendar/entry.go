package calendar

import "errors"

var ErrInvalidSpan = errors.New("span departure must be after arrival")

// Span is one reservation's arrival/departure pair. The interval is half-open:
// the arrival night is occupied, the departure day is a valid checkout day.
type Span struct {
	Arrival   Date   `json:"arrival"`
	Departure Date   `json:"departure"`
	Guests    int    `json:"guests"`
	Ref       string `json:"ref,omitempty"` // upstream reservation identifier
}

func (s Span) Validate() error {
	if !s.Departure.After(s.Arrival) {
		return ErrInvalidSpan
	}
	return nil
}

func (s Span) Nights() int {
	return s.Arrival.DaysUntil(s.Departure)
}

// Contains reports whether d falls strictly between arrival and departure.
func (s Span) Contains(d Date) bool {
	return d.After(s.Arrival) && d.Before(s.Departure)
}

// Entry is one resource-day as reported by the upstream authority. Entries are
// replaced wholesale on every sync, never partially mutated.
type Entry struct {
	Date        Date   `json:"date"`
	Available   bool   `json:"available"`
	MinStay     *int   `json:"min_stay,omitempty"`
	NightlyRate *int64 `json:"nightly_rate_cents,omitempty"`
	Spans       []Span `json:"spans,omitempty"`
}
