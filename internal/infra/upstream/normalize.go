package upstream

import (
	"encoding/json"
	"math"
	"sort"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/pkg/errs"
)

// The authority has shipped several calendar response shapes over time: a
// flat day array, a {"days": [...]} envelope, and a map keyed by date. All of
// them are normalized here, once, into canonical entries; nothing past this
// boundary branches on wire shape again.

type wireSpan struct {
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
	Guests    int    `json:"guests"`
	ID        string `json:"id"`
}

type wireDay struct {
	Date             string     `json:"date"`
	Available        bool       `json:"available"`
	MinStay          *int       `json:"min_stay"`
	NightlyRateCents *int64     `json:"nightly_rate_cents"`
	Price            *float64   `json:"price"` // dollars, older shape
	Reservations     []wireSpan `json:"reservations"`
	Spans            []wireSpan `json:"spans"` // older field name
}

type wireEnvelope struct {
	Days []wireDay `json:"days"`
}

// NormalizeCalendar maps any accepted wire shape into canonical entries,
// sorted by date.
func NormalizeCalendar(raw []byte) ([]calendar.Entry, error) {
	var flat []wireDay
	if err := json.Unmarshal(raw, &flat); err == nil {
		return daysToEntries(flat)
	}

	var envelope wireEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Days != nil {
		return daysToEntries(envelope.Days)
	}

	var keyed map[string]wireDay
	if err := json.Unmarshal(raw, &keyed); err == nil {
		days := make([]wireDay, 0, len(keyed))
		for date, day := range keyed {
			if day.Date == "" {
				day.Date = date
			}
			days = append(days, day)
		}
		return daysToEntries(days)
	}

	return nil, errs.New("unrecognized upstream calendar shape")
}

func daysToEntries(days []wireDay) ([]calendar.Entry, error) {
	entries := make([]calendar.Entry, 0, len(days))
	for _, day := range days {
		date, err := calendar.ParseDate(day.Date)
		if err != nil {
			return nil, errs.Wrap(err, "upstream calendar day has invalid date")
		}

		entry := calendar.Entry{
			Date:        date,
			Available:   day.Available,
			MinStay:     day.MinStay,
			NightlyRate: day.NightlyRateCents,
		}
		if entry.NightlyRate == nil && day.Price != nil {
			cents := int64(math.Round(*day.Price * 100))
			entry.NightlyRate = &cents
		}

		spans := day.Reservations
		if len(spans) == 0 {
			spans = day.Spans
		}
		for _, ws := range spans {
			span, err := normalizeSpan(ws)
			if err != nil {
				return nil, err
			}
			entry.Spans = append(entry.Spans, span)
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

func normalizeSpan(ws wireSpan) (calendar.Span, error) {
	arrival, err := calendar.ParseDate(ws.Arrival)
	if err != nil {
		return calendar.Span{}, errs.Wrap(err, "upstream span has invalid arrival")
	}
	departure, err := calendar.ParseDate(ws.Departure)
	if err != nil {
		return calendar.Span{}, errs.Wrap(err, "upstream span has invalid departure")
	}

	span := calendar.Span{Arrival: arrival, Departure: departure, Guests: ws.Guests, Ref: ws.ID}
	if err := span.Validate(); err != nil {
		return calendar.Span{}, errs.Wrap(err, "upstream span invalid")
	}
	return span, nil
}
