package request

import (
	"pinecove/internal/domain/calendar"
	"pinecove/internal/pkg/errs"
)

// AvailabilityQuery binds the query string of the availability endpoints.
// Dates are ISO calendar days; the range is half-open, end is the departure
// day and is not itself part of the stay.
type AvailabilityQuery struct {
	Start  string `form:"start" binding:"required"`
	End    string `form:"end" binding:"required"`
	Guests int    `form:"guests" binding:"required,min=1"`
}

func (q AvailabilityQuery) ParseRange() (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(q.Start)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, errs.Mark(errs.Newf("invalid start date %q", q.Start), errs.ErrInvalidInput)
	}
	end, err := calendar.ParseDate(q.End)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, errs.Mark(errs.Newf("invalid end date %q", q.End), errs.ErrInvalidInput)
	}
	return start, end, nil
}
