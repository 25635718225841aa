package booking

import (
	"errors"
	"time"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidStay       = errors.New("departure must be after arrival")
	ErrInvalidGuests     = errors.New("guest count must be positive")
	ErrMissingPaymentRef = errors.New("payment authorization reference required")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrNothingToChange   = errors.New("modification changes nothing")
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentSucceeded, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusModified  Status = "modified"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusModified:
		return true
	default:
		return false
	}
}

type Guest struct {
	Name  string
	Email string
	Phone string
}

// Booking is the durable record of a confirmed reservation. It is created only
// after payment authorization succeeded and the upstream authority confirmed
// the dates, and it is never hard-deleted: cancellation is a status
// transition, not removal.
type Booking struct {
	id            uuid.UUID
	resourceID    uuid.UUID
	arrival       calendar.Date
	departure     calendar.Date
	guests        int
	price         pricing.Breakdown
	guest         Guest
	paymentRef    string
	paymentStatus PaymentStatus
	status        Status
	refundedCents int64
	upstreamRef   string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewBooking(
	resourceID uuid.UUID,
	arrival, departure calendar.Date,
	guests int,
	price pricing.Breakdown,
	guest Guest,
	paymentRef string,
	upstreamRef string,
	now time.Time,
) (*Booking, error) {
	if !departure.After(arrival) {
		return nil, ErrInvalidStay
	}
	if guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if paymentRef == "" {
		return nil, ErrMissingPaymentRef
	}

	return &Booking{
		id:            uuid.New(),
		resourceID:    resourceID,
		arrival:       arrival,
		departure:     departure,
		guests:        guests,
		price:         price,
		guest:         guest,
		paymentRef:    paymentRef,
		paymentStatus: PaymentSucceeded,
		status:        StatusConfirmed,
		upstreamRef:   upstreamRef,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func Reconstruct(
	id, resourceID uuid.UUID,
	arrival, departure calendar.Date,
	guests int,
	price pricing.Breakdown,
	guest Guest,
	paymentRef string,
	paymentStatus PaymentStatus,
	status Status,
	refundedCents int64,
	upstreamRef string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		resourceID:    resourceID,
		arrival:       arrival,
		departure:     departure,
		guests:        guests,
		price:         price,
		guest:         guest,
		paymentRef:    paymentRef,
		paymentStatus: paymentStatus,
		status:        status,
		refundedCents: refundedCents,
		upstreamRef:   upstreamRef,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) ResourceID() uuid.UUID        { return b.resourceID }
func (b *Booking) Arrival() calendar.Date       { return b.arrival }
func (b *Booking) Departure() calendar.Date     { return b.departure }
func (b *Booking) Guests() int                  { return b.guests }
func (b *Booking) Price() pricing.Breakdown     { return b.price }
func (b *Booking) Guest() Guest                 { return b.guest }
func (b *Booking) PaymentRef() string           { return b.paymentRef }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) RefundedCents() int64         { return b.refundedCents }
func (b *Booking) UpstreamRef() string          { return b.upstreamRef }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

func (b *Booking) Nights() int {
	return b.arrival.DaysUntil(b.departure)
}

// Cancel moves the booking to cancelled and records the refund owed. The
// transition itself never depends on the refund actually being issued.
func (b *Booking) Cancel(refundCents int64, now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.status = StatusCancelled
	b.refundedCents = refundCents
	b.updatedAt = now
	return nil
}

// Modification carries the partial update of a modify request; nil fields are
// left untouched.
type Modification struct {
	Arrival   *calendar.Date
	Departure *calendar.Date
	Guests    *int
}

func (m Modification) IsEmpty(b *Booking) bool {
	changed := false
	if m.Arrival != nil && !m.Arrival.Equal(b.arrival) {
		changed = true
	}
	if m.Departure != nil && !m.Departure.Equal(b.departure) {
		changed = true
	}
	if m.Guests != nil && *m.Guests != b.guests {
		changed = true
	}
	return !changed
}

// NewRange resolves the stay range the modification asks for, defaulting to
// the booking's current dates.
func (m Modification) NewRange(b *Booking) (calendar.Date, calendar.Date) {
	arrival, departure := b.arrival, b.departure
	if m.Arrival != nil {
		arrival = *m.Arrival
	}
	if m.Departure != nil {
		departure = *m.Departure
	}
	return arrival, departure
}

// ApplyModification rewrites dates/guests. Price is deliberately not
// re-quoted; drift from upstream rate changes is surfaced to operators.
func (b *Booking) ApplyModification(m Modification, upstreamRef string, now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if m.IsEmpty(b) {
		return ErrNothingToChange
	}

	arrival, departure := m.NewRange(b)
	if !departure.After(arrival) {
		return ErrInvalidStay
	}
	guests := b.guests
	if m.Guests != nil {
		guests = *m.Guests
	}
	if guests <= 0 {
		return ErrInvalidGuests
	}

	b.arrival = arrival
	b.departure = departure
	b.guests = guests
	b.status = StatusModified
	if upstreamRef != "" {
		b.upstreamRef = upstreamRef
	}
	b.updatedAt = now
	return nil
}
