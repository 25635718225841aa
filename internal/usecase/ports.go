package usecase

import (
	"context"
	"errors"
	"time"

	"pinecove/internal/domain/booking"
	"pinecove/internal/domain/calendar"
	"pinecove/internal/domain/pricing"

	"github.com/google/uuid"
)

// ErrDirectBookingUnsupported is returned by the upstream gateway when the
// authority cannot take a direct API reservation for a resource. It is a
// distinct create outcome (deferred to the external widget), not a failure.
var ErrDirectBookingUnsupported = errors.New("direct booking unsupported upstream")

// Write-side snapshots keep the usecases off the read-model query types.
type ResourceSnapshot struct {
	ID            uuid.UUID
	Name          string
	UpstreamID    string
	Capacity      int
	BaseRateCents int64
	ImageURL      string
}

type ResourceReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ResourceSnapshot, error)
	List(ctx context.Context) ([]*ResourceSnapshot, error)
}

type IncentiveReader interface {
	// FindByCode resolves a referral code to its incentive rule. Activation
	// windows are evaluated by the caller against its clock.
	FindByCode(ctx context.Context, code string) (*pricing.Incentive, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// Update persists b only while the stored reservation status still equals
	// expected, keeping lifecycle transitions idempotent under races.
	Update(ctx context.Context, b *booking.Booking, expected booking.Status) error
	// UpdatePaymentStatusIf moves payment status from -> to for the booking
	// holding paymentRef; reports whether a row actually changed.
	UpdatePaymentStatusIf(ctx context.Context, paymentRef string, from, to booking.PaymentStatus) (bool, error)
	// InsertPaymentEvent records a processor event id once; reports false when
	// the id was already seen (duplicate webhook delivery).
	InsertPaymentEvent(ctx context.Context, eventID string, seenAt time.Time) (bool, error)
}

// UpstreamQuote is the authority's pricing answer for a range.
type UpstreamQuote struct {
	NightlyCents int64
	TotalCents   int64
}

// UpstreamReservation is the registration payload sent to the authority.
type UpstreamReservation struct {
	UpstreamID string
	Arrival    calendar.Date
	Departure  calendar.Date
	Guests     int
	GuestName  string
	GuestEmail string
}

// UpstreamGateway is the property-management authority boundary. Every call is
// a network call with a bounded timeout; failures are marked
// errs.ErrUpstreamUnavailable, commit-time conflicts errs.ErrConflict.
type UpstreamGateway interface {
	GetCalendar(ctx context.Context, upstreamID string, start, end calendar.Date) ([]calendar.Entry, error)
	GetPricing(ctx context.Context, upstreamID string, start, end calendar.Date, guests int) (*UpstreamQuote, error)
	CreateReservation(ctx context.Context, res UpstreamReservation) (string, error)
	DeleteReservation(ctx context.Context, ref string) error
	// WidgetURL is the external booking-widget fallback for deferred creates.
	WidgetURL() string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
	Status       string
}

type PaymentGateway interface {
	Authorize(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	Confirm(ctx context.Context, intentID string) (*PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	Refund(ctx context.Context, intentID string, amountCents int64, reason string) (string, error)
}

// CalendarCache is the local materialization of the upstream calendar. Read
// always succeeds, possibly stale or empty; it is never consulted for commit
// decisions.
type CalendarCache interface {
	Read(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date) ([]calendar.Entry, error)
	Write(ctx context.Context, resourceID uuid.UUID, entries []calendar.Entry) error
}

// AvailabilityCache memoizes check results for identical queries over a short
// TTL and supports invalidation of everything tagged with one resource.
type AvailabilityCache interface {
	Get(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int) (*AvailabilityResult, bool)
	Put(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int, result AvailabilityResult)
	InvalidateResource(ctx context.Context, resourceID uuid.UUID) error
}

// RefreshJob carries freshly fetched entries to the background cache syncer.
type RefreshJob struct {
	ResourceID uuid.UUID
	Entries    []calendar.Entry
}

// SyncQueue accepts fire-and-forget refresh jobs. Submit never blocks; a full
// queue drops the job.
type SyncQueue interface {
	Submit(job RefreshJob) bool
}

type BookingEvent struct {
	Kind       string    `json:"kind"`
	BookingID  uuid.UUID `json:"booking_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Arrival    string    `json:"arrival"`
	Departure  string    `json:"departure"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher feeds the out-of-scope notification pipeline. Best-effort:
// failures are logged by callers, never propagated.
type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}
