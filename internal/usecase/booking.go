package usecase

import (
	"context"
	"errors"
	"log/slog"

	"pinecove/internal/domain/booking"
	"pinecove/internal/domain/calendar"
	"pinecove/internal/domain/pricing"
	"pinecove/internal/infra"
	"pinecove/internal/pkg/clock"
	"pinecove/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingModified  = "booking.modified"
)

type CreateBookingParams struct {
	ResourceID uuid.UUID
	Start      calendar.Date
	End        calendar.Date
	Guests     int
	Guest      booking.Guest
	PaymentRef string
	Quote      pricing.Breakdown
}

type CreateBookingResult struct {
	Booking *booking.Booking
	// Deferred marks the external-widget outcome: the upstream cannot take a
	// direct reservation, the guest completes the flow at WidgetURL instead.
	Deferred  bool
	WidgetURL string
}

type CancelResult struct {
	Booking          *booking.Booking
	AlreadyCancelled bool
	RefundCents      int64
	RefundIssued     bool
	RefundFailure    string
}

type BookingLifecycle interface {
	Create(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error)
	Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, overrideRefundCents *int64) (*CancelResult, error)
	Modify(ctx context.Context, id uuid.UUID, mod booking.Modification) (*booking.Booking, error)
	ApplyPaymentEvent(ctx context.Context, eventID, paymentRef, kind string) error
}

type bookingLifecycleImpl struct {
	bookings    BookingRepository
	resources   ResourceReader
	upstream    UpstreamGateway
	payments    PaymentGateway
	resultCache AvailabilityCache
	events      EventPublisher
	clock       clock.Clock
	logger      *slog.Logger
}

func NewBookingLifecycle(
	bookings BookingRepository,
	resources ResourceReader,
	upstream UpstreamGateway,
	payments PaymentGateway,
	resultCache AvailabilityCache,
	events EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) BookingLifecycle {
	return &bookingLifecycleImpl{
		bookings:    bookings,
		resources:   resources,
		upstream:    upstream,
		payments:    payments,
		resultCache: resultCache,
		events:      events,
		clock:       clk,
		logger:      logger,
	}
}

// Create commits a reservation after payment authorization. Availability is
// re-checked live at commit time: another request, or another sales channel
// entirely, may have taken the range since the quote. The upstream authority
// is the only party with a global view, so its answer wins and the check
// fails closed when it cannot be reached.
func (l *bookingLifecycleImpl) Create(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error) {
	if params.PaymentRef == "" {
		return nil, errs.Mark(errs.New("payment authorization reference required"), errs.ErrInvalidInput)
	}
	if err := validateRange(params.Start, params.End, params.Guests); err != nil {
		return nil, err
	}

	res, err := l.resources.FindByID(ctx, params.ResourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrResourceNotFound)
		}
		return nil, err
	}
	if params.Guests > res.Capacity {
		return nil, errs.Mark(errs.Newf("resource sleeps at most %d guests", res.Capacity), errs.ErrInvalidInput)
	}

	if err := l.recheckLive(ctx, res, params.Start, params.End, ""); err != nil {
		return nil, err
	}

	l.verifyChargeAmount(ctx, params)

	upstreamRef, err := l.upstream.CreateReservation(ctx, UpstreamReservation{
		UpstreamID: res.UpstreamID,
		Arrival:    params.Start,
		Departure:  params.End,
		Guests:     params.Guests,
		GuestName:  params.Guest.Name,
		GuestEmail: params.Guest.Email,
	})
	if err != nil {
		if errors.Is(err, ErrDirectBookingUnsupported) {
			return &CreateBookingResult{Deferred: true, WidgetURL: l.upstream.WidgetURL()}, nil
		}
		if errors.Is(err, errs.ErrConflict) {
			return nil, err
		}
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}

	now := l.clock.Now()
	b, err := booking.NewBooking(res.ID, params.Start, params.End, params.Guests,
		params.Quote, params.Guest, params.PaymentRef, upstreamRef, now)
	if err != nil {
		// The upstream already holds this reservation; do not retry, a retry
		// could register it twice. Operator cleanup required.
		l.logCritical("booking rejected after upstream registration", res.ID, params.Start, params.End, upstreamRef, err)
		return nil, errs.Mark(err, errs.ErrInconsistent)
	}

	if err := l.bookings.Create(ctx, b); err != nil {
		l.logCritical("local persistence failed after upstream registration", res.ID, params.Start, params.End, upstreamRef, err)
		return nil, errs.Mark(err, errs.ErrInconsistent)
	}

	l.afterCommit(b, EventBookingConfirmed)

	return &CreateBookingResult{Booking: b}, nil
}

// recheckLive closes the quote-to-commit window. excludeRef drops the
// booking's own upstream span (and the unavailability it causes) so a
// modification does not conflict with itself.
func (l *bookingLifecycleImpl) recheckLive(ctx context.Context, res *ResourceSnapshot, start, end calendar.Date, excludeRef string) error {
	entries, err := l.upstream.GetCalendar(ctx, res.UpstreamID, start, end)
	if err != nil {
		return errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	if excludeRef != "" {
		entries = withoutOwnSpan(entries, excludeRef)
	}

	result := evaluateRange(calendar.NewWindow(entries), start, end)
	if !result.Available {
		return errs.Mark(errs.New(result.Reason), errs.ErrConflict)
	}
	return nil
}

// withoutOwnSpan removes the excluded reservation's span everywhere and lifts
// the unavailability flag on the dates that span occupied, since those dates
// are only blocked by the reservation being moved.
func withoutOwnSpan(entries []calendar.Entry, ref string) []calendar.Entry {
	var own *calendar.Span
	for _, e := range entries {
		for _, s := range e.Spans {
			if s.Ref == ref {
				span := s
				own = &span
				break
			}
		}
	}
	if own == nil {
		return entries
	}

	out := make([]calendar.Entry, 0, len(entries))
	for _, e := range entries {
		kept := make([]calendar.Span, 0, len(e.Spans))
		for _, s := range e.Spans {
			if s.Ref != ref {
				kept = append(kept, s)
			}
		}
		e.Spans = kept
		if !e.Available && !e.Date.Before(own.Arrival) && e.Date.Before(own.Departure) {
			e.Available = true
		}
		out = append(out, e)
	}
	return out
}

// verifyChargeAmount compares the authorized amount against the quote. The
// quote stays authoritative either way: a mismatch is operator signal, not a
// reason to re-charge the guest.
func (l *bookingLifecycleImpl) verifyChargeAmount(ctx context.Context, params CreateBookingParams) {
	intent, err := l.payments.GetIntent(ctx, params.PaymentRef)
	if err != nil {
		l.logger.Warn("could not verify payment authorization amount",
			"payment_ref", params.PaymentRef, "error", err)
		return
	}
	if intent.AmountCents != params.Quote.TotalCents {
		l.logger.Warn("authorized amount differs from quote",
			"payment_ref", params.PaymentRef,
			"authorized_cents", intent.AmountCents,
			"quoted_cents", params.Quote.TotalCents)
	}
}

func (l *bookingLifecycleImpl) Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

// Cancel transitions the booking and then issues the refund. The transition
// is visible regardless of the refund outcome: a slow or failing processor
// never holds the cancellation hostage. Cancelling an already-cancelled
// booking is a no-op success and never refunds twice.
func (l *bookingLifecycleImpl) Cancel(ctx context.Context, id uuid.UUID, overrideRefundCents *int64) (*CancelResult, error) {
	if overrideRefundCents != nil && *overrideRefundCents < 0 {
		return nil, errs.Mark(errs.New("refund override cannot be negative"), errs.ErrInvalidInput)
	}

	b, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsCancelled() {
		return &CancelResult{Booking: b, AlreadyCancelled: true}, nil
	}

	now := l.clock.Now()
	refund := booking.RefundCents(b.Price().TotalCents, b.CreatedAt(), b.Arrival(), now)
	if overrideRefundCents != nil {
		refund = *overrideRefundCents
	}

	previous := b.Status()
	if err := b.Cancel(refund, now); err != nil {
		return &CancelResult{Booking: b, AlreadyCancelled: true}, nil
	}

	if err := l.bookings.Update(ctx, b, previous); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// Lost the race to another cancel; reload and report idempotent success.
			current, findErr := l.bookings.FindByID(ctx, id)
			if findErr == nil && current.IsCancelled() {
				return &CancelResult{Booking: current, AlreadyCancelled: true}, nil
			}
			return nil, errs.Mark(err, errs.ErrConflict)
		}
		return nil, err
	}

	if err := l.upstream.DeleteReservation(ctx, b.UpstreamRef()); err != nil {
		l.logCritical("upstream deregistration failed for cancelled booking",
			b.ResourceID(), b.Arrival(), b.Departure(), b.UpstreamRef(), err)
	}

	result := &CancelResult{Booking: b, RefundCents: refund}
	if refund > 0 {
		l.issueRefund(ctx, b, refund, result)
	}

	l.afterCommit(b, EventBookingCancelled)

	return result, nil
}

func (l *bookingLifecycleImpl) issueRefund(ctx context.Context, b *booking.Booking, refund int64, result *CancelResult) {
	refundID, err := l.payments.Refund(ctx, b.PaymentRef(), refund, "guest cancellation")
	if err != nil {
		// Reported separately for retry; the cancellation itself stands.
		l.logger.Error("refund issuance failed",
			"booking_id", b.ID(), "payment_ref", b.PaymentRef(), "refund_cents", refund, "error", err)
		result.RefundFailure = err.Error()
		return
	}

	result.RefundIssued = true
	l.logger.Info("refund issued", "booking_id", b.ID(), "refund_id", refundID, "refund_cents", refund)

	if _, err := l.bookings.UpdatePaymentStatusIf(ctx, b.PaymentRef(), booking.PaymentSucceeded, booking.PaymentRefunded); err != nil {
		l.logger.Warn("could not record refunded payment status", "booking_id", b.ID(), "error", err)
	}
}

// Modify applies partial updates after re-validating the new range, excluding
// the booking's own upstream span. The price is deliberately left as
// originally confirmed; rate drift is operator-visible, not guest-visible.
func (l *bookingLifecycleImpl) Modify(ctx context.Context, id uuid.UUID, mod booking.Modification) (*booking.Booking, error) {
	b, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsCancelled() {
		return nil, errs.Mark(errs.New("cannot modify a cancelled booking"), errs.ErrInvalidInput)
	}
	if mod.IsEmpty(b) {
		return nil, errs.Mark(errs.New("modification changes nothing"), errs.ErrNoOp)
	}

	newArrival, newDeparture := mod.NewRange(b)
	guests := b.Guests()
	if mod.Guests != nil {
		guests = *mod.Guests
	}
	if err := validateRange(newArrival, newDeparture, guests); err != nil {
		return nil, err
	}

	res, err := l.resources.FindByID(ctx, b.ResourceID())
	if err != nil {
		return nil, err
	}
	if guests > res.Capacity {
		return nil, errs.Mark(errs.Newf("resource sleeps at most %d guests", res.Capacity), errs.ErrInvalidInput)
	}

	if err := l.recheckLive(ctx, res, newArrival, newDeparture, b.UpstreamRef()); err != nil {
		return nil, err
	}

	newRef, err := l.reregisterUpstream(ctx, res, b, newArrival, newDeparture, guests)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	previous := b.Status()
	if err := b.ApplyModification(mod, newRef, now); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}

	if err := l.bookings.Update(ctx, b, previous); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrConflict)
		}
		l.logCritical("local persistence failed after upstream re-registration",
			b.ResourceID(), newArrival, newDeparture, newRef, err)
		return nil, errs.Mark(err, errs.ErrInconsistent)
	}

	l.afterCommit(b, EventBookingModified)

	return b, nil
}

// reregisterUpstream moves the reservation: the authority has no update call,
// so the old registration is deleted and a new one created. A failure between
// the two leaves the dates unregistered upstream and must go to an operator.
func (l *bookingLifecycleImpl) reregisterUpstream(ctx context.Context, res *ResourceSnapshot, b *booking.Booking, arrival, departure calendar.Date, guests int) (string, error) {
	if err := l.upstream.DeleteReservation(ctx, b.UpstreamRef()); err != nil {
		// Nothing changed yet; safe to retry.
		return "", errs.Mark(err, errs.ErrUpstreamUnavailable)
	}

	newRef, err := l.upstream.CreateReservation(ctx, UpstreamReservation{
		UpstreamID: res.UpstreamID,
		Arrival:    arrival,
		Departure:  departure,
		Guests:     guests,
		GuestName:  b.Guest().Name,
		GuestEmail: b.Guest().Email,
	})
	if err != nil {
		l.logCritical("upstream re-registration failed after delete; dates unregistered",
			b.ResourceID(), arrival, departure, b.UpstreamRef(), err)
		return "", errs.Mark(err, errs.ErrInconsistent)
	}
	return newRef, nil
}

// ApplyPaymentEvent applies an asynchronous processor status update. Dedupe by
// event id plus conditional status transitions make duplicate webhook
// deliveries harmless.
func (l *bookingLifecycleImpl) ApplyPaymentEvent(ctx context.Context, eventID, paymentRef, kind string) error {
	if eventID == "" || paymentRef == "" {
		return errs.Mark(errs.New("event id and payment reference required"), errs.ErrInvalidInput)
	}

	var from, to booking.PaymentStatus
	switch kind {
	case "payment.succeeded":
		from, to = booking.PaymentPending, booking.PaymentSucceeded
	case "payment.failed":
		from, to = booking.PaymentPending, booking.PaymentFailed
	case "payment.refunded":
		from, to = booking.PaymentSucceeded, booking.PaymentRefunded
	default:
		return errs.Mark(errs.Newf("unknown payment event kind %q", kind), errs.ErrInvalidInput)
	}

	// The status move commits before the event id is recorded. A transient
	// update failure leaves the event unrecorded, so the processor's redelivery
	// retries the move instead of being swallowed as a duplicate. Transitions
	// are monotone, so a true duplicate can never re-match its from status.
	applied, err := l.bookings.UpdatePaymentStatusIf(ctx, paymentRef, from, to)
	if err != nil {
		return err
	}

	fresh, err := l.bookings.InsertPaymentEvent(ctx, eventID, l.clock.Now())
	if err != nil {
		return err
	}
	if !fresh {
		l.logger.Info("duplicate payment event ignored", "event_id", eventID)
		return nil
	}
	if !applied {
		l.logger.Info("payment event did not apply, status already moved",
			"event_id", eventID, "payment_ref", paymentRef, "kind", kind)
	}
	return nil
}

// afterCommit runs the best-effort side effects off the request path: the
// availability cache tag for the resource is flushed and a lifecycle event is
// published for the notification pipeline. Failures are logged, never
// surfaced to the guest.
func (l *bookingLifecycleImpl) afterCommit(b *booking.Booking, kind string) {
	ctx := context.WithoutCancel(context.Background())
	event := BookingEvent{
		Kind:       kind,
		BookingID:  b.ID(),
		ResourceID: b.ResourceID(),
		Arrival:    b.Arrival().String(),
		Departure:  b.Departure().String(),
		OccurredAt: l.clock.Now(),
	}

	go func() {
		if err := l.resultCache.InvalidateResource(ctx, b.ResourceID()); err != nil {
			l.logger.Warn("availability cache invalidation failed", "resource_id", b.ResourceID(), "error", err)
		}
		if err := l.events.Publish(ctx, event); err != nil {
			l.logger.Warn("booking event publish failed", "booking_id", b.ID(), "kind", kind, "error", err)
		}
	}()
}

func (l *bookingLifecycleImpl) logCritical(msg string, resourceID uuid.UUID, start, end calendar.Date, upstreamRef string, err error) {
	l.logger.Error("CRITICAL: "+msg+", manual reconciliation required",
		"resource_id", resourceID,
		"arrival", start.String(),
		"departure", end.String(),
		"upstream_ref", upstreamRef,
		"error", err,
		"stack", errs.ExtractStackLines(err, 5))
}
