//go:build unit

package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"pinecove/internal/domain/booking"
	"pinecove/internal/domain/calendar"
	"pinecove/internal/domain/pricing"
	"pinecove/internal/infra"
	"pinecove/internal/usecase"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeResources struct {
	byID map[uuid.UUID]*usecase.ResourceSnapshot
}

func newFakeResources(snaps ...*usecase.ResourceSnapshot) *fakeResources {
	f := &fakeResources{byID: make(map[uuid.UUID]*usecase.ResourceSnapshot)}
	for _, s := range snaps {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeResources) FindByID(_ context.Context, id uuid.UUID) (*usecase.ResourceSnapshot, error) {
	if s, ok := f.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "resource not found", nil)
}

func (f *fakeResources) List(_ context.Context) ([]*usecase.ResourceSnapshot, error) {
	out := make([]*usecase.ResourceSnapshot, 0, len(f.byID))
	for _, s := range f.byID {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

type fakeIncentives struct {
	byCode map[string]*pricing.Incentive
}

func (f *fakeIncentives) FindByCode(_ context.Context, code string) (*pricing.Incentive, error) {
	if f.byCode != nil {
		if i, ok := f.byCode[code]; ok {
			copied := *i
			return &copied, nil
		}
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "incentive not found", nil)
}

type fakeUpstream struct {
	mu sync.Mutex

	calendarEntries []calendar.Entry
	calendarErr     error
	calendarCalls   int

	pricingQuote *usecase.UpstreamQuote
	pricingErr   error

	createRef   string
	createErr   error
	createCalls int
	// createErrAfterFirst fails every create after the first, so two racing
	// callers see one success and one refusal.
	createErrAfterFirst error

	deleteErr     error
	deletedRefs   []string
	widgetAddress string
}

func (f *fakeUpstream) GetCalendar(_ context.Context, _ string, _, _ calendar.Date) ([]calendar.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendarCalls++
	if f.calendarErr != nil {
		return nil, f.calendarErr
	}
	return f.calendarEntries, nil
}

func (f *fakeUpstream) GetPricing(_ context.Context, _ string, _, _ calendar.Date, _ int) (*usecase.UpstreamQuote, error) {
	if f.pricingErr != nil {
		return nil, f.pricingErr
	}
	return f.pricingQuote, nil
}

func (f *fakeUpstream) CreateReservation(_ context.Context, _ usecase.UpstreamReservation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.createErrAfterFirst != nil && f.createCalls > 1 {
		return "", f.createErrAfterFirst
	}
	return f.createRef, nil
}

func (f *fakeUpstream) DeleteReservation(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedRefs = append(f.deletedRefs, ref)
	return nil
}

func (f *fakeUpstream) WidgetURL() string {
	return f.widgetAddress
}

type fakeCalendarCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]calendar.Entry
	readErr error
	writes  int
}

func newFakeCalendarCache() *fakeCalendarCache {
	return &fakeCalendarCache{entries: make(map[uuid.UUID][]calendar.Entry)}
}

func (f *fakeCalendarCache) Read(_ context.Context, resourceID uuid.UUID, start, end calendar.Date) ([]calendar.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []calendar.Entry
	for _, e := range f.entries[resourceID] {
		if !e.Date.Before(start) && e.Date.Before(end.AddDays(1)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarCache) Write(_ context.Context, resourceID uuid.UUID, entries []calendar.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.entries[resourceID] = entries
	return nil
}

type availKey struct {
	resourceID uuid.UUID
	start, end calendar.Date
	guests     int
}

type fakeAvailabilityCache struct {
	mu          sync.Mutex
	results     map[availKey]usecase.AvailabilityResult
	invalidated []uuid.UUID
}

func newFakeAvailabilityCache() *fakeAvailabilityCache {
	return &fakeAvailabilityCache{results: make(map[availKey]usecase.AvailabilityResult)}
}

func (f *fakeAvailabilityCache) Get(_ context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int) (*usecase.AvailabilityResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.results[availKey{resourceID, start, end, guests}]; ok {
		copied := r
		return &copied, true
	}
	return nil, false
}

func (f *fakeAvailabilityCache) Put(_ context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int, result usecase.AvailabilityResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[availKey{resourceID, start, end, guests}] = result
}

func (f *fakeAvailabilityCache) InvalidateResource(_ context.Context, resourceID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, resourceID)
	return nil
}

type fakeSyncQueue struct {
	mu   sync.Mutex
	jobs []usecase.RefreshJob
	full bool
}

func (f *fakeSyncQueue) Submit(job usecase.RefreshJob) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*booking.Booking
	createErr error
	updateErr error
	// statusByPaymentRef tracks the conditional payment transitions.
	statusByPaymentRef map[string]booking.PaymentStatus
	seenEvents         map[string]bool
	// paymentUpdateErrOnce fails the next UpdatePaymentStatusIf call, then
	// clears itself, simulating a transient store failure.
	paymentUpdateErrOnce error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		byID:               make(map[uuid.UUID]*booking.Booking),
		statusByPaymentRef: make(map[string]booking.PaymentStatus),
		seenEvents:         make(map[string]bool),
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[b.ID()] = b
	f.statusByPaymentRef[b.PaymentRef()] = b.PaymentStatus()
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.byID[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
}

func (f *fakeBookingRepo) Update(_ context.Context, b *booking.Booking, expected booking.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.byID[b.ID()]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	if stored.Status() != expected {
		return infra.WrapRepoErr(infra.KindConflict, "booking status moved", nil)
	}
	copied := *b
	f.byID[b.ID()] = &copied
	return nil
}

func (f *fakeBookingRepo) UpdatePaymentStatusIf(_ context.Context, paymentRef string, from, to booking.PaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paymentUpdateErrOnce != nil {
		err := f.paymentUpdateErrOnce
		f.paymentUpdateErrOnce = nil
		return false, err
	}
	if current, ok := f.statusByPaymentRef[paymentRef]; ok && current == from {
		f.statusByPaymentRef[paymentRef] = to
		return true, nil
	}
	return false, nil
}

func (f *fakeBookingRepo) InsertPaymentEvent(_ context.Context, eventID string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seenEvents[eventID] {
		return false, nil
	}
	f.seenEvents[eventID] = true
	return true, nil
}

type fakePayments struct {
	mu sync.Mutex

	intent    *usecase.PaymentIntent
	intentErr error

	refundErr   error
	refundCalls int
	refunded    []int64
}

func (f *fakePayments) Authorize(_ context.Context, amountCents int64, currency string, _ map[string]string) (*usecase.PaymentIntent, error) {
	return &usecase.PaymentIntent{ID: "pi_test", AmountCents: amountCents, Currency: currency, Status: "requires_confirmation"}, nil
}

func (f *fakePayments) Confirm(_ context.Context, intentID string) (*usecase.PaymentIntent, error) {
	return &usecase.PaymentIntent{ID: intentID, Status: "succeeded"}, nil
}

func (f *fakePayments) GetIntent(_ context.Context, intentID string) (*usecase.PaymentIntent, error) {
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	if f.intent != nil {
		return f.intent, nil
	}
	return &usecase.PaymentIntent{ID: intentID, Status: "succeeded"}, nil
}

func (f *fakePayments) Refund(_ context.Context, _ string, amountCents int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refundCalls++
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refunded = append(f.refunded, amountCents)
	return "re_test", nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []usecase.BookingEvent
}

func (f *fakePublisher) Publish(_ context.Context, event usecase.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}
