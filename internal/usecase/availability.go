package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/infra"
	"pinecove/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	// Cached marks a result derived from the local calendar cache because the
	// live upstream fetch failed.
	Cached bool `json:"cached,omitempty"`
}

type ResourceAvailability struct {
	ResourceID   uuid.UUID `json:"resource_id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url,omitempty"`
	NightlyCents *int64    `json:"nightly_cents,omitempty"`
	Available    bool      `json:"available"`
	Reason       string    `json:"reason,omitempty"`
	Cached       bool      `json:"cached,omitempty"`
}

type AvailabilityChecker interface {
	Check(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int) (*AvailabilityResult, error)
	CheckAll(ctx context.Context, start, end calendar.Date, guests int) ([]ResourceAvailability, error)
}

type availabilityCheckerImpl struct {
	resources     ResourceReader
	upstream      UpstreamGateway
	calendarCache CalendarCache
	resultCache   AvailabilityCache
	syncQueue     SyncQueue
	logger        *slog.Logger
}

func NewAvailabilityChecker(
	resources ResourceReader,
	upstream UpstreamGateway,
	calendarCache CalendarCache,
	resultCache AvailabilityCache,
	syncQueue SyncQueue,
	logger *slog.Logger,
) AvailabilityChecker {
	return &availabilityCheckerImpl{
		resources:     resources,
		upstream:      upstream,
		calendarCache: calendarCache,
		resultCache:   resultCache,
		syncQueue:     syncQueue,
		logger:        logger,
	}
}

func validateRange(start, end calendar.Date, guests int) error {
	if start.IsZero() || end.IsZero() {
		return errs.Mark(errs.New("missing date"), errs.ErrInvalidInput)
	}
	if !end.After(start) {
		return errs.Mark(errs.New("end must be after start"), errs.ErrInvalidInput)
	}
	if guests <= 0 {
		return errs.Mark(errs.New("guests must be positive"), errs.ErrInvalidInput)
	}
	return nil
}

func (a *availabilityCheckerImpl) Check(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int) (*AvailabilityResult, error) {
	if err := validateRange(start, end, guests); err != nil {
		return nil, err
	}

	res, err := a.resources.FindByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrResourceNotFound)
		}
		return nil, err
	}

	return a.checkResource(ctx, res, start, end, guests)
}

func (a *availabilityCheckerImpl) checkResource(ctx context.Context, res *ResourceSnapshot, start, end calendar.Date, guests int) (*AvailabilityResult, error) {
	if guests > res.Capacity {
		return &AvailabilityResult{
			Available: false,
			Reason:    fmt.Sprintf("sleeps at most %d guests", res.Capacity),
		}, nil
	}

	if hit, ok := a.resultCache.Get(ctx, res.ID, start, end, guests); ok {
		return hit, nil
	}

	entries, cached, err := a.fetchCalendar(ctx, res, start, end)
	if err != nil {
		return nil, err
	}

	result := evaluateRange(calendar.NewWindow(entries), start, end)
	result.Cached = cached

	// Fallback results are not memoized so a recovered upstream wins quickly.
	if !cached {
		a.resultCache.Put(ctx, res.ID, start, end, guests, result)
	}
	return &result, nil
}

// fetchCalendar prefers the live upstream calendar and falls back to the local
// cache when the authority is slow or down. Live fetches are pushed to the
// sync worker off the request path.
func (a *availabilityCheckerImpl) fetchCalendar(ctx context.Context, res *ResourceSnapshot, start, end calendar.Date) ([]calendar.Entry, bool, error) {
	entries, err := a.upstream.GetCalendar(ctx, res.UpstreamID, start, end)
	if err == nil {
		if !a.syncQueue.Submit(RefreshJob{ResourceID: res.ID, Entries: entries}) {
			a.logger.Warn("calendar refresh queue full, dropping job", "resource_id", res.ID)
		}
		return entries, false, nil
	}

	a.logger.Warn("live calendar fetch failed, falling back to cache",
		"resource_id", res.ID, "start", start.String(), "end", end.String(), "error", err)

	cachedEntries, cacheErr := a.calendarCache.Read(ctx, res.ID, start, end)
	if cacheErr != nil {
		// Read is contractually best-effort; an empty calendar is still an answer.
		a.logger.Warn("calendar cache read failed", "resource_id", res.ID, "error", cacheErr)
		cachedEntries = nil
	}
	return cachedEntries, true, nil
}

// fetchLiveCalendar is the fail-closed variant used for commit decisions: no
// cache fallback, the caller gets a retryable error instead.
func (a *availabilityCheckerImpl) fetchLiveCalendar(ctx context.Context, res *ResourceSnapshot, start, end calendar.Date) ([]calendar.Entry, error) {
	entries, err := a.upstream.GetCalendar(ctx, res.UpstreamID, start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	return entries, nil
}

// evaluateRange applies checkout-only semantics to a candidate stay: the
// check-in date must be open and honor its minimum stay, and every interior
// date must be open relative to that check-in. The departure day itself is not
// part of the stay.
func evaluateRange(w *calendar.Window, start, end calendar.Date) AvailabilityResult {
	if status := w.StatusOf(start, nil); status != calendar.StatusOpen {
		return AvailabilityResult{Reason: fmt.Sprintf("%s is not available for check-in", start)}
	}
	if min := w.MinStay(start); min > 0 && start.DaysUntil(end) < min {
		return AvailabilityResult{Reason: fmt.Sprintf("minimum stay of %d nights from %s", min, start)}
	}
	for d := start.AddDays(1); d.Before(end); d = d.AddDays(1) {
		if status := w.StatusOf(d, &start); status != calendar.StatusOpen {
			return AvailabilityResult{Reason: fmt.Sprintf("%s overlaps an existing reservation", d)}
		}
	}
	return AvailabilityResult{Available: true}
}

func (a *availabilityCheckerImpl) CheckAll(ctx context.Context, start, end calendar.Date, guests int) ([]ResourceAvailability, error) {
	if err := validateRange(start, end, guests); err != nil {
		return nil, err
	}

	resources, err := a.resources.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ResourceAvailability, len(resources))
	var wg sync.WaitGroup
	for i, res := range resources {
		wg.Add(1)
		go func(i int, res *ResourceSnapshot) {
			defer wg.Done()
			out[i] = a.checkOne(ctx, res, start, end, guests)
		}(i, res)
	}
	wg.Wait()

	return out, nil
}

// checkOne never fails the fan-out: a resource whose check errored is reported
// unavailable with a reason, not omitted.
func (a *availabilityCheckerImpl) checkOne(ctx context.Context, res *ResourceSnapshot, start, end calendar.Date, guests int) ResourceAvailability {
	item := ResourceAvailability{
		ResourceID: res.ID,
		Name:       res.Name,
		ImageURL:   res.ImageURL,
	}
	if res.BaseRateCents > 0 {
		rate := res.BaseRateCents
		item.NightlyCents = &rate
	}

	result, err := a.checkResource(ctx, res, start, end, guests)
	if err != nil {
		a.logger.Warn("availability check failed for resource",
			"resource_id", res.ID, "start", start.String(), "end", end.String(), "error", err)
		item.Reason = "availability could not be determined"
		return item
	}

	item.Available = result.Available
	item.Reason = result.Reason
	item.Cached = result.Cached
	return item
}
