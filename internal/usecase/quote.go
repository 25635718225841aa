package usecase

import (
	"context"
	"log/slog"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/domain/pricing"
	"pinecove/internal/infra"
	"pinecove/internal/pkg/clock"
	"pinecove/internal/pkg/errs"

	"github.com/google/uuid"
)

type QuoteParams struct {
	ResourceID   uuid.UUID
	Start        calendar.Date
	End          calendar.Date
	Guests       int
	Pets         bool
	ReferralCode *string
}

type QuoteService interface {
	Quote(ctx context.Context, params QuoteParams) (*pricing.Breakdown, error)
}

type quoteServiceImpl struct {
	resources     ResourceReader
	incentives    IncentiveReader
	upstream      UpstreamGateway
	calendarCache CalendarCache
	rates         pricing.Rates
	clock         clock.Clock
	logger        *slog.Logger
}

func NewQuoteService(
	resources ResourceReader,
	incentives IncentiveReader,
	upstream UpstreamGateway,
	calendarCache CalendarCache,
	rates pricing.Rates,
	clk clock.Clock,
	logger *slog.Logger,
) QuoteService {
	return &quoteServiceImpl{
		resources:     resources,
		incentives:    incentives,
		upstream:      upstream,
		calendarCache: calendarCache,
		rates:         rates,
		clock:         clk,
		logger:        logger,
	}
}

// Quote computes the authoritative price for a stay. Identical inputs with no
// intervening rate change produce an identical breakdown.
func (q *quoteServiceImpl) Quote(ctx context.Context, params QuoteParams) (*pricing.Breakdown, error) {
	if err := validateRange(params.Start, params.End, params.Guests); err != nil {
		return nil, err
	}

	res, err := q.resources.FindByID(ctx, params.ResourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrResourceNotFound)
		}
		return nil, err
	}

	discount, err := q.resolveDiscount(ctx, params.ReferralCode)
	if err != nil {
		return nil, err
	}

	nightly, estimated := q.resolveNightlyRate(ctx, res, params)

	breakdown, err := pricing.Compute(nightly, params.Start.DaysUntil(params.End), discount, params.Pets, q.rates)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}
	breakdown.Estimated = estimated

	return &breakdown, nil
}

func (q *quoteServiceImpl) resolveDiscount(ctx context.Context, code *string) (*pricing.Discount, error) {
	if code == nil || *code == "" {
		return nil, nil
	}

	incentive, err := q.incentives.FindByCode(ctx, *code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Unknown codes quote without a discount rather than failing.
			q.logger.Debug("referral code did not resolve", "code", *code)
			return nil, nil
		}
		return nil, err
	}

	discount, err := incentive.ToDiscount(q.clock.Now())
	if err != nil {
		q.logger.Debug("referral code inactive", "code", *code)
		return nil, nil
	}
	return discount, nil
}

// resolveNightlyRate prefers the authority's pricing API. When it fails, the
// rate is estimated from cached per-date calendar prices, then the resource's
// base rate; such quotes carry the Estimated flag so they are never mistaken
// for authoritative ones.
func (q *quoteServiceImpl) resolveNightlyRate(ctx context.Context, res *ResourceSnapshot, params QuoteParams) (int64, bool) {
	quote, err := q.upstream.GetPricing(ctx, res.UpstreamID, params.Start, params.End, params.Guests)
	if err == nil && quote.NightlyCents > 0 {
		return quote.NightlyCents, false
	}
	if err != nil {
		q.logger.Warn("upstream pricing unavailable, estimating",
			"resource_id", res.ID, "start", params.Start.String(), "end", params.End.String(), "error", err)
	}

	if avg := q.cachedAverageRate(ctx, res.ID, params.Start, params.End); avg > 0 {
		return avg, true
	}
	return res.BaseRateCents, true
}

func (q *quoteServiceImpl) cachedAverageRate(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date) int64 {
	entries, err := q.calendarCache.Read(ctx, resourceID, start, end)
	if err != nil || len(entries) == 0 {
		return 0
	}

	var sum, n int64
	for _, e := range entries {
		if e.NightlyRate != nil && *e.NightlyRate > 0 {
			sum += *e.NightlyRate
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
