package repository

import (
	"context"
	"errors"
	"time"

	"pinecove/internal/domain/pricing"
	"pinecove/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncentiveRepository resolves referral codes. Incentive lifecycle management
// lives outside the engine; this is read-only.
type IncentiveRepository struct {
	db *pgxpool.Pool
}

func NewIncentiveRepository(db *pgxpool.Pool) *IncentiveRepository {
	return &IncentiveRepository{db: db}
}

const selectIncentiveSQL = `
SELECT code, discount_type, value, valid_from, valid_to
FROM incentives
WHERE code = $1 AND enabled`

func (r *IncentiveRepository) FindByCode(ctx context.Context, code string) (*pricing.Incentive, error) {
	row := r.db.QueryRow(ctx, selectIncentiveSQL, code)

	var (
		incentive          pricing.Incentive
		discountType       string
		validFrom, validTo *time.Time
	)
	err := row.Scan(&incentive.Code, &discountType, &incentive.Value, &validFrom, &validTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "incentive not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read incentive", err)
	}

	incentive.Type = pricing.DiscountType(discountType)
	incentive.ValidFrom = validFrom
	incentive.ValidTo = validTo
	return &incentive, nil
}
