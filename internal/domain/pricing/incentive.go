package pricing

import (
	"errors"
	"time"
)

var ErrInactiveIncentive = errors.New("incentive is not active")

// Incentive is a referral-driven discount rule. Its lifecycle (creation,
// activation windows) is owned outside the engine; the engine only resolves an
// active incentive into a quote discount.
type Incentive struct {
	Code      string
	Type      DiscountType
	Value     float64
	ValidFrom *time.Time
	ValidTo   *time.Time
}

func (i Incentive) ActiveAt(now time.Time) bool {
	if i.ValidFrom != nil && now.Before(*i.ValidFrom) {
		return false
	}
	if i.ValidTo != nil && now.After(*i.ValidTo) {
		return false
	}
	return true
}

// ToDiscount converts an active incentive into a quote discount. The concrete
// amount is filled in by Compute against the subtotal.
func (i Incentive) ToDiscount(now time.Time) (*Discount, error) {
	if !i.ActiveAt(now) {
		return nil, ErrInactiveIncentive
	}
	return &Discount{
		Type:  i.Type,
		Value: i.Value,
		Code:  i.Code,
	}, nil
}
