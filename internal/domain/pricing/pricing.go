package pricing

import (
	"errors"
	"math"
)

var (
	ErrInvalidNights = errors.New("nights must be positive")
	ErrNegativeRate  = errors.New("nightly rate cannot be negative")
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Discount is attached transiently to a quote and persisted as part of a
// booking's price breakdown once committed.
type Discount struct {
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
	AmountCents int64        `json:"amount_cents"`
	Code        string       `json:"code,omitempty"`
}

// Rates holds the site-wide fee schedule. Tax and channel fee apply to the
// discounted subtotal; cleaning and pet fees are flat add-ons outside both the
// discount and the tax base.
type Rates struct {
	TaxPercent        float64
	ChannelFeePercent float64
	CleaningFeeCents  int64
	PetFeeCents       int64
	Currency          string
}

// Breakdown is the quoted price. Once returned to a guest it is authoritative:
// the later charge must equal Total, even if upstream rates drift in between.
type Breakdown struct {
	NightlyRateCents        int64     `json:"nightly_rate_cents"`
	Nights                  int       `json:"nights"`
	SubtotalCents           int64     `json:"subtotal_cents"`
	Discount                *Discount `json:"discount,omitempty"`
	DiscountedSubtotalCents int64     `json:"discounted_subtotal_cents"`
	CleaningFeeCents        int64     `json:"cleaning_fee_cents"`
	PetFeeCents             int64     `json:"pet_fee_cents"`
	TaxCents                int64     `json:"tax_cents"`
	ChannelFeeCents         int64     `json:"channel_fee_cents"`
	TotalCents              int64     `json:"total_cents"`
	Currency                string    `json:"currency"`
	// Estimated marks a last-resort quote produced without the authoritative
	// pricing API. Flagged so operators can tell it apart from real quotes.
	Estimated bool `json:"estimated,omitempty"`
}

// roundCents rounds to the currency's minor unit at each intermediate step so
// rounding error never compounds across terms.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// Compute builds a breakdown from a resolved nightly rate. The discount amount
// is clamped to [0, subtotal].
func Compute(nightlyRateCents int64, nights int, discount *Discount, withPets bool, rates Rates) (Breakdown, error) {
	if nights <= 0 {
		return Breakdown{}, ErrInvalidNights
	}
	if nightlyRateCents < 0 {
		return Breakdown{}, ErrNegativeRate
	}

	subtotal := nightlyRateCents * int64(nights)

	discounted := subtotal
	if discount != nil {
		amount := discountAmount(subtotal, *discount)
		d := *discount
		d.AmountCents = amount
		discount = &d
		discounted = subtotal - amount
	}

	tax := roundCents(float64(discounted) * rates.TaxPercent / 100.0)
	channelFee := roundCents(float64(discounted) * rates.ChannelFeePercent / 100.0)

	var petFee int64
	if withPets {
		petFee = rates.PetFeeCents
	}

	return Breakdown{
		NightlyRateCents:        nightlyRateCents,
		Nights:                  nights,
		SubtotalCents:           subtotal,
		Discount:                discount,
		DiscountedSubtotalCents: discounted,
		CleaningFeeCents:        rates.CleaningFeeCents,
		PetFeeCents:             petFee,
		TaxCents:                tax,
		ChannelFeeCents:         channelFee,
		TotalCents:              discounted + rates.CleaningFeeCents + tax + channelFee + petFee,
		Currency:                rates.Currency,
	}, nil
}

func discountAmount(subtotal int64, d Discount) int64 {
	var amount int64
	switch d.Type {
	case DiscountPercent:
		amount = roundCents(float64(subtotal) * d.Value / 100.0)
	case DiscountFixed:
		amount = roundCents(d.Value)
	}
	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount
}
