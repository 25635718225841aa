package response

import (
	"pinecove/internal/domain/pricing"

	"github.com/jinzhu/copier"
)

type DiscountResponse struct {
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	AmountCents int64   `json:"amount_cents"`
	Code        string  `json:"code,omitempty"`
}

type QuoteResponse struct {
	NightlyRateCents        int64             `json:"nightly_rate_cents"`
	Nights                  int               `json:"nights"`
	SubtotalCents           int64             `json:"subtotal_cents"`
	Discount                *DiscountResponse `json:"discount,omitempty"`
	DiscountedSubtotalCents int64             `json:"discounted_subtotal_cents"`
	CleaningFeeCents        int64             `json:"cleaning_fee_cents"`
	PetFeeCents             int64             `json:"pet_fee_cents"`
	TaxCents                int64             `json:"tax_cents"`
	ChannelFeeCents         int64             `json:"channel_fee_cents"`
	TotalCents              int64             `json:"total_cents"`
	Currency                string            `json:"currency"`
	Estimated               bool              `json:"estimated,omitempty"`
}

func FromBreakdown(b *pricing.Breakdown) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := copier.Copy(&resp, b); err != nil {
		return nil, err
	}
	return &resp, nil
}
