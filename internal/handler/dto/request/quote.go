package request

import (
	"strings"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/usecase"

	"github.com/google/uuid"
)

type QuoteRequest struct {
	ResourceID   uuid.UUID `json:"resource_id" binding:"required"`
	Start        string    `json:"start" binding:"required"`
	End          string    `json:"end" binding:"required"`
	Guests       int       `json:"guests" binding:"required,min=1"`
	Pets         bool      `json:"pets"`
	ReferralCode *string   `json:"referral_code,omitempty"`
}

func (r QuoteRequest) GetReferralCode() *string {
	if r.ReferralCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.ReferralCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r QuoteRequest) ToParams() (usecase.QuoteParams, error) {
	start, err := calendar.ParseDate(r.Start)
	if err != nil {
		return usecase.QuoteParams{}, err
	}
	end, err := calendar.ParseDate(r.End)
	if err != nil {
		return usecase.QuoteParams{}, err
	}
	return usecase.QuoteParams{
		ResourceID:   r.ResourceID,
		Start:        start,
		End:          end,
		Guests:       r.Guests,
		Pets:         r.Pets,
		ReferralCode: r.GetReferralCode(),
	}, nil
}
