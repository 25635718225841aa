package request

import (
	"strings"

	"pinecove/internal/domain/booking"
	"pinecove/internal/domain/calendar"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ResourceID   uuid.UUID `json:"resource_id" binding:"required"`
	Start        string    `json:"start" binding:"required"`
	End          string    `json:"end" binding:"required"`
	Guests       int       `json:"guests" binding:"required,min=1"`
	GuestName    string    `json:"guest_name" binding:"required"`
	GuestEmail   string    `json:"guest_email" binding:"required,email"`
	GuestPhone   *string   `json:"guest_phone,omitempty"`
	Pets         bool      `json:"pets"`
	ReferralCode *string   `json:"referral_code,omitempty"`
	// PaymentRef is the processor's authorization reference obtained before
	// the booking call. A booking is never created without one.
	PaymentRef string `json:"payment_ref" binding:"required"`
}

func (r CreateBookingRequest) GetReferralCode() *string {
	if r.ReferralCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.ReferralCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateBookingRequest) ParseRange() (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(r.Start)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err := calendar.ParseDate(r.End)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	return start, end, nil
}

func (r CreateBookingRequest) ToGuest() booking.Guest {
	guest := booking.Guest{
		Name:  strings.TrimSpace(r.GuestName),
		Email: strings.TrimSpace(r.GuestEmail),
	}
	if r.GuestPhone != nil {
		guest.Phone = strings.TrimSpace(*r.GuestPhone)
	}
	return guest
}

type CancelBookingRequest struct {
	// RefundCentsOverride replaces the tiered refund amount. Operator use only;
	// negative values are rejected.
	RefundCentsOverride *int64 `json:"refund_cents_override,omitempty"`
}

type ModifyBookingRequest struct {
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
	Guests *int    `json:"guests,omitempty"`
}

func (r ModifyBookingRequest) ToModification() (booking.Modification, error) {
	var mod booking.Modification
	if r.Start != nil {
		d, err := calendar.ParseDate(*r.Start)
		if err != nil {
			return booking.Modification{}, err
		}
		mod.Arrival = &d
	}
	if r.End != nil {
		d, err := calendar.ParseDate(*r.End)
		if err != nil {
			return booking.Modification{}, err
		}
		mod.Departure = &d
	}
	mod.Guests = r.Guests
	return mod, nil
}

// PaymentWebhookRequest is the processor's asynchronous status notification.
type PaymentWebhookRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
	PaymentRef string `json:"payment_ref" binding:"required"`
}
