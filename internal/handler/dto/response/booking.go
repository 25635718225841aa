package response

import (
	"time"

	"pinecove/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID      `json:"id"`
	ResourceID    uuid.UUID      `json:"resource_id"`
	Arrival       string         `json:"arrival"`
	Departure     string         `json:"departure"`
	Nights        int            `json:"nights"`
	Guests        int            `json:"guests"`
	GuestName     string         `json:"guest_name"`
	GuestEmail    string         `json:"guest_email"`
	GuestPhone    string         `json:"guest_phone,omitempty"`
	Price         *QuoteResponse `json:"price"`
	PaymentStatus string         `json:"payment_status"`
	Status        string         `json:"status"`
	RefundedCents int64          `json:"refunded_cents,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// DeferredBookingResponse is the external-widget outcome: the authority cannot
// take the reservation over its API, the guest finishes at the widget instead.
type DeferredBookingResponse struct {
	Deferred  bool   `json:"deferred"`
	WidgetURL string `json:"widget_url"`
}

type CancelBookingResponse struct {
	Booking          *BookingResponse `json:"booking"`
	AlreadyCancelled bool             `json:"already_cancelled,omitempty"`
	RefundCents      int64            `json:"refund_cents"`
	RefundIssued     bool             `json:"refund_issued"`
	RefundFailure    string           `json:"refund_failure,omitempty"`
}

func FromBooking(b *booking.Booking) (*BookingResponse, error) {
	price := b.Price()
	priceResp, err := FromBreakdown(&price)
	if err != nil {
		return nil, err
	}

	return &BookingResponse{
		ID:            b.ID(),
		ResourceID:    b.ResourceID(),
		Arrival:       b.Arrival().String(),
		Departure:     b.Departure().String(),
		Nights:        b.Nights(),
		Guests:        b.Guests(),
		GuestName:     b.Guest().Name,
		GuestEmail:    b.Guest().Email,
		GuestPhone:    b.Guest().Phone,
		Price:         priceResp,
		PaymentStatus: string(b.PaymentStatus()),
		Status:        string(b.Status()),
		RefundedCents: b.RefundedCents(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}, nil
}
