package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pinecove/internal/domain/booking"
	"pinecove/internal/domain/calendar"
	"pinecove/internal/domain/pricing"
	"pinecove/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const insertBookingSQL = `
INSERT INTO bookings (
    id, resource_id, arrival, departure, guests, price,
    guest_name, guest_email, guest_phone,
    payment_ref, payment_status, status, refunded_cents, upstream_ref,
    created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	price, err := json.Marshal(b.Price())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode price breakdown", err)
	}

	_, err = r.db.Exec(ctx, insertBookingSQL,
		b.ID(), b.ResourceID(), b.Arrival().Time(), b.Departure().Time(), b.Guests(), price,
		b.Guest().Name, b.Guest().Email, b.Guest().Phone,
		b.PaymentRef(), string(b.PaymentStatus()), string(b.Status()), b.RefundedCents(), b.UpstreamRef(),
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "booking already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create booking", err)
	}
	return nil
}

const selectBookingSQL = `
SELECT id, resource_id, arrival, departure, guests, price,
       guest_name, guest_email, guest_phone,
       payment_ref, payment_status, status, refunded_cents, upstream_ref,
       created_at, updated_at
FROM bookings
WHERE id = $1`

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, selectBookingSQL, id)

	var (
		bookingID, resourceID             uuid.UUID
		arrival, departure                time.Time
		guests                            int
		priceRaw                          []byte
		guestName, guestEmail, guestPhone string
		paymentRef, paymentStatus, status string
		refundedCents                     int64
		upstreamRef                       string
		createdAt, updatedAt              time.Time
	)
	err := row.Scan(&bookingID, &resourceID, &arrival, &departure, &guests, &priceRaw,
		&guestName, &guestEmail, &guestPhone,
		&paymentRef, &paymentStatus, &status, &refundedCents, &upstreamRef,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read booking", err)
	}

	var price pricing.Breakdown
	if err := json.Unmarshal(priceRaw, &price); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode price breakdown", err)
	}

	return booking.Reconstruct(
		bookingID, resourceID,
		calendar.DateOf(arrival), calendar.DateOf(departure),
		guests, price,
		booking.Guest{Name: guestName, Email: guestEmail, Phone: guestPhone},
		paymentRef, booking.PaymentStatus(paymentStatus), booking.Status(status),
		refundedCents, upstreamRef, createdAt, updatedAt,
	), nil
}

const updateBookingSQL = `
UPDATE bookings
SET arrival = $2, departure = $3, guests = $4,
    status = $5, refunded_cents = $6, upstream_ref = $7, updated_at = $8
WHERE id = $1 AND status = $9`

// Update is conditional on the stored status still being expected; a
// concurrent transition surfaces as KindConflict instead of silently clobbering.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	tag, err := r.db.Exec(ctx, updateBookingSQL,
		b.ID(), b.Arrival().Time(), b.Departure().Time(), b.Guests(),
		string(b.Status()), b.RefundedCents(), b.UpstreamRef(), b.UpdatedAt(),
		string(expected),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindConflict, "booking status moved concurrently", nil)
	}
	return nil
}

const updatePaymentStatusSQL = `
UPDATE bookings
SET payment_status = $3, updated_at = now()
WHERE payment_ref = $1 AND payment_status = $2`

func (r *BookingRepository) UpdatePaymentStatusIf(ctx context.Context, paymentRef string, from, to booking.PaymentStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, updatePaymentStatusSQL, paymentRef, string(from), string(to))
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to update payment status", err)
	}
	return tag.RowsAffected() > 0, nil
}

const insertPaymentEventSQL = `
INSERT INTO payment_events (id, seen_at)
VALUES ($1, $2)
ON CONFLICT (id) DO NOTHING`

// InsertPaymentEvent reports false for a duplicate processor event id.
func (r *BookingRepository) InsertPaymentEvent(ctx context.Context, eventID string, seenAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, insertPaymentEventSQL, eventID, seenAt)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to record payment event", err)
	}
	return tag.RowsAffected() > 0, nil
}
