package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/ports/bookingtx"
)

// BookingRepo represents booking repository.
type BookingRepo struct {
	db *pgxpool.Pool
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, customer_id, pickup_lat, pickup_lng, transport_type, status, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.CustomerID, &b.Pickup.Lat, &b.Pickup.Lng,
		&b.TransportType, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Get - returns booking by its ID.
func (r *BookingRepo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking %q: %w", id, err)
	}
	return b, nil
}

// CompleteAssignment closes the open assignment for a booking. Closing an
// already closed or missing assignment is a no-op.
func (r *BookingRepo) CompleteAssignment(ctx context.Context, bookingID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
        UPDATE assignments
        SET completed_at = $2
        WHERE booking_id = $1 AND completed_at IS NULL
    `, bookingID, at)
	if err != nil {
		return fmt.Errorf("complete assignment for booking %q: %w", bookingID, err)
	}
	return nil
}

// WithTx opens a transaction and executes fn within it.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(tx bookingtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// rollback on panic so the connection is never returned mid-transaction
	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &BookingTxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// BookingTxRepo represents transaction repository.
type BookingTxRepo struct {
	tx pgx.Tx
}

// GetBookingForUpdate - get booking by ID with a row lock.
func (r *BookingTxRepo) GetBookingForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking %q for update: %w", id, err)
	}
	return b, nil
}

// UpdateBookingStatus - update booking status.
func (r *BookingTxRepo) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE bookings
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("update booking %q status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("booking %q not found", id)
	}
	return nil
}

// InsertAssignment - insert a new courier-to-booking assignment.
func (r *BookingTxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO assignments (booking_id, courier_id, assigned_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `, a.BookingID, a.CourierID, a.AssignedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}
