package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// CourierRepo represents courier repository.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

const courierColumns = `id, name, phone, status, transport_types, rating, completed_deliveries, online`

func scanCourier(row interface{ Scan(...any) error }) (*domain.Courier, error) {
	var (
		c     domain.Courier
		types []string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &types,
		&c.Rating, &c.CompletedDeliveries, &c.Online); err != nil {
		return nil, err
	}
	c.TransportTypes = make([]domain.CourierTransportType, 0, len(types))
	for _, t := range types {
		c.TransportTypes = append(c.TransportTypes, domain.CourierTransportType(t))
	}
	return &c, nil
}

func transportStrings(types []domain.CourierTransportType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

// Get - returns courier by its ID.
func (r *CourierRepo) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id=$1`, id)
	c, err := scanCourier(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return c, nil
}

// List returns couriers ordered by id. If limit/offset are nil, returns the full list.
func (r *CourierRepo) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	q := `SELECT ` + courierColumns + ` FROM couriers ORDER BY id`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	capacity := 0
	if limit != nil && *limit > 0 {
		capacity = *limit
	}
	out := make([]domain.Courier, 0, capacity)
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Create - creates a new courier.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO couriers(name, phone, status, transport_types, rating, completed_deliveries, online)
        VALUES($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`,
		c.Name, c.Phone, c.Status, transportStrings(c.TransportTypes),
		c.Rating, c.CompletedDeliveries, c.Online).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create courier: %w", err)
	}
	return id, nil
}

// UpdatePartial applies a partial update to a courier and returns true if a row was affected.
func (r *CourierRepo) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error) {
	var types *[]string
	if u.TransportTypes != nil {
		s := transportStrings(*u.TransportTypes)
		types = &s
	}
	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET
            name            = COALESCE($2, name),
            phone           = COALESCE($3, phone),
            status          = COALESCE($4, status),
            transport_types = COALESCE($5, transport_types),
            online          = COALESCE($6, online),
            updated_at      = now()
        WHERE id = $1
    `, u.ID, u.Name, u.Phone, u.Status, types, u.Online)
	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("update courier %d: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// EligibleByIDs returns couriers from the given id set that are online,
// active, hold a verified transport of type t, and are not currently engaged
// in a non-terminal delivery. Ordering follows courier id; the caller ranks.
func (r *CourierRepo) EligibleByIDs(ctx context.Context, ids []int64, t domain.CourierTransportType) ([]domain.Courier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
        SELECT `+courierColumns+`
        FROM couriers c
        WHERE c.id = ANY($1)
          AND c.online
          AND c.status = $2
          AND $3 = ANY(c.transport_types)
          AND NOT EXISTS (
              SELECT 1 FROM assignments a
              WHERE a.courier_id = c.id AND a.completed_at IS NULL
          )
        ORDER BY c.id
    `, ids, string(domain.StatusActive), string(t))
	if err != nil {
		return nil, fmt.Errorf("eligible couriers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Courier, 0, len(ids))
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
