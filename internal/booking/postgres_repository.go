package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	pool db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool db) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	booking := req.toBooking(uuid.New().String(), time.Time{})

	query := `
		INSERT INTO bookings (
			id, name, email, phone, preferred_contact, therapies, conditions,
			notes, taster_date, taster_time, package, payment, price_gbp,
			submitted_at, client_descriptor
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		booking.ID,
		booking.Name,
		booking.Email,
		booking.Phone,
		booking.PreferredContact,
		booking.Therapies,
		booking.Conditions,
		booking.Notes,
		booking.TasterDate,
		booking.TasterTime,
		booking.Package,
		booking.Payment,
		booking.PriceGBP,
		booking.SubmittedAt,
		booking.ClientDescriptor,
	).Scan(&booking.CreatedAt); err != nil {
		return nil, fmt.Errorf("booking: insert failed: %w", err)
	}
	return booking, nil
}

// GetByID fetches a booking by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, name, email, phone, preferred_contact, therapies, conditions,
		       notes, taster_date, taster_time, package, payment, price_gbp,
		       submitted_at, client_descriptor, created_at
		FROM bookings
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	booking, err := scanBooking(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking: select failed: %w", err)
	}
	return booking, nil
}

// List returns bookings newest first, honouring the filter.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, name, email, phone, preferred_contact, therapies, conditions,
		       notes, taster_date, taster_time, package, payment, price_gbp,
		       submitted_at, client_descriptor, created_at
		FROM bookings
		WHERE ($1 = '' OR taster_date = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.TasterDate, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	defer rows.Close()

	bookings := []*Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan failed: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.PreferredContact,
		&b.Therapies,
		&b.Conditions,
		&b.Notes,
		&b.TasterDate,
		&b.TasterTime,
		&b.Package,
		&b.Payment,
		&b.PriceGBP,
		&b.SubmittedAt,
		&b.ClientDescriptor,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
