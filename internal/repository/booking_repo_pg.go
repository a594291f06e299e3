package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dkraev/lingobook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// TransitionStatus atomically moves a booking from one status to another.
	// The update only matches when the booking still has the expected status,
	// so of two concurrent confirmations exactly one wins; the loser gets
	// domain.ErrAlreadyConfirmed.
	TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus, providerID string, confirmedAt *time.Time) (*domain.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]domain.Booking, error)
	ListPendingInCities(ctx context.Context, cities []string) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db querier
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, client_id, provider_id, city, service, duration_weeks, start_date, end_date, students, price_per_student, total_price, status, created_at, confirmed_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bookings (id, client_id, city, service, duration_weeks, start_date, end_date, students, price_per_student, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		booking.ID, booking.ClientID, booking.City, booking.Service, booking.DurationWeeks,
		booking.StartDate, booking.EndDate, booking.Students, booking.PricePerStudent, booking.TotalPrice,
		booking.Status, booking.CreatedAt)
	return err
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownBooking
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus, providerID string, confirmedAt *time.Time) (*domain.Booking, error) {
	var pid *string
	if providerID != "" {
		pid = &providerID
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET status=$1, provider_id=COALESCE($2, provider_id), confirmed_at=COALESCE($3, confirmed_at)
		WHERE id=$4 AND status=$5
		RETURNING `+bookingColumns, to, pid, confirmedAt, id, from)
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Nothing matched: the booking is gone or its status moved underneath us.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if to == domain.BookingStatusConfirmed && current.Status == domain.BookingStatusConfirmed {
		return nil, domain.ErrAlreadyConfirmed
	}
	return nil, domain.ErrInvalidTransition
}

func (r *PGBookingRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE client_id=$1 ORDER BY created_at`, clientID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByProvider(ctx context.Context, providerID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE provider_id=$1 ORDER BY created_at`, providerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListPendingInCities(ctx context.Context, cities []string) ([]domain.Booking, error) {
	if len(cities) == 0 {
		return []domain.Booking{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND city = ANY($2) ORDER BY created_at`, domain.BookingStatusPending, cities)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.ClientID, &b.ProviderID, &b.City, &b.Service, &b.DurationWeeks,
		&b.StartDate, &b.EndDate, &b.Students, &b.PricePerStudent, &b.TotalPrice, &b.Status,
		&b.CreatedAt, &b.ConfirmedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
