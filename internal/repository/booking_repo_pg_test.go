package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkraev/lingobook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier scripts the rows returned by successive QueryRow calls and
// records the arguments of every statement.
type fakeQuerier struct {
	execArgs  [][]any
	execErr   error
	queryArgs [][]any
	rows      []pgx.Row
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execArgs = append(f.execArgs, args)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queryArgs = append(f.queryArgs, args)
	row := f.rows[0]
	f.rows = f.rows[1:]
	return row
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

type fakeBookingRow struct {
	booking *domain.Booking
	err     error
}

func (r fakeBookingRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	b := r.booking
	*dest[0].(*string) = b.ID
	*dest[1].(*string) = b.ClientID
	*dest[2].(**string) = b.ProviderID
	*dest[3].(*string) = b.City
	*dest[4].(*string) = b.Service
	*dest[5].(*int) = b.DurationWeeks
	*dest[6].(*time.Time) = b.StartDate
	*dest[7].(*time.Time) = b.EndDate
	*dest[8].(*int) = b.Students
	*dest[9].(*int64) = b.PricePerStudent
	*dest[10].(*int64) = b.TotalPrice
	*dest[11].(*domain.BookingStatus) = b.Status
	*dest[12].(*time.Time) = b.CreatedAt
	*dest[13].(**time.Time) = b.ConfirmedAt
	return nil
}

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestPGBookingRepository_Create_PersistsCreatedAt(t *testing.T) {
	fake := &fakeQuerier{}
	repo := &PGBookingRepository{db: fake}

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID:        "b-1",
		ClientID:  "client-1",
		City:      "Berlin",
		Service:   "Intensive German Course",
		Status:    domain.BookingStatusPending,
		CreatedAt: created,
	}

	require.NoError(t, repo.Create(context.Background(), booking))

	require.Len(t, fake.execArgs, 1)
	args := fake.execArgs[0]
	assert.Equal(t, "b-1", args[0])
	// The caller's clock is the stored creation time, not the database's.
	assert.Equal(t, created, args[11])
}

func TestPGBookingRepository_TransitionStatus_Wins(t *testing.T) {
	providerID := "provider1"
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	confirmed := &domain.Booking{
		ID:          "b-1",
		ClientID:    "client-1",
		City:        "Berlin",
		ProviderID:  &providerID,
		Status:      domain.BookingStatusConfirmed,
		ConfirmedAt: &now,
	}
	fake := &fakeQuerier{rows: []pgx.Row{fakeBookingRow{booking: confirmed}}}
	repo := &PGBookingRepository{db: fake}

	got, err := repo.TransitionStatus(context.Background(), "b-1", domain.BookingStatusPending, domain.BookingStatusConfirmed, "provider1", &now)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
	assert.Equal(t, "provider1", *got.ProviderID)
	assert.Equal(t, now, *got.ConfirmedAt)

	// The update is guarded on the expected current status.
	require.Len(t, fake.queryArgs, 1)
	assert.Equal(t, domain.BookingStatusPending, fake.queryArgs[0][4])
}

func TestPGBookingRepository_TransitionStatus_LosesConfirmRace(t *testing.T) {
	otherProvider := "provider2"
	// The guarded update matches nothing because another provider confirmed
	// first; the re-read sees their confirmation.
	takenBy := &domain.Booking{ID: "b-1", ProviderID: &otherProvider, Status: domain.BookingStatusConfirmed}
	fake := &fakeQuerier{rows: []pgx.Row{
		fakeBookingRow{err: pgx.ErrNoRows},
		fakeBookingRow{booking: takenBy},
	}}
	repo := &PGBookingRepository{db: fake}

	now := time.Now()
	_, err := repo.TransitionStatus(context.Background(), "b-1", domain.BookingStatusPending, domain.BookingStatusConfirmed, "provider1", &now)

	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
}

func TestPGBookingRepository_TransitionStatus_StaleStatus(t *testing.T) {
	cancelled := &domain.Booking{ID: "b-1", Status: domain.BookingStatusCancelled}
	fake := &fakeQuerier{rows: []pgx.Row{
		fakeBookingRow{err: pgx.ErrNoRows},
		fakeBookingRow{booking: cancelled},
	}}
	repo := &PGBookingRepository{db: fake}

	_, err := repo.TransitionStatus(context.Background(), "b-1", domain.BookingStatusPending, domain.BookingStatusCancelled, "", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPGBookingRepository_TransitionStatus_UnknownBooking(t *testing.T) {
	fake := &fakeQuerier{rows: []pgx.Row{
		fakeBookingRow{err: pgx.ErrNoRows},
		fakeBookingRow{err: pgx.ErrNoRows},
	}}
	repo := &PGBookingRepository{db: fake}

	_, err := repo.TransitionStatus(context.Background(), "missing", domain.BookingStatusPending, domain.BookingStatusConfirmed, "provider1", nil)

	assert.ErrorIs(t, err, domain.ErrUnknownBooking)
}

func TestPGBookingRepository_GetByID_Unknown(t *testing.T) {
	fake := &fakeQuerier{rows: []pgx.Row{fakeBookingRow{err: pgx.ErrNoRows}}}
	repo := &PGBookingRepository{db: fake}

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrUnknownBooking)
}
