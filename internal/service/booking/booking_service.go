package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dkraev/lingobook/internal/domain"
	"github.com/dkraev/lingobook/internal/kafka"
	"github.com/dkraev/lingobook/internal/repository"
	"github.com/google/uuid"
)

type LedgerUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus, providerID string) (*domain.Booking, error)
	BookingsForClient(ctx context.Context, clientID string) ([]domain.Booking, error)
	BookingsForProvider(ctx context.Context, providerID string) ([]domain.Booking, error)
	PendingBookingsForProvider(ctx context.Context, providerID string) ([]domain.Booking, error)
	AllBookings(ctx context.Context) ([]domain.Booking, error)
}

// Catalog resolves the static service and city seed data.
type Catalog interface {
	ServiceByID(id string) (domain.Service, bool)
	ProvidersInCity(city string) []string
	CitiesForProvider(providerID string) []string
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	ClientID      string    `json:"client_id"`
	City          string    `json:"city"`
	ServiceID     string    `json:"service_id"`
	DurationWeeks int       `json:"duration_weeks"`
	StartDate     time.Time `json:"start_date"`
	Students      int       `json:"students"`
}

type LedgerService struct {
	bookings           repository.BookingRepository
	catalog            Catalog
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	now                func() time.Time
}

type LedgerServiceOption func(*LedgerService)

func WithNotificationsTopic(topic string) LedgerServiceOption {
	return func(s *LedgerService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

func NewLedgerService(
	bookings repository.BookingRepository,
	catalog Catalog,
	producer Producer,
	eventsTopic string,
	opts ...LedgerServiceOption,
) *LedgerService {
	service := &LedgerService{
		bookings:    bookings,
		catalog:     catalog,
		producer:    producer,
		eventsTopic: eventsTopic,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *LedgerService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	if input.City == "" {
		return nil, errors.New("city is required")
	}
	if input.DurationWeeks <= 0 {
		return nil, errors.New("duration must be positive")
	}
	if input.Students <= 0 {
		return nil, errors.New("number of students must be positive")
	}

	service, ok := s.catalog.ServiceByID(input.ServiceID)
	if !ok {
		return nil, domain.ErrUnknownService
	}

	perStudent, total := domain.Quote(service.BaseRate, input.DurationWeeks, input.Students)

	booking := &domain.Booking{
		ID:              uuid.NewString(),
		ClientID:        input.ClientID,
		City:            input.City,
		Service:         service.Name,
		DurationWeeks:   input.DurationWeeks,
		StartDate:       input.StartDate,
		EndDate:         domain.CourseEnd(input.StartDate, input.DurationWeeks),
		Students:        input.Students,
		PricePerStudent: perStudent,
		TotalPrice:      total,
		Status:          domain.BookingStatusPending,
		CreatedAt:       s.now(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.ID, err)
	}
	return booking, nil
}

func (s *LedgerService) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus, providerID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(status) {
		if status == domain.BookingStatusConfirmed && current.Status == domain.BookingStatusConfirmed {
			return nil, domain.ErrAlreadyConfirmed
		}
		return nil, domain.ErrInvalidTransition
	}

	var confirmedAt *time.Time
	pid := ""
	if status == domain.BookingStatusConfirmed {
		if providerID == "" {
			return nil, errors.New("provider id is required to confirm")
		}
		now := s.now()
		confirmedAt = &now
		pid = providerID
	}

	updated, err := s.bookings.TransitionStatus(ctx, bookingID, current.Status, status, pid, confirmedAt)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, eventType(status), updated); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType(status), updated.ID, err)
	}
	return updated, nil
}

func (s *LedgerService) BookingsForClient(ctx context.Context, clientID string) ([]domain.Booking, error) {
	return s.bookings.ListByClient(ctx, clientID)
}

func (s *LedgerService) BookingsForProvider(ctx context.Context, providerID string) ([]domain.Booking, error) {
	return s.bookings.ListByProvider(ctx, providerID)
}

// PendingBookingsForProvider returns the pending bookings in the cities the
// provider operates in. Accepting one of them is first come first served via
// UpdateBookingStatus.
func (s *LedgerService) PendingBookingsForProvider(ctx context.Context, providerID string) ([]domain.Booking, error) {
	cities := s.catalog.CitiesForProvider(providerID)
	return s.bookings.ListPendingInCities(ctx, cities)
}

func (s *LedgerService) AllBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *LedgerService) publish(ctx context.Context, evType string, booking *domain.Booking) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:       evType,
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		City:       booking.City,
		Service:    booking.Service,
		Status:     string(booking.Status),
		TotalPrice: booking.TotalPrice,
		CreatedAt:  booking.CreatedAt,
	}
	if booking.ProviderID != nil {
		event.ProviderID = *booking.ProviderID
	}
	if evType == "booking_created" {
		event.Providers = s.catalog.ProvidersInCity(booking.City)
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

func eventType(status domain.BookingStatus) string {
	switch status {
	case domain.BookingStatusConfirmed:
		return "booking_confirmed"
	case domain.BookingStatusCompleted:
		return "booking_completed"
	case domain.BookingStatusCancelled:
		return "booking_cancelled"
	}
	return "booking_updated"
}

var _ LedgerUseCase = (*LedgerService)(nil)
