package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// CanTransitionTo reports whether a booking may move from s to next.
// Pending bookings can be confirmed or cancelled, confirmed bookings can be
// completed or cancelled. Completed and cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

type Booking struct {
	ID              string
	ClientID        string
	ProviderID      *string // nil until a provider confirms
	City            string
	Service         string // denormalized service name
	DurationWeeks   int
	StartDate       time.Time
	EndDate         time.Time
	Students        int
	PricePerStudent int64
	TotalPrice      int64
	Status          BookingStatus
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
}

// Quote computes the per-student and total price for a course.
// The weekly base rate is charged per student for every week of the course.
func Quote(baseRate int64, weeks, students int) (perStudent, total int64) {
	perStudent = baseRate * int64(weeks)
	total = perStudent * int64(students)
	return perStudent, total
}

// CourseEnd returns the end date of a course starting at start and running
// for the given number of weeks.
func CourseEnd(start time.Time, weeks int) time.Time {
	return start.AddDate(0, 0, weeks*7)
}
