package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkraev/lingobook/internal/domain"
	"github.com/dkraev/lingobook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.LedgerUseCase
}

type createBookingRequest struct {
	ClientID      string    `json:"client_id" binding:"required"`
	City          string    `json:"city" binding:"required"`
	ServiceID     string    `json:"service_id" binding:"required"`
	DurationWeeks int       `json:"duration_weeks" binding:"required,gt=0"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	Students      int       `json:"students" binding:"required,gt=0"`
}

type updateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	ProviderID string `json:"provider_id"`
}

type bookingResponse struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"client_id"`
	ProviderID      *string `json:"provider_id,omitempty"`
	City            string  `json:"city"`
	Service         string  `json:"service"`
	DurationWeeks   int     `json:"duration_weeks"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Students        int     `json:"students"`
	PricePerStudent int64   `json:"price_per_student"`
	TotalPrice      int64   `json:"total_price"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	ConfirmedAt     *string `json:"confirmed_at,omitempty"`
}

func NewBookingHandler(service booking.LedgerUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PUT("/:id/status", h.updateStatus)
	router.GET("/", h.listAll)
	router.GET("/client/:id", h.listForClient)
	router.GET("/provider/:id", h.listForProvider)
	router.GET("/provider/:id/pending", h.listPendingForProvider)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		ClientID:      req.ClientID,
		City:          req.City,
		ServiceID:     req.ServiceID,
		DurationWeeks: req.DurationWeeks,
		StartDate:     req.StartDate,
		Students:      req.Students,
	})
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateBookingStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status), req.ProviderID)
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) listAll(c *gin.Context) {
	bookings, err := h.service.AllBookings(c.Request.Context())
	h.respondList(c, bookings, err)
}

func (h *BookingHandler) listForClient(c *gin.Context) {
	bookings, err := h.service.BookingsForClient(c.Request.Context(), c.Param("id"))
	h.respondList(c, bookings, err)
}

func (h *BookingHandler) listForProvider(c *gin.Context) {
	bookings, err := h.service.BookingsForProvider(c.Request.Context(), c.Param("id"))
	h.respondList(c, bookings, err)
}

func (h *BookingHandler) listPendingForProvider(c *gin.Context) {
	bookings, err := h.service.PendingBookingsForProvider(c.Request.Context(), c.Param("id"))
	h.respondList(c, bookings, err)
}

func (h *BookingHandler) respondList(c *gin.Context, bookings []domain.Booking, err error) {
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		ClientID:        b.ClientID,
		ProviderID:      b.ProviderID,
		City:            b.City,
		Service:         b.Service,
		DurationWeeks:   b.DurationWeeks,
		StartDate:       b.StartDate.Format(time.RFC3339),
		EndDate:         b.EndDate.Format(time.RFC3339),
		Students:        b.Students,
		PricePerStudent: b.PricePerStudent,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		confirmed := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &confirmed
	}
	return resp
}

// errStatus maps domain failures onto HTTP status codes. Anything unmapped is
// treated as a bad request, matching how handlers here have always reported
// validation errors.
func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrAlreadyConfirmed),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnknownSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnknownBooking),
		errors.Is(err, domain.ErrUnknownService),
		errors.Is(err, domain.ErrUnknownUser):
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
