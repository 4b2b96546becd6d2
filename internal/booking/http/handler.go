package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-reservations/internal/booking"
	"github.com/nekogravitycat/facility-reservations/internal/metrics"
	"github.com/nekogravitycat/facility-reservations/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-reservations/internal/pkg/request"
	"github.com/nekogravitycat/facility-reservations/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// resultOf buckets an operation error into a metrics label.
func resultOf(err error) string {
	var appErr *apperror.AppError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, booking.ErrSlotOccupied):
		return metrics.ResultConflict
	case errors.As(err, &appErr):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

func (h *Handler) Dates(c *gin.Context) {
	var q DatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid days parameter", err)
		return
	}

	dates := h.service.ListAvailableDates(q.Days)
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(booking.DateLayout)
	}
	c.JSON(http.StatusOK, DatesResponse{Dates: out})
}

func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid facility id", err)
		return
	}
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "date is required", err)
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), uri.ID, q.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(uri.ID, q.Date, slots))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "missing or invalid booking fields", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		FacilityID: body.FacilityID,
		Name:       body.Name,
		Email:      body.Email,
		Date:       body.Date,
		Hour:       body.Hour,
	})
	metrics.IncBookingCreated(resultOf(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateBookingResponse{
		BookingID:   b.ID,
		CancelToken: b.CancelToken,
		CancelURL:   "/v1/bookings/cancel-with-token?token=" + url.QueryEscape(b.CancelToken),
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
	})
}

func (h *Handler) ListByEmail(c *gin.Context) {
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "email is required", err)
		return
	}

	bookings, err := h.service.ListByEmail(c.Request.Context(), q.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) CancelByEmail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid booking id", err)
		return
	}
	var body CancelByEmailBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "email is required", err)
		return
	}

	err := h.service.CancelByEmail(c.Request.Context(), uri.ID, body.Email)
	metrics.IncBookingCancelled(metrics.MethodEmail, resultOf(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{OK: true, Message: "booking cancelled"})
}

// CancelByToken accepts the token as JSON, as a form field, or as the
// ?token= query parameter of the link handed out on creation.
func (h *Handler) CancelByToken(c *gin.Context) {
	var body CancelByTokenBody
	if err := c.ShouldBind(&body); err != nil {
		body.Token = c.Query("token")
	}
	if body.Token == "" {
		response.BadRequest(c, "token is required", nil)
		return
	}

	err := h.service.CancelByToken(c.Request.Context(), body.Token)
	metrics.IncBookingCancelled(metrics.MethodToken, resultOf(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{OK: true, Message: "booking cancelled"})
}
