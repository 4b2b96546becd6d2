package http

import (
	"time"

	"github.com/nekogravitycat/facility-reservations/internal/booking"
	facHttp "github.com/nekogravitycat/facility-reservations/internal/facility/http"
)

type CreateBookingBody struct {
	FacilityID int64  `json:"facility_id" binding:"required,min=1"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Date       string `json:"date" binding:"required"`
	Hour       string `json:"hour" binding:"required"`
}

type CreateBookingResponse struct {
	BookingID   int64     `json:"booking_id"`
	CancelToken string    `json:"cancel_token"`
	CancelURL   string    `json:"cancel_url"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type CancelByEmailBody struct {
	Email string `json:"email" binding:"required"`
}

type CancelByTokenBody struct {
	Token string `json:"token" form:"token" binding:"required"`
}

type ListBookingsQuery struct {
	Email string `form:"email" binding:"required"`
}

type AvailabilityQuery struct {
	Date string `form:"date" binding:"required"`
}

type DatesQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

type BookingResponse struct {
	ID        int64               `json:"id"`
	Facility  facHttp.FacilityTag `json:"facility"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	StartTime time.Time           `json:"start_time"`
	EndTime   time.Time           `json:"end_time"`
	CreatedAt time.Time           `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Facility:  facHttp.FacilityTag{ID: b.FacilityID, Name: b.FacilityName},
		Name:      b.Name,
		Email:     b.Email,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		CreatedAt: b.CreatedAt,
	}
}

type SlotResponse struct {
	Hour     string `json:"hour"`
	Occupied bool   `json:"occupied"`
}

type AvailabilityResponse struct {
	FacilityID int64          `json:"facility_id"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
}

func NewAvailabilityResponse(facilityID int64, date string, slots []booking.Slot) AvailabilityResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{Hour: s.Hour, Occupied: s.Occupied}
	}
	return AvailabilityResponse{FacilityID: facilityID, Date: date, Slots: items}
}

type DatesResponse struct {
	Dates []string `json:"dates"`
}

type MessageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
