package http

import (
	"github.com/nekogravitycat/facility-reservations/internal/facility"
)

type FacilityResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	HourlyRate  float64 `json:"hourly_rate"`
	Description string  `json:"description"`
}

func NewFacilityResponse(f *facility.Facility) FacilityResponse {
	return FacilityResponse{
		ID:          f.ID,
		Name:        f.Name,
		HourlyRate:  f.HourlyRate,
		Description: f.Description,
	}
}

// FacilityTag is the compact form embedded in other responses.
type FacilityTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}
