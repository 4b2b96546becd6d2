package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-reservations/internal/app"
	bookingHttp "github.com/nekogravitycat/facility-reservations/internal/booking/http"
	"github.com/nekogravitycat/facility-reservations/internal/pkg/response"
	"github.com/nekogravitycat/facility-reservations/internal/seed"
	"github.com/nekogravitycat/facility-reservations/internal/store"
)

// testNow is 2026-06-01 06:00 UTC.
var testNow = time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestRouter builds the full application on a fresh SQLite file.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	_, err = seed.Run(ctx, st.Facilities, st.Bookings, seed.Options{Location: time.UTC, Now: testNow})
	require.NoError(t, err)

	container := app.NewContainer(app.Config{
		Store:    st,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	return container.Router
}

func executeRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createBooking(t *testing.T, router *gin.Engine, body bookingHttp.CreateBookingBody) bookingHttp.CreateBookingResponse {
	t.Helper()
	w := executeRequest(router, "POST", "/v1/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[bookingHttp.CreateBookingResponse](t, w)
}

func occupiedHours(t *testing.T, router *gin.Engine, facilityID int64, date string) []string {
	t.Helper()
	w := executeRequest(router, "GET", fmt.Sprintf("/v1/facilities/%d/availability?date=%s", facilityID, date), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[bookingHttp.AvailabilityResponse](t, w)
	require.Len(t, resp.Slots, 12)
	var out []string
	for _, s := range resp.Slots {
		if s.Occupied {
			out = append(out, s.Hour)
		}
	}
	return out
}

func TestBookingLifecycle(t *testing.T) {
	router := newTestRouter(t)
	const day = "2026-06-02"

	var created bookingHttp.CreateBookingResponse

	t.Run("Create Booking: Success", func(t *testing.T) {
		created = createBooking(t, router, bookingHttp.CreateBookingBody{
			FacilityID: 1, Name: "Test User", Email: "test@example.com", Date: day, Hour: "10:00",
		})
		assert.NotZero(t, created.BookingID)
		assert.Len(t, created.CancelToken, 32)
		assert.Contains(t, created.CancelURL, created.CancelToken)
		assert.Equal(t, time.Hour, created.EndTime.Sub(created.StartTime))
	})

	t.Run("Create Booking: Slot Occupied", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/bookings", bookingHttp.CreateBookingBody{
			FacilityID: 1, Name: "Another", Email: "a@x.com", Date: day, Hour: "10:00",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "slot occupied", decode[response.ErrorResponse](t, w).Error)
	})

	t.Run("Availability marks the booked hour", func(t *testing.T) {
		assert.Equal(t, []string{"10:00"}, occupiedHours(t, router, 1, day))
	})

	t.Run("Cancel By Email: Mismatch", func(t *testing.T) {
		w := executeRequest(router, "POST", fmt.Sprintf("/v1/bookings/%d/cancel", created.BookingID),
			bookingHttp.CancelByEmailBody{Email: "wrong@x.com"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, []string{"10:00"}, occupiedHours(t, router, 1, day))
	})

	t.Run("Cancel By Email: Success", func(t *testing.T) {
		w := executeRequest(router, "POST", fmt.Sprintf("/v1/bookings/%d/cancel", created.BookingID),
			bookingHttp.CancelByEmailBody{Email: "TEST@example.com"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, decode[bookingHttp.MessageResponse](t, w).OK)
		assert.Empty(t, occupiedHours(t, router, 1, day))
	})

	t.Run("Cancel By Email: Already Gone", func(t *testing.T) {
		w := executeRequest(router, "POST", fmt.Sprintf("/v1/bookings/%d/cancel", created.BookingID),
			bookingHttp.CancelByEmailBody{Email: "test@example.com"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateBookingValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body any
		code int
	}{
		{"missing name", bookingHttp.CreateBookingBody{FacilityID: 1, Email: "a@x.com", Date: "2026-06-02", Hour: "10:00"}, http.StatusBadRequest},
		{"malformed email", bookingHttp.CreateBookingBody{FacilityID: 1, Name: "A", Email: "not-an-email", Date: "2026-06-02", Hour: "10:00"}, http.StatusBadRequest},
		{"blank name", bookingHttp.CreateBookingBody{FacilityID: 1, Name: "   ", Email: "a@x.com", Date: "2026-06-02", Hour: "10:00"}, http.StatusBadRequest},
		{"bad date", bookingHttp.CreateBookingBody{FacilityID: 1, Name: "A", Email: "a@x.com", Date: "02/06/2026", Hour: "10:00"}, http.StatusBadRequest},
		{"hour outside opening", bookingHttp.CreateBookingBody{FacilityID: 1, Name: "A", Email: "a@x.com", Date: "2026-06-02", Hour: "21:00"}, http.StatusBadRequest},
		{"half hour", bookingHttp.CreateBookingBody{FacilityID: 1, Name: "A", Email: "a@x.com", Date: "2026-06-02", Hour: "10:30"}, http.StatusBadRequest},
		{"in the past", bookingHttp.CreateBookingBody{FacilityID: 1, Name: "A", Email: "a@x.com", Date: "2026-05-31", Hour: "10:00"}, http.StatusBadRequest},
		{"unknown facility", bookingHttp.CreateBookingBody{FacilityID: 404, Name: "A", Email: "a@x.com", Date: "2026-06-02", Hour: "10:00"}, http.StatusNotFound},
		{"not json", "plain string", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeRequest(router, "POST", "/v1/bookings", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[response.ErrorResponse](t, w).Error)
		})
	}
}

func TestCancelWithToken(t *testing.T) {
	router := newTestRouter(t)

	t.Run("JSON body, then reuse", func(t *testing.T) {
		created := createBooking(t, router, bookingHttp.CreateBookingBody{
			FacilityID: 2, Name: "T", Email: "t@x.com", Date: "2026-06-03", Hour: "12:00",
		})

		w := executeRequest(router, "POST", "/v1/bookings/cancel-with-token",
			bookingHttp.CancelByTokenBody{Token: created.CancelToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = executeRequest(router, "POST", "/v1/bookings/cancel-with-token",
			bookingHttp.CancelByTokenBody{Token: created.CancelToken})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "invalid or already used token", decode[response.ErrorResponse](t, w).Error)
	})

	t.Run("Cancel URL from the create response", func(t *testing.T) {
		created := createBooking(t, router, bookingHttp.CreateBookingBody{
			FacilityID: 2, Name: "T", Email: "t@x.com", Date: "2026-06-03", Hour: "13:00",
		})

		w := executeRequest(router, "POST", created.CancelURL, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Empty(t, occupiedHours(t, router, 2, "2026-06-03"))
	})

	t.Run("Form field", func(t *testing.T) {
		created := createBooking(t, router, bookingHttp.CreateBookingBody{
			FacilityID: 3, Name: "T", Email: "t@x.com", Date: "2026-06-03", Hour: "14:00",
		})

		req, _ := http.NewRequest("POST", "/v1/bookings/cancel-with-token",
			strings.NewReader("token="+created.CancelToken))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Missing token", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/bookings/cancel-with-token", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown token", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/bookings/cancel-with-token",
			bookingHttp.CancelByTokenBody{Token: "deadbeef"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListBookingsByEmail(t *testing.T) {
	router := newTestRouter(t)

	createBooking(t, router, bookingHttp.CreateBookingBody{
		FacilityID: 4, Name: "L", Email: "List@Example.com", Date: "2026-06-05", Hour: "09:00",
	})
	createBooking(t, router, bookingHttp.CreateBookingBody{
		FacilityID: 1, Name: "L", Email: "list@example.com", Date: "2026-06-04", Hour: "20:00",
	})
	createBooking(t, router, bookingHttp.CreateBookingBody{
		FacilityID: 1, Name: "Other", Email: "other@example.com", Date: "2026-06-04", Hour: "19:00",
	})

	w := executeRequest(router, "GET", "/v1/bookings?email=LIST@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[response.ListResponse[bookingHttp.BookingResponse]](t, w)
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(1), resp.Items[0].Facility.ID)
	assert.Equal(t, "Football Pitch", resp.Items[0].Facility.Name)
	assert.Equal(t, int64(4), resp.Items[1].Facility.ID)
	assert.True(t, resp.Items[0].StartTime.Before(resp.Items[1].StartTime))

	w = executeRequest(router, "GET", "/v1/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDatesAndFacilities(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Default horizon", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/dates", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[bookingHttp.DatesResponse](t, w)
		require.Len(t, resp.Dates, 30)
		assert.Equal(t, "2026-06-01", resp.Dates[0])
		assert.Equal(t, "2026-06-30", resp.Dates[29])
	})

	t.Run("Custom horizon", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/dates?days=7", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[bookingHttp.DatesResponse](t, w).Dates, 7)
	})

	t.Run("Horizon out of range", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/dates?days=1000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Availability for unknown facility", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/facilities/99/availability?date=2026-06-02", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Availability without date", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/facilities/1/availability", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
