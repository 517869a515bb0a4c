package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleysambacht/booking/internal/logger"
	"github.com/wesleysambacht/booking/internal/service/availability"
)

func newAvailabilityRouter(store AvailabilityReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAvailabilityHandler(store).Register(router.Group("/api/v1/availability"))
	return router
}

func TestAvailabilityHandler_list(t *testing.T) {
	store := &stubStore{slots: fixtureSlots()}
	router := newAvailabilityRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp availabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []string{"2025-06-21"}, resp.BookedDates)
	assert.Equal(t, []string{"2025-06-14"}, resp.LimitedDates)
	assert.Equal(t, []string{"2025-06-14"}, resp.AvailableDates)
	assert.Equal(t, []string{"12:00"}, resp.TimeSlotsByPeriod["afternoon"])
	assert.Equal(t, []string{"18:00"}, resp.TimeSlotsByPeriod["evening"])
	assert.Empty(t, store.lookedUp)
}

func TestAvailabilityHandler_listWithRange(t *testing.T) {
	store := &stubStore{slots: fixtureSlots()}
	router := newAvailabilityRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability?start=2025-06-15T00:00:00Z&end=2025-06-30", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [][2]string{{"2025-06-15", "2025-06-30"}}, store.lookedUp)
	assert.JSONEq(t, `{"booked_dates":["2025-06-21"],"limited_dates":[],"available_dates":[],"time_slots_by_period":{"morning":[],"afternoon":[],"evening":["18:00"]}}`, w.Body.String())
}

func TestAvailabilityHandler_rangeQueryKeepsSharedSnapshot(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	store := availability.NewStore(&stubSource{slots: fixtureSlots()}, logger.Nop(), availability.WithClock(now))
	store.Refresh(context.Background())
	require.True(t, store.IsDateAvailable("2025-06-14"))

	w := httptest.NewRecorder()
	newAvailabilityRouter(store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability?start=2020-01-01&end=2020-01-01", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"booked_dates":[],"limited_dates":[],"available_dates":[],"time_slots_by_period":{"morning":[],"afternoon":[],"evening":[]}}`, w.Body.String())
	assert.True(t, store.IsDateAvailable("2025-06-14"))
	assert.True(t, store.IsDateBooked("2025-06-21"))
}

func TestAvailabilityHandler_listBadRange(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{name: "Only start", query: "?start=2025-06-01"},
		{name: "Malformed end", query: "?start=2025-06-01&end=june"},
		{name: "Reversed", query: "?start=2025-06-30&end=2025-06-01"},
		{name: "Wider than the window", query: "?start=2025-01-01&end=2026-01-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			w := httptest.NewRecorder()
			newAvailabilityRouter(store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability"+tc.query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, store.lookedUp)
		})
	}
}

func TestAvailabilityHandler_date(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/availability/dates/2025-06-14", nil)
	c.Params = gin.Params{{Key: "date", Value: "2025-06-14"}}

	NewAvailabilityHandler(&stubStore{slots: fixtureSlots()}).date(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Available)
	assert.True(t, resp.Limited)
	assert.False(t, resp.Booked)
	require.Len(t, resp.TimeSlots, 2)
	assert.Equal(t, slotResponse{Time: "18:00", MaxBookings: 2, CurrentBookings: 1, Remaining: 1, Available: true}, resp.TimeSlots[1])
}

func TestAvailabilityHandler_check(t *testing.T) {
	router := newAvailabilityRouter(&stubStore{slots: fixtureSlots()})

	testCases := []struct {
		name         string
		path         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Open slot",
			path:         "/api/v1/availability/dates/2025-06-14/times/18:00",
			expectedCode: http.StatusOK,
			expectedBody: `{"date":"2025-06-14","time":"18:00","available":true}`,
		},
		{
			name:         "Full slot",
			path:         "/api/v1/availability/dates/2025-06-21/times/18:00",
			expectedCode: http.StatusOK,
			expectedBody: `{"date":"2025-06-21","time":"18:00","available":false}`,
		},
		{
			name:         "Malformed time",
			path:         "/api/v1/availability/dates/2025-06-14/times/evening",
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, w.Body.String())
			}
		})
	}
}
