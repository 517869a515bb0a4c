package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/service/availability"
)

type AvailabilityReader interface {
	Lookup(ctx context.Context, startDate, endDate string) availability.Derived
	WindowDays() int
	Derived() availability.Derived
	IsDateAvailable(date string) bool
	IsDateBooked(date string) bool
	IsDateLimited(date string) bool
	TimeSlotsForDate(ctx context.Context, date string) []domain.AvailabilitySlot
	CheckSlotAvailability(ctx context.Context, date, timeSlot string) bool
}

type AvailabilityHandler struct {
	store AvailabilityReader
}

type availabilityResponse struct {
	BookedDates       []string                   `json:"booked_dates"`
	LimitedDates      []string                   `json:"limited_dates"`
	AvailableDates    []string                   `json:"available_dates"`
	TimeSlotsByPeriod map[domain.Period][]string `json:"time_slots_by_period"`
}

type slotResponse struct {
	Time            string `json:"time"`
	MaxBookings     int    `json:"max_bookings"`
	CurrentBookings int    `json:"current_bookings"`
	Remaining       int    `json:"remaining"`
	Blocked         bool   `json:"blocked"`
	Available       bool   `json:"available"`
}

type dateResponse struct {
	Date      string         `json:"date"`
	Available bool           `json:"available"`
	Booked    bool           `json:"booked"`
	Limited   bool           `json:"limited"`
	TimeSlots []slotResponse `json:"time_slots"`
}

type checkResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

var (
	errRangeIncomplete = errors.New("start and end must be given together")
	errRangeReversed   = errors.New("start must not be after end")
)

func NewAvailabilityHandler(store AvailabilityReader) *AvailabilityHandler {
	return &AvailabilityHandler{store: store}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/dates/:date", h.date)
	router.GET("/dates/:date/times/:time", h.check)
}

// list serves the current snapshot, or a read-only lookup when a range is given.
func (h *AvailabilityHandler) list(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if (start == "") != (end == "") {
		badRequest(c, errRangeIncomplete)
		return
	}

	d := h.store.Derived()
	if start != "" {
		s, e, err := h.parseRange(start, end)
		if err != nil {
			badRequest(c, err)
			return
		}
		d = h.store.Lookup(c.Request.Context(), s, e)
	}

	c.JSON(http.StatusOK, availabilityResponse{
		BookedDates:       nonNil(d.BookedDates),
		LimitedDates:      nonNil(d.LimitedDates),
		AvailableDates:    nonNil(d.AvailableDates),
		TimeSlotsByPeriod: d.TimeSlotsByPeriod,
	})
}

func (h *AvailabilityHandler) parseRange(start, end string) (string, string, error) {
	s, err := domain.NormalizeDate(start)
	if err != nil {
		return "", "", err
	}
	e, err := domain.NormalizeDate(end)
	if err != nil {
		return "", "", err
	}
	from, _ := domain.ParseDate(s)
	to, _ := domain.ParseDate(e)
	if to.Before(from) {
		return "", "", errRangeReversed
	}
	if limit := h.store.WindowDays(); to.After(from.AddDate(0, 0, limit)) {
		return "", "", fmt.Errorf("range must not span more than %d days", limit)
	}
	return s, e, nil
}

func (h *AvailabilityHandler) date(c *gin.Context) {
	date, err := domain.NormalizeDate(c.Param("date"))
	if err != nil {
		badRequest(c, err)
		return
	}

	slots := h.store.TimeSlotsForDate(c.Request.Context(), date)
	resp := dateResponse{
		Date:      date,
		Available: h.store.IsDateAvailable(date),
		Booked:    h.store.IsDateBooked(date),
		Limited:   h.store.IsDateLimited(date),
		TimeSlots: make([]slotResponse, 0, len(slots)),
	}
	for i := range slots {
		s := &slots[i]
		resp.TimeSlots = append(resp.TimeSlots, slotResponse{
			Time:            s.TimeSlot,
			MaxBookings:     s.MaxBookings,
			CurrentBookings: s.CurrentBookings,
			Remaining:       s.Remaining(),
			Blocked:         s.IsBlocked,
			Available:       s.IsOpen(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) check(c *gin.Context) {
	date, err := domain.NormalizeDate(c.Param("date"))
	if err != nil {
		badRequest(c, err)
		return
	}
	t, err := domain.ParseTime(c.Param("time"))
	if err != nil {
		badRequest(c, err)
		return
	}
	label := t.Format(domain.TimeFormat)

	c.JSON(http.StatusOK, checkResponse{
		Date:      date,
		Time:      label,
		Available: h.store.CheckSlotAvailability(c.Request.Context(), date, label),
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
