package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/service/bookingflow"
	"github.com/wesleysambacht/booking/internal/service/steps"
	"github.com/wesleysambacht/booking/internal/session"
)

type SessionStore interface {
	Open() *session.Session
	Get(id string) (*session.Session, error)
	Close(id string) error
}

type Submitter interface {
	Submit(ctx context.Context, draft domain.BookingDraft, customer domain.CustomerDetails) (*domain.BookingConfirmation, error)
}

type SessionHandler struct {
	sessions     SessionStore
	steps        *steps.Steps
	submitter    Submitter
	calendarDays int
}

type sessionResponse struct {
	Session session.Context     `json:"session"`
	Draft   domain.BookingDraft `json:"draft"`
	View    steps.View          `json:"view"`
}

type transitionResponse struct {
	sessionResponse
	Ignored   bool `json:"ignored"`
	StaleTime bool `json:"stale_time"`
}

type dateRequest struct {
	Date string `json:"date" binding:"required"`
}

type timeRequest struct {
	Time string `json:"time" binding:"required"`
}

// guestsRequest sets an absolute count or moves it by Delta increments.
type guestsRequest struct {
	GuestCount *int `json:"guest_count"`
	Delta      *int `json:"delta"`
}

type stepRequest struct {
	Step domain.Step `json:"step" binding:"required"`
}

var errGuestsRequest = errors.New("either guest_count or delta is required")

func NewSessionHandler(sessions SessionStore, s *steps.Steps, submitter Submitter, calendarDays int) *SessionHandler {
	if calendarDays <= 0 {
		calendarDays = steps.DefaultCalendarDays
	}
	return &SessionHandler{sessions: sessions, steps: s, submitter: submitter, calendarDays: calendarDays}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.open)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.close)
	router.POST("/:id/date", h.selectDate)
	router.POST("/:id/time", h.selectTime)
	router.POST("/:id/guests", h.setGuests)
	router.POST("/:id/step", h.setStep)
	router.POST("/:id/reset", h.reset)
	router.POST("/:id/submit", h.submit)
}

func (h *SessionHandler) open(c *gin.Context) {
	s := h.sessions.Open()
	c.JSON(http.StatusCreated, h.render(c.Request.Context(), s))
}

func (h *SessionHandler) get(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.render(c.Request.Context(), s))
}

func (h *SessionHandler) close(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) selectDate(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	action, err := h.steps.Date.Select(req.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	h.dispatch(c, s, action)
}

func (h *SessionHandler) selectTime(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req timeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	action, err := h.steps.Time.Select(c.Request.Context(), s.Machine.State(), req.Time)
	if err != nil {
		writeError(c, err)
		return
	}
	h.dispatch(c, s, action)
}

func (h *SessionHandler) setGuests(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req guestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var action bookingflow.Action
	switch {
	case req.GuestCount != nil:
		a, err := h.steps.Guests.Set(*req.GuestCount)
		if err != nil {
			writeError(c, err)
			return
		}
		action = a
	case req.Delta != nil:
		action = h.steps.Guests.Adjust(s.Machine.State(), *req.Delta)
	default:
		badRequest(c, errGuestsRequest)
		return
	}
	h.dispatch(c, s, action)
}

// setStep only checks prerequisites when moving forward.
func (h *SessionHandler) setStep(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	draft := s.Machine.State()
	direction := bookingflow.DirectionBackward
	if req.Step > draft.Step {
		direction = bookingflow.DirectionForward
		if err := steps.CanEnter(draft, req.Step); err != nil {
			writeError(c, err)
			return
		}
	}
	h.dispatch(c, s, bookingflow.SetStep(req.Step, direction))
}

func (h *SessionHandler) reset(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	h.dispatch(c, s, bookingflow.Reset())
}

// submit resets the draft once the booking is stored.
func (h *SessionHandler) submit(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var customer domain.CustomerDetails
	if err := c.ShouldBindJSON(&customer); err != nil {
		badRequest(c, err)
		return
	}

	confirmation, err := h.submitter.Submit(c.Request.Context(), s.Machine.State(), customer)
	if err != nil {
		writeError(c, err)
		return
	}
	s.Machine.Dispatch(bookingflow.Reset())
	c.JSON(http.StatusCreated, confirmation)
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) dispatch(c *gin.Context, s *session.Session, action bookingflow.Action) {
	_, ev := s.Machine.Dispatch(action)
	c.JSON(http.StatusOK, transitionResponse{
		sessionResponse: h.render(c.Request.Context(), s),
		Ignored:         ev.Ignored,
		StaleTime:       ev.Delta.StaleTime,
	})
}

func (h *SessionHandler) render(ctx context.Context, s *session.Session) sessionResponse {
	draft := s.Machine.State()
	return sessionResponse{
		Session: s.Context,
		Draft:   draft,
		View:    h.steps.ViewFor(ctx, draft, h.calendarDays),
	}
}
