package ambachtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
)

type Logger interface {
	Debug(format string, args ...any)
}

// Client talks to the availability and booking REST endpoints of the backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a client. apiKey is sent as Supabase style apikey and bearer token
// when not empty.
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAvailabilitySlots returns every slot in [startDate, endDate]
func (c *Client) GetAvailabilitySlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)

	var slots []domain.AvailabilitySlot
	if err := c.do(ctx, http.MethodGet, "/availability?"+q.Encode(), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// GetAvailableTimeSlots returns the slots of one date
func (c *Client) GetAvailableTimeSlots(ctx context.Context, date string) ([]domain.AvailabilitySlot, error) {
	var slots []domain.AvailabilitySlot
	err := c.do(ctx, http.MethodGet, "/availability/"+url.PathEscape(date), nil, &slots)
	if errors.Is(err, ErrNotFound) {
		return []domain.AvailabilitySlot{}, nil
	}
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// CheckAvailability asks whether date and time can still be booked
func (c *Client) CheckAvailability(ctx context.Context, date, timeSlot string) (bool, error) {
	var resp checkResponse
	if err := c.do(ctx, http.MethodPost, "/availability/check", checkRequest{Date: date, Time: timeSlot}, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

// CreateBooking posts a booking and returns the stored record
func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// keep the transport error text: it is what classification keys on
		return fmt.Errorf("%w: network request failed: %w", ErrInternal, err)
	}
	defer resp.Body.Close()
	c.log.Debug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(started))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && (body.Code != "" || body.Message != "") {
		return &APIError{Status: resp.StatusCode, Code: body.Code, Message: body.Message}
	}
	return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, string(raw))}
}
