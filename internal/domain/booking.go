package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// CustomerDetails is what the visitor fills in on the confirmation step
type CustomerDetails struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,min=6,max=32"`
	ServiceCategory string `json:"service_category" validate:"omitempty,oneof=corporate private wedding"`
	ServiceTier     string `json:"service_tier" validate:"omitempty,oneof=essential premium luxury"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// BookingRequest is the payload handed to the booking-creation collaborator
type BookingRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	EventDate       string `json:"eventDate"`
	EventTime       string `json:"eventTime"`
	GuestCount      int    `json:"guestCount"`
	ServiceCategory string `json:"serviceCategory,omitempty"`
	ServiceTier     string `json:"serviceTier,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Booking is a booking as stored by the backend
type Booking struct {
	ID              string        `json:"id"`
	CustomerName    string        `json:"customerName"`
	CustomerEmail   string        `json:"customerEmail"`
	CustomerPhone   string        `json:"customerPhone,omitempty"`
	EventDate       string        `json:"eventDate"`
	EventTime       string        `json:"eventTime"`
	GuestCount      int           `json:"guestCount"`
	ServiceCategory string        `json:"serviceCategory,omitempty"`
	ServiceTier     string        `json:"serviceTier,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a short user-facing notification
type Toast struct {
	Kind        ToastKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// BookingConfirmation is returned to the visitor after a successful submission
type BookingConfirmation struct {
	Booking Booking `json:"booking"`
	Toast   Toast   `json:"toast"`
}
