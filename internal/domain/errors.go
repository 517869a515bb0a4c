package domain

// Error codes shared by the backend adapters
const (
	CodeSlotUnavailable = "SLOT_UNAVAILABLE"
	CodeSlotNotFound    = "SLOT_NOT_FOUND"
	CodeInvalidBooking  = "INVALID_BOOKING"
)

// Error is a business error that carries a structured code
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) ErrorCode() string {
	return e.Code
}

var (
	ErrSlotUnavailable = &Error{Code: CodeSlotUnavailable, Message: "availability slot is fully booked or blocked"}
	ErrSlotNotFound    = &Error{Code: CodeSlotNotFound, Message: "availability slot not found"}
	ErrInvalidBooking  = &Error{Code: CodeInvalidBooking, Message: "invalid booking request"}
)
