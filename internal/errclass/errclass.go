// Package errclass maps backend and transport errors to a kind and a Dutch message for
// the visitor. A structured code on the error chain wins; otherwise the message text is
// matched against keywords.
package errclass

import (
	"errors"
	"strings"

	"github.com/wesleysambacht/booking/internal/domain"
)

type Kind string

const (
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindBusiness   Kind = "business"
	KindSystem     Kind = "system"
)

// Context narrows business messages to the flow the error came from.
type Context string

const (
	ContextBooking      Context = "booking"
	ContextAvailability Context = "availability"
	ContextQuote        Context = "quote"
)

// Coder is implemented by errors that carry a structured backend code.
type Coder interface {
	ErrorCode() string
}

// UserError is an error whose Error() is safe to show to the visitor.
type UserError struct {
	Kind    Kind
	Context Context
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

var codeKinds = map[string]Kind{
	domain.CodeSlotUnavailable: KindBusiness,
	domain.CodeSlotNotFound:    KindBusiness,
	domain.CodeInvalidBooking:  KindValidation,
	"VALIDATION_ERROR":         KindValidation,
	"BAD_REQUEST":              KindValidation,
	"FULLY_BOOKED":             KindBusiness,
	"DATE_BLOCKED":             KindBusiness,
	"SERVICE_UNAVAILABLE":      KindNetwork,
	"TIMEOUT":                  KindNetwork,
	"INTERNAL_ERROR":           KindSystem,
}

// order matters: the first matching group wins
var keywordKinds = []struct {
	kind     Kind
	keywords []string
}{
	{KindNetwork, []string{"network", "fetch", "timeout", "deadline exceeded", "connection", "dial tcp", "no such host", "econnrefused", "offline"}},
	{KindValidation, []string{"validation", "invalid", "required", "ongeldig", "verplicht", "malformed"}},
	{KindBusiness, []string{"booking", "boeking", "availability", "beschikbaar", "available", "slot", "fully booked", "quote", "offerte"}},
}

// Classify returns the kind of err. Nil errors are KindSystem.
func Classify(err error) Kind {
	if err == nil {
		return KindSystem
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Kind
	}

	var coder Coder
	if errors.As(err, &coder) {
		if kind, ok := codeKinds[strings.ToUpper(coder.ErrorCode())]; ok {
			return kind
		}
	}

	msg := strings.ToLower(err.Error())
	for _, group := range keywordKinds {
		for _, kw := range group.keywords {
			if strings.Contains(msg, kw) {
				return group.kind
			}
		}
	}
	return KindSystem
}

// Message returns the Dutch text shown for kind.
func Message(kind Kind, ctx Context) string {
	switch kind {
	case KindNetwork:
		return "Er is een verbindingsprobleem. Controleer uw internetverbinding en probeer het opnieuw."
	case KindValidation:
		return "Niet alle gegevens zijn correct ingevuld. Controleer het formulier en probeer het opnieuw."
	case KindBusiness:
		switch ctx {
		case ContextAvailability:
			return "De beschikbaarheid kon niet worden opgehaald. Probeer het over een moment opnieuw."
		case ContextQuote:
			return "De offerte kon niet worden berekend. Neem contact met ons op voor een offerte op maat."
		default:
			return "Deze datum of tijd is helaas niet meer beschikbaar. Kies een ander moment."
		}
	default:
		return "Er is een onverwachte fout opgetreden. Probeer het later opnieuw of neem contact met ons op."
	}
}

// Wrap classifies err and attaches the visitor message. An existing *UserError is
// returned unchanged.
func Wrap(err error, ctx Context) *UserError {
	if err == nil {
		return nil
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	kind := Classify(err)
	return &UserError{Kind: kind, Context: ctx, Message: Message(kind, ctx), Err: err}
}

// New builds a UserError of a known kind without an underlying error.
func New(kind Kind, ctx Context) *UserError {
	return &UserError{Kind: kind, Context: ctx, Message: Message(kind, ctx)}
}
