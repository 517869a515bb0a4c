package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wesleysambacht/booking/internal/domain"
)

const (
	msgDateRequired    = "Selecteer een datum voor uw evenement."
	msgTimeRequired    = "Selecteer een tijdstip voor uw evenement."
	msgGuestsRequired  = "Geef het aantal gasten op."
	msgStepsIncomplete = "Doorloop eerst alle stappen van de reservering."
)

// ValidationResult lists every problem found, not just the first.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidationError is returned by Submit when the draft or the customer details are
// incomplete. No collaborator has been called when it is returned.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return "invalid booking: " + strings.Join(e.Result.Errors, "; ")
}

// Validate checks that date, time and a positive guest count are present and that the
// draft reached the last step.
func Validate(draft domain.BookingDraft) ValidationResult {
	errs := []string{}
	if !draft.HasDate() {
		errs = append(errs, msgDateRequired)
	}
	if !draft.HasTime() {
		errs = append(errs, msgTimeRequired)
	}
	if draft.GuestCount <= 0 {
		errs = append(errs, msgGuestsRequired)
	}
	if len(errs) == 0 && draft.Step != domain.StepGuests {
		errs = append(errs, msgStepsIncomplete)
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

var fieldMessages = map[string]string{
	"Name":            "Vul uw naam in.",
	"Email":           "Vul een geldig e-mailadres in.",
	"Phone":           "Vul een geldig telefoonnummer in.",
	"ServiceCategory": "Kies een geldige soort catering.",
	"ServiceTier":     "Kies een geldig pakket.",
	"Notes":           "Uw opmerking is te lang.",
}

// ValidateCustomer checks the contact details with their struct tags.
func ValidateCustomer(v *validator.Validate, customer domain.CustomerDetails) ValidationResult {
	err := v.Struct(customer)
	if err == nil {
		return ValidationResult{Valid: true, Errors: []string{}}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}

	errs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := fieldMessages[fe.Field()]; ok {
			errs = append(errs, msg)
			continue
		}
		errs = append(errs, fmt.Sprintf("%s is ongeldig (%s)", fe.Field(), fe.Tag()))
	}
	return ValidationResult{Valid: false, Errors: errs}
}

func merge(results ...ValidationResult) ValidationResult {
	out := ValidationResult{Valid: true, Errors: []string{}}
	for _, r := range results {
		if !r.Valid {
			out.Valid = false
		}
		out.Errors = append(out.Errors, r.Errors...)
	}
	return out
}
