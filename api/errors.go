package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wesleysambacht/booking/internal/errclass"
	"github.com/wesleysambacht/booking/internal/service/steps"
	"github.com/wesleysambacht/booking/internal/service/submission"
	"github.com/wesleysambacht/booking/internal/session"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Kind   string   `json:"kind,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

var kindStatus = map[errclass.Kind]int{
	errclass.KindValidation: http.StatusUnprocessableEntity,
	errclass.KindBusiness:   http.StatusConflict,
	errclass.KindNetwork:    http.StatusServiceUnavailable,
	errclass.KindSystem:     http.StatusInternalServerError,
}

func writeError(c *gin.Context, err error) {
	var (
		validationErr *submission.ValidationError
		userErr       *errclass.UserError
	)

	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Kind:   string(errclass.KindValidation),
			Errors: validationErr.Result.Errors,
		})
	case errors.As(err, &userErr):
		c.JSON(kindStatus[userErr.Kind], errorResponse{Error: userErr.Message, Kind: string(userErr.Kind)})
	case errors.Is(err, steps.ErrDateUnavailable), errors.Is(err, steps.ErrTimeUnavailable):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Kind: string(errclass.KindBusiness)})
	case isStepInputError(err):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: string(errclass.KindValidation)})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: string(errclass.KindSystem)})
	}
}

func isStepInputError(err error) bool {
	for _, target := range []error{
		steps.ErrInvalidDate,
		steps.ErrDateInPast,
		steps.ErrDateRequired,
		steps.ErrInvalidTime,
		steps.ErrTimeRequired,
		steps.ErrGuestCountOutRange,
		steps.ErrInvalidStep,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
