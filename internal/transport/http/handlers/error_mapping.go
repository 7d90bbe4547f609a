package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-admin/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or falls back to a generic response.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

// respondTypedError handles the structured validation/conflict errors the
// account service returns. It reports whether the error was consumed.
func respondTypedError(c *gin.Context, err error) bool {
	var validation *usecase.ValidationError
	if errors.As(err, &validation) {
		violations := make([]FieldErrorDetail, 0, len(validation.Violations))
		for _, v := range validation.Violations {
			violations = append(violations, FieldErrorDetail{
				Field:   v.Field,
				Code:    v.Code,
				Message: v.Message,
			})
		}

		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:      "validation failed",
			Violations: violations,
			TraceID:    NewErrorResponse(c, "").TraceID,
		})
		return true
	}

	var conflict *usecase.ConflictError
	if errors.As(err, &conflict) {
		response := NewErrorResponse(c, conflict.Error())
		response.Field = conflict.Field
		c.JSON(http.StatusConflict, response)
		return true
	}

	return false
}
