package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// errorRule maps a family of domain errors onto one HTTP response shape.
// Rules are checked in order; the first match wins.
type errorRule struct {
	status  int
	typ     string
	message string
	// field marks validation rules; the error text becomes the code.
	field   func(code string) string
	matches []error
}

var errorRules = []errorRule{
	{
		status:  http.StatusUnprocessableEntity,
		typ:     "schedule_config_error",
		matches: []error{scheduledomain.ErrScheduleConfig},
	},
	{
		status:  http.StatusBadRequest,
		typ:     "validation_error",
		message: "validation error",
		field:   fieldFromCode,
		matches: []error{
			ErrInvalidRequest,
			forecastdomain.ErrInvalidRequest,
			forecastdomain.ErrInvalidRecordID,
			forecastdomain.ErrInvalidOverrideAmount,
			scheduledomain.ErrInvalidRecordID,
			scheduledomain.ErrInvalidStages,
			ledgerdomain.ErrInvalidAmount,
			ledgerdomain.ErrInvalidFrequency,
			ledgerdomain.ErrInvalidKind,
			ledgerdomain.ErrInvalidDateRange,
			ledgerdomain.ErrInvalidName,
			ledgerdomain.ErrInvalidItemType,
			ledgerdomain.ErrInvalidDate,
		},
	},
	{
		status:  http.StatusNotFound,
		typ:     "not_found",
		message: "not found",
		matches: []error{
			ErrNotFound,
			forecastdomain.ErrProjectNotFound,
			scheduledomain.ErrNotFound,
			scheduledomain.ErrTemplateNotFound,
			ledgerdomain.ErrNotFound,
			gorm.ErrRecordNotFound,
		},
	},
	{
		status:  http.StatusConflict,
		typ:     "conflict",
		message: "record is being updated, retry shortly",
		matches: []error{forecastdomain.ErrRecordBusy},
	},
}

func mapError(err error) (int, errorPayload) {
	internal := errorPayload{Type: "internal_error", Message: "internal server error"}
	if err == nil {
		return http.StatusInternalServerError, internal
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	for _, rule := range errorRules {
		matched := matchAny(err, rule.matches)
		if matched == nil {
			continue
		}
		payload := errorPayload{Type: rule.typ, Message: rule.message}
		if payload.Message == "" {
			// Schedule errors name the offending stage.
			payload.Message = err.Error()
		}
		if rule.field != nil {
			code := matched.Error()
			payload.Errors = []ValidationError{{
				Field:   rule.field(code),
				Code:    code,
				Message: "invalid value",
			}}
		}
		return rule.status, payload
	}
	return http.StatusInternalServerError, internal
}

func matchAny(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}

// fieldFromCode derives the offending field from an "invalid_<field>" code.
func fieldFromCode(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	field, ok := strings.CutPrefix(code, "invalid_")
	if !ok {
		return ""
	}
	return field
}

// classifyErrorForLog maps handler errors to log error_type/error_code fields.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal_error", "internal_error"
	}
	if len(payload.Errors) > 0 {
		return payload.Type, payload.Errors[0].Code
	}
	return payload.Type, payload.Type
}
