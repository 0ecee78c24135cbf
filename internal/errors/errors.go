package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/estatehub/internal/middleware"
	"github.com/stwalsh4118/estatehub/internal/models"
)

// Error code constants for standardized error responses
const (
	ErrNotFound       = "NOT_FOUND"
	ErrBadRequest     = "BAD_REQUEST"
	ErrUnauthorized   = "UNAUTHORIZED"
	ErrForbidden      = "FORBIDDEN"
	ErrInvalidState   = "INVALID_STATE"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond logs a warning and writes the JSON error body.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}, logMsg string) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		logFields := map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		}
		if details != nil {
			logFields["details"] = details
		}
		log.Warn(logMsg, logFields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil, "Resource not found")
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details, "Bad request")
}

// Unauthorized returns a 401 response for requests whose credentials are
// missing or could not be verified.
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil, "Unauthenticated request")
}

// Forbidden returns a 403 response for authenticated actors that may not
// perform the operation.
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrForbidden, message, nil, "Forbidden")
}

// Conflict returns a 409 response for operations that do not apply to the
// entity's current state.
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrInvalidState, message, nil, "Invalid state transition")
}

// InternalServerError returns a 500 Internal Server Error response.
// The actual error details are not exposed to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details, "Validation error")
}

// BindError reports a failed ShouldBind call, listing per-field problems
// when the binder produced validation errors.
func BindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, message, nil)
}

// FromDomain maps a domain error onto its HTTP response. Anything outside
// the domain taxonomy becomes a 500 with fallback as the client message.
func FromDomain(c *gin.Context, err error, fallback string) {
	var fieldErrors models.FieldErrors
	switch {
	case stderrors.As(err, &fieldErrors):
		details := make(map[string]interface{}, len(fieldErrors))
		for field, msg := range fieldErrors {
			details[field] = msg
		}
		respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details, "Validation error")
	case stderrors.Is(err, models.ErrValidation):
		respond(c, http.StatusBadRequest, ErrValidation, err.Error(), nil, "Validation error")
	case stderrors.Is(err, models.ErrUnauthorized):
		Forbidden(c, err.Error())
	case stderrors.Is(err, models.ErrNotFound):
		NotFound(c, err.Error())
	case stderrors.Is(err, models.ErrInvalidState):
		Conflict(c, err.Error())
	default:
		InternalServerError(c, fallback, err)
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "url":
		return "Must be a valid URL"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
