package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a required field is missing or zero.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAccountNotFound is returned when a balance mutation targets a
	// nonexistent account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientCredits is returned when a debit would drive the
	// balance negative for a non-director account.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrUnknownPackage is returned when a payment amount matches no tariff.
	ErrUnknownPackage = errors.New("unknown credit package")
	// ErrPaymentAlreadyProcessed signals a replayed external transaction.
	// It is a terminal no-op, not a failure; handlers map it to 200.
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	// ErrPaymentNotFound is returned when a status lookup names an
	// unknown external transaction.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrChatNotFound is returned when a chat lookup names an unknown
	// conversation.
	ErrChatNotFound = errors.New("chat not found")
	// ErrStoreUnavailable wraps transient store failures. Safe to retry
	// for reads and payment admission, unsafe for a bare debit.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. The code field tells
// callers whether to retry: 5xx codes are transient, 4xx are terminal.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrAccountNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ACCOUNT_NOT_FOUND")
	case errors.Is(err, ErrInsufficientCredits):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_CREDITS")
	case errors.Is(err, ErrUnknownPackage):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_PACKAGE")
	case errors.Is(err, ErrPaymentAlreadyProcessed):
		return NewHTTPError(http.StatusConflict, err.Error(), "PAYMENT_ALREADY_PROCESSED")
	case errors.Is(err, ErrPaymentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PAYMENT_NOT_FOUND")
	case errors.Is(err, ErrChatNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CHAT_NOT_FOUND")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
