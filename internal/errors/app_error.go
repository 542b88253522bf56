package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AppError is the single error type surfaced by the storefront client.
// StatusCode is zero when no HTTP response was received; Data holds the
// parsed JSON error body when the server sent one.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Data       any
	Err        error
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status, or 0 for failures without a response.
func (e *AppError) Status() int {
	return e.StatusCode
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

func (e *AppError) WithData(data any) *AppError {
	e.Data = data

	return e
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeNetwork         = "NETWORK_ERROR"
	ErrCodeHTTP            = "HTTP_ERROR"
	ErrCodeDecode          = "DECODE_ERROR"
	ErrCodeBusiness        = "BUSINESS_ERROR"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, 0)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func NetworkError(message string) *AppError {
	return NewAppError(ErrCodeNetwork, message, 0)
}

func DecodeError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeDecode, message, statusCode)
}

func BusinessError(message string) *AppError {
	return NewAppError(ErrCodeBusiness, message, 0)
}

// FromStatus builds the error for a non-success HTTP response.
func FromStatus(statusCode int, data any) *AppError {
	var code string

	switch {
	case statusCode == http.StatusBadRequest:
		code = ErrCodeBadRequest
	case statusCode == http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case statusCode == http.StatusForbidden:
		code = ErrCodeForbidden
	case statusCode == http.StatusNotFound:
		code = ErrCodeNotFound
	case statusCode == http.StatusConflict, statusCode == http.StatusUnprocessableEntity:
		code = ErrCodeBusiness
	case statusCode == http.StatusTooManyRequests:
		code = ErrCodeTooManyRequests
	default:
		code = ErrCodeHTTP
	}

	return NewAppError(code, "Request failed", statusCode).WithData(data)
}

// ParseBody decodes an error response body best-effort; anything that is
// not valid JSON yields nil.
func ParseBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil
	}

	return data
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasStatus reports whether err is an AppError carrying the given status.
func HasStatus(err error, statusCode int) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.StatusCode == statusCode
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
