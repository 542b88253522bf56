package devserver

import (
	"errors"
	"fmt"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Data    any      `json:"data,omitempty"`
}

type APIResponse struct {
	Success bool           `json:"success"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

func writeError(c *gin.Context, err error) {

	statusCode := http.StatusInternalServerError
	errorResponse := &ErrorResponse{
		Code:    appErrors.ErrCodeInternal,
		Message: "An unexpected error occurred",
	}

	if appErr, ok := appErrors.IsAppError(err); ok {
		if appErr.StatusCode != 0 {
			statusCode = appErr.StatusCode
		}
		errorResponse = &ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Data:    appErr.Data,
		}
		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}
	}

	c.AbortWithStatusJSON(statusCode, APIResponse{Success: false, Error: errorResponse})
}

// writeValidationError lists each failed field. Non-validator errors are
// reported as malformed JSON.
func writeValidationError(c *gin.Context, err error) {

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		writeError(c, appErrors.BadRequestError("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	errMsgs := make([]string, 0, len(validationErrs))

	for _, fe := range validationErrs {
		var message string

		switch fe.Tag() {
		case "required", "required_unless":
			message = fmt.Sprintf("Field %s is required", fe.Field())
		case "min", "gte":
			message = fmt.Sprintf("Field %s must be at least %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s characters", fe.Field(), fe.Param())
		case "oneof":
			message = fmt.Sprintf("Field %s must be one of: %s", fe.Field(), fe.Param())
		case "e164":
			message = fmt.Sprintf("Field %s must be a phone number in E.164 format", fe.Field())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}

		errMsgs = append(errMsgs, message)
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Code:    appErrors.ErrCodeValidation,
			Message: "Validation failed",
			Details: errMsgs,
		},
	})
}
