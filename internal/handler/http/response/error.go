package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/hrisapi"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var apiErr *hrisapi.APIError
	if errors.As(err, &apiErr) {
		// The upstream already rejected the request for a reason worth
		// showing; 4xx passes through, everything else is a gateway error.
		if apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			writeJSON(w, apiErr.StatusCode, Response{
				Success: false,
				Error: &ErrorDetail{
					Code:    apiErr.Code,
					Message: apiErr.Message,
				},
			})
			return
		}
		BadGateway(w, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
