package errx

import (
	"errors"
	"net/http"
)

// Response is the wire shape of a failed request.
type Response struct {
	Status  bool           `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

const internalMessage = "An unexpected error occurred"

// ToResponse translates err into the status and body sent to clients.
// Internal and external failures are reported generically; their causes
// stay in the logs.
func ToResponse(err error) (int, Response) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, Response{
			Code:    string(TypeInternal),
			Message: internalMessage,
		}
	}

	status := e.HTTPStatus
	if status == 0 {
		status = e.Type.HTTPStatus()
	}

	if e.Type == TypeInternal || e.Type == TypeExternal {
		return status, Response{
			Code:    e.Code,
			Message: internalMessage,
		}
	}

	return status, Response{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}
