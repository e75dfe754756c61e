package common

import (
	"encoding/json"
	"net/http"
	"time"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response. errCode is one of
// the constants.ErrCode values and may be empty.
func RespondError(w http.ResponseWriter, initTime time.Time, errCode, message string, statusCode int, details ...any) {
	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Code:         errCode,
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
	}
	if len(details) > 0 {
		response.Data = details[0]
	}

	writeJSON(w, statusCode, response)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
