package api

import (
	"errors"
	"net/http"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	reqctx "skyrelief/dispatch/internal/context"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/services"
	"skyrelief/dispatch/internal/validation"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:               http.StatusNotFound,
	services.KindValidation:             http.StatusBadRequest,
	services.KindReferenceNotFound:      http.StatusUnprocessableEntity,
	services.KindReferentialConstraint:  http.StatusConflict,
	services.KindInvalidStateTransition: http.StatusConflict,
	services.KindVersionConflict:        http.StatusConflict,
	services.KindStorage:                http.StatusInternalServerError,
}

// HTTPStatus maps a service error to its response status.
func HTTPStatus(err error) int {
	if code, ok := statusByKind[services.KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err using the error envelope. Storage errors
// are logged and their details kept out of the response.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error) {
	kind := services.KindOf(err)
	status := HTTPStatus(err)

	if kind == services.KindStorage {
		logging.WithRequest(reqctx.GetRequestID(r.Context()), r.Method, r.URL.Path).Errorw("Storage failure", "error", err)
		common.RespondError(w, initTime, string(kind), constants.GetErrorMessage(string(kind)), status)
		return
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		common.RespondError(w, initTime, string(kind), err.Error(), status, verr.Fields)
		return
	}

	common.RespondError(w, initTime, string(kind), err.Error(), status)
}

func respondBadRequest(w http.ResponseWriter, initTime time.Time, message string) {
	common.RespondError(w, initTime, constants.ErrCodeMalformedRequest, message, http.StatusBadRequest)
}
