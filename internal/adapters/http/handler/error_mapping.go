package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"go.uber.org/zap"
)

// errMalformedBody はリクエストボディを解釈できなかったことを表します。
var errMalformedBody = errors.New("request body is malformed")

func toHTTPError(err error) (int, ErrorBody) {
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, ErrorBody{Code: "malformed_body", Message: err.Error()}
	case errors.Is(err, employee.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Code: "not_found", Message: err.Error()}
	case errors.Is(err, employee.ErrValidationFailed):
		return http.StatusBadRequest, ErrorBody{Code: "validation_failed", Message: err.Error()}
	case errors.Is(err, employee.ErrConflict):
		return http.StatusConflict, ErrorBody{Code: "conflict", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: "internal", Message: "internal server error"}
	}
}

func (h *EmployeeHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := toHTTPError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}
	writeFail(w, r, h.log, status, body)
}
