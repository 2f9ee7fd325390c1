package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ogurasousui/employee-roster/internal/adapters/http/middleware"
	"go.uber.org/zap"
)

// ErrorBody はエラーレスポンスの本体です。
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

// FieldIssue は入力項目ごとの検証エラーです。
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorEnvelope struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("write json failed", zap.Error(err))
	}
}

func writeFail(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, body ErrorBody) {
	writeJSON(w, log, status, errorEnvelope{Error: body, RequestID: middleware.GetRequestID(r.Context())})
}
