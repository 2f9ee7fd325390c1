package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger はストアの疎通確認です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler は liveness / readiness を返します。
type HealthHandler struct {
	store Pinger
	log   *zap.Logger
}

// NewHealthHandler は HealthHandler を生成します。store が nil の場合は常に ready です。
func NewHealthHandler(store Pinger, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{store: store, log: log}
}

// RegisterRoutes は /healthz と /readyz を登録します。
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if h.store != nil {
			if err := h.store.Ping(r.Context()); err != nil {
				h.log.Warn("readiness check failed", zap.Error(err))
				writeJSON(w, h.log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, h.log, http.StatusOK, map[string]string{"status": "ready"})
	})
}
