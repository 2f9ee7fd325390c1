package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/employee-roster/internal/adapters/http/middleware"
	"go.uber.org/zap"
)

// MaxBodyBytes はリクエストボディの上限です。
const MaxBodyBytes = 1 << 20

// NewRouter は社員 API とヘルスチェックを束ねた http.Handler を返します。
func NewRouter(employees *EmployeeHandler, health *HealthHandler, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.BodyLimit(MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, r, log, http.StatusNotFound, ErrorBody{Code: "not_found", Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, r, log, http.StatusMethodNotAllowed, ErrorBody{Code: "method_not_allowed", Message: "method not allowed"})
	})

	if health != nil {
		health.RegisterRoutes(r)
	}
	if employees != nil {
		employees.RegisterRoutes(r)
	}
	return r
}
