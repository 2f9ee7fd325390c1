package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"go.uber.org/zap"
)

// EmployeeHandler は社員 API の HTTP ハンドラです。
type EmployeeHandler struct {
	uc              employee.UseCase
	log             *zap.Logger
	validate        *validator.Validate
	defaultPageSize int
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(uc employee.UseCase, log *zap.Logger, defaultPageSize int) *EmployeeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultPageSize <= 0 {
		defaultPageSize = employee.DefaultPageSize
	}
	return &EmployeeHandler{
		uc:              uc,
		log:             log,
		validate:        newValidator(),
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes は /api/employees 配下のルートを登録します。
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/employees", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/search", h.handleSearch)
		r.Get("/stats", h.handleStats)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

func (h *EmployeeHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.trim()
	if !h.check(w, r, req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.uc.CreateEmployee(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/employees/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, h.log, http.StatusCreated, created)
}

func (h *EmployeeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.uc.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, all)
}

// pagedResponse はページ単位の一覧レスポンスです。
type pagedResponse struct {
	Content          []employee.Projection `json:"content"`
	TotalElements    int                   `json:"totalElements"`
	TotalPages       int                   `json:"totalPages"`
	Number           int                   `json:"number"`
	Size             int                   `json:"size"`
	First            bool                  `json:"first"`
	Last             bool                  `json:"last"`
	NumberOfElements int                   `json:"numberOfElements"`
	Empty            bool                  `json:"empty"`
}

func (h *EmployeeHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.SearchEmployees(r.Context(), h.parseSearch(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, pagedResponse{
		Content:          res.Items,
		TotalElements:    res.TotalElements,
		TotalPages:       res.TotalPages,
		Number:           res.Page,
		Size:             res.Size,
		First:            res.IsFirst(),
		Last:             res.IsLast(),
		NumberOfElements: len(res.Items),
		Empty:            len(res.Items) == 0,
	})
}

// parseSearch はクエリ文字列を検索条件に変換します。解釈できない値は未指定として扱います。
func (h *EmployeeHandler) parseSearch(q url.Values) employee.SearchInput {
	in := employee.SearchInput{
		SortBy:        q.Get("sortBy"),
		SortDirection: q.Get("sortDirection"),
		Page:          employee.PageRequest{Page: 0, Size: h.defaultPageSize},
	}

	for _, key := range []string{"name", "firstName", "searchTerm"} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			in.Criteria.Name = &v
			break
		}
	}
	if v := q.Get("contractType"); v != "" {
		in.Criteria.ContractType = &v
	}
	if v := q.Get("employmentBasis"); v != "" {
		in.Criteria.EmploymentBasis = &v
	}
	for _, key := range []string{"ongoing", "active"} {
		if b, err := strconv.ParseBool(q.Get(key)); err == nil {
			in.Criteria.Active = &b
			break
		}
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		in.Page.Page = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil {
		in.Page.Size = v
	}
	return in
}

func (h *EmployeeHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, stats)
}

func (h *EmployeeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	found, err := h.uc.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, found)
}

func (h *EmployeeHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateEmployeeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.check(w, r, req) {
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.uc.UpdateEmployee(r.Context(), employee.UpdateEmployeeInput{ID: id, Patch: patch})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, updated)
}

func (h *EmployeeHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.uc.DeleteEmployee(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(w, r, employee.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// check はリクエストの形式を検証し、問題があれば 400 を書き込みます。
func (h *EmployeeHandler) check(w http.ResponseWriter, r *http.Request, req any) bool {
	err := h.validate.StructCtx(r.Context(), req)
	if err == nil {
		return true
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		h.fail(w, r, err)
		return false
	}

	writeFail(w, r, h.log, http.StatusBadRequest, ErrorBody{
		Code:    "validation_failed",
		Message: "payload validation failed",
		Fields:  validationIssues(err),
	})
	return false
}
