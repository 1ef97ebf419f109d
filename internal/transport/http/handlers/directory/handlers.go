package directoryhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ems/internal/domain/directory"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(store *directory.Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes wires the catalog surface. Writes require a valid bearer
// token; reads are public.
func (h *Handler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.With(requireUser).Post("/", h.handleCreateDepartment)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.With(requireUser).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGetEmployee)
			r.With(requireUser).Put("/", h.handleUpdateEmployee)
			r.With(requireUser).Delete("/", h.handleDeleteEmployee)
		})
	})
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload directory.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Error(w, http.StatusBadRequest, "DepartmentName is required")
		return
	}

	dep, err := h.Store.CreateDepartment(r.Context(), payload.Name)
	if err != nil {
		slog.Error("department create failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to create department")
		return
	}
	api.WriteJSON(w, http.StatusOK, dep)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		slog.Error("department list failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to list departments")
		return
	}
	api.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload directory.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" || payload.DepartmentID == 0 {
		api.Error(w, http.StatusBadRequest, "EmployeeName and DepartmentId are required")
		return
	}

	emp, err := h.Store.CreateEmployee(r.Context(), payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			api.Error(w, http.StatusBadRequest, "department does not exist")
			return
		}
		slog.Error("employee create failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to create employee")
		return
	}
	api.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		slog.Error("employee list failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	api.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		slog.Error("employee get failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	if emp == nil {
		api.Error(w, http.StatusNotFound, "employee not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	var patch directory.EmployeePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	emp, err := h.Store.UpdateEmployee(r.Context(), id, patch)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			api.Error(w, http.StatusBadRequest, "department does not exist")
			return
		}
		slog.Error("employee update failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to update employee")
		return
	}
	if emp == nil {
		api.Error(w, http.StatusNotFound, "employee not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	emp, err := h.Store.DeleteEmployee(r.Context(), id)
	if err != nil {
		slog.Error("employee delete failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to delete employee")
		return
	}
	if emp == nil {
		api.Error(w, http.StatusNotFound, "employee not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid employee id")
		return 0, false
	}
	return id, true
}
