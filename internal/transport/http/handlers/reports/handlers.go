package reportshandler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

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

func (h *Handler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.With(requireUser).Get("/reports/employees.pdf", h.handleEmployeeRoster)
}

func (h *Handler) handleEmployeeRoster(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		slog.Error("roster export failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.Error(w, http.StatusInternalServerError, "failed to build roster")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Roster")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	for _, emp := range employees {
		status := "active"
		if !emp.IsActive {
			status = "inactive"
		}
		pdf.Cell(0, 7, fmt.Sprintf("%s - %s, %s (joined %s, %s)",
			emp.Name, emp.Designation, emp.Department.Name, emp.DateOfJoining, status))
		pdf.Ln(7)
	}
	if len(employees) == 0 {
		pdf.Cell(0, 7, "No employees recorded.")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.pdf"`)
	if err := pdf.Output(w); err != nil {
		slog.Warn("roster write failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
	}
}
