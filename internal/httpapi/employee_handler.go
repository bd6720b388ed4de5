package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
)

// EmployeeHandler serves the employee read endpoints.
type EmployeeHandler struct {
	store  repository.VitalsStore
	logger *zap.Logger
}

// NewEmployeeHandler creates the handler.
func NewEmployeeHandler(store repository.VitalsStore, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{store: store, logger: logger}
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, domain.NewStoreError("list employees", err))
		return
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	writeJSON(w, http.StatusOK, Ok(employees))
}

// Get handles GET /api/employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	employee, err := h.store.FindEmployee(r.Context(), id)
	if err != nil {
		writeError(w, domain.NewStoreError("find employee", err))
		return
	}
	if employee == nil {
		writeError(w, domain.NewNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, Ok(employee))
}
