package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
	"pulsewatch/internal/service"
)

// AlertHandler serves alert listing and acknowledgement.
type AlertHandler struct {
	alerts *service.AlertService
	logger *zap.Logger
}

// NewAlertHandler creates the handler.
func NewAlertHandler(alerts *service.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, logger: logger}
}

// List handles GET /api/alerts?employeeId=&severity=&acknowledged=.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := repository.AlertFilters{
		EmployeeID: r.URL.Query().Get("employeeId"),
	}

	if s := r.URL.Query().Get("severity"); s != "" {
		severity := domain.AlertSeverity(s)
		switch severity {
		case domain.SeverityInfo, domain.SeverityWarning, domain.SeverityCritical:
			filters.Severity = &severity
		default:
			writeJSON(w, http.StatusBadRequest, Fail("invalid severity"))
			return
		}
	}

	if a := r.URL.Query().Get("acknowledged"); a != "" {
		switch a {
		case "true":
			v := true
			filters.Acknowledged = &v
		case "false":
			v := false
			filters.Acknowledged = &v
		default:
			writeJSON(w, http.StatusBadRequest, Fail("invalid acknowledged value"))
			return
		}
	}

	alerts, err := h.alerts.List(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}

	writeJSON(w, http.StatusOK, Ok(alerts))
}

// Acknowledge handles POST /api/alerts/{id}/ack.
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request, alertID string) {
	if err := h.alerts.Acknowledge(r.Context(), alertID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Alert acknowledged", map[string]string{"id": alertID}))
}
