package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/report"
	"pulsewatch/internal/repository"
	"pulsewatch/internal/service"
)

// HealthHandler serves the vitals, metrics and assessment endpoints.
type HealthHandler struct {
	store    repository.VitalsStore
	metrics  *service.MetricsService
	health   *service.HealthService
	exporter *report.ExcelExporter
	logger   *zap.Logger
}

// NewHealthHandler creates the handler.
func NewHealthHandler(
	store repository.VitalsStore,
	metrics *service.MetricsService,
	health *service.HealthService,
	exporter *report.ExcelExporter,
	logger *zap.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:    store,
		metrics:  metrics,
		health:   health,
		exporter: exporter,
		logger:   logger,
	}
}

// Vitals handles GET /api/health/vitals?employeeId=&hours=&limit=.
func (h *HealthHandler) Vitals(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}
	hours := parseInt(r.URL.Query().Get("hours"), 24)
	limit := parseInt(r.URL.Query().Get("limit"), 100)

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	readings, err := h.store.QueryReadings(r.Context(), employeeID, since)
	if err != nil {
		writeError(w, domain.NewStoreError("query readings", err))
		return
	}
	if len(readings) > limit {
		readings = readings[:limit]
	}
	if readings == nil {
		readings = []domain.VitalsReading{}
	}

	writeJSON(w, http.StatusOK, Ok(readings))
}

// Metrics handles GET /api/health/metrics?employeeId=&days=. An empty window
// yields data: null, not zeroed metrics.
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}
	days := parseInt(r.URL.Query().Get("days"), 7)
	since := time.Now().UTC().AddDate(0, 0, -days)

	summary, err := h.metrics.Summary(r.Context(), employeeID, since)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(summary))
}

// ExportMetrics handles GET /api/health/metrics/export?employeeId=&days=,
// returning an xlsx attachment.
func (h *HealthHandler) ExportMetrics(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}
	days := parseInt(r.URL.Query().Get("days"), 7)
	since := time.Now().UTC().AddDate(0, 0, -days)

	employee, err := h.store.FindEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, domain.NewStoreError("find employee", err))
		return
	}
	if employee == nil {
		writeError(w, domain.NewNotFoundError(employeeID))
		return
	}

	summary, err := h.metrics.Summary(r.Context(), employeeID, since)
	if err != nil {
		writeError(w, err)
		return
	}
	if summary == nil {
		writeJSON(w, http.StatusNotFound, Fail("no readings in the requested period"))
		return
	}

	readings, err := h.store.QueryReadings(r.Context(), employeeID, since)
	if err != nil {
		writeError(w, domain.NewStoreError("query readings", err))
		return
	}

	f, err := h.exporter.Export(employee, summary, readings)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("health-metrics-%s-%s.xlsx", employeeID, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(w); err != nil {
		h.logger.Error("Failed to stream metrics export", zap.Error(err))
	}
}

// Summary handles GET /api/health/summary.
func (h *HealthHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.health.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

// Assessment handles GET /api/health/assessment?employeeId=.
func (h *HealthHandler) Assessment(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}

	assessment, err := h.health.Assessment(r.Context(), employeeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assessment))
}
