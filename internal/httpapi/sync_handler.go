package httpapi

import (
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/schema"
	"pulsewatch/internal/service"
)

// SyncHandler serves the device sync endpoints.
type SyncHandler struct {
	validator *schema.Validator
	syncs     *service.SyncService
	logger    *zap.Logger
}

// NewSyncHandler creates the handler.
func NewSyncHandler(validator *schema.Validator, syncs *service.SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		validator: validator,
		syncs:     syncs,
		logger:    logger,
	}
}

// Sync handles POST /api/smartwatch/sync. 201 on success, 400 on bad
// payloads, 404 for unknown employees.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r, 1<<20)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("failed to read request body"))
		return
	}

	packet, err := h.validator.ValidateJSON(body)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.syncs.ProcessSync(r.Context(), packet)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, OkMessage("Data synced successfully", result))
}

// Simulate handles GET /api/smartwatch/sync?employeeId=&simulate=true. It
// fabricates one plausible reading and runs it through the real pipeline, so
// demos exercise the same code path as devices.
func (h *SyncHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}
	if r.URL.Query().Get("simulate") != "true" {
		writeJSON(w, http.StatusBadRequest, Fail("simulate=true is required"))
		return
	}

	packet := &domain.SyncPacket{
		DeviceID:   "simulated-device",
		EmployeeID: employeeID,
		Readings:   []domain.VitalsReading{randomReading()},
		SyncedAt:   time.Now().UTC(),
	}

	result, err := h.syncs.ProcessSync(r.Context(), packet)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, OkMessage("Simulated sync completed", result))
}

// RegisterDevice handles POST /api/smartwatch/device.
func (h *SyncHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	body, err := readBody(r, 1<<16)
	if err != nil || unmarshal(body, &payload) != nil || payload.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}

	if err := h.syncs.RegisterDevice(r.Context(), payload.EmployeeID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, OkMessage("Device registered", map[string]string{"employeeId": payload.EmployeeID}))
}

// DisconnectDevice handles DELETE /api/smartwatch/device?employeeId=.
func (h *SyncHandler) DisconnectDevice(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}

	if err := h.syncs.DisconnectDevice(r.Context(), employeeID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, OkMessage("Device disconnected", map[string]string{"employeeId": employeeID}))
}

// History handles GET /api/smartwatch/history?employeeId=&days=.
func (h *SyncHandler) History(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employeeId is required"))
		return
	}
	days := parseInt(r.URL.Query().Get("days"), 7)
	since := time.Now().UTC().AddDate(0, 0, -days)

	records, err := h.syncs.SyncHistory(r.Context(), employeeID, since)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.SyncRecord{}
	}

	writeJSON(w, http.StatusOK, Ok(records))
}

// randomReading fabricates one in-range reading for the simulator.
func randomReading() domain.VitalsReading {
	hr := 60 + rand.Intn(45)
	spo2 := 94 + rand.Intn(6)
	steps := 2000 + rand.Intn(8000)
	sleep := 5.0 + rand.Float64()*3.5
	quality := 40 + rand.Intn(55)
	stress := 20 + rand.Intn(60)
	temp := 97.0 + rand.Float64()*2.0
	calories := 1500 + rand.Intn(1000)

	return domain.VitalsReading{
		HeartRate:      &hr,
		BloodOxygen:    &spo2,
		Steps:          &steps,
		SleepHours:     &sleep,
		SleepQuality:   &quality,
		StressLevel:    &stress,
		Temperature:    &temp,
		CaloriesBurned: &calories,
		Timestamp:      time.Now().UTC(),
	}
}
