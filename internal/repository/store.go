package repository

import (
	"context"
	"time"

	"pulsewatch/internal/domain"
)

// AlertFilters narrows ListAlerts. Nil/empty fields are ignored.
type AlertFilters struct {
	EmployeeID   string
	Severity     *domain.AlertSeverity
	Acknowledged *bool
}

// VitalsStore is the persistence boundary the sync core depends on but does
// not implement. Two backends exist: PostgresStore and MemoryStore.
type VitalsStore interface {
	// FindEmployee returns (nil, nil) when the employee does not exist.
	FindEmployee(ctx context.Context, id string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)

	// SaveSync atomically persists the readings of a validated packet,
	// advances the employee's sync state and writes the success SyncRecord
	// identified by syncID. Returns the number of readings written.
	SaveSync(ctx context.Context, packet *domain.SyncPacket, syncID string) (int, error)

	InsertReadings(ctx context.Context, employeeID string, readings []domain.VitalsReading) (int, error)
	QueryReadings(ctx context.Context, employeeID string, since time.Time) ([]domain.VitalsReading, error)

	UpdateSyncState(ctx context.Context, employeeID string, syncedAt time.Time, connected bool) error
	SetConnectivity(ctx context.Context, employeeID string, connected bool) error

	InsertSyncRecord(ctx context.Context, record *domain.SyncRecord) error
	ListSyncRecords(ctx context.Context, employeeID string, since time.Time) ([]domain.SyncRecord, error)

	InsertAlerts(ctx context.Context, alerts []domain.Alert) error
	ListAlerts(ctx context.Context, filters AlertFilters) ([]domain.Alert, error)
	AcknowledgeAlert(ctx context.Context, alertID string) error
}
