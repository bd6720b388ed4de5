package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pulsewatch/internal/domain"
)

// MemoryStore is the in-memory VitalsStore used by tests and demo mode. It
// replaces the global mock dataset of the original system with an injectable
// backend behind the same interface.
type MemoryStore struct {
	mu sync.RWMutex

	employees   map[string]domain.Employee
	readings    map[string][]domain.VitalsReading // by employee id
	syncRecords []domain.SyncRecord
	alerts      []domain.Alert

	// failNext, when set, makes the next write operation fail with the
	// given error. Test hook for the failed-sync paths.
	failNext error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees: make(map[string]domain.Employee),
		readings:  make(map[string][]domain.VitalsReading),
	}
}

var _ VitalsStore = (*MemoryStore)(nil)

// AddEmployee seeds an employee.
func (s *MemoryStore) AddEmployee(emp domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.ID] = emp
}

// FailNextWrite arms a one-shot write failure.
func (s *MemoryStore) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *MemoryStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// FindEmployee returns (nil, nil) when absent.
func (s *MemoryStore) FindEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	found := emp
	return &found, nil
}

// ListEmployees returns all employees sorted by name.
func (s *MemoryStore) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]domain.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

// SaveSync applies the three success-path writes under one lock; on failure
// nothing is applied, mirroring the transactional backend.
func (s *MemoryStore) SaveSync(ctx context.Context, packet *domain.SyncPacket, syncID string) (int, error) {
	if packet == nil {
		return 0, fmt.Errorf("packet is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return 0, err
	}

	if _, ok := s.employees[packet.EmployeeID]; !ok {
		return 0, fmt.Errorf("employee not found for sync state update: %s", packet.EmployeeID)
	}

	s.readings[packet.EmployeeID] = append(s.readings[packet.EmployeeID], packet.Readings...)

	emp := s.employees[packet.EmployeeID]
	syncedAt := packet.SyncedAt
	emp.LastSync = &syncedAt
	emp.WatchConnected = true
	s.employees[packet.EmployeeID] = emp

	s.syncRecords = append(s.syncRecords, domain.SyncRecord{
		ID:           syncID,
		EmployeeID:   packet.EmployeeID,
		SyncedAt:     packet.SyncedAt,
		Duration:     packet.Duration,
		Status:       domain.SyncStatusSuccess,
		RecordsCount: len(packet.Readings),
	})

	return len(packet.Readings), nil
}

// InsertReadings appends readings for an employee.
func (s *MemoryStore) InsertReadings(ctx context.Context, employeeID string, readings []domain.VitalsReading) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return 0, err
	}

	s.readings[employeeID] = append(s.readings[employeeID], readings...)
	return len(readings), nil
}

// QueryReadings returns readings at or after since, newest first.
func (s *MemoryStore) QueryReadings(ctx context.Context, employeeID string, since time.Time) ([]domain.VitalsReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.VitalsReading{}
	for _, r := range s.readings[employeeID] {
		if !r.Timestamp.Before(since) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	return result, nil
}

// UpdateSyncState advances last-sync and connectivity.
func (s *MemoryStore) UpdateSyncState(ctx context.Context, employeeID string, syncedAt time.Time, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	emp, ok := s.employees[employeeID]
	if !ok {
		return fmt.Errorf("employee not found for sync state update: %s", employeeID)
	}
	emp.LastSync = &syncedAt
	emp.WatchConnected = connected
	s.employees[employeeID] = emp
	return nil
}

// SetConnectivity flips the connectivity flag.
func (s *MemoryStore) SetConnectivity(ctx context.Context, employeeID string, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	emp, ok := s.employees[employeeID]
	if !ok {
		return fmt.Errorf("employee not found for connectivity update: %s", employeeID)
	}
	emp.WatchConnected = connected
	s.employees[employeeID] = emp
	return nil
}

// InsertSyncRecord appends one audit entry.
func (s *MemoryStore) InsertSyncRecord(ctx context.Context, record *domain.SyncRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	s.syncRecords = append(s.syncRecords, *record)
	return nil
}

// ListSyncRecords returns records at or after since, newest first.
func (s *MemoryStore) ListSyncRecords(ctx context.Context, employeeID string, since time.Time) ([]domain.SyncRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.SyncRecord{}
	for _, rec := range s.syncRecords {
		if rec.EmployeeID == employeeID && !rec.SyncedAt.Before(since) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SyncedAt.After(result[j].SyncedAt) })
	return result, nil
}

// InsertAlerts appends evaluated alerts.
func (s *MemoryStore) InsertAlerts(ctx context.Context, alerts []domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	s.alerts = append(s.alerts, alerts...)
	return nil
}

// ListAlerts returns alerts matching the filters, newest first.
func (s *MemoryStore) ListAlerts(ctx context.Context, filters AlertFilters) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.Alert{}
	for _, alert := range s.alerts {
		if filters.EmployeeID != "" && alert.EmployeeID != filters.EmployeeID {
			continue
		}
		if filters.Severity != nil && alert.Severity != *filters.Severity {
			continue
		}
		if filters.Acknowledged != nil && alert.Acknowledged != *filters.Acknowledged {
			continue
		}
		result = append(result, alert)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	return result, nil
}

// AcknowledgeAlert flips the acknowledged flag and stamps the time.
func (s *MemoryStore) AcknowledgeAlert(ctx context.Context, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	for i := range s.alerts {
		if s.alerts[i].ID == alertID {
			now := time.Now().UTC()
			s.alerts[i].Acknowledged = true
			s.alerts[i].AcknowledgedAt = &now
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrAlertNotFound, alertID)
}
