package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
	"pulsewatch/internal/rules"
)

// AlertPublisher fans fresh alerts out to live consumers. Implemented by
// notify.StreamPublisher.
type AlertPublisher interface {
	PublishAll(ctx context.Context, alerts []domain.Alert) error
}

// CriticalNotifier delivers critical alerts to an external endpoint.
// Implemented by notify.WebhookNotifier.
type CriticalNotifier interface {
	NotifyCritical(ctx context.Context, alerts []domain.Alert) error
}

// LatestCache keeps the freshest reading per employee for dashboards.
// Implemented by cache.RealtimeCache.
type LatestCache interface {
	UpdateLatest(ctx context.Context, employeeID string, reading domain.VitalsReading) error
}

// SyncService runs the sync pipeline for validated packets: resolve the
// employee, persist readings and sync state atomically, then evaluate alert
// rules and notify. Alerting and notification are best-effort; a failure
// there never fails an already-committed sync.
type SyncService struct {
	store     repository.VitalsStore
	engine    *rules.Engine
	publisher AlertPublisher
	notifier  CriticalNotifier
	cache     LatestCache
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSyncService creates the orchestrator. publisher, notifier and cache may
// be nil when the corresponding integration is disabled. timeout <= 0
// disables the processing deadline.
func NewSyncService(
	store repository.VitalsStore,
	engine *rules.Engine,
	publisher AlertPublisher,
	notifier CriticalNotifier,
	cache LatestCache,
	timeout time.Duration,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		store:     store,
		engine:    engine,
		publisher: publisher,
		notifier:  notifier,
		cache:     cache,
		timeout:   timeout,
		logger:    logger,
	}
}

// ProcessSync runs the full pipeline for one validated packet. On any
// failure after the employee is known, a failed SyncRecord is still written
// so the attempt shows up in the audit trail.
func (s *SyncService) ProcessSync(ctx context.Context, packet *domain.SyncPacket) (*domain.SyncResult, error) {
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	employee, err := s.store.FindEmployee(ctx, packet.EmployeeID)
	if err != nil {
		return nil, s.failSync(ctx, packet, start, domain.NewStoreError("find employee", err))
	}
	if employee == nil {
		return nil, s.failSync(ctx, packet, start, domain.NewNotFoundError(packet.EmployeeID))
	}

	syncID := uuid.NewString()

	created, err := s.store.SaveSync(ctx, packet, syncID)
	if err != nil {
		return nil, s.failSync(ctx, packet, start, domain.NewStoreError("save sync", err))
	}

	s.logger.Info("Sync committed",
		zap.String("sync_id", syncID),
		zap.String("employee_id", packet.EmployeeID),
		zap.String("device_id", packet.DeviceID),
		zap.Int("records_created", created),
	)

	s.postCommit(ctx, packet)

	return &domain.SyncResult{RecordsCreated: created, SyncID: syncID}, nil
}

// postCommit runs the best-effort tail of the pipeline: threshold alerts,
// stream fan-out, critical webhooks and the latest-vitals cache. Failures
// are logged and swallowed.
func (s *SyncService) postCommit(ctx context.Context, packet *domain.SyncPacket) {
	alerts := s.engine.Evaluate(packet.EmployeeID, packet.Readings)

	if len(alerts) > 0 {
		if err := s.store.InsertAlerts(ctx, alerts); err != nil {
			s.logger.Error("Failed to persist alerts",
				zap.String("employee_id", packet.EmployeeID),
				zap.Int("alerts", len(alerts)),
				zap.Error(err),
			)
		}

		if s.publisher != nil {
			if err := s.publisher.PublishAll(ctx, alerts); err != nil {
				s.logger.Error("Failed to publish alerts to stream",
					zap.String("employee_id", packet.EmployeeID),
					zap.Error(err),
				)
			}
		}

		if s.notifier != nil {
			if err := s.notifier.NotifyCritical(ctx, alerts); err != nil {
				s.logger.Error("Failed to deliver critical alert webhook",
					zap.String("employee_id", packet.EmployeeID),
					zap.Error(err),
				)
			}
		}
	}

	if s.cache != nil {
		if latest := newestReading(packet.Readings); latest != nil {
			if err := s.cache.UpdateLatest(ctx, packet.EmployeeID, *latest); err != nil {
				s.logger.Warn("Failed to update latest vitals cache",
					zap.String("employee_id", packet.EmployeeID),
					zap.Error(err),
				)
			}
		}
	}
}

// failSync records the attempt as a failed sync and returns the error the
// caller should see. Deadline expiry is translated to ErrSyncTimeout. The
// record carries the failure time and the elapsed processing time, not the
// packet's own stamps; a timed-out sync must be audited with how long it
// actually ran. The record is written on a fresh short-lived context because
// the request context may already be dead.
func (s *SyncService) failSync(ctx context.Context, packet *domain.SyncPacket, start time.Time, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		cause = domain.ErrSyncTimeout
	}

	record := &domain.SyncRecord{
		ID:           uuid.NewString(),
		EmployeeID:   packet.EmployeeID,
		SyncedAt:     time.Now().UTC(),
		Duration:     time.Since(start).Milliseconds(),
		Status:       domain.SyncStatusFailed,
		RecordsCount: 0,
		ErrorMessage: cause.Error(),
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.store.InsertSyncRecord(writeCtx, record); err != nil {
		s.logger.Error("Failed to write failed sync record",
			zap.String("employee_id", packet.EmployeeID),
			zap.Error(err),
		)
	}

	s.logger.Warn("Sync failed",
		zap.String("employee_id", packet.EmployeeID),
		zap.String("device_id", packet.DeviceID),
		zap.Error(cause),
	)

	return cause
}

// RegisterDevice marks the employee's watch as connected. Returns
// NotFoundError for unknown employees.
func (s *SyncService) RegisterDevice(ctx context.Context, employeeID string) error {
	employee, err := s.store.FindEmployee(ctx, employeeID)
	if err != nil {
		return domain.NewStoreError("find employee", err)
	}
	if employee == nil {
		return domain.NewNotFoundError(employeeID)
	}
	if err := s.store.SetConnectivity(ctx, employeeID, true); err != nil {
		return domain.NewStoreError("set connectivity", err)
	}

	s.logger.Info("Device registered", zap.String("employee_id", employeeID))
	return nil
}

// DisconnectDevice marks the employee's watch as disconnected.
func (s *SyncService) DisconnectDevice(ctx context.Context, employeeID string) error {
	employee, err := s.store.FindEmployee(ctx, employeeID)
	if err != nil {
		return domain.NewStoreError("find employee", err)
	}
	if employee == nil {
		return domain.NewNotFoundError(employeeID)
	}
	if err := s.store.SetConnectivity(ctx, employeeID, false); err != nil {
		return domain.NewStoreError("set connectivity", err)
	}

	s.logger.Info("Device disconnected", zap.String("employee_id", employeeID))
	return nil
}

// SyncHistory lists the employee's sync records since the given time,
// newest first.
func (s *SyncService) SyncHistory(ctx context.Context, employeeID string, since time.Time) ([]domain.SyncRecord, error) {
	employee, err := s.store.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, domain.NewStoreError("find employee", err)
	}
	if employee == nil {
		return nil, domain.NewNotFoundError(employeeID)
	}
	records, err := s.store.ListSyncRecords(ctx, employeeID, since)
	if err != nil {
		return nil, domain.NewStoreError("list sync records", err)
	}
	return records, nil
}

// newestReading picks the reading with the latest timestamp.
func newestReading(readings []domain.VitalsReading) *domain.VitalsReading {
	if len(readings) == 0 {
		return nil
	}
	latest := &readings[0]
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.After(latest.Timestamp) {
			latest = &readings[i]
		}
	}
	return latest
}
