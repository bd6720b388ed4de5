package service

import (
	"context"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
)

// AlertService exposes alert listing and acknowledgement.
type AlertService struct {
	store  repository.VitalsStore
	logger *zap.Logger
}

// NewAlertService creates the alert service.
func NewAlertService(store repository.VitalsStore, logger *zap.Logger) *AlertService {
	return &AlertService{store: store, logger: logger}
}

// List returns alerts matching the filters, newest first.
func (s *AlertService) List(ctx context.Context, filters repository.AlertFilters) ([]domain.Alert, error) {
	alerts, err := s.store.ListAlerts(ctx, filters)
	if err != nil {
		return nil, domain.NewStoreError("list alerts", err)
	}
	return alerts, nil
}

// Acknowledge flips the alert's acknowledged flag and records when. Unknown
// ids surface as domain.ErrAlertNotFound.
func (s *AlertService) Acknowledge(ctx context.Context, alertID string) error {
	if err := s.store.AcknowledgeAlert(ctx, alertID); err != nil {
		return err
	}
	s.logger.Info("Alert acknowledged", zap.String("alert_id", alertID))
	return nil
}
