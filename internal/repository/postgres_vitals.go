package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
)

// PostgresStore VitalsStore implementation over PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

var _ VitalsStore = (*PostgresStore)(nil)

// FindEmployee returns (nil, nil) when no row matches.
func (s *PostgresStore) FindEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	if id == "" {
		return nil, fmt.Errorf("employee id is required")
	}

	query := `
		SELECT
			id,
			name,
			email,
			role,
			department,
			age,
			watch_connected,
			last_sync
		FROM employees
		WHERE id = $1
	`

	var emp domain.Employee
	var age sql.NullInt64
	var lastSync sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.Role,
		&emp.Department,
		&age,
		&emp.WatchConnected,
		&lastSync,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}

	if age.Valid {
		a := int(age.Int64)
		emp.Age = &a
	}
	if lastSync.Valid {
		t := lastSync.Time
		emp.LastSync = &t
	}

	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *PostgresStore) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	query := `
		SELECT
			id,
			name,
			email,
			role,
			department,
			age,
			watch_connected,
			last_sync
		FROM employees
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var emp domain.Employee
		var age sql.NullInt64
		var lastSync sql.NullTime

		if err := rows.Scan(
			&emp.ID,
			&emp.Name,
			&emp.Email,
			&emp.Role,
			&emp.Department,
			&age,
			&emp.WatchConnected,
			&lastSync,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}

		if age.Valid {
			a := int(age.Int64)
			emp.Age = &a
		}
		if lastSync.Valid {
			t := lastSync.Time
			emp.LastSync = &t
		}

		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// SaveSync runs the three success-path writes in one transaction: readings
// batch insert, sync-state update, success SyncRecord. Alert writes stay
// outside this boundary on purpose.
func (s *PostgresStore) SaveSync(ctx context.Context, packet *domain.SyncPacket, syncID string) (int, error) {
	if packet == nil {
		return 0, fmt.Errorf("packet is required")
	}
	if syncID == "" {
		return 0, fmt.Errorf("sync id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := insertReadings(ctx, tx, packet.EmployeeID, packet.Readings)
	if err != nil {
		return 0, err
	}

	if err := updateSyncState(ctx, tx, packet.EmployeeID, packet.SyncedAt, true); err != nil {
		return 0, err
	}

	record := &domain.SyncRecord{
		ID:           syncID,
		EmployeeID:   packet.EmployeeID,
		SyncedAt:     packet.SyncedAt,
		Duration:     packet.Duration,
		Status:       domain.SyncStatusSuccess,
		RecordsCount: count,
	}
	if err := insertSyncRecord(ctx, tx, record); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	return count, nil
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertReadings(ctx context.Context, db execer, employeeID string, readings []domain.VitalsReading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	// Multi-row VALUES insert.
	cols := []string{
		"employee_id", "heart_rate", "blood_oxygen", "steps", "sleep_hours",
		"sleep_quality", "stress_level", "temperature", "calories_burned", "timestamp",
	}

	placeholders := make([]string, 0, len(readings))
	args := make([]interface{}, 0, len(readings)*len(cols))
	argN := 1
	for _, r := range readings {
		row := make([]string, len(cols))
		for i := range cols {
			row[i] = fmt.Sprintf("$%d", argN)
			argN++
		}
		placeholders = append(placeholders, "("+strings.Join(row, ", ")+")")
		args = append(args,
			employeeID,
			nullInt(r.HeartRate),
			nullInt(r.BloodOxygen),
			nullInt(r.Steps),
			nullFloat(r.SleepHours),
			nullInt(r.SleepQuality),
			nullInt(r.StressLevel),
			nullFloat(r.Temperature),
			nullInt(r.CaloriesBurned),
			r.Timestamp,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO vital_readings (%s)
		VALUES %s
	`, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert readings: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted readings count: %w", err)
	}

	return int(affected), nil
}

// InsertReadings batch-inserts readings outside a sync transaction.
func (s *PostgresStore) InsertReadings(ctx context.Context, employeeID string, readings []domain.VitalsReading) (int, error) {
	if employeeID == "" {
		return 0, fmt.Errorf("employee id is required")
	}
	return insertReadings(ctx, s.db, employeeID, readings)
}

// QueryReadings returns readings at or after since, newest first.
func (s *PostgresStore) QueryReadings(ctx context.Context, employeeID string, since time.Time) ([]domain.VitalsReading, error) {
	if employeeID == "" {
		return nil, fmt.Errorf("employee id is required")
	}

	query := `
		SELECT
			heart_rate,
			blood_oxygen,
			steps,
			sleep_hours,
			sleep_quality,
			stress_level,
			temperature,
			calories_burned,
			timestamp
		FROM vital_readings
		WHERE employee_id = $1
		  AND timestamp >= $2
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings := []domain.VitalsReading{}
	for rows.Next() {
		var r domain.VitalsReading
		var heartRate, bloodOxygen, steps, sleepQuality, stressLevel, caloriesBurned sql.NullInt64
		var sleepHours, temperature sql.NullFloat64

		if err := rows.Scan(
			&heartRate,
			&bloodOxygen,
			&steps,
			&sleepHours,
			&sleepQuality,
			&stressLevel,
			&temperature,
			&caloriesBurned,
			&r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		r.HeartRate = intPtrFromNull(heartRate)
		r.BloodOxygen = intPtrFromNull(bloodOxygen)
		r.Steps = intPtrFromNull(steps)
		r.SleepHours = floatPtrFromNull(sleepHours)
		r.SleepQuality = intPtrFromNull(sleepQuality)
		r.StressLevel = intPtrFromNull(stressLevel)
		r.Temperature = floatPtrFromNull(temperature)
		r.CaloriesBurned = intPtrFromNull(caloriesBurned)

		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

func updateSyncState(ctx context.Context, db execer, employeeID string, syncedAt time.Time, connected bool) error {
	query := `
		UPDATE employees
		SET last_sync = $1,
		    watch_connected = $2
		WHERE id = $3
	`

	result, err := db.ExecContext(ctx, query, syncedAt, connected, employeeID)
	if err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("employee not found for sync state update: %s", employeeID)
	}

	return nil
}

// UpdateSyncState advances last_sync and the connectivity flag.
func (s *PostgresStore) UpdateSyncState(ctx context.Context, employeeID string, syncedAt time.Time, connected bool) error {
	if employeeID == "" {
		return fmt.Errorf("employee id is required")
	}
	return updateSyncState(ctx, s.db, employeeID, syncedAt, connected)
}

// SetConnectivity flips the connectivity flag without touching last_sync.
func (s *PostgresStore) SetConnectivity(ctx context.Context, employeeID string, connected bool) error {
	if employeeID == "" {
		return fmt.Errorf("employee id is required")
	}

	query := `
		UPDATE employees
		SET watch_connected = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, connected, employeeID)
	if err != nil {
		return fmt.Errorf("failed to update connectivity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("employee not found for connectivity update: %s", employeeID)
	}

	return nil
}

func insertSyncRecord(ctx context.Context, db execer, record *domain.SyncRecord) error {
	query := `
		INSERT INTO sync_records (
			id,
			employee_id,
			synced_at,
			duration,
			status,
			records_count,
			error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var errorMessage sql.NullString
	if record.ErrorMessage != "" {
		errorMessage = sql.NullString{String: record.ErrorMessage, Valid: true}
	}

	_, err := db.ExecContext(ctx, query,
		record.ID,
		record.EmployeeID,
		record.SyncedAt,
		record.Duration,
		string(record.Status),
		record.RecordsCount,
		errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync record: %w", err)
	}

	return nil
}

// InsertSyncRecord writes one audit entry. Used directly on the failure path.
func (s *PostgresStore) InsertSyncRecord(ctx context.Context, record *domain.SyncRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	return insertSyncRecord(ctx, s.db, record)
}

// ListSyncRecords returns sync records at or after since, newest first.
func (s *PostgresStore) ListSyncRecords(ctx context.Context, employeeID string, since time.Time) ([]domain.SyncRecord, error) {
	if employeeID == "" {
		return nil, fmt.Errorf("employee id is required")
	}

	query := `
		SELECT
			id,
			employee_id,
			synced_at,
			duration,
			status,
			records_count,
			error_message
		FROM sync_records
		WHERE employee_id = $1
		  AND synced_at >= $2
		ORDER BY synced_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	records := []domain.SyncRecord{}
	for rows.Next() {
		var rec domain.SyncRecord
		var status string
		var errorMessage sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.EmployeeID,
			&rec.SyncedAt,
			&rec.Duration,
			&status,
			&rec.RecordsCount,
			&errorMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync record: %w", err)
		}

		rec.Status = domain.SyncStatus(status)
		if errorMessage.Valid {
			rec.ErrorMessage = errorMessage.String
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync records: %w", err)
	}

	return records, nil
}

// InsertAlerts writes the evaluated alerts. Not part of the sync transaction.
func (s *PostgresStore) InsertAlerts(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	query := `
		INSERT INTO alerts (
			id,
			employee_id,
			type,
			severity,
			message,
			suggestion,
			timestamp,
			acknowledged
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, alert := range alerts {
		if _, err := s.db.ExecContext(ctx, query,
			alert.ID,
			alert.EmployeeID,
			string(alert.Type),
			string(alert.Severity),
			alert.Message,
			alert.Suggestion,
			alert.Timestamp,
			alert.Acknowledged,
		); err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	return nil
}

// ListAlerts returns alerts matching the filters, newest first.
func (s *PostgresStore) ListAlerts(ctx context.Context, filters AlertFilters) ([]domain.Alert, error) {
	where := []string{}
	args := []interface{}{}
	argN := 1

	if filters.EmployeeID != "" {
		where = append(where, fmt.Sprintf("employee_id = $%d", argN))
		args = append(args, filters.EmployeeID)
		argN++
	}
	if filters.Severity != nil {
		where = append(where, fmt.Sprintf("severity = $%d", argN))
		args = append(args, string(*filters.Severity))
		argN++
	}
	if filters.Acknowledged != nil {
		where = append(where, fmt.Sprintf("acknowledged = $%d", argN))
		args = append(args, *filters.Acknowledged)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			employee_id,
			type,
			severity,
			message,
			suggestion,
			timestamp,
			acknowledged,
			acknowledged_at
		FROM alerts
		%s
		ORDER BY timestamp DESC
	`, whereClause)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.Alert{}
	for rows.Next() {
		var alert domain.Alert
		var alertType, severity string
		var acknowledgedAt sql.NullTime

		if err := rows.Scan(
			&alert.ID,
			&alert.EmployeeID,
			&alertType,
			&severity,
			&alert.Message,
			&alert.Suggestion,
			&alert.Timestamp,
			&alert.Acknowledged,
			&acknowledgedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		alert.Type = domain.AlertType(alertType)
		alert.Severity = domain.AlertSeverity(severity)
		if acknowledgedAt.Valid {
			t := acknowledgedAt.Time
			alert.AcknowledgedAt = &t
		}

		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

// AcknowledgeAlert flips the acknowledged flag and stamps the time.
func (s *PostgresStore) AcknowledgeAlert(ctx context.Context, alertID string) error {
	if alertID == "" {
		return fmt.Errorf("alert id is required")
	}

	query := `
		UPDATE alerts
		SET acknowledged = TRUE,
		    acknowledged_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), alertID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAlertNotFound, alertID)
	}

	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intPtrFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatPtrFromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
