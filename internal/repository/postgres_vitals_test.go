package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	store := NewPostgresStore(db, zap.NewNop())
	return db, mock, store
}

func TestFindEmployee_Success(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	lastSync := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "role", "department", "age", "watch_connected", "last_sync",
	}).AddRow("emp-1", "Dana Reyes", "dana@example.com", "engineer", "Platform", 34, true, lastSync)

	mock.ExpectQuery(`SELECT`).WithArgs("emp-1").WillReturnRows(rows)

	emp, err := store.FindEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, "Dana Reyes", emp.Name)
	require.NotNil(t, emp.Age)
	assert.Equal(t, 34, *emp.Age)
	assert.True(t, emp.WatchConnected)
	require.NotNil(t, emp.LastSync)
	assert.True(t, emp.LastSync.Equal(lastSync))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEmployee_NotFound(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("emp-missing").WillReturnError(sql.ErrNoRows)

	emp, err := store.FindEmployee(context.Background(), "emp-missing")
	require.NoError(t, err)
	assert.Nil(t, emp)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSync_CommitsAllWrites(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	hr := 72
	packet := &domain.SyncPacket{
		DeviceID:   "watch-1",
		EmployeeID: "emp-1",
		Readings: []domain.VitalsReading{
			{HeartRate: &hr, Timestamp: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
		},
		SyncedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Duration: 42,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO vital_readings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE employees`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sync_records`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := store.SaveSync(context.Background(), packet, "sync-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSync_RollsBackOnReadingFailure(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	hr := 72
	packet := &domain.SyncPacket{
		DeviceID:   "watch-1",
		EmployeeID: "emp-1",
		Readings: []domain.VitalsReading{
			{HeartRate: &hr, Timestamp: time.Now().UTC()},
		},
		SyncedAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO vital_readings`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := store.SaveSync(context.Background(), packet, "sync-1")
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryReadings_ScansNullableColumns(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	at := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"heart_rate", "blood_oxygen", "steps", "sleep_hours",
		"sleep_quality", "stress_level", "temperature", "calories_burned", "timestamp",
	}).
		AddRow(72, 98, 8000, 7.5, 80, 30, 98.6, 2100, at).
		AddRow(nil, nil, nil, nil, nil, nil, nil, nil, at.Add(-time.Hour))

	mock.ExpectQuery(`SELECT`).WithArgs("emp-1", sqlmock.AnyArg()).WillReturnRows(rows)

	readings, err := store.QueryReadings(context.Background(), "emp-1", at.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, readings, 2)

	require.NotNil(t, readings[0].HeartRate)
	assert.Equal(t, 72, *readings[0].HeartRate)
	require.NotNil(t, readings[0].SleepHours)
	assert.Equal(t, 7.5, *readings[0].SleepHours)

	assert.Nil(t, readings[1].HeartRate)
	assert.Nil(t, readings[1].Temperature)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSyncRecord_Failed(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	record := &domain.SyncRecord{
		ID:           "rec-1",
		EmployeeID:   "emp-1",
		SyncedAt:     time.Now().UTC(),
		Status:       domain.SyncStatusFailed,
		ErrorMessage: "employee not found: emp-1",
	}

	mock.ExpectExec(`INSERT INTO sync_records`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertSyncRecord(context.Background(), record)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcknowledgeAlert_Success(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE alerts`).
		WithArgs(sqlmock.AnyArg(), "alert-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AcknowledgeAlert(context.Background(), "alert-1")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcknowledgeAlert_Unknown(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE alerts`).
		WithArgs(sqlmock.AnyArg(), "alert-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.AcknowledgeAlert(context.Background(), "alert-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlertNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAlerts_AppliesFilters(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	at := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "employee_id", "type", "severity", "message", "suggestion",
		"timestamp", "acknowledged", "acknowledged_at",
	}).AddRow("alert-1", "emp-1", "heart_rate", "critical", "msg", "do something", at, false, nil)

	severity := domain.SeverityCritical
	acked := false

	mock.ExpectQuery(`SELECT`).
		WithArgs("emp-1", string(severity), acked).
		WillReturnRows(rows)

	alerts, err := store.ListAlerts(context.Background(), AlertFilters{
		EmployeeID:   "emp-1",
		Severity:     &severity,
		Acknowledged: &acked,
	})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertTypeHeartRate, alerts[0].Type)
	assert.Nil(t, alerts[0].AcknowledgedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}
