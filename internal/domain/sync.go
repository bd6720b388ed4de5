package domain

import "time"

// SyncStatus sync record status
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailed  SyncStatus = "failed"
)

// SyncPacket is one validated device-to-server transmission. It is built
// exactly once by the schema validator and is immutable afterwards.
type SyncPacket struct {
	DeviceID   string          `json:"deviceId"`
	EmployeeID string          `json:"employeeId"`
	Readings   []VitalsReading `json:"readings"`
	SyncedAt   time.Time       `json:"syncedAt"`
	Duration   int64           `json:"duration"` // processing time in ms, measured server-side
}

// SyncRecord is the audit entry written for every processing attempt,
// successful or not. Append-only.
type SyncRecord struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	SyncedAt     time.Time  `json:"syncedAt"`
	Duration     int64      `json:"duration"`
	Status       SyncStatus `json:"status"`
	RecordsCount int        `json:"recordsCount"`
	ErrorMessage string     `json:"errorMessage,omitempty"` // set iff Status == failed
}

// SyncResult is returned to the caller on a successful sync.
type SyncResult struct {
	RecordsCreated int    `json:"recordsCreated"`
	SyncID         string `json:"syncId"`
}
