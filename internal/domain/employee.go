package domain

import "time"

// Employee is the person a device reports for. Managed by the surrounding
// CRUD layer; the sync core only resolves it and updates sync state.
type Employee struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Department     string     `json:"department"`
	Age            *int       `json:"age,omitempty"`
	WatchConnected bool       `json:"watchConnected"`
	LastSync       *time.Time `json:"lastSync,omitempty"`
}
