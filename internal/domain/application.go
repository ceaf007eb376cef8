package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the firewall state of an application.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusBlocked {
		return StatusActive
	}
	return StatusBlocked
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusBlocked
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Application is one entry of the firewall registry.
//
// The icon URL is not stored; it is always derived from Domain.
type Application struct {
	// ID is assigned at creation and never reused.
	ID string

	// Name is the display name typed by the operator.
	Name string

	// Domain is the resolved hostname, lower-case, without scheme or www.
	Domain string

	Status Status

	CreatedAt time.Time
}

// NewApplication builds a fresh ACTIVE record.
func NewApplication(id, name, domain string, now time.Time) *Application {
	return &Application{
		ID:        id,
		Name:      name,
		Domain:    domain,
		Status:    StatusActive,
		CreatedAt: now,
	}
}

// IconURL is the favicon service URL for the record's domain.
func (a Application) IconURL() string {
	return FaviconURL(a.Domain)
}

// Blocked reports whether the record is currently blocked.
func (a Application) Blocked() bool {
	return a.Status == StatusBlocked
}

type applicationJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	IconURL   string    `json:"icon_url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Application) MarshalJSON() ([]byte, error) {
	return json.Marshal(applicationJSON{
		ID:        a.ID,
		Name:      a.Name,
		Domain:    a.Domain,
		IconURL:   a.IconURL(),
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	})
}
