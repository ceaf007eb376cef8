package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/blockpanel/internal/domain"
)

// Mapper converts seed entries to domain applications.
type Mapper struct {
	now   func() time.Time
	newID func() string
}

// NewMapper creates a mapper using wall time and random UUIDs.
func NewMapper() *Mapper {
	return &Mapper{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// MapApplications validates entries and returns them as applications, in
// file order. Entries without a usable name or domain are rejected.
func (m *Mapper) MapApplications(f File) ([]*domain.Application, error) {
	apps := make([]*domain.Application, 0, len(f.Applications))
	seen := make(map[string]bool, len(f.Applications))
	now := m.now()

	for i, e := range f.Applications {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("seed entry %d: name is required", i)
		}

		host := domain.NormalizeDomain(e.Domain)
		if host == "" {
			return nil, fmt.Errorf("seed entry %d (%s): invalid domain %q", i, name, e.Domain)
		}

		status := domain.StatusActive
		if e.Status != "" {
			s, err := domain.ParseStatus(e.Status)
			if err != nil {
				return nil, fmt.Errorf("seed entry %d (%s): %w", i, name, err)
			}
			status = s
		}

		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = m.newID()
		}
		if seen[id] {
			return nil, fmt.Errorf("seed entry %d (%s): duplicate id %q", i, name, id)
		}
		seen[id] = true

		app := domain.NewApplication(id, name, host, now)
		app.Status = status
		apps = append(apps, app)
	}

	return apps, nil
}
