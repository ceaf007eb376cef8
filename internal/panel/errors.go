package panel

import (
	"errors"

	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
	"github.com/MrSnakeDoc/blockpanel/internal/registry"
)

var (
	// ErrEmptyName is returned when the submitted name is blank after trimming.
	ErrEmptyName = errors.New("application name is empty")
	// ErrAddInProgress is returned while another add is still resolving.
	ErrAddInProgress = errors.New("another application is being added")
	// ErrResolveFailed wraps a resolver failure. The registry is untouched.
	ErrResolveFailed = errors.New("domain resolution failed")
	// ErrUnblockRestricted is returned when a BLOCKED record is toggled during
	// a lockdown.
	ErrUnblockRestricted = errors.New("unblocking is restricted during lockdown")
	// ErrNotFound is returned for an unknown application ID.
	ErrNotFound = registry.ErrNotFound
)

// NoticeKey returns the user-facing notice for err, if it has one.
func NoticeKey(err error) (i18n.Key, bool) {
	switch {
	case errors.Is(err, ErrUnblockRestricted):
		return i18n.LockdownRestrictUnblock, true
	case errors.Is(err, ErrResolveFailed):
		return i18n.InputResolveFail, true
	}
	return "", false
}
