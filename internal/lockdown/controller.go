// Package lockdown implements the time-boxed restricted mode entered when a
// forbidden application name is submitted.
package lockdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/clock"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
)

const (
	DefaultDuration       = 15 * time.Minute
	DefaultNoticeDuration = 5 * time.Second

	checkInterval = time.Second
	storeTimeout  = 2 * time.Second
)

// ErrInvalidTimestamp is returned by a Store whose persisted value cannot be
// read back as an end time.
var ErrInvalidTimestamp = errors.New("invalid lockdown timestamp")

// Store persists the lockdown end across restarts.
type Store interface {
	LoadLockdown(ctx context.Context) (time.Time, bool, error)
	SaveLockdown(ctx context.Context, end time.Time) error
	ClearLockdown(ctx context.Context) error
}

// State is a point-in-time view of the lockdown.
type State struct {
	Active    bool
	EndsAt    time.Time
	Remaining time.Duration
	// NoticeUntil is set while the trigger toast is showing.
	NoticeUntil time.Time
}

// NoticeVisible reports whether the trigger toast is on screen.
func (s State) NoticeVisible() bool { return !s.NoticeUntil.IsZero() }

// Options configures a Controller.
type Options struct {
	Duration       time.Duration
	NoticeDuration time.Duration
	Clock          clock.Clock
	Logger         logger.Logger
	Metrics        *metrics.Metrics
	// OnChange is called outside the controller lock after every state change.
	OnChange func(State)
}

// Controller owns the lockdown end time, its expiry check and the trigger toast.
type Controller struct {
	mu          sync.Mutex
	store       Store
	clock       clock.Clock
	log         logger.Logger
	metrics     *metrics.Metrics
	onChange    func(State)
	duration    time.Duration
	noticeDur   time.Duration
	end         time.Time
	gen         uint64 // bumped on every change of end
	noticeUntil time.Time
	ticker      clock.Timer
	noticeTimer clock.Timer
	closed      bool
}

func New(store Store, opts Options) *Controller {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = DefaultNoticeDuration
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Controller{
		store:     store,
		clock:     opts.Clock,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		onChange:  opts.OnChange,
		duration:  opts.Duration,
		noticeDur: opts.NoticeDuration,
	}
}

// Restore resumes a persisted lockdown. A stored end in the past, or one that
// cannot be parsed, is cleared from the store immediately.
func (c *Controller) Restore(ctx context.Context) error {
	end, ok, err := c.store.LoadLockdown(ctx)
	if err != nil && !errors.Is(err, ErrInvalidTimestamp) {
		return fmt.Errorf("load lockdown: %w", err)
	}

	now := c.clock.Now()
	if err != nil || (ok && !end.After(now)) {
		if err != nil {
			c.log.Warn("discarding unreadable lockdown", logger.Error(err))
		} else {
			c.log.Info("stored lockdown already expired", logger.Time("ended_at", end))
		}
		if cerr := c.store.ClearLockdown(ctx); cerr != nil {
			return fmt.Errorf("clear lockdown: %w", cerr)
		}
		return nil
	}
	if !ok {
		return nil
	}

	c.mu.Lock()
	c.end = end
	c.gen++
	c.armLocked()
	state := c.stateLocked(now)
	c.mu.Unlock()

	c.metrics.SetLockdownActive(true)
	c.log.Info("lockdown restored",
		logger.Time("ends_at", end),
		logger.Duration("remaining", state.Remaining))
	c.notify(state)
	return nil
}

// Trigger starts (or extends) a lockdown ending at now + duration and shows
// the toast. A store failure is logged; the lockdown applies regardless.
func (c *Controller) Trigger(ctx context.Context) State {
	now := c.clock.Now()
	end := now.Add(c.duration)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}
	}
	c.end = end
	c.gen++
	c.noticeUntil = now.Add(c.noticeDur)
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeTimer = c.clock.AfterFunc(c.noticeDur, c.dismissNotice)
	c.armLocked()
	state := c.stateLocked(now)
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		c.log.Error("failed to persist lockdown", logger.Error(err))
	}

	c.metrics.LockdownTriggered()
	c.metrics.SetLockdownActive(true)
	c.log.Warn("lockdown triggered", logger.Time("ends_at", end))
	c.notify(state)
	return state
}

// IsActive reports whether a lockdown is in force: an end is set and still in
// the future. It does not wait for the expiry check.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.end.After(c.clock.Now())
}

// EndTime returns the lockdown end, zero when inactive.
func (c *Controller) EndTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.end.After(c.clock.Now()) {
		return time.Time{}
	}
	return c.end
}

// Remaining returns the time left, truncated to whole seconds.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(c.clock.Now()).Remaining
}

// State returns the current lockdown view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(c.clock.Now())
}

// Close stops every timer. The persisted state is left untouched.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}

// FormatRemaining renders d as zero-padded MM:SS, flooring partial seconds.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (c *Controller) stateLocked(now time.Time) State {
	s := State{NoticeUntil: c.noticeUntil}
	rem := c.end.Sub(now)
	if c.end.IsZero() || rem <= 0 {
		return s
	}
	s.Active = true
	s.EndsAt = c.end
	s.Remaining = rem.Truncate(time.Second)
	return s
}

func (c *Controller) armLocked() {
	if c.ticker != nil || c.closed {
		return
	}
	c.ticker = c.clock.AfterFunc(checkInterval, c.check)
}

func (c *Controller) check() {
	now := c.clock.Now()

	c.mu.Lock()
	if c.closed || c.end.IsZero() {
		c.ticker = nil
		c.mu.Unlock()
		return
	}
	if now.Before(c.end) {
		c.ticker = c.clock.AfterFunc(checkInterval, c.check)
		c.mu.Unlock()
		return
	}
	ended := c.end
	c.end = time.Time{}
	c.gen++
	gen := c.gen
	c.ticker = nil
	state := c.stateLocked(now)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.persist(ctx); err != nil {
		c.log.Error("failed to clear expired lockdown", logger.Error(err))
	}

	c.mu.Lock()
	retriggered := c.gen != gen
	c.mu.Unlock()
	if retriggered {
		return
	}

	c.metrics.SetLockdownActive(false)
	c.log.Info("lockdown expired", logger.Time("ended_at", ended))
	c.notify(state)
}

// persist writes the current end to the store, or clears it when no lockdown
// is set. If end changed while the write was in flight, the write is repeated
// with the newer value so the store never keeps a stale end.
func (c *Controller) persist(ctx context.Context) error {
	for {
		c.mu.Lock()
		gen, end := c.gen, c.end
		c.mu.Unlock()

		var err error
		if end.IsZero() {
			err = c.store.ClearLockdown(ctx)
		} else {
			err = c.store.SaveLockdown(ctx, end)
		}

		c.mu.Lock()
		stale := c.gen != gen
		c.mu.Unlock()
		if !stale || ctx.Err() != nil {
			return err
		}
	}
}

func (c *Controller) dismissNotice() {
	c.mu.Lock()
	if c.closed || c.noticeUntil.IsZero() || c.clock.Now().Before(c.noticeUntil) {
		c.mu.Unlock()
		return
	}
	c.noticeUntil = time.Time{}
	c.noticeTimer = nil
	state := c.stateLocked(c.clock.Now())
	c.mu.Unlock()

	c.notify(state)
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
