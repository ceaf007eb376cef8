// Package panel ties the registry, resolver, lockdown controller and deletion
// wizard into the operations the page and API expose.
package panel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/blockpanel/internal/clock"
	"github.com/MrSnakeDoc/blockpanel/internal/domain"
	"github.com/MrSnakeDoc/blockpanel/internal/events"
	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
	"github.com/MrSnakeDoc/blockpanel/internal/lockdown"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
	"github.com/MrSnakeDoc/blockpanel/internal/registry"
	"github.com/MrSnakeDoc/blockpanel/internal/resolver"
	"github.com/MrSnakeDoc/blockpanel/internal/wizard"
)

// Options configures a Panel. Zero values select production defaults.
type Options struct {
	LockdownDuration time.Duration
	NoticeDuration   time.Duration
	DefaultLocale    i18n.Locale
	ForbiddenTerms   []string

	Clock     clock.Clock
	Logger    logger.Logger
	Metrics   *metrics.Metrics
	Publisher events.Publisher
	NewID     func() string
	Ticket    func() int
}

// AddResult is the outcome of a successful Add. Exactly one of App or
// Lockdown is set.
type AddResult struct {
	App      *domain.Application
	Lockdown bool
}

// Panel is the single operator session. All methods are safe for concurrent use.
type Panel struct {
	registry *registry.Registry
	resolver resolver.Resolver
	filter   *domain.ForbiddenFilter
	lockdown *lockdown.Controller
	wizard   *wizard.Wizard

	clock   clock.Clock
	log     logger.Logger
	metrics *metrics.Metrics
	pub     events.Publisher
	newID   func() string

	adding atomic.Bool

	mu     sync.RWMutex
	locale i18n.Locale
}

func New(reg *registry.Registry, res resolver.Resolver, store lockdown.Store, opts Options) *Panel {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = i18n.Default
	}

	p := &Panel{
		registry: reg,
		resolver: res,
		filter:   domain.NewForbiddenFilter(opts.ForbiddenTerms...),
		clock:    opts.Clock,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		pub:      opts.Publisher,
		newID:    opts.NewID,
		locale:   opts.DefaultLocale,
	}

	p.lockdown = lockdown.New(store, lockdown.Options{
		Duration:       opts.LockdownDuration,
		NoticeDuration: opts.NoticeDuration,
		Clock:          opts.Clock,
		Logger:         opts.Logger.Named("lockdown"),
		Metrics:        opts.Metrics,
		OnChange: func(s lockdown.State) {
			p.publish(events.TypeLockdown, p.lockdownView(s, p.Locale()))
		},
	})
	p.wizard = wizard.New(wizard.Options{
		Clock:   opts.Clock,
		Logger:  opts.Logger.Named("wizard"),
		Metrics: opts.Metrics,
		Ticket:  opts.Ticket,
		OnChange: func(s wizard.Snapshot) {
			p.publish(events.TypeWizard, s)
		},
	})

	p.recordCounts()
	return p
}

// Start resumes a lockdown persisted by a previous run.
func (p *Panel) Start(ctx context.Context) error {
	if err := p.lockdown.Restore(ctx); err != nil {
		return fmt.Errorf("restore lockdown: %w", err)
	}
	return nil
}

// Close stops every timer owned by the panel.
func (p *Panel) Close() {
	p.wizard.Close()
	p.lockdown.Close()
}

// Add registers a new application named name.
//
// A name containing a forbidden term adds nothing and triggers the lockdown
// instead; that outcome is reported through AddResult, not as an error.
func (p *Panel) Add(ctx context.Context, name string) (AddResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AddResult{}, ErrEmptyName
	}

	if term, hit := p.filter.Match(name); hit {
		p.log.Warn("forbidden name submitted", logger.String("term", term))
		p.lockdown.Trigger(ctx)
		return AddResult{Lockdown: true}, nil
	}

	if !p.adding.CompareAndSwap(false, true) {
		return AddResult{}, ErrAddInProgress
	}
	defer p.adding.Store(false)

	host, err := p.resolver.Resolve(ctx, name)
	if err != nil {
		p.log.Warn("add failed", logger.String("name", name), logger.Error(err))
		return AddResult{}, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}

	app := domain.NewApplication(p.newID(), name, host, p.clock.Now())
	if err := p.registry.Prepend(app); err != nil {
		return AddResult{}, fmt.Errorf("add %q: %w", name, err)
	}

	p.log.Info("application added",
		logger.String("id", app.ID),
		logger.String("name", app.Name),
		logger.String("domain", app.Domain))
	p.recordCounts()
	p.publish(events.TypeAppAdded, app)

	out := *app
	return AddResult{App: &out}, nil
}

// Adding reports whether an add is currently resolving.
func (p *Panel) Adding() bool { return p.adding.Load() }

// ToggleStatus flips a record between ACTIVE and BLOCKED. During a lockdown a
// BLOCKED record stays blocked and ErrUnblockRestricted is returned.
func (p *Panel) ToggleStatus(id string) (domain.Application, error) {
	app, refused, err := p.registry.Toggle(id, func(a domain.Application) bool {
		return a.Blocked() && p.lockdown.IsActive()
	})
	if err != nil {
		return domain.Application{}, err
	}
	if refused {
		p.log.Info("unblock refused during lockdown", logger.String("id", id))
		p.publishNotice(i18n.LockdownRestrictUnblock)
		return app, ErrUnblockRestricted
	}

	p.log.Info("application toggled",
		logger.String("id", app.ID),
		logger.String("status", string(app.Status)))
	p.recordCounts()
	p.publish(events.TypeAppToggled, app)
	return app, nil
}

// RequestDelete opens the deletion wizard for id, cancelling any wizard
// already open. During a lockdown the request is silently ignored and opened
// is false.
func (p *Panel) RequestDelete(id string) (snap wizard.Snapshot, opened bool, err error) {
	if p.lockdown.IsActive() {
		p.log.Debug("delete request ignored during lockdown", logger.String("id", id))
		return p.wizard.Snapshot(), false, nil
	}
	if _, ok := p.registry.Get(id); !ok {
		return p.wizard.Snapshot(), false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.wizard.Open(id), true, nil
}

// SetAcknowledgement ticks or unticks statement i of the open wizard.
func (p *Panel) SetAcknowledgement(i int, checked bool) (wizard.Snapshot, error) {
	return p.wizard.SetAcknowledgement(i, checked)
}

// SubmitAcknowledgements moves the wizard into the queue.
func (p *Panel) SubmitAcknowledgements() (wizard.Snapshot, error) {
	return p.wizard.Submit()
}

// ConfirmDelete finishes the wizard and removes its target. If the target
// disappeared meanwhile the wizard still closes and ErrNotFound is returned.
func (p *Panel) ConfirmDelete() (domain.Application, error) {
	id, err := p.wizard.Confirm()
	if err != nil {
		return domain.Application{}, err
	}

	removed, err := p.registry.Remove(id)
	if err != nil {
		return domain.Application{}, err
	}

	p.log.Info("application deleted",
		logger.String("id", removed.ID),
		logger.String("name", removed.Name))
	p.recordCounts()
	p.publish(events.TypeAppDeleted, removed)
	return removed, nil
}

// CancelDelete closes the wizard from any step.
func (p *Panel) CancelDelete() wizard.Snapshot {
	return p.wizard.Cancel()
}

func (p *Panel) Wizard() wizard.Snapshot {
	return p.wizard.Snapshot()
}

func (p *Panel) Lockdown() lockdown.State {
	return p.lockdown.State()
}

func (p *Panel) Apps() []domain.Application {
	return p.registry.List()
}

func (p *Panel) Locale() i18n.Locale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.locale
}

// SetLocale switches the presentation language. No panel state changes.
func (p *Panel) SetLocale(l i18n.Locale) {
	p.mu.Lock()
	p.locale = l
	p.mu.Unlock()

	p.publish(events.TypeLocale, map[string]string{"locale": string(l)})
}

func (p *Panel) publish(typ string, data any) {
	if p.pub == nil {
		return
	}
	p.pub.Publish(events.Event{Type: typ, Data: data})
}

func (p *Panel) publishNotice(key i18n.Key) {
	p.publish(events.TypeNotice, Notice{Key: string(key), Text: i18n.T(p.Locale(), key)})
}

func (p *Panel) recordCounts() {
	total := p.registry.Count()
	blocked := p.registry.CountBlocked()
	p.metrics.SetApplications(total-blocked, blocked)
}
