// Package wizard implements the multi-step deletion ceremony. Every step owns
// the timer that advances it; timers are stopped on any transition or
// teardown and each callback is tagged with the session it belongs to.
package wizard

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/clock"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
)

// Step is a stage of the deletion ceremony.
type Step string

const (
	StepClosed       Step = "CLOSED"
	StepInitializing Step = "INITIALIZING"
	StepCheckboxes   Step = "CHECKBOXES"
	StepQueue        Step = "QUEUE"
	StepConfirmation Step = "CONFIRMATION"
)

// Acknowledgements is the number of statements to tick in CHECKBOXES.
const Acknowledgements = 3

const (
	ProgressTick     = 100 * time.Millisecond
	CheckboxesDelay  = 500 * time.Millisecond
	QueueDuration    = 4 * time.Second
	CountdownTick    = time.Second
	CountdownSeconds = 5

	minIncrement = 0.5
	ticketMin    = 100
	ticketSpan   = 800
)

var (
	// ErrNotReady is returned when an operation is not allowed in the current step.
	ErrNotReady = errors.New("wizard: not ready")
	// ErrClosed is returned when no deletion is in progress.
	ErrClosed = errors.New("wizard: closed")
	// ErrAcknowledgementIndex is returned for an index outside 0..Acknowledgements-1.
	ErrAcknowledgementIndex = errors.New("wizard: acknowledgement index out of range")
)

// Snapshot is an immutable view of the wizard.
type Snapshot struct {
	Open         bool                   `json:"open"`
	TargetID     string                 `json:"target_id,omitempty"`
	Step         Step                   `json:"step"`
	Progress     float64                `json:"progress"`
	Acknowledged [Acknowledgements]bool `json:"acknowledged"`
	Ticket       int                    `json:"ticket,omitempty"`
	Countdown    int                    `json:"countdown"`
	CanSubmit    bool                   `json:"can_submit"`
	CanConfirm   bool                   `json:"can_confirm"`
}

// ProgressPercent is the progress bar label, floored.
func (s Snapshot) ProgressPercent() int { return int(math.Floor(s.Progress)) }

type Options struct {
	Clock   clock.Clock
	Logger  logger.Logger
	Metrics *metrics.Metrics
	// Ticket draws the queue ticket number. Defaults to uniform 100..899.
	Ticket func() int
	// OnChange is called outside the wizard lock after every change.
	OnChange func(Snapshot)
}

// Wizard is the deletion state machine. The zero session is closed.
type Wizard struct {
	mu       sync.Mutex
	clock    clock.Clock
	log      logger.Logger
	metrics  *metrics.Metrics
	ticket   func() int
	onChange func(Snapshot)

	gen   uint64
	timer clock.Timer
	state Snapshot
}

func New(opts Options) *Wizard {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Ticket == nil {
		opts.Ticket = func() int { return ticketMin + rand.IntN(ticketSpan) }
	}
	return &Wizard{
		clock:    opts.Clock,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		ticket:   opts.Ticket,
		onChange: opts.OnChange,
		state:    closedSnapshot(),
	}
}

func closedSnapshot() Snapshot {
	return Snapshot{Step: StepClosed, Countdown: CountdownSeconds}
}

// Open starts a fresh session for targetID, discarding any session in progress.
func (w *Wizard) Open(targetID string) Snapshot {
	w.mu.Lock()
	w.resetLocked()
	w.state = Snapshot{
		Open:      true,
		TargetID:  targetID,
		Step:      StepInitializing,
		Countdown: CountdownSeconds,
	}
	w.scheduleLocked(ProgressTick, w.progressTick)
	snap := w.state
	w.mu.Unlock()

	w.log.Info("deletion wizard opened", logger.String("id", targetID))
	w.transitioned(snap)
	return snap
}

// SetAcknowledgement ticks or unticks statement i. Only valid in CHECKBOXES.
func (w *Wizard) SetAcknowledgement(i int, checked bool) (Snapshot, error) {
	if i < 0 || i >= Acknowledgements {
		return w.Snapshot(), ErrAcknowledgementIndex
	}

	w.mu.Lock()
	if err := w.requireLocked(StepCheckboxes); err != nil {
		snap := w.state
		w.mu.Unlock()
		return snap, err
	}
	w.state.Acknowledged[i] = checked
	w.state.CanSubmit = allChecked(w.state.Acknowledged)
	snap := w.state
	w.mu.Unlock()

	w.notify(snap)
	return snap, nil
}

// Submit moves CHECKBOXES to QUEUE once every statement is acknowledged.
func (w *Wizard) Submit() (Snapshot, error) {
	w.mu.Lock()
	if err := w.requireLocked(StepCheckboxes); err != nil {
		snap := w.state
		w.mu.Unlock()
		return snap, err
	}
	if !allChecked(w.state.Acknowledged) {
		snap := w.state
		w.mu.Unlock()
		return snap, ErrNotReady
	}
	w.state.Step = StepQueue
	w.state.CanSubmit = false
	w.state.Ticket = w.ticket()
	w.scheduleLocked(QueueDuration, w.leaveQueue)
	snap := w.state
	w.mu.Unlock()

	w.transitioned(snap)
	return snap, nil
}

// Confirm closes the session and returns its target. Only valid in
// CONFIRMATION once the countdown reached zero.
func (w *Wizard) Confirm() (string, error) {
	w.mu.Lock()
	if err := w.requireLocked(StepConfirmation); err != nil {
		w.mu.Unlock()
		return "", err
	}
	if w.state.Countdown > 0 {
		w.mu.Unlock()
		return "", ErrNotReady
	}
	target := w.state.TargetID
	w.resetLocked()
	snap := w.state
	w.mu.Unlock()

	w.log.Info("deletion confirmed", logger.String("id", target))
	w.transitioned(snap)
	return target, nil
}

// Cancel discards the session from any step. Closing a closed wizard is a no-op.
func (w *Wizard) Cancel() Snapshot {
	w.mu.Lock()
	if !w.state.Open {
		snap := w.state
		w.mu.Unlock()
		return snap
	}
	target := w.state.TargetID
	w.resetLocked()
	snap := w.state
	w.mu.Unlock()

	w.log.Info("deletion wizard cancelled", logger.String("id", target))
	w.transitioned(snap)
	return snap
}

// Close stops any pending timer. Used at shutdown.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) requireLocked(step Step) error {
	if !w.state.Open {
		return ErrClosed
	}
	if w.state.Step != step {
		return ErrNotReady
	}
	return nil
}

// resetLocked invalidates the session: pending callbacks become stale.
func (w *Wizard) resetLocked() {
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.state = closedSnapshot()
}

// scheduleLocked replaces the step timer with fn after d, bound to the
// current session.
func (w *Wizard) scheduleLocked(d time.Duration, fn func()) {
	if w.timer != nil {
		w.timer.Stop()
	}
	gen := w.gen
	w.timer = w.clock.AfterFunc(d, func() {
		w.mu.Lock()
		if gen != w.gen || !w.state.Open {
			w.mu.Unlock()
			return
		}
		w.timer = nil
		fn()
	})
}

// The step callbacks below run with w.mu held and must release it.

func (w *Wizard) progressTick() {
	p := w.state.Progress
	p += math.Max(minIncrement, (100-p)/40)
	if p >= 100 {
		p = 100
		w.scheduleLocked(CheckboxesDelay, w.enterCheckboxes)
	} else {
		w.scheduleLocked(ProgressTick, w.progressTick)
	}
	w.state.Progress = p
	snap := w.state
	w.mu.Unlock()

	w.notify(snap)
}

func (w *Wizard) enterCheckboxes() {
	w.state.Step = StepCheckboxes
	w.state.Acknowledged = [Acknowledgements]bool{}
	w.state.CanSubmit = false
	snap := w.state
	w.mu.Unlock()

	w.transitioned(snap)
}

func (w *Wizard) leaveQueue() {
	w.state.Step = StepConfirmation
	w.state.Countdown = CountdownSeconds
	w.scheduleLocked(CountdownTick, w.countdownTick)
	snap := w.state
	w.mu.Unlock()

	w.transitioned(snap)
}

func (w *Wizard) countdownTick() {
	w.state.Countdown--
	if w.state.Countdown > 0 {
		w.scheduleLocked(CountdownTick, w.countdownTick)
	} else {
		w.state.Countdown = 0
		w.state.CanConfirm = true
	}
	snap := w.state
	w.mu.Unlock()

	w.notify(snap)
}

func (w *Wizard) transitioned(s Snapshot) {
	w.metrics.WizardStep(string(s.Step))
	w.log.Debug("wizard step", logger.String("step", string(s.Step)))
	w.notify(s)
}

func (w *Wizard) notify(s Snapshot) {
	if w.onChange != nil {
		w.onChange(s)
	}
}

func allChecked(acks [Acknowledgements]bool) bool {
	for _, ok := range acks {
		if !ok {
			return false
		}
	}
	return true
}
