// Package session drives one player's economy engine through its lifecycle:
// loading the save, reconciling offline time, scheduling ticks, autosaving
// and the final sync. It is host-agnostic; the terminal UI and the SSH
// server both run a Session from their single update loop.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/space-colonies/internal/clock"
	"github.com/vovakirdan/space-colonies/internal/config"
	"github.com/vovakirdan/space-colonies/internal/economy"
	"github.com/vovakirdan/space-colonies/internal/offline"
	"github.com/vovakirdan/space-colonies/internal/savegame"
)

// State is the lifecycle phase of a session.
type State int

const (
	Uninitialized State = iota
	Initialized
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrState is returned when an operation is not valid in the current state.
	ErrState = errors.New("session: invalid state")
	// ErrForeignSave is returned by Init when the slot holds a save of another catalog.
	ErrForeignSave = errors.New("session: save belongs to another catalog")
)

// Persister loads and stores snapshots by slot.
type Persister interface {
	SaveSnapshot(slot string, snap economy.Snapshot) error
	LoadSnapshot(slot string) (economy.Snapshot, bool, error)
}

// PrestigeRecord describes one completed prestige reset.
type PrestigeRecord struct {
	Slot           string
	Catalog        string
	Gained         int64
	Points         int64
	LifetimeEarned float64
}

// PrestigeRecorder receives completed prestige resets.
type PrestigeRecorder interface {
	RecordPrestige(rec PrestigeRecord) error
}

// Options configures a session.
type Options struct {
	Slot    string
	Catalog economy.Catalog
	Tuning  config.Tuning
	Clock   clock.Clock      // defaults to the system clock
	Store   Persister        // optional
	History PrestigeRecorder // optional
	Logger  *log.Logger      // defaults to a discarding logger
}

// Tick identifies one scheduled simulation step. Hosts schedule a Tick
// after Interval and hand its Gen back to HandleTick.
type Tick struct {
	Gen      uint64
	Interval time.Duration
}

// Session owns one engine. It is not safe for concurrent use.
type Session struct {
	opts     Options
	engine   *economy.Engine
	state    State
	gen      uint64
	lastTick time.Time
	autosave *rate.Limiter

	lastOffline offline.Result
}

// New validates the options. Call Init before anything else.
func New(opts Options) (*Session, error) {
	if opts.Slot == "" {
		return nil, fmt.Errorf("session: empty slot name")
	}
	if err := opts.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Session{
		opts:     opts,
		autosave: rate.NewLimiter(rate.Every(opts.Tuning.AutosaveInterval()), 1),
	}, nil
}

// Init builds the engine and restores the slot. A save that cannot be
// decoded is logged and the session starts from catalog defaults. Any other
// load failure, or a save of another catalog, is returned and the session
// stays uninitialized, so nothing is written over the slot.
func (s *Session) Init() error {
	if s.state != Uninitialized {
		return fmt.Errorf("%w: init while %s", ErrState, s.state)
	}

	now := s.opts.Clock.Now()
	engine, err := economy.New(s.opts.Catalog, s.opts.Tuning.Rules(), now)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if s.opts.Store != nil {
		snap, found, err := s.opts.Store.LoadSnapshot(s.opts.Slot)
		switch {
		case errors.Is(err, savegame.ErrMalformed), errors.Is(err, savegame.ErrEmpty):
			s.opts.Logger.Warn("Save unreadable, starting fresh", "slot", s.opts.Slot, "err", err)
		case err != nil:
			return fmt.Errorf("session: %w", err)
		case found && snap.Catalog != "" && snap.Catalog != s.opts.Catalog.Name:
			return fmt.Errorf("%w: slot %q holds a %q colony, not %q",
				ErrForeignSave, s.opts.Slot, snap.Catalog, s.opts.Catalog.Name)
		case found:
			engine.Restore(snap)
			s.opts.Logger.Debug("Save restored", "slot", s.opts.Slot, "points", snap.PrestigePoints)
		}
	}

	s.engine = engine
	s.state = Initialized
	return nil
}

// Start begins (or resumes) ticking. Time since the engine was last online
// is credited once through the offline calculator. Every call starts a new
// tick generation, so ticks from an earlier chain are dropped.
func (s *Session) Start() (Tick, offline.Result, error) {
	switch s.state {
	case Initialized, Paused:
	case Running:
		s.gen++
		return s.tick(), offline.Result{Skipped: true}, nil
	default:
		return Tick{}, offline.Result{}, fmt.Errorf("%w: start while %s", ErrState, s.state)
	}

	now := s.opts.Clock.Now()
	res := s.reconcile(now)

	s.gen++
	s.lastTick = now
	s.state = Running
	return s.tick(), res, nil
}

// reconcile credits the wall-clock gap since the engine was last online.
func (s *Session) reconcile(now time.Time) offline.Result {
	elapsed := now.Sub(s.engine.LastOnline()).Seconds()
	cfg := offline.Resolve(s.opts.Tuning.OfflineLimits(), s.engine.Bonuses())
	res := offline.Compute(s.engine, elapsed, cfg)

	if res.Apply(s.engine, now) {
		s.opts.Logger.Info("Offline progress applied",
			"slot", s.opts.Slot,
			"away", offline.FormatDuration(res.Elapsed),
			"credited", offline.FormatDuration(res.EffectiveSeconds),
			"capped", res.WasCapped,
		)
		s.save(now)
	}
	s.lastOffline = res
	return res
}

// HandleTick advances the engine by the wall time since the previous step.
// Ticks from a stale generation, or while not running, are dropped and
// ok is false; the host must not reschedule them.
func (s *Session) HandleTick(gen uint64) (next Tick, ok bool) {
	if s.state != Running || gen != s.gen {
		return Tick{}, false
	}

	now := s.opts.Clock.Now()
	s.advance(now)

	if s.autosave.AllowN(now, 1) {
		s.save(now)
	}
	return s.tick(), true
}

// advance accounts foreground time up to now. A gap longer than the
// offline threshold (the host was suspended) goes through the offline
// calculator instead of a full-rate tick.
func (s *Session) advance(now time.Time) {
	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	if dt <= 0 {
		return
	}
	if dt >= s.opts.Tuning.Offline.MinSeconds && s.opts.Tuning.Offline.MinSeconds > 0 {
		s.reconcile(now)
		return
	}
	s.engine.Tick(dt)
	s.engine.Touch(now)
}

// Pause stops ticking, accounts the time since the last tick and syncs.
func (s *Session) Pause() error {
	if s.state != Running {
		return fmt.Errorf("%w: pause while %s", ErrState, s.state)
	}
	now := s.opts.Clock.Now()
	s.advance(now)
	s.gen++
	s.state = Paused
	return s.save(now)
}

// Prestige performs a reset and, on success, records it and syncs.
func (s *Session) Prestige() (economy.PrestigeResult, error) {
	if s.engine == nil {
		return economy.PrestigeResult{}, fmt.Errorf("%w: prestige while %s", ErrState, s.state)
	}

	var lifetime float64
	if id := s.opts.Catalog.PrestigeResource; id != "" {
		r, _ := s.engine.Resource(id)
		lifetime = r.LifetimeEarned
	} else {
		lifetime = s.engine.Resources()[0].LifetimeEarned
	}

	res := s.engine.PerformPrestige()
	if !res.OK {
		return res, nil
	}

	s.opts.Logger.Info("Prestige", "slot", s.opts.Slot, "gained", res.Gained, "points", res.Points)
	if s.opts.History != nil {
		err := s.opts.History.RecordPrestige(PrestigeRecord{
			Slot:           s.opts.Slot,
			Catalog:        s.opts.Catalog.Name,
			Gained:         res.Gained,
			Points:         res.Points,
			LifetimeEarned: lifetime,
		})
		if err != nil {
			s.opts.Logger.Warn("Cannot record prestige", "slot", s.opts.Slot, "err", err)
		}
	}
	return res, s.save(s.opts.Clock.Now())
}

// Sync writes the current state to the store.
func (s *Session) Sync() error {
	if s.engine == nil {
		return fmt.Errorf("%w: sync while %s", ErrState, s.state)
	}
	return s.save(s.opts.Clock.Now())
}

// Close accounts any running time and performs the final sync.
// The session stays paused and may be started again.
func (s *Session) Close() error {
	switch s.state {
	case Uninitialized:
		return nil
	case Running:
		return s.Pause()
	default:
		return s.save(s.opts.Clock.Now())
	}
}

func (s *Session) save(now time.Time) error {
	// Consume the autosave token so an explicit save also resets the throttle.
	s.autosave.AllowN(now, 1)

	if s.opts.Store == nil {
		return nil
	}
	if err := s.opts.Store.SaveSnapshot(s.opts.Slot, s.engine.Snapshot()); err != nil {
		s.opts.Logger.Error("Save failed", "slot", s.opts.Slot, "err", err)
		return err
	}
	return nil
}

func (s *Session) tick() Tick {
	return Tick{Gen: s.gen, Interval: s.opts.Tuning.TickInterval()}
}

// Engine returns the engine for reads and player actions.
func (s *Session) Engine() *economy.Engine {
	return s.engine
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Gen returns the live tick generation.
func (s *Session) Gen() uint64 {
	return s.gen
}

// Slot returns the save slot name.
func (s *Session) Slot() string {
	return s.opts.Slot
}

// LastOffline returns the most recent offline reconciliation.
func (s *Session) LastOffline() offline.Result {
	return s.lastOffline
}
