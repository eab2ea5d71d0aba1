// Package engine provides the real-time update loop: frame-capped
// ticking, periodic autosave, and the single entry point through which
// player intents reach the session.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/acreage/internal/persistence"
	"github.com/talgya/acreage/internal/session"
)

// Defaults for the loop cadence. MaxDt caps the measured frame
// interval so a stall (debugger, laptop sleep) doesn't land as one
// giant simulation step.
const (
	DefaultInterval = 50 * time.Millisecond
	DefaultMaxDt    = 0.25
	summaryInterval = 30.0 // Seconds between summary log lines
)

// Loop drives a session in real time. Every session access (ticks,
// intents, reads) serializes through the loop's mutex; the simulation
// itself stays single-threaded.
type Loop struct {
	Interval time.Duration
	MaxDt    float64

	mu      sync.Mutex
	sess    *session.Session
	store   *persistence.Store // nil disables persistence
	running bool

	saveTimer    float64
	summaryTimer float64
}

// NewLoop wires a session to its save store.
func NewLoop(sess *session.Session, store *persistence.Store) *Loop {
	return &Loop{
		Interval: DefaultInterval,
		MaxDt:    DefaultMaxDt,
		sess:     sess,
		store:    store,
	}
}

// Run blocks, ticking the session once per frame until Stop is called.
func (l *Loop) Run() {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()
	slog.Info("update loop started", "interval", l.Interval)

	last := time.Now()
	for {
		start := time.Now()
		dt := start.Sub(last).Seconds()
		last = start
		if dt > l.MaxDt {
			dt = l.MaxDt
		}

		l.mu.Lock()
		if !l.running {
			l.mu.Unlock()
			break
		}
		if !l.sess.Paused && !l.sess.GameOver {
			l.sess.Tick(dt)
			l.autosave(dt)
		}
		l.summarize(dt)
		l.mu.Unlock()

		elapsed := time.Since(start)
		if elapsed < l.Interval {
			time.Sleep(l.Interval - elapsed)
		}
	}
	slog.Info("update loop stopped")
}

// Stop halts the loop after the current frame.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
}

// Apply relays a player intent into the session. Reset also clears the
// save slot so a restart doesn't resurrect the old session.
func (l *Loop) Apply(in session.Intent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sess.Apply(in)
	if in.Kind == session.IntentReset && l.store != nil {
		if err := l.store.Clear(); err != nil {
			slog.Error("clearing save failed", "error", err)
		}
	}
}

// View runs fn with the session locked, for read-only queries.
func (l *Loop) View(fn func(*session.Session)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.sess)
}

// SaveNow writes a snapshot immediately (shutdown path).
func (l *Loop) SaveNow() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	return l.store.SaveSnapshot(l.sess.Snapshot())
}

// autosave persists the session at a fixed cadence of played time.
// A failed save is logged and otherwise ignored; losing a save beats
// stopping the game. Caller holds the lock.
func (l *Loop) autosave(dt float64) {
	if l.store == nil {
		return
	}
	l.saveTimer += dt
	if l.saveTimer < l.sess.Config.AutosaveInterval {
		return
	}
	l.saveTimer = 0
	if err := l.store.SaveSnapshot(l.sess.Snapshot()); err != nil {
		slog.Error("autosave failed", "error", err)
	}
}

// summarize emits a periodic status line. Caller holds the lock.
func (l *Loop) summarize(dt float64) {
	l.summaryTimer += dt
	if l.summaryTimer < summaryInterval {
		return
	}
	l.summaryTimer = 0
	slog.Info("session",
		"money", humanize.CommafWithDigits(l.sess.Money, 0),
		"time_left", int(l.sess.TimeLeft()),
		"workers", len(l.sess.Workers),
		"stored", l.sess.Field.InventoryTotal(),
		"capacity", l.sess.Field.StorageCapacity(),
		"silos", l.sess.Field.NumSilos,
		"paused", l.sess.Paused,
		"game_over", l.sess.GameOver,
	)
}
