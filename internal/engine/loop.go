package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"door-command-control/internal/metrics"
	"door-command-control/internal/storage"
)

// DefaultOverrideGrace is how far past trigger_at an unfired override may
// linger before the cleanup pass removes it.
const DefaultOverrideGrace = time.Minute

// LoopStatus is the loop's owned state, exposed instead of an ambient
// process-wide flag.
type LoopStatus struct {
	Running  bool          `json:"running"`
	Cadence  time.Duration `json:"cadence"`
	LastTick time.Time     `json:"last_tick"`
}

// Loop is the periodic reconciliation task. Each tick runs three independent
// passes: fire due schedule transitions, fire due overrides, clean up stale
// overrides. A failure in one pass never aborts the others, and a tick is
// skipped outright if the previous one is still executing.
type Loop struct {
	store     storage.Provider
	schedules *Schedules
	commands  *Commands
	logger    *slog.Logger
	now       func() time.Time

	commandTTL    time.Duration
	overrideGrace time.Duration

	tickMu sync.Mutex // held for the duration of one tick

	mu       sync.Mutex // guards the fields below
	running  bool
	cadence  time.Duration
	lastTick time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewLoop(store storage.Provider, schedules *Schedules, commands *Commands, commandTTL, overrideGrace time.Duration) *Loop {
	if commandTTL <= 0 {
		commandTTL = DefaultCommandTTL
	}
	if overrideGrace <= 0 {
		overrideGrace = DefaultOverrideGrace
	}
	return &Loop{
		store:         store,
		schedules:     schedules,
		commands:      commands,
		logger:        slog.With("component", "reconciliation"),
		now:           time.Now,
		commandTTL:    commandTTL,
		overrideGrace: overrideGrace,
	}
}

// Start launches the periodic task. Calling Start on a running loop is a
// no-op, matching the idempotent start of the original scheduler.
func (l *Loop) Start(ctx context.Context, cadence time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		l.logger.Info("Reconciliation loop is already running")
		return
	}
	if cadence <= 0 {
		cadence = time.Minute
	}

	loopCtx, cancel := context.WithCancel(ctx)
	l.running = true
	l.cadence = cadence
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(loopCtx, cadence, l.done)
	l.logger.Info("Reconciliation loop started", "cadence", cadence)
}

// Stop halts the periodic task and waits for an in-flight tick to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		l.logger.Info("Reconciliation loop is not running")
		return
	}
	l.running = false
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	cancel()
	<-done
	l.logger.Info("Reconciliation loop stopped")
}

func (l *Loop) Status() LoopStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LoopStatus{
		Running:  l.running,
		Cadence:  l.cadence,
		LastTick: l.lastTick,
	}
}

func (l *Loop) run(ctx context.Context, cadence time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick runs one reconciliation pass set. Exported so the scheduler control
// surface and tests can trigger a tick without waiting out the cadence. If a
// previous tick is still executing the call returns immediately.
func (l *Loop) Tick(ctx context.Context) {
	if !l.tickMu.TryLock() {
		metrics.ReconciliationTicksSkippedTotal.Inc()
		l.logger.Warn("Skipping tick, previous tick still running")
		return
	}
	defer l.tickMu.Unlock()

	now := l.now()
	started := time.Now()

	l.mu.Lock()
	l.lastTick = now
	l.mu.Unlock()

	l.logger.Debug("Reconciliation tick", "now", now)

	if err := l.fireSchedules(ctx, now); err != nil {
		l.logger.Error("Schedule firing pass failed", "error", err)
	}
	if err := l.fireOverrides(ctx, now); err != nil {
		l.logger.Error("Override firing pass failed", "error", err)
	}
	if err := l.cleanupOverrides(ctx, now); err != nil {
		l.logger.Error("Override cleanup pass failed", "error", err)
	}

	metrics.ReconciliationTicksTotal.Inc()
	metrics.ReconciliationTickDuration.Observe(time.Since(started).Seconds())
}

// fireSchedules enqueues unlock/lock commands for schedules whose open or
// close time equals the current minute.
func (l *Loop) fireSchedules(ctx context.Context, now time.Time) error {
	transitions, err := l.schedules.transitionsAt(ctx, now)
	if err != nil {
		return err
	}

	expiresAt := now.Add(l.commandTTL)
	for _, transition := range transitions {
		if _, err := l.commands.Enqueue(ctx, transition.DeviceID, transition.Command, expiresAt, nil); err != nil {
			l.logger.Error("Failed to enqueue schedule transition", "device_id", transition.DeviceID, "action", transition.Command, "error", err)
			continue
		}
		metrics.ScheduleFiringsTotal.Inc()
		l.logger.Info("Schedule transition fired", "device_id", transition.DeviceID, "action", transition.Command)
	}
	return nil
}

// fireOverrides converts every due override into a command with a fresh
// validity window counted from the firing moment, then deletes the override
// so it fires exactly once.
func (l *Loop) fireOverrides(ctx context.Context, now time.Time) error {
	due, err := l.store.ListDueOverrides(ctx, now)
	if err != nil {
		return err
	}

	for _, override := range due {
		userID := override.UserID
		if _, err := l.commands.Enqueue(ctx, override.DeviceID, override.Action, now.Add(l.commandTTL), &userID); err != nil {
			l.logger.Error("Failed to enqueue override command", "override_id", override.ID, "error", err)
			continue
		}
		if _, err := l.store.DeleteOverride(ctx, override.ID); err != nil {
			// The override will be retried next tick; the duplicate
			// command expires on its own.
			l.logger.Error("Failed to delete fired override", "override_id", override.ID, "error", err)
			continue
		}
		metrics.OverrideFiringsTotal.Inc()
		l.logger.Info("Override fired", "override_id", override.ID, "device_id", override.DeviceID, "action", override.Action)
	}
	return nil
}

// cleanupOverrides removes overrides that sat past their trigger time for
// longer than the grace period without being fired. Ordinary overrides never
// reach this state; this is defensive cleanup against data anomalies.
func (l *Loop) cleanupOverrides(ctx context.Context, now time.Time) error {
	count, err := l.store.DeleteOverridesTriggeredBefore(ctx, now.Add(-l.overrideGrace))
	if err != nil {
		return err
	}
	if count > 0 {
		metrics.OverridesCleanedTotal.Add(float64(count))
		l.logger.Info("Cleaned up stale overrides", "count", count)
	}
	return nil
}
