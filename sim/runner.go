package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Hook observes the world after every tick. Hooks run on the runner
// goroutine, outside the world lock, so they may call boundary operations.
type Hook interface {
	AfterTick(ctx context.Context, rep TickReport, snap model.Snapshot)
}

type HookFunc func(ctx context.Context, rep TickReport, snap model.Snapshot)

func (f HookFunc) AfterTick(ctx context.Context, rep TickReport, snap model.Snapshot) {
	f(ctx, rep, snap)
}

// Runner steps a World at a fixed rate.
type Runner struct {
	world    *World
	interval time.Duration
	hooks    []Hook
}

func NewRunner(w *World, tickRateHz int, hooks ...Hook) *Runner {
	if tickRateHz <= 0 {
		tickRateHz = 10
	}
	return &Runner{world: w, interval: time.Second / time.Duration(tickRateHz), hooks: hooks}
}

// AddHook registers h for every following tick. Not safe to call while Run
// is active.
func (r *Runner) AddHook(h Hook) { r.hooks = append(r.hooks, h) }

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	slog.Info("simulation running", "interval", r.interval, "units", len(r.world.UnitIDs()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.StepOnce(ctx)
		}
	}
}

// StepOnce advances one tick and runs the hooks. It returns the report of
// the tick.
func (r *Runner) StepOnce(ctx context.Context) TickReport {
	rep, err := r.world.Step(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("tick failed", "tick", rep.Tick, "error", err)
		}
		return rep
	}
	snap := r.world.Snapshot()
	for _, h := range r.hooks {
		h.AfterTick(ctx, rep, snap)
	}
	return rep
}
