package journal

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
)

// Entry is one journal line: what a tick applied plus the pool after it.
type Entry struct {
	sim.TickReport
	Pool map[model.ResourceType]int64 `json:"pool"`
}

// TickLogger is a sim.Hook writing one entry per non-empty tick.
type TickLogger struct {
	w      *Writer
	errors int
}

func NewTickLogger(dir string) *TickLogger {
	return &TickLogger{w: NewWriter(filepath.Join(dir, "ticks"), "ticks")}
}

func (l *TickLogger) AfterTick(_ context.Context, rep sim.TickReport, snap model.Snapshot) {
	if rep.Empty() {
		return
	}
	if err := l.w.Write(Entry{TickReport: rep, Pool: snap.Pool}); err != nil {
		l.errors++
		// Log the first failure and then every hundredth.
		if l.errors%100 == 1 {
			slog.Error("journal write failed", "tick", rep.Tick, "failures", l.errors, "error", err)
		}
	}
}

func (l *TickLogger) Flush() error { return l.w.Flush() }
func (l *TickLogger) Close() error { return l.w.Close() }
