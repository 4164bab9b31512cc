package rules

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
)

// Automation is a sim.Hook evaluating one engine per automated owner after
// every tick. Orders land through cmd and take effect on the next tick.
type Automation struct {
	cmd     Commander
	owners  []int
	engines map[int]*Engine
}

func NewAutomation(cmd Commander, engines map[int]*Engine) *Automation {
	owners := make([]int, 0, len(engines))
	for o := range engines {
		owners = append(owners, o)
	}
	sort.Ints(owners)
	return &Automation{cmd: cmd, owners: owners, engines: engines}
}

func (a *Automation) AfterTick(ctx context.Context, _ sim.TickReport, snap model.Snapshot) {
	for _, owner := range a.owners {
		if ctx.Err() != nil {
			return
		}
		if err := a.engines[owner].Evaluate(snap, owner, a.cmd); err != nil {
			slog.Error("rule engine error", "owner", owner, "error", err)
		}
	}
}
