package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/Kode-Bolds/Froggies-sub002/model"
)

// Engine runs compiled rules against a snapshot for one owner.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category.
type Engine struct {
	mu     sync.RWMutex
	rules  []*Rule
	policy Policy
	costs  map[model.UnitKind]map[model.ResourceType]int

	Memory map[string]any
	memMu  sync.Mutex // guards all reads/writes to Memory

	lastDiagTick uint64
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{
		rules:  compiled,
		policy: DefaultPolicy(),
		Memory: make(map[string]any),
	}, nil
}

// Evaluate runs all rules against the snapshot on behalf of owner.
func (e *Engine) Evaluate(snap model.Snapshot, owner int, cmd Commander) error {
	e.mu.RLock()
	rules := e.rules
	policy := e.policy
	costs := e.costs
	e.mu.RUnlock()

	e.memMu.Lock()
	defer e.memMu.Unlock()

	env := RuleEnv{State: snap, Owner: owner, Memory: e.Memory, Policy: policy, Costs: costs}
	updateSquads(env)
	fired := make(map[string]bool) // category → exclusive rule already fired

	anyFired := false
	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		anyFired = true
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "owner", owner)

		if err := r.Action(env, cmd); err != nil {
			slog.Error("rule action error", "rule", r.Name, "error", err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}

	if !anyFired {
		e.logIdleDiagnostics(env)
	}
	return nil
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active. Squads are cleared because the new
// rules may define different squad names and sizes.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()

	e.memMu.Lock()
	delete(e.Memory, "squads")
	e.memMu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", names)
	return nil
}

// SetPolicy stores the policy actions read their parameters from.
func (e *Engine) SetPolicy(p Policy) {
	p.Validate()
	e.mu.Lock()
	e.policy = p
	e.mu.Unlock()
}

// SetCosts stores per-kind spawn costs for CanAfford and spawn actions.
func (e *Engine) SetCosts(costs map[model.UnitKind]map[model.ResourceType]int) {
	e.mu.Lock()
	e.costs = costs
	e.mu.Unlock()
}

// Rules returns the compiled rule names in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Name
	}
	return out
}

// logIdleDiagnostics helps debug "why are my units standing around?" when
// zero rules fire. Throttled to avoid log spam.
func (e *Engine) logIdleDiagnostics(env RuleEnv) {
	if env.State.Tick-e.lastDiagTick < 100 {
		return
	}
	e.lastDiagTick = env.State.Tick

	slog.Debug("idle diagnostics",
		"owner", env.Owner,
		"units", len(env.Own()),
		"idleHarvesters", len(env.IdleHarvesters()),
		"loadedHarvesters", len(env.LoadedIdleHarvesters()),
		"idleCombat", len(env.UnassignedIdleCombat()),
		"enemies", env.EnemyCount(),
		"pool", env.State.Pool,
	)
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if r.Action == nil {
			return nil, fmt.Errorf("rule %q has no action", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
