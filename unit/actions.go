package unit

import (
	"log/slog"

	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
)

// harvest runs one tick of the gather action. It completes when the
// inventory is full or the node is empty.
func (u *Unit) harvest(env Env, c *command.Command) {
	hs := u.stats.Harvester
	n, ok := env.ResourceNode(c.Target.ID)
	if !ok || n.Depleted() {
		u.completeHarvest(env, c)
		return
	}
	if u.inventory.Full() || (!u.inventory.Empty() && u.inventory.Type != n.Type()) {
		u.completeHarvest(env, c)
		return
	}

	u.cooldown--
	if u.cooldown > 0 {
		return
	}
	u.cooldown = hs.CooldownTicks

	got := n.Take(min(hs.HarvestAmount, u.inventory.Space()))
	u.inventory.add(n.Type(), got)
	u.lastNode = n.ID()
	if u.inventory.Full() || n.Depleted() {
		u.completeHarvest(env, c)
	}
}

func (u *Unit) completeHarvest(env Env, c *command.Command) {
	c.SetStatus(command.Complete)
	if u.stats.Harvester.AutoReturn && !u.inventory.Empty() && u.followUp == nil {
		u.followUp = command.New(env.NextCommandID(), command.Deposit, command.Target{Kind: command.TargetAnyDepot})
	}
}

// deposit empties the inventory into an aggregation event and sets up the
// return trip. Depositing nothing has no side effects.
func (u *Unit) deposit(env Env) {
	if u.inventory.Empty() {
		return
	}
	typ, amount := u.inventory.take()
	env.EmitDeposit(resource.Deposit{Unit: u.id, Owner: u.owner, Type: typ, Amount: amount})

	target := command.Target{Kind: command.TargetAnyResource, Resource: typ}
	if n, ok := env.ResourceNode(u.lastNode); ok && !n.Depleted() {
		target = command.Target{Kind: command.TargetResourceNode, ID: n.ID(), Resource: n.Type(), Position: n.Position()}
	}
	u.followUp = command.New(env.NextCommandID(), command.Harvest, target)
}

// attack runs one tick against the target, chasing it again if it has left
// range.
func (u *Unit) attack(env Env, c *command.Command) {
	as := u.stats.Attack
	t, ok := env.Unit(c.Target.ID)
	if !ok || !t.Alive() {
		c.SetStatus(command.Complete)
		return
	}
	c.Target.Position = t.Position
	if u.pose.Position.DistXZ(t.Position) > as.Range {
		slog.Debug("attack target out of range", "unit", u.id, "target", t.ID)
		c.SetStatus(command.MovingPhase)
		return
	}
	u.cooldown--
	if u.cooldown > 0 {
		return
	}
	u.cooldown = as.CooldownTicks
	env.EmitDamage(Damage{Source: u.id, Target: t.ID, Amount: as.Damage})
}

// LastNode is the node the unit last harvested from, or -1.
func (u *Unit) LastNode() int { return u.lastNode }
