package rules

import (
	"github.com/Kode-Bolds/Froggies-sub002/command"
	"github.com/Kode-Bolds/Froggies-sub002/model"
)

type enqueued struct {
	Unit   int
	Type   command.Type
	Target command.Target
}

type spawned struct {
	Kind  model.UnitKind
	Owner int
	Pose  model.Pose
}

// fakeCommander records every order instead of applying it.
type fakeCommander struct {
	enqueued []enqueued
	spawned  []spawned
	spent    []map[model.ResourceType]int
	spendErr error
}

func (f *fakeCommander) Enqueue(unitID int, typ command.Type, target command.Target, front bool) (uint64, error) {
	f.enqueued = append(f.enqueued, enqueued{Unit: unitID, Type: typ, Target: target})
	return uint64(len(f.enqueued)), nil
}

func (f *fakeCommander) RequestSpawn(kind model.UnitKind, owner int, pose model.Pose) error {
	f.spawned = append(f.spawned, spawned{Kind: kind, Owner: owner, Pose: pose})
	return nil
}

func (f *fakeCommander) Spend(owner int, cost map[model.ResourceType]int) error {
	if f.spendErr != nil {
		return f.spendErr
	}
	f.spent = append(f.spent, cost)
	return nil
}

func harvester(id, owner int, carried int) model.UnitView {
	v := model.UnitView{ID: id, Kind: "frog", Owner: owner, Harvester: true, Capacity: 10, CarriedAmount: carried}
	if carried > 0 {
		v.CarriedType = model.Food
	}
	return v
}

func combat(id, owner int, x float64) model.UnitView {
	return model.UnitView{ID: id, Kind: "heron", Owner: owner, Combat: true, Position: model.Vec3{X: x}}
}

func baseSnapshot(units ...model.UnitView) model.Snapshot {
	return model.Snapshot{
		Tick: 500,
		Pool: map[model.ResourceType]int64{model.Food: 40, model.BuildingMaterial: 5, model.RareResource: 0},
		Nodes: []model.NodeView{
			{ID: 1, Type: model.Food, Remaining: 100},
			{ID: 2, Type: model.BuildingMaterial, Remaining: 50},
		},
		Depots: []model.DepotView{{ID: 1, Owner: 1, Position: model.Vec3{X: 2, Z: 2}}},
		Units:  units,
	}
}
