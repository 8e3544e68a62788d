package delve_test

import (
	"context"
	"fmt"

	"github.com/hearthfall/delve"
)

// Example_basic shows world setup and a capability query.
func Example_basic() {
	grid := delve.NewGrid(8, 8)
	world := delve.Factory.NewWorld(grid)

	world.SpawnPlayer(delve.Coord{X: 1, Y: 1})
	world.SpawnMonster(delve.Coord{X: 5, Y: 5}, delve.BehaviorAggressive)
	world.SpawnMonster(delve.Coord{X: 6, Y: 2}, delve.BehaviorIdle)

	// Count every entity that can fight: position plus health.
	query := delve.Factory.NewQuery()
	node := query.And(world.Positions.Kind(), world.Healths.Kind())
	cursor := delve.Factory.NewCursor(node, world)

	count := 0
	for cursor.Next() {
		count++
	}
	fmt.Println("combatants:", count)
	// Output: combatants: 3
}

func ExamplePathfinder_FindPath() {
	grid := delve.NewGrid(5, 5)
	pf := delve.Factory.NewPathfinder()

	path, _ := pf.FindPath(grid, nil, delve.Coord{X: 0, Y: 0}, delve.Coord{X: 2, Y: 0})
	for _, c := range path {
		fmt.Println(c)
	}
	// Output:
	// (1,0)
	// (2,0)
}

func ExampleScheduler_RunTurn() {
	world := delve.Factory.NewWorld(delve.NewGrid(8, 8))
	world.SpawnPlayer(delve.Coord{X: 1, Y: 1})

	east := func(delve.Entity, *delve.Snapshot) delve.Action {
		return delve.Move(delve.East)
	}
	sched := delve.Factory.NewScheduler(world, nil,
		delve.WithPlayerSource(sourceFn(east)))

	result, _ := sched.RunTurn(context.Background())
	for _, eff := range result.Effects {
		fmt.Printf("%v %v -> %v\n", eff.Kind, eff.From, eff.To)
	}
	// Output:
	// moved (1,1) -> (2,1)
}

type sourceFn func(delve.Entity, *delve.Snapshot) delve.Action

func (f sourceFn) Decide(e delve.Entity, snap *delve.Snapshot) delve.Action {
	return f(e, snap)
}
