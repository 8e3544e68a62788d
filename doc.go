/*
Package delve is the runtime core for turn-based roguelikes: an
Entity-Component-System storage engine, a deterministic turn scheduler, and
the pathfinding/combat services that gameplay systems are built from.

Delve keeps component data in dense per-kind stores for fast iteration and
tracks which kinds an entity holds with a capability mask, so systems can
query entity sets without touching data they don't need.

Core Concepts:

  - Entity: an opaque identifier (slot index + generation) with no data.
  - Component: a plain record stored in a ComponentStore, keyed by entity.
  - Capability: possession of a component kind; queries match capability sets.
  - Turn: one scheduler pass: collect an action per actor, resolve in a
    fixed order, commit the results.

Basic Usage:

	grid := delve.NewGrid(32, 32)
	world := delve.Factory.NewWorld(grid)

	player, _ := world.SpawnPlayer(delve.Coord{X: 4, Y: 4})
	world.SpawnMonster(delve.Coord{X: 20, Y: 12}, delve.BehaviorAggressive)
	_ = player

	sched := delve.Factory.NewScheduler(world, nil)
	result, _ := sched.RunTurn(context.Background())
	for _, eff := range result.Effects {
		// feed the presentation layer
		_ = eff
	}

The world is mutated only while a turn is resolving; structural changes
requested during iteration (component removal, entity destruction) are queued
and applied when the world unlocks, so a scan never observes a half-updated
store.

Rendering, persistence, networking, and map generation live outside the core:
maps arrive through the MapProvider contract and turn outcomes leave through
TurnResult events.
*/
package delve
