package delve

import "fmt"

// Built-in component records. Components are plain data: no behavior beyond
// trivial accessors, no references to other components; relations are
// expressed through entity handles only.

// Position is an entity's cell on the grid. The spatial index mirrors it;
// the scheduler keeps the two in sync during resolution.
type Position struct {
	X, Y int
}

func (p Position) Coord() Coord {
	return Coord{X: p.X, Y: p.Y}
}

// Health tracks hit points. An entity whose Current reaches zero is
// destroyed during the commit phase of the turn that killed it.
type Health struct {
	Current, Max int
}

func (h Health) Depleted() bool {
	return h.Current <= 0
}

// CombatStats are the attack-resolution inputs: Attack sways hit chance,
// Defense reduces both hit chance and damage taken, Power scales damage
// dealt.
type CombatStats struct {
	Attack  int
	Defense int
	Power   int
}

// BehaviorKind selects an AI decision function. The set is closed: a new
// behavior extends this enum and the scheduler's dispatch table, not a type
// hierarchy.
type BehaviorKind uint8

const (
	BehaviorIdle BehaviorKind = iota
	BehaviorAggressive
	BehaviorFleeing
	BehaviorPatrol
)

var behaviorNames = [4]string{"idle", "aggressive", "fleeing", "patrol"}

func (b BehaviorKind) String() string {
	if int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return fmt.Sprintf("behavior(%d)", uint8(b))
}

// AI marks an entity as machine-controlled. Route and Waypoint belong to
// BehaviorPatrol; Waypoint is only written by the entity's own decision, so
// parallel planning stays race-free.
type AI struct {
	Behavior BehaviorKind
	Route    []Coord
	Waypoint int
}

// PlayerTag marks the player-controlled entity. Tag only, no data.
type PlayerTag struct{}

// ItemID indexes the world's item catalog.
type ItemID uint32

// Item is a catalog definition, not per-entity state: inventories reference
// items by id.
type Item struct {
	Name string
	Heal int
}

// Inventory lists the consumables an entity carries.
type Inventory struct {
	Items []ItemID
}
