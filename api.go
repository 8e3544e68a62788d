package delve

// MapProvider is the contract a map generator fulfils. The core never
// generates terrain; it consumes a grid and a set of legal spawn cells and
// treats both as read-only for the duration of a turn.
type MapProvider interface {
	Grid() *Grid
	SpawnPoints() []Coord
}

// ActionSource produces one Action per entity per turn. Player-input adapters
// and AI behaviors both satisfy it; the scheduler does not care how the
// decision was made. Decide may block (player input is synchronous), and must
// treat the snapshot as read-only.
type ActionSource interface {
	Decide(e Entity, snap *Snapshot) Action
}

// Occupancy reports which entity, if any, blocks a cell. The pathfinder
// routes around blockers; a turn-start snapshot implements this so parallel
// planners all see the same occupancy.
type Occupancy interface {
	BlockerAt(Coord) (Entity, bool)
}

// Policy computes the outcome of one attack from component data. Implementors
// must not mutate the world; the scheduler applies damage and folds deaths
// into the turn result. The roll comes from the injected RNG so identical
// seeds replay identically.
type Policy interface {
	Resolve(in AttackInput) Outcome
}

// Query matches entities by the component kinds they hold.
type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(capabilities EntityMask) bool
}

// Cache is a small append-only registry of named items, used for static
// catalogs (item definitions) that entities reference by index.
type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
}

// dropper is implemented by every structure holding per-entity state, so the
// registry can cascade a destroy and flush deferred removals on unlock.
type dropper interface {
	drop(Entity)
	flushPending()
}
