package delve

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// World is the one aggregate of mutable game state: the registry, the
// built-in component stores, the spatial index, and the grid reference.
// There are no package-level singletons; everything the scheduler and the
// systems touch hangs off a World passed in explicitly.
type World struct {
	Registry *Registry

	Positions   *ComponentStore[Position]
	Healths     *ComponentStore[Health]
	Combat      *ComponentStore[CombatStats]
	AIs         *ComponentStore[AI]
	Players     *ComponentStore[PlayerTag]
	Inventories *ComponentStore[Inventory]

	Spatial *SpatialIndex
	Grid    *Grid
	Items   Cache[Item]

	spawns []Coord
	seed   uint64
	log    *zap.Logger
}

type WorldOption func(*World)

func WithLogger(log *zap.Logger) WorldOption {
	return func(w *World) { w.log = log }
}

// WithSeed fixes the seed all per-entity decision RNGs derive from. Two
// worlds built with the same seed, state, and actions replay identically.
func WithSeed(seed int64) WorldOption {
	return func(w *World) { w.seed = uint64(seed) }
}

func newWorld(grid *Grid, opts ...WorldOption) *World {
	w := &World{
		Grid:  grid,
		Items: FactoryNewCache[Item](256),
		seed:  1,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Registry = newRegistry(w.log)
	w.Positions = FactoryNewStore[Position](w.Registry, "Position")
	w.Healths = FactoryNewStore[Health](w.Registry, "Health")
	w.Combat = FactoryNewStore[CombatStats](w.Registry, "CombatStats")
	w.AIs = FactoryNewStore[AI](w.Registry, "AI")
	w.Players = FactoryNewStore[PlayerTag](w.Registry, "PlayerTag")
	w.Inventories = FactoryNewStore[Inventory](w.Registry, "Inventory")
	w.Spatial = newSpatialIndex(w.Registry)
	return w
}

// NextSpawn returns the first provider-supplied spawn point that is in
// bounds, walkable, and currently unblocked.
func (w *World) NextSpawn() (Coord, bool) {
	for _, c := range w.spawns {
		if !w.Grid.InBounds(c) || !w.Grid.At(c).Passable {
			continue
		}
		if _, blocked := w.Spatial.BlockerAt(c); blocked {
			continue
		}
		return c, true
	}
	return Coord{}, false
}

// Spawn creates an entity standing on a cell. Callers attach further
// components through the stores; the helpers below cover the common kits.
func (w *World) Spawn(at Coord, blocking bool) (Entity, error) {
	if !w.Grid.InBounds(at) || !w.Grid.At(at).Passable {
		return 0, fmt.Errorf("spawn at %v: cell not passable", at)
	}
	e := w.Registry.Create()
	if err := w.Spatial.Place(e, at, blocking); err != nil {
		// roll the allocation back so a failed spawn leaves no orphan
		_ = w.Registry.Destroy(e)
		return 0, fmt.Errorf("spawn at %v: %w", at, err)
	}
	if err := w.Positions.Insert(e, Position{X: at.X, Y: at.Y}); err != nil {
		return 0, err
	}
	return e, nil
}

// SpawnPlayer creates the player-controlled actor with a standard kit.
func (w *World) SpawnPlayer(at Coord) (Entity, error) {
	e, err := w.Spawn(at, true)
	if err != nil {
		return 0, err
	}
	w.Players.Insert(e, PlayerTag{})
	w.Healths.Insert(e, Health{Current: 30, Max: 30})
	w.Combat.Insert(e, CombatStats{Attack: 5, Defense: 2, Power: 5})
	w.Inventories.Insert(e, Inventory{})
	w.log.Debug("player spawned", zap.Stringer("entity", e), zap.Stringer("at", at))
	return e, nil
}

// SpawnMonster creates a machine-controlled actor with a standard kit.
func (w *World) SpawnMonster(at Coord, behavior BehaviorKind) (Entity, error) {
	e, err := w.Spawn(at, true)
	if err != nil {
		return 0, err
	}
	w.AIs.Insert(e, AI{Behavior: behavior})
	w.Healths.Insert(e, Health{Current: 10, Max: 10})
	w.Combat.Insert(e, CombatStats{Attack: 3, Defense: 1, Power: 3})
	w.log.Debug("monster spawned",
		zap.Stringer("entity", e),
		zap.Stringer("at", at),
		zap.Stringer("behavior", behavior))
	return e, nil
}

// RegisterItem adds a definition to the item catalog and returns the id
// inventories reference it by.
func (w *World) RegisterItem(item Item) (ItemID, error) {
	idx, err := w.Items.Register(item.Name, item)
	if err != nil {
		return 0, fmt.Errorf("register item %q: %w", item.Name, err)
	}
	return ItemID(idx), nil
}

// PlayerEntity returns the first live player-tagged entity.
func (w *World) PlayerEntity() (Entity, bool) {
	for i := 0; i < len(w.Players.entities); i++ {
		return w.Players.entities[i], true
	}
	return 0, false
}

// PlayerAlive reports whether a player exists with health remaining. The
// caller decides what game-over means; the core just keeps answering.
func (w *World) PlayerAlive() bool {
	e, ok := w.PlayerEntity()
	if !ok {
		return false
	}
	hp, ok := w.Healths.Get(e)
	return ok && !hp.Depleted()
}

// Digest hashes the observable world state (liveness, positions, health,
// combat stats) in slot order. Replay tests compare digests between runs.
func (w *World) Digest() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for slot := 0; slot < w.Registry.slotCount(); slot++ {
		e, ok := w.Registry.entityAt(slot)
		if !ok {
			continue
		}
		writeInt(uint64(e))
		if pos, ok := w.Positions.Get(e); ok {
			writeInt(uint64(int64(pos.X)))
			writeInt(uint64(int64(pos.Y)))
		}
		if hp, ok := w.Healths.Get(e); ok {
			writeInt(uint64(int64(hp.Current)))
			writeInt(uint64(int64(hp.Max)))
		}
		if cs, ok := w.Combat.Get(e); ok {
			writeInt(uint64(int64(cs.Attack)))
			writeInt(uint64(int64(cs.Defense)))
			writeInt(uint64(int64(cs.Power)))
		}
	}
	return h.Sum64()
}

func (w *World) snapshot(turn int, pf *Pathfinder) *Snapshot {
	return &Snapshot{
		world:      w,
		turn:       turn,
		seed:       w.seed,
		blockers:   w.Spatial.BlockerSnapshot(),
		pathfinder: pf,
	}
}

// Snapshot is the decision phase's view of the world: the live component
// stores (read-only by contract: decisions run in parallel and no writer
// exists during the phase) plus a copy of turn-start blocking occupancy, so
// every planner routes against the same board no matter how goroutines
// interleave.
type Snapshot struct {
	world      *World
	turn       int
	seed       uint64
	blockers   map[Coord]Entity
	pathfinder *Pathfinder
}

func (s *Snapshot) World() *World { return s.world }

func (s *Snapshot) Turn() int { return s.turn }

// BlockerAt implements Occupancy against the turn-start copy.
func (s *Snapshot) BlockerAt(c Coord) (Entity, bool) {
	e, ok := s.blockers[c]
	return e, ok
}

// Passable reports whether a cell can be stepped into this turn: on the
// grid, walkable, and free of blocking occupants at turn start.
func (s *Snapshot) Passable(c Coord) bool {
	if !s.world.Grid.InBounds(c) || !s.world.Grid.At(c).Passable {
		return false
	}
	_, blocked := s.blockers[c]
	return !blocked
}

// FindPath plans against the snapshot occupancy. See Pathfinder.FindPath.
func (s *Snapshot) FindPath(from, to Coord) ([]Coord, error) {
	return s.pathfinder.FindPath(s.world.Grid, s, from, to)
}

// NearestPlayer returns the closest player-tagged entity by grid distance,
// lowest entity id on ties. Reads the stores without locking, safe because
// nothing writes during the decision phase.
func (s *Snapshot) NearestPlayer(from Coord) (Entity, Coord, bool) {
	players := s.world.Players
	var (
		best     Entity
		bestAt   Coord
		bestDist int
		found    bool
	)
	for i := 0; i < len(players.entities); i++ {
		e := players.entities[i]
		pos, ok := s.world.Positions.Get(e)
		if !ok {
			continue
		}
		d := Manhattan(from, pos.Coord())
		if !found || d < bestDist || (d == bestDist && e < best) {
			best, bestAt, bestDist, found = e, pos.Coord(), d, true
		}
	}
	return best, bestAt, found
}

// RNG returns a deterministic generator for one entity's decision this turn.
// The seed derives from (world seed, turn, entity) so outcomes are identical
// regardless of which worker runs the decision, or when.
func (s *Snapshot) RNG(e Entity) *rand.Rand {
	return s.rngFor(e, 0)
}

// Roll draws the attack roll for an entity, on a stream independent of the
// one its decision consumed.
func (s *Snapshot) Roll(e Entity) float64 {
	return s.rngFor(e, 0x9e3779b97f4a7c15).Float64()
}

func (s *Snapshot) rngFor(e Entity, salt uint64) *rand.Rand {
	h := xxhash.New()
	var buf [8]byte
	for _, v := range [4]uint64{s.seed, uint64(s.turn), uint64(e), salt} {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
