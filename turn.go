package delve

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase is where the scheduler is inside one turn. Transitions only ever run
// Collecting -> Resolving -> Committed and back to Collecting for the next
// turn; there is no way to re-enter resolution mid-turn.
type Phase uint8

const (
	PhaseCollecting Phase = iota
	PhaseResolving
	PhaseCommitted
)

var phaseNames = [3]string{"collecting", "resolving", "committed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "phase(?)"
}

// Scheduler drives the turn loop: collect one action per actor, resolve them
// in a fixed deterministic order, commit the results. Decisions run in
// parallel against a turn-start snapshot; everything that mutates the world
// happens single-threaded during resolution.
type Scheduler struct {
	world      *World
	pathfinder *Pathfinder
	resolver   *Resolver
	policy     Policy
	player     ActionSource
	behaviors  map[BehaviorKind]DecideFunc
	actorQuery QueryNode
	workers    int
	turn       int
	phase      Phase
	log        *zap.Logger
}

type SchedulerOption func(*Scheduler)

// WithPlayerSource supplies the decision source for player-tagged entities.
// Without one, players wait every turn.
func WithPlayerSource(src ActionSource) SchedulerOption {
	return func(s *Scheduler) { s.player = src }
}

// WithPolicy swaps the combat policy. The default is BasicPolicy built from
// the config's balance section.
func WithPolicy(p Policy) SchedulerOption {
	return func(s *Scheduler) { s.policy = p }
}

// WithBehavior overrides or extends the AI dispatch table for one behavior
// kind.
func WithBehavior(kind BehaviorKind, fn DecideFunc) SchedulerOption {
	return func(s *Scheduler) { s.behaviors[kind] = fn }
}

// WithWorkers caps parallel AI planners. Zero means one goroutine per actor.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) { s.workers = n }
}

func newScheduler(w *World, cfg *Config, opts ...SchedulerOption) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	q := newQuery()
	s := &Scheduler{
		world:      w,
		pathfinder: newPathfinder(),
		policy:     NewBasicPolicy(cfg.Balance),
		behaviors:  defaultBehaviors(cfg.AI),
		actorQuery: q.Or(w.AIs.Kind(), w.Players.Kind()),
		workers:    cfg.Scheduler.DecisionWorkers,
		log:        w.log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = newResolver(w, s.policy, s.log)
	return s
}

func (s *Scheduler) Turn() int { return s.turn }

func (s *Scheduler) Phase() Phase { return s.phase }

// RunTurn executes one full turn and returns its effect log. The sequence:
//
//  1. Collecting: snapshot occupancy, scan actors in entity-id order, gather
//     one action each. Player sources run synchronously; AI planners run on
//     an errgroup, each writing to its own pre-assigned slot.
//  2. Resolving: under the world lock, apply all moves, then all attacks,
//     then all item uses, each batch in entity-id order.
//  3. Committed: deaths flush through the registry's operation queue, the
//     turn counter advances, the result is emitted.
//
// The context only gates the decision phase; once resolution starts the turn
// always commits.
func (s *Scheduler) RunTurn(ctx context.Context) (*TurnResult, error) {
	s.phase = PhaseCollecting
	snap := s.world.snapshot(s.turn, s.pathfinder)

	var actors []Entity
	cursor := newCursor(s.actorQuery, s.world.Registry)
	for cursor.Next() {
		actors = append(actors, cursor.Entity())
	}

	decisions := make([]Action, len(actors))
	g, gctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}
	for i, e := range actors {
		if s.world.Players.Has(e) {
			if s.player != nil {
				decisions[i] = s.player.Decide(e, snap)
			} else {
				decisions[i] = Wait()
			}
			continue
		}
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decisions[i] = s.decideAI(e, snap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.phase = PhaseResolving
	s.world.Registry.Lock()

	result := &TurnResult{Turn: s.turn}
	var deaths []Entity

	for i, e := range actors {
		if decisions[i].Kind == ActionMove {
			s.applyMove(e, decisions[i].Dir, result)
		}
	}
	for i, e := range actors {
		if decisions[i].Kind == ActionAttack {
			deaths = s.applyAttack(e, decisions[i].Target, snap, result, deaths)
		}
	}
	for i, e := range actors {
		if decisions[i].Kind == ActionUseItem {
			s.applyItemUse(e, decisions[i].Item, result)
		}
	}

	s.phase = PhaseCommitted
	for _, d := range deaths {
		if err := s.world.Registry.EnqueueDestroy(d); err != nil {
			s.log.Warn("death flush", zap.Stringer("entity", d), zap.Error(err))
		}
	}
	s.world.Registry.Unlock()

	s.log.Info("turn committed",
		zap.Int("turn", s.turn),
		zap.Int("actors", len(actors)),
		zap.Int("effects", len(result.Effects)),
		zap.Int("deaths", len(deaths)))

	s.turn++
	s.phase = PhaseCollecting
	return result, nil
}

func (s *Scheduler) decideAI(e Entity, snap *Snapshot) Action {
	ai, ok := s.world.AIs.Get(e)
	if !ok {
		return Wait()
	}
	fn, ok := s.behaviors[ai.Behavior]
	if !ok {
		s.log.Warn("no planner for behavior",
			zap.Stringer("entity", e),
			zap.Stringer("behavior", ai.Behavior))
		return Wait()
	}
	return fn(e, snap)
}

// applyMove validates against the live board, so when two movers race for one
// cell the earlier entity id wins and the later one records Blocked.
func (s *Scheduler) applyMove(e Entity, dir Direction, result *TurnResult) {
	pos, ok := s.world.Positions.Get(e)
	if !ok {
		s.log.Debug("move without position", zap.Stringer("entity", e))
		return
	}
	from := pos.Coord()
	to := from.Add(dir)

	grid := s.world.Grid
	blocked := !grid.InBounds(to) || !grid.At(to).Passable
	if !blocked {
		if _, occupied := s.world.Spatial.BlockerAt(to); occupied {
			blocked = true
		}
	}
	if blocked {
		result.Effects = append(result.Effects, Effect{
			Kind: EffectBlocked, Entity: e, From: from, To: to,
		})
		return
	}

	if err := s.world.Spatial.MoveEntity(e, from, to); err != nil {
		s.log.Warn("spatial move rejected", zap.Stringer("entity", e), zap.Error(err))
		result.Effects = append(result.Effects, Effect{
			Kind: EffectBlocked, Entity: e, From: from, To: to,
		})
		return
	}
	pos.X, pos.Y = to.X, to.Y
	result.Effects = append(result.Effects, Effect{
		Kind: EffectMoved, Entity: e, From: from, To: to,
	})
}

// applyAttack resolves one attack. Invalid attacks (dead participants, out of
// range, missing components) degrade to logged no-ops; only a landed hit
// mutates state.
func (s *Scheduler) applyAttack(e, target Entity, snap *Snapshot, result *TurnResult, deaths []Entity) []Entity {
	reg := s.world.Registry

	if hp, ok := s.world.Healths.Get(e); ok && hp.Depleted() {
		// attacker died earlier this resolution pass
		return deaths
	}
	if !reg.Alive(target) {
		s.log.Debug("attack on dead target",
			zap.Stringer("attacker", e), zap.Stringer("target", target))
		return deaths
	}
	thp, ok := s.world.Healths.Get(target)
	if ok && thp.Depleted() {
		return deaths
	}

	apos, aok := s.world.Positions.Get(e)
	tpos, tok := s.world.Positions.Get(target)
	if !aok || !tok || Manhattan(apos.Coord(), tpos.Coord()) != 1 {
		s.log.Debug("attack out of range",
			zap.Stringer("attacker", e), zap.Stringer("target", target))
		return deaths
	}

	out, err := s.resolver.Resolve(e, target, snap.Roll(e))
	if err != nil {
		s.log.Info("attack unresolvable",
			zap.Stringer("attacker", e),
			zap.Stringer("target", target),
			zap.Error(err))
		return deaths
	}
	if !out.Hit {
		s.log.Debug("attack missed",
			zap.Stringer("attacker", e), zap.Stringer("target", target))
		return deaths
	}

	thp.Current -= out.Damage
	result.Effects = append(result.Effects, Effect{
		Kind: EffectDamaged, Entity: target, Source: e, Amount: out.Damage,
	})
	if thp.Depleted() {
		result.Effects = append(result.Effects, Effect{
			Kind: EffectDied, Entity: target,
		})
		deaths = append(deaths, target)
	}
	return deaths
}

// applyItemUse consumes one inventory item. Unknown ids and missing
// inventories are logged no-ops; the item is removed even when the heal
// clamps to zero.
func (s *Scheduler) applyItemUse(e Entity, id ItemID, result *TurnResult) {
	if hp, ok := s.world.Healths.Get(e); ok && hp.Depleted() {
		// user died earlier this resolution pass
		return
	}
	inv, ok := s.world.Inventories.Get(e)
	if !ok {
		s.log.Info("item use without inventory", zap.Stringer("entity", e))
		return
	}
	at := -1
	for i, held := range inv.Items {
		if held == id {
			at = i
			break
		}
	}
	if at < 0 {
		s.log.Debug("item not held",
			zap.Stringer("entity", e), zap.Uint32("item", uint32(id)))
		return
	}
	item := s.world.Items.GetItem32(uint32(id))
	if item == nil {
		s.log.Warn("inventory references unknown item",
			zap.Stringer("entity", e), zap.Uint32("item", uint32(id)))
		return
	}

	inv.Items = append(inv.Items[:at], inv.Items[at+1:]...)
	result.Effects = append(result.Effects, Effect{
		Kind: EffectItemUsed, Entity: e, Source: e, Item: id,
	})

	if hp, ok := s.world.Healths.Get(e); ok && item.Heal > 0 {
		heal := item.Heal
		if room := hp.Max - hp.Current; heal > room {
			heal = room
		}
		if heal > 0 {
			hp.Current += heal
			result.Effects = append(result.Effects, Effect{
				Kind: EffectHealed, Entity: e, Source: e, Amount: heal, Item: id,
			})
		}
	}
}
