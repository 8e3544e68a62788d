package delve

// DecideFunc plans one action for a machine-controlled entity. It runs on a
// worker goroutine during the decision phase and must treat the snapshot as
// read-only, except for the entity's own AI component.
type DecideFunc func(e Entity, snap *Snapshot) Action

// defaultBehaviors maps each built-in BehaviorKind to its planner.
func defaultBehaviors(cfg AIConfig) map[BehaviorKind]DecideFunc {
	return map[BehaviorKind]DecideFunc{
		BehaviorIdle:       decideIdle(cfg),
		BehaviorAggressive: decideAggressive(cfg),
		BehaviorFleeing:    decideFleeing(),
		BehaviorPatrol:     decidePatrol(cfg),
	}
}

// decideAggressive: attack an adjacent player, chase one inside detection
// range, otherwise wander. Drops into flee steps when health falls under the
// configured fraction.
func decideAggressive(cfg AIConfig) DecideFunc {
	wander := decideIdle(cfg)
	return func(e Entity, snap *Snapshot) Action {
		w := snap.World()
		pos, ok := w.Positions.Get(e)
		if !ok {
			return Wait()
		}
		self := pos.Coord()

		target, at, ok := snap.NearestPlayer(self)
		if !ok {
			return wander(e, snap)
		}

		if hp, ok := w.Healths.Get(e); ok && hp.Max > 0 &&
			float64(hp.Current)/float64(hp.Max) < cfg.FleeBelow {
			if d, ok := fleeStep(snap, self, at); ok {
				return Move(d)
			}
			// cornered: nothing left but fighting
		}

		dist := Manhattan(self, at)
		switch {
		case dist == 1:
			return Attack(target)
		case dist <= cfg.DetectionRange:
			if d, ok := chaseStep(snap, self, at); ok {
				return Move(d)
			}
			return Wait()
		default:
			return wander(e, snap)
		}
	}
}

// decideFleeing always steps away from the nearest player, or waits when no
// step increases the distance.
func decideFleeing() DecideFunc {
	return func(e Entity, snap *Snapshot) Action {
		w := snap.World()
		pos, ok := w.Positions.Get(e)
		if !ok {
			return Wait()
		}
		self := pos.Coord()
		_, at, ok := snap.NearestPlayer(self)
		if !ok {
			return Wait()
		}
		if d, ok := fleeStep(snap, self, at); ok {
			return Move(d)
		}
		return Wait()
	}
}

// decideIdle wanders: some turns a random cardinal step, the rest waiting.
func decideIdle(cfg AIConfig) DecideFunc {
	return func(e Entity, snap *Snapshot) Action {
		rng := snap.RNG(e)
		if rng.Float64() >= cfg.WanderChance {
			return Wait()
		}
		w := snap.World()
		pos, ok := w.Positions.Get(e)
		if !ok {
			return Wait()
		}
		d := CardinalDirections[rng.Intn(len(CardinalDirections))]
		if snap.Passable(pos.Coord().Add(d)) {
			return Move(d)
		}
		return Wait()
	}
}

// decidePatrol walks the entity's route waypoint by waypoint, looping.
// Advancing Waypoint is the one snapshot write a planner makes, and it only
// ever touches the deciding entity's own component.
func decidePatrol(cfg AIConfig) DecideFunc {
	wander := decideIdle(cfg)
	return func(e Entity, snap *Snapshot) Action {
		w := snap.World()
		ai, ok := w.AIs.Get(e)
		if !ok || len(ai.Route) == 0 {
			return wander(e, snap)
		}
		pos, ok := w.Positions.Get(e)
		if !ok {
			return Wait()
		}
		self := pos.Coord()

		wp := ai.Route[ai.Waypoint%len(ai.Route)]
		if self == wp {
			ai.Waypoint = (ai.Waypoint + 1) % len(ai.Route)
			wp = ai.Route[ai.Waypoint]
		}

		path, err := snap.FindPath(self, wp)
		if err != nil || len(path) == 0 {
			return Wait()
		}
		if d, ok := DirectionTo(self, path[0]); ok {
			return Move(d)
		}
		return Wait()
	}
}

// chaseStep picks the first step toward a target: the planned path when one
// exists, otherwise a greedy step that closes the distance. A blocked greedy
// step means wait rather than walking away.
func chaseStep(snap *Snapshot, self, target Coord) (Direction, bool) {
	path, err := snap.FindPath(self, target)
	if err == nil && len(path) > 0 {
		if d, ok := DirectionTo(self, path[0]); ok {
			return d, true
		}
	}
	best := Manhattan(self, target)
	for _, d := range CardinalDirections {
		n := self.Add(d)
		if Manhattan(n, target) < best && snap.Passable(n) {
			return d, true
		}
	}
	return North, false
}

// fleeStep picks the step that most increases distance from the threat, ties
// broken by canonical direction order.
func fleeStep(snap *Snapshot, self, threat Coord) (Direction, bool) {
	best := Manhattan(self, threat)
	var (
		bestDir Direction
		found   bool
	)
	for _, d := range CardinalDirections {
		n := self.Add(d)
		if !snap.Passable(n) {
			continue
		}
		if dist := Manhattan(n, threat); dist > best {
			best, bestDir, found = dist, d, true
		}
	}
	return bestDir, found
}
