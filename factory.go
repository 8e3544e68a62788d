package delve

// Factory is the package's constructor access point.
var Factory factory

type factory struct{}

// NewWorld creates an empty world over a grid.
func (factory) NewWorld(grid *Grid, opts ...WorldOption) *World {
	return newWorld(grid, opts...)
}

// NewWorldFromProvider creates a world over a provider's grid and remembers
// its legal spawn points; see World.NextSpawn.
func (factory) NewWorldFromProvider(p MapProvider, opts ...WorldOption) *World {
	w := newWorld(p.Grid(), opts...)
	w.spawns = p.SpawnPoints()
	return w
}

// NewScheduler creates a turn scheduler for a world. A nil config means
// defaults.
func (factory) NewScheduler(w *World, cfg *Config, opts ...SchedulerOption) *Scheduler {
	return newScheduler(w, cfg, opts...)
}

// NewQuery creates an empty query; build it with And/Or/Not.
func (factory) NewQuery() Query {
	return newQuery()
}

// NewCursor creates a cursor over a world's entities matching the query.
func (factory) NewCursor(query QueryNode, w *World) *Cursor {
	return newCursor(query, w.Registry)
}

// NewPathfinder creates a standalone pathfinder for callers planning outside
// a turn (level scripting, tests).
func (factory) NewPathfinder() *Pathfinder {
	return newPathfinder()
}
