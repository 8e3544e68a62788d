package delve

import "testing"

type fixedOccupancy map[Coord]Entity

func (o fixedOccupancy) BlockerAt(c Coord) (Entity, bool) {
	e, ok := o[c]
	return e, ok
}

func assertWalkable(t *testing.T, g *Grid, start Coord, path []Coord) {
	t.Helper()
	prev := start
	for i, c := range path {
		if Manhattan(prev, c) != 1 {
			t.Fatalf("step %d: %v -> %v is not a cardinal step", i, prev, c)
		}
		if !g.At(c).Passable {
			t.Fatalf("step %d: %v is impassable", i, c)
		}
		prev = c
	}
}

func TestFindPathStraightLine(t *testing.T) {
	g := NewGrid(8, 8)
	pf := newPathfinder()

	start := Coord{X: 1, Y: 1}
	goal := Coord{X: 5, Y: 1}
	path, err := pf.FindPath(g, nil, start, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if len(path) != Manhattan(start, goal) {
		t.Errorf("path length %d, want %d", len(path), Manhattan(start, goal))
	}
	if path[len(path)-1] != goal {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], goal)
	}
	assertWalkable(t, g, start, path)
}

func TestFindPathAroundWall(t *testing.T) {
	g := NewGrid(5, 5)
	// Vertical wall at x=2 with a gap at the bottom row.
	for y := 0; y < 4; y++ {
		g.SetCell(Coord{X: 2, Y: y}, Cell{Passable: false})
	}
	pf := newPathfinder()

	start := Coord{X: 0, Y: 2}
	goal := Coord{X: 4, Y: 2}
	path, err := pf.FindPath(g, nil, start, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	// Direct distance 4, plus 2 down to the gap and 2 back up.
	if len(path) != 8 {
		t.Errorf("path length %d, want 8", len(path))
	}
	assertWalkable(t, g, start, path)
}

func TestFindPathUnreachable(t *testing.T) {
	g := NewGrid(5, 5)
	// Seal the goal in.
	goal := Coord{X: 4, Y: 4}
	g.SetCell(Coord{X: 3, Y: 4}, Cell{Passable: false})
	g.SetCell(Coord{X: 4, Y: 3}, Cell{Passable: false})
	pf := newPathfinder()

	_, err := pf.FindPath(g, nil, Coord{X: 0, Y: 0}, goal)
	if err == nil {
		t.Fatal("expected NoPathFoundError")
	}
	npf, ok := err.(NoPathFoundError)
	if !ok {
		t.Fatalf("want NoPathFoundError, got %T", err)
	}
	if npf.Goal != goal {
		t.Errorf("error goal %v, want %v", npf.Goal, goal)
	}
}

func TestFindPathDegenerateInputs(t *testing.T) {
	g := NewGrid(4, 4)
	pf := newPathfinder()

	t.Run("start equals goal", func(t *testing.T) {
		path, err := pf.FindPath(g, nil, Coord{X: 1, Y: 1}, Coord{X: 1, Y: 1})
		if err != nil {
			t.Fatalf("FindPath failed: %v", err)
		}
		if len(path) != 0 {
			t.Errorf("path length %d, want 0", len(path))
		}
	})

	t.Run("goal out of bounds", func(t *testing.T) {
		if _, err := pf.FindPath(g, nil, Coord{X: 0, Y: 0}, Coord{X: 9, Y: 0}); err == nil {
			t.Error("expected error for out-of-bounds goal")
		}
	})

	t.Run("goal impassable", func(t *testing.T) {
		g.SetCell(Coord{X: 2, Y: 2}, Cell{Passable: false})
		if _, err := pf.FindPath(g, nil, Coord{X: 0, Y: 0}, Coord{X: 2, Y: 2}); err == nil {
			t.Error("expected error for impassable goal")
		}
	})
}

func TestFindPathAvoidsBlockers(t *testing.T) {
	g := NewGrid(5, 3)
	pf := newPathfinder()

	blocker := Entity(1)
	occ := fixedOccupancy{{X: 2, Y: 1}: blocker}

	start := Coord{X: 0, Y: 1}
	goal := Coord{X: 4, Y: 1}
	path, err := pf.FindPath(g, occ, start, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	for _, c := range path {
		if _, blocked := occ[c]; blocked {
			t.Fatalf("path crosses blocked cell %v", c)
		}
	}
	// Blocked cell costs a two-step detour.
	if len(path) != 6 {
		t.Errorf("path length %d, want 6", len(path))
	}
}

// An occupied goal stays reachable: actors path onto their target's cell.
func TestFindPathOntoBlockedGoal(t *testing.T) {
	g := NewGrid(5, 5)
	pf := newPathfinder()

	goal := Coord{X: 3, Y: 0}
	occ := fixedOccupancy{goal: Entity(7)}

	path, err := pf.FindPath(g, occ, Coord{X: 0, Y: 0}, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if path[len(path)-1] != goal {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], goal)
	}
}

func TestFindPathPrefersCheapCells(t *testing.T) {
	g := NewGrid(3, 3)
	// Make the direct middle cell expensive enough that the detour wins.
	g.SetCell(Coord{X: 1, Y: 0}, Cell{Passable: true, Cost: 10})
	pf := newPathfinder()

	start := Coord{X: 0, Y: 0}
	goal := Coord{X: 2, Y: 0}
	path, err := pf.FindPath(g, nil, start, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	for _, c := range path {
		if c == (Coord{X: 1, Y: 0}) {
			t.Fatal("path crosses the expensive cell")
		}
	}
	if cost := pf.PathCost(g, path); cost != 4 {
		t.Errorf("PathCost = %d, want 4", cost)
	}
}

// bruteForceCost relaxes every edge until fixpoint: exponentially dumber than
// A* but trivially correct, which is the point of the comparison.
func bruteForceCost(g *Grid, start, goal Coord) (int, bool) {
	const inf = 1 << 30
	dist := make([]int, g.Width*g.Height)
	for i := range dist {
		dist[i] = inf
	}
	dist[g.index(start)] = 0
	for changed := true; changed; {
		changed = false
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				from := Coord{X: x, Y: y}
				if dist[g.index(from)] == inf {
					continue
				}
				for _, d := range CardinalDirections {
					to := from.Add(d)
					if !g.InBounds(to) || !g.At(to).Passable {
						continue
					}
					if next := dist[g.index(from)] + g.At(to).Cost; next < dist[g.index(to)] {
						dist[g.index(to)] = next
						changed = true
					}
				}
			}
		}
	}
	if dist[g.index(goal)] == inf {
		return 0, false
	}
	return dist[g.index(goal)], true
}

// Returned paths are cost-minimal: checked against brute-force relaxation on
// small maps with mixed walls and terrain costs.
func TestFindPathOptimal(t *testing.T) {
	pf := newPathfinder()

	grids := []struct {
		name  string
		build func() *Grid
	}{
		{
			name:  "Open ground",
			build: func() *Grid { return NewGrid(6, 6) },
		},
		{
			name: "Walls and swamps",
			build: func() *Grid {
				g := NewGrid(6, 6)
				for _, c := range []Coord{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}, {X: 4, Y: 4}} {
					g.SetCell(c, Cell{Passable: false})
				}
				for _, c := range []Coord{{X: 1, Y: 4}, {X: 3, Y: 0}, {X: 3, Y: 4}} {
					g.SetCell(c, Cell{Passable: true, Cost: 5})
				}
				return g
			},
		},
		{
			name: "Checkerboard costs",
			build: func() *Grid {
				g := NewGrid(5, 5)
				for y := 0; y < 5; y++ {
					for x := 0; x < 5; x++ {
						if (x+y)%2 == 1 {
							g.SetCell(Coord{X: x, Y: y}, Cell{Passable: true, Cost: 3})
						}
					}
				}
				return g
			},
		},
	}

	for _, tg := range grids {
		t.Run(tg.name, func(t *testing.T) {
			g := tg.build()
			start := Coord{X: 0, Y: 0}
			for y := 0; y < g.Height; y++ {
				for x := 0; x < g.Width; x++ {
					goal := Coord{X: x, Y: y}
					if goal == start || !g.At(goal).Passable {
						continue
					}
					want, reachable := bruteForceCost(g, start, goal)
					path, err := pf.FindPath(g, nil, start, goal)
					if !reachable {
						if err == nil {
							t.Errorf("goal %v: found a path where none exists", goal)
						}
						continue
					}
					if err != nil {
						t.Errorf("goal %v: FindPath failed: %v", goal, err)
						continue
					}
					if got := pf.PathCost(g, path); got != want {
						t.Errorf("goal %v: cost %d, want %d", goal, got, want)
					}
					assertWalkable(t, g, start, path)
				}
			}
		})
	}
}

// Repeated searches over identical inputs return identical paths; open-set
// ties break on insertion order, never map iteration.
func TestFindPathDeterministic(t *testing.T) {
	g := NewGrid(16, 16)
	for _, c := range []Coord{{X: 4, Y: 4}, {X: 5, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 5}, {X: 10, Y: 9}} {
		g.SetCell(c, Cell{Passable: false})
	}
	pf := newPathfinder()

	start := Coord{X: 0, Y: 0}
	goal := Coord{X: 15, Y: 15}
	first, err := pf.FindPath(g, nil, start, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	for run := 0; run < 20; run++ {
		again, err := pf.FindPath(g, nil, start, goal)
		if err != nil {
			t.Fatalf("run %d failed: %v", run, err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d, want %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i] != first[i] {
				t.Fatalf("run %d diverges at step %d: %v vs %v", run, i, again[i], first[i])
			}
		}
	}
}
