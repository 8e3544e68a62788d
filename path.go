package delve

import "container/heap"

// Pathfinder runs A* over the grid's cost field. Every call is stateless:
// occupancy changes each turn, so plans are recomputed against the caller's
// snapshot instead of cached across turns.
//
// The heuristic is Manhattan distance, admissible because cell costs are
// always >= 1, so returned paths are cost-minimal. Open-set ties break on
// insertion order, which keeps repeated searches byte-for-byte reproducible.
type Pathfinder struct{}

func newPathfinder() *Pathfinder {
	return &Pathfinder{}
}

type pathNode struct {
	cell Coord
	f    int // cost so far + heuristic
	seq  int // insertion order, the deterministic tie-breaker
}

type pathHeap []pathNode

func (h pathHeap) Len() int { return len(h) }

func (h pathHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}

func (h pathHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pathHeap) Push(x any) { *h = append(*h, x.(pathNode)) }

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	*h = old[:n-1]
	return node
}

// FindPath returns the cheapest route from start (exclusive) to goal
// (inclusive). Cells with a blocking occupant are impassable unless they are
// the goal itself, so an actor can path onto its target's cell. Returns
// NoPathFoundError when the goal is unreachable. occ may be nil to ignore
// occupancy entirely.
func (p *Pathfinder) FindPath(g *Grid, occ Occupancy, start, goal Coord) ([]Coord, error) {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil, NoPathFoundError{Start: start, Goal: goal}
	}
	if start == goal {
		return []Coord{}, nil
	}
	if !g.At(goal).Passable {
		return nil, NoPathFoundError{Start: start, Goal: goal}
	}

	size := g.Width * g.Height
	costSoFar := make([]int, size)
	cameFrom := make([]int32, size)
	visited := make([]bool, size)
	for i := range cameFrom {
		cameFrom[i] = -1
		costSoFar[i] = -1
	}

	open := pathHeap{{cell: start, f: Manhattan(start, goal), seq: 0}}
	heap.Init(&open)
	costSoFar[g.index(start)] = 0
	seq := 1

	for open.Len() > 0 {
		cur := heap.Pop(&open).(pathNode)
		curIdx := g.index(cur.cell)
		if visited[curIdx] {
			continue
		}
		visited[curIdx] = true

		if cur.cell == goal {
			return reconstruct(g, cameFrom, start, goal), nil
		}

		for _, d := range CardinalDirections {
			next := cur.cell.Add(d)
			if !g.InBounds(next) {
				continue
			}
			cell := g.At(next)
			if !cell.Passable {
				continue
			}
			if occ != nil && next != goal {
				if _, blocked := occ.BlockerAt(next); blocked {
					continue
				}
			}
			nextIdx := g.index(next)
			stepped := costSoFar[curIdx] + cell.Cost
			if costSoFar[nextIdx] >= 0 && stepped >= costSoFar[nextIdx] {
				continue
			}
			costSoFar[nextIdx] = stepped
			cameFrom[nextIdx] = int32(curIdx)
			heap.Push(&open, pathNode{
				cell: next,
				f:    stepped + Manhattan(next, goal),
				seq:  seq,
			})
			seq++
		}
	}

	return nil, NoPathFoundError{Start: start, Goal: goal}
}

// PathCost sums the cell costs a path traverses.
func (p *Pathfinder) PathCost(g *Grid, path []Coord) int {
	total := 0
	for _, c := range path {
		total += g.At(c).Cost
	}
	return total
}

func reconstruct(g *Grid, cameFrom []int32, start, goal Coord) []Coord {
	var rev []Coord
	idx := g.index(goal)
	startIdx := g.index(start)
	for idx != startIdx {
		rev = append(rev, Coord{X: idx % g.Width, Y: idx / g.Width})
		idx = int(cameFrom[idx])
	}
	// reverse into start-exclusive, goal-inclusive order
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
