package delve

import "fmt"

// Coord is a position on the map grid.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (c Coord) Add(d Direction) Coord {
	dx, dy := d.Vector()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the grid distance between two coordinates.
func Manhattan(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Direction is one of the four cardinal movement directions. Y grows
// downward, matching the usual terminal-grid convention.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// CardinalDirections lists directions in their canonical order. Anything that
// expands neighbours (pathfinding, fleeing, wandering) walks this array so
// ties resolve identically on every run.
var CardinalDirections = [4]Direction{North, East, South, West}

var dirVectors = [4][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
}

var dirNames = [4]string{"north", "east", "south", "west"}

func (d Direction) Vector() (dx, dy int) {
	return dirVectors[d][0], dirVectors[d][1]
}

func (d Direction) String() string {
	if int(d) < len(dirNames) {
		return dirNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// DirectionTo returns the cardinal direction of a single step from a to b,
// and false if b is not exactly one cardinal step away.
func DirectionTo(a, b Coord) (Direction, bool) {
	for _, d := range CardinalDirections {
		if a.Add(d) == b {
			return d, true
		}
	}
	return North, false
}

// Cell is one tile of the map. Cost is the price of stepping into the cell
// and is always >= 1 so the pathfinder's distance heuristic stays admissible.
type Cell struct {
	Passable bool
	Cost     int
}

// Grid is the immutable-for-the-turn map the core routes and moves over.
// It is produced externally (see MapProvider) and referenced, never copied.
type Grid struct {
	Width, Height int
	cells         []Cell
}

// NewGrid returns a grid with every cell passable at cost 1.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
	for i := range g.cells {
		g.cells[i] = Cell{Passable: true, Cost: 1}
	}
	return g
}

func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At returns the cell under a coordinate. The coordinate must be in bounds;
// check InBounds first, an out-of-bounds access panics.
func (g *Grid) At(c Coord) Cell {
	return g.cells[c.Y*g.Width+c.X]
}

// SetCell replaces a cell. Costs below 1 are clamped to 1. Like At, the
// coordinate must be in bounds.
func (g *Grid) SetCell(c Coord, cell Cell) {
	if cell.Cost < 1 {
		cell.Cost = 1
	}
	g.cells[c.Y*g.Width+c.X] = cell
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.Width + c.X
}
