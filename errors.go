package delve

import "fmt"

type UnknownEntityError struct {
	Entity Entity
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown or stale entity: %v", e.Entity)
}

type CellOccupiedError struct {
	Coord    Coord
	Occupant Entity
}

func (e CellOccupiedError) Error() string {
	return fmt.Sprintf("cell %v already occupied by %v", e.Coord, e.Occupant)
}

type NoPathFoundError struct {
	Start, Goal Coord
}

func (e NoPathFoundError) Error() string {
	return fmt.Sprintf("no path from %v to %v", e.Start, e.Goal)
}

type MissingCapabilityError struct {
	Entity    Entity
	Component string
}

func (e MissingCapabilityError) Error() string {
	return fmt.Sprintf("entity %v lacks component: %s", e.Entity, e.Component)
}

type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is currently locked"
}
