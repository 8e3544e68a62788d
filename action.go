package delve

import "fmt"

// ActionKind tags the Action variant. The declaration order is the
// resolution order contract: all moves apply before all attacks, attacks
// before item use; Wait resolves to nothing. Within a kind, actions apply in
// ascending entity-id order.
type ActionKind uint8

const (
	ActionMove ActionKind = iota
	ActionAttack
	ActionUseItem
	ActionWait
)

var actionNames = [4]string{"move", "attack", "use-item", "wait"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// Action is the tagged variant an actor submits once per turn. Only the
// fields of the active variant are meaningful.
type Action struct {
	Kind   ActionKind
	Dir    Direction // ActionMove
	Target Entity    // ActionAttack
	Item   ItemID    // ActionUseItem
}

func Move(d Direction) Action {
	return Action{Kind: ActionMove, Dir: d}
}

func Attack(target Entity) Action {
	return Action{Kind: ActionAttack, Target: target}
}

func UseItem(id ItemID) Action {
	return Action{Kind: ActionUseItem, Item: id}
}

func Wait() Action {
	return Action{Kind: ActionWait}
}
