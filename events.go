package delve

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// EffectKind tags one entry of a turn's effect log.
type EffectKind uint8

const (
	EffectMoved EffectKind = iota
	EffectBlocked
	EffectDamaged
	EffectHealed
	EffectItemUsed
	EffectDied
)

var effectNames = [6]string{"moved", "blocked", "damaged", "healed", "item-used", "died"}

func (k EffectKind) String() string {
	if int(k) < len(effectNames) {
		return effectNames[k]
	}
	return fmt.Sprintf("effect(%d)", uint8(k))
}

// Effect is one entry in a turn's result log. Only the fields relevant to
// the kind are set: Moved/Blocked carry From/To, Damaged/Healed carry Source
// and Amount, ItemUsed carries Item.
type Effect struct {
	Kind   EffectKind
	Entity Entity
	Source Entity // attacker for Damaged, user for ItemUsed
	From   Coord
	To     Coord
	Amount int
	Item   ItemID
}

// TurnResult is the ordered effect log of one committed turn. It is
// read-only once emitted; the presentation layer renders from it and replay
// tests compare it byte for byte.
type TurnResult struct {
	Turn    int
	Effects []Effect
}

// Digest hashes the result into a single comparable value. Two runs over
// identical starting state and action queues must produce identical digests;
// replay tests lean on this.
func (tr *TurnResult) Digest() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeInt(uint64(tr.Turn))
	for _, eff := range tr.Effects {
		writeInt(uint64(eff.Kind))
		writeInt(uint64(eff.Entity))
		writeInt(uint64(eff.Source))
		writeInt(uint64(int64(eff.From.X)))
		writeInt(uint64(int64(eff.From.Y)))
		writeInt(uint64(int64(eff.To.X)))
		writeInt(uint64(int64(eff.To.Y)))
		writeInt(uint64(int64(eff.Amount)))
		writeInt(uint64(eff.Item))
	}
	return h.Sum64()
}
