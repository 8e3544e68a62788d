package delve

import "go.uber.org/zap"

// AttackInput is the component data one attack is resolved from. Roll is a
// uniform [0,1) value drawn by the scheduler's seeded RNG; passing it in
// keeps policies pure and replays exact.
type AttackInput struct {
	Attacker       CombatStats
	Defender       CombatStats
	DefenderHealth Health
	Roll           float64
}

// Outcome is what one attack did. Damage is zero on a miss. DefenderDies is
// filled in by the Resolver, not the policy.
type Outcome struct {
	Hit          bool
	Damage       int
	DefenderDies bool
}

// BasicPolicy is the built-in damage formula: hit chance starts at HitBase,
// shifts by HitPerAttack per attacker attack point and HitPerDefense per
// defender defense point, clamped to [HitFloor, HitCeiling]; damage is
// power minus half the defense, never below MinDamage.
type BasicPolicy struct {
	Balance BalanceConfig
}

func NewBasicPolicy(b BalanceConfig) BasicPolicy {
	return BasicPolicy{Balance: b}
}

func (p BasicPolicy) Resolve(in AttackInput) Outcome {
	b := p.Balance

	chance := b.HitBase +
		float64(in.Attacker.Attack)*b.HitPerAttack -
		float64(in.Defender.Defense)*b.HitPerDefense
	if chance < b.HitFloor {
		chance = b.HitFloor
	}
	if chance > b.HitCeiling {
		chance = b.HitCeiling
	}

	if in.Roll > chance {
		return Outcome{Hit: false}
	}

	damage := in.Attacker.Power - in.Defender.Defense/2
	if damage < b.MinDamage {
		damage = b.MinDamage
	}
	return Outcome{Hit: true, Damage: damage}
}

// Resolver computes attack outcomes from the combat-relevant stores. It
// never mutates anything: the scheduler applies damage and emits effects.
type Resolver struct {
	policy  Policy
	stats   *ComponentStore[CombatStats]
	healths *ComponentStore[Health]
	log     *zap.Logger
}

func newResolver(w *World, policy Policy, log *zap.Logger) *Resolver {
	return &Resolver{
		policy:  policy,
		stats:   w.Combat,
		healths: w.Healths,
		log:     log,
	}
}

// Resolve looks up both sides' combat data and applies the injected policy.
// A side missing a required component yields MissingCapabilityError, which
// the scheduler downgrades to a logged no-op rather than aborting the turn.
func (r *Resolver) Resolve(attacker, defender Entity, roll float64) (Outcome, error) {
	atk, ok := r.stats.Get(attacker)
	if !ok {
		return Outcome{}, MissingCapabilityError{Entity: attacker, Component: r.stats.Name()}
	}
	def, ok := r.stats.Get(defender)
	if !ok {
		return Outcome{}, MissingCapabilityError{Entity: defender, Component: r.stats.Name()}
	}
	hp, ok := r.healths.Get(defender)
	if !ok {
		return Outcome{}, MissingCapabilityError{Entity: defender, Component: r.healths.Name()}
	}

	out := r.policy.Resolve(AttackInput{
		Attacker:       *atk,
		Defender:       *def,
		DefenderHealth: *hp,
		Roll:           roll,
	})
	if out.Hit && out.Damage >= hp.Current {
		out.DefenderDies = true
	}
	return out, nil
}
