package extraction

import (
	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
)

// AttackFact is an attack roll: "+N to hit" adjacent to an attack-type phrase
type AttackFact struct {
	Type  ability.AttackType
	Bonus int
}

// DamageFact is one damage or healing formula. Averaged marks the
// "avg (dice) type" format, which takes precedence over the simple
// "dice type" format during de-duplication.
type DamageFact struct {
	Formula  string
	Type     string
	Average  int
	Averaged bool
	Healing  bool
}

// SaveFact is a saving throw DC
type SaveFact struct {
	Ability string // Lowercase short form: "dex", "con", ...
	DC      int
}

// ReachFact is a stated melee reach
type ReachFact struct {
	Feet int
}

// DurationFact is a stated duration
type DurationFact struct {
	Kind    ability.DurationKind
	Rounds  int
	Minutes int
}

// RangeFact is a stated range
type RangeFact struct {
	Kind     ability.RangeKind
	Distance int
}

// AreaFact is an area-of-effect shape
type AreaFact struct {
	Shape ability.AreaShape
	Size  int // Feet: radius, cone length, line length
	Width int // Feet: explicit line width, 0 otherwise
}

// ActivationFact is a stated activation type
type ActivationFact struct {
	Type    ability.ActivationType
	Trigger string // For reactions
}

// GrantFact is an advantage or disadvantage grant
type GrantFact struct {
	Kind   ability.EffectKind // advantage or disadvantage
	Target string             // "attack_roll", "saving_throw", "ability_check", "skill_check"
	Detail string             // Ability or skill name when stated
}

// MitigationFact is a resistance or immunity entry
type MitigationFact struct {
	Kind       ability.EffectKind // resistance or immunity
	DamageType string
}

// ResourceFact is a usage limit: recharge roll, per-day, or per-rest
type ResourceFact struct {
	Kind        ability.ResourceKind
	Uses        int
	RechargeMin int
	RechargeMax int
	Rest        ability.RestKind
}

// TargetCountFact is an explicit "N creatures/targets" phrase
type TargetCountFact struct {
	Count int
}

// SelfFact marks self-referential targeting
type SelfFact struct{}

// HalfOnSaveFact marks half-damage-on-success wording
type HalfOnSaveFact struct{}

// SaveEndsFact marks "repeat the saving throw" wording
type SaveEndsFact struct{}

// TurnTimingFact is start/end of turn wording
type TurnTimingFact struct {
	Timing ability.TurnTiming
}

// MovementRequirementFact is "moves at least N feet" wording
type MovementRequirementFact struct {
	Feet int
}

// MarkerFact is a presence-only fact for patterns whose match alone carries
// the information (visibility requirement, damage trigger, flyby, charge...)
type MarkerFact struct{}
