package ability

// Classification is the closed set of ability classifications
type Classification string

const (
	ClassWeaponAttack Classification = "weapon_attack"
	ClassSpellAttack  Classification = "spell_attack"
	ClassSave         Classification = "save_based"
	ClassHealing      Classification = "healing"
	ClassUtility      Classification = "utility"
	ClassPassive      Classification = "passive"
	ClassReaction     Classification = "reaction"
)

// ActivationType represents how an ability is triggered
type ActivationType string

const (
	ActivationAction   ActivationType = "action"
	ActivationBonus    ActivationType = "bonus"
	ActivationReaction ActivationType = "reaction"
	ActivationPassive  ActivationType = "passive"
)

// Activation describes the trigger and cost of using an ability
type Activation struct {
	Type    ActivationType
	Cost    int
	Trigger string // For reactions: the phrase that triggers them
}

// AttackType distinguishes weapon and spell attacks
type AttackType string

const (
	AttackMeleeWeapon  AttackType = "melee_weapon"
	AttackRangedWeapon AttackType = "ranged_weapon"
	AttackMeleeSpell   AttackType = "melee_spell"
	AttackRangedSpell  AttackType = "ranged_spell"
)

// IsWeapon reports whether the attack type is a weapon attack
func (t AttackType) IsWeapon() bool {
	return t == AttackMeleeWeapon || t == AttackRangedWeapon
}

// Attack describes an attack roll
type Attack struct {
	Type  AttackType
	Bonus int
	Reach int // Feet, 0 when not stated
}

// AreaShape is the closed set of area-of-effect shapes
type AreaShape string

const (
	AreaRadius AreaShape = "radius"
	AreaSphere AreaShape = "sphere"
	AreaCone   AreaShape = "cone"
	AreaLine   AreaShape = "line"
)

// TargetKind describes what an ability targets
type TargetKind string

const (
	TargetCreatures TargetKind = "creatures"
	TargetSelf      TargetKind = "self"
	TargetArea      TargetKind = "area"
)

// Target describes targeting: a creature count, self, or an area shape
type Target struct {
	Kind  TargetKind
	Count int       // For TargetCreatures
	Shape AreaShape // For TargetArea
	Size  int       // Feet: radius, cone length, or line length
	Width int       // Feet: line width, 0 otherwise
}

// Damage is one damage (or healing) entry
type Damage struct {
	Formula string // Canonical dice expression, e.g. "1d8+4"
	Type    string // "slashing", "fire", ... or "healing"
	Average int    // Stated or computed average, 0 when unknown
	Healing bool
}

// Save describes a saving throw requirement
type Save struct {
	Ability       string // Lowercase short form: "dex", "con", ...
	DC            int
	HalfOnSuccess bool
}

// DurationKind is the closed set of duration categories
type DurationKind string

const (
	DurationInstant       DurationKind = "instantaneous"
	DurationRounds        DurationKind = "rounds"
	DurationMinutes       DurationKind = "minutes"
	DurationConcentration DurationKind = "concentration"
)

// Duration describes how long an ability's effect lasts
type Duration struct {
	Kind          DurationKind
	Rounds        int
	Minutes       int
	Concentration bool
}

// RangeKind is the closed set of range categories
type RangeKind string

const (
	RangeTouch    RangeKind = "touch"
	RangeSelf     RangeKind = "self"
	RangeDistance RangeKind = "distance"
)

// Range describes how far an ability reaches
type Range struct {
	Kind     RangeKind
	Distance int // Feet, for RangeDistance
}

// ResourceKind is the closed set of resource-renewal mechanisms
type ResourceKind string

const (
	ResourceRecharge ResourceKind = "recharge"
	ResourcePerDay   ResourceKind = "per_day"
	ResourcePerRest  ResourceKind = "per_rest"
)

// RestKind distinguishes short and long rests
type RestKind string

const (
	RestShort RestKind = "short"
	RestLong  RestKind = "long"
)

// Resource describes a consumable usage limit
type Resource struct {
	Kind        ResourceKind
	Uses        int // For per-day / per-rest
	RechargeMin int // For recharge, e.g. 5 in "Recharge 5-6"
	RechargeMax int
	Rest        RestKind // For per-rest
}

// EffectKind is the closed set of semantic-level mechanical effects
type EffectKind string

const (
	EffectAdvantage     EffectKind = "advantage"
	EffectDisadvantage  EffectKind = "disadvantage"
	EffectResistance    EffectKind = "resistance"
	EffectImmunity      EffectKind = "immunity"
	EffectVulnerability EffectKind = "vulnerability"
)

// Effect is a mechanical change detected in the text: an advantage or
// disadvantage grant, or a damage resistance/immunity
type Effect struct {
	Kind   EffectKind
	Target string // "attack_roll", "saving_throw", "ability_check", "skill_check", or a damage type
	Detail string // Sub-target such as the ability or skill name
}

// TurnTiming is when during a turn something happens
type TurnTiming string

const (
	TimingStartOfTurn TurnTiming = "start"
	TimingEndOfTurn   TurnTiming = "end"
)

// RequirementKind is the closed set of usage requirements
type RequirementKind string

const (
	RequireMovement    RequirementKind = "movement"
	RequireVisibility  RequirementKind = "visibility"
	RequireDamageTaken RequirementKind = "damage_taken"
	RequireRecharge    RequirementKind = "recharge"
)

// Requirement is a precondition for using an ability
type Requirement struct {
	Kind   RequirementKind
	Amount int    // Feet for movement, otherwise 0
	Raw    string // The phrase that produced the requirement
}
