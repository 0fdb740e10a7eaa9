package ability

const (
	// MinComplexity is the lowest automation tier
	MinComplexity = 1
	// MaxComplexity is the highest automation tier
	MaxComplexity = 4
)

// Descriptor is the normalized semantic model extracted from raw ability
// text. It is built once per input and is immutable afterwards except for
// complexity escalation, which only ever moves upward.
type Descriptor struct {
	Name           string
	Raw            string
	Classification Classification
	Attack         *Attack
	Activation     Activation
	Target         Target
	Damage         []Damage
	Saves          []Save
	Effects        []Effect
	Conditions     []ConditionRef
	Resource       *Resource
	Duration       Duration
	Range          Range
	Complexity     int
	Requirements   []Requirement
}

// EscalateComplexity raises the complexity tier. Escalation is monotonic:
// a lower tier never replaces a higher one.
func (d *Descriptor) EscalateComplexity(tier int) {
	if tier > d.Complexity {
		d.Complexity = tier
	}
	if d.Complexity > MaxComplexity {
		d.Complexity = MaxComplexity
	}
	if d.Complexity < MinComplexity {
		d.Complexity = MinComplexity
	}
}

// HasAttack reports whether the ability makes an attack roll
func (d *Descriptor) HasAttack() bool {
	return d.Attack != nil
}

// HasSave reports whether the ability forces a saving throw
func (d *Descriptor) HasSave() bool {
	return len(d.Saves) > 0
}

// HasConditions reports whether the ability applies any conditions
func (d *Descriptor) HasConditions() bool {
	return len(d.Conditions) > 0
}

// HasDamage reports whether the ability deals (non-healing) damage
func (d *Descriptor) HasDamage() bool {
	for _, dmg := range d.Damage {
		if !dmg.Healing {
			return true
		}
	}
	return false
}

// PrimarySave returns the first save, or nil when none exists
func (d *Descriptor) PrimarySave() *Save {
	if len(d.Saves) == 0 {
		return nil
	}
	return &d.Saves[0]
}

// ConditionByKind returns the first condition of the given kind
func (d *Descriptor) ConditionByKind(kind ConditionKind) *ConditionRef {
	for i := range d.Conditions {
		if d.Conditions[i].Kind == kind {
			return &d.Conditions[i]
		}
	}
	return nil
}
