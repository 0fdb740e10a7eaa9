package synthesis

import (
	"fmt"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/uuid"
)

// ItemType selects the item record shape on the target platform
type ItemType string

const (
	ItemWeapon  ItemType = "weapon"
	ItemFeature ItemType = "feature"
)

// ActivityKind distinguishes the activity sub-structures
type ActivityKind string

const (
	ActivityAttack ActivityKind = "attack"
	ActivitySave   ActivityKind = "save"
)

// DamageMode controls whether an activity applies its damage parts.
// A suppressed activity exists for its effect application only, so damage is
// never double-applied when an attack and a save coexist.
type DamageMode string

const (
	DamageModeFull       DamageMode = "full"
	DamageModeSuppressed DamageMode = "suppressed"
)

// DamagePart is one damage line on an activity
type DamagePart struct {
	Formula string `json:"formula"`
	Type    string `json:"type"`
	Healing bool   `json:"healing,omitempty"`
}

// Activity is an attack or save sub-structure on the item record. Its
// EffectIDs only ever reference identifiers present in the artifact's
// top-level effect list.
type Activity struct {
	ID          string             `json:"id"`
	Kind        ActivityKind       `json:"kind"`
	Name        string             `json:"name"`
	AttackType  ability.AttackType `json:"attackType,omitempty"`
	AttackBonus int                `json:"attackBonus,omitempty"`
	Save        *ability.Save      `json:"save,omitempty"`
	Damage      []DamagePart       `json:"damage,omitempty"`
	DamageMode  DamageMode         `json:"damageMode"`
	EffectIDs   []string           `json:"effectIds,omitempty"`
	Target      ability.Target     `json:"target"`
	Range       ability.Range      `json:"range"`
}

// ItemUses captures a usage limit on the item record
type ItemUses struct {
	Max      int    `json:"max"`
	Per      string `json:"per"`      // "charges", "day", "sr", "lr"
	Recovery string `json:"recovery"` // Recharge formula, e.g. "1d6 >= 5"
}

// ItemRecord is the top-level item in the automation artifact
type ItemRecord struct {
	Name        string             `json:"name"`
	Type        ItemType           `json:"type"`
	Description string             `json:"description"`
	Activation  ability.Activation `json:"activation"`
	Activities  []Activity         `json:"activities,omitempty"`
	Uses        *ItemUses          `json:"uses,omitempty"`
	State       map[string]any     `json:"state,omitempty"` // Item-state patches from enhancement passes
}

// Change is one mechanical modification an effect applies
type Change struct {
	Key   string `json:"key"`
	Mode  string `json:"mode"` // "add", "override", "upgrade"
	Value string `json:"value"`
}

// FlagBundle is the compatibility-flag tree consumed by external automation
// integrations. Object-valued keys deep-merge; scalar leaves take the later
// source.
type FlagBundle map[string]any

// EffectDescriptor is a persistent-state change applied to an actor
type EffectDescriptor struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Changes  []Change          `json:"changes,omitempty"`
	Duration ability.Duration  `json:"duration"`
	Statuses []string          `json:"statuses,omitempty"`
	Flags    FlagBundle        `json:"flags,omitempty"`
	ParentID string            `json:"parentId,omitempty"` // Linked-effect chains and ongoing effects
}

// Artifact is the full automation output for one ability. It is
// reconstructed fresh per conversion call; enhancement passes never mutate
// it in place but produce Partial values that are merged.
type Artifact struct {
	Item       ItemRecord         `json:"itemRecord"`
	Effects    []EffectDescriptor `json:"effectList"`
	Flags      FlagBundle         `json:"flagBundle"`
	Scripts    []string           `json:"behaviorScripts"`
	Complexity int                `json:"complexityTier"`
	Quality    float64            `json:"qualityScore"`
	Subsystems []string           `json:"appliedSubsystems"`
}

// Partial is one enhancement pass's contribution, merged into the base
// artifact by the orchestrator
type Partial struct {
	Subsystem  string
	Effects    []EffectDescriptor
	Flags      FlagBundle
	Scripts    []string
	ItemState  map[string]any
	Complexity int
}

// ValidateEffectReferences enforces the identifier correlation invariant:
// every effect identifier referenced by an activity must exist in the
// artifact's top-level effect list.
func (a *Artifact) ValidateEffectReferences() error {
	known := make(map[string]bool, len(a.Effects))
	for _, e := range a.Effects {
		known[e.ID] = true
	}

	for _, act := range a.Item.Activities {
		for _, id := range act.EffectIDs {
			if !known[id] {
				return fmt.Errorf("activity %s references unknown effect id %s", act.ID, id)
			}
		}
	}
	return nil
}

// EffectIDs is the single source of truth for effect identifiers within one
// conversion. All identifiers are generated up front, before any activity or
// pass runs; passes consume these identifiers and never mint their own.
type EffectIDs struct {
	primary    string
	ongoing    string
	conditions map[ability.ConditionKind]string
}

// NewEffectIDs pre-generates every identifier the conversion may need
func NewEffectIDs(gen uuid.Generator, d *ability.Descriptor) *EffectIDs {
	ids := &EffectIDs{
		primary:    gen.New(),
		ongoing:    gen.New(),
		conditions: make(map[ability.ConditionKind]string, len(d.Conditions)),
	}
	for _, c := range d.Conditions {
		if _, exists := ids.conditions[c.Kind]; !exists {
			ids.conditions[c.Kind] = gen.New()
		}
	}
	return ids
}

// Primary returns the identifier for the ability's primary effect
func (e *EffectIDs) Primary() string {
	return e.primary
}

// Ongoing returns the identifier reserved for a recurring turn-based effect
func (e *EffectIDs) Ongoing() string {
	return e.ongoing
}

// Condition returns the identifier for a condition effect
func (e *EffectIDs) Condition(kind ability.ConditionKind) (string, bool) {
	id, ok := e.conditions[kind]
	return id, ok
}

// ConditionIDs returns the condition identifiers in the descriptor's
// condition order
func (e *EffectIDs) ConditionIDs(d *ability.Descriptor) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range d.Conditions {
		if id, ok := e.conditions[c.Kind]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
