package synthesis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/errors"
	"github.com/KirkDiggler/ability-forge/internal/uuid"
)

// EngineConfig holds dependencies for the base synthesis engine
type EngineConfig struct {
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
}

// Engine maps a semantic model to the base automation artifact: the item
// record, attack/save activities, effect descriptors, and the base flag
// bundle. Effect identifiers are generated before either activity is built
// and threaded into both, so activity references always resolve.
type Engine struct {
	gen uuid.Generator
	log *zap.Logger
}

// NewEngine creates a base synthesis engine
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("cfg cannot be nil")
	}

	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{gen: gen, log: log}, nil
}

// Synthesize builds the base artifact from a descriptor. It returns the
// pre-generated effect identifiers so enhancement passes consume the same
// identifier set. A malformed descriptor yields a coded synthesis error,
// never a panic.
func (e *Engine) Synthesize(d *ability.Descriptor) (*Artifact, *EffectIDs, error) {
	if d == nil {
		return nil, nil, errors.Synthesis("descriptor cannot be nil")
	}
	if strings.TrimSpace(d.Raw) == "" {
		return nil, nil, errors.Synthesis("descriptor has no source text")
	}
	if d.Name == "" {
		return nil, nil, errors.Synthesisf("descriptor for %q has no name", truncate(d.Raw, 40))
	}

	ids := NewEffectIDs(e.gen, d)

	effects := e.buildEffects(d, ids)
	item := e.buildItem(d, ids)
	flags := e.buildFlags(d)

	artifact := &Artifact{
		Item:       item,
		Effects:    effects,
		Flags:      flags,
		Complexity: d.Complexity,
		Subsystems: []string{"base"},
	}

	if err := artifact.ValidateEffectReferences(); err != nil {
		// Identifiers are threaded from one generation step; a failure here
		// is a programming error in the engine, surfaced rather than hidden
		return nil, nil, errors.WrapWithCode(err, errors.CodeSynthesis, "effect reference validation failed")
	}

	return artifact, ids, nil
}

// buildEffects creates the top-level effect list: one effect per detected
// condition, plus a primary effect when the ability grants mechanical
// changes (advantage, resistance, ...)
func (e *Engine) buildEffects(d *ability.Descriptor, ids *EffectIDs) []EffectDescriptor {
	var out []EffectDescriptor

	for _, cond := range d.Conditions {
		id, ok := ids.Condition(cond.Kind)
		if !ok {
			continue
		}
		entry, _ := ability.LookupCondition(cond.Kind)

		effect := EffectDescriptor{
			ID:       id,
			Name:     fmt.Sprintf("%s: %s", d.Name, cond.Display),
			Duration: effectDuration(d),
			Statuses: entry.Statuses,
		}
		if cond.SaveEnds {
			save := d.PrimarySave()
			effect.Flags = FlagBundle{
				"saveEnds": FlagBundle{
					"enabled": true,
					"timing":  string(cond.SaveEndsTiming),
					"ability": saveAbility(save),
					"dc":      saveDC(save),
				},
			}
		}
		out = append(out, effect)
	}

	if changes := e.buildChanges(d); len(changes) > 0 {
		out = append(out, EffectDescriptor{
			ID:       ids.Primary(),
			Name:     d.Name,
			Changes:  changes,
			Duration: effectDuration(d),
		})
	}

	return out
}

func (e *Engine) buildChanges(d *ability.Descriptor) []Change {
	var changes []Change
	for _, eff := range d.Effects {
		switch eff.Kind {
		case ability.EffectAdvantage, ability.EffectDisadvantage:
			key := "grants." + eff.Target
			if eff.Detail != "" {
				key += "." + eff.Detail
			}
			changes = append(changes, Change{Key: key, Mode: "override", Value: string(eff.Kind)})
		case ability.EffectResistance, ability.EffectImmunity, ability.EffectVulnerability:
			changes = append(changes, Change{
				Key:   "defenses." + string(eff.Kind),
				Mode:  "add",
				Value: eff.Target,
			})
		}
	}
	return changes
}

// buildItem selects the item type and builds the activity sub-structures.
// The no-double-damage rule lives here: when an attack activity exists, any
// save activity has its damage suppressed - the attack alone carries damage,
// the save alone carries condition application.
func (e *Engine) buildItem(d *ability.Descriptor, ids *EffectIDs) ItemRecord {
	itemType := ItemFeature
	if d.Classification == ability.ClassWeaponAttack {
		itemType = ItemWeapon
	}

	item := ItemRecord{
		Name:        d.Name,
		Type:        itemType,
		Description: d.Raw,
		Activation:  d.Activation,
		Uses:        buildUses(d.Resource),
	}

	conditionIDs := ids.ConditionIDs(d)

	if d.HasAttack() {
		attack := Activity{
			ID:          e.gen.New(),
			Kind:        ActivityAttack,
			Name:        d.Name,
			AttackType:  d.Attack.Type,
			AttackBonus: d.Attack.Bonus,
			Damage:      damageParts(d),
			DamageMode:  DamageModeFull,
			Target:      d.Target,
			Range:       d.Range,
		}
		// An attack applies its conditions on hit
		if !d.HasSave() {
			attack.EffectIDs = conditionIDs
		}
		item.Activities = append(item.Activities, attack)
	}

	if save := d.PrimarySave(); save != nil {
		activity := Activity{
			ID:         e.gen.New(),
			Kind:       ActivitySave,
			Name:       d.Name,
			Save:       save,
			DamageMode: DamageModeFull,
			EffectIDs:  conditionIDs,
			Target:     d.Target,
			Range:      d.Range,
		}
		if d.HasAttack() {
			activity.DamageMode = DamageModeSuppressed
		} else {
			activity.Damage = damageParts(d)
		}
		item.Activities = append(item.Activities, activity)
	}

	return item
}

// buildFlags synthesizes the base compatibility-flag bundle
func (e *Engine) buildFlags(d *ability.Descriptor) FlagBundle {
	flags := FlagBundle{}

	grants := FlagBundle{}
	for _, eff := range d.Effects {
		switch eff.Kind {
		case ability.EffectAdvantage, ability.EffectDisadvantage:
			target := FlagBundle{}
			if existing, ok := asBundle(grants[eff.Target]); ok {
				target = existing
			}
			detail := eff.Detail
			if detail == "" {
				detail = "all"
			}
			target[detail] = string(eff.Kind)
			grants[eff.Target] = target
		case ability.EffectResistance, ability.EffectImmunity:
			defenses := FlagBundle{}
			if existing, ok := asBundle(flags["defenses"]); ok {
				defenses = existing
			}
			kinds := FlagBundle{}
			if existing, ok := asBundle(defenses[string(eff.Kind)]); ok {
				kinds = existing
			}
			kinds[eff.Target] = true
			defenses[string(eff.Kind)] = kinds
			flags["defenses"] = defenses
		}
	}
	if len(grants) > 0 {
		flags["grants"] = grants
	}

	if save := d.PrimarySave(); save != nil {
		flags["save"] = FlagBundle{
			"ability":    save.Ability,
			"dc":         save.DC,
			"halfDamage": save.HalfOnSuccess,
		}
	}

	if d.HasAttack() && d.HasSave() {
		flags["workflow"] = FlagBundle{
			"attackThenSave":  true,
			"saveDamageMode":  string(DamageModeSuppressed),
			"conditionOnSave": d.HasConditions(),
		}
	}

	return flags
}

func buildUses(r *ability.Resource) *ItemUses {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case ability.ResourceRecharge:
		return &ItemUses{
			Max:      1,
			Per:      "charges",
			Recovery: fmt.Sprintf("1d6 >= %d", r.RechargeMin),
		}
	case ability.ResourcePerDay:
		return &ItemUses{Max: r.Uses, Per: "day"}
	case ability.ResourcePerRest:
		per := "sr"
		if r.Rest == ability.RestLong {
			per = "lr"
		}
		return &ItemUses{Max: r.Uses, Per: per}
	default:
		return nil
	}
}

func damageParts(d *ability.Descriptor) []DamagePart {
	var parts []DamagePart
	for _, dmg := range d.Damage {
		parts = append(parts, DamagePart{Formula: dmg.Formula, Type: dmg.Type, Healing: dmg.Healing})
	}
	return parts
}

// effectDuration defaults instantaneous abilities that apply conditions to a
// one-round effect so the condition actually persists on the target
func effectDuration(d *ability.Descriptor) ability.Duration {
	if d.Duration.Kind == ability.DurationInstant && len(d.Conditions) > 0 {
		return ability.Duration{Kind: ability.DurationRounds, Rounds: 1}
	}
	return d.Duration
}

func saveAbility(s *ability.Save) string {
	if s == nil {
		return ""
	}
	return s.Ability
}

func saveDC(s *ability.Save) int {
	if s == nil {
		return 0
	}
	return s.DC
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
