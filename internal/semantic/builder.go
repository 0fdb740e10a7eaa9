package semantic

import (
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/ability-forge/internal/dice"
	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/errors"
	"github.com/KirkDiggler/ability-forge/internal/extraction"
)

const (
	// bonusActionWindow bounds how far into the text a "bonus action" phrase
	// still counts as the ability's own activation. Later occurrences tend to
	// be prose enumerations of other options, not this ability's cost.
	bonusActionWindow = 50

	maxHeaderLength   = 48
	maxShortFirstLine = 32

	defaultName  = "Unnamed Ability"
	defaultRange = 5
)

// BuilderConfig holds dependencies for the model builder
type BuilderConfig struct {
	Registry *extraction.Registry
	Logger   *zap.Logger
}

// Builder turns raw ability text into an ability.Descriptor. It consumes
// extracted facts, resolves conflicts by pattern priority, infers the
// classification, and computes the baseline complexity tier.
type Builder struct {
	registry *extraction.Registry
	log      *zap.Logger
}

// NewBuilder creates a model builder
func NewBuilder(cfg *BuilderConfig) (*Builder, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("cfg cannot be nil")
	}
	if cfg.Registry == nil {
		return nil, errors.InvalidArgument("cfg.Registry cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Builder{registry: cfg.Registry, log: log}, nil
}

// Build extracts facts from the text and resolves them into a descriptor.
// nameOverride, when non-empty, wins over any name found in the text.
func (b *Builder) Build(text, nameOverride string) (*ability.Descriptor, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidArgument("ability text cannot be empty")
	}

	facts := b.registry.Extract(text)

	d := &ability.Descriptor{
		Name: resolveName(text, nameOverride),
		Raw:  text,
	}

	d.Attack = resolveAttack(facts)
	d.Saves = resolveSaves(facts)
	d.Damage = resolveDamage(facts)
	d.Effects = resolveEffects(facts)
	d.Resource = resolveResource(facts)
	d.Target = resolveTarget(facts)
	d.Duration = resolveDuration(facts)
	d.Range = resolveRange(facts)
	d.Conditions = DetectConditions(text, conditionTrigger(d))
	d.Requirements = resolveRequirements(facts, d.Resource)

	hasActivation := false
	d.Activation, hasActivation = resolveActivation(text, facts)

	d.Classification = classify(d, hasActivation)
	d.Complexity = baselineComplexity(d)

	return d, nil
}

// resolveName: colon-delimited header, then a bounded period-delimited
// header, then a short first line, then the placeholder
func resolveName(text, override string) string {
	if override != "" {
		return override
	}

	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	firstLine = strings.TrimSpace(firstLine)

	if i := strings.IndexByte(firstLine, ':'); i > 0 && i <= maxHeaderLength {
		return tidyName(firstLine[:i])
	}

	if i := strings.IndexByte(firstLine, '.'); i > 0 && i <= maxHeaderLength {
		return tidyName(firstLine[:i])
	}

	if len(firstLine) > 0 && len(firstLine) <= maxShortFirstLine {
		return tidyName(firstLine)
	}

	return defaultName
}

// tidyName strips a trailing parenthetical such as "(Recharge 5-6)"
func tidyName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, '('); i > 0 && strings.HasSuffix(name, ")") {
		name = strings.TrimSpace(name[:i])
	}
	if name == "" {
		return defaultName
	}
	return name
}

func resolveAttack(facts map[string][]extraction.Fact) *ability.Attack {
	list := facts[extraction.PatternAttackRoll]
	if len(list) == 0 {
		return nil
	}
	fact := list[0].Value.(extraction.AttackFact)

	attack := &ability.Attack{Type: fact.Type, Bonus: fact.Bonus}
	if reach, ok := firstValue[extraction.ReachFact](facts, extraction.PatternReach); ok {
		attack.Reach = reach.Feet
	}
	return attack
}

func resolveSaves(facts map[string][]extraction.Fact) []ability.Save {
	var saves []ability.Save
	seen := make(map[string]bool)

	halfOnSave := len(facts[extraction.PatternHalfOnSave]) > 0

	for _, f := range facts[extraction.PatternSaveDC] {
		sf := f.Value.(extraction.SaveFact)
		key := sf.Ability
		if seen[key] {
			continue
		}
		seen[key] = true
		saves = append(saves, ability.Save{
			Ability:       sf.Ability,
			DC:            sf.DC,
			HalfOnSuccess: halfOnSave,
		})
	}
	return saves
}

// resolveDamage unions averaged and simple formula matches, de-duplicated by
// the normalized formula string. Averaged-format entries take precedence.
func resolveDamage(facts map[string][]extraction.Fact) []ability.Damage {
	var out []ability.Damage
	seen := make(map[string]bool)

	add := func(df extraction.DamageFact) {
		key := df.Formula
		if seen[key] {
			return
		}
		seen[key] = true

		avg := df.Average
		if avg == 0 {
			if f, err := dice.ParseFormula(df.Formula); err == nil {
				avg = f.Average()
			}
		}
		out = append(out, ability.Damage{
			Formula: df.Formula,
			Type:    df.Type,
			Average: avg,
			Healing: df.Healing,
		})
	}

	for _, f := range facts[extraction.PatternAveragedDamage] {
		add(f.Value.(extraction.DamageFact))
	}
	for _, f := range facts[extraction.PatternHealing] {
		add(f.Value.(extraction.DamageFact))
	}
	for _, f := range facts[extraction.PatternSimpleDamage] {
		add(f.Value.(extraction.DamageFact))
	}
	return out
}

func resolveEffects(facts map[string][]extraction.Fact) []ability.Effect {
	var out []ability.Effect

	for _, f := range facts[extraction.PatternGrant] {
		gf := f.Value.(extraction.GrantFact)
		out = append(out, ability.Effect{Kind: gf.Kind, Target: gf.Target, Detail: gf.Detail})
	}
	for _, f := range facts[extraction.PatternMitigation] {
		mf := f.Value.(extraction.MitigationFact)
		out = append(out, ability.Effect{Kind: mf.Kind, Target: mf.DamageType})
	}
	return out
}

func resolveResource(facts map[string][]extraction.Fact) *ability.Resource {
	for _, name := range []string{extraction.PatternRecharge, extraction.PatternPerDay, extraction.PatternPerRest} {
		if rf, ok := firstValue[extraction.ResourceFact](facts, name); ok {
			r := ability.Resource{
				Kind:        rf.Kind,
				Uses:        rf.Uses,
				RechargeMin: rf.RechargeMin,
				RechargeMax: rf.RechargeMax,
				Rest:        rf.Rest,
			}
			return &r
		}
	}
	return nil
}

// resolveTarget: explicit creature count, then a self phrase, then an area
// shape, then a single creature
func resolveTarget(facts map[string][]extraction.Fact) ability.Target {
	if tc, ok := firstValue[extraction.TargetCountFact](facts, extraction.PatternTargetCount); ok {
		return ability.Target{Kind: ability.TargetCreatures, Count: tc.Count}
	}
	if len(facts[extraction.PatternSelfTarget]) > 0 {
		return ability.Target{Kind: ability.TargetSelf}
	}
	for _, name := range []string{extraction.PatternAreaLine, extraction.PatternAreaCone, extraction.PatternAreaRadius} {
		if af, ok := firstValue[extraction.AreaFact](facts, name); ok {
			return ability.Target{Kind: ability.TargetArea, Shape: af.Shape, Size: af.Size, Width: af.Width}
		}
	}
	return ability.Target{Kind: ability.TargetCreatures, Count: 1}
}

// resolveDuration: instantaneous, then concentration, then an explicit round
// count, then instantaneous as the fallback
func resolveDuration(facts map[string][]extraction.Fact) ability.Duration {
	if len(facts[extraction.PatternInstantaneous]) > 0 {
		return ability.Duration{Kind: ability.DurationInstant}
	}
	if len(facts[extraction.PatternConcentration]) > 0 {
		return ability.Duration{Kind: ability.DurationConcentration, Concentration: true}
	}
	if df, ok := firstValue[extraction.DurationFact](facts, extraction.PatternDurationRounds); ok {
		return ability.Duration{Kind: ability.DurationRounds, Rounds: df.Rounds}
	}
	if df, ok := firstValue[extraction.DurationFact](facts, extraction.PatternDurationMinutes); ok {
		return ability.Duration{Kind: ability.DurationMinutes, Minutes: df.Minutes}
	}
	return ability.Duration{Kind: ability.DurationInstant}
}

// resolveRange: touch, then self, then an explicit distance, then 5 feet
func resolveRange(facts map[string][]extraction.Fact) ability.Range {
	if len(facts[extraction.PatternRangeTouch]) > 0 {
		return ability.Range{Kind: ability.RangeTouch}
	}
	if len(facts[extraction.PatternRangeSelf]) > 0 {
		return ability.Range{Kind: ability.RangeSelf}
	}
	if rf, ok := firstValue[extraction.RangeFact](facts, extraction.PatternRangeDistance); ok {
		return ability.Range{Kind: ability.RangeDistance, Distance: rf.Distance}
	}
	if reach, ok := firstValue[extraction.ReachFact](facts, extraction.PatternReach); ok {
		return ability.Range{Kind: ability.RangeDistance, Distance: reach.Feet}
	}
	return ability.Range{Kind: ability.RangeDistance, Distance: defaultRange}
}

// resolveActivation: reaction wins, then a bonus action inside the opening
// window, then an action phrase, then action as the default. The second
// return reports whether any activation pattern matched at all, which the
// classifier needs to detect passives.
func resolveActivation(text string, facts map[string][]extraction.Fact) (ability.Activation, bool) {
	if af, ok := firstValue[extraction.ActivationFact](facts, extraction.PatternReaction); ok {
		return ability.Activation{Type: ability.ActivationReaction, Cost: 1, Trigger: af.Trigger}, true
	}

	if bonus := facts[extraction.PatternBonusAction]; len(bonus) > 0 {
		idx := strings.Index(strings.ToLower(text), "bonus action")
		if idx >= 0 && idx < bonusActionWindow {
			return ability.Activation{Type: ability.ActivationBonus, Cost: 1}, true
		}
	}

	if len(facts[extraction.PatternAction]) > 0 {
		return ability.Activation{Type: ability.ActivationAction, Cost: 1}, true
	}

	return ability.Activation{Type: ability.ActivationAction, Cost: 1}, false
}

func conditionTrigger(d *ability.Descriptor) string {
	switch {
	case len(d.Saves) > 0:
		return "failed_save"
	case d.Attack != nil:
		return "hit"
	default:
		return ""
	}
}

func resolveRequirements(facts map[string][]extraction.Fact, res *ability.Resource) []ability.Requirement {
	var out []ability.Requirement

	if list := facts[extraction.PatternMoveRequirement]; len(list) > 0 {
		mf := list[0].Value.(extraction.MovementRequirementFact)
		out = append(out, ability.Requirement{Kind: ability.RequireMovement, Amount: mf.Feet, Raw: list[0].Span})
	}
	if list := facts[extraction.PatternVisibility]; len(list) > 0 {
		out = append(out, ability.Requirement{Kind: ability.RequireVisibility, Raw: list[0].Span})
	}
	if list := facts[extraction.PatternDamageTrigger]; len(list) > 0 {
		out = append(out, ability.Requirement{Kind: ability.RequireDamageTaken, Raw: list[0].Span})
	}
	if res != nil && res.Kind == ability.ResourceRecharge {
		out = append(out, ability.Requirement{Kind: ability.RequireRecharge})
	}
	return out
}

// classify applies the classification precedence: weapon attack, spell
// attack, save, healing, reaction, passive (no activation pattern at all),
// and finally utility
func classify(d *ability.Descriptor, hasActivation bool) ability.Classification {
	if d.Attack != nil {
		if d.Attack.Type.IsWeapon() {
			return ability.ClassWeaponAttack
		}
		return ability.ClassSpellAttack
	}
	if len(d.Saves) > 0 {
		return ability.ClassSave
	}
	for _, dmg := range d.Damage {
		if dmg.Healing {
			return ability.ClassHealing
		}
	}
	if d.Activation.Type == ability.ActivationReaction {
		return ability.ClassReaction
	}
	if !hasActivation {
		return ability.ClassPassive
	}
	return ability.ClassUtility
}

// baselineComplexity scores the tier the base synthesis engine starts from
func baselineComplexity(d *ability.Descriptor) int {
	tier := ability.MinComplexity

	if len(d.Conditions) > 0 {
		tier++
	}
	if len(d.Damage) > 1 {
		tier++
	}
	if d.Activation.Type == ability.ActivationReaction {
		tier = ability.MaxComplexity
	}
	if len(d.Effects) > 1 {
		tier++
	}
	if len(d.Saves) > 0 && len(d.Effects) > 0 {
		tier++
	}
	if d.Resource != nil {
		tier++
	}

	if tier > ability.MaxComplexity {
		tier = ability.MaxComplexity
	}
	return tier
}

func firstValue[T any](facts map[string][]extraction.Fact, name string) (T, bool) {
	var zero T
	list := facts[name]
	if len(list) == 0 {
		return zero, false
	}
	v, ok := list[0].Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
