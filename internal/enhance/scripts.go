package enhance

import (
	"fmt"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Archetype-keyed behavior-script templating. The descriptor is mapped to a
// workflow archetype and the matching multi-phase script template is
// rendered. Unrecognized shapes get no script rather than a generic one.

type archetype string

const (
	archAttackThenSave archetype = "attack_then_save"
	archAreaSave       archetype = "area_save"
	archSaveOrSuffer   archetype = "save_or_suffer"
	archHeal           archetype = "heal"
)

// Scripts renders the multi-phase workflow script for the descriptor's
// archetype
func Scripts(d *ability.Descriptor, _ *synthesis.EffectIDs) (*synthesis.Partial, error) {
	arch, ok := classifyArchetype(d)
	if !ok {
		return nil, nil
	}

	var script string
	switch arch {
	case archAttackThenSave:
		save := d.PrimarySave()
		script = renderScript("onActivation", "attackThenSave",
			"const hit = await rollAttack(actor, item);",
			guard("hit !== undefined", "attack roll was cancelled"),
			"if (!hit) return false;",
			"await applyDamage(item.damageParts, state.target);",
			fmt.Sprintf("const saved = await rollSave(state.target, %q, %d);", save.Ability, save.DC),
			"if (!saved) await applyEffects(item.effectIds, state.target);",
			"return true;")
	case archAreaSave:
		save := d.PrimarySave()
		script = renderScript("onActivation", "areaSave",
			"const targets = templateTargets(state.template);",
			guard("targets.length > 0", "no targets in the area"),
			"for (const target of targets) {",
			fmt.Sprintf("  const saved = await rollSave(target, %q, %d);", save.Ability, save.DC),
			fmt.Sprintf("  await applyDamage(item.damageParts, target, { halved: saved && %t });", save.HalfOnSuccess),
			"}",
			"return true;")
	case archSaveOrSuffer:
		save := d.PrimarySave()
		script = renderScript("onActivation", "saveOrSuffer",
			fmt.Sprintf("const saved = await rollSave(state.target, %q, %d);", save.Ability, save.DC),
			"if (!saved) await applyEffects(item.effectIds, state.target);",
			"return true;")
	case archHeal:
		script = renderScript("onActivation", "applyHealing",
			guard("state.target !== undefined", "no target selected"),
			"await applyHealing(item.damageParts, state.target);",
			"return true;")
	}

	return &synthesis.Partial{
		Flags:   synthesis.FlagBundle{"workflow": synthesis.FlagBundle{"archetype": string(arch)}},
		Scripts: []string{script},
	}, nil
}

func classifyArchetype(d *ability.Descriptor) (archetype, bool) {
	switch {
	case d.HasAttack() && d.HasSave():
		return archAttackThenSave, true
	case d.HasSave() && d.Target.Kind == ability.TargetArea:
		return archAreaSave, true
	case d.HasSave() && d.HasConditions():
		return archSaveOrSuffer, true
	case d.Classification == ability.ClassHealing:
		return archHeal, true
	default:
		return "", false
	}
}
