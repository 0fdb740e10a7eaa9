package enhance

import (
	"fmt"
	"regexp"

	"github.com/KirkDiggler/ability-forge/internal/dice"
	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Ongoing-effect tracking: recurring damage or healing applied at the start
// or end of the target's turn, and repeated-save loops for save-ends
// conditions. Recurring effects link to their parent condition and stop when
// an end condition fires.

var recurringHealRe = regexp.MustCompile(`(?i)regains?\s+(\d+)?\s*\(?(\d+d\d+(?:\s*[+-]\s*\d+)?)\)?\s+hit\s+points?\s+at\s+the\s+(start|end)\s+of\s+each`)

// Ongoing emits turn-loop automation: a recurring damage or heal effect on
// the reserved ongoing identifier, and save-repeat scripts for save-ends
// conditions.
func Ongoing(d *ability.Descriptor, ids *synthesis.EffectIDs) (*synthesis.Partial, error) {
	partial := &synthesis.Partial{}

	parentID := firstConditionID(d, ids)

	if m := recurringDmgRe.FindStringSubmatch(d.Raw); m != nil {
		partial.Effects = append(partial.Effects, ongoingEffect(d, ids, parentID, "damage", dice.Normalize(m[2]), m[4]))
		partial.Scripts = append(partial.Scripts, tickScript("damage", dice.Normalize(m[2]), m[4]))
		partial.Complexity = 3
	} else if m := recurringHealRe.FindStringSubmatch(d.Raw); m != nil {
		partial.Effects = append(partial.Effects, ongoingEffect(d, ids, parentID, "heal", dice.Normalize(m[2]), m[3]))
		partial.Scripts = append(partial.Scripts, tickScript("heal", dice.Normalize(m[2]), m[3]))
		partial.Complexity = 3
	}

	for _, cond := range d.Conditions {
		if !cond.SaveEnds {
			continue
		}
		id, ok := ids.Condition(cond.Kind)
		if !ok {
			continue
		}
		save := d.PrimarySave()
		hook := "turnEnd"
		if cond.SaveEndsTiming == ability.TimingStartOfTurn {
			hook = "turnStart"
		}
		partial.Scripts = append(partial.Scripts, renderScript(hook, "repeatSave",
			fmt.Sprintf("const effect = state.target.effects.get(%q);", id),
			guard("effect !== undefined", "condition already removed"),
			fmt.Sprintf("const saved = await rollSave(state.target, %q, %d);", saveAbilityName(save), saveDCValue(save)),
			"if (saved) await removeEffect(effect);",
			"return true;"))
	}

	if len(partial.Effects) == 0 && len(partial.Scripts) == 0 {
		return nil, nil
	}
	return partial, nil
}

func ongoingEffect(d *ability.Descriptor, ids *synthesis.EffectIDs, parentID, kind, formula, timing string) synthesis.EffectDescriptor {
	ends := []string{"target_unconscious"}
	if kind == "heal" {
		ends = []string{"full_health"}
	}
	if parentID != "" {
		ends = append(ends, "parent_removed")
	}
	return synthesis.EffectDescriptor{
		ID:       ids.Ongoing(),
		Name:     d.Name + ": Ongoing " + kind,
		ParentID: parentID,
		Duration: d.Duration,
		Flags: synthesis.FlagBundle{
			"ongoing": synthesis.FlagBundle{
				"type":    kind,
				"formula": formula,
				"timing":  timingWord(timing),
				"ends":    ends,
			},
		},
	}
}

func tickScript(kind, formula, timing string) string {
	hook := "turnEnd"
	if timingWord(timing) == string(ability.TimingStartOfTurn) {
		hook = "turnStart"
	}
	apply := "applyDamage"
	stop := "state.target.hp.value <= 0"
	if kind == "heal" {
		apply = "applyHealing"
		stop = "state.target.hp.value >= state.target.hp.max"
	}
	return renderScript(hook, "ongoingTick",
		guard("state.target !== undefined", "effect has no target"),
		fmt.Sprintf("if (%s) return removeEffect(state.effect);", stop),
		fmt.Sprintf("const roll = await rollDice(%q);", formula),
		fmt.Sprintf("await %s(roll, state.target);", apply),
		"return true;")
}

func timingWord(w string) string {
	if w == "start" {
		return string(ability.TimingStartOfTurn)
	}
	return string(ability.TimingEndOfTurn)
}

func firstConditionID(d *ability.Descriptor, ids *synthesis.EffectIDs) string {
	for _, cond := range d.Conditions {
		if id, ok := ids.Condition(cond.Kind); ok {
			return id
		}
	}
	return ""
}

func saveAbilityName(s *ability.Save) string {
	if s == nil {
		return ""
	}
	return s.Ability
}

func saveDCValue(s *ability.Save) int {
	if s == nil {
		return 0
	}
	return s.DC
}
