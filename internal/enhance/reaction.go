package enhance

import (
	"regexp"
	"strings"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// reactionTrigger is one entry in the reaction trigger taxonomy. Priority
// orders competing reactions on the same hook; lower fires first.
type reactionTrigger struct {
	kind      string
	hook      string
	priority  int
	predicate string
	re        *regexp.Regexp
}

var reactionTaxonomy = []reactionTrigger{
	{
		kind:      "opportunity_attack",
		hook:      "onTargetLeaveReach",
		priority:  10,
		predicate: "state.mover.leavingReach(actor)",
		re:        regexp.MustCompile(`(?i)opportunity\s+attack|leaves?\s+(?:its|your|the\s+\w+'s)\s+reach`),
	},
	{
		kind:      "damage_taken",
		hook:      "onDamaged",
		priority:  20,
		predicate: "state.damage.target === actor",
		re:        regexp.MustCompile(`(?i)takes?\s+damage|damaged\s+by`),
	},
	{
		kind:      "being_attacked",
		hook:      "onAttacked",
		priority:  30,
		predicate: "state.attack.target === actor",
		re:        regexp.MustCompile(`(?i)hits?\s+(?:it|you|the\s+\w+)\s+with|is\s+hit\s+by|targeted\s+by\s+an\s+attack|attacks?\s+(?:it|you)\b`),
	},
	{
		kind:      "target_moves",
		hook:      "onTargetMove",
		priority:  40,
		predicate: "state.mover.visibleTo(actor)",
		re:        regexp.MustCompile(`(?i)creature\s+(?:it|you)\s+can\s+see\s+moves|moves?\s+within`),
	},
	{
		kind:      "spell_cast",
		hook:      "onSpellCast",
		priority:  50,
		predicate: "state.spell.caster !== actor",
		re:        regexp.MustCompile(`(?i)casts?\s+a\s+spell`),
	},
}

// Reaction binds a reaction ability to its trigger taxonomy entry: hook,
// priority, and validation predicate, plus round-scoped consumption state
// and a confirmation dialog so the player opts in per trigger.
func Reaction(d *ability.Descriptor, _ *synthesis.EffectIDs) (*synthesis.Partial, error) {
	if d.Activation.Type != ability.ActivationReaction {
		return nil, nil
	}

	trigger := matchTrigger(d)

	partial := &synthesis.Partial{
		Complexity: 4,
		Flags: synthesis.FlagBundle{
			"reaction": synthesis.FlagBundle{
				"trigger":      trigger.kind,
				"hook":         trigger.hook,
				"priority":     trigger.priority,
				"predicate":    trigger.predicate,
				"usesPerRound": 1,
				"confirm":      true,
			},
		},
		ItemState: map[string]any{
			"reaction": map[string]any{"usedThisRound": false},
		},
	}

	partial.Scripts = []string{
		renderScript(trigger.hook, "fireReaction",
			"const cached = state.roundCache.reactionUsed;",
			guard("!cached && !item.state.reaction.usedThisRound", "reaction already spent this round"),
			guard(trigger.predicate, "trigger predicate not met"),
			"const confirmed = await confirmDialog(actor, item.name);",
			"if (!confirmed) return false;",
			"item.state.reaction.usedThisRound = true;",
			"state.roundCache.reactionUsed = true;",
			"return activate(item);"),
		renderScript("roundStart", "resetReaction",
			"item.state.reaction.usedThisRound = false;",
			"return true;"),
	}

	return partial, nil
}

// matchTrigger scans the taxonomy against the activation trigger text first,
// then the full raw text; the first match wins. A reaction with no
// recognizable trigger defaults to the damage-taken entry.
func matchTrigger(d *ability.Descriptor) reactionTrigger {
	sources := []string{d.Activation.Trigger, d.Raw}
	for _, source := range sources {
		if strings.TrimSpace(source) == "" {
			continue
		}
		for _, t := range reactionTaxonomy {
			if t.re.MatchString(source) {
				return t
			}
		}
	}
	return reactionTaxonomy[1]
}
