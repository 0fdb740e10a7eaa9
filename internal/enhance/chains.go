package enhance

import (
	"regexp"

	"github.com/KirkDiggler/ability-forge/internal/dice"
	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Linked-effect chains are recognized by fixed textual signatures, not
// general inference. Each signature maps to a pre-defined state-transition
// sequence whose steps reference the identifiers generated for the base
// artifact, so the chain and the save activity share the same effects.

var (
	grappleChainRe = regexp.MustCompile(`(?is)grappled\b.*\brestrained\b`)
	recurringDmgRe = regexp.MustCompile(`(?i)(\d+)?\s*\(?(\d+d\d+(?:\s*[+-]\s*\d+)?)\)?\s+(\w+)\s+damage\s+at\s+the\s+(start|end)\s+of\s+each`)
)

// Chains detects linked-effect chains and emits the linkage: child effects
// gain a parent identifier and recurring damage rides the reserved ongoing
// identifier. Chains raise the complexity floor to tier 3.
func Chains(d *ability.Descriptor, ids *synthesis.EffectIDs) (*synthesis.Partial, error) {
	if !grappleChainRe.MatchString(d.Raw) {
		return nil, nil
	}

	parentID, ok := ids.Condition(ability.CondGrappled)
	if !ok {
		return nil, nil
	}

	steps := []string{"grappled", "restrained"}
	partial := &synthesis.Partial{Complexity: 3}

	var effects []synthesis.EffectDescriptor
	if m := recurringDmgRe.FindStringSubmatch(d.Raw); m != nil {
		timing := ability.TimingStartOfTurn
		if m[4] == "end" {
			timing = ability.TimingEndOfTurn
		}
		effects = append(effects, synthesis.EffectDescriptor{
			ID:       ids.Ongoing(),
			Name:     d.Name + ": Ongoing Damage",
			ParentID: parentID,
			Duration: d.Duration,
			Flags: synthesis.FlagBundle{
				"ongoing": synthesis.FlagBundle{
					"type":    "damage",
					"formula": dice.Normalize(m[2]),
					"damage":  m[3],
					"timing":  string(timing),
					"ends":    []string{"parent_removed"},
				},
			},
		})
		steps = append(steps, "ongoing_damage")
	}

	partial.Effects = effects
	partial.Flags = synthesis.FlagBundle{
		"chains": synthesis.FlagBundle{
			"grapple": synthesis.FlagBundle{
				"parent": parentID,
				"steps":  steps,
			},
		},
	}
	return partial, nil
}
