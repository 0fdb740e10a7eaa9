package enhance

import (
	"fmt"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Requirements turns detected activation requirements into validation
// scripts, each bound to a named automation hook, plus a requirement flag
// group so hosts without script support can still surface the constraint.
func Requirements(d *ability.Descriptor, _ *synthesis.EffectIDs) (*synthesis.Partial, error) {
	if len(d.Requirements) == 0 {
		return nil, nil
	}

	reqs := synthesis.FlagBundle{}
	var scripts []string

	for _, r := range d.Requirements {
		switch r.Kind {
		case ability.RequireMovement:
			reqs["movement"] = synthesis.FlagBundle{"distance": r.Amount, "hook": "preActivation"}
			scripts = append(scripts, renderScript("preActivation", "validateMovement",
				"const moved = state.movedThisTurn || 0;",
				guard(fmt.Sprintf("moved >= %d", r.Amount),
					fmt.Sprintf("requires %d feet of movement first", r.Amount)),
				"return true;"))
		case ability.RequireVisibility:
			reqs["visibility"] = synthesis.FlagBundle{"hook": "preTarget"}
			scripts = append(scripts, renderScript("preTarget", "validateVisibility",
				guard("actor.canSee(state.target)", "target must be visible"),
				"return true;"))
		case ability.RequireDamageTaken:
			reqs["damage_taken"] = synthesis.FlagBundle{"hook": "onDamaged"}
			scripts = append(scripts, renderScript("onDamaged", "validateDamageTrigger",
				guard("state.trigger === 'damage'", "only usable after taking damage"),
				"return true;"))
		case ability.RequireRecharge:
			reqs["recharge"] = synthesis.FlagBundle{"hook": "preActivation"}
			scripts = append(scripts, renderScript("preActivation", "validateCharged",
				guard("item.uses.value > 0", "ability has not recharged"),
				"return true;"))
		}
	}

	if len(reqs) == 0 {
		return nil, nil
	}

	return &synthesis.Partial{
		Flags:   synthesis.FlagBundle{"requirements": reqs},
		Scripts: scripts,
	}, nil
}
