package enhance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Recharge automation covers three archetypes: fixed-threshold dice
// recharge, limited uses per rest or day, and conditionally triggered
// recharge. Each yields an item-state patch, a rolling or checking script,
// and a scheduling hook so the host knows when to run it.

var conditionalRechargeRe = regexp.MustCompile(`(?i)regains?\s+(?:the\s+use\s+of|all\s+expended)[^.]*\bwhen\b([^.]*)`)

// Recharge emits the recharge automation for the descriptor's resource
func Recharge(d *ability.Descriptor, _ *synthesis.EffectIDs) (*synthesis.Partial, error) {
	if d.Resource == nil {
		return nil, nil
	}

	partial := &synthesis.Partial{Complexity: 2}

	switch d.Resource.Kind {
	case ability.ResourceRecharge:
		threshold := d.Resource.RechargeMin
		partial.ItemState = map[string]any{
			"recharge": map[string]any{
				"formula":   "1d6",
				"threshold": threshold,
				"charged":   true,
			},
		}
		partial.Flags = synthesis.FlagBundle{
			"recharge": synthesis.FlagBundle{"kind": "dice", "threshold": threshold, "hook": "turnStart"},
		}
		partial.Scripts = []string{renderScript("turnStart", "rollRecharge",
			"const cached = state.roundCache.recharge;",
			"if (cached !== undefined) return cached;",
			guard("!item.state.recharge.charged", "already charged"),
			"const roll = await rollDice('1d6');",
			fmt.Sprintf("item.state.recharge.charged = roll >= %d;", threshold),
			"state.roundCache.recharge = item.state.recharge.charged;",
			"return item.state.recharge.charged;")}

	case ability.ResourcePerDay:
		partial.ItemState = map[string]any{
			"uses": map[string]any{"value": d.Resource.Uses, "max": d.Resource.Uses},
		}
		partial.Flags = synthesis.FlagBundle{
			"recharge": synthesis.FlagBundle{"kind": "per_day", "uses": d.Resource.Uses, "hook": "dawn"},
		}
		partial.Scripts = []string{renderScript("dawn", "restoreDailyUses",
			"item.state.uses.value = item.state.uses.max;",
			"return true;")}

	case ability.ResourcePerRest:
		hook := "shortRestCompleted"
		kind := "per_short_rest"
		if d.Resource.Rest == ability.RestLong {
			hook = "longRestCompleted"
			kind = "per_long_rest"
		}
		partial.ItemState = map[string]any{
			"uses": map[string]any{"value": d.Resource.Uses, "max": d.Resource.Uses},
		}
		partial.Flags = synthesis.FlagBundle{
			"recharge": synthesis.FlagBundle{"kind": kind, "uses": d.Resource.Uses, "hook": hook},
		}
		partial.Scripts = []string{renderScript(hook, "restoreRestUses",
			"item.state.uses.value = item.state.uses.max;",
			"return true;")}

	default:
		return nil, nil
	}

	if m := conditionalRechargeRe.FindStringSubmatch(d.Raw); m != nil {
		rc := partial.Flags["recharge"].(synthesis.FlagBundle)
		rc["condition"] = normalizeCondition(m[1])
		rc["conditionHook"] = "onGameEvent"
		partial.Scripts = append(partial.Scripts, renderScript("onGameEvent", "checkConditionalRecharge",
			guard("state.event !== undefined", "no event to inspect"),
			"if (matchesRechargeCondition(state.event)) item.state.recharge.charged = true;",
			"return true;"))
	}

	return partial, nil
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalizeCondition(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
