package enhance

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Movement-attack pattern integration. Four archetypes, each recognized by a
// fixed textual signature and expanded into a stepwise activation sequence
// with one script per step.

var (
	flybyRe          = regexp.MustCompile(`(?i)doesn'?t\s+provoke\s+opportunity\s+attacks?\s+when\s+it\s+flies`)
	chargeRe         = regexp.MustCompile(`(?i)moves?\s+at\s+least\s+(\d+)\s+f(?:ee|oo)?t\s+straight\s+toward`)
	attackThenMoveRe = regexp.MustCompile(`(?i)(?:can\s+)?moves?\s+(?:up\s+to\s+(?:its\s+speed|\d+\s+f(?:ee|oo)?t))?[^.]*after\s+(?:it|the)\s+attack`)
)

type movementPattern struct {
	archetype string
	steps     []string
}

// MovementAttack detects the movement archetype and emits the stepwise
// sequence plus per-step scripts
func MovementAttack(d *ability.Descriptor, _ *synthesis.EffectIDs) (*synthesis.Partial, error) {
	pattern, extra, ok := classifyMovement(d)
	if !ok {
		return nil, nil
	}

	seq := synthesis.FlagBundle{
		"archetype": pattern.archetype,
		"steps":     pattern.steps,
	}
	for k, v := range extra {
		seq[k] = v
	}

	var scripts []string
	for i, step := range pattern.steps {
		scripts = append(scripts, stepScript(pattern.archetype, i, step, extra))
	}

	return &synthesis.Partial{
		Complexity: 3,
		Flags:      synthesis.FlagBundle{"movementAttack": seq},
		Scripts:    scripts,
	}, nil
}

func classifyMovement(d *ability.Descriptor) (movementPattern, synthesis.FlagBundle, bool) {
	if flybyRe.MatchString(d.Raw) {
		return movementPattern{
			archetype: "flyby",
			steps:     []string{"suppress_opportunity", "move"},
		}, nil, true
	}

	if m := chargeRe.FindStringSubmatch(d.Raw); m != nil {
		extra := synthesis.FlagBundle{"minDistance": atoiSafe(m[1])}
		if d.HasConditions() || d.HasSave() {
			// conditional rider on the hit, e.g. knocked prone on a failed save
			return movementPattern{
				archetype: "move_then_attack",
				steps:     []string{"validate_movement", "attack", "apply_rider"},
			}, extra, true
		}
		return movementPattern{
			archetype: "charge",
			steps:     []string{"validate_movement", "attack", "bonus_damage"},
		}, extra, true
	}

	if d.HasAttack() && attackThenMoveRe.MatchString(d.Raw) {
		return movementPattern{
			archetype: "attack_then_move",
			steps:     []string{"attack", "move_away"},
		}, nil, true
	}

	return movementPattern{}, nil, false
}

func stepScript(archetype string, index int, step string, extra synthesis.FlagBundle) string {
	name := fmt.Sprintf("%sStep%d", lowerCamel(archetype), index)
	switch step {
	case "validate_movement":
		min, _ := extra["minDistance"].(int)
		return renderScript("preActivation", name,
			"const moved = state.straightLineMoved || 0;",
			guard(fmt.Sprintf("moved >= %d", min), fmt.Sprintf("requires %d feet of straight movement", min)),
			"return true;")
	case "attack":
		return renderScript("onActivation", name,
			"const hit = await rollAttack(actor, item);",
			guard("hit !== undefined", "attack roll was cancelled"),
			"state.lastAttackHit = hit;",
			"return hit;")
	case "apply_rider", "bonus_damage":
		return renderScript("postAttack", name,
			guard("state.lastAttackHit", "rider only applies on a hit"),
			"await applyRider(item, state.target);",
			"return true;")
	case "suppress_opportunity":
		return renderScript("preMove", name,
			"state.suppressOpportunityAttacks = true;",
			"return true;")
	case "move", "move_away":
		return renderScript("postAttack", name,
			"await promptMove(actor, { provoke: false });",
			"return true;")
	default:
		return renderScript("onActivation", name, "return true;")
	}
}

func lowerCamel(s string) string {
	out := make([]rune, 0, len(s))
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			out = append(out, r-'a'+'A')
			upper = false
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
