package enhance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Conditional-usage expressions built from textual triggers. Each detected
// trigger becomes a host-evaluable expression string plus a structured flag,
// so integrations can pick whichever form they support.

var (
	lineOfSightRe = regexp.MustCompile(`(?i)\b(?:that\s+it\s+|it\s+|you\s+)?can\s+see\b`)
	distanceRe    = regexp.MustCompile(`(?i)within\s+(\d+)\s+f(?:ee|oo)?t`)
	targetTypeRe  = regexp.MustCompile(`(?i)\b(?:a|an|one|each)\s+(humanoid|beast|undead|fiend|celestial|dragon|giant|construct|elemental|fey|aberration|monstrosity|ooze|plant)\b`)
	hpThresholdRe = regexp.MustCompile(`(?i)(\d+)\s+hit\s+points?\s+or\s+fewer`)
	halfHealthRe  = regexp.MustCompile(`(?i)below\s+half\s+(?:its|their)\s+hit\s+point`)
)

// UsageFlags synthesizes conditional-usage expressions from textual triggers:
// line of sight, distance thresholds, target-type matches, and hit-point
// thresholds.
func UsageFlags(d *ability.Descriptor, _ *synthesis.EffectIDs) (*synthesis.Partial, error) {
	usage := synthesis.FlagBundle{}
	var exprs []string

	if lineOfSightRe.MatchString(d.Raw) {
		usage["lineOfSight"] = true
		exprs = append(exprs, "actor.canSee(target)")
	}
	if m := distanceRe.FindStringSubmatch(d.Raw); m != nil {
		feet, _ := strconv.Atoi(m[1])
		usage["maxDistance"] = feet
		exprs = append(exprs, fmt.Sprintf("distance(actor, target) <= %d", feet))
	}
	if m := targetTypeRe.FindStringSubmatch(d.Raw); m != nil {
		kind := strings.ToLower(m[1])
		usage["targetType"] = kind
		exprs = append(exprs, fmt.Sprintf("target.type === %q", kind))
	}
	if m := hpThresholdRe.FindStringSubmatch(d.Raw); m != nil {
		hp, _ := strconv.Atoi(m[1])
		usage["hpThreshold"] = hp
		exprs = append(exprs, fmt.Sprintf("target.hp.value <= %d", hp))
	} else if halfHealthRe.MatchString(d.Raw) {
		usage["hpThresholdRatio"] = 0.5
		exprs = append(exprs, "target.hp.value <= target.hp.max / 2")
	}

	if len(usage) == 0 {
		return nil, nil
	}

	usage["expression"] = strings.Join(exprs, " && ")
	return &synthesis.Partial{
		Flags: synthesis.FlagBundle{"usage": usage},
	}, nil
}
