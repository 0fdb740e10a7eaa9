package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/ability-forge/internal/dice"
	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
)

// Builtin pattern names. Passes and the model builder query facts by these.
const (
	PatternAttackRoll      = "attack_roll"
	PatternSaveDC          = "save_dc"
	PatternAveragedDamage  = "averaged_damage"
	PatternSimpleDamage    = "simple_damage"
	PatternHealing         = "healing"
	PatternRecharge        = "recharge"
	PatternPerDay          = "per_day"
	PatternPerRest         = "per_rest"
	PatternAreaLine        = "area_line"
	PatternAreaCone        = "area_cone"
	PatternAreaRadius      = "area_radius"
	PatternTargetCount     = "target_count"
	PatternSelfTarget      = "self_target"
	PatternGrant           = "grant"
	PatternMitigation      = "mitigation"
	PatternReaction        = "activation_reaction"
	PatternBonusAction     = "activation_bonus"
	PatternAction          = "activation_action"
	PatternReach           = "reach"
	PatternRangeTouch      = "range_touch"
	PatternRangeSelf       = "range_self"
	PatternRangeDistance   = "range_distance"
	PatternConcentration   = "duration_concentration"
	PatternDurationRounds  = "duration_rounds"
	PatternDurationMinutes = "duration_minutes"
	PatternInstantaneous   = "duration_instant"
	PatternSaveEnds        = "save_ends"
	PatternTurnTiming      = "turn_timing"
	PatternHalfOnSave      = "half_on_save"
	PatternMoveRequirement = "movement_requirement"
	PatternVisibility      = "visibility_requirement"
	PatternDamageTrigger   = "damage_trigger"
	PatternAttackedTrigger = "attacked_trigger"
	PatternMovesTrigger    = "target_moves_trigger"
	PatternSpellTrigger    = "spell_cast_trigger"
	PatternOpportunity     = "opportunity_attack"
	PatternFlyby           = "flyby"
	PatternCharge          = "charge"
	PatternPounce          = "pounce"
	PatternMoveAfterAttack = "move_after_attack"
)

// NewDefaultRegistry builds the registry with every builtin pattern
// registered. Call once at startup; the result is read-only.
func NewDefaultRegistry(log *zap.Logger) *Registry {
	r := NewRegistry(log)
	for _, p := range builtinPatterns() {
		if err := r.Register(p); err != nil {
			// Builtins are compile-time data; a failure here is a programming error
			panic(fmt.Sprintf("extraction: builtin pattern %s: %v", p.Name, err))
		}
	}
	return r
}

const formulaGroup = `(\d+d\d+(?:\s*[+-]\s*\d+)?)`

func builtinPatterns() []Pattern {
	return []Pattern{
		{
			Name:     PatternAttackRoll,
			Priority: 100,
			Regex:    regexp.MustCompile(`(?i)(melee|ranged)\s+(weapon|spell)\s+attack(?:\s+roll)?:?\s*\+(\d+)\s+to\s+hit`),
			Extract: func(m []string) (any, error) {
				bonus, err := strconv.Atoi(m[3])
				if err != nil {
					return nil, fmt.Errorf("attack bonus %q: %w", m[3], err)
				}
				return AttackFact{Type: attackType(m[1], m[2]), Bonus: bonus}, nil
			},
		},
		{
			Name:       PatternSaveDC,
			Priority:   95,
			Repeatable: true,
			Regex:      regexp.MustCompile(`(?i)\bDC\s+(\d+)\s+([a-z]+)\s+sav(?:ing\s+throw|e)\b`),
			Extract: func(m []string) (any, error) {
				dc, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("save DC %q: %w", m[1], err)
				}
				abbr, ok := abilityShort(m[2])
				if !ok {
					return nil, fmt.Errorf("unknown save ability %q", m[2])
				}
				return SaveFact{Ability: abbr, DC: dc}, nil
			},
		},
		{
			Name:       PatternAveragedDamage,
			Priority:   90,
			Repeatable: true,
			Regex:      regexp.MustCompile(`(?i)(\d+)\s*\(` + formulaGroup + `\)\s+([a-z]+)\s+damage`),
			Extract: func(m []string) (any, error) {
				avg, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("damage average %q: %w", m[1], err)
				}
				return DamageFact{
					Formula:  dice.Normalize(m[2]),
					Type:     strings.ToLower(m[3]),
					Average:  avg,
					Averaged: true,
				}, nil
			},
		},
		{
			Name:     PatternHealing,
			Priority: 85,
			Regex:    regexp.MustCompile(`(?i)regains?\s+(?:(\d+)\s*\()?` + formulaGroup + `\)?\s+hit\s+points`),
			Extract: func(m []string) (any, error) {
				avg := 0
				if m[1] != "" {
					var err error
					avg, err = strconv.Atoi(m[1])
					if err != nil {
						return nil, fmt.Errorf("healing average %q: %w", m[1], err)
					}
				}
				return DamageFact{
					Formula:  dice.Normalize(m[2]),
					Type:     "healing",
					Average:  avg,
					Averaged: m[1] != "",
					Healing:  true,
				}, nil
			},
		},
		{
			Name:       PatternSimpleDamage,
			Priority:   80,
			Repeatable: true,
			Regex:      regexp.MustCompile(`(?i)` + formulaGroup + `\s+([a-z]+)\s+damage`),
			Extract: func(m []string) (any, error) {
				return DamageFact{
					Formula: dice.Normalize(m[1]),
					Type:    strings.ToLower(m[2]),
				}, nil
			},
		},
		{
			Name:     PatternRecharge,
			Priority: 78,
			Regex:    regexp.MustCompile(`(?i)recharge\s+(\d+)(?:\s*[-–]\s*(\d+))?`),
			Extract: func(m []string) (any, error) {
				min, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("recharge threshold %q: %w", m[1], err)
				}
				max := 6
				if m[2] != "" {
					max, err = strconv.Atoi(m[2])
					if err != nil {
						return nil, fmt.Errorf("recharge upper bound %q: %w", m[2], err)
					}
				}
				return ResourceFact{Kind: ability.ResourceRecharge, RechargeMin: min, RechargeMax: max}, nil
			},
		},
		{
			Name:     PatternPerDay,
			Priority: 76,
			Regex:    regexp.MustCompile(`(?i)(\d+)\s*/\s*day`),
			Extract: func(m []string) (any, error) {
				uses, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("per-day uses %q: %w", m[1], err)
				}
				return ResourceFact{Kind: ability.ResourcePerDay, Uses: uses}, nil
			},
		},
		{
			Name:     PatternPerRest,
			Priority: 75,
			Regex:    regexp.MustCompile(`(?i)(?:(\d+)\s*/\s*|once\s+per\s+)(short|long)\s+rest`),
			Extract: func(m []string) (any, error) {
				uses := 1
				if m[1] != "" {
					var err error
					uses, err = strconv.Atoi(m[1])
					if err != nil {
						return nil, fmt.Errorf("per-rest uses %q: %w", m[1], err)
					}
				}
				rest := ability.RestShort
				if strings.EqualFold(m[2], "long") {
					rest = ability.RestLong
				}
				return ResourceFact{Kind: ability.ResourcePerRest, Uses: uses, Rest: rest}, nil
			},
		},
		{
			Name:     PatternAreaLine,
			Priority: 72,
			Regex:    regexp.MustCompile(`(?i)(\d+)[-\s]*foot[-\s]*(?:long\s+)?line(?:\s+that\s+is\s+(\d+)\s*f(?:ee|oo)t\s+wide)?`),
			Extract: func(m []string) (any, error) {
				size, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("line length %q: %w", m[1], err)
				}
				width := 0
				if m[2] != "" {
					width, err = strconv.Atoi(m[2])
					if err != nil {
						return nil, fmt.Errorf("line width %q: %w", m[2], err)
					}
				}
				return AreaFact{Shape: ability.AreaLine, Size: size, Width: width}, nil
			},
		},
		{
			Name:     PatternAreaCone,
			Priority: 71,
			Regex:    regexp.MustCompile(`(?i)(\d+)[-\s]*foot[-\s]*cone`),
			Extract:  areaExtractor(ability.AreaCone),
		},
		{
			Name:     PatternAreaRadius,
			Priority: 70,
			Regex:    regexp.MustCompile(`(?i)(\d+)[-\s]*foot[-\s]*(?:radius(?:\s+sphere)?|sphere)`),
			Extract:  areaExtractor(ability.AreaRadius),
		},
		{
			Name:     PatternTargetCount,
			Priority: 65,
			Regex:    regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|\d+)\s+(?:creature|target|enemy|humanoid)s?\b`),
			Extract: func(m []string) (any, error) {
				count, err := parseCount(m[1])
				if err != nil {
					return nil, err
				}
				return TargetCountFact{Count: count}, nil
			},
		},
		{
			Name:     PatternSelfTarget,
			Priority: 64,
			Regex:    regexp.MustCompile(`(?i)\b(?:itself|yourself|himself|herself)\b`),
			Extract:  markerExtractor(SelfFact{}),
		},
		{
			Name:       PatternGrant,
			Priority:   60,
			Repeatable: true,
			Regex:      regexp.MustCompile(`(?i)\b(advantage|disadvantage)\s+on\s+([a-z\s()]+?)(?:[.,;]|$)`),
			Extract: func(m []string) (any, error) {
				kind := ability.EffectAdvantage
				if strings.EqualFold(m[1], "disadvantage") {
					kind = ability.EffectDisadvantage
				}
				target, detail := classifyGrantTarget(m[2])
				return GrantFact{Kind: kind, Target: target, Detail: detail}, nil
			},
		},
		{
			Name:       PatternMitigation,
			Priority:   60,
			Repeatable: true,
			Regex:      regexp.MustCompile(`(?i)\b(resistance|resistant|immune|immunity)\s+to\s+([a-z]+)(?:\s+damage)?`),
			Extract: func(m []string) (any, error) {
				kind := ability.EffectResistance
				if strings.HasPrefix(strings.ToLower(m[1]), "immun") {
					kind = ability.EffectImmunity
				}
				return MitigationFact{Kind: kind, DamageType: strings.ToLower(m[2])}, nil
			},
		},
		{
			Name:     PatternReaction,
			Priority: 58,
			Regex:    regexp.MustCompile(`(?i)\breaction\b(?:\s*,?\s+(?:when(?:ever)?|if)\s+([^.;]+))?`),
			Extract: func(m []string) (any, error) {
				return ActivationFact{Type: ability.ActivationReaction, Trigger: strings.TrimSpace(m[1])}, nil
			},
		},
		{
			Name:     PatternBonusAction,
			Priority: 57,
			Regex:    regexp.MustCompile(`(?i)\bbonus\s+action\b`),
			Extract:  markerActivation(ability.ActivationBonus),
		},
		{
			Name:     PatternAction,
			Priority: 56,
			Regex:    regexp.MustCompile(`(?i)\b(?:as|uses?|takes?)\s+(?:an|its|the\s+\w+)\s+action\b|\baction:\s`),
			Extract:  markerActivation(ability.ActivationAction),
		},
		{
			Name:     PatternReach,
			Priority: 55,
			Regex:    regexp.MustCompile(`(?i)reach\s+(\d+)\s*(?:ft\.?|feet|foot)`),
			Extract: func(m []string) (any, error) {
				feet, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("reach %q: %w", m[1], err)
				}
				return ReachFact{Feet: feet}, nil
			},
		},
		{
			Name:     PatternRangeTouch,
			Priority: 54,
			Regex:    regexp.MustCompile(`(?i)\brange\s+touch\b|\btouches\b`),
			Extract:  markerExtractor(RangeFact{Kind: ability.RangeTouch}),
		},
		{
			Name:     PatternRangeSelf,
			Priority: 53,
			Regex:    regexp.MustCompile(`(?i)\brange:?\s+self\b`),
			Extract:  markerExtractor(RangeFact{Kind: ability.RangeSelf}),
		},
		{
			Name:     PatternRangeDistance,
			Priority: 52,
			Regex:    regexp.MustCompile(`(?i)(?:range|within)\s+(\d+)(?:\s*/\s*\d+)?\s*(?:ft\.?|feet|foot)`),
			Extract: func(m []string) (any, error) {
				feet, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("range %q: %w", m[1], err)
				}
				return RangeFact{Kind: ability.RangeDistance, Distance: feet}, nil
			},
		},
		{
			Name:     PatternConcentration,
			Priority: 50,
			Regex:    regexp.MustCompile(`(?i)\bconcentration\b`),
			Extract:  markerExtractor(DurationFact{Kind: ability.DurationConcentration}),
		},
		{
			Name:     PatternDurationRounds,
			Priority: 49,
			Regex:    regexp.MustCompile(`(?i)(?:for|lasts?)\s+(\d+)\s+rounds?|until\s+the\s+end\s+of\s+(?:its|the\s+target's|your)\s+next\s+turn`),
			Extract: func(m []string) (any, error) {
				rounds := 1
				if m[1] != "" {
					var err error
					rounds, err = strconv.Atoi(m[1])
					if err != nil {
						return nil, fmt.Errorf("duration rounds %q: %w", m[1], err)
					}
				}
				return DurationFact{Kind: ability.DurationRounds, Rounds: rounds}, nil
			},
		},
		{
			Name:     PatternDurationMinutes,
			Priority: 48,
			Regex:    regexp.MustCompile(`(?i)(?:for|up\s+to)\s+(\d+)\s+minutes?`),
			Extract: func(m []string) (any, error) {
				minutes, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("duration minutes %q: %w", m[1], err)
				}
				return DurationFact{Kind: ability.DurationMinutes, Minutes: minutes}, nil
			},
		},
		{
			Name:     PatternInstantaneous,
			Priority: 47,
			Regex:    regexp.MustCompile(`(?i)\binstantaneous\b`),
			Extract:  markerExtractor(DurationFact{Kind: ability.DurationInstant}),
		},
		{
			Name:     PatternSaveEnds,
			Priority: 45,
			Regex:    regexp.MustCompile(`(?i)repeat(?:s|ing)?\s+the\s+sav(?:e|ing\s+throw)|save\s+ends`),
			Extract:  markerExtractor(SaveEndsFact{}),
		},
		{
			Name:       PatternTurnTiming,
			Priority:   44,
			Repeatable: true,
			Regex:      regexp.MustCompile(`(?i)at\s+the\s+(start|end)\s+of\s+(?:each\s+of\s+)?(?:its|their|the\s+(?:creature|target)'?s?|every)\s+turns?`),
			Extract: func(m []string) (any, error) {
				timing := ability.TimingEndOfTurn
				if strings.EqualFold(m[1], "start") {
					timing = ability.TimingStartOfTurn
				}
				return TurnTimingFact{Timing: timing}, nil
			},
		},
		{
			Name:     PatternHalfOnSave,
			Priority: 43,
			Regex:    regexp.MustCompile(`(?i)half\s+(?:as\s+much\s+)?damage\s+on\s+a\s+success|half\s+on\s+(?:a\s+)?save|or\s+half\s+as\s+much\s+damage`),
			Extract:  markerExtractor(HalfOnSaveFact{}),
		},
		{
			Name:     PatternMoveRequirement,
			Priority: 40,
			Regex:    regexp.MustCompile(`(?i)moves?\s+at\s+least\s+(\d+)\s*f(?:ee|oo)t`),
			Extract: func(m []string) (any, error) {
				feet, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("movement distance %q: %w", m[1], err)
				}
				return MovementRequirementFact{Feet: feet}, nil
			},
		},
		{
			Name:     PatternVisibility,
			Priority: 39,
			Regex:    regexp.MustCompile(`(?i)(?:that\s+)?(?:it|you)?\s*can\s+see\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternDamageTrigger,
			Priority: 38,
			Regex:    regexp.MustCompile(`(?i)\bwhen(?:ever)?\s+(?:it|the\s+\w+|a\s+creature)\s+takes\s+damage\b|\bafter\s+taking\s+damage\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternAttackedTrigger,
			Priority: 37,
			Regex:    regexp.MustCompile(`(?i)\bwhen(?:ever)?\s+(?:a\s+creature|an?\s+\w+|it\s+is)\s+(?:hits|attacks|misses|is\s+hit|targeted)\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternMovesTrigger,
			Priority: 36,
			Regex:    regexp.MustCompile(`(?i)\bwhen(?:ever)?\s+a\s+creature\s+(?:enters|moves)\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternSpellTrigger,
			Priority: 35,
			Regex:    regexp.MustCompile(`(?i)\bwhen(?:ever)?\s+(?:a\s+creature|it\s+sees\s+a\s+creature)?\s*casts?\s+a\s+spell\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternOpportunity,
			Priority: 34,
			Regex:    regexp.MustCompile(`(?i)opportunity\s+attack`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternFlyby,
			Priority: 33,
			Regex:    regexp.MustCompile(`(?i)\bflyby\b|doesn'?t\s+provoke\s+(?:an\s+)?opportunity\s+attacks?\s+when\s+it\s+flies`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternCharge,
			Priority: 32,
			Regex:    regexp.MustCompile(`(?i)moves?\s+at\s+least\s+\d+\s*f(?:ee|oo)t\s+straight\s+toward\s+a\s+(?:creature|target)\s+and\s+then\s+hits`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternPounce,
			Priority: 31,
			Regex:    regexp.MustCompile(`(?i)\bpounce\b|and\s+then\s+hits\s+(?:it|a\s+creature)\s+with\s+a?\s*\w*\s*attack[^.]*\bprone\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
		{
			Name:     PatternMoveAfterAttack,
			Priority: 30,
			Regex:    regexp.MustCompile(`(?i)can\s+move\s+(?:up\s+to\s+)?[^.]{0,60}\bafter\s+(?:the|making\s+the|it)\s+attacks?\b`),
			Extract:  markerExtractor(MarkerFact{}),
		},
	}
}

func areaExtractor(shape ability.AreaShape) func([]string) (any, error) {
	return func(m []string) (any, error) {
		size, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("area size %q: %w", m[1], err)
		}
		return AreaFact{Shape: shape, Size: size}, nil
	}
}

func markerExtractor(value any) func([]string) (any, error) {
	return func([]string) (any, error) {
		return value, nil
	}
}

func markerActivation(t ability.ActivationType) func([]string) (any, error) {
	return func([]string) (any, error) {
		return ActivationFact{Type: t}, nil
	}
}

func attackType(reach, kind string) ability.AttackType {
	melee := strings.EqualFold(reach, "melee")
	weapon := strings.EqualFold(kind, "weapon")
	switch {
	case melee && weapon:
		return ability.AttackMeleeWeapon
	case melee:
		return ability.AttackMeleeSpell
	case weapon:
		return ability.AttackRangedWeapon
	default:
		return ability.AttackRangedSpell
	}
}

var abilityNames = map[string]string{
	"strength": "str", "str": "str",
	"dexterity": "dex", "dex": "dex",
	"constitution": "con", "con": "con",
	"intelligence": "int", "int": "int",
	"wisdom": "wis", "wis": "wis",
	"charisma": "cha", "cha": "cha",
}

func abilityShort(name string) (string, bool) {
	abbr, ok := abilityNames[strings.ToLower(name)]
	return abbr, ok
}

var countWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
}

func parseCount(word string) (int, error) {
	if n, ok := countWords[strings.ToLower(word)]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return 0, fmt.Errorf("target count %q: %w", word, err)
	}
	return n, nil
}

// classifyGrantTarget maps the free text after "advantage on" to the closed
// grant-target set
func classifyGrantTarget(phrase string) (target, detail string) {
	p := strings.ToLower(strings.TrimSpace(phrase))

	switch {
	case strings.Contains(p, "attack roll"):
		return "attack_roll", ""
	case strings.Contains(p, "saving throw"):
		return "saving_throw", firstAbilityWord(p)
	case strings.Contains(p, "check"):
		if ability := firstAbilityWord(p); ability != "" {
			return "ability_check", ability
		}
		return "skill_check", firstSkillWord(p)
	default:
		return "ability_check", ""
	}
}

// abilityLongNames fixes the scan order; full names only, the abbreviations
// collide with ordinary words ("construct", "winter")
var abilityLongNames = []string{
	"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
}

// firstAbilityWord returns the ability mentioned earliest in the phrase
func firstAbilityWord(p string) string {
	best := ""
	bestIdx := -1
	for _, name := range abilityLongNames {
		if idx := strings.Index(p, name); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best = abilityNames[name]
			bestIdx = idx
		}
	}
	return best
}

var skillNames = []string{
	"athletics", "acrobatics", "stealth", "perception", "insight",
	"intimidation", "persuasion", "deception", "survival", "investigation",
	"arcana", "history", "nature", "religion", "medicine", "performance",
	"animal handling", "sleight of hand",
}

func firstSkillWord(p string) string {
	for _, skill := range skillNames {
		if strings.Contains(p, skill) {
			return skill
		}
	}
	return ""
}
