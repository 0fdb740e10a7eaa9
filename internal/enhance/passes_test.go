package enhance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
	mockuuid "github.com/KirkDiggler/ability-forge/internal/uuid/mock"
)

func idsFor(d *ability.Descriptor) *synthesis.EffectIDs {
	return synthesis.NewEffectIDs(mockuuid.NewSequenceGenerator("fx"), d)
}

func TestRequirementsPass(t *testing.T) {
	d := &ability.Descriptor{
		Name: "Pounce",
		Raw:  "If the lion moves at least 20 feet straight toward a creature it can see...",
		Requirements: []ability.Requirement{
			{Kind: ability.RequireMovement, Amount: 20},
			{Kind: ability.RequireVisibility},
		},
	}

	partial, err := Requirements(d, idsFor(d))
	require.NoError(t, err)
	require.NotNil(t, partial)

	reqs := partial.Flags["requirements"].(synthesis.FlagBundle)
	movement := reqs["movement"].(synthesis.FlagBundle)
	assert.Equal(t, 20, movement["distance"])
	assert.Equal(t, "preActivation", movement["hook"])
	assert.Contains(t, reqs, "visibility")

	require.Len(t, partial.Scripts, 2)
	assert.Contains(t, partial.Scripts[0], "moved >= 20")
	assert.Contains(t, partial.Scripts[0], "onFailure")
}

func TestRequirementsPassNoRequirements(t *testing.T) {
	d := &ability.Descriptor{Name: "Bite", Raw: "Melee Weapon Attack: +4 to hit."}
	partial, err := Requirements(d, idsFor(d))
	require.NoError(t, err)
	assert.Nil(t, partial)
}

func TestChainsPassRequiresSignature(t *testing.T) {
	d := &ability.Descriptor{
		Name: "Hold",
		Raw:  "The target is grappled (escape DC 14).",
		Conditions: []ability.ConditionRef{
			{Kind: ability.CondGrappled, Display: "Grappled"},
		},
	}
	partial, err := Chains(d, idsFor(d))
	require.NoError(t, err)
	assert.Nil(t, partial, "a lone grapple is not a chain")
}

func TestReactionPassTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		trigger  string
		raw      string
		expected string
		hook     string
	}{
		{"damage taken", "when it takes damage", "", "damage_taken", "onDamaged"},
		{"being attacked", "when a creature hits it with a melee attack", "", "being_attacked", "onAttacked"},
		{"target moves", "", "when a creature it can see moves within 30 feet", "target_moves", "onTargetMove"},
		{"spell cast", "when a creature casts a spell", "", "spell_cast", "onSpellCast"},
		{"opportunity", "", "the sentinel makes an opportunity attack", "opportunity_attack", "onTargetLeaveReach"},
		{"unrecognized defaults to damage", "", "something unusual happens", "damage_taken", "onDamaged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &ability.Descriptor{
				Name:       "Riposte",
				Raw:        tt.raw,
				Activation: ability.Activation{Type: ability.ActivationReaction, Trigger: tt.trigger},
			}

			partial, err := Reaction(d, idsFor(d))
			require.NoError(t, err)
			require.NotNil(t, partial)

			reaction := partial.Flags["reaction"].(synthesis.FlagBundle)
			assert.Equal(t, tt.expected, reaction["trigger"])
			assert.Equal(t, tt.hook, reaction["hook"])
			assert.Equal(t, true, reaction["confirm"])
			assert.Equal(t, 4, partial.Complexity)

			require.Len(t, partial.Scripts, 2, "trigger script plus round reset")
			assert.Contains(t, partial.Scripts[0], "confirmDialog")
			assert.Contains(t, partial.Scripts[0], "roundCache")
		})
	}
}

func TestReactionPassSkipsNonReactions(t *testing.T) {
	d := &ability.Descriptor{
		Name:       "Bite",
		Raw:        "Melee Weapon Attack",
		Activation: ability.Activation{Type: ability.ActivationAction},
	}
	partial, err := Reaction(d, idsFor(d))
	require.NoError(t, err)
	assert.Nil(t, partial)
}

func TestRechargePassVariants(t *testing.T) {
	tests := []struct {
		name     string
		resource *ability.Resource
		kind     string
		hook     string
	}{
		{"dice", &ability.Resource{Kind: ability.ResourceRecharge, RechargeMin: 5, RechargeMax: 6}, "dice", "turnStart"},
		{"per day", &ability.Resource{Kind: ability.ResourcePerDay, Uses: 3}, "per_day", "dawn"},
		{"short rest", &ability.Resource{Kind: ability.ResourcePerRest, Uses: 1, Rest: ability.RestShort}, "per_short_rest", "shortRestCompleted"},
		{"long rest", &ability.Resource{Kind: ability.ResourcePerRest, Uses: 2, Rest: ability.RestLong}, "per_long_rest", "longRestCompleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &ability.Descriptor{Name: "Breath", Raw: "The dragon exhales fire.", Resource: tt.resource}

			partial, err := Recharge(d, idsFor(d))
			require.NoError(t, err)
			require.NotNil(t, partial)

			rc := partial.Flags["recharge"].(synthesis.FlagBundle)
			assert.Equal(t, tt.kind, rc["kind"])
			assert.Equal(t, tt.hook, rc["hook"])
			assert.NotEmpty(t, partial.ItemState, "every archetype patches item state")
			require.Len(t, partial.Scripts, 1)
			assert.Contains(t, partial.Scripts[0], "hook: "+tt.hook)
		})
	}
}

func TestRechargePassConditional(t *testing.T) {
	d := &ability.Descriptor{
		Name:     "Wrath",
		Raw:      "The avatar regains the use of this ability when it reduces a creature to 0 hit points.",
		Resource: &ability.Resource{Kind: ability.ResourceRecharge, RechargeMin: 6, RechargeMax: 6},
	}

	partial, err := Recharge(d, idsFor(d))
	require.NoError(t, err)
	require.NotNil(t, partial)

	rc := partial.Flags["recharge"].(synthesis.FlagBundle)
	assert.Equal(t, "it reduces a creature to 0 hit points", rc["condition"])
	assert.Equal(t, "onGameEvent", rc["conditionHook"])
	assert.Len(t, partial.Scripts, 2)
}

func TestOngoingPassHealLoop(t *testing.T) {
	d := &ability.Descriptor{
		Name: "Troll Regeneration",
		Raw:  "The troll regains 10 hit points at the start of each of its turns.",
	}
	ids := idsFor(d)

	partial, err := Ongoing(d, ids)
	require.NoError(t, err)
	assert.Nil(t, partial, "flat healing without a dice formula is left to the host")
}

func TestOngoingPassHealFormula(t *testing.T) {
	d := &ability.Descriptor{
		Name: "Vampiric Link",
		Raw:  "The target regains 4 (1d8) hit points at the start of each of its turns while the link lasts.",
	}
	ids := idsFor(d)

	partial, err := Ongoing(d, ids)
	require.NoError(t, err)
	require.NotNil(t, partial)

	require.Len(t, partial.Effects, 1)
	eff := partial.Effects[0]
	assert.Equal(t, ids.Ongoing(), eff.ID)

	ongoing := eff.Flags["ongoing"].(synthesis.FlagBundle)
	assert.Equal(t, "heal", ongoing["type"])
	assert.Equal(t, "1d8", ongoing["formula"])
	assert.Equal(t, "start", ongoing["timing"])
	assert.Equal(t, []string{"full_health"}, ongoing["ends"])

	require.Len(t, partial.Scripts, 1)
	assert.Contains(t, partial.Scripts[0], "applyHealing")
	assert.Contains(t, partial.Scripts[0], "hp.value >= state.target.hp.max")
}

func TestOngoingPassSaveLoop(t *testing.T) {
	d := &ability.Descriptor{
		Name:  "Venom",
		Raw:   "The target is poisoned. It can repeat the saving throw at the end of each of its turns.",
		Saves: []ability.Save{{Ability: "con", DC: 13}},
		Conditions: []ability.ConditionRef{
			{Kind: ability.CondPoisoned, Display: "Poisoned", SaveEnds: true, SaveEndsTiming: ability.TimingEndOfTurn},
		},
	}
	ids := idsFor(d)

	partial, err := Ongoing(d, ids)
	require.NoError(t, err)
	require.NotNil(t, partial)

	require.Len(t, partial.Scripts, 1)
	assert.Contains(t, partial.Scripts[0], "hook: turnEnd")
	assert.Contains(t, partial.Scripts[0], `"con", 13`)
	assert.Contains(t, partial.Scripts[0], "removeEffect")
}

func TestMovementPassArchetypes(t *testing.T) {
	tests := []struct {
		name      string
		d         *ability.Descriptor
		archetype string
		steps     []string
	}{
		{
			name: "flyby",
			d: &ability.Descriptor{
				Name: "Flyby",
				Raw:  "The owl doesn't provoke opportunity attacks when it flies out of an enemy's reach.",
			},
			archetype: "flyby",
			steps:     []string{"suppress_opportunity", "move"},
		},
		{
			name: "charge",
			d: &ability.Descriptor{
				Name: "Charge",
				Raw:  "If the boar moves at least 20 feet straight toward a target and then hits it with a tusk attack, the target takes an extra 3 (1d6) slashing damage.",
			},
			archetype: "charge",
			steps:     []string{"validate_movement", "attack", "bonus_damage"},
		},
		{
			name: "move then attack with rider",
			d: &ability.Descriptor{
				Name: "Pounce",
				Raw:  "If the lion moves at least 20 feet straight toward a creature and then hits it with a claw attack, that target must succeed on a DC 13 Strength saving throw or be knocked prone.",
				Saves: []ability.Save{{Ability: "str", DC: 13}},
				Conditions: []ability.ConditionRef{
					{Kind: ability.CondProne, Display: "Prone", Trigger: "failed_save"},
				},
			},
			archetype: "move_then_attack",
			steps:     []string{"validate_movement", "attack", "apply_rider"},
		},
		{
			name: "attack then move",
			d: &ability.Descriptor{
				Name:   "Hit and Run",
				Raw:    "The scout can move up to its speed without provoking opportunity attacks after it attacks.",
				Attack: &ability.Attack{Type: ability.AttackMeleeWeapon, Bonus: 4},
			},
			archetype: "attack_then_move",
			steps:     []string{"attack", "move_away"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partial, err := MovementAttack(tt.d, idsFor(tt.d))
			require.NoError(t, err)
			require.NotNil(t, partial)

			seq := partial.Flags["movementAttack"].(synthesis.FlagBundle)
			assert.Equal(t, tt.archetype, seq["archetype"])
			assert.Equal(t, tt.steps, seq["steps"])
			assert.Len(t, partial.Scripts, len(tt.steps), "one script per step")
		})
	}
}

func TestMovementPassChargeDistance(t *testing.T) {
	d := &ability.Descriptor{
		Name: "Charge",
		Raw:  "If the boar moves at least 20 feet straight toward a target and then hits it, the target takes extra damage.",
	}

	partial, err := MovementAttack(d, idsFor(d))
	require.NoError(t, err)
	require.NotNil(t, partial)

	seq := partial.Flags["movementAttack"].(synthesis.FlagBundle)
	assert.Equal(t, 20, seq["minDistance"])
	assert.Contains(t, partial.Scripts[0], "moved >= 20")
}

func TestUsageFlagsPass(t *testing.T) {
	d := &ability.Descriptor{
		Name: "Hunter's Mark",
		Raw:  "Choose a humanoid you can see within 60 feet that has 50 hit points or fewer.",
	}

	partial, err := UsageFlags(d, idsFor(d))
	require.NoError(t, err)
	require.NotNil(t, partial)

	usage := partial.Flags["usage"].(synthesis.FlagBundle)
	assert.Equal(t, true, usage["lineOfSight"])
	assert.Equal(t, 60, usage["maxDistance"])
	assert.Equal(t, "humanoid", usage["targetType"])
	assert.Equal(t, 50, usage["hpThreshold"])

	expr := usage["expression"].(string)
	assert.Contains(t, expr, "canSee")
	assert.Contains(t, expr, "<= 60")
	assert.Contains(t, expr, "&&")
}

func TestUsageFlagsPassNoTriggers(t *testing.T) {
	d := &ability.Descriptor{Name: "Bite", Raw: "Melee Weapon Attack: +4 to hit."}
	partial, err := UsageFlags(d, idsFor(d))
	require.NoError(t, err)
	assert.Nil(t, partial)
}

func TestScriptsPassArchetypes(t *testing.T) {
	tests := []struct {
		name      string
		d         *ability.Descriptor
		archetype string
		marker    string
	}{
		{
			name: "attack then save",
			d: &ability.Descriptor{
				Name:   "Sting",
				Raw:    "attack and save",
				Attack: &ability.Attack{Type: ability.AttackMeleeWeapon, Bonus: 4},
				Saves:  []ability.Save{{Ability: "con", DC: 11}},
			},
			archetype: "attack_then_save",
			marker:    "rollAttack",
		},
		{
			name: "area save",
			d: &ability.Descriptor{
				Name:   "Breath",
				Raw:    "line save",
				Saves:  []ability.Save{{Ability: "dex", DC: 15, HalfOnSuccess: true}},
				Target: ability.Target{Kind: ability.TargetArea, Shape: ability.AreaLine, Size: 60},
			},
			archetype: "area_save",
			marker:    "templateTargets",
		},
		{
			name: "save or suffer",
			d: &ability.Descriptor{
				Name:  "Gaze",
				Raw:   "save or be frightened",
				Saves: []ability.Save{{Ability: "wis", DC: 13}},
				Conditions: []ability.ConditionRef{
					{Kind: ability.CondFrightened, Display: "Frightened"},
				},
			},
			archetype: "save_or_suffer",
			marker:    "applyEffects",
		},
		{
			name: "heal",
			d: &ability.Descriptor{
				Name:           "Cure",
				Raw:            "regains hit points",
				Classification: ability.ClassHealing,
				Damage:         []ability.Damage{{Formula: "2d4+2", Type: "healing", Healing: true}},
			},
			archetype: "heal",
			marker:    "applyHealing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partial, err := Scripts(tt.d, idsFor(tt.d))
			require.NoError(t, err)
			require.NotNil(t, partial)

			workflow := partial.Flags["workflow"].(synthesis.FlagBundle)
			assert.Equal(t, tt.archetype, workflow["archetype"])
			require.Len(t, partial.Scripts, 1)
			assert.Contains(t, partial.Scripts[0], tt.marker)
			assert.True(t, strings.Contains(partial.Scripts[0], "function"), "script is a renderable blob")
		})
	}
}

func TestScriptsPassNoArchetype(t *testing.T) {
	d := &ability.Descriptor{Name: "Keen Smell", Raw: "The wolf has keen smell."}
	partial, err := Scripts(d, idsFor(d))
	require.NoError(t, err)
	assert.Nil(t, partial)
}
