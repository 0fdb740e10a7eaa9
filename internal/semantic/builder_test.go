package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/extraction"
)

const bearHugText = "Bear Hug (Recharge 4-6). The golem attempts to crush a creature within 5 feet of it. " +
	"The target must make a DC 15 Dexterity saving throw. On a failed save, the creature is grappled (escape DC 15). " +
	"Until this grapple ends, the creature is restrained and takes 5 (1d10) bludgeoning damage at the start of each of its turns. " +
	"The creature can repeat the saving throw at the end of each of its turns, ending the grapple on a success."

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(&BuilderConfig{Registry: extraction.NewDefaultRegistry(nil)})
	require.NoError(t, err)
	return b
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(nil)
	assert.Error(t, err)

	_, err = NewBuilder(&BuilderConfig{})
	assert.Error(t, err)
}

func TestBuildRejectsEmptyText(t *testing.T) {
	b := newBuilder(t)
	_, err := b.Build("   ", "")
	assert.Error(t, err)
}

func TestBuildScimitarAttack(t *testing.T) {
	b := newBuilder(t)

	d, err := b.Build("Melee Weapon Attack: +5 to hit, reach 5 ft., one target. Hit: 8 (1d8 + 4) slashing damage.", "Scimitar")
	require.NoError(t, err)

	assert.Equal(t, "Scimitar", d.Name)
	assert.Equal(t, ability.ClassWeaponAttack, d.Classification)

	require.NotNil(t, d.Attack)
	assert.Equal(t, ability.AttackMeleeWeapon, d.Attack.Type)
	assert.Equal(t, 5, d.Attack.Bonus)
	assert.Equal(t, 5, d.Attack.Reach)

	require.Len(t, d.Damage, 1)
	assert.Equal(t, "1d8+4", d.Damage[0].Formula)
	assert.Equal(t, "slashing", d.Damage[0].Type)
	assert.Equal(t, 8, d.Damage[0].Average)

	assert.Equal(t, ability.Target{Kind: ability.TargetCreatures, Count: 1}, d.Target)
	assert.Equal(t, 1, d.Complexity)
}

func TestBuildLightningLine(t *testing.T) {
	b := newBuilder(t)

	d, err := b.Build("DC 15 Dex save, 60-foot line. 28 (8d6) lightning damage, half on save.", "Lightning Breath")
	require.NoError(t, err)

	assert.Equal(t, ability.ClassSave, d.Classification)

	require.Len(t, d.Saves, 1)
	assert.Equal(t, "dex", d.Saves[0].Ability)
	assert.Equal(t, 15, d.Saves[0].DC)
	assert.True(t, d.Saves[0].HalfOnSuccess)

	assert.Equal(t, ability.TargetArea, d.Target.Kind)
	assert.Equal(t, ability.AreaLine, d.Target.Shape)
	assert.Equal(t, 60, d.Target.Size)

	require.Len(t, d.Damage, 1)
	assert.Equal(t, "8d6", d.Damage[0].Formula)
	assert.Equal(t, "lightning", d.Damage[0].Type)
	assert.Equal(t, 28, d.Damage[0].Average)
}

func TestBuildBearHug(t *testing.T) {
	b := newBuilder(t)

	d, err := b.Build(bearHugText, "")
	require.NoError(t, err)

	assert.Equal(t, "Bear Hug", d.Name, "trailing recharge parenthetical stripped from the name")

	require.NotNil(t, d.Resource)
	assert.Equal(t, ability.ResourceRecharge, d.Resource.Kind)
	assert.Equal(t, 4, d.Resource.RechargeMin)
	assert.Equal(t, 6, d.Resource.RechargeMax)

	require.Len(t, d.Conditions, 2)
	assert.Equal(t, ability.CondGrappled, d.Conditions[0].Kind)
	assert.Equal(t, ability.CondRestrained, d.Conditions[1].Kind)
	assert.Equal(t, "failed_save", d.Conditions[0].Trigger)
	assert.True(t, d.Conditions[0].SaveEnds)
	assert.Equal(t, ability.TimingEndOfTurn, d.Conditions[0].SaveEndsTiming)

	assert.GreaterOrEqual(t, d.Complexity, 3)
}

func TestNameResolutionOrder(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"colon header", "Frost Ray: the caster hurls a freezing beam.", "Frost Ray"},
		{"period header", "Keen Smell. The wolf has advantage on Wisdom (Perception) checks.", "Keen Smell"},
		{"short first line", "Just a brief note\nwith more text below", "Just a brief note"},
		{"placeholder", "a very long opening sentence without any header punctuation that keeps going well past the short line cutoff", "Unnamed Ability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := b.Build(tt.text, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Name)
		})
	}
}

func TestClassificationPrecedence(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name     string
		text     string
		expected ability.Classification
	}{
		{"weapon attack wins", "Melee Weapon Attack: +4 to hit. DC 12 Con save.", ability.ClassWeaponAttack},
		{"spell attack", "Ranged Spell Attack: +6 to hit, range 120 ft., one target.", ability.ClassSpellAttack},
		{"save based", "Each creature must make a DC 13 Dexterity saving throw.", ability.ClassSave},
		{"healing", "The cleric touches a creature, and it regains 7 (2d4 + 2) hit points.", ability.ClassHealing},
		{"reaction", "The knight can use its reaction when a creature hits it with a melee attack.", ability.ClassReaction},
		{"passive", "The wolf has keen hearing.", ability.ClassPassive},
		{"utility", "The mage uses its action to turn invisible until it attacks.", ability.ClassUtility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := b.Build(tt.text, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Classification)
		})
	}
}

func TestActivationBonusActionWindow(t *testing.T) {
	b := newBuilder(t)

	d, err := b.Build("As a bonus action, the wolf can nip at an enemy.", "")
	require.NoError(t, err)
	assert.Equal(t, ability.ActivationBonus, d.Activation.Type)

	// a "bonus action" mention deep inside prose is an enumeration, not the
	// ability's own activation cost
	d, err = b.Build("The shaman chants a long litany of spirits and omens, and then as a bonus action it may shake its rattle.", "")
	require.NoError(t, err)
	assert.NotEqual(t, ability.ActivationBonus, d.Activation.Type)
}

func TestDamageDeduplication(t *testing.T) {
	b := newBuilder(t)

	// averaged and simple formats for distinct formulas coexist; identical
	// formulas collapse with the averaged entry winning
	d, err := b.Build("Hit: 8 (1d8 + 4) slashing damage plus 3d6 fire damage.", "")
	require.NoError(t, err)

	require.Len(t, d.Damage, 2)
	assert.Equal(t, "1d8+4", d.Damage[0].Formula)
	assert.Equal(t, 8, d.Damage[0].Average)
	assert.Equal(t, "3d6", d.Damage[1].Formula)
	assert.Equal(t, "fire", d.Damage[1].Type)
	assert.Equal(t, 10, d.Damage[1].Average, "simple entries get a computed average")
}

func TestBaselineComplexityScoring(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name string
		text string
		tier int
	}{
		{"plain attack", "Melee Weapon Attack: +5 to hit. Hit: 8 (1d8 + 4) slashing damage.", 1},
		{"condition adds one", "DC 12 Con save or the target is poisoned.", 2},
		{"reaction forces four", "The guard can use its reaction when a creature hits it to parry, adding 2 to its AC.", 4},
		{"multiple damage adds one", "Hit: 8 (1d8 + 4) slashing damage plus 7 (2d6) fire damage.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := b.Build(tt.text, "")
			require.NoError(t, err)
			assert.Equal(t, tt.tier, d.Complexity)
		})
	}
}

func TestDetectConditionsAdjacency(t *testing.T) {
	refs := DetectConditions("On a failed save, the target is knocked prone and becomes frightened.", "failed_save")
	require.Len(t, refs, 2)
	assert.Equal(t, ability.CondProne, refs[0].Kind)
	assert.Equal(t, ability.CondFrightened, refs[1].Kind)
	assert.Equal(t, "failed_save", refs[0].Trigger)

	// a bare mention without a linking verb does not count
	refs = DetectConditions("This creature is immune to the poisoned condition.", "")
	assert.Empty(t, refs)
}

func TestDetectConditionsTolerantSpelling(t *testing.T) {
	// one-character slip on a long condition word still matches
	refs := DetectConditions("the target is paralysed until the end of its next turn", "")
	require.Len(t, refs, 1)
	assert.Equal(t, ability.CondParalyzed, refs[0].Kind)
}

func TestDetectConditionsHomebrew(t *testing.T) {
	refs := DetectConditions("the target becomes dazed for 1 round", "")
	require.Len(t, refs, 1)
	assert.Equal(t, ability.ConditionKind("dazed"), refs[0].Kind)
}
