package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wolfBlock = `Wolf
Medium beast, unaligned

Keen Hearing and Smell. The wolf has advantage on Wisdom (Perception) checks that rely on hearing or smell.
Pack Tactics. The wolf has advantage on attack rolls against a creature if at least one of the wolf's allies is within 5 feet of the creature.

Actions

Bite. Melee Weapon Attack: +4 to hit, reach 5 ft., one target. Hit: 7 (2d4 + 2) piercing damage. If the target is a creature, it must succeed on a DC 11 Strength saving throw or be knocked prone.`

func TestDocumentSplitsNamedAbilities(t *testing.T) {
	abilities := Document(wolfBlock)
	require.Len(t, abilities, 3)

	assert.Equal(t, "Keen Hearing and Smell", abilities[0].Name)
	assert.Equal(t, "", abilities[0].Section, "traits before any section label")
	assert.Equal(t, "Pack Tactics", abilities[1].Name)

	assert.Equal(t, "Bite", abilities[2].Name)
	assert.Equal(t, "actions", abilities[2].Section)
	assert.Contains(t, abilities[2].Text, "+4 to hit")
	assert.Contains(t, abilities[2].Text, "knocked prone")
}

func TestDocumentKeepsRechargeInText(t *testing.T) {
	abilities := Document("Bear Hug (Recharge 4-6). The golem crushes a creature within 5 feet of it.")
	require.Len(t, abilities, 1)

	assert.Equal(t, "Bear Hug", abilities[0].Name, "parenthetical stripped from the name")
	assert.Contains(t, abilities[0].Text, "Recharge 4-6", "but preserved in the text")
}

func TestDocumentMarkdownBoldHeaders(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "period inside the markers", line: "**Fire Breath (Recharge 5-6).** The dragon exhales fire in a 15-foot cone."},
		{name: "period outside the markers", line: "**Fire Breath (Recharge 5-6)**. The dragon exhales fire in a 15-foot cone."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abilities := Document(tt.line)
			require.Len(t, abilities, 1)

			assert.Equal(t, "Fire Breath", abilities[0].Name)
			assert.Contains(t, abilities[0].Text, "Recharge 5-6")
			assert.NotContains(t, abilities[0].Text, "**")
		})
	}
}

func TestDocumentMultilineAbility(t *testing.T) {
	text := "Frenzy. The berserker makes two attacks.\nEach attack that hits deals an extra 3 (1d6) damage."
	abilities := Document(text)
	require.Len(t, abilities, 1)
	assert.Contains(t, abilities[0].Text, "extra 3 (1d6) damage")
}

func TestDocumentSentenceIsNotAHeader(t *testing.T) {
	text := "Rend. The claws dig in deep. It deals extra damage on a later hit. The wound bleeds."
	abilities := Document(text)
	require.Len(t, abilities, 1)
	assert.Equal(t, "Rend", abilities[0].Name)
}

func TestDocumentDropsLeadingProse(t *testing.T) {
	abilities := Document("Just flavor text with no structure\nand a second line of it")
	assert.Empty(t, abilities)
}

func TestDocumentSectionLabels(t *testing.T) {
	text := "Actions\nSlam. Melee Weapon Attack: +6 to hit.\nReactions\nParry. The captain adds 2 to its AC."
	abilities := Document(text)
	require.Len(t, abilities, 2)
	assert.Equal(t, "actions", abilities[0].Section)
	assert.Equal(t, "reactions", abilities[1].Section)
}
