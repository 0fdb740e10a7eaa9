package synthesis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	mockuuid "github.com/KirkDiggler/ability-forge/internal/uuid/mock"
)

func TestMergeFlagsRecursive(t *testing.T) {
	dst := FlagBundle{
		"grants": FlagBundle{
			"attack_roll": FlagBundle{"all": "advantage"},
		},
		"version": 1,
	}
	src := FlagBundle{
		"grants": FlagBundle{
			"saving_throw": FlagBundle{"dex": "disadvantage"},
		},
		"version": 2,
	}

	got := MergeFlags(dst, src)

	want := FlagBundle{
		"grants": FlagBundle{
			"attack_roll":  FlagBundle{"all": "advantage"},
			"saving_throw": FlagBundle{"dex": "disadvantage"},
		},
		"version": 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged flags mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFlagsSkipsEmptyObjects(t *testing.T) {
	dst := FlagBundle{"save": FlagBundle{"dc": 15}}
	src := FlagBundle{"save": FlagBundle{}, "extra": FlagBundle{}}

	got := MergeFlags(dst, src)

	want := FlagBundle{"save": FlagBundle{"dc": 15}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged flags mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFlagsScalarLaterWins(t *testing.T) {
	got := MergeFlags(FlagBundle{"dc": 12, "name": "a"}, FlagBundle{"dc": 15})
	assert.Equal(t, 15, got["dc"])
	assert.Equal(t, "a", got["name"])
}

func TestMergeFlagsDoesNotMutateInputs(t *testing.T) {
	dst := FlagBundle{"nested": FlagBundle{"a": 1}}
	src := FlagBundle{"nested": FlagBundle{"b": 2}}

	_ = MergeFlags(dst, src)

	nested := dst["nested"].(FlagBundle)
	assert.NotContains(t, nested, "b", "destination input must stay untouched")
}

func TestMergeEffectsStatusGuard(t *testing.T) {
	base := []EffectDescriptor{
		{ID: "e1", Name: "Bite: Grappled", Statuses: []string{"grappled"}},
	}
	add := []EffectDescriptor{
		{ID: "e2", Name: "Grapple Chain", Statuses: []string{"grappled"}},
		{ID: "e3", Name: "Ongoing Crush"},
	}

	got := MergeEffects(base, add)

	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e3", got[1].ID, "status-tagged duplicate dropped, untagged effect kept")
}

func TestMergeEffectsSkipsDuplicateIDs(t *testing.T) {
	base := []EffectDescriptor{{ID: "e1"}}
	got := MergeEffects(base, []EffectDescriptor{{ID: "e1"}, {ID: "e2"}})

	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[1].ID)
}

func TestArtifactMergeComplexityMonotonic(t *testing.T) {
	a := &Artifact{Complexity: 3, Subsystems: []string{"base"}}

	merged := a.Merge(&Partial{Subsystem: "flags", Complexity: 2})
	assert.Equal(t, 3, merged.Complexity, "a pass can never lower the tier")

	merged = merged.Merge(&Partial{Subsystem: "chains", Complexity: 4})
	assert.Equal(t, 4, merged.Complexity)
	assert.Equal(t, []string{"base", "flags", "chains"}, merged.Subsystems)
}

func TestArtifactMergeItemState(t *testing.T) {
	a := &Artifact{
		Item:       ItemRecord{Name: "Bite", State: map[string]any{"equipped": true}},
		Subsystems: []string{"base"},
	}

	merged := a.Merge(&Partial{
		Subsystem: "recharge",
		ItemState: map[string]any{"recharge": map[string]any{"value": 5}},
	})

	assert.Equal(t, true, merged.Item.State["equipped"])
	rc, ok := merged.Item.State["recharge"].(FlagBundle)
	require.True(t, ok)
	assert.Equal(t, 5, rc["value"])

	// original artifact untouched
	assert.NotContains(t, a.Item.State, "recharge")
}

func TestArtifactMergeNilPartial(t *testing.T) {
	a := &Artifact{Complexity: 2}
	assert.Same(t, a, a.Merge(nil))
}

func TestValidateEffectReferences(t *testing.T) {
	a := &Artifact{
		Item: ItemRecord{Activities: []Activity{
			{ID: "act1", EffectIDs: []string{"e1"}},
		}},
		Effects: []EffectDescriptor{{ID: "e1"}},
	}
	assert.NoError(t, a.ValidateEffectReferences())

	a.Item.Activities[0].EffectIDs = append(a.Item.Activities[0].EffectIDs, "missing")
	assert.Error(t, a.ValidateEffectReferences())
}

func TestEffectIDsStableWithinConversion(t *testing.T) {
	d := bearHugDescriptor()
	ids := NewEffectIDs(mockuuid.NewSequenceGenerator("fx"), d)

	first, ok := ids.Condition(ability.CondGrappled)
	require.True(t, ok)
	second, ok := ids.Condition(ability.CondGrappled)
	require.True(t, ok)
	assert.Equal(t, first, second)

	assert.NotEqual(t, ids.Primary(), ids.Ongoing())
	assert.Len(t, ids.ConditionIDs(d), 2)
}
