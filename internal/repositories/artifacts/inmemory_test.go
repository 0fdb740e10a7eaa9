package artifacts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ability-forge/internal/errors"
)

func TestInMemorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	record := &Record{MonsterKey: "wolf", Name: "Bite", Artifact: testArtifact()}
	require.NoError(t, repo.Save(ctx, record))
	require.NotEmpty(t, record.ID)

	got, err := repo.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bite", got.Name)

	// returned record is a copy
	got.Name = "changed"
	again, err := repo.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bite", again.Name)
}

func TestInMemoryGetNotFound(t *testing.T) {
	repo := NewInMemory()
	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestInMemoryListByMonster(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	for _, name := range []string{"Bite", "Pack Tactics"} {
		require.NoError(t, repo.Save(ctx, &Record{MonsterKey: "wolf", Name: name, Artifact: testArtifact()}))
	}
	require.NoError(t, repo.Save(ctx, &Record{MonsterKey: "orc", Name: "Greataxe", Artifact: testArtifact()}))

	records, err := repo.ListByMonster(ctx, "wolf")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bite", records[0].Name)
	assert.Equal(t, "Pack Tactics", records[1].Name)
}

func TestInMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	record := &Record{MonsterKey: "wolf", Name: "Bite", Artifact: testArtifact()}
	require.NoError(t, repo.Save(ctx, record))
	require.NoError(t, repo.Delete(ctx, record.ID))

	_, err := repo.Get(ctx, record.ID)
	assert.True(t, errors.IsNotFound(err))

	records, err := repo.ListByMonster(ctx, "wolf")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInMemoryValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	assert.Error(t, repo.Save(ctx, nil))
	assert.Error(t, repo.Save(ctx, &Record{Name: "no artifact"}))
	_, err := repo.Get(ctx, "")
	assert.Error(t, err)
	_, err = repo.ListByMonster(ctx, "")
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, ""))
}
