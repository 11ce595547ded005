package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
)

func TestStoreUpsertIsLastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Save(ctx, repository.CollectionBoosters, "b1", models.Booster{ID: "b1", Status: models.BoosterPending}))
	require.NoError(t, store.Save(ctx, repository.CollectionBoosters, "b1", models.Booster{ID: "b1", Status: models.BoosterDone, DoneBy: "u2"}))

	var got models.Booster
	require.NoError(t, store.Get(ctx, repository.CollectionBoosters, "b1", &got))
	assert.Equal(t, models.BoosterDone, got.Status)
	assert.Equal(t, "u2", got.DoneBy)
	assert.Equal(t, 1, store.Len(repository.CollectionBoosters))
}

func TestStoreFetchAllOrdersByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, repository.CollectionAnimals, id, models.Animal{ID: id, Tag: "t-" + id}))
	}

	var animals []models.Animal
	require.NoError(t, store.FetchAll(ctx, repository.CollectionAnimals, &animals))
	require.Len(t, animals, 3)
	assert.Equal(t, "a", animals[0].ID)
	assert.Equal(t, "t-c", animals[2].Tag)
}

func TestStoreEmptyAndMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var milk []models.MilkEntry
	require.NoError(t, store.FetchAll(ctx, repository.CollectionMilk, &milk))
	assert.NotNil(t, milk)
	assert.Empty(t, milk)

	var entry models.MilkEntry
	assert.ErrorIs(t, store.Get(ctx, repository.CollectionMilk, "nope", &entry), repository.ErrNotFound)
	assert.NoError(t, store.Delete(ctx, repository.CollectionMilk, "nope"))
	assert.Error(t, store.Save(ctx, repository.CollectionMilk, "", entry))
}
