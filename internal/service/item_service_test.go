package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
	"github.com/keikodev/keiko-economy/internal/repository/raven"
	"github.com/keikodev/keiko-economy/internal/service"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func newItemService() (*service.ItemService, *repository.Repositories) {
	repos := raven.NewRepositories(docstore.NewMemoryStore())
	return service.NewItemService(repos.Item), repos
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and normalizes", func(t *testing.T) {
		svc, _ := newItemService()

		item := &domain.Item{GID: "g1", Name: "sword", Data: domain.DefaultItemData()}
		item.Data.Tags = nil
		require.NoError(t, svc.Create(ctx, item))
		require.NotEmpty(t, item.ID)

		got, err := svc.Get(ctx, "g1", "sword")
		require.NoError(t, err)
		assert.NotNil(t, got.Data.Tags)
	})

	t.Run("name collision within the guild", func(t *testing.T) {
		svc, repos := newItemService()
		testutil.NewItemBuilder("g1", "sword").Build(t, repos.Item)

		err := svc.Create(ctx, &domain.Item{GID: "g1", Name: "sword", Data: domain.DefaultItemData()})
		assert.ErrorIs(t, err, domain.ErrNameTaken)

		// Same name in another guild is fine.
		err = svc.Create(ctx, &domain.Item{GID: "g2", Name: "sword", Data: domain.DefaultItemData()})
		assert.NoError(t, err)
	})

	t.Run("validation rejects bad data", func(t *testing.T) {
		svc, _ := newItemService()

		item := &domain.Item{GID: "g1", Name: "broken", Data: domain.DefaultItemData()}
		item.Data.Stock = -2
		assert.ErrorIs(t, svc.Create(ctx, item), domain.ErrInvalidStock)
	})
}

func TestItemService_Get(t *testing.T) {
	svc, repos := newItemService()
	ctx := context.Background()

	item := testutil.NewItemBuilder("g1", "sword").Build(t, repos.Item)

	t.Run("by name", func(t *testing.T) {
		got, err := svc.Get(ctx, "g1", "sword")
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
	})

	t.Run("falls back to id", func(t *testing.T) {
		got, err := svc.Get(ctx, "g1", item.ID)
		require.NoError(t, err)
		assert.Equal(t, "sword", got.Name)
	})

	t.Run("id from another guild is hidden", func(t *testing.T) {
		_, err := svc.Get(ctx, "g2", item.ID)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := svc.Get(ctx, "g1", "ghost")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestItemService_Update(t *testing.T) {
	svc, repos := newItemService()
	ctx := context.Background()

	testutil.NewItemBuilder("g1", "sword").WithPrice(100).Build(t, repos.Item)

	data := domain.DefaultItemData()
	data.Price = domain.FlatPrice(250)
	data.Description = "sharp"

	updated, err := svc.Update(ctx, "g1", "sword", data)
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.Data.Price.Flat)

	got, err := svc.Get(ctx, "g1", "sword")
	require.NoError(t, err)
	assert.Equal(t, "sharp", got.Data.Description)

	t.Run("rejects invalid replacement data", func(t *testing.T) {
		bad := domain.DefaultItemData()
		bad.Price = domain.TieredPrice(domain.PriceTier{ID: "r", Amount: 5, Scope: domain.ScopeRole})
		_, err := svc.Update(ctx, "g1", "sword", bad)
		assert.ErrorIs(t, err, domain.ErrMalformedPrice)
	})
}

func TestItemService_Delete(t *testing.T) {
	svc, repos := newItemService()
	ctx := context.Background()

	testutil.NewItemBuilder("g1", "sword").Build(t, repos.Item)

	require.NoError(t, svc.Delete(ctx, "g1", "sword"))
	_, err := svc.Get(ctx, "g1", "sword")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "g1", "sword"), domain.ErrItemNotFound)
}
