package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
	"github.com/keikodev/keiko-economy/internal/repository/postgres"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func TestItemRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewItemRepository(testDB.DB)
	ctx := context.Background()

	item := testutil.NewItemBuilder("g1", "sword").WithPrice(120).WithTags("weapon").Build(t, repo)
	require.NotEmpty(t, item.ID)

	got, err := repo.GetByName(ctx, "g1", "sword")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, int64(120), got.Data.Price.Flat)
	assert.Equal(t, []string{"weapon"}, got.Data.Tags)

	got, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "sword", got.Name)

	_, err = repo.GetByName(ctx, "g2", "sword")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// A malformed id is just not found, never a driver error.
	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestItemRepository_GetPage(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewItemRepository(testDB.DB)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		testutil.NewItemBuilder("g1", fmt.Sprintf("item-%d", i)).WithPrice(int64(70 - i*10)).Build(t, repo)
	}
	testutil.NewItemBuilder("g1", "vip").
		WithTieredPrice(domain.PriceTier{ID: "", Amount: 500, Scope: domain.ScopeAll}).
		Build(t, repo)

	total, items, err := repo.GetPage(ctx, "g1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
	require.Len(t, items, repository.PageSize)
	// Tiered prices sort ahead of every flat price.
	assert.Equal(t, "vip", items[0].Name)
	assert.Equal(t, "item-6", items[1].Name)

	total, items, err = repo.GetPage(ctx, "g1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
	assert.Len(t, items, 3)

	total, items, err = repo.GetPage(ctx, "g1", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
	assert.Len(t, items, 8)
}

func TestItemRepository_TagsAndAutocomplete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewItemRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewItemBuilder("g1", "helm").WithTags("head", "armor").Build(t, repo)
	testutil.NewItemBuilder("g1", "cap").WithTags("head").Build(t, repo)
	testutil.NewItemBuilder("g1", "heavy plate").Build(t, repo)
	testutil.NewItemBuilder("g2", "crown").WithTags("royal").Build(t, repo)

	tags, err := repo.GetTags(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"armor", "head"}, tags)

	items, err := repo.GetAutocompletions(ctx, "g1", "he")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// LIKE wildcards in the prefix match literally.
	items, err = repo.GetAutocompletions(ctx, "g1", "%")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewItemRepository(testDB.DB)
	ctx := context.Background()

	item := testutil.NewItemBuilder("g1", "sword").WithPrice(100).WithStock(5).Build(t, repo)
	cheap := testutil.NewItemBuilder("g1", "stick").WithPrice(10).Build(t, repo)

	item.Data.Price = domain.FlatPrice(1)
	item.Data.Stock = 3
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Data.Stock)

	// The repriced item moves ahead in the price ordering.
	_, items, err := repo.GetPage(ctx, "g1", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "sword", items[0].Name)
	assert.Equal(t, cheap.Name, items[1].Name)

	missing := &domain.Item{ID: "c2c7bc4e-9d17-4c65-a6d8-0d5f6f5f4a11", GID: "g1", Name: "ghost"}
	assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), repository.ErrNotFound)
}

func TestAccountRepository_CRUD(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewAccountRepository(testDB.DB)
	ctx := context.Background()

	personal := testutil.SeedAccount(t, repo, "g1", "u1", 100)

	bound := domain.DefaultAccount("g1", "u1")
	bound.HeroID = "hero-1"
	bound.Value = 50
	require.NoError(t, repo.Create(ctx, bound))

	all, err := repo.GetAll(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, personal.ID, all[0].ID) // creation order

	personal.Value = 40
	personal.AddItem("item-hash", 2)
	require.NoError(t, repo.Update(ctx, personal))

	got, err := repo.GetByID(ctx, personal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.Value)
	assert.Equal(t, int64(2), got.ItemQuantity("item-hash"))
	assert.Equal(t, "u1", got.UID)
}

func TestGuildRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewGuildRepository(testDB.DB)
	ctx := context.Background()

	guild, err := repo.GetOrCreate(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, guild.MaxHeroes)
	assert.Equal(t, "$", guild.Currency())

	guild.Money.Currency = "G"
	guild.ModRole = "role-mod"
	require.NoError(t, repo.Update(ctx, guild))

	again, err := repo.GetOrCreate(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, guild.ID, again.ID)
	assert.Equal(t, "G", again.Currency())
	assert.Equal(t, "role-mod", again.ModRole)
}
