package raven_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
	"github.com/keikodev/keiko-economy/internal/repository/raven"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func newRepos() *repository.Repositories {
	return raven.NewRepositories(docstore.NewMemoryStore())
}

func TestItemRepository_CreateAndGet(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	item := testutil.NewItemBuilder("g1", "sword").WithPrice(120).Build(t, repos.Item)
	require.NotEmpty(t, item.ID)

	t.Run("by name", func(t *testing.T) {
		got, err := repos.Item.GetByName(ctx, "g1", "sword")
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
		assert.Equal(t, int64(120), got.Data.Price.Flat)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := repos.Item.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "sword", got.Name)
	})

	t.Run("wrong guild misses", func(t *testing.T) {
		_, err := repos.Item.GetByName(ctx, "g2", "sword")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("create normalizes nil slices", func(t *testing.T) {
		raw := &domain.Item{GID: "g1", Name: "plain", Data: domain.ItemData{}}
		require.NoError(t, repos.Item.Create(ctx, raw))

		got, err := repos.Item.GetByName(ctx, "g1", "plain")
		require.NoError(t, err)
		assert.NotNil(t, got.Data.Tags)
		assert.NotNil(t, got.Data.Recipes)
	})
}

func TestItemRepository_GetPage(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		testutil.NewItemBuilder("g1", fmt.Sprintf("item-%d", i)).WithPrice(int64(70 - i*10)).Build(t, repos.Item)
	}
	testutil.NewItemBuilder("g2", "other").WithPrice(1).Build(t, repos.Item)

	t.Run("first page ordered by price", func(t *testing.T) {
		total, items, err := repos.Item.GetPage(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		require.Len(t, items, repository.PageSize)
		assert.Equal(t, "item-6", items[0].Name) // cheapest first
		for i := 1; i < len(items); i++ {
			assert.LessOrEqual(t, items[i-1].Data.Price.Flat, items[i].Data.Price.Flat)
		}
	})

	t.Run("second page holds the remainder", func(t *testing.T) {
		total, items, err := repos.Item.GetPage(ctx, "g1", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Len(t, items, 2)
	})

	t.Run("page -1 returns everything", func(t *testing.T) {
		total, items, err := repos.Item.GetPage(ctx, "g1", -1)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Len(t, items, 7)
	})

	t.Run("tiered prices collate as zero", func(t *testing.T) {
		testutil.NewItemBuilder("g1", "vip").
			WithTieredPrice(
				domain.PriceTier{ID: "", Amount: 500, Scope: domain.ScopeAll},
			).
			Build(t, repos.Item)

		_, items, err := repos.Item.GetPage(ctx, "g1", 0)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, "vip", items[0].Name)
	})
}

func TestItemRepository_GetTags(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	testutil.NewItemBuilder("g1", "helm").WithTags("head", "armor").Build(t, repos.Item)
	testutil.NewItemBuilder("g1", "cap").WithTags("head").Build(t, repos.Item)
	testutil.NewItemBuilder("g1", "apple").Build(t, repos.Item)
	testutil.NewItemBuilder("g2", "crown").WithTags("royal").Build(t, repos.Item)

	tags, err := repos.Item.GetTags(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"armor", "head"}, tags)
}

func TestItemRepository_GetAutocompletions(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	testutil.NewItemBuilder("g1", "Bow").Build(t, repos.Item)
	testutil.NewItemBuilder("g1", "Bolt").Build(t, repos.Item)
	testutil.NewItemBuilder("g1", "bow-string").Build(t, repos.Item)
	testutil.NewItemBuilder("g1", "Axe").Build(t, repos.Item)

	t.Run("prefix is case-sensitive", func(t *testing.T) {
		items, err := repos.Item.GetAutocompletions(ctx, "g1", "Bo")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("result cap", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			testutil.NewItemBuilder("g1", fmt.Sprintf("potion-%02d", i)).Build(t, repos.Item)
		}
		items, err := repos.Item.GetAutocompletions(ctx, "g1", "potion-")
		require.NoError(t, err)
		assert.Len(t, items, repository.AutocompleteLimit)
	})
}

func TestItemRepository_Update(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	item := testutil.NewItemBuilder("g1", "sword").WithPrice(100).WithStock(5).Build(t, repos.Item)

	item.Data.Stock = 3
	require.NoError(t, repos.Item.Update(ctx, item))

	got, err := repos.Item.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Data.Stock)
	assert.Equal(t, "sword", got.Name)

	missing := &domain.Item{ID: "items/999", GID: "g1", Name: "ghost"}
	assert.ErrorIs(t, repos.Item.Update(ctx, missing), repository.ErrNotFound)
}

func TestGuildRepository_GetOrCreate(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	guild, err := repos.Guild.GetOrCreate(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", guild.GID)
	assert.Equal(t, 1, guild.MaxHeroes)
	assert.Equal(t, int64(0), guild.Money.StartingMoney)
	assert.Equal(t, "$", guild.Currency())

	guild.Money.Currency = "G"
	guild.Money.StartingMoney = 50
	require.NoError(t, repos.Guild.Update(ctx, guild))

	again, err := repos.Guild.GetOrCreate(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, guild.ID, again.ID)
	assert.Equal(t, "G", again.Currency())
	assert.Equal(t, int64(50), again.Money.StartingMoney)
}

func TestAccountRepository_UpdatePatchesValueAndItems(t *testing.T) {
	repos := newRepos()
	ctx := context.Background()

	account := testutil.SeedAccount(t, repos.Account, "g1", "u1", 100)

	account.Value = 40
	account.AddItem("items/1", 2)
	require.NoError(t, repos.Account.Update(ctx, account))

	all, err := repos.Account.GetAll(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(40), all[0].Value)
	assert.Equal(t, int64(2), all[0].ItemQuantity("items/1"))
	assert.Equal(t, "u1", all[0].UID) // sibling fields untouched
}
