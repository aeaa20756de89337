package testutil

import (
	"context"
	"testing"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

// ItemBuilder creates test items with a builder pattern
type ItemBuilder struct {
	gid  string
	name string
	data domain.ItemData
}

// NewItemBuilder creates a new ItemBuilder with default values
func NewItemBuilder(gid, name string) *ItemBuilder {
	return &ItemBuilder{
		gid:  gid,
		name: name,
		data: domain.DefaultItemData(),
	}
}

// WithPrice sets a flat price
func (b *ItemBuilder) WithPrice(amount int64) *ItemBuilder {
	b.data.Price = domain.FlatPrice(amount)
	return b
}

// WithTieredPrice sets a tiered price
func (b *ItemBuilder) WithTieredPrice(tiers ...domain.PriceTier) *ItemBuilder {
	b.data.Price = domain.TieredPrice(tiers...)
	return b
}

// WithStock sets the stock level
func (b *ItemBuilder) WithStock(stock int64) *ItemBuilder {
	b.data.Stock = stock
	return b
}

// WithSell sets the sell rule
func (b *ItemBuilder) WithSell(rule domain.SellRule, canSell bool) *ItemBuilder {
	b.data.Sell = domain.Sell{For: rule, CanSell: canSell}
	return b
}

// WithTags sets the exclusivity tags
func (b *ItemBuilder) WithTags(tags ...string) *ItemBuilder {
	b.data.Tags = tags
	return b
}

// WithRecipes sets the recipes
func (b *ItemBuilder) WithRecipes(recipes ...domain.Recipe) *ItemBuilder {
	b.data.Recipes = recipes
	return b
}

// WithInventory sets the usable flag
func (b *ItemBuilder) WithInventory(usable bool) *ItemBuilder {
	b.data.Inventory = usable
	return b
}

// Build persists the item and returns it
func (b *ItemBuilder) Build(t *testing.T, repo repository.ItemRepository) *domain.Item {
	t.Helper()

	item := &domain.Item{GID: b.gid, Name: b.name, Data: b.data}
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("failed to create item %q: %v", b.name, err)
	}
	return item
}

// SeedAccount persists an account with a balance and inventory
func SeedAccount(t *testing.T, repo repository.AccountRepository, gid, uid string, value int64, items ...domain.ItemStack) *domain.Account {
	t.Helper()

	account := domain.DefaultAccount(gid, uid)
	account.Value = value
	account.Items = append(account.Items, items...)
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create account for %s: %v", uid, err)
	}
	return account
}

// SeedHero persists a hero
func SeedHero(t *testing.T, repo repository.HeroRepository, gid, uid, name string) *domain.Hero {
	t.Helper()

	hero := &domain.Hero{GID: gid, UID: uid, Name: name}
	if err := repo.Create(context.Background(), hero); err != nil {
		t.Fatalf("failed to create hero %q: %v", name, err)
	}
	return hero
}
