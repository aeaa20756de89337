package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/domain"
)

func TestPrice_JSON(t *testing.T) {
	t.Run("flat price is a number on the wire", func(t *testing.T) {
		data, err := json.Marshal(domain.FlatPrice(150))
		require.NoError(t, err)
		assert.Equal(t, "150", string(data))

		var p domain.Price
		require.NoError(t, json.Unmarshal(data, &p))
		assert.False(t, p.IsTiered())
		assert.Equal(t, int64(150), p.Flat)
	})

	t.Run("tiered price is an array on the wire", func(t *testing.T) {
		price := domain.TieredPrice(
			domain.PriceTier{ID: "role-1", Amount: 80, Scope: domain.ScopeRole},
			domain.PriceTier{ID: "", Amount: 100, Scope: domain.ScopeAll},
		)
		data, err := json.Marshal(price)
		require.NoError(t, err)

		var p domain.Price
		require.NoError(t, json.Unmarshal(data, &p))
		assert.True(t, p.IsTiered())
		require.Len(t, p.Tiers, 2)
		assert.Equal(t, int64(80), p.Tiers[0].Amount)
		assert.Equal(t, domain.ScopeAll, p.Tiers[1].Scope)
	})

	t.Run("leading whitespace before array", func(t *testing.T) {
		var p domain.Price
		require.NoError(t, json.Unmarshal([]byte(`  [{"id":"","price":5,"entity":"ALL"}]`), &p))
		assert.True(t, p.IsTiered())
	})
}

func TestPrice_Resolve(t *testing.T) {
	tiered := domain.TieredPrice(
		domain.PriceTier{ID: "user-9", Amount: 10, Scope: domain.ScopeUser},
		domain.PriceTier{ID: "role-a", Amount: 40, Scope: domain.ScopeRole},
		domain.PriceTier{ID: "role-b", Amount: 25, Scope: domain.ScopeRole},
		domain.PriceTier{ID: "", Amount: 100, Scope: domain.ScopeAll},
	)

	tests := []struct {
		name   string
		price  domain.Price
		userID string
		roles  []string
		want   int64
	}{
		{"flat price ignores identity", domain.FlatPrice(7), "user-9", []string{"role-a"}, 7},
		{"user tier wins over everything", tiered, "user-9", []string{"role-a", "role-b"}, 10},
		{"lowest matching role tier", tiered, "someone", []string{"role-a", "role-b"}, 25},
		{"single role match", tiered, "someone", []string{"role-a"}, 40},
		{"all fallback", tiered, "someone", []string{"role-x"}, 100},
		{"all fallback with no roles", tiered, "someone", nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.price.Resolve(tt.userID, tt.roles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("tiered without ALL is malformed", func(t *testing.T) {
		broken := domain.TieredPrice(
			domain.PriceTier{ID: "role-a", Amount: 40, Scope: domain.ScopeRole},
		)
		_, err := broken.Resolve("someone", nil)
		assert.ErrorIs(t, err, domain.ErrMalformedPrice)
	})
}

func TestSellRule(t *testing.T) {
	t.Run("percentage string on the wire", func(t *testing.T) {
		var rule domain.SellRule
		require.NoError(t, json.Unmarshal([]byte(`"50"`), &rule))
		assert.True(t, rule.Percent)
		assert.Equal(t, int64(30), rule.UnitValue(61)) // floors

		data, err := json.Marshal(rule)
		require.NoError(t, err)
		assert.Equal(t, `"50"`, string(data))
	})

	t.Run("flat number on the wire", func(t *testing.T) {
		var rule domain.SellRule
		require.NoError(t, json.Unmarshal([]byte(`12`), &rule))
		assert.False(t, rule.Percent)
		assert.Equal(t, int64(12), rule.UnitValue(999))
	})
}

func TestItem_Validate(t *testing.T) {
	valid := func() *domain.Item {
		return &domain.Item{GID: "g1", Name: "sword", Data: domain.DefaultItemData()}
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("empty name", func(t *testing.T) {
		item := valid()
		item.Name = ""
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidName)
	})

	t.Run("tiered price requires ALL fallback", func(t *testing.T) {
		item := valid()
		item.Data.Price = domain.TieredPrice(
			domain.PriceTier{ID: "role-a", Amount: 40, Scope: domain.ScopeRole},
		)
		assert.ErrorIs(t, item.Validate(), domain.ErrMalformedPrice)
	})

	t.Run("negative flat price", func(t *testing.T) {
		item := valid()
		item.Data.Price = domain.FlatPrice(-1)
		assert.ErrorIs(t, item.Validate(), domain.ErrMalformedPrice)
	})

	t.Run("stock below -1", func(t *testing.T) {
		item := valid()
		item.Data.Stock = -2
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidStock)
	})

	t.Run("recipe with zero count", func(t *testing.T) {
		item := valid()
		item.Data.Recipes = []domain.Recipe{{Item: "iron", CountItem: 0, Result: 1}}
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidRecipe)
	})

	t.Run("recipe with second component missing count", func(t *testing.T) {
		item := valid()
		item.Data.Recipes = []domain.Recipe{{Item: "iron", CountItem: 1, Item1: "coal", CountItem1: 0, Result: 1}}
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidRecipe)
	})
}

func TestAccount_Inventory(t *testing.T) {
	account := domain.DefaultAccount("g1", "u1")

	account.AddItem("items/1", 3)
	account.AddItem("items/1", 2)
	account.AddItem("items/2", 1)
	assert.Equal(t, int64(5), account.ItemQuantity("items/1"))
	assert.Equal(t, int64(1), account.ItemQuantity("items/2"))
	assert.Equal(t, int64(0), account.ItemQuantity("items/3"))

	t.Run("removal clamps to held quantity", func(t *testing.T) {
		removed := account.RemoveItem("items/1", 100)
		assert.Equal(t, int64(5), removed)
		assert.Equal(t, int64(0), account.ItemQuantity("items/1"))
	})

	t.Run("entry is deleted at zero", func(t *testing.T) {
		removed := account.RemoveItem("items/2", 1)
		assert.Equal(t, int64(1), removed)
		assert.Len(t, account.Items, 0)
	})

	t.Run("removing an absent item removes nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), account.RemoveItem("items/9", 1))
	})
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "150$", domain.FormatMoney(150, ""))
	assert.Equal(t, "150G", domain.FormatMoney(150, "G"))
}
