package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/api/handlers"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func TestEconomyHandler_Buy(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := login(t, ts)
	ctx := context.Background()

	guild, err := ts.Repos.Guild.GetOrCreate(ctx, "g1")
	require.NoError(t, err)
	guild.Money.StartingMoney = 100
	require.NoError(t, ts.Repos.Guild.Update(ctx, guild))

	testutil.NewItemBuilder("g1", "sword").WithPrice(30).WithStock(5).Build(t, ts.Repos.Item)

	t.Run("successful purchase", func(t *testing.T) {
		var result handlers.BuyResponse
		resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/buy"), token,
			handlers.BuyRequest{UID: "u1", Item: "sword", Count: 2}, &result)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, "sword", result.Item)
		assert.Equal(t, int64(2), result.Count)
		assert.Equal(t, int64(30), result.UnitPrice)
		assert.Equal(t, int64(60), result.Total)
	})

	t.Run("rejected purchase carries the affordable offer", func(t *testing.T) {
		var result handlers.ErrorResponse
		resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/buy"), token,
			handlers.BuyRequest{UID: "u2", Item: "sword", Count: 5}, &result)
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		assert.Contains(t, result.Error, "not enough money")
		assert.Equal(t, int64(3), result.Suggestion)
	})

	t.Run("unknown item", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/buy"), token,
			handlers.BuyRequest{UID: "u1", Item: "ghost", Count: 1}, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestEconomyHandler_PrivilegedOps(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := login(t, ts)

	testutil.NewItemBuilder("g1", "key").Build(t, ts.Repos.Item)

	admin := handlers.CallerInfo{ID: "mod", IsAdmin: true}
	member := handlers.CallerInfo{ID: "pleb"}

	t.Run("plain member is refused", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/give"), token,
			handlers.GiveRequest{Caller: member, UID: "u1", Item: "key", Count: 1}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin gives and takes", func(t *testing.T) {
		var account handlers.AccountResponse
		resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/give"), token,
			handlers.GiveRequest{Caller: admin, UID: "u1", Item: "key", Count: 3}, &account)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, account.Items, 1)
		assert.Equal(t, int64(3), account.Items[0].Quantity)

		var take handlers.TakeResponse
		resp = doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/take"), token,
			handlers.TakeRequest{Caller: admin, UID: "u1", Item: "key", Count: 10}, &take)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(3), take.Removed)
	})

	t.Run("money management", func(t *testing.T) {
		var account handlers.AccountResponse
		resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/money/add"), token,
			handlers.MoneyRequest{Caller: admin, UID: "u1", Amount: 500}, &account)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(500), account.Value)

		resp = doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/money/remove"), token,
			handlers.MoneyRequest{Caller: admin, UID: "u1", Amount: 9999}, &account)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(0), account.Value)

		resp = doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/money/remove"), token,
			handlers.MoneyRequest{Caller: member, UID: "u1", Amount: 1}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestEconomyHandler_HeroAccounts(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := login(t, ts)

	testutil.SeedHero(t, ts.Repos.Hero, "g1", "u1", "Rin")

	var account handlers.AccountResponse
	resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/accounts"), token,
		handlers.HeroAccountRequest{UID: "u1", Hero: "Rin"}, &account)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, account.HeroID)

	resp = doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/accounts"), token,
		handlers.HeroAccountRequest{UID: "u1", Hero: "Rin"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var accounts []handlers.AccountResponse
	resp = doJSON(t, http.MethodGet, ts.APIURL("/guilds/g1/accounts/u1"), token, nil, &accounts)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, accounts, 1)

	resp = doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/accounts/delete"), token,
		handlers.HeroAccountRequest{UID: "u1", Hero: "Rin"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
