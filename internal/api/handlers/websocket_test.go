package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/api/handlers"
	"github.com/keikodev/keiko-economy/internal/events"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func wsURL(ts *testutil.TestServer, query string) string {
	return strings.Replace(ts.BaseURL(), "http", "ws", 1) + "/api/v1/ws?" + query
}

func dialFeed(t *testing.T, ts *testutil.TestServer, token, gid string) *ws.Conn {
	t.Helper()

	query := "token=" + token
	if gid != "" {
		query += "&gid=" + gid
	}
	conn, _, err := ws.DefaultDialer.Dial(wsURL(ts, query), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Give the hub a beat to pick the registration up before anything is
	// published.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func readTransaction(t *testing.T, conn *ws.Conn) events.Transaction {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var tx events.Transaction
	require.NoError(t, json.Unmarshal(data, &tx))
	return tx
}

func TestWebSocketHandler_RejectsBadTokens(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, resp, err := ws.DefaultDialer.Dial(wsURL(ts, "token=garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = ws.DefaultDialer.Dial(wsURL(ts, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketHandler_TransactionFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := login(t, ts)

	testutil.NewItemBuilder("g1", "key").Build(t, ts.Repos.Item)
	testutil.NewItemBuilder("g2", "gem").Build(t, ts.Repos.Item)

	conn := dialFeed(t, ts, token, "g1")

	admin := handlers.CallerInfo{ID: "mod", IsAdmin: true}

	// A transaction in another guild never reaches this subscriber.
	resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g2/give"), token,
		handlers.GiveRequest{Caller: admin, UID: "u1", Item: "gem", Count: 1}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.APIURL("/guilds/g1/give"), token,
		handlers.GiveRequest{Caller: admin, UID: "u1", Item: "key", Count: 2}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tx := readTransaction(t, conn)
	assert.Equal(t, "g1", tx.GID)
	assert.Equal(t, events.TxGive, tx.Type)
	assert.Equal(t, "key", tx.Item)
	assert.Equal(t, int64(2), tx.Count)
	assert.False(t, tx.At.IsZero())
}

func TestWebSocketHandler_FirehoseSeesEveryGuild(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := login(t, ts)

	testutil.NewItemBuilder("g2", "gem").Build(t, ts.Repos.Item)

	conn := dialFeed(t, ts, token, "")

	admin := handlers.CallerInfo{ID: "mod", IsAdmin: true}
	resp := doJSON(t, http.MethodPost, ts.APIURL("/guilds/g2/give"), token,
		handlers.GiveRequest{Caller: admin, UID: "u1", Item: "gem", Count: 1}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tx := readTransaction(t, conn)
	assert.Equal(t, "g2", tx.GID)
}
