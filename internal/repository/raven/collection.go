// Package raven implements the entity repositories over the remote
// document store. Collection names match the bot's historical
// databases: guild, money, items, hero, monsters.
package raven

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/repository"
)

const (
	guildCollection   = "guild"
	moneyCollection   = "money"
	itemsCollection   = "items"
	heroCollection    = "hero"
	monsterCollection = "monsters"
)

func decodeDoc[T any](doc *docstore.Document) (*T, error) {
	var v T
	if err := json.Unmarshal(doc.Body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func createDoc(ctx context.Context, store docstore.Store, collection string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	ids, err := store.Create(ctx, collection, []json.RawMessage{body})
	if err != nil {
		return "", err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

func mapNotFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return repository.ErrNotFound
	}
	return err
}
