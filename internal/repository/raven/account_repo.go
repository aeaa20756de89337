package raven

import (
	"context"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
)

type accountRepository struct {
	store docstore.Store
}

func NewAccountRepository(store docstore.Store) *accountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) GetAll(ctx context.Context, gid, uid string) ([]*domain.Account, error) {
	res, err := r.store.Query(ctx, moneyCollection, docstore.Query{
		Where: []docstore.Condition{
			docstore.Where("gid", docstore.OpEq, gid),
			docstore.Where("uid", docstore.OpEq, uid),
		},
	})
	if err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(res.Docs))
	for i := range res.Docs {
		account, err := decodeDoc[domain.Account](&res.Docs[i])
		if err != nil {
			return nil, err
		}
		account.ID = res.Docs[i].ID
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	doc, err := r.store.GetByID(ctx, moneyCollection, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	account, err := decodeDoc[domain.Account](doc)
	if err != nil {
		return nil, err
	}
	account.ID = doc.ID
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	id, err := createDoc(ctx, r.store, moneyCollection, account)
	if err != nil {
		return err
	}
	account.ID = id
	return nil
}

// Update writes balance and inventory in a single patch so the two
// fields cannot diverge, and leaves sibling fields alone.
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	return mapNotFound(r.store.Patch(ctx, moneyCollection, account.ID, map[string]any{
		"value": account.Value,
		"items": account.Items,
	}))
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, moneyCollection, id))
}
