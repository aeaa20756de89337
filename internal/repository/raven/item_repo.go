package raven

import (
	"context"
	"sort"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type itemRepository struct {
	store docstore.Store
}

func NewItemRepository(store docstore.Store) *itemRepository {
	return &itemRepository{store: store}
}

func (r *itemRepository) decodeAll(res *docstore.Result) ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(res.Docs))
	for i := range res.Docs {
		item, err := decodeDoc[domain.Item](&res.Docs[i])
		if err != nil {
			return nil, err
		}
		item.ID = res.Docs[i].ID
		items = append(items, item)
	}
	return items, nil
}

func (r *itemRepository) GetByName(ctx context.Context, gid, name string) (*domain.Item, error) {
	res, err := r.store.Query(ctx, itemsCollection, docstore.Query{
		Where: []docstore.Condition{
			docstore.Where("gid", docstore.OpEq, gid),
			docstore.Where("name", docstore.OpEq, name),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Docs) == 0 {
		return nil, repository.ErrNotFound
	}
	item, err := decodeDoc[domain.Item](&res.Docs[0])
	if err != nil {
		return nil, err
	}
	item.ID = res.Docs[0].ID
	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	doc, err := r.store.GetByID(ctx, itemsCollection, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	item, err := decodeDoc[domain.Item](doc)
	if err != nil {
		return nil, err
	}
	item.ID = doc.ID
	return item, nil
}

// GetPage orders by price; tiered prices sort as zero, matching the
// stored documents' numeric collation.
func (r *itemRepository) GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Item, error) {
	q := docstore.Query{
		Where:       []docstore.Condition{docstore.Where("gid", docstore.OpEq, gid)},
		OrderBy:     "data.price",
		OrderAsLong: true,
	}
	if page >= 0 {
		q.Limit = repository.PageSize
		q.Offset = page * repository.PageSize
	}
	res, err := r.store.Query(ctx, itemsCollection, q)
	if err != nil {
		return 0, nil, err
	}
	items, err := r.decodeAll(res)
	if err != nil {
		return 0, nil, err
	}
	return res.Total, items, nil
}

func (r *itemRepository) GetTags(ctx context.Context, gid string) ([]string, error) {
	res, err := r.store.Query(ctx, itemsCollection, docstore.Query{
		Where: []docstore.Condition{docstore.Where("gid", docstore.OpEq, gid)},
	})
	if err != nil {
		return nil, err
	}
	items, err := r.decodeAll(res)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, item := range items {
		for _, tag := range item.Data.Tags {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *itemRepository) GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Item, error) {
	res, err := r.store.Query(ctx, itemsCollection, docstore.Query{
		Where: []docstore.Condition{
			docstore.Where("gid", docstore.OpEq, gid),
			docstore.Where("name", docstore.OpStartsWith, prefix),
		},
		Limit: repository.AutocompleteLimit,
	})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(res)
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	item.Data.Normalize()
	id, err := createDoc(ctx, r.store, itemsCollection, item)
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

// Update patches only the data block; gid and name are immutable.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	return mapNotFound(r.store.Patch(ctx, itemsCollection, item.ID, map[string]any{
		"data": item.Data,
	}))
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, itemsCollection, id))
}
