package raven

import (
	"context"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type heroRepository struct {
	store docstore.Store
}

func NewHeroRepository(store docstore.Store) *heroRepository {
	return &heroRepository{store: store}
}

func (r *heroRepository) decodeAll(res *docstore.Result) ([]*domain.Hero, error) {
	heroes := make([]*domain.Hero, 0, len(res.Docs))
	for i := range res.Docs {
		hero, err := decodeDoc[domain.Hero](&res.Docs[i])
		if err != nil {
			return nil, err
		}
		hero.ID = res.Docs[i].ID
		heroes = append(heroes, hero)
	}
	return heroes, nil
}

func (r *heroRepository) GetAll(ctx context.Context, gid, uid string) ([]*domain.Hero, error) {
	res, err := r.store.Query(ctx, heroCollection, docstore.Query{
		Where: []docstore.Condition{
			docstore.Where("gid", docstore.OpEq, gid),
			docstore.Where("uid", docstore.OpEq, uid),
		},
	})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(res)
}

func (r *heroRepository) GetByName(ctx context.Context, gid, name string) (*domain.Hero, error) {
	res, err := r.store.Query(ctx, heroCollection, docstore.Query{
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
	hero, err := decodeDoc[domain.Hero](&res.Docs[0])
	if err != nil {
		return nil, err
	}
	hero.ID = res.Docs[0].ID
	return hero, nil
}

func (r *heroRepository) GetByID(ctx context.Context, id string) (*domain.Hero, error) {
	doc, err := r.store.GetByID(ctx, heroCollection, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	hero, err := decodeDoc[domain.Hero](doc)
	if err != nil {
		return nil, err
	}
	hero.ID = doc.ID
	return hero, nil
}

func (r *heroRepository) GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Hero, error) {
	res, err := r.store.Query(ctx, heroCollection, docstore.Query{
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

func (r *heroRepository) Create(ctx context.Context, hero *domain.Hero) error {
	hero.Data.Normalize()
	id, err := createDoc(ctx, r.store, heroCollection, hero)
	if err != nil {
		return err
	}
	hero.ID = id
	return nil
}

// Update patches only the data block; uid, gid and name are immutable.
func (r *heroRepository) Update(ctx context.Context, hero *domain.Hero) error {
	return mapNotFound(r.store.Patch(ctx, heroCollection, hero.ID, map[string]any{
		"data": hero.Data,
	}))
}

func (r *heroRepository) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, heroCollection, id))
}
