package raven

import (
	"context"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type monsterRepository struct {
	store docstore.Store
}

func NewMonsterRepository(store docstore.Store) *monsterRepository {
	return &monsterRepository{store: store}
}

func (r *monsterRepository) decodeAll(res *docstore.Result) ([]*domain.Monster, error) {
	monsters := make([]*domain.Monster, 0, len(res.Docs))
	for i := range res.Docs {
		monster, err := decodeDoc[domain.Monster](&res.Docs[i])
		if err != nil {
			return nil, err
		}
		monster.ID = res.Docs[i].ID
		monsters = append(monsters, monster)
	}
	return monsters, nil
}

func (r *monsterRepository) GetByName(ctx context.Context, gid, name string) (*domain.Monster, error) {
	res, err := r.store.Query(ctx, monsterCollection, docstore.Query{
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
	monster, err := decodeDoc[domain.Monster](&res.Docs[0])
	if err != nil {
		return nil, err
	}
	monster.ID = res.Docs[0].ID
	return monster, nil
}

func (r *monsterRepository) GetByID(ctx context.Context, id string) (*domain.Monster, error) {
	doc, err := r.store.GetByID(ctx, monsterCollection, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	monster, err := decodeDoc[domain.Monster](doc)
	if err != nil {
		return nil, err
	}
	monster.ID = doc.ID
	return monster, nil
}

func (r *monsterRepository) GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Monster, error) {
	q := docstore.Query{
		Where:   []docstore.Condition{docstore.Where("gid", docstore.OpEq, gid)},
		OrderBy: "name",
	}
	if page >= 0 {
		q.Limit = repository.PageSize
		q.Offset = page * repository.PageSize
	}
	res, err := r.store.Query(ctx, monsterCollection, q)
	if err != nil {
		return 0, nil, err
	}
	monsters, err := r.decodeAll(res)
	if err != nil {
		return 0, nil, err
	}
	return res.Total, monsters, nil
}

func (r *monsterRepository) GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Monster, error) {
	res, err := r.store.Query(ctx, monsterCollection, docstore.Query{
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

func (r *monsterRepository) Create(ctx context.Context, monster *domain.Monster) error {
	monster.Data.Normalize()
	id, err := createDoc(ctx, r.store, monsterCollection, monster)
	if err != nil {
		return err
	}
	monster.ID = id
	return nil
}

func (r *monsterRepository) Update(ctx context.Context, monster *domain.Monster) error {
	return mapNotFound(r.store.Patch(ctx, monsterCollection, monster.ID, map[string]any{
		"data": monster.Data,
	}))
}

func (r *monsterRepository) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, monsterCollection, id))
}
