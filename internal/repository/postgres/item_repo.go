package postgres

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *itemRepository {
	return &itemRepository{db: db}
}

func rowsToItems(rows []itemRow) ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *itemRepository) GetByName(ctx context.Context, gid, name string) (*domain.Item, error) {
	var row itemRow
	err := r.db.WithContext(ctx).First(&row, "gid = ? AND name = ?", gid, name).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var row itemRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", rowID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *itemRepository) GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Item, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&itemRow{}).Where("gid = ?", gid).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := r.db.WithContext(ctx).Where("gid = ?", gid).Order("sort_price ASC, name ASC")
	if page >= 0 {
		q = q.Limit(repository.PageSize).Offset(page * repository.PageSize)
	}
	var rows []itemRow
	if err := q.Find(&rows).Error; err != nil {
		return 0, nil, err
	}
	items, err := rowsToItems(rows)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *itemRepository) GetTags(ctx context.Context, gid string) ([]string, error) {
	var rows []itemRow
	if err := r.db.WithContext(ctx).Select("data").Where("gid = ?", gid).Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var tags []string
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
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
	var rows []itemRow
	err := r.db.WithContext(ctx).
		Where("gid = ? AND name LIKE ?", gid, escapeLike(prefix)+"%").
		Limit(repository.AutocompleteLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToItems(rows)
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	item.Data.Normalize()
	data, err := json.Marshal(item.Data)
	if err != nil {
		return err
	}
	row := &itemRow{
		ID:        uuid.New(),
		GID:       item.GID,
		Name:      item.Name,
		SortPrice: sortPrice(item.Data.Price),
		Data:      data,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	item.ID = row.ID.String()
	return nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	rowID, err := uuid.Parse(item.ID)
	if err != nil {
		return repository.ErrNotFound
	}
	data, err := json.Marshal(item.Data)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&itemRow{}).Where("id = ?", rowID).Updates(map[string]any{
		"data":       data,
		"sort_price": sortPrice(item.Data.Price),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&itemRow{}, "id = ?", rowID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
