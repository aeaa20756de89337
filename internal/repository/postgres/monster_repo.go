package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type monsterRepository struct {
	db *gorm.DB
}

func NewMonsterRepository(db *gorm.DB) *monsterRepository {
	return &monsterRepository{db: db}
}

func rowsToMonsters(rows []monsterRow) ([]*domain.Monster, error) {
	monsters := make([]*domain.Monster, 0, len(rows))
	for i := range rows {
		monster, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		monsters = append(monsters, monster)
	}
	return monsters, nil
}

func (r *monsterRepository) GetByName(ctx context.Context, gid, name string) (*domain.Monster, error) {
	var row monsterRow
	err := r.db.WithContext(ctx).First(&row, "gid = ? AND name = ?", gid, name).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *monsterRepository) GetByID(ctx context.Context, id string) (*domain.Monster, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var row monsterRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", rowID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *monsterRepository) GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Monster, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&monsterRow{}).Where("gid = ?", gid).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := r.db.WithContext(ctx).Where("gid = ?", gid).Order("name ASC")
	if page >= 0 {
		q = q.Limit(repository.PageSize).Offset(page * repository.PageSize)
	}
	var rows []monsterRow
	if err := q.Find(&rows).Error; err != nil {
		return 0, nil, err
	}
	monsters, err := rowsToMonsters(rows)
	if err != nil {
		return 0, nil, err
	}
	return total, monsters, nil
}

func (r *monsterRepository) GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Monster, error) {
	var rows []monsterRow
	err := r.db.WithContext(ctx).
		Where("gid = ? AND name LIKE ?", gid, escapeLike(prefix)+"%").
		Limit(repository.AutocompleteLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToMonsters(rows)
}

func (r *monsterRepository) Create(ctx context.Context, monster *domain.Monster) error {
	monster.Data.Normalize()
	data, err := json.Marshal(monster.Data)
	if err != nil {
		return err
	}
	row := &monsterRow{
		ID:   uuid.New(),
		GID:  monster.GID,
		Name: monster.Name,
		Data: data,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	monster.ID = row.ID.String()
	return nil
}

func (r *monsterRepository) Update(ctx context.Context, monster *domain.Monster) error {
	rowID, err := uuid.Parse(monster.ID)
	if err != nil {
		return repository.ErrNotFound
	}
	data, err := json.Marshal(monster.Data)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&monsterRow{}).Where("id = ?", rowID).Update("data", data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *monsterRepository) Delete(ctx context.Context, id string) error {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&monsterRow{}, "id = ?", rowID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
