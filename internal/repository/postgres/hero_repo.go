package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type heroRepository struct {
	db *gorm.DB
}

func NewHeroRepository(db *gorm.DB) *heroRepository {
	return &heroRepository{db: db}
}

func rowsToHeroes(rows []heroRow) ([]*domain.Hero, error) {
	heroes := make([]*domain.Hero, 0, len(rows))
	for i := range rows {
		hero, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		heroes = append(heroes, hero)
	}
	return heroes, nil
}

func (r *heroRepository) GetAll(ctx context.Context, gid, uid string) ([]*domain.Hero, error) {
	var rows []heroRow
	err := r.db.WithContext(ctx).
		Where("gid = ? AND uid = ?", gid, uid).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToHeroes(rows)
}

func (r *heroRepository) GetByName(ctx context.Context, gid, name string) (*domain.Hero, error) {
	var row heroRow
	err := r.db.WithContext(ctx).First(&row, "gid = ? AND name = ?", gid, name).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *heroRepository) GetByID(ctx context.Context, id string) (*domain.Hero, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var row heroRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", rowID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *heroRepository) GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Hero, error) {
	var rows []heroRow
	err := r.db.WithContext(ctx).
		Where("gid = ? AND name LIKE ?", gid, escapeLike(prefix)+"%").
		Limit(repository.AutocompleteLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToHeroes(rows)
}

func (r *heroRepository) Create(ctx context.Context, hero *domain.Hero) error {
	hero.Data.Normalize()
	data, err := json.Marshal(hero.Data)
	if err != nil {
		return err
	}
	row := &heroRow{
		ID:   uuid.New(),
		GID:  hero.GID,
		UID:  hero.UID,
		Name: hero.Name,
		Data: data,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	hero.ID = row.ID.String()
	return nil
}

func (r *heroRepository) Update(ctx context.Context, hero *domain.Hero) error {
	rowID, err := uuid.Parse(hero.ID)
	if err != nil {
		return repository.ErrNotFound
	}
	data, err := json.Marshal(hero.Data)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&heroRow{}).Where("id = ?", rowID).Update("data", data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *heroRepository) Delete(ctx context.Context, id string) error {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&heroRow{}, "id = ?", rowID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
