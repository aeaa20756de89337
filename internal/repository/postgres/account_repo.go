package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetAll(ctx context.Context, gid, uid string) ([]*domain.Account, error) {
	var rows []accountRow
	err := r.db.WithContext(ctx).
		Where("gid = ? AND uid = ?", gid, uid).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		account, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var row accountRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", rowID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	items, err := json.Marshal(account.Items)
	if err != nil {
		return err
	}
	row := &accountRow{
		ID:     uuid.New(),
		GID:    account.GID,
		UID:    account.UID,
		HeroID: account.HeroID,
		Value:  account.Value,
		Items:  items,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	account.ID = row.ID.String()
	return nil
}

// Update writes balance and inventory together, nothing else.
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	rowID, err := uuid.Parse(account.ID)
	if err != nil {
		return repository.ErrNotFound
	}
	items, err := json.Marshal(account.Items)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", rowID).Updates(map[string]any{
		"value": account.Value,
		"items": items,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	rowID, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&accountRow{}, "id = ?", rowID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
