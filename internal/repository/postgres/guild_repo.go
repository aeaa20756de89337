package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/keikodev/keiko-economy/internal/domain"
)

type guildRepository struct {
	db *gorm.DB
}

func NewGuildRepository(db *gorm.DB) *guildRepository {
	return &guildRepository{db: db}
}

func (r *guildRepository) Get(ctx context.Context, gid string) (*domain.Guild, error) {
	var row guildRow
	err := r.db.WithContext(ctx).First(&row, "gid = ?", gid).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain()
}

// GetOrCreate converges under concurrent creation: the gid unique index
// makes the losing insert a no-op and the follow-up read returns the
// winner's row.
func (r *guildRepository) GetOrCreate(ctx context.Context, gid string) (*domain.Guild, error) {
	row, err := guildToRow(domain.DefaultGuild(gid))
	if err != nil {
		return nil, err
	}
	row.ID = uuid.New()

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gid"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, gid)
}

func (r *guildRepository) Update(ctx context.Context, guild *domain.Guild) error {
	row, err := guildToRow(guild)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&guildRow{}).Where("id = ?", row.ID).Updates(map[string]any{
		"gid":        row.GID,
		"max_heroes": row.MaxHeroes,
		"modrole":    row.ModRole,
		"money":      row.Money,
		"webhooks":   row.Webhooks,
		"xp":         row.XP,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return mapNotFound(gorm.ErrRecordNotFound)
	}
	return nil
}
