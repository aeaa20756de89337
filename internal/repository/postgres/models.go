// Package postgres implements the entity repositories on the legacy
// tabular backend: one row per document with the nested blocks kept as
// JSON payload columns, natural keys promoted to indexed columns.
package postgres

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/keikodev/keiko-economy/internal/domain"
)

type guildRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	GID       string         `gorm:"column:gid;uniqueIndex;not null"`
	MaxHeroes int            `gorm:"not null;default:1"`
	ModRole   string         `gorm:"column:modrole"`
	Money     datatypes.JSON `gorm:"type:jsonb"`
	Webhooks  datatypes.JSON `gorm:"type:jsonb"`
	XP        datatypes.JSON `gorm:"type:jsonb;column:xp"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (guildRow) TableName() string { return "guilds" }

type accountRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	GID       string         `gorm:"column:gid;index:idx_accounts_owner;not null"`
	UID       string         `gorm:"column:uid;index:idx_accounts_owner;not null"`
	HeroID    string         `gorm:"column:hero_id"`
	Value     int64          `gorm:"not null;default:0"`
	Items     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (accountRow) TableName() string { return "accounts" }

type itemRow struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	GID  string    `gorm:"column:gid;uniqueIndex:idx_items_gid_name;not null"`
	Name string    `gorm:"uniqueIndex:idx_items_gid_name;not null"`
	// SortPrice mirrors the flat price for ordering; tiered prices
	// collate as zero, like the document backend.
	SortPrice int64          `gorm:"column:sort_price;index"`
	Data      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (itemRow) TableName() string { return "items" }

type heroRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	GID       string         `gorm:"column:gid;uniqueIndex:idx_heroes_gid_name;not null"`
	UID       string         `gorm:"column:uid;index;not null"`
	Name      string         `gorm:"uniqueIndex:idx_heroes_gid_name;not null"`
	Data      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (heroRow) TableName() string { return "heroes" }

type monsterRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	GID       string         `gorm:"column:gid;uniqueIndex:idx_monsters_gid_name;not null"`
	Name      string         `gorm:"uniqueIndex:idx_monsters_gid_name;not null"`
	Data      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (monsterRow) TableName() string { return "monsters" }

func (r *guildRow) toDomain() (*domain.Guild, error) {
	g := &domain.Guild{
		ID:        r.ID.String(),
		GID:       r.GID,
		MaxHeroes: r.MaxHeroes,
		ModRole:   r.ModRole,
	}
	if len(r.Money) > 0 {
		if err := json.Unmarshal(r.Money, &g.Money); err != nil {
			return nil, err
		}
	}
	if len(r.Webhooks) > 0 {
		if err := json.Unmarshal(r.Webhooks, &g.Webhooks); err != nil {
			return nil, err
		}
	}
	if len(r.XP) > 0 {
		if err := json.Unmarshal(r.XP, &g.XP); err != nil {
			return nil, err
		}
	}
	if g.Webhooks == nil {
		g.Webhooks = map[string]string{}
	}
	return g, nil
}

func guildToRow(g *domain.Guild) (*guildRow, error) {
	money, err := json.Marshal(g.Money)
	if err != nil {
		return nil, err
	}
	webhooks, err := json.Marshal(g.Webhooks)
	if err != nil {
		return nil, err
	}
	xp, err := json.Marshal(g.XP)
	if err != nil {
		return nil, err
	}
	row := &guildRow{
		GID:       g.GID,
		MaxHeroes: g.MaxHeroes,
		ModRole:   g.ModRole,
		Money:     money,
		Webhooks:  webhooks,
		XP:        xp,
	}
	if g.ID != "" {
		id, err := uuid.Parse(g.ID)
		if err != nil {
			return nil, err
		}
		row.ID = id
	}
	return row, nil
}

func (r *accountRow) toDomain() (*domain.Account, error) {
	a := &domain.Account{
		ID:     r.ID.String(),
		GID:    r.GID,
		UID:    r.UID,
		HeroID: r.HeroID,
		Value:  r.Value,
		Items:  []domain.ItemStack{},
	}
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &a.Items); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (r *itemRow) toDomain() (*domain.Item, error) {
	item := &domain.Item{
		ID:   r.ID.String(),
		GID:  r.GID,
		Name: r.Name,
	}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &item.Data); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (r *heroRow) toDomain() (*domain.Hero, error) {
	hero := &domain.Hero{
		ID:   r.ID.String(),
		GID:  r.GID,
		UID:  r.UID,
		Name: r.Name,
	}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &hero.Data); err != nil {
			return nil, err
		}
	}
	return hero, nil
}

func (r *monsterRow) toDomain() (*domain.Monster, error) {
	monster := &domain.Monster{
		ID:   r.ID.String(),
		GID:  r.GID,
		Name: r.Name,
	}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &monster.Data); err != nil {
			return nil, err
		}
	}
	return monster, nil
}

// sortPrice flattens the polymorphic price into the ordering column.
func sortPrice(p domain.Price) int64 {
	if p.IsTiered() {
		return 0
	}
	return p.Flat
}
