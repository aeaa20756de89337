package raven

import (
	"context"
	"errors"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type guildRepository struct {
	store docstore.Store
}

func NewGuildRepository(store docstore.Store) *guildRepository {
	return &guildRepository{store: store}
}

func (r *guildRepository) Get(ctx context.Context, gid string) (*domain.Guild, error) {
	res, err := r.store.Query(ctx, guildCollection, docstore.Query{
		Where: []docstore.Condition{docstore.Where("gid", docstore.OpEq, gid)},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Docs) == 0 {
		return nil, repository.ErrNotFound
	}
	guild, err := decodeDoc[domain.Guild](&res.Docs[0])
	if err != nil {
		return nil, err
	}
	guild.ID = res.Docs[0].ID
	return guild, nil
}

func (r *guildRepository) GetOrCreate(ctx context.Context, gid string) (*domain.Guild, error) {
	guild, err := r.Get(ctx, gid)
	if err == nil {
		return guild, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	guild = domain.DefaultGuild(gid)
	id, err := createDoc(ctx, r.store, guildCollection, guild)
	if err != nil {
		return nil, err
	}
	guild.ID = id
	return guild, nil
}

// Update patches every own field of the settings document.
func (r *guildRepository) Update(ctx context.Context, guild *domain.Guild) error {
	return mapNotFound(r.store.Patch(ctx, guildCollection, guild.ID, map[string]any{
		"gid":       guild.GID,
		"maxHeroes": guild.MaxHeroes,
		"money":     guild.Money,
		"webhooks":  guild.Webhooks,
		"modrole":   guild.ModRole,
		"xp":        guild.XP,
	}))
}
