package service

import (
	"context"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

// Caller is the pre-resolved identity of whoever invoked a command. The
// transport owns decoding; the engine only ever sees this.
type Caller struct {
	ID      string
	IsOwner bool
	IsAdmin bool
	Roles   []string
}

type GuildService struct {
	guildRepo repository.GuildRepository
}

func NewGuildService(guildRepo repository.GuildRepository) *GuildService {
	return &GuildService{guildRepo: guildRepo}
}

func (s *GuildService) GetOrCreate(ctx context.Context, gid string) (*domain.Guild, error) {
	return s.guildRepo.GetOrCreate(ctx, gid)
}

func (s *GuildService) GetCurrency(ctx context.Context, gid string) (string, error) {
	guild, err := s.guildRepo.GetOrCreate(ctx, gid)
	if err != nil {
		return "", err
	}
	return guild.Currency(), nil
}

// UpdateSettingsInput carries only the fields the caller wants changed;
// nil pointers leave the stored value alone.
type UpdateSettingsInput struct {
	MaxHeroes     *int
	Currency      *string
	StartingMoney *int64
	ModRole       *string
	XPPerLevel    *int64
	XPStarting    *int64
	Webhooks      map[string]string
}

func (s *GuildService) UpdateSettings(ctx context.Context, gid string, input UpdateSettingsInput) (*domain.Guild, error) {
	guild, err := s.guildRepo.GetOrCreate(ctx, gid)
	if err != nil {
		return nil, err
	}

	if input.MaxHeroes != nil {
		guild.MaxHeroes = *input.MaxHeroes
	}
	if input.Currency != nil {
		guild.Money.Currency = *input.Currency
	}
	if input.StartingMoney != nil {
		guild.Money.StartingMoney = *input.StartingMoney
	}
	if input.ModRole != nil {
		guild.ModRole = *input.ModRole
	}
	if input.XPPerLevel != nil {
		guild.XP.PerLevel = *input.XPPerLevel
	}
	if input.XPStarting != nil {
		guild.XP.Starting = *input.XPStarting
	}
	for k, v := range input.Webhooks {
		if guild.Webhooks == nil {
			guild.Webhooks = map[string]string{}
		}
		guild.Webhooks[k] = v
	}

	if err := s.guildRepo.Update(ctx, guild); err != nil {
		return nil, err
	}
	return guild, nil
}

// HasModPerms reports whether the caller may run privileged commands:
// guild owner, administrator, or holder of the configured modrole.
func (s *GuildService) HasModPerms(guild *domain.Guild, caller Caller) bool {
	if caller.IsOwner || caller.IsAdmin {
		return true
	}
	if guild.ModRole == "" {
		return false
	}
	for _, role := range caller.Roles {
		if role == guild.ModRole {
			return true
		}
	}
	return false
}
