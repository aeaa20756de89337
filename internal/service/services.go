package service

import (
	"github.com/keikodev/keiko-economy/internal/config"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Guild   *GuildService
	Economy *EconomyService
	Item    *ItemService
	Hero    *HeroService
	Monster *MonsterService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(cfg),
		Guild:   NewGuildService(repos.Guild),
		Economy: NewEconomyService(repos),
		Item:    NewItemService(repos.Item),
		Hero:    NewHeroService(repos.Hero, repos.Account),
		Monster: NewMonsterService(repos.Monster),
	}
}
