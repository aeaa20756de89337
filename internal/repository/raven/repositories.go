package raven

import (
	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/repository"
)

func NewRepositories(store docstore.Store) *repository.Repositories {
	return &repository.Repositories{
		Guild:   NewGuildRepository(store),
		Account: NewAccountRepository(store),
		Item:    NewItemRepository(store),
		Hero:    NewHeroRepository(store),
		Monster: NewMonsterRepository(store),
	}
}
