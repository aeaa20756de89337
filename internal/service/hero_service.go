package service

import (
	"context"
	"errors"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type HeroService struct {
	heroRepo    repository.HeroRepository
	accountRepo repository.AccountRepository
}

func NewHeroService(heroRepo repository.HeroRepository, accountRepo repository.AccountRepository) *HeroService {
	return &HeroService{heroRepo: heroRepo, accountRepo: accountRepo}
}

func (s *HeroService) GetAll(ctx context.Context, gid, uid string) ([]*domain.Hero, error) {
	return s.heroRepo.GetAll(ctx, gid, uid)
}

// Get resolves by exact name, falling back to document id.
func (s *HeroService) Get(ctx context.Context, gid, ref string) (*domain.Hero, error) {
	hero, err := s.heroRepo.GetByName(ctx, gid, ref)
	if err == nil {
		return hero, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hero, err = s.heroRepo.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, err
	}
	if hero.GID != gid {
		return nil, domain.ErrHeroNotFound
	}
	return hero, nil
}

func (s *HeroService) Autocomplete(ctx context.Context, gid, prefix string) ([]*domain.Hero, error) {
	return s.heroRepo.GetAutocompletions(ctx, gid, prefix)
}

func (s *HeroService) Create(ctx context.Context, hero *domain.Hero) error {
	if hero.Name == "" {
		return domain.ErrInvalidName
	}
	hero.Data.Normalize()

	_, err := s.heroRepo.GetByName(ctx, hero.GID, hero.Name)
	if err == nil {
		return domain.ErrNameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return s.heroRepo.Create(ctx, hero)
}

func (s *HeroService) Update(ctx context.Context, gid, ref string, data domain.HeroData) (*domain.Hero, error) {
	hero, err := s.Get(ctx, gid, ref)
	if err != nil {
		return nil, err
	}

	hero.Data = data
	hero.Data.Normalize()
	if err := s.heroRepo.Update(ctx, hero); err != nil {
		return nil, err
	}
	return hero, nil
}

// Delete removes a hero and the account bound to it, so no orphaned
// hero account survives the hero.
func (s *HeroService) Delete(ctx context.Context, gid, ref string) error {
	hero, err := s.Get(ctx, gid, ref)
	if err != nil {
		return err
	}

	accounts, err := s.accountRepo.GetAll(ctx, gid, hero.UID)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.HeroID != hero.ID {
			continue
		}
		if err := s.accountRepo.Delete(ctx, a.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	return s.heroRepo.Delete(ctx, hero.ID)
}
