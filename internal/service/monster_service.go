package service

import (
	"context"
	"errors"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type MonsterService struct {
	monsterRepo repository.MonsterRepository
}

func NewMonsterService(monsterRepo repository.MonsterRepository) *MonsterService {
	return &MonsterService{monsterRepo: monsterRepo}
}

// Get resolves by exact name, falling back to document id.
func (s *MonsterService) Get(ctx context.Context, gid, ref string) (*domain.Monster, error) {
	monster, err := s.monsterRepo.GetByName(ctx, gid, ref)
	if err == nil {
		return monster, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	monster, err = s.monsterRepo.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrMonsterNotFound
		}
		return nil, err
	}
	if monster.GID != gid {
		return nil, domain.ErrMonsterNotFound
	}
	return monster, nil
}

func (s *MonsterService) GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Monster, error) {
	return s.monsterRepo.GetPage(ctx, gid, page)
}

func (s *MonsterService) Autocomplete(ctx context.Context, gid, prefix string) ([]*domain.Monster, error) {
	return s.monsterRepo.GetAutocompletions(ctx, gid, prefix)
}

func (s *MonsterService) Create(ctx context.Context, monster *domain.Monster) error {
	if monster.Name == "" {
		return domain.ErrInvalidName
	}
	monster.Data.Normalize()

	_, err := s.monsterRepo.GetByName(ctx, monster.GID, monster.Name)
	if err == nil {
		return domain.ErrNameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return s.monsterRepo.Create(ctx, monster)
}

func (s *MonsterService) Update(ctx context.Context, gid, ref string, data domain.MonsterData) (*domain.Monster, error) {
	monster, err := s.Get(ctx, gid, ref)
	if err != nil {
		return nil, err
	}

	monster.Data = data
	monster.Data.Normalize()
	if err := s.monsterRepo.Update(ctx, monster); err != nil {
		return nil, err
	}
	return monster, nil
}

func (s *MonsterService) Delete(ctx context.Context, gid, ref string) error {
	monster, err := s.Get(ctx, gid, ref)
	if err != nil {
		return err
	}
	return s.monsterRepo.Delete(ctx, monster.ID)
}
