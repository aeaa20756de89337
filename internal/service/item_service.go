package service

import (
	"context"
	"errors"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

type ItemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// Get resolves by exact name, falling back to document id.
func (s *ItemService) Get(ctx context.Context, gid, ref string) (*domain.Item, error) {
	item, err := s.itemRepo.GetByName(ctx, gid, ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	item, err = s.itemRepo.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	if item.GID != gid {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *ItemService) GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Item, error) {
	return s.itemRepo.GetPage(ctx, gid, page)
}

func (s *ItemService) GetTags(ctx context.Context, gid string) ([]string, error) {
	return s.itemRepo.GetTags(ctx, gid)
}

func (s *ItemService) Autocomplete(ctx context.Context, gid, prefix string) ([]*domain.Item, error) {
	return s.itemRepo.GetAutocompletions(ctx, gid, prefix)
}

func (s *ItemService) Create(ctx context.Context, item *domain.Item) error {
	item.Data.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}

	_, err := s.itemRepo.GetByName(ctx, item.GID, item.Name)
	if err == nil {
		return domain.ErrNameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return s.itemRepo.Create(ctx, item)
}

func (s *ItemService) Update(ctx context.Context, gid, ref string, data domain.ItemData) (*domain.Item, error) {
	item, err := s.Get(ctx, gid, ref)
	if err != nil {
		return nil, err
	}

	item.Data = data
	item.Data.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, gid, ref string) error {
	item, err := s.Get(ctx, gid, ref)
	if err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, item.ID)
}
