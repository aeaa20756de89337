package repository

import (
	"context"
	"errors"

	"github.com/keikodev/keiko-economy/internal/domain"
)

// ErrNotFound is the backend-agnostic not-found result; every backend
// maps its own sentinel onto it.
var ErrNotFound = errors.New("not found")

// PageSize is the fixed page length of paginated item/monster listings.
const PageSize = 5

// AutocompleteLimit caps name-prefix lookups for interactive
// autocomplete.
const AutocompleteLimit = 25

type GuildRepository interface {
	Get(ctx context.Context, gid string) (*domain.Guild, error)
	// GetOrCreate fetches the guild settings, persisting and returning
	// the defaults when none exist yet.
	GetOrCreate(ctx context.Context, gid string) (*domain.Guild, error)
	Update(ctx context.Context, guild *domain.Guild) error
}

type AccountRepository interface {
	// GetAll returns every account owned by (gid, uid): the personal
	// account plus one per hero, in creation order.
	GetAll(ctx context.Context, gid, uid string) ([]*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	// Update persists only the balance and inventory, leaving sibling
	// fields untouched.
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
}

type ItemRepository interface {
	GetByName(ctx context.Context, gid, name string) (*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// GetPage returns the total item count for the guild plus one page
	// of PageSize items ordered by price.
	GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Item, error)
	// GetTags returns the distinct non-empty tags across the guild's
	// items.
	GetTags(ctx context.Context, gid string) ([]string, error)
	// GetAutocompletions matches names by case-sensitive prefix, capped
	// at AutocompleteLimit.
	GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	// Update persists only the data block.
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
}

type HeroRepository interface {
	GetAll(ctx context.Context, gid, uid string) ([]*domain.Hero, error)
	GetByName(ctx context.Context, gid, name string) (*domain.Hero, error)
	GetByID(ctx context.Context, id string) (*domain.Hero, error)
	GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Hero, error)
	Create(ctx context.Context, hero *domain.Hero) error
	// Update persists only the data block.
	Update(ctx context.Context, hero *domain.Hero) error
	Delete(ctx context.Context, id string) error
}

type MonsterRepository interface {
	GetByName(ctx context.Context, gid, name string) (*domain.Monster, error)
	GetByID(ctx context.Context, id string) (*domain.Monster, error)
	// GetPage returns the total monster count plus one page ordered by
	// name.
	GetPage(ctx context.Context, gid string, page int) (int64, []*domain.Monster, error)
	GetAutocompletions(ctx context.Context, gid, prefix string) ([]*domain.Monster, error)
	Create(ctx context.Context, monster *domain.Monster) error
	Update(ctx context.Context, monster *domain.Monster) error
	Delete(ctx context.Context, id string) error
}

type Repositories struct {
	Guild   GuildRepository
	Account AccountRepository
	Item    ItemRepository
	Hero    HeroRepository
	Monster MonsterRepository
}
