package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
	"github.com/keikodev/keiko-economy/internal/repository/raven"
	"github.com/keikodev/keiko-economy/internal/service"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func newHeroService(t *testing.T) (*service.HeroService, *repository.Repositories) {
	t.Helper()
	repos := raven.NewRepositories(docstore.NewMemoryStore())
	return service.NewHeroService(repos.Hero, repos.Account), repos
}

func TestHeroService_Create(t *testing.T) {
	svc, _ := newHeroService(t)
	ctx := context.Background()

	t.Run("empty name is rejected", func(t *testing.T) {
		err := svc.Create(ctx, &domain.Hero{GID: "g1", UID: "u1"})
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})

	t.Run("duplicate name in the same guild is rejected", func(t *testing.T) {
		require.NoError(t, svc.Create(ctx, &domain.Hero{GID: "g1", UID: "u1", Name: "Rin"}))
		err := svc.Create(ctx, &domain.Hero{GID: "g1", UID: "u2", Name: "Rin"})
		assert.ErrorIs(t, err, domain.ErrNameTaken)
	})
}

func TestHeroService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the account bound to the hero", func(t *testing.T) {
		svc, repos := newHeroService(t)
		econ := service.NewEconomyService(repos)
		hero := testutil.SeedHero(t, repos.Hero, "g1", "u1", "Rin")

		// Personal account plus the hero-bound one.
		personal, _, err := econ.ResolveAccount(ctx, "g1", "u1", "")
		require.NoError(t, err)
		bound, err := econ.CreateHeroAccount(ctx, "g1", "u1", "Rin")
		require.NoError(t, err)
		require.Equal(t, hero.ID, bound.HeroID)

		require.NoError(t, svc.Delete(ctx, "g1", "Rin"))

		_, err = repos.Hero.GetByID(ctx, hero.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repos.Account.GetByID(ctx, bound.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		// The personal account is untouched.
		_, err = repos.Account.GetByID(ctx, personal.ID)
		assert.NoError(t, err)
	})

	t.Run("hero without an account deletes cleanly", func(t *testing.T) {
		svc, repos := newHeroService(t)
		hero := testutil.SeedHero(t, repos.Hero, "g1", "u1", "Solo")

		require.NoError(t, svc.Delete(ctx, "g1", "Solo"))

		_, err := repos.Hero.GetByID(ctx, hero.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("unknown hero", func(t *testing.T) {
		svc, _ := newHeroService(t)
		err := svc.Delete(ctx, "g1", "Nobody")
		assert.ErrorIs(t, err, domain.ErrHeroNotFound)
	})
}
