package service

import (
	"context"
	"errors"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/repository"
)

// EconomyService runs every money and inventory transaction. All checks
// happen up front; nothing is persisted on a failed precondition.
type EconomyService struct {
	repos *repository.Repositories
}

func NewEconomyService(repos *repository.Repositories) *EconomyService {
	return &EconomyService{repos: repos}
}

// resolveItem looks an item up by exact name, falling back to document
// id so stored references (recipes, inventory hashes) keep working.
func (s *EconomyService) resolveItem(ctx context.Context, gid, ref string) (*domain.Item, error) {
	item, err := s.repos.Item.GetByName(ctx, gid, ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	item, err = s.repos.Item.GetByID(ctx, ref)
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

// ResolveHero looks a hero up by exact name within the guild, falling
// back to document id.
func (s *EconomyService) ResolveHero(ctx context.Context, gid, ref string) (*domain.Hero, error) {
	hero, err := s.repos.Hero.GetByName(ctx, gid, ref)
	if err == nil {
		return hero, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hero, err = s.repos.Hero.GetByID(ctx, ref)
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

// ResolveAccount selects the account a transaction runs against. With no
// hero reference it is the personal account, created lazily with the
// guild's starting money. With a hero reference the hero must exist and
// its account must already have been created.
func (s *EconomyService) ResolveAccount(ctx context.Context, gid, uid, heroRef string) (*domain.Account, *domain.Hero, error) {
	var hero *domain.Hero
	if heroRef != "" {
		var err error
		hero, err = s.ResolveHero(ctx, gid, heroRef)
		if err != nil {
			return nil, nil, err
		}
	}

	accounts, err := s.repos.Account.GetAll(ctx, gid, uid)
	if err != nil {
		return nil, nil, err
	}

	if hero != nil {
		for _, a := range accounts {
			if a.HeroID == hero.ID {
				return a, hero, nil
			}
		}
		return nil, nil, domain.ErrNoHeroAccount
	}

	for _, a := range accounts {
		if !a.IsHeroAccount() {
			return a, nil, nil
		}
	}

	guild, err := s.repos.Guild.GetOrCreate(ctx, gid)
	if err != nil {
		return nil, nil, err
	}
	account := domain.DefaultAccount(gid, uid)
	account.Value = guild.Money.StartingMoney
	if err := s.repos.Account.Create(ctx, account); err != nil {
		return nil, nil, err
	}
	return account, nil, nil
}

func (s *EconomyService) GetAccounts(ctx context.Context, gid, uid string) ([]*domain.Account, error) {
	return s.repos.Account.GetAll(ctx, gid, uid)
}

type BuyResult struct {
	Item      *domain.Item
	Account   *domain.Account
	Count     int64
	UnitPrice int64
	Total     int64
}

// Buy purchases count units of an item for the resolved account.
// Failures carry the alternative offer where one exists: a personal
// account short on funds gets the maximum affordable quantity, one
// exceeding finite stock gets the remaining stock. Hero accounts are
// always rejected outright.
func (s *EconomyService) Buy(ctx context.Context, gid, uid, heroRef string, roles []string, itemRef string, count int64) (*BuyResult, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidCount
	}

	item, err := s.resolveItem(ctx, gid, itemRef)
	if err != nil {
		return nil, err
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}

	if len(item.Data.Tags) > 0 {
		conflict, err := s.hasTagConflict(ctx, account, item)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, domain.ErrTagConflict
		}
	}

	unit, err := item.Data.Price.Resolve(uid, roles)
	if err != nil {
		return nil, err
	}
	total := unit * count

	if account.Value < total {
		if account.IsHeroAccount() || unit <= 0 {
			return nil, &domain.InsufficientFundsError{}
		}
		return nil, &domain.InsufficientFundsError{Affordable: account.Value / unit}
	}

	if item.Data.Stock != domain.UnlimitedStock && count > item.Data.Stock {
		if account.IsHeroAccount() || item.Data.Stock == 0 {
			return nil, &domain.InsufficientStockError{}
		}
		return nil, &domain.InsufficientStockError{Available: item.Data.Stock}
	}

	account.AddItem(item.ID, count)
	account.Value -= total
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}

	if item.Data.Stock != domain.UnlimitedStock {
		item.Data.Stock -= count
		if err := s.repos.Item.Update(ctx, item); err != nil {
			return nil, err
		}
	}

	return &BuyResult{Item: item, Account: account, Count: count, UnitPrice: unit, Total: total}, nil
}

// hasTagConflict reports whether any tag on the candidate item is
// already present on a held item. A buyer holds at most one item per
// tag, so holding the candidate itself already blocks a second buy.
func (s *EconomyService) hasTagConflict(ctx context.Context, account *domain.Account, item *domain.Item) (bool, error) {
	wanted := make(map[string]struct{}, len(item.Data.Tags))
	for _, t := range item.Data.Tags {
		wanted[t] = struct{}{}
	}
	for _, stack := range account.Items {
		if stack.Quantity <= 0 {
			continue
		}
		if stack.Hash == item.ID {
			return true, nil
		}
		held, err := s.repos.Item.GetByID(ctx, stack.Hash)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return false, err
		}
		for _, t := range held.Data.Tags {
			if _, ok := wanted[t]; ok {
				return true, nil
			}
		}
	}
	return false, nil
}

type SellResult struct {
	Item      *domain.Item
	Account   *domain.Account
	Removed   int64
	UnitValue int64
	Total     int64
}

// Sell removes up to count units, clamped to the held quantity, and
// credits the sell value. Percentage rates track the current unit
// price, not the price paid at purchase time.
func (s *EconomyService) Sell(ctx context.Context, gid, uid, heroRef string, roles []string, itemRef string, count int64) (*SellResult, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidCount
	}

	item, err := s.resolveItem(ctx, gid, itemRef)
	if err != nil {
		return nil, err
	}
	if !item.Data.Sell.CanSell {
		return nil, domain.ErrNotSellable
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}
	if account.ItemQuantity(item.ID) == 0 {
		return nil, domain.ErrNotHeld
	}

	unit, err := item.Data.Price.Resolve(uid, roles)
	if err != nil {
		return nil, err
	}
	unitValue := item.Data.Sell.For.UnitValue(unit)

	removed := account.RemoveItem(item.ID, count)
	account.Value += unitValue * removed
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}

	if item.Data.Stock != domain.UnlimitedStock {
		item.Data.Stock += removed
		if err := s.repos.Item.Update(ctx, item); err != nil {
			return nil, err
		}
	}

	return &SellResult{Item: item, Account: account, Removed: removed, UnitValue: unitValue, Total: unitValue * removed}, nil
}

type UseResult struct {
	Item    *domain.Item
	Account *domain.Account
	Removed int64
}

// Use consumes up to count units of a usable item. No money moves.
func (s *EconomyService) Use(ctx context.Context, gid, uid, heroRef, itemRef string, count int64) (*UseResult, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidCount
	}

	item, err := s.resolveItem(ctx, gid, itemRef)
	if err != nil {
		return nil, err
	}
	if !item.Data.Inventory {
		return nil, domain.ErrNotUsable
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}
	if account.ItemQuantity(item.ID) == 0 {
		return nil, domain.ErrNotHeld
	}

	removed := account.RemoveItem(item.ID, count)
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}

	return &UseResult{Item: item, Account: account, Removed: removed}, nil
}

// Give adds count units to a target account with no price or tag check.
// Privileged; the transport gates it on mod permissions.
func (s *EconomyService) Give(ctx context.Context, gid, targetUID, heroRef, itemRef string, count int64) (*domain.Account, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidCount
	}

	item, err := s.resolveItem(ctx, gid, itemRef)
	if err != nil {
		return nil, err
	}

	account, _, err := s.ResolveAccount(ctx, gid, targetUID, heroRef)
	if err != nil {
		return nil, err
	}

	account.AddItem(item.ID, count)
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Take removes up to count units from a target account. Privileged.
func (s *EconomyService) Take(ctx context.Context, gid, targetUID, heroRef, itemRef string, count int64) (int64, error) {
	if count <= 0 {
		return 0, domain.ErrInvalidCount
	}

	item, err := s.resolveItem(ctx, gid, itemRef)
	if err != nil {
		return 0, err
	}

	account, _, err := s.ResolveAccount(ctx, gid, targetUID, heroRef)
	if err != nil {
		return 0, err
	}
	if account.ItemQuantity(item.ID) == 0 {
		return 0, domain.ErrNotHeld
	}

	removed := account.RemoveItem(item.ID, count)
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return 0, err
	}
	return removed, nil
}

type CraftResult struct {
	Item    *domain.Item
	Account *domain.Account
	Recipe  domain.Recipe
	Crafted int64
}

// Craft runs the first satisfiable recipe in declaration order:
// components are consumed by their own counts, additionalCost is
// debited and result units of the crafted item are credited.
func (s *EconomyService) Craft(ctx context.Context, gid, uid, heroRef, itemRef string) (*CraftResult, error) {
	item, err := s.resolveItem(ctx, gid, itemRef)
	if err != nil {
		return nil, err
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}

	for _, recipe := range item.Data.Recipes {
		if recipe.AdditionalCost > account.Value {
			continue
		}
		if account.ItemQuantity(recipe.Item) < recipe.CountItem {
			continue
		}
		if recipe.Item1 != "" && account.ItemQuantity(recipe.Item1) < recipe.CountItem1 {
			continue
		}

		account.RemoveItem(recipe.Item, recipe.CountItem)
		if recipe.Item1 != "" {
			account.RemoveItem(recipe.Item1, recipe.CountItem1)
		}
		account.Value -= recipe.AdditionalCost
		account.AddItem(item.ID, recipe.Result)

		if err := s.repos.Account.Update(ctx, account); err != nil {
			return nil, err
		}
		return &CraftResult{Item: item, Account: account, Recipe: recipe, Crafted: recipe.Result}, nil
	}

	return nil, domain.ErrNoRecipe
}

// AddMoney credits a target account. Privileged.
func (s *EconomyService) AddMoney(ctx context.Context, gid, uid, heroRef string, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidCount
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}

	account.Value += amount
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// RemoveMoney debits a target account, clamping the balance at zero.
// Privileged.
func (s *EconomyService) RemoveMoney(ctx context.Context, gid, uid, heroRef string, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidCount
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}

	account.Value -= amount
	if account.Value < 0 {
		account.Value = 0
	}
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ResetMoney sets a target account back to the guild's starting money.
// Privileged.
func (s *EconomyService) ResetMoney(ctx context.Context, gid, uid, heroRef string) (*domain.Account, error) {
	guild, err := s.repos.Guild.GetOrCreate(ctx, gid)
	if err != nil {
		return nil, err
	}

	account, _, err := s.ResolveAccount(ctx, gid, uid, heroRef)
	if err != nil {
		return nil, err
	}

	account.Value = guild.Money.StartingMoney
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Transfer moves money between two resolved accounts. The sender must
// cover the full amount; there is no reduced-amount offer.
func (s *EconomyService) Transfer(ctx context.Context, gid, fromUID, fromHeroRef, toUID, toHeroRef string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidCount
	}

	from, _, err := s.ResolveAccount(ctx, gid, fromUID, fromHeroRef)
	if err != nil {
		return err
	}
	to, _, err := s.ResolveAccount(ctx, gid, toUID, toHeroRef)
	if err != nil {
		return err
	}

	if from.Value < amount {
		return &domain.InsufficientFundsError{}
	}

	from.Value -= amount
	if err := s.repos.Account.Update(ctx, from); err != nil {
		return err
	}
	to.Value += amount
	return s.repos.Account.Update(ctx, to)
}

// CreateHeroAccount opens the account bound to a hero, seeded with the
// guild's starting money. Capped by maxHeroes; one account per hero.
func (s *EconomyService) CreateHeroAccount(ctx context.Context, gid, uid, heroRef string) (*domain.Account, error) {
	hero, err := s.ResolveHero(ctx, gid, heroRef)
	if err != nil {
		return nil, err
	}

	guild, err := s.repos.Guild.GetOrCreate(ctx, gid)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repos.Account.GetAll(ctx, gid, uid)
	if err != nil {
		return nil, err
	}
	heroAccounts := 0
	for _, a := range accounts {
		if a.HeroID == hero.ID {
			return nil, domain.ErrHeroAccountExists
		}
		if a.IsHeroAccount() {
			heroAccounts++
		}
	}
	if heroAccounts >= guild.MaxHeroes {
		return nil, domain.ErrHeroCapReached
	}

	account := domain.DefaultAccount(gid, uid)
	account.HeroID = hero.ID
	account.Value = guild.Money.StartingMoney
	if err := s.repos.Account.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteHeroAccount removes the account bound to a hero.
func (s *EconomyService) DeleteHeroAccount(ctx context.Context, gid, uid, heroRef string) error {
	hero, err := s.ResolveHero(ctx, gid, heroRef)
	if err != nil {
		return err
	}

	accounts, err := s.repos.Account.GetAll(ctx, gid, uid)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.HeroID == hero.ID {
			return s.repos.Account.Delete(ctx, a.ID)
		}
	}
	return domain.ErrNoHeroAccount
}
