package domain

// ItemStack is one inventory entry. Quantity is always positive; the
// entry is removed, not zeroed, when it reaches 0.
type ItemStack struct {
	Hash     string `json:"hash"`
	Quantity int64  `json:"quantity"`
}

// Account is a balance+inventory record scoped to a guild, a user and
// optionally a hero. HeroID == "" means the user's personal account.
// For a given (gid, uid) at most one account has an empty HeroID and at
// most one exists per distinct hero.
type Account struct {
	ID     string      `json:"-"`
	GID    string      `json:"gid"`
	UID    string      `json:"uid"`
	Value  int64       `json:"value"`
	HeroID string      `json:"heroID"`
	Items  []ItemStack `json:"items"`
}

func DefaultAccount(gid, uid string) *Account {
	return &Account{
		GID:   gid,
		UID:   uid,
		Value: 0,
		Items: []ItemStack{},
	}
}

// IsHeroAccount reports whether the account is bound to a hero.
func (a *Account) IsHeroAccount() bool {
	return a.HeroID != ""
}

// ItemQuantity returns the held quantity for an item, 0 if not held.
func (a *Account) ItemQuantity(hash string) int64 {
	for _, s := range a.Items {
		if s.Hash == hash {
			return s.Quantity
		}
	}
	return 0
}

// AddItem upserts count units of an item into the inventory.
func (a *Account) AddItem(hash string, count int64) {
	for i := range a.Items {
		if a.Items[i].Hash == hash {
			a.Items[i].Quantity += count
			return
		}
	}
	a.Items = append(a.Items, ItemStack{Hash: hash, Quantity: count})
}

// RemoveItem removes up to count units, clamped to the held quantity,
// and returns how many were actually removed. The entry is deleted when
// its quantity reaches zero.
func (a *Account) RemoveItem(hash string, count int64) int64 {
	for i := range a.Items {
		if a.Items[i].Hash != hash {
			continue
		}
		removed := count
		if removed > a.Items[i].Quantity {
			removed = a.Items[i].Quantity
		}
		a.Items[i].Quantity -= removed
		if a.Items[i].Quantity <= 0 {
			a.Items = append(a.Items[:i], a.Items[i+1:]...)
		}
		return removed
	}
	return 0
}
