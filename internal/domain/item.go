package domain

import (
	"encoding/json"
	"strconv"
)

// PriceScope identifies who a price tier applies to.
type PriceScope string

const (
	ScopeRole PriceScope = "ROLE"
	ScopeUser PriceScope = "USER"
	ScopeAll  PriceScope = "ALL"
)

// PriceTier is a price rule scoped to a specific user, a specific role,
// or the universal fallback.
type PriceTier struct {
	ID     string     `json:"id"`
	Amount int64      `json:"price"`
	Scope  PriceScope `json:"entity"`
}

// Price is the polymorphic item price: either a flat amount or a list
// of scoped tiers. On the wire a flat price is a JSON number and a
// tiered price is a JSON array, matching the stored documents.
type Price struct {
	Flat  int64
	Tiers []PriceTier
}

func FlatPrice(amount int64) Price {
	return Price{Flat: amount}
}

func TieredPrice(tiers ...PriceTier) Price {
	return Price{Tiers: tiers}
}

func (p Price) IsTiered() bool {
	return p.Tiers != nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.IsTiered() {
		return json.Marshal(p.Tiers)
	}
	return json.Marshal(p.Flat)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			p.Flat = 0
			return json.Unmarshal(data, &p.Tiers)
		}
		break
	}
	p.Tiers = nil
	return json.Unmarshal(data, &p.Flat)
}

// Resolve computes the effective unit price for a buyer. Tie-break
// order: a USER tier matching the buyer, then the lowest price among
// ROLE tiers matching any held role, then the ALL fallback. A tiered
// price without an ALL tier is malformed.
func (p Price) Resolve(userID string, roles []string) (int64, error) {
	if !p.IsTiered() {
		return p.Flat, nil
	}

	for _, t := range p.Tiers {
		if t.Scope == ScopeUser && t.ID == userID {
			return t.Amount, nil
		}
	}

	held := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		held[r] = struct{}{}
	}
	var best int64
	found := false
	for _, t := range p.Tiers {
		if t.Scope != ScopeRole {
			continue
		}
		if _, ok := held[t.ID]; !ok {
			continue
		}
		if !found || t.Amount < best {
			best = t.Amount
			found = true
		}
	}
	if found {
		return best, nil
	}

	for _, t := range p.Tiers {
		if t.Scope == ScopeAll {
			return t.Amount, nil
		}
	}
	return 0, ErrMalformedPrice
}

// SellRule is the polymorphic sell rate: a JSON string is a percentage
// of the current unit price, a JSON number is a flat unit value.
type SellRule struct {
	Percent bool
	Amount  int64
}

func (s SellRule) MarshalJSON() ([]byte, error) {
	if s.Percent {
		return json.Marshal(strconv.FormatInt(s.Amount, 10))
	}
	return json.Marshal(s.Amount)
}

func (s *SellRule) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return err
		}
		s.Percent = true
		s.Amount = n
		return nil
	}
	s.Percent = false
	return json.Unmarshal(data, &s.Amount)
}

// UnitValue returns the per-unit credit for selling at the current unit
// price. Percentage rates floor.
func (s SellRule) UnitValue(unitPrice int64) int64 {
	if s.Percent {
		return unitPrice * s.Amount / 100
	}
	return s.Amount
}

type Sell struct {
	For     SellRule `json:"for"`
	CanSell bool     `json:"canSell"`
}

// Recipe converts component items plus currency into result units of
// the parent item. Item1 is optional; recipes are evaluated in
// declaration order.
type Recipe struct {
	Item           string `json:"item"`
	CountItem      int64  `json:"countItem"`
	Item1          string `json:"item1,omitempty"`
	CountItem1     int64  `json:"countItem1,omitempty"`
	AdditionalCost int64  `json:"additionalCost"`
	Result         int64  `json:"result"`
}

// TimeWindow is reserved for timed availability; persisted, unused.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ItemRoles is reserved role plumbing; persisted, not enforced.
type ItemRoles struct {
	Give     []string `json:"give"`
	Remove   []string `json:"remove"`
	Required []string `json:"required"`
}

// ItemMessages are presentation templates shown by the bot layer.
type ItemMessages struct {
	Use  string `json:"use"`
	Buy  string `json:"buy"`
	Sell string `json:"sell"`
	Add  string `json:"add"`
	Take string `json:"take"`
}

// UnlimitedStock marks an item with no stock limit.
const UnlimitedStock int64 = -1

type ItemData struct {
	Price       Price        `json:"price"`
	Description string       `json:"description"`
	Inventory   bool         `json:"inventory"`
	Stock       int64        `json:"stock"`
	Time        TimeWindow   `json:"time"`
	Sell        Sell         `json:"sell"`
	Roles       ItemRoles    `json:"roles"`
	Messages    ItemMessages `json:"messages"`
	Recipes     []Recipe     `json:"recipes"`
	Tags        []string     `json:"tags"`
}

// Item is a shop entry, name-unique within a guild.
type Item struct {
	ID   string   `json:"-"`
	GID  string   `json:"gid"`
	Name string   `json:"name"`
	Data ItemData `json:"data"`
}

// DefaultItemData is the fully-populated default data block applied to
// any unset nested attribute on creation, e.g. from a partial UI form.
func DefaultItemData() ItemData {
	return ItemData{
		Price:     FlatPrice(0),
		Inventory: true,
		Stock:     UnlimitedStock,
		Sell: Sell{
			For:     SellRule{Percent: true, Amount: 100},
			CanSell: true,
		},
		Roles: ItemRoles{
			Give:     []string{},
			Remove:   []string{},
			Required: []string{},
		},
		Recipes: []Recipe{},
		Tags:    []string{},
	}
}

// Normalize fills nil slice fields so persisted documents always carry
// the full shape.
func (d *ItemData) Normalize() {
	if d.Roles.Give == nil {
		d.Roles.Give = []string{}
	}
	if d.Roles.Remove == nil {
		d.Roles.Remove = []string{}
	}
	if d.Roles.Required == nil {
		d.Roles.Required = []string{}
	}
	if d.Recipes == nil {
		d.Recipes = []Recipe{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
}

// Validate rejects data-integrity hazards at write time instead of
// letting them crash a later read: a tiered price must carry its ALL
// fallback, tier amounts and the flat price must be non-negative, and
// recipe counts and results must be positive.
func (i *Item) Validate() error {
	if i.Name == "" {
		return ErrInvalidName
	}
	d := &i.Data
	if d.Price.IsTiered() {
		hasAll := false
		for _, t := range d.Price.Tiers {
			if t.Amount < 0 {
				return ErrMalformedPrice
			}
			switch t.Scope {
			case ScopeAll:
				hasAll = true
			case ScopeRole, ScopeUser:
			default:
				return ErrMalformedPrice
			}
		}
		if !hasAll {
			return ErrMalformedPrice
		}
	} else if d.Price.Flat < 0 {
		return ErrMalformedPrice
	}
	if d.Stock < UnlimitedStock {
		return ErrInvalidStock
	}
	for _, r := range d.Recipes {
		if r.Item == "" || r.CountItem <= 0 || r.Result <= 0 {
			return ErrInvalidRecipe
		}
		if r.Item1 != "" && r.CountItem1 <= 0 {
			return ErrInvalidRecipe
		}
		if r.AdditionalCost < 0 {
			return ErrInvalidRecipe
		}
	}
	return nil
}
