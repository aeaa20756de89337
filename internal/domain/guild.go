package domain

// GuildMoney holds the per-guild economy settings. An empty Currency
// falls back to "$" at formatting time.
type GuildMoney struct {
	Currency      string `json:"currency"`
	StartingMoney int64  `json:"startingMoney"`
}

// GuildXP is persisted for the leveling add-on but not interpreted by
// the economy rules.
type GuildXP struct {
	PerLevel int64 `json:"perLevel"`
	Starting int64 `json:"starting"`
}

// Guild is the per-server settings document. At most one exists per gid;
// it is created lazily on first access.
type Guild struct {
	ID        string            `json:"-"`
	GID       string            `json:"gid"`
	MaxHeroes int               `json:"maxHeroes"`
	Money     GuildMoney        `json:"money"`
	Webhooks  map[string]string `json:"webhooks"`
	ModRole   string            `json:"modrole"`
	XP        GuildXP           `json:"xp"`
}

// DefaultCurrency is used when a guild has not configured a symbol.
const DefaultCurrency = "$"

func DefaultGuild(gid string) *Guild {
	return &Guild{
		GID:       gid,
		MaxHeroes: 1,
		Money:     GuildMoney{Currency: "", StartingMoney: 0},
		Webhooks:  map[string]string{},
		ModRole:   "",
		XP:        GuildXP{PerLevel: 100, Starting: 100},
	}
}

// Currency returns the configured symbol or the default.
func (g *Guild) Currency() string {
	if g.Money.Currency == "" {
		return DefaultCurrency
	}
	return g.Money.Currency
}
