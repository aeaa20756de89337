package domain

// MonsterData is the stat block shown by the bot; monsters carry no
// transaction logic.
type MonsterData struct {
	Description string   `json:"description"`
	HP          int64    `json:"hp"`
	DMG         int64    `json:"dmg"`
	XP          int64    `json:"xp"`
	Money       int64    `json:"money"`
	Skills      []string `json:"skills"`
}

// Monster is a bestiary entry, name-unique within a guild.
type Monster struct {
	ID   string      `json:"-"`
	GID  string      `json:"gid"`
	Name string      `json:"name"`
	Data MonsterData `json:"data"`
}

func (d *MonsterData) Normalize() {
	if d.Skills == nil {
		d.Skills = []string{}
	}
}
