package domain

// HeroData is the free-form character sheet. Account is a legacy field
// kept for stored documents; the live binding is Account.HeroID.
type HeroData struct {
	Nickname  string   `json:"nickname"`
	Account   string   `json:"account,omitempty"`
	Skills    []string `json:"skills"`
	Runes     []string `json:"runes"`
	AvatarURL string   `json:"avatarUrl"`
}

// Hero is a named character belonging to a user within a guild;
// name-unique per guild.
type Hero struct {
	ID   string   `json:"-"`
	UID  string   `json:"uid"`
	GID  string   `json:"gid"`
	Name string   `json:"name"`
	Data HeroData `json:"data"`
}

func (d *HeroData) Normalize() {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Runes == nil {
		d.Runes = []string{}
	}
}
