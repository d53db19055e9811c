package domain

// DefaultProfileName is used when no profile has been stored yet.
const DefaultProfileName = "Explorer"

// DefaultProfileIcon mirrors the initial badge shown for a new profile.
const DefaultProfileIcon = "F"

// UserProfile carries the identity and progression of the single local user.
type UserProfile struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Level int    `json:"level"`
	XP    int    `json:"xp"`
}

// NewUserProfile returns the first-run profile.
func NewUserProfile(name string) UserProfile {
	if name == "" {
		name = DefaultProfileName
	}
	return UserProfile{Name: name, Icon: DefaultProfileIcon, Level: 1, XP: 0}
}

// Sanitize coerces corrupted numeric fields back into their valid ranges.
func (p UserProfile) Sanitize() UserProfile {
	if p.Name == "" {
		p.Name = DefaultProfileName
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XP < 0 {
		p.XP = 0
	}
	return p
}
