package models

import "time"

const (
	TierFree    = "free"
	TierPremium = "premium"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string `gorm:"not null"`
	AvatarKey    string
	Tier         string    `gorm:"not null;default:free"`
	Timezone     string    `gorm:"not null;default:UTC"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (user *User) IsPremium() bool {
	return user.Tier == TierPremium
}

// AvatarURL resolves the stable public URL for the user's avatar, or ""
// when the user has none. Storage and transcoding live elsewhere.
func (user *User) AvatarURL() string {
	if user.AvatarKey == "" {
		return ""
	}
	return "/avatars/" + user.AvatarKey
}
