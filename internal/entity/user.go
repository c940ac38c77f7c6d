package entity

import "time"

const DefaultColor = "#000000"

type User struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"size:80;unique;not null"`
	Password string `gorm:"size:255;not null"`
	IsAdmin  bool   `gorm:"default:false"`
	IsActive bool   `gorm:"default:true"`
	Color    string `gorm:"size:7;default:#000000"`
	Font     *string

	Points          int           `gorm:"default:0"`
	UnlockedSmilies Array[string] `gorm:"type:text"`
	EffectInventory IntMap        `gorm:"type:text"`

	LastDailyBonus  *time.Time
	LastStreamBonus *time.Time
}

// NewUser returns a user with the seeded defaults: the starter smilie
// unlocked and an empty effect inventory.
func NewUser(username, passwordHash, color string, isAdmin bool) *User {
	if color == "" {
		color = DefaultColor
	}

	return &User{
		Username:        username,
		Password:        passwordHash,
		IsAdmin:         isAdmin,
		IsActive:        true,
		Color:           color,
		UnlockedSmilies: Array[string]{"melting"},
		EffectInventory: IntMap{},
	}
}
