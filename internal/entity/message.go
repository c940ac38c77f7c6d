package entity

import "time"

type Message struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"size:80;not null"`
	Text     string `gorm:"type:text;not null"`
	Color    string `gorm:"size:7"`
	Font     *string
	Effect   *string `gorm:"size:40"`

	CreatedAt time.Time
}
