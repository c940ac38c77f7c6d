package entity

type StreamKey struct {
	ID  int64  `gorm:"primaryKey"`
	Key string `gorm:"size:128;unique;not null"`
}
