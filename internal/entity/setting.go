package entity

const (
	DefaultStreamSuffix        = "whazzaStream"
	DefaultDailyBonus          = 20
	DefaultStreamBonusPoints   = 20
	DefaultStreamBonusInterval = 30
	DefaultSmilieCost          = 50
	DefaultColorCost           = 200
	DefaultFontCost            = 300
	DefaultEffectCost          = 25
)

// Setting is the global configuration. Logically there is at most one row;
// readers treat its absence as "use the defaults" and the repository creates
// it lazily on first write.
type Setting struct {
	ID                  int64  `gorm:"primaryKey"`
	StreamSuffix        string `gorm:"size:255;default:whazzaStream"`
	DailyBonus          int    `gorm:"default:20"`
	StreamBonusPoints   int    `gorm:"default:20"`
	StreamBonusInterval int    `gorm:"default:30"`
	SmilieCost          int    `gorm:"default:50"`
	ColorCost           int    `gorm:"default:200"`
	FontCost            int    `gorm:"default:300"`
	EffectCost          int    `gorm:"default:25"`
	HlsSecret           string `gorm:"size:255"`
}

func NewSetting() *Setting {
	return &Setting{
		StreamSuffix:        DefaultStreamSuffix,
		DailyBonus:          DefaultDailyBonus,
		StreamBonusPoints:   DefaultStreamBonusPoints,
		StreamBonusInterval: DefaultStreamBonusInterval,
		SmilieCost:          DefaultSmilieCost,
		ColorCost:           DefaultColorCost,
		FontCost:            DefaultFontCost,
		EffectCost:          DefaultEffectCost,
	}
}
