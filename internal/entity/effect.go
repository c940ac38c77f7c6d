package entity

// AllowedEffects is the fixed catalogue of chat text-effects. A requested
// effect outside this set is silently dropped, never an error.
var AllowedEffects = map[string]bool{
	"rainbow": true,
	"pulse":   true,
	"neon":    true,
	"updown":  true,
	"glitch":  true,
	"sparkle": true,
	"shake":   true,
	"fire":    true,
	"blur":    true,
	"wave":    true,
}
