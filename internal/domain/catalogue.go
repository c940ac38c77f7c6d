package domain

// ColorCatalogue is the fixed chat-color palette with per-color prices.
var ColorCatalogue = map[string]int{
	"#ff4444": 200,
	"#44ff44": 200,
	"#4488ff": 250,
	"#ff44ff": 200,
	"#ffa500": 150,

	"#E51A4C": 180, // Crimson
	"#FF5A4D": 170, // Flamingo
	"#FF8A00": 160, // Orange Peel
	"#C0FF00": 150, // Lime Punch
	"#17E8B2": 150, // Aqua Mint
	"#1899FF": 160, // Dodger Blue
	"#3B3BFF": 170, // Ultramarine
	"#8C00FF": 180, // Electric Violet

	"#F4C0CB": 120, // Powder Pink
	"#FFC9A3": 120, // Peach Fuzz
	"#FAD97A": 110, // Sunray
	"#CFFAE4": 110, // Mint Cream
	"#B9DBFF": 120, // Baby Blue
	"#D7C9FF": 120, // Lavender Fog
	"#D8F5C8": 110, // Tea Green
	"#E9D7F4": 110, // Misty Lilac

	"#FF0090": 200, // Neon Pink
	"#E8FF00": 190, // Laser Lemon
	"#39FF14": 190, // Toxic Green
	"#00F6FF": 190, // Cyber Aqua
	"#B000FF": 200, // Shock Purple
	"#FF5400": 190, // Acid Orange

	"#E07A5F": 140, // Terracotta
	"#C6AD8F": 130, // Sand Dune
	"#6E8B3D": 130, // Olive Drab
	"#2C5E3B": 140, // Pine Forest
	"#3D5A80": 140, // Denim
	"#708090": 130, // Slate Grey
}

var FontCatalogue = map[string]int{
	"Press Start 2P":  300,
	"Roboto Slab":     250,
	"Comic Neue":      200,
	"VT323":           220,
	"Luckiest Guy":    260,
	"Lobster":         240,
	"Poppins":         230,
	"Source Code Pro": 210,
	"Dancing Script":  500,
	"Codystar":        400,
}

// EffectCatalogue prices the purchasable effects. Effects missing here
// (such as updown) fall back to the global effect cost.
var EffectCatalogue = map[string]int{
	"rainbow": 25,
	"pulse":   25,
	"neon":    30,
	"glitch":  100,
	"sparkle": 30,
	"shake":   20,
	"fire":    30,
	"blur":    20,
	"wave":    30,
}
