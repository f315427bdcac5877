package models

// BadgeColor is a key of the fixed badge palette shared by tabs and festivals.
type BadgeColor string

const (
	BadgeRed    BadgeColor = "red"
	BadgeOrange BadgeColor = "orange"
	BadgeYellow BadgeColor = "yellow"
	BadgeGreen  BadgeColor = "green"
	BadgeBlue   BadgeColor = "blue"
	BadgePurple BadgeColor = "purple"
	BadgePink   BadgeColor = "pink"
)

// DefaultBadgeColor is used whenever a stored key is not part of the palette.
const DefaultBadgeColor = BadgeBlue

// BadgePalette lists the palette keys in picker order.
var BadgePalette = []BadgeColor{
	BadgeRed,
	BadgeOrange,
	BadgeYellow,
	BadgeGreen,
	BadgeBlue,
	BadgePurple,
	BadgePink,
}

var badgeHex = map[BadgeColor]string{
	BadgeRed:    "#EF4444",
	BadgeOrange: "#F97316",
	BadgeYellow: "#EAB308",
	BadgeGreen:  "#22C55E",
	BadgeBlue:   "#3B82F6",
	BadgePurple: "#A855F7",
	BadgePink:   "#EC4899",
}

func (c BadgeColor) Valid() bool {
	_, ok := badgeHex[c]
	return ok
}

// Hex returns the palette color, falling back to the default color for unknown keys.
func (c BadgeColor) Hex() string {
	return badgeHex[ResolveBadgeColor(string(c))]
}

// ResolveBadgeColor maps any stored key onto the palette.
func ResolveBadgeColor(key string) BadgeColor {
	c := BadgeColor(key)
	if c.Valid() {
		return c
	}
	return DefaultBadgeColor
}
