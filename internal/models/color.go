package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Color is the canonical wire form of a user display color: either a named
// palette color ("red", "light-cyan", ...) or a "#rrggbb" hex string.
// Older clients send a structured form instead ({"Rgb":[r,g,b]},
// {"Indexed":n} or a bare palette name); UnmarshalJSON accepts all of them
// and normalizes to the canonical string.
type Color string

const DefaultColor Color = "white"

var paletteNames = []string{
	"reset", "black", "red", "green", "yellow", "blue", "magenta", "cyan",
	"gray", "dark-gray", "light-red", "light-green", "light-yellow",
	"light-blue", "light-magenta", "light-cyan", "white",
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func (c Color) Valid() bool {
	s := string(c)
	if hexColorRegex.MatchString(s) {
		return true
	}
	for i := range paletteNames {
		if paletteNames[i] == s {
			return true
		}
	}
	return false
}

// ParseColor normalizes a color string to its canonical form.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	// legacy clients send palette names in CamelCase ("LightCyan")
	s = camelToKebab(s)

	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("unrecognized color [%s]", s)
	}
	return c, nil
}

func camelToKebab(s string) string {
	for _, prefix := range []string{"light", "dark"} {
		rest, found := strings.CutPrefix(s, prefix)
		if found && len(rest) > 0 && rest[0] != '-' && !strings.ContainsAny(rest, "#") {
			// only split when the remainder is itself a palette name
			if Color(prefix + "-" + rest).Valid() {
				return prefix + "-" + rest
			}
		}
	}
	return s
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParseColor(s)
		if perr != nil {
			return perr
		}
		*c = parsed
		return nil
	}

	// structured legacy form
	var structured struct {
		Rgb     *[3]uint8 `json:"Rgb"`
		Indexed *uint8    `json:"Indexed"`
	}
	if err := json.Unmarshal(data, &structured); err != nil {
		return fmt.Errorf("color is neither a string nor a structured value")
	}

	switch {
	case structured.Rgb != nil:
		*c = Color(fmt.Sprintf("#%02x%02x%02x", structured.Rgb[0], structured.Rgb[1], structured.Rgb[2]))
	case structured.Indexed != nil:
		*c = paletteForIndex(*structured.Indexed)
	default:
		return fmt.Errorf("structured color has no recognized variant")
	}
	return nil
}

func paletteForIndex(i uint8) Color {
	if int(i) < len(paletteNames) {
		return Color(paletteNames[i])
	}
	return DefaultColor
}
