package discord

import (
	"strings"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

const (
	customIDSeparator = ":"
	customIDDomain    = "sheet"

	// MaxCustomIDLength is Discord's limit for custom IDs
	MaxCustomIDLength = 100
)

// Button actions on the sheet embed
const (
	ButtonShortRest = "short_rest"
	ButtonLongRest  = "long_rest"
	ButtonToggle    = "toggle"
	ButtonSpend     = "spend"
)

// CustomID identifies a sheet button: sheet:<action>:<character id>[:<arg>]
type CustomID struct {
	Action      string
	CharacterID string
	Arg         string // resource id for toggle and spend
}

// Encode converts the CustomID to a string
func (c CustomID) Encode() (string, error) {
	if c.Action == "" || c.CharacterID == "" {
		return "", dnderr.InvalidArgument("custom ID needs an action and a character")
	}
	parts := []string{customIDDomain, c.Action, c.CharacterID}
	if c.Arg != "" {
		parts = append(parts, c.Arg)
	}
	result := strings.Join(parts, customIDSeparator)
	if len(result) > MaxCustomIDLength {
		return "", dnderr.InvalidArgumentf("custom ID exceeds maximum length of %d characters", MaxCustomIDLength)
	}
	return result, nil
}

// ParseCustomID parses a sheet button custom ID. Custom IDs from other
// components return an InvalidArgument error.
func ParseCustomID(customID string) (CustomID, error) {
	parts := strings.SplitN(customID, customIDSeparator, 4)
	if len(parts) < 3 || parts[0] != customIDDomain {
		return CustomID{}, dnderr.InvalidArgumentf("not a sheet custom ID: %q", customID)
	}
	if parts[1] == "" || parts[2] == "" {
		return CustomID{}, dnderr.InvalidArgumentf("incomplete sheet custom ID: %q", customID)
	}
	id := CustomID{Action: parts[1], CharacterID: parts[2]}
	if len(parts) == 4 {
		id.Arg = parts[3]
	}
	return id, nil
}
