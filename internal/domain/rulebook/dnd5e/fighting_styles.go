package rulebook

import "strings"

const (
	FightingStyleArchery           = "archery"
	FightingStyleDefense           = "defense"
	FightingStyleDueling           = "dueling"
	FightingStyleGreatWeapon       = "great_weapon_fighting"
	FightingStyleProtection        = "protection"
	FightingStyleTwoWeaponFighting = "two_weapon_fighting"
)

// FightingStyle is a combat style some classes pick
type FightingStyle struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Classes     []ClassType `json:"classes"`
}

var fightingStyles = []FightingStyle{
	{
		Key:         FightingStyleArchery,
		Name:        "Archery",
		Description: "You gain a +2 bonus to attack rolls you make with ranged weapons.",
		Classes:     []ClassType{ClassFighter, ClassRanger},
	},
	{
		Key:         FightingStyleDefense,
		Name:        "Defense",
		Description: "While you are wearing armor, you gain a +1 bonus to AC.",
		Classes:     []ClassType{ClassFighter, ClassRanger, ClassPaladin},
	},
	{
		Key:         FightingStyleDueling,
		Name:        "Dueling",
		Description: "+2 damage when wielding a melee weapon in one hand with no other weapons.",
		Classes:     []ClassType{ClassFighter, ClassRanger, ClassPaladin},
	},
	{
		Key:         FightingStyleGreatWeapon,
		Name:        "Great Weapon Fighting",
		Description: "Treat 1s and 2s on damage dice of two-handed or versatile weapons as 3s.",
		Classes:     []ClassType{ClassFighter, ClassPaladin},
	},
	{
		Key:         FightingStyleProtection,
		Name:        "Protection",
		Description: "Use your reaction with a shield to impose disadvantage on an attack near you.",
		Classes:     []ClassType{ClassFighter, ClassPaladin},
	},
	{
		Key:         FightingStyleTwoWeaponFighting,
		Name:        "Two-Weapon Fighting",
		Description: "Add your ability modifier to the damage of your off-hand attack.",
		Classes:     []ClassType{ClassFighter, ClassRanger},
	},
}

// FightingStyles returns every fighting style
func FightingStyles() []FightingStyle {
	out := make([]FightingStyle, len(fightingStyles))
	copy(out, fightingStyles)
	return out
}

// FightingStylesForClass returns the styles a class may choose
func FightingStylesForClass(c ClassType) []FightingStyle {
	var out []FightingStyle
	for _, style := range fightingStyles {
		for _, class := range style.Classes {
			if class == c {
				out = append(out, style)
				break
			}
		}
	}
	return out
}

// LookupFightingStyle finds a style by key or display name
func LookupFightingStyle(s string) (FightingStyle, bool) {
	s = strings.TrimSpace(s)
	for _, style := range fightingStyles {
		if strings.EqualFold(style.Key, s) || strings.EqualFold(style.Name, s) {
			return style, true
		}
	}
	return FightingStyle{}, false
}

// AllowsFightingStyle reports whether class c may take the style
func AllowsFightingStyle(c ClassType, style string) bool {
	found, ok := LookupFightingStyle(style)
	if !ok {
		return false
	}
	for _, class := range found.Classes {
		if class == c {
			return true
		}
	}
	return false
}
