package rulebook

import "strings"

// ClassType is the closed set of playable classes. Class-specific behavior is
// looked up from data keyed by this type; see traits.go.
type ClassType string

const (
	ClassBarbarian ClassType = "Barbarian"
	ClassBard      ClassType = "Bard"
	ClassCleric    ClassType = "Cleric"
	ClassDruid     ClassType = "Druid"
	ClassFighter   ClassType = "Fighter"
	ClassMonk      ClassType = "Monk"
	ClassPaladin   ClassType = "Paladin"
	ClassRanger    ClassType = "Ranger"
	ClassRogue     ClassType = "Rogue"
	ClassSorcerer  ClassType = "Sorcerer"
	ClassWarlock   ClassType = "Warlock"
	ClassWizard    ClassType = "Wizard"
)

// ClassTypes lists every class in alphabetical order
var ClassTypes = []ClassType{
	ClassBarbarian, ClassBard, ClassCleric, ClassDruid, ClassFighter, ClassMonk,
	ClassPaladin, ClassRanger, ClassRogue, ClassSorcerer, ClassWarlock, ClassWizard,
}

// ParseClassType matches a class by name, ignoring case and surrounding space
func ParseClassType(s string) (ClassType, bool) {
	s = strings.TrimSpace(s)
	for _, ct := range ClassTypes {
		if strings.EqualFold(string(ct), s) {
			return ct, true
		}
	}
	return "", false
}

// IsValid reports whether c is one of the twelve classes
func (c ClassType) IsValid() bool {
	for _, ct := range ClassTypes {
		if ct == c {
			return true
		}
	}
	return false
}

// Key is the lowercase form used by the D&D 5e API and fighting style tables
func (c ClassType) Key() string {
	return strings.ToLower(string(c))
}

func (c ClassType) String() string {
	return string(c)
}

// PrimaryAbility is the display text for the class's key ability
func (c ClassType) PrimaryAbility() string {
	switch c {
	case ClassBarbarian:
		return "Strength"
	case ClassBard, ClassSorcerer, ClassWarlock:
		return "Charisma"
	case ClassCleric, ClassDruid:
		return "Wisdom"
	case ClassFighter:
		return "Strength or Dexterity"
	case ClassMonk, ClassRanger:
		return "Dexterity and Wisdom"
	case ClassPaladin:
		return "Strength and Charisma"
	case ClassRogue:
		return "Dexterity"
	case ClassWizard:
		return "Intelligence"
	default:
		return ""
	}
}
