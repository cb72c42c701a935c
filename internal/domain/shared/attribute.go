package shared

import "strings"

// Attribute is one of the six ability scores
type Attribute string

// Attributes in sheet order
var Attributes = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeIntelligence, AttributeWisdom, AttributeCharisma}

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "Str"
	AttributeDexterity    Attribute = "Dex"
	AttributeConstitution Attribute = "Con"
	AttributeIntelligence Attribute = "Int"
	AttributeWisdom       Attribute = "Wis"
	AttributeCharisma     Attribute = "Cha"
)

var attributeNames = map[Attribute]string{
	AttributeStrength:     "Strength",
	AttributeDexterity:    "Dexterity",
	AttributeConstitution: "Constitution",
	AttributeIntelligence: "Intelligence",
	AttributeWisdom:       "Wisdom",
	AttributeCharisma:     "Charisma",
}

// Name returns the long name, e.g. "Dexterity"
func (a Attribute) Name() string {
	return attributeNames[a]
}

// IsValid reports whether a is one of the six attributes
func (a Attribute) IsValid() bool {
	_, ok := attributeNames[a]
	return ok
}

// ParseAttribute accepts short or long names in any case: "dex", "DEX", "Dexterity"
func ParseAttribute(s string) (Attribute, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for attr, name := range attributeNames {
		if s == strings.ToLower(string(attr)) || s == strings.ToLower(name) {
			return attr, true
		}
	}
	return AttributeNone, false
}
