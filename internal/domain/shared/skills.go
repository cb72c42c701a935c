package shared

import "strings"

// SkillDefinition ties a skill to the ability it keys off
type SkillDefinition struct {
	Name    string
	Ability Attribute
}

// Skills is the fixed list of 18 skills in sheet order
var Skills = []SkillDefinition{
	{Name: "Acrobatics", Ability: AttributeDexterity},
	{Name: "Animal Handling", Ability: AttributeWisdom},
	{Name: "Arcana", Ability: AttributeIntelligence},
	{Name: "Athletics", Ability: AttributeStrength},
	{Name: "Deception", Ability: AttributeCharisma},
	{Name: "History", Ability: AttributeIntelligence},
	{Name: "Insight", Ability: AttributeWisdom},
	{Name: "Intimidation", Ability: AttributeCharisma},
	{Name: "Investigation", Ability: AttributeIntelligence},
	{Name: "Medicine", Ability: AttributeWisdom},
	{Name: "Nature", Ability: AttributeIntelligence},
	{Name: "Perception", Ability: AttributeWisdom},
	{Name: "Performance", Ability: AttributeCharisma},
	{Name: "Persuasion", Ability: AttributeCharisma},
	{Name: "Religion", Ability: AttributeIntelligence},
	{Name: "Sleight of Hand", Ability: AttributeDexterity},
	{Name: "Stealth", Ability: AttributeDexterity},
	{Name: "Survival", Ability: AttributeWisdom},
}

const (
	SkillPerception    = "Perception"
	SkillInvestigation = "Investigation"
	SkillInsight       = "Insight"
)

// LookupSkill finds a skill by case-insensitive name
func LookupSkill(name string) (SkillDefinition, bool) {
	for _, s := range Skills {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return SkillDefinition{}, false
}
