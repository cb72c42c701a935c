package character

import "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"

// AbilityScore is one of the six scores. Modifier and SaveModifier are derived.
type AbilityScore struct {
	Score          int  `json:"score"`
	CustomModifier int  `json:"custom_modifier"`
	Modifier       int  `json:"modifier"`
	SaveProficient bool `json:"save_proficient"`
	SaveModifier   int  `json:"save_modifier"`
}

// Final is the score after custom adjustments
func (a *AbilityScore) Final() int {
	return a.Score + a.CustomModifier
}

// Ability returns the score for attr, creating a default 10 if missing
func (c *Character) Ability(attr shared.Attribute) *AbilityScore {
	if c.Abilities == nil {
		c.Abilities = make(map[shared.Attribute]*AbilityScore)
	}
	score := c.Abilities[attr]
	if score == nil {
		score = &AbilityScore{Score: 10}
		c.Abilities[attr] = score
	}
	return score
}

// FinalScore is the score plus custom modifier for attr
func (c *Character) FinalScore(attr shared.Attribute) int {
	return c.Ability(attr).Final()
}

// Modifier returns the last derived modifier for attr
func (c *Character) Modifier(attr shared.Attribute) int {
	return c.Ability(attr).Modifier
}

// Skill is a skill row. Modifier is derived. Expertise implies proficiency.
type Skill struct {
	Name       string           `json:"name"`
	Ability    shared.Attribute `json:"ability"`
	Proficient bool             `json:"proficient"`
	Expertise  bool             `json:"expertise"`
	Modifier   int              `json:"modifier"`
}

// Skill finds a skill by case-insensitive name
func (c *Character) Skill(name string) *Skill {
	def, ok := shared.LookupSkill(name)
	if !ok {
		return nil
	}
	for _, s := range c.Skills {
		if s.Name == def.Name {
			return s
		}
	}
	return nil
}

// ensureSkills keeps exactly the 18 skills in sheet order, preserving flags
func (c *Character) ensureSkills() {
	existing := make(map[string]*Skill, len(c.Skills))
	for _, s := range c.Skills {
		if s == nil {
			continue
		}
		if def, ok := shared.LookupSkill(s.Name); ok {
			existing[def.Name] = s
		}
	}

	skills := make([]*Skill, 0, len(shared.Skills))
	for _, def := range shared.Skills {
		s := existing[def.Name]
		if s == nil {
			s = &Skill{}
		}
		s.Name = def.Name
		s.Ability = def.Ability
		skills = append(skills, s)
	}
	c.Skills = skills
}
