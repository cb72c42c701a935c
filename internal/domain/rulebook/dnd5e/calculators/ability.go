package calculators

import "fmt"

// AbilityModifier is floor((score + custom - 10) / 2)
func AbilityModifier(score, custom int) int {
	v := score + custom - 10
	if v < 0 {
		// Go division truncates toward zero
		return (v - 1) / 2
	}
	return v / 2
}

// ProficiencyBonus is ceil(level/4) + 1 for total character level.
// Levels below 1 are treated as 1.
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return (level+3)/4 + 1
}

// SkillModifier adds proficiency once when proficient and twice with expertise.
// Expertise implies proficiency.
func SkillModifier(abilityMod, proficiency int, proficient, expertise bool) int {
	switch {
	case expertise:
		return abilityMod + 2*proficiency
	case proficient:
		return abilityMod + proficiency
	default:
		return abilityMod
	}
}

// SaveModifier is the ability modifier plus proficiency when proficient
func SaveModifier(abilityMod, proficiency int, proficient bool) int {
	if proficient {
		return abilityMod + proficiency
	}
	return abilityMod
}

// Initiative is the Dexterity modifier
func Initiative(dexMod int) int {
	return dexMod
}

// PassiveScore is 10 plus the skill modifier
func PassiveScore(skillMod int) int {
	return 10 + skillMod
}

// FormatModifier renders a modifier with its sign, e.g. "+3", "-1", "+0"
func FormatModifier(n int) string {
	return fmt.Sprintf("%+d", n)
}
