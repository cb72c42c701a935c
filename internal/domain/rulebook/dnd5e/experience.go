package rulebook

// MaxLevel is the highest total character level
const MaxLevel = 20

// experienceThresholds[i] is the XP needed to reach level i+1
var experienceThresholds = []int{
	0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
}

// XPForLevel returns the XP required to reach level. Levels are clamped to 1..20.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return experienceThresholds[level-1]
}

// NextLevelXP returns the first milestone strictly above xp, or the level 20
// milestone once that has been passed.
func NextLevelXP(xp int) int {
	for _, threshold := range experienceThresholds {
		if threshold > xp {
			return threshold
		}
	}
	return experienceThresholds[MaxLevel-1]
}

// CanAdvance reports whether xp is enough to leave totalLevel
func CanAdvance(totalLevel, xp int) bool {
	if totalLevel >= MaxLevel {
		return false
	}
	return xp >= XPForLevel(totalLevel+1)
}
