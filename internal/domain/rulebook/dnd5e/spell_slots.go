package rulebook

// Slot tables are indexed by class (or caster) level; entry i is the number of
// slots of spell level i+1.

var fullCasterSlots = map[int][]int{
	1:  {2},
	2:  {3},
	3:  {4, 2},
	4:  {4, 3},
	5:  {4, 3, 2},
	6:  {4, 3, 3},
	7:  {4, 3, 3, 1},
	8:  {4, 3, 3, 2},
	9:  {4, 3, 3, 3, 1},
	10: {4, 3, 3, 3, 2},
	11: {4, 3, 3, 3, 2, 1},
	12: {4, 3, 3, 3, 2, 1},
	13: {4, 3, 3, 3, 2, 1, 1},
	14: {4, 3, 3, 3, 2, 1, 1},
	15: {4, 3, 3, 3, 2, 1, 1, 1},
	16: {4, 3, 3, 3, 2, 1, 1, 1},
	17: {4, 3, 3, 3, 2, 1, 1, 1, 1},
	18: {4, 3, 3, 3, 3, 1, 1, 1, 1},
	19: {4, 3, 3, 3, 3, 2, 1, 1, 1},
	20: {4, 3, 3, 3, 3, 2, 2, 1, 1},
}

var halfCasterSlots = map[int][]int{
	2:  {2},
	3:  {3},
	4:  {3},
	5:  {4, 2},
	6:  {4, 2},
	7:  {4, 3},
	8:  {4, 3},
	9:  {4, 3, 2},
	10: {4, 3, 2},
	11: {4, 3, 3},
	12: {4, 3, 3},
	13: {4, 3, 3, 1},
	14: {4, 3, 3, 1},
	15: {4, 3, 3, 2},
	16: {4, 3, 3, 2},
	17: {4, 3, 3, 3, 1},
	18: {4, 3, 3, 3, 1},
	19: {4, 3, 3, 3, 2},
	20: {4, 3, 3, 3, 2},
}

type pactSlot struct {
	count, level int
}

var pactSlots = map[int]pactSlot{
	1: {1, 1}, 2: {2, 1}, 3: {2, 2}, 4: {2, 2}, 5: {2, 3},
	6: {2, 3}, 7: {2, 4}, 8: {2, 4}, 9: {2, 5}, 10: {2, 5},
	11: {3, 5}, 12: {3, 5}, 13: {3, 5}, 14: {3, 5}, 15: {3, 5},
	16: {3, 5}, 17: {4, 5}, 18: {4, 5}, 19: {4, 5}, 20: {4, 5},
}

// SlotsForClassLevel returns the slot array for a single class at classLevel.
// Pact casters and non-casters return nil.
func SlotsForClassLevel(c ClassType, classLevel int) []int {
	switch c.Traits().Caster {
	case CasterFull:
		return copySlots(fullCasterSlots[clampLevel(classLevel)])
	case CasterHalf:
		return copySlots(halfCasterSlots[clampLevel(classLevel)])
	default:
		return nil
	}
}

// SlotsForCasterLevel returns the shared slot array used when several
// slot-casting classes are combined.
func SlotsForCasterLevel(casterLevel int) []int {
	if casterLevel < 1 {
		return nil
	}
	return copySlots(fullCasterSlots[clampLevel(casterLevel)])
}

// PactSlots returns the number of pact slots and their spell level
func PactSlots(warlockLevel int) (count, slotLevel int) {
	if warlockLevel < 1 {
		return 0, 0
	}
	s := pactSlots[clampLevel(warlockLevel)]
	return s.count, s.level
}

func clampLevel(level int) int {
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

func copySlots(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}
