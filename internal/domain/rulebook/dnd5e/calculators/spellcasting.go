package calculators

import (
	"sort"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
)

// SpellSlotTotals returns the slot totals for a class list. A single slot
// caster uses its own table; several slot casters combine into a caster level
// (full levels plus half of half-caster levels) on the full-caster table.
// Warlock pact slots are returned separately with Pact set.
func SpellSlotTotals(classes []character.ClassEntry) []*character.SpellSlot {
	var (
		casters     []character.ClassEntry
		casterLevel int
		pactLevel   int
		halfLevels  int
	)
	for _, entry := range classes {
		switch entry.ClassType.Traits().Caster {
		case rulebook.CasterFull:
			casters = append(casters, entry)
			casterLevel += entry.Level
		case rulebook.CasterHalf:
			casters = append(casters, entry)
			halfLevels += entry.Level
		case rulebook.CasterPact:
			pactLevel += entry.Level
		}
	}

	var totals []int
	switch len(casters) {
	case 0:
	case 1:
		totals = rulebook.SlotsForClassLevel(casters[0].ClassType, casters[0].Level)
	default:
		totals = rulebook.SlotsForCasterLevel(casterLevel + halfLevels/2)
	}

	var out []*character.SpellSlot
	for i, total := range totals {
		if total > 0 {
			out = append(out, &character.SpellSlot{Level: i + 1, Total: total})
		}
	}
	if count, level := rulebook.PactSlots(pactLevel); count > 0 {
		out = append(out, &character.SpellSlot{Level: level, Total: count, Pact: true})
	}
	return out
}

// SpellSlots computes fresh totals for classes and carries over each slot's
// Used count from existing, clamped to the new total. Regular slots match by
// level. There is only one pact slot row, so it keeps its Used count when its
// level rises.
func SpellSlots(classes []character.ClassEntry, existing []*character.SpellSlot) []*character.SpellSlot {
	used := make(map[int]int, len(existing))
	pactUsed := 0
	for _, s := range existing {
		switch {
		case s == nil:
		case s.Pact:
			pactUsed = s.Used
		default:
			used[s.Level] = s.Used
		}
	}

	slots := SpellSlotTotals(classes)
	for _, s := range slots {
		prev := used[s.Level]
		if s.Pact {
			prev = pactUsed
		}
		s.Used = min(max(prev, 0), s.Total)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Pact != slots[j].Pact {
			return !slots[i].Pact
		}
		return slots[i].Level < slots[j].Level
	})
	return slots
}

// PreparedSpellLimit is how many spells a class may prepare. Classes that
// do not prepare, or are below their first preparing level, get 0; otherwise
// class level plus the casting modifier, at least 1.
func PreparedSpellLimit(c rulebook.ClassType, classLevel, abilityMod int) int {
	traits := c.Traits()
	if !traits.PreparesSpells || classLevel < traits.PreparedFromLevel {
		return 0
	}
	return max(1, classLevel+abilityMod)
}

// SpellAttackBonus is proficiency plus the casting modifier
func SpellAttackBonus(proficiency, abilityMod int) int {
	return proficiency + abilityMod
}

// SpellSaveDC is 8 + proficiency + casting modifier
func SpellSaveDC(proficiency, abilityMod int) int {
	return 8 + proficiency + abilityMod
}

// NextLevelXP is the next milestone above xp
func NextLevelXP(xp int) int {
	return rulebook.NextLevelXP(max(xp, 0))
}
