package calculators

import (
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
)

// BodyArmor is the worn armor as the AC formula sees it
type BodyArmor struct {
	Type   rulebook.ArmorType
	BaseAC int
}

// ACInput is everything the armor class formula depends on
type ACInput struct {
	DexMod int
	Armor  *BodyArmor
	// Shield is the shield bonus, 0 when no shield is equipped
	Shield int
	// UnarmoredDefense holds the modifiers of each unarmored-defense ability the
	// character qualifies for. The best one is used.
	UnarmoredDefense []int
	Defense          bool
}

// ArmorClass applies the 5e AC rules
func ArmorClass(in ACInput) int {
	var ac int
	switch {
	case in.Armor != nil:
		switch in.Armor.Type {
		case rulebook.ArmorLight:
			ac = in.Armor.BaseAC + in.DexMod
		case rulebook.ArmorMedium:
			ac = in.Armor.BaseAC + min(in.DexMod, 2)
		default:
			ac = in.Armor.BaseAC
		}
	case len(in.UnarmoredDefense) > 0:
		best := in.UnarmoredDefense[0]
		for _, mod := range in.UnarmoredDefense[1:] {
			best = max(best, mod)
		}
		ac = 10 + in.DexMod + best
	default:
		ac = 10 + in.DexMod
	}

	ac += in.Shield

	// Defense only applies while wearing armor
	if in.Armor != nil && in.Defense {
		ac++
	}
	return ac
}

// ACCalculator computes AC from a character sheet
type ACCalculator struct {
	store *rulebook.Store
}

// NewACCalculator creates a calculator. store fills in BaseAC for armor items
// saved without one; it may be nil.
func NewACCalculator(store *rulebook.Store) *ACCalculator {
	return &ACCalculator{store: store}
}

// Calculate builds the AC input from char and applies ArmorClass
func (c *ACCalculator) Calculate(char *character.Character) int {
	if char == nil {
		return 10
	}
	return ArmorClass(c.Input(char))
}

// Input gathers armor, shield, unarmored defense and fighting style from char
func (c *ACCalculator) Input(char *character.Character) ACInput {
	in := ACInput{
		DexMod:  modifierOf(char, shared.AttributeDexterity),
		Defense: char.HasFightingStyle(rulebook.FightingStyleDefense),
	}

	if item := char.EquippedBodyArmor(); item != nil {
		base := item.BaseAC
		if base <= 0 && c.store != nil {
			if spec, ok := c.store.Armor(item.Name); ok {
				base = spec.BaseAC
			}
		}
		if base <= 0 {
			base = 10
		}
		in.Armor = &BodyArmor{Type: item.ArmorType, BaseAC: base}
	}

	if shield := char.EquippedShield(); shield != nil {
		in.Shield = shield.BaseAC
		if in.Shield <= 0 {
			in.Shield = rulebook.DefaultShieldBonus
		}
	}

	if in.Armor == nil {
		for _, entry := range char.Classes {
			if attr := entry.ClassType.Traits().UnarmoredDefense; attr != "" {
				in.UnarmoredDefense = append(in.UnarmoredDefense, modifierOf(char, attr))
			}
		}
	}
	return in
}

// modifierOf derives from the score; stored modifiers may be stale mid-recompute
func modifierOf(char *character.Character, attr shared.Attribute) int {
	score := char.Ability(attr)
	return AbilityModifier(score.Score, score.CustomModifier)
}
