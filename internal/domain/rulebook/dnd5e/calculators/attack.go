package calculators

import (
	"fmt"
	"strings"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
)

// AttackInput is what a weapon attack line depends on
type AttackInput struct {
	Weapon           rulebook.WeaponSpec
	StrMod           int
	DexMod           int
	ProficiencyBonus int
	FightingStyles   []string
	// ActiveBonus is the damage bonus of an active pool such as Rage, 0 when inactive
	ActiveBonus      int
	ActiveBonusLabel string
	// OtherWeaponEquipped disables Dueling
	OtherWeaponEquipped bool
	Mastered            bool
}

// AttackResult is a rendered attack line
type AttackResult struct {
	ToHit        int
	Damage       string
	UsesStrength bool
	Notes        []string
}

// ToHitString renders the attack bonus with a sign
func (r AttackResult) ToHitString() string {
	return FormatModifier(r.ToHit)
}

// Description joins the notes for display
func (r AttackResult) Description() string {
	return strings.Join(r.Notes, ". ")
}

// WeaponAttack computes to-hit and the damage string for a weapon
func WeaponAttack(in AttackInput) AttackResult {
	w := in.Weapon

	mod := in.StrMod
	usesStrength := true
	switch w.Ability {
	case rulebook.WeaponAbilityDexterity:
		mod = in.DexMod
		usesStrength = false
	case rulebook.WeaponAbilityFinesse:
		if in.DexMod > in.StrMod {
			mod = in.DexMod
			usesStrength = false
		}
	}

	toHit := mod + in.ProficiencyBonus
	damageBonus := mod
	var notes []string

	if w.Ranged && hasStyle(in.FightingStyles, rulebook.FightingStyleArchery) {
		toHit += 2
		notes = append(notes, "Archery +2 to hit")
	}
	if !w.Ranged && !w.HasProperty("two-handed") && !in.OtherWeaponEquipped &&
		hasStyle(in.FightingStyles, rulebook.FightingStyleDueling) {
		damageBonus += 2
		notes = append(notes, "Dueling +2 damage")
	}
	if w.Versatile != "" {
		notes = append(notes, fmt.Sprintf("Versatile (%s)", w.Versatile))
	}
	if in.Mastered && w.Mastery != "" {
		notes = append(notes, fmt.Sprintf("Mastery: %s", w.Mastery))
	}

	damage := FormatDamage(w.Damage, damageBonus, w.DamageType)
	if usesStrength && in.ActiveBonus > 0 {
		damage += activeSuffix(in.ActiveBonus, in.ActiveBonusLabel)
	}

	return AttackResult{
		ToHit:        toHit,
		Damage:       damage,
		UsesStrength: usesStrength,
		Notes:        notes,
	}
}

// UnarmedStrike is Str + proficiency to hit and 1 + Str bludgeoning, at least 1
func UnarmedStrike(strMod, proficiency, activeBonus int, activeLabel string) AttackResult {
	damage := fmt.Sprintf("%d bludgeoning", max(1, 1+strMod))
	if activeBonus > 0 {
		damage += activeSuffix(activeBonus, activeLabel)
	}
	return AttackResult{
		ToHit:        strMod + proficiency,
		Damage:       damage,
		UsesStrength: true,
	}
}

// FormatDamage renders "1d8 + 3 slashing", "1d6 - 1 piercing" or "1d4 bludgeoning"
func FormatDamage(dice string, bonus int, damageType string) string {
	var b strings.Builder
	b.WriteString(dice)
	switch {
	case bonus > 0:
		fmt.Fprintf(&b, " + %d", bonus)
	case bonus < 0:
		fmt.Fprintf(&b, " - %d", -bonus)
	}
	if damageType != "" {
		b.WriteString(" ")
		b.WriteString(damageType)
	}
	return b.String()
}

func activeSuffix(bonus int, label string) string {
	if label == "" {
		label = "active"
	}
	return fmt.Sprintf(" + %d (%s)", bonus, label)
}

func hasStyle(styles []string, key string) bool {
	for _, s := range styles {
		if strings.EqualFold(s, key) {
			return true
		}
	}
	return false
}

// SneakAttackDice is ceil(rogueLevel/2)
func SneakAttackDice(rogueLevel int) int {
	if rogueLevel < 1 {
		return 0
	}
	return (rogueLevel + 1) / 2
}

// ActiveDamageBonus is the class's active pool bonus at classLevel, e.g. Rage
func ActiveDamageBonus(c rulebook.ClassType, classLevel int) int {
	return c.Traits().ActiveDamageBonus.ActiveBonusForLevel(classLevel)
}

// RageDamageBonus is +2, +3 or +4 by Barbarian level
func RageDamageBonus(barbarianLevel int) int {
	return ActiveDamageBonus(rulebook.ClassBarbarian, barbarianLevel)
}
