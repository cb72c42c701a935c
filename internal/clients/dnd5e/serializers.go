package dnd5e

import (
	"log"
	"strings"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apiEntities "github.com/fadedpez/dnd5e-api/entities"
)

func weaponSpec(input dnd5e.EquipmentInterface) *rulebook.WeaponSpec {
	w, ok := input.(*apiEntities.Weapon)
	if !ok || w == nil {
		return nil
	}
	if w.Damage == nil || w.Damage.DamageDice == "" {
		// Nets and the like have no damage row
		log.Printf("Weapon %s has no damage dice, skipping", w.Key)
		return nil
	}

	spec := &rulebook.WeaponSpec{
		Name:   w.Name,
		Damage: w.Damage.DamageDice,
		Ranged: strings.EqualFold(w.WeaponRange, "Ranged"),
	}
	if w.Damage.DamageType != nil {
		spec.DamageType = strings.ToLower(w.Damage.DamageType.Key)
	}
	for _, prop := range w.Properties {
		if prop != nil && prop.Key != "" {
			spec.Properties = append(spec.Properties, strings.ToLower(prop.Key))
		}
	}
	if w.TwoHandedDamage != nil {
		spec.Versatile = w.TwoHandedDamage.DamageDice
	}

	switch {
	case spec.HasProperty("finesse"):
		spec.Ability = rulebook.WeaponAbilityFinesse
	case spec.Ranged:
		spec.Ability = rulebook.WeaponAbilityDexterity
	default:
		spec.Ability = rulebook.WeaponAbilityStrength
	}

	switch {
	case spec.Ranged:
		spec.Range = "Ranged"
	case spec.HasProperty("reach"):
		spec.Range = "10 ft."
	default:
		spec.Range = "5 ft."
	}
	return spec
}

func armorSpec(input dnd5e.EquipmentInterface) *rulebook.ArmorSpec {
	a, ok := input.(*apiEntities.Armor)
	if !ok || a == nil || a.ArmorClass == nil {
		return nil
	}

	var armorType rulebook.ArmorType
	switch strings.ToLower(a.ArmorCategory) {
	case "light":
		armorType = rulebook.ArmorLight
	case "medium":
		armorType = rulebook.ArmorMedium
	case "heavy":
		armorType = rulebook.ArmorHeavy
	case "shield":
		armorType = rulebook.ArmorShield
	default:
		log.Printf("Unknown armor category %q for %s", a.ArmorCategory, a.Key)
		return nil
	}

	return &rulebook.ArmorSpec{
		Name:   a.Name,
		Type:   armorType,
		BaseAC: a.ArmorClass.Base,
	}
}
