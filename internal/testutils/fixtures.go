package testutils

import (
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
)

// StandardArray is the 15, 14, 13, 12, 10, 8 spread in STR..CHA order
var StandardArray = map[shared.Attribute]int{
	shared.AttributeStrength:     15,
	shared.AttributeDexterity:    14,
	shared.AttributeConstitution: 13,
	shared.AttributeIntelligence: 12,
	shared.AttributeWisdom:       10,
	shared.AttributeCharisma:     8,
}

// CreateTestCharacter builds a raw, not yet recomputed character with one
// level in class and the standard array
func CreateTestCharacter(id, ownerID, name string, class rulebook.ClassType) *character.Character {
	char := character.NewCharacter(name)
	char.ID = id
	char.OwnerID = ownerID
	for attr, score := range StandardArray {
		char.Ability(attr).Score = score
	}
	if class != "" {
		char.IncrementClass(class)
	}
	char.HitPoints = shared.HPResource{Current: 12, Max: 12}
	return char
}

// CreateTestWeapon returns an equipped weapon item
func CreateTestWeapon(id, name string) *character.InventoryItem {
	return &character.InventoryItem{
		ID:       id,
		Name:     name,
		Quantity: 1,
		Equipped: true,
	}
}

// CreateTestArmor returns an equipped armor item
func CreateTestArmor(id, name string, armorType rulebook.ArmorType, baseAC int) *character.InventoryItem {
	return &character.InventoryItem{
		ID:        id,
		Name:      name,
		Quantity:  1,
		Equipped:  true,
		ArmorType: armorType,
		BaseAC:    baseAC,
	}
}
