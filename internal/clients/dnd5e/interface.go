package dnd5e

import (
	"context"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apiEntities "github.com/fadedpez/dnd5e-api/entities"
)

// EquipmentSource is the part of the D&D 5e API client the importer needs.
// dnd5e.Interface satisfies it.
type EquipmentSource interface {
	ListEquipment() ([]*apiEntities.ReferenceItem, error)
	GetEquipment(key string) (dnd5e.EquipmentInterface, error)
	GetEquipmentCategory(key string) (*apiEntities.EquipmentCategory, error)
}

// Importer turns API equipment into reference table rows
type Importer interface {
	// ImportWeapons fetches weapons by API key. Keys that are not weapons are skipped.
	ImportWeapons(ctx context.Context, keys []string) ([]rulebook.WeaponSpec, error)

	// ImportArmor fetches armor and shields by API key. Keys that are not armor are skipped.
	ImportArmor(ctx context.Context, keys []string) ([]rulebook.ArmorSpec, error)

	// ImportCategory fetches every item in an equipment category, e.g. "weapon" or "armor"
	ImportCategory(ctx context.Context, category string) (*ImportResult, error)
}

// ImportResult holds the rows found in one import, sorted by name
type ImportResult struct {
	Weapons []rulebook.WeaponSpec
	Armor   []rulebook.ArmorSpec
	Skipped []string
}
