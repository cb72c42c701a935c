package character

import (
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
)

// InventoryItem is a carried item. ArmorType is set for armor and shields.
type InventoryItem struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Quantity    int                `json:"quantity"`
	Weight      float64            `json:"weight"`
	Description string             `json:"description"`
	Equipped    bool               `json:"equipped"`
	ArmorType   rulebook.ArmorType `json:"armor_type,omitempty"`
	BaseAC      int                `json:"base_ac,omitempty"`
}

type equipSlot int

const (
	slotNone equipSlot = iota
	slotBody
	slotShield
)

func (i *InventoryItem) slot() equipSlot {
	switch {
	case i.ArmorType.IsBody():
		return slotBody
	case i.ArmorType == rulebook.ArmorShield:
		return slotShield
	default:
		return slotNone
	}
}

// Item finds an inventory item by id
func (c *Character) Item(id string) *InventoryItem {
	for _, item := range c.Inventory {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// AddItem appends an item. Quantity below 1 becomes 1.
// An item added already equipped displaces the occupant of its slot.
func (c *Character) AddItem(item *InventoryItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	equip := item.Equipped
	item.Equipped = false
	c.Inventory = append(c.Inventory, item)
	if equip {
		c.Equip(item.ID)
	}
}

// RemoveItem deletes an item by id
func (c *Character) RemoveItem(id string) bool {
	for i, item := range c.Inventory {
		if item.ID == id {
			c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// Equip marks an item equipped. Body armor and shields each have one slot;
// equipping into an occupied slot unequips the previous item.
func (c *Character) Equip(id string) bool {
	item := c.Item(id)
	if item == nil {
		return false
	}
	if slot := item.slot(); slot != slotNone {
		for _, other := range c.Inventory {
			if other != item && other.Equipped && other.slot() == slot {
				other.Equipped = false
			}
		}
	}
	item.Equipped = true
	return true
}

// Unequip clears the equipped flag
func (c *Character) Unequip(id string) bool {
	item := c.Item(id)
	if item == nil || !item.Equipped {
		return false
	}
	item.Equipped = false
	return true
}

// EquippedBodyArmor returns the worn body armor, if any
func (c *Character) EquippedBodyArmor() *InventoryItem {
	for _, item := range c.Inventory {
		if item.Equipped && item.slot() == slotBody {
			return item
		}
	}
	return nil
}

// EquippedShield returns the equipped shield, if any
func (c *Character) EquippedShield() *InventoryItem {
	for _, item := range c.Inventory {
		if item.Equipped && item.slot() == slotShield {
			return item
		}
	}
	return nil
}

// EquippedItems returns equipped items that are not armor or shields
func (c *Character) EquippedItems() []*InventoryItem {
	var out []*InventoryItem
	for _, item := range c.Inventory {
		if item.Equipped && item.slot() == slotNone {
			out = append(out, item)
		}
	}
	return out
}
