package character

import "strings"

// Action types shown on the sheet
const (
	ActionTypeMelee   = "Melee Weapon Attack"
	ActionTypeRanged  = "Ranged Weapon Attack"
	ActionTypeSpecial = "Special"
	ActionTypeBonus   = "Bonus Action"
	ActionTypeAction  = "Action"
	ActionTypeSpell   = "Spell"
)

// Action is an attack or ability entry. IsBasicAttack marks entries owned and
// regenerated by the engine; clearing it hands the entry to the user.
type Action struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Range         string `json:"range"`
	ToHit         string `json:"to_hit"`
	Damage        string `json:"damage"`
	Description   string `json:"description"`
	IsBasicAttack bool   `json:"is_basic_attack"`
	IsBonusAction bool   `json:"is_bonus_action"`
}

// IsEngineOwned reports whether the synthesizer may rewrite or remove the action
func (a *Action) IsEngineOwned() bool {
	return a.IsBasicAttack
}

// Action finds an action by id
func (c *Character) Action(id string) *Action {
	for _, a := range c.Actions {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ActionByName finds the first action with a case-insensitive name match
func (c *Character) ActionByName(name string) *Action {
	for _, a := range c.Actions {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

// AddAction appends a user-authored action
func (c *Character) AddAction(a *Action) {
	c.Actions = append(c.Actions, a)
}

// RemoveAction deletes an action by id
func (c *Character) RemoveAction(id string) bool {
	for i, a := range c.Actions {
		if a.ID == id {
			c.Actions = append(c.Actions[:i], c.Actions[i+1:]...)
			return true
		}
	}
	return false
}

// ConvertActionToManual takes an engine-owned action over for the user.
// The synthesizer will not regenerate an action with the same name afterwards.
func (c *Character) ConvertActionToManual(id string) bool {
	a := c.Action(id)
	if a == nil || !a.IsBasicAttack {
		return false
	}
	a.IsBasicAttack = false
	return true
}
