package character

import "strings"

// Spell is a known or prepared spell on the sheet
type Spell struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	School      string `json:"school"`
	CastingTime string `json:"casting_time"`
	Range       string `json:"range"`
	Components  string `json:"components"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Prepared    bool   `json:"prepared"`
	Attack      bool   `json:"attack"`
	// Source is the class that granted it, empty for spells the user added
	Source string `json:"source,omitempty"`
}

// SpellSlot is the slot count for one spell level. Used stays within [0, Total].
type SpellSlot struct {
	Level int  `json:"level"`
	Total int  `json:"total"`
	Used  int  `json:"used"`
	Pact  bool `json:"pact,omitempty"`
}

// Available is Total minus Used
func (s *SpellSlot) Available() int {
	return s.Total - s.Used
}

// SpellByName finds a spell by case-insensitive name
func (c *Character) SpellByName(name string) *Spell {
	for _, s := range c.Spells {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// Spell finds a spell by id
func (c *Character) Spell(id string) *Spell {
	for _, s := range c.Spells {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// AddSpell appends a spell unless one with the same name exists.
// Returns false for duplicates.
func (c *Character) AddSpell(s *Spell) bool {
	if c.SpellByName(s.Name) != nil {
		return false
	}
	c.Spells = append(c.Spells, s)
	return true
}

// RemoveSpell deletes a spell by id
func (c *Character) RemoveSpell(id string) bool {
	for i, s := range c.Spells {
		if s.ID == id {
			c.Spells = append(c.Spells[:i], c.Spells[i+1:]...)
			return true
		}
	}
	return false
}

// SetSpellPrepared sets the prepared flag
func (c *Character) SetSpellPrepared(id string, prepared bool) bool {
	s := c.Spell(id)
	if s == nil {
		return false
	}
	s.Prepared = prepared
	return true
}

// PreparedSpells returns prepared spells in sheet order
func (c *Character) PreparedSpells() []*Spell {
	var out []*Spell
	for _, s := range c.Spells {
		if s.Prepared {
			out = append(out, s)
		}
	}
	return out
}

// SpellSlotFor returns the slot entry for a spell level, preferring regular
// slots over pact slots.
func (c *Character) SpellSlotFor(level int) *SpellSlot {
	var pact *SpellSlot
	for _, s := range c.SpellSlots {
		if s.Level != level {
			continue
		}
		if !s.Pact {
			return s
		}
		pact = s
	}
	return pact
}

// UseSpellSlot marks one slot used. False when none are available.
func (c *Character) UseSpellSlot(level int) bool {
	for _, s := range c.SpellSlots {
		if s.Level == level && s.Available() > 0 {
			s.Used++
			return true
		}
	}
	return false
}

// RestoreSpellSlot gives back one used slot
func (c *Character) RestoreSpellSlot(level int) bool {
	for _, s := range c.SpellSlots {
		if s.Level == level && s.Used > 0 {
			s.Used--
			return true
		}
	}
	return false
}
