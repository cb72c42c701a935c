package character

import (
	"strings"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// apply runs one mutation and recomputes the sheet afterwards, whether or not
// the mutation succeeded.
func (s *service) apply(c *character.Character, mutate func() bool) (bool, error) {
	if c == nil {
		return false, dnderr.InvalidArgument("character is required")
	}
	ok := mutate()
	if err := s.Recompute(c); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *service) do(c *character.Character, mutate func()) error {
	_, err := s.apply(c, func() bool {
		mutate()
		return true
	})
	return err
}

func (s *service) SetAbilityScore(c *character.Character, attr shared.Attribute, score int) error {
	if !attr.IsValid() {
		return dnderr.InvalidArgumentf("unknown ability %q", attr)
	}
	return s.do(c, func() { c.Ability(attr).Score = score })
}

func (s *service) SetCustomModifier(c *character.Character, attr shared.Attribute, modifier int) error {
	if !attr.IsValid() {
		return dnderr.InvalidArgumentf("unknown ability %q", attr)
	}
	return s.do(c, func() { c.Ability(attr).CustomModifier = modifier })
}

func (s *service) SetSaveProficiency(c *character.Character, attr shared.Attribute, proficient bool) error {
	if !attr.IsValid() {
		return dnderr.InvalidArgumentf("unknown ability %q", attr)
	}
	return s.do(c, func() { c.Ability(attr).SaveProficient = proficient })
}

// SetSkillProficiency toggles proficiency. Unknown skill names are ignored.
// Removing proficiency also removes expertise.
func (s *service) SetSkillProficiency(c *character.Character, name string, proficient bool) (bool, error) {
	return s.apply(c, func() bool {
		skill := c.Skill(name)
		if skill == nil {
			return false
		}
		skill.Proficient = proficient
		if !proficient {
			skill.Expertise = false
		}
		return true
	})
}

// SetSkillExpertise toggles expertise. Expertise implies proficiency.
func (s *service) SetSkillExpertise(c *character.Character, name string, expertise bool) (bool, error) {
	return s.apply(c, func() bool {
		skill := c.Skill(name)
		if skill == nil {
			return false
		}
		skill.Expertise = expertise
		if expertise {
			skill.Proficient = true
		}
		return true
	})
}

func (s *service) SetHP(c *character.Character, current int) error {
	return s.do(c, func() { c.HitPoints.SetCurrent(current) })
}

func (s *service) SetMaxHP(c *character.Character, maximum int) error {
	return s.do(c, func() { c.HitPoints.SetMax(maximum) })
}

func (s *service) SetTempHP(c *character.Character, temporary int) error {
	return s.do(c, func() { c.HitPoints.SetTemporary(temporary) })
}

// Damage applies damage, temporary hit points first, and returns the amount applied
func (s *service) Damage(c *character.Character, amount int) (int, error) {
	var applied int
	err := s.do(c, func() { applied = c.HitPoints.Damage(amount) })
	return applied, err
}

// Heal restores hit points up to max and returns the amount restored
func (s *service) Heal(c *character.Character, amount int) (int, error) {
	var healed int
	err := s.do(c, func() { healed = c.HitPoints.Heal(amount) })
	return healed, err
}

// SetXP sets experience; negative values become 0
func (s *service) SetXP(c *character.Character, xp int) error {
	return s.do(c, func() { c.Experience.Current = max(xp, 0) })
}

// AddXP adds (or with a negative amount, removes) experience, never below 0
func (s *service) AddXP(c *character.Character, amount int) error {
	return s.do(c, func() { c.Experience.Current = max(c.Experience.Current+amount, 0) })
}

// AddItem adds an item, assigning an id when it has none
func (s *service) AddItem(c *character.Character, item *character.InventoryItem) (*character.InventoryItem, error) {
	if item == nil || strings.TrimSpace(item.Name) == "" {
		return nil, dnderr.InvalidArgument("item name is required")
	}
	if item.ID == "" {
		item.ID = s.ids.New()
	}
	if err := s.do(c, func() { c.AddItem(item) }); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) RemoveItem(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.RemoveItem(id) })
}

// EquipItem equips an item; armor and shields displace the current occupant of their slot
func (s *service) EquipItem(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.Equip(id) })
}

func (s *service) UnequipItem(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.Unequip(id) })
}

func (s *service) SpendResource(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.SpendResource(id) })
}

func (s *service) RestoreResource(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.RestoreResource(id) })
}

// ToggleResource turns a tracked pool on (spending a use) or off
func (s *service) ToggleResource(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.ToggleResource(id) })
}

func (s *service) UseSpellSlot(c *character.Character, level int) (bool, error) {
	return s.apply(c, func() bool { return c.UseSpellSlot(level) })
}

func (s *service) RestoreSpellSlot(c *character.Character, level int) (bool, error) {
	return s.apply(c, func() bool { return c.RestoreSpellSlot(level) })
}

func (s *service) ShortRest(c *character.Character) error {
	return s.do(c, c.ShortRest)
}

func (s *service) LongRest(c *character.Character) error {
	return s.do(c, c.LongRest)
}

// AddAction adds a user-authored action. The engine never regenerates over it.
func (s *service) AddAction(c *character.Character, action *character.Action) (*character.Action, error) {
	if action == nil || strings.TrimSpace(action.Name) == "" {
		return nil, dnderr.InvalidArgument("action name is required")
	}
	if action.ID == "" {
		action.ID = s.ids.New()
	}
	action.IsBasicAttack = false
	if err := s.do(c, func() { c.AddAction(action) }); err != nil {
		return nil, err
	}
	return action, nil
}

func (s *service) RemoveAction(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.RemoveAction(id) })
}

// ConvertActionToManual freezes an engine-generated action as user owned
func (s *service) ConvertActionToManual(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return s.synthesizer.ConvertToManual(c, id) })
}

// AddSpell adds a spell unless one with the same name exists
func (s *service) AddSpell(c *character.Character, spell *character.Spell) (bool, error) {
	if spell == nil || strings.TrimSpace(spell.Name) == "" {
		return false, dnderr.InvalidArgument("spell name is required")
	}
	if spell.ID == "" {
		spell.ID = s.ids.New()
	}
	return s.apply(c, func() bool { return c.AddSpell(spell) })
}

func (s *service) RemoveSpell(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.RemoveSpell(id) })
}

func (s *service) SetSpellPrepared(c *character.Character, id string, prepared bool) (bool, error) {
	return s.apply(c, func() bool { return c.SetSpellPrepared(id, prepared) })
}

// AddFeature adds a feature unless one with the same name exists
func (s *service) AddFeature(c *character.Character, feature *character.FeatureTrait) (bool, error) {
	if feature == nil || strings.TrimSpace(feature.Name) == "" {
		return false, dnderr.InvalidArgument("feature name is required")
	}
	if feature.ID == "" {
		feature.ID = s.ids.New()
	}
	if feature.Source == "" {
		feature.Source = character.FeatureSourceOther
	}
	return s.apply(c, func() bool { return c.AddFeature(feature) })
}

func (s *service) RemoveFeature(c *character.Character, id string) (bool, error) {
	return s.apply(c, func() bool { return c.RemoveFeature(id) })
}

func (s *service) SetName(c *character.Character, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return dnderr.InvalidArgument("name is required")
	}
	return s.do(c, func() { c.Name = name })
}

func (s *service) SetBackground(c *character.Character, background character.Background) error {
	return s.do(c, func() { c.Background = background })
}
