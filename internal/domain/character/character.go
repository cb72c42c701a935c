package character

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
)

// ClassEntry is one class the character has levels in
type ClassEntry struct {
	ClassType rulebook.ClassType `json:"class_type"`
	Level     int                `json:"level"`
}

// Experience is current XP and the next milestone. NextLevel is derived.
type Experience struct {
	Current   int `json:"current"`
	NextLevel int `json:"next_level"`
}

// Senses are the passive scores shown on the sheet
type Senses struct {
	PassivePerception    int `json:"passive_perception"`
	PassiveInvestigation int `json:"passive_investigation"`
	PassiveInsight       int `json:"passive_insight"`
}

// Background is free-text character background
type Background struct {
	Name              string `json:"name"`
	PersonalityTraits string `json:"personality_traits"`
	Ideals            string `json:"ideals"`
	Bonds             string `json:"bonds"`
	Flaws             string `json:"flaws"`
	Backstory         string `json:"backstory"`
}

// Character is the sheet record. Fields marked derived are overwritten by the
// recompute pipeline and never authored directly.
type Character struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`

	Classes []ClassEntry `json:"classes"`
	// ClassType is the single-class field from older records. It is folded into
	// Classes by MigrateLegacy and cleared.
	ClassType rulebook.ClassType `json:"class_type,omitempty"`

	Level      int        `json:"level"`       // derived
	ClassLevel string     `json:"class_level"` // derived
	Experience Experience `json:"experience"`

	AC               int               `json:"ac"`                // derived
	Initiative       int               `json:"initiative"`        // derived
	ProficiencyBonus int               `json:"proficiency_bonus"` // derived
	HitPoints        shared.HPResource `json:"hit_points"`
	Inspiration      bool              `json:"inspiration"`

	Abilities map[shared.Attribute]*AbilityScore `json:"abilities"`
	Senses    Senses                             `json:"senses"` // derived
	Skills    []*Skill                           `json:"skills"`

	Actions            []*Action    `json:"actions"`
	SpellSlots         []*SpellSlot `json:"spell_slots"`
	Spells             []*Spell     `json:"spells"`
	PreparedSpellLimit int          `json:"prepared_spell_limit"` // derived

	Inventory    []*InventoryItem `json:"inventory"`
	WearingArmor bool             `json:"wearing_armor"` // derived

	Features                []*FeatureTrait                 `json:"features"`
	Resources               map[string]*shared.ResourcePool `json:"resources"`
	MulticlassProficiencies []string                        `json:"multiclass_proficiencies"`
	FightingStyles          []string                        `json:"fighting_styles"`
	WeaponMastery           []string                        `json:"weapon_mastery"`

	// Rage mirrors the rage pool for older readers
	Rage *LegacyRage `json:"rage,omitempty"`

	Background Background `json:"background"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	guard phaseGuard
}

// NewCharacter returns a blank sheet: every ability at 10, all 18 skills, no classes
func NewCharacter(name string) *Character {
	c := &Character{Name: name}
	c.EnsureDefaults()
	return c
}

// EnsureDefaults fills in any missing collections, abilities and skills.
// Safe to call on every load.
func (c *Character) EnsureDefaults() {
	if c.Abilities == nil {
		c.Abilities = make(map[shared.Attribute]*AbilityScore, len(shared.Attributes))
	}
	for _, attr := range shared.Attributes {
		if c.Abilities[attr] == nil {
			c.Abilities[attr] = &AbilityScore{Score: 10}
		}
	}
	c.ensureSkills()
	if c.Resources == nil {
		c.Resources = make(map[string]*shared.ResourcePool)
	}
	if c.Classes == nil {
		c.Classes = []ClassEntry{}
	}
	if c.Actions == nil {
		c.Actions = []*Action{}
	}
	if c.Spells == nil {
		c.Spells = []*Spell{}
	}
	if c.SpellSlots == nil {
		c.SpellSlots = []*SpellSlot{}
	}
	if c.Inventory == nil {
		c.Inventory = []*InventoryItem{}
	}
	if c.Features == nil {
		c.Features = []*FeatureTrait{}
	}
}

// MigrateLegacy folds the deprecated single-class field into Classes and seeds
// the rage pool from a legacy Rage block that has no pool yet.
func (c *Character) MigrateLegacy() {
	if c.ClassType != "" {
		if len(c.Classes) == 0 && c.ClassType.IsValid() {
			level := c.Level
			if level < 1 {
				level = 1
			}
			c.Classes = []ClassEntry{{ClassType: c.ClassType, Level: level}}
		}
		c.ClassType = ""
	}

	if c.Rage != nil {
		if _, ok := c.Resources[RageResourceID]; !ok && c.Rage.UsesMax > 0 {
			c.Resources[RageResourceID] = &shared.ResourcePool{
				ID:          RageResourceID,
				Label:       "Rage",
				Class:       string(rulebook.ClassBarbarian),
				Reset:       shared.ResetLongRest,
				Current:     min(max(c.Rage.UsesAvailable, 0), c.Rage.UsesMax),
				Max:         c.Rage.UsesMax,
				TrackActive: true,
				Active:      c.Rage.Active,
			}
		}
	}
}

// TotalLevel is the sum of class levels
func (c *Character) TotalLevel() int {
	total := 0
	for _, entry := range c.Classes {
		total += entry.Level
	}
	return total
}

// ClassLevelOf returns the character's level in class ct, 0 if none
func (c *Character) ClassLevelOf(ct rulebook.ClassType) int {
	for _, entry := range c.Classes {
		if entry.ClassType == ct {
			return entry.Level
		}
	}
	return 0
}

// HasClass reports whether the character has at least one level in ct
func (c *Character) HasClass(ct rulebook.ClassType) bool {
	return c.ClassLevelOf(ct) > 0
}

// IncrementClass adds one level in ct, appending a new entry when needed.
// Returns the new class level.
func (c *Character) IncrementClass(ct rulebook.ClassType) int {
	for i := range c.Classes {
		if c.Classes[i].ClassType == ct {
			c.Classes[i].Level++
			return c.Classes[i].Level
		}
	}
	c.Classes = append(c.Classes, ClassEntry{ClassType: ct, Level: 1})
	return 1
}

// PrimaryClass is the first class taken, or "" for a blank sheet
func (c *Character) PrimaryClass() rulebook.ClassType {
	if len(c.Classes) == 0 {
		return ""
	}
	return c.Classes[0].ClassType
}

// FormatClassLevel renders classes as "Fighter 3 / Rogue 2"
func FormatClassLevel(classes []ClassEntry) string {
	parts := make([]string, 0, len(classes))
	for _, entry := range classes {
		parts = append(parts, fmt.Sprintf("%s %d", entry.ClassType, entry.Level))
	}
	return strings.Join(parts, " / ")
}

// HasFightingStyle checks for a fighting style by key
func (c *Character) HasFightingStyle(key string) bool {
	for _, s := range c.FightingStyles {
		if strings.EqualFold(s, key) {
			return true
		}
	}
	return false
}

// HasWeaponMastery checks whether the character has mastered a weapon by name
func (c *Character) HasWeaponMastery(weapon string) bool {
	for _, w := range c.WeaponMastery {
		if strings.EqualFold(w, weapon) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Guard state is not copied.
func (c *Character) Clone() *Character {
	data, err := json.Marshal(c)
	if err != nil {
		// Character only holds JSON-safe fields
		panic(fmt.Sprintf("character clone: %v", err))
	}
	clone := &Character{}
	if err := json.Unmarshal(data, clone); err != nil {
		panic(fmt.Sprintf("character clone: %v", err))
	}
	return clone
}

func (c *Character) String() string {
	if len(c.Classes) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, FormatClassLevel(c.Classes))
}

// Phase names a pipeline stage that must not re-enter itself
type Phase int

const (
	PhaseRecompute Phase = iota
	PhaseSynthesis
)

type phaseGuard struct {
	active [2]bool
}

// Enter marks phase as running. It returns false when the phase is already
// running, in which case the caller must do nothing.
func (c *Character) Enter(p Phase) bool {
	if c.guard.active[p] {
		return false
	}
	c.guard.active[p] = true
	return true
}

// Leave marks phase as finished
func (c *Character) Leave(p Phase) {
	c.guard.active[p] = false
}
