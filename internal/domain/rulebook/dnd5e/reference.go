package rulebook

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// ArmorType is the armor category of an inventory item
type ArmorType string

const (
	ArmorNone   ArmorType = ""
	ArmorLight  ArmorType = "light"
	ArmorMedium ArmorType = "medium"
	ArmorHeavy  ArmorType = "heavy"
	ArmorShield ArmorType = "shield"
)

// IsBody reports whether t occupies the body-armor slot
func (t ArmorType) IsBody() bool {
	return t == ArmorLight || t == ArmorMedium || t == ArmorHeavy
}

// IsValid reports whether t is a known armor type, including none
func (t ArmorType) IsValid() bool {
	return t == ArmorNone || t == ArmorShield || t.IsBody()
}

// DefaultShieldBonus is used when a shield item has no BaseAC
const DefaultShieldBonus = 2

// ArmorSpec is a row of the armor table
type ArmorSpec struct {
	Name   string    `json:"name"`
	Type   ArmorType `json:"type"`
	BaseAC int       `json:"baseAC"`
}

// WeaponAbility is the ability a weapon attacks with
type WeaponAbility string

const (
	WeaponAbilityStrength  WeaponAbility = "strength"
	WeaponAbilityDexterity WeaponAbility = "dexterity"
	// WeaponAbilityFinesse uses the better of Strength and Dexterity
	WeaponAbilityFinesse WeaponAbility = "finesse"
)

// WeaponSpec is a row of the weapon table
type WeaponSpec struct {
	Name       string        `json:"name"`
	Damage     string        `json:"damage"`
	DamageType string        `json:"damageType"`
	Ability    WeaponAbility `json:"ability"`
	Ranged     bool          `json:"ranged"`
	Range      string        `json:"range"`
	Properties []string      `json:"properties"`
	Versatile  string        `json:"versatile,omitempty"`
	Mastery    string        `json:"mastery,omitempty"`
}

// HasProperty checks for a weapon property such as "two-handed"
func (w WeaponSpec) HasProperty(prop string) bool {
	for _, p := range w.Properties {
		if strings.EqualFold(p, prop) {
			return true
		}
	}
	return false
}

// SpellSpec is a row of the spell reference table
type SpellSpec struct {
	Name        string      `json:"name"`
	Level       int         `json:"level"`
	School      string      `json:"school"`
	CastingTime string      `json:"castingTime"`
	Range       string      `json:"range"`
	Components  string      `json:"components"`
	Duration    string      `json:"duration"`
	Description string      `json:"description"`
	Attack      bool        `json:"attack"`
	Classes     []ClassType `json:"classes"`
}

// Reference bundles the static equipment and spell tables
type Reference struct {
	Armor   []ArmorSpec
	Weapons []WeaponSpec
	Spells  []SpellSpec
}

const (
	armorFile   = "armor.json"
	weaponsFile = "weapons.json"
	spellsFile  = "spells.json"
)

// LoadReference reads armor.json, weapons.json and spells.json from dir
func LoadReference(fsys fs.FS, dir string) (*Reference, error) {
	ref := &Reference{}
	if err := decodeReferenceFile(fsys, path.Join(dir, armorFile), &ref.Armor); err != nil {
		return nil, err
	}
	if err := decodeReferenceFile(fsys, path.Join(dir, weaponsFile), &ref.Weapons); err != nil {
		return nil, err
	}
	if err := decodeReferenceFile(fsys, path.Join(dir, spellsFile), &ref.Spells); err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

func decodeReferenceFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "failed to read reference table").
			WithMeta("file", name)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "invalid reference table "+name)
	}
	return nil
}

// Validate checks every row of the reference tables
func (r *Reference) Validate() error {
	for i, a := range r.Armor {
		if a.Name == "" {
			return dnderr.Configurationf("invalid armor table: row %d missing name", i)
		}
		if a.Type == ArmorNone || !a.Type.IsValid() {
			return dnderr.Configurationf("invalid armor table: %s has invalid type %q", a.Name, a.Type)
		}
		if a.BaseAC <= 0 {
			return dnderr.Configurationf("invalid armor table: %s baseAC must be positive", a.Name)
		}
	}
	for i, w := range r.Weapons {
		if w.Name == "" {
			return dnderr.Configurationf("invalid weapon table: row %d missing name", i)
		}
		if w.Damage == "" || w.DamageType == "" {
			return dnderr.Configurationf("invalid weapon table: %s missing damage", w.Name)
		}
		switch w.Ability {
		case WeaponAbilityStrength, WeaponAbilityDexterity, WeaponAbilityFinesse:
		default:
			return dnderr.Configurationf("invalid weapon table: %s has invalid ability %q", w.Name, w.Ability)
		}
	}
	for i, s := range r.Spells {
		if s.Name == "" {
			return dnderr.Configurationf("invalid spell table: row %d missing name", i)
		}
		if s.Level < 0 || s.Level > 9 {
			return dnderr.Configurationf("invalid spell table: %s level %d out of range", s.Name, s.Level)
		}
		for _, c := range s.Classes {
			if !c.IsValid() {
				return dnderr.Configurationf("invalid spell table: %s lists unknown class %q", s.Name, c)
			}
		}
	}
	return nil
}

// WriteJSON renders rows in the reference table file format
func WriteJSON(rows any) ([]byte, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to encode reference table")
	}
	return append(data, '\n'), nil
}
