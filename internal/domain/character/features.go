package character

import "strings"

// Feature sources
const (
	FeatureSourceClass      = "Class"
	FeatureSourceMulticlass = "Multiclass"
	FeatureSourceRace       = "Race"
	FeatureSourceFeat       = "Feat"
	FeatureSourceBackground = "Background"
	FeatureSourceOther      = "Other"
)

// FeatureTrait is a named feature or trait on the sheet
type FeatureTrait struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// HasFeature reports whether any feature has this name
func (c *Character) HasFeature(name string) bool {
	return c.FeatureByName(name) != nil
}

// FeatureByName finds a feature by case-insensitive name
func (c *Character) FeatureByName(name string) *FeatureTrait {
	for _, f := range c.Features {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// AddFeature appends a feature. Features are unique by name; a duplicate is
// ignored and false returned.
func (c *Character) AddFeature(f *FeatureTrait) bool {
	if c.HasFeature(f.Name) {
		return false
	}
	c.Features = append(c.Features, f)
	return true
}

// RemoveFeature deletes a feature by id
func (c *Character) RemoveFeature(id string) bool {
	for i, f := range c.Features {
		if f.ID == id {
			c.Features = append(c.Features[:i], c.Features[i+1:]...)
			return true
		}
	}
	return false
}

// DedupeFeatures removes later features that repeat an earlier name
func (c *Character) DedupeFeatures() {
	seen := make(map[string]bool, len(c.Features))
	out := c.Features[:0]
	for _, f := range c.Features {
		key := strings.ToLower(f.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	c.Features = out
}

// AddMulticlassProficiency records a proficiency once. Returns false if already known.
func (c *Character) AddMulticlassProficiency(name string) bool {
	for _, p := range c.MulticlassProficiencies {
		if strings.EqualFold(p, name) {
			return false
		}
	}
	c.MulticlassProficiencies = append(c.MulticlassProficiencies, name)
	return true
}

// AddFightingStyle records a style key once
func (c *Character) AddFightingStyle(key string) bool {
	if c.HasFightingStyle(key) {
		return false
	}
	c.FightingStyles = append(c.FightingStyles, key)
	return true
}

// AddWeaponMastery records a mastered weapon once
func (c *Character) AddWeaponMastery(weapon string) bool {
	if c.HasWeaponMastery(weapon) {
		return false
	}
	c.WeaponMastery = append(c.WeaponMastery, weapon)
	return true
}
