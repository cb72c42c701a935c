package character

import (
	"sort"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
)

// RageResourceID is the pool bridged to the legacy Rage block
const RageResourceID = "rage"

// LegacyRage is the single-resource rage block older sheets stored
type LegacyRage struct {
	Active        bool `json:"active"`
	UsesAvailable int  `json:"uses_available"`
	UsesMax       int  `json:"uses_max"`
	DamageBonus   int  `json:"damage_bonus"`
}

// Resource returns a pool by id
func (c *Character) Resource(id string) *shared.ResourcePool {
	return c.Resources[id]
}

// ResourceIDs returns pool ids in sorted order
func (c *Character) ResourceIDs() []string {
	ids := make([]string, 0, len(c.Resources))
	for id := range c.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SpendResource uses one charge of a pool. False when unknown or empty.
func (c *Character) SpendResource(id string) bool {
	pool := c.Resources[id]
	if pool == nil {
		return false
	}
	return pool.Spend()
}

// RestoreResource gives back one charge. False when unknown or full.
func (c *Character) RestoreResource(id string) bool {
	pool := c.Resources[id]
	if pool == nil {
		return false
	}
	return pool.Restore()
}

// ToggleResource flips a tracked pool's active state
func (c *Character) ToggleResource(id string) bool {
	pool := c.Resources[id]
	if pool == nil {
		return false
	}
	return pool.ToggleActive()
}

// UpsertResource grows an existing pool to max or creates it full
func (c *Character) UpsertResource(spec shared.ResourcePool) *shared.ResourcePool {
	if c.Resources == nil {
		c.Resources = make(map[string]*shared.ResourcePool)
	}
	pool := c.Resources[spec.ID]
	if pool == nil {
		spec.Current = spec.Max
		spec.Active = false
		pool = &spec
		c.Resources[spec.ID] = pool
		return pool
	}
	pool.Label = spec.Label
	pool.Class = spec.Class
	pool.Reset = spec.Reset
	pool.TrackActive = spec.TrackActive
	if !pool.TrackActive {
		pool.Active = false
	}
	pool.Grow(spec.Max)
	return pool
}

// ShortRest refills short-rest pools and pact slots, and ends every active effect
func (c *Character) ShortRest() {
	for _, pool := range c.Resources {
		if pool.Reset == shared.ResetShortRest {
			pool.Current = pool.Max
		}
		pool.Active = false
	}
	for _, slot := range c.SpellSlots {
		if slot.Pact {
			slot.Used = 0
		}
	}
}

// LongRest refills every pool including daily ones, clears spell slot usage
// and restores hit points.
func (c *Character) LongRest() {
	for _, pool := range c.Resources {
		pool.Refill()
	}
	for _, slot := range c.SpellSlots {
		slot.Used = 0
	}
	c.HitPoints.Temporary = 0
	c.HitPoints.Current = c.HitPoints.Max
}

// SyncLegacyRage rewrites the Rage block from the rage pool. Sheets without a
// rage pool drop the block.
func (c *Character) SyncLegacyRage(damageBonus int) {
	pool := c.Resources[RageResourceID]
	if pool == nil {
		c.Rage = nil
		return
	}
	c.Rage = &LegacyRage{
		Active:        pool.Active,
		UsesAvailable: pool.Current,
		UsesMax:       pool.Max,
		DamageBonus:   damageBonus,
	}
}
