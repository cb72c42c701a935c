package shared

// HPResource tracks hit points and temporary HP.
// Current stays within [0, Max].
type HPResource struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// Damage applies damage, using temp HP first. Returns the amount applied.
func (hp *HPResource) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}

	remaining := amount
	if hp.Temporary > 0 {
		if hp.Temporary >= remaining {
			hp.Temporary -= remaining
			return amount
		}
		remaining -= hp.Temporary
		hp.Temporary = 0
	}

	hp.Current -= remaining
	if hp.Current < 0 {
		hp.Current = 0
	}
	return amount
}

// Heal restores hit points up to max and returns how much was restored
func (hp *HPResource) Heal(amount int) int {
	if amount <= 0 || hp.Current >= hp.Max {
		return 0
	}

	before := hp.Current
	hp.Current += amount
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}
	return hp.Current - before
}

// SetCurrent sets current HP clamped to [0, Max]
func (hp *HPResource) SetCurrent(value int) {
	hp.Current = clamp(value, 0, hp.Max)
}

// SetMax sets max HP (never below 0) and pulls current down if needed
func (hp *HPResource) SetMax(value int) {
	if value < 0 {
		value = 0
	}
	hp.Max = value
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}
}

// SetTemporary replaces temporary HP. Negative values become 0.
func (hp *HPResource) SetTemporary(value int) {
	if value < 0 {
		value = 0
	}
	hp.Temporary = value
}

// AddTemporaryHP grants temporary hit points; they don't stack
func (hp *HPResource) AddTemporaryHP(amount int) {
	if amount > hp.Temporary {
		hp.Temporary = amount
	}
}

// Normalize re-applies the invariants after a raw edit or import
func (hp *HPResource) Normalize() {
	if hp.Max < 0 {
		hp.Max = 0
	}
	if hp.Temporary < 0 {
		hp.Temporary = 0
	}
	hp.Current = clamp(hp.Current, 0, hp.Max)
}

// ResetCadence says which rest refills a pool
type ResetCadence string

const (
	ResetShortRest ResetCadence = "shortRest"
	ResetLongRest  ResetCadence = "longRest"
	ResetDaily     ResetCadence = "daily"
)

// IsValid reports whether c is a known cadence
func (c ResetCadence) IsValid() bool {
	switch c {
	case ResetShortRest, ResetLongRest, ResetDaily:
		return true
	}
	return false
}

// PoolState describes how much of a pool is left
type PoolState string

const (
	PoolFull     PoolState = "full"
	PoolPartial  PoolState = "partial"
	PoolDepleted PoolState = "depleted"
)

// ResourcePool is a per-class limited-use resource such as Rage or Second Wind.
// Current stays within [0, Max].
type ResourcePool struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Class       string       `json:"class"`
	Reset       ResetCadence `json:"reset"`
	Current     int          `json:"current"`
	Max         int          `json:"max"`
	TrackActive bool         `json:"track_active"`
	Active      bool         `json:"active"`
}

// State returns full, partial or depleted. A pool with Max 0 is depleted.
func (p *ResourcePool) State() PoolState {
	switch {
	case p.Current <= 0:
		return PoolDepleted
	case p.Current >= p.Max:
		return PoolFull
	default:
		return PoolPartial
	}
}

// Spend uses one charge. Returns false when nothing is left.
func (p *ResourcePool) Spend() bool {
	if p.Current <= 0 {
		return false
	}
	p.Current--
	return true
}

// Restore gives back one charge. Returns false when already full.
func (p *ResourcePool) Restore() bool {
	if p.Current >= p.Max {
		return false
	}
	p.Current++
	return true
}

// ToggleActive flips Active. Turning on consumes one charge and needs one to spend;
// turning off is always allowed and costs nothing.
func (p *ResourcePool) ToggleActive() bool {
	if !p.TrackActive {
		return false
	}
	if p.Active {
		p.Active = false
		return true
	}
	if !p.Spend() {
		return false
	}
	p.Active = true
	return true
}

// Refill sets Current to Max and ends any active state
func (p *ResourcePool) Refill() {
	p.Current = p.Max
	p.Active = false
}

// Grow moves Max to newMax. When Max rises, Current rises by the same delta so
// spent charges stay spent. When Max falls, Current is clamped.
func (p *ResourcePool) Grow(newMax int) {
	if newMax < 0 {
		newMax = 0
	}
	if newMax > p.Max {
		p.Current += newMax - p.Max
	}
	p.Max = newMax
	p.Current = clamp(p.Current, 0, p.Max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
