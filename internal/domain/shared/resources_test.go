package shared_test

import (
	"testing"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestHPResourceDamageUsesTemporaryFirst(t *testing.T) {
	hp := &shared.HPResource{Current: 20, Max: 20, Temporary: 5}

	hp.Damage(8)

	assert.Equal(t, 0, hp.Temporary)
	assert.Equal(t, 17, hp.Current)
}

func TestHPResourceNeverNegative(t *testing.T) {
	hp := &shared.HPResource{Current: 4, Max: 20}

	hp.Damage(50)
	assert.Equal(t, 0, hp.Current)

	hp.SetCurrent(-3)
	assert.Equal(t, 0, hp.Current)
}

func TestHPResourceClampsToMax(t *testing.T) {
	hp := &shared.HPResource{Current: 10, Max: 20}

	healed := hp.Heal(30)
	assert.Equal(t, 10, healed)
	assert.Equal(t, 20, hp.Current)

	hp.SetCurrent(99)
	assert.Equal(t, 20, hp.Current)

	hp.SetMax(12)
	assert.Equal(t, 12, hp.Current)
}

func TestHPResourceTemporaryDoesNotStack(t *testing.T) {
	hp := &shared.HPResource{Current: 10, Max: 10}

	hp.AddTemporaryHP(5)
	hp.AddTemporaryHP(3)
	assert.Equal(t, 5, hp.Temporary)

	hp.SetTemporary(-2)
	assert.Equal(t, 0, hp.Temporary)
}

func TestResourcePoolSpendAndRestore(t *testing.T) {
	pool := &shared.ResourcePool{ID: "secondWind", Current: 1, Max: 2}

	assert.True(t, pool.Spend())
	assert.Equal(t, shared.PoolDepleted, pool.State())
	assert.False(t, pool.Spend(), "cannot spend below zero")
	assert.Equal(t, 0, pool.Current)

	assert.True(t, pool.Restore())
	assert.Equal(t, shared.PoolPartial, pool.State())
	assert.True(t, pool.Restore())
	assert.False(t, pool.Restore(), "cannot restore past max")
	assert.Equal(t, shared.PoolFull, pool.State())
}

func TestResourcePoolToggleActive(t *testing.T) {
	pool := &shared.ResourcePool{ID: "rage", Current: 1, Max: 2, TrackActive: true}

	assert.True(t, pool.ToggleActive())
	assert.True(t, pool.Active)
	assert.Equal(t, 0, pool.Current, "activation consumes one use")

	assert.True(t, pool.ToggleActive())
	assert.False(t, pool.Active)
	assert.Equal(t, 0, pool.Current, "deactivation is free")

	assert.False(t, pool.ToggleActive(), "cannot activate an empty pool")
	assert.False(t, pool.Active)
}

func TestResourcePoolToggleUntracked(t *testing.T) {
	pool := &shared.ResourcePool{ID: "secondWind", Current: 2, Max: 2}

	assert.False(t, pool.ToggleActive())
	assert.Equal(t, 2, pool.Current)
}

func TestResourcePoolGrowAddsDelta(t *testing.T) {
	pool := &shared.ResourcePool{ID: "rage", Current: 1, Max: 3}

	pool.Grow(4)
	assert.Equal(t, 4, pool.Max)
	assert.Equal(t, 2, pool.Current)

	pool.Grow(4)
	assert.Equal(t, 2, pool.Current)

	pool.Grow(1)
	assert.Equal(t, 1, pool.Current)
}

func TestResetCadenceIsValid(t *testing.T) {
	assert.True(t, shared.ResetShortRest.IsValid())
	assert.True(t, shared.ResetLongRest.IsValid())
	assert.True(t, shared.ResetDaily.IsValid())
	assert.False(t, shared.ResetCadence("weekly").IsValid())
}

func TestParseAttributeAndSkills(t *testing.T) {
	attr, ok := shared.ParseAttribute("dexterity")
	assert.True(t, ok)
	assert.Equal(t, shared.AttributeDexterity, attr)

	attr, ok = shared.ParseAttribute("WIS")
	assert.True(t, ok)
	assert.Equal(t, shared.AttributeWisdom, attr)

	_, ok = shared.ParseAttribute("luck")
	assert.False(t, ok)

	assert.Len(t, shared.Skills, 18)
	skill, ok := shared.LookupSkill("sleight of hand")
	assert.True(t, ok)
	assert.Equal(t, shared.AttributeDexterity, skill.Ability)
}
