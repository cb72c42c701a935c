package character_test

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCharacter_Defaults(t *testing.T) {
	char := character.NewCharacter("Vex")

	assert.Len(t, char.Abilities, 6)
	for _, attr := range shared.Attributes {
		assert.Equal(t, 10, char.Abilities[attr].Score)
	}
	assert.Len(t, char.Skills, 18)
	assert.Equal(t, "Acrobatics", char.Skills[0].Name)
	assert.Empty(t, char.Classes)
	assert.Equal(t, 0, char.TotalLevel())
	assert.NotNil(t, char.Resources)
}

func TestEnsureDefaults_KeepsSkillFlags(t *testing.T) {
	char := &character.Character{
		Skills: []*character.Skill{
			{Name: "stealth", Proficient: true, Expertise: true},
			{Name: "Not A Skill", Proficient: true},
		},
	}
	char.EnsureDefaults()

	require.Len(t, char.Skills, 18)
	stealth := char.Skill("Stealth")
	require.NotNil(t, stealth)
	assert.True(t, stealth.Proficient)
	assert.True(t, stealth.Expertise)
	assert.Equal(t, shared.AttributeDexterity, stealth.Ability)
	assert.Nil(t, char.Skill("Not A Skill"))
}

func TestIncrementClass(t *testing.T) {
	char := character.NewCharacter("Multi")

	assert.Equal(t, 1, char.IncrementClass(rulebook.ClassFighter))
	assert.Equal(t, 2, char.IncrementClass(rulebook.ClassFighter))
	assert.Equal(t, 1, char.IncrementClass(rulebook.ClassRogue))

	assert.Equal(t, 3, char.TotalLevel())
	assert.Equal(t, rulebook.ClassFighter, char.PrimaryClass())
	assert.Equal(t, "Fighter 2 / Rogue 1", character.FormatClassLevel(char.Classes))
	assert.Equal(t, "Multi (Fighter 2 / Rogue 1)", char.String())
}

func TestMigrateLegacy(t *testing.T) {
	t.Run("single class field folds into classes", func(t *testing.T) {
		char := character.NewCharacter("Old")
		char.ClassType = rulebook.ClassBarbarian
		char.Level = 3

		char.MigrateLegacy()

		assert.Equal(t, []character.ClassEntry{{ClassType: rulebook.ClassBarbarian, Level: 3}}, char.Classes)
		assert.Empty(t, char.ClassType)
	})

	t.Run("legacy rage seeds the pool", func(t *testing.T) {
		char := character.NewCharacter("Old")
		char.Rage = &character.LegacyRage{Active: true, UsesAvailable: 1, UsesMax: 3, DamageBonus: 2}

		char.MigrateLegacy()

		pool := char.Resource(character.RageResourceID)
		require.NotNil(t, pool)
		assert.Equal(t, 1, pool.Current)
		assert.Equal(t, 3, pool.Max)
		assert.True(t, pool.Active)
		assert.Equal(t, shared.ResetLongRest, pool.Reset)
	})

	t.Run("existing pool wins over legacy block", func(t *testing.T) {
		char := character.NewCharacter("Old")
		char.Resources[character.RageResourceID] = &shared.ResourcePool{ID: "rage", Current: 2, Max: 2}
		char.Rage = &character.LegacyRage{UsesAvailable: 0, UsesMax: 4}

		char.MigrateLegacy()

		assert.Equal(t, 2, char.Resource("rage").Max)
	})
}

func TestCharacterJSON_SnakeCase(t *testing.T) {
	char := character.NewCharacter("Json")
	char.IncrementClass(rulebook.ClassWizard)
	char.Experience.Current = 100

	data, err := json.Marshal(char)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "hit_points")
	assert.Contains(t, raw, "proficiency_bonus")
	assert.Contains(t, raw, "spell_slots")
	assert.NotContains(t, raw, "guard")

	clone := char.Clone()
	assert.Equal(t, char.Classes, clone.Classes)
	clone.Classes[0].Level = 9
	assert.Equal(t, 1, char.Classes[0].Level)
}

func TestPhaseGuard(t *testing.T) {
	char := character.NewCharacter("Guard")

	require.True(t, char.Enter(character.PhaseRecompute))
	assert.False(t, char.Enter(character.PhaseRecompute))
	assert.True(t, char.Enter(character.PhaseSynthesis), "phases are independent")

	char.Leave(character.PhaseRecompute)
	assert.True(t, char.Enter(character.PhaseRecompute))
}

func TestFeatures_Dedupe(t *testing.T) {
	char := character.NewCharacter("Feat")

	assert.True(t, char.AddFeature(&character.FeatureTrait{ID: "1", Name: "Rage", Source: character.FeatureSourceClass}))
	assert.False(t, char.AddFeature(&character.FeatureTrait{ID: "2", Name: "rage", Source: character.FeatureSourceClass}))
	assert.Len(t, char.Features, 1)

	char.Features = append(char.Features, &character.FeatureTrait{ID: "3", Name: "Rage"})
	char.DedupeFeatures()
	assert.Len(t, char.Features, 1)

	assert.True(t, char.RemoveFeature("1"))
	assert.False(t, char.HasFeature("Rage"))
}

func TestAddMulticlassProficiency(t *testing.T) {
	char := character.NewCharacter("Prof")
	assert.True(t, char.AddMulticlassProficiency("Shields"))
	assert.False(t, char.AddMulticlassProficiency("shields"))
	assert.Equal(t, []string{"Shields"}, char.MulticlassProficiencies)
}

func TestActions(t *testing.T) {
	char := character.NewCharacter("Act")
	char.AddAction(&character.Action{ID: "a1", Name: "Longsword", IsBasicAttack: true})
	char.AddAction(&character.Action{ID: "a2", Name: "Homebrew Kick"})

	assert.Equal(t, "a1", char.ActionByName("longsword").ID)

	assert.False(t, char.ConvertActionToManual("a2"), "already manual")
	assert.True(t, char.ConvertActionToManual("a1"))
	assert.False(t, char.Action("a1").IsEngineOwned())

	assert.True(t, char.RemoveAction("a2"))
	assert.False(t, char.RemoveAction("a2"))
	assert.Len(t, char.Actions, 1)
}
