package character_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-sheet-engine/internal/dice/mock"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	mockcharacters "github.com/KirkDiggler/dnd-sheet-engine/internal/repositories/characters/mock"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/services/actions"
	charService "github.com/KirkDiggler/dnd-sheet-engine/internal/services/character"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	roller  *mockdice.MockRoller
	repo    *mockcharacters.MockRepository
	store   *rulebook.Store
	service charService.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = mockdice.NewMockRoller(s.ctrl)
	s.repo = mockcharacters.NewMockRepository(s.ctrl)
	s.store = rulebook.MustLoadDefault()
	s.service = charService.NewService(&charService.ServiceConfig{
		Store:       s.store,
		Roller:      s.roller,
		IDGenerator: uuid.NewSequentialGenerator("id"),
		Repository:  s.repo,
	})
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func scores(str, dex, con, intel, wis, cha int) map[shared.Attribute]int {
	return map[shared.Attribute]int{
		shared.AttributeStrength:     str,
		shared.AttributeDexterity:    dex,
		shared.AttributeConstitution: con,
		shared.AttributeIntelligence: intel,
		shared.AttributeWisdom:       wis,
		shared.AttributeCharisma:     cha,
	}
}

func (s *ServiceTestSuite) create(class rulebook.ClassType, abilities map[shared.Attribute]int, choices *charService.ClassChoices) *character.Character {
	out, err := s.service.CreateCharacter(&charService.CreateCharacterInput{
		OwnerID:       "owner-1",
		Name:          "Test " + string(class),
		Class:         class,
		AbilityScores: abilities,
		Choices:       choices,
	})
	s.Require().NoError(err)
	s.Require().True(out.Created)
	return out.Character
}

func (s *ServiceTestSuite) levelUp(c *character.Character, class rulebook.ClassType) int {
	c.Experience.Current = rulebook.XPForLevel(c.TotalLevel() + 1)
	gained, err := s.service.LevelUp(c, &charService.LevelUpInput{
		Class: class,
		HP:    rulebook.HPChoice{Method: rulebook.HPMethodAverage},
	})
	s.Require().NoError(err)
	return gained
}

func (s *ServiceTestSuite) TestCreateBarbarian() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)

	s.Equal("id-1", char.ID)
	s.Equal("owner-1", char.OwnerID)
	s.Equal(1, char.Level)
	s.Equal("Barbarian 1", char.ClassLevel)
	s.Equal(2, char.ProficiencyBonus)
	s.Equal(shared.HPResource{Current: 14, Max: 14}, char.HitPoints)
	s.True(char.Abilities[shared.AttributeStrength].SaveProficient)
	s.True(char.Abilities[shared.AttributeConstitution].SaveProficient)
	s.False(char.Abilities[shared.AttributeDexterity].SaveProficient)
	s.Equal(5, char.Abilities[shared.AttributeStrength].SaveModifier)

	s.Equal(14, char.AC, "unarmored defense adds Con")
	s.Equal(2, char.Initiative)
	s.Equal(11, char.Senses.PassivePerception)
	s.Equal(300, char.Experience.NextLevel)

	rage := char.Resource("rage")
	s.Require().NotNil(rage)
	s.Equal(2, rage.Max)
	s.Equal(2, rage.Current)
	s.Require().NotNil(char.Rage)
	s.Equal(2, char.Rage.DamageBonus)

	s.True(char.HasFeature("Rage"))
	s.True(char.HasFeature("Unarmored Defense"))
	s.NotNil(char.ActionByName(actions.UnarmedStrikeName))
}

func (s *ServiceTestSuite) TestCreateRequiresFightingStyle() {
	testCases := []struct {
		name    string
		class   rulebook.ClassType
		style   string
		created bool
	}{
		{name: "fighter without style", class: rulebook.ClassFighter, created: false},
		{name: "fighter with defense", class: rulebook.ClassFighter, style: "Defense", created: true},
		{name: "paladin with archery", class: rulebook.ClassPaladin, style: rulebook.FightingStyleArchery, created: false},
		{name: "paladin with dueling", class: rulebook.ClassPaladin, style: rulebook.FightingStyleDueling, created: true},
		{name: "rogue ignores style", class: rulebook.ClassRogue, created: true},
		{name: "unknown class", class: rulebook.ClassType("Necromancer"), created: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.service.CreateCharacter(&charService.CreateCharacterInput{
				Name:          "Test",
				Class:         tc.class,
				AbilityScores: scores(15, 14, 13, 10, 10, 13),
				Choices:       &charService.ClassChoices{FightingStyle: tc.style},
			})
			s.Require().NoError(err)
			s.Equal(tc.created, out.Created)
			if tc.created {
				s.Require().NotNil(out.Character)
			} else {
				s.Nil(out.Character)
			}
		})
	}
}

func (s *ServiceTestSuite) TestCreateFighterRecordsStyle() {
	char := s.create(rulebook.ClassFighter, scores(16, 12, 14, 10, 10, 10), &charService.ClassChoices{
		FightingStyle:      "Defense",
		SkillProficiencies: []string{"Athletics", "Not A Skill"},
		WeaponMasteries:    []string{"Longsword"},
	})

	s.Equal([]string{rulebook.FightingStyleDefense}, char.FightingStyles)
	s.True(char.HasFeature("Fighting Style: Defense"))
	s.True(char.Skill("Athletics").Proficient)
	s.Equal(5, char.Skill("Athletics").Modifier)
	s.True(char.HasWeaponMastery("longsword"))
	s.Equal(2, char.Resource("secondWind").Max)

	item, err := s.service.AddItem(char, &character.InventoryItem{
		Name:      "Chain Mail",
		ArmorType: rulebook.ArmorHeavy,
		BaseAC:    16,
		Equipped:  true,
	})
	s.Require().NoError(err)
	s.NotEmpty(item.ID)
	s.Equal(17, char.AC, "defense adds one while armored")
	s.True(char.WearingArmor)
}

func (s *ServiceTestSuite) TestCreateRogueExpertise() {
	char := s.create(rulebook.ClassRogue, scores(10, 16, 12, 12, 10, 10), &charService.ClassChoices{
		SkillProficiencies: []string{"Acrobatics"},
		Expertise:          []string{"Stealth"},
	})

	stealth := char.Skill("Stealth")
	s.True(stealth.Proficient)
	s.True(stealth.Expertise)
	s.Equal(7, stealth.Modifier)

	sneak := char.ActionByName(actions.SneakAttackName)
	s.Require().NotNil(sneak)
	s.Equal("1d6", sneak.Damage)
}

func (s *ServiceTestSuite) TestLevelUpNeedsExperience() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)
	char.Experience.Current = 299

	gained, err := s.service.LevelUp(char, &charService.LevelUpInput{Class: rulebook.ClassBarbarian})
	s.NoError(err)
	s.Zero(gained)
	s.Equal(1, char.Level)
	s.Equal(14, char.HitPoints.Max)
}

func (s *ServiceTestSuite) TestLevelUpInvalidClass() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)
	char.Experience.Current = 300

	_, err := s.service.LevelUp(char, &charService.LevelUpInput{Class: "Necromancer"})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestLevelUpHitPoints() {
	testCases := []struct {
		name   string
		choice rulebook.HPChoice
		setup  func()
		gained int
	}{
		{
			name:   "average",
			choice: rulebook.HPChoice{Method: rulebook.HPMethodAverage},
			gained: 7,
		},
		{
			name:   "explicit roll",
			choice: rulebook.HPChoice{Method: rulebook.HPMethodRoll, Roll: 9},
			gained: 11,
		},
		{
			name:   "explicit roll capped at hit die",
			choice: rulebook.HPChoice{Method: rulebook.HPMethodRoll, Roll: 15},
			gained: 12,
		},
		{
			name:   "rolled with roller",
			choice: rulebook.HPChoice{Method: rulebook.HPMethodRoll},
			setup: func() {
				s.roller.EXPECT().Roll(1, 10, 0).Return(&dice.RollResult{Total: 3, Rolls: []int{3}, Count: 1, Sides: 10}, nil)
			},
			gained: 5,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			char := s.create(rulebook.ClassFighter, scores(16, 12, 14, 10, 10, 10), &charService.ClassChoices{FightingStyle: "defense"})
			if tc.setup != nil {
				tc.setup()
			}
			char.Experience.Current = 300

			gained, err := s.service.LevelUp(char, &charService.LevelUpInput{Class: rulebook.ClassFighter, HP: tc.choice})
			s.Require().NoError(err)
			s.Equal(tc.gained, gained)
			s.Equal(12+tc.gained, char.HitPoints.Max)
			s.Equal(12+tc.gained, char.HitPoints.Current)
			s.Equal("Fighter 2", char.ClassLevel)
			s.Equal(900, char.Experience.NextLevel)
		})
	}
}

func (s *ServiceTestSuite) TestLevelUpMinimumGain() {
	char := s.create(rulebook.ClassWizard, scores(8, 14, 3, 16, 12, 10), nil)
	char.Experience.Current = 300

	gained, err := s.service.LevelUp(char, &charService.LevelUpInput{
		Class: rulebook.ClassWizard,
		HP:    rulebook.HPChoice{Method: rulebook.HPMethodRoll, Roll: 1},
	})
	s.Require().NoError(err)
	s.Equal(1, gained)
}

func (s *ServiceTestSuite) TestFirstLevelOnBlankSheetGainsHitPoints() {
	char := character.NewCharacter("Frail")
	con := char.Ability(shared.AttributeConstitution)
	con.Score = 1
	con.CustomModifier = -6

	gained, err := s.service.LevelUp(char, &charService.LevelUpInput{Class: rulebook.ClassWizard})
	s.Require().NoError(err)
	s.Equal(1, gained)
	s.Equal(1, char.TotalLevel())
	s.Equal(1, char.HitPoints.Max)
}

func (s *ServiceTestSuite) TestMulticlassPrerequisites() {
	char := s.create(rulebook.ClassFighter, scores(16, 12, 14, 10, 10, 10), &charService.ClassChoices{FightingStyle: "defense"})

	s.True(s.service.CanMulticlass(char, rulebook.ClassFighter))
	s.True(s.service.CanMulticlass(char, rulebook.ClassBarbarian))
	s.False(s.service.CanMulticlass(char, rulebook.ClassPaladin))
	s.False(s.service.CanMulticlass(char, rulebook.ClassRogue))
	s.True(s.service.CanMulticlass(character.NewCharacter("blank"), rulebook.ClassWizard))

	char.Experience.Current = 300
	gained, err := s.service.LevelUp(char, &charService.LevelUpInput{Class: rulebook.ClassPaladin})
	s.NoError(err)
	s.Zero(gained)
	s.Equal("Fighter 1", char.ClassLevel)
}

func (s *ServiceTestSuite) TestMulticlassIntoRogue() {
	char := s.create(rulebook.ClassFighter, scores(14, 14, 14, 10, 10, 10), &charService.ClassChoices{FightingStyle: "defense"})
	char.Experience.Current = 300

	gained, err := s.service.LevelUp(char, &charService.LevelUpInput{
		Class: rulebook.ClassRogue,
		HP:    rulebook.HPChoice{Method: rulebook.HPMethodAverage},
		Choices: &charService.ClassChoices{
			SkillProficiencies: []string{"Stealth"},
			Expertise:          []string{"Stealth"},
		},
	})
	s.Require().NoError(err)
	s.Equal(6, gained)

	s.Equal(2, char.Level)
	s.Equal("Fighter 1 / Rogue 1", char.ClassLevel)
	s.Equal([]string{"Light Armor", "Thieves' Tools"}, char.MulticlassProficiencies)
	feature := char.FeatureByName("Thieves' Tools Proficiency")
	s.Require().NotNil(feature)
	s.Equal(character.FeatureSourceMulticlass, feature.Source)
	s.False(char.Abilities[shared.AttributeDexterity].SaveProficient, "multiclassing grants no saves")
	s.True(char.Skill("Stealth").Expertise)
	s.NotNil(char.ActionByName(actions.SneakAttackName))
}

func (s *ServiceTestSuite) TestRogueProgression() {
	char := s.create(rulebook.ClassRogue, scores(10, 16, 12, 12, 10, 10), nil)
	s.Nil(char.ActionByName("Cunning Action: Dash"))

	before := len(char.Actions)
	s.levelUp(char, rulebook.ClassRogue)
	s.Equal(before+3, len(char.Actions))
	for _, name := range []string{"Dash", "Disengage", "Hide"} {
		a := char.ActionByName("Cunning Action: " + name)
		s.Require().NotNil(a, name)
		s.True(a.IsBonusAction)
	}
	s.Equal("1d6", char.ActionByName(actions.SneakAttackName).Damage)

	s.levelUp(char, rulebook.ClassRogue)
	s.Equal("2d6", char.ActionByName(actions.SneakAttackName).Damage)
}

func (s *ServiceTestSuite) TestLevelIsSumOfClassLevels() {
	char := s.create(rulebook.ClassFighter, scores(14, 14, 14, 10, 10, 10), &charService.ClassChoices{FightingStyle: "defense"})
	sequence := []rulebook.ClassType{
		rulebook.ClassRogue, rulebook.ClassFighter, rulebook.ClassRogue, rulebook.ClassFighter, rulebook.ClassBarbarian,
	}
	char.Abilities[shared.AttributeStrength].Score = 13

	for _, class := range sequence {
		s.Positive(s.levelUp(char, class), class)
		sum := 0
		for _, entry := range char.Classes {
			sum += entry.Level
		}
		s.Equal(sum, char.Level)
		s.Equal(character.FormatClassLevel(char.Classes), char.ClassLevel)
	}
	s.Equal("Fighter 3 / Rogue 2 / Barbarian 1", char.ClassLevel)
	s.Equal(3, char.ProficiencyBonus)
}

func (s *ServiceTestSuite) TestLevelUpGrowsPoolByDelta() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)
	s.levelUp(char, rulebook.ClassBarbarian)

	ok, err := s.service.SpendResource(char, "rage")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(1, char.Resource("rage").Current)

	s.levelUp(char, rulebook.ClassBarbarian)
	s.Equal(3, char.Resource("rage").Max)
	s.Equal(2, char.Resource("rage").Current)
	s.Equal(2, char.Rage.UsesAvailable)
}

func (s *ServiceTestSuite) TestLevelUpAtMaxLevel() {
	char := s.create(rulebook.ClassWizard, scores(8, 14, 12, 16, 12, 10), nil)
	char.Classes[0].Level = rulebook.MaxLevel
	char.Experience.Current = 400000

	gained, err := s.service.LevelUp(char, &charService.LevelUpInput{Class: rulebook.ClassWizard})
	s.NoError(err)
	s.Zero(gained)
}

func (s *ServiceTestSuite) TestPaladinSpellGrant() {
	char := s.create(rulebook.ClassPaladin, scores(16, 10, 14, 8, 10, 14), &charService.ClassChoices{FightingStyle: "Defense"})
	s.Zero(char.PreparedSpellLimit)
	s.NotNil(char.ActionByName(actions.LayOnHandsName))

	s.levelUp(char, rulebook.ClassPaladin)

	smite := char.SpellByName("Divine Smite")
	s.Require().NotNil(smite)
	s.True(smite.Prepared)
	s.Equal("Paladin", smite.Source)
	s.Equal(4, char.PreparedSpellLimit)

	cast := char.ActionByName("Cast: Divine Smite")
	s.Require().NotNil(cast)
	s.True(cast.IsBonusAction)
}

func (s *ServiceTestSuite) TestPactSlotsKeepUsedAcrossLevelUp() {
	char := s.create(rulebook.ClassWarlock, scores(8, 14, 14, 10, 12, 16), nil)
	s.levelUp(char, rulebook.ClassWarlock)

	for range 2 {
		ok, err := s.service.UseSpellSlot(char, 1)
		s.Require().NoError(err)
		s.Require().True(ok)
	}

	s.levelUp(char, rulebook.ClassWarlock)

	s.Require().Len(char.SpellSlots, 1)
	slot := char.SpellSlots[0]
	s.True(slot.Pact)
	s.Equal(2, slot.Level)
	s.Equal(2, slot.Total)
	s.Equal(2, slot.Used)

	ok, err := s.service.UseSpellSlot(char, 2)
	s.Require().NoError(err)
	s.False(ok, "leveling up does not refill pact slots")
}

func (s *ServiceTestSuite) TestRecomputeMigratesLegacyRecord() {
	char := &character.Character{
		ID:        "legacy",
		Name:      "Old Grog",
		ClassType: rulebook.ClassBarbarian,
		Level:     3,
		Rage:      &character.LegacyRage{UsesAvailable: 1, UsesMax: 3, Active: true},
		HitPoints: shared.HPResource{Current: 50, Max: 30},
	}

	s.Require().NoError(s.service.Recompute(char))

	s.Equal([]character.ClassEntry{{ClassType: rulebook.ClassBarbarian, Level: 3}}, char.Classes)
	s.Empty(char.ClassType)
	s.Equal(3, char.Level)
	s.Len(char.Skills, 18)
	s.Equal(1, char.Resource("rage").Current)
	s.True(char.Resource("rage").Active)
	s.Equal(&character.LegacyRage{Active: true, UsesAvailable: 1, UsesMax: 3, DamageBonus: 2}, char.Rage)
	s.Equal(30, char.HitPoints.Current)
}

func (s *ServiceTestSuite) TestRecomputeNil() {
	s.True(dnderr.IsInvalidArgument(s.service.Recompute(nil)))
}

func (s *ServiceTestSuite) TestManualActionSurvivesStrengthChange() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)
	_, err := s.service.AddItem(char, &character.InventoryItem{Name: "Greataxe", Equipped: true})
	s.Require().NoError(err)
	_, err = s.service.AddItem(char, &character.InventoryItem{Name: "Handaxe", Equipped: true})
	s.Require().NoError(err)

	greataxe := char.ActionByName("Greataxe")
	s.Require().NotNil(greataxe)
	s.Equal("+5", greataxe.ToHit)

	ok, err := s.service.ConvertActionToManual(char, greataxe.ID)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.service.SetAbilityScore(char, shared.AttributeStrength, 18))

	s.Equal("+5", char.ActionByName("Greataxe").ToHit)
	s.Equal("+6", char.ActionByName("Handaxe").ToHit)
	s.Equal(6, char.Abilities[shared.AttributeStrength].SaveModifier)
}

func (s *ServiceTestSuite) TestRageToggleAddsDamage() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)
	_, err := s.service.AddItem(char, &character.InventoryItem{Name: "Greataxe", Equipped: true})
	s.Require().NoError(err)
	s.Equal("1d12 + 3 slashing", char.ActionByName("Greataxe").Damage)

	ok, err := s.service.ToggleResource(char, "rage")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("1d12 + 3 slashing + 2 (rage)", char.ActionByName("Greataxe").Damage)
	s.True(char.Rage.Active)

	s.Require().NoError(s.service.ShortRest(char))
	s.False(char.Resource("rage").Active)
	s.Equal(1, char.Resource("rage").Current, "rage refills on long rest only")
	s.Equal("1d12 + 3 slashing", char.ActionByName("Greataxe").Damage)

	s.Require().NoError(s.service.LongRest(char))
	s.Equal(2, char.Resource("rage").Current)
}

func (s *ServiceTestSuite) TestClampedInputs() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)

	s.Require().NoError(s.service.SetXP(char, -50))
	s.Zero(char.Experience.Current)
	s.Require().NoError(s.service.AddXP(char, 350))
	s.Equal(350, char.Experience.Current)
	s.Equal(900, char.Experience.NextLevel)
	s.Require().NoError(s.service.AddXP(char, -1000))
	s.Zero(char.Experience.Current)

	s.Require().NoError(s.service.SetHP(char, 100))
	s.Equal(14, char.HitPoints.Current)

	ok, err := s.service.SetSkillProficiency(char, "Basket Weaving", true)
	s.NoError(err)
	s.False(ok)

	s.Require().NoError(s.service.SetTempHP(char, 5))
	applied, err := s.service.Damage(char, 8)
	s.Require().NoError(err)
	s.Equal(8, applied)
	s.Equal(11, char.HitPoints.Current)
	healed, err := s.service.Heal(char, 10)
	s.Require().NoError(err)
	s.Equal(3, healed)
}

func (s *ServiceTestSuite) TestSkillExpertiseImpliesProficiency() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)

	ok, err := s.service.SetSkillExpertise(char, "athletics", true)
	s.Require().NoError(err)
	s.True(ok)
	s.True(char.Skill("Athletics").Proficient)
	s.Equal(7, char.Skill("Athletics").Modifier)

	ok, err = s.service.SetSkillProficiency(char, "Athletics", false)
	s.Require().NoError(err)
	s.True(ok)
	s.False(char.Skill("Athletics").Expertise)
	s.Equal(3, char.Skill("Athletics").Modifier)
}

func (s *ServiceTestSuite) TestSpendFromEmptyPool() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)
	for range 2 {
		ok, err := s.service.SpendResource(char, "rage")
		s.Require().NoError(err)
		s.True(ok)
	}

	ok, err := s.service.SpendResource(char, "rage")
	s.NoError(err)
	s.False(ok)
	s.Zero(char.Resource("rage").Current)

	ok, err = s.service.ToggleResource(char, "rage")
	s.NoError(err)
	s.False(ok)
}

func (s *ServiceTestSuite) TestUserEntries() {
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)

	action, err := s.service.AddAction(char, &character.Action{Name: "Shove", Type: character.ActionTypeAction, IsBasicAttack: true})
	s.Require().NoError(err)
	s.False(action.IsBasicAttack)
	s.NotNil(char.ActionByName("Shove"))

	ok, err := s.service.AddSpell(char, &character.Spell{Name: "Guidance", Prepared: true})
	s.Require().NoError(err)
	s.True(ok)
	s.NotNil(char.ActionByName("Cast: Guidance"))

	ok, err = s.service.AddSpell(char, &character.Spell{Name: "guidance"})
	s.NoError(err)
	s.False(ok)

	ok, err = s.service.SetSpellPrepared(char, char.SpellByName("Guidance").ID, false)
	s.Require().NoError(err)
	s.True(ok)
	s.Nil(char.ActionByName("Cast: Guidance"))

	ok, err = s.service.AddFeature(char, &character.FeatureTrait{Name: "Tough"})
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(character.FeatureSourceOther, char.FeatureByName("Tough").Source)

	ok, err = s.service.AddFeature(char, &character.FeatureTrait{Name: "rage"})
	s.NoError(err)
	s.False(ok)

	_, err = s.service.AddAction(char, &character.Action{})
	s.True(dnderr.IsInvalidArgument(err))

	s.Require().NoError(s.service.SetName(char, "  Grog  "))
	s.Equal("Grog", char.Name)
	s.True(dnderr.IsInvalidArgument(s.service.SetName(char, " ")))

	s.Require().NoError(s.service.SetBackground(char, character.Background{Name: "Outlander"}))
	s.Equal("Outlander", char.Background.Name)
}

func (s *ServiceTestSuite) TestSaveCharacter() {
	ctx := context.Background()
	char := s.create(rulebook.ClassBarbarian, scores(16, 14, 14, 8, 12, 10), nil)

	s.Run("creates when missing", func() {
		s.repo.EXPECT().Get(ctx, char.ID).Return(nil, dnderr.NotFound("missing"))
		s.repo.EXPECT().Create(ctx, char).Return(nil)
		s.NoError(s.service.SaveCharacter(ctx, char))
	})

	s.Run("updates when present", func() {
		s.repo.EXPECT().Get(ctx, char.ID).Return(char.Clone(), nil)
		s.repo.EXPECT().Update(ctx, char).Return(nil)
		s.NoError(s.service.SaveCharacter(ctx, char))
	})

	s.Run("keeps the error code", func() {
		s.repo.EXPECT().Get(ctx, char.ID).Return(char.Clone(), nil)
		s.repo.EXPECT().Update(ctx, char).Return(dnderr.InvalidArgument("bad"))
		s.True(dnderr.IsInvalidArgument(s.service.SaveCharacter(ctx, char)))
	})
}

func (s *ServiceTestSuite) TestGetCharacterRecomputes() {
	ctx := context.Background()
	stored := character.NewCharacter("Stored")
	stored.ID = "c1"
	stored.Classes = []character.ClassEntry{{ClassType: rulebook.ClassRogue, Level: 3}}

	s.repo.EXPECT().Get(ctx, "c1").Return(stored, nil)
	char, err := s.service.GetCharacter(ctx, "c1")
	s.Require().NoError(err)
	s.Equal(3, char.Level)
	s.Equal("2d6", char.ActionByName(actions.SneakAttackName).Damage)

	s.repo.EXPECT().Get(ctx, "missing").Return(nil, dnderr.NotFound("missing"))
	_, err = s.service.GetCharacter(ctx, "missing")
	s.True(dnderr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestListAndDelete() {
	ctx := context.Background()
	a := character.NewCharacter("A")
	a.Classes = []character.ClassEntry{{ClassType: rulebook.ClassFighter, Level: 5}}

	s.repo.EXPECT().ListByOwner(ctx, "owner-1").Return([]*character.Character{a}, nil)
	chars, err := s.service.ListCharacters(ctx, "owner-1")
	s.Require().NoError(err)
	s.Require().Len(chars, 1)
	s.Equal(3, chars[0].ProficiencyBonus)

	s.repo.EXPECT().Delete(ctx, "c1").Return(nil)
	s.NoError(s.service.DeleteCharacter(ctx, "c1"))
}
