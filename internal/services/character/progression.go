package character

import (
	"fmt"
	"log"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e/calculators"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// CreateCharacter applies the first-level rules for one class: starting hit
// points, saving throws, class choices, level 1 features and spells. The
// returned sheet is fully derived, including its basic attacks.
func (s *service) CreateCharacter(input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	if !input.Class.IsValid() {
		log.Printf("Refusing to create %q: unknown class %q", input.Name, input.Class)
		return &CreateCharacterOutput{}, nil
	}

	choices := input.Choices
	if choices == nil {
		choices = &ClassChoices{}
	}
	if input.Class.Traits().FightingStyleAtFirstLevel && !rulebook.AllowsFightingStyle(input.Class, choices.FightingStyle) {
		log.Printf("Refusing to create %q: %s needs a fighting style, got %q", input.Name, input.Class, choices.FightingStyle)
		return &CreateCharacterOutput{}, nil
	}

	char := character.NewCharacter(input.Name)
	char.ID = s.ids.New()
	char.OwnerID = input.OwnerID
	for attr, score := range input.AbilityScores {
		if attr.IsValid() {
			char.Ability(attr).Score = score
		}
	}

	startingHP, err := s.store.StartingHP(input.Class, conModifier(char))
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get starting hit points for %s", input.Class).
			WithMeta("class", string(input.Class))
	}

	char.IncrementClass(input.Class)
	char.HitPoints.Max = startingHP
	char.HitPoints.Current = startingHP

	s.applyFirstClassLevel(char, input.Class, choices, true)
	if err := s.grantClassLevel(char, input.Class, 1); err != nil {
		return nil, err
	}
	if err := s.Recompute(char); err != nil {
		return nil, err
	}

	return &CreateCharacterOutput{Character: char, Created: true}, nil
}

// LevelUp follows the level-up procedure: XP gate, multiclass gate, class
// level, hit points, first-level choices for a new class, class features for
// the new level, then a full recompute.
func (s *service) LevelUp(c *character.Character, input *LevelUpInput) (int, error) {
	if c == nil {
		return 0, dnderr.InvalidArgument("character is required")
	}
	if input == nil {
		return 0, dnderr.InvalidArgument("input is required")
	}
	if !input.Class.IsValid() {
		return 0, dnderr.InvalidArgumentf("unknown class %q", input.Class).
			WithMeta("class", string(input.Class))
	}

	totalLevel := c.TotalLevel()
	if !rulebook.CanAdvance(totalLevel, c.Experience.Current) {
		log.Printf("Level up for %s denied: level %d with %d XP", c.ID, totalLevel, c.Experience.Current)
		return 0, nil
	}

	newClass := !c.HasClass(input.Class)
	if newClass && !s.CanMulticlass(c, input.Class) {
		log.Printf("Level up for %s denied: prerequisites for %s not met", c.ID, input.Class)
		return 0, nil
	}

	// Hit points are computed before anything changes so a lookup failure
	// leaves the sheet untouched.
	var gained int
	var err error
	if totalLevel == 0 {
		gained, err = s.store.StartingHP(input.Class, conModifier(c))
	} else {
		gained, err = s.store.HPGain(input.Class, conModifier(c), input.HP, s.roller)
	}
	if err != nil {
		return 0, dnderr.Wrapf(err, "failed to compute hit points for %s", input.Class).
			WithMeta("class", string(input.Class))
	}

	classLevel := c.IncrementClass(input.Class)
	c.HitPoints.Max += gained
	c.HitPoints.Current += gained

	if newClass {
		choices := input.Choices
		if choices == nil {
			choices = &ClassChoices{}
		}
		s.applyFirstClassLevel(c, input.Class, choices, totalLevel == 0)
	}

	if err := s.grantClassLevel(c, input.Class, classLevel); err != nil {
		return 0, err
	}
	if err := s.Recompute(c); err != nil {
		return 0, err
	}

	return gained, nil
}

// CanMulticlass checks the new class's ability prerequisites. A character
// with no classes, or one that already has levels in class, always can.
func (s *service) CanMulticlass(c *character.Character, class rulebook.ClassType) bool {
	if c == nil || !class.IsValid() {
		return false
	}
	if len(c.Classes) == 0 || c.HasClass(class) {
		return true
	}
	return rulebook.MeetsMulticlassPrerequisites(class, c.FinalScore)
}

// applyFirstClassLevel applies the picks made when a class is first taken.
// Saving throws come only with the starting class; multiclass proficiencies
// only with later ones.
func (s *service) applyFirstClassLevel(c *character.Character, class rulebook.ClassType, choices *ClassChoices, startingClass bool) {
	traits := class.Traits()

	if startingClass {
		for _, attr := range traits.SavingThrows {
			c.Ability(attr).SaveProficient = true
		}
	}

	for _, name := range choices.SkillProficiencies {
		if skill := c.Skill(name); skill != nil {
			skill.Proficient = true
		}
	}

	if traits.ExpertiseAtFirstLevel {
		for _, name := range choices.Expertise {
			if skill := c.Skill(name); skill != nil {
				skill.Proficient = true
				skill.Expertise = true
			}
		}
	}

	if traits.FightingStyleAtFirstLevel && choices.FightingStyle != "" {
		if style, ok := rulebook.LookupFightingStyle(choices.FightingStyle); ok && rulebook.AllowsFightingStyle(class, style.Key) {
			if c.AddFightingStyle(style.Key) {
				c.AddFeature(&character.FeatureTrait{
					ID:          s.ids.New(),
					Name:        "Fighting Style: " + style.Name,
					Description: style.Description,
					Source:      character.FeatureSourceClass,
				})
			}
		}
	}

	for _, weapon := range choices.WeaponMasteries {
		c.AddWeaponMastery(weapon)
	}

	if !startingClass {
		for _, prof := range traits.MulticlassProficiencies {
			if !c.AddMulticlassProficiency(prof) {
				continue
			}
			c.AddFeature(&character.FeatureTrait{
				ID:          s.ids.New(),
				Name:        prof + " Proficiency",
				Description: fmt.Sprintf("Gained by multiclassing into %s.", class),
				Source:      character.FeatureSourceMulticlass,
			})
		}
	}
}

// grantClassLevel adds the features and spells defined for exactly classLevel
func (s *service) grantClassLevel(c *character.Character, class rulebook.ClassType, classLevel int) error {
	features, err := s.store.ClassFeaturesForLevel(class, classLevel)
	if err != nil {
		return dnderr.Wrapf(err, "failed to get %s level %d features", class, classLevel).
			WithMeta("class", string(class))
	}
	for _, f := range features {
		c.AddFeature(&character.FeatureTrait{
			ID:          s.ids.New(),
			Name:        f.Name,
			Description: f.Description,
			Source:      character.FeatureSourceClass,
		})
	}

	spells, err := s.store.SpellGrantsForLevel(class, classLevel)
	if err != nil {
		return dnderr.Wrapf(err, "failed to get %s level %d spells", class, classLevel).
			WithMeta("class", string(class))
	}
	for _, sp := range spells {
		c.AddSpell(&character.Spell{
			ID:          s.ids.New(),
			Name:        sp.Name,
			Level:       sp.Level,
			School:      sp.School,
			CastingTime: sp.CastingTime,
			Range:       sp.Range,
			Components:  sp.Components,
			Duration:    sp.Duration,
			Description: sp.Description,
			Prepared:    true,
			Attack:      sp.Attack,
			Source:      string(class),
		})
	}
	return nil
}

func conModifier(c *character.Character) int {
	score := c.Ability(shared.AttributeConstitution)
	return calculators.AbilityModifier(score.Score, score.CustomModifier)
}
