package character

import (
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e/calculators"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// Recompute runs the derivation pipeline in a fixed order: level, abilities,
// skills, armor and senses, class resources, spell slots, experience, hit
// points, then basic attacks. Each step only reads what earlier steps wrote.
func (s *service) Recompute(c *character.Character) error {
	if c == nil {
		return dnderr.InvalidArgument("character is required")
	}
	if !c.Enter(character.PhaseRecompute) {
		return nil
	}
	defer c.Leave(character.PhaseRecompute)

	c.EnsureDefaults()
	c.MigrateLegacy()

	c.Level = c.TotalLevel()
	c.ClassLevel = character.FormatClassLevel(c.Classes)
	c.ProficiencyBonus = calculators.ProficiencyBonus(c.Level)

	for _, attr := range shared.Attributes {
		score := c.Ability(attr)
		score.Modifier = calculators.AbilityModifier(score.Score, score.CustomModifier)
		score.SaveModifier = calculators.SaveModifier(score.Modifier, c.ProficiencyBonus, score.SaveProficient)
	}

	for _, skill := range c.Skills {
		if skill.Expertise {
			skill.Proficient = true
		}
		skill.Modifier = calculators.SkillModifier(c.Modifier(skill.Ability), c.ProficiencyBonus, skill.Proficient, skill.Expertise)
	}

	c.AC = s.ac.Calculate(c)
	c.WearingArmor = c.EquippedBodyArmor() != nil
	c.Initiative = calculators.Initiative(c.Modifier(shared.AttributeDexterity))
	c.Senses = character.Senses{
		PassivePerception:    passive(c, shared.SkillPerception),
		PassiveInvestigation: passive(c, shared.SkillInvestigation),
		PassiveInsight:       passive(c, shared.SkillInsight),
	}

	if err := s.syncResources(c); err != nil {
		return err
	}
	c.SyncLegacyRage(calculators.RageDamageBonus(c.ClassLevelOf(rulebook.ClassBarbarian)))

	c.SpellSlots = calculators.SpellSlots(c.Classes, c.SpellSlots)
	c.PreparedSpellLimit = preparedSpellLimit(c)

	c.Experience.Current = max(c.Experience.Current, 0)
	c.Experience.NextLevel = calculators.NextLevelXP(c.Experience.Current)

	c.HitPoints.Normalize()

	s.synthesizer.Reconcile(c)
	return nil
}

// syncResources creates or grows every class pool for the current class
// levels. Pools are never shrunk or refilled here.
func (s *service) syncResources(c *character.Character) error {
	for _, entry := range c.Classes {
		pools, err := s.store.ResourcesForClassAtLevel(entry.ClassType, entry.Level)
		if err != nil {
			return dnderr.Wrapf(err, "failed to get %s resources", entry.ClassType).
				WithMeta("class", string(entry.ClassType))
		}
		for _, pool := range pools {
			c.UpsertResource(shared.ResourcePool{
				ID:          pool.ID,
				Label:       pool.Label,
				Class:       string(entry.ClassType),
				Reset:       pool.Reset,
				Max:         pool.Max,
				TrackActive: pool.TrackActive,
			})
		}
	}
	return nil
}

func preparedSpellLimit(c *character.Character) int {
	total := 0
	for _, entry := range c.Classes {
		attr := entry.ClassType.Traits().SpellcastingAbility
		if attr == shared.AttributeNone {
			continue
		}
		total += calculators.PreparedSpellLimit(entry.ClassType, entry.Level, c.Modifier(attr))
	}
	return total
}

func passive(c *character.Character, name string) int {
	skill := c.Skill(name)
	if skill == nil {
		return 10
	}
	return calculators.PassiveScore(skill.Modifier)
}
