package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	characterService "github.com/KirkDiggler/dnd-sheet-engine/internal/services/character"
)

var (
	ownerID       string
	characterID   string
	charName      string
	className     string
	scoreFlags    []int
	skillFlags    []string
	expertise     []string
	fightingStyle string
	hpMethod      string
	hpRoll        int
	restType      string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a level 1 character",
	RunE:  runCreate,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a character sheet",
	RunE:  runShow,
}

var levelUpCmd = &cobra.Command{
	Use:   "level-up",
	Short: "Take a level in a class",
	RunE:  runLevelUp,
}

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Take a short or long rest",
	RunE:  runRest,
}

func init() {
	createCmd.Flags().StringVar(&ownerID, "owner", "cli", "Owner ID")
	createCmd.Flags().StringVar(&charName, "name", "", "Character name (required)")
	createCmd.Flags().StringVar(&className, "class", "", "Starting class (required)")
	createCmd.Flags().IntSliceVar(&scoreFlags, "scores", []int{15, 14, 13, 12, 10, 8}, "Ability scores in STR,DEX,CON,INT,WIS,CHA order")
	createCmd.Flags().StringSliceVar(&skillFlags, "skills", nil, "Skill proficiencies")
	createCmd.Flags().StringSliceVar(&expertise, "expertise", nil, "Expertise skills")
	createCmd.Flags().StringVar(&fightingStyle, "fighting-style", "", "Fighting style key")
	_ = createCmd.MarkFlagRequired("name")  // nolint:errcheck // safe to ignore in init
	_ = createCmd.MarkFlagRequired("class") // nolint:errcheck // safe to ignore in init

	for _, cmd := range []*cobra.Command{showCmd, levelUpCmd, restCmd} {
		cmd.Flags().StringVar(&characterID, "id", "", "Character ID (required)")
		_ = cmd.MarkFlagRequired("id") // nolint:errcheck // safe to ignore in init
	}

	levelUpCmd.Flags().StringVar(&className, "class", "", "Class to advance (required)")
	levelUpCmd.Flags().StringVar(&hpMethod, "hp", string(rulebook.HPMethodAverage), "Hit points method: average or roll")
	levelUpCmd.Flags().IntVar(&hpRoll, "roll", 0, "Your own hit die roll, used with --hp roll")
	levelUpCmd.Flags().StringSliceVar(&skillFlags, "skills", nil, "Skill proficiencies for a new class")
	levelUpCmd.Flags().StringVar(&fightingStyle, "fighting-style", "", "Fighting style key for a new class")
	_ = levelUpCmd.MarkFlagRequired("class") // nolint:errcheck // safe to ignore in init

	restCmd.Flags().StringVar(&restType, "type", "long", "Rest type: short or long")
}

func parseClass(name string) (rulebook.ClassType, error) {
	class, ok := rulebook.ParseClassType(name)
	if !ok {
		return "", dnderr.InvalidArgumentf("unknown class %q", name)
	}
	return class, nil
}

func runCreate(_ *cobra.Command, _ []string) error {
	class, err := parseClass(className)
	if err != nil {
		return err
	}
	if len(scoreFlags) != len(shared.Attributes) {
		return dnderr.InvalidArgumentf("--scores needs %d values, got %d", len(shared.Attributes), len(scoreFlags))
	}
	scores := make(map[shared.Attribute]int, len(shared.Attributes))
	for i, attr := range shared.Attributes {
		scores[attr] = scoreFlags[i]
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	provider, cleanup, err := createProvider(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := provider.CharacterService.CreateCharacter(&characterService.CreateCharacterInput{
		OwnerID:       ownerID,
		Name:          charName,
		Class:         class,
		AbilityScores: scores,
		Choices: &characterService.ClassChoices{
			SkillProficiencies: skillFlags,
			Expertise:          expertise,
			FightingStyle:      fightingStyle,
		},
	})
	if err != nil {
		return err
	}
	if !out.Created {
		return dnderr.InvalidArgumentf("could not create a %s, check --fighting-style", class)
	}
	if err := provider.CharacterService.SaveCharacter(ctx, out.Character); err != nil {
		return err
	}

	fmt.Printf("✅ Character created!\n\n")
	printSheet(out.Character)
	return nil
}

// withCharacter loads --id, applies fn and saves when fn reports a change
func withCharacter(fn func(svc characterService.Service, c *character.Character) (bool, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	provider, cleanup, err := createProvider(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := provider.CharacterService
	char, err := svc.GetCharacter(ctx, characterID)
	if err != nil {
		return err
	}
	changed, err := fn(svc, char)
	if err != nil {
		return err
	}
	for _, e := range provider.RollHistory.Entries() {
		fmt.Printf("🎲 %s: rolled %d on a d%d\n", e.Label, e.Result.Total, e.Result.Sides)
	}
	if changed {
		if err := svc.SaveCharacter(ctx, char); err != nil {
			return err
		}
	}
	printSheet(char)
	return nil
}

func runShow(_ *cobra.Command, _ []string) error {
	return withCharacter(func(characterService.Service, *character.Character) (bool, error) {
		return false, nil
	})
}

func runLevelUp(_ *cobra.Command, _ []string) error {
	class, err := parseClass(className)
	if err != nil {
		return err
	}
	method := rulebook.HPMethod(strings.ToLower(hpMethod))
	if method != rulebook.HPMethodAverage && method != rulebook.HPMethodRoll {
		return dnderr.InvalidArgumentf("unknown hp method %q", hpMethod)
	}

	return withCharacter(func(svc characterService.Service, c *character.Character) (bool, error) {
		gained, err := svc.LevelUp(c, &characterService.LevelUpInput{
			Class: class,
			HP:    rulebook.HPChoice{Method: method, Roll: hpRoll},
			Choices: &characterService.ClassChoices{
				SkillProficiencies: skillFlags,
				FightingStyle:      fightingStyle,
			},
		})
		if err != nil {
			return false, err
		}
		if gained == 0 {
			return false, dnderr.InvalidArgumentf("%s cannot take a level in %s (XP %d, needs %d)",
				c.Name, class, c.Experience.Current, rulebook.XPForLevel(c.TotalLevel()+1))
		}
		log.Printf("%s gained %d hit points", c.Name, gained)
		return true, nil
	})
}

func runRest(_ *cobra.Command, _ []string) error {
	return withCharacter(func(svc characterService.Service, c *character.Character) (bool, error) {
		switch restType {
		case "short":
			return true, svc.ShortRest(c)
		case "long":
			return true, svc.LongRest(c)
		default:
			return false, dnderr.InvalidArgumentf("unknown rest type %q", restType)
		}
	})
}

func printSheet(c *character.Character) {
	fmt.Printf("%s (ID: %s)\n", c.Name, c.ID)
	fmt.Printf("%s | Level %d | XP %d/%d\n", c.ClassLevel, c.Level, c.Experience.Current, c.Experience.NextLevel)
	fmt.Printf("HP %d/%d", c.HitPoints.Current, c.HitPoints.Max)
	if c.HitPoints.Temporary > 0 {
		fmt.Printf(" (+%d temp)", c.HitPoints.Temporary)
	}
	fmt.Printf(" | AC %d | Initiative %+d | Proficiency %+d\n\n", c.AC, c.Initiative, c.ProficiencyBonus)

	for _, attr := range shared.Attributes {
		score := c.Ability(attr)
		save := ""
		if score.SaveProficient {
			save = " (save)"
		}
		fmt.Printf("  %s %2d (%+d)%s\n", strings.ToUpper(string(attr)), score.Final(), score.Modifier, save)
	}

	if len(c.Actions) > 0 {
		fmt.Printf("\nActions:\n")
		for _, a := range c.Actions {
			fmt.Printf("  - %s %s %s\n", a.Name, a.ToHit, a.Damage)
		}
	}
	if ids := c.ResourceIDs(); len(ids) > 0 {
		fmt.Printf("\nResources:\n")
		for _, id := range ids {
			pool := c.Resource(id)
			fmt.Printf("  - %s %d/%d\n", pool.Label, pool.Current, pool.Max)
		}
	}
	if len(c.SpellSlots) > 0 {
		fmt.Printf("\nSpell slots:\n")
		for _, slot := range c.SpellSlots {
			fmt.Printf("  - Level %d: %d/%d\n", slot.Level, slot.Available(), slot.Total)
		}
	}
}
