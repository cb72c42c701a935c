package discord

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
)

// Discord component limits
const (
	maxButtonsPerRow = 5
	maxActionRows    = 5
)

// BuildSheetEmbed renders a recomputed character
func BuildSheetEmbed(char *character.Character) *discordgo.MessageEmbed {
	title := char.Name
	if char.ClassLevel != "" {
		title = fmt.Sprintf("%s - %s", char.Name, char.ClassLevel)
	}

	hp := fmt.Sprintf("**HP:** %d/%d", char.HitPoints.Current, char.HitPoints.Max)
	if char.HitPoints.Temporary > 0 {
		hp += fmt.Sprintf(" (+%d temp)", char.HitPoints.Temporary)
	}
	description := fmt.Sprintf("%s | **AC:** %d | **Initiative:** %+d | **Proficiency:** %+d",
		hp, char.AC, char.Initiative, char.ProficiencyBonus)

	footer := fmt.Sprintf("Level %d | XP %d", char.Level, char.Experience.Current)
	if char.Experience.NextLevel > 0 {
		footer += fmt.Sprintf("/%d", char.Experience.NextLevel)
	}

	return NewEmbed().
		Title(title).
		Description(description).
		Color(colorSheet).
		Field("📊 Ability Scores", abilityLines(char), true).
		Field("🛡️ Saving Throws", saveLines(char), true).
		Field("🎯 Skills", skillLines(char), false).
		Field("👁️ Senses", fmt.Sprintf("Passive Perception %d\nPassive Investigation %d\nPassive Insight %d",
			char.Senses.PassivePerception, char.Senses.PassiveInvestigation, char.Senses.PassiveInsight), true).
		Field("⚔️ Actions", actionLines(char), false).
		Field("🔋 Resources", resourceLines(char), true).
		Field("✨ Spell Slots", spellSlotLines(char), true).
		Field("📜 Prepared Spells", preparedSpellLines(char), false).
		Field("🎒 Equipped", equippedLines(char), true).
		Field("🌟 Features", featureLines(char), false).
		Footer(footer).
		Build()
}

func abilityLines(char *character.Character) string {
	lines := make([]string, 0, len(shared.Attributes))
	for _, attr := range shared.Attributes {
		score := char.Ability(attr)
		lines = append(lines, fmt.Sprintf("**%s:** %d (%+d)", strings.ToUpper(string(attr)), score.Final(), score.Modifier))
	}
	return strings.Join(lines, "\n")
}

func saveLines(char *character.Character) string {
	lines := make([]string, 0, len(shared.Attributes))
	for _, attr := range shared.Attributes {
		score := char.Ability(attr)
		marker := ""
		if score.SaveProficient {
			marker = " ●"
		}
		lines = append(lines, fmt.Sprintf("%s %+d%s", strings.ToUpper(string(attr)), score.SaveModifier, marker))
	}
	return strings.Join(lines, "\n")
}

// skillLines lists trained skills only
func skillLines(char *character.Character) string {
	var lines []string
	for _, skill := range char.Skills {
		if !skill.Proficient {
			continue
		}
		line := fmt.Sprintf("%s %+d", skill.Name, skill.Modifier)
		if skill.Expertise {
			line += " (expertise)"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "No trained skills"
	}
	return strings.Join(lines, ", ")
}

func actionLines(char *character.Character) string {
	var lines []string
	for _, action := range char.Actions {
		line := "**" + action.Name + "**"
		if action.IsBonusAction {
			line += " (bonus)"
		}
		if action.ToHit != "" {
			line += " " + action.ToHit + " to hit"
		}
		if action.Damage != "" {
			line += ", " + action.Damage
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func resourceLines(char *character.Character) string {
	var lines []string
	for _, id := range char.ResourceIDs() {
		pool := char.Resource(id)
		line := fmt.Sprintf("%s %d/%d", pool.Label, pool.Current, pool.Max)
		if pool.TrackActive && pool.Active {
			line += " (active)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func spellSlotLines(char *character.Character) string {
	var lines []string
	for _, slot := range char.SpellSlots {
		label := fmt.Sprintf("Level %d", slot.Level)
		if slot.Pact {
			label = fmt.Sprintf("Pact (level %d)", slot.Level)
		}
		lines = append(lines, fmt.Sprintf("%s: %d/%d", label, slot.Available(), slot.Total))
	}
	return strings.Join(lines, "\n")
}

func preparedSpellLines(char *character.Character) string {
	var names []string
	for _, spell := range char.Spells {
		if spell.Prepared {
			names = append(names, spell.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (%d/%d)", strings.Join(names, ", "), len(names), char.PreparedSpellLimit)
}

func equippedLines(char *character.Character) string {
	var names []string
	for _, item := range char.EquippedItems() {
		names = append(names, item.Name)
	}
	return strings.Join(names, "\n")
}

func featureLines(char *character.Character) string {
	names := make([]string, 0, len(char.Features))
	for _, f := range char.Features {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}

// BuildSheetComponents adds rest buttons and one button per resource the
// player toggles or spends from the sheet
func BuildSheetComponents(char *character.Character) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	add := func(label string, style discordgo.ButtonStyle, id CustomID) {
		customID, err := id.Encode()
		if err != nil {
			log.Printf("Skipping button %q: %v", label, err)
			return
		}
		buttons = append(buttons, discordgo.Button{Label: label, Style: style, CustomID: customID})
	}

	add("Short Rest", discordgo.SecondaryButton, CustomID{Action: ButtonShortRest, CharacterID: char.ID})
	add("Long Rest", discordgo.SecondaryButton, CustomID{Action: ButtonLongRest, CharacterID: char.ID})
	for _, id := range char.ResourceIDs() {
		pool := char.Resource(id)
		switch {
		case pool.TrackActive && pool.Active:
			add("End "+pool.Label, discordgo.SecondaryButton, CustomID{Action: ButtonToggle, CharacterID: char.ID, Arg: id})
		case pool.TrackActive:
			add("Start "+pool.Label, discordgo.DangerButton, CustomID{Action: ButtonToggle, CharacterID: char.ID, Arg: id})
		default:
			add("Use "+pool.Label, discordgo.PrimaryButton, CustomID{Action: ButtonSpend, CharacterID: char.ID, Arg: id})
		}
	}

	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons) && len(rows) < maxActionRows; start += maxButtonsPerRow {
		end := min(start+maxButtonsPerRow, len(buttons))
		rows = append(rows, discordgo.ActionsRow{Components: buttons[start:end]})
	}
	return rows
}
