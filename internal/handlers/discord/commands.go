package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// CommandName is the root slash command
const CommandName = "sheet"

// Subcommands of /sheet
const (
	SubcommandShow     = "show"
	SubcommandCreate   = "create"
	SubcommandLevelUp  = "levelup"
	SubcommandRest     = "rest"
	SubcommandResource = "resource"
	SubcommandEquip    = "equip"
	SubcommandXP       = "xp"
	SubcommandRolls    = "rolls"
)

// Option names
const (
	optCharacter     = "character"
	optName          = "name"
	optClass         = "class"
	optFightingStyle = "fighting_style"
	optSkills        = "skills"
	optExpertise     = "expertise"
	optHP            = "hp"
	optRoll          = "roll"
	optType          = "type"
	optResource      = "resource"
	optAction        = "action"
	optItem          = "item"
	optAmount        = "amount"
)

// abilityOptions maps option names to attributes, in sheet order
var abilityOptions = []struct {
	name string
	attr shared.Attribute
}{
	{"str", shared.AttributeStrength},
	{"dex", shared.AttributeDexterity},
	{"con", shared.AttributeConstitution},
	{"int", shared.AttributeIntelligence},
	{"wis", shared.AttributeWisdom},
	{"cha", shared.AttributeCharisma},
}

func characterOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optCharacter,
		Description: "Character name (optional if you have only one)",
	}
}

func classChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(rulebook.ClassTypes))
	for _, class := range rulebook.ClassTypes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(class), Value: string(class)})
	}
	return choices
}

func fightingStyleChoices() []*discordgo.ApplicationCommandOptionChoice {
	styles := rulebook.FightingStyles()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(styles))
	for _, style := range styles {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: style.Name, Value: style.Key})
	}
	return choices
}

// Commands returns the /sheet command definition
func Commands() []*discordgo.ApplicationCommand {
	createOptions := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optName,
			Description: "Character name",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optClass,
			Description: "Starting class",
			Required:    true,
			Choices:     classChoices(),
		},
	}
	for _, ability := range abilityOptions {
		createOptions = append(createOptions, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        ability.name,
			Description: ability.attr.Name() + " score (standard array when omitted)",
		})
	}
	createOptions = append(createOptions,
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optFightingStyle,
			Description: "Fighting style, required for Fighters and Paladins",
			Choices:     fightingStyleChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optSkills,
			Description: "Skill proficiencies, comma separated",
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optExpertise,
			Description: "Expertise skills, comma separated (Rogue)",
		},
	)

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandName,
			Description: "Character sheet commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        SubcommandShow,
					Description: "Show your character sheet",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options:     []*discordgo.ApplicationCommandOption{characterOption()},
				},
				{
					Name:        SubcommandCreate,
					Description: "Create a level 1 character",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options:     createOptions,
				},
				{
					Name:        SubcommandLevelUp,
					Description: "Take a level in a class",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optClass,
							Description: "Class to advance",
							Required:    true,
							Choices:     classChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optHP,
							Description: "Hit points method",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Average", Value: string(rulebook.HPMethodAverage)},
								{Name: "Roll", Value: string(rulebook.HPMethodRoll)},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        optRoll,
							Description: "Your own hit die roll, used with the Roll method",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optFightingStyle,
							Description: "Fighting style when multiclassing into Fighter",
							Choices:     fightingStyleChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optSkills,
							Description: "Skill proficiencies for a new class, comma separated",
						},
						characterOption(),
					},
				},
				{
					Name:        SubcommandRest,
					Description: "Take a short or long rest",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optType,
							Description: "Rest type",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Short", Value: "short"},
								{Name: "Long", Value: "long"},
							},
						},
						characterOption(),
					},
				},
				{
					Name:        SubcommandResource,
					Description: "Spend, restore or toggle a class resource",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optResource,
							Description: "Resource name, e.g. Rage or Ki",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optAction,
							Description: "What to do",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Spend", Value: "spend"},
								{Name: "Restore", Value: "restore"},
								{Name: "Toggle", Value: "toggle"},
							},
						},
						characterOption(),
					},
				},
				{
					Name:        SubcommandEquip,
					Description: "Equip or unequip an item",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optItem,
							Description: "Item name; known weapons and armor are added if missing",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optAction,
							Description: "Equip (default) or unequip",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Equip", Value: "equip"},
								{Name: "Unequip", Value: "unequip"},
							},
						},
						characterOption(),
					},
				},
				{
					Name:        SubcommandRolls,
					Description: "Show your recent hit point rolls",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        SubcommandXP,
					Description: "Award experience points",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        optAmount,
							Description: "XP to add",
							Required:    true,
						},
						characterOption(),
					},
				},
			},
		},
	}
}

// ApplicationCommandCreator is the part of *discordgo.Session used to register commands
type ApplicationCommandCreator interface {
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

// RegisterCommands registers /sheet for appID, in one guild when guildID is set
func RegisterCommands(s ApplicationCommandCreator, appID, guildID string) error {
	for _, cmd := range Commands() {
		if _, err := s.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			return dnderr.Wrapf(err, "failed to create command %s", cmd.Name).WithMeta("command", cmd.Name)
		}
		log.Printf("Registered command: %s", cmd.Name)
	}
	return nil
}
