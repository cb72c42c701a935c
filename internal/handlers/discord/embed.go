package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Discord embed limits
const (
	maxEmbedFields     = 25
	maxFieldValueChars = 1024
	truncatedSuffix    = "\n…"
)

const (
	colorSheet   = 0x3498db // Blue
	colorSuccess = 0x2ecc71
	colorError   = 0xe74c3c
)

// EmbedBuilder provides a fluent API for building Discord embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Type:   discordgo.EmbedTypeRich,
			Fields: make([]*discordgo.MessageEmbedField, 0),
		},
	}
}

func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = description
	return b
}

func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.embed.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

// Field adds a field. Empty values are skipped, long ones are cut to
// Discord's limit and fields past the 25th are dropped.
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	if value == "" || len(b.embed.Fields) >= maxEmbedFields {
		return b
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  truncate(value, maxFieldValueChars),
		Inline: inline,
	})
	return b
}

func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}

// ErrorEmbed creates an error embed
func ErrorEmbed(description string) *discordgo.MessageEmbed {
	return NewEmbed().Title("❌ Error").Description(description).Color(colorError).Build()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	keep := limit - len([]rune(truncatedSuffix))
	return string(runes[:keep]) + truncatedSuffix
}
