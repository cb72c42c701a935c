package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

type options []*discordgo.ApplicationCommandInteractionDataOption

func (o options) find(name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range o {
		if opt != nil && opt.Name == name {
			return opt
		}
	}
	return nil
}

// String returns a trimmed string option, or "" when it was not given
func (o options) String(name string) string {
	opt := o.find(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return strings.TrimSpace(opt.StringValue())
}

// Int returns an integer option and whether it was given
func (o options) Int(name string) (int, bool) {
	opt := o.find(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return int(opt.IntValue()), true
}

// List splits a comma separated string option
func (o options) List(name string) []string {
	raw := o.String(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// interactionUserID is the member's id in guilds and the user's id in DMs
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
