package discord

import (
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// Session is the part of *discordgo.Session the handler responds through
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

const genericErrorMessage = "Something went wrong, please try again"

// userMessage picks the text shown for err. Only caller-facing codes keep
// their message.
func userMessage(err error) string {
	var coded *dnderr.Error
	if errors.As(err, &coded) {
		switch coded.Code {
		case dnderr.CodeInvalidArgument, dnderr.CodeNotFound, dnderr.CodeAlreadyExists:
			return coded.Message
		}
	}
	return genericErrorMessage
}

// respondWithError sends an ephemeral error embed
func respondWithError(s Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{ErrorEmbed(message)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to send error response to user: %s: %v", message, err)
	}
}
