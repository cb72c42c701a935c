package discord

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
)

// RecoverMiddleware wraps handler functions to recover from panics
func RecoverMiddleware(handlerName string, handler func(*discordgo.Session, *discordgo.InteractionCreate)) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer recoverInteraction(handlerName, s, i)
		handler(s, i)
	}
}

func recoverInteraction(handlerName string, s Session, i *discordgo.InteractionCreate) {
	r := recover()
	if r == nil {
		return
	}
	log.Printf("PANIC in %s handler: %v\nStack trace:\n%s", handlerName, r, debug.Stack())
	respondWithError(s, i, fmt.Sprintf("An unexpected error occurred: %v", r))
}
