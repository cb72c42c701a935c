package services

import (
	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/repositories/characters"
	characterService "github.com/KirkDiggler/dnd-sheet-engine/internal/services/character"
)

// Provider holds all service instances
type Provider struct {
	Store            *rulebook.Store
	CharacterService characterService.Service
	// Roller is the unrecorded roller behind CharacterService
	Roller dice.Roller
	// RollHistory records every hit point roll made by the engine
	RollHistory *dice.History
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Store               *rulebook.Store // Required
	CharacterRepository characters.Repository
	Roller              dice.Roller
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil || cfg.Store == nil {
		return nil, dnderr.InvalidArgument("ruleset store is required")
	}

	// Use in-memory repository if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}
	history := dice.NewHistory()

	charService := characterService.NewService(&characterService.ServiceConfig{
		Store:      cfg.Store,
		Roller:     dice.NewRecordingRoller(roller, history, "hit points"),
		Repository: charRepo,
	})

	return &Provider{
		Store:            cfg.Store,
		CharacterService: charService,
		Roller:           roller,
		RollHistory:      history,
	}, nil
}
