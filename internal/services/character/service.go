// Package character is the progression engine: it creates characters, levels
// them up, applies every sheet mutation and reruns the derivation pipeline
// afterwards.
package character

import (
	"context"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e/calculators"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/services/actions"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Service defines the character engine. Every mutating operation recomputes
// the sheet before returning. Boolean results report precondition failures;
// errors are reserved for ruleset lookups and storage.
type Service interface {
	// CreateCharacter builds a level 1 character in one class
	CreateCharacter(input *CreateCharacterInput) (*CreateCharacterOutput, error)

	// LevelUp advances one class by a level and returns the hit points gained.
	// Zero with a nil error means a precondition was not met.
	LevelUp(c *character.Character, input *LevelUpInput) (int, error)

	// CanMulticlass reports whether the character may take a level in class
	CanMulticlass(c *character.Character, class rulebook.ClassType) bool

	// Recompute rederives every computed field. Re-entrant calls do nothing.
	Recompute(c *character.Character) error

	// Abilities and skills
	SetAbilityScore(c *character.Character, attr shared.Attribute, score int) error
	SetCustomModifier(c *character.Character, attr shared.Attribute, modifier int) error
	SetSaveProficiency(c *character.Character, attr shared.Attribute, proficient bool) error
	SetSkillProficiency(c *character.Character, skill string, proficient bool) (bool, error)
	SetSkillExpertise(c *character.Character, skill string, expertise bool) (bool, error)

	// Hit points
	SetHP(c *character.Character, current int) error
	SetMaxHP(c *character.Character, maximum int) error
	SetTempHP(c *character.Character, temporary int) error
	Damage(c *character.Character, amount int) (int, error)
	Heal(c *character.Character, amount int) (int, error)

	// Experience
	SetXP(c *character.Character, xp int) error
	AddXP(c *character.Character, amount int) error

	// Inventory
	AddItem(c *character.Character, item *character.InventoryItem) (*character.InventoryItem, error)
	RemoveItem(c *character.Character, id string) (bool, error)
	EquipItem(c *character.Character, id string) (bool, error)
	UnequipItem(c *character.Character, id string) (bool, error)

	// Resources and rests
	SpendResource(c *character.Character, id string) (bool, error)
	RestoreResource(c *character.Character, id string) (bool, error)
	ToggleResource(c *character.Character, id string) (bool, error)
	UseSpellSlot(c *character.Character, level int) (bool, error)
	RestoreSpellSlot(c *character.Character, level int) (bool, error)
	ShortRest(c *character.Character) error
	LongRest(c *character.Character) error

	// Actions, spells and features
	AddAction(c *character.Character, action *character.Action) (*character.Action, error)
	RemoveAction(c *character.Character, id string) (bool, error)
	ConvertActionToManual(c *character.Character, id string) (bool, error)
	AddSpell(c *character.Character, spell *character.Spell) (bool, error)
	RemoveSpell(c *character.Character, id string) (bool, error)
	SetSpellPrepared(c *character.Character, id string, prepared bool) (bool, error)
	AddFeature(c *character.Character, feature *character.FeatureTrait) (bool, error)
	RemoveFeature(c *character.Character, id string) (bool, error)

	// Sheet text
	SetName(c *character.Character, name string) error
	SetBackground(c *character.Character, background character.Background) error

	// Persistence
	GetCharacter(ctx context.Context, id string) (*character.Character, error)
	ListCharacters(ctx context.Context, ownerID string) ([]*character.Character, error)
	SaveCharacter(ctx context.Context, c *character.Character) error
	DeleteCharacter(ctx context.Context, id string) error
}

// ClassChoices are the picks made when a class is first taken
type ClassChoices struct {
	SkillProficiencies []string
	// Expertise only applies to classes that get it at first level
	Expertise []string
	// FightingStyle only applies to classes that pick one at first level
	FightingStyle   string
	WeaponMasteries []string
}

// CreateCharacterInput contains all data needed to create a character
type CreateCharacterInput struct {
	OwnerID       string
	Name          string
	Class         rulebook.ClassType
	AbilityScores map[shared.Attribute]int
	Choices       *ClassChoices
}

// CreateCharacterOutput contains the created character. Created is false when
// the class is unknown or a required fighting style is missing.
type CreateCharacterOutput struct {
	Character *character.Character
	Created   bool
}

// LevelUpInput is one level-up request
type LevelUpInput struct {
	Class   rulebook.ClassType
	HP      rulebook.HPChoice
	Choices *ClassChoices // Only used when the class is new to the character
}

type service struct {
	store       *rulebook.Store
	roller      dice.Roller
	ids         uuid.Generator
	repository  Repository
	synthesizer *actions.Synthesizer
	ac          *calculators.ACCalculator
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Store       *rulebook.Store      // Required
	Roller      dice.Roller          // Optional, random roller when nil
	IDGenerator uuid.Generator       // Optional, random UUIDs when nil
	Repository  Repository           // Optional, in-memory when nil
	Synthesizer *actions.Synthesizer // Optional, built from Store and IDGenerator when nil
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Store == nil {
		panic("rulebook store is required")
	}

	svc := &service{
		store:       cfg.Store,
		roller:      cfg.Roller,
		ids:         cfg.IDGenerator,
		repository:  cfg.Repository,
		synthesizer: cfg.Synthesizer,
		ac:          calculators.NewACCalculator(cfg.Store),
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.ids == nil {
		svc.ids = uuid.NewGoogleUUIDGenerator()
	}
	if svc.repository == nil {
		svc.repository = characters.NewInMemoryRepository()
	}
	if svc.synthesizer == nil {
		svc.synthesizer = actions.NewSynthesizer(&actions.SynthesizerConfig{
			Store:       cfg.Store,
			IDGenerator: svc.ids,
		})
	}
	return svc
}
