package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	characterService "github.com/KirkDiggler/dnd-sheet-engine/internal/services/character"
)

const (
	defaultTimeout = 10 * time.Second
	maxRollsShown  = 10
)

// standardArray is used for ability scores the player leaves out
var standardArray = map[shared.Attribute]int{
	shared.AttributeStrength:     15,
	shared.AttributeDexterity:    14,
	shared.AttributeConstitution: 13,
	shared.AttributeIntelligence: 12,
	shared.AttributeWisdom:       10,
	shared.AttributeCharisma:     8,
}

// Handler serves the /sheet command and the buttons on the sheet embed
type Handler struct {
	characters characterService.Service
	store      *rulebook.Store
	metrics    *Metrics
	locks      *keyedMutex
	limiter    *rateLimiter
	roller     dice.Roller
	history    *dice.History
	timeout    time.Duration
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	CharacterService characterService.Service // Required
	Store            *rulebook.Store          // Required
	MeterProvider    metric.MeterProvider     // Optional, the global otel provider when nil
	Timeout          time.Duration            // Optional, per interaction
	RateLimit        *RateLimitConfig         // Optional, no limit when nil
	Roller           dice.Roller              // Optional, a random roller when nil
	RollHistory      *dice.History            // Optional, a private history when nil
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("config is required")
	}
	if cfg.CharacterService == nil {
		return nil, dnderr.InvalidArgument("character service is required")
	}
	if cfg.Store == nil {
		return nil, dnderr.InvalidArgument("ruleset store is required")
	}

	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	metrics, err := NewMetrics(mp)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}
	history := cfg.RollHistory
	if history == nil {
		history = dice.NewHistory()
	}

	return &Handler{
		characters: cfg.CharacterService,
		store:      cfg.Store,
		metrics:    metrics,
		locks:      newKeyedMutex(),
		limiter:    newRateLimiter(cfg.RateLimit),
		roller:     roller,
		history:    history,
		timeout:    timeout,
	}, nil
}

// HandleInteraction is the discordgo event handler
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.Handle(s, i)
}

// Handle routes an interaction. Interactions for other commands are ignored.
func (h *Handler) Handle(s Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	userID := interactionUserID(i)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.Name != CommandName || len(data.Options) == 0 {
			return
		}
		sub := data.Options[0]
		h.run(ctx, s, i, sub.Name, discordgo.InteractionResponseChannelMessageWithSource,
			func() (*discordgo.InteractionResponseData, error) {
				return h.handleSubcommand(ctx, userID, sub.Name, options(sub.Options))
			})

	case discordgo.InteractionMessageComponent:
		id, err := ParseCustomID(i.MessageComponentData().CustomID)
		if err != nil {
			return
		}
		h.run(ctx, s, i, "button_"+id.Action, discordgo.InteractionResponseUpdateMessage,
			func() (*discordgo.InteractionResponseData, error) {
				return h.handleButton(ctx, userID, id)
			})
	}
}

func (h *Handler) run(ctx context.Context, s Session, i *discordgo.InteractionCreate, command string,
	responseType discordgo.InteractionResponseType, fn func() (*discordgo.InteractionResponseData, error)) {
	start := time.Now()
	err := h.limiter.check(ctx, interactionUserID(i))
	var data *discordgo.InteractionResponseData
	if err == nil {
		data, err = fn()
	}
	h.metrics.Record(ctx, command, err, time.Since(start))

	if err != nil {
		log.Printf("Error handling /%s %s: %v", CommandName, command, err)
		respondWithError(s, i, userMessage(err))
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: responseType,
		Data: data,
	}); err != nil {
		log.Printf("Failed to respond to /%s %s: %v", CommandName, command, err)
	}
}

func (h *Handler) handleSubcommand(ctx context.Context, userID, name string, opts options) (*discordgo.InteractionResponseData, error) {
	if userID == "" {
		return nil, dnderr.InvalidArgument("Could not tell who sent this command")
	}

	switch name {
	case SubcommandShow:
		char, err := h.resolveCharacter(ctx, userID, opts.String(optCharacter))
		if err != nil {
			return nil, err
		}
		return sheetResponse(char, ""), nil
	case SubcommandCreate:
		return h.create(ctx, userID, opts)
	case SubcommandLevelUp:
		return h.mutateByName(ctx, userID, opts.String(optCharacter), func(c *character.Character) (string, bool, error) {
			return h.levelUp(c, opts)
		})
	case SubcommandRest:
		return h.mutateByName(ctx, userID, opts.String(optCharacter), func(c *character.Character) (string, bool, error) {
			return h.rest(c, opts.String(optType))
		})
	case SubcommandResource:
		return h.mutateByName(ctx, userID, opts.String(optCharacter), func(c *character.Character) (string, bool, error) {
			return h.resource(c, opts.String(optResource), opts.String(optAction))
		})
	case SubcommandEquip:
		return h.mutateByName(ctx, userID, opts.String(optCharacter), func(c *character.Character) (string, bool, error) {
			return h.equip(c, opts.String(optItem), opts.String(optAction))
		})
	case SubcommandRolls:
		return h.rolls(userID), nil
	case SubcommandXP:
		amount, _ := opts.Int(optAmount)
		return h.mutateByName(ctx, userID, opts.String(optCharacter), func(c *character.Character) (string, bool, error) {
			return h.addXP(c, amount)
		})
	default:
		return nil, dnderr.InvalidArgumentf("Unknown subcommand %q", name)
	}
}

func (h *Handler) handleButton(ctx context.Context, userID string, id CustomID) (*discordgo.InteractionResponseData, error) {
	return h.mutate(ctx, userID, id.CharacterID, func(c *character.Character) (string, bool, error) {
		switch id.Action {
		case ButtonShortRest:
			return h.rest(c, "short")
		case ButtonLongRest:
			return h.rest(c, "long")
		case ButtonToggle:
			return h.resource(c, id.Arg, "toggle")
		case ButtonSpend:
			return h.resource(c, id.Arg, "spend")
		default:
			return "", false, dnderr.InvalidArgumentf("Unknown button %q", id.Action)
		}
	})
}

// mutation changes a loaded character and reports a message and whether to save
type mutation func(c *character.Character) (string, bool, error)

func (h *Handler) mutateByName(ctx context.Context, userID, name string, fn mutation) (*discordgo.InteractionResponseData, error) {
	char, err := h.resolveCharacter(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return h.mutate(ctx, userID, char.ID, fn)
}

// mutate runs a load-modify-save cycle while holding the character's lock
func (h *Handler) mutate(ctx context.Context, userID, characterID string, fn mutation) (*discordgo.InteractionResponseData, error) {
	unlock := h.locks.Lock(characterID)
	defer unlock()

	char, err := h.characters.GetCharacter(ctx, characterID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, dnderr.NotFound("Character not found")
		}
		return nil, err
	}
	if char.OwnerID != userID {
		return nil, dnderr.InvalidArgument("You can only change your own characters!")
	}

	message, changed, err := fn(char)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := h.characters.SaveCharacter(ctx, char); err != nil {
			return nil, err
		}
	}
	return sheetResponse(char, message), nil
}

// resolveCharacter finds one of the user's characters by name. With no name
// the user's only character is used.
func (h *Handler) resolveCharacter(ctx context.Context, userID, name string) (*character.Character, error) {
	chars, err := h.characters.ListCharacters(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, dnderr.NotFound("You have no characters yet, use /sheet create")
	}

	if name == "" {
		if len(chars) > 1 {
			return nil, dnderr.InvalidArgument("You have several characters, pick one with the character option")
		}
		return chars[0], nil
	}

	for _, char := range chars {
		if strings.EqualFold(char.Name, name) {
			return char, nil
		}
	}
	return nil, dnderr.NotFoundf("No character named %s", name).WithMeta("name", name)
}

func (h *Handler) create(ctx context.Context, userID string, opts options) (*discordgo.InteractionResponseData, error) {
	name := opts.String(optName)
	if name == "" {
		return nil, dnderr.InvalidArgument("A character name is required")
	}
	class, ok := rulebook.ParseClassType(opts.String(optClass))
	if !ok {
		return nil, dnderr.InvalidArgumentf("Unknown class %q", opts.String(optClass))
	}

	existing, err := h.characters.ListCharacters(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, char := range existing {
		if strings.EqualFold(char.Name, name) {
			return nil, dnderr.AlreadyExistsf("You already have a character named %s", char.Name)
		}
	}

	scores := make(map[shared.Attribute]int, len(abilityOptions))
	for _, ability := range abilityOptions {
		score, ok := opts.Int(ability.name)
		if !ok {
			score = standardArray[ability.attr]
		}
		scores[ability.attr] = score
	}

	out, err := h.characters.CreateCharacter(&characterService.CreateCharacterInput{
		OwnerID:       userID,
		Name:          name,
		Class:         class,
		AbilityScores: scores,
		Choices: &characterService.ClassChoices{
			SkillProficiencies: opts.List(optSkills),
			Expertise:          opts.List(optExpertise),
			FightingStyle:      opts.String(optFightingStyle),
		},
	})
	if err != nil {
		return nil, err
	}
	if !out.Created {
		if class.Traits().FightingStyleAtFirstLevel {
			return nil, dnderr.InvalidArgumentf("A %s needs a fighting style, pick one with the fighting_style option", class)
		}
		return nil, dnderr.InvalidArgumentf("Could not create a %s", class)
	}

	if err := h.characters.SaveCharacter(ctx, out.Character); err != nil {
		return nil, err
	}
	log.Printf("User %s created %s (%s)", userID, out.Character.Name, out.Character.ID)
	return sheetResponse(out.Character, fmt.Sprintf("✅ Created %s the %s!", out.Character.Name, class)), nil
}

func (h *Handler) levelUp(c *character.Character, opts options) (string, bool, error) {
	class, ok := rulebook.ParseClassType(opts.String(optClass))
	if !ok {
		return "", false, dnderr.InvalidArgumentf("Unknown class %q", opts.String(optClass))
	}

	hp := rulebook.HPChoice{Method: rulebook.HPMethodAverage}
	var rolled *dice.RollResult
	if opts.String(optHP) == string(rulebook.HPMethodRoll) {
		hp.Method = rulebook.HPMethodRoll
		if roll, ok := opts.Int(optRoll); ok {
			hp.Roll = roll
		} else if c.TotalLevel() > 0 {
			hitDie, err := h.store.HitDie(class)
			if err != nil {
				return "", false, err
			}
			rolled, err = h.roller.Roll(1, hitDie, 0)
			if err != nil {
				return "", false, dnderr.Wrap(err, "failed to roll hit points")
			}
			hp.Roll = rolled.Total
		}
	}

	gained, err := h.characters.LevelUp(c, &characterService.LevelUpInput{
		Class: class,
		HP:    hp,
		Choices: &characterService.ClassChoices{
			SkillProficiencies: opts.List(optSkills),
			FightingStyle:      opts.String(optFightingStyle),
		},
	})
	if err != nil {
		return "", false, err
	}
	if gained == 0 {
		return levelUpDenial(h, c, class), false, nil
	}
	if rolled != nil {
		h.history.AddFor(c.OwnerID, fmt.Sprintf("%s: %s hit points", c.Name, class), rolled)
		return fmt.Sprintf("⬆️ %s is now %s (+%d HP, rolled %d on a d%d)",
			c.Name, c.ClassLevel, gained, rolled.Total, rolled.Sides), true, nil
	}
	return fmt.Sprintf("⬆️ %s is now %s (+%d HP)", c.Name, c.ClassLevel, gained), true, nil
}

// rolls lists the caller's most recent hit point rolls
func (h *Handler) rolls(userID string) *discordgo.InteractionResponseData {
	entries := h.history.EntriesFor(userID, maxRollsShown)
	if len(entries) == 0 {
		return &discordgo.InteractionResponseData{
			Content: "🎲 No rolls yet. Level up with the Roll hit point method to roll.",
			Flags:   discordgo.MessageFlagsEphemeral,
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s `1d%d` → %s <t:%d:R>", e.Label, e.Result.Sides, e.Result, e.At.Unix()))
	}
	embed := NewEmbed().
		Title("🎲 Recent Rolls").
		Description(strings.Join(lines, "\n")).
		Color(colorSheet).
		Build()
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	}
}

func levelUpDenial(h *Handler, c *character.Character, class rulebook.ClassType) string {
	total := c.TotalLevel()
	switch {
	case total >= rulebook.MaxLevel:
		return fmt.Sprintf("%s is already level %d", c.Name, rulebook.MaxLevel)
	case !rulebook.CanAdvance(total, c.Experience.Current):
		return fmt.Sprintf("%s needs %d XP to reach level %d", c.Name, rulebook.XPForLevel(total+1), total+1)
	case !h.characters.CanMulticlass(c, class):
		return fmt.Sprintf("%s does not meet the ability prerequisites for %s", c.Name, class)
	default:
		return fmt.Sprintf("%s could not take a level in %s", c.Name, class)
	}
}

func (h *Handler) rest(c *character.Character, kind string) (string, bool, error) {
	switch kind {
	case "short":
		if err := h.characters.ShortRest(c); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("😮‍💨 %s takes a short rest", c.Name), true, nil
	case "long":
		if err := h.characters.LongRest(c); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("🛌 %s takes a long rest", c.Name), true, nil
	default:
		return "", false, dnderr.InvalidArgumentf("Unknown rest type %q", kind)
	}
}

// findResource matches a pool by id or label, ignoring case
func findResource(c *character.Character, name string) *shared.ResourcePool {
	for _, id := range c.ResourceIDs() {
		pool := c.Resource(id)
		if strings.EqualFold(id, name) || strings.EqualFold(pool.Label, name) {
			return pool
		}
	}
	return nil
}

func (h *Handler) resource(c *character.Character, name, action string) (string, bool, error) {
	pool := findResource(c, name)
	if pool == nil {
		return "", false, dnderr.NotFoundf("%s has no resource called %s", c.Name, name)
	}

	var ok bool
	var err error
	switch action {
	case "spend":
		ok, err = h.characters.SpendResource(c, pool.ID)
	case "restore":
		ok, err = h.characters.RestoreResource(c, pool.ID)
	case "toggle":
		ok, err = h.characters.ToggleResource(c, pool.ID)
	default:
		return "", false, dnderr.InvalidArgumentf("Unknown resource action %q", action)
	}
	if err != nil {
		return "", false, err
	}

	pool = c.Resource(pool.ID)
	if !ok {
		return resourceDenial(pool, action), false, nil
	}
	if action == "toggle" {
		state := "ends"
		if pool.Active {
			state = "starts"
		}
		return fmt.Sprintf("%s %s %s (%d/%d)", c.Name, state, pool.Label, pool.Current, pool.Max), true, nil
	}
	return fmt.Sprintf("%s: %d/%d", pool.Label, pool.Current, pool.Max), true, nil
}

func resourceDenial(pool *shared.ResourcePool, action string) string {
	switch action {
	case "restore":
		return fmt.Sprintf("%s is already full", pool.Label)
	case "toggle":
		if !pool.TrackActive {
			return fmt.Sprintf("%s cannot be switched on or off", pool.Label)
		}
		return fmt.Sprintf("%s has no uses left", pool.Label)
	default:
		return fmt.Sprintf("%s has no uses left", pool.Label)
	}
}

// findItem matches an inventory item by name, ignoring case
func findItem(c *character.Character, name string) *character.InventoryItem {
	for _, item := range c.Inventory {
		if strings.EqualFold(item.Name, name) {
			return item
		}
	}
	return nil
}

func (h *Handler) equip(c *character.Character, name, action string) (string, bool, error) {
	if name == "" {
		return "", false, dnderr.InvalidArgument("An item name is required")
	}

	item := findItem(c, name)
	if action == "unequip" {
		if item == nil {
			return "", false, dnderr.NotFoundf("%s is not carrying %s", c.Name, name)
		}
		ok, err := h.characters.UnequipItem(c, item.ID)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return fmt.Sprintf("%s is not equipped", item.Name), false, nil
		}
		return fmt.Sprintf("%s unequips %s", c.Name, item.Name), true, nil
	}

	if item == nil {
		added, err := h.addReferenceItem(c, name)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%s picks up and equips %s", c.Name, added.Name), true, nil
	}

	if item.Equipped {
		return fmt.Sprintf("%s is already equipped", item.Name), false, nil
	}
	if _, err := h.characters.EquipItem(c, item.ID); err != nil {
		return "", false, err
	}
	return fmt.Sprintf("%s equips %s", c.Name, item.Name), true, nil
}

// addReferenceItem adds a weapon or armor from the ruleset tables, equipped
func (h *Handler) addReferenceItem(c *character.Character, name string) (*character.InventoryItem, error) {
	item := &character.InventoryItem{Quantity: 1, Equipped: true}
	if armor, ok := h.store.Armor(name); ok {
		item.Name = armor.Name
		item.ArmorType = armor.Type
		item.BaseAC = armor.BaseAC
	} else if weapon, ok := h.store.Weapon(name); ok {
		item.Name = weapon.Name
	} else {
		return nil, dnderr.NotFoundf("%s is not carrying %s and it is not a known weapon or armor", c.Name, name)
	}
	return h.characters.AddItem(c, item)
}

func (h *Handler) addXP(c *character.Character, amount int) (string, bool, error) {
	if amount <= 0 {
		return "", false, dnderr.InvalidArgument("XP amount must be positive")
	}
	before := c.Experience.Current
	if err := h.characters.AddXP(c, amount); err != nil {
		return "", false, err
	}

	message := fmt.Sprintf("%s gains %d XP (%d total)", c.Name, c.Experience.Current-before, c.Experience.Current)
	if rulebook.CanAdvance(c.TotalLevel(), c.Experience.Current) {
		message += " and can level up!"
	}
	return message, true, nil
}

func sheetResponse(char *character.Character, message string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    message,
		Embeds:     []*discordgo.MessageEmbed{BuildSheetEmbed(char)},
		Components: BuildSheetComponents(char),
		Flags:      discordgo.MessageFlagsEphemeral,
	}
}
