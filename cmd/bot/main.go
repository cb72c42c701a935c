package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/config"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/handlers/discord"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireDiscord(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	store, err := cfg.LoadRuleset()
	if err != nil {
		log.Fatalf("Failed to load ruleset: %v", err)
	}
	log.Printf("Loaded ruleset with %d classes", len(store.Classes()))

	providerConfig := &services.ProviderConfig{Store: store}

	// Keep Redis client for cleanup
	redisClient := connectRedis(cfg)
	if redisClient != nil {
		providerConfig.CharacterRepository = characters.NewRedis(redisClient)
		log.Println("Using Redis for persistence")
	} else {
		log.Println("Using in-memory character repository")
	}

	provider, err := services.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	rateLimit := &discord.RateLimitConfig{
		MaxRequests: cfg.Discord.RateLimit,
		Window:      cfg.Discord.RateWindow,
	}
	if redisClient != nil {
		rateLimit.Store = discord.NewRedisRateLimitStore(redisClient)
	}

	handler, err := discord.NewHandler(&discord.HandlerConfig{
		CharacterService: provider.CharacterService,
		Store:            provider.Store,
		RateLimit:        rateLimit,
		Roller:           provider.Roller,
		RollHistory:      provider.RollHistory,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord handler: %v", err)
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.AddHandler(discord.RecoverMiddleware("sheet", handler.HandleInteraction))

	if err := dg.Open(); err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		if clientErr := dg.Close(); clientErr != nil {
			log.Printf("Failed to close Discord connection: %v", clientErr)
		}
	}()

	// Empty guild ID registers global commands
	if err := discord.RegisterCommands(dg, cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}
	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}

// connectRedis returns a live client, or nil to fall back to memory
func connectRedis(cfg *config.Config) *redis.Client {
	opts, err := cfg.RedisOptions()
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		return nil
	}
	if opts == nil {
		log.Println("No REDIS_URL found")
		return nil
	}

	log.Printf("Connecting to Redis at: %s", opts.Addr)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		_ = client.Close()
		return nil
	}
	log.Println("Successfully connected to Redis")
	return client
}
