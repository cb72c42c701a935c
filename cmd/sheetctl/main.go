// Package main is the sheetctl command line tool for rulesets and characters
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/config"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/services"
)

var (
	// Global flags
	rulesetDir string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "sheetctl",
	Short: "D&D character sheet engine tools",
	Long: `sheetctl validates rulesets, imports equipment tables and manages characters
stored in Redis (REDIS_URL) from the command line.`,
	SilenceUsage: true,
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesetDir, "ruleset", "", "Ruleset directory (overrides RULESET_DIR)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for storage and API calls")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importEquipmentCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(levelUpCmd)
	rootCmd.AddCommand(restCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rulesetDir != "" {
		cfg.Ruleset.Dir = rulesetDir
	}
	return cfg, nil
}

// createProvider wires the services. Without REDIS_URL characters only live
// for the duration of the command.
func createProvider(ctx context.Context) (*services.Provider, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := cfg.LoadRuleset()
	if err != nil {
		return nil, nil, err
	}

	providerConfig := &services.ProviderConfig{Store: store}
	cleanup := func() {}

	opts, err := cfg.RedisOptions()
	if err != nil {
		return nil, nil, err
	}
	if opts != nil {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, dnderr.Wrapf(err, "failed to connect to redis at %s", opts.Addr)
		}
		providerConfig.CharacterRepository = characters.NewRedis(client)
		cleanup = func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}
	} else {
		log.Println("⚠️  REDIS_URL not set, characters will not be persisted")
	}

	provider, err := services.NewProvider(providerConfig)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return provider, cleanup, nil
}
