package main

import (
	"fmt"

	"github.com/spf13/cobra"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
)

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a ruleset directory",
	Long: `Load the class progression and reference tables and report any error.
Without --dir the configured ruleset (RULESET_DIR) or the built-in one is checked.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "dir", "", "Ruleset directory to validate")
}

func runValidate(_ *cobra.Command, _ []string) error {
	var (
		store *rulebook.Store
		err   error
	)
	if validateDir != "" {
		store, err = rulebook.LoadDir(validateDir)
	} else {
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		store, err = cfg.LoadRuleset()
	}
	if err != nil {
		return err
	}

	fmt.Printf("✅ Ruleset is valid (version %d)\n\n", store.Version())
	fmt.Printf("Classes: %d\n", len(store.Classes()))
	for _, class := range store.Classes() {
		hitDie, err := store.HitDie(class)
		if err != nil {
			return err
		}
		fmt.Printf("  - %s (d%d, %d spells)\n", class, hitDie, len(store.SpellsForClass(class)))
	}
	fmt.Printf("Weapons: %d\n", len(store.Weapons()))
	return nil
}
