package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/clients/dnd5e"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

var (
	importOutDir      string
	importConcurrency int
	importBaseURL     string
)

var importEquipmentCmd = &cobra.Command{
	Use:   "import-equipment",
	Short: "Import weapon and armor tables from the D&D 5e API",
	Long: `Fetch the "weapon" and "armor" equipment categories from the D&D 5e API and
write weapons.json and armor.json in the reference table format.`,
	RunE: runImportEquipment,
}

func init() {
	importEquipmentCmd.Flags().StringVar(&importOutDir, "out", ".", "Directory to write weapons.json and armor.json into")
	importEquipmentCmd.Flags().IntVar(&importConcurrency, "concurrency", 8, "Parallel API requests")
	importEquipmentCmd.Flags().StringVar(&importBaseURL, "base-url", "", "API base URL (overrides DND5E_API_URL)")
}

func runImportEquipment(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	baseURL := cfg.DND5E.BaseURL
	if importBaseURL != "" {
		baseURL = importBaseURL
	}

	importer, err := dnd5e.New(&dnd5e.Config{
		BaseURL:     baseURL,
		Concurrency: importConcurrency,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("Importing equipment from %s...", baseURL)
	weapons, err := importer.ImportCategory(ctx, "weapon")
	if err != nil {
		return err
	}
	armor, err := importer.ImportCategory(ctx, "armor")
	if err != nil {
		return err
	}

	table := &rulebook.Reference{Weapons: weapons.Weapons, Armor: armor.Armor}
	if err := table.Validate(); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(importOutDir, "weapons.json"), table.Weapons); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(importOutDir, "armor.json"), table.Armor); err != nil {
		return err
	}

	fmt.Printf("✅ Imported %d weapons and %d armor rows into %s\n", len(table.Weapons), len(table.Armor), importOutDir)
	if skipped := len(weapons.Skipped) + len(armor.Skipped); skipped > 0 {
		fmt.Printf("Skipped %d items that could not be converted\n", skipped)
	}
	return nil
}

func writeTable(path string, rows any) error {
	data, err := rulebook.WriteJSON(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return dnderr.Wrapf(err, "failed to write %s", path).WithMeta("path", path)
	}
	return nil
}
