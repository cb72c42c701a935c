// Package dnd5e imports weapon and armor tables from the public D&D 5e API
// into the reference table format the rulebook loads.
package dnd5e

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 8
	defaultCacheTTL    = 24 * time.Hour
	defaultHTTPTimeout = 30 * time.Second
)

type importer struct {
	source      EquipmentSource
	concurrency int
}

// Config holds configuration for the importer
type Config struct {
	Source      EquipmentSource // Optional, the cached public API client when nil
	BaseURL     string          // Optional, used when Source is nil
	HttpClient  *http.Client    // Optional, used when Source is nil
	CacheTTL    time.Duration   // Optional, used when Source is nil
	Concurrency int             // Optional, parallel item fetches
}

// New creates an Importer
func New(cfg *Config) (Importer, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("config is required")
	}

	source := cfg.Source
	if source == nil {
		httpClient := cfg.HttpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: defaultHTTPTimeout}
		}
		api, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  httpClient,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to create D&D 5e API client")
		}
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		source = dnd5e.NewCachedClient(api, ttl)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &importer{source: source, concurrency: concurrency}, nil
}

func (i *importer) ImportWeapons(ctx context.Context, keys []string) ([]rulebook.WeaponSpec, error) {
	result, err := i.importKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	return result.Weapons, nil
}

func (i *importer) ImportArmor(ctx context.Context, keys []string) ([]rulebook.ArmorSpec, error) {
	result, err := i.importKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	return result.Armor, nil
}

func (i *importer) ImportCategory(ctx context.Context, category string) (*ImportResult, error) {
	if category == "" {
		return nil, dnderr.InvalidArgument("category is required")
	}

	data, err := i.source.GetEquipmentCategory(category)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get equipment category %s", category).
			WithMeta("category", category)
	}
	if data == nil {
		return nil, dnderr.NotFoundf("equipment category %s not found", category).
			WithMeta("category", category)
	}

	keys := make([]string, 0, len(data.Equipment))
	for _, ref := range data.Equipment {
		if ref != nil && ref.Key != "" {
			keys = append(keys, ref.Key)
		}
	}
	return i.importKeys(ctx, keys)
}

// importKeys fetches every key with bounded concurrency and sorts the rows.
// One failed fetch fails the whole import so a partial table is never written.
func (i *importer) importKeys(ctx context.Context, keys []string) (*ImportResult, error) {
	type row struct {
		weapon *rulebook.WeaponSpec
		armor  *rulebook.ArmorSpec
	}
	rows := make([]row, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := i.source.GetEquipment(key)
			if err != nil {
				return dnderr.Wrapf(err, "failed to get equipment %s", key).WithMeta("key", key)
			}
			rows[idx].weapon = weaponSpec(item)
			rows[idx].armor = armorSpec(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for idx, r := range rows {
		switch {
		case r.weapon != nil:
			result.Weapons = append(result.Weapons, *r.weapon)
		case r.armor != nil:
			result.Armor = append(result.Armor, *r.armor)
		default:
			result.Skipped = append(result.Skipped, keys[idx])
		}
	}
	if len(result.Skipped) > 0 {
		log.Printf("Skipped %d items that are neither weapons nor armor: %v", len(result.Skipped), result.Skipped)
	}

	sort.Slice(result.Weapons, func(a, b int) bool { return result.Weapons[a].Name < result.Weapons[b].Name })
	sort.Slice(result.Armor, func(a, b int) bool { return result.Armor[a].Name < result.Armor[b].Name })
	return result, nil
}
