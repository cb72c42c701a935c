package rulebook

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

const (
	startingBaseMaxHitDie = "maxHitDie"
	levelUpHalfHitDie     = "halfHitDieFloor"
)

// ClassProgressionFile is every class progression loaded from one ruleset directory
type ClassProgressionFile struct {
	Version int
	Classes map[ClassType]*ClassProgressionSpec
}

// ClassProgressionSpec is the validated progression for one class
type ClassProgressionSpec struct {
	Class     ClassType
	HitDie    int
	HP        HPRules
	Resources map[string]ResourceSpec
	Levels    map[int]LevelSpec
}

// HPRules holds the starting and level-up hit point formulas
type HPRules struct {
	Starting StartingHPRule
	LevelUp  LevelUpHPRule
}

// StartingHPRule is the first-level formula. Base is always "maxHitDie".
type StartingHPRule struct {
	Base   string
	AddCon bool
}

// LevelUpHPRule is the formula for every later level. Average is always "halfHitDieFloor".
type LevelUpHPRule struct {
	Average string
	AddCon  bool
	MinGain int
}

// ResourceSpec describes a limited-use pool a class grants
type ResourceSpec struct {
	ID          string
	Label       string
	Reset       shared.ResetCadence
	TrackActive bool
	MaxByLevel  map[int]int
}

// LevelSpec is what a class gains at one class level
type LevelSpec struct {
	Features []FeatureSpec
	Spells   []SpellGrant
}

// FeatureSpec is a class feature entry
type FeatureSpec struct {
	Name        string
	Description string
	Resource    string
}

// SpellGrant is a spell added to the sheet automatically at a class level
type SpellGrant struct {
	Name string
}

// Raw decode targets. Every structurally required field is a pointer so a
// missing key is distinguishable from a zero value.

type rawClassSpec struct {
	HitDie    *int                        `json:"hitDie" yaml:"hitDie"`
	HP        *rawHPRules                 `json:"hp" yaml:"hp"`
	Resources map[string]*rawResourceSpec `json:"resources" yaml:"resources"`
	Levels    map[string]*rawLevelSpec    `json:"levels" yaml:"levels"`
}

type rawHPRules struct {
	Starting *rawStartingHP `json:"starting" yaml:"starting"`
	LevelUp  *rawLevelUpHP  `json:"levelUp" yaml:"levelUp"`
}

type rawStartingHP struct {
	Base   *string `json:"base" yaml:"base"`
	AddCon *bool   `json:"addCon" yaml:"addCon"`
}

type rawLevelUpHP struct {
	Average *string `json:"average" yaml:"average"`
	AddCon  *bool   `json:"addCon" yaml:"addCon"`
	MinGain *int    `json:"minGain" yaml:"minGain"`
}

type rawResourceSpec struct {
	Label       *string         `json:"label" yaml:"label"`
	Reset       *string         `json:"reset" yaml:"reset"`
	TrackActive *bool           `json:"trackActive" yaml:"trackActive"`
	MaxByLevel  map[string]*int `json:"maxByLevel" yaml:"maxByLevel"`
}

type rawLevelSpec struct {
	Features []*rawFeatureSpec `json:"features" yaml:"features"`
	Spells   []*rawSpellGrant  `json:"spells" yaml:"spells"`
}

type rawFeatureSpec struct {
	Name        *string `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
	Resource    *string `json:"resource" yaml:"resource"`
}

type rawSpellGrant struct {
	Name *string `json:"name" yaml:"name"`
}

// LoadProgression reads one <Class>.json or <Class>.yaml file per class from dir.
// Any malformed file is a configuration error; nothing is defaulted.
func LoadProgression(fsys fs.FS, dir string) (*ClassProgressionFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "failed to read class progression directory").
			WithMeta("dir", dir)
	}

	file := &ClassProgressionFile{
		Version: 1,
		Classes: make(map[ClassType]*ClassProgressionSpec),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		stem := strings.TrimSuffix(name, path.Ext(name))
		class, ok := ParseClassType(stem)
		if !ok {
			return nil, dnderr.Configurationf("invalid class progression: unknown class file %q", name)
		}
		if _, dup := file.Classes[class]; dup {
			return nil, dnderr.Configurationf("invalid class progression: class %s defined twice", class)
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "failed to read class progression file").
				WithMeta("file", name)
		}

		spec, err := DecodeClassSpec(class, data, ext != ".json")
		if err != nil {
			return nil, err
		}
		file.Classes[class] = spec
	}

	if len(file.Classes) == 0 {
		return nil, dnderr.Configurationf("invalid class progression: no class files in %s", dir)
	}

	return file, nil
}

// DecodeClassSpec strictly decodes and validates one class progression
func DecodeClassSpec(class ClassType, data []byte, isYAML bool) (*ClassProgressionSpec, error) {
	var raw rawClassSpec
	if isYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration,
				"invalid class progression: class "+string(class)+" could not be decoded")
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration,
				"invalid class progression: class "+string(class)+" could not be decoded")
		}
	}
	return raw.validate(class)
}

func invalid(class ClassType, format string, args ...any) error {
	return dnderr.Configurationf("invalid class progression: class %s "+format, append([]any{class}, args...)...).
		WithMeta("class", string(class))
}

func (r *rawClassSpec) validate(class ClassType) (*ClassProgressionSpec, error) {
	if r.HitDie == nil {
		return nil, invalid(class, "missing hitDie")
	}
	if *r.HitDie <= 0 {
		return nil, invalid(class, "hitDie must be positive, got %d", *r.HitDie)
	}

	if r.HP == nil {
		return nil, invalid(class, "missing hp")
	}
	if r.HP.Starting == nil {
		return nil, invalid(class, "missing hp.starting")
	}
	if r.HP.Starting.Base == nil || *r.HP.Starting.Base != startingBaseMaxHitDie {
		return nil, invalid(class, "hp.starting.base must be %q", startingBaseMaxHitDie)
	}
	if r.HP.Starting.AddCon == nil {
		return nil, invalid(class, "missing hp.starting.addCon")
	}
	if r.HP.LevelUp == nil {
		return nil, invalid(class, "missing hp.levelUp")
	}
	if r.HP.LevelUp.Average == nil || *r.HP.LevelUp.Average != levelUpHalfHitDie {
		return nil, invalid(class, "hp.levelUp.average must be %q", levelUpHalfHitDie)
	}
	if r.HP.LevelUp.AddCon == nil {
		return nil, invalid(class, "missing hp.levelUp.addCon")
	}
	if r.HP.LevelUp.MinGain == nil {
		return nil, invalid(class, "missing hp.levelUp.minGain")
	}

	spec := &ClassProgressionSpec{
		Class:  class,
		HitDie: *r.HitDie,
		HP: HPRules{
			Starting: StartingHPRule{Base: *r.HP.Starting.Base, AddCon: *r.HP.Starting.AddCon},
			LevelUp: LevelUpHPRule{
				Average: *r.HP.LevelUp.Average,
				AddCon:  *r.HP.LevelUp.AddCon,
				MinGain: *r.HP.LevelUp.MinGain,
			},
		},
		Resources: make(map[string]ResourceSpec, len(r.Resources)),
		Levels:    make(map[int]LevelSpec),
	}

	for id, res := range r.Resources {
		if res == nil {
			return nil, invalid(class, "resource %s is empty", id)
		}
		if res.Label == nil || *res.Label == "" {
			return nil, invalid(class, "resource %s missing label", id)
		}
		if res.Reset == nil {
			return nil, invalid(class, "resource %s missing reset", id)
		}
		reset := shared.ResetCadence(*res.Reset)
		if !reset.IsValid() {
			return nil, invalid(class, "resource %s has invalid reset %q", id, *res.Reset)
		}
		if res.TrackActive == nil {
			return nil, invalid(class, "resource %s missing trackActive", id)
		}
		if res.MaxByLevel == nil {
			return nil, invalid(class, "resource %s missing maxByLevel", id)
		}

		table := make(map[int]int, len(res.MaxByLevel))
		for key, value := range res.MaxByLevel {
			level, err := parseLevelKey(key)
			if err != nil {
				return nil, invalid(class, "resource %s has invalid maxByLevel key %q", id, key)
			}
			if value == nil {
				return nil, invalid(class, "resource %s maxByLevel[%s] must be a number", id, key)
			}
			table[level] = *value
		}

		spec.Resources[id] = ResourceSpec{
			ID:          id,
			Label:       *res.Label,
			Reset:       reset,
			TrackActive: *res.TrackActive,
			MaxByLevel:  table,
		}
	}

	if r.Levels == nil {
		return nil, invalid(class, "missing levels")
	}
	for key, lvl := range r.Levels {
		level, err := parseLevelKey(key)
		if err != nil {
			return nil, invalid(class, "has invalid level key %q", key)
		}
		out := LevelSpec{}
		if lvl != nil {
			for i, f := range lvl.Features {
				if f == nil || f.Name == nil || *f.Name == "" {
					return nil, invalid(class, "level %d feature %d missing name", level, i)
				}
				if f.Description == nil {
					return nil, invalid(class, "level %d feature %s missing description", level, *f.Name)
				}
				feature := FeatureSpec{Name: *f.Name, Description: *f.Description}
				if f.Resource != nil {
					if _, ok := spec.Resources[*f.Resource]; !ok {
						return nil, invalid(class, "level %d feature %s references unknown resource %s", level, *f.Name, *f.Resource)
					}
					feature.Resource = *f.Resource
				}
				out.Features = append(out.Features, feature)
			}
			for i, s := range lvl.Spells {
				if s == nil || s.Name == nil || *s.Name == "" {
					return nil, invalid(class, "level %d spell %d missing name", level, i)
				}
				out.Spells = append(out.Spells, SpellGrant{Name: *s.Name})
			}
		}
		spec.Levels[level] = out
	}

	return spec, nil
}

func parseLevelKey(key string) (int, error) {
	level, err := strconv.Atoi(key)
	if err != nil {
		return 0, err
	}
	if level < 1 || level > MaxLevel {
		return 0, dnderr.InvalidArgumentf("level %d out of range", level)
	}
	return level, nil
}

// ResourceIDs returns the class's resource ids in sorted order
func (s *ClassProgressionSpec) ResourceIDs() []string {
	ids := make([]string, 0, len(s.Resources))
	for id := range s.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MaxForLevel returns the value at the highest key not above level, or 0
func MaxForLevel(table map[int]int, level int) int {
	best, value := 0, 0
	for key, v := range table {
		if key <= level && key > best {
			best, value = key, v
		}
	}
	return value
}
