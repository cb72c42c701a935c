package rulebook

import (
	"embed"
	"io/fs"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

//go:embed data
var defaultData embed.FS

const (
	classesDir   = "classes"
	referenceDir = "reference"
)

// HPMethod picks how level-up hit points are gained
type HPMethod string

const (
	HPMethodAverage HPMethod = "average"
	HPMethodRoll    HPMethod = "roll"
)

// HPChoice is the player's level-up hit point choice. With HPMethodRoll a
// positive Roll is used as the die result; zero means roll with the Roller.
type HPChoice struct {
	Method HPMethod `json:"method"`
	Roll   int      `json:"roll,omitempty"`
}

// ResourceAtLevel is a class resource with its max resolved for a class level
type ResourceAtLevel struct {
	ResourceSpec
	Max int
}

// Store is the read-only ruleset: class progressions plus reference tables.
// It is safe for concurrent use once built.
type Store struct {
	version int
	classes map[ClassType]*ClassProgressionSpec
	armor   map[string]ArmorSpec
	weapons map[string]WeaponSpec
	spells  map[string]SpellSpec
}

// NewStore builds a Store from already decoded data
func NewStore(progression *ClassProgressionFile, ref *Reference) (*Store, error) {
	if progression == nil || len(progression.Classes) == 0 {
		return nil, dnderr.Configuration("ruleset has no class progressions")
	}
	if ref == nil {
		ref = &Reference{}
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		version: progression.Version,
		classes: progression.Classes,
		armor:   make(map[string]ArmorSpec, len(ref.Armor)),
		weapons: make(map[string]WeaponSpec, len(ref.Weapons)),
		spells:  make(map[string]SpellSpec, len(ref.Spells)),
	}
	for _, a := range ref.Armor {
		s.armor[normalize(a.Name)] = a
	}
	for _, w := range ref.Weapons {
		s.weapons[normalize(w.Name)] = w
	}
	for _, sp := range ref.Spells {
		s.spells[normalize(sp.Name)] = sp
	}

	for class, spec := range s.classes {
		for level, lvl := range spec.Levels {
			for _, grant := range lvl.Spells {
				if _, ok := s.spells[normalize(grant.Name)]; !ok {
					return nil, dnderr.Configurationf("invalid class progression: class %s level %d grants unknown spell %s",
						class, level, grant.Name)
				}
			}
		}
	}

	return s, nil
}

// Load reads <root>/classes and <root>/reference from fsys
func Load(fsys fs.FS, root string) (*Store, error) {
	progression, err := LoadProgression(fsys, joinDir(root, classesDir))
	if err != nil {
		return nil, err
	}
	ref, err := LoadReference(fsys, joinDir(root, referenceDir))
	if err != nil {
		return nil, err
	}
	return NewStore(progression, ref)
}

// LoadDir loads a ruleset from a directory on disk
func LoadDir(dir string) (*Store, error) {
	log.Printf("Loading ruleset from %s", dir)
	return Load(os.DirFS(dir), ".")
}

// LoadDefault loads the ruleset compiled into the binary
func LoadDefault() (*Store, error) {
	return Load(defaultData, "data")
}

// MustLoadDefault loads the built-in ruleset and panics if it is malformed
func MustLoadDefault() *Store {
	s, err := LoadDefault()
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultData exposes the embedded ruleset files
func DefaultData() fs.FS {
	return defaultData
}

func joinDir(root, dir string) string {
	if root == "" || root == "." {
		return dir
	}
	return root + "/" + dir
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Version is the progression file version
func (s *Store) Version() int {
	return s.version
}

// Classes returns the loaded classes in alphabetical order
func (s *Store) Classes() []ClassType {
	out := make([]ClassType, 0, len(s.classes))
	for c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Class returns a class progression. A missing class is an internal invariant
// violation and reported as a not found error.
func (s *Store) Class(c ClassType) (*ClassProgressionSpec, error) {
	spec, ok := s.classes[c]
	if !ok {
		return nil, dnderr.NotFoundf("class progression for %q not loaded", c).WithMeta("class", string(c))
	}
	return spec, nil
}

// HitDie returns the class hit die size
func (s *Store) HitDie(c ClassType) (int, error) {
	spec, err := s.Class(c)
	if err != nil {
		return 0, err
	}
	return spec.HitDie, nil
}

// StartingHP is the hit die maximum plus Con when the class adds it, at least 1
func (s *Store) StartingHP(c ClassType, conMod int) (int, error) {
	spec, err := s.Class(c)
	if err != nil {
		return 0, err
	}
	hp := spec.HitDie
	if spec.HP.Starting.AddCon {
		hp += conMod
	}
	return max(hp, 1), nil
}

// AverageHPGain is floor(hitDie/2)
func (s *Store) AverageHPGain(c ClassType) (int, error) {
	spec, err := s.Class(c)
	if err != nil {
		return 0, err
	}
	return spec.HitDie / 2, nil
}

// HPGain computes level-up hit points: average or roll, plus Con when the
// class adds it, never below the class minimum.
func (s *Store) HPGain(c ClassType, conMod int, choice HPChoice, roller dice.Roller) (int, error) {
	spec, err := s.Class(c)
	if err != nil {
		return 0, err
	}

	var base int
	switch {
	case choice.Method == HPMethodRoll && choice.Roll > 0:
		base = min(choice.Roll, spec.HitDie)
	case choice.Method == HPMethodRoll:
		if roller == nil {
			return 0, dnderr.Internal("no dice roller configured for hit point roll")
		}
		result, err := roller.Roll(1, spec.HitDie, 0)
		if err != nil {
			return 0, dnderr.Wrap(err, "failed to roll hit points")
		}
		base = result.Total
	default:
		base = spec.HitDie / 2
	}

	gain := base
	if spec.HP.LevelUp.AddCon {
		gain += conMod
	}
	return max(gain, spec.HP.LevelUp.MinGain), nil
}

// ClassFeaturesForLevel returns the features granted at exactly classLevel
func (s *Store) ClassFeaturesForLevel(c ClassType, classLevel int) ([]FeatureSpec, error) {
	spec, err := s.Class(c)
	if err != nil {
		return nil, err
	}
	features := spec.Levels[classLevel].Features
	out := make([]FeatureSpec, len(features))
	copy(out, features)
	return out, nil
}

// SpellGrantsForLevel returns the spells granted at exactly classLevel
func (s *Store) SpellGrantsForLevel(c ClassType, classLevel int) ([]SpellSpec, error) {
	spec, err := s.Class(c)
	if err != nil {
		return nil, err
	}
	var out []SpellSpec
	for _, grant := range spec.Levels[classLevel].Spells {
		sp, ok := s.spells[normalize(grant.Name)]
		if !ok {
			return nil, dnderr.NotFoundf("spell %s not in reference table", grant.Name)
		}
		out = append(out, sp)
	}
	return out, nil
}

// ResourcesForClassAtLevel returns the class pools with a positive max at classLevel, sorted by id
func (s *Store) ResourcesForClassAtLevel(c ClassType, classLevel int) ([]ResourceAtLevel, error) {
	spec, err := s.Class(c)
	if err != nil {
		return nil, err
	}
	var out []ResourceAtLevel
	for _, id := range spec.ResourceIDs() {
		res := spec.Resources[id]
		if m := MaxForLevel(res.MaxByLevel, classLevel); m > 0 {
			out = append(out, ResourceAtLevel{ResourceSpec: res, Max: m})
		}
	}
	return out, nil
}

// MaxUses returns a pool's max at classLevel. Unknown resources have 0 uses.
func (s *Store) MaxUses(resourceID string, c ClassType, classLevel int) (int, error) {
	spec, err := s.Class(c)
	if err != nil {
		return 0, err
	}
	res, ok := spec.Resources[resourceID]
	if !ok {
		return 0, nil
	}
	return MaxForLevel(res.MaxByLevel, classLevel), nil
}

// Armor looks up an armor row by name
func (s *Store) Armor(name string) (ArmorSpec, bool) {
	a, ok := s.armor[normalize(name)]
	return a, ok
}

// Weapon looks up a weapon row by name
func (s *Store) Weapon(name string) (WeaponSpec, bool) {
	w, ok := s.weapons[normalize(name)]
	return w, ok
}

// Spell looks up a spell by name
func (s *Store) Spell(name string) (SpellSpec, bool) {
	sp, ok := s.spells[normalize(name)]
	return sp, ok
}

// SpellsForClass returns the class spell list sorted by level then name
func (s *Store) SpellsForClass(c ClassType) []SpellSpec {
	var out []SpellSpec
	for _, sp := range s.spells {
		for _, class := range sp.Classes {
			if class == c {
				out = append(out, sp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Weapons returns every weapon row sorted by name
func (s *Store) Weapons() []WeaponSpec {
	out := make([]WeaponSpec, 0, len(s.weapons))
	for _, w := range s.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
