// Package actions keeps the engine-owned part of a character's action list in
// sync with the rest of the sheet.
package actions

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e/calculators"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/uuid"
)

const (
	UnarmedStrikeName = "Unarmed Strike"
	SneakAttackName   = "Sneak Attack"
	LayOnHandsName    = "Lay on Hands"
	cunningPrefix     = "Cunning Action: "
	castPrefix        = "Cast: "
)

var cunningActions = []struct {
	name, description string
}{
	{"Dash", "Take the Dash action as a bonus action."},
	{"Disengage", "Take the Disengage action as a bonus action."},
	{"Hide", "Take the Hide action as a bonus action."},
}

// Synthesizer regenerates engine-owned actions: unarmed strike, equipped
// weapon attacks, class actions and prepared spells.
type Synthesizer struct {
	store *rulebook.Store
	ids   uuid.Generator
}

// SynthesizerConfig holds the synthesizer's dependencies
type SynthesizerConfig struct {
	Store       *rulebook.Store // Required
	IDGenerator uuid.Generator  // Optional, random UUIDs when nil
}

// NewSynthesizer creates a Synthesizer
func NewSynthesizer(cfg *SynthesizerConfig) *Synthesizer {
	if cfg == nil || cfg.Store == nil {
		panic("rulebook store is required")
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}
	return &Synthesizer{store: cfg.Store, ids: ids}
}

// Reconcile brings the engine-owned actions in line with the sheet. Actions
// the user owns are never touched, and an expected action whose name matches
// one of them is not generated. Engine-owned actions that are still expected
// are updated in place and keep their id; the rest are removed. Calling
// Reconcile while it is already running on the same character does nothing.
func (s *Synthesizer) Reconcile(c *character.Character) {
	if !c.Enter(character.PhaseSynthesis) {
		return
	}
	defer c.Leave(character.PhaseSynthesis)

	manual := make(map[string]bool)
	for _, a := range c.Actions {
		if !a.IsEngineOwned() {
			manual[key(a.Name)] = true
		}
	}

	fresh := make(map[string]*character.Action)
	var order []string
	for _, a := range s.Expected(c) {
		k := key(a.Name)
		if manual[k] || fresh[k] != nil {
			continue
		}
		fresh[k] = a
		order = append(order, k)
	}

	placed := make(map[string]bool, len(fresh))
	kept := make([]*character.Action, 0, len(c.Actions)+len(fresh))
	for _, a := range c.Actions {
		if !a.IsEngineOwned() {
			kept = append(kept, a)
			continue
		}
		k := key(a.Name)
		next, ok := fresh[k]
		if !ok || placed[k] {
			continue
		}
		next.ID = a.ID
		*a = *next
		placed[k] = true
		kept = append(kept, a)
	}

	for _, k := range order {
		if placed[k] {
			continue
		}
		a := fresh[k]
		a.ID = s.ids.New()
		kept = append(kept, a)
	}
	c.Actions = kept
}

// ConvertToManual hands an engine-owned action to the user. It is never
// regenerated or removed by Reconcile afterwards.
func (s *Synthesizer) ConvertToManual(c *character.Character, id string) bool {
	return c.ConvertActionToManual(id)
}

// Expected computes the engine-owned actions the sheet should have right now.
// Returned actions have no id.
func (s *Synthesizer) Expected(c *character.Character) []*character.Action {
	strMod := abilityMod(c, shared.AttributeStrength)
	dexMod := abilityMod(c, shared.AttributeDexterity)
	prof := calculators.ProficiencyBonus(c.TotalLevel())
	bonus, label := activeBonus(c)

	unarmed := calculators.UnarmedStrike(strMod, prof, bonus, label)
	out := []*character.Action{{
		Name:          UnarmedStrikeName,
		Type:          character.ActionTypeMelee,
		Range:         "5 ft.",
		ToHit:         unarmed.ToHitString(),
		Damage:        unarmed.Damage,
		Description:   "A punch, kick or head-butt.",
		IsBasicAttack: true,
	}}

	out = append(out, s.weaponActions(c, strMod, dexMod, prof, bonus, label)...)
	out = append(out, classActions(c)...)
	out = append(out, s.spellActions(c, prof)...)
	return out
}

func (s *Synthesizer) weaponActions(c *character.Character, strMod, dexMod, prof, bonus int, label string) []*character.Action {
	var weapons []rulebook.WeaponSpec
	for _, item := range c.EquippedItems() {
		if w, ok := s.store.Weapon(item.Name); ok {
			weapons = append(weapons, w)
		}
	}

	out := make([]*character.Action, 0, len(weapons))
	for _, w := range weapons {
		result := calculators.WeaponAttack(calculators.AttackInput{
			Weapon:              w,
			StrMod:              strMod,
			DexMod:              dexMod,
			ProficiencyBonus:    prof,
			FightingStyles:      c.FightingStyles,
			ActiveBonus:         bonus,
			ActiveBonusLabel:    label,
			OtherWeaponEquipped: len(weapons) > 1,
			Mastered:            c.HasWeaponMastery(w.Name),
		})
		actionType := character.ActionTypeMelee
		if w.Ranged {
			actionType = character.ActionTypeRanged
		}
		out = append(out, &character.Action{
			Name:          w.Name,
			Type:          actionType,
			Range:         w.Range,
			ToHit:         result.ToHitString(),
			Damage:        result.Damage,
			Description:   result.Description(),
			IsBasicAttack: true,
		})
	}
	return out
}

func classActions(c *character.Character) []*character.Action {
	var out []*character.Action
	for _, entry := range c.Classes {
		traits := entry.ClassType.Traits()

		if traits.SneakAttack {
			out = append(out, &character.Action{
				Name:          SneakAttackName,
				Type:          character.ActionTypeSpecial,
				Range:         "-",
				Damage:        fmt.Sprintf("%dd6", calculators.SneakAttackDice(entry.Level)),
				Description:   "Once per turn, add to one finesse or ranged weapon hit when you have advantage or an ally is next to the target.",
				IsBasicAttack: true,
			})
		}

		if traits.CunningActionLevel > 0 && entry.Level >= traits.CunningActionLevel {
			for _, ca := range cunningActions {
				out = append(out, &character.Action{
					Name:          cunningPrefix + ca.name,
					Type:          character.ActionTypeBonus,
					Range:         "Self",
					Description:   ca.description,
					IsBasicAttack: true,
					IsBonusAction: true,
				})
			}
		}

		if traits.LayOnHands {
			desc := fmt.Sprintf("Touch a creature to restore hit points from a pool of %d.", 5*entry.Level)
			if pool := c.Resource("layOnHands"); pool != nil {
				desc = fmt.Sprintf("Touch a creature to restore hit points from your pool (%d of %d remaining).", pool.Current, pool.Max)
			}
			out = append(out, &character.Action{
				Name:          LayOnHandsName,
				Type:          character.ActionTypeAction,
				Range:         "Touch",
				Description:   desc,
				IsBasicAttack: true,
			})
		}
	}
	return out
}

func (s *Synthesizer) spellActions(c *character.Character, prof int) []*character.Action {
	var out []*character.Action
	for _, sp := range c.PreparedSpells() {
		a := &character.Action{
			Name:          castPrefix + sp.Name,
			Type:          character.ActionTypeSpell,
			Range:         sp.Range,
			Description:   sp.Description,
			IsBasicAttack: true,
		}
		if sp.CastingTime != "" && strings.Contains(strings.ToLower(sp.CastingTime), "bonus") {
			a.IsBonusAction = true
		}
		if sp.Attack {
			if attr, ok := castingAbility(c, sp); ok {
				a.ToHit = calculators.FormatModifier(calculators.SpellAttackBonus(prof, abilityMod(c, attr)))
			}
		}
		out = append(out, a)
	}
	return out
}

// castingAbility picks the granting class's ability, else the best among the
// character's casting classes.
func castingAbility(c *character.Character, sp *character.Spell) (shared.Attribute, bool) {
	if ct, ok := rulebook.ParseClassType(sp.Source); ok {
		if attr := ct.Traits().SpellcastingAbility; attr != "" {
			return attr, true
		}
	}
	var best shared.Attribute
	for _, entry := range c.Classes {
		attr := entry.ClassType.Traits().SpellcastingAbility
		if attr == "" {
			continue
		}
		if best == "" || abilityMod(c, attr) > abilityMod(c, best) {
			best = attr
		}
	}
	return best, best != ""
}

// activeBonus returns the damage bonus of any active tracked pool, e.g. Rage
func activeBonus(c *character.Character) (int, string) {
	for _, entry := range c.Classes {
		b := entry.ClassType.Traits().ActiveDamageBonus
		if b == nil {
			continue
		}
		if pool := c.Resource(b.Resource); pool != nil && pool.Active {
			return b.ActiveBonusForLevel(entry.Level), b.Label
		}
	}
	return 0, ""
}

func abilityMod(c *character.Character, attr shared.Attribute) int {
	score := c.Ability(attr)
	return calculators.AbilityModifier(score.Score, score.CustomModifier)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
