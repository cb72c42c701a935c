package rulebook

import "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"

// CasterProgression says how a class contributes to spell slots
type CasterProgression string

const (
	CasterNone CasterProgression = ""
	CasterFull CasterProgression = "full"
	CasterHalf CasterProgression = "half"
	CasterPact CasterProgression = "pact"
)

// AbilityRequirement is a minimum final score for one ability
type AbilityRequirement struct {
	Ability shared.Attribute
	Minimum int
}

// ActiveDamageBonus is a damage bonus that applies while a tracked pool is active,
// e.g. Rage. Only Strength-based attacks get it.
type ActiveDamageBonus struct {
	Resource string
	Label    string
	ByLevel  map[int]int
}

// ClassTraits is the per-class behavior the engine consults instead of
// switching on class names.
type ClassTraits struct {
	SavingThrows []shared.Attribute

	// MulticlassPrerequisites is satisfied when every requirement of any one group is met
	MulticlassPrerequisites [][]AbilityRequirement
	MulticlassProficiencies []string

	FightingStyleAtFirstLevel bool
	ExpertiseAtFirstLevel     bool

	// UnarmoredDefense is the ability added to 10 + Dex when no body armor is worn
	UnarmoredDefense shared.Attribute

	SpellcastingAbility shared.Attribute
	Caster              CasterProgression
	PreparesSpells      bool
	// PreparedFromLevel is the first class level with prepared spells
	PreparedFromLevel int

	ActiveDamageBonus *ActiveDamageBonus

	SneakAttack        bool
	CunningActionLevel int
	LayOnHands         bool
}

var rageDamage = &ActiveDamageBonus{
	Resource: "rage",
	Label:    "rage",
	ByLevel:  map[int]int{1: 2, 9: 3, 16: 4},
}

func single(attr shared.Attribute) [][]AbilityRequirement {
	return [][]AbilityRequirement{{{Ability: attr, Minimum: 13}}}
}

func both(a, b shared.Attribute) [][]AbilityRequirement {
	return [][]AbilityRequirement{{{Ability: a, Minimum: 13}, {Ability: b, Minimum: 13}}}
}

var classTraits = map[ClassType]ClassTraits{
	ClassBarbarian: {
		SavingThrows:            []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
		MulticlassPrerequisites: single(shared.AttributeStrength),
		MulticlassProficiencies: []string{"Shields", "Martial Weapons"},
		UnarmoredDefense:        shared.AttributeConstitution,
		ActiveDamageBonus:       rageDamage,
	},
	ClassBard: {
		SavingThrows:            []shared.Attribute{shared.AttributeDexterity, shared.AttributeCharisma},
		MulticlassPrerequisites: single(shared.AttributeCharisma),
		MulticlassProficiencies: []string{"Light Armor"},
		SpellcastingAbility:     shared.AttributeCharisma,
		Caster:                  CasterFull,
	},
	ClassCleric: {
		SavingThrows:            []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
		MulticlassPrerequisites: single(shared.AttributeWisdom),
		MulticlassProficiencies: []string{"Light Armor", "Medium Armor", "Shields"},
		SpellcastingAbility:     shared.AttributeWisdom,
		Caster:                  CasterFull,
		PreparesSpells:          true,
		PreparedFromLevel:       1,
	},
	ClassDruid: {
		SavingThrows:            []shared.Attribute{shared.AttributeIntelligence, shared.AttributeWisdom},
		MulticlassPrerequisites: single(shared.AttributeWisdom),
		MulticlassProficiencies: []string{"Light Armor", "Shields"},
		SpellcastingAbility:     shared.AttributeWisdom,
		Caster:                  CasterFull,
		PreparesSpells:          true,
		PreparedFromLevel:       1,
	},
	ClassFighter: {
		SavingThrows: []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
		MulticlassPrerequisites: [][]AbilityRequirement{
			{{Ability: shared.AttributeStrength, Minimum: 13}},
			{{Ability: shared.AttributeDexterity, Minimum: 13}},
		},
		MulticlassProficiencies:   []string{"Light Armor", "Medium Armor", "Martial Weapons", "Shields"},
		FightingStyleAtFirstLevel: true,
	},
	ClassMonk: {
		SavingThrows:            []shared.Attribute{shared.AttributeStrength, shared.AttributeDexterity},
		MulticlassPrerequisites: both(shared.AttributeDexterity, shared.AttributeWisdom),
		UnarmoredDefense:        shared.AttributeWisdom,
	},
	ClassPaladin: {
		SavingThrows:              []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
		MulticlassPrerequisites:   both(shared.AttributeStrength, shared.AttributeCharisma),
		MulticlassProficiencies:   []string{"Light Armor", "Medium Armor", "Martial Weapons", "Shields"},
		FightingStyleAtFirstLevel: true,
		SpellcastingAbility:       shared.AttributeCharisma,
		Caster:                    CasterHalf,
		PreparesSpells:            true,
		PreparedFromLevel:         2,
		LayOnHands:                true,
	},
	ClassRanger: {
		SavingThrows:            []shared.Attribute{shared.AttributeStrength, shared.AttributeDexterity},
		MulticlassPrerequisites: both(shared.AttributeDexterity, shared.AttributeWisdom),
		MulticlassProficiencies: []string{"Light Armor", "Medium Armor", "Martial Weapons", "Shields"},
		SpellcastingAbility:     shared.AttributeWisdom,
		Caster:                  CasterHalf,
	},
	ClassRogue: {
		SavingThrows:            []shared.Attribute{shared.AttributeDexterity, shared.AttributeIntelligence},
		MulticlassPrerequisites: single(shared.AttributeDexterity),
		MulticlassProficiencies: []string{"Light Armor", "Thieves' Tools"},
		ExpertiseAtFirstLevel:   true,
		SneakAttack:             true,
		CunningActionLevel:      2,
	},
	ClassSorcerer: {
		SavingThrows:            []shared.Attribute{shared.AttributeConstitution, shared.AttributeCharisma},
		MulticlassPrerequisites: single(shared.AttributeCharisma),
		SpellcastingAbility:     shared.AttributeCharisma,
		Caster:                  CasterFull,
	},
	ClassWarlock: {
		SavingThrows:            []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
		MulticlassPrerequisites: single(shared.AttributeCharisma),
		MulticlassProficiencies: []string{"Light Armor"},
		SpellcastingAbility:     shared.AttributeCharisma,
		Caster:                  CasterPact,
	},
	ClassWizard: {
		SavingThrows:            []shared.Attribute{shared.AttributeIntelligence, shared.AttributeWisdom},
		MulticlassPrerequisites: single(shared.AttributeIntelligence),
		SpellcastingAbility:     shared.AttributeIntelligence,
		Caster:                  CasterFull,
		PreparesSpells:          true,
		PreparedFromLevel:       1,
	},
}

// Traits returns the class's traits; the zero value for unknown classes
func (c ClassType) Traits() ClassTraits {
	return classTraits[c]
}

// MeetsMulticlassPrerequisites checks the class's ability minimums against score
func MeetsMulticlassPrerequisites(c ClassType, score func(shared.Attribute) int) bool {
	groups := c.Traits().MulticlassPrerequisites
	if len(groups) == 0 {
		return true
	}
	for _, group := range groups {
		ok := true
		for _, req := range group {
			if score(req.Ability) < req.Minimum {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// ActiveBonusForLevel returns the bonus at classLevel, 0 when b is nil
func (b *ActiveDamageBonus) ActiveBonusForLevel(classLevel int) int {
	if b == nil {
		return 0
	}
	return MaxForLevel(b.ByLevel, classLevel)
}
