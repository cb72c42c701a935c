package rulebook_test

import (
	"testing"
	"testing/fstest"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFighter = `{
  "hitDie": 10,
  "hp": {
    "starting": {"base": "maxHitDie", "addCon": true},
    "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}
  },
  "resources": {
    "secondWind": {"label": "Second Wind", "reset": "shortRest", "trackActive": false, "maxByLevel": {"1": 2, "4": 3}}
  },
  "levels": {
    "1": {"features": [{"name": "Second Wind", "description": "Heal yourself.", "resource": "secondWind"}]},
    "2": {}
  }
}`

func TestDecodeClassSpecValid(t *testing.T) {
	spec, err := rulebook.DecodeClassSpec(rulebook.ClassFighter, []byte(validFighter), false)
	require.NoError(t, err)

	assert.Equal(t, 10, spec.HitDie)
	assert.True(t, spec.HP.Starting.AddCon)
	assert.Equal(t, 1, spec.HP.LevelUp.MinGain)
	require.Contains(t, spec.Resources, "secondWind")
	assert.Equal(t, shared.ResetShortRest, spec.Resources["secondWind"].Reset)
	assert.Equal(t, map[int]int{1: 2, 4: 3}, spec.Resources["secondWind"].MaxByLevel)
	require.Len(t, spec.Levels[1].Features, 1)
	assert.Equal(t, "secondWind", spec.Levels[1].Features[0].Resource)
	assert.Empty(t, spec.Levels[2].Features)
}

func TestDecodeClassSpecRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name:    "missing hit die",
			data:    `{"hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "levels": {}}`,
			wantMsg: "invalid class progression: class Fighter missing hitDie",
		},
		{
			name:    "wrong starting base",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "rolled", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "levels": {}}`,
			wantMsg: "hp.starting.base",
		},
		{
			name:    "missing addCon",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie"}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "levels": {}}`,
			wantMsg: "missing hp.starting.addCon",
		},
		{
			name:    "missing min gain",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true}}, "levels": {}}`,
			wantMsg: "missing hp.levelUp.minGain",
		},
		{
			name:    "missing levels",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}}`,
			wantMsg: "missing levels",
		},
		{
			name:    "non numeric max",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "resources": {"x": {"label": "X", "reset": "longRest", "trackActive": false, "maxByLevel": {"1": "two"}}}, "levels": {}}`,
			wantMsg: "could not be decoded",
		},
		{
			name:    "bad reset cadence",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "resources": {"x": {"label": "X", "reset": "weekly", "trackActive": false, "maxByLevel": {"1": 1}}}, "levels": {}}`,
			wantMsg: "invalid reset",
		},
		{
			name:    "level key out of range",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "levels": {"21": {}}}`,
			wantMsg: "invalid level key",
		},
		{
			name:    "unknown feature resource",
			data:    `{"hitDie": 10, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "levels": {"1": {"features": [{"name": "Rage", "description": "x", "resource": "rage"}]}}}`,
			wantMsg: "unknown resource rage",
		},
		{
			name:    "unknown field",
			data:    `{"hitDie": 10, "hitdice": 3, "hp": {"starting": {"base": "maxHitDie", "addCon": true}, "levelUp": {"average": "halfHitDieFloor", "addCon": true, "minGain": 1}}, "levels": {}}`,
			wantMsg: "could not be decoded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rulebook.DecodeClassSpec(rulebook.ClassFighter, []byte(tt.data), false)
			require.Error(t, err)
			assert.True(t, dnderr.IsConfiguration(err), "expected configuration error, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDecodeClassSpecYAML(t *testing.T) {
	data := `
hitDie: 12
hp:
  starting: {base: maxHitDie, addCon: true}
  levelUp: {average: halfHitDieFloor, addCon: true, minGain: 1}
resources:
  rage:
    label: Rage
    reset: longRest
    trackActive: true
    maxByLevel: {1: 2, 3: 3}
levels:
  1:
    features:
      - name: Rage
        description: Get angry.
        resource: rage
`
	spec, err := rulebook.DecodeClassSpec(rulebook.ClassBarbarian, []byte(data), true)
	require.NoError(t, err)
	assert.Equal(t, 12, spec.HitDie)
	assert.True(t, spec.Resources["rage"].TrackActive)
	assert.Equal(t, 3, rulebook.MaxForLevel(spec.Resources["rage"].MaxByLevel, 5))
}

func TestLoadProgressionFromDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"classes/Fighter.json": {Data: []byte(validFighter)},
		"classes/README.md":    {Data: []byte("ignored")},
	}

	file, err := rulebook.LoadProgression(fsys, "classes")
	require.NoError(t, err)
	assert.Equal(t, 1, file.Version)
	assert.Contains(t, file.Classes, rulebook.ClassFighter)
}

func TestLoadProgressionRejectsUnknownClassFile(t *testing.T) {
	fsys := fstest.MapFS{
		"classes/Artificer.json": {Data: []byte(validFighter)},
	}

	_, err := rulebook.LoadProgression(fsys, "classes")
	require.Error(t, err)
	assert.True(t, dnderr.IsConfiguration(err))
}

func TestLoadProgressionEmptyDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"classes/notes.txt": {Data: []byte("nothing")},
	}

	_, err := rulebook.LoadProgression(fsys, "classes")
	require.Error(t, err)
	assert.True(t, dnderr.IsConfiguration(err))
}

func TestMaxForLevel(t *testing.T) {
	table := map[int]int{1: 2, 3: 3, 6: 4, 12: 5, 17: 6}

	assert.Equal(t, 0, rulebook.MaxForLevel(table, 0))
	assert.Equal(t, 2, rulebook.MaxForLevel(table, 1))
	assert.Equal(t, 2, rulebook.MaxForLevel(table, 2))
	assert.Equal(t, 4, rulebook.MaxForLevel(table, 11))
	assert.Equal(t, 6, rulebook.MaxForLevel(table, 20))
	assert.Equal(t, 0, rulebook.MaxForLevel(map[int]int{2: 1}, 1))
	assert.Equal(t, 0, rulebook.MaxForLevel(nil, 5))
}
