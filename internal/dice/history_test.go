package dice_test

import (
	"fmt"
	"testing"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-sheet-engine/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHistoryNewestFirstAndCapped(t *testing.T) {
	history := dice.NewHistory()

	for i := 1; i <= dice.MaxHistory+5; i++ {
		history.Add(fmt.Sprintf("roll %d", i), &dice.RollResult{Total: i})
	}

	entries := history.Entries()
	require.Len(t, entries, dice.MaxHistory)
	assert.Equal(t, "roll 55", entries[0].Label)
	assert.Equal(t, "roll 6", entries[len(entries)-1].Label)
}

func TestHistoryIgnoresNilAndClears(t *testing.T) {
	history := dice.NewHistory()
	history.Add("nothing", nil)
	assert.Empty(t, history.Entries())

	history.Add("d20", &dice.RollResult{Total: 12})
	assert.Len(t, history.Entries(), 1)

	history.Clear()
	assert.Empty(t, history.Entries())
}

func TestHistoryEntriesForOwner(t *testing.T) {
	history := dice.NewHistory()
	history.AddFor("user-1", "first", &dice.RollResult{Total: 1})
	history.AddFor("user-2", "other", &dice.RollResult{Total: 2})
	history.AddFor("user-1", "second", &dice.RollResult{Total: 3})
	history.AddFor("user-1", "third", &dice.RollResult{Total: 4})
	history.Add("unowned", &dice.RollResult{Total: 5})

	entries := history.EntriesFor("user-1", 2)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Label)
	assert.Equal(t, "second", entries[1].Label)
	assert.Equal(t, "user-1", entries[0].Owner)

	assert.Len(t, history.EntriesFor("user-1", 0), 3)
	assert.Empty(t, history.EntriesFor("user-3", 5))
	assert.Len(t, history.Entries(), 5)
}

func TestRecordingRoller(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mockdice.NewMockRoller(ctrl)
	history := dice.NewHistory()

	inner.EXPECT().Roll(1, 10, 0).Return(&dice.RollResult{Total: 7, Rolls: []int{7}, Count: 1, Sides: 10, RawTotal: 7}, nil)
	inner.EXPECT().Roll(1, 10, 0).Return(nil, fmt.Errorf("no dice"))

	roller := dice.NewRecordingRoller(inner, history, "hit points")

	result, err := roller.Roll(1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Total)

	_, err = roller.Roll(1, 10, 0)
	assert.Error(t, err)

	entries := history.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "hit points", entries[0].Label)
}
