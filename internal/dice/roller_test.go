package dice_test

import (
	"testing"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-sheet-engine/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    dice.Notation
		wantErr bool
	}{
		{name: "plain", expr: "2d6", want: dice.Notation{Count: 2, Sides: 6}},
		{name: "bonus", expr: "1d8+3", want: dice.Notation{Count: 1, Sides: 8, Bonus: 3}},
		{name: "penalty", expr: "1d20-1", want: dice.Notation{Count: 1, Sides: 20, Bonus: -1}},
		{name: "implicit count", expr: "d12", want: dice.Notation{Count: 1, Sides: 12}},
		{name: "spaces and case", expr: " 3D4 + 2 ", want: dice.Notation{Count: 3, Sides: 4, Bonus: 2}},
		{name: "empty", expr: "", wantErr: true},
		{name: "no d", expr: "12", wantErr: true},
		{name: "zero sides", expr: "1d0", wantErr: true},
		{name: "bad bonus", expr: "1d6+x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dice.ParseNotation(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotationString(t *testing.T) {
	assert.Equal(t, "2d6", dice.Notation{Count: 2, Sides: 6}.String())
	assert.Equal(t, "1d8+3", dice.Notation{Count: 1, Sides: 8, Bonus: 3}.String())
	assert.Equal(t, "1d20-1", dice.Notation{Count: 1, Sides: 20, Bonus: -1}.String())
}

func TestSeededRollerStaysInRange(t *testing.T) {
	roller := dice.NewSeededRoller(42)

	for i := 0; i < 200; i++ {
		result, err := roller.Roll(3, 6, 2)
		require.NoError(t, err)
		require.Len(t, result.Rolls, 3)
		for _, r := range result.Rolls {
			assert.GreaterOrEqual(t, r, 1)
			assert.LessOrEqual(t, r, 6)
		}
		assert.Equal(t, result.RawTotal+2, result.Total)
	}
}

func TestRandomRollerRejectsBadInput(t *testing.T) {
	roller := dice.NewRandomRoller()

	_, err := roller.Roll(0, 6, 0)
	assert.Error(t, err)

	_, err = roller.Roll(1, 0, 0)
	assert.Error(t, err)
}

func TestRollNotationUsesRoller(t *testing.T) {
	ctrl := gomock.NewController(t)
	roller := mockdice.NewMockRoller(ctrl)

	roller.EXPECT().Roll(2, 6, 3).Return(&dice.RollResult{Total: 10, Rolls: []int{3, 4}, Bonus: 3, Count: 2, Sides: 6, RawTotal: 7}, nil)

	result, err := dice.RollNotation(roller, "2d6+3")
	require.NoError(t, err)
	assert.Equal(t, 10, result.Total)
}
