package dice

import (
	"math/rand"
	"sync"
	"time"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// randomRoller implements Roller with math/rand
type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a roller seeded from the clock
func NewRandomRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller with a fixed seed
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, dnderr.InvalidArgumentf("invalid dice count %d", count)
	}
	if sides < 1 {
		return nil, dnderr.InvalidArgumentf("invalid dice sides %d", sides)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rolls := make([]int, count)
	raw := 0
	for i := range rolls {
		rolls[i] = r.rng.Intn(sides) + 1
		raw += rolls[i]
	}

	return &RollResult{
		Total:    raw + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: raw,
	}, nil
}
