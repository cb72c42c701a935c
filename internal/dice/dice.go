package dice

import (
	"fmt"
	"strconv"
	"strings"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// RollResult is the outcome of rolling Count dice with Sides faces plus Bonus
type RollResult struct {
	Total    int   `json:"total"`
	Rolls    []int `json:"rolls"`
	Bonus    int   `json:"bonus"`
	Count    int   `json:"count"`
	Sides    int   `json:"sides"`
	RawTotal int   `json:"raw_total"`
}

// Notation is a parsed dice expression such as 2d6+3
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// ParseNotation parses "NdS", "NdS+B" and "NdS-B". A missing count means 1.
func ParseNotation(expr string) (Notation, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Notation{}, dnderr.InvalidArgument("empty dice expression")
	}

	bonus := 0
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		b, err := strconv.Atoi(s[i:])
		if err != nil {
			return Notation{}, dnderr.InvalidArgumentf("invalid dice bonus in %q", expr)
		}
		bonus = b
		s = s[:i]
	}

	parts := strings.Split(s, "d")
	if len(parts) != 2 {
		return Notation{}, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
	}

	count := 1
	if parts[0] != "" {
		c, err := strconv.Atoi(parts[0])
		if err != nil {
			return Notation{}, dnderr.InvalidArgumentf("invalid dice count in %q", expr)
		}
		count = c
	}

	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return Notation{}, dnderr.InvalidArgumentf("invalid dice sides in %q", expr)
	}

	if count < 1 || sides < 1 {
		return Notation{}, dnderr.InvalidArgumentf("dice count and sides must be positive in %q", expr)
	}

	return Notation{Count: count, Sides: sides, Bonus: bonus}, nil
}

func (n Notation) String() string {
	switch {
	case n.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", n.Count, n.Sides, n.Bonus)
	case n.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", n.Count, n.Sides, n.Bonus)
	default:
		return fmt.Sprintf("%dd%d", n.Count, n.Sides)
	}
}

// RollNotation rolls a parsed expression with the given roller
func RollNotation(r Roller, expr string) (*RollResult, error) {
	n, err := ParseNotation(expr)
	if err != nil {
		return nil, err
	}
	return r.Roll(n.Count, n.Sides, n.Bonus)
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	if r.Bonus != 0 {
		return fmt.Sprintf("**%d** : %s %+d", r.Total, compact, r.Bonus)
	}
	return fmt.Sprintf("**%d** : %s", r.Total, compact)
}
