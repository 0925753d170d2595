package simulator

import "math/rand"

// probabilityScale is the denominator of every Chance argument: 2500 means 25%.
const probabilityScale = 10000

// Dice is the single random stream of a match. Every probabilistic decision
// draws from it in a fixed order, so a seed replays a match exactly.
type Dice struct {
	rng *rand.Rand
}

func NewDice(seed int64) *Dice {
	return &Dice{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform integer in [0, n). n <= 0 yields 0 without
// consuming the stream.
func (d *Dice) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return d.rng.Intn(n)
}

// Chance succeeds with probability p/10000. p <= 0 never succeeds and
// p >= 10000 always does, but both still consume one draw.
func (d *Dice) Chance(p int) bool {
	return d.rng.Intn(probabilityScale) < p
}
