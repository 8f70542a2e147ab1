package main

import "math/rand"

// Bag is the 7-bag randomizer (spec section 4.3): it consumes piece names
// from the front of an internal queue and refills with a uniformly random
// permutation of all seven names whenever the queue empties.
//
// squava seeds a single package-level generator once at startup
// (xorState / rand.Seed in main_cli.go) rather than threading a *rand.Rand
// everywhere; Bag follows the same shape but keeps its own generator so a
// game session is reproducible independent of any other random draw the
// process makes (garbage-hole columns use a separate Board.InjectGarbage
// call with their own *rand.Rand for the same reason).
type Bag struct {
	rng   *rand.Rand
	queue []PieceName
}

// NewBag returns a bag seeded from seed. A seed of 0 is time-based,
// mirroring squava's "Random seed (0 for time-based)" CLI convention.
func NewBag(seed int64) *Bag {
	if seed == 0 {
		seed = defaultSeed()
	}
	return &Bag{rng: rand.New(rand.NewSource(seed))}
}

func (b *Bag) refill() {
	perm := b.rng.Perm(numPieces)
	b.queue = b.queue[:0]
	for _, i := range perm {
		b.queue = append(b.queue, PieceName(i))
	}
}

// Next pops and returns the front piece, refilling first if the queue is
// empty.
func (b *Bag) Next() PieceName {
	if len(b.queue) == 0 {
		b.refill()
	}
	p := b.queue[0]
	b.queue = b.queue[1:]
	return p
}

// Peek returns the piece Next would return, without consuming it. Used to
// compute the "next piece" preview (spec section 4.11).
func (b *Bag) Peek() PieceName {
	if len(b.queue) == 0 {
		b.refill()
	}
	return b.queue[0]
}
