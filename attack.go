package main

import "math"

// tSpinMiniTable, tSpinFullTable, allSpinMiniTable and plainTable map cleared-line count (1-indexed) to base
// garbage, per spec section 4.6 steps 3-5. Index 0 is unused (cleared=0
// returns 0 before the table is consulted).
var tSpinMiniTable = [5]int{0, 0, 1, 2, 0}
var tSpinFullTable = [5]int{0, 2, 4, 6, 0}
var allSpinMiniTable = [5]int{0, 0, 1, 2, 4}
var plainTable = [5]int{0, 0, 1, 2, 4}

// AttackOutgoing computes the outgoing garbage line count for a lock,
// given its classification and the KO multiplier, per spec section 4.6.
func AttackOutgoing(res LockResult, koCount int) int {
	if res.Cleared == 0 {
		return 0
	}

	var base int
	switch {
	case res.PerfectClear:
		base = 10
	case res.Kind == ClearTSpin && res.Mini:
		base = lookup(tSpinMiniTable, res.Cleared)
	case res.Kind == ClearTSpin:
		base = lookup(tSpinFullTable, res.Cleared)
	case res.Kind == ClearAllSpin:
		base = lookup(allSpinMiniTable, res.Cleared)
	default:
		base = lookup(plainTable, res.Cleared)
	}

	if res.B2BActive && base > 0 {
		base++
	}

	if base == 0 {
		return 0
	}

	multiplier := 1.0 + 0.2*float64(koCount)
	final := int(math.Floor(float64(base) * multiplier))
	if final < 1 {
		final = 1
	}
	return final
}

func lookup(table [5]int, cleared int) int {
	if cleared < 1 || cleared > 4 {
		return 0
	}
	return table[cleared]
}
