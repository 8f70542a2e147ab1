package main

import "time"

// defaultSeed produces a time-based seed, used whenever a caller passes 0
// to request non-reproducible randomness (squava's "seed 0 = time-based"
// convention in main_cli.go).
func defaultSeed() int64 {
	return time.Now().UnixNano()
}
