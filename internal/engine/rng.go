package engine

import "math/rand"

// Random-number generation is the only process-wide state in the
// engine (spec.md §9 "Global process state"); it is re-seeded on every
// Reset that requests it, giving bit-reproducible runs for a fixed
// seed and option set (spec.md §5 "Determinism").
var globalRNG = rand.New(rand.NewSource(0))

func seedGlobalRNG(seed uint32) {
	globalRNG = rand.New(rand.NewSource(int64(seed)))
}

// GlobalRNG returns the process-wide random source. Collaborators
// (sensor noise models, stochastic controllers) should draw from this
// rather than seeding their own, so a single engine seed reproduces an
// entire run.
func GlobalRNG() *rand.Rand { return globalRNG }
