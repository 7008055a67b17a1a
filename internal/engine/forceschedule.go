package engine

import "sort"

// forceImpulse is a constant world-frame force applied at a frame over
// a finite interval [t, t+dt] (spec.md glossary "Impulse").
type forceImpulse struct {
	FrameName  string
	FrameIndex int
	T          float64
	Dt         float64
	F          SpatialForce
}

// forceProfile is a time- and state-dependent world-frame force applied
// at a frame over the whole simulation (spec.md glossary "Profile").
type forceProfile struct {
	FrameName  string
	FrameIndex int
	Fn         func(t float64, x []float64) SpatialForce
}

// forceSchedule is component E of spec.md §4.E: impulses live in a
// time-ordered map keyed by start time with a cursor that advances at
// step boundaries; profiles are an unordered, always-active sequence.
//
// Per spec.md §9 "Open question", two impulses sharing the same start
// time collide in the map key and the second registration silently
// replaces the first — this mirrors the source and is preserved rather
// than "fixed".
type forceSchedule struct {
	impulses    map[float64]forceImpulse
	sortedTimes []float64 // kept sorted; rebuilt on registration
	cursor      int        // index into sortedTimes of "nextIt"

	profiles []forceProfile
}

func newForceSchedule() *forceSchedule {
	return &forceSchedule{impulses: make(map[float64]forceImpulse)}
}

func (fs *forceSchedule) registerImpulse(imp forceImpulse) {
	fs.impulses[imp.T] = imp // map collision on equal T: last write wins (spec.md §9)
	fs.rebuildIndex()
}

func (fs *forceSchedule) registerProfile(p forceProfile) {
	fs.profiles = append(fs.profiles, p)
}

func (fs *forceSchedule) rebuildIndex() {
	fs.sortedTimes = fs.sortedTimes[:0]
	for t := range fs.impulses {
		fs.sortedTimes = append(fs.sortedTimes, t)
	}
	sort.Float64s(fs.sortedTimes)
	fs.cursor = 0
}

func (fs *forceSchedule) reset() {
	fs.impulses = make(map[float64]forceImpulse)
	fs.profiles = nil
	fs.sortedTimes = nil
	fs.cursor = 0
}

// advance moves the cursor past any impulse whose interval has already
// elapsed by t, per spec.md §4.E "if t > tᵢ + dtᵢ, move to next".
func (fs *forceSchedule) advance(t float64) {
	for fs.cursor < len(fs.sortedTimes) {
		cur := fs.impulses[fs.sortedTimes[fs.cursor]]
		if t > cur.T+cur.Dt {
			fs.cursor++
			continue
		}
		break
	}
}

// active returns the impulse whose interval currently contains t, if any.
func (fs *forceSchedule) active(t float64) (forceImpulse, bool) {
	if fs.cursor >= len(fs.sortedTimes) {
		return forceImpulse{}, false
	}
	imp := fs.impulses[fs.sortedTimes[fs.cursor]]
	if t >= imp.T && t <= imp.T+imp.Dt {
		return imp, true
	}
	return forceImpulse{}, false
}

// nextHorizon computes tForceImpulseNext of spec.md §4.G(b): the next
// breakpoint imposed by the impulse cursor, capped by tEnd.
func (fs *forceSchedule) nextHorizon(t, tEnd float64) float64 {
	fs.advance(t)
	if fs.cursor >= len(fs.sortedTimes) {
		return tEnd
	}
	imp := fs.impulses[fs.sortedTimes[fs.cursor]]
	var next float64
	if imp.T > t {
		next = imp.T
	} else {
		// already inside this impulse: the next breakpoint is its end,
		// or the following event if any.
		next = imp.T + imp.Dt
		if fs.cursor+1 < len(fs.sortedTimes) {
			after := fs.impulses[fs.sortedTimes[fs.cursor+1]]
			if after.T < next {
				next = after.T
			}
		}
	}
	if next > tEnd {
		next = tEnd
	}
	return next
}
