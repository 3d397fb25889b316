// Package unlock decides which games are playable.
//
// The policy is a pure function of the progress vector and the current
// unlock flags. Unlocks are sticky: reevaluation can grant an unlock but
// never revokes one, whether it came from progress or from lock mode being
// switched off.
package unlock

// Threshold is the progress a game needs before the next game unlocks.
const Threshold = 50

// Reevaluate returns the unlock flags for games in catalog order.
//
// progress[i] and current[i] describe game i; current may be shorter than
// progress (missing entries count as locked). The first game is always
// unlocked. With lock mode disabled every game is unlocked; with lock mode
// enabled game i>0 is unlocked if it already was or progress[i-1] reaches
// Threshold.
func Reevaluate(progress []int, current []bool, lockEnabled bool) []bool {
	out := make([]bool, len(progress))
	for i := range progress {
		was := i < len(current) && current[i]

		switch {
		case i == 0:
			out[i] = true
		case !lockEnabled:
			out[i] = true
		default:
			out[i] = was || progress[i-1] >= Threshold
		}
	}
	return out
}

// Playable reports whether a game can be started.
// A locked flag only matters while lock mode is on.
func Playable(lockEnabled, unlocked bool) bool {
	return !lockEnabled || unlocked
}
