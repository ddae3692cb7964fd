package calibration

// Stage is one entry of a model's staged unlock schedule: which distortion
// parameters are frozen, whether the principal-point offset is frozen, and
// whether per-line angle/dist are frozen. LockOffset and LockLines apply to
// the line-residual fit only; the point-pair (inversion) fit reads just
// LocksDistortions.
type Stage struct {
	LocksDistortions []bool
	LockOffset       bool
	LockLines        bool
}

func allLocked(n int) []bool {
	l := make([]bool, n)
	for i := range l {
		l[i] = true
	}
	return l
}

func unlockAll(n int) []bool {
	return make([]bool, n)
}

func unlockUpTo(n, upTo int) []bool {
	l := allLocked(n)
	for i := 0; i < upTo && i < n; i++ {
		l[i] = false
	}
	return l
}

func unlockIndices(n int, idx ...int) []bool {
	l := allLocked(n)
	for _, i := range idx {
		if i >= 0 && i < n {
			l[i] = false
		}
	}
	return l
}

// Schedules maps each model tag to its fixed, data-driven sequence of
// stages. Each stage is initialized from the previous stage's solution by
// the orchestrator, which drives the same Camera/lines through every entry.
var Schedules = map[ModelTag][]Stage{
	RadialK1: {
		{LocksDistortions: allLocked(1), LockOffset: false, LockLines: false},
		{LocksDistortions: unlockIndices(1, 0), LockOffset: false, LockLines: false},
		// Stage (c) is identical to (b): offset is already free in every
		// RadialK1 stage, so there is nothing left for "additionally free
		// offset" to unlock here.
		{LocksDistortions: unlockIndices(1, 0), LockOffset: false, LockLines: false},
	},
	RadialK3: {
		{LocksDistortions: allLocked(3), LockOffset: true, LockLines: false},
		{LocksDistortions: unlockIndices(3, 0), LockOffset: true, LockLines: false},
		{LocksDistortions: unlockIndices(3, 0), LockOffset: false, LockLines: false},
		{LocksDistortions: unlockAll(3), LockOffset: false, LockLines: false},
	},
	Radial4: {
		{LocksDistortions: allLocked(6), LockOffset: true, LockLines: false},
		{LocksDistortions: unlockIndices(6, 0), LockOffset: true, LockLines: false},
		{LocksDistortions: unlockIndices(6, 0), LockOffset: false, LockLines: false},
		{LocksDistortions: unlockAll(6), LockOffset: false, LockLines: false},
	},
	Anamorphic4: {
		{LocksDistortions: allLocked(14), LockOffset: true, LockLines: false},
		{LocksDistortions: allLocked(14), LockOffset: false, LockLines: false},
		{LocksDistortions: unlockIndices(14, 0, 1, 2, 3), LockOffset: false, LockLines: true},
		{LocksDistortions: unlockIndices(14, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9), LockOffset: false, LockLines: true},
		{LocksDistortions: unlockUpTo(14, 12), LockOffset: false, LockLines: false},
	},
	ClassicLD: {
		{LocksDistortions: allLocked(5), LockOffset: true, LockLines: false},
		{LocksDistortions: unlockIndices(5, 0), LockOffset: true, LockLines: false},
		{LocksDistortions: unlockIndices(5, 0), LockOffset: false, LockLines: false},
		{LocksDistortions: unlockIndices(5, 0, 2, 3), LockOffset: false, LockLines: false},
		{LocksDistortions: unlockAll(5), LockOffset: false, LockLines: true},
	},
}
