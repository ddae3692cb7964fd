package calibration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleStageCounts(t *testing.T) {
	wantStages := map[ModelTag]int{
		RadialK1:    3,
		RadialK3:    4,
		Radial4:     4,
		Anamorphic4: 5,
		ClassicLD:   5,
	}
	for tag, n := range wantStages {
		stages, ok := Schedules[tag]
		require.True(t, ok, "tag=%s", tag)
		assert.Len(t, stages, n, "tag=%s", tag)
	}
}

func TestAnamorphicScheduleNeverUnlocksFixedScales(t *testing.T) {
	stages := Schedules[Anamorphic4]
	for i, s := range stages {
		assert.True(t, s.LocksDistortions[12], "stage %d should keep index 12 locked", i)
		assert.True(t, s.LocksDistortions[13], "stage %d should keep index 13 locked", i)
	}
}

func TestClassicLDStageFourLocksAngleAndCoupledTerm(t *testing.T) {
	stages := Schedules[ClassicLD]
	require.Len(t, stages, 5)
	stageD := stages[3]
	assert.True(t, stageD.LocksDistortions[1], "angle should remain locked at stage d")
	assert.True(t, stageD.LocksDistortions[4], "q should remain locked at stage d")
	assert.False(t, stageD.LocksDistortions[0])
	assert.False(t, stageD.LocksDistortions[2])
	assert.False(t, stageD.LocksDistortions[3])

	// A fresh model starts with angle pi/2, the value a locked index 1
	// keeps through stage d.
	m := newClassicLD()
	assert.InDelta(t, math.Pi/2, m.angle, 1e-12)
}

func TestRadialK3ScheduleReleasesInOrder(t *testing.T) {
	stages := Schedules[RadialK3]
	require.Len(t, stages, 4)
	assert.True(t, stages[0].LockOffset)
	assert.True(t, stages[1].LockOffset)
	assert.False(t, stages[2].LockOffset)
	assert.False(t, stages[3].LockOffset)

	assert.False(t, stages[1].LocksDistortions[0], "k1 released at stage b")
	assert.True(t, stages[1].LocksDistortions[1])
	assert.True(t, stages[1].LocksDistortions[2])

	for _, locked := range stages[3].LocksDistortions {
		assert.False(t, locked, "all distortion params free at final stage")
	}
}
