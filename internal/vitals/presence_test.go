package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceCommitsOnceAfterSettle(t *testing.T) {
	d := NewPresenceDetector(DefaultTuning())

	// IR jumps from 0 to 40000 and holds: the committed state must flip
	// exactly once, after the settle window.
	assert.False(t, d.Update(40000, 0))
	assert.False(t, d.Update(40000, 50))
	assert.False(t, d.Update(40000, 99))

	transitions := 0
	prev := d.Present()
	for now := int64(100); now <= 250; now += 10 {
		cur := d.Update(40000, now)
		if cur != prev {
			transitions++
		}
		prev = cur
	}
	assert.True(t, d.Present())
	assert.Equal(t, 1, transitions)
}

func TestPresenceRapidTogglesNeverCommit(t *testing.T) {
	d := NewPresenceDetector(DefaultTuning())

	// Toggling faster than the settle duration must never produce a
	// committed transition.
	ir := 40000
	for now := int64(0); now <= 1000; now += 50 {
		assert.False(t, d.Update(ir, now), "now=%d", now)
		if ir == 40000 {
			ir = 0
		} else {
			ir = 40000
		}
	}
}

func TestPresenceReleaseIsDebouncedToo(t *testing.T) {
	d := NewPresenceDetector(DefaultTuning())

	d.Update(40000, 0)
	assert.True(t, d.Update(40000, 150))

	// Finger lifts at t=200; release commits only after the settle window.
	assert.True(t, d.Update(0, 200))
	assert.True(t, d.Update(0, 250))
	assert.False(t, d.Update(0, 300))
}

func TestPresenceAtThresholdIsAbsent(t *testing.T) {
	tuning := DefaultTuning()
	d := NewPresenceDetector(tuning)

	// Raw presence requires intensity strictly above the threshold.
	for now := int64(0); now <= 500; now += 50 {
		assert.False(t, d.Update(tuning.PresenceThreshold, now))
	}
}
