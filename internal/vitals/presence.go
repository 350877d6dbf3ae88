package vitals

// PresenceDetector converts raw IR intensity into a debounced finger-on-sensor
// flag. A bare threshold flickers on noisy intensity, so the committed state
// only changes after the raw state has held for the settle duration.
type PresenceDetector struct {
	threshold int
	settleMS  int64

	present     bool
	lastRaw     bool
	lastRawFlip int64
}

func NewPresenceDetector(t Tuning) *PresenceDetector {
	return &PresenceDetector{
		threshold: t.PresenceThreshold,
		settleMS:  t.SettleDurationMS,
	}
}

// Update feeds one raw IR reading and returns the committed presence state.
// now must be non-decreasing between calls.
func (d *PresenceDetector) Update(ir int, now int64) bool {
	raw := ir > d.threshold
	if raw != d.lastRaw {
		// Raw state flipped; restart the settle window without touching
		// the committed state.
		d.lastRaw = raw
		d.lastRawFlip = now
		return d.present
	}
	if raw != d.present && now-d.lastRawFlip >= d.settleMS {
		d.present = raw
	}
	return d.present
}

// Present returns the committed state of the last Update.
func (d *PresenceDetector) Present() bool {
	return d.present
}
