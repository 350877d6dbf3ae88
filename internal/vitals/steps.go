package vitals

// StepCounter smooths the total acceleration magnitude with an exponential
// moving average and registers a step whenever the smoothed signal sits
// above the threshold with at least a cooldown between registrations. The
// count never decreases; only a process restart clears it.
type StepCounter struct {
	alpha      float64
	threshold  float64
	cooldownMS int64

	smoothed float64
	count    int
	lastStep int64
	haveStep bool
}

func NewStepCounter(t Tuning) *StepCounter {
	return &StepCounter{
		alpha:      t.SmoothingAlpha,
		threshold:  t.StepThreshold,
		cooldownMS: t.StepCooldownMS,
	}
}

// Update feeds one acceleration magnitude and returns the cumulative step
// count.
func (c *StepCounter) Update(mag float64, now int64) int {
	c.smoothed = c.alpha*c.smoothed + (1-c.alpha)*mag

	if c.smoothed > c.threshold && (!c.haveStep || now-c.lastStep > c.cooldownMS) {
		c.count++
		c.lastStep = now
		c.haveStep = true
	}
	return c.count
}

// Smoothed returns the current filtered magnitude.
func (c *StepCounter) Smoothed() float64 {
	return c.smoothed
}

// Count returns the cumulative step count.
func (c *StepCounter) Count() int {
	return c.count
}
