package vitals

import "time"

// Clock supplies monotonic milliseconds since an arbitrary epoch. The
// detector windows (settle duration, beat intervals, step cooldown) are
// wall-clock based, not tick-count based, so the engine reads the clock
// once per tick and hands the same timestamp to every detector.
type Clock interface {
	NowMillis() int64
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock backed by the runtime monotonic clock,
// with its epoch at the moment of creation.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) NowMillis() int64 {
	return time.Since(c.start).Milliseconds()
}
