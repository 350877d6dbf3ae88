package vitals

// beatHistory is a fixed-capacity ring of accepted BPM values. Once full,
// the oldest entry is overwritten.
type beatHistory struct {
	buf    []int
	cursor int
	count  int
}

func newBeatHistory(capacity int) *beatHistory {
	if capacity <= 0 {
		capacity = DefaultTuning().BeatHistorySize
	}
	return &beatHistory{buf: make([]int, capacity)}
}

func (h *beatHistory) add(bpm int) {
	h.buf[h.cursor] = bpm
	h.cursor = (h.cursor + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// mean returns the integer mean of the valid entries, 0 when empty.
// Valid entries always occupy buf[0:count].
func (h *beatHistory) mean() int {
	if h.count == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < h.count; i++ {
		sum += h.buf[i]
	}
	return sum / h.count
}

func (h *beatHistory) reset() {
	h.cursor = 0
	h.count = 0
}

// peakTracker is the transient per-sample state of the peak detector: the
// previous sample, the previous delta, and whether the waveform is on a
// rising slope.
type peakTracker struct {
	prev      int
	prevDelta int
	havePrev  bool
	haveDelta bool
	rising    bool
	lastBeat  int64
	haveBeat  bool
}

// HeartRateEstimator detects local maxima in the IR waveform and converts
// the intervals between them into a smoothed BPM.
type HeartRateEstimator struct {
	noiseFloor    int
	minIntervalMS int64
	maxIntervalMS int64

	tracker peakTracker
	history *beatHistory
}

func NewHeartRateEstimator(t Tuning) *HeartRateEstimator {
	return &HeartRateEstimator{
		noiseFloor:    t.NoiseFloor,
		minIntervalMS: t.MinBeatIntervalMS,
		maxIntervalMS: t.MaxBeatIntervalMS,
		history:       newBeatHistory(t.BeatHistorySize),
	}
}

// Update feeds one IR reading and returns the current BPM estimate, 0 when
// unknown. While the finger is absent all state is held at neutral.
func (e *HeartRateEstimator) Update(ir int, present bool, now int64) int {
	if !present {
		e.history.reset()
		e.tracker = peakTracker{}
		return 0
	}

	t := &e.tracker
	if !t.havePrev {
		t.prev = ir
		t.havePrev = true
		return e.history.mean()
	}
	delta := ir - t.prev
	t.prev = ir
	if !t.haveDelta {
		t.prevDelta = delta
		t.haveDelta = true
		return e.history.mean()
	}

	abs := delta
	if abs < 0 {
		abs = -abs
	}

	switch {
	case delta > 0 && t.prevDelta <= 0 && abs > e.noiseFloor:
		t.rising = true

	case delta < 0 && t.prevDelta >= 0 && t.rising && abs > e.noiseFloor:
		// Falling off a local maximum: a beat edge.
		t.rising = false
		if t.haveBeat {
			interval := now - t.lastBeat
			if interval >= e.minIntervalMS && interval <= e.maxIntervalMS {
				e.history.add(int(60000 / interval))
			}
			// Intervals outside the plausible 40-200 BPM band are dropped
			// as noise without touching the history.
		}
		// lastBeat advances even on a rejected edge, otherwise one bad
		// interval would poison every measurement after it.
		t.lastBeat = now
		t.haveBeat = true
	}

	t.prevDelta = delta
	return e.history.mean()
}

// BPM returns the current estimate without feeding a sample.
func (e *HeartRateEstimator) BPM() int {
	return e.history.mean()
}
