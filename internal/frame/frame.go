// Package frame throttles a render loop to a target frame rate.
package frame

import "time"

// Pacer accepts at most one frame per interval. Calls that arrive early are
// skipped, never queued.
type Pacer struct {
	interval time.Duration
	last     time.Time
}

// NewPacer returns a Pacer for fps frames per second. A non-positive fps
// accepts every frame.
func NewPacer(fps float64) *Pacer {
	p := &Pacer{}
	if fps > 0 {
		p.interval = time.Duration(float64(time.Second) / fps)
	}
	return p
}

func (p *Pacer) Interval() time.Duration { return p.interval }

// Ready reports whether a frame may be drawn at now. An accepted frame is
// aligned to the interval grid so late ticks do not accumulate drift.
func (p *Pacer) Ready(now time.Time) bool {
	if p.last.IsZero() || p.interval == 0 {
		p.last = now
		return true
	}
	elapsed := now.Sub(p.last)
	if elapsed < p.interval {
		return false
	}
	p.last = now.Add(-(elapsed % p.interval))
	return true
}
