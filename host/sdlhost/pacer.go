package sdlhost

import "time"

// pacer holds presentation to a fixed rate. Deadlines advance by a whole
// frame period so rounding never accumulates; falling more than a frame
// behind resynchronises instead of bursting to catch up.
type pacer struct {
	frame time.Duration
	next  time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func newPacer() *pacer {
	return &pacer{now: time.Now, sleep: time.Sleep}
}

// setRate sets frames per second. Zero or less disables the cap.
func (p *pacer) setRate(fps int) {
	p.next = time.Time{}
	if fps <= 0 {
		p.frame = 0
		return
	}
	p.frame = time.Second / time.Duration(fps)
}

// wait sleeps until the next frame is due.
func (p *pacer) wait() {
	if p.frame == 0 {
		return
	}
	now := p.now()
	if p.next.IsZero() || now.Sub(p.next) > p.frame {
		p.next = now
	}
	p.next = p.next.Add(p.frame)
	if d := p.next.Sub(now); d > 0 {
		p.sleep(d)
	}
}
