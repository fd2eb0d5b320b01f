package animator

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/signal"
)

func (a *animator) resetFired() {
	n := 0
	if a.current.clip != nil {
		n = len(a.current.clip.Events)
	}
	if cap(a.fired) < n {
		a.fired = make([]bool, n)
		return
	}
	a.fired = a.fired[:n]
	clear(a.fired)
}

// scanEvents fires every not-yet-fired event with from <= time <= to. Events
// are sorted by time, so the scan stops at the first event past to.
func (a *animator) scanEvents(from, to float32) {
	clip := a.current.clip
	if clip == nil || len(clip.Events) == 0 {
		return
	}
	for i, e := range clip.Events {
		if e.Time > to {
			break
		}
		if e.Time < from || a.fired[i] {
			continue
		}
		a.fired[i] = true
		a.signals.Dispatch(signal.Signal{
			Entity: a.entity,
			Name:   e.Name,
			Context: signal.Context{
				Clip:  clip.Name,
				Event: e,
				Time:  to,
			},
		})
	}
}
