package audioengine

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// scheduleBlock fires one playPresetCommand per event at its target wall
// clock time, correcting against the monotonic clock rather than summing
// sleeps. A
// SchedulerOverrun (target time already in the past) fires immediately
// without retiming the remaining events.
func (e *Engine) scheduleBlock(ctx context.Context, events []ScheduledEvent) {
	sorted := make([]ScheduledEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeOffsetSeconds < sorted[j].TimeOffsetSeconds
	})

	start := time.Now()
	for _, ev := range sorted {
		target := start.Add(time.Duration(ev.TimeOffsetSeconds * float64(time.Second)))
		wait := time.Until(target)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else if wait < -time.Millisecond {
			logrus.WithFields(logrus.Fields{
				"preset":        ev.Preset,
				"overrun_ms":    -wait.Milliseconds(),
				"time_offset_s": ev.TimeOffsetSeconds,
			}).Debug("scheduler overrun, firing immediately")
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
		e.PlayPreset(ev.Preset, ev.Params)
	}
}
