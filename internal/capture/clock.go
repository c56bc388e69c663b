package capture

import "time"

// spinWindow is how close to the deadline the wall clock switches from
// sleeping to spinning. Sleeping the whole interval overshoots by a
// scheduler quantum, which at 16 kHz is several sample periods.
const spinWindow = 100 * time.Microsecond

type wallClock struct{}

// WallClock schedules against real time.
func WallClock() Clock { return wallClock{} }

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) WaitUntil(t time.Time) {
	if d := time.Until(t); d > spinWindow {
		time.Sleep(d - spinWindow)
	}
	for time.Now().Before(t) {
	}
}
