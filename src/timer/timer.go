package timer

import "time"

type Action int

const (
	Start Action = iota
	Stop
)

// Timer drives the stop pause of one elevator unit. Start arms the timer with
// the configured duration, Stop disarms it, and each expiry sends on timeout.
// Returns when the action channel is closed.
func Timer(duration time.Duration, timeout chan<- bool, action <-chan Action) {
	t := time.NewTimer(duration)
	if !t.Stop() {
		<-t.C
	}
	for {
		select {
		case a, ok := <-action:
			if !ok {
				t.Stop()
				return
			}
			switch a {
			case Start:
				resetTimer(t, duration)
			case Stop:
				t.Stop()
			}
		case <-t.C:
			timeout <- true
		}
	}
}

// Stops the timer, drains a pending expiry and rearms it.
func resetTimer(t *time.Timer, duration time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(duration)
}
