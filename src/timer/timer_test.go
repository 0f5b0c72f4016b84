package timer

import (
	"testing"
	"time"
)

func TestTimerStartExpires(t *testing.T) {
	timeout := make(chan bool, 1)
	action := make(chan Action, 1)
	go Timer(10*time.Millisecond, timeout, action)
	defer close(action)

	action <- Start
	select {
	case <-timeout:
	case <-time.After(time.Second):
		t.Fatal("armed timer never expired")
	}
}

func TestTimerStopDisarms(t *testing.T) {
	timeout := make(chan bool, 1)
	action := make(chan Action, 1)
	go Timer(100*time.Millisecond, timeout, action)
	defer close(action)

	action <- Start
	action <- Stop
	select {
	case <-timeout:
		t.Fatal("disarmed timer expired")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTimerIdleUntilStarted(t *testing.T) {
	timeout := make(chan bool, 1)
	action := make(chan Action, 1)
	go Timer(10*time.Millisecond, timeout, action)
	defer close(action)

	select {
	case <-timeout:
		t.Fatal("timer expired without Start")
	case <-time.After(50 * time.Millisecond):
	}
}
