// Contains the per-elevator state machine. Each unit owns its physical state
// exclusively; the dispatcher only ever sees copies sent on the status channel.
package elev

import (
	"log/slog"
	"time"

	"fleetsim/src/config"
	"fleetsim/src/timer"
	"fleetsim/src/types"
)

type Elevator struct {
	id        int
	floor     int
	dir       types.Direction
	behaviour types.Behaviour
	queue     []stop
	completed int
	pausing   bool

	cfg         config.Config
	requestCh   chan types.Request
	statusCh    chan types.ElevatorStatus
	travel      *time.Ticker
	stopAction  chan timer.Action
	stopTimeout chan bool
}

// Spawn creates one elevator unit at the given floor and starts its goroutine.
// All further coordination is message-driven through Requests and Status.
func Spawn(id, startFloor int, cfg config.Config) *Elevator {
	e := &Elevator{
		id:          id,
		floor:       startFloor,
		dir:         types.DirIdle,
		behaviour:   types.Idle,
		cfg:         cfg,
		requestCh:   make(chan types.Request, config.RequestBufSize),
		statusCh:    make(chan types.ElevatorStatus, config.StatusBufSize),
		travel:      time.NewTicker(cfg.TravelDuration),
		stopAction:  make(chan timer.Action, 1),
		stopTimeout: make(chan bool, 1),
	}
	go e.run()
	return e
}

func (e *Elevator) ID() int { return e.id }

// Requests is the inbound channel for assigned requests. Closing it makes the
// unit drain its remaining queue and terminate.
func (e *Elevator) Requests() chan<- types.Request { return e.requestCh }

// Status carries a snapshot for every transition and floor step. Closed when
// the unit terminates.
func (e *Elevator) Status() <-chan types.ElevatorStatus { return e.statusCh }

func (e *Elevator) run() {
	defer close(e.statusCh)
	defer e.travel.Stop()
	defer close(e.stopAction)
	go timer.Timer(e.cfg.StopDuration, e.stopTimeout, e.stopAction)

	in := e.requestCh
	e.report()

	for {
		if len(e.queue) == 0 && !e.pausing {
			if in == nil {
				slog.Debug("Request channel closed, shutting down", "elevator", e.id)
				return
			}
			req, ok := <-in
			if !ok {
				return
			}
			e.accept(req)
			continue
		}
		select {
		case req, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			e.accept(req)
		case <-e.travel.C:
			if e.pausing {
				continue
			}
			e.step()
		case <-e.stopTimeout:
			e.pausing = false
			e.depart()
		}
	}
}

// accept appends the request's stops. A request received while moving never
// interrupts the current leg.
func (e *Elevator) accept(req types.Request) {
	slog.Debug("Received request", "elevator", e.id, "origin", req.Origin, "destination", req.Destination)
	wasIdle := e.behaviour == types.Idle
	e.push(req)
	if wasIdle {
		e.advance()
	}
}

// advance heads for the queue head, arriving immediately if already there.
func (e *Elevator) advance() {
	if e.queue[0].floor == e.floor {
		e.arrive()
		return
	}
	e.dir = towards(e.floor, e.queue[0].floor)
	e.behaviour = types.Moving
	e.travel.Reset(e.cfg.TravelDuration)
	e.report()
}

// step moves one floor towards the queue head on a travel tick.
func (e *Elevator) step() {
	if e.behaviour != types.Moving {
		return
	}
	e.dir = towards(e.floor, e.queue[0].floor)
	e.floor += int(e.dir)
	if e.floor == e.queue[0].floor {
		e.arrive()
		return
	}
	slog.Debug("Passing floor", "elevator", e.id, "floor", e.floor)
	e.report()
}

// arrive reports the transient Arrived state and starts the stop pause. The
// completed stop is popped when the pause ends.
func (e *Elevator) arrive() {
	slog.Info("Stopped at floor", "elevator", e.id, "floor", e.floor)
	e.behaviour = types.Arrived
	e.report()
	e.pausing = true
	e.stopAction <- timer.Start
}

// depart pops the served stop and continues to the next one, or goes idle.
func (e *Elevator) depart() {
	if e.pop() {
		e.completed++
	}
	if len(e.queue) == 0 {
		e.dir = types.DirIdle
		e.behaviour = types.Idle
		e.report()
		return
	}
	e.advance()
}

func (e *Elevator) report() {
	e.statusCh <- types.ElevatorStatus{
		ID:        e.id,
		Floor:     e.floor,
		Dir:       e.dir,
		Behaviour: e.behaviour,
		QueueLen:  len(e.queue),
		Completed: e.completed,
	}
}

func towards(from, to int) types.Direction {
	if from < to {
		return types.DirUp
	}
	if from > to {
		return types.DirDown
	}
	return types.DirIdle
}
