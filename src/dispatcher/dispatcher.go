// Routes each submitted request to exactly one elevator unit, chosen by the
// cost function, and maintains an eventually-consistent view of fleet status.
package dispatcher

import (
	"errors"
	"fmt"
	"log/slog"

	"fleetsim/src/config"
	"fleetsim/src/types"

	"github.com/tiendc/go-deepcopy"
)

// Errors returned synchronously from Submit.
var (
	ErrNoElevators     = errors.New("no elevators registered")
	ErrFloorOutOfRange = errors.New("floor out of range")
)

// AssignmentFailure reports a request whose chosen elevator was no longer
// reachable. The request is not retried onto a different elevator.
type AssignmentFailure struct {
	Request    types.Request
	ElevatorID int
}

type statusUpdate struct {
	id     int
	status types.ElevatorStatus
	closed bool
}

type Dispatcher struct {
	cfg        config.Config
	requestChs []chan<- types.Request

	// Owned by the run goroutine, single-writer.
	view    map[int]types.ElevatorStatus
	dead    map[int]bool
	next    int
	closing bool

	submitCh  chan types.Request
	statusCh  chan statusUpdate
	fleetCh   chan chan map[int]types.ElevatorStatus
	closeCh   chan struct{}
	failureCh chan AssignmentFailure
}

// New wires the dispatcher to every elevator's channel pair and starts its
// goroutine. Elevator ids are the indices into the two slices.
func New(cfg config.Config, requestChs []chan<- types.Request, statusChs []<-chan types.ElevatorStatus) *Dispatcher {
	d := &Dispatcher{
		cfg:        cfg,
		requestChs: requestChs,
		view:       make(map[int]types.ElevatorStatus),
		dead:       make(map[int]bool),
		submitCh:   make(chan types.Request, config.RequestBufSize),
		statusCh:   make(chan statusUpdate, config.StatusBufSize),
		fleetCh:    make(chan chan map[int]types.ElevatorStatus),
		closeCh:    make(chan struct{}),
		failureCh:  make(chan AssignmentFailure, config.FailureBufSize),
	}
	for id, ch := range statusChs {
		go d.absorb(id, ch)
	}
	go d.run()
	return d
}

// Submit accepts a new request and hands it off for assignment. It returns
// immediately; only registration and floor bound errors are synchronous.
func (d *Dispatcher) Submit(req types.Request) error {
	if len(d.requestChs) == 0 {
		return fmt.Errorf("submit: %w", ErrNoElevators)
	}
	for _, floor := range [2]int{req.Origin, req.Destination} {
		if floor < 0 || floor >= d.cfg.NumFloors {
			return fmt.Errorf("submit: floor %d outside [0, %d): %w", floor, d.cfg.NumFloors, ErrFloorOutOfRange)
		}
	}
	d.submitCh <- req
	return nil
}

// Failures surfaces assignment failures to the driver.
func (d *Dispatcher) Failures() <-chan AssignmentFailure { return d.failureCh }

// Fleet returns a deep copy of the latest known status of every live elevator.
func (d *Dispatcher) Fleet() map[int]types.ElevatorStatus {
	reply := make(chan map[int]types.ElevatorStatus)
	d.fleetCh <- reply
	return <-reply
}

// Close closes every request channel; units drain their queues and terminate.
// Requests submitted afterwards fail assignment.
func (d *Dispatcher) Close() { close(d.closeCh) }

// absorb forwards one elevator's statuses into the merged channel, tagging the
// stream end when the unit terminates.
func (d *Dispatcher) absorb(id int, ch <-chan types.ElevatorStatus) {
	for status := range ch {
		d.statusCh <- statusUpdate{id: id, status: status}
	}
	d.statusCh <- statusUpdate{id: id, closed: true}
}

func (d *Dispatcher) run() {
	closeCh := d.closeCh
	for {
		select {
		case req := <-d.submitCh:
			d.assign(req)
		case update := <-d.statusCh:
			if update.closed {
				delete(d.view, update.id)
				d.dead[update.id] = true
				slog.Warn("Elevator went offline", "elevator", update.id)
				continue
			}
			d.view[update.id] = update.status
		case reply := <-d.fleetCh:
			reply <- d.copyView()
		case <-closeCh:
			closeCh = nil // fire once
			d.closing = true
			for _, ch := range d.requestChs {
				close(ch)
			}
		}
	}
}

func (d *Dispatcher) assign(req types.Request) {
	id, ok := d.pick(req)
	if !ok || d.closing || d.dead[id] {
		d.reportFailure(req, id)
		return
	}
	d.requestChs[id] <- req
	slog.Info("Assigned request",
		"origin", req.Origin,
		"destination", req.Destination,
		"dir", req.Dir(),
		"elevator", id)
}

// pick runs the cost function over the known statuses. Before the first status
// has arrived it falls back to round-robin assignment by elevator id.
func (d *Dispatcher) pick(req types.Request) (int, bool) {
	if len(d.view) > 0 {
		return findAssignee(d.view, req, d.cfg)
	}
	for range d.requestChs {
		id := d.next
		d.next = (d.next + 1) % len(d.requestChs)
		if !d.dead[id] {
			return id, true
		}
	}
	return -1, false
}

func (d *Dispatcher) reportFailure(req types.Request, id int) {
	slog.Error("Assignment failed",
		"origin", req.Origin,
		"destination", req.Destination,
		"elevator", id)
	select {
	case d.failureCh <- AssignmentFailure{Request: req, ElevatorID: id}:
	default:
	}
}

func (d *Dispatcher) copyView() map[int]types.ElevatorStatus {
	snapshot := make(map[int]types.ElevatorStatus, len(d.view))
	if err := deepcopy.Copy(&snapshot, &d.view); err != nil {
		panic(err)
	}
	return snapshot
}
