package dispatcher

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"fleetsim/src/config"
	"fleetsim/src/elev"
	"fleetsim/src/types"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func recvRequest(t *testing.T, ch <-chan types.Request) types.Request {
	t.Helper()
	select {
	case req := <-ch:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("no request assigned")
		return types.Request{}
	}
}

// waitView polls Fleet until it holds the wanted number of elevators.
func waitView(t *testing.T, d *Dispatcher, want int) map[int]types.ElevatorStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fleet := d.Fleet()
		if len(fleet) == want {
			return fleet
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("view never reached %d elevators", want)
	return nil
}

func TestSubmitValidation(t *testing.T) {
	cfg := config.Default()

	d := New(cfg, nil, nil)
	if err := d.Submit(types.Request{Origin: 1, Destination: 2}); !errors.Is(err, ErrNoElevators) {
		t.Errorf("err = %v, want ErrNoElevators", err)
	}

	reqCh := make(chan types.Request, config.RequestBufSize)
	statusCh := make(chan types.ElevatorStatus)
	d = New(cfg, []chan<- types.Request{reqCh}, []<-chan types.ElevatorStatus{statusCh})
	if err := d.Submit(types.Request{Origin: -1, Destination: 2}); !errors.Is(err, ErrFloorOutOfRange) {
		t.Errorf("err = %v, want ErrFloorOutOfRange", err)
	}
	if err := d.Submit(types.Request{Origin: 0, Destination: cfg.NumFloors}); !errors.Is(err, ErrFloorOutOfRange) {
		t.Errorf("err = %v, want ErrFloorOutOfRange", err)
	}
}

// With zero statuses received, requests go round-robin in id order.
func TestRoundRobinFallback(t *testing.T) {
	cfg := config.Default()
	raw := make([]chan types.Request, 3)
	reqChs := make([]chan<- types.Request, 3)
	statusChs := make([]<-chan types.ElevatorStatus, 3)
	for i := range raw {
		raw[i] = make(chan types.Request, config.RequestBufSize)
		reqChs[i] = raw[i]
		statusChs[i] = make(chan types.ElevatorStatus)
	}
	d := New(cfg, reqChs, statusChs)

	for i := range 6 {
		if err := d.Submit(types.Request{Origin: i, Destination: 9}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	for i := range 6 {
		req := recvRequest(t, raw[i%3])
		if req.Origin != i {
			t.Errorf("elevator %d got request origin %d, want %d", i%3, req.Origin, i)
		}
	}
}

func TestScoringPrefersNearest(t *testing.T) {
	cfg := config.Default()
	raw := make([]chan types.Request, 2)
	reqChs := make([]chan<- types.Request, 2)
	statusSrc := make([]chan types.ElevatorStatus, 2)
	statusChs := make([]<-chan types.ElevatorStatus, 2)
	for i := range raw {
		raw[i] = make(chan types.Request, config.RequestBufSize)
		reqChs[i] = raw[i]
		statusSrc[i] = make(chan types.ElevatorStatus, 1)
		statusChs[i] = statusSrc[i]
	}
	d := New(cfg, reqChs, statusChs)

	statusSrc[0] <- types.ElevatorStatus{ID: 0, Floor: 9, Dir: types.DirIdle, Behaviour: types.Idle}
	statusSrc[1] <- types.ElevatorStatus{ID: 1, Floor: 2, Dir: types.DirIdle, Behaviour: types.Idle}
	waitView(t, d, 2)

	if err := d.Submit(types.Request{Origin: 8, Destination: 0}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req := recvRequest(t, raw[0]); req.Origin != 8 {
		t.Errorf("nearest elevator got origin %d, want 8", req.Origin)
	}
	select {
	case req := <-raw[1]:
		t.Errorf("far elevator got request %+v", req)
	default:
	}
}

// End-to-end conservation: every submitted request is completed exactly once.
func TestConservation(t *testing.T) {
	cfg := config.Default()
	cfg.TravelDuration = 2 * time.Millisecond
	cfg.StopDuration = time.Millisecond

	const numElevators = 3
	reqChs := make([]chan<- types.Request, numElevators)
	statusChs := make([]<-chan types.ElevatorStatus, numElevators)
	for id := range numElevators {
		unit := elev.Spawn(id, 0, cfg)
		reqChs[id] = unit.Requests()
		statusChs[id] = unit.Status()
	}
	d := New(cfg, reqChs, statusChs)

	requests := []types.Request{
		{Origin: 0, Destination: 5},
		{Origin: 9, Destination: 2},
		{Origin: 4, Destination: 4},
		{Origin: 7, Destination: 1},
		{Origin: 2, Destination: 8},
		{Origin: 6, Destination: 6},
		{Origin: 1, Destination: 9},
		{Origin: 8, Destination: 0},
		{Origin: 3, Destination: 3},
	}
	for _, req := range requests {
		if err := d.Submit(req); err != nil {
			t.Fatalf("Submit(%+v): %v", req, err)
		}
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		completed := 0
		for _, s := range d.Fleet() {
			completed += s.Completed
		}
		if completed == len(requests) {
			break
		}
		if completed > len(requests) {
			t.Fatalf("completed %d requests, submitted only %d", completed, len(requests))
		}
		if time.Now().After(deadline) {
			t.Fatalf("completed %d of %d requests", completed, len(requests))
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case failure := <-d.Failures():
		t.Errorf("unexpected assignment failure: %+v", failure)
	default:
	}
	d.Close()
}

func TestAssignmentFailureAfterClose(t *testing.T) {
	cfg := config.Default()
	cfg.TravelDuration = 2 * time.Millisecond
	cfg.StopDuration = time.Millisecond

	unit := elev.Spawn(0, 0, cfg)
	d := New(cfg, []chan<- types.Request{unit.Requests()}, []<-chan types.ElevatorStatus{unit.Status()})

	waitView(t, d, 1)
	d.Close()
	waitView(t, d, 0) // unit terminated and was dropped from the view

	req := types.Request{Origin: 2, Destination: 6}
	if err := d.Submit(req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	select {
	case failure := <-d.Failures():
		if failure.Request != req {
			t.Errorf("failure carries request %+v, want %+v", failure.Request, req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no assignment failure reported")
	}
}

// Fleet snapshots are copies; mutating one never leaks into the dispatcher.
func TestFleetSnapshotIsolated(t *testing.T) {
	cfg := config.Default()
	reqCh := make(chan types.Request, config.RequestBufSize)
	statusSrc := make(chan types.ElevatorStatus, 1)
	d := New(cfg, []chan<- types.Request{reqCh}, []<-chan types.ElevatorStatus{statusSrc})

	statusSrc <- types.ElevatorStatus{ID: 0, Floor: 4, Dir: types.DirIdle, Behaviour: types.Idle}
	fleet := waitView(t, d, 1)

	fleet[0] = types.ElevatorStatus{ID: 0, Floor: 99}
	if again := d.Fleet(); again[0].Floor != 4 {
		t.Errorf("dispatcher view mutated through snapshot: %+v", again[0])
	}
}
