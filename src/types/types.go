package types

// Direction of travel. The numeric values match the sign of a floor delta, so
// the direction towards a target is sign(target - floor).
type Direction int

const (
	DirUp   Direction = 1
	DirDown Direction = -1
	DirIdle Direction = 0
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirIdle:
		return "Idle"
	}
	return "Unknown"
}

// Behaviour is the state of an elevator unit. Arrived is transient: the unit
// reports it at a target floor and leaves it again after the stop pause.
type Behaviour int

const (
	Idle Behaviour = iota
	Moving
	Arrived
)

func (b Behaviour) String() string {
	switch b {
	case Idle:
		return "Idle"
	case Moving:
		return "Moving"
	case Arrived:
		return "Arrived"
	}
	return "Unknown"
}

// Request is one ride: pick up at Origin, drop off at Destination. Immutable
// once created; it is forwarded unchanged into the chosen elevator's queue.
type Request struct {
	Origin      int
	Destination int
}

// Dir returns the direction of travel implied by origin and destination.
func (r Request) Dir() Direction {
	switch {
	case r.Origin < r.Destination:
		return DirUp
	case r.Origin > r.Destination:
		return DirDown
	}
	return DirIdle
}

// ElevatorStatus is an immutable snapshot of one elevator, sent by value on
// its status channel so the dispatcher never aliases live state. Completed
// counts requests fully served since spawn.
type ElevatorStatus struct {
	ID        int
	Floor     int
	Dir       Direction
	Behaviour Behaviour
	QueueLen  int
	Completed int
}
