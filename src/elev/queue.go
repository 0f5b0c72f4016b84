package elev

import "fleetsim/src/types"

// stop is one pending target floor. final marks the destination stop of a
// request, so popping it completes that request.
type stop struct {
	floor int
	final bool
}

// push appends a request's stops in FIFO order: origin first, then
// destination. A request whose destination equals its origin is a single
// no-op stop.
func (e *Elevator) push(req types.Request) {
	if req.Origin == req.Destination {
		e.queue = append(e.queue, stop{floor: req.Destination, final: true})
		return
	}
	e.queue = append(e.queue,
		stop{floor: req.Origin},
		stop{floor: req.Destination, final: true})
}

// pop removes the queue head and reports whether it completed a request.
func (e *Elevator) pop() bool {
	head := e.queue[0]
	e.queue = e.queue[1:]
	return head.final
}
