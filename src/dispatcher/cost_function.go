package dispatcher

import (
	"maps"
	"slices"

	"fleetsim/src/config"
	"fleetsim/src/types"
)

// Cost ranks how well one elevator is positioned to serve a request.
//   - base cost is the distance to the origin floor
//   - a large penalty applies when the elevator is moving and the origin is
//     not en route in its current direction
//   - each queued stop adds a smaller penalty, so a busier elevator loses
//     when distances are comparable
func Cost(status types.ElevatorStatus, req types.Request, cfg config.Config) int {
	cost := abs(status.Floor - req.Origin)
	if status.Dir != types.DirIdle && !enRoute(status, req.Origin) {
		cost += cfg.DirectionPenalty
	}
	cost += status.QueueLen * cfg.QueuePenalty
	return cost
}

// findAssignee returns the elevator with the lowest cost for the request,
// ties broken by lowest id.
func findAssignee(view map[int]types.ElevatorStatus, req types.Request, cfg config.Config) (int, bool) {
	assignee := -1
	bestCost := 0
	for _, id := range slices.Sorted(maps.Keys(view)) {
		cost := Cost(view[id], req, cfg)
		if assignee == -1 || cost < bestCost {
			assignee = id
			bestCost = cost
		}
	}
	return assignee, assignee != -1
}

// enRoute reports whether the elevator's direction of travel passes through
// the floor.
func enRoute(status types.ElevatorStatus, floor int) bool {
	switch status.Dir {
	case types.DirUp:
		return floor >= status.Floor
	case types.DirDown:
		return floor <= status.Floor
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
