package utils

import (
	"fmt"
	"maps"
	"slices"

	"fleetsim/src/types"
)

// PrintFleet writes a one-line summary per elevator, lowest id first.
func PrintFleet(fleet map[int]types.ElevatorStatus) {
	for _, id := range slices.Sorted(maps.Keys(fleet)) {
		s := fleet[id]
		fmt.Printf("Elevator %d: floor %d, %v, %d queued, %d served\n",
			id, s.Floor, s.Dir, s.QueueLen, s.Completed)
	}
}
