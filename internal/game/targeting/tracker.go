package targeting

import (
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// Tracker is a selection-time shadow of board occupancy and hand contents.
// The UI flow builds one per selection session and hypothetically applies
// each effect's outcome before asking for the next effect's legal targets;
// real state is never touched.
type Tracker struct {
	droneLane  map[string]string // drone ID -> virtual lane
	droneOwner map[string]string
	droneName  map[string]string
	discarded  map[string]bool // card ID -> virtually discarded
}

// NewTracker builds the shadow from the current board state of both players.
func NewTracker(acting, opponent *state.PlayerState) *Tracker {
	t := &Tracker{
		droneLane:  make(map[string]string),
		droneOwner: make(map[string]string),
		droneName:  make(map[string]string),
		discarded:  make(map[string]bool),
	}
	t.index(acting)
	t.index(opponent)
	return t
}

func (t *Tracker) index(p *state.PlayerState) {
	for _, lane := range state.LaneIDs() {
		for _, d := range p.Lanes[lane] {
			t.droneLane[d.ID] = lane
			t.droneOwner[d.ID] = p.ID
			t.droneName[d.ID] = d.Name
		}
	}
}

// RecordMove notes that an earlier effect in the chain will move the drone,
// so later effects compute lane membership against the hypothetical lane.
func (t *Tracker) RecordMove(droneID, toLane string) {
	if _, ok := t.droneLane[droneID]; ok {
		t.droneLane[droneID] = toLane
	}
}

// RecordDiscard notes that an earlier effect will discard the card.
func (t *Tracker) RecordDiscard(cardID string) {
	t.discarded[cardID] = true
}

// LaneOf returns the drone's virtual lane.
func (t *Tracker) LaneOf(droneID string) (string, bool) {
	lane, ok := t.droneLane[droneID]
	return lane, ok
}

// OwnerOf returns the drone's owner.
func (t *Tracker) OwnerOf(droneID string) (string, bool) {
	owner, ok := t.droneOwner[droneID]
	return owner, ok
}

// NameOf returns the drone's name, used for per-lane same-name caps.
func (t *Tracker) NameOf(droneID string) (string, bool) {
	name, ok := t.droneName[droneID]
	return name, ok
}

// IsDiscarded reports whether the card was virtually discarded.
func (t *Tracker) IsDiscarded(cardID string) bool {
	return t.discarded[cardID]
}

// CountInLane returns how many of the owner's drones with the given name
// virtually occupy the lane.
func (t *Tracker) CountInLane(ownerID, lane, name string) int {
	count := 0
	for id, l := range t.droneLane {
		if l != lane {
			continue
		}
		if t.droneOwner[id] != ownerID {
			continue
		}
		if t.droneName[id] == name {
			count++
		}
	}
	return count
}
