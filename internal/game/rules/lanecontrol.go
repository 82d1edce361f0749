package rules

import (
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// ComputeLaneControl decides which player controls each lane: the side whose
// ready (non-exhausted) drones carry the higher total effective attack. A
// tie, or an empty lane, leaves the lane uncontrolled (empty owner).
func ComputeLaneControl(a, b *state.PlayerState) map[string]string {
	control := make(map[string]string, 3)
	for _, lane := range state.LaneIDs() {
		scoreA := lanePressure(a, lane)
		scoreB := lanePressure(b, lane)
		switch {
		case scoreA > scoreB:
			control[lane] = a.ID
		case scoreB > scoreA:
			control[lane] = b.ID
		default:
			control[lane] = ""
		}
	}
	return control
}

func lanePressure(p *state.PlayerState, lane string) int {
	total := 0
	for _, d := range p.Lanes[lane] {
		if d.Exhausted {
			continue
		}
		total += EffectiveAttack(d)
	}
	return total
}
