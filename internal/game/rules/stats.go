package rules

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// EffectiveAttack resolves a drone's attack after auras, temporary
// modifiers, and corrosion counters. Never below zero.
func EffectiveAttack(d *state.Drone) int {
	attack := d.Attack + d.AuraAttack + d.TempAttack - d.Statuses[cards.StatusCorroded]
	if attack < 0 {
		attack = 0
	}
	return attack
}

// EffectiveSpeed resolves a drone's speed; an immobilized drone has speed
// zero regardless of its printed value.
func EffectiveSpeed(d *state.Drone) int {
	if d.HasStatus(cards.StatusImmobilized) {
		return 0
	}
	return d.Speed
}

// EffectiveStat resolves the named stat for targeting restrictions.
func EffectiveStat(d *state.Drone, stat cards.Stat) int {
	switch stat {
	case cards.StatAttack:
		return EffectiveAttack(d)
	case cards.StatHull:
		return d.Hull
	case cards.StatSpeed:
		return EffectiveSpeed(d)
	default:
		return 0
	}
}

// RecomputeAuras rebuilds every aura-derived bonus for one player's board
// from scratch. Called whenever lane membership changes; auras are never
// incrementally patched.
func RecomputeAuras(p *state.PlayerState) {
	for _, lane := range state.LaneIDs() {
		commanders := 0
		for _, d := range p.Lanes[lane] {
			if d.HasKeyword(state.KeywordCommander) {
				commanders++
			}
		}
		for _, d := range p.Lanes[lane] {
			bonus := commanders
			if d.HasKeyword(state.KeywordCommander) {
				// a commander does not buff itself
				bonus--
			}
			if bonus < 0 {
				bonus = 0
			}
			d.AuraAttack = bonus
		}
	}
}
