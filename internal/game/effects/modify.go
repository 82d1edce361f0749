package effects

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
)

// ModifyStatProcessor applies stat deltas to a target drone. Permanent
// modifications adjust the printed stat; temporary attack bonuses live in
// TempAttack and are cleared by the turn manager at end of turn.
type ModifyStatProcessor struct{}

func (p *ModifyStatProcessor) Process(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	outcome := Outcome{Handled: true, ValueUsed: effect.Value}

	target, side, _, ok := ctx.TargetDrone()
	if !ok {
		return outcome, nil
	}

	switch effect.Stat {
	case cards.StatAttack:
		if effect.Permanent {
			target.Attack += effect.Value
			if target.Attack < 0 {
				target.Attack = 0
			}
		} else {
			target.TempAttack += effect.Value
		}
	case cards.StatHull:
		target.MaxHull += effect.Value
		target.Hull += effect.Value
		if target.MaxHull < 1 {
			target.MaxHull = 1
		}
		if target.Hull > target.MaxHull {
			target.Hull = target.MaxHull
		}
		if target.Hull <= 0 {
			side.RemoveDrone(target.ID)
			outcome.Destroyed = append(outcome.Destroyed, target.ID)
		}
	case cards.StatSpeed:
		target.Speed += effect.Value
		if target.Speed < 0 {
			target.Speed = 0
		}
	}

	return outcome, nil
}
