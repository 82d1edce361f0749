package effects

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
)

// StatusProcessor adds status counters (IMMOBILIZED, MARKED, CORRODED) to
// the target drone. Value is the counter count; zero means one.
type StatusProcessor struct{}

func (p *StatusProcessor) Process(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	outcome := Outcome{Handled: true}

	target, _, _, ok := ctx.TargetDrone()
	if !ok {
		return outcome, nil
	}
	count := effect.Value
	if count <= 0 {
		count = 1
	}
	if target.Statuses == nil {
		target.Statuses = make(map[cards.Status]int)
	}
	target.Statuses[effect.Status] += count
	outcome.StatusApplied = effect.Status
	outcome.ValueUsed = count
	return outcome, nil
}
