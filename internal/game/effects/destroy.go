package effects

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
)

// DestroyProcessor removes the target drone outright, or breaches the
// target section (hull to zero) for section targets.
type DestroyProcessor struct{}

func (p *DestroyProcessor) Process(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	outcome := Outcome{Handled: true}

	if ctx.Target.Kind == targeting.TargetSection {
		side := ctx.SideOf(ctx.Target.Owner)
		if section, ok := side.Sections[ctx.Target.Lane]; ok {
			outcome.SectionDamage = section.Hull
			section.Hull = 0
			outcome.Destroyed = append(outcome.Destroyed, section.Name)
		}
		return outcome, nil
	}

	target, side, _, ok := ctx.TargetDrone()
	if !ok {
		return outcome, nil
	}
	side.RemoveDrone(target.ID)
	outcome.Destroyed = append(outcome.Destroyed, target.ID)
	return outcome, nil
}
