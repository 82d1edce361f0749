package effects

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
)

// SupportProcessor serves the non-targeted resource effects plus heal:
// HEAL, DRAW, GAIN_ENERGY, GAIN_MOMENTUM.
type SupportProcessor struct{}

func (p *SupportProcessor) Process(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	outcome := Outcome{Handled: true, ValueUsed: effect.Value}

	switch effect.Kind {
	case cards.KindHeal:
		p.heal(effect, ctx, &outcome)
	case cards.KindDraw:
		n := effect.Value
		if n == 0 {
			n = effect.Count
		}
		drawn := ctx.Acting.Draw(n)
		outcome.CardsDrawn = len(drawn)
	case cards.KindGainEnergy:
		ctx.Acting.Energy += effect.Value
		outcome.EnergyGained = effect.Value
	case cards.KindGainMomentum:
		ctx.Acting.Momentum += effect.Value
		outcome.MomentumGained = effect.Value
	}

	return outcome, nil
}

func (p *SupportProcessor) heal(effect cards.ChainEffect, ctx *Context, outcome *Outcome) {
	if ctx.Target.Kind == targeting.TargetSection {
		side := ctx.SideOf(ctx.Target.Owner)
		if section, ok := side.Sections[ctx.Target.Lane]; ok {
			healed := effect.Value
			if section.Hull+healed > section.MaxHull {
				healed = section.MaxHull - section.Hull
			}
			section.Hull += healed
			outcome.Healed = healed
		}
		return
	}

	target, _, _, ok := ctx.TargetDrone()
	if !ok {
		return
	}
	healed := effect.Value
	if target.Hull+healed > target.MaxHull {
		healed = target.MaxHull - target.Hull
	}
	target.Hull += healed
	outcome.Healed = healed
}
