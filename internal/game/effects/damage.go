package effects

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// DamageProcessor serves all damage variants:
//
//	DAMAGE           flat hull damage to the target
//	SCALING_DAMAGE   base value plus the acting player's momentum pool
//	SPLASH_DAMAGE    flat damage to every enemy drone in the target's lane
//	OVERFLOW_DAMAGE  excess past the target's hull spills to the section
//	                 guarding the lane
type DamageProcessor struct{}

// Process applies the damage variant selected by the effect kind.
func (p *DamageProcessor) Process(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	amount := effect.Value
	if effect.Kind == cards.KindScalingDamage {
		amount += ctx.Acting.Momentum
	}

	outcome := Outcome{Handled: true, ValueUsed: amount}
	if amount <= 0 {
		return outcome, nil
	}

	if ctx.Target.Kind == targeting.TargetSection {
		return p.damageSection(amount, ctx)
	}

	target, side, lane, ok := ctx.TargetDrone()
	if !ok {
		return outcome, nil
	}

	switch effect.Kind {
	case cards.KindSplashDamage:
		// Hit every drone in the target's lane on the target's side,
		// including the target itself.
		for _, d := range append([]*state.Drone(nil), side.Lanes[lane]...) {
			p.hitDrone(d, side, amount, &outcome)
		}
	case cards.KindOverflowDamage:
		overflow := amount - target.Hull
		p.hitDrone(target, side, amount, &outcome)
		if overflow > 0 {
			if section, exists := side.Sections[lane]; exists {
				dealt := clampSectionDamage(section, overflow)
				outcome.SectionDamage += dealt
				outcome.DamageDealt += dealt
			}
		}
	default:
		p.hitDrone(target, side, amount, &outcome)
	}

	return outcome, nil
}

func (p *DamageProcessor) damageSection(amount int, ctx *Context) (Outcome, error) {
	outcome := Outcome{Handled: true, ValueUsed: amount}
	side := ctx.SideOf(ctx.Target.Owner)
	section, ok := side.Sections[ctx.Target.Lane]
	if !ok {
		return outcome, nil
	}
	dealt := clampSectionDamage(section, amount)
	outcome.SectionDamage = dealt
	outcome.DamageDealt = dealt
	return outcome, nil
}

func (p *DamageProcessor) hitDrone(d *state.Drone, side *state.PlayerState, amount int, outcome *Outcome) {
	dealt := amount
	if dealt > d.Hull {
		dealt = d.Hull
	}
	d.Hull -= dealt
	outcome.DamageDealt += dealt
	if d.Hull <= 0 {
		side.RemoveDrone(d.ID)
		outcome.Destroyed = append(outcome.Destroyed, d.ID)
	}
}

func clampSectionDamage(section *state.ShipSection, amount int) int {
	if amount > section.Hull {
		amount = section.Hull
	}
	section.Hull -= amount
	return amount
}
