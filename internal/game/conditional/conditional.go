// Package conditional evaluates the condition→granted-effect rules a card
// attaches to its chain effects, at two timings: PRE, before the primary
// effect fires (may rewrite its magnitude or queue effects that run first),
// and POST, against the primary effect's outcome (may queue further effects
// or grant go-again).
package conditional

import (
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/effects"
	"github.com/dronefall/dronefall-server-go/internal/game/rules"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// Context carries the state the evaluator reads. It never mutates state
// itself; queued effects are routed by the chain committer.
type Context struct {
	Acting   *state.PlayerState
	Opponent *state.PlayerState
	Target   targeting.TargetRef
	Logger   *zap.Logger
}

// PreResult is the PRE pass output: the (possibly rewritten) primary effect
// and any effects that must run before it.
type PreResult struct {
	Effect     cards.ChainEffect
	Additional []cards.ChainEffect
}

// PostResult is the POST pass output.
type PostResult struct {
	Additional    []cards.ChainEffect
	GrantsGoAgain bool
}

// ProcessPre evaluates PRE-timed rules against the about-to-run effect.
// Rules are evaluated independently and in declaration order; each rule's
// condition sees the original target state, not a sibling rule's rewrite.
func ProcessPre(ruleSet []cards.ConditionalRule, effect cards.ChainEffect, ctx *Context) PreResult {
	result := PreResult{Effect: effect}
	for _, rule := range ruleSet {
		if rule.Timing != cards.TimingPre {
			continue
		}
		if !holds(rule.Condition, ctx, nil) {
			continue
		}
		if rule.BonusValue != 0 {
			result.Effect.Value += rule.BonusValue
			if ctx.Logger != nil {
				ctx.Logger.Debug("pre conditional rewrote effect magnitude",
					zap.Int("bonus", rule.BonusValue),
					zap.Int("value", result.Effect.Value),
				)
			}
		}
		if rule.GrantedEffect != nil {
			result.Additional = append(result.Additional, *rule.GrantedEffect)
		}
	}
	return result
}

// ProcessPost evaluates POST-timed rules against the just-produced outcome.
func ProcessPost(ruleSet []cards.ConditionalRule, ctx *Context, outcome effects.Outcome) PostResult {
	var result PostResult
	for _, rule := range ruleSet {
		if rule.Timing != cards.TimingPost {
			continue
		}
		if !holds(rule.Condition, ctx, &outcome) {
			continue
		}
		if rule.GrantedEffect != nil {
			result.Additional = append(result.Additional, *rule.GrantedEffect)
		}
		if rule.GoAgain {
			result.GrantsGoAgain = true
		}
	}
	return result
}

// holds evaluates one condition. The set is closed: extend it by adding a
// case here and a ConditionKind constant in the cards package. Outcome
// conditions never hold at PRE timing (outcome is nil).
func holds(cond cards.Condition, ctx *Context, outcome *effects.Outcome) bool {
	switch cond.Kind {
	case cards.ConditionTargetMarked:
		target, ok := findTarget(ctx)
		return ok && target.HasStatus(cards.StatusMarked)
	case cards.ConditionTargetStatBelow:
		target, ok := findTarget(ctx)
		return ok && rules.EffectiveStat(target, cond.Stat) < cond.Threshold
	case cards.ConditionOutcomeDestroyed:
		return outcome != nil && outcome.WasDestroy()
	case cards.ConditionOutcomeDamaged:
		return outcome != nil && outcome.DamageDealt > 0
	default:
		return false
	}
}

func findTarget(ctx *Context) (*state.Drone, bool) {
	if ctx.Target.Kind != targeting.TargetDrone {
		return nil, false
	}
	for _, side := range []*state.PlayerState{ctx.Acting, ctx.Opponent} {
		if side == nil {
			continue
		}
		if d, _, ok := side.FindDrone(ctx.Target.ID); ok {
			return d, true
		}
	}
	return nil, false
}
