package effects

import (
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
)

// Router dispatches a stripped chain effect to its processor. Processors
// may be shared across several kinds; the damage processor serves all four
// damage variants by branching on the kind. Unknown kinds resolve to the
// explicit OutcomeNone sentinel with a diagnostic log entry, never an
// error, so data-driven content can declare effects ahead of engine
// support.
type Router struct {
	logger  *zap.Logger
	damage  *DamageProcessor
	support *SupportProcessor
	modify  *ModifyStatProcessor
	destroy *DestroyProcessor
	token   *TokenProcessor
	status  *StatusProcessor
}

// NewRouter builds a router with every processor registered.
func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		logger:  logger,
		damage:  &DamageProcessor{},
		support: &SupportProcessor{},
		modify:  &ModifyStatProcessor{},
		destroy: &DestroyProcessor{},
		token:   &TokenProcessor{},
		status:  &StatusProcessor{},
	}
}

// Route applies the effect through its processor. The switch is exhaustive
// over the closed EffectKind set; movement and discard kinds are served by
// the chain committer's dedicated paths and report as unrouted here.
func (r *Router) Route(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	var processor Processor

	switch effect.Kind {
	case cards.KindDamage, cards.KindScalingDamage, cards.KindSplashDamage, cards.KindOverflowDamage:
		processor = r.damage
	case cards.KindHeal, cards.KindDraw, cards.KindGainEnergy, cards.KindGainMomentum:
		processor = r.support
	case cards.KindModifyStat:
		processor = r.modify
	case cards.KindDestroy:
		processor = r.destroy
	case cards.KindCreateToken:
		processor = r.token
	case cards.KindApplyStatus:
		processor = r.status
	case cards.KindSingleMove, cards.KindMultiMove, cards.KindDiscard, cards.KindSearchAndDraw:
		// Served by dedicated paths in the chain committer.
		r.logger.Warn("effect kind routed outside its dedicated path",
			zap.String("kind", effect.Kind.String()),
		)
		return OutcomeNone, nil
	case cards.KindUnknown:
		r.logger.Info("no processor registered for effect kind",
			zap.String("kind", effect.Kind.String()),
		)
		return OutcomeNone, nil
	default:
		r.logger.Info("no processor registered for effect kind",
			zap.String("kind", effect.Kind.String()),
		)
		return OutcomeNone, nil
	}

	return processor.Process(effect, ctx)
}
