package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/conditional"
	"github.com/dronefall/dronefall-server-go/internal/game/effects"
	"github.com/dronefall/dronefall-server-go/internal/game/rules"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// GameMode decides which seats are human-driven. Human seats suspend at
// movement and search selection points; AI seats auto-resolve them.
type GameMode string

const (
	ModeLocal    GameMode = "local"
	ModeVersusAI GameMode = "vs_ai"
)

// Env bundles the real player-state pair and call context for one chain
// commit. The engine clones both states on entry; the caller must adopt the
// returned states as the new source of truth and discard its references.
type Env struct {
	ActingPlayer   *state.PlayerState
	OpponentPlayer *state.PlayerState
	LocalPlayerID  string
	Mode           GameMode
}

// EffectResult is the per-effect commit-time record. One result is appended
// per declared effect, nulls included for skipped ones: no effect is ever
// dropped from the accounting.
type EffectResult struct {
	Target          *targeting.TargetRef
	SourceLane      string
	DestinationLane string
	CardCost        *cards.Card
	Outcome         *effects.Outcome
	Skipped         bool
	SkipReason      string
}

// SelectionPhase names which choice a suspended human flow must drive next.
type SelectionPhase string

const (
	PhaseChooseDrone       SelectionPhase = "drone"
	PhaseChooseDestination SelectionPhase = "destination"
	PhaseChooseCard        SelectionPhase = "card"
)

// SelectionRequest marks a chain that suspended awaiting human input. No
// state was touched for the pending effect; the caller re-invokes commit
// with a complete selection, or abandons the chain (effects committed
// before the suspension point remain committed).
type SelectionRequest struct {
	EffectIndex int
	Phase       SelectionPhase
	Prompt      string
}

// ChainResult is the outcome of one chain commit. ActingState and
// OpponentState are fresh values; the caller's inputs were not mutated.
type ChainResult struct {
	ActingState   *state.PlayerState
	OpponentState *state.PlayerState
	ShouldEndTurn bool
	Events        []AnimationEvent
	Results       []EffectResult
	Pending       *SelectionRequest
}

// ChainEngine is the top-level orchestrator: it pays costs, iterates a
// card's effects in declaration order, resolves back-references, runs the
// conditional evaluator and effect router per effect, accumulates the
// animation event stream, and decides turn continuation.
type ChainEngine struct {
	logger       *zap.Logger
	router       *effects.Router
	triggers     *rules.TriggerManager
	bus          *rules.EventBus
	laneNameCap  int
	triggerPause time.Duration
}

// Option configures a ChainEngine.
type Option func(*ChainEngine)

// WithLaneNameCap overrides the per-lane same-name drone cap.
func WithLaneNameCap(cap int) Option {
	return func(e *ChainEngine) { e.laneNameCap = cap }
}

// WithTriggerPause overrides the fixed pause before deferred trigger
// animations.
func WithTriggerPause(d time.Duration) Option {
	return func(e *ChainEngine) { e.triggerPause = d }
}

// NewChainEngine creates an engine with default tuning.
func NewChainEngine(logger *zap.Logger, opts ...Option) *ChainEngine {
	e := &ChainEngine{
		logger:       logger,
		router:       effects.NewRouter(logger),
		triggers:     rules.NewTriggerManager(),
		bus:          rules.NewEventBus(),
		laneNameCap:  2,
		triggerPause: 900 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Triggers exposes the trigger manager so card setup and tests can register
// hooks.
func (e *ChainEngine) Triggers() *rules.TriggerManager {
	return e.triggers
}

// Bus exposes the event bus for spectator subscriptions.
func (e *ChainEngine) Bus() *rules.EventBus {
	return e.bus
}

// LaneNameCap returns the configured per-lane same-name cap.
func (e *ChainEngine) LaneNameCap() int {
	return e.laneNameCap
}

// ProcessEffectChain commits one card play. Selections are positional:
// selection i corresponds to effect i. On an effect-level validation
// failure the returned error is a *effects.ValidationError and the result
// carries the state as of the effects already committed; the chain is a
// documented partial commit, never rolled back wholesale.
func (e *ChainEngine) ProcessEffectChain(card *cards.Card, selections []targeting.Selection, actingPlayerID string, env Env) (*ChainResult, error) {
	if card == nil {
		return nil, errors.New("no card to commit")
	}
	if env.ActingPlayer == nil || env.OpponentPlayer == nil {
		return nil, errors.New("both player states are required")
	}

	acting := env.ActingPlayer.Clone()
	opponent := env.OpponentPlayer.Clone()

	if acting.Energy < card.Cost.Energy || acting.Momentum < card.Cost.Momentum {
		return nil, &effects.ValidationError{
			Reason:          fmt.Sprintf("cannot pay cost of %s", card.Name),
			CancelSelection: true,
		}
	}
	acting.Energy -= card.Cost.Energy
	acting.Momentum -= card.Cost.Momentum

	result := &ChainResult{
		ActingState:   acting,
		OpponentState: opponent,
	}
	e.emitRevealEvents(card, selections, actingPlayerID, acting, opponent, result)

	goAgain := card.GoAgain

	for i, eff := range card.Effects {
		sel, ok := selectionAt(selections, i)
		if !ok || sel.Skipped {
			e.recordSkip(result, i, "no selection")
			continue
		}

		// A board-resident target must still be alive in the current,
		// already-mutated state; an earlier effect killing it voids this one.
		if eff.Targeting.Scope != cards.ScopeNone && sel.Target.Kind == targeting.TargetDrone {
			if !droneAlive(sel.Target.ID, acting, opponent) {
				e.recordSkip(result, i, "stale target")
				continue
			}
		}

		stripped := eff.Strip()
		if eff.ValueRef != nil {
			value, refOK := resolveValueRef(*eff.ValueRef, result.Results)
			if !refOK {
				// Chains never substitute a default for a void reference.
				e.recordSkip(result, i, "back-reference void")
				continue
			}
			stripped.Value = value
			stripped.ValueRef = nil
		}

		ectx := &effects.Context{
			Acting:         acting,
			Opponent:       opponent,
			ActingPlayerID: actingPlayerID,
			Target:         sel.Target,
			LaneNameCap:    e.laneNameCap,
			Logger:         e.logger,
		}
		cctx := &conditional.Context{
			Acting:   acting,
			Opponent: opponent,
			Target:   sel.Target,
			Logger:   e.logger,
		}

		pre := conditional.ProcessPre(eff.Conditionals, stripped, cctx)
		stripped = pre.Effect
		for _, extra := range pre.Additional {
			e.routeSideEffect(extra, sel.Target, ectx, result)
		}

		var (
			outcome effects.Outcome
			err     error
			record  EffectResult
		)
		switch {
		case eff.Kind.IsMovement():
			if eff.Destination != nil && eff.Destination.Ref != nil {
				lane, refOK := resolveLaneRef(*eff.Destination.Ref, result.Results)
				if !refOK {
					e.recordSkip(result, i, "back-reference void")
					continue
				}
				sel.Destination = lane
			}
			mv, moveErr := e.processMove(eff, sel, i, acting, opponent, actingPlayerID, env)
			if moveErr != nil {
				// Structured validation failure: nothing committed for this
				// effect, everything before it stays committed.
				return result, moveErr
			}
			if mv.pending != nil {
				result.Pending = mv.pending
				return result, nil
			}
			outcome = mv.outcome
			result.Events = append(result.Events, mv.events...)
			if mv.goAgain {
				goAgain = true
			}
			record.SourceLane = mv.outcome.FromLane
			record.DestinationLane = mv.outcome.ToLane
		case eff.Kind == cards.KindDiscard:
			outcome, record.CardCost, err = e.processDiscard(sel, acting)
			if err != nil {
				return result, err
			}
			e.emitEffectEvent(eff.Kind, sel.Target, actingPlayerID, outcome, result)
		case eff.Kind == cards.KindSearchAndDraw:
			var pending *SelectionRequest
			outcome, pending = e.processSearch(stripped, sel, i, acting, actingPlayerID, env)
			if pending != nil {
				result.Pending = pending
				return result, nil
			}
			e.emitEffectEvent(eff.Kind, sel.Target, actingPlayerID, outcome, result)
		default:
			outcome, err = e.router.Route(stripped, ectx)
			if err != nil {
				return result, err
			}
			if !outcome.Handled {
				e.logger.Info("skipping effect with no processor",
					zap.String("card", card.ID),
					zap.Int("effect", i),
					zap.String("kind", eff.Kind.String()),
				)
				e.recordSkip(result, i, "no processor")
				continue
			}
			e.emitEffectEvent(eff.Kind, sel.Target, actingPlayerID, outcome, result)
		}

		e.publishDestroyed(outcome, actingPlayerID)

		post := conditional.ProcessPost(eff.Conditionals, cctx, outcome)
		for _, extra := range post.Additional {
			e.routeSideEffect(extra, sel.Target, ectx, result)
		}
		if post.GrantsGoAgain {
			goAgain = true
		}

		target := sel.Target
		record.Target = &target
		if record.SourceLane == "" {
			record.SourceLane = sel.Lane
		}
		record.Outcome = &outcome
		result.Results = append(result.Results, record)
	}

	// Card-level trigger hook against the fully-updated state.
	playedEvt := rules.NewEvent(rules.TriggerOnCardPlayed, "", actingPlayerID, actingPlayerID)
	playedEvt.CardID = card.ID
	e.bus.Publish(playedEvt)
	for _, grant := range e.triggers.Handle(playedEvt) {
		if grant.Effect != nil {
			grantTarget := grantTargetRef(grant, acting, opponent)
			ectx := &effects.Context{
				Acting:         acting,
				Opponent:       opponent,
				ActingPlayerID: actingPlayerID,
				Target:         grantTarget,
				LaneNameCap:    e.laneNameCap,
				Logger:         e.logger,
			}
			e.routeSideEffect(*grant.Effect, grantTarget, ectx, result)
		}
		if grant.GoAgain {
			goAgain = true
		}
	}

	// Finalize: played card leaves hand for the discard pile.
	if removed, ok := acting.RemoveFromHand(card.ID); ok {
		acting.DiscardPile = append(acting.DiscardPile, removed)
	}

	result.ShouldEndTurn = !goAgain
	return result, nil
}

func selectionAt(selections []targeting.Selection, i int) (targeting.Selection, bool) {
	if i >= len(selections) {
		return targeting.Selection{}, false
	}
	return selections[i], true
}

func droneAlive(id string, acting, opponent *state.PlayerState) bool {
	if _, _, ok := acting.FindDrone(id); ok {
		return true
	}
	_, _, ok := opponent.FindDrone(id)
	return ok
}

// resolveValueRef turns a back-reference into a concrete magnitude using
// prior effect results. Only the value-bearing ref kinds resolve here; a
// reference to a skipped or null record fails, which skips the dependent
// effect.
func resolveValueRef(ref cards.Ref, results []EffectResult) (int, bool) {
	if ref.Index < 0 || ref.Index >= len(results) {
		return 0, false
	}
	prior := results[ref.Index]
	if prior.Skipped {
		return 0, false
	}
	switch ref.Kind {
	case cards.RefPriorCardCost:
		if prior.CardCost == nil {
			return 0, false
		}
		return prior.CardCost.Cost.Energy, true
	case cards.RefPriorValue:
		if prior.Outcome == nil {
			return 0, false
		}
		return prior.Outcome.ValueUsed, true
	default:
		return 0, false
	}
}

// resolveLaneRef turns a lane-kind back-reference into a destination lane
// using prior effect results. Only movement records carry lanes, so a
// reference to anything else fails and skips the dependent effect.
func resolveLaneRef(ref cards.Ref, results []EffectResult) (string, bool) {
	if ref.Index < 0 || ref.Index >= len(results) {
		return "", false
	}
	prior := results[ref.Index]
	if prior.Skipped {
		return "", false
	}
	switch ref.Kind {
	case cards.RefPriorSourceLane:
		return prior.SourceLane, prior.SourceLane != ""
	case cards.RefPriorDestinationLane:
		return prior.DestinationLane, prior.DestinationLane != ""
	default:
		return "", false
	}
}

func (e *ChainEngine) recordSkip(result *ChainResult, index int, reason string) {
	e.logger.Debug("effect skipped",
		zap.Int("effect", index),
		zap.String("reason", reason),
	)
	result.Results = append(result.Results, EffectResult{Skipped: true, SkipReason: reason})
}

// routeSideEffect runs a conditional- or trigger-granted effect through the
// router immediately, against the granting effect's target.
func (e *ChainEngine) routeSideEffect(extra cards.ChainEffect, target targeting.TargetRef, ectx *effects.Context, result *ChainResult) {
	sideCtx := *ectx
	sideCtx.Target = target
	outcome, err := e.router.Route(extra.Strip(), &sideCtx)
	if err != nil {
		e.logger.Warn("granted side effect rejected", zap.Error(err))
		return
	}
	if !outcome.Handled {
		return
	}
	e.publishDestroyed(outcome, ectx.ActingPlayerID)
	e.emitEffectEvent(extra.Kind, target, ectx.ActingPlayerID, outcome, result)
}

func (e *ChainEngine) publishDestroyed(outcome effects.Outcome, actorID string) {
	for _, id := range outcome.Destroyed {
		evt := rules.NewEvent(rules.TriggerOnDestroyed, id, "", actorID)
		e.bus.Publish(evt)
	}
}

func (e *ChainEngine) emitEffectEvent(kind cards.EffectKind, target targeting.TargetRef, actorID string, outcome effects.Outcome, result *ChainResult) {
	evt := newAnimationEvent(EventEffectAnimation)
	evt.PlayerID = actorID
	evt.Effect = kind.String()
	evt.TargetID = target.ID
	evt.LaneID = target.Lane
	evt.Amount = outcome.DamageDealt + outcome.Healed + outcome.CardsDrawn
	result.Events = append(result.Events, evt)
}

// emitRevealEvents emits CARD_REVEAL and, when the card declares a visual
// and effect 0 has a resolved target, a CARD_VISUAL located by finding the
// target in the copied board.
func (e *ChainEngine) emitRevealEvents(card *cards.Card, selections []targeting.Selection, actingPlayerID string, acting, opponent *state.PlayerState, result *ChainResult) {
	reveal := newAnimationEvent(EventCardReveal)
	reveal.CardID = card.ID
	reveal.PlayerID = actingPlayerID
	result.Events = append(result.Events, reveal)

	if card.VisualEffect == "" || len(selections) == 0 {
		return
	}
	first := selections[0]
	if first.Skipped || first.Target.IsNone() {
		return
	}

	visual := newAnimationEvent(EventCardVisual)
	visual.CardID = card.ID
	visual.Effect = card.VisualEffect

	switch first.Target.Kind {
	case targeting.TargetDrone:
		for _, side := range []*state.PlayerState{acting, opponent} {
			if _, lane, ok := side.FindDrone(first.Target.ID); ok {
				visual.PlayerID = side.ID
				visual.LaneID = lane
				break
			}
		}
	case targeting.TargetSection:
		visual.PlayerID = first.Target.Owner
		visual.LaneID = first.Target.Lane
	case targeting.TargetLane:
		visual.LaneID = first.Target.ID
		affinity := card.Effects[0].Targeting.Affinity
		switch affinity {
		case cards.AffinitySelf, cards.AffinityAlly:
			visual.PlayerID = acting.ID
		case cards.AffinityEnemy:
			visual.PlayerID = opponent.ID
		default:
			// An ANY-affinity lane visual renders centered and unowned.
			visual.Centered = true
		}
	}
	result.Events = append(result.Events, visual)
}

// processDiscard serves DISCARD through its dedicated path: the selected
// card leaves the hand for the discard pile and is recorded as the effect's
// CardCost so later effects can back-reference it.
func (e *ChainEngine) processDiscard(sel targeting.Selection, acting *state.PlayerState) (effects.Outcome, *cards.Card, error) {
	if sel.Target.Kind != targeting.TargetCard {
		return effects.Outcome{}, nil, &effects.ValidationError{Reason: "discard requires a hand card"}
	}
	removed, ok := acting.RemoveFromHand(sel.Target.ID)
	if !ok {
		return effects.Outcome{}, nil, &effects.ValidationError{Reason: "selected card is not in hand"}
	}
	acting.DiscardPile = append(acting.DiscardPile, removed)
	return effects.Outcome{Handled: true, ValueUsed: removed.Cost.Energy}, removed, nil
}

// processSearch serves SEARCH_AND_DRAW. Human seats suspend for the card
// choice; AI seats auto-pick the first deck card matching the name filter.
func (e *ChainEngine) processSearch(eff cards.ChainEffect, sel targeting.Selection, index int, acting *state.PlayerState, actingPlayerID string, env Env) (effects.Outcome, *SelectionRequest) {
	pick := func(cardID string) effects.Outcome {
		for i, c := range acting.Deck {
			if c.ID == cardID {
				acting.Deck = append(acting.Deck[:i], acting.Deck[i+1:]...)
				acting.Hand = append(acting.Hand, c)
				return effects.Outcome{Handled: true, CardsDrawn: 1}
			}
		}
		return effects.Outcome{Handled: true}
	}

	if sel.Target.Kind == targeting.TargetCard && sel.Target.ID != "" {
		return pick(sel.Target.ID), nil
	}

	if seatIsHuman(actingPlayerID, env) {
		return effects.Outcome{}, &SelectionRequest{
			EffectIndex: index,
			Phase:       PhaseChooseCard,
			Prompt:      eff.Prompt,
		}
	}

	for _, c := range acting.Deck {
		if eff.Token == "" || strings.Contains(c.Name, eff.Token) {
			return pick(c.ID), nil
		}
	}
	return effects.Outcome{Handled: true}, nil
}

func seatIsHuman(playerID string, env Env) bool {
	if env.Mode == ModeVersusAI {
		return playerID == env.LocalPlayerID
	}
	return true
}

func grantTargetRef(grant rules.Grant, acting, opponent *state.PlayerState) targeting.TargetRef {
	if grant.TargetDroneID == "" {
		return targeting.TargetRef{Kind: targeting.TargetNone}
	}
	for _, side := range []*state.PlayerState{acting, opponent} {
		if _, lane, ok := side.FindDrone(grant.TargetDroneID); ok {
			return targeting.TargetRef{
				Kind:  targeting.TargetDrone,
				ID:    grant.TargetDroneID,
				Owner: side.ID,
				Lane:  lane,
			}
		}
	}
	return targeting.TargetRef{Kind: targeting.TargetNone}
}
