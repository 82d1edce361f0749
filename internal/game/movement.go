package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/effects"
	"github.com/dronefall/dronefall-server-go/internal/game/rules"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// moveResult is the movement path's internal outcome.
type moveResult struct {
	outcome effects.Outcome
	events  []AnimationEvent
	goAgain bool
	pending *SelectionRequest
	// preTriggerSnapshot captures the board immediately before the
	// movement-in trigger pass, so mine/rally animations sequence after
	// the move is visually settled.
	preTriggerSnapshot *state.Snapshot
}

// processMove serves SINGLE_MOVE and MULTI_MOVE. Validation runs over every
// mover before anything mutates: a blocked movement leaves both player
// states exactly as they were before this effect attempted to run.
func (e *ChainEngine) processMove(eff cards.ChainEffect, sel targeting.Selection, index int, acting, opponent *state.PlayerState, actingPlayerID string, env Env) (*moveResult, error) {
	// Human seats drive the selection UI phase by phase; nothing commits
	// until the selection is complete.
	if seatIsHuman(actingPlayerID, env) {
		if sel.Target.IsNone() {
			return &moveResult{pending: &SelectionRequest{
				EffectIndex: index,
				Phase:       PhaseChooseDrone,
				Prompt:      eff.Prompt,
			}}, nil
		}
		if sel.Destination == "" {
			return &moveResult{pending: &SelectionRequest{
				EffectIndex: index,
				Phase:       PhaseChooseDestination,
				Prompt:      eff.Prompt,
			}}, nil
		}
	}

	ownerSide, otherSide := sideOfTarget(sel.Target, acting, opponent)
	if ownerSide == nil {
		return nil, &effects.ValidationError{Reason: "moving drone not found", CancelSelection: true}
	}

	anchor, sourceLane, found := ownerSide.FindDrone(sel.Target.ID)
	if !found {
		return nil, &effects.ValidationError{Reason: "moving drone not found", CancelSelection: true}
	}

	destination := sel.Destination
	if destination == "" {
		// AI auto-resolution: first legal destination.
		tracker := targeting.NewTracker(acting, opponent)
		candidates := targeting.ComputeDestinationTargets(eff.Destination, sel, tracker, e.laneNameCap)
		if len(candidates) == 0 {
			return nil, &effects.ValidationError{Reason: "no legal destination lane", CancelSelection: true}
		}
		destination = candidates[0]
	}

	movers := []*state.Drone{anchor}
	if eff.Kind == cards.KindMultiMove {
		movers = nil
		for _, d := range ownerSide.Lanes[sourceLane] {
			movers = append(movers, d)
			if eff.Count > 0 && len(movers) == eff.Count {
				break
			}
		}
	}

	if err := validateMove(movers, ownerSide, otherSide, sourceLane, destination, e.laneNameCap); err != nil {
		return nil, err
	}

	forced := ownerSide.ID != actingPlayerID
	result := &moveResult{
		outcome: effects.Outcome{
			Handled:  true,
			FromLane: sourceLane,
			ToLane:   destination,
		},
	}

	// Infiltrate suppresses exhaustion only into lanes the owner does not
	// currently control; control is computed before the move commits.
	control := rules.ComputeLaneControl(acting, opponent)

	for _, mover := range movers {
		ownerSide.RemoveDrone(mover.ID)
		if !eff.DoNotExhaust {
			suppressed := mover.HasKeyword(state.KeywordInfiltrate) && control[destination] != ownerSide.ID
			if !suppressed {
				mover.Exhausted = true
			}
		}
		ownerSide.Lanes[destination] = append(ownerSide.Lanes[destination], mover)
		result.outcome.MovedIDs = append(result.outcome.MovedIDs, mover.ID)

		moveEvt := newAnimationEvent(EventDroneMove)
		moveEvt.PlayerID = ownerSide.ID
		moveEvt.TargetID = mover.ID
		moveEvt.LaneID = destination
		result.events = append(result.events, moveEvt)
	}

	// Cascade, in fixed order.
	var deferredGrants []rules.Grant

	// (a) on-move fires for every moved entity regardless of owner; forced
	// enemy movement is covered here.
	for _, mover := range movers {
		evt := rules.NewEvent(rules.TriggerOnMove, mover.ID, ownerSide.ID, actingPlayerID)
		evt.FromLane = sourceLane
		evt.ToLane = destination
		evt.Forced = forced
		e.bus.Publish(evt)
		deferredGrants = append(deferredGrants, e.triggers.Handle(evt)...)
	}

	// (b) lane-move-out fires only for entities the mover's owner controls.
	if !forced {
		for _, mover := range movers {
			evt := rules.NewEvent(rules.TriggerOnLaneMoveOut, mover.ID, ownerSide.ID, actingPlayerID)
			evt.FromLane = sourceLane
			evt.ToLane = destination
			e.bus.Publish(evt)
			deferredGrants = append(deferredGrants, e.triggers.Handle(evt)...)
		}
	}

	// (c) aura recomputation for the owner; a force-moved enemy also dirties
	// the acting player's board.
	rules.RecomputeAuras(ownerSide)
	if forced {
		rules.RecomputeAuras(acting)
	}

	// Snapshot before the movement-in pass so its side effects sequence
	// after the move is visually settled.
	result.preTriggerSnapshot = state.Capture(acting, opponent)
	snapEvt := newAnimationEvent(EventStateSnapshot)
	snapEvt.Snapshot = result.preTriggerSnapshot
	result.events = append(result.events, snapEvt)

	pauseEvt := newAnimationEvent(EventTriggerPause)
	pauseEvt.Duration = e.triggerPause
	result.events = append(result.events, pauseEvt)

	// (d) lane-move-in fires only for owner-controlled entities and is the
	// sole source of movement-triggered side effects and go-again.
	if !forced {
		for _, mover := range movers {
			evt := rules.NewEvent(rules.TriggerOnLaneMoveIn, mover.ID, ownerSide.ID, actingPlayerID)
			evt.FromLane = sourceLane
			evt.ToLane = destination
			e.bus.Publish(evt)
			deferredGrants = append(deferredGrants, e.triggers.Handle(evt)...)
		}
		e.applyArrivalEffects(movers, ownerSide, otherSide, destination, result)
	}

	for _, grant := range deferredGrants {
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
			outcome, err := e.router.Route(grant.Effect.Strip(), ectx)
			if err != nil {
				e.logger.Warn("movement trigger effect rejected", zap.Error(err))
				continue
			}
			if outcome.Handled {
				trigEvt := newAnimationEvent(EventTriggerEffect)
				trigEvt.TargetID = grantTarget.ID
				trigEvt.Effect = grant.Effect.Kind.String()
				result.events = append(result.events, trigEvt)
			}
		}
		if grant.GoAgain && !forced {
			result.goAgain = true
		}
	}

	return result, nil
}

// validateMove checks every mover before any mutation.
func validateMove(movers []*state.Drone, ownerSide, otherSide *state.PlayerState, sourceLane, destination string, laneNameCap int) error {
	if destination != sourceLane {
		if _, ok := ownerSide.Lanes[destination]; !ok {
			return &effects.ValidationError{
				Reason:          fmt.Sprintf("unknown lane %s", destination),
				CancelSelection: true,
			}
		}
	}

	outboundBlocked := false
	for _, enemy := range otherSide.Lanes[sourceLane] {
		if enemy.HasKeyword(state.KeywordTractorField) {
			outboundBlocked = true
			break
		}
	}

	// Incremental cap accounting handles multi-moves delivering several
	// same-named drones at once. A same-lane shuffle adds no copies: each
	// mover vacates the slot it fills, and earlier same-named movers are
	// already counted once in the lane occupancy.
	pendingByName := make(map[string]int)
	for _, mover := range movers {
		if mover.HasStatus(cards.StatusImmobilized) {
			return &effects.ValidationError{
				Reason:          fmt.Sprintf("%s is immobilized", mover.Name),
				CancelSelection: true,
			}
		}
		if mover.CannotMove {
			return &effects.ValidationError{
				Reason:          fmt.Sprintf("%s cannot move", mover.Name),
				CancelSelection: true,
			}
		}
		if outboundBlocked && destination != sourceLane {
			return &effects.ValidationError{
				Reason:          "a tractor field pins this lane",
				CancelSelection: true,
			}
		}

		if laneNameCap > 0 {
			occupied := ownerSide.CountInLane(destination, mover.Name)
			pending := pendingByName[mover.Name]
			if destination == sourceLane {
				occupied--
				pending = 0
			}
			if occupied+pending >= laneNameCap {
				return &effects.ValidationError{
					Reason:          fmt.Sprintf("lane %s already holds %d copies of %s", destination, laneNameCap, mover.Name),
					CancelSelection: true,
				}
			}
			pendingByName[mover.Name]++
		}
	}
	return nil
}

// applyArrivalEffects resolves the built-in movement-in consequences:
// minefields laid by the opponent damage each arriving drone, and an allied
// RALLY drone in the destination lane grants go-again.
func (e *ChainEngine) applyArrivalEffects(movers []*state.Drone, ownerSide, otherSide *state.PlayerState, destination string, result *moveResult) {
	if mineDamage := otherSide.Mines[destination]; mineDamage > 0 {
		for _, mover := range movers {
			dealt := mineDamage
			if dealt > mover.Hull {
				dealt = mover.Hull
			}
			mover.Hull -= dealt
			result.outcome.DamageDealt += dealt

			mineEvt := newAnimationEvent(EventTriggerEffect)
			mineEvt.Effect = "MINE_DETONATION"
			mineEvt.TargetID = mover.ID
			mineEvt.LaneID = destination
			mineEvt.Amount = dealt
			result.events = append(result.events, mineEvt)

			if mover.Hull <= 0 {
				ownerSide.RemoveDrone(mover.ID)
				result.outcome.Destroyed = append(result.outcome.Destroyed, mover.ID)
			}
		}
		delete(otherSide.Mines, destination)
	}

	moved := make(map[string]bool, len(movers))
	for _, mover := range movers {
		moved[mover.ID] = true
	}
	for _, ally := range ownerSide.Lanes[destination] {
		if moved[ally.ID] {
			continue
		}
		if ally.HasKeyword(state.KeywordRally) {
			result.goAgain = true

			rallyEvt := newAnimationEvent(EventTriggerEffect)
			rallyEvt.Effect = "RALLY"
			rallyEvt.TargetID = ally.ID
			rallyEvt.LaneID = destination
			result.events = append(result.events, rallyEvt)
			break
		}
	}
}

func sideOfTarget(target targeting.TargetRef, acting, opponent *state.PlayerState) (owner, other *state.PlayerState) {
	if _, _, ok := acting.FindDrone(target.ID); ok {
		return acting, opponent
	}
	if _, _, ok := opponent.FindDrone(target.ID); ok {
		return opponent, acting
	}
	return nil, nil
}
