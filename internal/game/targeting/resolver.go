package targeting

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/rules"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// Context carries the read-only inputs the resolver needs. Both states are
// the caller's real, uncommitted state; the tracker supplies the virtual
// lane membership that overrides them.
type Context struct {
	Acting   *state.PlayerState
	Opponent *state.PlayerState
}

// ComputeChainTargets computes the legal candidate set for effect index in
// a chain, given the selections already made for effects 0..index-1. Pure
// and read-only: the UI calls it on every selection-step render.
func ComputeChainTargets(effect cards.ChainEffect, index int, prior []Selection, tr *Tracker, ctx *Context) []TargetRef {
	switch effect.Targeting.Scope {
	case cards.ScopeNone:
		return nil
	case cards.ScopeDrone:
		return droneCandidates(effect, prior, tr, ctx)
	case cards.ScopeSection:
		return sectionCandidates(effect, ctx)
	case cards.ScopeLane:
		return laneCandidates(effect)
	case cards.ScopeHandCard:
		return handCandidates(tr, ctx)
	default:
		return nil
	}
}

func droneCandidates(effect cards.ChainEffect, prior []Selection, tr *Tracker, ctx *Context) []TargetRef {
	var out []TargetRef
	for _, side := range affinitySides(effect.Targeting.Affinity, ctx) {
		for _, lane := range state.LaneIDs() {
			for _, d := range side.Lanes[lane] {
				virtualLane, ok := tr.LaneOf(d.ID)
				if !ok {
					continue
				}
				if effect.Targeting.Lane != "" && virtualLane != effect.Targeting.Lane {
					continue
				}
				if !passesRestrictions(d, effect.Targeting.Restrictions, prior, ctx) {
					continue
				}
				out = append(out, TargetRef{
					Kind:  TargetDrone,
					ID:    d.ID,
					Owner: side.ID,
					Lane:  virtualLane,
				})
			}
		}
	}
	return out
}

func sectionCandidates(effect cards.ChainEffect, ctx *Context) []TargetRef {
	var out []TargetRef
	for _, side := range affinitySides(effect.Targeting.Affinity, ctx) {
		for _, lane := range state.LaneIDs() {
			section, ok := side.Sections[lane]
			if !ok {
				continue
			}
			if effect.Targeting.Lane != "" && lane != effect.Targeting.Lane {
				continue
			}
			out = append(out, TargetRef{
				Kind:  TargetSection,
				ID:    section.Name,
				Owner: side.ID,
				Lane:  lane,
			})
		}
	}
	return out
}

func laneCandidates(effect cards.ChainEffect) []TargetRef {
	var out []TargetRef
	for _, lane := range state.LaneIDs() {
		if effect.Targeting.Lane != "" && lane != effect.Targeting.Lane {
			continue
		}
		out = append(out, TargetRef{Kind: TargetLane, ID: lane, Lane: lane})
	}
	return out
}

func handCandidates(tr *Tracker, ctx *Context) []TargetRef {
	var out []TargetRef
	for _, c := range ctx.Acting.Hand {
		if tr.IsDiscarded(c.ID) {
			continue
		}
		out = append(out, TargetRef{Kind: TargetCard, ID: c.ID, Owner: ctx.Acting.ID})
	}
	return out
}

func affinitySides(affinity cards.Affinity, ctx *Context) []*state.PlayerState {
	switch affinity {
	case cards.AffinitySelf, cards.AffinityAlly:
		return []*state.PlayerState{ctx.Acting}
	case cards.AffinityEnemy:
		return []*state.PlayerState{ctx.Opponent}
	default:
		return []*state.PlayerState{ctx.Acting, ctx.Opponent}
	}
}

// passesRestrictions checks stat restrictions, resolving Ref-based
// comparisons against prior selections. Nothing has committed at selection
// time, so a reference to a skipped or empty selection yields no candidates
// rather than a default value.
func passesRestrictions(d *state.Drone, restrictions []cards.Restriction, prior []Selection, ctx *Context) bool {
	for _, res := range restrictions {
		threshold := res.Value
		if res.Ref != nil {
			referenced, ok := referencedDrone(*res.Ref, prior, ctx)
			if !ok {
				return false
			}
			threshold = rules.EffectiveStat(referenced, res.Stat)
		}
		if !compare(rules.EffectiveStat(d, res.Stat), res.Op, threshold) {
			return false
		}
	}
	return true
}

func referencedDrone(ref cards.Ref, prior []Selection, ctx *Context) (*state.Drone, bool) {
	if ref.Kind != cards.RefPriorTarget {
		return nil, false
	}
	if ref.Index < 0 || ref.Index >= len(prior) {
		return nil, false
	}
	sel := prior[ref.Index]
	if sel.Skipped || sel.Target.IsNone() || sel.Target.Kind != TargetDrone {
		return nil, false
	}
	for _, side := range []*state.PlayerState{ctx.Acting, ctx.Opponent} {
		if d, _, ok := side.FindDrone(sel.Target.ID); ok {
			return d, true
		}
	}
	return nil, false
}

func compare(left int, op cards.CompareOp, right int) bool {
	switch op {
	case cards.OpLT:
		return left < right
	case cards.OpLTE:
		return left <= right
	case cards.OpGT:
		return left > right
	case cards.OpGTE:
		return left >= right
	case cards.OpEQ:
		return left == right
	default:
		return false
	}
}

// ComputeDestinationTargets computes the legal destination lanes for a
// movement-class effect given the already-made target selection. Lane
// occupancy comes from the tracker's virtual positions.
func ComputeDestinationTargets(dest *cards.Destination, sel Selection, tr *Tracker, laneNameCap int) []string {
	if dest == nil || sel.Skipped || sel.Target.IsNone() {
		return nil
	}
	// A ref-bearing destination is no choice at all: the committer resolves
	// it from the referenced effect's record.
	if dest.Ref != nil {
		return nil
	}

	sourceLane, ok := tr.LaneOf(sel.Target.ID)
	if !ok {
		return nil
	}

	var candidates []string
	switch {
	case dest.Lane != "":
		candidates = []string{dest.Lane}
	case dest.Adjacent:
		candidates = state.AdjacentLanes(sourceLane)
	default:
		candidates = state.LaneIDs()
	}

	owner, _ := tr.OwnerOf(sel.Target.ID)
	name, _ := tr.NameOf(sel.Target.ID)

	out := make([]string, 0, len(candidates))
	for _, lane := range candidates {
		if lane == sourceLane {
			continue
		}
		if laneNameCap > 0 && tr.CountInLane(owner, lane, name) >= laneNameCap {
			continue
		}
		out = append(out, lane)
	}
	return out
}
