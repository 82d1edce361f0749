package effects

import (
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// Context carries everything a processor may read or mutate while applying
// one effect. Both player states are the chain committer's working copies;
// processors mutate them directly and the committer owns the copy-on-write
// boundary with its caller.
type Context struct {
	Acting         *state.PlayerState
	Opponent       *state.PlayerState
	ActingPlayerID string
	Target         targeting.TargetRef
	LaneNameCap    int
	Logger         *zap.Logger
}

// SideOf returns the player state owning the given player ID.
func (c *Context) SideOf(playerID string) *state.PlayerState {
	if c.Opponent != nil && c.Opponent.ID == playerID {
		return c.Opponent
	}
	return c.Acting
}

// TargetDrone resolves the context target to a live drone, searching both
// boards. Returns the owning side and current lane alongside the drone.
func (c *Context) TargetDrone() (*state.Drone, *state.PlayerState, string, bool) {
	if c.Target.Kind != targeting.TargetDrone {
		return nil, nil, "", false
	}
	for _, side := range []*state.PlayerState{c.Acting, c.Opponent} {
		if side == nil {
			continue
		}
		if d, lane, ok := side.FindDrone(c.Target.ID); ok {
			return d, side, lane, ok
		}
	}
	return nil, nil, "", false
}

// Outcome is the processor-specific record of what one effect did. Handled
// distinguishes "processed" from the router's no-processor sentinel; the
// other fields feed POST conditionals and back-references.
type Outcome struct {
	Handled        bool
	Destroyed      []string
	DamageDealt    int
	SectionDamage  int
	Healed         int
	CardsDrawn     int
	EnergyGained   int
	MomentumGained int
	TokenID        string
	StatusApplied  cards.Status
	ValueUsed      int

	// Movement results, filled by the dedicated movement path.
	MovedIDs []string
	FromLane string
	ToLane   string
}

// OutcomeNone is the router's "no processor found" sentinel. Callers can
// distinguish "not yet implemented" from "processed but no-op" by Handled.
var OutcomeNone = Outcome{}

// WasDestroy reports whether the effect removed at least one entity.
func (o Outcome) WasDestroy() bool {
	return len(o.Destroyed) > 0
}

// ValidationError reports an effect whose preconditions are not met. It is
// a structured result, never a panic: state is unaffected for this effect,
// but effects committed earlier in the chain stay committed.
type ValidationError struct {
	Reason string
	// CancelSelection tells the caller's multi-step selection UI to abandon
	// the in-progress flow rather than re-prompt.
	CancelSelection bool
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Processor applies one class of effect. The effect it receives has been
// stripped of chain-only fields and has back-references substituted.
type Processor interface {
	Process(effect cards.ChainEffect, ctx *Context) (Outcome, error)
}
