package effects

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// tokenStats holds the printed stats of spawnable token drones. Unknown
// token names spawn a 1/1/1 chassis.
var tokenStats = map[string]struct {
	Attack, Hull, Speed int
}{
	"Scrap Drone":   {Attack: 1, Hull: 1, Speed: 1},
	"Sentry Drone":  {Attack: 0, Hull: 2, Speed: 1},
	"Striker Drone": {Attack: 2, Hull: 1, Speed: 2},
}

// TokenProcessor spawns a named token drone into the target lane on the
// acting player's side. Token creation respects the same per-lane same-name
// cap that movement enforces.
type TokenProcessor struct{}

func (p *TokenProcessor) Process(effect cards.ChainEffect, ctx *Context) (Outcome, error) {
	lane := ctx.Target.Lane
	if ctx.Target.Kind == targeting.TargetLane {
		lane = ctx.Target.ID
	}
	if lane == "" {
		return Outcome{Handled: true}, &ValidationError{Reason: "token creation requires a lane"}
	}

	if ctx.LaneNameCap > 0 && ctx.Acting.CountInLane(lane, effect.Token) >= ctx.LaneNameCap {
		return Outcome{Handled: true}, &ValidationError{
			Reason: fmt.Sprintf("lane %s already holds %d copies of %s", lane, ctx.LaneNameCap, effect.Token),
		}
	}

	stats, ok := tokenStats[effect.Token]
	if !ok {
		stats.Attack, stats.Hull, stats.Speed = 1, 1, 1
	}

	token := &state.Drone{
		ID:       uuid.NewString(),
		Name:     effect.Token,
		Owner:    ctx.Acting.ID,
		Attack:   stats.Attack,
		Hull:     stats.Hull,
		MaxHull:  stats.Hull,
		Speed:    stats.Speed,
		Token:    true,
		Statuses: make(map[cards.Status]int),
	}
	ctx.Acting.Lanes[lane] = append(ctx.Acting.Lanes[lane], token)

	return Outcome{Handled: true, TokenID: token.ID}, nil
}
