package game

import (
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/rules"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// Shared fixtures for the chain and movement tests.

func newTestEngine(opts ...Option) *ChainEngine {
	return NewChainEngine(zap.NewNop(), opts...)
}

func testDrone(id, name string, attack, hull int) *state.Drone {
	return &state.Drone{
		ID:       id,
		Name:     name,
		Attack:   attack,
		Hull:     hull,
		MaxHull:  hull,
		Speed:    1,
		Statuses: make(map[cards.Status]int),
	}
}

// testPlayers builds a standard two-sided board: the acting player holds a
// Scout in lane1 and a Heavy in lane2, the opponent a Raider in lane1, and
// both fleets have a section guarding lane1.
func testPlayers() (*state.PlayerState, *state.PlayerState) {
	acting := state.NewPlayerState("p1", "One")
	acting.Energy = 5
	acting.Lanes[state.Lane1] = append(acting.Lanes[state.Lane1], testDrone("a1", "Scout", 1, 2))
	acting.Lanes[state.Lane2] = append(acting.Lanes[state.Lane2], testDrone("a2", "Heavy", 3, 4))
	acting.Sections[state.Lane1] = &state.ShipSection{Name: "Bow", Lane: state.Lane1, Owner: "p1", Hull: 5, MaxHull: 5}

	opponent := state.NewPlayerState("p2", "Two")
	opponent.Lanes[state.Lane1] = append(opponent.Lanes[state.Lane1], testDrone("b1", "Raider", 2, 3))
	opponent.Sections[state.Lane1] = &state.ShipSection{Name: "Bow", Lane: state.Lane1, Owner: "p2", Hull: 5, MaxHull: 5}
	return acting, opponent
}

// aiEnv auto-resolves every selection point for the acting seat.
func aiEnv(acting, opponent *state.PlayerState) Env {
	return Env{
		ActingPlayer:   acting,
		OpponentPlayer: opponent,
		LocalPlayerID:  opponent.ID,
		Mode:           ModeVersusAI,
	}
}

// humanEnv suspends at selection points for the acting seat.
func humanEnv(acting, opponent *state.PlayerState) Env {
	return Env{
		ActingPlayer:   acting,
		OpponentPlayer: opponent,
		LocalPlayerID:  acting.ID,
		Mode:           ModeVersusAI,
	}
}

func droneTarget(id, owner, lane string) targeting.Selection {
	return targeting.Selection{
		Target: targeting.TargetRef{Kind: targeting.TargetDrone, ID: id, Owner: owner, Lane: lane},
		Lane:   lane,
	}
}

func cardTarget(id, owner string) targeting.Selection {
	return targeting.Selection{
		Target: targeting.TargetRef{Kind: targeting.TargetCard, ID: id, Owner: owner},
	}
}

// rulesHookOnMoveIn draws a card whenever a drone arrives in the given lane.
func rulesHookOnMoveIn(lane string) rules.TriggerHook {
	return rules.TriggerHook{
		EventType: rules.TriggerOnLaneMoveIn,
		Condition: func(e rules.Event) bool { return e.ToLane == lane },
		Build: func(e rules.Event) rules.Grant {
			return rules.Grant{
				Effect:        &cards.ChainEffect{Kind: cards.KindDraw, Value: 1},
				TargetDroneID: e.DroneID,
			}
		},
	}
}

func eventTypes(events []AnimationEvent) []AnimationEventType {
	out := make([]AnimationEventType, len(events))
	for i, evt := range events {
		out[i] = evt.Type
	}
	return out
}
