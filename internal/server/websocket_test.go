package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

func TestToSelections(t *testing.T) {
	dtos := []selectionDTO{
		{TargetKind: "DRONE", TargetID: "d1", TargetOwner: "p1", Lane: "lane1", Destination: "lane2"},
		{Skipped: true},
	}

	out := toSelections(dtos)
	require.Len(t, out, 2)
	assert.Equal(t, targeting.TargetDrone, out[0].Target.Kind)
	assert.Equal(t, "d1", out[0].Target.ID)
	assert.Equal(t, "lane2", out[0].Destination)
	assert.True(t, out[1].Skipped)
}

func TestApplyPriorToTracker(t *testing.T) {
	acting := state.NewPlayerState("p1", "One")
	acting.Lanes[state.Lane1] = append(acting.Lanes[state.Lane1], &state.Drone{
		ID: "d1", Name: "Scout", Hull: 2, MaxHull: 2,
	})
	acting.Hand = append(acting.Hand, &cards.Card{ID: "c1"})
	opponent := state.NewPlayerState("p2", "Two")

	card := &cards.Card{
		ID: "c_combo",
		Effects: []cards.ChainEffect{
			{Kind: cards.KindSingleMove, Targeting: cards.Targeting{Scope: cards.ScopeDrone}},
			{Kind: cards.KindDiscard, Targeting: cards.Targeting{Scope: cards.ScopeHandCard}},
		},
	}
	prior := []targeting.Selection{
		{
			Target:      targeting.TargetRef{Kind: targeting.TargetDrone, ID: "d1", Owner: "p1", Lane: state.Lane1},
			Destination: state.Lane2,
		},
		{Target: targeting.TargetRef{Kind: targeting.TargetCard, ID: "c1", Owner: "p1"}},
	}

	tracker := targeting.NewTracker(acting, opponent)
	applyPriorToTracker(prior, card, tracker)

	lane, ok := tracker.LaneOf("d1")
	require.True(t, ok)
	assert.Equal(t, state.Lane2, lane)
	assert.True(t, tracker.IsDiscarded("c1"))
}
