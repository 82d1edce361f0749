package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

func TestRecorderLifecycle(t *testing.T) {
	recorder := NewRecorder(zap.NewNop())

	recorder.StartRecording("game-1")
	assert.True(t, recorder.IsRecording("game-1"))
	assert.False(t, recorder.IsRecording("game-2"))

	recorder.Record("game-1", []AnimationEvent{newAnimationEvent(EventCardReveal)})
	replay, ok := recorder.GetReplay("game-1")
	require.True(t, ok)
	assert.Equal(t, 1, replay.Size())

	// Recording a game that was never started is a no-op.
	recorder.Record("game-2", []AnimationEvent{newAnimationEvent(EventCardReveal)})
	_, ok = recorder.GetReplay("game-2")
	assert.False(t, ok)

	recorder.StopRecording("game-1")
	recorder.Record("game-1", []AnimationEvent{newAnimationEvent(EventCardReveal)})
	assert.Equal(t, 1, replay.Size())

	recorder.ClearReplay("game-1")
	_, ok = recorder.GetReplay("game-1")
	assert.False(t, ok)
}

func TestReplayReproducesIntermediateStates(t *testing.T) {
	engine := newTestEngine()
	recorder := NewRecorder(zap.NewNop())
	recorder.StartRecording("game-1")

	acting, opponent := testPlayers()
	opponent.Mines[state.Lane3] = 1

	card := moveCard(cards.KindSingleMove, cards.AffinityAlly, nil)
	result, err := engine.ProcessEffectChain(card, moveSelection("a2", "p1", state.Lane2, state.Lane3), "p1", aiEnv(acting, opponent))
	require.NoError(t, err)
	recorder.Record("game-1", result.Events)

	replay, ok := recorder.GetReplay("game-1")
	require.True(t, ok)

	// The recorded snapshot reproduces the exact pre-trigger board: replaying
	// it yields the same checksum as a fresh capture of that configuration.
	snaps := replay.Snapshots()
	require.Len(t, snaps, 1)

	expected := acting.Clone()
	mover, _, ok := expected.RemoveDrone("a2")
	require.True(t, ok)
	mover.Exhausted = true
	expected.Lanes[state.Lane3] = append(expected.Lanes[state.Lane3], mover)

	want := (&state.Snapshot{Acting: expected, Opponent: opponent}).Checksum()
	assert.Equal(t, want, snaps[0].Checksum())
}

func TestReplayAppendAccumulates(t *testing.T) {
	replay := NewReplay("game-1")
	replay.Append([]AnimationEvent{newAnimationEvent(EventCardReveal)})
	replay.Append([]AnimationEvent{
		newAnimationEvent(EventDroneMove),
		newAnimationEvent(EventStateSnapshot),
	})
	assert.Equal(t, 3, replay.Size())
	assert.Equal(t, "game-1", replay.GameID)
}
