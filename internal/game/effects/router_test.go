package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

func TestRouteUnknownKindReturnsSentinel(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindUnknown}, ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, outcome)
	assert.False(t, outcome.Handled)
}

func TestRouteMovementKindsAreNotRouted(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	for _, kind := range []cards.EffectKind{cards.KindSingleMove, cards.KindMultiMove, cards.KindDiscard, cards.KindSearchAndDraw} {
		outcome, err := router.Route(cards.ChainEffect{Kind: kind}, ctx)
		require.NoError(t, err)
		assert.False(t, outcome.Handled, kind.String())
	}
}

func TestSupportDraw(t *testing.T) {
	ctx := damageFixture()
	ctx.Acting.Deck = []*cards.Card{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindDraw, Value: 2}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.CardsDrawn)
	assert.Len(t, ctx.Acting.Hand, 2)
	assert.Len(t, ctx.Acting.Deck, 1)
}

func TestSupportResources(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindGainEnergy, Value: 2}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.EnergyGained)
	assert.Equal(t, 2, ctx.Acting.Energy)

	outcome, err = router.Route(cards.ChainEffect{Kind: cards.KindGainMomentum, Value: 1}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.MomentumGained)
	assert.Equal(t, 1, ctx.Acting.Momentum)
}

func TestSupportHealClampsToMaxHull(t *testing.T) {
	ctx := damageFixture()
	d, _, _ := ctx.Opponent.FindDrone("b1")
	d.Hull = 1
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindHeal, Value: 5}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Healed)
	assert.Equal(t, 3, d.Hull)
}

func TestModifyStatTemporaryAttack(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	_, err := router.Route(cards.ChainEffect{Kind: cards.KindModifyStat, Stat: cards.StatAttack, Value: 2}, ctx)
	require.NoError(t, err)

	d, _, _ := ctx.Opponent.FindDrone("b1")
	assert.Equal(t, 2, d.Attack) // printed stat untouched
	assert.Equal(t, 2, d.TempAttack)
}

func TestModifyStatHullReductionDestroys(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindModifyStat, Stat: cards.StatHull, Value: -3, Permanent: true}, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, outcome.Destroyed)

	_, _, ok := ctx.Opponent.FindDrone("b1")
	assert.False(t, ok)
}

func TestDestroyDrone(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindDestroy}, ctx)
	require.NoError(t, err)
	assert.True(t, outcome.WasDestroy())
	assert.Equal(t, []string{"b1"}, outcome.Destroyed)
}

func TestApplyStatusCounters(t *testing.T) {
	ctx := damageFixture()
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindApplyStatus, Status: cards.StatusCorroded, Value: 2}, ctx)
	require.NoError(t, err)
	assert.Equal(t, cards.StatusCorroded, outcome.StatusApplied)

	d, _, _ := ctx.Opponent.FindDrone("b1")
	assert.Equal(t, 2, d.Statuses[cards.StatusCorroded])

	// Zero value defaults to one counter.
	_, err = router.Route(cards.ChainEffect{Kind: cards.KindApplyStatus, Status: cards.StatusMarked}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Statuses[cards.StatusMarked])
}

func TestCreateTokenInLane(t *testing.T) {
	ctx := damageFixture()
	ctx.Target = targeting.TargetRef{Kind: targeting.TargetLane, ID: state.Lane2, Lane: state.Lane2}
	router := NewRouter(zap.NewNop())

	outcome, err := router.Route(cards.ChainEffect{Kind: cards.KindCreateToken, Token: "Sentry Drone"}, ctx)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.TokenID)

	d, lane, ok := ctx.Acting.FindDrone(outcome.TokenID)
	require.True(t, ok)
	assert.Equal(t, state.Lane2, lane)
	assert.True(t, d.Token)
	assert.Equal(t, 2, d.Hull)
}

func TestCreateTokenRespectsNameCap(t *testing.T) {
	ctx := damageFixture()
	ctx.Target = targeting.TargetRef{Kind: targeting.TargetLane, ID: state.Lane2, Lane: state.Lane2}
	router := NewRouter(zap.NewNop())

	eff := cards.ChainEffect{Kind: cards.KindCreateToken, Token: "Scrap Drone"}
	for i := 0; i < 2; i++ {
		_, err := router.Route(eff, ctx)
		require.NoError(t, err)
	}

	_, err := router.Route(eff, ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, ctx.Acting.Lanes[state.Lane2], 2)
}
