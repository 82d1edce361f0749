package conditional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/effects"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

func fixture() *Context {
	acting := state.NewPlayerState("p1", "One")
	opponent := state.NewPlayerState("p2", "Two")
	opponent.Lanes[state.Lane1] = append(opponent.Lanes[state.Lane1], &state.Drone{
		ID:       "b1",
		Name:     "Raider",
		Attack:   2,
		Hull:     3,
		MaxHull:  3,
		Speed:    1,
		Statuses: make(map[cards.Status]int),
	})
	return &Context{
		Acting:   acting,
		Opponent: opponent,
		Target:   targeting.TargetRef{Kind: targeting.TargetDrone, ID: "b1", Owner: "p2", Lane: state.Lane1},
		Logger:   zap.NewNop(),
	}
}

func TestPreBonusValueOnMarkedTarget(t *testing.T) {
	ctx := fixture()
	d, _, _ := ctx.Opponent.FindDrone("b1")
	d.Statuses[cards.StatusMarked] = 1

	ruleSet := []cards.ConditionalRule{{
		Timing:     cards.TimingPre,
		Condition:  cards.Condition{Kind: cards.ConditionTargetMarked},
		BonusValue: 2,
	}}
	eff := cards.ChainEffect{Kind: cards.KindDamage, Value: 2}

	result := ProcessPre(ruleSet, eff, ctx)
	assert.Equal(t, 4, result.Effect.Value)
	assert.Empty(t, result.Additional)
}

func TestPreConditionNotMetLeavesEffectUntouched(t *testing.T) {
	ctx := fixture()
	ruleSet := []cards.ConditionalRule{{
		Timing:     cards.TimingPre,
		Condition:  cards.Condition{Kind: cards.ConditionTargetMarked},
		BonusValue: 2,
	}}
	eff := cards.ChainEffect{Kind: cards.KindDamage, Value: 2}

	result := ProcessPre(ruleSet, eff, ctx)
	assert.Equal(t, 2, result.Effect.Value)
}

func TestPreTargetStatBelow(t *testing.T) {
	ctx := fixture()
	ruleSet := []cards.ConditionalRule{{
		Timing:        cards.TimingPre,
		Condition:     cards.Condition{Kind: cards.ConditionTargetStatBelow, Stat: cards.StatHull, Threshold: 4},
		GrantedEffect: &cards.ChainEffect{Kind: cards.KindGainMomentum, Value: 1},
	}}

	result := ProcessPre(ruleSet, cards.ChainEffect{Kind: cards.KindDamage, Value: 1}, ctx)
	require.Len(t, result.Additional, 1)
	assert.Equal(t, cards.KindGainMomentum, result.Additional[0].Kind)
}

func TestPreIgnoresOutcomeConditions(t *testing.T) {
	// Outcome-shaped conditions can never hold before the effect runs.
	ctx := fixture()
	ruleSet := []cards.ConditionalRule{{
		Timing:     cards.TimingPre,
		Condition:  cards.Condition{Kind: cards.ConditionOutcomeDestroyed},
		BonusValue: 5,
	}}

	result := ProcessPre(ruleSet, cards.ChainEffect{Kind: cards.KindDamage, Value: 1}, ctx)
	assert.Equal(t, 1, result.Effect.Value)
}

func TestPostGoAgainOnDestroy(t *testing.T) {
	ctx := fixture()
	ruleSet := []cards.ConditionalRule{{
		Timing:    cards.TimingPost,
		Condition: cards.Condition{Kind: cards.ConditionOutcomeDestroyed},
		GoAgain:   true,
	}}

	result := ProcessPost(ruleSet, ctx, effects.Outcome{Handled: true, Destroyed: []string{"b1"}})
	assert.True(t, result.GrantsGoAgain)

	result = ProcessPost(ruleSet, ctx, effects.Outcome{Handled: true, DamageDealt: 2})
	assert.False(t, result.GrantsGoAgain)
}

func TestPostGrantedEffectOnDamage(t *testing.T) {
	ctx := fixture()
	ruleSet := []cards.ConditionalRule{{
		Timing:        cards.TimingPost,
		Condition:     cards.Condition{Kind: cards.ConditionOutcomeDamaged},
		GrantedEffect: &cards.ChainEffect{Kind: cards.KindDraw, Value: 1},
	}}

	result := ProcessPost(ruleSet, ctx, effects.Outcome{Handled: true, DamageDealt: 1})
	require.Len(t, result.Additional, 1)
	assert.Equal(t, cards.KindDraw, result.Additional[0].Kind)

	assert.Empty(t, ProcessPost(ruleSet, ctx, effects.Outcome{Handled: true}).Additional)
}

func TestRulesEvaluateIndependently(t *testing.T) {
	ctx := fixture()
	d, _, _ := ctx.Opponent.FindDrone("b1")
	d.Statuses[cards.StatusMarked] = 1

	// Both PRE rules fire against the original target state; bonuses stack.
	ruleSet := []cards.ConditionalRule{
		{
			Timing:     cards.TimingPre,
			Condition:  cards.Condition{Kind: cards.ConditionTargetMarked},
			BonusValue: 1,
		},
		{
			Timing:     cards.TimingPre,
			Condition:  cards.Condition{Kind: cards.ConditionTargetStatBelow, Stat: cards.StatHull, Threshold: 4},
			BonusValue: 2,
		},
	}

	result := ProcessPre(ruleSet, cards.ChainEffect{Kind: cards.KindDamage, Value: 1}, ctx)
	assert.Equal(t, 4, result.Effect.Value)
}
