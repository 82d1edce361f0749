package cards

// EffectKind identifies what a chain effect does. The set is closed and the
// effect router switches over it exhaustively; KindUnknown exists so that
// data-driven card files may declare effects this engine does not implement
// yet without breaking the cards that carry them.
type EffectKind int

const (
	KindUnknown EffectKind = iota
	KindDamage
	KindScalingDamage
	KindSplashDamage
	KindOverflowDamage
	KindHeal
	KindDraw
	KindSearchAndDraw
	KindGainEnergy
	KindGainMomentum
	KindModifyStat
	KindDestroy
	KindCreateToken
	KindApplyStatus
	KindSingleMove
	KindMultiMove
	KindDiscard
)

var kindNames = map[EffectKind]string{
	KindUnknown:        "UNKNOWN",
	KindDamage:         "DAMAGE",
	KindScalingDamage:  "SCALING_DAMAGE",
	KindSplashDamage:   "SPLASH_DAMAGE",
	KindOverflowDamage: "OVERFLOW_DAMAGE",
	KindHeal:           "HEAL",
	KindDraw:           "DRAW",
	KindSearchAndDraw:  "SEARCH_AND_DRAW",
	KindGainEnergy:     "GAIN_ENERGY",
	KindGainMomentum:   "GAIN_MOMENTUM",
	KindModifyStat:     "MODIFY_STAT",
	KindDestroy:        "DESTROY",
	KindCreateToken:    "CREATE_TOKEN",
	KindApplyStatus:    "APPLY_STATUS",
	KindSingleMove:     "SINGLE_MOVE",
	KindMultiMove:      "MULTI_MOVE",
	KindDiscard:        "DISCARD",
}

func (k EffectKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseEffectKind maps a card-file tag to an EffectKind. Unrecognized tags
// parse as KindUnknown rather than failing the whole card file; the router
// skips them at commit time.
func ParseEffectKind(tag string) EffectKind {
	for kind, name := range kindNames {
		if name == tag {
			return kind
		}
	}
	return KindUnknown
}

// IsMovement reports whether the kind is served by the dedicated movement
// path instead of the effect router.
func (k EffectKind) IsMovement() bool {
	return k == KindSingleMove || k == KindMultiMove
}

// Stat identifies a drone stat for modifications and restrictions.
type Stat string

const (
	StatAttack Stat = "ATTACK"
	StatHull   Stat = "HULL"
	StatSpeed  Stat = "SPEED"
)

// Status is a named status keyword a drone can carry.
type Status string

const (
	StatusImmobilized Status = "IMMOBILIZED"
	StatusMarked      Status = "MARKED"
	StatusCorroded    Status = "CORRODED"
)

// Affinity restricts which side's entities an effect may target.
type Affinity string

const (
	AffinitySelf  Affinity = "SELF"
	AffinityAlly  Affinity = "ALLY"
	AffinityEnemy Affinity = "ENEMY"
	AffinityAny   Affinity = "ANY"
)

// TargetScope describes what class of entity the effect targets. ScopeNone
// marks effects that act without a target (draw, energy gain).
type TargetScope string

const (
	ScopeNone     TargetScope = "NONE"
	ScopeDrone    TargetScope = "DRONE"
	ScopeSection  TargetScope = "SECTION"
	ScopeLane     TargetScope = "LANE"
	ScopeHandCard TargetScope = "HAND_CARD"
)

// CompareOp is a restriction comparison operator.
type CompareOp string

const (
	OpLT  CompareOp = "LT"
	OpLTE CompareOp = "LTE"
	OpGT  CompareOp = "GT"
	OpGTE CompareOp = "GTE"
	OpEQ  CompareOp = "EQ"
)

// Restriction narrows a candidate set by a stat comparison. When Ref is set
// the comparison is against the referenced effect's resolved target instead
// of the literal Value.
type Restriction struct {
	Stat  Stat
	Op    CompareOp
	Value int
	Ref   *Ref
}

// Targeting describes which entities an effect may legally select.
type Targeting struct {
	Affinity     Affinity
	Scope        TargetScope
	Lane         string // restrict candidates to one lane; empty means any
	Restrictions []Restriction
}

// Destination selects where a movement-class effect may deliver its target.
// When Ref is set the destination is not a choice at all: it is the source or
// destination lane of an earlier effect, resolved at commit time.
type Destination struct {
	Lane     string // fixed lane; empty means player-chosen
	Adjacent bool   // destination must be adjacent to the target's own lane
	Ref      *Ref
}

// Timing separates conditional rules evaluated before the primary effect
// from rules evaluated against its outcome.
type Timing string

const (
	TimingPre  Timing = "PRE"
	TimingPost Timing = "POST"
)

// ConditionKind enumerates the supported condition families. Extending the
// evaluator means adding a case here and in the conditional package.
type ConditionKind string

const (
	ConditionTargetMarked     ConditionKind = "TARGET_MARKED"
	ConditionTargetStatBelow  ConditionKind = "TARGET_STAT_BELOW"
	ConditionOutcomeDestroyed ConditionKind = "OUTCOME_DESTROYED"
	ConditionOutcomeDamaged   ConditionKind = "OUTCOME_DAMAGED"
)

// Condition is a predicate evaluated by the conditional evaluator.
type Condition struct {
	Kind      ConditionKind
	Stat      Stat
	Threshold int
}

// ConditionalRule attaches a PRE or POST hook to a chain effect. Exactly one
// of GrantedEffect, BonusValue, or GoAgain is expected to be meaningful; a
// PRE rule may rewrite the primary effect's magnitude via BonusValue or
// queue GrantedEffect to run before it, a POST rule may queue GrantedEffect
// against the same target or grant GoAgain.
type ConditionalRule struct {
	Timing        Timing
	Condition     Condition
	GrantedEffect *ChainEffect
	BonusValue    int
	GoAgain       bool
}

// ChainEffect is one link of a card's declared effect chain.
type ChainEffect struct {
	Kind  EffectKind
	Value int
	// ValueRef, when set, replaces Value with a number derived from an
	// earlier effect's result at commit time.
	ValueRef *Ref
	Stat     Stat
	Status   Status
	// Token names the drone to spawn (CREATE_TOKEN) or the name filter for
	// SEARCH_AND_DRAW.
	Token string
	// Count is the entity count for MULTI_MOVE and the card count for
	// draw/discard-class effects when Value is not used.
	Count     int
	Permanent bool // MODIFY_STAT: survives end of turn

	Targeting    Targeting
	Destination  *Destination
	Conditionals []ConditionalRule
	Prompt       string
	DoNotExhaust bool
}

// Strip returns the pure parameter set the effect router expects, with the
// chain-only fields (targeting, conditionals, prompt, destination) removed.
func (e ChainEffect) Strip() ChainEffect {
	stripped := e
	stripped.Targeting = Targeting{Scope: ScopeNone}
	stripped.Destination = nil
	stripped.Conditionals = nil
	stripped.Prompt = ""
	return stripped
}

// Cost is a card's play cost.
type Cost struct {
	Energy   int
	Momentum int
}

// Card is an immutable declaration of an ordered effect chain. Cards are
// fixed at data-load time; the engine never mutates them.
type Card struct {
	ID           string
	Name         string
	Cost         Cost
	GoAgain      bool
	VisualEffect string
	Effects      []ChainEffect
}
