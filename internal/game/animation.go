package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/dronefall/dronefall-server-go/internal/state"
)

// AnimationEventType categorizes an entry of the presentation event stream.
type AnimationEventType string

const (
	// EventCardReveal shows the played card to both seats.
	EventCardReveal AnimationEventType = "CARD_REVEAL"
	// EventCardVisual plays the card's declared visual over the first
	// effect's target lane.
	EventCardVisual AnimationEventType = "CARD_VISUAL"
	// EventStateSnapshot is applied by the presentation layer as an
	// instantaneous state replacement.
	EventStateSnapshot AnimationEventType = "STATE_SNAPSHOT"
	// EventTriggerPause is a fixed-duration beat before deferred trigger
	// animations, giving the viewer time to register the primary action.
	EventTriggerPause AnimationEventType = "TRIGGER_PAUSE"
	// EventEffectAnimation plays one effect's animation.
	EventEffectAnimation AnimationEventType = "EFFECT_ANIMATION"
	// EventDroneMove animates a drone translating between lanes.
	EventDroneMove AnimationEventType = "DRONE_MOVE"
	// EventTriggerEffect plays a movement-triggered side effect (mine
	// detonation, rally) after the pause.
	EventTriggerEffect AnimationEventType = "TRIGGER_EFFECT"
)

// AnimationEvent is an ordered, side-effect-free description of something
// the presentation layer should play. The stream is replayable: applying
// the embedded snapshots in order reproduces every intermediate visual
// state without re-running game logic.
type AnimationEvent struct {
	ID        string
	Type      AnimationEventType
	Timestamp time.Time
	PlayerID  string
	LaneID    string
	TargetID  string
	CardID    string
	Effect    string
	Amount    int
	Duration  time.Duration
	// Centered marks a visual with no owned side (ANY affinity).
	Centered bool
	Snapshot *state.Snapshot
}

func newAnimationEvent(eventType AnimationEventType) AnimationEvent {
	return AnimationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

// SnapshotsOf extracts the STATE_SNAPSHOT entries of an event stream in
// order. Replaying them reproduces each intermediate board configuration.
func SnapshotsOf(events []AnimationEvent) []*state.Snapshot {
	var out []*state.Snapshot
	for _, evt := range events {
		if evt.Type == EventStateSnapshot && evt.Snapshot != nil {
			out = append(out, evt.Snapshot)
		}
	}
	return out
}
