package game

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/state"
)

// Replay is the recorded animation event stream of one game, in commit
// order. Replaying the embedded state snapshots reproduces every
// intermediate board configuration the engine passed through, without
// re-running game logic.
type Replay struct {
	GameID string
	Events []AnimationEvent
	mu     sync.RWMutex
}

// NewReplay creates an empty replay for a game.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Append adds a chain's event stream to the replay.
func (r *Replay) Append(events []AnimationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, events...)
}

// Size returns the number of recorded events.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Events)
}

// Snapshots returns the recorded STATE_SNAPSHOT entries in order.
func (r *Replay) Snapshots() []*state.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return SnapshotsOf(r.Events)
}

// Recorder manages replay recording across games.
type Recorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
}

// NewRecorder creates a new replay recorder.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
	}
}

// StartRecording begins recording a game.
func (rr *Recorder) StartRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.replays[gameID] = NewReplay(gameID)
	rr.enabled[gameID] = true

	if rr.logger != nil {
		rr.logger.Info("started replay recording", zap.String("game_id", gameID))
	}
}

// StopRecording stops recording a game without discarding it.
func (rr *Recorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.enabled[gameID] = false
}

// Record appends a chain's event stream if recording is enabled.
func (rr *Recorder) Record(gameID string, events []AnimationEvent) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.Append(events)

	if rr.logger != nil {
		rr.logger.Debug("recorded chain events",
			zap.String("game_id", gameID),
			zap.Int("event_count", replay.Size()),
		)
	}
}

// GetReplay returns the replay for a game.
func (rr *Recorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, exists := rr.replays[gameID]
	return replay, exists
}

// ClearReplay removes a replay from memory.
func (rr *Recorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
}

// IsRecording returns whether recording is enabled for a game.
func (rr *Recorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.enabled[gameID]
}
