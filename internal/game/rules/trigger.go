package rules

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
)

// Grant is what a fired trigger hands back to the chain engine: an optional
// extra effect to route against a target, and/or a go-again grant.
type Grant struct {
	Effect        *cards.ChainEffect
	TargetDroneID string
	GoAgain       bool
}

// TriggerHook encapsulates the logic for reacting to a specific event and
// producing grants when the conditions are satisfied.
type TriggerHook struct {
	ID        string
	SourceID  string
	Owner     string
	EventType TriggerEventType
	Condition func(Event) bool
	Build     func(Event) Grant
	Once      bool
}

// TriggerManager stores and evaluates trigger hooks against events.
type TriggerManager struct {
	mu    sync.Mutex
	hooks map[string]TriggerHook
	order []string
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{
		hooks: make(map[string]TriggerHook),
	}
}

// Register adds a new hook to the manager.
func (tm *TriggerManager) Register(hook TriggerHook) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if hook.ID == "" {
		hook.ID = uuid.NewString()
	}
	tm.hooks[hook.ID] = hook
	tm.order = append(tm.order, hook.ID)
	return hook.ID
}

// Unregister removes a hook by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.hooks, id)
	for i, hookID := range tm.order {
		if hookID == id {
			tm.order = append(tm.order[:i], tm.order[i+1:]...)
			break
		}
	}
}

// Handle evaluates the provided event against all registered hooks in
// registration order and returns the grants they produce.
func (tm *TriggerManager) Handle(event Event) []Grant {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if len(tm.hooks) == 0 {
		return nil
	}

	var (
		grants   []Grant
		toRemove []string
	)

	for _, id := range tm.order {
		hook, ok := tm.hooks[id]
		if !ok {
			continue
		}
		if hook.EventType != event.Type {
			continue
		}
		if hook.Condition != nil && !hook.Condition(event) {
			continue
		}
		if hook.Build == nil {
			continue
		}

		grants = append(grants, hook.Build(event))
		if hook.Once {
			toRemove = append(toRemove, id)
		}
	}

	for _, id := range toRemove {
		delete(tm.hooks, id)
	}

	return grants
}
