package targeting

// TargetKind discriminates what a resolved target identifies.
type TargetKind string

const (
	TargetNone    TargetKind = "NONE"
	TargetDrone   TargetKind = "DRONE"
	TargetSection TargetKind = "SECTION"
	TargetLane    TargetKind = "LANE"
	TargetCard    TargetKind = "CARD"
)

// TargetRef identifies one selected entity. For drones, Lane is the lane the
// entity occupied when it was selected; the committer re-verifies liveness
// against the mutated state before each effect runs.
type TargetRef struct {
	Kind  TargetKind
	ID    string
	Owner string
	Lane  string
}

// IsNone reports whether the ref identifies nothing.
func (r TargetRef) IsNone() bool {
	return r.Kind == "" || r.Kind == TargetNone || (r.Kind != TargetLane && r.ID == "")
}

// Selection is the caller's resolved choice for one chain effect. Selections
// are positional: selection i corresponds to effect i. A selection is
// Skipped when an earlier effect in the chain invalidated the need for it.
type Selection struct {
	Target      TargetRef
	Lane        string
	Destination string
	Skipped     bool
}
