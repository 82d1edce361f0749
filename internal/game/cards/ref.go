package cards

import "fmt"

// RefKind selects which field of an earlier effect's record a back-reference
// reads. A small sum type resolved by switch: chains never sniff structural
// shapes to decide what a reference means.
type RefKind int

const (
	RefPriorTarget RefKind = iota
	RefPriorSourceLane
	RefPriorDestinationLane
	RefPriorCardCost
	RefPriorValue
)

var refKindNames = map[RefKind]string{
	RefPriorTarget:          "PRIOR_TARGET",
	RefPriorSourceLane:      "PRIOR_SOURCE_LANE",
	RefPriorDestinationLane: "PRIOR_DESTINATION_LANE",
	RefPriorCardCost:        "PRIOR_CARD_COST",
	RefPriorValue:           "PRIOR_VALUE",
}

func (k RefKind) String() string {
	if name, ok := refKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("REF_KIND_%d", int(k))
}

// IsLane reports whether the kind reads a lane field of the prior record.
// Lane kinds are only legal in a movement destination; value positions carry
// PRIOR_CARD_COST or PRIOR_VALUE, restrictions carry PRIOR_TARGET.
func (k RefKind) IsLane() bool {
	return k == RefPriorSourceLane || k == RefPriorDestinationLane
}

// ParseRefKind maps a card-file tag to a RefKind.
func ParseRefKind(tag string) (RefKind, error) {
	for kind, name := range refKindNames {
		if name == tag {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown ref kind %q", tag)
}

// Ref points at effect Index earlier in the same chain. At selection time it
// resolves against prior selections; at commit time against prior effect
// results. A Ref to a skipped or null record makes the dependent effect skip
// as well.
type Ref struct {
	Kind  RefKind
	Index int
}
