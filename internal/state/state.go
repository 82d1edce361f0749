package state

import (
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
)

// Lane identifiers. Lanes are mirrored: both players field drones into the
// same three lanes, each defended by one of that player's ship sections.
const (
	Lane1 = "lane1"
	Lane2 = "lane2"
	Lane3 = "lane3"
)

// LaneIDs returns the lane identifiers in board order.
func LaneIDs() []string {
	return []string{Lane1, Lane2, Lane3}
}

// AdjacentLanes returns the lanes adjacent to the given lane.
func AdjacentLanes(lane string) []string {
	switch lane {
	case Lane1:
		return []string{Lane2}
	case Lane2:
		return []string{Lane1, Lane3}
	case Lane3:
		return []string{Lane2}
	default:
		return nil
	}
}

// LanesAdjacent reports whether two lanes touch.
func LanesAdjacent(a, b string) bool {
	for _, adj := range AdjacentLanes(a) {
		if adj == b {
			return true
		}
	}
	return false
}

// Keyword is a static ability printed on a drone.
type Keyword string

const (
	// KeywordInfiltrate suppresses exhaustion when moving into a lane the
	// owner does not control.
	KeywordInfiltrate Keyword = "INFILTRATE"
	// KeywordTractorField blocks outbound movement for the opposing
	// player's drones sharing the lane.
	KeywordTractorField Keyword = "TRACTOR_FIELD"
	// KeywordRally grants go-again when an allied drone moves into this
	// drone's lane.
	KeywordRally Keyword = "RALLY"
	// KeywordCommander grants +1 attack to other allied drones in the lane
	// (recomputed as an aura).
	KeywordCommander Keyword = "COMMANDER"
)

// Drone is a board-resident combat unit. Lane membership is held by the
// owning PlayerState's lane collections, not by the drone itself.
type Drone struct {
	ID         string
	Name       string
	Owner      string
	Attack     int
	Hull       int
	MaxHull    int
	Speed      int
	Exhausted  bool
	Token      bool
	CannotMove bool
	AuraAttack int
	TempAttack int // until end of turn
	Keywords   []Keyword
	Statuses   map[cards.Status]int
}

// HasKeyword reports whether the drone carries the keyword.
func (d *Drone) HasKeyword(k Keyword) bool {
	for _, kw := range d.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// HasStatus reports whether the drone carries at least one counter of the
// status.
func (d *Drone) HasStatus(s cards.Status) bool {
	return d.Statuses[s] > 0
}

// Clone deep-copies the drone.
func (d *Drone) Clone() *Drone {
	dup := *d
	dup.Keywords = append([]Keyword(nil), d.Keywords...)
	dup.Statuses = make(map[cards.Status]int, len(d.Statuses))
	for s, n := range d.Statuses {
		dup.Statuses[s] = n
	}
	return &dup
}

// ShipSection is the hull segment defending one lane.
type ShipSection struct {
	Name    string
	Lane    string
	Owner   string
	Hull    int
	MaxHull int
}

// Clone copies the section.
func (s *ShipSection) Clone() *ShipSection {
	dup := *s
	return &dup
}

// PlayerState is one player's full game state. The chain engine treats it as
// an exclusively-owned value: it clones on entry and returns new values, so
// callers never observe in-place mutation.
type PlayerState struct {
	ID          string
	Name        string
	Energy      int
	Momentum    int
	Deck        []*cards.Card
	Hand        []*cards.Card
	DiscardPile []*cards.Card
	Lanes       map[string][]*Drone
	Sections    map[string]*ShipSection
	// Mines maps a lane to the damage dealt to each opposing drone that
	// moves into it. Consumed by the movement-in trigger pass.
	Mines map[string]int
}

// NewPlayerState creates an empty state with initialized lane collections.
func NewPlayerState(id, name string) *PlayerState {
	lanes := make(map[string][]*Drone, 3)
	for _, lane := range LaneIDs() {
		lanes[lane] = nil
	}
	return &PlayerState{
		ID:       id,
		Name:     name,
		Lanes:    lanes,
		Sections: make(map[string]*ShipSection),
		Mines:    make(map[string]int),
	}
}

// Clone deep-copies the player state. Cards are immutable declarations and
// are shared by pointer; everything mutable is copied.
func (p *PlayerState) Clone() *PlayerState {
	dup := &PlayerState{
		ID:          p.ID,
		Name:        p.Name,
		Energy:      p.Energy,
		Momentum:    p.Momentum,
		Deck:        append([]*cards.Card(nil), p.Deck...),
		Hand:        append([]*cards.Card(nil), p.Hand...),
		DiscardPile: append([]*cards.Card(nil), p.DiscardPile...),
		Lanes:       make(map[string][]*Drone, len(p.Lanes)),
		Sections:    make(map[string]*ShipSection, len(p.Sections)),
		Mines:       make(map[string]int, len(p.Mines)),
	}
	for lane, drones := range p.Lanes {
		copied := make([]*Drone, len(drones))
		for i, d := range drones {
			copied[i] = d.Clone()
		}
		dup.Lanes[lane] = copied
	}
	for lane, section := range p.Sections {
		dup.Sections[lane] = section.Clone()
	}
	for lane, dmg := range p.Mines {
		dup.Mines[lane] = dmg
	}
	return dup
}

// FindDrone locates a drone by ID and returns it with its lane.
func (p *PlayerState) FindDrone(id string) (*Drone, string, bool) {
	for _, lane := range LaneIDs() {
		for _, d := range p.Lanes[lane] {
			if d.ID == id {
				return d, lane, true
			}
		}
	}
	return nil, "", false
}

// RemoveDrone removes a drone by ID and returns it with the lane it left.
func (p *PlayerState) RemoveDrone(id string) (*Drone, string, bool) {
	for _, lane := range LaneIDs() {
		for i, d := range p.Lanes[lane] {
			if d.ID == id {
				p.Lanes[lane] = append(p.Lanes[lane][:i], p.Lanes[lane][i+1:]...)
				return d, lane, true
			}
		}
	}
	return nil, "", false
}

// CountInLane returns how many drones with the given name occupy the lane.
func (p *PlayerState) CountInLane(lane, name string) int {
	count := 0
	for _, d := range p.Lanes[lane] {
		if d.Name == name {
			count++
		}
	}
	return count
}

// Draw moves up to n cards from deck to hand and returns them. An empty
// deck draws nothing; there is no reshuffle at this layer.
func (p *PlayerState) Draw(n int) []*cards.Card {
	if n > len(p.Deck) {
		n = len(p.Deck)
	}
	drawn := p.Deck[:n]
	p.Deck = p.Deck[n:]
	p.Hand = append(p.Hand, drawn...)
	return drawn
}

// RemoveFromHand removes a card by ID from the hand.
func (p *PlayerState) RemoveFromHand(cardID string) (*cards.Card, bool) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return nil, false
}
