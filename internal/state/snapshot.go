package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Snapshot is a frozen copy of both players' state at one instant. The
// presentation layer applies snapshots as instantaneous state replacements;
// replay tests compare them by checksum.
type Snapshot struct {
	Acting    *PlayerState
	Opponent  *PlayerState
	Timestamp time.Time
}

// Capture deep-copies both player states into a snapshot.
func Capture(acting, opponent *PlayerState) *Snapshot {
	return &Snapshot{
		Acting:    acting.Clone(),
		Opponent:  opponent.Clone(),
		Timestamp: time.Now(),
	}
}

// Checksum computes a deterministic SHA-256 digest of the snapshot. The
// representation sorts every collection by stable keys and excludes the
// capture timestamp, so two snapshots of identical board states hash
// identically regardless of when or in what map order they were built.
func (s *Snapshot) Checksum() string {
	var buf bytes.Buffer
	writePlayer(&buf, s.Acting)
	writePlayer(&buf, s.Opponent)
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

func writePlayer(buf *bytes.Buffer, p *PlayerState) {
	fmt.Fprintf(buf, "PLAYER:%s|%d|%d|%d|%d|%d\n",
		p.ID, p.Energy, p.Momentum, len(p.Deck), len(p.Hand), len(p.DiscardPile))

	for _, c := range p.Hand {
		fmt.Fprintf(buf, "  HAND:%s\n", c.ID)
	}
	for _, c := range p.DiscardPile {
		fmt.Fprintf(buf, "  DISCARD:%s\n", c.ID)
	}

	for _, lane := range LaneIDs() {
		fmt.Fprintf(buf, "  LANE:%s|mine=%d\n", lane, p.Mines[lane])
		lines := make([]string, 0, len(p.Lanes[lane]))
		for _, d := range p.Lanes[lane] {
			statuses := make([]string, 0, len(d.Statuses))
			for status, n := range d.Statuses {
				if n > 0 {
					statuses = append(statuses, fmt.Sprintf("%s=%d", status, n))
				}
			}
			sort.Strings(statuses)
			lines = append(lines, fmt.Sprintf("    DRONE:%s|%s|%d|%d|%d|%t|%v\n",
				d.ID, d.Name, d.Attack+d.AuraAttack+d.TempAttack, d.Hull, d.Speed, d.Exhausted, statuses))
		}
		sort.Strings(lines)
		for _, line := range lines {
			buf.WriteString(line)
		}
		if section, ok := p.Sections[lane]; ok {
			fmt.Fprintf(buf, "    SECTION:%s|%d/%d\n", section.Name, section.Hull, section.MaxHull)
		}
	}
}
