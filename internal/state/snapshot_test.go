package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dronefall/dronefall-server-go/internal/game/cards"
)

func snapshotFixture() (*PlayerState, *PlayerState) {
	a := NewPlayerState("p1", "Player One")
	a.Energy = 3
	a.Lanes[Lane1] = append(a.Lanes[Lane1], testDrone("d1", "Scout", 1, 2))
	a.Sections[Lane1] = &ShipSection{Name: "Bow", Lane: Lane1, Owner: "p1", Hull: 5, MaxHull: 5}

	b := NewPlayerState("p2", "Player Two")
	b.Lanes[Lane2] = append(b.Lanes[Lane2], testDrone("d2", "Heavy", 3, 4))
	return a, b
}

func TestCaptureIsolatesState(t *testing.T) {
	a, b := snapshotFixture()
	snap := Capture(a, b)

	a.Lanes[Lane1][0].Hull = 0
	a.Energy = 0

	assert.Equal(t, 2, snap.Acting.Lanes[Lane1][0].Hull)
	assert.Equal(t, 3, snap.Acting.Energy)
}

func TestChecksumDeterministic(t *testing.T) {
	a, b := snapshotFixture()
	first := Capture(a, b)
	second := Capture(a, b)

	// Identical board states hash identically even though the snapshots were
	// captured at different times.
	assert.Equal(t, first.Checksum(), second.Checksum())
}

func TestChecksumReflectsStateChanges(t *testing.T) {
	a, b := snapshotFixture()
	before := Capture(a, b).Checksum()

	a.Lanes[Lane1][0].Hull--
	afterDamage := Capture(a, b).Checksum()
	assert.NotEqual(t, before, afterDamage)

	a.Lanes[Lane1][0].Hull++
	restored := Capture(a, b).Checksum()
	assert.Equal(t, before, restored)
}

func TestChecksumIgnoresStatusMapOrder(t *testing.T) {
	a, b := snapshotFixture()
	a.Lanes[Lane1][0].Statuses[cards.StatusMarked] = 1
	a.Lanes[Lane1][0].Statuses[cards.StatusCorroded] = 2

	first := Capture(a, b).Checksum()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Capture(a, b).Checksum())
	}
}
