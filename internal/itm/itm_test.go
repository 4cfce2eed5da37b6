package itm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardOrigin(t *testing.T) {
	// The projection origin maps exactly onto the false easting/northing.
	e, n := Forward(53.5, -8.0)
	assert.InDelta(t, 600000.0, e, 1e-6)
	assert.InDelta(t, 750000.0, n, 1e-6)
}

func TestForwardDublinRange(t *testing.T) {
	// O'Connell Street area. ITM grid values for central Dublin sit around
	// E 715-716km, N 734-735km.
	e, n := Forward(53.3498, -6.2603)
	assert.InDelta(t, 715800, e, 500)
	assert.InDelta(t, 734700, n, 500)
}

func TestForwardMonotonic(t *testing.T) {
	e1, n1 := Forward(53.30, -6.40)
	e2, _ := Forward(53.30, -6.20) // further east
	_, n3 := Forward(53.40, -6.40) // further north

	assert.Greater(t, e2, e1)
	assert.Greater(t, n3, n1)
}

func TestForwardDistanceScale(t *testing.T) {
	// One degree of latitude is roughly 111km of northing at this latitude.
	_, n1 := Forward(53.0, -6.3)
	_, n2 := Forward(54.0, -6.3)
	assert.InDelta(t, 111250, n2-n1, 500)
}
