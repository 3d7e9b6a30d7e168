package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextProgressPassingScore(t *testing.T) {
	avg, total, prof := NextProgress(80, 4, 60, 100)

	assert.InDelta(t, 84.0, avg, 1e-9)
	assert.Equal(t, 5, total)
	assert.Equal(t, 65, prof)
}

func TestNextProgressFailingScore(t *testing.T) {
	avg, total, prof := NextProgress(50, 2, 20, 40)

	assert.InDelta(t, (50.0*2+40)/3, avg, 1e-9)
	assert.Equal(t, 3, total)
	assert.Equal(t, 22, prof)
}

func TestNextProgressPassBoundary(t *testing.T) {
	// A score of exactly 70 counts as a pass.
	_, _, prof := NextProgress(70, 1, 30, 70)
	assert.Equal(t, 35, prof)

	_, _, prof = NextProgress(70, 1, 30, 69.9)
	assert.Equal(t, 32, prof)
}

func TestNextProgressClampsProficiency(t *testing.T) {
	_, _, prof := NextProgress(90, 10, 98, 95)
	assert.Equal(t, 100, prof)

	_, _, prof = NextProgress(90, 10, 100, 95)
	assert.Equal(t, 100, prof)
}

func TestInitialProficiency(t *testing.T) {
	assert.Equal(t, 30, InitialProficiency(70))
	assert.Equal(t, 30, InitialProficiency(100))
	assert.Equal(t, 15, InitialProficiency(69.9))
	assert.Equal(t, 15, InitialProficiency(0))
}
