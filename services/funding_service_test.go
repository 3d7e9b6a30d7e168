package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MUGAIRWA/HACKATHON2/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.StatusPending, models.StatusApproved},
		{models.StatusPending, models.StatusRejected},
		{models.StatusApproved, models.StatusFunded},
		{models.StatusFunded, models.StatusCompleted},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{models.StatusPending, models.StatusFunded},
		{models.StatusPending, models.StatusCompleted},
		{models.StatusApproved, models.StatusRejected},
		{models.StatusApproved, models.StatusCompleted},
		{models.StatusFunded, models.StatusRejected},
		{models.StatusRejected, models.StatusApproved},
		{models.StatusRejected, models.StatusPending},
		{models.StatusCompleted, models.StatusFunded},
		{models.StatusApproved, models.StatusApproved},
		{"", models.StatusApproved},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

// dryRunDB builds SQL without executing it; every statement matches zero
// rows, which is exactly the losing side of a funding race.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestFundRequestRowRejectsWhenNoApprovedRowMatches(t *testing.T) {
	err := fundRequestRow(dryRunDB(t), "req-1", "donor-1", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	statuses := []string{
		models.StatusPending, models.StatusApproved, models.StatusFunded,
		models.StatusCompleted, models.StatusRejected,
	}
	for _, terminal := range []string{models.StatusCompleted, models.StatusRejected} {
		for _, to := range statuses {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}
