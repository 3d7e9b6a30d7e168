package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MUGAIRWA/HACKATHON2/models"
)

func TestExtractSeverity(t *testing.T) {
	tests := []struct {
		response string
		want     string
	}{
		{"This looks like an EMERGENCY, seek help", models.SeverityEmergency},
		{"needs immediate attention", models.SeverityEmergency},
		{"severe dehydration is possible", models.SeveritySevere},
		{"a moderate case of flu", models.SeverityModerate},
		{"sounds like a mild cold", models.SeverityMild},
		{"nothing alarming here", models.SeverityMild},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractSeverity(tt.response), tt.response)
	}
}

func TestExtractSeverityMostSeriousWins(t *testing.T) {
	// Both labels appear; the emergency reading takes precedence.
	got := ExtractSeverity("moderate symptoms but this is an emergency")
	assert.Equal(t, models.SeverityEmergency, got)
}

func TestAssessEmergencyText(t *testing.T) {
	verdict := AssessEmergencyText("Yes, this is an emergency. Immediate action required.")
	assert.True(t, verdict.IsEmergency)
	assert.Equal(t, "immediate", verdict.Urgency)
	assert.Contains(t, verdict.Action, "EMERGENCY SERVICES")

	verdict = AssessEmergencyText("No. This is urgent but not life threatening.")
	assert.False(t, verdict.IsEmergency)
	assert.Equal(t, "urgent", verdict.Urgency)

	verdict = AssessEmergencyText("Not serious. Routine follow up is fine.")
	assert.False(t, verdict.IsEmergency)
	assert.Equal(t, "routine", verdict.Urgency)
}

func TestAssessEmergencyEmptySymptomsFailsSafe(t *testing.T) {
	gen := &stubGenerator{response: "should never be consulted"}
	svc := NewHealthService(nil, NewAssistant(gen, testLogger()), testLogger())
	svc.SetStudentID("s1")

	verdict := svc.AssessEmergency(context.Background(), "   ")

	assert.True(t, verdict.IsEmergency)
	assert.Equal(t, "immediate", verdict.Urgency)
	assert.Zero(t, gen.calls)
}

func TestAssessEmergencyModelFailureFailsSafe(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	svc := NewHealthService(nil, NewAssistant(gen, testLogger()), testLogger())
	svc.SetStudentID("s1")

	verdict := svc.AssessEmergency(context.Background(), "chest pain and dizziness")

	assert.True(t, verdict.IsEmergency)
	assert.Equal(t, "immediate", verdict.Urgency)
}

func TestAssessEmergencyUsesModelVerdict(t *testing.T) {
	gen := &stubGenerator{response: "No. Routine care is enough, rest and fluids."}
	svc := NewHealthService(nil, NewAssistant(gen, testLogger()), testLogger())
	svc.SetStudentID("s1")

	verdict := svc.AssessEmergency(context.Background(), "runny nose")

	assert.False(t, verdict.IsEmergency)
	assert.Equal(t, "routine", verdict.Urgency)
}
