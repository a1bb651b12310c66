package transition

import (
	"testing"

	"edupay/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestRequest_TransitionTo(t *testing.T) {
	tests := []struct {
		name         string
		currentPhase Phase
		targetPhase  Phase
		wantErr      bool
	}{
		{
			name:         "valid transition IDLE to INTENT_REQUESTED",
			currentPhase: PhaseIdle,
			targetPhase:  PhaseIntentRequested,
			wantErr:      false,
		},
		{
			name:         "valid transition INTENT_REQUESTED to AWAITING_GATEWAY",
			currentPhase: PhaseIntentRequested,
			targetPhase:  PhaseAwaitingGateway,
			wantErr:      false,
		},
		{
			name:         "zero-amount shortcut INTENT_REQUESTED to ACTIVATED",
			currentPhase: PhaseIntentRequested,
			targetPhase:  PhaseActivated,
			wantErr:      false,
		},
		{
			name:         "valid transition AWAITING_GATEWAY to VERIFYING",
			currentPhase: PhaseAwaitingGateway,
			targetPhase:  PhaseVerifying,
			wantErr:      false,
		},
		{
			name:         "valid transition AWAITING_GATEWAY to CANCELLED",
			currentPhase: PhaseAwaitingGateway,
			targetPhase:  PhaseCancelled,
			wantErr:      false,
		},
		{
			name:         "valid transition VERIFYING to FAILED",
			currentPhase: PhaseVerifying,
			targetPhase:  PhaseFailed,
			wantErr:      false,
		},
		{
			name:         "invalid transition IDLE to VERIFYING",
			currentPhase: PhaseIdle,
			targetPhase:  PhaseVerifying,
			wantErr:      true,
		},
		{
			name:         "invalid transition ACTIVATED to FAILED",
			currentPhase: PhaseActivated,
			targetPhase:  PhaseFailed,
			wantErr:      true,
		},
		{
			name:         "invalid transition CANCELLED to VERIFYING",
			currentPhase: PhaseCancelled,
			targetPhase:  PhaseVerifying,
			wantErr:      true,
		},
		{
			name:         "terminal ACTIVATED releases back to IDLE",
			currentPhase: PhaseActivated,
			targetPhase:  PhaseIdle,
			wantErr:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequest("sub-1", entity.KindSubscription, TargetConfig{PlanID: "premium", AmountCents: 4499, Currency: "USD"})
			r.phase = tt.currentPhase

			err := r.TransitionTo(tt.targetPhase)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.currentPhase, r.Phase())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.targetPhase, r.Phase())
			}
		})
	}
}

func TestRequest_IsTerminal(t *testing.T) {
	r := NewRequest("sub-1", entity.KindSubscription, TargetConfig{AmountCents: 4499, Currency: "USD"})
	assert.False(t, r.IsTerminal())

	r.phase = PhaseActivated
	assert.True(t, r.IsTerminal())

	r.phase = PhaseCancelled
	assert.True(t, r.IsTerminal())

	r.phase = PhaseVerifying
	assert.False(t, r.IsTerminal())
}

func TestNewRequest_CorrelationToken(t *testing.T) {
	a := NewRequest("sub-1", entity.KindSubscription, TargetConfig{AmountCents: 100, Currency: "USD"})
	b := NewRequest("sub-1", entity.KindSubscription, TargetConfig{AmountCents: 100, Currency: "USD"})

	assert.NotEmpty(t, a.CorrelationToken())
	assert.NotEqual(t, a.CorrelationToken(), b.CorrelationToken())
	assert.Equal(t, PhaseIdle, a.Phase())
}
