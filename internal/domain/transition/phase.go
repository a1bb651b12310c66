package transition

// Phase represents where an in-flight transition currently is.
type Phase string

const (
	// PhaseIdle indicates no transition is active for the entity
	PhaseIdle Phase = "IDLE"
	// PhaseIntentRequested indicates the payment intent is being issued
	PhaseIntentRequested Phase = "INTENT_REQUESTED"
	// PhaseAwaitingGateway indicates the checkout widget is open
	PhaseAwaitingGateway Phase = "AWAITING_GATEWAY"
	// PhaseVerifying indicates the gateway proof is under backend verification
	PhaseVerifying Phase = "VERIFYING"
	// PhaseActivated indicates the transition completed successfully
	PhaseActivated Phase = "ACTIVATED"
	// PhaseFailed indicates the transition ended with a failure
	PhaseFailed Phase = "FAILED"
	// PhaseCancelled indicates the user dismissed the checkout widget
	PhaseCancelled Phase = "CANCELLED"
)

// CanTransitionTo checks if a phase transition is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseIdle: {PhaseIntentRequested},
		// Zero-amount targets activate straight from the intent step
		PhaseIntentRequested: {PhaseAwaitingGateway, PhaseActivated, PhaseFailed},
		PhaseAwaitingGateway: {PhaseVerifying, PhaseCancelled, PhaseFailed},
		PhaseVerifying:       {PhaseActivated, PhaseFailed},
		// Terminal phases release the entity back to idle
		PhaseActivated: {PhaseIdle},
		PhaseFailed:    {PhaseIdle},
		PhaseCancelled: {PhaseIdle},
	}

	allowed, exists := validTransitions[p]
	if !exists {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}

	return false
}

// IsTerminal returns true if the phase closes the transition request
func (p Phase) IsTerminal() bool {
	return p == PhaseActivated || p == PhaseFailed || p == PhaseCancelled
}
