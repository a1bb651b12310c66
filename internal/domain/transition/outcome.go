package transition

import "edupay/internal/domain/entity"

// OutcomeStatus tags the terminal result of a transition.
type OutcomeStatus string

const (
	OutcomeActivated          OutcomeStatus = "ACTIVATED"
	OutcomeFailed             OutcomeStatus = "FAILED"
	OutcomeCancelled          OutcomeStatus = "CANCELLED"
	OutcomeGatewayUnavailable OutcomeStatus = "GATEWAY_UNAVAILABLE"
)

// FailureReason classifies why a transition failed. Preserved on the
// outcome for the caller and the fault log.
type FailureReason string

const (
	ReasonIntentRejected       FailureReason = "intent_rejected"
	ReasonVerificationRejected FailureReason = "verification_rejected"
	ReasonTimeout              FailureReason = "timeout"
	ReasonNetwork              FailureReason = "network_error"
)

// Outcome is the single terminal value every transition resolves to.
// Entity is set only for OutcomeActivated; Reason only for OutcomeFailed.
type Outcome struct {
	Status OutcomeStatus    `json:"status"`
	Reason FailureReason    `json:"reason,omitempty"`
	Entity *entity.Snapshot `json:"entity,omitempty"`
}

func Activated(snapshot entity.Snapshot) Outcome {
	return Outcome{Status: OutcomeActivated, Entity: &snapshot}
}

func Failed(reason FailureReason) Outcome {
	return Outcome{Status: OutcomeFailed, Reason: reason}
}

func Cancelled() Outcome {
	return Outcome{Status: OutcomeCancelled}
}

func GatewayUnavailable() Outcome {
	return Outcome{Status: OutcomeGatewayUnavailable}
}
