package transition

import (
	"errors"
	"time"

	"edupay/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// TargetConfig describes the configuration an entity should be moved to.
type TargetConfig struct {
	PlanID          string `json:"plan_id,omitempty"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	LinkedAccountID string `json:"linked_account_id,omitempty"`
}

// PaymentIntent is a server-issued authorization to attempt a payment.
// It belongs to exactly one request and is never resubmitted after a
// terminal outcome.
type PaymentIntent struct {
	OrderID          string `json:"orderId"`
	GatewayKey       string `json:"gatewayKey"`
	AmountCents      int64  `json:"amount"`
	Currency         string `json:"currency"`
	CorrelationToken string `json:"correlationToken"`
}

// GatewayProof is the opaque evidence the checkout widget returns on
// success. Consumed exactly once by verification.
type GatewayProof struct {
	GatewayPaymentID string `json:"gatewayPaymentId"`
	OrderID          string `json:"orderId"`
	Signature        string `json:"signature"`
}

// Request represents one in-flight payment-gated transition aggregate
type Request struct {
	entityID         string
	kind             entity.Kind
	target           TargetConfig
	correlationToken string
	phase            Phase
	createdAt        time.Time
	lastActivity     time.Time
}

func NewRequest(entityID string, kind entity.Kind, target TargetConfig) *Request {
	now := time.Now()
	return &Request{
		entityID:         entityID,
		kind:             kind,
		target:           target,
		correlationToken: uuid.New().String(),
		phase:            PhaseIdle,
		createdAt:        now,
		lastActivity:     now,
	}
}

func (r *Request) EntityID() string {
	return r.entityID
}

func (r *Request) Kind() entity.Kind {
	return r.kind
}

func (r *Request) Target() TargetConfig {
	return r.target
}

func (r *Request) CorrelationToken() string {
	return r.correlationToken
}

func (r *Request) Phase() Phase {
	return r.phase
}

func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Request) LastActivity() time.Time {
	return r.lastActivity
}

// TransitionTo moves the request to a new phase
func (r *Request) TransitionTo(target Phase) error {
	if !r.phase.CanTransitionTo(target) {
		return ErrInvalidTransition
	}

	r.phase = target
	r.lastActivity = time.Now()
	return nil
}

// IsTerminal returns true if the request reached a terminal phase
func (r *Request) IsTerminal() bool {
	return r.phase.IsTerminal()
}
