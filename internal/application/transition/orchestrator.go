package transition

import (
	"context"
	"errors"
	"sync"
	"time"

	"edupay/internal/application/reconcile"
	"edupay/internal/common/logger"
	"edupay/internal/common/metrics"
	"edupay/internal/domain/entity"
	"edupay/internal/domain/transition"
	"edupay/internal/infrastructure/backend"
	"edupay/internal/infrastructure/faultlog"
	"edupay/internal/infrastructure/gateway"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyInFlight means a transition for the entity is already active.
	// Local and recoverable; no intent is issued and the entity map is untouched.
	ErrAlreadyInFlight = errors.New("transition already in flight for entity")
)

// Orchestrator sequences payment-gated entity transitions: intent issuing,
// gateway checkout, proof verification and reconciliation. It enforces
// single-flight per entity identifier and resolves every attempt to exactly
// one terminal Outcome.
type Orchestrator struct {
	backend       backend.Client
	gateway       gateway.Launcher
	reconciler    *reconcile.Reconciler
	faults        faultlog.Recorder
	logger        logger.Logger
	metrics       metrics.Collector
	verifyTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]*transition.Request
}

func NewOrchestrator(bc backend.Client, gw gateway.Launcher, rec *reconcile.Reconciler, faults faultlog.Recorder, l logger.Logger, collector metrics.Collector, verifyTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		backend:       bc,
		gateway:       gw,
		reconciler:    rec,
		faults:        faults,
		logger:        l,
		metrics:       collector,
		verifyTimeout: verifyTimeout,
		inflight:      make(map[string]*transition.Request),
	}
}

// InitiateTransition runs one payment-gated transition to its terminal
// outcome. A second call for the same entity while one is active returns
// ErrAlreadyInFlight without touching the backend.
func (o *Orchestrator) InitiateTransition(ctx context.Context, entityID string, kind entity.Kind, target transition.TargetConfig) (transition.Outcome, error) {
	req, err := o.claim(entityID, kind, target)
	if err != nil {
		o.metrics.IncrementCounter(metrics.CounterAlreadyInFlight)
		return transition.Outcome{}, err
	}
	defer o.release(entityID)

	o.advance(req, transition.PhaseIntentRequested)

	result, err := o.backend.CreateIntent(ctx, entityID, target)
	if err != nil {
		if errors.Is(err, backend.ErrIntentRejected) {
			return o.fail(ctx, req, transition.ReasonIntentRejected, err), nil
		}
		return o.fail(ctx, req, transition.ReasonNetwork, err), nil
	}

	if result.Entity != nil {
		// Free-tier target: the backend activated directly, the gateway is
		// never involved.
		o.reconciler.Apply(ctx, *result.Entity)
		o.advance(req, transition.PhaseActivated)
		o.metrics.IncrementCounter(metrics.CounterTransitionsActivated)
		o.logger.Info("Transition activated without payment",
			logger.Field{Key: "entity_id", Value: entityID},
			logger.Field{Key: "correlation_token", Value: req.CorrelationToken()})
		return transition.Activated(*result.Entity), nil
	}

	o.advance(req, transition.PhaseAwaitingGateway)

	launch := o.gateway.Launch(ctx, *result.Intent)
	switch launch.Status {
	case gateway.LaunchCancelled:
		// User choice, not an error. The intent and correlation token die
		// with the request and are never resubmitted.
		o.advance(req, transition.PhaseCancelled)
		o.metrics.IncrementCounter(metrics.CounterTransitionsCancelled)
		o.logger.Info("Transition cancelled by user", logger.Field{Key: "entity_id", Value: entityID})
		return transition.Cancelled(), nil
	case gateway.LaunchUnavailable:
		o.advance(req, transition.PhaseFailed)
		o.metrics.IncrementCounter(metrics.CounterGatewayUnavailable)
		o.logger.Warn("Payment gateway unavailable", logger.Field{Key: "entity_id", Value: entityID})
		return transition.GatewayUnavailable(), nil
	}

	o.advance(req, transition.PhaseVerifying)

	// Verification is bounded so an unresponsive backend cannot leave the
	// entity in limbo. The proof is discarded on expiry, never retried.
	verifyCtx, cancel := context.WithTimeout(ctx, o.verifyTimeout)
	defer cancel()

	snapshot, err := o.backend.Verify(verifyCtx, req.CorrelationToken(), launch.Proof)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return o.fail(ctx, req, transition.ReasonTimeout, err), nil
		}
		if errors.Is(err, backend.ErrVerificationRejected) {
			return o.fail(ctx, req, transition.ReasonVerificationRejected, err), nil
		}
		return o.fail(ctx, req, transition.ReasonNetwork, err), nil
	}

	// Apply before notifying the caller so locally visible state is
	// consistent by the time success is observed.
	o.reconciler.Apply(ctx, *snapshot)
	o.advance(req, transition.PhaseActivated)
	o.metrics.IncrementCounter(metrics.CounterTransitionsActivated)
	o.logger.Info("Transition activated",
		logger.Field{Key: "entity_id", Value: entityID},
		logger.Field{Key: "version", Value: snapshot.Version})

	return transition.Activated(*snapshot), nil
}

// CancelEntity asks the backend to cancel an entity out of band. Rejected
// while a transition owns the entity.
func (o *Orchestrator) CancelEntity(ctx context.Context, entityID string) (*entity.Snapshot, error) {
	o.mu.Lock()
	_, active := o.inflight[entityID]
	o.mu.Unlock()
	if active {
		return nil, ErrAlreadyInFlight
	}

	snapshot, err := o.backend.Cancel(ctx, entityID)
	if err != nil {
		return nil, err
	}

	o.reconciler.Apply(ctx, *snapshot)
	return snapshot, nil
}

// CurrentPhase reports where the active transition for an entity is.
// Entities with no active transition are idle.
func (o *Orchestrator) CurrentPhase(entityID string) transition.Phase {
	o.mu.Lock()
	defer o.mu.Unlock()

	if req, ok := o.inflight[entityID]; ok {
		return req.Phase()
	}
	return transition.PhaseIdle
}

// CurrentEntity reads the locally held snapshot through the reconciler.
func (o *Orchestrator) CurrentEntity(entityID string) (entity.Snapshot, bool) {
	return o.reconciler.Current(entityID)
}

func (o *Orchestrator) claim(entityID string, kind entity.Kind, target transition.TargetConfig) (*transition.Request, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.inflight[entityID]; exists {
		return nil, ErrAlreadyInFlight
	}

	req := transition.NewRequest(entityID, kind, target)
	o.inflight[entityID] = req
	return req, nil
}

func (o *Orchestrator) release(entityID string) {
	o.mu.Lock()
	delete(o.inflight, entityID)
	o.mu.Unlock()
}

func (o *Orchestrator) advance(req *transition.Request, phase transition.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := req.TransitionTo(phase); err != nil {
		o.logger.Error("Invalid phase transition",
			logger.Field{Key: "entity_id", Value: req.EntityID()},
			logger.Field{Key: "from", Value: req.Phase()},
			logger.Field{Key: "to", Value: phase})
	}
}

func (o *Orchestrator) fail(ctx context.Context, req *transition.Request, reason transition.FailureReason, cause error) transition.Outcome {
	phase := o.CurrentPhase(req.EntityID())
	o.advance(req, transition.PhaseFailed)
	o.metrics.IncrementCounter(metrics.CounterTransitionsFailed)

	o.logger.Warn("Transition failed",
		logger.Field{Key: "entity_id", Value: req.EntityID()},
		logger.Field{Key: "reason", Value: reason},
		logger.Field{Key: "error", Value: cause})

	if err := o.faults.Record(ctx, faultlog.Fault{
		FaultID:          uuid.New().String(),
		EntityID:         req.EntityID(),
		CorrelationToken: req.CorrelationToken(),
		Phase:            string(phase),
		Reason:           string(reason) + ": " + cause.Error(),
		OccurredAt:       time.Now(),
	}); err != nil {
		o.logger.Error("Failed to record fault", logger.Field{Key: "error", Value: err})
	}

	return transition.Failed(reason)
}
