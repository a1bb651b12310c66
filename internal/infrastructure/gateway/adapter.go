package gateway

import (
	"context"
	"sync"

	"edupay/internal/common/logger"
	"edupay/internal/domain/transition"
)

// LaunchStatus is the single terminal signal a checkout launch resolves to.
type LaunchStatus string

const (
	LaunchSuccess     LaunchStatus = "SUCCESS"
	LaunchCancelled   LaunchStatus = "CANCELLED"
	LaunchUnavailable LaunchStatus = "UNAVAILABLE"
)

// LaunchResult carries the proof only when Status is LaunchSuccess.
type LaunchResult struct {
	Status LaunchStatus
	Proof  transition.GatewayProof
}

// CheckoutParams is what the third-party widget is invoked with.
type CheckoutParams struct {
	Key         string
	AmountCents int64
	Currency    string
	OrderID     string
}

// Widget is the externally loaded checkout surface. It emits exactly one
// of onSuccess or onDismiss per Open call.
type Widget interface {
	Open(ctx context.Context, params CheckoutParams, onSuccess func(transition.GatewayProof), onDismiss func())
}

// Loader obtains a handle to the widget resource. Loading can fail, e.g.
// when the third-party script is unreachable.
type Loader interface {
	Load(ctx context.Context) (Widget, error)
}

// Launcher converts the widget's callback pair into a single awaited result
type Launcher interface {
	Launch(ctx context.Context, intent transition.PaymentIntent) LaunchResult
}

// Adapter lazily loads the checkout widget and wraps its callbacks into a
// LaunchResult. A successfully loaded widget is cached for the process
// lifetime; a failed load is reported as unavailable and retried on the
// next launch.
type Adapter struct {
	loader Loader
	logger logger.Logger

	mu     sync.Mutex
	widget Widget
}

func NewAdapter(loader Loader, l logger.Logger) *Adapter {
	return &Adapter{
		loader: loader,
		logger: l,
	}
}

func (a *Adapter) Launch(ctx context.Context, intent transition.PaymentIntent) LaunchResult {
	widget, err := a.obtainWidget(ctx)
	if err != nil {
		a.logger.Warn("Checkout widget failed to load", logger.Field{Key: "order_id", Value: intent.OrderID}, logger.Field{Key: "error", Value: err})
		return LaunchResult{Status: LaunchUnavailable}
	}

	results := make(chan LaunchResult, 1)
	var once sync.Once

	widget.Open(ctx, CheckoutParams{
		Key:         intent.GatewayKey,
		AmountCents: intent.AmountCents,
		Currency:    intent.Currency,
		OrderID:     intent.OrderID,
	}, func(proof transition.GatewayProof) {
		once.Do(func() {
			results <- LaunchResult{Status: LaunchSuccess, Proof: proof}
		})
	}, func() {
		once.Do(func() {
			results <- LaunchResult{Status: LaunchCancelled}
		})
	})

	select {
	case result := <-results:
		return result
	case <-ctx.Done():
		// Session teardown while the widget is open counts as a dismissal
		return LaunchResult{Status: LaunchCancelled}
	}
}

func (a *Adapter) obtainWidget(ctx context.Context) (Widget, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.widget != nil {
		return a.widget, nil
	}

	widget, err := a.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	a.widget = widget
	return widget, nil
}
