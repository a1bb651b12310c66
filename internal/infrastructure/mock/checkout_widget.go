package mock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edupay/internal/domain/transition"
	"edupay/internal/infrastructure/gateway"
)

// Behavior selects how the mock widget resolves a checkout.
type Behavior string

const (
	BehaviorSucceed Behavior = "succeed"
	BehaviorDismiss Behavior = "dismiss"
)

// MockCheckoutWidget simulates the third-party checkout surface for local
// runs and tests. The real widget is loaded from the gateway vendor.
type MockCheckoutWidget struct {
	behavior   Behavior
	avgLatency time.Duration
}

func NewMockCheckoutWidget() *MockCheckoutWidget {
	return &MockCheckoutWidget{
		behavior:   BehaviorSucceed,
		avgLatency: 100 * time.Millisecond,
	}
}

func (mw *MockCheckoutWidget) SetBehavior(b Behavior) {
	mw.behavior = b
}

func (mw *MockCheckoutWidget) SetLatency(d time.Duration) {
	mw.avgLatency = d
}

func (mw *MockCheckoutWidget) Open(ctx context.Context, params gateway.CheckoutParams, onSuccess func(transition.GatewayProof), onDismiss func()) {
	go func() {
		// Simulate the user interacting with the checkout UI
		select {
		case <-time.After(mw.avgLatency):
		case <-ctx.Done():
			onDismiss()
			return
		}

		switch mw.behavior {
		case BehaviorDismiss:
			onDismiss()
		default:
			onSuccess(transition.GatewayProof{
				GatewayPaymentID: fmt.Sprintf("gwpay_%s", params.OrderID),
				OrderID:          params.OrderID,
				Signature:        fmt.Sprintf("sig_%d", time.Now().UnixNano()),
			})
		}
	}()
}

// MockWidgetLoader hands out a mock widget, optionally failing to load to
// exercise the gateway-unavailable path.
type MockWidgetLoader struct {
	widget   *MockCheckoutWidget
	failLoad bool
	loads    int
}

func NewMockWidgetLoader(widget *MockCheckoutWidget) *MockWidgetLoader {
	return &MockWidgetLoader{widget: widget}
}

func (ml *MockWidgetLoader) SetFailLoad(fail bool) {
	ml.failLoad = fail
}

func (ml *MockWidgetLoader) Loads() int {
	return ml.loads
}

func (ml *MockWidgetLoader) Load(ctx context.Context) (gateway.Widget, error) {
	ml.loads++
	if ml.failLoad {
		return nil, errors.New("widget script unreachable")
	}
	return ml.widget, nil
}
