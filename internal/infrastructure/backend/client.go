package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"edupay/internal/domain/entity"
	"edupay/internal/domain/transition"
)

var (
	// ErrIntentRejected means the backend declined to issue a payment intent
	// (target already satisfied, or caller not authorized). Never retried.
	ErrIntentRejected = errors.New("intent rejected")
	// ErrVerificationRejected means the proof failed the backend's signature
	// checks. Fatal for the attempt; the proof must not be resubmitted.
	ErrVerificationRejected = errors.New("verification rejected")
)

// IntentResult is the outcome of a create-intent call. Exactly one of the
// two fields is set: Intent for paid targets, Entity when the backend
// reports no payment is required and activates directly.
type IntentResult struct {
	Intent *transition.PaymentIntent
	Entity *entity.Snapshot
}

// Client is the backend collaborator that issues payment intents, verifies
// gateway proofs and handles out-of-band cancellation.
type Client interface {
	// CreateIntent asks the backend for a payment intent covering the transition
	CreateIntent(ctx context.Context, entityID string, target transition.TargetConfig) (*IntentResult, error)
	// Verify submits a gateway proof for cryptographic verification
	Verify(ctx context.Context, correlationToken string, proof transition.GatewayProof) (*entity.Snapshot, error)
	// Cancel requests out-of-band cancellation of an entity
	Cancel(ctx context.Context, entityID string) (*entity.Snapshot, error)
}

type createIntentRequest struct {
	EntityID     string                  `json:"entityId"`
	TargetConfig transition.TargetConfig `json:"targetConfig"`
}

type createIntentResponse struct {
	Status           string           `json:"status,omitempty"`
	OrderID          string           `json:"orderId,omitempty"`
	GatewayKey       string           `json:"gatewayKey,omitempty"`
	Amount           int64            `json:"amount,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	CorrelationToken string           `json:"correlationToken,omitempty"`
	Entity           *entity.Snapshot `json:"entity,omitempty"`
}

type verifyPaymentRequest struct {
	CorrelationToken string `json:"correlationToken"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	OrderID          string `json:"orderId"`
	Signature        string `json:"signature"`
}

type verifyPaymentResponse struct {
	Entity *entity.Snapshot `json:"entity"`
}

type cancelRequest struct {
	EntityID string `json:"entityId"`
}

type cancelResponse struct {
	Entity *entity.Snapshot `json:"entity"`
}

type errorResponse struct {
	Reason string `json:"reason"`
}

// HTTPClient implements Client against the platform backend over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) CreateIntent(ctx context.Context, entityID string, target transition.TargetConfig) (*IntentResult, error) {
	if target.AmountCents < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrIntentRejected)
	}

	var resp createIntentResponse
	status, reason, err := c.post(ctx, "/create-intent", createIntentRequest{
		EntityID:     entityID,
		TargetConfig: target,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("%w: %s", ErrIntentRejected, reason)
	}

	if resp.Status == "no-payment-required" {
		if resp.Entity == nil {
			return nil, fmt.Errorf("backend reported no payment required without entity snapshot")
		}
		return &IntentResult{Entity: resp.Entity}, nil
	}

	return &IntentResult{
		Intent: &transition.PaymentIntent{
			OrderID:          resp.OrderID,
			GatewayKey:       resp.GatewayKey,
			AmountCents:      resp.Amount,
			Currency:         resp.Currency,
			CorrelationToken: resp.CorrelationToken,
		},
	}, nil
}

func (c *HTTPClient) Verify(ctx context.Context, correlationToken string, proof transition.GatewayProof) (*entity.Snapshot, error) {
	var resp verifyPaymentResponse
	status, reason, err := c.post(ctx, "/verify-payment", verifyPaymentRequest{
		CorrelationToken: correlationToken,
		GatewayPaymentID: proof.GatewayPaymentID,
		OrderID:          proof.OrderID,
		Signature:        proof.Signature,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("%w: %s", ErrVerificationRejected, reason)
	}

	if resp.Entity == nil {
		return nil, fmt.Errorf("verification response missing entity snapshot")
	}

	return resp.Entity, nil
}

func (c *HTTPClient) Cancel(ctx context.Context, entityID string) (*entity.Snapshot, error) {
	var resp cancelResponse
	status, reason, err := c.post(ctx, "/cancel", cancelRequest{EntityID: entityID}, &resp)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, fmt.Errorf("cancel rejected: %s", reason)
	}

	if resp.Entity == nil {
		return nil, fmt.Errorf("cancel response missing entity snapshot")
	}

	return resp.Entity, nil
}

// post sends a JSON body and decodes the response into out. For 4xx/5xx
// responses the backend's reason field is returned instead of decoding.
func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) (int, string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		reason := http.StatusText(resp.StatusCode)
		var errBody errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Reason != "" {
			reason = errBody.Reason
		}
		return resp.StatusCode, reason, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.StatusCode, "", nil
}
