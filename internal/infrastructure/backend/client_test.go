package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"edupay/internal/domain/entity"
	"edupay/internal/domain/transition"

	"github.com/stretchr/testify/assert"
)

func TestHTTPClient_CreateIntent_PaidTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-intent", r.URL.Path)

		var req createIntentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sub-42", req.EntityID)
		assert.Equal(t, int64(4499), req.TargetConfig.AmountCents)

		json.NewEncoder(w).Encode(createIntentResponse{
			OrderID:          "ord-1",
			GatewayKey:       "gw-key",
			Amount:           4499,
			Currency:         "USD",
			CorrelationToken: "tok-1",
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	result, err := client.CreateIntent(context.Background(), "sub-42", transition.TargetConfig{PlanID: "premium", AmountCents: 4499, Currency: "USD"})

	assert.NoError(t, err)
	assert.Nil(t, result.Entity)
	assert.Equal(t, "ord-1", result.Intent.OrderID)
	assert.Equal(t, "tok-1", result.Intent.CorrelationToken)
}

func TestHTTPClient_CreateIntent_NoPaymentRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(createIntentResponse{
			Status: "no-payment-required",
			Entity: &entity.Snapshot{ID: "sub-42", Kind: entity.KindSubscription, Status: entity.StatusActive, Version: 6},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	result, err := client.CreateIntent(context.Background(), "sub-42", transition.TargetConfig{PlanID: "free", AmountCents: 0, Currency: "USD"})

	assert.NoError(t, err)
	assert.Nil(t, result.Intent)
	assert.Equal(t, int64(6), result.Entity.Version)
}

func TestHTTPClient_CreateIntent_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"reason": "target already satisfied"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.CreateIntent(context.Background(), "sub-42", transition.TargetConfig{PlanID: "premium", AmountCents: 4499, Currency: "USD"})

	assert.ErrorIs(t, err, ErrIntentRejected)
	assert.Contains(t, err.Error(), "target already satisfied")
}

func TestHTTPClient_CreateIntent_NegativeAmount(t *testing.T) {
	client := NewHTTPClient("http://unused")
	_, err := client.CreateIntent(context.Background(), "sub-42", transition.TargetConfig{AmountCents: -1, Currency: "USD"})

	assert.ErrorIs(t, err, ErrIntentRejected)
}

func TestHTTPClient_Verify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify-payment", r.URL.Path)

		var req verifyPaymentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-1", req.CorrelationToken)
		assert.Equal(t, "sig", req.Signature)

		json.NewEncoder(w).Encode(verifyPaymentResponse{
			Entity: &entity.Snapshot{ID: "sub-42", Status: entity.StatusActive, PlanID: "premium", Version: 7},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	snapshot, err := client.Verify(context.Background(), "tok-1", transition.GatewayProof{GatewayPaymentID: "gwpay-1", OrderID: "ord-1", Signature: "sig"})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), snapshot.Version)
	assert.Equal(t, "premium", snapshot.PlanID)
}

func TestHTTPClient_Verify_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"reason": "signature mismatch"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Verify(context.Background(), "tok-1", transition.GatewayProof{Signature: "bad"})

	assert.ErrorIs(t, err, ErrVerificationRejected)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestHTTPClient_Cancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cancel", r.URL.Path)
		json.NewEncoder(w).Encode(cancelResponse{
			Entity: &entity.Snapshot{ID: "sub-42", Status: entity.StatusCancelled, Version: 8},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	snapshot, err := client.Cancel(context.Background(), "sub-42")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, snapshot.Status)
}

func TestHTTPClient_Verify_BackendDown(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1")
	_, err := client.Verify(context.Background(), "tok-1", transition.GatewayProof{})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationRejected)
}
