package http

import (
	"errors"
	"net/http"

	apptransition "edupay/internal/application/transition"
	"edupay/internal/domain/entity"
	"edupay/internal/domain/transition"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	orchestrator *apptransition.Orchestrator
}

func NewSessionHandler(o *apptransition.Orchestrator) *SessionHandler {
	return &SessionHandler{
		orchestrator: o,
	}
}

type InitiateTransitionRequest struct {
	EntityID        string `json:"entity_id"`
	Kind            string `json:"kind"`
	PlanID          string `json:"plan_id,omitempty"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	LinkedAccountID string `json:"linked_account_id,omitempty"`
}

func (h *SessionHandler) InitiateTransition(c *gin.Context) {
	var req InitiateTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.EntityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id is required"})
		return
	}

	if req.AmountCents < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must not be negative"})
		return
	}

	kind := entity.Kind(req.Kind)
	switch kind {
	case entity.KindSubscription, entity.KindAccountLink, entity.KindAccountCreation:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity kind"})
		return
	}

	outcome, err := h.orchestrator.InitiateTransition(c.Request.Context(), req.EntityID, kind, transition.TargetConfig{
		PlanID:          req.PlanID,
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		LinkedAccountID: req.LinkedAccountID,
	})
	if err != nil {
		if errors.Is(err, apptransition.ErrAlreadyInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "transition already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (h *SessionHandler) GetEntity(c *gin.Context) {
	entityID := c.Param("id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity id is required"})
		return
	}

	snapshot, ok := h.orchestrator.CurrentEntity(entityID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *SessionHandler) GetPhase(c *gin.Context) {
	entityID := c.Param("id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity id is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entity_id": entityID,
		"phase":     h.orchestrator.CurrentPhase(entityID),
	})
}

func (h *SessionHandler) CancelEntity(c *gin.Context) {
	entityID := c.Param("id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity id is required"})
		return
	}

	snapshot, err := h.orchestrator.CancelEntity(c.Request.Context(), entityID)
	if err != nil {
		if errors.Is(err, apptransition.ErrAlreadyInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "transition already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
