package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase statuses. A purchase row is only created once the processor has
// confirmed payment, so rows start out completed.
const (
	PurchaseStatusCompleted = "completed"
)

// Purchase records a confirmed payment for a map.
type Purchase struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	MapID                 uuid.UUID  `json:"map_id" db:"map_id"`
	UserID                uuid.UUID  `json:"user_id" db:"user_id"`
	Amount                int64      `json:"amount" db:"amount"`
	Currency              string     `json:"currency" db:"currency"`
	StripePaymentIntentID string     `json:"stripe_payment_intent_id" db:"stripe_payment_intent_id"`
	Status                string     `json:"status" db:"status"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// PaymentIntentResult is the processor-agnostic outcome of intent creation.
// ClientSecret is handed to the client to complete the payment.
type PaymentIntentResult struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// CreateIntentRequest is the payload for creating a payment intent.
type CreateIntentRequest struct {
	MapID    string `json:"mapId" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
	Currency string `json:"currency"`
}

// PaymentEvent is a processor-agnostic view of a verified webhook event.
type PaymentEvent struct {
	Type            string
	PaymentIntentID string
	Amount          int64
	Currency        string
	MapID           string
	UserID          string
}

// PaymentEventSucceeded is the only event type that produces side effects.
const PaymentEventSucceeded = "payment_intent.succeeded"
