// Package notify defines the outbound customer messaging contract and the
// message templates the business sends. Delivery is best-effort: failures
// are logged, never propagated into business transactions.
package notify

import (
	"context"
	"fmt"

	"hamu/pkg/logger"
)

// Message is one SMS to one recipient.
type Message struct {
	PhoneNumber string
	Text        string
}

// Notifier sends messages to customers. Implementations live in
// infrastructure (SMS gateway) or tests.
type Notifier interface {
	Send(ctx context.Context, messages []Message) error
}

// Nop discards all messages. Used when no gateway is configured.
type Nop struct{}

func (Nop) Send(ctx context.Context, messages []Message) error { return nil }

// Dispatch sends messages and logs failures instead of returning them.
// Called after the owning transaction has committed.
func Dispatch(ctx context.Context, n Notifier, messages []Message) {
	if n == nil || len(messages) == 0 {
		return
	}
	if err := n.Send(ctx, messages); err != nil {
		logger.Error(ctx, "notification delivery failed",
			"recipients", len(messages),
			"error", err,
		)
	}
}

// --- Message templates ---

// FreeRefillThanks congratulates a customer who just received free refills.
func FreeRefillThanks(customerName string, freeQuantity int) string {
	if freeQuantity == 1 {
		return fmt.Sprintf(
			"Dear %s, thank you for your loyalty! Your refill today was FREE. Keep refilling with us!",
			customerName)
	}
	return fmt.Sprintf(
		"Dear %s, thank you for your loyalty! %d of your refills today were FREE. Keep refilling with us!",
		customerName, freeQuantity)
}

// AlmostFree nudges a customer who is one paid refill away from a free one.
func AlmostFree(customerName string) string {
	return fmt.Sprintf(
		"Dear %s, great news! Your NEXT refill with us is FREE. See you soon!",
		customerName)
}

// FreeRefillAvailable invites an eligible customer to claim a free refill.
func FreeRefillAvailable(customerName, packageDescription string) string {
	if packageDescription == "" {
		return fmt.Sprintf(
			"Dear %s, you have earned a FREE refill! Visit us to claim it.",
			customerName)
	}
	return fmt.Sprintf(
		"Dear %s, you have earned a FREE refill of %s! Visit us to claim it.",
		customerName, packageDescription)
}
