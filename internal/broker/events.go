package broker

import (
	"context"
	"fmt"

	"assetverse/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishRequestApproved publishes a RequestApproved event
func (ep *EventPublisher) PublishRequestApproved(ctx context.Context, event *models.RequestApprovedEvent) error {
	key := fmt.Sprintf("request-%d", event.RequestID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishRequestRejected publishes a RequestRejected event
func (ep *EventPublisher) PublishRequestRejected(ctx context.Context, event *models.RequestRejectedEvent) error {
	key := fmt.Sprintf("request-%d", event.RequestID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishAssetReturned publishes an AssetReturned event
func (ep *EventPublisher) PublishAssetReturned(ctx context.Context, event *models.AssetReturnedEvent) error {
	key := fmt.Sprintf("assignment-%d", event.AssignmentID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentReconciled publishes a PaymentReconciled event
func (ep *EventPublisher) PublishPaymentReconciled(ctx context.Context, event *models.PaymentReconciledEvent) error {
	key := fmt.Sprintf("payment-%s", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}
