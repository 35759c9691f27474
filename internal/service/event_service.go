package service

import (
	"context"
	"fmt"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/pkg/events"
	pktNats "gymflow-be/pkg/nats"

	"github.com/google/uuid"
)

const userDeletedDurable = "ai-tools-user-deleted"

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

type IEventService interface {
	// PublishToolUsed announces a recorded tool run. Failures are logged.
	PublishToolUsed(ctx context.Context, recent *entity.AiRecent)
	// Listen subscribes to the account events this service reacts to.
	Listen(ctx context.Context) error
	HandleUserDeleted(ctx context.Context, event events.Event) error
}

type eventService struct {
	publisher   EventPublisher
	subscriber  EventSubscriber
	store       RecentsStore
	preferences IPreferenceService
	logger      logger.ILogger
}

// NewEventService accepts nil publisher and subscriber when NATS is down.
func NewEventService(
	publisher EventPublisher,
	subscriber EventSubscriber,
	store RecentsStore,
	preferences IPreferenceService,
	log logger.ILogger,
) IEventService {
	return &eventService{
		publisher:   publisher,
		subscriber:  subscriber,
		store:       store,
		preferences: preferences,
		logger:      log,
	}
}

func (s *eventService) PublishToolUsed(ctx context.Context, recent *entity.AiRecent) {
	if s.publisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.EventTypeAiToolUsed,
		Data: map[string]interface{}{
			"recent_id": recent.Id.String(),
			"user_id":   recent.UserId.String(),
			"tool":      string(recent.Tool),
		},
		OccurredAt: recent.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish AI_TOOL_USED", map[string]interface{}{
			"recent_id": recent.Id.String(),
			"error":     err.Error(),
		})
	}
}

func (s *eventService) Listen(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Warn("EVENTS", "No event subscriber, account cascade disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe(ctx, events.EventTypeUserDeleted, userDeletedDurable, s.HandleUserDeleted)
}

// HandleUserDeleted removes every recent entry and preference of the user.
func (s *eventService) HandleUserDeleted(ctx context.Context, event events.Event) error {
	userId, err := uuid.Parse(events.String(event, "user_id"))
	if err != nil {
		// Redelivery cannot fix a bad id; ack it.
		s.logger.Warn("EVENTS", "USER_DELETED without a valid user_id", map[string]interface{}{
			"payload": event.Payload(),
		})
		return nil
	}

	start := time.Now()
	removed, err := s.store.Purge(ctx, userId)
	if err != nil {
		return fmt.Errorf("purge recents of %s: %w", userId, err)
	}
	if err := s.preferences.DeleteAll(ctx, userId); err != nil {
		return fmt.Errorf("delete preferences of %s: %w", userId, err)
	}

	s.logger.Info("EVENTS", "User AI history purged", map[string]interface{}{
		"user_id":  userId.String(),
		"removed":  removed,
		"duration": time.Since(start).String(),
	})
	return nil
}
