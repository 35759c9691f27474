package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gymflow-be/internal/dto"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// EventTypeRecentSaved is the websocket event sent once a run is recorded.
const EventTypeRecentSaved = "recent_saved"

// RecentNotifier pushes an event to the connections of one user.
type RecentNotifier interface {
	Send(userID uuid.UUID, eventType string, data interface{})
}

type IConsumerService interface {
	// Consume handles queued saves until the subscription ends, then waits
	// for the saves already taken off the queue.
	Consume(ctx context.Context) error
	// Handle records one successful generation. Failures are logged only.
	Handle(ctx context.Context, payload *dto.RecentSaveMessage)
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	store       RecentsStore
	preferences IPreferenceService
	events      IEventService
	notifier    RecentNotifier
	logger      logger.ILogger
	inFlight    sync.WaitGroup
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	store RecentsStore,
	preferences IPreferenceService,
	events IEventService,
	notifier RecentNotifier,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		store:       store,
		preferences: preferences,
		events:      events,
		notifier:    notifier,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	for msg := range messages {
		cs.processMessage(ctx, msg)
	}

	cs.inFlight.Wait()
	cs.logger.Info("CONSUMER", "Recent save queue drained", nil)
	return nil
}

// processMessage acks on receipt, so a save is never retried automatically,
// and handles the save in the background.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	msg.Ack()

	var payload dto.RecentSaveMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "PersistenceFailure: undecodable recent save", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.inFlight.Add(1)
	go func() {
		defer cs.inFlight.Done()
		cs.Handle(ctx, &payload)
	}()
}

func (cs *consumerService) Handle(ctx context.Context, payload *dto.RecentSaveMessage) {
	start := time.Now()
	recent := &entity.AiRecent{
		Id:        payload.Id,
		UserId:    payload.UserId,
		Tool:      payload.Tool,
		Kind:      entity.RecentKindRecent,
		Title:     payload.Title,
		Query:     payload.Query,
		Params:    payload.Params,
		Config:    payload.Config,
		Results:   payload.Results,
		CreatedAt: payload.CreatedAt,
	}

	appendErr := cs.store.Append(ctx, recent)
	if appendErr != nil {
		cs.logger.Error("CONSUMER", "PersistenceFailure: recent append failed", map[string]interface{}{
			"recent_id": recent.Id.String(),
			"user_id":   recent.UserId.String(),
			"tool":      string(recent.Tool),
			"error":     appendErr.Error(),
		})
	}

	if err := cs.preferences.Upsert(ctx, payload.UserId, payload.Tool, payload.Params); err != nil {
		cs.logger.Error("CONSUMER", "PersistenceFailure: preference upsert failed", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"tool":    string(payload.Tool),
			"error":   err.Error(),
		})
	}

	if appendErr != nil {
		return
	}

	if cs.events != nil {
		cs.events.PublishToolUsed(ctx, recent)
	}
	if cs.notifier != nil {
		cs.notifier.Send(recent.UserId, EventTypeRecentSaved, dto.RecentSavedEvent{
			Id:        recent.Id,
			Tool:      recent.Tool,
			Query:     recent.Query,
			CreatedAt: recent.CreatedAt,
		})
	}

	cs.logger.Info("CONSUMER", "Recent saved", map[string]interface{}{
		"recent_id": recent.Id.String(),
		"tool":      string(recent.Tool),
		"duration":  time.Since(start).String(),
	})
}
