package service

import (
	"context"
	"encoding/json"

	"gymflow-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishRecentSave(ctx context.Context, payload *dto.RecentSaveMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (s *publisherService) PublishRecentSave(ctx context.Context, payload *dto.RecentSaveMessage) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("user_id", payload.UserId.String())
	msg.Metadata.Set("tool", string(payload.Tool))
	msg.SetContext(ctx)

	return s.publisher.Publish(s.topicName, msg)
}
