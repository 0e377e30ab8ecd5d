// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"allnimall-store-be/internal/dto"
	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns usage warning messages into persisted in-app
// notifications.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.UsageWarningMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal usage warning: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	title := "Usage warning"
	text := fmt.Sprintf("You have used %d of %d for %s (%.0f%%).",
		payload.UsageCount, payload.UsageLimit, payload.FeatureName, payload.Percentage*100)
	if payload.WarningType == string(entity.WarningTypeLimitReached) {
		title = "Usage limit reached"
		text = fmt.Sprintf("You have reached the limit of %d for %s. Upgrade your plan to continue.",
			payload.UsageLimit, payload.FeatureName)
	}

	notification := &entity.SubscriptionNotification{
		Id:               uuid.New(),
		UserId:           payload.UserId,
		NotificationType: payload.WarningType,
		Title:            title,
		Message:          text,
		Metadata: map[string]interface{}{
			"feature_name": payload.FeatureName,
			"severity":     payload.Severity,
			"usage_count":  payload.UsageCount,
			"usage_limit":  payload.UsageLimit,
			"percentage":   payload.Percentage,
		},
		CreatedAt: time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		log.Printf("[ERROR] Failed to persist usage warning for user %s: %v", payload.UserId, err)
		msg.Nack() // Retriable
		return
	}

	msg.Ack()
}
