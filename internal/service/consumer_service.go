package service

import (
	"context"
	"encoding/json"

	"nia-sales-be/internal/constant"
	"nia-sales-be/internal/dto"
	"nia-sales-be/internal/pkg/logger"
	"nia-sales-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the delivery topic and marks chat messages
// delivered once their broadcast has been queued.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
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
	var payload dto.MessageDeliveredPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("delivery", "failed to unmarshal delivery message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid messages would otherwise retry forever
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().UpdateDeliveryStatus(ctx, payload.MessageId, constant.DeliveryDelivered); err != nil {
		cs.logger.Error("delivery", "failed to mark message delivered", map[string]interface{}{
			"message_id": payload.MessageId.String(), "error": err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
