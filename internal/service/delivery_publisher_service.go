package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IDeliveryPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type deliveryPublisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewDeliveryPublisherService(pubSub *gochannel.GoChannel, topicName string) IDeliveryPublisherService {
	return &deliveryPublisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (s *deliveryPublisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, msg)
}
