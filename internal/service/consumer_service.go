package service

import (
	"context"
	"encoding/json"
	"log"

	"context-engine-be/internal/dto"
	"context-engine-be/internal/repository/specification"
	"context-engine-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains applied-instruction messages and moves the usage
// counters off the context read path.
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
	var payload dto.PublishInstructionAppliedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal applied message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	instruction, err := uow.InstructionRepository().FindOne(ctx, specification.ByID{ID: payload.InstructionId})
	if err != nil {
		log.Printf("[ERROR] Failed to get instruction %s: %v", payload.InstructionId, err)
		msg.Nack()
		return
	}
	if instruction == nil {
		// Deactivated or deleted since the render. Ack.
		msg.Ack()
		return
	}

	if err := uow.InstructionRepository().IncrementApplied(ctx, payload.InstructionId, payload.AppliedAt); err != nil {
		log.Printf("[ERROR] Failed to increment applied count for %s: %v", payload.InstructionId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
