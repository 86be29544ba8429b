package service

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// maxDerivedTitleLength keeps sidebar titles short regardless of how long the
// first message was.
const maxDerivedTitleLength = 60

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService names freshly created conversations off the request path.
// It derives a title from the first user message and pushes the rename to the
// owner's live sessions.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	store       contract.ConversationStore
	broadcaster IBroadcaster
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	store contract.ConversationStore,
	broadcaster IBroadcaster,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		store:       store,
		broadcaster: broadcaster,
		logger:      log,
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
	var payload dto.PublishDeriveTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal title job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	conversation, err := cs.store.GetById(ctx, payload.ConversationId, payload.UserId)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load conversation for titling", map[string]interface{}{
			"conversation_id": payload.ConversationId,
			"error":           err.Error(),
		})
		msg.Nack()
		return
	}
	if conversation == nil {
		// Deleted before the job ran
		msg.Ack()
		return
	}

	// The user renamed it in the meantime; theirs wins.
	if conversation.Title != constant.DefaultConversationTitle {
		msg.Ack()
		return
	}

	title := DeriveTitle(payload.FirstMessage)
	if title == "" {
		msg.Ack()
		return
	}

	renamed, err := cs.store.Rename(ctx, conversation.Id, title)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to rename conversation", map[string]interface{}{
			"conversation_id": conversation.Id,
			"error":           err.Error(),
		})
		msg.Nack()
		return
	}
	if renamed == nil {
		// Deleted between the lookup and the rename
		msg.Ack()
		return
	}

	cs.broadcaster.Publish(payload.UserId, constant.RealtimeEventConversationRenamed, dto.ConversationRenamedEvent{
		ConversationId: renamed.Id,
		Title:          renamed.Title,
	})

	msg.Ack()
}

// DeriveTitle turns the first user message into a short conversation title:
// whitespace collapsed, cut at a word boundary, ellipsis when truncated.
func DeriveTitle(firstMessage string) string {
	title := strings.Join(strings.Fields(firstMessage), " ")
	if title == "" {
		return ""
	}
	if len(title) <= maxDerivedTitleLength {
		return title
	}

	// Fields collapsed all whitespace to single ASCII spaces, so a byte scan
	// for ' ' is safe in multi-byte text.
	cut := strings.LastIndexByte(title[:maxDerivedTitleLength+1], ' ')
	if cut <= 0 {
		// No word boundary; hard cut, backed up to a rune boundary.
		cut = maxDerivedTitleLength
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
	}
	return strings.TrimRight(title[:cut], " ") + "..."
}
