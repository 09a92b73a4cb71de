package service

import (
	"context"
	"fmt"
	"time"

	"context-engine-be/internal/apperror"
	"context-engine-be/internal/config"
	"context-engine-be/internal/constant"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"
	"context-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IConversationService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartConversationRequest) (*dto.StartConversationResponse, error)
	End(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error
	Append(ctx context.Context, userId uuid.UUID, req *dto.AppendMessageRequest) (*dto.AppendMessageResponse, error)
	GetById(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.ConversationResponse, error)
	ListRecent(ctx context.Context, userId uuid.UUID, req *dto.ListConversationsRequest) ([]*dto.ConversationResponse, error)
	// WindowedContext returns the cross-conversation message stream for the
	// recent window, in chronological order.
	WindowedContext(ctx context.Context, userId uuid.UUID, req *dto.WindowedContextRequest) ([]*dto.ContextMessageResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	contextCfg config.ContextConfig
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	contextCfg config.ContextConfig,
) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		contextCfg: contextCfg,
	}
}

func (s *conversationService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartConversationRequest) (*dto.StartConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Topics:    req.Topics,
		IsActive:  true,
		StartedAt: time.Now(),
	}

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}
	return &dto.StartConversationResponse{Id: conversation.Id}, nil
}

// End closes a conversation. Ending an already-ended conversation is a
// no-op so retries are safe.
func (s *conversationService) End(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return apperror.NotFound("conversation not found")
	}
	if !conversation.IsActive {
		return nil
	}

	return uow.ConversationRepository().End(ctx, conversationId, time.Now())
}

func (s *conversationService) Append(ctx context.Context, userId uuid.UUID, req *dto.AppendMessageRequest) (*dto.AppendMessageResponse, error) {
	if !validRole(req.Role) {
		return nil, apperror.InvalidInput(fmt.Sprintf("unknown role %q", req.Role))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: req.ConversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if !conversation.IsActive {
		return nil, apperror.Conflict("conversation has ended")
	}

	spokeAt := time.Now()
	if req.SpokeAt != nil {
		spokeAt = *req.SpokeAt
	}

	msg := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		UserId:         userId,
		Role:           req.Role,
		Content:        req.Content,
		SpokeAt:        spokeAt,
		AudioRef:       req.AudioRef,
		Emotion:        req.Emotion,
		IsDebate:       req.IsDebate,
		ReplyToId:      req.ReplyToId,
		VisualContext:  req.VisualContext,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationMessageRepository().Create(ctx, &msg); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().IncrementCounters(ctx, req.ConversationId, counterDeltaFor(&msg)); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.AppendMessageResponse{Id: msg.Id}, nil
}

func (s *conversationService) GetById(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ID: conversationId},
		specification.OrderBy{Field: "spoke_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	return toConversationResponse(conversation, messages), nil
}

func (s *conversationService) ListRecent(ctx context.Context, userId uuid.UUID, req *dto.ListConversationsRequest) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = constant.DefaultContextMaxConversations
	}

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Skip},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		var messages []*entity.ConversationMessage
		if req.IncludeFullMessages {
			messages, err = uow.ConversationMessageRepository().FindAll(ctx,
				specification.ByConversationID{ID: conversation.Id},
				specification.OrderBy{Field: "spoke_at", Desc: false},
			)
		} else {
			messages, err = uow.ConversationMessageRepository().FindOldestByConversationId(
				ctx, conversation.Id, constant.DefaultConversationPreviewSize)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, toConversationResponse(conversation, messages))
	}
	return result, nil
}

func (s *conversationService) WindowedContext(ctx context.Context, userId uuid.UUID, req *dto.WindowedContextRequest) ([]*dto.ContextMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	dayWindow := req.DayWindow
	if dayWindow <= 0 {
		dayWindow = s.contextCfg.DayWindow
	}
	maxConversations := req.MaxConversations
	if maxConversations <= 0 {
		maxConversations = s.contextCfg.MaxConversations
	}
	maxMessages := req.MaxMessages
	if maxMessages <= 0 {
		maxMessages = s.contextCfg.MaxMessages
	}

	since := time.Now().AddDate(0, 0, -dayWindow)
	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.StartedSince{Since: since},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Limit{Limit: maxConversations},
	)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return []*dto.ContextMessageResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(conversations))
	startedAt := make(map[uuid.UUID]time.Time, len(conversations))
	for _, conversation := range conversations {
		ids = append(ids, conversation.Id)
		startedAt[conversation.Id] = conversation.StartedAt
	}

	// Newest maxMessages across the window, then reversed so the caller
	// gets a chronological transcript.
	messages, err := uow.ConversationMessageRepository().FindLatestByConversationIds(ctx, ids, maxMessages)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ContextMessageResponse, len(messages))
	for i, msg := range messages {
		result[len(messages)-1-i] = &dto.ContextMessageResponse{
			Role:             msg.Role,
			Content:          msg.Content,
			Timestamp:        msg.SpokeAt,
			ConversationDate: startedAt[msg.ConversationId],
		}
	}
	return result, nil
}

// counterDeltaFor derives the per-append counter increments. A debate
// round is counted as reaching consensus when the closing system message
// of the exchange arrives.
func counterDeltaFor(msg *entity.ConversationMessage) contract.CounterDelta {
	delta := contract.CounterDelta{Total: 1}
	switch msg.Role {
	case constant.ChatMessageRoleUser:
		delta.User = 1
	case constant.ChatMessageRoleAria, constant.ChatMessageRoleKai, constant.ChatMessageRoleAssistant:
		delta.Assistant = 1
	}
	if msg.IsDebate {
		delta.Debate = 1
		if msg.Role == constant.ChatMessageRoleSystem {
			delta.Consensus = 1
		}
	}
	return delta
}

func validRole(role string) bool {
	switch role {
	case constant.ChatMessageRoleUser,
		constant.ChatMessageRoleAria,
		constant.ChatMessageRoleKai,
		constant.ChatMessageRoleAssistant,
		constant.ChatMessageRoleSystem:
		return true
	}
	return false
}

func toConversationResponse(conversation *entity.Conversation, messages []*entity.ConversationMessage) *dto.ConversationResponse {
	msgResponses := make([]*dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		msgResponses = append(msgResponses, &dto.MessageResponse{
			Id:            msg.Id,
			Role:          msg.Role,
			Content:       msg.Content,
			SpokeAt:       msg.SpokeAt,
			AudioRef:      msg.AudioRef,
			Emotion:       msg.Emotion,
			IsDebate:      msg.IsDebate,
			ReplyToId:     msg.ReplyToId,
			VisualContext: msg.VisualContext,
		})
	}

	return &dto.ConversationResponse{
		Id:        conversation.Id,
		Title:     conversation.Title,
		Summary:   conversation.Summary,
		Topics:    conversation.Topics,
		IsActive:  conversation.IsActive,
		StartedAt: conversation.StartedAt,
		EndedAt:   conversation.EndedAt,
		Counters: dto.ConversationCountersResponse{
			TotalMessages:     conversation.Counters.TotalMessages,
			UserMessages:      conversation.Counters.UserMessages,
			AssistantMessages: conversation.Counters.AssistantMessages,
			DebateMessages:    conversation.Counters.DebateMessages,
			ConsensusRounds:   conversation.Counters.ConsensusRounds,
		},
		Messages: msgResponses,
	}
}
