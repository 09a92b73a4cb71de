package service

import (
	"context"
	"encoding/json"
	"time"

	"context-engine-be/internal/config"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/pkg/logger"
	"context-engine-be/internal/repository/memory"

	"github.com/google/uuid"
)

// IContextService assembles everything the turn orchestrator needs before
// generation. Assembly degrades instead of failing: a broken sub-source
// costs its slice of the payload, never the turn.
type IContextService interface {
	BuildTurnContext(ctx context.Context, userId uuid.UUID, req *dto.TurnContextRequest) (*dto.TurnContextResponse, error)
}

type contextService struct {
	instructionService  IInstructionService
	conversationService IConversationService
	personService       IPersonService
	appliedPublisher    IPublisherService
	blockCache          *memory.ContextBlockCache
	contextCfg          config.ContextConfig
	logger              logger.ILogger
}

func NewContextService(
	instructionService IInstructionService,
	conversationService IConversationService,
	personService IPersonService,
	appliedPublisher IPublisherService,
	blockCache *memory.ContextBlockCache,
	contextCfg config.ContextConfig,
	log logger.ILogger,
) IContextService {
	return &contextService{
		instructionService:  instructionService,
		conversationService: conversationService,
		personService:       personService,
		appliedPublisher:    appliedPublisher,
		blockCache:          blockCache,
		contextCfg:          contextCfg,
		logger:              log,
	}
}

func (s *contextService) BuildTurnContext(ctx context.Context, userId uuid.UUID, req *dto.TurnContextRequest) (*dto.TurnContextResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextCfg.BuildTimeout)
	defer cancel()

	response := &dto.TurnContextResponse{
		RecentMessages: []*dto.ContextMessageResponse{},
		PeopleToAsk:    []*dto.AskCandidateResponse{},
	}

	block, instructionIds := s.instructionsBlock(ctx, userId)
	response.InstructionsBlock = block
	if block != "" {
		s.recordApplied(ctx, instructionIds)
	}

	messages, err := s.conversationService.WindowedContext(ctx, userId, &dto.WindowedContextRequest{
		DayWindow:        req.DayWindow,
		MaxConversations: req.MaxConversations,
		MaxMessages:      req.MaxMessages,
	})
	if err != nil {
		s.logger.Warn("ContextService", "windowed context unavailable, continuing without it", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	} else {
		response.RecentMessages = messages
	}

	if !req.SkipPeopleToAsk {
		candidates, err := s.personService.CandidatesToAsk(ctx, userId, req.MaxAskCandidates)
		if err != nil {
			s.logger.Warn("ContextService", "ask candidates unavailable, continuing without them", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		} else {
			response.PeopleToAsk = candidates
		}
	}

	return response, nil
}

// instructionsBlock serves the rendered block from cache when possible.
// Cache hits still return the included ids so applied counts keep moving.
func (s *contextService) instructionsBlock(ctx context.Context, userId uuid.UUID) (string, []uuid.UUID) {
	if cached, found := s.blockCache.Get(ctx, userId); found {
		return cached.Block, cached.InstructionIds
	}

	block, ids, err := s.instructionService.RenderContextBlock(ctx, userId)
	if err != nil {
		s.logger.Warn("ContextService", "instruction block unavailable, continuing without it", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return "", nil
	}

	s.blockCache.Set(ctx, userId, &memory.CachedContextBlock{
		Block:          block,
		InstructionIds: ids,
	})
	return block, ids
}

// recordApplied emits one applied message per included instruction. The
// counter update happens asynchronously so the read path never waits on
// writes.
func (s *contextService) recordApplied(ctx context.Context, instructionIds []uuid.UUID) {
	appliedAt := time.Now()
	for _, id := range instructionIds {
		payload, err := json.Marshal(dto.PublishInstructionAppliedMessage{
			InstructionId: id,
			AppliedAt:     appliedAt,
		})
		if err != nil {
			continue
		}
		if err := s.appliedPublisher.Publish(ctx, payload); err != nil {
			s.logger.Warn("ContextService", "failed to publish applied message", map[string]interface{}{
				"instruction_id": id.String(),
				"error":          err.Error(),
			})
			return
		}
	}
}
