package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"context-engine-be/internal/dto"
	"context-engine-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInstructionService struct {
	IInstructionService
	block string
	ids   []uuid.UUID
	err   error
	calls int
}

func (s *stubInstructionService) RenderContextBlock(ctx context.Context, userId uuid.UUID) (string, []uuid.UUID, error) {
	s.calls++
	return s.block, s.ids, s.err
}

type stubConversationService struct {
	IConversationService
	messages []*dto.ContextMessageResponse
	err      error
}

func (s *stubConversationService) WindowedContext(ctx context.Context, userId uuid.UUID, req *dto.WindowedContextRequest) ([]*dto.ContextMessageResponse, error) {
	return s.messages, s.err
}

type stubPersonService struct {
	IPersonService
	candidates []*dto.AskCandidateResponse
	err        error
	calls      int
}

func (s *stubPersonService) CandidatesToAsk(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AskCandidateResponse, error) {
	s.calls++
	return s.candidates, s.err
}

type capturingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func newContextService(
	instructions *stubInstructionService,
	conversations *stubConversationService,
	people *stubPersonService,
	publisher *capturingPublisher,
	cache *memory.ContextBlockCache,
) IContextService {
	if cache == nil {
		cache = memory.NewContextBlockCache(nil, time.Minute)
	}
	return NewContextService(instructions, conversations, people, publisher, cache, testContextCfg, noopLogger{})
}

func TestBuildTurnContext_AssemblesAllParts(t *testing.T) {
	instructionId := uuid.New()
	instructions := &stubInstructionService{block: "## User Personalization\n", ids: []uuid.UUID{instructionId}}
	conversations := &stubConversationService{messages: []*dto.ContextMessageResponse{{Content: "hi"}}}
	people := &stubPersonService{candidates: []*dto.AskCandidateResponse{{Question: "Who is Maria?"}}}
	publisher := &capturingPublisher{}

	svc := newContextService(instructions, conversations, people, publisher, nil)

	res, err := svc.BuildTurnContext(context.Background(), uuid.New(), &dto.TurnContextRequest{})
	require.NoError(t, err)

	assert.Equal(t, instructions.block, res.InstructionsBlock)
	assert.Len(t, res.RecentMessages, 1)
	assert.Len(t, res.PeopleToAsk, 1)

	// One applied message per included instruction.
	require.Len(t, publisher.payloads, 1)
	var msg dto.PublishInstructionAppliedMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, instructionId, msg.InstructionId)
}

func TestBuildTurnContext_DegradesPerSource(t *testing.T) {
	instructions := &stubInstructionService{err: errors.New("db down")}
	conversations := &stubConversationService{err: errors.New("db down")}
	people := &stubPersonService{err: errors.New("db down")}
	publisher := &capturingPublisher{}

	svc := newContextService(instructions, conversations, people, publisher, nil)

	res, err := svc.BuildTurnContext(context.Background(), uuid.New(), &dto.TurnContextRequest{})
	require.NoError(t, err, "assembly must survive every sub-source failing")

	assert.Equal(t, "", res.InstructionsBlock)
	assert.NotNil(t, res.RecentMessages)
	assert.Empty(t, res.RecentMessages)
	assert.NotNil(t, res.PeopleToAsk)
	assert.Empty(t, res.PeopleToAsk)
	assert.Empty(t, publisher.payloads)
}

func TestBuildTurnContext_SkipPeopleToAsk(t *testing.T) {
	instructions := &stubInstructionService{}
	conversations := &stubConversationService{}
	people := &stubPersonService{candidates: []*dto.AskCandidateResponse{{Question: "x"}}}
	publisher := &capturingPublisher{}

	svc := newContextService(instructions, conversations, people, publisher, nil)

	res, err := svc.BuildTurnContext(context.Background(), uuid.New(), &dto.TurnContextRequest{SkipPeopleToAsk: true})
	require.NoError(t, err)
	assert.Empty(t, res.PeopleToAsk)
	assert.Zero(t, people.calls)
}

func TestBuildTurnContext_CacheHitSkipsRenderButStillRecordsApplied(t *testing.T) {
	userId := uuid.New()
	instructionId := uuid.New()
	cache := memory.NewContextBlockCache(nil, time.Minute)
	cache.Set(context.Background(), userId, &memory.CachedContextBlock{
		Block:          "cached block",
		InstructionIds: []uuid.UUID{instructionId},
	})

	instructions := &stubInstructionService{block: "fresh block"}
	publisher := &capturingPublisher{}
	svc := newContextService(instructions, &stubConversationService{}, &stubPersonService{}, publisher, cache)

	res, err := svc.BuildTurnContext(context.Background(), userId, &dto.TurnContextRequest{})
	require.NoError(t, err)

	assert.Equal(t, "cached block", res.InstructionsBlock)
	assert.Zero(t, instructions.calls, "cache hit must not re-render")
	require.Len(t, publisher.payloads, 1)
}

func TestBuildTurnContext_MissPopulatesCache(t *testing.T) {
	userId := uuid.New()
	cache := memory.NewContextBlockCache(nil, time.Minute)
	instructions := &stubInstructionService{block: "fresh block", ids: []uuid.UUID{uuid.New()}}
	svc := newContextService(instructions, &stubConversationService{}, &stubPersonService{}, &capturingPublisher{}, cache)

	_, err := svc.BuildTurnContext(context.Background(), userId, &dto.TurnContextRequest{})
	require.NoError(t, err)

	cached, found := cache.Get(context.Background(), userId)
	require.True(t, found)
	assert.Equal(t, "fresh block", cached.Block)
	assert.Equal(t, instructions.ids, cached.InstructionIds)
}

func TestBuildTurnContext_EmptyBlockPublishesNothing(t *testing.T) {
	instructions := &stubInstructionService{block: "", ids: nil}
	publisher := &capturingPublisher{}
	svc := newContextService(instructions, &stubConversationService{}, &stubPersonService{}, publisher, nil)

	res, err := svc.BuildTurnContext(context.Background(), uuid.New(), &dto.TurnContextRequest{})
	require.NoError(t, err)
	assert.Equal(t, "", res.InstructionsBlock)
	assert.Empty(t, publisher.payloads)
}
