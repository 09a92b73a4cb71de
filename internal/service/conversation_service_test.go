package service

import (
	"context"
	"testing"
	"time"

	"context-engine-be/internal/apperror"
	"context-engine-be/internal/config"
	"context-engine-be/internal/constant"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContextCfg = config.ContextConfig{
	DayWindow:        7,
	MaxConversations: 10,
	MaxMessages:      50,
	AskCooldown:      24 * time.Hour,
	MaxAskCandidates: 3,
	BuildTimeout:     2 * time.Second,
}

func TestCounterDeltaFor(t *testing.T) {
	tests := []struct {
		name string
		msg  entity.ConversationMessage
		want contract.CounterDelta
	}{
		{"user message", entity.ConversationMessage{Role: constant.ChatMessageRoleUser},
			contract.CounterDelta{Total: 1, User: 1}},
		{"aria message", entity.ConversationMessage{Role: constant.ChatMessageRoleAria},
			contract.CounterDelta{Total: 1, Assistant: 1}},
		{"kai debate message", entity.ConversationMessage{Role: constant.ChatMessageRoleKai, IsDebate: true},
			contract.CounterDelta{Total: 1, Assistant: 1, Debate: 1}},
		{"consensus close", entity.ConversationMessage{Role: constant.ChatMessageRoleSystem, IsDebate: true},
			contract.CounterDelta{Total: 1, Debate: 1, Consensus: 1}},
		{"plain system message", entity.ConversationMessage{Role: constant.ChatMessageRoleSystem},
			contract.CounterDelta{Total: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, counterDeltaFor(&tc.msg))
		})
	}
}

func TestAppend_RejectsUnknownRoleAndEndedConversation(t *testing.T) {
	ended := &entity.Conversation{Id: uuid.New(), IsActive: false}
	uow := &fakeUnitOfWork{
		conversations: &fakeConversationRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
				return ended, nil
			},
		},
	}
	svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)
	userId := uuid.New()

	_, err := svc.Append(context.Background(), userId, &dto.AppendMessageRequest{
		ConversationId: ended.Id, Role: "narrator", Content: "x",
	})
	code, _ := apperror.CodeOf(err)
	assert.Equal(t, apperror.CodeInvalidInput, code)

	_, err = svc.Append(context.Background(), userId, &dto.AppendMessageRequest{
		ConversationId: ended.Id, Role: constant.ChatMessageRoleUser, Content: "x",
	})
	code, _ = apperror.CodeOf(err)
	assert.Equal(t, apperror.CodeConflict, code)
}

func TestAppend_WritesMessageAndCountersInOneTransaction(t *testing.T) {
	conversation := &entity.Conversation{Id: uuid.New(), IsActive: true}
	var createdMsg *entity.ConversationMessage
	var delta contract.CounterDelta

	uow := &fakeUnitOfWork{
		conversations: &fakeConversationRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
				return conversation, nil
			},
			incrementCountersFn: func(ctx context.Context, id uuid.UUID, d contract.CounterDelta) error {
				delta = d
				return nil
			},
		},
		messages: &fakeMessageRepo{
			createFn: func(ctx context.Context, message *entity.ConversationMessage) error {
				createdMsg = message
				return nil
			},
		},
	}
	svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)

	res, err := svc.Append(context.Background(), uuid.New(), &dto.AppendMessageRequest{
		ConversationId: conversation.Id,
		Role:           constant.ChatMessageRoleUser,
		Content:        "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, res.Id, createdMsg.Id)
	assert.Equal(t, contract.CounterDelta{Total: 1, User: 1}, delta)
	assert.True(t, uow.began)
	assert.True(t, uow.committed)
}

func TestEnd_IsIdempotent(t *testing.T) {
	endedAt := time.Now().Add(-time.Hour)
	conversation := &entity.Conversation{Id: uuid.New(), IsActive: false, EndedAt: &endedAt}
	endCalled := false

	uow := &fakeUnitOfWork{
		conversations: &fakeConversationRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
				return conversation, nil
			},
			endFn: func(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
				endCalled = true
				return nil
			},
		},
	}
	svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)

	err := svc.End(context.Background(), uuid.New(), conversation.Id)
	require.NoError(t, err)
	assert.False(t, endCalled, "ending an ended conversation must be a no-op")
}

func TestWindowedContext_FlattensCapsAndOrdersChronologically(t *testing.T) {
	now := time.Now()
	older := &entity.Conversation{Id: uuid.New(), StartedAt: now.Add(-48 * time.Hour)}
	newer := &entity.Conversation{Id: uuid.New(), StartedAt: now.Add(-2 * time.Hour)}

	// Repository returns newest-first, as the contract specifies.
	latest := []*entity.ConversationMessage{
		{ConversationId: newer.Id, Role: constant.ChatMessageRoleAria, Content: "third", SpokeAt: now.Add(-1 * time.Hour)},
		{ConversationId: newer.Id, Role: constant.ChatMessageRoleUser, Content: "second", SpokeAt: now.Add(-90 * time.Minute)},
		{ConversationId: older.Id, Role: constant.ChatMessageRoleUser, Content: "first", SpokeAt: now.Add(-47 * time.Hour)},
	}

	var gotIds []uuid.UUID
	var gotLimit int
	uow := &fakeUnitOfWork{
		conversations: &fakeConversationRepo{
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
				return []*entity.Conversation{newer, older}, nil
			},
		},
		messages: &fakeMessageRepo{
			findLatestByConversationIdsFn: func(ctx context.Context, ids []uuid.UUID, limit int) ([]*entity.ConversationMessage, error) {
				gotIds = ids
				gotLimit = limit
				return latest, nil
			},
		},
	}
	svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)

	res, err := svc.WindowedContext(context.Background(), uuid.New(), &dto.WindowedContextRequest{MaxMessages: 3})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{newer.Id, older.Id}, gotIds)
	assert.Equal(t, 3, gotLimit)

	require.Len(t, res, 3)
	assert.Equal(t, "first", res[0].Content)
	assert.Equal(t, "second", res[1].Content)
	assert.Equal(t, "third", res[2].Content)
	// Each entry carries the start date of its own conversation.
	assert.Equal(t, older.StartedAt, res[0].ConversationDate)
	assert.Equal(t, newer.StartedAt, res[2].ConversationDate)
}

func TestWindowedContext_BoundsScanToDayWindow(t *testing.T) {
	tests := []struct {
		name       string
		reqWindow  int
		wantWindow int
	}{
		{"default window", 0, testContextCfg.DayWindow},
		{"per-request override", 2, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotSpecs []specification.Specification
			uow := &fakeUnitOfWork{
				conversations: &fakeConversationRepo{
					findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
						gotSpecs = specs
						return nil, nil
					},
				},
			}
			svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)

			before := time.Now().AddDate(0, 0, -tc.wantWindow)
			_, err := svc.WindowedContext(context.Background(), uuid.New(), &dto.WindowedContextRequest{DayWindow: tc.reqWindow})
			require.NoError(t, err)
			after := time.Now().AddDate(0, 0, -tc.wantWindow)

			var started *specification.StartedSince
			var limit *specification.Limit
			for _, spec := range gotSpecs {
				switch s := spec.(type) {
				case specification.StartedSince:
					started = &s
				case specification.Limit:
					limit = &s
				}
			}

			require.NotNil(t, started, "window scan must carry the started-since cutoff")
			assert.False(t, started.Since.Before(before))
			assert.False(t, started.Since.After(after))
			require.NotNil(t, limit)
			assert.Equal(t, testContextCfg.MaxConversations, limit.Limit)
		})
	}
}

func TestWindowedContext_EmptyWindow(t *testing.T) {
	uow := &fakeUnitOfWork{
		conversations: &fakeConversationRepo{
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
				return nil, nil
			},
		},
	}
	svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)

	res, err := svc.WindowedContext(context.Background(), uuid.New(), &dto.WindowedContextRequest{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestGetById_UnownedConversationIsNotFound(t *testing.T) {
	uow := &fakeUnitOfWork{
		conversations: &fakeConversationRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
				// Owner scoping filtered it out.
				return nil, nil
			},
		},
	}
	svc := NewConversationService(&fakeUowFactory{uow: uow}, testContextCfg)

	_, err := svc.GetById(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	code, _ := apperror.CodeOf(err)
	assert.Equal(t, apperror.CodeNotFound, code)
}
