package service

import (
	"context"
	"testing"
	"time"

	"context-engine-be/internal/apperror"
	"context-engine-be/internal/constant"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"
	"context-engine-be/pkg/events"
	"context-engine-be/pkg/question"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersonService(uow *fakeUnitOfWork, pub *fakeEventPublisher) IPersonService {
	var publisher EventPublisher
	if pub != nil {
		publisher = pub
	}
	return NewPersonService(&fakeUowFactory{uow: uow}, publisher, question.Template, testContextCfg, noopLogger{})
}

func TestRecordMention_RoutesToUnknownWhenNoRegistryMatch(t *testing.T) {
	var upserted contract.MentionUpsert
	uow := &fakeUnitOfWork{
		people: &fakePersonRepo{
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error) {
				return nil, nil
			},
		},
		unknownPeople: &fakeUnknownPersonRepo{
			upsertMentionFn: func(ctx context.Context, mention contract.MentionUpsert) (*entity.UnknownPerson, error) {
				upserted = mention
				return &entity.UnknownPerson{Id: uuid.New(), MentionCount: 1}, nil
			},
		},
	}
	svc := newPersonService(uow, nil)

	res, err := svc.RecordMention(context.Background(), uuid.New(), &dto.RecordMentionRequest{
		Label:   "Maria",
		Snippet: "Maria helped me move",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.MentionCount)
	assert.Equal(t, "Maria", upserted.Label)
	assert.Equal(t, testContextCfg.MaxContextSnippets, upserted.MaxSnippets)
}

func TestRecordMention_BumpsRegistryEntryForKnownAlias(t *testing.T) {
	known := &entity.Person{Id: uuid.New(), Name: "Maria Lopez", Aliases: []string{"Maria"}, MentionCount: 4}
	var bumped uuid.UUID
	upsertCalled := false

	uow := &fakeUnitOfWork{
		people: &fakePersonRepo{
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error) {
				return []*entity.Person{known}, nil
			},
			incrementMentionFn: func(ctx context.Context, id uuid.UUID, mentionedAt time.Time) error {
				bumped = id
				return nil
			},
		},
		unknownPeople: &fakeUnknownPersonRepo{
			upsertMentionFn: func(ctx context.Context, mention contract.MentionUpsert) (*entity.UnknownPerson, error) {
				upsertCalled = true
				return nil, nil
			},
		},
	}
	svc := newPersonService(uow, nil)

	res, err := svc.RecordMention(context.Background(), uuid.New(), &dto.RecordMentionRequest{Label: "  maria "})
	require.NoError(t, err)
	assert.Equal(t, known.Id, bumped)
	assert.Equal(t, 5, res.MentionCount)
	assert.False(t, upsertCalled, "known person must not resurrect an unknown record")
}

func TestRecordMention_BlankLabelRejected(t *testing.T) {
	svc := newPersonService(&fakeUnitOfWork{}, nil)
	_, err := svc.RecordMention(context.Background(), uuid.New(), &dto.RecordMentionRequest{Label: "   "})
	require.Error(t, err)
	code, _ := apperror.CodeOf(err)
	assert.Equal(t, apperror.CodeInvalidInput, code)
}

func TestCandidatesToAsk_AttachesQuestions(t *testing.T) {
	candidate := &entity.UnknownPerson{
		Id:            uuid.New(),
		Label:         "Maria",
		MentionCount:  3,
		Relationships: []string{"sister"},
		Status:        entity.UnknownPersonStatusUnknown,
	}
	uow := &fakeUnitOfWork{
		unknownPeople: &fakeUnknownPersonRepo{
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error) {
				return []*entity.UnknownPerson{candidate}, nil
			},
		},
	}
	svc := newPersonService(uow, nil)

	res, err := svc.CandidatesToAsk(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, candidate.Id, res[0].Person.Id)
	assert.Equal(t, question.Template("Maria", []string{"sister"}, nil), res[0].Question)
}

func TestCandidatesToAsk_QueriesWithConfiguredCooldown(t *testing.T) {
	var gotSpecs []specification.Specification
	uow := &fakeUnitOfWork{
		unknownPeople: &fakeUnknownPersonRepo{
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error) {
				gotSpecs = specs
				return nil, nil
			},
		},
	}
	svc := newPersonService(uow, nil)

	before := time.Now()
	_, err := svc.CandidatesToAsk(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	after := time.Now()

	var askable *specification.AskableAt
	var notIdentified bool
	var limit *specification.Limit
	for _, spec := range gotSpecs {
		switch s := spec.(type) {
		case specification.AskableAt:
			askable = &s
		case specification.NotIdentified:
			notIdentified = true
		case specification.Limit:
			limit = &s
		}
	}

	require.NotNil(t, askable, "candidate query must carry the cooldown filter")
	assert.Equal(t, testContextCfg.AskCooldown, askable.Cooldown)
	assert.False(t, askable.Now.Before(before))
	assert.False(t, askable.Now.After(after))
	assert.True(t, notIdentified, "candidate query must exclude identified records")
	require.NotNil(t, limit)
	assert.Equal(t, testContextCfg.MaxAskCandidates, limit.Limit)
}

func TestCandidatesToAsk_MarkAskedSuppressesUntilCooldownElapses(t *testing.T) {
	candidate := &entity.UnknownPerson{
		Id:           uuid.New(),
		Label:        "Maria",
		MentionCount: 5,
		Status:       entity.UnknownPersonStatusUnknown,
	}
	uow := &fakeUnitOfWork{
		unknownPeople: &fakeUnknownPersonRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
				return candidate, nil
			},
			findAllFn: func(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error) {
				return []*entity.UnknownPerson{candidate}, nil
			},
			updateFn: func(ctx context.Context, person *entity.UnknownPerson) error {
				candidate = person
				return nil
			},
		},
	}
	svc := newPersonService(uow, nil)
	userId := uuid.New()

	res, err := svc.CandidatesToAsk(context.Background(), userId, 0)
	require.NoError(t, err)
	require.Len(t, res, 1, "never-asked candidate is eligible")

	require.NoError(t, svc.MarkAsked(context.Background(), userId, candidate.Id))
	assert.Equal(t, entity.UnknownPersonStatusPending, candidate.Status)

	res, err = svc.CandidatesToAsk(context.Background(), userId, 0)
	require.NoError(t, err)
	assert.Empty(t, res, "a just-asked candidate must not be surfaced again")

	// Simulate the cooldown elapsing.
	stale := time.Now().Add(-testContextCfg.AskCooldown - time.Minute)
	candidate.LastAskedAt = &stale

	res, err = svc.CandidatesToAsk(context.Background(), userId, 0)
	require.NoError(t, err)
	require.Len(t, res, 1, "pending candidate becomes eligible again after the cooldown")
	assert.Equal(t, candidate.Id, res[0].Person.Id)
}

func TestMarkAsked_RejectsIdentified(t *testing.T) {
	identified := &entity.UnknownPerson{Id: uuid.New(), Status: entity.UnknownPersonStatusIdentified}
	uow := &fakeUnitOfWork{
		unknownPeople: &fakeUnknownPersonRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
				return identified, nil
			},
		},
	}
	svc := newPersonService(uow, nil)

	err := svc.MarkAsked(context.Background(), uuid.New(), identified.Id)
	require.Error(t, err)
	code, _ := apperror.CodeOf(err)
	assert.Equal(t, apperror.CodeConflict, code)
}

func TestIdentify_PromotesAndPublishes(t *testing.T) {
	lastMentioned := time.Now().Add(-time.Hour)
	unknown := &entity.UnknownPerson{
		Id:              uuid.New(),
		Label:           "Maria",
		MentionCount:    5,
		Relationships:   []string{"sister"},
		Status:          entity.UnknownPersonStatusPending,
		LastMentionedAt: &lastMentioned,
	}
	var createdPerson *entity.Person
	var updatedUnknown *entity.UnknownPerson

	uow := &fakeUnitOfWork{
		people: &fakePersonRepo{
			createFn: func(ctx context.Context, person *entity.Person) error {
				createdPerson = person
				return nil
			},
		},
		unknownPeople: &fakeUnknownPersonRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
				return unknown, nil
			},
			updateFn: func(ctx context.Context, person *entity.UnknownPerson) error {
				updatedUnknown = person
				return nil
			},
		},
	}
	pub := &fakeEventPublisher{}
	svc := newPersonService(uow, pub)
	userId := uuid.New()

	res, err := svc.Identify(context.Background(), userId, &dto.IdentifyPersonRequest{
		UnknownPersonId: unknown.Id,
		Description:     "My sister, lives in Madrid",
	})
	require.NoError(t, err)

	require.NotNil(t, createdPerson)
	assert.Equal(t, res.PersonId, createdPerson.Id)
	assert.Equal(t, "Maria", createdPerson.Name)
	assert.Equal(t, "sister", createdPerson.Relationship, "relationship falls back to the stored hypothesis")
	assert.Equal(t, 5, createdPerson.MentionCount, "mention history carries over")
	assert.Equal(t, constant.PersonProvenanceDetected, createdPerson.Provenance)
	require.NotNil(t, createdPerson.SourceUnknownId)
	assert.Equal(t, unknown.Id, *createdPerson.SourceUnknownId)

	assert.Equal(t, entity.UnknownPersonStatusIdentified, updatedUnknown.Status)
	assert.True(t, uow.began)
	assert.True(t, uow.committed)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.EventPersonIdentified, pub.published[0].EventType())
}

func TestIdentify_RetryConvergesOnExistingPerson(t *testing.T) {
	unknown := &entity.UnknownPerson{Id: uuid.New(), Label: "Maria", Status: entity.UnknownPersonStatusIdentified}
	existing := &entity.Person{Id: uuid.New(), SourceUnknownId: &unknown.Id}
	createCalled := false

	uow := &fakeUnitOfWork{
		people: &fakePersonRepo{
			findBySourceUnknownIdFn: func(ctx context.Context, sourceUnknownId uuid.UUID) (*entity.Person, error) {
				return existing, nil
			},
			createFn: func(ctx context.Context, person *entity.Person) error {
				createCalled = true
				return nil
			},
		},
		unknownPeople: &fakeUnknownPersonRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
				return unknown, nil
			},
		},
	}
	svc := newPersonService(uow, nil)

	res, err := svc.Identify(context.Background(), uuid.New(), &dto.IdentifyPersonRequest{
		UnknownPersonId: unknown.Id,
		Description:     "retry after lost response",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, res.PersonId)
	assert.False(t, createCalled, "retry must not mint a second person")
}

func TestDismiss_DeletesAndPublishes(t *testing.T) {
	unknown := &entity.UnknownPerson{Id: uuid.New(), Status: entity.UnknownPersonStatusPending}
	var deleted uuid.UUID

	uow := &fakeUnitOfWork{
		unknownPeople: &fakeUnknownPersonRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
				return unknown, nil
			},
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				deleted = id
				return nil
			},
		},
	}
	pub := &fakeEventPublisher{}
	svc := newPersonService(uow, pub)

	err := svc.Dismiss(context.Background(), uuid.New(), unknown.Id)
	require.NoError(t, err)
	assert.Equal(t, unknown.Id, deleted)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.EventUnknownPersonDismissed, pub.published[0].EventType())
}

func TestDismiss_NilPublisherIsFine(t *testing.T) {
	unknown := &entity.UnknownPerson{Id: uuid.New(), Status: entity.UnknownPersonStatusUnknown}
	uow := &fakeUnitOfWork{
		unknownPeople: &fakeUnknownPersonRepo{
			findOneFn: func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
				return unknown, nil
			},
			deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
		},
	}
	svc := newPersonService(uow, nil)

	assert.NoError(t, svc.Dismiss(context.Background(), uuid.New(), unknown.Id))
}
