package service

import (
	"context"
	"time"

	"context-engine-be/internal/apperror"
	"context-engine-be/internal/config"
	"context-engine-be/internal/constant"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/entity"
	"context-engine-be/internal/pkg/logger"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"
	"context-engine-be/internal/repository/unitofwork"
	"context-engine-be/pkg/events"
	"context-engine-be/pkg/question"

	"github.com/google/uuid"
)

// EventPublisher is the outbound bus for person lifecycle events. May be
// absent in degraded deployments; callers must tolerate a nil publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPersonService interface {
	RecordMention(ctx context.Context, userId uuid.UUID, req *dto.RecordMentionRequest) (*dto.RecordMentionResponse, error)
	// CandidatesToAsk returns the unidentified people worth asking about
	// right now, ranked by mention weight, each paired with a ready-to-use
	// question.
	CandidatesToAsk(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AskCandidateResponse, error)
	MarkAsked(ctx context.Context, userId uuid.UUID, unknownPersonId uuid.UUID) error
	Identify(ctx context.Context, userId uuid.UUID, req *dto.IdentifyPersonRequest) (*dto.IdentifyPersonResponse, error)
	Dismiss(ctx context.Context, userId uuid.UUID, unknownPersonId uuid.UUID) error
	ListUnknown(ctx context.Context, userId uuid.UUID) ([]*dto.UnknownPersonResponse, error)

	CreatePerson(ctx context.Context, userId uuid.UUID, req *dto.CreatePersonRequest) (*dto.CreatePersonResponse, error)
	GetPerson(ctx context.Context, userId uuid.UUID, personId uuid.UUID) (*dto.PersonResponse, error)
	ListPeople(ctx context.Context, userId uuid.UUID) ([]*dto.PersonResponse, error)
}

type personService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  EventPublisher
	generate   question.Generator
	contextCfg config.ContextConfig
	logger     logger.ILogger
}

func NewPersonService(
	uowFactory unitofwork.RepositoryFactory,
	publisher EventPublisher,
	generate question.Generator,
	contextCfg config.ContextConfig,
	log logger.ILogger,
) IPersonService {
	if generate == nil {
		generate = question.Template
	}
	return &personService{
		uowFactory: uowFactory,
		publisher:  publisher,
		generate:   generate,
		contextCfg: contextCfg,
		logger:     log,
	}
}

func (s *personService) RecordMention(ctx context.Context, userId uuid.UUID, req *dto.RecordMentionRequest) (*dto.RecordMentionResponse, error) {
	if entity.NormalizeLabel(req.Label) == "" {
		return nil, apperror.InvalidInput("label must not be blank")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A mention of an already-identified name bumps the registry entry
	// instead of resurrecting the unknown record.
	person, err := s.findPersonByLabel(ctx, uow, userId, req.Label)
	if err != nil {
		return nil, err
	}
	if person != nil {
		if err := uow.PersonRepository().IncrementMention(ctx, person.Id, time.Now()); err != nil {
			return nil, err
		}
		return &dto.RecordMentionResponse{Id: person.Id, MentionCount: person.MentionCount + 1}, nil
	}

	unknown, err := uow.UnknownPersonRepository().UpsertMention(ctx, contract.MentionUpsert{
		UserId:       userId,
		Label:        req.Label,
		Snippet:      req.Snippet,
		Relationship: req.Relationship,
		MaxSnippets:  s.contextCfg.MaxContextSnippets,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecordMentionResponse{Id: unknown.Id, MentionCount: unknown.MentionCount}, nil
}

func (s *personService) CandidatesToAsk(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AskCandidateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 {
		limit = s.contextCfg.MaxAskCandidates
	}

	now := time.Now()
	candidates, err := uow.UnknownPersonRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.NotIdentified{},
		specification.AskableAt{Now: now, Cooldown: s.contextCfg.AskCooldown},
		specification.MentionOrder{},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.AskCandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		// The query already narrows by the cooldown horizon; the entity
		// check is authoritative so an ask recorded between the scan and
		// now still suppresses the candidate.
		if !candidate.AskEligible(now, s.contextCfg.AskCooldown) {
			continue
		}
		result = append(result, &dto.AskCandidateResponse{
			Person:   *toUnknownPersonResponse(candidate),
			Question: s.generate(candidate.Label, candidate.Relationships, candidate.ContextSnippets),
		})
	}
	return result, nil
}

func (s *personService) MarkAsked(ctx context.Context, userId uuid.UUID, unknownPersonId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	unknown, err := uow.UnknownPersonRepository().FindOne(ctx,
		specification.ByID{ID: unknownPersonId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if unknown == nil {
		return apperror.NotFound("unknown person not found")
	}

	if err := unknown.MarkAsked(time.Now()); err != nil {
		return apperror.Conflict(err.Error())
	}
	return uow.UnknownPersonRepository().Update(ctx, unknown)
}

// Identify promotes an unknown person into the registry. The promoted
// Person carries the source record's id, so a retry after a lost response
// returns the existing Person instead of creating a duplicate.
func (s *personService) Identify(ctx context.Context, userId uuid.UUID, req *dto.IdentifyPersonRequest) (*dto.IdentifyPersonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	unknown, err := uow.UnknownPersonRepository().FindOne(ctx,
		specification.ByID{ID: req.UnknownPersonId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if unknown == nil {
		return nil, apperror.NotFound("unknown person not found")
	}

	if unknown.Status == entity.UnknownPersonStatusIdentified {
		existing, err := uow.PersonRepository().FindBySourceUnknownId(ctx, unknown.Id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &dto.IdentifyPersonResponse{PersonId: existing.Id}, nil
		}
		return nil, apperror.Conflict("unknown person is already identified")
	}

	if err := unknown.MarkIdentified(); err != nil {
		return nil, apperror.Conflict(err.Error())
	}

	relationship := req.Relationship
	if relationship == "" && len(unknown.Relationships) > 0 {
		relationship = unknown.Relationships[0]
	}

	now := time.Now()
	person := entity.Person{
		Id:              uuid.New(),
		UserId:          userId,
		Name:            unknown.Label,
		Description:     req.Description,
		Relationship:    relationship,
		MentionCount:    unknown.MentionCount,
		LastMentionedAt: unknown.LastMentionedAt,
		Provenance:      constant.PersonProvenanceDetected,
		SourceUnknownId: &unknown.Id,
		CreatedAt:       now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.PersonRepository().Create(ctx, &person); err != nil {
		return nil, err
	}
	if err := uow.UnknownPersonRepository().Update(ctx, unknown); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewPersonIdentified(userId, person.Id, unknown.Id))

	return &dto.IdentifyPersonResponse{PersonId: person.Id}, nil
}

// Dismiss removes an unknown person the user declined to talk about. The
// record is deleted outright; a later mention starts a fresh one.
func (s *personService) Dismiss(ctx context.Context, userId uuid.UUID, unknownPersonId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	unknown, err := uow.UnknownPersonRepository().FindOne(ctx,
		specification.ByID{ID: unknownPersonId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if unknown == nil {
		return apperror.NotFound("unknown person not found")
	}
	if unknown.Status == entity.UnknownPersonStatusIdentified {
		return apperror.Conflict("unknown person is already identified")
	}

	if err := uow.UnknownPersonRepository().Delete(ctx, unknownPersonId); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewUnknownPersonDismissed(userId, unknownPersonId))
	return nil
}

func (s *personService) ListUnknown(ctx context.Context, userId uuid.UUID) ([]*dto.UnknownPersonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	records, err := uow.UnknownPersonRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.NotIdentified{},
		specification.MentionOrder{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.UnknownPersonResponse, 0, len(records))
	for _, record := range records {
		result = append(result, toUnknownPersonResponse(record))
	}
	return result, nil
}

func (s *personService) CreatePerson(ctx context.Context, userId uuid.UUID, req *dto.CreatePersonRequest) (*dto.CreatePersonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	person := entity.Person{
		Id:           uuid.New(),
		UserId:       userId,
		Name:         req.Name,
		Aliases:      req.Aliases,
		Description:  req.Description,
		Relationship: req.Relationship,
		Tags:         req.Tags,
		Provenance:   constant.PersonProvenanceManual,
		CreatedAt:    time.Now(),
	}

	if err := uow.PersonRepository().Create(ctx, &person); err != nil {
		return nil, err
	}
	return &dto.CreatePersonResponse{Id: person.Id}, nil
}

func (s *personService) GetPerson(ctx context.Context, userId uuid.UUID, personId uuid.UUID) (*dto.PersonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	person, err := uow.PersonRepository().FindOne(ctx,
		specification.ByID{ID: personId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, apperror.NotFound("person not found")
	}
	return toPersonResponse(person), nil
}

func (s *personService) ListPeople(ctx context.Context, userId uuid.UUID) ([]*dto.PersonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	people, err := uow.PersonRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.MentionOrder{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PersonResponse, 0, len(people))
	for _, person := range people {
		result = append(result, toPersonResponse(person))
	}
	return result, nil
}

// findPersonByLabel matches a mention label against registry names and
// aliases, case-insensitively.
func (s *personService) findPersonByLabel(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, label string) (*entity.Person, error) {
	people, err := uow.PersonRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	normalized := entity.NormalizeLabel(label)
	for _, person := range people {
		if entity.NormalizeLabel(person.Name) == normalized {
			return person, nil
		}
		for _, alias := range person.Aliases {
			if entity.NormalizeLabel(alias) == normalized {
				return person, nil
			}
		}
	}
	return nil, nil
}

// publishEvent sends a lifecycle event best-effort. A missing or failing
// bus never fails the user-facing operation.
func (s *personService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("PersonService", "failed to publish event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}

func toUnknownPersonResponse(record *entity.UnknownPerson) *dto.UnknownPersonResponse {
	return &dto.UnknownPersonResponse{
		Id:              record.Id,
		Label:           record.Label,
		MentionCount:    record.MentionCount,
		ContextSnippets: record.ContextSnippets,
		Relationships:   record.Relationships,
		Status:          string(record.Status),
		LastAskedAt:     record.LastAskedAt,
		LastMentionedAt: record.LastMentionedAt,
	}
}

func toPersonResponse(person *entity.Person) *dto.PersonResponse {
	return &dto.PersonResponse{
		Id:              person.Id,
		Name:            person.Name,
		Aliases:         person.Aliases,
		Description:     person.Description,
		Relationship:    person.Relationship,
		Tags:            person.Tags,
		MentionCount:    person.MentionCount,
		LastMentionedAt: person.LastMentionedAt,
		FullyAccounted:  person.FullyAccounted,
		Provenance:      person.Provenance,
		CreatedAt:       person.CreatedAt,
	}
}
