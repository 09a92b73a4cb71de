package service

import (
	"context"
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"
	"context-engine-be/internal/repository/unitofwork"
	"context-engine-be/pkg/events"

	"github.com/google/uuid"
)

// Function-field fakes so each test wires only the calls it expects.

type fakeUnitOfWork struct {
	instructions  contract.InstructionRepository
	conversations contract.ConversationRepository
	messages      contract.ConversationMessageRepository
	people        contract.PersonRepository
	unknownPeople contract.UnknownPersonRepository

	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *fakeUnitOfWork) InstructionRepository() contract.InstructionRepository { return u.instructions }
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUnitOfWork) ConversationMessageRepository() contract.ConversationMessageRepository {
	return u.messages
}
func (u *fakeUnitOfWork) PersonRepository() contract.PersonRepository { return u.people }
func (u *fakeUnitOfWork) UnknownPersonRepository() contract.UnknownPersonRepository {
	return u.unknownPeople
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeInstructionRepo struct {
	createFn           func(ctx context.Context, instruction *entity.Instruction) error
	updateFn           func(ctx context.Context, instruction *entity.Instruction) error
	deactivateFn       func(ctx context.Context, id uuid.UUID) error
	findOneFn          func(ctx context.Context, specs ...specification.Specification) (*entity.Instruction, error)
	findAllFn          func(ctx context.Context, specs ...specification.Specification) ([]*entity.Instruction, error)
	countFn            func(ctx context.Context, specs ...specification.Specification) (int64, error)
	incrementAppliedFn func(ctx context.Context, id uuid.UUID, appliedAt time.Time) error
}

func (r *fakeInstructionRepo) Create(ctx context.Context, instruction *entity.Instruction) error {
	return r.createFn(ctx, instruction)
}
func (r *fakeInstructionRepo) Update(ctx context.Context, instruction *entity.Instruction) error {
	return r.updateFn(ctx, instruction)
}
func (r *fakeInstructionRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.deactivateFn(ctx, id)
}
func (r *fakeInstructionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Instruction, error) {
	return r.findOneFn(ctx, specs...)
}
func (r *fakeInstructionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Instruction, error) {
	return r.findAllFn(ctx, specs...)
}
func (r *fakeInstructionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countFn(ctx, specs...)
}
func (r *fakeInstructionRepo) IncrementApplied(ctx context.Context, id uuid.UUID, appliedAt time.Time) error {
	return r.incrementAppliedFn(ctx, id, appliedAt)
}

type fakeConversationRepo struct {
	createFn            func(ctx context.Context, conversation *entity.Conversation) error
	updateFn            func(ctx context.Context, conversation *entity.Conversation) error
	findOneFn           func(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	findAllFn           func(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	countFn             func(ctx context.Context, specs ...specification.Specification) (int64, error)
	endFn               func(ctx context.Context, id uuid.UUID, endedAt time.Time) error
	incrementCountersFn func(ctx context.Context, id uuid.UUID, delta contract.CounterDelta) error
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	return r.createFn(ctx, conversation)
}
func (r *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	return r.updateFn(ctx, conversation)
}
func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	return r.findOneFn(ctx, specs...)
}
func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return r.findAllFn(ctx, specs...)
}
func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countFn(ctx, specs...)
}
func (r *fakeConversationRepo) End(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	return r.endFn(ctx, id, endedAt)
}
func (r *fakeConversationRepo) IncrementCounters(ctx context.Context, id uuid.UUID, delta contract.CounterDelta) error {
	return r.incrementCountersFn(ctx, id, delta)
}

type fakeMessageRepo struct {
	createFn                      func(ctx context.Context, message *entity.ConversationMessage) error
	findAllFn                     func(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	countFn                       func(ctx context.Context, specs ...specification.Specification) (int64, error)
	findLatestByConversationIdsFn func(ctx context.Context, ids []uuid.UUID, limit int) ([]*entity.ConversationMessage, error)
	findOldestByConversationIdFn  func(ctx context.Context, id uuid.UUID, limit int) ([]*entity.ConversationMessage, error)
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ConversationMessage) error {
	return r.createFn(ctx, message)
}
func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	return r.findAllFn(ctx, specs...)
}
func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countFn(ctx, specs...)
}
func (r *fakeMessageRepo) FindLatestByConversationIds(ctx context.Context, ids []uuid.UUID, limit int) ([]*entity.ConversationMessage, error) {
	return r.findLatestByConversationIdsFn(ctx, ids, limit)
}
func (r *fakeMessageRepo) FindOldestByConversationId(ctx context.Context, id uuid.UUID, limit int) ([]*entity.ConversationMessage, error) {
	return r.findOldestByConversationIdFn(ctx, id, limit)
}

type fakePersonRepo struct {
	createFn                func(ctx context.Context, person *entity.Person) error
	updateFn                func(ctx context.Context, person *entity.Person) error
	findOneFn               func(ctx context.Context, specs ...specification.Specification) (*entity.Person, error)
	findAllFn               func(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error)
	countFn                 func(ctx context.Context, specs ...specification.Specification) (int64, error)
	findBySourceUnknownIdFn func(ctx context.Context, sourceUnknownId uuid.UUID) (*entity.Person, error)
	incrementMentionFn      func(ctx context.Context, id uuid.UUID, mentionedAt time.Time) error
}

func (r *fakePersonRepo) Create(ctx context.Context, person *entity.Person) error {
	return r.createFn(ctx, person)
}
func (r *fakePersonRepo) Update(ctx context.Context, person *entity.Person) error {
	return r.updateFn(ctx, person)
}
func (r *fakePersonRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Person, error) {
	return r.findOneFn(ctx, specs...)
}
func (r *fakePersonRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error) {
	return r.findAllFn(ctx, specs...)
}
func (r *fakePersonRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countFn(ctx, specs...)
}
func (r *fakePersonRepo) FindBySourceUnknownId(ctx context.Context, sourceUnknownId uuid.UUID) (*entity.Person, error) {
	return r.findBySourceUnknownIdFn(ctx, sourceUnknownId)
}
func (r *fakePersonRepo) IncrementMention(ctx context.Context, id uuid.UUID, mentionedAt time.Time) error {
	return r.incrementMentionFn(ctx, id, mentionedAt)
}

type fakeUnknownPersonRepo struct {
	upsertMentionFn func(ctx context.Context, mention contract.MentionUpsert) (*entity.UnknownPerson, error)
	updateFn        func(ctx context.Context, person *entity.UnknownPerson) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
	findOneFn       func(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error)
	findAllFn       func(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error)
	countFn         func(ctx context.Context, specs ...specification.Specification) (int64, error)
}

func (r *fakeUnknownPersonRepo) UpsertMention(ctx context.Context, mention contract.MentionUpsert) (*entity.UnknownPerson, error) {
	return r.upsertMentionFn(ctx, mention)
}
func (r *fakeUnknownPersonRepo) Update(ctx context.Context, person *entity.UnknownPerson) error {
	return r.updateFn(ctx, person)
}
func (r *fakeUnknownPersonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.deleteFn(ctx, id)
}
func (r *fakeUnknownPersonRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
	return r.findOneFn(ctx, specs...)
}
func (r *fakeUnknownPersonRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error) {
	return r.findAllFn(ctx, specs...)
}
func (r *fakeUnknownPersonRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countFn(ctx, specs...)
}

type fakeEventPublisher struct {
	published []events.Event
	err       error
}

func (p *fakeEventPublisher) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
