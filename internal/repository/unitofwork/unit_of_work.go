package unitofwork

import (
	"context"

	"context-engine-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	InstructionRepository() contract.InstructionRepository
	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	PersonRepository() contract.PersonRepository
	UnknownPersonRepository() contract.UnknownPersonRepository
}
