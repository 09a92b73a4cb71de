package contract

import (
	"context"
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CounterDelta is applied with atomic SQL increments alongside a message
// insert so counters cannot diverge from the stored messages.
type CounterDelta struct {
	Total     int
	User      int
	Assistant int
	Debate    int
	Consensus int
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	End(ctx context.Context, id uuid.UUID, endedAt time.Time) error
	IncrementCounters(ctx context.Context, id uuid.UUID, delta CounterDelta) error
}
