package contract

import (
	"context"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationMessageRepository interface {
	Create(ctx context.Context, message *entity.ConversationMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindLatestByConversationIds returns messages across the given
	// conversations ordered spoke_at descending, capped at limit. The
	// caller reverses into chronological order for presentation.
	FindLatestByConversationIds(ctx context.Context, ids []uuid.UUID, limit int) ([]*entity.ConversationMessage, error)
	// FindOldestByConversationId returns the first messages of one
	// conversation in chronological order, capped at limit. Used for
	// size-bounded previews.
	FindOldestByConversationId(ctx context.Context, id uuid.UUID, limit int) ([]*entity.ConversationMessage, error)
}
