package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/google/uuid"
)

type ChatRepository struct {
	store *Store
}

func (r *ChatRepository) Append(ctx context.Context, msg chat.Message) (chat.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.Must(uuid.NewV7()).String()
	}
	msg.RecipientIDs = slices.Clone(msg.RecipientIDs)
	r.store.messages = append(r.store.messages, msg)
	return msg, nil
}

func (r *ChatRepository) List(ctx context.Context, since *time.Time, limit int) ([]chat.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []chat.Message
	for _, m := range r.store.messages {
		if since != nil && !m.Timestamp.After(*since) {
			continue
		}
		out = append(out, m)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
