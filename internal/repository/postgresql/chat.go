package postgresql

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type chatRepositoryImpl struct {
	db *database.DB
}

func NewChatRepository(db *database.DB) chat.Repository {
	return &chatRepositoryImpl{db: db}
}

func (r *chatRepositoryImpl) Append(ctx context.Context, msg chat.Message) (chat.Message, error) {
	q := GetQuerier(ctx, r.db)

	if msg.ID == "" {
		msg.ID = uuid.Must(uuid.NewV7()).String()
	}
	recipients := msg.RecipientIDs
	if recipients == nil {
		recipients = []string{}
	}

	_, err := q.Exec(ctx, `
		INSERT INTO chat_messages (id, sender_id, sender_name, text, sent_at, audience, department_id, recipient_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, msg.ID, msg.SenderID, msg.SenderName, msg.Text, msg.Timestamp, string(msg.Audience), msg.DepartmentID, recipients)
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to append chat message: %w", err)
	}
	return msg, nil
}

// List reads newest first so LIMIT keeps the latest messages, then flips the
// page to oldest first.
func (r *chatRepositoryImpl) List(ctx context.Context, since *time.Time, limit int) ([]chat.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, sender_id, sender_name, text, sent_at, audience, department_id, recipient_ids
		FROM chat_messages
		WHERE ($1::timestamptz IS NULL OR sent_at > $1)
		ORDER BY sent_at DESC, id DESC
	`
	args := []any{since}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Message, error) {
		var m chat.Message
		err := row.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.Text, &m.Timestamp, &m.Audience, &m.DepartmentID, &m.RecipientIDs)
		if len(m.RecipientIDs) == 0 {
			m.RecipientIDs = nil
		}
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan chat messages: %w", err)
	}

	slices.Reverse(messages)
	return messages, nil
}
