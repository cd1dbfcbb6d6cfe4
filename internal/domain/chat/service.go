package chat

import (
	"context"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
)

type Service interface {
	// Send stores a message and pushes it to every online member of its audience.
	Send(ctx context.Context, req SendMessageRequest) (MessageResponse, error)

	// History returns the messages the viewer may see, oldest first.
	History(ctx context.Context, viewerID string, filter HistoryFilter) ([]MessageResponse, error)

	// Subscribe streams new messages addressed to the viewer.
	Subscribe(ctx context.Context, viewerID string) (<-chan sse.Event, func())
}
