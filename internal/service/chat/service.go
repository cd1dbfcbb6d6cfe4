package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const (
	// EventMessage names the SSE event carrying a chat.MessageResponse.
	EventMessage = "chat.message"

	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

type ChatServiceImpl struct {
	repo   chat.Repository
	roster roster.Repository
	hub    *sse.Hub
	now    func() time.Time
}

func NewChatService(repo chat.Repository, rosterRepo roster.Repository, hub *sse.Hub) chat.Service {
	return &ChatServiceImpl{
		repo:   repo,
		roster: rosterRepo,
		hub:    hub,
		now:    time.Now,
	}
}

// Send implements chat.Service.
func (s *ChatServiceImpl) Send(ctx context.Context, req chat.SendMessageRequest) (chat.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return chat.MessageResponse{}, err
	}

	snap, err := s.roster.Load(ctx)
	if err != nil {
		return chat.MessageResponse{}, fmt.Errorf("load roster: %w", err)
	}

	sender, ok := snap.Employees[req.SenderID]
	if !ok {
		return chat.MessageResponse{}, employee.ErrUnknownEmployee
	}

	msg := chat.Message{
		ID:         uuid.Must(uuid.NewV7()).String(),
		SenderID:   sender.ID,
		SenderName: sender.FullName,
		Text:       req.Text,
		Timestamp:  s.now(),
		Audience:   req.Audience,
	}
	switch req.Audience {
	case chat.AudienceDepartment:
		msg.DepartmentID = *req.DepartmentID
		if _, ok := snap.Departments[msg.DepartmentID]; !ok && msg.DepartmentID != department.UnassignedID {
			return chat.MessageResponse{}, department.ErrUnknownDepartment
		}
	case chat.AudienceDirect:
		msg.RecipientIDs = req.RecipientIDs
	}

	recipients, err := ResolveAudience(msg, snap.EmployeeList())
	if err != nil {
		return chat.MessageResponse{}, err
	}
	if msg.Audience == chat.AudienceDirect {
		msg.RecipientIDs = recipients
	}

	saved, err := s.repo.Append(ctx, msg)
	if err != nil {
		return chat.MessageResponse{}, fmt.Errorf("failed to store message: %w", err)
	}

	resp := chat.ToResponse(saved)
	if !slices.Contains(recipients, sender.ID) {
		recipients = append(recipients, sender.ID)
	}
	streams := s.hub.PublishToMany(recipients, sse.Event{Name: EventMessage, Data: resp})

	slog.Info("chat message sent",
		"message_id", saved.ID,
		"audience", saved.Audience,
		"recipients", len(recipients),
		"streams", streams,
	)
	return resp, nil
}

// History implements chat.Service. The limit applies after visibility, so a
// viewer always gets their most recent messages.
func (s *ChatServiceImpl) History(ctx context.Context, viewerID string, filter chat.HistoryFilter) ([]chat.MessageResponse, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	snap, err := s.roster.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	viewer, ok := snap.Employees[viewerID]
	if !ok {
		return nil, employee.ErrUnknownEmployee
	}

	history, err := s.repo.List(ctx, filter.Since, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	visible := slices.Collect(VisibleTo(viewer.ID, viewer.DepartmentID, history))
	if len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}

	out := make([]chat.MessageResponse, 0, len(visible))
	for _, m := range visible {
		out = append(out, chat.ToResponse(m))
	}
	return out, nil
}

// Subscribe implements chat.Service.
func (s *ChatServiceImpl) Subscribe(ctx context.Context, viewerID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(viewerID)
}
