package chat

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChat(t *testing.T) (*ChatServiceImpl, *sse.Hub) {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Roster().Save(context.Background(), roster.Snapshot{}, roster.NewSnapshot(
		[]employee.Employee{
			{ID: "a", FullName: "Ani", DepartmentID: "field"},
			{ID: "b", FullName: "Budi", DepartmentID: "field"},
			{ID: "c", FullName: "Citra", DepartmentID: "office"},
		},
		[]department.Department{{ID: "field", Name: "Field"}, {ID: "office", Name: "Office"}},
		0,
	))
	require.NoError(t, err)

	hub := sse.NewHub()
	svc := NewChatService(store.Chat(), store.Roster(), hub).(*ChatServiceImpl)
	clock := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, hub
}

func TestSend_DepartmentFanOut(t *testing.T) {
	ctx := context.Background()
	svc, hub := newChat(t)

	b, cancelB := hub.Subscribe("b")
	defer cancelB()
	c, cancelC := hub.Subscribe("c")
	defer cancelC()
	sender, cancelSender := hub.Subscribe("a")
	defer cancelSender()

	field := "field"
	resp, err := svc.Send(ctx, chat.SendMessageRequest{
		SenderID: "a", Text: "truck is here", Audience: chat.AudienceDepartment, DepartmentID: &field,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ani", resp.SenderName)

	got := <-b
	assert.Equal(t, EventMessage, got.Name)
	assert.Equal(t, resp, got.Data)
	<-sender
	assert.Empty(t, c)
}

func TestSend_DirectDeduplicatesAndIncludesSender(t *testing.T) {
	ctx := context.Background()
	svc, hub := newChat(t)
	sender, cancel := hub.Subscribe("c")
	defer cancel()

	resp, err := svc.Send(ctx, chat.SendMessageRequest{
		SenderID: "c", Text: "hi", Audience: chat.AudienceDirect, RecipientIDs: []string{"a", "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, resp.RecipientIDs)
	<-sender
}

func TestSend_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChat(t)

	_, err := svc.Send(ctx, chat.SendMessageRequest{SenderID: "a", Text: "hi", Audience: chat.AudienceDirect})
	assert.ErrorIs(t, err, chat.ErrEmptyAudience)

	_, err = svc.Send(ctx, chat.SendMessageRequest{SenderID: "a", Text: "hi", Audience: chat.AudienceDirect, RecipientIDs: []string{"ghost"}})
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	ghost := "warehouse"
	_, err = svc.Send(ctx, chat.SendMessageRequest{SenderID: "a", Text: "hi", Audience: chat.AudienceDepartment, DepartmentID: &ghost})
	assert.ErrorIs(t, err, department.ErrUnknownDepartment)

	_, err = svc.Send(ctx, chat.SendMessageRequest{SenderID: "nobody", Text: "hi", Audience: chat.AudienceBroadcast})
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	history, err := svc.History(ctx, "a", chat.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistory_VisibilityAndLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChat(t)
	office := "office"

	send := func(req chat.SendMessageRequest) {
		_, err := svc.Send(ctx, req)
		require.NoError(t, err)
	}
	send(chat.SendMessageRequest{SenderID: "c", Text: "all hands", Audience: chat.AudienceBroadcast})
	send(chat.SendMessageRequest{SenderID: "c", Text: "office only", Audience: chat.AudienceDepartment, DepartmentID: &office})
	send(chat.SendMessageRequest{SenderID: "c", Text: "for ani", Audience: chat.AudienceDirect, RecipientIDs: []string{"a"}})
	send(chat.SendMessageRequest{SenderID: "b", Text: "for citra", Audience: chat.AudienceDirect, RecipientIDs: []string{"c"}})

	texts := func(list []chat.MessageResponse) []string {
		var out []string
		for _, m := range list {
			out = append(out, m.Text)
		}
		return out
	}

	history, err := svc.History(ctx, "a", chat.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"all hands", "for ani"}, texts(history))

	history, err = svc.History(ctx, "c", chat.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"for ani", "for citra"}, texts(history))
}
