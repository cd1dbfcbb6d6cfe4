package chat

import (
	"slices"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staff = []employee.Employee{
	{ID: "a", DepartmentID: "field"},
	{ID: "b", DepartmentID: "field"},
	{ID: "c", DepartmentID: "office"},
	{ID: "d", DepartmentID: "unassigned"},
}

func TestResolveAudience(t *testing.T) {
	ids, err := ResolveAudience(chat.Message{Audience: chat.AudienceBroadcast}, staff)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)

	ids, err = ResolveAudience(chat.Message{Audience: chat.AudienceDepartment, DepartmentID: "field"}, staff)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = ResolveAudience(chat.Message{Audience: chat.AudienceDepartment, DepartmentID: "empty"}, staff)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = ResolveAudience(chat.Message{Audience: chat.AudienceDirect, RecipientIDs: []string{"c", "a", "c"}}, staff)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids)
}

func TestResolveAudience_DirectErrors(t *testing.T) {
	_, err := ResolveAudience(chat.Message{Audience: chat.AudienceDirect}, staff)
	assert.ErrorIs(t, err, chat.ErrEmptyAudience)

	_, err = ResolveAudience(chat.Message{Audience: chat.AudienceDirect, RecipientIDs: []string{"a", "ghost"}}, staff)
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	_, err = ResolveAudience(chat.Message{Audience: "everyone"}, staff)
	assert.ErrorIs(t, err, chat.ErrInvalidAudience)
}

func TestVisibleTo(t *testing.T) {
	base := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	history := []chat.Message{
		{ID: "1", SenderID: "c", Audience: chat.AudienceBroadcast, Timestamp: base},
		{ID: "2", SenderID: "c", Audience: chat.AudienceDepartment, DepartmentID: "office", Timestamp: base.Add(time.Minute)},
		{ID: "3", SenderID: "a", Audience: chat.AudienceDepartment, DepartmentID: "office", Timestamp: base.Add(2 * time.Minute)},
		{ID: "4", SenderID: "c", Audience: chat.AudienceDirect, RecipientIDs: []string{"b"}, Timestamp: base.Add(3 * time.Minute)},
		{ID: "5", SenderID: "c", Audience: chat.AudienceDirect, RecipientIDs: []string{"a", "b"}, Timestamp: base.Add(4 * time.Minute)},
		{ID: "6", SenderID: "b", Audience: chat.AudienceDepartment, DepartmentID: "field", Timestamp: base.Add(5 * time.Minute)},
	}

	ids := func(viewer, dept string) []string {
		var out []string
		for m := range VisibleTo(viewer, dept, history) {
			out = append(out, m.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "3", "5", "6"}, ids("a", "field"))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids("c", "office"))
	assert.Equal(t, []string{"1"}, ids("d", "unassigned"))

	// restartable
	seq := VisibleTo("a", "field", history)
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))
}
