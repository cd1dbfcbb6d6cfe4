package chat

import (
	"iter"
	"slices"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
)

// ResolveAudience returns the ids a message is delivered to. A broadcast
// reaches every employee and a department message every member of the
// department. Direct recipients are de-duplicated in their given order and
// must all exist.
func ResolveAudience(msg chat.Message, employees []employee.Employee) ([]string, error) {
	switch msg.Audience {
	case chat.AudienceBroadcast:
		ids := make([]string, 0, len(employees))
		for _, e := range employees {
			ids = append(ids, e.ID)
		}
		return ids, nil

	case chat.AudienceDepartment:
		var ids []string
		for _, e := range employees {
			if e.DepartmentID == msg.DepartmentID {
				ids = append(ids, e.ID)
			}
		}
		return ids, nil

	case chat.AudienceDirect:
		known := make(map[string]struct{}, len(employees))
		for _, e := range employees {
			known[e.ID] = struct{}{}
		}

		ids := make([]string, 0, len(msg.RecipientIDs))
		for _, id := range msg.RecipientIDs {
			if slices.Contains(ids, id) {
				continue
			}
			if _, ok := known[id]; !ok {
				return nil, employee.ErrUnknownEmployee
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return nil, chat.ErrEmptyAudience
		}
		return ids, nil
	}
	return nil, chat.ErrInvalidAudience
}

// VisibleTo yields, in their original order, the messages the viewer sent or
// was addressed by.
func VisibleTo(viewerID, viewerDepartmentID string, history []chat.Message) iter.Seq[chat.Message] {
	return func(yield func(chat.Message) bool) {
		for _, m := range history {
			if !visible(m, viewerID, viewerDepartmentID) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

func visible(m chat.Message, viewerID, viewerDepartmentID string) bool {
	if m.SenderID == viewerID {
		return true
	}
	switch m.Audience {
	case chat.AudienceBroadcast:
		return true
	case chat.AudienceDepartment:
		return m.DepartmentID == viewerDepartmentID
	case chat.AudienceDirect:
		return slices.Contains(m.RecipientIDs, viewerID)
	}
	return false
}
