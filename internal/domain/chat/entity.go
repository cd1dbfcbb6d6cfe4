package chat

import "time"

type AudienceKind string

const (
	AudienceBroadcast  AudienceKind = "broadcast"
	AudienceDepartment AudienceKind = "department"
	AudienceDirect     AudienceKind = "direct"
)

// Message is immutable once stored.
type Message struct {
	ID         string
	SenderID   string
	SenderName string
	Text       string
	Timestamp  time.Time
	Audience   AudienceKind
	// DepartmentID is set for department audiences.
	DepartmentID string
	// RecipientIDs is set for direct audiences.
	RecipientIDs []string
}
