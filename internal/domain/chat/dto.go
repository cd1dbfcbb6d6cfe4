package chat

import (
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

type SendMessageRequest struct {
	SenderID     string       `json:"-" validate:"required"`
	Text         string       `json:"text" validate:"required,max=2000"`
	Audience     AudienceKind `json:"audience" validate:"required,oneof=broadcast department direct"`
	DepartmentID *string      `json:"department_id,omitempty"`
	RecipientIDs []string     `json:"recipient_ids,omitempty"`
}

func (r *SendMessageRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Audience == AudienceDepartment && (r.DepartmentID == nil || validator.IsEmpty(*r.DepartmentID)) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id is required for a department message",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	Since *time.Time
	Limit int
}

type MessageResponse struct {
	ID           string   `json:"id"`
	SenderID     string   `json:"sender_id"`
	SenderName   string   `json:"sender_name"`
	Text         string   `json:"text"`
	Timestamp    string   `json:"timestamp"`
	Audience     string   `json:"audience"`
	DepartmentID string   `json:"department_id,omitempty"`
	RecipientIDs []string `json:"recipient_ids,omitempty"`
}

func ToResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		Text:         m.Text,
		Timestamp:    m.Timestamp.Format(time.RFC3339),
		Audience:     string(m.Audience),
		DepartmentID: m.DepartmentID,
		RecipientIDs: m.RecipientIDs,
	}
}
