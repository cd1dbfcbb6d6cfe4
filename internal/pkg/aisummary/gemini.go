// Package aisummary implements summary.Summarizer on the Gemini API.
package aisummary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/summary"
	"google.golang.org/genai"
)

const systemInstruction = `You are an operations assistant for a field workforce.
Summarize the attendance log you are given for a supervisor in at most five short bullet points.
Point out lateness, check-ins outside the work area and absences, and name the employees involved.`

type GeminiSummarizer struct {
	client   *genai.Client
	model    string
	location *time.Location
}

func NewGeminiSummarizer(ctx context.Context, apiKey, model string, location *time.Location) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if location == nil {
		location = time.UTC
	}
	return &GeminiSummarizer{client: client, model: model, location: location}, nil
}

func (g *GeminiSummarizer) Summarize(ctx context.Context, events []attendance.Event) (string, error) {
	if len(events) == 0 {
		return "No attendance has been recorded yet.", nil
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(events, g.location)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", summary.ErrUnavailable
	}
	return text, nil
}

// Prompt renders events as one line each, oldest first, in loc.
func Prompt(events []attendance.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("Attendance log (time, employee, department, kind, status, distance):\n")
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		distance := "-"
		if e.DistanceMeters != nil {
			distance = fmt.Sprintf("%.0fm", *e.DistanceMeters)
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s\n",
			e.Timestamp.In(loc).Format("2006-01-02 15:04"),
			e.EmployeeName,
			e.DepartmentID,
			e.Kind,
			e.Status,
			distance,
		)
	}
	return b.String()
}
