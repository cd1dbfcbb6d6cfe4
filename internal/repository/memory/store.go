// Package memory keeps every collection in process memory. It backs
// STORE_DRIVER=memory and the service tests.
package memory

import (
	"sync"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
)

type refreshToken struct {
	employeeID string
	expiresAt  int64
	revoked    bool
}

// Store is shared by the per-collection repositories it hands out.
type Store struct {
	mu sync.RWMutex

	employees     map[string]employee.Employee
	departments   map[string]department.Department
	rosterVersion int64

	events        []attendance.Event
	reports       []report.Report
	messages      []chat.Message
	refreshTokens map[string]refreshToken
}

func NewStore() *Store {
	return &Store{
		employees:     make(map[string]employee.Employee),
		departments:   make(map[string]department.Department),
		refreshTokens: make(map[string]refreshToken),
	}
}

func (s *Store) Roster() *RosterRepository {
	return &RosterRepository{store: s}
}

func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{store: s}
}

func (s *Store) Events() *EventRepository {
	return &EventRepository{store: s}
}

func (s *Store) Reports() *ReportRepository {
	return &ReportRepository{store: s}
}

func (s *Store) Chat() *ChatRepository {
	return &ChatRepository{store: s}
}

func (s *Store) Tokens() *TokenRepository {
	return &TokenRepository{store: s}
}
