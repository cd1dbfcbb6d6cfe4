package dashboard

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	domainattendance "github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/attendance"
	"golang.org/x/sync/errgroup"
)

// unassignedName labels the virtual bucket of employees without a department.
const unassignedName = "Unassigned"

type DashboardServiceImpl struct {
	roster     roster.Repository
	ledger     *attendance.Ledger
	summarizer summary.Summarizer
	maxEvents  int
	location   *time.Location
	now        func() time.Time
}

// NewDashboardService wires the dashboard. summarizer may be nil when no AI
// backend is configured; Summary then fails with summary.ErrUnavailable.
func NewDashboardService(rosterRepo roster.Repository, ledger *attendance.Ledger, summarizer summary.Summarizer, maxEvents int, location *time.Location) dashboard.DashboardService {
	if maxEvents <= 0 {
		maxEvents = summary.DefaultMaxEvents
	}
	if location == nil {
		location = time.UTC
	}
	return &DashboardServiceImpl{
		roster:     rosterRepo,
		ledger:     ledger,
		summarizer: summarizer,
		maxEvents:  maxEvents,
		location:   location,
		now:        time.Now,
	}
}

// parseDate parses YYYY-MM-DD in loc, defaults to today
func parseDate(date *string, now time.Time, loc *time.Location) time.Time {
	if date != nil && *date != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", *date, loc); err == nil {
			return parsed
		}
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// dayState is what one employee did on the overview day.
type dayState struct {
	firstIn    *domainattendance.Event
	checkedOut bool
}

// Overview implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Overview(ctx context.Context, req dashboard.OverviewRequest) (dashboard.OverviewResponse, error) {
	if err := req.Validate(); err != nil {
		return dashboard.OverviewResponse{}, err
	}

	from := parseDate(req.Date, s.now(), s.location)
	to := from.AddDate(0, 0, 1)

	var (
		snap   roster.Snapshot
		events iter.Seq[domainattendance.Event]
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap, err = s.roster.Load(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		events, err = s.ledger.Query(gCtx, domainattendance.Filter{From: &from, To: &to})
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.OverviewResponse{}, fmt.Errorf("failed to load overview data: %w", err)
	}

	// events arrive newest first, so the last IN seen is the first of the day
	states := make(map[string]*dayState)
	for e := range events {
		st, ok := states[e.EmployeeID]
		if !ok {
			st = &dayState{}
			states[e.EmployeeID] = st
		}
		switch e.Kind {
		case domainattendance.KindIn:
			st.firstIn = &e
		case domainattendance.KindOut:
			st.checkedOut = true
		}
	}

	resp := dashboard.OverviewResponse{Date: from.Format("2006-01-02")}
	byDept := make(map[string]*dashboard.DepartmentOverview)
	var order []string

	for _, d := range snap.DepartmentList() {
		byDept[d.ID] = &dashboard.DepartmentOverview{DepartmentID: d.ID, DepartmentName: d.Name}
		order = append(order, d.ID)
	}

	for _, e := range snap.EmployeeList() {
		dept, ok := byDept[e.DepartmentID]
		if !ok {
			dept = &dashboard.DepartmentOverview{DepartmentID: e.DepartmentID, DepartmentName: unassignedName}
			byDept[e.DepartmentID] = dept
			order = append(order, e.DepartmentID)
		}

		tally(&resp.Counts, states[e.ID])
		tally(&dept.Counts, states[e.ID])
		resp.TotalEmployees++
		dept.TotalEmployees++
	}

	resp.Departments = make([]dashboard.DepartmentOverview, 0, len(order))
	for _, id := range order {
		resp.Departments = append(resp.Departments, *byDept[id])
	}
	return resp, nil
}

func tally(c *dashboard.StatusCounts, st *dayState) {
	if st == nil || st.firstIn == nil {
		c.NotCheckedIn++
	} else {
		switch st.firstIn.Status {
		case domainattendance.StatusPresent:
			c.Present++
		case domainattendance.StatusLate:
			c.Late++
		case domainattendance.StatusOutOfBounds:
			c.OutOfBounds++
		case domainattendance.StatusAbsent:
			c.Absent++
		}
	}
	if st != nil && st.checkedOut {
		c.CheckedOut++
	}
}

// Summary implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Summary(ctx context.Context) (dashboard.SummaryResponse, error) {
	if s.summarizer == nil {
		return dashboard.SummaryResponse{}, summary.ErrUnavailable
	}

	seq, err := s.ledger.Query(ctx, domainattendance.Filter{Limit: s.maxEvents})
	if err != nil {
		return dashboard.SummaryResponse{}, fmt.Errorf("failed to query attendance: %w", err)
	}
	recent := slices.Collect(seq)

	text, err := s.summarizer.Summarize(ctx, recent)
	if err != nil {
		slog.Error("attendance summary failed", "events", len(recent), "error", err)
		if errors.Is(err, summary.ErrUnavailable) {
			return dashboard.SummaryResponse{}, err
		}
		return dashboard.SummaryResponse{}, errors.Join(summary.ErrUnavailable, err)
	}

	return dashboard.SummaryResponse{
		Summary:     text,
		EventCount:  len(recent),
		GeneratedAt: s.now().Format(time.RFC3339),
	}, nil
}
