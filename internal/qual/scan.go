package qual

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sar-ops/rosterd/internal/metrics"
	"github.com/sar-ops/rosterd/internal/models"
)

// Service runs the two evaluation entry points over a Store. Now is
// injected so tests can pin the evaluation date.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// ReadyRow is one member who currently meets every requirement of a
// position they do not yet hold as qualified. Existing trainee rows are
// carried so the caller can tell "promote" from "brand new".
type ReadyRow struct {
	MemberID       int64                  `json:"member_id"`
	PositionID     int64                  `json:"position_id"`
	ExistingID     *int64                 `json:"existing_assignment_id"`
	ExistingStatus *models.PositionStatus `json:"existing_status"`
	Member         models.Member          `json:"member"`
	Position       models.Position        `json:"position"`
}

// ScanReadiness evaluates every active position against every active
// member and returns the pairs that are ready for approval. Read-only;
// writing the member_positions row stays with the admin action.
func (s *Service) ScanReadiness(ctx context.Context) ([]ReadyRow, error) {
	start := time.Now()
	snap, positions, members, assignments, err := s.loadScan(ctx)
	if err != nil {
		return nil, err
	}

	pairs := 0
	rows := []ReadyRow{}
	for _, pos := range positions {
		// a position with no requirements is never "ready"
		if len(snap.Requirements[pos.ID]) == 0 {
			continue
		}
		for _, m := range members {
			existing, has := assignments[AssignKey{MemberID: m.ID, PositionID: pos.ID}]
			if has && existing.Status == models.StatusQualified {
				continue
			}
			pairs++
			if !snap.EvaluatePosition(m.ID, pos.ID, false).Met {
				continue
			}
			row := ReadyRow{MemberID: m.ID, PositionID: pos.ID, Member: m, Position: pos}
			if has {
				id := existing.ID
				st := existing.Status
				row.ExistingID = &id
				row.ExistingStatus = &st
			}
			rows = append(rows, row)
		}
	}

	sortReadyRows(rows)
	metrics.ObserveScan(pairs, time.Since(start))
	return rows, nil
}

// sortReadyRows puts pairs with an existing assignment (trainee etc.)
// ahead of brand-new qualifications, then orders by member last/first
// name case-insensitively. Position code and ids break remaining ties so
// repeated scans return identical order.
func sortReadyRows(rows []ReadyRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		ae, be := a.ExistingID != nil, b.ExistingID != nil
		if ae != be {
			return ae
		}
		al, bl := strings.ToLower(a.Member.LastName), strings.ToLower(b.Member.LastName)
		if al != bl {
			return al < bl
		}
		af, bf := strings.ToLower(a.Member.FirstName), strings.ToLower(b.Member.FirstName)
		if af != bf {
			return af < bf
		}
		if a.Position.Code != b.Position.Code {
			return a.Position.Code < b.Position.Code
		}
		return a.MemberID < b.MemberID
	})
}

// loadScan batch-fetches everything one scan needs and builds the
// snapshot, so the pair loop performs no I/O.
func (s *Service) loadScan(ctx context.Context) (*Snapshot, []models.Position, []models.Member, map[AssignKey]models.MemberPosition, error) {
	positions, err := s.store.ListActivePositions(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("positions: %w", err)
	}
	members, err := s.store.ListActiveMembers(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("members: %w", err)
	}
	reqs, err := s.store.ListPositionRequirements(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("requirements: %w", err)
	}
	groups, err := s.store.ListRequirementGroups(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("requirement groups: %w", err)
	}
	today := Day(s.now())
	certs, err := s.store.ValidCourseIDsByMember(ctx, today)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("certifications: %w", err)
	}
	signoffs, err := s.store.TaskSignoffSet(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("signoffs: %w", err)
	}
	training, calls, err := s.store.AllActivityDates(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("activity dates: %w", err)
	}
	prereq, err := s.store.CourseRequirementsByPosition(ctx, prereqPositionIDs(reqs))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("prerequisite courses: %w", err)
	}
	assignments, err := s.store.ExistingAssignments(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("assignments: %w", err)
	}
	codes, err := s.store.DisplayCodes(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("display codes: %w", err)
	}

	snap := &Snapshot{
		Today:         today,
		Requirements:  groupByPosition(reqs),
		Groups:        groupsByPosition(groups),
		ValidCourses:  certs,
		Signoffs:      signoffs,
		TrainingDates: training,
		CallDates:     calls,
		PrereqCourses: prereq,
		Codes:         codes,
	}
	return snap, positions, members, assignments, nil
}
