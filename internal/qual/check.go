package qual

import (
	"context"
	"fmt"
	"time"

	"github.com/sar-ops/rosterd/internal/models"
)

// CheckResult is the explain-mode verdict for one member+position.
type CheckResult struct {
	OK    bool     `json:"ok"`
	Unmet []string `json:"unmet"`
}

// CheckPositionRequirements evaluates one member against one position and
// reports every unmet standalone requirement and group with a readable
// label. Callers gating a task-book approval must reject when OK is false
// and surface Unmet verbatim. Any fetch error fails the check closed.
func (s *Service) CheckPositionRequirements(ctx context.Context, memberID, positionID int64) (CheckResult, error) {
	snap, err := s.loadMemberPosition(ctx, memberID, positionID)
	if err != nil {
		return CheckResult{}, err
	}
	res := snap.EvaluatePosition(memberID, positionID, true)
	out := CheckResult{OK: res.Met, Unmet: res.Unmet}
	if out.Unmet == nil {
		out.Unmet = []string{}
	}
	return out, nil
}

// loadMemberPosition fetches narrowly for one member+position, the hot
// path trades the scan's batching for lower latency.
func (s *Service) loadMemberPosition(ctx context.Context, memberID, positionID int64) (*Snapshot, error) {
	reqs, err := s.store.RequirementsForPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("requirements: %w", err)
	}
	groups, err := s.store.GroupsForPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("requirement groups: %w", err)
	}
	today := Day(s.now())
	courses, err := s.store.ValidCourseIDs(ctx, memberID, today)
	if err != nil {
		return nil, fmt.Errorf("certifications: %w", err)
	}
	taskIDs, err := s.store.SignoffTaskIDs(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("signoffs: %w", err)
	}
	training, calls, err := s.store.ActivityDates(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("activity dates: %w", err)
	}
	prereq, err := s.store.CourseRequirementsByPosition(ctx, prereqPositionIDs(reqs))
	if err != nil {
		return nil, fmt.Errorf("prerequisite courses: %w", err)
	}
	codes, err := s.store.DisplayCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("display codes: %w", err)
	}

	signoffs := make(map[SignoffKey]struct{}, len(taskIDs))
	for id := range taskIDs {
		signoffs[SignoffKey{MemberID: memberID, TaskID: id}] = struct{}{}
	}

	return &Snapshot{
		Today:         today,
		Requirements:  map[int64][]models.Requirement{positionID: reqs},
		Groups:        map[int64][]models.RequirementGroup{positionID: groups},
		ValidCourses:  map[int64]map[int64]struct{}{memberID: courses},
		Signoffs:      signoffs,
		TrainingDates: map[int64][]time.Time{memberID: training},
		CallDates:     map[int64][]time.Time{memberID: calls},
		PrereqCourses: prereq,
		Codes:         codes,
	}, nil
}
