package qual

import (
	"fmt"
	"time"

	"github.com/sar-ops/rosterd/internal/models"
)

// Result of evaluating one member against one position.
type Result struct {
	Met   bool
	Unmet []string
}

// MeetsRequirement decides one requirement for one member. Kinds that need
// human judgement (test, physical, proficiency, and anything unrecognized)
// are always satisfied here; they are excluded from automatic evaluation
// on purpose, so a reimplementation must not turn them into failures.
func (s *Snapshot) MeetsRequirement(memberID int64, r models.Requirement) bool {
	switch r.Kind {
	case models.ReqCourse:
		if r.CourseID == nil {
			return true
		}
		_, ok := s.ValidCourses[memberID][*r.CourseID]
		return ok
	case models.ReqPosition:
		if r.RequiredPositionID == nil {
			return true
		}
		// One hop only: the member must hold every course the
		// prerequisite position itself requires. A prerequisite with no
		// course requirements passes vacuously.
		for _, courseID := range s.PrereqCourses[*r.RequiredPositionID] {
			if _, ok := s.ValidCourses[memberID][courseID]; !ok {
				return false
			}
		}
		return true
	case models.ReqTask:
		if r.ReqTaskID == nil {
			return true
		}
		_, ok := s.Signoffs[SignoffKey{MemberID: memberID, TaskID: *r.ReqTaskID}]
		return ok
	case models.ReqTime:
		return s.countActivities(memberID, r) >= minCount(r)
	default:
		return true
	}
}

// countActivities counts dated attendance of the matching type(s) on or
// after the window cutoff. A date exactly on the cutoff counts.
func (s *Snapshot) countActivities(memberID int64, r models.Requirement) int {
	var cutoff time.Time
	bounded := r.WithinMonths != nil
	if bounded {
		cutoff = Day(s.Today).AddDate(0, -*r.WithinMonths, 0)
	}

	at := models.ActivityAny
	if r.ActivityType != nil {
		at = *r.ActivityType
	}

	n := 0
	if at != models.ActivityCall {
		n += countOnOrAfter(s.TrainingDates[memberID], cutoff, bounded)
	}
	if at != models.ActivityTraining {
		n += countOnOrAfter(s.CallDates[memberID], cutoff, bounded)
	}
	return n
}

func countOnOrAfter(dates []time.Time, cutoff time.Time, bounded bool) int {
	n := 0
	for _, d := range dates {
		if !bounded || !Day(d).Before(cutoff) {
			n++
		}
	}
	return n
}

func minCount(r models.Requirement) int {
	if r.MinCount == nil {
		return 1
	}
	return *r.MinCount
}

// EvaluatePosition runs the full per-requirement and per-group evaluation
// for one member. With explain=false it short-circuits on the first
// failure (batch scan); with explain=true it collects a label for every
// failing standalone requirement and group.
//
// A position with zero requirements is never met; callers skip such
// positions entirely rather than reporting everyone ready.
func (s *Snapshot) EvaluatePosition(memberID, positionID int64, explain bool) Result {
	reqs := s.Requirements[positionID]
	if len(reqs) == 0 {
		return Result{Met: false}
	}

	res := Result{Met: true}

	// Standalone requirements are mandatory; grouped ones are judged by
	// their group's threshold below.
	grouped := make(map[int64][]models.Requirement)
	for _, r := range reqs {
		if r.GroupID != nil {
			grouped[*r.GroupID] = append(grouped[*r.GroupID], r)
			continue
		}
		if s.MeetsRequirement(memberID, r) {
			continue
		}
		res.Met = false
		if !explain {
			return res
		}
		res.Unmet = append(res.Unmet, s.requirementLabel(memberID, r))
	}

	for _, g := range s.Groups[positionID] {
		members := grouped[g.ID]
		if len(members) == 0 {
			continue
		}
		met := 0
		for _, r := range members {
			if s.MeetsRequirement(memberID, r) {
				met++
			}
		}
		if met >= g.MinMet {
			continue
		}
		res.Met = false
		if !explain {
			return res
		}
		res.Unmet = append(res.Unmet, fmt.Sprintf("%d/%d met in %q", met, g.MinMet, g.Label))
	}

	return res
}

func (s *Snapshot) requirementLabel(memberID int64, r models.Requirement) string {
	switch r.Kind {
	case models.ReqCourse:
		if r.CourseID != nil {
			if code, ok := s.Codes.Courses[*r.CourseID]; ok {
				return code
			}
			return fmt.Sprintf("course #%d", *r.CourseID)
		}
	case models.ReqPosition:
		if r.RequiredPositionID != nil {
			if code, ok := s.Codes.Positions[*r.RequiredPositionID]; ok {
				return code
			}
			return fmt.Sprintf("position #%d", *r.RequiredPositionID)
		}
	case models.ReqTask:
		if r.ReqTaskID != nil {
			if code, ok := s.Codes.Tasks[*r.ReqTaskID]; ok {
				return "TASK:" + code
			}
			return fmt.Sprintf("TASK:#%d", *r.ReqTaskID)
		}
	case models.ReqTime:
		return s.timeLabel(memberID, r)
	}
	return string(r.Kind)
}

func (s *Snapshot) timeLabel(memberID int64, r models.Requirement) string {
	at := models.ActivityAny
	if r.ActivityType != nil {
		at = *r.ActivityType
	}
	kind := string(at)
	if at == models.ActivityAny {
		kind = "activities"
	}
	have := s.countActivities(memberID, r)
	if r.WithinMonths != nil {
		return fmt.Sprintf("%d/%d %s within %d months", have, minCount(r), kind, *r.WithinMonths)
	}
	return fmt.Sprintf("%d/%d %s", have, minCount(r), kind)
}
