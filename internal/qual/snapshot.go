package qual

import (
	"context"
	"time"

	"github.com/sar-ops/rosterd/internal/models"
)

// SignoffKey identifies one member+task signoff.
type SignoffKey struct {
	MemberID int64
	TaskID   int64
}

// AssignKey identifies one member+position qualification record.
type AssignKey struct {
	MemberID   int64
	PositionID int64
}

// Codes maps ids to display codes for unmet-requirement labels.
type Codes struct {
	Courses   map[int64]string
	Tasks     map[int64]string
	Positions map[int64]string
}

// Store is the read interface the evaluator consumes. internal/db
// implements it over postgres; tests implement it in memory.
type Store interface {
	ListActivePositions(ctx context.Context) ([]models.Position, error)
	ListActiveMembers(ctx context.Context) ([]models.Member, error)
	ListPositionRequirements(ctx context.Context) ([]models.Requirement, error)
	RequirementsForPosition(ctx context.Context, positionID int64) ([]models.Requirement, error)
	ListRequirementGroups(ctx context.Context) ([]models.RequirementGroup, error)
	GroupsForPosition(ctx context.Context, positionID int64) ([]models.RequirementGroup, error)
	ValidCourseIDsByMember(ctx context.Context, today time.Time) (map[int64]map[int64]struct{}, error)
	ValidCourseIDs(ctx context.Context, memberID int64, today time.Time) (map[int64]struct{}, error)
	TaskSignoffSet(ctx context.Context) (map[SignoffKey]struct{}, error)
	SignoffTaskIDs(ctx context.Context, memberID int64) (map[int64]struct{}, error)
	AllActivityDates(ctx context.Context) (training, calls map[int64][]time.Time, err error)
	ActivityDates(ctx context.Context, memberID int64) (training, calls []time.Time, err error)
	CourseRequirementsByPosition(ctx context.Context, positionIDs []int64) (map[int64][]int64, error)
	ExistingAssignments(ctx context.Context) (map[AssignKey]models.MemberPosition, error)
	DisplayCodes(ctx context.Context) (Codes, error)
}

// Snapshot holds everything one evaluation round reads: immutable lookup
// maps fetched up front, plus the date to evaluate against. Building it
// once per scan keeps the batch linear instead of one query round per
// member-position pair. Safe for concurrent reads.
type Snapshot struct {
	Today time.Time // date precision, UTC

	Requirements map[int64][]models.Requirement      // position id -> requirements
	Groups       map[int64][]models.RequirementGroup // position id -> groups

	ValidCourses  map[int64]map[int64]struct{} // member id -> valid course-id set
	Signoffs      map[SignoffKey]struct{}
	TrainingDates map[int64][]time.Time // member id -> training session dates
	CallDates     map[int64][]time.Time // member id -> call attendance dates

	// One-hop prerequisite resolution: prerequisite position id -> the
	// course ids of its course-kind requirements. Deliberately not
	// recursive; the prerequisite's own position/task/time requirements
	// are ignored.
	PrereqCourses map[int64][]int64

	Codes Codes
}

// Day truncates t to calendar-date precision in UTC. Certification expiry
// and time windows compare dates, not instants.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func groupByPosition(reqs []models.Requirement) map[int64][]models.Requirement {
	out := make(map[int64][]models.Requirement)
	for _, r := range reqs {
		if r.PositionID == nil {
			continue
		}
		out[*r.PositionID] = append(out[*r.PositionID], r)
	}
	return out
}

func groupsByPosition(groups []models.RequirementGroup) map[int64][]models.RequirementGroup {
	out := make(map[int64][]models.RequirementGroup)
	for _, g := range groups {
		out[g.PositionID] = append(out[g.PositionID], g)
	}
	return out
}

// prereqPositionIDs collects the distinct target ids of position-kind
// requirements, for the one-hop course lookup.
func prereqPositionIDs(reqs []models.Requirement) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range reqs {
		if r.Kind != models.ReqPosition || r.RequiredPositionID == nil {
			continue
		}
		if _, ok := seen[*r.RequiredPositionID]; ok {
			continue
		}
		seen[*r.RequiredPositionID] = struct{}{}
		ids = append(ids, *r.RequiredPositionID)
	}
	return ids
}
