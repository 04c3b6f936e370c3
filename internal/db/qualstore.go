package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/models"
	"github.com/sar-ops/rosterd/internal/qual"
)

// QualStore adapts this package to the evaluator's read interface.
type QualStore struct {
	DB *sql.DB
}

func NewQualStore(database *sql.DB) *QualStore { return &QualStore{DB: database} }

func (s *QualStore) ListActivePositions(ctx context.Context) ([]models.Position, error) {
	return ListPositions(ctx, s.DB, true)
}

func (s *QualStore) ListActiveMembers(ctx context.Context) ([]models.Member, error) {
	return ListMembers(ctx, s.DB, true)
}

func (s *QualStore) ListPositionRequirements(ctx context.Context) ([]models.Requirement, error) {
	return ListPositionRequirements(ctx, s.DB)
}

func (s *QualStore) RequirementsForPosition(ctx context.Context, positionID int64) ([]models.Requirement, error) {
	return RequirementsForPosition(ctx, s.DB, positionID)
}

func (s *QualStore) ListRequirementGroups(ctx context.Context) ([]models.RequirementGroup, error) {
	return ListRequirementGroups(ctx, s.DB)
}

func (s *QualStore) GroupsForPosition(ctx context.Context, positionID int64) ([]models.RequirementGroup, error) {
	return GroupsForPosition(ctx, s.DB, positionID)
}

func (s *QualStore) ValidCourseIDsByMember(ctx context.Context, today time.Time) (map[int64]map[int64]struct{}, error) {
	return ValidCourseIDsByMember(ctx, s.DB, today)
}

func (s *QualStore) ValidCourseIDs(ctx context.Context, memberID int64, today time.Time) (map[int64]struct{}, error) {
	return ValidCourseIDs(ctx, s.DB, memberID, today)
}

func (s *QualStore) TaskSignoffSet(ctx context.Context) (map[qual.SignoffKey]struct{}, error) {
	return TaskSignoffSet(ctx, s.DB)
}

func (s *QualStore) SignoffTaskIDs(ctx context.Context, memberID int64) (map[int64]struct{}, error) {
	return SignoffTaskIDs(ctx, s.DB, memberID)
}

func (s *QualStore) AllActivityDates(ctx context.Context) (map[int64][]time.Time, map[int64][]time.Time, error) {
	return AllActivityDates(ctx, s.DB)
}

func (s *QualStore) ActivityDates(ctx context.Context, memberID int64) ([]time.Time, []time.Time, error) {
	return ActivityDates(ctx, s.DB, memberID)
}

func (s *QualStore) CourseRequirementsByPosition(ctx context.Context, positionIDs []int64) (map[int64][]int64, error) {
	return CourseRequirementsByPosition(ctx, s.DB, positionIDs)
}

func (s *QualStore) ExistingAssignments(ctx context.Context) (map[qual.AssignKey]models.MemberPosition, error) {
	return ExistingAssignments(ctx, s.DB)
}

// DisplayCodes loads the id-to-code maps the evaluator formats unmet labels
// with. The catalog tables are small; loading them whole is cheaper than
// joining codes into every requirement query.
func (s *QualStore) DisplayCodes(ctx context.Context) (qual.Codes, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	codes := qual.Codes{
		Courses:   make(map[int64]string),
		Tasks:     make(map[int64]string),
		Positions: make(map[int64]string),
	}
	for _, tbl := range []struct {
		query string
		dst   map[int64]string
	}{
		{`SELECT id, code FROM courses`, codes.Courses},
		{`SELECT id, code FROM tasks`, codes.Tasks},
		{`SELECT id, code FROM positions`, codes.Positions},
	} {
		rows, err := s.DB.QueryContext(ctx, tbl.query)
		if err != nil {
			return qual.Codes{}, err
		}
		for rows.Next() {
			var id int64
			var code string
			if err := rows.Scan(&id, &code); err != nil {
				_ = rows.Close()
				return qual.Codes{}, err
			}
			tbl.dst[id] = code
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return qual.Codes{}, err
		}
		_ = rows.Close()
	}
	return codes, nil
}
