package qual

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sar-ops/rosterd/internal/models"
)

// fakeStore serves a scan snapshot from memory.
type fakeStore struct {
	positions   []models.Position
	members     []models.Member
	reqs        []models.Requirement
	groups      []models.RequirementGroup
	courses     map[int64]map[int64]struct{}
	signoffs    map[SignoffKey]struct{}
	training    map[int64][]time.Time
	calls       map[int64][]time.Time
	prereq      map[int64][]int64
	assignments map[AssignKey]models.MemberPosition
	codes       Codes
}

func (f *fakeStore) ListActivePositions(context.Context) ([]models.Position, error) {
	return f.positions, nil
}
func (f *fakeStore) ListActiveMembers(context.Context) ([]models.Member, error) {
	return f.members, nil
}
func (f *fakeStore) ListPositionRequirements(context.Context) ([]models.Requirement, error) {
	return f.reqs, nil
}
func (f *fakeStore) RequirementsForPosition(_ context.Context, positionID int64) ([]models.Requirement, error) {
	var out []models.Requirement
	for _, r := range f.reqs {
		if r.PositionID != nil && *r.PositionID == positionID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeStore) ListRequirementGroups(context.Context) ([]models.RequirementGroup, error) {
	return f.groups, nil
}
func (f *fakeStore) GroupsForPosition(_ context.Context, positionID int64) ([]models.RequirementGroup, error) {
	var out []models.RequirementGroup
	for _, g := range f.groups {
		if g.PositionID == positionID {
			out = append(out, g)
		}
	}
	return out, nil
}
func (f *fakeStore) ValidCourseIDsByMember(context.Context, time.Time) (map[int64]map[int64]struct{}, error) {
	return f.courses, nil
}
func (f *fakeStore) ValidCourseIDs(_ context.Context, memberID int64, _ time.Time) (map[int64]struct{}, error) {
	return f.courses[memberID], nil
}
func (f *fakeStore) TaskSignoffSet(context.Context) (map[SignoffKey]struct{}, error) {
	return f.signoffs, nil
}
func (f *fakeStore) SignoffTaskIDs(_ context.Context, memberID int64) (map[int64]struct{}, error) {
	out := map[int64]struct{}{}
	for k := range f.signoffs {
		if k.MemberID == memberID {
			out[k.TaskID] = struct{}{}
		}
	}
	return out, nil
}
func (f *fakeStore) AllActivityDates(context.Context) (map[int64][]time.Time, map[int64][]time.Time, error) {
	return f.training, f.calls, nil
}
func (f *fakeStore) ActivityDates(_ context.Context, memberID int64) ([]time.Time, []time.Time, error) {
	return f.training[memberID], f.calls[memberID], nil
}
func (f *fakeStore) CourseRequirementsByPosition(context.Context, []int64) (map[int64][]int64, error) {
	return f.prereq, nil
}
func (f *fakeStore) ExistingAssignments(context.Context) (map[AssignKey]models.MemberPosition, error) {
	return f.assignments, nil
}
func (f *fakeStore) DisplayCodes(context.Context) (Codes, error) {
	return f.codes, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:     map[int64]map[int64]struct{}{},
		signoffs:    map[SignoffKey]struct{}{},
		training:    map[int64][]time.Time{},
		calls:       map[int64][]time.Time{},
		prereq:      map[int64][]int64{},
		assignments: map[AssignKey]models.MemberPosition{},
		codes: Codes{
			Courses:   map[int64]string{},
			Tasks:     map[int64]string{},
			Positions: map[int64]string{},
		},
	}
}

func member(id int64, first, last string) models.Member {
	return models.Member{ID: id, FirstName: first, LastName: last, IsActive: true}
}

func fixedNow() time.Time { return testToday }

func TestScanReadiness(t *testing.T) {
	f := newFakeStore()
	pid := int64(1)
	f.positions = []models.Position{
		{ID: pid, Code: "GSAR", Name: "Ground SAR", IsActive: true},
		{ID: 2, Code: "EMPTY", Name: "No requirements yet", IsActive: true},
	}
	f.members = []models.Member{
		member(1, "Ada", "Young"),
		member(2, "Bo", "adams"), // lower-case last name still sorts as "adams"
		member(3, "Cal", "Brown"),
		member(4, "Dee", "Quall"),
	}
	f.reqs = []models.Requirement{
		{ID: 1, Kind: models.ReqCourse, PositionID: &pid, CourseID: ptrInt64(10)},
	}
	// members 1, 2, 4 hold the course; 3 does not
	f.courses[1] = map[int64]struct{}{10: {}}
	f.courses[2] = map[int64]struct{}{10: {}}
	f.courses[4] = map[int64]struct{}{10: {}}
	// member 1 is already a trainee; member 4 is already qualified
	f.assignments[AssignKey{MemberID: 1, PositionID: pid}] =
		models.MemberPosition{ID: 100, MemberID: 1, PositionID: pid, Status: models.StatusTrainee}
	f.assignments[AssignKey{MemberID: 4, PositionID: pid}] =
		models.MemberPosition{ID: 101, MemberID: 4, PositionID: pid, Status: models.StatusQualified}

	svc := NewService(f, fixedNow)
	rows, err := svc.ScanReadiness(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// member 3 fails the course, member 4 is excluded as already
	// qualified, position 2 has no requirements at all
	if len(rows) != 2 {
		t.Fatalf("expected 2 ready rows, got %d: %+v", len(rows), rows)
	}
	// trainee bucket first, then new qualifications by last name
	if rows[0].MemberID != 1 || rows[0].ExistingStatus == nil || *rows[0].ExistingStatus != models.StatusTrainee {
		t.Fatalf("existing trainee should sort first, got %+v", rows[0])
	}
	if rows[1].MemberID != 2 || rows[1].ExistingID != nil {
		t.Fatalf("new qualification should follow, got %+v", rows[1])
	}
	for _, r := range rows {
		if r.PositionID == 2 {
			t.Fatal("position without requirements must be skipped")
		}
	}
}

func TestScanReadinessIdempotent(t *testing.T) {
	f := newFakeStore()
	pid := int64(1)
	f.positions = []models.Position{{ID: pid, Code: "GSAR", IsActive: true}}
	f.members = []models.Member{
		member(1, "Ada", "Smith"),
		member(2, "Bo", "smith"),
		member(3, "Cal", "Smith"),
	}
	f.reqs = []models.Requirement{
		{ID: 1, Kind: models.ReqCourse, PositionID: &pid, CourseID: ptrInt64(10)},
	}
	for _, id := range []int64{1, 2, 3} {
		f.courses[id] = map[int64]struct{}{10: {}}
	}

	svc := NewService(f, fixedNow)
	first, err := svc.ScanReadiness(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ScanReadiness(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scan is not idempotent:\n%+v\n%+v", first, second)
	}
	// same last name: first-name order decides
	if first[0].Member.FirstName != "Ada" || first[1].Member.FirstName != "Bo" || first[2].Member.FirstName != "Cal" {
		t.Fatalf("unexpected order: %+v", first)
	}
}

func TestCheckPositionRequirementsExplain(t *testing.T) {
	f := newFakeStore()
	pid := int64(1)
	gid := int64(5)
	f.positions = []models.Position{{ID: pid, Code: "MED", IsActive: true}}
	f.groups = []models.RequirementGroup{{ID: gid, PositionID: pid, Label: "field skills", MinMet: 2}}
	f.codes.Courses[10] = "OFA"
	f.codes.Tasks[7] = "ROPE-1"
	f.reqs = []models.Requirement{
		{ID: 1, Kind: models.ReqCourse, PositionID: &pid, CourseID: ptrInt64(10)},
		{ID: 2, Kind: models.ReqTask, PositionID: &pid, ReqTaskID: ptrInt64(7)},
		{ID: 3, Kind: models.ReqCourse, PositionID: &pid, GroupID: &gid, CourseID: ptrInt64(20)},
		{ID: 4, Kind: models.ReqCourse, PositionID: &pid, GroupID: &gid, CourseID: ptrInt64(21)},
	}

	svc := NewService(f, fixedNow)
	res, err := svc.CheckPositionRequirements(context.Background(), 1, pid)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("member with nothing should not pass")
	}
	if len(res.Unmet) != 3 {
		t.Fatalf("expected 2 standalone + 1 group label, got %v", res.Unmet)
	}

	// satisfy everything and re-check
	f.courses[1] = map[int64]struct{}{10: {}, 20: {}, 21: {}}
	f.signoffs[SignoffKey{MemberID: 1, TaskID: 7}] = struct{}{}
	res, err = svc.CheckPositionRequirements(context.Background(), 1, pid)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || len(res.Unmet) != 0 {
		t.Fatalf("expected clean pass, got %+v", res)
	}
}
