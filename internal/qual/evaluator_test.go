package qual

import (
	"strings"
	"testing"
	"time"

	"github.com/sar-ops/rosterd/internal/models"
)

var testToday = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrInt(v int) *int       { return &v }
func ptrInt64(v int64) *int64 { return &v }

func ptrAT(v models.ActivityType) *models.ActivityType { return &v }

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Today:         testToday,
		Requirements:  map[int64][]models.Requirement{},
		Groups:        map[int64][]models.RequirementGroup{},
		ValidCourses:  map[int64]map[int64]struct{}{},
		Signoffs:      map[SignoffKey]struct{}{},
		TrainingDates: map[int64][]time.Time{},
		CallDates:     map[int64][]time.Time{},
		PrereqCourses: map[int64][]int64{},
		Codes: Codes{
			Courses:   map[int64]string{},
			Tasks:     map[int64]string{},
			Positions: map[int64]string{},
		},
	}
}

func TestCourseRequirement(t *testing.T) {
	s := emptySnapshot()
	// member 1 holds course 10; member 2 holds nothing (expired certs are
	// filtered out before the snapshot is built)
	s.ValidCourses[1] = map[int64]struct{}{10: {}}
	s.ValidCourses[2] = map[int64]struct{}{}

	req := models.Requirement{Kind: models.ReqCourse, CourseID: ptrInt64(10)}
	if !s.MeetsRequirement(1, req) {
		t.Fatal("valid certification should satisfy course requirement")
	}
	if s.MeetsRequirement(2, req) {
		t.Fatal("member without certification should fail course requirement")
	}

	// a requirement with no course id never blocks
	if !s.MeetsRequirement(2, models.Requirement{Kind: models.ReqCourse}) {
		t.Fatal("course requirement without course id should pass")
	}
}

func TestPrerequisitePositionOneHop(t *testing.T) {
	s := emptySnapshot()
	// position 5 requires courses 10 and 11
	s.PrereqCourses[5] = []int64{10, 11}
	s.ValidCourses[1] = map[int64]struct{}{10: {}, 11: {}}
	s.ValidCourses[2] = map[int64]struct{}{10: {}}

	req := models.Requirement{Kind: models.ReqPosition, RequiredPositionID: ptrInt64(5)}
	if !s.MeetsRequirement(1, req) {
		t.Fatal("member holding every prerequisite course should pass")
	}
	if s.MeetsRequirement(2, req) {
		t.Fatal("member missing one prerequisite course should fail")
	}

	// prerequisite position with no course requirements passes vacuously
	req = models.Requirement{Kind: models.ReqPosition, RequiredPositionID: ptrInt64(99)}
	if !s.MeetsRequirement(2, req) {
		t.Fatal("unknown prerequisite position should pass vacuously")
	}
}

func TestTaskRequirement(t *testing.T) {
	s := emptySnapshot()
	s.Signoffs[SignoffKey{MemberID: 1, TaskID: 7}] = struct{}{}

	req := models.Requirement{Kind: models.ReqTask, ReqTaskID: ptrInt64(7)}
	if !s.MeetsRequirement(1, req) {
		t.Fatal("signed-off task should pass")
	}
	if s.MeetsRequirement(2, req) {
		t.Fatal("member without signoff should fail")
	}
}

func TestTimeRequirementBoundary(t *testing.T) {
	s := emptySnapshot()
	cutoff := testToday.AddDate(0, -6, 0) // 2024-09-15

	req := models.Requirement{
		Kind:         models.ReqTime,
		MinCount:     ptrInt(2),
		ActivityType: ptrAT(models.ActivityTraining),
		WithinMonths: ptrInt(6),
	}

	// exactly two trainings inside the window, one exactly on the cutoff
	s.TrainingDates[1] = []time.Time{cutoff, date(2025, time.January, 10)}
	if !s.MeetsRequirement(1, req) {
		t.Fatal("2 trainings within window (one on cutoff) should pass")
	}

	// only one inside the window
	s.TrainingDates[2] = []time.Time{date(2025, time.February, 1)}
	if s.MeetsRequirement(2, req) {
		t.Fatal("1 training within window should fail min_count=2")
	}

	// a third training just before the cutoff must not count
	s.TrainingDates[3] = []time.Time{
		date(2025, time.February, 1),
		cutoff.AddDate(0, 0, -1),
	}
	if s.MeetsRequirement(3, req) {
		t.Fatal("training older than the window must not count")
	}
}

func TestTimeRequirementTypes(t *testing.T) {
	s := emptySnapshot()
	s.TrainingDates[1] = []time.Time{date(2025, time.March, 1)}
	s.CallDates[1] = []time.Time{date(2025, time.March, 2)}

	mk := func(at models.ActivityType, n int) models.Requirement {
		return models.Requirement{
			Kind: models.ReqTime, MinCount: ptrInt(n),
			ActivityType: ptrAT(at), WithinMonths: ptrInt(6),
		}
	}
	if !s.MeetsRequirement(1, mk(models.ActivityAny, 2)) {
		t.Fatal("any-type should count trainings and calls together")
	}
	if s.MeetsRequirement(1, mk(models.ActivityTraining, 2)) {
		t.Fatal("training-type must not count call attendance")
	}
	if s.MeetsRequirement(1, mk(models.ActivityCall, 2)) {
		t.Fatal("call-type must not count training attendance")
	}

	// unbounded window counts everything ever recorded
	s.TrainingDates[2] = []time.Time{date(2015, time.June, 1), date(2016, time.June, 1)}
	unbounded := models.Requirement{Kind: models.ReqTime, MinCount: ptrInt(2), ActivityType: ptrAT(models.ActivityTraining)}
	if !s.MeetsRequirement(2, unbounded) {
		t.Fatal("unbounded time requirement should count old dates")
	}
}

func TestManualKindsAlwaysPass(t *testing.T) {
	s := emptySnapshot()
	for _, kind := range []models.ReqKind{models.ReqTest, models.ReqPhysical, models.ReqProficiency, "someday"} {
		if !s.MeetsRequirement(1, models.Requirement{Kind: kind}) {
			t.Fatalf("kind %q must be satisfied in the automatic path", kind)
		}
	}
}

func TestGroupThreshold(t *testing.T) {
	s := emptySnapshot()
	gid := int64(3)
	pid := int64(1)
	s.Groups[pid] = []models.RequirementGroup{{ID: gid, PositionID: pid, Label: "medical block", MinMet: 2}}
	s.Requirements[pid] = []models.Requirement{
		{Kind: models.ReqCourse, PositionID: &pid, GroupID: &gid, CourseID: ptrInt64(10)},
		{Kind: models.ReqCourse, PositionID: &pid, GroupID: &gid, CourseID: ptrInt64(11)},
		{Kind: models.ReqCourse, PositionID: &pid, GroupID: &gid, CourseID: ptrInt64(12)},
	}

	// 2 of 3 passes
	s.ValidCourses[1] = map[int64]struct{}{10: {}, 11: {}}
	if res := s.EvaluatePosition(1, pid, false); !res.Met {
		t.Fatal("2 of 3 with min_met=2 should satisfy the group")
	}

	// 1 of 3 fails with the counting label
	s.ValidCourses[2] = map[int64]struct{}{10: {}}
	res := s.EvaluatePosition(2, pid, true)
	if res.Met {
		t.Fatal("1 of 3 with min_met=2 should fail")
	}
	if len(res.Unmet) != 1 || res.Unmet[0] != `1/2 met in "medical block"` {
		t.Fatalf("unexpected group label: %v", res.Unmet)
	}
}

func TestEvaluatePositionExplainCollectsAll(t *testing.T) {
	s := emptySnapshot()
	pid := int64(1)
	gid := int64(9)
	s.Codes.Courses[10] = "WFR"
	s.Codes.Tasks[7] = "NAV-1"
	s.Groups[pid] = []models.RequirementGroup{{ID: gid, PositionID: pid, Label: "electives", MinMet: 1}}
	s.Requirements[pid] = []models.Requirement{
		{Kind: models.ReqCourse, PositionID: &pid, CourseID: ptrInt64(10)},
		{Kind: models.ReqTask, PositionID: &pid, ReqTaskID: ptrInt64(7)},
		{Kind: models.ReqCourse, PositionID: &pid, GroupID: &gid, CourseID: ptrInt64(20)},
	}
	s.ValidCourses[1] = map[int64]struct{}{}

	res := s.EvaluatePosition(1, pid, true)
	if res.Met {
		t.Fatal("member failing everything should not be met")
	}
	if len(res.Unmet) != 3 {
		t.Fatalf("explain mode should report 2 standalone + 1 group, got %v", res.Unmet)
	}
	if res.Unmet[0] != "WFR" {
		t.Fatalf("course label should be the course code, got %q", res.Unmet[0])
	}
	if res.Unmet[1] != "TASK:NAV-1" {
		t.Fatalf("task label should carry the TASK: prefix, got %q", res.Unmet[1])
	}
	if !strings.Contains(res.Unmet[2], "electives") {
		t.Fatalf("group label should name the group, got %q", res.Unmet[2])
	}

	// boolean mode short-circuits after the first failure
	if res := s.EvaluatePosition(1, pid, false); res.Met || res.Unmet != nil {
		t.Fatalf("boolean mode should not collect labels, got %v", res.Unmet)
	}
}

func TestZeroRequirementsNeverMet(t *testing.T) {
	s := emptySnapshot()
	if res := s.EvaluatePosition(1, 42, true); res.Met {
		t.Fatal("a position without requirements is never met")
	}
}

func TestTimeLabelFormat(t *testing.T) {
	s := emptySnapshot()
	s.TrainingDates[1] = []time.Time{date(2025, time.February, 1)}
	pid := int64(1)
	s.Requirements[pid] = []models.Requirement{{
		Kind: models.ReqTime, PositionID: &pid,
		MinCount: ptrInt(3), ActivityType: ptrAT(models.ActivityTraining), WithinMonths: ptrInt(6),
	}}
	res := s.EvaluatePosition(1, pid, true)
	if len(res.Unmet) != 1 || res.Unmet[0] != "1/3 training within 6 months" {
		t.Fatalf("unexpected time label: %v", res.Unmet)
	}
}
