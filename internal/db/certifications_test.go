//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/models"
	"github.com/sar-ops/rosterd/internal/testutil/testdb"
)

func intPtr(n int) *int { return &n }

func TestCertifications_ValidityAndWarnWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	memberID, err := db.CreateMember(ctx, h.DB, models.Member{
		FirstName: "Dana", LastName: "Reyes", IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	wfr, err := db.CreateCourse(ctx, h.DB, models.Course{
		Code: "WFR", Name: "Wilderness First Responder",
		ValidMonths: intPtr(12), WarnMonths: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	ics, err := db.CreateCourse(ctx, h.DB, models.Course{
		Code: "ICS-100", Name: "Incident Command System",
	})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()

	// expires in one month: valid today and inside the 2-month warn window
	if _, err := db.AddCertification(ctx, h.DB, memberID, wfr, now.AddDate(0, -11, 0), nil); err != nil {
		t.Fatal(err)
	}
	// never expires
	if _, err := db.AddCertification(ctx, h.DB, memberID, ics, now.AddDate(-3, 0, 0), nil); err != nil {
		t.Fatal(err)
	}

	valid, err := db.ValidCourseIDs(ctx, h.DB, memberID, now)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := valid[wfr]; !ok {
		t.Errorf("WFR should still be valid")
	}
	if _, ok := valid[ics]; !ok {
		t.Errorf("never-expiring ICS-100 should be valid")
	}

	expiring, err := db.ListExpiringCertifications(ctx, h.DB, now, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(expiring) != 1 {
		t.Fatalf("want 1 expiring cert, got %d: %#v", len(expiring), expiring)
	}
	if expiring[0].CourseCode != "WFR" || expiring[0].MemberID != memberID {
		t.Errorf("unexpected expiring row: %#v", expiring[0])
	}
}

func TestCertifications_RenewalKeepsHistory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	memberID, err := db.CreateMember(ctx, h.DB, models.Member{
		FirstName: "Ira", LastName: "Cole", IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	course, err := db.CreateCourse(ctx, h.DB, models.Course{
		Code: "EMT", Name: "Emergency Medical Technician",
		ValidMonths: intPtr(24), WarnMonths: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()

	// original lapsed, renewal current
	if _, err := db.AddCertification(ctx, h.DB, memberID, course, now.AddDate(0, -30, 0), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddCertification(ctx, h.DB, memberID, course, now.AddDate(0, -1, 0), nil); err != nil {
		t.Fatal(err)
	}

	certs, err := db.ListCertificationsForMember(ctx, h.DB, memberID)
	if err != nil {
		t.Fatal(err)
	}
	if len(certs) != 2 {
		t.Fatalf("renewal must not overwrite history, got %d rows", len(certs))
	}

	valid, err := db.ValidCourseIDs(ctx, h.DB, memberID, now)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := valid[course]; !ok {
		t.Errorf("renewed EMT should be valid")
	}
}

// A certification on its final valid day stays in the warn report even
// when the reference time carries an afternoon clock.
func TestCertifications_ExpiringOnFinalDay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	memberID, err := db.CreateMember(ctx, h.DB, models.Member{
		FirstName: "Mika", LastName: "Sato", IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	course, err := db.CreateCourse(ctx, h.DB, models.Course{
		Code: "SWR", Name: "Swiftwater Rescue",
		ValidMonths: intPtr(12), WarnMonths: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	afternoon := time.Date(now.Year(), now.Month(), now.Day(), 15, 30, 0, 0, time.UTC)

	// expires exactly today
	if _, err := db.AddCertification(ctx, h.DB, memberID, course, now.AddDate(0, -12, 0), nil); err != nil {
		t.Fatal(err)
	}

	expiring, err := db.ListExpiringCertifications(ctx, h.DB, afternoon, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(expiring) != 1 {
		t.Fatalf("want the final-day cert reported, got %d rows", len(expiring))
	}
	if expiring[0].CourseCode != "SWR" {
		t.Errorf("unexpected row: %#v", expiring[0])
	}
}
