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

// A repeated signoff must be rejected even when no position is attached,
// while a position-scoped signoff for the same task stays a distinct record.
func TestSignoff_DuplicateRejected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	memberID, err := db.CreateMember(ctx, h.DB, models.Member{
		FirstName: "Sam", LastName: "Okafor", IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	task, err := db.CreateTask(ctx, h.DB, models.Task{Code: "ROPE-1", Name: "Basic rope work", IsActive: true})
	if err != nil {
		t.Fatal(err)
	}
	position, err := db.CreatePosition(ctx, h.DB, models.Position{Code: "RR", Name: "Rope Rescue", IsActive: true})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()

	if _, err := db.AddTaskSignoff(ctx, h.DB, models.TaskSignoff{
		MemberID: memberID, TaskID: task, EvaluatorName: "T. Moss", SignedOn: now,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddTaskSignoff(ctx, h.DB, models.TaskSignoff{
		MemberID: memberID, TaskID: task, EvaluatorName: "T. Moss", SignedOn: now,
	}); err == nil {
		t.Fatal("second signoff without a position should hit the unique constraint")
	}

	// same task scoped to a position is a different combination
	if _, err := db.AddTaskSignoff(ctx, h.DB, models.TaskSignoff{
		MemberID: memberID, TaskID: task, PositionID: &position, EvaluatorName: "T. Moss", SignedOn: now,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddTaskSignoff(ctx, h.DB, models.TaskSignoff{
		MemberID: memberID, TaskID: task, PositionID: &position, EvaluatorName: "T. Moss", SignedOn: now,
	}); err == nil {
		t.Fatal("second position-scoped signoff should hit the unique constraint")
	}

	signoffs, err := db.ListSignoffsForMember(ctx, h.DB, memberID)
	if err != nil {
		t.Fatal(err)
	}
	if len(signoffs) != 2 {
		t.Fatalf("want 2 signoffs on record, got %d", len(signoffs))
	}
}

// A bad member id in the middle of the list must not leave the earlier
// rows committed.
func TestTrainingAttendance_AllOrNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	memberID, err := db.CreateMember(ctx, h.DB, models.Member{
		FirstName: "Lee", LastName: "Tran", IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	sessionID, err := db.CreateTrainingSession(ctx, h.DB, models.TrainingSession{
		Title: "shoreline search", StartsOn: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.AddTrainingAttendance(ctx, h.DB, sessionID, []int64{memberID, 999999}); err == nil {
		t.Fatal("unknown member id should fail the batch")
	}

	training, _, err := db.ActivityDates(ctx, h.DB, memberID)
	if err != nil {
		t.Fatal(err)
	}
	if len(training) != 0 {
		t.Fatalf("failed batch should record nothing, got %d dates", len(training))
	}
}
