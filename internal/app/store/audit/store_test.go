package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"github.com/dalemusser/rentalhub/internal/testutil"
)

func TestStore_Log_DefaultsIDAndTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	err := store.Log(ctx, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLoginSuccess,
		SubjectUID: "uid-1",
		IP:         "192.168.1.1",
		UserAgent:  "TestBrowser/1.0",
		Success:    true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetBySubject(ctx, "uid-1", 10)
	if err != nil {
		t.Fatalf("GetBySubject failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Timestamp.Before(before) {
		t.Errorf("timestamp not set: %v", events[0].Timestamp)
	}
}

func TestStore_Query_ByCategoryAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventPropertyCreated, Target: "p1", Actor: "admin@test.com", Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventPropertyDeleted, Target: "p1", Actor: "admin@test.com", Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	admin, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if len(admin) != 2 {
		t.Errorf("admin events: got %d, want 2", len(admin))
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventPropertyDeleted})
	if err != nil || n != 1 {
		t.Errorf("count: got %d, %v", n, err)
	}

	byActor, _ := store.Query(ctx, audit.QueryFilter{Actor: "admin@test.com", Limit: 1})
	if len(byActor) != 1 {
		t.Errorf("limit: got %d", len(byActor))
	}
}

func TestStore_Query_ByTimeRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, Timestamp: old})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, Timestamp: now})

	since := now.Add(-time.Hour)
	got, err := store.Query(ctx, audit.QueryFilter{StartTime: &since})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d events, want 1", len(got))
	}
}

func TestStore_GetFailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, Success: false})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedNotAdmin, Success: false})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true})

	got, err := store.GetFailedLogins(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("failed logins: got %d, want 2", len(got))
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := audit.New(db).EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
}
