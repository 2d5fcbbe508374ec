package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/termlog/termlog/internal/core"
	"github.com/termlog/termlog/internal/modes"
)

// testDB creates an in-memory database for testing
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func testQSO(call string) *core.QSO {
	return &core.QSO{
		Callsign:  call,
		Frequency: 14.250,
		Mode:      core.ModeSSB,
		RSTSent:   "59",
		RSTRcvd:   "59",
		Time:      time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC),
	}
}

// =============================================================================
// DB Tests
// =============================================================================

func TestDB_Open_InMemory(t *testing.T) {
	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.conn == nil {
		t.Error("db.conn should not be nil")
	}
	if !db.isMemory {
		t.Error("db.isMemory should be true for in-memory database")
	}
}

func TestDB_Open_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := tmpDir + "/test.db"

	db, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.isMemory {
		t.Error("db.isMemory should be false for file database")
	}
	if db.path != path {
		t.Errorf("db.path = %v, want %v", db.path, path)
	}
}

func TestDB_MigrateTwiceIsIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

// =============================================================================
// QSOStore Tests
// =============================================================================

func TestQSOStore_AddAndGet(t *testing.T) {
	store := NewQSOStore(testDB(t))

	q := testQSO("k5xyz") // lowercase on purpose
	q.ExchangeSent = "59 001"
	q.CQZone = 4

	id, err := store.Add(q)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id == 0 {
		t.Error("Add() should return a nonzero id")
	}

	got, err := store.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Callsign != "K5XYZ" {
		t.Errorf("Callsign = %q, want uppercased K5XYZ", got.Callsign)
	}
	if got.ExchangeSent != "59 001" {
		t.Errorf("ExchangeSent = %q, want %q", got.ExchangeSent, "59 001")
	}
	if got.CQZone != 4 {
		t.Errorf("CQZone = %d, want 4", got.CQZone)
	}
	if got.Band() != core.Band20m {
		t.Errorf("Band() = %v, want 20m", got.Band())
	}
}

func TestQSOStore_GetMissing(t *testing.T) {
	store := NewQSOStore(testDB(t))
	_, err := store.GetByID(12345)
	if !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("GetByID() error = %v, want ErrRecordNotFound", err)
	}
}

func TestQSOStore_ListNewestFirst(t *testing.T) {
	store := NewQSOStore(testDB(t))

	older := testQSO("K1AA")
	older.Time = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	newer := testQSO("K2BB")
	newer.Time = time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

	store.Add(older)
	store.Add(newer)

	qsos, err := store.List(10, 0, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(qsos) != 2 {
		t.Fatalf("List() returned %d QSOs, want 2", len(qsos))
	}
	if qsos[0].Callsign != "K2BB" {
		t.Errorf("first listed = %q, want newest K2BB", qsos[0].Callsign)
	}
}

func TestQSOStore_Search(t *testing.T) {
	store := NewQSOStore(testDB(t))
	store.Add(testQSO("K5XYZ"))
	store.Add(testQSO("W1AW"))

	found, err := store.Search("5xy")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(found) != 1 || found[0].Callsign != "K5XYZ" {
		t.Errorf("Search(5xy) = %v, want just K5XYZ", found)
	}
}

func TestQSOStore_CheckDupe(t *testing.T) {
	store := NewQSOStore(testDB(t))
	q := testQSO("K5XYZ")
	q.SessionID = ""
	store.Add(q)

	dupe, err := store.CheckDupe("k5xyz", "", "")
	if err != nil {
		t.Fatalf("CheckDupe() error = %v", err)
	}
	if !dupe {
		t.Error("CheckDupe should match case-insensitively")
	}

	dupe, _ = store.CheckDupe("K5XYZ", core.ModeCW, "")
	if dupe {
		t.Error("CheckDupe with different mode should not match")
	}

	dupe, _ = store.CheckDupe("N0CALL", "", "")
	if dupe {
		t.Error("CheckDupe should not match unworked callsign")
	}
}

func TestQSOStore_UpdateAndDelete(t *testing.T) {
	store := NewQSOStore(testDB(t))
	q := testQSO("K5XYZ")
	id, _ := store.Add(q)

	q.Notes = "ragchew"
	q.ExchangeRcvd = "59 042"
	if err := store.Update(q); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := store.GetByID(id)
	if got.Notes != "ragchew" || got.ExchangeRcvd != "59 042" {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("second Delete() error = %v, want ErrRecordNotFound", err)
	}
}

func TestQSOStore_BySessionOrderedOldestFirst(t *testing.T) {
	db := testDB(t)
	qsos := NewQSOStore(db)
	sessions := NewSessionStore(db)

	sess, err := sessions.Create(modes.Config{Kind: modes.KindContest, ContestName: "NAQP", MyCallsign: "W1AW"}, "NAQP")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i, call := range []string{"K1AA", "K2BB", "K3CC"} {
		q := testQSO(call)
		q.SessionID = sess.ID
		q.Time = time.Date(2025, 6, 14, 10+i, 0, 0, 0, time.UTC)
		qsos.Add(q)
	}
	// An unrelated QSO outside the session
	qsos.Add(testQSO("W9XX"))

	got, err := qsos.BySession(sess.ID)
	if err != nil {
		t.Fatalf("BySession() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("BySession() returned %d, want 3", len(got))
	}
	if got[0].Callsign != "K1AA" || got[2].Callsign != "K3CC" {
		t.Errorf("BySession() not in logged order: %v, %v", got[0].Callsign, got[2].Callsign)
	}
}

// =============================================================================
// SessionStore Tests
// =============================================================================

func TestSessionStore_CreateActivates(t *testing.T) {
	store := NewSessionStore(testDB(t))

	first, err := store.Create(modes.Config{Kind: modes.KindContest, ContestName: "CQ-WW", MyCallsign: "W1AW"}, "CQ-WW")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	active, err := store.Active()
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active.ID != first.ID {
		t.Errorf("Active() = %v, want %v", active.ID, first.ID)
	}
	if active.Config.ContestName != "CQ-WW" {
		t.Errorf("round-tripped config = %+v", active.Config)
	}

	// Starting a second session deactivates the first
	second, err := store.Create(modes.Config{Kind: modes.KindPOTA, ParkRefs: []string{"US-1211"}, MyCallsign: "W1AW"}, "POTA US-1211")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	active, _ = store.Active()
	if active.ID != second.ID {
		t.Errorf("Active() = %v, want the new session %v", active.ID, second.ID)
	}
	if active.Config.ParkRefs[0] != "US-1211" {
		t.Errorf("park refs not round-tripped: %+v", active.Config)
	}
}

func TestSessionStore_NoActiveSession(t *testing.T) {
	store := NewSessionStore(testDB(t))
	_, err := store.Active()
	if !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("Active() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_End(t *testing.T) {
	store := NewSessionStore(testDB(t))
	sess, _ := store.Create(modes.Config{Kind: modes.KindContest, ContestName: "CQ-WW", MyCallsign: "W1AW"}, "CQ-WW")

	if err := store.End(sess.ID, 1234); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if _, err := store.Active(); !errors.Is(err, core.ErrSessionNotFound) {
		t.Error("ended session should not be active")
	}

	got, err := store.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FinalScore == nil || *got.FinalScore != 1234 {
		t.Errorf("FinalScore = %v, want 1234", got.FinalScore)
	}
	if got.EndedAt == nil {
		t.Error("EndedAt should be set after End")
	}

	if err := store.End("no-such-id", 0); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("End(missing) error = %v, want ErrSessionNotFound", err)
	}
}
