package store

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mkBlock is a test helper returning a one-hour block starting at the given
// offset from a fixed morning anchor.
func mkBlock(title string, startHour, startMin, durationMin int) TimeBlock {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	return TimeBlock{
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationMin) * time.Minute),
		BlockType: BlockTask,
		Color:     "#7C3AED",
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/blockflow.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen path, should not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Time blocks
// ============================================================

func TestCreateAndGetBlock(t *testing.T) {
	s := newTestStore(t)
	b, err := s.CreateBlock(mkBlock("Deep work", 9, 0, 60))
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if b.Title != "Deep work" || b.BlockType != BlockTask {
		t.Fatalf("unexpected block: %+v", b)
	}
	if b.Duration() != time.Hour {
		t.Fatalf("expected 1h duration, got %v", b.Duration())
	}
	if b.Completed() {
		t.Fatal("new block should not be completed")
	}
	if b.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}

	fetched, err := s.GetBlock(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !fetched.StartTime.Equal(b.StartTime) || !fetched.EndTime.Equal(b.EndTime) {
		t.Fatalf("times did not round-trip: %+v vs %+v", fetched, b)
	}
}

func TestCreateBlockInvalidRange(t *testing.T) {
	s := newTestStore(t)

	b := mkBlock("Backwards", 9, 0, 60)
	b.EndTime = b.StartTime.Add(-time.Hour)
	if _, err := s.CreateBlock(b); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	// Zero-length is also invalid
	b = mkBlock("Empty", 9, 0, 60)
	b.EndTime = b.StartTime
	if _, err := s.CreateBlock(b); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero-length, got %v", err)
	}
}

func TestGetBlockNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetBlock(999)
	if err == nil {
		t.Fatal("expected error for missing block")
	}
}

func TestBlocksForDay(t *testing.T) {
	s := newTestStore(t)
	s.CreateBlock(mkBlock("Morning", 9, 0, 60))
	s.CreateBlock(mkBlock("Afternoon", 14, 0, 30))

	other := mkBlock("Next day", 9, 0, 60)
	other.StartTime = other.StartTime.AddDate(0, 0, 1)
	other.EndTime = other.EndTime.AddDate(0, 0, 1)
	s.CreateBlock(other)

	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	blocks, err := s.BlocksForDay(day)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks on the day, got %d", len(blocks))
	}
	// Ordered by start time
	if blocks[0].Title != "Morning" || blocks[1].Title != "Afternoon" {
		t.Fatalf("wrong order: %s, %s", blocks[0].Title, blocks[1].Title)
	}
}

func TestBlocksForDayEmpty(t *testing.T) {
	s := newTestStore(t)
	blocks, err := s.BlocksForDay(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if blocks != nil {
		t.Fatalf("expected nil slice, got %d blocks", len(blocks))
	}
}

func TestListBlocksWithTypeFilter(t *testing.T) {
	s := newTestStore(t)
	b := mkBlock("Focus", 9, 0, 60)
	b.BlockType = BlockFocus
	s.CreateBlock(b)
	s.CreateBlock(mkBlock("Chore", 11, 0, 30))

	blocks, err := s.ListBlocks(BlockFilter{Type: BlockFocus})
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].Title != "Focus" {
		t.Fatalf("type filter failed: %+v", blocks)
	}
}

func TestListBlocksWithRecurringFilter(t *testing.T) {
	s := newTestStore(t)
	s.CreateBlock(mkBlock("One-off", 9, 0, 60))
	s.InsertFamily([]TimeBlock{mkBlock("Standup", 10, 0, 15)})

	recurring := true
	blocks, _ := s.ListBlocks(BlockFilter{Recurring: &recurring})
	if len(blocks) != 1 || blocks[0].Title != "Standup" {
		t.Fatalf("recurring filter failed: %+v", blocks)
	}
}

func TestReschedule(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Movable", 9, 0, 60))

	newStart := b.StartTime.Add(2 * time.Hour)
	newEnd := b.EndTime.Add(2 * time.Hour)
	if err := s.Reschedule(b.ID, newStart, newEnd); err != nil {
		t.Fatal(err)
	}

	moved, _ := s.GetBlock(b.ID)
	if !moved.StartTime.Equal(newStart) || !moved.EndTime.Equal(newEnd) {
		t.Fatalf("reschedule did not stick: %+v", moved)
	}
}

func TestRescheduleInvalidRange(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Movable", 9, 0, 60))
	err := s.Reschedule(b.ID, b.EndTime, b.StartTime)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSetBlockCompleted(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Done soon", 9, 0, 60))

	s.SetBlockCompleted(b.ID, true)
	done, _ := s.GetBlock(b.ID)
	if !done.Completed() || done.CompletedAt == nil {
		t.Fatal("block should be completed with timestamp")
	}

	// Toggling back clears the timestamp
	s.SetBlockCompleted(b.ID, false)
	undone, _ := s.GetBlock(b.ID)
	if undone.Completed() {
		t.Fatal("block should be incomplete again")
	}
}

func TestUpdateBlockDetails(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Old title", 9, 0, 60))

	s.UpdateBlockDetails(b.ID, "New title", "desc", BlockMeeting, "#FF0000")
	updated, _ := s.GetBlock(b.ID)
	if updated.Title != "New title" || updated.Description != "desc" {
		t.Fatalf("update failed: %+v", updated)
	}
	if updated.BlockType != BlockMeeting || updated.Color != "#FF0000" {
		t.Fatalf("type/color not updated: %+v", updated)
	}
	// Times untouched
	if !updated.StartTime.Equal(b.StartTime) {
		t.Fatal("update should not move the block")
	}
}

func TestDeleteBlock(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Gone", 9, 0, 60))
	if err := s.DeleteBlock(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetBlock(b.ID); err == nil {
		t.Fatal("deleted block should not be found")
	}
}

// ============================================================
// Overlap queries
// ============================================================

func TestFindOverlapping(t *testing.T) {
	s := newTestStore(t)
	s.CreateBlock(mkBlock("A", 9, 0, 60)) // 09:00-10:00

	// 09:30-10:30 overlaps
	cand := mkBlock("B", 9, 30, 60)
	hits, err := s.FindOverlapping(cand.StartTime, cand.EndTime, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Title != "A" {
		t.Fatalf("expected overlap with A, got %+v", hits)
	}
}

func TestFindOverlappingTouchingEndpoints(t *testing.T) {
	s := newTestStore(t)
	s.CreateBlock(mkBlock("A", 9, 0, 60)) // 09:00-10:00

	// 10:00-11:00 touches but does not overlap
	after := mkBlock("B", 10, 0, 60)
	hits, _ := s.FindOverlapping(after.StartTime, after.EndTime, nil)
	if len(hits) != 0 {
		t.Fatalf("touching intervals should not overlap, got %+v", hits)
	}

	// 08:00-09:00 also touches only
	before := mkBlock("C", 8, 0, 60)
	hits, _ = s.FindOverlapping(before.StartTime, before.EndTime, nil)
	if len(hits) != 0 {
		t.Fatalf("touching intervals should not overlap, got %+v", hits)
	}
}

func TestFindOverlappingContainment(t *testing.T) {
	s := newTestStore(t)
	s.CreateBlock(mkBlock("Long", 9, 0, 180)) // 09:00-12:00

	// 10:00-10:30 sits inside
	inner := mkBlock("Inner", 10, 0, 30)
	hits, _ := s.FindOverlapping(inner.StartTime, inner.EndTime, nil)
	if len(hits) != 1 {
		t.Fatalf("contained interval should overlap, got %d hits", len(hits))
	}
}

func TestFindOverlappingExcludesSelf(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Self", 9, 0, 60))

	hits, _ := s.FindOverlapping(b.StartTime, b.EndTime, &b.ID)
	if len(hits) != 0 {
		t.Fatal("excludeID should skip the block itself")
	}
}

// ============================================================
// Recurring families
// ============================================================

func TestInsertFamily(t *testing.T) {
	s := newTestStore(t)

	var instances []TimeBlock
	for i := 0; i < 5; i++ {
		b := mkBlock("Standup", 10, 0, 15)
		b.StartTime = b.StartTime.AddDate(0, 0, i)
		b.EndTime = b.EndTime.AddDate(0, 0, i)
		instances = append(instances, b)
	}

	rootID, count, err := s.InsertFamily(instances)
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Fatalf("expected 5 inserted, got %d", count)
	}

	root, _ := s.GetBlock(rootID)
	if root.ParentBlockID != nil {
		t.Fatal("root should have no parent")
	}
	if !root.IsRecurring {
		t.Fatal("root should be marked recurring")
	}

	members, _ := s.FamilyInstances(rootID)
	if len(members) != 5 {
		t.Fatalf("expected 5 family members, got %d", len(members))
	}
	for _, m := range members[1:] {
		if m.ParentBlockID == nil || *m.ParentBlockID != rootID {
			t.Fatalf("instance %d should point at root %d", m.ID, rootID)
		}
	}
}

func TestInsertFamilyEmpty(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.InsertFamily(nil)
	if err == nil {
		t.Fatal("expected error for empty family")
	}
}

func TestInsertFamilyInvalidInstance(t *testing.T) {
	s := newTestStore(t)
	good := mkBlock("OK", 9, 0, 60)
	bad := mkBlock("Bad", 10, 0, 60)
	bad.EndTime = bad.StartTime

	_, _, err := s.InsertFamily([]TimeBlock{good, bad})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	// Nothing from the batch should be visible
	blocks, _ := s.ListBlocks(BlockFilter{})
	if len(blocks) != 0 {
		t.Fatalf("failed family insert should leave no rows, got %d", len(blocks))
	}
}

func TestDeleteBlocksByParent(t *testing.T) {
	s := newTestStore(t)

	var instances []TimeBlock
	for i := 0; i < 3; i++ {
		b := mkBlock("Gym", 7, 0, 60)
		b.StartTime = b.StartTime.AddDate(0, 0, i)
		b.EndTime = b.EndTime.AddDate(0, 0, i)
		instances = append(instances, b)
	}
	rootID, _, _ := s.InsertFamily(instances)

	n, err := s.DeleteBlocksByParent(rootID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 child rows deleted, got %d", n)
	}

	// Root survives until deleted explicitly
	if _, err := s.GetBlock(rootID); err != nil {
		t.Fatal("root should still exist")
	}
}

func TestPromoteFamilyRoot(t *testing.T) {
	s := newTestStore(t)

	var instances []TimeBlock
	for i := 0; i < 3; i++ {
		b := mkBlock("Gym", 7, 0, 60)
		b.StartTime = b.StartTime.AddDate(0, 0, i)
		b.EndTime = b.EndTime.AddDate(0, 0, i)
		instances = append(instances, b)
	}
	rootID, _, _ := s.InsertFamily(instances)
	family, _ := s.FamilyInstances(rootID)

	newRoot, err := s.PromoteFamilyRoot(rootID)
	if err != nil {
		t.Fatal(err)
	}
	// The earliest instance takes over.
	if newRoot != family[1].ID {
		t.Fatalf("expected instance %d promoted, got %d", family[1].ID, newRoot)
	}

	promoted, _ := s.GetBlock(newRoot)
	if promoted.ParentBlockID != nil {
		t.Fatal("promoted root should have no parent")
	}
	sibling, _ := s.GetBlock(family[2].ID)
	if sibling.ParentBlockID == nil || *sibling.ParentBlockID != newRoot {
		t.Fatal("sibling should point at the promoted root")
	}

	// The old root can now be deleted without tripping the parent reference.
	if err := s.DeleteBlock(rootID); err != nil {
		t.Fatalf("old root should be deletable after promotion: %v", err)
	}
}

func TestPromoteFamilyRootNoInstances(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Solo", 9, 0, 60))

	newRoot, err := s.PromoteFamilyRoot(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if newRoot != 0 {
		t.Fatalf("block without instances should promote nothing, got %d", newRoot)
	}
}

// ============================================================
// Daily plans
// ============================================================

func TestUpsertDailyPlan(t *testing.T) {
	s := newTestStore(t)
	t1, _ := s.AddTask("Write report", "high", nil)
	t2, _ := s.AddTask("Review PR", "medium", nil)

	date := "2026-03-10"
	plan, err := s.UpsertDailyPlan(date, []int64{t1.ID, t2.ID}, "Ship it")
	if err != nil {
		t.Fatal(err)
	}
	if !plan.IsCompleted || plan.CompletedAt == nil {
		t.Fatal("completed plan should carry a timestamp")
	}
	if len(plan.TopPriorities) != 2 || plan.TopPriorities[0] != t1.ID {
		t.Fatalf("priorities did not round-trip: %+v", plan.TopPriorities)
	}
	if plan.Intention != "Ship it" {
		t.Fatalf("expected intention, got %q", plan.Intention)
	}
}

func TestUpsertDailyPlanOverwrites(t *testing.T) {
	s := newTestStore(t)
	tk, _ := s.AddTask("Only task", "low", nil)

	date := "2026-03-10"
	first, _ := s.UpsertDailyPlan(date, []int64{tk.ID}, "First")
	second, err := s.UpsertDailyPlan(date, []int64{tk.ID}, "Second")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatal("same date should reuse the same row")
	}
	if second.Intention != "Second" {
		t.Fatalf("expected overwrite, got %q", second.Intention)
	}
}

func TestGetDailyPlanMissing(t *testing.T) {
	s := newTestStore(t)
	plan, err := s.GetDailyPlan("2099-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if plan != nil {
		t.Fatal("expected nil for missing plan")
	}
}

func TestSetReflection(t *testing.T) {
	s := newTestStore(t)
	date := "2026-03-10"

	// Reflection without a prior plan creates an incomplete row
	if err := s.SetReflection(date, "Long day"); err != nil {
		t.Fatal(err)
	}
	plan, _ := s.GetDailyPlan(date)
	if plan == nil || plan.Reflection != "Long day" {
		t.Fatalf("reflection not stored: %+v", plan)
	}
	if plan.IsCompleted {
		t.Fatal("reflection alone should not complete the plan")
	}

	// Completing the ritual afterwards keeps the reflection
	tk, _ := s.AddTask("T", "medium", nil)
	s.UpsertDailyPlan(date, []int64{tk.ID}, "Focus")
	plan, _ = s.GetDailyPlan(date)
	if plan.Reflection != "Long day" {
		t.Fatal("upsert should not clobber the reflection")
	}
}

func TestPlanDate(t *testing.T) {
	d := time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC)
	if got := PlanDate(d); got != "2026-03-05" {
		t.Fatalf("expected 2026-03-05, got %s", got)
	}
}

// ============================================================
// Pomodoro sessions
// ============================================================

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Focus", 9, 0, 60))

	sess, err := s.StartSession(&b.ID, PhaseWork, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if sess.TimeBlockID == nil || *sess.TimeBlockID != b.ID {
		t.Fatal("session should be linked to the block")
	}
	if sess.Phase != PhaseWork || sess.DurationSecs != 1500 {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.EndedAt != nil || sess.WasCompleted {
		t.Fatal("new session should be open")
	}

	if err := s.FinishSession(sess.ID, true); err != nil {
		t.Fatal(err)
	}
	finished, _ := s.GetSession(sess.ID)
	if finished.EndedAt == nil || !finished.WasCompleted {
		t.Fatalf("session should be closed and completed: %+v", finished)
	}
}

func TestDeleteBlockKeepsSessionHistory(t *testing.T) {
	s := newTestStore(t)
	b, _ := s.CreateBlock(mkBlock("Focus", 9, 0, 60))

	sess, _ := s.StartSession(&b.ID, PhaseWork, 1500)
	s.FinishSession(sess.ID, true)

	// Recorded sessions must never block deleting their block.
	if err := s.DeleteBlock(b.ID); err != nil {
		t.Fatalf("delete of a block with session history failed: %v", err)
	}

	// The row survives, unlinked.
	kept, err := s.GetSession(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if kept.TimeBlockID != nil {
		t.Fatal("session should be detached from the deleted block")
	}
	if !kept.WasCompleted {
		t.Fatal("detaching should not touch the completion flag")
	}
}

func TestSessionUnlinked(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.StartSession(nil, PhaseBreak, 300)
	if err != nil {
		t.Fatal(err)
	}
	if sess.TimeBlockID != nil {
		t.Fatal("unlinked session should have nil block id")
	}
}

func TestFinishSessionAbandoned(t *testing.T) {
	s := newTestStore(t)
	sess, _ := s.StartSession(nil, PhaseWork, 1500)
	s.FinishSession(sess.ID, false)

	closed, _ := s.GetSession(sess.ID)
	if closed.WasCompleted {
		t.Fatal("abandoned session should not count as completed")
	}
	if closed.EndedAt == nil {
		t.Fatal("abandoned session should still be closed")
	}
}

func TestListSessions(t *testing.T) {
	s := newTestStore(t)
	s.StartSession(nil, PhaseWork, 1500)
	s.StartSession(nil, PhaseBreak, 300)

	now := time.Now().UTC()
	sessions, err := s.ListSessions(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestGetFocusSummary(t *testing.T) {
	s := newTestStore(t)

	w1, _ := s.StartSession(nil, PhaseWork, 1500)
	s.FinishSession(w1.ID, true)
	w2, _ := s.StartSession(nil, PhaseWork, 1500)
	s.FinishSession(w2.ID, true)

	// Breaks and abandoned work are excluded
	br, _ := s.StartSession(nil, PhaseBreak, 300)
	s.FinishSession(br.ID, true)
	s.StartSession(nil, PhaseWork, 1500) // never finished

	now := time.Now().UTC()
	summaries, err := s.GetFocusSummary(now.Add(-24*time.Hour), now.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 day of data, got %d", len(summaries))
	}
	if summaries[0].TotalSeconds != 3000 {
		t.Fatalf("expected 3000s, got %d", summaries[0].TotalSeconds)
	}
	if summaries[0].SessionCount != 2 {
		t.Fatalf("expected 2 sessions, got %d", summaries[0].SessionCount)
	}
}

func TestGetFocusSummaryEmpty(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	summaries, err := s.GetFocusSummary(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if summaries != nil {
		t.Fatal("expected nil for empty summary")
	}
}

// ============================================================
// Tasks
// ============================================================

func TestAddAndListTasks(t *testing.T) {
	s := newTestStore(t)
	s.AddTask("Low prio", "low", nil)
	s.AddTask("High prio", "high", nil)

	tasks, err := s.ListTasks(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	// High priority sorts first
	if tasks[0].Title != "High prio" {
		t.Fatalf("expected high priority first, got %s", tasks[0].Title)
	}
}

func TestListTasksExcludesCompleted(t *testing.T) {
	s := newTestStore(t)
	tk, _ := s.AddTask("Done already", "medium", nil)
	s.db.Exec(`UPDATE tasks SET completed = 1 WHERE id = ?`, tk.ID)
	s.AddTask("Still open", "medium", nil)

	tasks, _ := s.ListTasks(false)
	if len(tasks) != 1 || tasks[0].Title != "Still open" {
		t.Fatalf("completed tasks should be hidden: %+v", tasks)
	}

	tasks, _ = s.ListTasks(true)
	if len(tasks) != 2 {
		t.Fatal("includeCompleted should show everything")
	}
}

func TestTaskDueTimeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	due := time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)
	tk, _ := s.AddTask("Deadline", "high", &due)

	fetched, _ := s.GetTask(tk.ID)
	if fetched.DueTime == nil || !fetched.DueTime.Equal(due) {
		t.Fatalf("due time did not round-trip: %+v", fetched.DueTime)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"pomodoro_work":       "1500",
		"pomodoro_break":      "300",
		"pomodoro_long_break": "900",
		"pomodoro_target":     "4",
		"hour_height":         "60",
		"recur_horizon_days":  "30",
		"day_start_hour":      "6",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("recur_horizon_days", "14")
	val, _ := s.GetSetting("recur_horizon_days")
	if val != "14" {
		t.Fatalf("expected 14, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetSettingInt(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("custom", "42")
	s.SetSetting("garbage", "not a number")
	s.SetSetting("zero", "0")
	s.SetSetting("negative", "-5")

	tests := []struct {
		key  string
		want int
	}{
		{"custom", 42},
		{"pomodoro_work", 1500}, // seeded default
		{"nonexistent", 7},
		{"garbage", 7},
		{"zero", 7},
		{"negative", 7},
	}
	for _, tt := range tests {
		if got := s.GetSettingInt(tt.key, 7); got != tt.want {
			t.Errorf("GetSettingInt(%q, 7) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 7 {
		t.Fatalf("expected at least 7 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}
