package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"testing"
	"time"
)

// seedCompletedAttempt inserts a finished mock-test attempt directly, with
// the answer rows backing the given correct/incorrect split.
func seedCompletedAttempt(t *testing.T, env *testEnv, userID uint, test *model.MockTest, score float64, correct, incorrect int, endTime time.Time, timeTaken int) {
	t.Helper()

	attempt := &model.UserAttempt{
		UserID:         userID,
		MockTestID:     &test.ID,
		StartTime:      endTime.Add(-time.Duration(timeTaken) * time.Second),
		EndTime:        &endTime,
		TotalTimeTaken: &timeTaken,
		ScoreObtained:  score,
		TotalScore:     float64(correct+incorrect) * 10,
		Status:         model.AttemptCompleted,
		Mode:           model.ModeMockTest,
	}
	if err := env.db.Create(attempt).Error; err != nil {
		t.Fatalf("seeding attempt: %v", err)
	}

	var answers []model.UserAnswer
	for i := 0; i < correct; i++ {
		answers = append(answers, model.UserAnswer{
			UserAttemptID: attempt.ID, QuestionID: uint(1000 + i),
			IsCorrect: true, IsSkipped: false, MarksAllocated: 10,
		})
	}
	for i := 0; i < incorrect; i++ {
		answers = append(answers, model.UserAnswer{
			UserAttemptID: attempt.ID, QuestionID: uint(2000 + i),
			IsCorrect: false, IsSkipped: false, MarksAllocated: 10,
		})
	}
	if len(answers) > 0 {
		if err := env.db.Create(&answers).Error; err != nil {
			t.Fatalf("seeding answers: %v", err)
		}
	}
}

func TestRecalculatePartitionRanking(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Nayab Subba")
	category := env.createCategory(t, "General Knowledge")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	high := env.createUser(t, "high@example.com")
	low := env.createUser(t, "low@example.com")
	now := time.Now()
	seedCompletedAttempt(t, env, high.ID, test, 80, 8, 2, now.Add(-time.Hour), 600)
	seedCompletedAttempt(t, env, low.ID, test, 60, 6, 4, now.Add(-time.Hour), 600)

	entries, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("RecalculatePartition: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].UserID != high.ID || entries[0].Rank != 1 {
		t.Errorf("first entry = user %d rank %d, want user %d rank 1", entries[0].UserID, entries[0].Rank, high.ID)
	}
	if entries[1].UserID != low.ID || entries[1].Rank != 2 {
		t.Errorf("second entry = user %d rank %d, want user %d rank 2", entries[1].UserID, entries[1].Rank, low.ID)
	}
	if entries[0].TotalScore != 80 {
		t.Errorf("top score = %v, want 80", entries[0].TotalScore)
	}
	if entries[0].AccuracyPercentage != 80 {
		t.Errorf("top accuracy = %v, want 80", entries[0].AccuracyPercentage)
	}

	// the serving path reads back in rank order
	page, err := env.leaderboard.Top(model.PeriodAllTime, branch.ID, nil, 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(page) != 2 || page[0].UserID != high.ID || page[1].UserID != low.ID {
		t.Errorf("Top order = %v, want high before low", page)
	}
}

func TestRecalculatePartitionTieBrokenByAccuracy(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Kharidar")
	category := env.createCategory(t, "IQ")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	precise := env.createUser(t, "precise@example.com")
	sloppy := env.createUser(t, "sloppy@example.com")
	now := time.Now()
	// same total score; the second user needed more answers to get there
	seedCompletedAttempt(t, env, precise.ID, test, 80, 8, 0, now.Add(-time.Hour), 600)
	seedCompletedAttempt(t, env, sloppy.ID, test, 80, 8, 4, now.Add(-time.Hour), 600)

	entries, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("RecalculatePartition: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].UserID != precise.ID {
		t.Errorf("higher accuracy should rank first, got user %d", entries[0].UserID)
	}
	if entries[0].Rank == entries[1].Rank {
		t.Errorf("different accuracy at equal score must not share a rank")
	}
}

func TestRecalculatePartitionIdempotent(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Engineering")
	category := env.createCategory(t, "IQ")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	user := env.createUser(t, "student@example.com")
	seedCompletedAttempt(t, env, user.ID, test, 50, 5, 5, time.Now().Add(-time.Hour), 300)

	first, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	second, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("entry counts = %d then %d, want 1 and 1", len(first), len(second))
	}
	if first[0].TotalScore != second[0].TotalScore || first[0].Rank != second[0].Rank {
		t.Error("rerunning over unchanged data must produce the same partition")
	}

	stored, err := env.leaderboardRepo.GetPartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("GetPartition: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored rows = %d, want 1 (no duplicates)", len(stored))
	}
}

func TestRecalculatePartitionRemovesStaleEntries(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Nayab Subba")

	// a leftover row for a user with no attempts in the source data
	stale := model.LeaderboardEntry{
		UserID: 999, TimePeriod: model.PeriodAllTime, BranchID: branch.ID,
		Rank: 1, TotalScore: 500,
	}
	if err := env.db.Create(&stale).Error; err != nil {
		t.Fatalf("seeding stale entry: %v", err)
	}

	entries, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("RecalculatePartition: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
	stored, _ := env.leaderboardRepo.GetPartition(model.PeriodAllTime, branch.ID, nil)
	if len(stored) != 0 {
		t.Errorf("stale entry survived the rebuild")
	}
}

func TestRecalculateWeeklyWindow(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Kharidar")
	category := env.createCategory(t, "IQ")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	recent := env.createUser(t, "recent@example.com")
	old := env.createUser(t, "old@example.com")

	fixed := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	env.leaderboard.Now = func() time.Time { return fixed }

	seedCompletedAttempt(t, env, recent.ID, test, 40, 4, 0, fixed.Add(-2*24*time.Hour), 300)
	seedCompletedAttempt(t, env, old.ID, test, 90, 9, 0, fixed.Add(-8*24*time.Hour), 300)

	entries, err := env.leaderboard.RecalculatePartition(model.PeriodWeekly, branch.ID, nil)
	if err != nil {
		t.Fatalf("RecalculatePartition: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("weekly entries = %d, want 1 (old attempt outside the window)", len(entries))
	}
	if entries[0].UserID != recent.ID {
		t.Errorf("weekly leader = user %d, want %d", entries[0].UserID, recent.ID)
	}

	// all-time sees both
	entries, err = env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("RecalculatePartition all-time: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("all-time entries = %d, want 2", len(entries))
	}
}

func TestRecalculatePartitionBusy(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Engineering")

	key := partitionKey(model.PeriodAllTime, branch.ID, nil)
	env.leaderboard.rebuilding[key] = true

	_, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil)
	if !errors.Is(err, util.ErrPartitionBusy) {
		t.Fatalf("error = %v, want ErrPartitionBusy", err)
	}
}

func TestRecalculateRejectsUnknownPeriod(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.leaderboard.RecalculatePartition("DAILY", 1, nil); !errors.Is(err, util.ErrInvalidPeriod) {
		t.Fatalf("error = %v, want ErrInvalidPeriod", err)
	}
	if _, err := env.leaderboard.Top("DAILY", 1, nil, 10); !errors.Is(err, util.ErrInvalidPeriod) {
		t.Fatalf("Top error = %v, want ErrInvalidPeriod", err)
	}
}

func TestRankChangeNotifications(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Nayab Subba")
	category := env.createCategory(t, "General Knowledge")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	user := env.createUser(t, "climber@example.com")
	seedCompletedAttempt(t, env, user.ID, test, 70, 7, 3, time.Now().Add(-time.Hour), 420)

	if _, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil); err != nil {
		t.Fatalf("RecalculatePartition: %v", err)
	}

	notifications, total, err := env.notifier.List(user.ID, true, 1, 10)
	if err != nil {
		t.Fatalf("listing notifications: %v", err)
	}
	if total != 1 || notifications[0].Type != model.NotifyRankChange {
		t.Fatalf("expected one rank-change notification, got %d", total)
	}

	// a rebuild that changes nothing emits nothing
	if _, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	_, total, _ = env.notifier.List(user.ID, true, 1, 10)
	if total != 1 {
		t.Errorf("unchanged rebuild emitted a notification, total = %d", total)
	}
}

func TestUserRankLookup(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Kharidar")
	category := env.createCategory(t, "IQ")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	user := env.createUser(t, "ranked@example.com")
	unranked := env.createUser(t, "unranked@example.com")
	seedCompletedAttempt(t, env, user.ID, test, 30, 3, 0, time.Now().Add(-time.Hour), 180)

	if _, err := env.leaderboard.RecalculatePartition(model.PeriodAllTime, branch.ID, nil); err != nil {
		t.Fatalf("RecalculatePartition: %v", err)
	}

	entry, err := env.leaderboard.UserRank(user.ID, model.PeriodAllTime, branch.ID, nil)
	if err != nil {
		t.Fatalf("UserRank: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("rank = %d, want 1", entry.Rank)
	}

	if _, err := env.leaderboard.UserRank(unranked.ID, model.PeriodAllTime, branch.ID, nil); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unranked lookup error = %v, want not found", err)
	}
}
