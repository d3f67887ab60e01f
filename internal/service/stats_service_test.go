package service

import (
	"testing"
	"time"
)

func newStatsService(env *testEnv) *StatsService {
	return NewStatsService(env.userRepo, env.questionRepo, env.attemptRepo, env.contributionRepo, env.statsRepo)
}

func TestRebuildUserStatistics(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)
	branch := env.createBranch(t, "Nayab Subba")
	category := env.createCategory(t, "General Knowledge")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	sharp := env.createUser(t, "sharp@example.com")
	rusty := env.createUser(t, "rusty@example.com")
	idle := env.createUser(t, "idle@example.com")

	now := time.Now()
	seedCompletedAttempt(t, env, sharp.ID, test, 90, 9, 1, now.Add(-time.Hour), 540)
	seedCompletedAttempt(t, env, rusty.ID, test, 40, 4, 6, now.Add(-time.Hour), 540)

	if err := stats.RebuildUserStatistics(); err != nil {
		t.Fatalf("RebuildUserStatistics: %v", err)
	}

	row, err := env.statsRepo.FindUserStatistics(sharp.ID)
	if err != nil {
		t.Fatalf("FindUserStatistics: %v", err)
	}
	if row.QuestionsAnswered != 10 || row.CorrectAnswers != 9 {
		t.Errorf("answered/correct = %d/%d, want 10/9", row.QuestionsAnswered, row.CorrectAnswers)
	}
	if row.AccuracyPercentage != 90 {
		t.Errorf("accuracy = %v, want 90", row.AccuracyPercentage)
	}
	if row.MockTestsCompleted != 1 {
		t.Errorf("tests completed = %d, want 1", row.MockTestsCompleted)
	}
	if row.AccuracyRank == nil || *row.AccuracyRank != 1 {
		t.Errorf("accuracy rank = %v, want 1", row.AccuracyRank)
	}

	row, err = env.statsRepo.FindUserStatistics(rusty.ID)
	if err != nil {
		t.Fatalf("FindUserStatistics: %v", err)
	}
	if row.AccuracyRank == nil || *row.AccuracyRank != 2 {
		t.Errorf("accuracy rank = %v, want 2", row.AccuracyRank)
	}

	// no answers means no accuracy rank, but the row still exists
	row, err = env.statsRepo.FindUserStatistics(idle.ID)
	if err != nil {
		t.Fatalf("FindUserStatistics: %v", err)
	}
	if row.QuestionsAnswered != 0 || row.AccuracyRank != nil {
		t.Errorf("idle user row = answered %d rank %v, want 0 and unranked", row.QuestionsAnswered, row.AccuracyRank)
	}
}

func TestRebuildPlatformStats(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)
	branch := env.createBranch(t, "Kharidar")
	category := env.createCategory(t, "IQ")
	q := env.createQuestion(t, category.ID, 0)
	test := env.createMockTest(t, branch.ID, 10, q)

	user := env.createUser(t, "student@example.com")
	seedCompletedAttempt(t, env, user.ID, test, 20, 2, 3, time.Now().Add(-time.Hour), 300)

	if err := stats.RebuildPlatformStats(); err != nil {
		t.Fatalf("RebuildPlatformStats: %v", err)
	}

	snapshot, err := stats.PlatformStats()
	if err != nil {
		t.Fatalf("PlatformStats: %v", err)
	}
	if snapshot.TotalUsers != 1 {
		t.Errorf("total users = %d, want 1", snapshot.TotalUsers)
	}
	if snapshot.TotalQuestions != 1 || snapshot.TotalPublicQuestions != 1 {
		t.Errorf("questions = %d/%d public, want 1/1", snapshot.TotalQuestions, snapshot.TotalPublicQuestions)
	}
	if snapshot.TotalMockTestsTaken != 1 {
		t.Errorf("tests taken = %d, want 1", snapshot.TotalMockTestsTaken)
	}
	if snapshot.TotalAnswersSubmitted != 5 {
		t.Errorf("answers submitted = %d, want 5", snapshot.TotalAnswersSubmitted)
	}
}

func TestSnapshotDailyActivityOverwrites(t *testing.T) {
	env := newTestEnv(t)
	stats := newStatsService(env)

	env.createUser(t, "first@example.com")
	if err := stats.SnapshotDailyActivity(); err != nil {
		t.Fatalf("SnapshotDailyActivity: %v", err)
	}

	env.createUser(t, "second@example.com")
	if err := stats.SnapshotDailyActivity(); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	activity, err := stats.DailyActivity(7)
	if err != nil {
		t.Fatalf("DailyActivity: %v", err)
	}
	if len(activity) != 1 {
		t.Fatalf("rows for the same day = %d, want 1", len(activity))
	}
	if activity[0].NewUsers != 2 {
		t.Errorf("new users = %d, want 2", activity[0].NewUsers)
	}
}
