package service

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Leaderboard: config.LeaderboardConfig{
			TopLimit:        100,
			CacheTTLSeconds: 60,
		},
	}
}

type testEnv struct {
	db *gorm.DB

	userRepo         *repository.UserRepository
	branchRepo       *repository.BranchRepository
	questionRepo     *repository.QuestionRepository
	mockTestRepo     *repository.MockTestRepository
	attemptRepo      *repository.AttemptRepository
	leaderboardRepo  *repository.LeaderboardRepository
	contributionRepo *repository.ContributionRepository
	notificationRepo *repository.NotificationRepository
	statsRepo        *repository.StatsRepository

	notifier    *NotificationService
	attempts    *AttemptService
	leaderboard *LeaderboardService
	questions   *QuestionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()

	env := &testEnv{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		branchRepo:       repository.NewBranchRepository(db),
		questionRepo:     repository.NewQuestionRepository(db),
		mockTestRepo:     repository.NewMockTestRepository(db),
		attemptRepo:      repository.NewAttemptRepository(db),
		leaderboardRepo:  repository.NewLeaderboardRepository(db),
		contributionRepo: repository.NewContributionRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		statsRepo:        repository.NewStatsRepository(db),
	}
	env.notifier = NewNotificationService(env.notificationRepo, nil)
	env.attempts = NewAttemptService(env.attemptRepo, env.questionRepo, env.mockTestRepo, env.notifier, cfg)
	env.leaderboard = NewLeaderboardService(env.leaderboardRepo, env.attemptRepo, env.mockTestRepo, nil, env.notifier, cfg)
	env.questions = NewQuestionService(env.questionRepo, env.contributionRepo, env.branchRepo, env.notifier, cfg)
	return env
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		FullName: "Test User",
		Email:    email,
		Password: "hashed",
		Role:     model.Student,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func (e *testEnv) createBranch(t *testing.T, name string) *model.Branch {
	t.Helper()
	branch := &model.Branch{NameEN: name, NameNP: name, IsActive: true}
	if err := e.db.Create(branch).Error; err != nil {
		t.Fatalf("creating branch: %v", err)
	}
	return branch
}

func (e *testEnv) createCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	category := &model.Category{NameEN: name, NameNP: name, ScopeType: model.ScopeUniversal, IsActive: true}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("creating category: %v", err)
	}
	return category
}

// createQuestion makes a public MCQ with one correct option out of three.
// correctIdx below zero leaves all options incorrect.
func (e *testEnv) createQuestion(t *testing.T, categoryID uint, correctIdx int) *model.Question {
	t.Helper()
	q := &model.Question{
		QuestionTextEN: "What is the capital of Nepal?",
		QuestionTextNP: "नेपालको राजधानी कुन हो?",
		CategoryID:     categoryID,
		QuestionType:   "MCQ",
		Status:         model.QuestionPublic,
		IsPublic:       true,
	}
	answers := make([]model.Answer, 3)
	for i := range answers {
		answers[i] = model.Answer{
			AnswerTextEN: "Option",
			AnswerTextNP: "विकल्प",
			IsCorrect:    i == correctIdx,
			DisplayOrder: i,
		}
	}
	if err := e.questionRepo.CreateWithAnswers(q, answers); err != nil {
		t.Fatalf("creating question: %v", err)
	}
	return q
}

func (e *testEnv) createMockTest(t *testing.T, branchID uint, marks float64, questions ...*model.Question) *model.MockTest {
	t.Helper()
	test := &model.MockTest{
		TitleEN:        "Sample Test",
		TitleNP:        "नमूना परीक्षा",
		Slug:           "sample-test-" + model.Slugify(t.Name()),
		BranchID:       branchID,
		TotalQuestions: len(questions),
		PassPercentage: 40,
		IsPublic:       true,
		IsActive:       true,
	}
	rows := make([]model.MockTestQuestion, len(questions))
	for i, q := range questions {
		rows[i] = model.MockTestQuestion{
			QuestionID:     q.ID,
			QuestionOrder:  i + 1,
			MarksAllocated: marks,
		}
	}
	if err := e.mockTestRepo.CreateWithQuestions(test, rows); err != nil {
		t.Fatalf("creating mock test: %v", err)
	}
	return test
}

// correctAnswer returns the option flagged correct, incorrectAnswer the
// first one that is not.
func correctAnswer(t *testing.T, q *model.Question) *model.Answer {
	t.Helper()
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	t.Fatalf("question %d has no correct answer", q.ID)
	return nil
}

func incorrectAnswer(t *testing.T, q *model.Question) *model.Answer {
	t.Helper()
	for i := range q.Answers {
		if !q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	t.Fatalf("question %d has no incorrect answer", q.ID)
	return nil
}
