package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/logger"
	"sort"
	"time"

	"go.uber.org/zap"
)

// StatsService rebuilds the derived aggregate tables from source data.
// Rebuilds replace whole tables or rows, so the job can run on any cadence
// without drifting.
type StatsService struct {
	UserRepo         *repository.UserRepository
	QuestionRepo     *repository.QuestionRepository
	AttemptRepo      *repository.AttemptRepository
	ContributionRepo *repository.ContributionRepository
	StatsRepo        *repository.StatsRepository

	Now func() time.Time
}

func NewStatsService(
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	contributionRepo *repository.ContributionRepository,
	statsRepo *repository.StatsRepository,
) *StatsService {
	return &StatsService{
		UserRepo:         userRepo,
		QuestionRepo:     questionRepo,
		AttemptRepo:      attemptRepo,
		ContributionRepo: contributionRepo,
		StatsRepo:        statsRepo,
		Now:              time.Now,
	}
}

// RebuildUserStatistics recomputes every user's aggregate row, including
// the contribution and accuracy ranks, and swaps the table in one go.
func (s *StatsService) RebuildUserStatistics() error {
	ids, err := s.UserRepo.ListIDs()
	if err != nil {
		return err
	}
	answerTotals, err := s.AttemptRepo.AnswerTotalsByUser()
	if err != nil {
		return err
	}
	completed, err := s.AttemptRepo.CompletedCountsByUser()
	if err != nil {
		return err
	}
	contributions, err := s.ContributionRepo.CountsByUser()
	if err != nil {
		return err
	}

	now := s.Now()
	stats := make([]model.UserStatistics, 0, len(ids))
	for _, id := range ids {
		row := model.UserStatistics{UserID: id}
		if totals, ok := answerTotals[id]; ok {
			row.QuestionsAnswered = int(totals.Answered)
			row.CorrectAnswers = int(totals.Correct)
			if totals.Answered > 0 {
				row.AccuracyPercentage = float64(totals.Correct) / float64(totals.Answered) * 100
				row.LastActivityDate = &now
			}
		}
		row.MockTestsCompleted = int(completed[id])
		if c, ok := contributions[id]; ok {
			row.QuestionsContributed = int(c[0])
			row.QuestionsMadePublic = int(c[1])
		}
		stats = append(stats, row)
	}

	assignRank(stats, func(r model.UserStatistics) float64 {
		return float64(r.QuestionsMadePublic)
	}, func(r *model.UserStatistics, rank int) {
		r.ContributionRank = &rank
	})
	assignRank(stats, func(r model.UserStatistics) float64 {
		if r.QuestionsAnswered == 0 {
			return -1
		}
		return r.AccuracyPercentage
	}, func(r *model.UserStatistics, rank int) {
		if r.QuestionsAnswered > 0 {
			r.AccuracyRank = &rank
		}
	})

	return s.StatsRepo.ReplaceUserStatistics(stats)
}

// assignRank orders rows by a metric descending and writes dense ranks
// through the setter, ties sharing a rank.
func assignRank(stats []model.UserStatistics, metric func(model.UserStatistics) float64, set func(*model.UserStatistics, int)) {
	order := make([]int, len(stats))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return metric(stats[order[a]]) > metric(stats[order[b]])
	})

	rank := 0
	for pos, idx := range order {
		if pos == 0 || metric(stats[order[pos-1]]) != metric(stats[idx]) {
			rank++
		}
		set(&stats[idx], rank)
	}
}

// RebuildPlatformStats refreshes the singleton totals snapshot.
func (s *StatsService) RebuildPlatformStats() error {
	users, err := s.UserRepo.Count()
	if err != nil {
		return err
	}
	totalQuestions, publicQuestions, err := s.QuestionRepo.Counts()
	if err != nil {
		return err
	}
	testsTaken, err := s.AttemptRepo.CountCompleted()
	if err != nil {
		return err
	}
	answers, err := s.AttemptRepo.CountAnswersSubmitted(nil)
	if err != nil {
		return err
	}

	return s.StatsRepo.SavePlatformStats(&model.PlatformStats{
		TotalUsers:            int(users),
		TotalQuestions:        int(totalQuestions),
		TotalPublicQuestions:  int(publicQuestions),
		TotalMockTestsTaken:   int(testsTaken),
		TotalAnswersSubmitted: int(answers),
		LastRebuilt:           s.Now(),
	})
}

// SnapshotDailyActivity writes today's counters, overwriting any earlier
// snapshot of the same day.
func (s *StatsService) SnapshotDailyActivity() error {
	now := s.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	newUsers, err := s.UserRepo.CountCreatedSince(dayStart)
	if err != nil {
		return err
	}
	questionsAdded, err := s.QuestionRepo.CountCreatedSince(dayStart)
	if err != nil {
		return err
	}
	attemptsStarted, err := s.AttemptRepo.CountStartedSince(dayStart)
	if err != nil {
		return err
	}
	answers, err := s.AttemptRepo.CountAnswersSubmitted(&dayStart)
	if err != nil {
		return err
	}
	activeUsers, err := s.AttemptRepo.CountActiveUsersSince(dayStart)
	if err != nil {
		return err
	}

	return s.StatsRepo.UpsertDailyActivity(&model.DailyActivity{
		Date:                  dayStart,
		NewUsers:              int(newUsers),
		QuestionsAdded:        int(questionsAdded),
		AttemptsStarted:       int(attemptsStarted),
		TotalAnswersSubmitted: int(answers),
		ActiveUsers:           int(activeUsers),
	})
}

// RebuildAll runs every rebuild; failures are logged so one table does not
// block the others.
func (s *StatsService) RebuildAll() {
	if err := s.RebuildUserStatistics(); err != nil {
		logger.Log.Error("stats: user statistics rebuild failed", zap.Error(err))
	}
	if err := s.RebuildPlatformStats(); err != nil {
		logger.Log.Error("stats: platform stats rebuild failed", zap.Error(err))
	}
	if err := s.SnapshotDailyActivity(); err != nil {
		logger.Log.Error("stats: daily activity snapshot failed", zap.Error(err))
	}
}

func (s *StatsService) PlatformStats() (*model.PlatformStats, error) {
	return s.StatsRepo.GetPlatformStats()
}

func (s *StatsService) DailyActivity(days int) ([]model.DailyActivity, error) {
	if days < 1 || days > 90 {
		days = 30
	}
	now := s.Now()
	from := now.AddDate(0, 0, -days)
	return s.StatsRepo.ListDailyActivity(from, now)
}
