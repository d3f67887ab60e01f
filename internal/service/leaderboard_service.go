package service

import (
	"context"
	"encoding/json"
	"errors"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"
	"exam_prep_backend/pkg/monitoring"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaderboardService rebuilds ranking partitions from completed mock-test
// attempts. A partition is one (time period, branch, sub-branch) slice; each
// rebuild recomputes it from source data and swaps the rows wholesale, so
// running it twice over the same data is a no-op.
type LeaderboardService struct {
	LeaderboardRepo *repository.LeaderboardRepository
	AttemptRepo     *repository.AttemptRepository
	MockTestRepo    *repository.MockTestRepository
	Redis           *redis.Client
	Notifier        *NotificationService
	Config          *config.Config

	// Now is swappable for tests.
	Now func() time.Time

	mu         sync.Mutex
	rebuilding map[string]bool
}

func NewLeaderboardService(
	leaderboardRepo *repository.LeaderboardRepository,
	attemptRepo *repository.AttemptRepository,
	mockTestRepo *repository.MockTestRepository,
	redisClient *redis.Client,
	notifier *NotificationService,
	cfg *config.Config,
) *LeaderboardService {
	return &LeaderboardService{
		LeaderboardRepo: leaderboardRepo,
		AttemptRepo:     attemptRepo,
		MockTestRepo:    mockTestRepo,
		Redis:           redisClient,
		Notifier:        notifier,
		Config:          cfg,
		Now:             time.Now,
		rebuilding:      make(map[string]bool),
	}
}

func partitionKey(period model.TimePeriod, branchID uint, subBranchID *uint) string {
	if subBranchID == nil {
		return fmt.Sprintf("%s:%d:-", period, branchID)
	}
	return fmt.Sprintf("%s:%d:%d", period, branchID, *subBranchID)
}

// tryAcquire marks a partition as rebuilding. Overlapping rebuilds of the
// same partition are rejected rather than queued.
func (s *LeaderboardService) tryAcquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rebuilding[key] {
		return false
	}
	s.rebuilding[key] = true
	return true
}

func (s *LeaderboardService) release(key string) {
	s.mu.Lock()
	delete(s.rebuilding, key)
	s.mu.Unlock()
}

// windowFor maps a period to its [from, to) completion-time bounds.
// WEEKLY is a trailing 7 days, MONTHLY the current calendar month,
// ALL_TIME unbounded.
func (s *LeaderboardService) windowFor(period model.TimePeriod) (*time.Time, *time.Time) {
	now := s.Now()
	switch period {
	case model.PeriodWeekly:
		from := now.AddDate(0, 0, -7)
		return &from, &now
	case model.PeriodMonthly:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &from, &now
	default:
		return nil, nil
	}
}

type userAggregate struct {
	userID         uint
	totalScore     float64
	testsCompleted int
	answered       int64
	correct        int64
	timeSeconds    float64
	timedTests     int
}

func (a userAggregate) accuracy() float64 {
	if a.answered == 0 {
		return 0
	}
	return float64(a.correct) / float64(a.answered) * 100
}

func (a userAggregate) averageTime() float64 {
	if a.timedTests == 0 {
		return 0
	}
	return a.timeSeconds / float64(a.timedTests)
}

// ranksBefore compares two aggregates for leaderboard order: higher score
// first, then higher accuracy, then faster average completion, then the
// older account (lower id) as the final deterministic break.
func ranksBefore(a, b userAggregate) bool {
	if a.totalScore != b.totalScore {
		return a.totalScore > b.totalScore
	}
	if a.accuracy() != b.accuracy() {
		return a.accuracy() > b.accuracy()
	}
	if a.averageTime() != b.averageTime() {
		return a.averageTime() < b.averageTime()
	}
	return a.userID < b.userID
}

func sameRank(a, b userAggregate) bool {
	return a.totalScore == b.totalScore &&
		a.accuracy() == b.accuracy() &&
		a.averageTime() == b.averageTime()
}

// RecalculatePartition rebuilds one partition from completed attempts and
// replaces its stored rows. Returns ErrPartitionBusy when a rebuild of the
// same partition is already running.
func (s *LeaderboardService) RecalculatePartition(period model.TimePeriod, branchID uint, subBranchID *uint) ([]model.LeaderboardEntry, error) {
	if period != model.PeriodWeekly && period != model.PeriodMonthly && period != model.PeriodAllTime {
		return nil, util.ErrInvalidPeriod
	}

	key := partitionKey(period, branchID, subBranchID)
	if !s.tryAcquire(key) {
		return nil, util.ErrPartitionBusy
	}
	defer s.release(key)

	start := time.Now()
	defer func() {
		monitoring.LeaderboardRecalcDuration.WithLabelValues(string(period)).Observe(time.Since(start).Seconds())
	}()

	previous, err := s.LeaderboardRepo.GetPartition(period, branchID, subBranchID)
	if err != nil {
		return nil, err
	}
	previousRanks := make(map[uint]int, len(previous))
	for _, entry := range previous {
		previousRanks[entry.UserID] = entry.Rank
	}

	from, to := s.windowFor(period)
	attempts, err := s.AttemptRepo.ListCompletedInWindow(branchID, subBranchID, from, to)
	if err != nil {
		return nil, err
	}

	attemptIDs := make([]uint, len(attempts))
	for i, a := range attempts {
		attemptIDs[i] = a.ID
	}
	counts, err := s.AttemptRepo.CountAnswersByAttempt(attemptIDs)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*userAggregate)
	for _, a := range attempts {
		agg, ok := byUser[a.UserID]
		if !ok {
			agg = &userAggregate{userID: a.UserID}
			byUser[a.UserID] = agg
		}
		agg.totalScore += a.ScoreObtained
		agg.testsCompleted++
		if c, ok := counts[a.ID]; ok {
			agg.answered += c.Answered
			agg.correct += c.Correct
		}
		if a.TotalTimeTaken != nil {
			agg.timeSeconds += float64(*a.TotalTimeTaken)
			agg.timedTests++
		}
	}

	aggregates := make([]userAggregate, 0, len(byUser))
	for _, agg := range byUser {
		aggregates = append(aggregates, *agg)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return ranksBefore(aggregates[i], aggregates[j])
	})

	entries := make([]model.LeaderboardEntry, len(aggregates))
	rank := 0
	for i, agg := range aggregates {
		if i == 0 || !sameRank(aggregates[i-1], agg) {
			rank++
		}
		entries[i] = model.LeaderboardEntry{
			UserID:             agg.userID,
			TimePeriod:         period,
			BranchID:           branchID,
			SubBranchID:        subBranchID,
			Rank:               rank,
			TotalScore:         agg.totalScore,
			TestsCompleted:     agg.testsCompleted,
			AccuracyPercentage: agg.accuracy(),
			AverageTimeSeconds: agg.averageTime(),
		}
	}

	if err := s.LeaderboardRepo.ReplacePartition(period, branchID, subBranchID, entries); err != nil {
		return nil, err
	}

	s.invalidateCache(period, branchID, subBranchID)
	s.emitChanges(period, branchID, subBranchID, previousRanks, entries)
	return entries, nil
}

// RecalculateAll walks every partition with public tests across all three
// periods. Partition failures are logged and skipped so one bad slice does
// not stall the rest.
func (s *LeaderboardService) RecalculateAll() {
	partitions, err := s.MockTestRepo.ListActiveBranches()
	if err != nil {
		logger.Log.Error("leaderboard: listing partitions failed", zap.Error(err))
		return
	}

	periods := []model.TimePeriod{model.PeriodWeekly, model.PeriodMonthly, model.PeriodAllTime}
	for _, p := range partitions {
		for _, period := range periods {
			if _, err := s.RecalculatePartition(period, p.BranchID, p.SubBranchID); err != nil {
				if errors.Is(err, util.ErrPartitionBusy) {
					continue
				}
				logger.Log.Error("leaderboard: partition rebuild failed",
					zap.String("period", string(period)),
					zap.Uint("branchId", p.BranchID),
					zap.Error(err))
			}
		}
	}
}

func (s *LeaderboardService) emitChanges(period model.TimePeriod, branchID uint, subBranchID *uint, previous map[uint]int, entries []model.LeaderboardEntry) {
	if s.Notifier == nil {
		return
	}
	var changes []RankChange
	for _, entry := range entries {
		if prev := previous[entry.UserID]; prev != entry.Rank {
			changes = append(changes, RankChange{
				UserID:       entry.UserID,
				PreviousRank: prev,
				NewRank:      entry.Rank,
			})
		}
	}
	if len(changes) == 0 {
		return
	}
	s.Notifier.EmitLeaderboardUpdated(LeaderboardUpdatedEvent{
		EventID:     uuid.New().String(),
		TimePeriod:  period,
		BranchID:    branchID,
		SubBranchID: subBranchID,
		Changes:     changes,
	})
}

func (s *LeaderboardService) cacheKey(period model.TimePeriod, branchID uint, subBranchID *uint) string {
	return "leaderboard:top:" + partitionKey(period, branchID, subBranchID)
}

func (s *LeaderboardService) invalidateCache(period model.TimePeriod, branchID uint, subBranchID *uint) {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Redis.Del(ctx, s.cacheKey(period, branchID, subBranchID)).Err(); err != nil {
		logger.Log.Warn("leaderboard: cache invalidation failed", zap.Error(err))
	}
}

// Top returns the highest-ranked entries of a partition, serving from the
// Redis cache when it is warm.
func (s *LeaderboardService) Top(period model.TimePeriod, branchID uint, subBranchID *uint, limit int) ([]model.LeaderboardEntry, error) {
	if period != model.PeriodWeekly && period != model.PeriodMonthly && period != model.PeriodAllTime {
		return nil, util.ErrInvalidPeriod
	}
	if limit < 1 || limit > s.Config.Leaderboard.TopLimit {
		limit = s.Config.Leaderboard.TopLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := s.cacheKey(period, branchID, subBranchID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var entries []model.LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				if len(entries) > limit {
					entries = entries[:limit]
				}
				return entries, nil
			}
		}
	}

	entries, err := s.LeaderboardRepo.Top(period, branchID, subBranchID, s.Config.Leaderboard.TopLimit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			ttl := time.Duration(s.Config.Leaderboard.CacheTTLSeconds) * time.Second
			if err := s.Redis.Set(ctx, key, payload, ttl).Err(); err != nil {
				logger.Log.Warn("leaderboard: cache write failed", zap.Error(err))
			}
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// UserRank looks up one user's entry in a partition; absence means the user
// has no completed attempts inside the window.
func (s *LeaderboardService) UserRank(userID uint, period model.TimePeriod, branchID uint, subBranchID *uint) (*model.LeaderboardEntry, error) {
	if period != model.PeriodWeekly && period != model.PeriodMonthly && period != model.PeriodAllTime {
		return nil, util.ErrInvalidPeriod
	}
	entry, err := s.LeaderboardRepo.FindUserEntry(userID, period, branchID, subBranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no leaderboard entry for user", util.ErrNotFound)
		}
		return nil, err
	}
	return entry, nil
}
