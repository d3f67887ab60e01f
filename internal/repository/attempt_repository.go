package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithAnswers persists the attempt and its skeleton answer rows (one
// per question in the set, all skipped) in a single transaction.
func (r *AttemptRepository) CreateWithAnswers(attempt *model.UserAttempt, answers []model.UserAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].UserAttemptID = attempt.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		if attempt.MockTestID != nil {
			if err := tx.Model(&model.MockTest{}).
				Where("id = ?", *attempt.MockTestID).
				Update("attempt_count", gorm.Expr("attempt_count + 1")).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AttemptRepository) FindByID(id uint) (*model.UserAttempt, error) {
	var attempt model.UserAttempt
	err := r.DB.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindWithAnswers(id uint) (*model.UserAttempt, error) {
	var attempt model.UserAttempt
	err := r.DB.Preload("Answers").First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindAnswer(attemptID, questionID uint) (*model.UserAnswer, error) {
	var answer model.UserAnswer
	err := r.DB.Where("user_attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AttemptRepository) ListAnswers(attemptID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.DB.Where("user_attempt_id = ?", attemptID).Order("question_id ASC").Find(&answers).Error
	return answers, err
}

func (r *AttemptRepository) HasInProgress(userID uint, mockTestID *uint) (bool, error) {
	query := r.DB.Model(&model.UserAttempt{}).
		Where("user_id = ? AND status = ?", userID, model.AttemptInProgress)
	if mockTestID == nil {
		query = query.Where("mock_test_id IS NULL")
	} else {
		query = query.Where("mock_test_id = ?", *mockTestID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// SaveAnswer writes the full (attempt, question) row. Save updates every
// column, so a cleared selection persists as NULL instead of being skipped
// as a zero value.
func (r *AttemptRepository) SaveAnswer(tx *gorm.DB, answer *model.UserAnswer) error {
	return tx.Save(answer).Error
}

// SumCorrectMarks recomputes the attempt score from scratch: the sum of
// allocated marks over currently-correct answers.
func (r *AttemptRepository) SumCorrectMarks(tx *gorm.DB, attemptID uint) (float64, error) {
	var sum float64
	err := tx.Model(&model.UserAnswer{}).
		Where("user_attempt_id = ? AND is_correct = ?", attemptID, true).
		Select("COALESCE(SUM(marks_allocated), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *AttemptRepository) Save(tx *gorm.DB, attempt *model.UserAttempt) error {
	return tx.Save(attempt).Error
}

func (r *AttemptRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}

// DeleteWithAnswers removes an attempt and, with it, every answer it owns.
func (r *AttemptRepository) DeleteWithAnswers(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_attempt_id = ?", id).Delete(&model.UserAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.UserAttempt{}, id).Error
	})
}

func (r *AttemptRepository) ListByUser(userID uint, page, limit int) ([]model.UserAttempt, int64, error) {
	var attempts []model.UserAttempt
	var total int64

	query := r.DB.Model(&model.UserAttempt{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

// ListCompletedInWindow returns completed mock-test attempts for a branch
// (and optional sub-branch) whose completion time falls inside [from, to).
// Nil bounds leave that side unbounded.
func (r *AttemptRepository) ListCompletedInWindow(branchID uint, subBranchID *uint, from, to *time.Time) ([]model.UserAttempt, error) {
	var attempts []model.UserAttempt
	query := r.DB.
		Joins("JOIN mock_tests ON mock_tests.id = user_attempts.mock_test_id").
		Where("user_attempts.status = ?", model.AttemptCompleted).
		Where("mock_tests.branch_id = ?", branchID)
	if subBranchID != nil {
		query = query.Where("mock_tests.sub_branch_id = ?", *subBranchID)
	}
	if from != nil {
		query = query.Where("user_attempts.end_time >= ?", *from)
	}
	if to != nil {
		query = query.Where("user_attempts.end_time < ?", *to)
	}
	err := query.Order("user_attempts.id ASC").Find(&attempts).Error
	return attempts, err
}

// AnswerCounts holds per-attempt answered/correct tallies.
type AnswerCounts struct {
	UserAttemptID uint
	Answered      int64
	Correct       int64
}

func (r *AttemptRepository) CountAnswersByAttempt(attemptIDs []uint) (map[uint]AnswerCounts, error) {
	result := make(map[uint]AnswerCounts, len(attemptIDs))
	if len(attemptIDs) == 0 {
		return result, nil
	}

	var rows []AnswerCounts
	err := r.DB.Model(&model.UserAnswer{}).
		Select("user_attempt_id, COUNT(CASE WHEN is_skipped = ? THEN 1 END) AS answered, COUNT(CASE WHEN is_correct = ? THEN 1 END) AS correct", false, true).
		Where("user_attempt_id IN ?", attemptIDs).
		Group("user_attempt_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserAttemptID] = row
	}
	return result, nil
}

func (r *AttemptRepository) CountStartedSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAttempt{}).Where("start_time >= ?", since).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAttempt{}).Where("status = ?", model.AttemptCompleted).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountAnswersSubmitted(since *time.Time) (int64, error) {
	query := r.DB.Model(&model.UserAnswer{}).Where("is_skipped = ?", false)
	if since != nil {
		query = query.Where("updated_at >= ?", *since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountActiveUsersSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAttempt{}).
		Where("start_time >= ?", since).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// CompletedStatsByUser aggregates completed attempts per user for the
// statistics rebuild.
type CompletedStats struct {
	UserID         uint
	TestsCompleted int64
}

func (r *AttemptRepository) CompletedCountsByUser() (map[uint]int64, error) {
	var rows []CompletedStats
	err := r.DB.Model(&model.UserAttempt{}).
		Select("user_id, COUNT(*) AS tests_completed").
		Where("status = ? AND mock_test_id IS NOT NULL", model.AttemptCompleted).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uint]int64, len(rows))
	for _, row := range rows {
		result[row.UserID] = row.TestsCompleted
	}
	return result, nil
}

// AnswerTotalsByUser aggregates answered/correct counts across all of a
// user's attempts (practice included).
func (r *AttemptRepository) AnswerTotalsByUser() (map[uint]AnswerCounts, error) {
	var rows []struct {
		UserID   uint
		Answered int64
		Correct  int64
	}
	err := r.DB.Model(&model.UserAnswer{}).
		Select("user_attempts.user_id AS user_id, COUNT(CASE WHEN user_answers.is_skipped = ? THEN 1 END) AS answered, COUNT(CASE WHEN user_answers.is_correct = ? THEN 1 END) AS correct", false, true).
		Joins("JOIN user_attempts ON user_attempts.id = user_answers.user_attempt_id").
		Group("user_attempts.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uint]AnswerCounts, len(rows))
	for _, row := range rows {
		result[row.UserID] = AnswerCounts{Answered: row.Answered, Correct: row.Correct}
	}
	return result, nil
}
