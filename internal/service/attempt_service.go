package service

import (
	"errors"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/monitoring"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle:
//
//	IN_PROGRESS --Complete--> COMPLETED
//	IN_PROGRESS --Abandon---> ABANDONED
//
// Both end states are terminal. Writes to one attempt are serialized
// through a per-attempt lock so score recomputation is never read
// mid-write; different attempts proceed independently.
type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	QuestionRepo *repository.QuestionRepository
	MockTestRepo *repository.MockTestRepository
	Notifier     *NotificationService
	Config       *config.Config

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	questionRepo *repository.QuestionRepository,
	mockTestRepo *repository.MockTestRepository,
	notifier *NotificationService,
	cfg *config.Config,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		QuestionRepo: questionRepo,
		MockTestRepo: mockTestRepo,
		Notifier:     notifier,
		Config:       cfg,
		locks:        make(map[uint]*sync.Mutex),
	}
}

func (s *AttemptService) lockAttempt(attemptID uint) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.locks[attemptID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[attemptID] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock
}

// releaseLock drops the map entry once an attempt reaches a terminal
// state; terminal attempts reject all writes anyway.
func (s *AttemptService) releaseLock(attemptID uint, lock *sync.Mutex, terminal bool) {
	if terminal {
		s.mu.Lock()
		delete(s.locks, attemptID)
		s.mu.Unlock()
	}
	lock.Unlock()
}

type StartAttemptRequest struct {
	MockTestID  *uint  `json:"mockTestId"`
	QuestionIDs []uint `json:"questionIds"` // practice mode only
}

// StartAttempt opens a session. Mock-test mode takes the test's question
// set and per-question marks; practice mode takes an explicit question
// list at one mark each. total_score is fixed here and never changes.
func (s *AttemptService) StartAttempt(userID uint, req StartAttemptRequest) (*model.UserAttempt, error) {
	var (
		mode    model.AttemptMode
		answers []model.UserAnswer
		total   float64
	)

	if req.MockTestID != nil {
		test, err := s.MockTestRepo.FindByID(*req.MockTestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrMockTestNotFound
			}
			return nil, err
		}
		if !test.IsActive || !test.IsPublic {
			return nil, util.ErrMockTestNotFound
		}
		if len(test.Questions) == 0 {
			return nil, fmt.Errorf("%w: mock test has no questions", util.ErrValidation)
		}

		if !s.Config.Attempt.AllowParallel {
			inProgress, err := s.AttemptRepo.HasInProgress(userID, req.MockTestID)
			if err != nil {
				return nil, err
			}
			if inProgress {
				return nil, util.ErrAttemptInProgress
			}
		}

		mode = model.ModeMockTest
		for _, tq := range test.Questions {
			answers = append(answers, model.UserAnswer{
				QuestionID:     tq.QuestionID,
				MarksAllocated: tq.MarksAllocated,
				IsSkipped:      true,
			})
			total += tq.MarksAllocated
		}
	} else {
		if len(req.QuestionIDs) == 0 {
			return nil, fmt.Errorf("%w: practice attempt needs at least one question", util.ErrValidation)
		}
		seen := make(map[uint]bool, len(req.QuestionIDs))
		for _, id := range req.QuestionIDs {
			if seen[id] {
				return nil, fmt.Errorf("%w: duplicate question %d", util.ErrValidation, id)
			}
			seen[id] = true
		}

		questions, err := s.QuestionRepo.FindByIDs(req.QuestionIDs)
		if err != nil {
			return nil, err
		}
		available := make(map[uint]bool, len(questions))
		for _, q := range questions {
			if q.Status == model.QuestionPublic && q.IsPublic {
				available[q.ID] = true
			}
		}
		for _, id := range req.QuestionIDs {
			if !available[id] {
				return nil, util.ErrQuestionNotFound
			}
		}

		mode = model.ModePractice
		for _, id := range req.QuestionIDs {
			answers = append(answers, model.UserAnswer{
				QuestionID:     id,
				MarksAllocated: 1,
				IsSkipped:      true,
			})
			total += 1
		}
	}

	attempt := &model.UserAttempt{
		UserID:     userID,
		MockTestID: req.MockTestID,
		StartTime:  time.Now(),
		TotalScore: total,
		Status:     model.AttemptInProgress,
		Mode:       mode,
	}
	if err := s.AttemptRepo.CreateWithAnswers(attempt, answers); err != nil {
		return nil, err
	}
	attempt.Answers = answers
	return attempt, nil
}

type SubmitAnswerRequest struct {
	SelectedAnswerID  *uint `json:"selectedAnswerId"` // nil clears the selection (skip)
	TimeTakenSeconds  *int  `json:"timeTakenSeconds"`
	IsMarkedForReview *bool `json:"isMarkedForReview"`
}

// SubmitAnswer records or replaces the response for one question of an
// in-progress attempt. Correctness is derived, never taken from the
// client, and the attempt score is recomputed from scratch so edits can
// only ever move it to the value implied by the current answers.
func (s *AttemptService) SubmitAnswer(userID, attemptID, questionID uint, req SubmitAnswerRequest) (*model.UserAnswer, error) {
	lock := s.lockAttempt(attemptID)
	defer s.releaseLock(attemptID, lock, false)

	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptNotActive
	}

	answer, err := s.AttemptRepo.FindAnswer(attemptID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotInSet
		}
		return nil, err
	}

	var selected *model.Answer
	if req.SelectedAnswerID != nil {
		selected, err = s.QuestionRepo.FindAnswer(*req.SelectedAnswerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrAnswerNotFound
			}
			return nil, err
		}
	}

	verdict, err := EvaluateAnswer(questionID, selected)
	if err != nil {
		return nil, err
	}

	answer.SelectedAnswerID = req.SelectedAnswerID
	answer.IsCorrect = verdict == Correct
	answer.IsSkipped = verdict == Skipped
	if req.TimeTakenSeconds != nil {
		answer.TimeTakenSeconds = req.TimeTakenSeconds
	}
	if req.IsMarkedForReview != nil {
		answer.IsMarkedForReview = *req.IsMarkedForReview
	}

	err = s.AttemptRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.AttemptRepo.SaveAnswer(tx, answer); err != nil {
			return err
		}
		sum, err := s.AttemptRepo.SumCorrectMarks(tx, attemptID)
		if err != nil {
			return err
		}
		attempt.ScoreObtained = sum
		return s.AttemptRepo.Save(tx, attempt)
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// CompleteAttempt finalizes an in-progress attempt: percentage and end
// time are set exactly once, and each answered question's counters are
// bumped exactly once. A second completion fails instead of re-counting.
func (s *AttemptService) CompleteAttempt(userID, attemptID uint) (*model.UserAttempt, error) {
	lock := s.lockAttempt(attemptID)
	completed := false
	defer func() { s.releaseLock(attemptID, lock, completed) }()

	var attempt model.UserAttempt
	err := s.AttemptRepo.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&attempt, attemptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrAttemptNotFound
			}
			return err
		}
		if attempt.UserID != userID {
			return util.ErrAttemptNotFound
		}
		if attempt.Status != model.AttemptInProgress {
			return util.ErrAttemptNotActive
		}

		sum, err := s.AttemptRepo.SumCorrectMarks(tx, attemptID)
		if err != nil {
			return err
		}

		now := time.Now()
		taken := int(now.Sub(attempt.StartTime).Seconds())
		percentage := 0.0
		if attempt.TotalScore > 0 {
			percentage = sum / attempt.TotalScore * 100
		}

		attempt.ScoreObtained = sum
		attempt.EndTime = &now
		attempt.TotalTimeTaken = &taken
		attempt.Percentage = &percentage
		attempt.Status = model.AttemptCompleted

		if err := s.AttemptRepo.Save(tx, &attempt); err != nil {
			return err
		}

		var answers []model.UserAnswer
		if err := tx.Where("user_attempt_id = ?", attemptID).Find(&answers).Error; err != nil {
			return err
		}
		for _, a := range answers {
			if a.IsSkipped {
				continue
			}
			if err := s.QuestionRepo.IncrementAttemptCounters(tx, a.QuestionID, a.IsCorrect); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	completed = true

	monitoring.AttemptsCompleted.Inc()
	if s.Notifier != nil {
		s.Notifier.EmitAttemptCompleted(AttemptCompletedEvent{
			EventID:    uuid.New().String(),
			UserID:     attempt.UserID,
			AttemptID:  attempt.ID,
			MockTestID: attempt.MockTestID,
			Score:      attempt.ScoreObtained,
			TotalScore: attempt.TotalScore,
			Percentage: *attempt.Percentage,
		})
	}
	return &attempt, nil
}

// AbandonAttempt closes a session without finalizing results: the score
// stays at its last computed value and no percentage or question counters
// are written.
func (s *AttemptService) AbandonAttempt(userID, attemptID uint) (*model.UserAttempt, error) {
	lock := s.lockAttempt(attemptID)
	abandoned := false
	defer func() { s.releaseLock(attemptID, lock, abandoned) }()

	var attempt model.UserAttempt
	err := s.AttemptRepo.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&attempt, attemptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrAttemptNotFound
			}
			return err
		}
		if attempt.UserID != userID {
			return util.ErrAttemptNotFound
		}
		if attempt.Status != model.AttemptInProgress {
			return util.ErrAttemptNotActive
		}

		now := time.Now()
		attempt.EndTime = &now
		attempt.Status = model.AttemptAbandoned
		return s.AttemptRepo.Save(tx, &attempt)
	})
	if err != nil {
		return nil, err
	}
	abandoned = true
	return &attempt, nil
}

func (s *AttemptService) GetAttempt(userID, attemptID uint) (*model.UserAttempt, error) {
	attempt, err := s.AttemptRepo.FindWithAnswers(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptService) ListAttempts(userID uint, page, limit int) ([]model.UserAttempt, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.AttemptRepo.ListByUser(userID, page, limit)
}
