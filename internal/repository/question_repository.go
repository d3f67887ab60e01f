package repository

import (
	"exam_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// CreateWithAnswers persists a question and its options atomically.
func (r *QuestionRepository) CreateWithAnswers(q *model.Question, answers []model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].QuestionID = q.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		q.Answers = answers
		return nil
	})
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindAnswer(answerID uint) (*model.Answer, error) {
	var a model.Answer
	err := r.DB.First(&a, answerID).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) ListPublicByCategory(categoryID uint, limit int) ([]model.Question, error) {
	var questions []model.Question
	query := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).Where("status = ? AND is_public = ?", model.QuestionPublic, true)
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("id ASC").Find(&questions).Error
	return questions, err
}

// IncrementAttemptCounters bumps times_attempted (and times_correct when
// answered correctly) atomically, inside the caller's transaction.
func (r *QuestionRepository) IncrementAttemptCounters(tx *gorm.DB, questionID uint, correct bool) error {
	updates := map[string]interface{}{
		"times_attempted": gorm.Expr("times_attempted + 1"),
	}
	if correct {
		updates["times_correct"] = gorm.Expr("times_correct + 1")
	}
	return tx.Model(&model.Question{}).Where("id = ?", questionID).Updates(updates).Error
}

// Delete refuses to remove questions referenced by user answers or mock
// tests: protect, don't cascade.
func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.UserAnswer{}).Where("question_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return gorm.ErrForeignKeyViolated
		}
		if err := tx.Model(&model.MockTestQuestion{}).Where("question_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return gorm.ErrForeignKeyViolated
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

// ListDueForPublication returns questions scheduled to go public on or
// before the given date and still unpublished.
func (r *QuestionRepository) ListDueForPublication(asOf time.Time) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("scheduled_public_date IS NOT NULL AND scheduled_public_date <= ? AND is_public = ?", asOf, false).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) Counts() (total int64, public int64, err error) {
	if err = r.DB.Model(&model.Question{}).Count(&total).Error; err != nil {
		return
	}
	err = r.DB.Model(&model.Question{}).Where("is_public = ?", true).Count(&public).Error
	return
}

// Reports

func (r *QuestionRepository) CreateReport(report *model.QuestionReport) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Model(&model.Question{}).
			Where("id = ?", report.QuestionID).
			Update("reported_count", gorm.Expr("reported_count + 1")).
			Error
	})
}

func (r *QuestionRepository) FindReport(id uint) (*model.QuestionReport, error) {
	var report model.QuestionReport
	err := r.DB.First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *QuestionRepository) UpdateReport(report *model.QuestionReport) error {
	return r.DB.Save(report).Error
}

func (r *QuestionRepository) ListReportsByStatus(status model.ReportStatus, limit int) ([]model.QuestionReport, error) {
	var reports []model.QuestionReport
	query := r.DB.Where("status = ?", status).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reports).Error
	return reports, err
}
