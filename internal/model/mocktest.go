package model

import "gorm.io/gorm"

type MockTestType string

const (
	TestOfficial  MockTestType = "OFFICIAL"
	TestCommunity MockTestType = "COMMUNITY"
	TestCustom    MockTestType = "CUSTOM"
)

// MockTest is a fixed, ordered, marked set of questions.
// swagger:model MockTest
type MockTest struct {
	BaseModel
	TitleEN         string       `gorm:"size:255;not null" json:"titleEn"`
	TitleNP         string       `gorm:"size:255;not null" json:"titleNp"`
	Slug            string       `gorm:"size:255;uniqueIndex" json:"slug"`
	DescriptionEN   string       `gorm:"type:text" json:"descriptionEn,omitempty"`
	DescriptionNP   string       `gorm:"type:text" json:"descriptionNp,omitempty"`
	TestType        MockTestType `gorm:"size:20;default:'COMMUNITY'" json:"testType"`
	BranchID        uint         `gorm:"index;not null" json:"branchId"`
	SubBranchID     *uint        `gorm:"index" json:"subBranchId,omitempty"`
	TotalQuestions  int          `gorm:"not null" json:"totalQuestions"`
	DurationMinutes *int         `json:"durationMinutes,omitempty"`
	PassPercentage  float64      `gorm:"default:40" json:"passPercentage"`
	CreatedByID     *uint        `gorm:"index" json:"createdById,omitempty"`
	IsPublic        bool         `gorm:"default:true" json:"isPublic"`
	IsActive        bool         `gorm:"default:true" json:"isActive"`
	AttemptCount    int          `gorm:"default:0" json:"attemptCount"`

	Questions []MockTestQuestion `gorm:"foreignKey:MockTestID" json:"questions,omitempty"`
}

func (MockTest) TableName() string {
	return "mock_tests"
}

func (m *MockTest) BeforeCreate(tx *gorm.DB) error {
	if m.Slug == "" {
		m.Slug = Slugify(m.TitleEN)
	}
	return nil
}

// MockTestQuestion links a question into a test with its position and marks.
// swagger:model MockTestQuestion
type MockTestQuestion struct {
	BaseModel
	MockTestID     uint    `gorm:"not null;uniqueIndex:idx_test_question;uniqueIndex:idx_test_order" json:"mockTestId"`
	QuestionID     uint    `gorm:"index;not null;uniqueIndex:idx_test_question" json:"questionId"`
	QuestionOrder  int     `gorm:"not null;uniqueIndex:idx_test_order" json:"questionOrder"`
	MarksAllocated float64 `gorm:"default:1" json:"marksAllocated"`
}

func (MockTestQuestion) TableName() string {
	return "mock_test_questions"
}
