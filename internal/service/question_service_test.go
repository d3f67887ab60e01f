package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"testing"
	"time"
)

func questionInput(categoryID uint) QuestionInput {
	return QuestionInput{
		QuestionTextEN: "Which river is the longest in Nepal?",
		QuestionTextNP: "नेपालको सबैभन्दा लामो नदी कुन हो?",
		CategoryID:     categoryID,
		ConsentGiven:   true,
		Answers: []AnswerInput{
			{AnswerTextEN: "Karnali", AnswerTextNP: "कर्णाली", IsCorrect: true},
			{AnswerTextEN: "Koshi", AnswerTextNP: "कोशी"},
			{AnswerTextEN: "Gandaki", AnswerTextNP: "गण्डकी"},
		},
	}
}

func TestContributeCreatesPendingReview(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Geography")
	user := env.createUser(t, "contributor@example.com")

	fixed := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	env.questions.Now = func() time.Time { return fixed }

	q, err := env.questions.Contribute(user.ID, questionInput(category.ID))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if q.Status != model.QuestionPendingReview || q.IsPublic {
		t.Errorf("contributed question status = %s public = %v, want PENDING_REVIEW and private", q.Status, q.IsPublic)
	}

	contributions, err := env.questions.ListUserContributions(user.ID)
	if err != nil {
		t.Fatalf("ListUserContributions: %v", err)
	}
	if len(contributions) != 1 {
		t.Fatalf("contributions = %d, want 1", len(contributions))
	}
	c := contributions[0]
	if c.Status != model.ContributionPending {
		t.Errorf("contribution status = %s, want PENDING", c.Status)
	}
	if c.ContributionMonth != 8 || c.ContributionYear != 2026 {
		t.Errorf("contribution period = %d/%d, want 8/2026", c.ContributionMonth, c.ContributionYear)
	}
}

func TestContributeRequiresConsent(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Geography")
	user := env.createUser(t, "contributor@example.com")

	in := questionInput(category.ID)
	in.ConsentGiven = false
	if _, err := env.questions.Contribute(user.ID, in); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("error = %v, want validation failure", err)
	}
}

func TestCreateQuestionStaffPath(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Constitution")
	staff := env.createUser(t, "moderator@example.com")

	q, err := env.questions.CreateQuestion(staff.ID, questionInput(category.ID))
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	if q.Status != model.QuestionPublic || !q.IsPublic || !q.IsVerified {
		t.Errorf("staff question status = %s public = %v verified = %v, want immediately public and verified",
			q.Status, q.IsPublic, q.IsVerified)
	}
	if len(q.Answers) != 3 {
		t.Errorf("answers = %d, want 3", len(q.Answers))
	}
}

func TestQuestionInputValidation(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Constitution")
	staff := env.createUser(t, "moderator@example.com")

	tests := []struct {
		name    string
		mutate  func(*QuestionInput)
		wantErr error
	}{
		{
			name: "single option",
			mutate: func(in *QuestionInput) {
				in.Answers = in.Answers[:1]
			},
			wantErr: util.ErrValidation,
		},
		{
			name: "two correct options",
			mutate: func(in *QuestionInput) {
				in.Answers[1].IsCorrect = true
			},
			wantErr: util.ErrValidation,
		},
		{
			name: "unknown category",
			mutate: func(in *QuestionInput) {
				in.CategoryID = 9999
			},
			wantErr: util.ErrNotFound,
		},
		{
			name: "bad difficulty",
			mutate: func(in *QuestionInput) {
				in.DifficultyLevel = "IMPOSSIBLE"
			},
			wantErr: util.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := questionInput(category.ID)
			tt.mutate(&in)
			if _, err := env.questions.CreateQuestion(staff.ID, in); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApproveContributionSchedulesPublication(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Geography")
	user := env.createUser(t, "contributor@example.com")
	reviewer := env.createUser(t, "reviewer@example.com")

	fixed := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	env.questions.Now = func() time.Time { return fixed }

	q, err := env.questions.Contribute(user.ID, questionInput(category.ID))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	contributions, _ := env.questions.ListUserContributions(user.ID)

	c, err := env.questions.ApproveContribution(reviewer.ID, contributions[0].ID)
	if err != nil {
		t.Fatalf("ApproveContribution: %v", err)
	}
	if c.Status != model.ContributionApproved || c.ApprovalDate == nil {
		t.Errorf("contribution status = %s approval = %v, want APPROVED with date", c.Status, c.ApprovalDate)
	}

	q, err = env.questions.GetQuestion(q.ID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.Status != model.QuestionPrivate || !q.IsVerified {
		t.Errorf("question status = %s verified = %v, want PRIVATE and verified", q.Status, q.IsVerified)
	}
	wantDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if q.ScheduledPublicDate == nil || !q.ScheduledPublicDate.Equal(wantDate) {
		t.Errorf("scheduled date = %v, want %v", q.ScheduledPublicDate, wantDate)
	}

	if _, err := env.questions.ApproveContribution(reviewer.ID, c.ID); !errors.Is(err, util.ErrInvalidState) {
		t.Errorf("second approval error = %v, want invalid state", err)
	}

	_, total, err := env.notifier.List(user.ID, true, 1, 10)
	if err != nil {
		t.Fatalf("listing notifications: %v", err)
	}
	if total != 1 {
		t.Errorf("contributor notifications = %d, want 1", total)
	}
}

func TestRejectContribution(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Geography")
	user := env.createUser(t, "contributor@example.com")
	reviewer := env.createUser(t, "reviewer@example.com")

	q, err := env.questions.Contribute(user.ID, questionInput(category.ID))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	contributions, _ := env.questions.ListUserContributions(user.ID)

	c, err := env.questions.RejectContribution(reviewer.ID, contributions[0].ID, "duplicate of an existing question")
	if err != nil {
		t.Fatalf("RejectContribution: %v", err)
	}
	if c.Status != model.ContributionRejected || c.RejectionReason == "" {
		t.Errorf("contribution status = %s reason = %q, want REJECTED with reason", c.Status, c.RejectionReason)
	}

	q, _ = env.questions.GetQuestion(q.ID)
	if q.Status != model.QuestionDraft {
		t.Errorf("question status = %s, want DRAFT", q.Status)
	}
}

func TestProcessScheduledPublications(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Geography")
	user := env.createUser(t, "contributor@example.com")
	reviewer := env.createUser(t, "reviewer@example.com")

	fixed := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	env.questions.Now = func() time.Time { return fixed }

	q, err := env.questions.Contribute(user.ID, questionInput(category.ID))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	contributions, _ := env.questions.ListUserContributions(user.ID)
	if _, err := env.questions.ApproveContribution(reviewer.ID, contributions[0].ID); err != nil {
		t.Fatalf("ApproveContribution: %v", err)
	}

	// still before the scheduled date
	published, err := env.questions.ProcessScheduledPublications()
	if err != nil {
		t.Fatalf("ProcessScheduledPublications: %v", err)
	}
	if published != 0 {
		t.Fatalf("published %d before the scheduled date, want 0", published)
	}

	env.questions.Now = func() time.Time {
		return time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)
	}
	published, err = env.questions.ProcessScheduledPublications()
	if err != nil {
		t.Fatalf("ProcessScheduledPublications: %v", err)
	}
	if published != 1 {
		t.Fatalf("published = %d, want 1", published)
	}

	q, _ = env.questions.GetQuestion(q.ID)
	if q.Status != model.QuestionPublic || !q.IsPublic {
		t.Errorf("question status = %s public = %v, want PUBLIC", q.Status, q.IsPublic)
	}
	contributions, _ = env.questions.ListUserContributions(user.ID)
	if contributions[0].Status != model.ContributionMadePublic || contributions[0].PublicDate == nil {
		t.Errorf("contribution status = %s, want MADE_PUBLIC with public date", contributions[0].Status)
	}

	// rerun finds nothing left to publish
	published, err = env.questions.ProcessScheduledPublications()
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if published != 0 {
		t.Errorf("rerun published = %d, want 0", published)
	}
}

func TestDeleteQuestionProtection(t *testing.T) {
	env := newTestEnv(t)
	branch := env.createBranch(t, "Nayab Subba")
	category := env.createCategory(t, "Geography")
	referenced := env.createQuestion(t, category.ID, 0)
	env.createMockTest(t, branch.ID, 10, referenced)

	if err := env.questions.DeleteQuestion(referenced.ID); !errors.Is(err, util.ErrQuestionProtected) {
		t.Fatalf("delete of referenced question error = %v, want protected", err)
	}

	free := env.createQuestion(t, category.ID, 0)
	if err := env.questions.DeleteQuestion(free.ID); err != nil {
		t.Fatalf("delete of unreferenced question: %v", err)
	}
	if _, err := env.questions.GetQuestion(free.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("deleted question still readable, error = %v", err)
	}
}

func TestReportLifecycle(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Geography")
	q := env.createQuestion(t, category.ID, 0)
	reporter := env.createUser(t, "reporter@example.com")
	reviewer := env.createUser(t, "reviewer@example.com")

	if _, err := env.questions.ReportQuestion(reporter.ID, q.ID, ReportInput{Reason: "NONSENSE"}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("unknown reason error = %v, want validation failure", err)
	}

	report, err := env.questions.ReportQuestion(reporter.ID, q.ID, ReportInput{
		Reason:      string(model.ReportIncorrectAnswer),
		Description: "option A is not the capital",
	})
	if err != nil {
		t.Fatalf("ReportQuestion: %v", err)
	}
	if report.Status != model.ReportPending {
		t.Errorf("new report status = %s, want PENDING", report.Status)
	}

	pending, err := env.questions.ListPendingReports(10)
	if err != nil {
		t.Fatalf("ListPendingReports: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending reports = %d, want 1", len(pending))
	}

	resolved, err := env.questions.ResolveReport(reviewer.ID, report.ID, true, "fixed the answer key")
	if err != nil {
		t.Fatalf("ResolveReport: %v", err)
	}
	if resolved.Status != model.ReportResolved || resolved.ResolvedAt == nil || resolved.AdminNotes == "" {
		t.Errorf("resolved report = %+v, want RESOLVED with notes and timestamp", resolved)
	}

	if _, err := env.questions.ResolveReport(reviewer.ID, report.ID, false, ""); !errors.Is(err, util.ErrInvalidState) {
		t.Errorf("re-resolving error = %v, want invalid state", err)
	}
}
