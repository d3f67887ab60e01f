package service

import (
	"errors"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"testing"
)

func TestEvaluateAnswer(t *testing.T) {
	tests := []struct {
		name     string
		selected *model.Answer
		want     Correctness
		wantErr  error
	}{
		{
			name:     "nil selection is a skip",
			selected: nil,
			want:     Skipped,
		},
		{
			name:     "correct option",
			selected: &model.Answer{QuestionID: 7, IsCorrect: true},
			want:     Correct,
		},
		{
			name:     "incorrect option",
			selected: &model.Answer{QuestionID: 7, IsCorrect: false},
			want:     Incorrect,
		},
		{
			name:     "option from another question",
			selected: &model.Answer{QuestionID: 8, IsCorrect: true},
			wantErr:  util.ErrAnswerCrossQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateAnswer(7, tt.selected)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EvaluateAnswer() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, util.ErrValidation) {
					t.Fatalf("cross-question error should be a validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EvaluateAnswer() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("EvaluateAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateAnswerNoCorrectOption(t *testing.T) {
	// A question without a flagged correct option still evaluates: every
	// selection is incorrect, never an error.
	got, err := EvaluateAnswer(3, &model.Answer{QuestionID: 3, IsCorrect: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Incorrect {
		t.Fatalf("got %v, want Incorrect", got)
	}
}
