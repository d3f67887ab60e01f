package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
)

// Correctness is the verdict for a single answered or skipped question.
type Correctness int

const (
	Skipped Correctness = iota
	Correct
	Incorrect
)

// EvaluateAnswer judges a selection against a question's option set.
//
// A nil selection is a skip. A selection that does not belong to the
// question is rejected outright: answers must never leak across questions.
// A question whose options carry no correct flag is a data-integrity wart
// the evaluator tolerates: every selection is simply incorrect, a correct
// option is never invented.
func EvaluateAnswer(questionID uint, selected *model.Answer) (Correctness, error) {
	if selected == nil {
		return Skipped, nil
	}
	if selected.QuestionID != questionID {
		return Incorrect, util.ErrAnswerCrossQuestion
	}
	if selected.IsCorrect {
		return Correct, nil
	}
	return Incorrect, nil
}
