package util

import (
	"errors"
	"fmt"
)

// Base error classes. Domain sentinels below wrap exactly one of these so
// controllers can map any service error to an HTTP status with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmailRegistered     = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrPermissionDenied    = errors.New("permission denied")
	ErrQuestionNotFound    = fmt.Errorf("%w: question not found", ErrNotFound)
	ErrAnswerNotFound      = fmt.Errorf("%w: answer not found", ErrNotFound)
	ErrMockTestNotFound    = fmt.Errorf("%w: mock test not found", ErrNotFound)
	ErrAttemptNotFound     = fmt.Errorf("%w: attempt not found", ErrNotFound)
	ErrQuestionNotInSet    = fmt.Errorf("%w: question is not part of this attempt", ErrNotFound)
	ErrAnswerCrossQuestion = fmt.Errorf("%w: answer does not belong to question", ErrValidation)
	ErrAttemptNotActive    = fmt.Errorf("%w: attempt is not in progress", ErrInvalidState)
	ErrAttemptInProgress   = fmt.Errorf("%w: an in-progress attempt already exists for this test", ErrInvalidState)
	ErrQuestionProtected   = fmt.Errorf("%w: question is referenced by attempts or tests", ErrInvalidState)
	ErrPartitionBusy       = fmt.Errorf("%w: leaderboard partition is being recalculated", ErrConflict)
	ErrInvalidPeriod       = fmt.Errorf("%w: unknown leaderboard period", ErrValidation)
	ErrContributionExists  = fmt.Errorf("%w: contribution already recorded for this question", ErrConflict)
)
