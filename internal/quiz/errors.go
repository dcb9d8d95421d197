package quiz

import "errors"

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAlreadyCompleted = errors.New("attempt already completed")
)
