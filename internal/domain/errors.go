package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateVote  = errors.New("duplicate vote")
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrCommentIDTaken means another writer claimed the comment id first.
	ErrCommentIDTaken = errors.New("comment id taken")
)

var (
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	ErrVoteNotFound    = fmt.Errorf("vote %w", ErrNotFound)

	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrUnauthorized)

	ErrInvalidDirection = fmt.Errorf("%w: vote must be up or down", ErrInvalidInput)
	ErrEmptyComment     = fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
)

// InputError is rejected input with a message fit for the client.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return ErrInvalidInput }
