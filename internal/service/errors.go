package service

import "errors"

// Sentinel errors for the failure taxonomy. Controllers translate these into
// HTTP status codes; nothing below the handler boundary writes responses.
var (
	ErrTrackNotFound       = errors.New("track not found")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrDuplicateChallenge  = errors.New("duplicate challenge detected - this challenge already exists in the database")
	ErrDuplicateBlocked    = errors.New("challenge is labeled a duplicate and cannot be published")
	ErrPublishDateRequired = errors.New("published challenges require a date")
	ErrEmptySubmission     = errors.New("submission text must not be empty")
	ErrRateLimited         = errors.New("daily rate limit reached (5 submissions per day)")
	ErrAIDisabled          = errors.New("AI feedback is currently disabled")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSlugTaken           = errors.New("a track with this slug already exists")
	ErrGenerationFailed    = errors.New("challenge generation failed")
)
