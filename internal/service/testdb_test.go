package service

import (
	"context"
	"testing"
	"time"

	"github.com/cortexamp/api/internal/fingerprint"
	"github.com/cortexamp/api/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Track{},
		&model.Challenge{},
		&model.Profile{},
		&model.Submission{},
		&model.Feedback{},
		&model.UserProgress{},
	))
	return db
}

func seedTrack(t *testing.T, db *gorm.DB) *model.Track {
	t.Helper()
	track := model.Track{Slug: "prompting", Title: "Prompting", IsActive: true}
	require.NoError(t, db.Create(&track).Error)
	return &track
}

func seedPublishedChallenge(t *testing.T, db *gorm.DB, trackID uint, goal string, day time.Time) *model.Challenge {
	t.Helper()
	challenge := model.Challenge{
		TrackID:         trackID,
		Difficulty:      model.DifficultyBeginner,
		Title:           "Challenge for " + goal,
		Scenario:        "A scenario",
		Instructions:    "Do the thing",
		SuccessCriteria: "It works",
		CanonicalGoal:   goal,
		Fingerprint:     fingerprint.Fingerprint(goal),
		IsPublished:     true,
		DayDate:         &day,
		ReviewedByHuman: true,
	}
	require.NoError(t, db.Create(&challenge).Error)
	return &challenge
}

// fakeLLM scripts the model responses for service tests.
type fakeLLM struct {
	challenges      []GeneratedChallenge
	generateErr     error
	similarityLabel string
	feedback        *FeedbackResult
	feedbackErrs    []error
	feedbackCalls   int
}

func (f *fakeLLM) GenerateChallenges(ctx context.Context, track, difficulty string, count int) ([]GeneratedChallenge, error) {
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.challenges, nil
}

func (f *fakeLLM) JudgeSimilarity(ctx context.Context, newGoal string, existingGoals []string) string {
	if f.similarityLabel == "" {
		return model.SimilaritySufficientlyDifferent
	}
	return f.similarityLabel
}

func (f *fakeLLM) GenerateFeedback(ctx context.Context, fc FeedbackContext, submissionText string) (*FeedbackResult, error) {
	call := f.feedbackCalls
	f.feedbackCalls++
	if call < len(f.feedbackErrs) && f.feedbackErrs[call] != nil {
		return nil, f.feedbackErrs[call]
	}
	if f.feedback == nil {
		return &FeedbackResult{
			Score:             8,
			Strengths:         []string{"Clear structure."},
			Improvements:      []string{"Add an example."},
			SuggestedRevision: "A tighter version.",
			NextChallengeTip:  "Lead with the goal.",
			Model:             "test-model",
		}, nil
	}
	return f.feedback, nil
}
