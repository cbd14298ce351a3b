package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/fingerprint"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB, llm LLMService) ReviewService {
	return NewReviewService(
		repository.NewTrackRepository(db),
		repository.NewChallengeRepository(db),
		llm,
	)
}

func TestGenerate_TrackNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db, &fakeLLM{})

	_, err := svc.Generate(context.Background(), dto.GenerateChallengesDTO{TrackID: 42, Difficulty: "beginner", Count: 3})
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestGenerate_GeneratorFailure(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	svc := newReviewService(db, &fakeLLM{generateErr: errors.New("upstream 500")})

	_, err := svc.Generate(context.Background(), dto.GenerateChallengesDTO{TrackID: track.ID, Difficulty: "beginner", Count: 3})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerate_AnnotatesCandidates(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	seedPublishedChallenge(t, db, track.ID, "design email categorization system", day(2026, 3, 10))

	llm := &fakeLLM{
		challenges: []GeneratedChallenge{
			{Title: "A", Scenario: "s", Instructions: "i", SuccessCriteria: "c", CanonicalGoal: "design email categorization system"},
			{Title: "B", Scenario: "s", Instructions: "i", SuccessCriteria: "c", CanonicalGoal: "build customer sentiment tracker"},
		},
		similarityLabel: model.SimilarityVerySimilar,
	}
	svc := newReviewService(db, llm)

	resp, err := svc.Generate(context.Background(), dto.GenerateChallengesDTO{TrackID: track.ID, Difficulty: "beginner", Count: 2})
	require.NoError(t, err)
	require.Len(t, resp.Challenges, 2)
	assert.Equal(t, "Prompting", resp.Track)

	// Exact fingerprint match short-circuits the semantic judge.
	assert.Equal(t, model.SimilarityDuplicate, resp.Challenges[0].SimilarityStatus)
	assert.Equal(t, fingerprint.Fingerprint("design email categorization system"), resp.Challenges[0].Fingerprint)

	assert.Equal(t, model.SimilarityVerySimilar, resp.Challenges[1].SimilarityStatus)
	for _, c := range resp.Challenges {
		assert.True(t, c.GeneratedByAI)
		assert.False(t, c.ReviewedByHuman)
		assert.False(t, c.IsPublished)
	}

	// Nothing was persisted.
	var count int64
	require.NoError(t, db.Model(&model.Challenge{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func candidate(trackID uint, goal string) *dto.CandidateDTO {
	return &dto.CandidateDTO{
		TrackID:          trackID,
		Difficulty:       model.DifficultyBeginner,
		Title:            "T",
		Scenario:         "s",
		Instructions:     "i",
		SuccessCriteria:  "c",
		CanonicalGoal:    goal,
		SimilarityStatus: model.SimilaritySufficientlyDifferent,
		GeneratedByAI:    true,
	}
}

func TestSave_DraftWithoutDate(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	svc := newReviewService(db, &fakeLLM{})

	resp, err := svc.Save(context.Background(), dto.SaveChallengeDTO{
		Challenge: candidate(track.ID, "new unique goal"),
		Publish:   false,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Challenge saved as draft", resp.Message)
	assert.False(t, resp.Challenge.IsPublished)
	assert.True(t, resp.Challenge.ReviewedByHuman)
}

func TestSave_PublishRequiresDate(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	svc := newReviewService(db, &fakeLLM{})

	_, err := svc.Save(context.Background(), dto.SaveChallengeDTO{
		Challenge: candidate(track.ID, "goal without a date"),
		Publish:   true,
	})
	assert.ErrorIs(t, err, ErrPublishDateRequired)
}

func TestSave_PublishWithDate(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	svc := newReviewService(db, &fakeLLM{})

	dayDate := "2026-03-15"
	c := candidate(track.ID, "goal with a date")
	c.DayDate = &dayDate

	resp, err := svc.Save(context.Background(), dto.SaveChallengeDTO{Challenge: c, Publish: true})
	require.NoError(t, err)
	assert.True(t, resp.Challenge.IsPublished)
	require.NotNil(t, resp.Challenge.DayDate)
	assert.Equal(t, day(2026, 3, 15), *resp.Challenge.DayDate)
	assert.Equal(t, "Challenge published successfully", resp.Message)
}

func TestSave_DuplicateLabelBlocksPublish(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	svc := newReviewService(db, &fakeLLM{})

	dayDate := "2026-03-15"
	c := candidate(track.ID, "labeled duplicate goal")
	c.DayDate = &dayDate
	c.SimilarityStatus = model.SimilarityDuplicate

	_, err := svc.Save(context.Background(), dto.SaveChallengeDTO{Challenge: c, Publish: true})
	assert.ErrorIs(t, err, ErrDuplicateBlocked)

	// A duplicate-labeled candidate can still be saved as a draft.
	_, err = svc.Save(context.Background(), dto.SaveChallengeDTO{Challenge: c, Publish: false})
	assert.NoError(t, err)
}

func TestSave_DuplicateFingerprintAtStore(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	seedPublishedChallenge(t, db, track.ID, "already stored goal", day(2026, 3, 10))
	svc := newReviewService(db, &fakeLLM{})

	_, err := svc.Save(context.Background(), dto.SaveChallengeDTO{
		Challenge: candidate(track.ID, "already stored goal"),
		Publish:   false,
	})
	assert.ErrorIs(t, err, ErrDuplicateChallenge)
}

func TestAllCanonicalGoals_OldestFirst(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)

	// The similarity comparison set is capped from the tail, so goals must
	// come back in insertion order.
	for _, goal := range []string{"first stored goal", "second stored goal", "third stored goal"} {
		seedPublishedChallenge(t, db, track.ID, goal, day(2026, 3, 10))
	}

	goals, err := repository.NewChallengeRepository(db).AllCanonicalGoals()
	require.NoError(t, err)
	assert.Equal(t, []string{"first stored goal", "second stored goal", "third stored goal"}, goals)
}

func TestCreateTrack_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	seedTrack(t, db)
	svc := newReviewService(db, &fakeLLM{})

	_, err := svc.CreateTrack(dto.TrackCreateDTO{Slug: "prompting", Title: "Prompting again"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	resp, err := svc.CreateTrack(dto.TrackCreateDTO{Slug: "analysis", Title: "Analysis"})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}
