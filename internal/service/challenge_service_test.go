package service

import (
	"testing"
	"time"

	"github.com/cortexamp/api/internal/fingerprint"
	"github.com/cortexamp/api/internal/guidance"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChallengeService(db *gorm.DB, now time.Time) *challengeService {
	return &challengeService{
		challengeRepo:  repository.NewChallengeRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
		feedbackRepo:   repository.NewFeedbackRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		trackRepo:      repository.NewTrackRepository(db),
		now:            func() time.Time { return now },
	}
}

func seedProfile(t *testing.T, db *gorm.DB, email, skillLevel string) *model.Profile {
	t.Helper()
	profile := model.Profile{Email: email, PasswordHash: "x", SkillLevel: skillLevel, Timezone: "UTC"}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

func TestGetTodayChallenge_MatchesSkillLevelAndTrack(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	today := day(2026, 3, 10)

	beginner := seedPublishedChallenge(t, db, track.ID, "beginner goal for today", today)

	advanced := model.Challenge{
		TrackID: track.ID, Difficulty: model.DifficultyAdvanced,
		Title: "Advanced", Scenario: "s", Instructions: "i",
		CanonicalGoal: "advanced goal for today",
		Fingerprint:   fingerprint.Fingerprint("advanced goal for today"),
		IsPublished:   true, DayDate: &today,
	}
	require.NoError(t, db.Create(&advanced).Error)

	beginnerUser := seedProfile(t, db, "b@x.com", "beginner")
	advancedUser := seedProfile(t, db, "a@x.com", "advanced")

	svc := newChallengeService(db, today.Add(10*time.Hour))

	resp, err := svc.GetTodayChallenge(beginnerUser.ID, track.ID)
	require.NoError(t, err)
	assert.Equal(t, beginner.ID, resp.Challenge.ID)
	assert.Equal(t, guidance.Framing("beginner"), resp.Guidance.Framing)

	resp, err = svc.GetTodayChallenge(advancedUser.ID, track.ID)
	require.NoError(t, err)
	assert.Equal(t, advanced.ID, resp.Challenge.ID)
	assert.Equal(t, guidance.Framing("advanced"), resp.Guidance.Framing)
	assert.Equal(t, guidance.StuckHint, resp.Guidance.StuckHint)
}

func TestGetTodayChallenge_NothingScheduled(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	user := seedProfile(t, db, "b@x.com", "beginner")

	svc := newChallengeService(db, day(2026, 3, 10))
	_, err := svc.GetTodayChallenge(user.ID, track.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestGetChallengeDetail_HidesDrafts(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	user := seedProfile(t, db, "b@x.com", "beginner")

	draft := model.Challenge{
		TrackID: track.ID, Difficulty: model.DifficultyBeginner,
		Title: "Draft", Scenario: "s", Instructions: "i",
		CanonicalGoal: "a draft goal", Fingerprint: "draft-fp-2",
	}
	require.NoError(t, db.Create(&draft).Error)

	svc := newChallengeService(db, day(2026, 3, 10))
	_, err := svc.GetChallengeDetail(user.ID, draft.ID)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestGetHistory_JoinsChallengeAndFeedback(t *testing.T) {
	db := newTestDB(t)
	track := seedTrack(t, db)
	user := seedProfile(t, db, "b@x.com", "beginner")
	challenge := seedPublishedChallenge(t, db, track.ID, "history goal", day(2026, 3, 10))

	sub := model.Submission{UserID: user.ID, ChallengeID: challenge.ID, SubmissionText: "answer"}
	require.NoError(t, db.Create(&sub).Error)
	require.NoError(t, db.Create(&model.Feedback{
		SubmissionID: sub.ID, UserID: user.ID, Score: 8, Model: "test-model",
		Strengths: model.StringList{"clear"}, Improvements: model.StringList{"expand"},
	}).Error)

	// Another submission without feedback yet.
	other := seedPublishedChallenge(t, db, track.ID, "second history goal", day(2026, 3, 11))
	require.NoError(t, db.Create(&model.Submission{UserID: user.ID, ChallengeID: other.ID, SubmissionText: "answer 2"}).Error)

	svc := newChallengeService(db, day(2026, 3, 12))
	items, err := svc.GetHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var withFeedback, withoutFeedback int
	for _, item := range items {
		assert.NotEmpty(t, item.Challenge.Title)
		assert.Equal(t, "Prompting", item.Challenge.TrackTitle)
		if item.Feedback != nil {
			withFeedback++
			assert.Equal(t, []string{"clear"}, item.Feedback.Strengths)
		} else {
			withoutFeedback++
		}
	}
	assert.Equal(t, 1, withFeedback)
	assert.Equal(t, 1, withoutFeedback)
}

func TestListActiveTracks_SkipsInactive(t *testing.T) {
	db := newTestDB(t)
	seedTrack(t, db)
	retired := model.Track{Slug: "retired", Title: "Retired"}
	require.NoError(t, db.Create(&retired).Error)
	require.NoError(t, db.Model(&retired).Update("is_active", false).Error)

	svc := newChallengeService(db, day(2026, 3, 10))
	tracks, err := svc.ListActiveTracks()
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "prompting", tracks[0].Slug)
}
