package service

import (
	"testing"
	"time"

	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextProgress_FirstCompletion(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	next := nextProgress(nil, 1, 8, now)

	assert.Equal(t, 1, next.ChallengesCompleted)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.LongestStreak)
	assert.Equal(t, 8.0, next.AvgScore)
	require.NotNil(t, next.LastCompletedDate)
	assert.Equal(t, day(2026, 3, 10), *next.LastCompletedDate)
}

func TestNextProgress_ConsecutiveDayExtendsStreak(t *testing.T) {
	last := day(2026, 3, 9)
	prev := &model.UserProgress{
		UserID:              1,
		ChallengesCompleted: 3,
		CurrentStreak:       3,
		LongestStreak:       3,
		LastCompletedDate:   &last,
		AvgScore:            7.0,
	}

	next := nextProgress(prev, 1, 9, day(2026, 3, 10).Add(8*time.Hour))

	assert.Equal(t, 4, next.CurrentStreak)
	assert.Equal(t, 4, next.LongestStreak)
	assert.Equal(t, 4, next.ChallengesCompleted)
	// (7*3 + 9) / 4 = 7.5
	assert.Equal(t, 7.5, next.AvgScore)
}

func TestNextProgress_SameDayLeavesStreakUnchanged(t *testing.T) {
	last := day(2026, 3, 10)
	prev := &model.UserProgress{
		UserID:              1,
		ChallengesCompleted: 4,
		CurrentStreak:       4,
		LongestStreak:       6,
		LastCompletedDate:   &last,
		AvgScore:            7.5,
	}

	next := nextProgress(prev, 1, 10, day(2026, 3, 10).Add(23*time.Hour))

	assert.Equal(t, 4, next.CurrentStreak)
	assert.Equal(t, 6, next.LongestStreak)
	assert.Equal(t, 5, next.ChallengesCompleted)
	// (7.5*4 + 10) / 5 = 8.0
	assert.Equal(t, 8.0, next.AvgScore)
}

func TestNextProgress_GapResetsStreak(t *testing.T) {
	last := day(2026, 3, 7)
	prev := &model.UserProgress{
		UserID:              1,
		ChallengesCompleted: 10,
		CurrentStreak:       5,
		LongestStreak:       5,
		LastCompletedDate:   &last,
		AvgScore:            6.0,
	}

	next := nextProgress(prev, 1, 6, day(2026, 3, 10))

	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 5, next.LongestStreak)
}

func TestNextProgress_AverageRoundsToOneDecimal(t *testing.T) {
	last := day(2026, 3, 9)
	prev := &model.UserProgress{
		UserID:              1,
		ChallengesCompleted: 2,
		CurrentStreak:       1,
		LongestStreak:       1,
		LastCompletedDate:   &last,
		AvgScore:            7.0,
	}

	// (7*2 + 8) / 3 = 7.333... -> 7.3
	next := nextProgress(prev, 1, 8, day(2026, 3, 10))
	assert.Equal(t, 7.3, next.AvgScore)
}

func TestNextProgress_DayBoundaryIsUTC(t *testing.T) {
	last := day(2026, 3, 9)
	prev := &model.UserProgress{
		UserID:              1,
		ChallengesCompleted: 1,
		CurrentStreak:       1,
		LongestStreak:       1,
		LastCompletedDate:   &last,
		AvgScore:            5.0,
	}

	// 23:30 UTC-5 on March 9 is 04:30 UTC on March 10: a new calendar day.
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)

	next := nextProgress(prev, 1, 5, now)
	assert.Equal(t, 2, next.CurrentStreak)
	assert.Equal(t, day(2026, 3, 10), *next.LastCompletedDate)
}

func TestRecordCompletion_PersistsUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(repository.NewProgressRepository(db))

	require.NoError(t, svc.RecordCompletion(7, 8, day(2026, 3, 10)))
	require.NoError(t, svc.RecordCompletion(7, 6, day(2026, 3, 11)))

	resp, err := svc.GetProgress(7)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ChallengesCompleted)
	assert.Equal(t, 2, resp.CurrentStreak)
	assert.Equal(t, 7.0, resp.AvgScore)
}

func TestGetProgress_NoRowReturnsZeroes(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(repository.NewProgressRepository(db))

	resp, err := svc.GetProgress(99)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ChallengesCompleted)
	assert.Equal(t, 0, resp.CurrentStreak)
}
