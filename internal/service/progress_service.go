package service

import (
	"fmt"
	"math"
	"time"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// ProgressService maintains the rolling per-user stats updated after every
// successful feedback generation.
type ProgressService interface {
	RecordCompletion(userID uint, score int, now time.Time) error
	GetProgress(userID uint) (*dto.ProgressResponse, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
}

func NewProgressService(progressRepo repository.ProgressRepository) ProgressService {
	return &progressService{progressRepo: progressRepo}
}

// RecordCompletion folds one scored completion into the user's stats and
// upserts the row.
func (s *progressService) RecordCompletion(userID uint, score int, now time.Time) error {
	prev, err := s.progressRepo.FindByUserID(userID)
	if err != nil {
		return fmt.Errorf("error fetching progress for user %d: %w", userID, err)
	}

	next := nextProgress(prev, userID, score, now)
	if err := s.progressRepo.Upsert(&next); err != nil {
		return fmt.Errorf("error upserting progress for user %d: %w", userID, err)
	}

	log.Info().Uint("userID", userID).Int("streak", next.CurrentStreak).Float64("avgScore", next.AvgScore).
		Msg("User progress updated")
	return nil
}

// nextProgress applies the streak and running-average arithmetic: streak +1
// on a one-day gap, unchanged on the same day, reset to 1 otherwise; the
// average is a weighted running mean rounded to one decimal.
func nextProgress(prev *model.UserProgress, userID uint, score int, now time.Time) model.UserProgress {
	today := dateOf(now)

	completed := 1
	streak := 1
	longest := 0
	prevAvg := 0.0
	prevCompleted := 0

	if prev != nil {
		prevCompleted = prev.ChallengesCompleted
		completed = prev.ChallengesCompleted + 1
		longest = prev.LongestStreak
		prevAvg = prev.AvgScore

		if prev.LastCompletedDate != nil {
			switch calendarDaysBetween(*prev.LastCompletedDate, today) {
			case 0:
				streak = prev.CurrentStreak
				if streak < 1 {
					streak = 1
				}
			case 1:
				streak = prev.CurrentStreak + 1
			default:
				streak = 1
			}
		}
	}

	if streak > longest {
		longest = streak
	}

	avg := (prevAvg*float64(prevCompleted) + float64(score)) / float64(completed)
	avg = math.Round(avg*10) / 10

	return model.UserProgress{
		UserID:              userID,
		ChallengesCompleted: completed,
		CurrentStreak:       streak,
		LongestStreak:       longest,
		LastCompletedDate:   &today,
		AvgScore:            avg,
	}
}

func (s *progressService) GetProgress(userID uint) (*dto.ProgressResponse, error) {
	progress, err := s.progressRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching progress for user %d: %w", userID, err)
	}
	if progress == nil {
		return &dto.ProgressResponse{}, nil
	}
	return &dto.ProgressResponse{
		ChallengesCompleted: progress.ChallengesCompleted,
		CurrentStreak:       progress.CurrentStreak,
		LongestStreak:       progress.LongestStreak,
		LastCompletedDate:   progress.LastCompletedDate,
		AvgScore:            progress.AvgScore,
	}, nil
}

// dateOf truncates to a UTC calendar date.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func calendarDaysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}
