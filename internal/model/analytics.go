package model

import "time"

// Read models for the SQL views behind the admin dashboards. These are never
// written by the application.

type EngagementSummary struct {
	TotalUsers       int     `json:"total_users"`
	TotalSubmissions int     `json:"total_submissions"`
	ActiveLast7Days  int     `json:"active_last_7_days"`
	ActiveLast30Days int     `json:"active_last_30_days"`
	AvgFeedbackScore float64 `json:"avg_feedback_score"`
	AvgStreak        float64 `json:"avg_streak"`
}

type DailyActivity struct {
	Date        time.Time `json:"date"`
	Submissions int       `json:"submissions"`
	ActiveUsers int       `json:"active_users"`
}

type TrackAnalytics struct {
	TrackID         uint    `json:"track_id"`
	TrackTitle      string  `json:"track_title"`
	ChallengeCount  int     `json:"challenge_count"`
	SubmissionCount int     `json:"submission_count"`
	AvgScore        float64 `json:"avg_score"`
}

type DifficultyDistribution struct {
	Difficulty      string `json:"difficulty"`
	ChallengeCount  int    `json:"challenge_count"`
	SubmissionCount int    `json:"submission_count"`
}

type ChallengePerformance struct {
	ChallengeID   uint    `json:"challenge_id"`
	Title         string  `json:"title"`
	Difficulty    string  `json:"difficulty"`
	TotalAttempts int     `json:"total_attempts"`
	AvgScore      float64 `json:"avg_score"`
}

type ScoreBucket struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

type StreakAnalysis struct {
	Streaks3Plus     int     `json:"streaks_3_plus"`
	Streaks7Plus     int     `json:"streaks_7_plus"`
	MaxLongestStreak int     `json:"max_longest_streak"`
	AvgLongestStreak float64 `json:"avg_longest_streak"`
}
