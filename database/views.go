package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Analytics dashboards read from these views instead of querying the base
// tables directly. They are recreated on every startup so view definitions
// stay in lockstep with the schema.
var analyticsViews = map[string]string{
	"user_engagement_summary": `
		SELECT
			(SELECT COUNT(*) FROM profiles) AS total_users,
			(SELECT COUNT(*) FROM challenge_submissions) AS total_submissions,
			(SELECT COUNT(DISTINCT user_id) FROM challenge_submissions
				WHERE created_at >= CURRENT_TIMESTAMP - INTERVAL '7 days') AS active_last_7_days,
			(SELECT COUNT(DISTINCT user_id) FROM challenge_submissions
				WHERE created_at >= CURRENT_TIMESTAMP - INTERVAL '30 days') AS active_last_30_days,
			(SELECT COALESCE(AVG(score), 0) FROM ai_feedback) AS avg_feedback_score,
			(SELECT COALESCE(AVG(current_streak), 0) FROM user_progress) AS avg_streak`,

	"daily_user_activity": `
		SELECT
			CAST(created_at AS date) AS date,
			COUNT(*) AS submissions,
			COUNT(DISTINCT user_id) AS active_users
		FROM challenge_submissions
		GROUP BY CAST(created_at AS date)`,

	"track_analytics": `
		SELECT
			t.id AS track_id,
			t.title AS track_title,
			COUNT(DISTINCT c.id) AS challenge_count,
			COUNT(s.id) AS submission_count,
			COALESCE(AVG(f.score), 0) AS avg_score
		FROM tracks t
		LEFT JOIN challenges c ON c.track_id = t.id
		LEFT JOIN challenge_submissions s ON s.challenge_id = c.id
		LEFT JOIN ai_feedback f ON f.submission_id = s.id
		GROUP BY t.id, t.title`,

	"difficulty_distribution": `
		SELECT
			c.difficulty,
			COUNT(DISTINCT c.id) AS challenge_count,
			COUNT(s.id) AS submission_count
		FROM challenges c
		LEFT JOIN challenge_submissions s ON s.challenge_id = c.id
		GROUP BY c.difficulty`,

	"challenge_performance": `
		SELECT
			c.id AS challenge_id,
			c.title,
			c.difficulty,
			COUNT(s.id) AS total_attempts,
			COALESCE(AVG(f.score), 0) AS avg_score
		FROM challenges c
		LEFT JOIN challenge_submissions s ON s.challenge_id = c.id
		LEFT JOIN ai_feedback f ON f.submission_id = s.id
		GROUP BY c.id, c.title, c.difficulty`,

	"feedback_score_distribution": `
		SELECT score, COUNT(*) AS count
		FROM ai_feedback
		GROUP BY score`,

	"streak_analysis": `
		SELECT
			(SELECT COUNT(*) FROM user_progress WHERE current_streak >= 3) AS streaks_3_plus,
			(SELECT COUNT(*) FROM user_progress WHERE current_streak >= 7) AS streaks_7_plus,
			(SELECT COALESCE(MAX(longest_streak), 0) FROM user_progress) AS max_longest_streak,
			(SELECT COALESCE(AVG(longest_streak), 0) FROM user_progress) AS avg_longest_streak`,
}

// CreateAnalyticsViews installs the SQL views backing the admin dashboards.
// View SQL is Postgres-flavored; other dialects (the sqlite test database)
// are skipped.
func CreateAnalyticsViews(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		log.Warn().Str("dialect", db.Dialector.Name()).Msg("Skipping analytics view creation on non-postgres database")
		return nil
	}
	for name, query := range analyticsViews {
		if err := db.Exec("CREATE OR REPLACE VIEW " + name + " AS " + query).Error; err != nil {
			log.Error().Err(err).Str("view", name).Msg("Failed to create analytics view")
			return err
		}
	}
	log.Info().Int("views", len(analyticsViews)).Msg("Analytics views created")
	return nil
}
