package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type TokenResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

type ProfileResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	SkillLevel  string    `json:"skill_level"`
	Timezone    string    `json:"timezone"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

type TrackResponse struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

type ChallengeResponse struct {
	ID              uint       `json:"id"`
	TrackID         uint       `json:"track_id"`
	TrackTitle      string     `json:"track_title,omitempty"`
	Difficulty      string     `json:"difficulty"`
	Title           string     `json:"title"`
	Scenario        string     `json:"scenario"`
	Instructions    string     `json:"instructions"`
	SuccessCriteria string     `json:"success_criteria,omitempty"`
	IsPublished     bool       `json:"is_published"`
	DayDate         *time.Time `json:"day_date,omitempty"`
	GeneratedByAI   bool       `json:"generated_by_ai"`
	ReviewedByHuman bool       `json:"reviewed_by_human"`
	CreatedAt       time.Time  `json:"created_at"`
}

// GuidanceResponse carries the skill-level framing shown alongside a
// challenge.
type GuidanceResponse struct {
	Framing   string   `json:"framing"`
	Approach  []string `json:"approach"`
	StuckHint string   `json:"stuck_hint"`
}

type ChallengeDetailResponse struct {
	Challenge ChallengeResponse `json:"challenge"`
	Guidance  GuidanceResponse  `json:"guidance"`
}

type SubmissionResponse struct {
	ID             uint      `json:"id"`
	ChallengeID    uint      `json:"challenge_id"`
	SubmissionText string    `json:"submission_text"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type FeedbackResponse struct {
	ID                uint      `json:"id"`
	SubmissionID      uint      `json:"submission_id"`
	Score             int       `json:"score"`
	Strengths         []string  `json:"strengths"`
	Improvements      []string  `json:"improvements"`
	SuggestedRevision string    `json:"suggested_revision"`
	NextChallengeTip  string    `json:"next_challenge_tip"`
	Model             string    `json:"model"`
	CreatedAt         time.Time `json:"created_at"`
}

// SubmissionFeedbackResponse is returned by the feedback endpoint. Message is
// set when an existing submission is returned idempotently.
type SubmissionFeedbackResponse struct {
	Submission *SubmissionResponse `json:"submission"`
	Feedback   *FeedbackResponse   `json:"feedback"`
	Message    string              `json:"message,omitempty"`
}

type ProgressResponse struct {
	ChallengesCompleted int        `json:"challenges_completed"`
	CurrentStreak       int        `json:"current_streak"`
	LongestStreak       int        `json:"longest_streak"`
	LastCompletedDate   *time.Time `json:"last_completed_date,omitempty"`
	AvgScore            float64    `json:"avg_score"`
}

type HistoryItemResponse struct {
	Submission SubmissionResponse `json:"submission"`
	Challenge  ChallengeResponse  `json:"challenge"`
	Feedback   *FeedbackResponse  `json:"feedback,omitempty"`
}
