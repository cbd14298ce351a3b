package dto

// GenerateChallengesDTO is the admin request to generate candidate challenges
// for one track and difficulty. Count is bounded 1-10.
type GenerateChallengesDTO struct {
	TrackID    uint   `json:"track_id" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Count      int    `json:"count" binding:"required,min=1,max=10"`
}

// CandidateDTO is one generated challenge annotated by the review workflow.
// Nothing is persisted until the candidate is saved explicitly.
type CandidateDTO struct {
	TrackID          uint    `json:"track_id"`
	Difficulty       string  `json:"difficulty"`
	Title            string  `json:"title" binding:"required"`
	Scenario         string  `json:"scenario" binding:"required"`
	Instructions     string  `json:"instructions" binding:"required"`
	SuccessCriteria  string  `json:"success_criteria"`
	CanonicalGoal    string  `json:"canonical_goal" binding:"required"`
	Fingerprint      string  `json:"challenge_fingerprint"`
	SimilarityStatus string  `json:"similarity_status"`
	GeneratedByAI    bool    `json:"generated_by_ai"`
	ReviewedByHuman  bool    `json:"reviewed_by_human"`
	IsPublished      bool    `json:"is_published"`
	DayDate          *string `json:"day_date,omitempty"` // "2006-01-02"
}

// GenerateChallengesResponseDTO returns the annotated batch plus the track
// title for display.
type GenerateChallengesResponseDTO struct {
	Challenges []CandidateDTO `json:"challenges"`
	Track      string         `json:"track"`
}

// SaveChallengeDTO persists one reviewed candidate. Publish requires a
// non-null day date.
type SaveChallengeDTO struct {
	Challenge *CandidateDTO `json:"challenge" binding:"required"`
	Publish   bool          `json:"publish"`
}

type SaveChallengeResponseDTO struct {
	Success   bool               `json:"success"`
	Challenge *ChallengeResponse `json:"challenge,omitempty"`
	Message   string             `json:"message"`
}

type TrackCreateDTO struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

type ReconcileResponseDTO struct {
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}
