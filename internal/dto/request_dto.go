package dto

type SignupDTO struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	DisplayName *string `json:"display_name"`
	SkillLevel  string  `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Timezone    string  `json:"timezone"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileDTO struct {
	DisplayName *string `json:"display_name"`
	SkillLevel  *string `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Timezone    *string `json:"timezone"`
}

// SubmitFeedbackDTO is the submission-feedback request: free text answer to a
// published challenge.
type SubmitFeedbackDTO struct {
	ChallengeID    uint   `json:"challengeId" binding:"required"`
	SubmissionText string `json:"submissionText" binding:"required"`
}
