// Package guidance holds the skill-level framing shown alongside a challenge.
// The content is static for now; it can be swapped to a generated variant
// without changing the API shape.
package guidance

// Skill levels recognized across profiles and challenges.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// StuckHint is shown to every skill level.
const StuckHint = "Try outlining your answer in one or two sentences before writing it fully."

var framing = map[string]string{
	SkillBeginner:     "This challenge focuses on clarity and basic structure. Don't overthink it.",
	SkillIntermediate: "This challenge assumes you understand the basics and focuses on intent and precision.",
	SkillAdvanced:     "This challenge is open-ended and evaluates judgment, tradeoffs, and effectiveness.",
}

var approach = map[string][]string{
	SkillBeginner: {
		"Identify what the challenge is asking you to do.",
		"Focus on being clear rather than clever.",
		"Write your answer as if explaining to a friend.",
	},
	SkillIntermediate: {
		"Identify the goal before writing.",
		"Decide what the AI should do vs what you should define.",
		"Focus on structure and clarity, not perfection.",
	},
	SkillAdvanced: {
		"Think about tradeoffs and constraints.",
		"Optimize for effectiveness, not elegance.",
		"Treat this like a real-world scenario, not an exercise.",
	},
}

// Framing returns the skill-level framing line; unknown levels fall back to
// beginner.
func Framing(level string) string {
	if f, ok := framing[level]; ok {
		return f
	}
	return framing[SkillBeginner]
}

// Approach returns the step list for a skill level; unknown levels fall back
// to beginner.
func Approach(level string) []string {
	if a, ok := approach[level]; ok {
		return a
	}
	return approach[SkillBeginner]
}
