package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cortexamp/api/config"
	"github.com/cortexamp/api/internal/fingerprint"
	"github.com/cortexamp/api/internal/metrics"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// GeneratedChallenge is one raw candidate from the generator, unvalidated
// against the persisted store.
type GeneratedChallenge struct {
	Title           string `json:"title"`
	Scenario        string `json:"scenario"`
	Instructions    string `json:"instructions"`
	SuccessCriteria string `json:"success_criteria"`
	CanonicalGoal   string `json:"canonical_goal"`
}

// FeedbackResult is the normalized rubric evaluation of one submission.
type FeedbackResult struct {
	Score             int      `json:"score"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	SuggestedRevision string   `json:"suggested_revision"`
	NextChallengeTip  string   `json:"next_challenge_tip"`
	Model             string   `json:"model"`
}

// FeedbackContext carries the full challenge context sent with a submission.
type FeedbackContext struct {
	Title           string
	Difficulty      string
	Track           string
	Scenario        string
	Instructions    string
	SuccessCriteria string
}

// LLMService delegates generation, similarity judgment and feedback scoring
// to hosted language models. Generation and similarity go through an
// OpenAI-compatible DeepSeek endpoint; feedback scoring uses OpenAI.
type LLMService interface {
	GenerateChallenges(ctx context.Context, track, difficulty string, count int) ([]GeneratedChallenge, error)
	JudgeSimilarity(ctx context.Context, newGoal string, existingGoals []string) string
	GenerateFeedback(ctx context.Context, fc FeedbackContext, submissionText string) (*FeedbackResult, error)
}

// chatClient is the slice of the go-openai client the service needs;
// satisfied by *openai.Client and by test fakes.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type llmService struct {
	generation chatClient
	feedback   chatClient
	cfg        *config.Config
}

func NewLLMService(cfg *config.Config) LLMService {
	s := &llmService{cfg: cfg}

	if cfg.AI.DeepSeekAPIKey == "" {
		log.Warn().Msg("DEEPSEEK_API_KEY is not set. Challenge generation and similarity checks will be non-functional.")
	} else {
		genCfg := openai.DefaultConfig(cfg.AI.DeepSeekAPIKey)
		genCfg.BaseURL = cfg.AI.DeepSeekBaseURL
		s.generation = openai.NewClientWithConfig(genCfg)
	}

	if cfg.AI.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set. Feedback scoring will be non-functional.")
	} else {
		s.feedback = openai.NewClient(cfg.AI.OpenAIAPIKey)
	}

	return s
}

const generationSystemPrompt = `You are a senior learning designer for CortexAmp.
You create daily AI challenges that teach thinking, not answers.
Challenges must be realistic, practical, and appropriate for the specified difficulty.
Do NOT provide solutions.
Do NOT include example answers.`

// GenerateChallenges asks the generation model for count structurally-uniform
// candidates. Any malformed response rejects the whole batch; there is no
// partial acceptance.
func (s *llmService) GenerateChallenges(ctx context.Context, track, difficulty string, count int) ([]GeneratedChallenge, error) {
	if s.generation == nil {
		return nil, fmt.Errorf("generation client not configured")
	}
	if count < 1 || count > 10 {
		return nil, fmt.Errorf("count must be between 1 and 10, got %d", count)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d DIVERSE and UNIQUE AI learning challenges.\n\n", count)
	fmt.Fprintf(&b, "Track: %s\nDifficulty: %s\n\n", track, difficulty)
	b.WriteString(`For each challenge include:
- Title
- Scenario
- Instructions
- Success criteria
- Canonical goal (a SHORT, SPECIFIC phrase describing the unique core objective - must be different for each challenge)

Rules:
- No answers
- No step-by-step solutions
- Solvable in 5-15 minutes
- Focus on applied thinking
- Avoid vague or generic prompts
- CRITICAL: Each canonical_goal MUST be unique and specific (e.g., "design email categorization system", "create sales pitch analyzer", "build customer sentiment tracker")
- Vary the specific use cases and scenarios significantly

Return a JSON array with this exact structure:
[
  {
    "title": "string",
    "scenario": "string",
    "instructions": "string",
    "success_criteria": "string",
    "canonical_goal": "string (must be unique and specific)"
  }
]`)

	start := time.Now()
	resp, err := s.generation.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.AI.GenerationModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
		Temperature: 0.9,
		MaxTokens:   4000,
	})
	metrics.ObserveLLMRequest("generate", err, start)
	if err != nil {
		log.Error().Err(err).Str("track", track).Str("difficulty", difficulty).Msg("Generation API error")
		return nil, fmt.Errorf("generation API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no content in generation response")
	}

	challenges, err := parseGeneratedChallenges(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warn().Err(err).Msg("Rejecting generation batch")
		return nil, err
	}
	return challenges, nil
}

// parseGeneratedChallenges extracts and validates the JSON array from a model
// response. A missing or invalid field on any candidate fails the batch, except
// canonical_goal, which can be derived from the title and scenario.
func parseGeneratedChallenges(content string) ([]GeneratedChallenge, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("could not locate JSON array in model response")
	}

	var challenges []GeneratedChallenge
	if err := json.Unmarshal([]byte(content[start:end+1]), &challenges); err != nil {
		return nil, fmt.Errorf("could not parse JSON from model response: %w", err)
	}
	if len(challenges) == 0 {
		return nil, fmt.Errorf("model returned an empty challenge array")
	}

	for i := range challenges {
		c := &challenges[i]
		fields := map[string]string{
			"title":            c.Title,
			"scenario":         c.Scenario,
			"instructions":     c.Instructions,
			"success_criteria": c.SuccessCriteria,
		}
		for name, v := range fields {
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("challenge %d missing or invalid field: %s", i, name)
			}
		}
		if strings.TrimSpace(c.CanonicalGoal) == "" {
			c.CanonicalGoal = fingerprint.CanonicalGoal(c.Title, c.Scenario)
		}
	}
	return challenges, nil
}

const similaritySystemPrompt = `You are a duplicate detection system for learning challenges.
Compare the new challenge goal to existing goals.
Respond with ONLY one word: duplicate, very_similar, or sufficiently_different.`

// JudgeSimilarity classifies a new canonical goal against existing goals.
// Any call failure or unparseable response defaults conservatively to
// very_similar; an uncertain case is never treated as safe to publish.
func (s *llmService) JudgeSimilarity(ctx context.Context, newGoal string, existingGoals []string) string {
	if s.generation == nil {
		log.Warn().Msg("JudgeSimilarity: generation client not configured, defaulting to very_similar")
		return "very_similar"
	}
	if len(existingGoals) == 0 {
		return "sufficiently_different"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New challenge goal:\n%q\n\nExisting challenge goals:\n", newGoal)
	for i, goal := range existingGoals {
		fmt.Fprintf(&b, "%d. %q\n", i+1, goal)
	}
	b.WriteString("\nIs the new goal meaningfully different from all existing goals?\nRespond ONLY with: duplicate, very_similar, or sufficiently_different")

	start := time.Now()
	resp, err := s.generation.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.AI.GenerationModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: similaritySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
		Temperature: 0.1,
		MaxTokens:   10,
	})
	metrics.ObserveLLMRequest("similarity", err, start)
	if err != nil {
		log.Error().Err(err).Msg("Similarity check API error, defaulting to very_similar")
		return "very_similar"
	}
	if len(resp.Choices) == 0 {
		return "very_similar"
	}

	return parseSimilarityLabel(resp.Choices[0].Message.Content)
}

func parseSimilarityLabel(content string) string {
	label := strings.ToLower(strings.TrimSpace(content))
	switch label {
	case "duplicate":
		return "duplicate"
	case "very_similar", "very similar":
		return "very_similar"
	case "sufficiently_different", "sufficiently different":
		return "sufficiently_different"
	}
	log.Warn().Str("response", label).Msg("Unclear similarity response, defaulting to very_similar")
	return "very_similar"
}

const feedbackSystemPrompt = `You are CortexAmp Coach: concise, practical, motivating.
You grade user submissions to daily AI challenges using a rubric and return strict JSON only.
Do not add extra keys. No markdown. No prose outside JSON.

Rubric (10 points total):
- Clarity (0-3)
- Correctness (0-3)
- Practicality (0-2)
- Completeness (0-2)

If the submission is incomplete, coach the thinking process instead of evaluating correctness.
For incomplete submissions: acknowledge effort, identify missing thinking steps, demonstrate structure (not solution).

Return strengths and improvements as short bullet-like strings.
In improvements, include at least one process-focused suggestion (e.g., "Clarify the goal before writing" or "Define constraints earlier").
Keep suggested_revision short and directly improved.
Keep next_challenge_tip to 1 sentence.
Do not invent external facts. Evaluate using only the challenge and submission.
Avoid generic praise. Be encouraging but direct. No "Great job!" filler.`

// GenerateFeedback scores one submission against the rubric. The response
// must contain a numeric score; everything else is normalized to the bounded
// shapes the schema expects.
func (s *llmService) GenerateFeedback(ctx context.Context, fc FeedbackContext, submissionText string) (*FeedbackResult, error) {
	if s.feedback == nil {
		return nil, fmt.Errorf("feedback client not configured")
	}

	criteria := fc.SuccessCriteria
	if criteria == "" {
		criteria = "Follow instructions, be clear, be actionable."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Challenge: %s\nDifficulty: %s\nTrack: %s\nScenario: %s\nInstructions: %s\nSuccess Criteria: %s\n\n",
		fc.Title, fc.Difficulty, fc.Track, fc.Scenario, fc.Instructions, criteria)
	fmt.Fprintf(&b, "User Submission:\n%s\n\n", submissionText)
	b.WriteString(`Return JSON with exactly these fields:
{
  "score": <integer 1-10>,
  "strengths": [<max 2 short bullet-like strings>],
  "improvements": [<max 2 short bullet-like strings>],
  "suggested_revision": "<max 900 chars, concrete improved version>",
  "next_challenge_tip": "<exactly 1 sentence for next challenge>"
}`)

	start := time.Now()
	resp, err := s.feedback.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.AI.FeedbackModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: feedbackSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
		Temperature:    0.2,
		MaxTokens:      280,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	metrics.ObserveLLMRequest("feedback", err, start)
	if err != nil {
		log.Error().Err(err).Str("challenge", fc.Title).Msg("Feedback API error")
		return nil, fmt.Errorf("feedback API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI provider")
	}

	result, err := parseFeedbackResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	result.Model = s.cfg.AI.FeedbackModel
	return result, nil
}

// parseFeedbackResult validates the raw rubric response and normalizes it:
// score clamped to [1,10], at most two strengths/improvements, revision and
// tip truncated to their column bounds.
func parseFeedbackResult(content string) (*FeedbackResult, error) {
	var raw struct {
		Score             *float64        `json:"score"`
		Strengths         json.RawMessage `json:"strengths"`
		Improvements      json.RawMessage `json:"improvements"`
		SuggestedRevision string          `json:"suggested_revision"`
		NextChallengeTip  string          `json:"next_challenge_tip"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("invalid AI response structure: %w", err)
	}
	if raw.Score == nil {
		return nil, fmt.Errorf("invalid AI response structure: missing numeric score")
	}

	score := int(*raw.Score + 0.5)
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	result := &FeedbackResult{
		Score:             score,
		Strengths:         normalizeStringList(raw.Strengths, "Clear effort and relevant direction."),
		Improvements:      normalizeStringList(raw.Improvements, "Add more structure and make the output more actionable."),
		SuggestedRevision: truncate(strings.TrimSpace(raw.SuggestedRevision), 900),
		NextChallengeTip:  truncate(strings.TrimSpace(raw.NextChallengeTip), 140),
	}
	if result.SuggestedRevision == "" {
		result.SuggestedRevision = "Try rewriting your answer with clear steps and specific examples."
	}
	if result.NextChallengeTip == "" {
		result.NextChallengeTip = "Focus on making your output easier to apply."
	}
	return result, nil
}

// normalizeStringList accepts either a JSON array of strings or a bare string
// and returns at most two non-empty entries, falling back to a default.
func normalizeStringList(raw json.RawMessage, fallback string) []string {
	var items []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			var single string
			if err := json.Unmarshal(raw, &single); err == nil {
				items = []string{single}
			}
		}
	}

	var out []string
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		out = []string{fallback}
	}
	return out
}

// truncate never cuts mid-rune; model output is UTF-8 and a split rune would
// store an invalid string.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
