package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/logger"
	"github.com/jonathan/job-search-agent/internal/prompts"
)

// Prompt excerpt bounds. Job pages can be enormous; the score barely changes
// past these sizes while cost and latency keep climbing.
const (
	MaxJobContentChars = 15000
	MaxResumeChars     = 4000
)

const scoreLogPreviewLen = 200

//go:embed score_schema.json
var scoreSchema string

// ScoreResult is the outcome of scoring one listing against a resume.
// Scoring never fails outright: errors degrade to a zero score with an
// explanatory justification, which the threshold filter then discards.
type ScoreResult struct {
	Score         int
	Justification string
}

// scoreResponse is the wire shape expected from the model.
type scoreResponse struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// MatchScorer scores job listings against a resume using an LLM with strict
// structured output.
type MatchScorer struct {
	client Client
	logger *zap.Logger
}

// NewMatchScorer creates a scorer. A nil logger is replaced with a nop.
func NewMatchScorer(client Client, log *zap.Logger) *MatchScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MatchScorer{client: client, logger: log}
}

// Score evaluates how well a resume fits a job description. The call is
// terminal for this single listing: transport failures and malformed
// responses both come back as score 0 and are never retried.
func (s *MatchScorer) Score(ctx context.Context, resumeText, jobContent, jobTitle string) ScoreResult {
	system := prompts.MustGet("matching.json", "score-system")
	prompt := buildScorePrompt(resumeText, jobContent, jobTitle)

	s.logger.Debug("score request",
		zap.String("job_title", jobTitle),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.client.GenerateJSON(ctx, system, prompt)
	if err != nil {
		s.logger.Warn("scoring call failed", zap.String("job_title", jobTitle), zap.Error(err))
		return errorResult(err)
	}

	s.logger.Debug("score response",
		zap.String("job_title", jobTitle),
		zap.String("response_preview", logger.Truncate(raw, scoreLogPreviewLen)),
	)

	cleaned := CleanJSONBlock(raw)
	if err := validateScorePayload(cleaned); err != nil {
		s.logger.Warn("malformed score response",
			zap.String("job_title", jobTitle),
			zap.String("response_preview", logger.Truncate(raw, scoreLogPreviewLen)),
			zap.Error(err),
		)
		return errorResult(err)
	}

	var resp scoreResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return errorResult(err)
	}

	return ScoreResult{
		Score:         clampScore(resp.Score),
		Justification: resp.Justification,
	}
}

func buildScorePrompt(resumeText, jobContent, jobTitle string) string {
	template := prompts.MustGet("matching.json", "score-job-match")
	return prompts.Format(template, map[string]string{
		"JobTitle":   jobTitle,
		"JobContent": Excerpt(jobContent, MaxJobContentChars),
		"Resume":     Excerpt(resumeText, MaxResumeChars),
	})
}

// validateScorePayload checks the response against the embedded JSON schema
// before unmarshaling, so a structurally wrong payload fails loudly instead
// of silently zero-valuing fields.
func validateScorePayload(doc string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(scoreSchema),
		gojsonschema.NewStringLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("score response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("score response failed schema validation: %v", result.Errors())
	}
	return nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func errorResult(err error) ScoreResult {
	return ScoreResult{
		Score:         0,
		Justification: fmt.Sprintf("Error analyzing match: %v", err),
	}
}
