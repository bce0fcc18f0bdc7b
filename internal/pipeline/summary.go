package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// DefaultSummaryModel is the chat model used for caselaw summary
// generation, matching the original's GPT-5-nano default.
const DefaultSummaryModel = "gpt-5-nano"

// caselawSummaryPromptTemplate mirrors the original's
// CASELAW_SUMMARY_PROMPT structure: a header line followed by the five
// numbered law-report sections (material facts, legal issues, held,
// reasoning, obiter dicta).
const caselawSummaryPromptTemplate = `Summarise this UK court judgment for legal research purposes.

Case: %s
Citation: %s
Court: %s %s
Date: %s

Judgment Text:
%s

Start with a header line in this exact format:
%s | %s %s | %s

Then provide a structured summary following law report conventions:

(1) MATERIAL FACTS - The essential facts that determined the outcome (2-3 sentences)

(2) LEGAL ISSUES - The question(s) of law the court had to decide (1-2 sentences)

(3) HELD (Ratio Decidendi) - The binding legal principle(s) established by this decision. State as a rule that could apply to future cases with different facts. (2-3 sentences)

(4) REASONING - Key reasons given for the decision (2-3 sentences)

(5) OBITER DICTA - Any significant observations not essential to the decision, if present (1 sentence, or "None")

Write precisely and authoritatively. Use legal terminology appropriately but ensure accessibility. Include key legal concepts and terms that researchers might search for.`

// SummaryGenerator calls a chat-completion model to produce case-law
// summaries, grounded on original_source's
// processing/caselaw_summaries/summary_generator.py and on the
// client-construction pattern in Tangerg-lynx's
// ai/extensions/models/openai/api.go (openai.NewClient plus
// option.WithAPIKey/option.WithBaseURL).
type SummaryGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewSummaryGenerator constructs a SummaryGenerator against an
// OpenAI-compatible chat-completions endpoint (including Azure OpenAI's
// OpenAI-compatible surface).
func NewSummaryGenerator(endpoint, apiKey string, logger *zap.Logger) *SummaryGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	client := openai.NewClient(opts...)
	return &SummaryGenerator{client: &client, model: DefaultSummaryModel, logger: logger}
}

// buildPrompt renders the summary prompt for one judgment, truncating
// source text at models.SummaryTextTruncateLimit characters the way the
// original caps input at ~90% of the model's context window.
func buildPrompt(c models.Caselaw) (prompt string, truncated bool, sourceLength int) {
	text := c.Text
	sourceLength = len(text)
	if len(text) > models.SummaryTextTruncateLimit {
		text = text[:models.SummaryTextTruncateLimit]
		truncated = true
	}

	date := c.Date.Format("2006-01-02")
	prompt = fmt.Sprintf(caselawSummaryPromptTemplate,
		c.Name, c.CiteAs, string(c.Court), string(c.Division), date,
		text,
		c.Name, string(c.Court), string(c.Division), date,
	)
	return prompt, truncated, sourceLength
}

// Generate produces a CaselawSummary for c, or a skip reason if the
// judgment is too short to be worth summarising. Like embed.DenseClient,
// this never returns an error for a model-side failure: the caller
// treats a failed call as a recoverable Outcome rather than aborting the
// run over one bad summary.
func (g *SummaryGenerator) Generate(ctx context.Context, summaryID string, c models.Caselaw) Outcome {
	if len(c.Text) < models.SummaryMinChars {
		return Skip(c.ID, "judgment too short to summarise")
	}

	prompt, truncated, sourceLength := buildPrompt(c)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		g.logger.Warn("caselaw summary generation failed", zap.String("caselaw_id", c.ID), zap.Error(err))
		return Fail(c.ID, fmt.Errorf("summary: chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return Fail(c.ID, fmt.Errorf("summary: empty response for %s", c.ID))
	}

	summary := models.CaselawSummary{
		Base:                models.Base{CreatedAt: time.Now().UTC()},
		ID:                  summaryID,
		CaselawID:           c.ID,
		Court:               c.Court,
		Division:            c.Division,
		Year:                c.Year,
		Number:              c.Number,
		CiteAs:              c.CiteAs,
		Text:                resp.Choices[0].Message.Content,
		AIModel:             g.model,
		AITimestamp:         time.Now().UTC(),
		SourceTextLength:    sourceLength,
		SourceTextTruncated: truncated,
	}
	return OK(c.ID, summary)
}
