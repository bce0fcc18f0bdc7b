package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/i-dot-ai/lex-sub001/internal/fetch"
	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/i-dot-ai/lex-sub001/internal/parse"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// DefaultExplanationModel is the chat model used for amendment
// explanations, matching the original's gpt-5-mini default.
const DefaultExplanationModel = "gpt-5-mini"

// provisionTextMaxChars bounds how much of a fetched provision's text is
// fed into the explanation prompt, matching the original's 8 000
// character cap.
const provisionTextMaxChars = 8_000

const amendmentExplanationPromptTemplate = `Analyze this UK legislative amendment and explain what it does in 2-3 clear sentences.

Amendment Details:
- Changed Legislation: %s
- Changed Provision: %s
- Affecting Legislation: %s
- Affecting Provision: %s
- Type of Effect: %s

Changed Provision Text (current version):
%s

Affecting Provision Text (the instruction that makes the change):
%s

Explain: (1) what legal change this makes, (2) the practical impact, (3) use plain language suitable for non-lawyers.`

// ExplanationGenerator generates a plain-language explanation of one
// amendment, grounded on original_source's
// amendment/explanation_generator.py.
type ExplanationGenerator struct {
	client  *openai.Client
	fetcher *fetch.Fetcher
	model   string
	logger  *zap.Logger
}

// NewExplanationGenerator constructs an ExplanationGenerator. fetcher is
// reused to pull the changed/affecting provision's own XML text — the
// same rate-limited fetcher every scraper issues requests through.
func NewExplanationGenerator(endpoint, apiKey string, fetcher *fetch.Fetcher, logger *zap.Logger) *ExplanationGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	client := openai.NewClient(opts...)
	return &ExplanationGenerator{client: &client, fetcher: fetcher, model: DefaultExplanationModel, logger: logger}
}

// fetchProvisionText fetches a provision's data.xml and returns its
// concatenated text content, truncated to provisionTextMaxChars. Any
// fetch failure is swallowed (returns "", matching the original's
// log-and-continue behaviour — a missing provision text degrades the
// explanation's quality but must not fail the whole amendment).
func (g *ExplanationGenerator) fetchProvisionText(ctx context.Context, provisionURL string) string {
	if provisionURL == "" {
		return ""
	}
	resp, err := g.fetcher.Get(ctx, provisionURL+"/data.xml")
	if err != nil {
		g.logger.Warn("failed to fetch provision text", zap.String("url", provisionURL), zap.Error(err))
		return ""
	}
	text := extractXMLText(resp.Body)
	text = strings.TrimSpace(text)
	if len(text) > provisionTextMaxChars {
		text = text[:provisionTextMaxChars] + "... [truncated]"
	}
	return text
}

// Generate produces an amendment with AIExplanation populated.
func (g *ExplanationGenerator) Generate(ctx context.Context, a models.Amendment) Outcome {
	changedText := g.fetchProvisionText(ctx, a.ChangedProvisionURL)
	affectingText := g.fetchProvisionText(ctx, a.AffectingProvisionURL)

	prompt := fmt.Sprintf(amendmentExplanationPromptTemplate,
		orNA(a.ChangedLegislation), orNA(a.ChangedProvision),
		orNA(a.AffectingLegislation), orNA(a.AffectingProvision), orNA(a.TypeOfEffect),
		orUnavailable(changedText, "[Not available - provision may not exist or have been repealed]"),
		orUnavailable(affectingText, "[Not available]"),
	)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		g.logger.Warn("amendment explanation generation failed", zap.String("amendment_id", a.ID), zap.Error(err))
		return Fail(a.ID, fmt.Errorf("explanation: chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return Fail(a.ID, fmt.Errorf("explanation: empty response for %s", a.ID))
	}

	a.AIExplanation = resp.Choices[0].Message.Content
	return OK(a.ID, a)
}

// extractXMLText parses an XML document and returns its full descendant
// text content, the same coarse "every text node joined together"
// extraction the original applies via ElementTree.iter() rather than a
// schema-aware parse, since a provision fragment may come back as CLML,
// a bare snippet, or something else entirely.
func extractXMLText(data []byte) string {
	root, err := parse.ParseXML(strings.NewReader(string(data)))
	if err != nil {
		return ""
	}
	return root.Text()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orUnavailable(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
