package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/blobstore"
	"github.com/i-dot-ai/lex-sub001/internal/chunking"
	"github.com/i-dot-ai/lex-sub001/internal/fetch"
	"github.com/ledongthuc/pdf"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// DefaultModel is the vision-capable chat model used for PDF digitisation,
// matching the original's GPT-5-mini OCR default (a heavier model than
// DefaultSummaryModel, since transcription accuracy matters more here
// than summary fluency).
const DefaultModel = "gpt-5-mini"

const ocrPromptTemplate = `Transcribe this page range of a scanned UK legislation document (legislation type: %s, identifier: %s, %s) into plain text.

Preserve section and paragraph numbering, schedule headings, and amendment markers exactly as they appear on the page. Do not summarise, paraphrase, or omit any text. Where a word or character is illegible, mark it with [illegible] rather than guessing.

Output only the transcribed text for these pages, nothing else.`

// Processor digitises one PDF at a time: it chunks the page range,
// uploads the source PDF to blob storage once per chunk for traceability
// (mirroring the original's Azure Blob upload step), and asks a
// vision-capable model to transcribe each chunk, then joins the chunks'
// output back into a single document.
//
// The original physically re-writes each chunk into its own PDF file via
// pypdf's PdfWriter before uploading. github.com/ledongthuc/pdf (the
// teacher's own PDF dependency, used here only to read the page count
// via countPages) is read-only and cannot write new PDFs, so Processor
// instead uploads and sends the whole source PDF per chunk, naming the
// chunk's page range in the prompt and instructing the model to
// transcribe only that range.
type Processor struct {
	client  *openai.Client
	model   string
	blob    *blobstore.Credentials
	bucket  string
	fetcher *fetch.Fetcher
	chunker chunking.Chunker
	logger  *zap.Logger
}

// Config configures a Processor.
type Config struct {
	Endpoint string
	APIKey   string
	Blob     *blobstore.Credentials // nil disables the blob-upload traceability step
	Bucket   string
}

// NewProcessor constructs a Processor against an OpenAI-compatible
// vision-capable chat-completions endpoint.
func NewProcessor(cfg Config, fetcher *fetch.Fetcher, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := openai.NewClient(opts...)
	return &Processor{
		client:  &client,
		model:   DefaultModel,
		blob:    cfg.Blob,
		bucket:  cfg.Bucket,
		fetcher: fetcher,
		chunker: chunking.NewFixedPageChunker(),
		logger:  logger,
	}
}

// Extract fetches pdfURL, splits it into page-range chunks, transcribes
// each chunk, and joins the results. The page count driving chunk
// boundaries is read from the PDF's own cross-reference table via
// countPages; a PDF that fails to parse falls back to a single chunk
// covering the whole (page-count-unknown) document rather than failing
// the whole extraction. The whole extraction runs under a 20-minute
// deadline.
func (p *Processor) Extract(ctx context.Context, pdfURL, legislationType, identifier string) ExtractionResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 20*time.Minute)
	defer cancel()

	resp, err := p.fetcher.Get(ctx, pdfURL)
	if err != nil {
		return p.failure(pdfURL, legislationType, identifier, fmt.Errorf("fetching pdf: %w", err))
	}

	totalPages, err := countPages(resp.Body)
	if err != nil {
		p.logger.Warn("pdf page count failed, falling back to a single chunk",
			zap.String("identifier", identifier), zap.Error(err))
		totalPages = 0
	}

	chunks, err := p.chunker.Chunk(ctx, totalPages, chunking.ChunkOptions{})
	if err != nil {
		return p.failure(pdfURL, legislationType, identifier, fmt.Errorf("chunking pdf: %w", err))
	}
	if len(chunks) == 0 {
		chunks = []chunking.Chunk{{Range: chunking.PageRange{Start: 1, End: 1}, Index: 0}}
	}

	var (
		parts                                     []string
		totalInputTokens, totalOutputTokens       int
		totalCachedTokens                         int
		lastResponseID                            string
	)

	for _, chunk := range chunks {
		if p.blob != nil {
			objectKey := fmt.Sprintf("%s/%s/chunk-%d.pdf", legislationType, strings.ReplaceAll(identifier, "/", "_"), chunk.Index)
			if _, err := p.blob.UploadObject(ctx, p.bucket, objectKey, resp.Body, "application/pdf"); err != nil {
				p.logger.Warn("ocr chunk upload failed, continuing without blob traceability",
					zap.String("identifier", identifier), zap.Int("chunk", chunk.Index), zap.Error(err))
			}
		}

		text, usage, err := p.transcribeChunk(ctx, resp.Body, legislationType, identifier, chunk, totalPages)
		if err != nil {
			return p.failure(pdfURL, legislationType, identifier, fmt.Errorf("transcribing chunk %d: %w", chunk.Index, err))
		}
		parts = append(parts, text)
		totalInputTokens += usage.input
		totalOutputTokens += usage.output
		totalCachedTokens += usage.cached
		lastResponseID = usage.responseID
	}

	return ExtractionResult{
		ExtractedData: strings.Join(parts, "\n\n"),
		Provenance: ExtractionProvenance{
			Source:                "llm_ocr",
			Model:                 p.model,
			PromptVersion:         PromptVersion,
			Timestamp:             time.Now().UTC(),
			ProcessingTimeSeconds: time.Since(start).Seconds(),
			InputTokens:           totalInputTokens,
			OutputTokens:          totalOutputTokens,
			CachedTokens:          totalCachedTokens,
			ResponseID:            lastResponseID,
		},
		Success:         true,
		PDFSource:       pdfURL,
		LegislationType: legislationType,
		Identifier:      identifier,
	}
}

type chunkUsage struct {
	input, output, cached int
	responseID            string
}

// transcribeChunk sends the PDF as a base64-encoded file content part
// alongside the chunk's text prompt, the same multimodal request shape
// summary.go and amendment_explanation.go use for text-only prompts,
// extended with an inline file attachment for the page image data. The
// prompt names the chunk's page range out of totalPages; when the page
// count is unknown (totalPages 0) it asks for all pages instead.
func (p *Processor) transcribeChunk(ctx context.Context, pdfBytes []byte, legislationType, identifier string, chunk chunking.Chunk, totalPages int) (string, chunkUsage, error) {
	pages := "all pages"
	if totalPages > 0 {
		pages = fmt.Sprintf("pages %d-%d of %d", chunk.Range.Start, chunk.Range.End, totalPages)
	}
	prompt := fmt.Sprintf(ocrPromptTemplate, legislationType, identifier, pages)

	encoded := base64.StdEncoding.EncodeToString(pdfBytes)
	fileName := fmt.Sprintf("%s-%s.pdf", legislationType, strings.ReplaceAll(identifier, "/", "_"))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				{
					OfFile: &openai.ChatCompletionContentPartFileParam{
						File: openai.ChatCompletionContentPartFileFileParam{
							Filename: openai.String(fileName),
							FileData: openai.String("data:application/pdf;base64," + encoded),
						},
					},
				},
			}),
		},
	})
	if err != nil {
		return "", chunkUsage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", chunkUsage{}, fmt.Errorf("empty response for %s/%s chunk %d", legislationType, identifier, chunk.Index)
	}

	usage := chunkUsage{responseID: resp.ID}
	usage.input = int(resp.Usage.PromptTokens)
	usage.output = int(resp.Usage.CompletionTokens)
	usage.cached = int(resp.Usage.PromptTokensDetails.CachedTokens)

	return resp.Choices[0].Message.Content, usage, nil
}

// countPages reads a PDF's page count from its cross-reference table,
// the same ledongthuc/pdf reader-construction-then-NumPage call the
// teacher's own PDFProcessor.Process uses before walking pages.
func countPages(content []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	return reader.NumPage(), nil
}

func (p *Processor) failure(pdfURL, legislationType, identifier string, err error) ExtractionResult {
	p.logger.Warn("pdf digitisation failed", zap.String("identifier", identifier), zap.Error(err))
	return ExtractionResult{
		Success:         false,
		Error:           err.Error(),
		PDFSource:       pdfURL,
		LegislationType: legislationType,
		Identifier:      identifier,
		Provenance: ExtractionProvenance{
			Source:        "llm_ocr",
			Model:         p.model,
			PromptVersion: PromptVersion,
			Timestamp:     time.Now().UTC(),
		},
	}
}
