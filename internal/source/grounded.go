package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// OpenAISearch implements GroundedSearch over the OpenAI chat API. The
// model is instructed to answer with the four tagged verdict lines plus
// EVIDENCE lines carrying source URLs with per-source confidence; the
// adapter splits the evidence out before the reply is parsed.
type OpenAISearch struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

const searchSystemPrompt = `You verify factual claims about Korean travel destinations using current web knowledge.
Reply with exactly these tagged lines:
VERIFICATION_STATUS: verified | false | unknown
CONFIDENCE: <0-100>
CORRECT_VALUE: <corrected value, or none>
DETAILS: <one-line rationale>
After those, list supporting sources as lines of the form:
EVIDENCE: <url> <confidence 0-100>
If you cannot determine the answer, say unknown. Never guess.`

// NewOpenAISearch creates a grounded-search adapter. A missing API key is
// a configuration error, rejected before any claim is processed.
func NewOpenAISearch(cfg model.SearchConfig) (*OpenAISearch, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key is required (set OPENAI_API_KEY)")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	searchModel := cfg.Model
	if searchModel == "" {
		searchModel = openai.GPT4oMini
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &OpenAISearch{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     searchModel,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// Ask sends the verification prompt and returns the raw reply with any
// evidence lines split out.
func (s *OpenAISearch) Ask(ctx context.Context, prompt string) (*SearchReply, error) {
	const op = "grounded search"

	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: searchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: 0.2,
	}

	resp, err := s.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return nil, classifyOpenAIError(op, err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewTransient(op, fmt.Errorf("empty response"))
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	text, evidence := splitEvidence(raw)

	return &SearchReply{RawText: text, Evidence: evidence}, nil
}

var evidencePattern = regexp.MustCompile(`(?i)^\s*EVIDENCE\s*:\s*(\S+)(?:\s+(\d+))?\s*$`)

// splitEvidence peels EVIDENCE lines off the reply. Lines without a score
// default to 50; malformed lines stay in the text and are ignored.
func splitEvidence(raw string) (string, []EvidenceChunk) {
	var kept []string
	var evidence []EvidenceChunk

	for _, line := range strings.Split(raw, "\n") {
		m := evidencePattern.FindStringSubmatch(line)
		if m == nil {
			kept = append(kept, line)
			continue
		}

		chunk := EvidenceChunk{URL: strings.TrimRight(m[1], ".,;"), Confidence: 50}
		if m[2] != "" {
			if n, err := strconv.Atoi(m[2]); err == nil {
				chunk.Confidence = clamp(n, 0, 100)
			}
		}
		evidence = append(evidence, chunk)
	}

	return strings.TrimSpace(strings.Join(kept, "\n")), evidence
}

// classifyOpenAIError maps API failures to the transient/terminal split.
// 401/403 and quota exhaustion are terminal; 429 without a quota message
// is an ordinary rate limit and retries.
func classifyOpenAIError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return NewTerminal(op, err)
		case http.StatusTooManyRequests:
			if classifyMessage(apiErr.Message) == ClassTerminal {
				return NewTerminal(op, err)
			}
			return NewTransient(op, err)
		}
		if classifyMessage(apiErr.Message) == ClassTerminal {
			return NewTerminal(op, err)
		}
		return NewTransient(op, err)
	}

	if classifyMessage(err.Error()) == ClassTerminal {
		return NewTerminal(op, err)
	}
	return NewTransient(op, err)
}
