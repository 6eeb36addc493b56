// services/generator_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"pillar-log-system/models"
	"pillar-log-system/utils"
)

// ReviewRequest is the context handed to the text generator: the 7-day log
// window plus the operator's goals.
type ReviewRequest struct {
	Username string
	Domain   models.UserDomain
	Goals    models.Goals
	Logs     []models.DailyLog
}

// ReviewGenerator produces free text from a review request. The output has
// no further contract — it is stored verbatim.
type ReviewGenerator interface {
	GenerateReview(ctx context.Context, req ReviewRequest) (string, error)
}

// GeneratorClient talks to an OpenAI-compatible chat-completions endpoint.
type GeneratorClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGeneratorClient(baseURL, apiKey, model string) *GeneratorClient {
	return &GeneratorClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		Client:  utils.HTTPClient,
	}
}

// NewGeneratorClientFromEnv reads GENERATOR_API_URL, GENERATOR_API_KEY and
// GENERATOR_MODEL. Returns nil if the endpoint is not configured.
func NewGeneratorClientFromEnv() *GeneratorClient {
	baseURL := os.Getenv("GENERATOR_API_URL")
	apiKey := os.Getenv("GENERATOR_API_KEY")
	if baseURL == "" || apiKey == "" {
		return nil
	}
	model := os.Getenv("GENERATOR_MODEL")
	if model == "" {
		model = "meta/llama-3.1-70b-instruct"
	}
	return NewGeneratorClient(baseURL, apiKey, model)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateReview posts the assembled prompt and returns the raw text of the
// first choice. Blocking, no retry; transport timeout comes from the shared
// client.
func (c *GeneratorClient) GenerateReview(ctx context.Context, req ReviewRequest) (string, error) {
	body, _ := json.Marshal(chatCompletionRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildReviewPrompt(req)}},
		Temperature: 0.7,
		TopP:        1,
		MaxTokens:   1024,
	})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", &UpstreamError{Service: "generator", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Service: "generator", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[GENERATOR] endpoint returned %d: %.200s", resp.StatusCode, string(respBody))
		return "", &UpstreamError{Service: "generator", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", &UpstreamError{Service: "generator", Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &UpstreamError{Service: "generator", Err: fmt.Errorf("empty choices")}
	}
	return out.Choices[0].Message.Content, nil
}

func buildReviewPrompt(req ReviewRequest) string {
	type promptLog struct {
		Date   string  `json:"date"`
		Body   int     `json:"body"`
		Mind   int     `json:"mind"`
		Money  float64 `json:"money"`
		Skill  int     `json:"skill"`
		WarLog string  `json:"war_log"`
	}
	window := make([]promptLog, 0, len(req.Logs))
	for i := range req.Logs {
		l := &req.Logs[i]
		window = append(window, promptLog{
			Date:   l.Day().Format("2006-01-02"),
			Body:   l.BodyEnergy,
			Mind:   l.MindFocus,
			Money:  l.MoneyValue,
			Skill:  l.SkillDifficulty,
			WarLog: l.WarLog,
		})
	}
	data, _ := json.Marshal(window)

	return fmt.Sprintf(`ROLE: Ruthless Drill Sergeant / Elite Performance Coach.
USER: %s (%s Operator).
GOAL: %s.
ANTI-GOAL: %s.

DATA (Last 7 Days Logs):
%s

INSTRUCTIONS:
1. Analyze the performance data ruthlessly.
2. Identify WEAKNESSES and PATTERNS of failure.
3. Compare against the GOAL and ANTI-GOAL.
4. Provide a brutal, short, actionable review.
5. Format as Markdown.

OUTPUT STRUCTURE:
## SITREP
(Summary of the week's performance. Call out laziness.)

## TACTICAL ERRORS
(Bulleted list of specific failures from the logs.)

## DIRECTIVES
(3 specific commands for next week.)

TONE: Harsh, direct, military, no fluff.`,
		req.Username, req.Domain, req.Goals.MainQuest, req.Goals.TheEnemy, string(data))
}
